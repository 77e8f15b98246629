package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKeepsSupported(t *testing.T) {
	for _, code := range []string{"zh", "en", "es", "fr", "ru", "ar", "de", "ja"} {
		assert.Equal(t, code, Normalize(code), "supported code %q must pass through", code)
	}
}

func TestNormalizeFallsBackToEnglish(t *testing.T) {
	for _, code := range []string{"", "xx", "EN", "en-US", " en", "pt", "zh-CN"} {
		assert.Equal(t, Default, Normalize(code), "code %q", code)
	}
}

func TestSupportedReturnsCopy(t *testing.T) {
	s := Supported()
	assert.Len(t, s, 8)
	s[0] = "xx"
	assert.True(t, IsSupported("zh"))
	assert.False(t, IsSupported("xx"))
}
