// Package language holds the closed set of answer languages shared by the
// search endpoint and the contribution channel.
package language

import "slices"

// Default is substituted for anything outside the supported set.
const Default = "en"

var supported = []string{"zh", "en", "es", "fr", "ru", "ar", "de", "ja"}

// Supported returns a copy of the supported language codes in display order.
func Supported() []string {
	return slices.Clone(supported)
}

// IsSupported reports whether code is an exact member of the supported set.
func IsSupported(code string) bool {
	return slices.Contains(supported, code)
}

// Normalize returns code unchanged when supported and Default otherwise.
// It never rejects input.
func Normalize(code string) string {
	if IsSupported(code) {
		return code
	}
	return Default
}
