package knowledge

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGeneratorConcurrentUniqueness(t *testing.T) {
	g := NewIDGenerator()
	frozen := time.UnixMilli(1_700_000_000_000)
	g.now = func() time.Time { return frozen }

	const workers, perWorker = 8, 250
	ids := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				ids <- g.Next()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, workers*perWorker)
	for id := range ids {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestIDGeneratorFormat(t *testing.T) {
	g := NewIDGenerator()
	parts := strings.Split(g.Next(), "-")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 6)
	assert.Equal(t, "1", parts[1])
}
