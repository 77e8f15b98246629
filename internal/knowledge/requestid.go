package knowledge

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces request ids of the form <millis36>-<seq36>-<rand>.
// The process-wide sequence makes ids pairwise distinct; the random tail only
// keeps ids from separate processes apart.
type IDGenerator struct {
	seq atomic.Uint64
	now func() time.Time
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

func (g *IDGenerator) Next() string {
	n := g.seq.Add(1)
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return strconv.FormatInt(g.now().UnixMilli(), 36) + "-" + strconv.FormatUint(n, 36) + "-" + random
}
