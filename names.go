package pgwire

import (
	"fmt"
	"sync/atomic"
)

// nameGenerator mints unique server-side names for prepared statements and
// portals. The teacher's cache.go tracks statements/portals by name for
// server-side lookup; a client never looks a statement back up by name (the
// caller already holds the *Statement), so the only thing carried over is
// the need for collision-free names, generated here rather than cached.
type nameGenerator struct {
	counter atomic.Uint64
}

func (g *nameGenerator) next(prefix string) string {
	n := g.counter.Add(1)
	return fmt.Sprintf("%s_%d", prefix, n)
}
