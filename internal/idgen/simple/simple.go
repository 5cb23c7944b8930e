package simple

import (
	"context"
	"sync"
)

// Generator hands out strictly increasing identifiers starting at 1.
// There is no way to reset it once created.
type Generator struct {
	mu      sync.Mutex
	counter int
}

func New() *Generator {
	//nolint:exhaustruct
	return &Generator{}
}

func (g *Generator) GetID(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.counter++

	return g.counter, nil
}

// Observe moves the counter past an identifier that was assigned elsewhere,
// so later calls to GetID never collide with it.
func (g *Generator) Observe(id int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id > g.counter {
		g.counter = id
	}
}
