package shutdown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingComponent struct {
	name  string
	mu    *sync.Mutex
	order *[]string
	block bool
}

func (c *recordingComponent) Shutdown(ctx context.Context) error {
	if c.block {
		<-ctx.Done()
		return ctx.Err()
	}
	c.mu.Lock()
	*c.order = append(*c.order, c.name)
	c.mu.Unlock()
	return nil
}

func (c *recordingComponent) Name() string { return c.name }

func TestShutdownRunsInReverseOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string

	manager := NewManager()
	manager.Register(&recordingComponent{name: "first", mu: &mu, order: &order})
	manager.Register(&recordingComponent{name: "second", mu: &mu, order: &order})

	require.NoError(t, manager.Shutdown(time.Second))
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestShutdownTimesOutOnStuckComponent(t *testing.T) {
	var mu sync.Mutex
	var order []string

	manager := NewManager()
	manager.Register(&recordingComponent{name: "stuck", mu: &mu, order: &order, block: true})

	err := manager.Shutdown(200 * time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
