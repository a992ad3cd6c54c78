package shutdown

import (
	"context"
	"sync"
	"time"

	"github.com/DeSent79/miku-bot/internal/logger"
)

type Component interface {
	Shutdown(ctx context.Context) error
	Name() string
}

type Manager struct {
	components []Component
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		components: make([]Component, 0),
	}
}

func (m *Manager) Register(component Component) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component)
	logger.Info("registered shutdown component", logger.String("component", component.Name()))
}

func (m *Manager) Shutdown(timeout time.Duration) error {
	logger.Info("initiating graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	m.mu.RLock()
	components := make([]Component, len(m.components))
	copy(components, m.components)
	m.mu.RUnlock()

	var wg sync.WaitGroup
	errs := make(chan error, len(components))

	// Shutdown in reverse order (LIFO)
	for i := len(components) - 1; i >= 0; i-- {
		component := components[i]
		wg.Add(1)

		go func(comp Component) {
			defer wg.Done()
			logger.Info("shutting down component", logger.String("component", comp.Name()))

			if err := comp.Shutdown(ctx); err != nil {
				logger.Error("error shutting down component",
					logger.String("component", comp.Name()), logger.ErrorField(err))
				errs <- err
			}
		}(component)

		time.Sleep(100 * time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("all components shut down")
		return nil
	case <-ctx.Done():
		logger.Error("shutdown timed out")
		return ctx.Err()
	}
}
