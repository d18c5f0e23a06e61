package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	Run(ctx context.Context) error
}

// Manager manages a collection of services.
type Manager struct {
	services []Service
	mu       sync.Mutex // Protects access to the services slice
	wg       *errgroup.Group
}

func NewManager() *Manager {
	return &Manager{services: make([]Service, 0)}
}

// Register adds a new service to the Manager.
func (sm *Manager) Register(s ...Service) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.services = append(sm.services, s...)
}

// Run runs all registered services concurrently using an errgroup. The first
// service returning an error other than context cancellation stops the rest.
func (sm *Manager) Run(ctx context.Context) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.services) == 0 {
		return
	}

	group, ctx := errgroup.WithContext(ctx)
	for _, s := range sm.services {
		group.Go(func() error {
			err := s.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("service stopped with error")
				return err
			}
			return nil
		})
	}
	sm.wg = group
}

// Wait blocks until all services stopped and returns the first error.
func (sm *Manager) Wait() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if len(sm.services) == 0 || sm.wg == nil {
		return nil
	}
	return sm.wg.Wait()
}
