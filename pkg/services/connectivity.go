package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Pinger is the slice of the remote surface the monitor needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor watches connectivity to the remote and drives the sync engine's
// online/offline state. There are exactly two states; the offline-to-online
// edge triggers drainage via Syncer.SetOnline.
type Monitor struct {
	syncer   *Syncer
	pinger   Pinger
	interval time.Duration
}

// NewMonitor creates a connectivity monitor probing the remote every
// interval.
func NewMonitor(syncer *Syncer, pinger Pinger, interval time.Duration) *Monitor {
	return &Monitor{
		syncer:   syncer,
		pinger:   pinger,
		interval: interval,
	}
}

// Start probes once immediately to establish the initial state, then keeps
// probing until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	m.probe(ctx)

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.probe(ctx)
			}
		}
	}()
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := m.pinger.Ping(probeCtx)
	if err != nil {
		log.Debug().Err(err).Msg("connectivity probe failed")
	}
	m.syncer.SetOnline(err == nil)
}
