package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/vista85/vista-sync/db"
	"github.com/vista85/vista-sync/pkg/http"
	"github.com/vista85/vista-sync/pkg/models"
)

// Syncer orchestrates optimistic local writes, the sync queue, and its
// drainage against the remote data service.
type Syncer struct {
	store    db.StoreInterface
	remote   http.RemoteInterface
	notifier Notifier
	validate *validator.Validate

	mu      sync.Mutex
	session *models.Session

	online  atomic.Bool
	syncing atomic.Bool

	// fullSyncPending marks a session bound while the remote was
	// unreachable; the next drainage pass completes the overwrite first.
	fullSyncPending atomic.Bool

	// wake is buffered so a kick never blocks the mutating caller; the
	// drain loop picks it up with at-least-once semantics.
	wake chan struct{}
}

// Option customizes a Syncer.
type Option func(*Syncer)

// WithNotifier replaces the default log-backed notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Syncer) { s.notifier = n }
}

// NewSyncer creates a new sync engine over the given store and remote.
func NewSyncer(store db.StoreInterface, remote http.RemoteInterface, opts ...Option) *Syncer {
	s := &Syncer{
		store:    store,
		remote:   remote,
		notifier: logNotifier{},
		validate: validator.New(),
		wake:     make(chan struct{}, 1),
	}
	s.online.Store(true)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the background drain loop until ctx is cancelled. Mutations
// never wait on the network; they kick this loop instead.
func (s *Syncer) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
				if err := s.FlushQueue(ctx); err != nil {
					log.Warn().Err(err).Msg("background sync pass failed")
				}
			}
		}
	}()
}

func (s *Syncer) kick() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// BindSession binds the authenticated session, pulls the remote's
// authoritative copies into the local store, and kicks drainage to flush
// anything queued before the session was bound. When the remote is
// unreachable the bind still succeeds: the overwrite is deferred to the next
// drainage pass so local work can continue offline. A rejected session is
// unbound again and the error surfaced.
func (s *Syncer) BindSession(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	s.remote.SetSession(session)

	if err := s.FullSync(ctx); err != nil {
		if errors.Is(err, http.ErrUnauthenticated) {
			s.UnbindSession()
			return err
		}
		s.fullSyncPending.Store(true)
		s.notifier.Info("remote unreachable, data will refresh when back online")
		log.Warn().Err(err).Msg("full sync deferred")
	}

	s.kick()
	return nil
}

// UnbindSession clears the session; drainage refuses work until the next
// bind.
func (s *Syncer) UnbindSession() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	s.remote.SetSession(nil)
	s.fullSyncPending.Store(false)
}

// Session returns the currently bound session, or nil.
func (s *Syncer) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// SetOnline flips the connectivity flag. The offline-to-online transition
// kicks drainage.
func (s *Syncer) SetOnline(online bool) {
	was := s.online.Swap(online)
	if online && !was {
		log.Info().Msg("device is online")
		s.kick()
	} else if !online && was {
		log.Info().Msg("device is offline, sync deferred")
	}
}

// Online reports the current connectivity state.
func (s *Syncer) Online() bool {
	return s.online.Load()
}

// FullSync overwrites the local entity tables with the remote's copies.
func (s *Syncer) FullSync(ctx context.Context) error {
	session := s.Session()
	if session == nil {
		return http.ErrUnauthenticated
	}

	wallets, transactions, err := s.remote.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch remote state: %w", err)
	}

	if err := s.store.ReplaceWallets(session.UserID, wallets); err != nil {
		return err
	}
	if err := s.store.ReplaceTransactions(session.UserID, transactions); err != nil {
		return err
	}

	log.Info().
		Int("wallets", len(wallets)).
		Int("transactions", len(transactions)).
		Msg("local store replaced with remote state")
	return nil
}

// Wallets returns the bound user's wallets from the local store.
func (s *Syncer) Wallets() ([]*models.Wallet, error) {
	session := s.Session()
	if session == nil {
		return nil, http.ErrUnauthenticated
	}
	return s.store.GetWallets(session.UserID)
}

// Transactions returns the bound user's transactions from the local store.
func (s *Syncer) Transactions() ([]*models.Transaction, error) {
	session := s.Session()
	if session == nil {
		return nil, http.ErrUnauthenticated
	}
	return s.store.GetTransactions(session.UserID)
}
