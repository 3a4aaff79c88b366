package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vista85/vista-sync/pkg/models"
)

// PartialSyncError reports a drainage pass that stopped partway through the
// queue. Entries drained before the failure stay drained; the failing entry
// and everything after it remain queued for a later retry.
type PartialSyncError struct {
	Synced    int
	Remaining int
	Err       error
}

func (e *PartialSyncError) Error() string {
	return fmt.Sprintf("sync stopped after %d of %d entries: %v", e.Synced, e.Synced+e.Remaining, e.Err)
}

func (e *PartialSyncError) Unwrap() error {
	return e.Err
}

// FlushQueue drains the sync queue against the remote in timestamp order.
// It is safe to call redundantly: it no-ops when offline, when no session is
// bound, or when another pass is already in flight, and an empty queue
// produces no remote calls and no notifications.
func (s *Syncer) FlushQueue(ctx context.Context) error {
	if !s.Online() {
		log.Debug().Msg("offline, sync deferred")
		return nil
	}
	if s.Session() == nil {
		return nil
	}
	if !s.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer s.syncing.Store(false)

	// A bind that happened offline still owes the local store the remote's
	// authoritative copies; settle that debt before replaying the queue.
	if s.fullSyncPending.Load() {
		if err := s.FullSync(ctx); err != nil {
			return fmt.Errorf("failed to complete deferred full sync: %w", err)
		}
		s.fullSyncPending.Store(false)
	}

	queue, err := s.store.PendingMutations()
	if err != nil {
		return fmt.Errorf("failed to read sync queue: %w", err)
	}
	if len(queue) == 0 {
		return nil
	}

	s.notifier.Info(fmt.Sprintf("syncing %d pending changes", len(queue)))

	synced := 0
	for _, m := range queue {
		if err := s.replay(ctx, m); err != nil {
			log.Error().Err(err).
				Int64("id", m.ID).
				Str("action", m.Action).
				Str("table", m.Table).
				Msg("failed to sync queued mutation, it will stay queued")
			s.notifier.Error("sync failed, changes kept for retry")
			return &PartialSyncError{Synced: synced, Remaining: len(queue) - synced, Err: err}
		}
		if err := s.store.DeleteMutation(m.ID); err != nil {
			// The remote call already landed; the entry stays queued and
			// is replayed next pass, which the remote tolerates.
			s.notifier.Error("sync failed, changes kept for retry")
			return &PartialSyncError{
				Synced:    synced,
				Remaining: len(queue) - synced,
				Err:       fmt.Errorf("failed to dequeue mutation %d: %w", m.ID, err),
			}
		}
		log.Debug().Int64("id", m.ID).Str("action", m.Action).Str("table", m.Table).Msg("mutation synced")
		synced++
	}

	s.notifier.Success(fmt.Sprintf("sync complete, %d changes processed", synced))
	return nil
}

// replay performs the remote call a queued mutation stands for. A mutation
// is dequeued if and only if this returns nil.
func (s *Syncer) replay(ctx context.Context, m *models.Mutation) error {
	switch m.Action {
	case models.ActionUpsert:
		switch m.Table {
		case models.TableWallets:
			var w models.Wallet
			if err := json.Unmarshal(m.Payload, &w); err != nil {
				return fmt.Errorf("failed to decode wallet payload: %w", err)
			}
			return s.remote.UpsertWallet(ctx, &w)
		case models.TableTransactions:
			var t models.Transaction
			if err := json.Unmarshal(m.Payload, &t); err != nil {
				return fmt.Errorf("failed to decode transaction payload: %w", err)
			}
			return s.remote.UpsertTransaction(ctx, &t)
		default:
			return fmt.Errorf("unknown table %q", m.Table)
		}
	case models.ActionDelete:
		var ref models.DeleteRef
		if err := json.Unmarshal(m.Payload, &ref); err != nil {
			return fmt.Errorf("failed to decode delete payload: %w", err)
		}
		return s.remote.Delete(ctx, m.Table, ref.ID)
	default:
		return fmt.Errorf("unknown action %q", m.Action)
	}
}
