package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vista85/vista-sync/db"
	"github.com/vista85/vista-sync/pkg/http"
	"github.com/vista85/vista-sync/pkg/models"
)

// WalletDraft carries the user-editable fields of a new wallet.
type WalletDraft struct {
	Name        string
	ParentID    string
	Description string
	ImageURL    string
	Color       string
}

// TransactionDraft carries the user-editable fields of a new transaction.
type TransactionDraft struct {
	WalletID    string
	Type        string
	Category    string
	Amount      float64
	Description string
	Date        string
	IsPaid      bool
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// propagate pushes an already-applied local mutation to the remote: inline
// when online, queued otherwise or when the inline call fails. If the
// mutation cannot be made durable at all (unbound session, enqueue failure),
// the local store is rolled back to the pre-mutation snapshot.
func (s *Syncer) propagate(ctx context.Context, m *models.Mutation, inline func(context.Context) error, rollback func() error) error {
	if s.inlineAllowed() {
		err := inline(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, http.ErrUnauthenticated) {
			if rbErr := rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("failed to roll back local mutation")
			}
			return err
		}
		log.Warn().Err(err).
			Str("table", m.Table).
			Str("action", m.Action).
			Msg("inline sync failed, queueing mutation")
	}

	if err := s.store.Enqueue(m); err != nil {
		if rbErr := rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to roll back local mutation")
		}
		return fmt.Errorf("failed to queue mutation: %w", err)
	}

	s.kick()
	return nil
}

// inlineAllowed reports whether a mutation may bypass the queue. A non-empty
// queue forces queueing so replay order stays non-decreasing: an inline call
// must never overtake an older pending mutation on the remote.
func (s *Syncer) inlineAllowed() bool {
	if !s.Online() {
		return false
	}
	pending, err := s.store.PendingMutations()
	if err != nil {
		return false
	}
	return len(pending) == 0
}

func upsertMutation(table string, entity any, timestamp string) (*models.Mutation, error) {
	payload, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return &models.Mutation{
		Action:    models.ActionUpsert,
		Table:     table,
		Payload:   payload,
		Timestamp: timestamp,
	}, nil
}

func deleteMutation(table, id, timestamp string) *models.Mutation {
	payload, _ := json.Marshal(models.DeleteRef{ID: id})
	return &models.Mutation{
		Action:    models.ActionDelete,
		Table:     table,
		Payload:   payload,
		Timestamp: timestamp,
	}
}

func (s *Syncer) checkParent(parentID, userID string) error {
	if parentID == "" {
		return nil
	}
	parent, err := s.store.GetWallet(parentID)
	if err != nil {
		return err
	}
	if parent == nil || parent.UserID != userID {
		return fmt.Errorf("parent wallet %s does not belong to the user", parentID)
	}
	return nil
}

// CreateWallet creates a wallet locally and propagates it to the remote.
func (s *Syncer) CreateWallet(ctx context.Context, draft WalletDraft) (*models.Wallet, error) {
	session := s.Session()
	if session == nil {
		return nil, http.ErrUnauthenticated
	}

	ts := now()
	wallet := &models.Wallet{
		ID:          uuid.NewString(),
		UserID:      session.UserID,
		Name:        draft.Name,
		Balance:     0,
		Currency:    models.DefaultCurrency,
		CreatedAt:   ts,
		UpdatedAt:   ts,
		ParentID:    draft.ParentID,
		Description: draft.Description,
		ImageURL:    draft.ImageURL,
		Color:       draft.Color,
	}

	if err := s.validate.Struct(wallet); err != nil {
		return nil, fmt.Errorf("invalid wallet: %w", err)
	}
	if err := s.checkParent(wallet.ParentID, session.UserID); err != nil {
		return nil, err
	}

	if err := s.store.SaveWallet(wallet); err != nil {
		return nil, err
	}

	m, err := upsertMutation(models.TableWallets, wallet, ts)
	if err != nil {
		return nil, err
	}
	err = s.propagate(ctx, m,
		func(ctx context.Context) error { return s.remote.UpsertWallet(ctx, wallet) },
		func() error { return s.store.RemoveWallet(wallet.ID) })
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// UpdateWallet applies the given wallet state locally and propagates it.
func (s *Syncer) UpdateWallet(ctx context.Context, wallet *models.Wallet) error {
	session := s.Session()
	if session == nil {
		return http.ErrUnauthenticated
	}

	prev, err := s.store.GetWallet(wallet.ID)
	if err != nil {
		return err
	}
	if prev == nil {
		return fmt.Errorf("wallet %s: %w", wallet.ID, db.ErrNotFound)
	}

	ts := now()
	wallet.UpdatedAt = ts

	if err := s.validate.Struct(wallet); err != nil {
		return fmt.Errorf("invalid wallet: %w", err)
	}
	if err := s.checkParent(wallet.ParentID, session.UserID); err != nil {
		return err
	}

	if err := s.store.UpdateWallet(wallet); err != nil {
		return err
	}

	m, err := upsertMutation(models.TableWallets, wallet, ts)
	if err != nil {
		return err
	}
	return s.propagate(ctx, m,
		func(ctx context.Context) error { return s.remote.UpsertWallet(ctx, wallet) },
		func() error { return s.store.UpdateWallet(prev) })
}

// DeleteWallet removes a wallet and its transactions locally and propagates
// the deletion. The rollback snapshot includes the cascaded transactions.
func (s *Syncer) DeleteWallet(ctx context.Context, id string) error {
	if s.Session() == nil {
		return http.ErrUnauthenticated
	}

	prev, err := s.store.GetWallet(id)
	if err != nil {
		return err
	}
	if prev == nil {
		return fmt.Errorf("wallet %s: %w", id, db.ErrNotFound)
	}
	prevTransactions, err := s.store.GetTransactionsByWallet(id)
	if err != nil {
		return err
	}

	if err := s.store.RemoveWallet(id); err != nil {
		return err
	}

	ts := now()
	rollback := func() error {
		if err := s.store.SaveWallet(prev); err != nil {
			return err
		}
		for _, t := range prevTransactions {
			if err := s.store.SaveTransaction(t); err != nil {
				return err
			}
		}
		return nil
	}
	return s.propagate(ctx, deleteMutation(models.TableWallets, id, ts),
		func(ctx context.Context) error { return s.remote.Delete(ctx, models.TableWallets, id) },
		rollback)
}

// CreateTransaction creates a transaction locally and propagates it.
// Validation rejects non-positive amounts and unknown categories before
// anything reaches the store.
func (s *Syncer) CreateTransaction(ctx context.Context, draft TransactionDraft) (*models.Transaction, error) {
	session := s.Session()
	if session == nil {
		return nil, http.ErrUnauthenticated
	}

	ts := now()
	transaction := &models.Transaction{
		ID:          uuid.NewString(),
		WalletID:    draft.WalletID,
		UserID:      session.UserID,
		Type:        draft.Type,
		Category:    draft.Category,
		Amount:      draft.Amount,
		Description: draft.Description,
		Date:        draft.Date,
		IsPaid:      draft.IsPaid,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	if err := s.validate.Struct(transaction); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	if err := s.store.SaveTransaction(transaction); err != nil {
		return nil, err
	}

	m, err := upsertMutation(models.TableTransactions, transaction, ts)
	if err != nil {
		return nil, err
	}
	err = s.propagate(ctx, m,
		func(ctx context.Context) error { return s.remote.UpsertTransaction(ctx, transaction) },
		func() error { return s.store.RemoveTransaction(transaction.ID) })
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// UpdateTransaction applies the given transaction state locally and
// propagates it.
func (s *Syncer) UpdateTransaction(ctx context.Context, transaction *models.Transaction) error {
	if s.Session() == nil {
		return http.ErrUnauthenticated
	}

	prev, err := s.store.GetTransaction(transaction.ID)
	if err != nil {
		return err
	}
	if prev == nil {
		return fmt.Errorf("transaction %s: %w", transaction.ID, db.ErrNotFound)
	}

	ts := now()
	transaction.UpdatedAt = ts

	if err := s.validate.Struct(transaction); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	if err := s.store.UpdateTransaction(transaction); err != nil {
		return err
	}

	m, err := upsertMutation(models.TableTransactions, transaction, ts)
	if err != nil {
		return err
	}
	return s.propagate(ctx, m,
		func(ctx context.Context) error { return s.remote.UpsertTransaction(ctx, transaction) },
		func() error { return s.store.UpdateTransaction(prev) })
}

// SetTransactionPaid toggles the paid flag on a transaction.
func (s *Syncer) SetTransactionPaid(ctx context.Context, id string, paid bool) error {
	transaction, err := s.store.GetTransaction(id)
	if err != nil {
		return err
	}
	if transaction == nil {
		return fmt.Errorf("transaction %s: %w", id, db.ErrNotFound)
	}
	transaction.IsPaid = paid
	return s.UpdateTransaction(ctx, transaction)
}

// DeleteTransaction removes a transaction locally and propagates the
// deletion.
func (s *Syncer) DeleteTransaction(ctx context.Context, id string) error {
	if s.Session() == nil {
		return http.ErrUnauthenticated
	}

	prev, err := s.store.GetTransaction(id)
	if err != nil {
		return err
	}
	if prev == nil {
		return fmt.Errorf("transaction %s: %w", id, db.ErrNotFound)
	}

	if err := s.store.RemoveTransaction(id); err != nil {
		return err
	}

	return s.propagate(ctx, deleteMutation(models.TableTransactions, id, now()),
		func(ctx context.Context) error { return s.remote.Delete(ctx, models.TableTransactions, id) },
		func() error { return s.store.SaveTransaction(prev) })
}
