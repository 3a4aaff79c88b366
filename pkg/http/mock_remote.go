package http

import (
	"context"
	"fmt"
	"sync"

	"github.com/vista85/vista-sync/pkg/models"
)

// MockRemote is a mock implementation of the remote data service for testing.
type MockRemote struct {
	mu sync.Mutex

	// Mock remote state
	Session      *models.Session
	Wallets      map[string]*models.Wallet
	Transactions map[string]*models.Transaction

	// Calls records every operation in invocation order, formatted as
	// "upsert:wallets:<id>" / "delete:transactions:<id>".
	Calls []string

	// Error values to return
	UpsertWalletErr      error
	UpsertTransactionErr error
	DeleteErr            error
	FetchAllErr          error
	PingErr              error

	// FailIDs maps entity IDs to errors, letting a test fail one specific
	// queue entry while others succeed.
	FailIDs map[string]error

	// Started, when set, is signalled when an upsert/delete begins; Gate,
	// when set, is then received from, letting a test hold a drainage pass
	// open at a known point.
	Started chan struct{}
	Gate    chan struct{}
}

// NewMockRemote creates a new mock remote data service.
func NewMockRemote() *MockRemote {
	return &MockRemote{
		Wallets:      make(map[string]*models.Wallet),
		Transactions: make(map[string]*models.Transaction),
		FailIDs:      make(map[string]error),
	}
}

// SetSession binds or unbinds the mock session.
func (m *MockRemote) SetSession(session *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Session = session
}

func (m *MockRemote) wait() {
	if m.Started != nil {
		m.Started <- struct{}{}
	}
	if m.Gate != nil {
		<-m.Gate
	}
}

func (m *MockRemote) record(action, table, id string) {
	m.Calls = append(m.Calls, fmt.Sprintf("%s:%s:%s", action, table, id))
}

// CallCount returns the number of recorded remote operations.
func (m *MockRemote) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// UpsertWallet stores the wallet in the mock remote state.
func (m *MockRemote) UpsertWallet(ctx context.Context, w *models.Wallet) error {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Session == nil {
		return ErrUnauthenticated
	}
	if m.UpsertWalletErr != nil {
		return m.UpsertWalletErr
	}
	if err, ok := m.FailIDs[w.ID]; ok {
		return err
	}
	m.record(models.ActionUpsert, models.TableWallets, w.ID)
	copied := *w
	copied.UserID = m.Session.UserID
	m.Wallets[w.ID] = &copied
	return nil
}

// UpsertTransaction stores the transaction in the mock remote state.
func (m *MockRemote) UpsertTransaction(ctx context.Context, t *models.Transaction) error {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Session == nil {
		return ErrUnauthenticated
	}
	if m.UpsertTransactionErr != nil {
		return m.UpsertTransactionErr
	}
	if err, ok := m.FailIDs[t.ID]; ok {
		return err
	}
	m.record(models.ActionUpsert, models.TableTransactions, t.ID)
	copied := *t
	copied.UserID = m.Session.UserID
	m.Transactions[t.ID] = &copied
	return nil
}

// Delete removes the entity from the mock remote state.
func (m *MockRemote) Delete(ctx context.Context, table, id string) error {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Session == nil {
		return ErrUnauthenticated
	}
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if err, ok := m.FailIDs[id]; ok {
		return err
	}
	m.record(models.ActionDelete, table, id)
	switch table {
	case models.TableWallets:
		delete(m.Wallets, id)
	case models.TableTransactions:
		delete(m.Transactions, id)
	}
	return nil
}

// FetchAll returns the mock remote state scoped to the bound user.
func (m *MockRemote) FetchAll(ctx context.Context) ([]*models.Wallet, []*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Session == nil {
		return nil, nil, ErrUnauthenticated
	}
	if m.FetchAllErr != nil {
		return nil, nil, m.FetchAllErr
	}
	var wallets []*models.Wallet
	for _, w := range m.Wallets {
		if w.UserID == m.Session.UserID {
			wallets = append(wallets, w)
		}
	}
	var transactions []*models.Transaction
	for _, t := range m.Transactions {
		if t.UserID == m.Session.UserID {
			transactions = append(transactions, t)
		}
	}
	return wallets, transactions, nil
}

// Ping returns the configured ping error, if any.
func (m *MockRemote) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PingErr
}
