package db

import (
	"fmt"
	"sort"

	"github.com/vista85/vista-sync/pkg/models"
)

// MockStore is a mock implementation of the local store for testing.
type MockStore struct {
	// Mock data storage
	Wallets      map[string]*models.Wallet
	Transactions map[string]*models.Transaction
	Queue        []*models.Mutation

	nextMutationID int64

	// Error values to return
	SaveWalletErr        error
	UpdateWalletErr      error
	RemoveWalletErr      error
	SaveTransactionErr   error
	UpdateTransactionErr error
	RemoveTransactionErr error
	EnqueueErr           error
	PendingMutationsErr  error
	DeleteMutationErr    error
}

// NewMockStore creates a new mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		Wallets:      make(map[string]*models.Wallet),
		Transactions: make(map[string]*models.Transaction),
	}
}

// Initialize is a no-op for the mock store.
func (m *MockStore) Initialize() error {
	return nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}

// GetWallet returns a wallet by its ID, or nil when absent.
func (m *MockStore) GetWallet(id string) (*models.Wallet, error) {
	w, ok := m.Wallets[id]
	if !ok {
		return nil, nil
	}
	copied := *w
	return &copied, nil
}

// GetWallets returns all wallets belonging to the given user.
func (m *MockStore) GetWallets(userID string) ([]*models.Wallet, error) {
	wallets := make([]*models.Wallet, 0, len(m.Wallets))
	for _, w := range m.Wallets {
		if w.UserID == userID {
			wallets = append(wallets, w)
		}
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].CreatedAt < wallets[j].CreatedAt })
	return wallets, nil
}

// SaveWallet saves a wallet to the mock store.
func (m *MockStore) SaveWallet(w *models.Wallet) error {
	if m.SaveWalletErr != nil {
		return m.SaveWalletErr
	}
	copied := *w
	m.Wallets[w.ID] = &copied
	return nil
}

// UpdateWallet updates a wallet in the mock store.
func (m *MockStore) UpdateWallet(w *models.Wallet) error {
	if m.UpdateWalletErr != nil {
		return m.UpdateWalletErr
	}
	if _, ok := m.Wallets[w.ID]; !ok {
		return fmt.Errorf("wallet %s: %w", w.ID, ErrNotFound)
	}
	copied := *w
	m.Wallets[w.ID] = &copied
	return nil
}

// RemoveWallet removes a wallet and its transactions from the mock store.
func (m *MockStore) RemoveWallet(id string) error {
	if m.RemoveWalletErr != nil {
		return m.RemoveWalletErr
	}
	if _, ok := m.Wallets[id]; !ok {
		return fmt.Errorf("wallet %s: %w", id, ErrNotFound)
	}
	for txID, t := range m.Transactions {
		if t.WalletID == id {
			delete(m.Transactions, txID)
		}
	}
	delete(m.Wallets, id)
	return nil
}

// ReplaceWallets overwrites the user's wallets in the mock store.
func (m *MockStore) ReplaceWallets(userID string, wallets []*models.Wallet) error {
	for id, w := range m.Wallets {
		if w.UserID == userID {
			delete(m.Wallets, id)
		}
	}
	for _, w := range wallets {
		copied := *w
		m.Wallets[w.ID] = &copied
	}
	return nil
}

// GetTransaction returns a transaction by its ID, or nil when absent.
func (m *MockStore) GetTransaction(id string) (*models.Transaction, error) {
	t, ok := m.Transactions[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

// GetTransactions returns all transactions belonging to the given user.
func (m *MockStore) GetTransactions(userID string) ([]*models.Transaction, error) {
	transactions := make([]*models.Transaction, 0, len(m.Transactions))
	for _, t := range m.Transactions {
		if t.UserID == userID {
			transactions = append(transactions, t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].Date > transactions[j].Date })
	return transactions, nil
}

// GetTransactionsByWallet returns all transactions belonging to the wallet.
func (m *MockStore) GetTransactionsByWallet(walletID string) ([]*models.Transaction, error) {
	transactions := make([]*models.Transaction, 0, len(m.Transactions))
	for _, t := range m.Transactions {
		if t.WalletID == walletID {
			transactions = append(transactions, t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].Date > transactions[j].Date })
	return transactions, nil
}

// SaveTransaction saves a transaction to the mock store.
func (m *MockStore) SaveTransaction(t *models.Transaction) error {
	if m.SaveTransactionErr != nil {
		return m.SaveTransactionErr
	}
	copied := *t
	m.Transactions[t.ID] = &copied
	return nil
}

// UpdateTransaction updates a transaction in the mock store.
func (m *MockStore) UpdateTransaction(t *models.Transaction) error {
	if m.UpdateTransactionErr != nil {
		return m.UpdateTransactionErr
	}
	if _, ok := m.Transactions[t.ID]; !ok {
		return fmt.Errorf("transaction %s: %w", t.ID, ErrNotFound)
	}
	copied := *t
	m.Transactions[t.ID] = &copied
	return nil
}

// RemoveTransaction removes a transaction from the mock store.
func (m *MockStore) RemoveTransaction(id string) error {
	if m.RemoveTransactionErr != nil {
		return m.RemoveTransactionErr
	}
	if _, ok := m.Transactions[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	delete(m.Transactions, id)
	return nil
}

// ReplaceTransactions overwrites the user's transactions in the mock store.
func (m *MockStore) ReplaceTransactions(userID string, transactions []*models.Transaction) error {
	for id, t := range m.Transactions {
		if t.UserID == userID {
			delete(m.Transactions, id)
		}
	}
	for _, t := range transactions {
		copied := *t
		m.Transactions[t.ID] = &copied
	}
	return nil
}

// Enqueue appends a mutation to the mock queue.
func (m *MockStore) Enqueue(mut *models.Mutation) error {
	if m.EnqueueErr != nil {
		return m.EnqueueErr
	}
	m.nextMutationID++
	mut.ID = m.nextMutationID
	copied := *mut
	m.Queue = append(m.Queue, &copied)
	return nil
}

// PendingMutations returns queued mutations in replay order.
func (m *MockStore) PendingMutations() ([]*models.Mutation, error) {
	if m.PendingMutationsErr != nil {
		return nil, m.PendingMutationsErr
	}
	mutations := make([]*models.Mutation, len(m.Queue))
	copy(mutations, m.Queue)
	sort.SliceStable(mutations, func(i, j int) bool {
		if mutations[i].Timestamp != mutations[j].Timestamp {
			return mutations[i].Timestamp < mutations[j].Timestamp
		}
		return mutations[i].ID < mutations[j].ID
	})
	return mutations, nil
}

// DeleteMutation removes a mutation from the mock queue.
func (m *MockStore) DeleteMutation(id int64) error {
	if m.DeleteMutationErr != nil {
		return m.DeleteMutationErr
	}
	for i, mut := range m.Queue {
		if mut.ID == id {
			m.Queue = append(m.Queue[:i], m.Queue[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("mutation %d: %w", id, ErrNotFound)
}

// Subscribe returns a channel that never fires; the mock store has no
// live-query consumers.
func (m *MockStore) Subscribe() (<-chan string, func()) {
	return make(chan string), func() {}
}
