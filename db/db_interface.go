package db

import (
	"github.com/vista85/vista-sync/pkg/models"
)

// StoreInterface defines the interface for local store operations.
type StoreInterface interface {
	Initialize() error
	Close() error

	GetWallet(id string) (*models.Wallet, error)
	GetWallets(userID string) ([]*models.Wallet, error)
	SaveWallet(w *models.Wallet) error
	UpdateWallet(w *models.Wallet) error
	RemoveWallet(id string) error
	ReplaceWallets(userID string, wallets []*models.Wallet) error

	GetTransaction(id string) (*models.Transaction, error)
	GetTransactions(userID string) ([]*models.Transaction, error)
	GetTransactionsByWallet(walletID string) ([]*models.Transaction, error)
	SaveTransaction(t *models.Transaction) error
	UpdateTransaction(t *models.Transaction) error
	RemoveTransaction(id string) error
	ReplaceTransactions(userID string, transactions []*models.Transaction) error

	Enqueue(m *models.Mutation) error
	PendingMutations() ([]*models.Mutation, error)
	DeleteMutation(id int64) error

	Subscribe() (<-chan string, func())
}

// Ensure DB implements StoreInterface
var _ StoreInterface = (*DB)(nil)

// Ensure MockStore implements StoreInterface
var _ StoreInterface = (*MockStore)(nil)
