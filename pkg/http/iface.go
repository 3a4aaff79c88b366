package http

import (
	"context"

	"github.com/vista85/vista-sync/pkg/models"
)

// RemoteInterface defines the interface for remote data service operations.
// All operations except SetSession and Ping require a bound session and fail
// with ErrUnauthenticated otherwise.
type RemoteInterface interface {
	SetSession(session *models.Session)
	UpsertWallet(ctx context.Context, w *models.Wallet) error
	UpsertTransaction(ctx context.Context, t *models.Transaction) error
	Delete(ctx context.Context, table, id string) error
	FetchAll(ctx context.Context) ([]*models.Wallet, []*models.Transaction, error)
	Ping(ctx context.Context) error
}

// Ensure RemoteClient implements RemoteInterface
var _ RemoteInterface = (*RemoteClient)(nil)

// Ensure MockRemote implements RemoteInterface
var _ RemoteInterface = (*MockRemote)(nil)
