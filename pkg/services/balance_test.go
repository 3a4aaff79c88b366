package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vista85/vista-sync/db"
)

func TestWalletBalanceSumsTransactions(t *testing.T) {
	syncer, _, _, _ := newTestSyncer(t)

	wallet, err := syncer.CreateWallet(context.Background(), WalletDraft{Name: "Principal"})
	require.NoError(t, err)

	income := testDraft(wallet.ID)
	income.Type = "income"
	income.Category = "other"
	income.Amount = 100.50
	_, err = syncer.CreateTransaction(context.Background(), income)
	require.NoError(t, err)

	expense := testDraft(wallet.ID)
	expense.Amount = 25.99
	_, err = syncer.CreateTransaction(context.Background(), expense)
	require.NoError(t, err)

	balance, err := syncer.WalletBalance(wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7451), balance.Amount())
	assert.Equal(t, "BRL", balance.Currency().Code)
}

func TestWalletBalanceEmptyWallet(t *testing.T) {
	syncer, _, _, _ := newTestSyncer(t)

	wallet, err := syncer.CreateWallet(context.Background(), WalletDraft{Name: "Principal"})
	require.NoError(t, err)

	balance, err := syncer.WalletBalance(wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Amount())
}

func TestWalletBalanceMissingWallet(t *testing.T) {
	syncer, _, _, _ := newTestSyncer(t)

	_, err := syncer.WalletBalance("ghost")
	assert.ErrorIs(t, err, db.ErrNotFound)
}
