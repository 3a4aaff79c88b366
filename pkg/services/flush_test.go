package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vista85/vista-sync/pkg/models"
)

// queueWallets creates wallets while offline so each lands in the queue.
func queueWallets(t *testing.T, syncer *Syncer, names ...string) []*models.Wallet {
	t.Helper()

	syncer.SetOnline(false)
	wallets := make([]*models.Wallet, 0, len(names))
	for _, name := range names {
		w, err := syncer.CreateWallet(context.Background(), WalletDraft{Name: name})
		require.NoError(t, err)
		wallets = append(wallets, w)
	}
	syncer.SetOnline(true)
	return wallets
}

func TestFlushQueueDrainsInOrder(t *testing.T) {
	syncer, store, remote, notifier := newTestSyncer(t)

	wallets := queueWallets(t, syncer, "First", "Second", "Third")

	require.NoError(t, syncer.FlushQueue(context.Background()))

	assert.Empty(t, store.Queue)
	assert.Len(t, remote.Wallets, 3)
	expected := make([]string, 0, len(wallets))
	for _, w := range wallets {
		expected = append(expected, fmt.Sprintf("upsert:wallets:%s", w.ID))
	}
	assert.Equal(t, expected, remote.Calls)
	assert.Len(t, notifier.infos, 1)
	assert.Len(t, notifier.successes, 1)
}

func TestFlushQueueStopsAtFirstFailure(t *testing.T) {
	syncer, store, remote, notifier := newTestSyncer(t)

	wallets := queueWallets(t, syncer, "First", "Second", "Third")
	remote.FailIDs[wallets[1].ID] = errors.New("remote rejected the row")

	err := syncer.FlushQueue(context.Background())

	var partial *PartialSyncError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.Synced)
	assert.Equal(t, 2, partial.Remaining)

	// The failing entry and everything after it stay queued, in order
	require.Len(t, store.Queue, 2)
	assert.Contains(t, string(store.Queue[0].Payload), wallets[1].ID)
	assert.Contains(t, string(store.Queue[1].Payload), wallets[2].ID)
	assert.Len(t, remote.Wallets, 1)
	assert.Len(t, notifier.errors, 1)
	assert.Empty(t, notifier.successes)
}

func TestFlushQueueRetriesAfterFailure(t *testing.T) {
	syncer, store, remote, _ := newTestSyncer(t)

	wallets := queueWallets(t, syncer, "First", "Second")
	remote.FailIDs[wallets[0].ID] = errors.New("transient")

	require.Error(t, syncer.FlushQueue(context.Background()))
	require.Len(t, store.Queue, 2)

	// Clearing the fault lets the next pass drain everything
	delete(remote.FailIDs, wallets[0].ID)
	require.NoError(t, syncer.FlushQueue(context.Background()))
	assert.Empty(t, store.Queue)
	assert.Len(t, remote.Wallets, 2)
}

func TestFlushQueueDequeueFailureReportsPartialSync(t *testing.T) {
	syncer, store, _, notifier := newTestSyncer(t)

	queueWallets(t, syncer, "First", "Second")
	store.DeleteMutationErr = assert.AnError

	err := syncer.FlushQueue(context.Background())

	// The remote call landed but the entry could not be dequeued; report it
	// like any other partial pass and leave the queue for retry
	var partial *PartialSyncError
	require.ErrorAs(t, err, &partial)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Len(t, store.Queue, 2)
	assert.Len(t, notifier.errors, 1)
}

func TestFlushQueueEmptyIsSilent(t *testing.T) {
	syncer, _, remote, notifier := newTestSyncer(t)

	require.NoError(t, syncer.FlushQueue(context.Background()))

	assert.Equal(t, 0, remote.CallCount())
	assert.Equal(t, 0, notifier.total())
}

func TestFlushQueueOfflineIsNoop(t *testing.T) {
	syncer, store, remote, _ := newTestSyncer(t)

	queueWallets(t, syncer, "First")
	syncer.SetOnline(false)

	require.NoError(t, syncer.FlushQueue(context.Background()))
	assert.Len(t, store.Queue, 1)
	assert.Equal(t, 0, remote.CallCount())
}

func TestFlushQueueUnboundIsNoop(t *testing.T) {
	syncer, store, remote, _ := newTestSyncer(t)

	queueWallets(t, syncer, "First")
	syncer.UnbindSession()

	require.NoError(t, syncer.FlushQueue(context.Background()))
	assert.Len(t, store.Queue, 1)
	assert.Equal(t, 0, remote.CallCount())
}

func TestFlushQueueSingleFlight(t *testing.T) {
	syncer, store, remote, _ := newTestSyncer(t)

	queueWallets(t, syncer, "First", "Second")

	started := make(chan struct{})
	gate := make(chan struct{})
	remote.Started = started
	remote.Gate = gate

	done := make(chan error, 1)
	go func() { done <- syncer.FlushQueue(context.Background()) }()
	<-started // first entry is in flight, held at the gate

	// A concurrent pass must yield without touching the queue or the remote
	require.NoError(t, syncer.FlushQueue(context.Background()))
	assert.Equal(t, 0, remote.CallCount())

	close(gate)
	<-started // second entry
	require.NoError(t, <-done)

	assert.Empty(t, store.Queue)
	assert.Equal(t, 2, remote.CallCount())
}

func TestFlushQueueDeleteReplay(t *testing.T) {
	syncer, store, remote, _ := newTestSyncer(t)

	// Create inline, then delete while offline so the delete is queued
	wallet, err := syncer.CreateWallet(context.Background(), WalletDraft{Name: "Doomed"})
	require.NoError(t, err)
	require.Len(t, remote.Wallets, 1)

	syncer.SetOnline(false)
	require.NoError(t, syncer.DeleteWallet(context.Background(), wallet.ID))
	require.Len(t, store.Queue, 1)

	syncer.SetOnline(true)
	require.NoError(t, syncer.FlushQueue(context.Background()))

	assert.Empty(t, store.Queue)
	assert.Empty(t, remote.Wallets)
}
