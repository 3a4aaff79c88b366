package db

import (
	"errors"
	"os"
	"testing"

	"github.com/vista85/vista-sync/pkg/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tempFile, err := os.CreateTemp("", "test-db-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tempFile.Close()
	t.Cleanup(func() { os.Remove(tempFile.Name()) })

	db, err := New(tempFile.Name())
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	return db
}

func testWallet(id, userID string) *models.Wallet {
	return &models.Wallet{
		ID:        id,
		UserID:    userID,
		Name:      "Principal",
		Balance:   0,
		Currency:  "BRL",
		CreatedAt: "2025-04-29T10:00:00Z",
		UpdatedAt: "2025-04-29T10:00:00Z",
		Color:     "#b66e6f",
	}
}

func testTransaction(id, walletID, userID string) *models.Transaction {
	return &models.Transaction{
		ID:        id,
		WalletID:  walletID,
		UserID:    userID,
		Type:      models.TypeExpense,
		Category:  models.CategoryFood,
		Amount:    25.99,
		Date:      "2025-04-29",
		IsPaid:    true,
		CreatedAt: "2025-04-29T10:00:00Z",
	}
}

func TestInitialize(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{"wallets", "transactions", "sync_queue"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("Failed to query for %s table: %v", table, err)
		}
		if name != table {
			t.Fatalf("Expected table name '%s', got '%s'", table, name)
		}
	}
}

func TestSaveAndGetWallet(t *testing.T) {
	db := setupTestDB(t)

	w := testWallet("w1", "user-1")
	if err := db.SaveWallet(w); err != nil {
		t.Fatalf("Failed to save wallet: %v", err)
	}

	retrieved, err := db.GetWallet("w1")
	if err != nil {
		t.Fatalf("Failed to retrieve wallet: %v", err)
	}
	if retrieved == nil {
		t.Fatal("Expected wallet, got nil")
	}
	if retrieved.Name != w.Name {
		t.Errorf("Expected name '%s', got '%s'", w.Name, retrieved.Name)
	}
	if retrieved.Color != w.Color {
		t.Errorf("Expected color '%s', got '%s'", w.Color, retrieved.Color)
	}

	missing, err := db.GetWallet("nope")
	if err != nil {
		t.Fatalf("Unexpected error for missing wallet: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for missing wallet, got %+v", missing)
	}
}

func TestGetWalletsScopedToUser(t *testing.T) {
	db := setupTestDB(t)

	if err := db.SaveWallet(testWallet("w1", "user-1")); err != nil {
		t.Fatalf("Failed to save wallet: %v", err)
	}
	if err := db.SaveWallet(testWallet("w2", "user-2")); err != nil {
		t.Fatalf("Failed to save wallet: %v", err)
	}

	wallets, err := db.GetWallets("user-1")
	if err != nil {
		t.Fatalf("Failed to get wallets: %v", err)
	}
	if len(wallets) != 1 {
		t.Fatalf("Expected 1 wallet for user-1, got %d", len(wallets))
	}
	if wallets[0].ID != "w1" {
		t.Errorf("Expected wallet 'w1', got '%s'", wallets[0].ID)
	}
}

func TestUpdateWallet(t *testing.T) {
	db := setupTestDB(t)

	w := testWallet("w1", "user-1")
	if err := db.SaveWallet(w); err != nil {
		t.Fatalf("Failed to save wallet: %v", err)
	}

	w.Name = "Renamed"
	w.Color = "#000000"
	if err := db.UpdateWallet(w); err != nil {
		t.Fatalf("Failed to update wallet: %v", err)
	}

	retrieved, err := db.GetWallet("w1")
	if err != nil {
		t.Fatalf("Failed to retrieve wallet: %v", err)
	}
	if retrieved.Name != "Renamed" {
		t.Errorf("Expected name 'Renamed', got '%s'", retrieved.Name)
	}

	// Updating a missing key must fail with ErrNotFound
	ghost := testWallet("ghost", "user-1")
	if err := db.UpdateWallet(ghost); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRemoveWalletCascades(t *testing.T) {
	db := setupTestDB(t)

	if err := db.SaveWallet(testWallet("w1", "user-1")); err != nil {
		t.Fatalf("Failed to save wallet: %v", err)
	}
	if err := db.SaveTransaction(testTransaction("t1", "w1", "user-1")); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}
	if err := db.SaveTransaction(testTransaction("t2", "w1", "user-1")); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	if err := db.RemoveWallet("w1"); err != nil {
		t.Fatalf("Failed to remove wallet: %v", err)
	}

	transactions, err := db.GetTransactionsByWallet("w1")
	if err != nil {
		t.Fatalf("Failed to query transactions: %v", err)
	}
	if len(transactions) != 0 {
		t.Errorf("Expected cascade to remove transactions, %d remain", len(transactions))
	}

	if err := db.RemoveWallet("w1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTransactionCRUD(t *testing.T) {
	db := setupTestDB(t)

	tx := testTransaction("t1", "w1", "user-1")
	tx.Description = "Coffee shop"
	if err := db.SaveTransaction(tx); err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}

	retrieved, err := db.GetTransaction("t1")
	if err != nil {
		t.Fatalf("Failed to retrieve transaction: %v", err)
	}
	if retrieved.Amount != 25.99 {
		t.Errorf("Expected amount 25.99, got %f", retrieved.Amount)
	}
	if retrieved.Description != "Coffee shop" {
		t.Errorf("Expected description 'Coffee shop', got '%s'", retrieved.Description)
	}

	tx.IsPaid = false
	if err := db.UpdateTransaction(tx); err != nil {
		t.Fatalf("Failed to update transaction: %v", err)
	}
	retrieved, err = db.GetTransaction("t1")
	if err != nil {
		t.Fatalf("Failed to retrieve transaction: %v", err)
	}
	if retrieved.IsPaid {
		t.Error("Expected transaction to be unpaid after update")
	}

	if err := db.RemoveTransaction("t1"); err != nil {
		t.Fatalf("Failed to remove transaction: %v", err)
	}
	if err := db.RemoveTransaction("t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestReplaceWallets(t *testing.T) {
	db := setupTestDB(t)

	if err := db.SaveWallet(testWallet("stale", "user-1")); err != nil {
		t.Fatalf("Failed to save wallet: %v", err)
	}
	if err := db.SaveWallet(testWallet("other", "user-2")); err != nil {
		t.Fatalf("Failed to save wallet: %v", err)
	}

	fresh := []*models.Wallet{testWallet("fresh-1", "user-1"), testWallet("fresh-2", "user-1")}
	if err := db.ReplaceWallets("user-1", fresh); err != nil {
		t.Fatalf("Failed to replace wallets: %v", err)
	}

	wallets, err := db.GetWallets("user-1")
	if err != nil {
		t.Fatalf("Failed to get wallets: %v", err)
	}
	if len(wallets) != 2 {
		t.Fatalf("Expected 2 wallets after replace, got %d", len(wallets))
	}
	for _, w := range wallets {
		if w.ID == "stale" {
			t.Error("Stale wallet survived the replace")
		}
	}

	// Another user's wallets are untouched
	others, err := db.GetWallets("user-2")
	if err != nil {
		t.Fatalf("Failed to get wallets: %v", err)
	}
	if len(others) != 1 {
		t.Errorf("Expected user-2's wallet to survive, got %d wallets", len(others))
	}
}

func TestSubscribeNotifiesOnWrite(t *testing.T) {
	db := setupTestDB(t)

	events, cancel := db.Subscribe()
	defer cancel()

	if err := db.SaveWallet(testWallet("w1", "user-1")); err != nil {
		t.Fatalf("Failed to save wallet: %v", err)
	}

	select {
	case table := <-events:
		if table != models.TableWallets {
			t.Errorf("Expected event for 'wallets', got '%s'", table)
		}
	default:
		t.Error("Expected a change event after a write")
	}
}

func TestSubscribeCancelStopsEvents(t *testing.T) {
	db := setupTestDB(t)

	events, cancel := db.Subscribe()
	cancel()

	if err := db.SaveWallet(testWallet("w1", "user-1")); err != nil {
		t.Fatalf("Failed to save wallet: %v", err)
	}

	select {
	case table := <-events:
		t.Errorf("Expected no events after cancel, got '%s'", table)
	default:
	}
}
