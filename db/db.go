package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when an update or delete references a key that is
// not present in the local store.
var ErrNotFound = errors.New("record not found")

// DB represents the local store connection.
type DB struct {
	*sql.DB
	watcher *watcher
}

// New creates a new local store connection at the given path.
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, watcher: newWatcher()}, nil
}

// Initialize creates the necessary tables if they don't exist.
func (db *DB) Initialize() error {
	query := `
	CREATE TABLE IF NOT EXISTS wallets (
		id TEXT PRIMARY KEY NOT NULL,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		balance REAL NOT NULL DEFAULT 0,
		currency TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		parent_id TEXT,
		description TEXT,
		image_url TEXT,
		color TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_wallets_name ON wallets(name);
	CREATE INDEX IF NOT EXISTS idx_wallets_parent_id ON wallets(parent_id);
	CREATE INDEX IF NOT EXISTS idx_wallets_user_id ON wallets(user_id);
	CREATE INDEX IF NOT EXISTS idx_wallets_updated_at ON wallets(updated_at);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY NOT NULL,
		wallet_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		category TEXT NOT NULL,
		amount REAL NOT NULL,
		description TEXT,
		date TEXT NOT NULL,
		is_paid BOOLEAN NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_wallet_id ON transactions(wallet_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
	CREATE INDEX IF NOT EXISTS idx_transactions_updated_at ON transactions(updated_at);

	CREATE TABLE IF NOT EXISTS sync_queue (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		target_table TEXT NOT NULL,
		payload TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sync_queue_timestamp ON sync_queue(timestamp);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}
