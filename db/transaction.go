package db

import (
	"database/sql"
	"fmt"

	"github.com/vista85/vista-sync/pkg/models"
)

const transactionColumns = `id, wallet_id, user_id, type, category, amount,
		description, date, is_paid, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	var description, updatedAt sql.NullString
	err := row.Scan(
		&t.ID,
		&t.WalletID,
		&t.UserID,
		&t.Type,
		&t.Category,
		&t.Amount,
		&description,
		&t.Date,
		&t.IsPaid,
		&t.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	t.UpdatedAt = updatedAt.String
	return &t, nil
}

// GetTransaction retrieves a transaction by its ID. Returns nil when no
// transaction exists.
func (db *DB) GetTransaction(id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ? LIMIT 1`

	t, err := scanTransaction(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return t, nil
}

// GetTransactions retrieves all transactions belonging to the given user,
// most recent first.
func (db *DB) GetTransactions(userID string) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ? ORDER BY date DESC`
	return db.queryTransactions(query, userID)
}

// GetTransactionsByWallet retrieves all transactions belonging to the given
// wallet, most recent first.
func (db *DB) GetTransactionsByWallet(walletID string) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE wallet_id = ? ORDER BY date DESC`
	return db.queryTransactions(query, walletID)
}

func (db *DB) queryTransactions(query string, arg string) ([]*models.Transaction, error) {
	rows, err := db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// SaveTransaction inserts a new transaction into the local store.
func (db *DB) SaveTransaction(t *models.Transaction) error {
	query := `
	INSERT INTO transactions (
		id, wallet_id, user_id, type, category, amount,
		description, date, is_paid, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(
		query,
		t.ID,
		t.WalletID,
		t.UserID,
		t.Type,
		t.Category,
		t.Amount,
		t.Description,
		t.Date,
		t.IsPaid,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	db.watcher.notify(models.TableTransactions)
	return nil
}

// UpdateTransaction updates an existing transaction. Returns ErrNotFound
// when no transaction with the given ID exists.
func (db *DB) UpdateTransaction(t *models.Transaction) error {
	query := `
	UPDATE transactions
	SET wallet_id = ?, user_id = ?, type = ?, category = ?, amount = ?,
		description = ?, date = ?, is_paid = ?, created_at = ?, updated_at = ?
	WHERE id = ?
	`

	result, err := db.Exec(
		query,
		t.WalletID,
		t.UserID,
		t.Type,
		t.Category,
		t.Amount,
		t.Description,
		t.Date,
		t.IsPaid,
		t.CreatedAt,
		t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("transaction %s: %w", t.ID, ErrNotFound)
	}

	db.watcher.notify(models.TableTransactions)
	return nil
}

// RemoveTransaction removes a transaction by its ID. Returns ErrNotFound
// when no transaction with the given ID exists.
func (db *DB) RemoveTransaction(id string) error {
	result, err := db.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	db.watcher.notify(models.TableTransactions)
	return nil
}

// ReplaceTransactions overwrites the user's transactions with
// server-authoritative copies, used by full sync at session start.
func (db *DB) ReplaceTransactions(userID string, transactions []*models.Transaction) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM transactions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}

	query := `
	INSERT INTO transactions (
		id, wallet_id, user_id, type, category, amount,
		description, date, is_paid, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, t := range transactions {
		_, err := tx.Exec(query,
			t.ID, t.WalletID, t.UserID, t.Type, t.Category, t.Amount,
			t.Description, t.Date, t.IsPaid, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}

	db.watcher.notify(models.TableTransactions)
	return nil
}
