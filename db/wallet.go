package db

import (
	"database/sql"
	"fmt"

	"github.com/vista85/vista-sync/pkg/models"
)

const walletColumns = `id, user_id, name, balance, currency, created_at, updated_at,
		parent_id, description, image_url, color`

func scanWallet(row interface{ Scan(...any) error }) (*models.Wallet, error) {
	var w models.Wallet
	var updatedAt, parentID, description, imageURL, color sql.NullString
	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Name,
		&w.Balance,
		&w.Currency,
		&w.CreatedAt,
		&updatedAt,
		&parentID,
		&description,
		&imageURL,
		&color,
	)
	if err != nil {
		return nil, err
	}
	w.UpdatedAt = updatedAt.String
	w.ParentID = parentID.String
	w.Description = description.String
	w.ImageURL = imageURL.String
	w.Color = color.String
	return &w, nil
}

// GetWallet retrieves a wallet by its ID. Returns nil when no wallet exists.
func (db *DB) GetWallet(id string) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = ? LIMIT 1`

	w, err := scanWallet(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return w, nil
}

// GetWallets retrieves all wallets belonging to the given user.
func (db *DB) GetWallets(userID string) ([]*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = ? ORDER BY created_at ASC`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*models.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}

	return wallets, nil
}

// SaveWallet inserts a new wallet into the local store.
func (db *DB) SaveWallet(w *models.Wallet) error {
	query := `
	INSERT INTO wallets (
		id, user_id, name, balance, currency, created_at, updated_at,
		parent_id, description, image_url, color
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(
		query,
		w.ID,
		w.UserID,
		w.Name,
		w.Balance,
		w.Currency,
		w.CreatedAt,
		w.UpdatedAt,
		w.ParentID,
		w.Description,
		w.ImageURL,
		w.Color,
	)
	if err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}

	db.watcher.notify(models.TableWallets)
	return nil
}

// UpdateWallet updates an existing wallet. Returns ErrNotFound when no
// wallet with the given ID exists.
func (db *DB) UpdateWallet(w *models.Wallet) error {
	query := `
	UPDATE wallets
	SET user_id = ?, name = ?, balance = ?, currency = ?, created_at = ?,
		updated_at = ?, parent_id = ?, description = ?, image_url = ?, color = ?
	WHERE id = ?
	`

	result, err := db.Exec(
		query,
		w.UserID,
		w.Name,
		w.Balance,
		w.Currency,
		w.CreatedAt,
		w.UpdatedAt,
		w.ParentID,
		w.Description,
		w.ImageURL,
		w.Color,
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("wallet %s: %w", w.ID, ErrNotFound)
	}

	db.watcher.notify(models.TableWallets)
	return nil
}

// RemoveWallet removes a wallet and cascades to its transactions. Returns
// ErrNotFound when no wallet with the given ID exists.
func (db *DB) RemoveWallet(id string) error {
	// Delete associated transactions first
	if _, err := db.Exec(`DELETE FROM transactions WHERE wallet_id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove wallet transactions: %w", err)
	}

	result, err := db.Exec(`DELETE FROM wallets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove wallet: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("wallet %s: %w", id, ErrNotFound)
	}

	db.watcher.notify(models.TableTransactions)
	db.watcher.notify(models.TableWallets)
	return nil
}

// ReplaceWallets overwrites the user's wallets with server-authoritative
// copies, used by full sync at session start.
func (db *DB) ReplaceWallets(userID string, wallets []*models.Wallet) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM wallets WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear wallets: %w", err)
	}

	query := `
	INSERT INTO wallets (
		id, user_id, name, balance, currency, created_at, updated_at,
		parent_id, description, image_url, color
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, w := range wallets {
		_, err := tx.Exec(query,
			w.ID, w.UserID, w.Name, w.Balance, w.Currency, w.CreatedAt,
			w.UpdatedAt, w.ParentID, w.Description, w.ImageURL, w.Color)
		if err != nil {
			return fmt.Errorf("failed to insert wallet %s: %w", w.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wallets: %w", err)
	}

	db.watcher.notify(models.TableWallets)
	return nil
}
