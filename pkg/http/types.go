package http

import (
	"github.com/vista85/vista-sync/pkg/models"
)

// The remote schema uses snake_case column naming; these DTOs carry the wire
// shape and the mapping to and from the app's models. The mapping is total:
// every local field has exactly one remote counterpart.

type walletRow struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	ParentID    string `json:"parent_id,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Color       string `json:"color,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type transactionRow struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	WalletID    string  `json:"wallet_id"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	IsPaid      bool    `json:"is_paid"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

func walletToRow(w *models.Wallet) *walletRow {
	return &walletRow{
		ID:          w.ID,
		UserID:      w.UserID,
		Name:        w.Name,
		ParentID:    w.ParentID,
		Description: w.Description,
		ImageURL:    w.ImageURL,
		Color:       w.Color,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// rowToWallet maps a remote row to the app model. The remote does not store
// derived balances, so balance and currency take their documented defaults.
func rowToWallet(r *walletRow) *models.Wallet {
	return &models.Wallet{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		ParentID:    r.ParentID,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Color:       r.Color,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Balance:     0,
		Currency:    models.DefaultCurrency,
	}
}

func transactionToRow(t *models.Transaction) *transactionRow {
	return &transactionRow{
		ID:          t.ID,
		UserID:      t.UserID,
		WalletID:    t.WalletID,
		Type:        t.Type,
		Category:    t.Category,
		Amount:      t.Amount,
		Description: t.Description,
		IsPaid:      t.IsPaid,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func rowToTransaction(r *transactionRow) *models.Transaction {
	return &models.Transaction{
		ID:          r.ID,
		UserID:      r.UserID,
		WalletID:    r.WalletID,
		Type:        r.Type,
		Category:    r.Category,
		Amount:      r.Amount,
		Description: r.Description,
		IsPaid:      r.IsPaid,
		Date:        r.Date,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
