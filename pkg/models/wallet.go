package models

import (
	"math"

	"github.com/Rhymond/go-money"
)

// DefaultCurrency is assumed whenever the remote omits a currency code.
const DefaultCurrency = "BRL"

// Wallet represents a named grouping of transactions. Balance is derived
// from the wallet's transactions and is never authoritative.
type Wallet struct {
	ID          string  `json:"id" validate:"required"`
	UserID      string  `json:"userId" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Balance     float64 `json:"balance"`
	Currency    string  `json:"currency" validate:"required"`
	CreatedAt   string  `json:"createdAt" validate:"required"`
	UpdatedAt   string  `json:"updatedAt"`
	ParentID    string  `json:"parentId,omitempty"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// BalanceMoney returns the wallet balance as a money value in the
// wallet's currency.
func (w *Wallet) BalanceMoney() *money.Money {
	return toMoney(w.Balance, w.Currency)
}

func toMoney(amount float64, currency string) *money.Money {
	c := currency
	if c == "" {
		c = DefaultCurrency
	}
	fraction := money.GetCurrency(c).Fraction
	minor := int64(math.Round(amount * math.Pow10(fraction)))
	return money.New(minor, c)
}
