package models

import (
	"github.com/Rhymond/go-money"
)

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction categories. The set is closed; validation rejects anything else.
const (
	CategoryFixed     = "fixed"
	CategoryFood      = "food"
	CategoryLeisure   = "leisure"
	CategoryDebt      = "debt"
	CategoryTransport = "transport"
	CategoryHealth    = "health"
	CategoryOther     = "other"
	CategoryUber      = "uber"
)

// Categories lists every valid transaction category.
var Categories = []string{
	CategoryFixed,
	CategoryFood,
	CategoryLeisure,
	CategoryDebt,
	CategoryTransport,
	CategoryHealth,
	CategoryOther,
	CategoryUber,
}

// Transaction represents a single income or expense event belonging to a
// wallet. Amount is always positive; the sign is implied by Type.
type Transaction struct {
	ID          string  `json:"id" validate:"required"`
	WalletID    string  `json:"walletId" validate:"required"`
	UserID      string  `json:"userId" validate:"required"`
	Type        string  `json:"type" validate:"oneof=income expense"`
	Category    string  `json:"category" validate:"oneof=fixed food leisure debt transport health other uber"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date" validate:"required"`
	IsPaid      bool    `json:"isPaid"`
	CreatedAt   string  `json:"createdAt" validate:"required"`
	UpdatedAt   string  `json:"updatedAt"`
}

// Money returns the transaction amount as a money value in the given
// currency, negated for expenses so balances can be summed directly.
func (t *Transaction) Money(currency string) *money.Money {
	m := toMoney(t.Amount, currency)
	if t.Type == TypeExpense {
		return m.Negative()
	}
	return m
}
