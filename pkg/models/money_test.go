package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionMoneySign(t *testing.T) {
	income := &Transaction{Type: TypeIncome, Amount: 100.50}
	expense := &Transaction{Type: TypeExpense, Amount: 25.99}

	assert.Equal(t, int64(10050), income.Money("BRL").Amount())
	assert.Equal(t, int64(-2599), expense.Money("BRL").Amount())
}

func TestTransactionMoneyDefaultsCurrency(t *testing.T) {
	tx := &Transaction{Type: TypeIncome, Amount: 1}
	m := tx.Money("")
	assert.Equal(t, DefaultCurrency, m.Currency().Code)
}

func TestWalletBalanceMoney(t *testing.T) {
	w := &Wallet{Balance: 12.34, Currency: "USD"}
	m := w.BalanceMoney()
	assert.Equal(t, int64(1234), m.Amount())
	assert.Equal(t, "USD", m.Currency().Code)
}

func TestCategoriesClosedSet(t *testing.T) {
	assert.Len(t, Categories, 8)
	assert.Contains(t, Categories, CategoryUber)
}
