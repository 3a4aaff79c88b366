package services

import (
	"fmt"

	"github.com/Rhymond/go-money"

	"github.com/vista85/vista-sync/db"
)

// WalletBalance derives a wallet's balance from its transactions: income
// adds, expense subtracts. The stored balance column is never trusted.
func (s *Syncer) WalletBalance(walletID string) (*money.Money, error) {
	wallet, err := s.store.GetWallet(walletID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, fmt.Errorf("wallet %s: %w", walletID, db.ErrNotFound)
	}

	transactions, err := s.store.GetTransactionsByWallet(walletID)
	if err != nil {
		return nil, err
	}

	balance := money.New(0, wallet.Currency)
	for _, t := range transactions {
		balance, err = balance.Add(t.Money(wallet.Currency))
		if err != nil {
			return nil, fmt.Errorf("failed to sum transaction %s: %w", t.ID, err)
		}
	}
	return balance, nil
}
