package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vista85/vista-sync/pkg/services"
	"github.com/vista85/vista-sync/pkg/utils"
)

func (r *replState) addTransaction(ctx context.Context, line string) {
	// Format: add <income|expense> <category> <amount> [description]
	parts := strings.Fields(line)
	if len(parts) < 4 {
		fmt.Println("Invalid add command format.")
		fmt.Println("Usage: add <income|expense> <category> <amount> [description]")
		fmt.Println("Example: add expense food 25.99 \"Coffee shop\"")
		return
	}

	if r.activeWallet == nil {
		fmt.Println("No active wallet. Create one with 'wallet create' or select one with 'use'.")
		return
	}

	amount, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		fmt.Printf("Invalid amount %q.\n", parts[3])
		return
	}

	description := strings.Trim(strings.Join(parts[4:], " "), "\"")

	transaction, err := r.syncer.CreateTransaction(ctx, services.TransactionDraft{
		WalletID:    r.activeWallet.ID,
		Type:        parts[1],
		Category:    parts[2],
		Amount:      amount,
		Description: description,
		Date:        time.Now().Format(time.DateOnly),
		IsPaid:      true,
	})
	if err != nil {
		log.Error().Err(err).Msg("Error adding transaction")
		return
	}

	log.Info().Str("transaction", transaction.ID).Msg("Transaction added successfully")
}

func (r *replState) listTransactions() {
	if r.activeWallet == nil {
		fmt.Println("No active wallet. Select one with 'use'.")
		return
	}

	transactions, err := r.db.GetTransactionsByWallet(r.activeWallet.ID)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching transactions")
		return
	}

	if len(transactions) == 0 {
		fmt.Println("No transactions found")
		return
	}

	fmt.Printf("Found %d transactions in %q:\n\n", len(transactions), r.activeWallet.Name)
	fmt.Printf("%-38s %-9s %-12s %12s %-12s %-6s %-30s\n", "ID", "Type", "Category", "Amount", "Date", "Paid", "Description")
	fmt.Println(strings.Repeat("-", 130))
	for _, t := range transactions {
		fmt.Printf("%-38s %-9s %-12s %12s %-12s %-6v %-30s\n",
			t.ID,
			t.Type,
			utils.Capitalize(t.Category),
			t.Money(r.activeWallet.Currency).Display(),
			t.Date,
			t.IsPaid,
			utils.Truncate(t.Description, 30))
	}
}

func (r *replState) togglePaid(ctx context.Context, parts []string) {
	if len(parts) < 2 {
		fmt.Printf("Usage: %s <tx-id>\n", parts[0])
		return
	}
	paid := parts[0] == "paid"
	if err := r.syncer.SetTransactionPaid(ctx, parts[1], paid); err != nil {
		log.Error().Err(err).Msg("Error updating transaction")
		return
	}
	log.Info().Str("transaction", parts[1]).Bool("paid", paid).Msg("Transaction updated successfully")
}

func (r *replState) removeTransaction(ctx context.Context, parts []string) {
	if len(parts) != 2 {
		fmt.Println("Invalid remove command format.")
		fmt.Println("Usage: remove <tx-id>")
		return
	}

	if err := r.syncer.DeleteTransaction(ctx, parts[1]); err != nil {
		log.Error().Err(err).Msg("Error removing transaction")
		return
	}

	log.Info().Str("transaction", parts[1]).Msg("Transaction removed successfully")
}
