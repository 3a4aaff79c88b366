package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/vista85/vista-sync/pkg/models"
	"github.com/vista85/vista-sync/pkg/services"
	"github.com/vista85/vista-sync/pkg/utils"
)

func (r *replState) handleWallet(ctx context.Context, line string) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		fmt.Println("Usage: wallet <create|rename|recolor|delete> ...")
		return
	}

	switch parts[1] {
	case "create":
		if len(parts) < 3 {
			fmt.Println("Usage: wallet create <name> [color]")
			return
		}
		draft := services.WalletDraft{Name: parts[2]}
		if len(parts) > 3 {
			draft.Color = parts[3]
		}
		wallet, err := r.syncer.CreateWallet(ctx, draft)
		if err != nil {
			log.Error().Err(err).Msg("Error creating wallet")
			return
		}
		if r.activeWallet == nil {
			r.activeWallet = wallet
		}
		log.Info().Str("wallet", wallet.ID).Msg("Wallet created successfully")

	case "rename":
		if len(parts) < 4 {
			fmt.Println("Usage: wallet rename <id> <name>")
			return
		}
		r.mutateWallet(ctx, parts[2], func(w *models.Wallet) { w.Name = parts[3] })

	case "recolor":
		if len(parts) < 4 {
			fmt.Println("Usage: wallet recolor <id> <color>")
			return
		}
		r.mutateWallet(ctx, parts[2], func(w *models.Wallet) { w.Color = parts[3] })

	case "delete":
		if len(parts) < 3 {
			fmt.Println("Usage: wallet delete <id>")
			return
		}
		if err := r.syncer.DeleteWallet(ctx, parts[2]); err != nil {
			log.Error().Err(err).Msg("Error deleting wallet")
			return
		}
		if r.activeWallet != nil && r.activeWallet.ID == parts[2] {
			r.activeWallet = nil
		}
		log.Info().Str("wallet", parts[2]).Msg("Wallet deleted successfully")

	default:
		fmt.Println("Unknown command. Supported commands are: create, rename, recolor, delete")
	}
}

func (r *replState) mutateWallet(ctx context.Context, id string, mutate func(*models.Wallet)) {
	wallet, err := r.db.GetWallet(id)
	if err != nil || wallet == nil {
		log.Error().Err(err).Str("wallet", id).Msg("Wallet not found")
		return
	}
	mutate(wallet)
	if err := r.syncer.UpdateWallet(ctx, wallet); err != nil {
		log.Error().Err(err).Msg("Error updating wallet")
		return
	}
	log.Info().Str("wallet", id).Msg("Wallet updated successfully")
}

func (r *replState) listWallets() {
	wallets, err := r.syncer.Wallets()
	if err != nil {
		log.Error().Err(err).Msg("Error fetching wallets")
		return
	}

	if len(wallets) == 0 {
		fmt.Println("No wallets found")
		return
	}

	fmt.Printf("Found %d wallets:\n\n", len(wallets))
	fmt.Printf("%-38s %-20s %15s %-10s %-8s\n", "ID", "Name", "Balance", "Color", "Active")
	fmt.Println(strings.Repeat("-", 100))
	for _, w := range wallets {
		balance, err := r.syncer.WalletBalance(w.ID)
		if err != nil {
			log.Error().Err(err).Str("wallet", w.ID).Msg("Error computing balance")
			continue
		}
		active := ""
		if r.activeWallet != nil && r.activeWallet.ID == w.ID {
			active = "*"
		}
		fmt.Printf("%-38s %-20s %15s %-10s %-8s\n",
			w.ID,
			utils.Truncate(w.Name, 20),
			balance.Display(),
			w.Color,
			active)
	}
}

func (r *replState) useWallet(parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: use <wallet-id>")
		return
	}
	wallets, err := r.syncer.Wallets()
	if err != nil {
		log.Error().Err(err).Msg("Error fetching wallets")
		return
	}
	byID := lo.SliceToMap(wallets, func(w *models.Wallet) (string, *models.Wallet) {
		return w.ID, w
	})
	wallet, ok := byID[parts[1]]
	if !ok {
		fmt.Printf("No wallet with id %s\n", parts[1])
		return
	}
	r.activeWallet = wallet
	fmt.Printf("Active wallet is now %q.\n", wallet.Name)
}
