package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vista85/vista-sync/db"
	"github.com/vista85/vista-sync/pkg/config"
	"github.com/vista85/vista-sync/pkg/http"
	"github.com/vista85/vista-sync/pkg/models"
	"github.com/vista85/vista-sync/pkg/services"
)

var (
	dbPath     string
	configPath string
	rootCmd    *cobra.Command
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error().Err(err).Msg("Error getting home directory")
		os.Exit(1)
	}

	defaultDBPath := filepath.Join(homeDir, ".vista85", "vista85.db")

	rootCmd = &cobra.Command{
		Use:   "vistasync",
		Short: "An offline-first personal finance tracker",
		Long:  `Tracks wallets and transactions in a local SQLite database and synchronizes them with the remote backend when online.`,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath, "Path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive REPL",
		Long:  `Start an interactive REPL for managing wallets and transactions.`,
		Run: func(cmd *cobra.Command, args []string) {
			runREPL(cmd.Context(), initReplState(cmd.Context()))
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig()
		},
	}

	rootCmd.AddCommand(replCmd, configCmd)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

type replState struct {
	db     db.StoreInterface
	syncer *services.Syncer

	activeWallet *models.Wallet
}

func initReplState(ctx context.Context) *replState {
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		os.Exit(1)
	}

	database, err := db.New(dbPath)
	if err != nil {
		log.Error().Err(err).Msg("Error connecting to database")
		os.Exit(1)
	}

	baseURL, err := cfg.RemoteBaseURL()
	if err != nil {
		log.Error().Err(err).Msg("Error reading remote options from config")
		log.Error().Msg("Please set remote.baseUrl in config.yaml")
		os.Exit(1)
	}

	remote := http.NewRemoteClient(http.Options{
		BaseURL: baseURL,
		APIKey:  cfg.Remote.APIKey,
		Debug:   cfg.Remote.DebugHTTP,
	})

	syncer := services.NewSyncer(database, remote)
	syncer.Start(ctx)

	monitor := services.NewMonitor(syncer, remote, cfg.ProbeInterval())
	monitor.Start(ctx)

	return &replState{
		db:     database,
		syncer: syncer,
	}
}

func runREPL(ctx context.Context, state *replState) {
	fmt.Println("Welcome to the vista85 REPL!")
	fmt.Println("Type 'help' for commands, 'exit' or 'quit' to exit.")
	fmt.Println()

	// Close the database once you are done
	defer state.db.Close()

	if err := state.db.Initialize(); err != nil {
		log.Error().Err(err).Msg("Error initializing database")
		os.Exit(1)
	}

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		state.dispatch(ctx, line)
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("Error reading input")
	}
}

func (r *replState) dispatch(ctx context.Context, line string) {
	parts := strings.Fields(line)
	switch parts[0] {
	case "help":
		printHelp()
	case "config":
		showConfig()
	case "login":
		r.login(ctx, parts)
	case "logout":
		r.syncer.UnbindSession()
		fmt.Println("Logged out.")
	case "wallets":
		r.listWallets()
	case "wallet":
		r.handleWallet(ctx, line)
	case "use":
		r.useWallet(parts)
	case "add":
		r.addTransaction(ctx, line)
	case "list":
		r.listTransactions()
	case "paid", "unpaid":
		r.togglePaid(ctx, parts)
	case "remove", "delete":
		r.removeTransaction(ctx, parts)
	case "sync":
		r.runSync(ctx)
	case "online":
		r.syncer.SetOnline(true)
	case "offline":
		r.syncer.SetOnline(false)
	default:
		fmt.Println("Unknown command. Type 'help' for a list of commands.")
	}
}

func (r *replState) login(ctx context.Context, parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: login <user-id> [access-token]")
		return
	}
	session := &models.Session{UserID: parts[1]}
	if len(parts) > 2 {
		session.AccessToken = parts[2]
	}
	if err := r.syncer.BindSession(ctx, session); err != nil {
		log.Error().Err(err).Msg("Error binding session")
		return
	}
	r.activeWallet = nil
	fmt.Printf("Logged in as %s.\n", session.UserID)
}

func (r *replState) runSync(ctx context.Context) {
	if err := r.syncer.FlushQueue(ctx); err != nil {
		log.Error().Err(err).Msg("Error flushing sync queue")
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  help                        - Show this help message")
	fmt.Println("  config                      - Show the current configuration")
	fmt.Println("  login <user-id> [token]     - Bind a session and pull remote data")
	fmt.Println("  logout                      - Unbind the session")
	fmt.Println("  wallets                     - List wallets with derived balances")
	fmt.Println("  wallet create <name> [color]")
	fmt.Println("  wallet rename <id> <name>")
	fmt.Println("  wallet recolor <id> <color>")
	fmt.Println("  wallet delete <id>          - Delete a wallet and its transactions")
	fmt.Println("  use <wallet-id>             - Select the active wallet")
	fmt.Println("  add <income|expense> <category> <amount> [description]")
	fmt.Println("  list                        - List the active wallet's transactions")
	fmt.Println("  paid <tx-id> / unpaid <tx-id>")
	fmt.Println("  remove <tx-id>              - Remove a transaction")
	fmt.Println("  sync                        - Flush the sync queue now")
	fmt.Println("  online / offline            - Override the connectivity state")
	fmt.Println("  exit, quit                  - Exit the REPL")
}

// showConfig displays the current configuration with the API key masked.
func showConfig() {
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		return
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("Database Path:  %s\n", dbPath)
	fmt.Printf("Remote URL:     %s\n", cfg.Remote.BaseURL)
	fmt.Printf("Probe Interval: %s\n", cfg.ProbeInterval())

	apiKey := cfg.Remote.APIKey
	if apiKey == "" {
		fmt.Println("Remote API Key: Not set")
		return
	}
	masked := strings.Repeat("*", len(apiKey))
	if len(apiKey) > 8 {
		masked = apiKey[:4] + strings.Repeat("*", len(apiKey)-8) + apiKey[len(apiKey)-4:]
	}
	fmt.Printf("Remote API Key: %s\n", masked)
}
