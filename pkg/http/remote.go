package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/samber/lo"

	"github.com/vista85/vista-sync/pkg/models"
	"github.com/vista85/vista-sync/pkg/utils"
)

// ErrUnauthenticated is returned when an operation requiring a bound session
// runs without one. It is always surfaced to the caller and never retried.
var ErrUnauthenticated = errors.New("no session bound to remote client")

// errRemoteNotFound marks a remote 404. Deletes treat it as success so a
// replayed delete of an already-removed row cannot wedge drainage.
var errRemoteNotFound = errors.New("remote row not found")

// RemoteClient talks to the remote backend's REST surface and translates
// between the app's field naming and the remote's snake_case naming.
type RemoteClient struct {
	client  *http.Client
	baseURL string
	apiKey  string

	// mu guards session: the REPL rebinds it while the drain loop and the
	// connectivity monitor issue requests.
	mu      sync.Mutex
	session *models.Session
}

// Options configures a RemoteClient.
type Options struct {
	BaseURL string
	APIKey  string
	// Debug dumps every request and response to stdout.
	Debug bool
}

// NewRemoteClient creates a new remote data service client.
func NewRemoteClient(opts Options) *RemoteClient {
	client := &http.Client{}
	if opts.Debug {
		client.Transport = utils.DebugRoundTripper()
	}
	return &RemoteClient{
		client:  client,
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
	}
}

// SetSession binds or unbinds (nil) the authenticated session.
func (c *RemoteClient) SetSession(session *models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
}

func (c *RemoteClient) currentSession() *models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *RemoteClient) userID() (string, error) {
	session := c.currentSession()
	if session == nil {
		return "", ErrUnauthenticated
	}
	return session.UserID, nil
}

func (c *RemoteClient) do(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if session := c.currentSession(); session != nil && session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s %s: %w", method, url, ErrUnauthenticated)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, url, errRemoteNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, url, resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// UpsertWallet creates or replaces a wallet on the remote. The owning user
// is always taken from the bound session, never from the payload.
func (c *RemoteClient) UpsertWallet(ctx context.Context, w *models.Wallet) error {
	userID, err := c.userID()
	if err != nil {
		return err
	}

	row := walletToRow(w)
	row.UserID = userID

	url := fmt.Sprintf("%s/rest/%s?on_conflict=id", c.baseURL, models.TableWallets)
	return c.do(ctx, http.MethodPost, url, row, nil)
}

// UpsertTransaction creates or replaces a transaction on the remote. The
// owning user is always taken from the bound session.
func (c *RemoteClient) UpsertTransaction(ctx context.Context, t *models.Transaction) error {
	userID, err := c.userID()
	if err != nil {
		return err
	}

	row := transactionToRow(t)
	row.UserID = userID

	url := fmt.Sprintf("%s/rest/%s?on_conflict=id", c.baseURL, models.TableTransactions)
	return c.do(ctx, http.MethodPost, url, row, nil)
}

// Delete removes the row with the given ID from the remote table. Deleting a
// row that is already gone counts as success.
func (c *RemoteClient) Delete(ctx context.Context, table, id string) error {
	if _, err := c.userID(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/rest/%s/%s", c.baseURL, table, id)
	err := c.do(ctx, http.MethodDelete, url, nil, nil)
	if errors.Is(err, errRemoteNotFound) {
		return nil
	}
	return err
}

// FetchAll retrieves every wallet and transaction scoped to the bound user.
func (c *RemoteClient) FetchAll(ctx context.Context) ([]*models.Wallet, []*models.Transaction, error) {
	userID, err := c.userID()
	if err != nil {
		return nil, nil, err
	}

	var walletRows []*walletRow
	url := fmt.Sprintf("%s/rest/%s?user_id=%s", c.baseURL, models.TableWallets, userID)
	if err := c.do(ctx, http.MethodGet, url, nil, &walletRows); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch wallets: %w", err)
	}

	var transactionRows []*transactionRow
	url = fmt.Sprintf("%s/rest/%s?user_id=%s", c.baseURL, models.TableTransactions, userID)
	if err := c.do(ctx, http.MethodGet, url, nil, &transactionRows); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	wallets := lo.Map(walletRows, func(r *walletRow, _ int) *models.Wallet { return rowToWallet(r) })
	transactions := lo.Map(transactionRows, func(r *transactionRow, _ int) *models.Transaction { return rowToTransaction(r) })
	return wallets, transactions, nil
}

// Ping probes the remote's health endpoint. Used by the connectivity
// monitor; does not require a bound session.
func (c *RemoteClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.baseURL+"/health", nil, nil)
}
