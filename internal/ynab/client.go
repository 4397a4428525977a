package ynab

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"taskbridge/internal/config"
	"taskbridge/internal/httpapi"
	"taskbridge/internal/metrics"
)

const (
	// DefaultBaseURL is the YNAB API root.
	DefaultBaseURL = "https://api.ynab.com/v1"

	// APITimeout is the default timeout for API calls.
	APITimeout = 5 * time.Second

	backendName = "ynab"
)

// Client reads budgets, months and transactions.
type Client struct {
	api *httpapi.Client
}

// envelope is the {"data": ...} wrapper around every YNAB response.
type envelope[T any] struct {
	Data T `json:"data"`
}

// New creates a YNAB client from configuration.
// Requires ynab.access_token to be set.
func New(cfg *config.Config, m *metrics.Metrics) (*Client, error) {
	if cfg.YNAB.AccessToken.Value() == "" {
		return nil, fmt.Errorf("ynab access token is not configured (set ynab.access_token or TASKBRIDGE_YNAB_ACCESS_TOKEN)")
	}
	return newClient(httpapi.Options{
		Backend: backendName,
		BaseURL: cfg.YNAB.BaseURL,
		Token:   cfg.YNAB.AccessToken.Value(),
		Timeout: cfg.API.Timeout,
		RPS:     cfg.RateLimit.RPS,
		Burst:   cfg.RateLimit.Burst,
		Metrics: m,
	}), nil
}

// NewWithHTTPClient creates a client against baseURL with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL, token string, httpClient *http.Client) *Client {
	return newClient(httpapi.Options{
		Backend:    backendName,
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: httpClient,
	})
}

func newClient(opts httpapi.Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = APITimeout
	}
	return &Client{api: httpapi.New(opts)}
}

func monthPath(budgetID, month string) string {
	return "/budgets/" + httpapi.PathEscape(budgetID) + "/months/" + httpapi.PathEscape(month)
}

// ListBudgets returns all budgets, optionally with their accounts.
func (c *Client) ListBudgets(ctx context.Context, includeAccounts bool) (BudgetList, error) {
	var q url.Values
	if includeAccounts {
		q = url.Values{"include_accounts": {"true"}}
	}
	var resp envelope[BudgetList]
	if err := c.api.Get(ctx, "/budgets", q, &resp); err != nil {
		return BudgetList{}, err
	}
	return resp.Data, nil
}

// BudgetMonth returns one budget month. month is YYYY-MM-DD or "current".
func (c *Client) BudgetMonth(ctx context.Context, budgetID, month string) (MonthDetail, error) {
	var resp envelope[struct {
		Month MonthDetail `json:"month"`
	}]
	if err := c.api.Get(ctx, monthPath(budgetID, month), nil, &resp); err != nil {
		return MonthDetail{}, err
	}
	return resp.Data.Month, nil
}

// MonthTransactions returns the transactions of one budget month.
func (c *Client) MonthTransactions(ctx context.Context, budgetID, month string, q TransactionQuery) (TransactionList, error) {
	values := url.Values{}
	if q.SinceDate != "" {
		values.Set("since_date", q.SinceDate)
	}
	if q.Type != "" {
		values.Set("type", q.Type)
	}
	var resp envelope[TransactionList]
	if err := c.api.Get(ctx, monthPath(budgetID, month)+"/transactions", values, &resp); err != nil {
		return TransactionList{}, err
	}
	if resp.Data.Transactions == nil {
		resp.Data.Transactions = []Transaction{}
	}
	return resp.Data, nil
}
