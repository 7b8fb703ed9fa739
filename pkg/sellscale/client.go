// Package sellscale provides a Go SDK for the sellscalehood API: the
// portfolio, stock quote, and trade endpoints.
package sellscale

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/emad-siddiq/sellscalehood/internal/domain"
)

// APIError is a well-formed rejection from the service, carrying the HTTP
// status and the message from the response's "error" field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Client talks to a sellscalehood API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client. Requests carry a 30 second timeout so a
// hung collaborator cannot pin a view's loading state forever.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetPortfolio retrieves the current holdings in server order.
func (c *Client) GetPortfolio(ctx context.Context) ([]domain.Holding, error) {
	var holdings []domain.Holding
	if err := c.get(ctx, "/api/portfolio", &holdings); err != nil {
		return nil, err
	}
	return holdings, nil
}

// GetStock retrieves the quote and trailing close history for a ticker.
func (c *Client) GetStock(ctx context.Context, ticker string) (*domain.StockQuote, error) {
	if strings.TrimSpace(ticker) == "" {
		return nil, fmt.Errorf("ticker must not be empty")
	}
	var quote domain.StockQuote
	if err := c.get(ctx, "/api/stock/"+url.PathEscape(ticker), &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// tradeRequest is the wire body for POST /api/trade.
type tradeRequest struct {
	Ticker   string             `json:"ticker"`
	Quantity int64              `json:"quantity"`
	Action   domain.TradeAction `json:"action"`
}

// SubmitTrade submits a validated order. Rejections come back as *APIError
// with the server's message; transport failures are returned as-is.
func (c *Client) SubmitTrade(ctx context.Context, ticker string, quantity int64, action domain.TradeAction) (*domain.TradeResult, error) {
	body, err := json.Marshal(tradeRequest{Ticker: ticker, Quantity: quantity, Action: action})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/trade", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result domain.TradeResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}

// decodeError turns a non-2xx response into an *APIError, falling back to
// a generic message when the body carries no "error" field.
func decodeError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	msg := ""
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
