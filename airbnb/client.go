package airbnb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultURL     = "https://api.airbnb.com"
	DefaultTimeout = 20 * time.Second

	reservations = "/v1/reservations?role=host&items_per_page=100"
	tokenHeader  = "X-Airbnb-OAuth-Token"
)

var (
	ErrUnauthorized = errors.New("airbnb: unauthorized")
	ErrForbidden    = errors.New("airbnb: forbidden")
)

// Client retrieves host reservations, one account at a time. Each account is
// authenticated with its own access token. There are no retries: a failed
// request is returned to the caller as is.
type Client struct {
	base   string
	hc     *http.Client
	tokens map[string]string
	rl     *rate.Limiter
}

func New(base string, tokens map[string]string, timeout time.Duration, rps float64) (*Client, error) {
	if strings.TrimSpace(base) == "" {
		base = DefaultURL
	}

	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid reservations API URL '%v' (%w)", base, err)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &Client{
		base:   strings.TrimSuffix(base, "/"),
		hc:     &http.Client{Timeout: timeout},
		tokens: tokens,
		rl:     rate.NewLimiter(limit, 1),
	}, nil
}

// Fetch returns the first page of reservations for the account. An account
// without a configured access token yields (nil, nil): no request is made and
// there is nothing to sync for it.
func (c *Client) Fetch(ctx context.Context, account string) (*Payload, error) {
	token, ok := c.tokens[account]
	if !ok || strings.TrimSpace(token) == "" {
		return nil, nil
	}

	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+reservations, nil)
	if err != nil {
		return nil, err
	}

	rq.Header.Set("Accept", "application/json")
	rq.Header.Set("Content-Type", "application/json")
	rq.Header.Set(tokenHeader, token)

	response, err := c.hc.Do(rq)
	if err != nil {
		return nil, fmt.Errorf("error retrieving reservations for account %v (%w)", account, err)
	}

	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
		// ok

	case http.StatusUnauthorized:
		return nil, fmt.Errorf("account %v (%w)", account, ErrUnauthorized)

	case http.StatusForbidden:
		return nil, fmt.Errorf("account %v (%w)", account, ErrForbidden)

	default:
		b, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		return nil, fmt.Errorf("account %v: bad status %d: %s", account, response.StatusCode, strings.TrimSpace(string(b)))
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading reservations for account %v (%w)", account, err)
	}

	return decode(body)
}

// decode parses a response body. An empty body is treated as '{}'.
func decode(body []byte) (*Payload, error) {
	payload := Payload{}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid reservations response (%w)", err)
	}

	return &payload, nil
}
