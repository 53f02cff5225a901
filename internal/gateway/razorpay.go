package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"busgo/internal/config"
	"busgo/internal/domain"
)

// Order is the gateway's view of a minted payment order. Amount is in
// minor currency units (paise for INR).
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// OrderCreator mints orders at the external payment gateway.
type OrderCreator interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency string) (Order, error)
}

// RazorpayClient talks to the Razorpay orders API with basic auth.
type RazorpayClient struct {
	keyID   string
	secret  string
	baseURL string
	client  *http.Client
}

func NewRazorpayClient(env config.Env) *RazorpayClient {
	return &RazorpayClient{
		keyID:   env.RazorpayKeyID,
		secret:  env.RazorpaySecret,
		baseURL: env.RazorpayBase,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, amountMinor int64, currency string) (Order, error) {
	body, err := json.Marshal(map[string]any{
		"amount":   amountMinor,
		"currency": currency,
	})
	if err != nil {
		return Order{}, domain.InternalError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return Order{}, domain.InternalError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.secret)

	resp, err := c.client.Do(req)
	if err != nil {
		return Order{}, domain.UpstreamError{Service: "payment gateway", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Order{}, domain.UpstreamError{
			Service: "payment gateway",
			Err:     fmt.Errorf("order create returned status %d", resp.StatusCode),
		}
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return Order{}, domain.UpstreamError{Service: "payment gateway", Err: err}
	}
	if order.ID == "" {
		return Order{}, domain.UpstreamError{
			Service: "payment gateway",
			Err:     fmt.Errorf("order create returned empty order id"),
		}
	}
	return order, nil
}
