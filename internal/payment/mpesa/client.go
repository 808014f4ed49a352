// Package mpesa is the adapter for the mobile-money push-payment gateway.
// It normalizes phone numbers and issues STK push requests; the remote
// service is treated as opaque behind a small request/response contract.
package mpesa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

var ErrGatewayUnreachable = errors.New("gateway unreachable")

// DeclinedError carries the structured failure reason the gateway returned.
// It is a user-surfaceable outcome, distinct from the gateway being down.
type DeclinedError struct {
	Reason string
}

func (e *DeclinedError) Error() string {
	return e.Reason
}

// PushRequest is a single push-payment attempt. Amount is in minor units.
type PushRequest struct {
	Phone  string `json:"phone"`
	Amount int64  `json:"amount"`
}

// PushResponse is the gateway's answer. Exactly one of CheckoutRequestID or
// Error is set on a well-formed response.
type PushResponse struct {
	CheckoutRequestID string `json:"CheckoutRequestID"`
	Error             string `json:"error"`
}

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*PushResponse]
}

// NewClient builds a gateway client with a bounded per-call timeout and a
// circuit breaker. An open breaker reads as the gateway being unreachable.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	breaker := gobreaker.NewCircuitBreaker[*PushResponse](gobreaker.Settings{
		Name:    "mpesa-stk-push",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[Mpesa] Circuit breaker %s: %s -> %s", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			// A declined payment is a gateway answer, not a gateway failure.
			var declined *DeclinedError
			return err == nil || errors.As(err, &declined)
		},
	})

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

// STKPush issues one push-payment request and returns the gateway's
// correlation identifier. There is no retry: mobile-money gateways are not
// guaranteed idempotent, so each checkout submission makes at most one
// charge attempt.
func (c *Client) STKPush(ctx context.Context, req PushRequest) (*PushResponse, error) {
	resp, err := c.breaker.Execute(func() (*PushResponse, error) {
		return c.push(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Printf("[Mpesa] Breaker rejected push for %s: %v", req.Phone, err)
			return nil, ErrGatewayUnreachable
		}
		return nil, err
	}
	return resp, nil
}

func (c *Client) push(ctx context.Context, req PushRequest) (*PushResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal push request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stkpush", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build push request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		// Network failure or timeout is an outcome, not a fault.
		log.Printf("[Mpesa] Push request failed: %v", err)
		return nil, ErrGatewayUnreachable
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		log.Printf("[Mpesa] Gateway returned status %d", httpResp.StatusCode)
		return nil, ErrGatewayUnreachable
	}

	var resp PushResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode push response: %w", err)
	}

	if resp.Error != "" {
		return nil, &DeclinedError{Reason: resp.Error}
	}

	return &resp, nil
}
