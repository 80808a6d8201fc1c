package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.paymongo.com/v1"

// Client talks to the PayMongo REST API. Authentication is HTTP basic with
// the secret key as username and an empty password.
type Client struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(secretKey, baseURL string) *Client {
	c := NewClient(secretKey)
	c.baseURL = baseURL
	return c
}

type LineItem struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"` // minor currency units (centavos)
	Currency string `json:"currency"`
	Quantity int    `json:"quantity"`
}

type CheckoutParams struct {
	Description        string
	PaymentMethodTypes []string
	LineItems          []LineItem
	SuccessURL         string
	CancelURL          string
	Metadata           map[string]string
	SendEmailReceipt   bool
}

type CheckoutSession struct {
	ID          string
	CheckoutURL string
}

type checkoutRequest struct {
	Data struct {
		Attributes struct {
			SendEmailReceipt   bool              `json:"send_email_receipt"`
			Description        string            `json:"description"`
			PaymentMethodTypes []string          `json:"payment_method_types"`
			LineItems          []LineItem        `json:"line_items"`
			SuccessURL         string            `json:"success_url"`
			CancelURL          string            `json:"cancel_url"`
			Metadata           map[string]string `json:"metadata,omitempty"`
		} `json:"attributes"`
	} `json:"data"`
}

type checkoutResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			CheckoutURL string `json:"checkout_url"`
		} `json:"attributes"`
	} `json:"data"`
	Errors []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// CreateCheckoutSession creates a hosted checkout session and returns its id
// together with the redirect URL for the buyer.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	var reqBody checkoutRequest
	reqBody.Data.Attributes.SendEmailReceipt = params.SendEmailReceipt
	reqBody.Data.Attributes.Description = params.Description
	reqBody.Data.Attributes.PaymentMethodTypes = params.PaymentMethodTypes
	reqBody.Data.Attributes.LineItems = params.LineItems
	reqBody.Data.Attributes.SuccessURL = params.SuccessURL
	reqBody.Data.Attributes.CancelURL = params.CancelURL
	reqBody.Data.Attributes.Metadata = params.Metadata

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout_sessions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.secretKey+":")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var result checkoutResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("gateway error: %s", result.Errors[0].Detail)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	if result.Data.ID == "" || result.Data.Attributes.CheckoutURL == "" {
		return nil, fmt.Errorf("gateway returned incomplete session")
	}

	return &CheckoutSession{
		ID:          result.Data.ID,
		CheckoutURL: result.Data.Attributes.CheckoutURL,
	}, nil
}
