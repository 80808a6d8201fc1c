package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// EventTypeCheckoutPaid is the only event the reconciler acts on; everything
// else is acknowledged and dropped.
const EventTypeCheckoutPaid = "checkout_session.payment.paid"

// WebhookEvent is the decoded shape of a PayMongo event delivery. The session
// payload is nested under data.attributes.data.
type WebhookEvent struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Type string `json:"type"`
			Data struct {
				ID         string `json:"id"`
				Attributes struct {
					Description       string            `json:"description"`
					Metadata          map[string]string `json:"metadata"`
					LineItems         []LineItem        `json:"line_items"`
					PaymentMethodUsed string            `json:"payment_method_used"`
					Payments          []struct {
						ID string `json:"id"`
					} `json:"payments"`
				} `json:"attributes"`
			} `json:"data"`
		} `json:"attributes"`
	} `json:"data"`
}

func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	if event.Data.Attributes.Type == "" {
		return nil, fmt.Errorf("webhook payload has no event type")
	}
	return &event, nil
}

func (e *WebhookEvent) Type() string {
	return e.Data.Attributes.Type
}

func (e *WebhookEvent) SessionID() string {
	return e.Data.Attributes.Data.ID
}

func (e *WebhookEvent) Description() string {
	return e.Data.Attributes.Data.Attributes.Description
}

func (e *WebhookEvent) Metadata() map[string]string {
	return e.Data.Attributes.Data.Attributes.Metadata
}

func (e *WebhookEvent) PaymentMethod() string {
	if m := e.Data.Attributes.Data.Attributes.PaymentMethodUsed; m != "" {
		return m
	}
	return "unknown"
}

// ReferenceID prefers the id of the underlying payment and falls back to the
// event id, matching what the gateway exposes for reconciliation.
func (e *WebhookEvent) ReferenceID() string {
	if payments := e.Data.Attributes.Data.Attributes.Payments; len(payments) > 0 {
		return payments[0].ID
	}
	return e.Data.ID
}

// TotalAmount sums the session line items, converted from centavos.
func (e *WebhookEvent) TotalAmount() float64 {
	var total int64
	for _, item := range e.Data.Attributes.Data.Attributes.LineItems {
		total += item.Amount * int64(item.Quantity)
	}
	return float64(total) / 100
}

// VerifySignature checks the Paymongo-Signature header against the raw body.
// The header carries a timestamp plus test and live mode signatures:
// "t=<ts>,te=<sig>,li=<sig>"; the HMAC input is "<ts>.<body>".
func VerifySignature(payload []byte, header, webhookSecret string, liveMode bool) error {
	if header == "" {
		return fmt.Errorf("missing signature header")
	}

	var timestamp, testSig, liveSig string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "te":
			testSig = kv[1]
		case "li":
			liveSig = kv[1]
		}
	}

	expected := testSig
	if liveMode {
		expected = liveSig
	}
	if timestamp == "" || expected == "" {
		return fmt.Errorf("malformed signature header")
	}

	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(timestamp + "."))
	mac.Write(payload)
	computed := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(computed), []byte(expected)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}
