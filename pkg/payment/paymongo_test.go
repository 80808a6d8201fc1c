package payment

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCheckoutSession(t *testing.T) {
	var captured checkoutRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout_sessions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		// Basic auth with the secret key as username, empty password.
		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("sk_test_abc:"))
		assert.Equal(t, expected, r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": {
				"id": "cs_123",
				"attributes": {"checkout_url": "https://checkout.paymongo.com/cs_123"}
			}
		}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("sk_test_abc", server.URL)
	session, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{
		Description:        "Photo #42",
		PaymentMethodTypes: []string{"gcash"},
		LineItems: []LineItem{
			{Name: "Photo #42", Amount: 10000, Currency: "PHP", Quantity: 1},
		},
		SuccessURL: "https://studio.example/success",
		CancelURL:  "https://studio.example/cancel",
		Metadata:   map[string]string{"user_id": "7"},
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_123", session.ID)
	assert.Equal(t, "https://checkout.paymongo.com/cs_123", session.CheckoutURL)

	attrs := captured.Data.Attributes
	assert.Equal(t, "Photo #42", attrs.Description)
	assert.Equal(t, []string{"gcash"}, attrs.PaymentMethodTypes)
	require.Len(t, attrs.LineItems, 1)
	assert.Equal(t, int64(10000), attrs.LineItems[0].Amount)
	assert.Equal(t, "7", attrs.Metadata["user_id"])
}

func TestCreateCheckoutSessionGatewayErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{
			name:   "error array",
			status: http.StatusBadRequest,
			body:   `{"errors": [{"code": "parameter_invalid", "detail": "amount is below the minimum"}]}`,
		},
		{
			name:   "non-2xx without errors",
			status: http.StatusInternalServerError,
			body:   `{}`,
		},
		{
			name:   "incomplete session",
			status: http.StatusOK,
			body:   `{"data": {"id": "cs_123", "attributes": {}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClientWithBaseURL("sk_test_abc", server.URL)
			_, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{})
			assert.Error(t, err)
		})
	}
}
