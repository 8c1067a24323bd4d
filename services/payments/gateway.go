package payments

import (
	"context"
	"math"

	"github.com/FaizwebWorks/ambika-backend/models"
)

// Webhook event types normalized across providers.
const (
	EventPaymentSucceeded  = "payment_succeeded"
	EventCheckoutCompleted = "checkout_completed"
	EventPaymentFailed     = "payment_failed"
	EventIgnored           = "ignored"
)

// InitiateResult is the provider-neutral shape returned when a charge,
// provider order or payment request has been set up. Only the fields the
// provider actually uses are populated.
type InitiateResult struct {
	Provider        string `json:"provider"`
	Amount          int64  `json:"amount"` // smallest currency unit
	Currency        string `json:"currency"`
	ClientSecret    string `json:"clientSecret,omitempty"`
	PaymentIntentId string `json:"paymentIntentId,omitempty"`
	SessionId       string `json:"sessionId,omitempty"`
	SessionURL      string `json:"sessionUrl,omitempty"`
	ProviderOrderId string `json:"providerOrderId,omitempty"`
	KeyId           string `json:"keyId,omitempty"`
	UPILink         string `json:"upiLink,omitempty"`
	QRCode          string `json:"qrCode,omitempty"`
	TransactionId   string `json:"transactionId,omitempty"`
}

// ConfirmRequest carries whatever the client or provider handed back for
// confirmation. Adapters pick the fields they need.
type ConfirmRequest struct {
	PaymentIntentId  string
	ProviderOrderId  string
	PaymentId        string
	Signature        string
	TransactionId    string
	UPITransactionId string
	UPIId            string
}

// Confirmation is the normalized result of a confirm call. Manual marks the
// low-assurance UPI path where nothing was verified server-side against the
// provider.
type Confirmation struct {
	Succeeded     bool
	TransactionId string
	Note          string
	Manual        bool
}

// WebhookEvent is a verified provider callback. The correlation ids are the
// provider's own, so orders are resolved by them and never by a
// client-supplied order id.
type WebhookEvent struct {
	ID              string
	Type            string
	PaymentIntentId string
	SessionId       string
}

// Gateway normalizes charge creation, confirmation and webhook verification
// across providers. Not every provider supports every capability; the ones
// that don't return a validation error.
type Gateway interface {
	Name() string
	Initiate(ctx context.Context, order *models.Order) (*InitiateResult, error)
	Confirm(ctx context.Context, order *models.Order, req ConfirmRequest) (*Confirmation, error)
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// ToPaise converts rupees to the smallest currency unit.
func ToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
