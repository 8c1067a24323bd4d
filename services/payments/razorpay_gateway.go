package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/FaizwebWorks/ambika-backend/errs"
	"github.com/FaizwebWorks/ambika-backend/models"
)

type RazorpayGateway struct {
	keyId     string
	keySecret string
	client    *razorpay.Client
}

func NewRazorpayGateway(keyId, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		keyId:     keyId,
		keySecret: keySecret,
		client:    razorpay.NewClient(keyId, keySecret),
	}
}

func (g *RazorpayGateway) Name() string { return models.PaymentMethodRazorpay }

// Initiate creates the provider-side order the client checkout widget pays
// against.
func (g *RazorpayGateway) Initiate(ctx context.Context, order *models.Order) (*InitiateResult, error) {
	amount := ToPaise(order.Pricing.Total)

	data := map[string]interface{}{
		"amount":   amount,
		"currency": "INR",
		"receipt":  "rcpt_" + order.ID.Hex(),
		"notes": map[string]interface{}{
			"orderId":     order.ID.Hex(),
			"orderNumber": order.OrderNumber,
		},
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, errs.GatewayUnavailable("Failed to create Razorpay order", err)
	}

	providerOrderId, _ := body["id"].(string)
	if providerOrderId == "" {
		return nil, errs.GatewayUnavailable("Razorpay returned no order id", nil)
	}

	return &InitiateResult{
		Provider:        g.Name(),
		Amount:          amount,
		Currency:        "INR",
		ProviderOrderId: providerOrderId,
		KeyId:           g.keyId,
	}, nil
}

// InitiateAmount creates a provider order for an arbitrary amount in paise.
// Used for charges that are not backed by a catalog order, like
// subscription payments.
func (g *RazorpayGateway) InitiateAmount(ctx context.Context, amount int64, receipt string, notes map[string]interface{}) (*InitiateResult, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": "INR",
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, errs.GatewayUnavailable("Failed to create Razorpay order", err)
	}

	providerOrderId, _ := body["id"].(string)
	if providerOrderId == "" {
		return nil, errs.GatewayUnavailable("Razorpay returned no order id", nil)
	}

	return &InitiateResult{
		Provider:        g.Name(),
		Amount:          amount,
		Currency:        "INR",
		ProviderOrderId: providerOrderId,
		KeyId:           g.keyId,
	}, nil
}

// VerifySignature checks a checkout signature against this gateway's secret.
func (g *RazorpayGateway) VerifySignature(providerOrderId, paymentId, signature string) bool {
	return VerifyRazorpaySignature(providerOrderId, paymentId, signature, g.keySecret)
}

// Confirm verifies the client-supplied signature against the provider order
// recorded on our side, never against client-supplied ids alone.
func (g *RazorpayGateway) Confirm(ctx context.Context, order *models.Order, req ConfirmRequest) (*Confirmation, error) {
	providerOrderId := order.Payment.RazorpayOrderId
	if providerOrderId == "" {
		providerOrderId = req.ProviderOrderId
	}
	if providerOrderId == "" || req.PaymentId == "" || req.Signature == "" {
		return nil, errs.Validation("paymentId and signature are required")
	}

	if !VerifyRazorpaySignature(providerOrderId, req.PaymentId, req.Signature, g.keySecret) {
		return nil, errs.InvalidSignature("Invalid payment signature")
	}

	return &Confirmation{
		Succeeded:     true,
		TransactionId: req.PaymentId,
		Note:          "Payment verified via Razorpay",
	}, nil
}

func (g *RazorpayGateway) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	return nil, errs.Validation("Razorpay webhooks are not supported")
}

// VerifyRazorpaySignature recomputes HMAC-SHA256 over "orderId|paymentId"
// and compares in constant time.
func VerifyRazorpaySignature(providerOrderId, paymentId, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(providerOrderId + "|" + paymentId))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
