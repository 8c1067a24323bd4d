package payments

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FaizwebWorks/ambika-backend/errs"
)

const testWebhookSecret = "whsec_test_secret"

// signedHeader builds a Stripe-Signature header the way Stripe's servers do.
func signedHeader(payload []byte, secret string) string {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func testStripeGateway() *StripeGateway {
	return NewStripeGateway("sk_test_key", testWebhookSecret, "http://localhost:3000")
}

func TestVerifyWebhookPaymentSucceeded(t *testing.T) {
	g := testStripeGateway()

	payload := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_123", "object": "payment_intent"}}
	}`)

	ev, err := g.VerifyWebhook(payload, signedHeader(payload, testWebhookSecret))
	require.NoError(t, err)

	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, EventPaymentSucceeded, ev.Type)
	assert.Equal(t, "pi_123", ev.PaymentIntentId)
	assert.Empty(t, ev.SessionId)
}

func TestVerifyWebhookPaymentFailed(t *testing.T) {
	g := testStripeGateway()

	payload := []byte(`{
		"id": "evt_2",
		"type": "payment_intent.payment_failed",
		"data": {"object": {"id": "pi_456", "object": "payment_intent"}}
	}`)

	ev, err := g.VerifyWebhook(payload, signedHeader(payload, testWebhookSecret))
	require.NoError(t, err)

	assert.Equal(t, EventPaymentFailed, ev.Type)
	assert.Equal(t, "pi_456", ev.PaymentIntentId)
}

func TestVerifyWebhookCheckoutCompleted(t *testing.T) {
	g := testStripeGateway()

	payload := []byte(`{
		"id": "evt_3",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_789", "object": "checkout.session"}}
	}`)

	ev, err := g.VerifyWebhook(payload, signedHeader(payload, testWebhookSecret))
	require.NoError(t, err)

	assert.Equal(t, EventCheckoutCompleted, ev.Type)
	assert.Equal(t, "cs_test_789", ev.SessionId)
	assert.Empty(t, ev.PaymentIntentId)
}

func TestVerifyWebhookAcceptsAnyAPIVersion(t *testing.T) {
	g := testStripeGateway()

	// Stripe sends the api_version the account is pinned to; events must
	// verify whether or not it matches the SDK's own version.
	for _, version := range []string{`"api_version": "2023-10-16",`, `"api_version": "2020-08-27",`, ""} {
		payload := []byte(`{
			"id": "evt_ver",
			` + version + `
			"type": "payment_intent.succeeded",
			"data": {"object": {"id": "pi_ver", "object": "payment_intent"}}
		}`)

		ev, err := g.VerifyWebhook(payload, signedHeader(payload, testWebhookSecret))
		require.NoError(t, err, "api_version fixture %q", version)
		assert.Equal(t, EventPaymentSucceeded, ev.Type)
		assert.Equal(t, "pi_ver", ev.PaymentIntentId)
	}
}

func TestVerifyWebhookUnhandledEventIsIgnored(t *testing.T) {
	g := testStripeGateway()

	payload := []byte(`{
		"id": "evt_4",
		"type": "customer.created",
		"data": {"object": {"id": "cus_1", "object": "customer"}}
	}`)

	ev, err := g.VerifyWebhook(payload, signedHeader(payload, testWebhookSecret))
	require.NoError(t, err)

	assert.Equal(t, EventIgnored, ev.Type)
}

func TestVerifyWebhookTamperedPayload(t *testing.T) {
	g := testStripeGateway()

	payload := []byte(`{"id": "evt_5", "type": "payment_intent.succeeded", "data": {"object": {"id": "pi_1"}}}`)
	header := signedHeader(payload, testWebhookSecret)

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = 'x'

	_, err := g.VerifyWebhook(tampered, header)
	require.Error(t, err)

	var appErr *errs.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "INVALID_SIGNATURE", appErr.Code)
}

func TestVerifyWebhookWrongSecret(t *testing.T) {
	g := testStripeGateway()

	payload := []byte(`{"id": "evt_6", "type": "payment_intent.succeeded", "data": {"object": {"id": "pi_1"}}}`)
	header := signedHeader(payload, "whsec_other_secret")

	_, err := g.VerifyWebhook(payload, header)
	assert.Error(t, err)
}

func TestVerifyWebhookMissingHeader(t *testing.T) {
	g := testStripeGateway()

	_, err := g.VerifyWebhook([]byte(`{}`), "")
	assert.Error(t, err)
}
