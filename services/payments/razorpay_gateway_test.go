package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signRazorpay(orderId, paymentId, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderId + "|" + paymentId))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyRazorpaySignature(t *testing.T) {
	const (
		orderId   = "order_MkWq3GkJ2h5abc"
		paymentId = "pay_MkWsLXorAqTdef"
		secret    = "test_secret_key"
	)

	sig := signRazorpay(orderId, paymentId, secret)
	assert.True(t, VerifyRazorpaySignature(orderId, paymentId, sig, secret))
}

func TestVerifyRazorpaySignatureTamperedPaymentId(t *testing.T) {
	const secret = "test_secret_key"

	sig := signRazorpay("order_A", "pay_A", secret)
	assert.False(t, VerifyRazorpaySignature("order_A", "pay_B", sig, secret))
}

func TestVerifyRazorpaySignatureWrongSecret(t *testing.T) {
	sig := signRazorpay("order_A", "pay_A", "secret_one")
	assert.False(t, VerifyRazorpaySignature("order_A", "pay_A", sig, "secret_two"))
}

func TestVerifyRazorpaySignatureEmpty(t *testing.T) {
	assert.False(t, VerifyRazorpaySignature("order_A", "pay_A", "", "secret"))
}

func TestGatewayVerifySignature(t *testing.T) {
	g := NewRazorpayGateway("key_id", "key_secret")

	sig := signRazorpay("order_X", "pay_X", "key_secret")
	assert.True(t, g.VerifySignature("order_X", "pay_X", sig))
	assert.False(t, g.VerifySignature("order_X", "pay_Y", sig))
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, int64(100), ToPaise(1))
	assert.Equal(t, int64(199900), ToPaise(1999))
	assert.Equal(t, int64(138000), ToPaise(1380.00))

	// Rounds instead of truncating float artifacts.
	assert.Equal(t, int64(1999), ToPaise(19.99))
	assert.Equal(t, int64(28), ToPaise(0.285))
}
