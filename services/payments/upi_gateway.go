package payments

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/FaizwebWorks/ambika-backend/errs"
	"github.com/FaizwebWorks/ambika-backend/models"
)

const qrSize = 300

// UPIGateway generates upi:// deep links and QR codes. UPI has no automated
// callback, so confirmation is a client-submitted claim: the weakest-trust
// path, surfaced as Manual so callers can flag it for reconciliation.
type UPIGateway struct {
	merchantUPI  string
	merchantName string
}

func NewUPIGateway(merchantUPI, merchantName string) *UPIGateway {
	return &UPIGateway{merchantUPI: merchantUPI, merchantName: merchantName}
}

func (g *UPIGateway) Name() string { return models.PaymentMethodUPI }

func (g *UPIGateway) Initiate(ctx context.Context, order *models.Order) (*InitiateResult, error) {
	if g.merchantUPI == "" {
		return nil, errs.GatewayUnavailable("UPI payments are not configured", nil)
	}

	transactionId := fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), order.ID.Hex())
	description := "Payment for Order #" + order.OrderNumber

	link := BuildUPILink(g.merchantUPI, g.merchantName, order.Pricing.Total, transactionId, description)

	qr, err := EncodeQRDataURL(link)
	if err != nil {
		return nil, errs.Internal("Failed to generate QR code", err)
	}

	return &InitiateResult{
		Provider:      g.Name(),
		Amount:        ToPaise(order.Pricing.Total),
		Currency:      "INR",
		UPILink:       link,
		QRCode:        qr,
		TransactionId: transactionId,
	}, nil
}

// Confirm accepts a manual confirmation. Nothing is verified against a
// provider; the caller is expected to record it as low-assurance.
func (g *UPIGateway) Confirm(ctx context.Context, order *models.Order, req ConfirmRequest) (*Confirmation, error) {
	if req.UPITransactionId == "" {
		return nil, errs.Validation("upiTransactionId is required")
	}

	// Clients that never called Initiate have no internal transaction id;
	// fall back to the UPI reference so the order always records one.
	transactionId := req.TransactionId
	if transactionId == "" {
		transactionId = req.UPITransactionId
	}

	return &Confirmation{
		Succeeded:     true,
		TransactionId: transactionId,
		Note:          fmt.Sprintf("Payment verified manually via UPI (UPI ref %s), pending reconciliation", req.UPITransactionId),
		Manual:        true,
	}, nil
}

func (g *UPIGateway) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	return nil, errs.Validation("UPI has no webhook callback")
}

// BuildUPILink assembles a upi://pay deep link.
func BuildUPILink(merchantUPI, merchantName string, amount float64, transactionId, description string) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%.2f&tn=%s&tr=%s",
		merchantUPI,
		url.QueryEscape(merchantName),
		amount,
		url.QueryEscape(description),
		transactionId,
	)
}

// BuildUPICollectLink assembles a upi://collect request link for pulling a
// payment from a payer's UPI id.
func BuildUPICollectLink(payerUPI, merchantName string, amount float64, transactionId, description string) string {
	return fmt.Sprintf("upi://collect?pa=%s&pn=%s&am=%.2f&tn=%s&tr=%s",
		payerUPI,
		url.QueryEscape(merchantName),
		amount,
		url.QueryEscape(description),
		transactionId,
	)
}

// EncodeQRDataURL renders the link as an inline PNG data URL.
func EncodeQRDataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
