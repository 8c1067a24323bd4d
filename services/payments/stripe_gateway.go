package payments

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/FaizwebWorks/ambika-backend/errs"
	"github.com/FaizwebWorks/ambika-backend/models"
)

const (
	stripeCurrency       = "inr"
	stripeConfirmRetries = 3
	stripeRetryBackoff   = 500 * time.Millisecond
)

type StripeGateway struct {
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeGateway(secretKey, webhookSecret, frontendURL string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{
		webhookSecret: webhookSecret,
		successURL:    frontendURL + "/payment/success",
		cancelURL:     frontendURL + "/payment/cancel",
	}
}

func (g *StripeGateway) Name() string { return models.PaymentMethodStripe }

// Initiate creates a payment intent for the order total. Creation carries an
// idempotency key so a transport-level retry can never double-charge.
func (g *StripeGateway) Initiate(ctx context.Context, order *models.Order) (*InitiateResult, error) {
	amount := ToPaise(order.Pricing.Total)

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context:        ctx,
			IdempotencyKey: stripe.String(uuid.NewString()),
		},
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(stripeCurrency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Description:        stripe.String("Order payment for " + order.CustomerInfo.Name),
	}
	if order.CustomerInfo.Email != "" {
		params.ReceiptEmail = stripe.String(order.CustomerInfo.Email)
	}
	params.AddMetadata("orderId", order.ID.Hex())
	params.AddMetadata("orderNumber", order.OrderNumber)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, errs.GatewayUnavailable("Failed to create payment intent", err)
	}

	return &InitiateResult{
		Provider:        g.Name(),
		Amount:          amount,
		Currency:        stripeCurrency,
		ClientSecret:    pi.ClientSecret,
		PaymentIntentId: pi.ID,
	}, nil
}

// CreateCheckoutSession is the hosted alternative to a payment intent. Line
// items are built from the order's denormalized snapshots, not the live
// catalog.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, order *models.Order) (*InitiateResult, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(order.Items))
	for _, item := range order.Items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.ProductInfo.Title),
		}
		if item.ProductInfo.Image != "" {
			productData.Images = stripe.StringSlice([]string{item.ProductInfo.Image})
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(stripeCurrency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(ToPaise(item.Price)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	// Tax and shipping are their own line so the session total matches the
	// order total.
	extra := ToPaise(order.Pricing.Tax + order.Pricing.Shipping)
	if extra > 0 {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(stripeCurrency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Tax & shipping"),
				},
				UnitAmount: stripe.Int64(extra),
			},
			Quantity: stripe.Int64(1),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context:        ctx,
			IdempotencyKey: stripe.String(uuid.NewString()),
		},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(g.successURL + "?session_id={CHECKOUT_SESSION_ID}&orderId=" + order.ID.Hex()),
		CancelURL:          stripe.String(g.cancelURL),
	}
	if order.CustomerInfo.Email != "" {
		params.CustomerEmail = stripe.String(order.CustomerInfo.Email)
	}
	params.AddMetadata("orderId", order.ID.Hex())

	s, err := session.New(params)
	if err != nil {
		return nil, errs.GatewayUnavailable("Failed to create checkout session", err)
	}

	return &InitiateResult{
		Provider:   g.Name(),
		Amount:     ToPaise(order.Pricing.Total),
		Currency:   stripeCurrency,
		SessionId:  s.ID,
		SessionURL: s.URL,
	}, nil
}

// Confirm re-fetches the intent from Stripe instead of trusting the client.
// The read is idempotent, so it retries with backoff before giving up.
func (g *StripeGateway) Confirm(ctx context.Context, order *models.Order, req ConfirmRequest) (*Confirmation, error) {
	if req.PaymentIntentId == "" {
		return nil, errs.Validation("paymentIntentId is required")
	}
	if order.Payment.StripePaymentIntentId != "" && order.Payment.StripePaymentIntentId != req.PaymentIntentId {
		return nil, errs.Validation("Payment intent does not belong to this order")
	}

	var pi *stripe.PaymentIntent
	var err error
	for attempt := 0; attempt < stripeConfirmRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errs.GatewayUnavailable("Payment confirmation timed out", ctx.Err())
			case <-time.After(stripeRetryBackoff * time.Duration(attempt)):
			}
		}
		pi, err = paymentintent.Get(req.PaymentIntentId, &stripe.PaymentIntentParams{
			Params: stripe.Params{Context: ctx},
		})
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, errs.GatewayUnavailable("Failed to confirm payment", err)
	}

	return &Confirmation{
		Succeeded:     pi.Status == stripe.PaymentIntentStatusSucceeded,
		TransactionId: pi.ID,
		Note:          "Payment completed via Stripe",
	}, nil
}

// GetSession fetches hosted checkout session details.
func (g *StripeGateway) GetSession(ctx context.Context, sessionId string) (*stripe.CheckoutSession, error) {
	s, err := session.Get(sessionId, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, errs.GatewayUnavailable("Failed to retrieve session", err)
	}
	return s, nil
}

// VerifyWebhook checks the Stripe-Signature HMAC against the raw body before
// anything in the payload is trusted. The event's api_version is not pinned
// to the SDK's: a version drift is not a signature failure, and the few
// fields read here are stable across versions.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, errs.InvalidSignature("Webhook signature verification failed")
	}

	out := &WebhookEvent{ID: event.ID, Type: EventIgnored}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, errs.Validation("Malformed webhook payload")
		}
		out.PaymentIntentId = pi.ID
		if event.Type == "payment_intent.succeeded" {
			out.Type = EventPaymentSucceeded
		} else {
			out.Type = EventPaymentFailed
		}
	case "checkout.session.completed":
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, errs.Validation("Malformed webhook payload")
		}
		out.SessionId = s.ID
		out.Type = EventCheckoutCompleted
	}

	return out, nil
}
