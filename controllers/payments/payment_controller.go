package controllers

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/FaizwebWorks/ambika-backend/configs"
	orders "github.com/FaizwebWorks/ambika-backend/controllers/orders"
	"github.com/FaizwebWorks/ambika-backend/errs"
	"github.com/FaizwebWorks/ambika-backend/middlewares"
	"github.com/FaizwebWorks/ambika-backend/models"
	"github.com/FaizwebWorks/ambika-backend/responses"
	"github.com/FaizwebWorks/ambika-backend/services/payments"
	"github.com/FaizwebWorks/ambika-backend/utils"
)

var (
	gatewayOnce sync.Once
	stripeGW    *payments.StripeGateway
	razorpayGW  *payments.RazorpayGateway
	upiGW       *payments.UPIGateway
	eventDedup  *utils.Cache
)

func gateways() (*payments.StripeGateway, *payments.RazorpayGateway, *payments.UPIGateway) {
	gatewayOnce.Do(func() {
		stripeGW = payments.NewStripeGateway(
			configs.EnvStripeSecretKey(),
			configs.EnvStripeWebhookSecret(),
			configs.EnvFrontendURL(),
		)
		razorpayGW = payments.NewRazorpayGateway(
			configs.EnvRazorpayKeyId(),
			configs.EnvRazorpayKeySecret(),
		)
		upiGW = payments.NewUPIGateway(
			configs.EnvMerchantUPIId(),
			configs.EnvMerchantName(),
		)
		eventDedup = utils.NewCache(configs.Redis, 24*time.Hour)
	})
	return stripeGW, razorpayGW, upiGW
}

// ownedPendingOrder loads an order, checks the caller owns it and that the
// payment has not already completed.
func ownedPendingOrder(ctx context.Context, c *fiber.Ctx, orderIdHex string) (*models.Order, error) {
	orderId, err := primitive.ObjectIDFromHex(orderIdHex)
	if err != nil {
		return nil, errs.Validation("Invalid order ID format")
	}

	order, err := orders.Coordinator().GetOrder(ctx, orderId)
	if err != nil {
		return nil, err
	}

	userId, _ := middlewares.UserId(c)
	if order.Customer.Hex() != userId {
		return nil, errs.Forbidden("Access denied")
	}
	if order.Payment.Status == models.PaymentStatusCompleted {
		return nil, errs.Validation("Order is already paid")
	}
	return order, nil
}

func recordInitiation(ctx context.Context, orderId primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()
	if _, err := configs.GetCollection("orders").UpdateOne(ctx, bson.M{"_id": orderId}, bson.M{"$set": set}); err != nil {
		return errs.Internal("Error recording payment initiation", err)
	}
	return nil
}

// CreateStripePaymentIntent sets up a card charge for the order total and
// stores the intent id on the order so later confirmation and webhooks can
// correlate by it.
func CreateStripePaymentIntent(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	stripe, _, _ := gateways()

	var req struct {
		OrderId string `json:"orderId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	order, err := ownedPendingOrder(ctx, c, req.OrderId)
	if err != nil {
		return err
	}

	result, err := stripe.Initiate(ctx, order)
	if err != nil {
		return err
	}

	if err := recordInitiation(ctx, order.ID, bson.M{
		"payment.method":                models.PaymentMethodStripe,
		"payment.stripePaymentIntentId": result.PaymentIntentId,
	}); err != nil {
		return err
	}

	return responses.OK(c, "Payment intent created", &fiber.Map{"payment": result})
}

// CreateStripeCheckoutSession is the hosted-page alternative to an intent.
func CreateStripeCheckoutSession(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	stripe, _, _ := gateways()

	var req struct {
		OrderId string `json:"orderId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	order, err := ownedPendingOrder(ctx, c, req.OrderId)
	if err != nil {
		return err
	}

	result, err := stripe.CreateCheckoutSession(ctx, order)
	if err != nil {
		return err
	}

	if err := recordInitiation(ctx, order.ID, bson.M{
		"payment.method":          models.PaymentMethodStripe,
		"payment.stripeSessionId": result.SessionId,
	}); err != nil {
		return err
	}

	return responses.OK(c, "Checkout session created", &fiber.Map{"payment": result})
}

// ConfirmStripePayment verifies the intent server-side with Stripe before
// marking the order paid. The client's word alone is never enough.
func ConfirmStripePayment(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	stripe, _, _ := gateways()

	var req struct {
		OrderId         string `json:"orderId"`
		PaymentIntentId string `json:"paymentIntentId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	orderId, err := primitive.ObjectIDFromHex(req.OrderId)
	if err != nil {
		return errs.Validation("Invalid order ID format")
	}
	order, err := orders.Coordinator().GetOrder(ctx, orderId)
	if err != nil {
		return err
	}
	userId, _ := middlewares.UserId(c)
	if order.Customer.Hex() != userId {
		return errs.Forbidden("Access denied")
	}

	conf, err := stripe.Confirm(ctx, order, payments.ConfirmRequest{PaymentIntentId: req.PaymentIntentId})
	if err != nil {
		return err
	}

	if !conf.Succeeded {
		if err := orders.Coordinator().MarkPaymentFailed(ctx, order.ID); err != nil {
			return err
		}
		return errs.Validation("Payment has not succeeded yet")
	}

	updated, _, err := orders.Coordinator().MarkPaid(ctx, order, models.PaymentMethodStripe, conf,
		bson.M{"payment.stripePaymentIntentId": req.PaymentIntentId})
	if err != nil {
		return err
	}

	return responses.OK(c, "Payment confirmed", &fiber.Map{"order": updated})
}

// GetStripeSession exposes hosted checkout session status to the frontend
// success page.
func GetStripeSession(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	stripe, _, _ := gateways()

	sessionId := c.Params("sessionId")
	if sessionId == "" {
		return errs.Validation("Session ID is required")
	}

	s, err := stripe.GetSession(ctx, sessionId)
	if err != nil {
		return err
	}

	return responses.OK(c, "Session fetched", &fiber.Map{
		"sessionId":     s.ID,
		"paymentStatus": s.PaymentStatus,
		"status":        s.Status,
		"amountTotal":   s.AmountTotal,
	})
}

// StripeWebhook handles provider callbacks. The signature is checked before
// anything in the body is trusted, replayed event ids are dropped, and once
// the signature verifies the endpoint answers 200 even when our own
// processing fails, so the provider does not retry forever.
func StripeWebhook(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	stripe, _, _ := gateways()

	ev, err := stripe.VerifyWebhook(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		return err
	}

	if ev.Type == payments.EventIgnored {
		return responses.OK(c, "Event ignored", nil)
	}

	dedupKey := "stripe:event:" + ev.ID
	if !eventDedup.Once(ctx, dedupKey, 24*time.Hour) {
		return responses.OK(c, "Event already processed", nil)
	}

	if err := orders.Coordinator().ConfirmFromWebhook(ctx, ev); err != nil {
		// Release the dedup claim so the provider's retry of this event id
		// gets another attempt instead of being dropped for the TTL.
		eventDedup.Delete(ctx, dedupKey)
		utils.Logger.Error().Err(err).Str("event", ev.ID).Str("type", ev.Type).Msg("webhook processing failed")
	}

	return responses.OK(c, "Webhook processed", nil)
}

// CreateRazorpayOrder sets up the provider-side order for the checkout
// widget and records its id for later signature verification.
func CreateRazorpayOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	_, razorpay, _ := gateways()

	var req struct {
		OrderId string `json:"orderId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	order, err := ownedPendingOrder(ctx, c, req.OrderId)
	if err != nil {
		return err
	}

	result, err := razorpay.Initiate(ctx, order)
	if err != nil {
		return err
	}

	if err := recordInitiation(ctx, order.ID, bson.M{
		"payment.method":          models.PaymentMethodRazorpay,
		"payment.razorpayOrderId": result.ProviderOrderId,
	}); err != nil {
		return err
	}

	return responses.OK(c, "Razorpay order created", &fiber.Map{"payment": result})
}

// VerifyRazorpayPayment checks the checkout signature against the provider
// order recorded on our side, then marks the order paid.
func VerifyRazorpayPayment(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	_, razorpay, _ := gateways()

	var req struct {
		OrderId           string `json:"orderId"`
		RazorpayOrderId   string `json:"razorpayOrderId"`
		RazorpayPaymentId string `json:"razorpayPaymentId"`
		RazorpaySignature string `json:"razorpaySignature"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	orderId, err := primitive.ObjectIDFromHex(req.OrderId)
	if err != nil {
		return errs.Validation("Invalid order ID format")
	}
	order, err := orders.Coordinator().GetOrder(ctx, orderId)
	if err != nil {
		return err
	}
	userId, _ := middlewares.UserId(c)
	if order.Customer.Hex() != userId {
		return errs.Forbidden("Access denied")
	}

	conf, err := razorpay.Confirm(ctx, order, payments.ConfirmRequest{
		ProviderOrderId: req.RazorpayOrderId,
		PaymentId:       req.RazorpayPaymentId,
		Signature:       req.RazorpaySignature,
	})
	if err != nil {
		return err
	}

	updated, _, err := orders.Coordinator().MarkPaid(ctx, order, models.PaymentMethodRazorpay, conf, nil)
	if err != nil {
		return err
	}

	return responses.OK(c, "Payment verified", &fiber.Map{"order": updated})
}

// CreateUPIPaymentRequest returns the deep link and QR code for paying the
// order total to the merchant UPI id.
func CreateUPIPaymentRequest(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	_, _, upi := gateways()

	order, err := ownedPendingOrder(ctx, c, c.Params("orderId"))
	if err != nil {
		return err
	}

	result, err := upi.Initiate(ctx, order)
	if err != nil {
		return err
	}

	if err := recordInitiation(ctx, order.ID, bson.M{
		"payment.method":        models.PaymentMethodUPI,
		"payment.transactionId": result.TransactionId,
	}); err != nil {
		return err
	}

	return responses.OK(c, "UPI payment request created", &fiber.Map{"payment": result})
}

// VerifyUPIPayment accepts the customer's claimed UPI reference. Nothing is
// checked against a provider, so the confirmation is flagged for admin
// reconciliation.
func VerifyUPIPayment(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	_, _, upi := gateways()

	var req struct {
		OrderId          string `json:"orderId"`
		TransactionId    string `json:"transactionId"`
		UPITransactionId string `json:"upiTransactionId"`
		UPIId            string `json:"upiId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	orderId, err := primitive.ObjectIDFromHex(req.OrderId)
	if err != nil {
		return errs.Validation("Invalid order ID format")
	}
	order, err := orders.Coordinator().GetOrder(ctx, orderId)
	if err != nil {
		return err
	}
	userId, _ := middlewares.UserId(c)
	if order.Customer.Hex() != userId {
		return errs.Forbidden("Access denied")
	}

	conf, err := upi.Confirm(ctx, order, payments.ConfirmRequest{
		TransactionId:    req.TransactionId,
		UPITransactionId: req.UPITransactionId,
		UPIId:            req.UPIId,
	})
	if err != nil {
		return err
	}

	updated, _, err := orders.Coordinator().MarkPaid(ctx, order, models.PaymentMethodUPI, conf, bson.M{
		"payment.upiTransactionId": req.UPITransactionId,
		"payment.upiId":            req.UPIId,
	})
	if err != nil {
		return err
	}

	return responses.OK(c, "UPI payment recorded, pending reconciliation", &fiber.Map{"order": updated})
}

// CreateUPICollectQR builds a collect-request QR for an arbitrary amount.
// Admin tool for invoicing off-platform B2B deals.
func CreateUPICollectQR(c *fiber.Ctx) error {
	var req struct {
		PayerUPI    string  `json:"payerUpi"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}
	if req.PayerUPI == "" || req.Amount <= 0 {
		return errs.Validation("payerUpi and a positive amount are required")
	}

	transactionId := "COLLECT_" + primitive.NewObjectID().Hex()
	link := payments.BuildUPICollectLink(req.PayerUPI, configs.EnvMerchantName(), req.Amount, transactionId, req.Description)
	qr, err := payments.EncodeQRDataURL(link)
	if err != nil {
		return errs.Internal("Failed to generate QR code", err)
	}

	return responses.OK(c, "Collect request created", &fiber.Map{
		"upiLink":       link,
		"qrCode":        qr,
		"transactionId": transactionId,
	})
}
