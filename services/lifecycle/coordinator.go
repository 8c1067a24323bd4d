package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FaizwebWorks/ambika-backend/errs"
	"github.com/FaizwebWorks/ambika-backend/models"
	"github.com/FaizwebWorks/ambika-backend/services/payments"
	"github.com/FaizwebWorks/ambika-backend/utils"
)

// Coordinator enforces legal order-status transitions and their side
// effects: stock movement, payment bookkeeping, history entries and
// notifications. Multi-document steps are not transactional; creation is a
// saga that compensates already-reserved stock on failure.
type Coordinator struct {
	orders        *mongo.Collection
	products      *mongo.Collection
	counters      *mongo.Collection
	notifications *mongo.Collection
	log           zerolog.Logger
}

func NewCoordinator(orders, products, counters, notifications *mongo.Collection) *Coordinator {
	return &Coordinator{
		orders:        orders,
		products:      products,
		counters:      counters,
		notifications: notifications,
		log:           utils.Logger.With().Str("component", "lifecycle").Logger(),
	}
}

type OrderItemRequest struct {
	ProductID string   `json:"product"`
	Quantity  int      `json:"quantity"`
	Size      string   `json:"size,omitempty"`
	Variants  []string `json:"variants,omitempty"`
}

type CreateOrderRequest struct {
	Items        []OrderItemRequest   `json:"items"`
	CustomerInfo *models.CustomerInfo `json:"customerInfo,omitempty"`
	Shipping     models.ShippingInfo  `json:"shipping"`
	Payment      *models.PaymentInfo  `json:"payment,omitempty"`
	Notes        string               `json:"notes,omitempty"`
}

// CreateOrder runs the creation contract: per line, load the product,
// reserve stock with a single conditional decrement (check and act in one
// document operation), snapshot catalog fields, accumulate the subtotal.
// Any failure releases everything reserved so far before returning.
func (co *Coordinator) CreateOrder(ctx context.Context, customer *models.User, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, errs.Validation("Order must contain at least one item")
	}

	var subtotal float64
	items := make([]models.OrderItem, 0, len(req.Items))

	fail := func(err error) (*models.Order, error) {
		co.releaseStock(context.Background(), items)
		return nil, err
	}

	for _, line := range req.Items {
		if line.Quantity < 1 {
			return fail(errs.Validation("Item quantity must be at least 1"))
		}

		productId, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			return fail(errs.Validation("Invalid product id: " + line.ProductID))
		}

		var product models.Product
		if err := co.products.FindOne(ctx, bson.M{"_id": productId}).Decode(&product); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return fail(errs.NotFound("Product " + line.ProductID + " not found"))
			}
			return fail(errs.Internal("Error loading product", err))
		}

		if product.MinOrderQuantity > 0 && line.Quantity < product.MinOrderQuantity {
			return fail(errs.Validation(fmt.Sprintf("Minimum order quantity for %s is %d", product.Title, product.MinOrderQuantity)))
		}
		if product.MaxOrderQuantity > 0 && line.Quantity > product.MaxOrderQuantity {
			return fail(errs.Validation(fmt.Sprintf("Maximum order quantity for %s is %d", product.Title, product.MaxOrderQuantity)))
		}

		res, err := co.products.UpdateOne(ctx,
			bson.M{"_id": productId, "stock": bson.M{"$gte": line.Quantity}},
			bson.M{"$inc": bson.M{"stock": -line.Quantity}},
		)
		if err != nil {
			return fail(errs.Internal("Error reserving stock", err))
		}
		if res.MatchedCount == 0 {
			return fail(errs.InsufficientStock("Insufficient stock for product " + product.Title))
		}

		subtotal += product.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			Product: product.ID,
			ProductInfo: models.ProductInfo{
				Title: product.Title,
				Price: product.Price,
				Image: product.FirstImage(),
			},
			Quantity: line.Quantity,
			Price:    product.Price,
			Size:     line.Size,
			Variants: line.Variants,
		})
	}

	orderNumber, err := co.nextOrderNumber(ctx)
	if err != nil {
		return fail(errs.Internal("Error generating order number", err))
	}

	customerInfo := models.CustomerInfo{
		Name:  customer.DisplayName(),
		Email: customer.Email,
		Phone: customer.Phone,
	}
	if req.CustomerInfo != nil {
		customerInfo = *req.CustomerInfo
	}

	payment := models.PaymentInfo{Method: models.PaymentMethodCOD, Status: models.PaymentStatusPending}
	if req.Payment != nil && req.Payment.Method != "" {
		payment.Method = req.Payment.Method
	}

	now := time.Now()
	order := models.Order{
		ID:           primitive.NewObjectID(),
		OrderNumber:  orderNumber,
		Customer:     customer.ID,
		CustomerInfo: customerInfo,
		Items:        items,
		Pricing:      models.ComputePricing(subtotal, req.Shipping.Method),
		Payment:      payment,
		Shipping:     req.Shipping,
		Status:       models.OrderStatusPending,
		StatusHistory: []models.StatusEntry{
			{Status: models.OrderStatusPending, UpdatedAt: now, Note: "Order placed"},
		},
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := co.orders.InsertOne(ctx, order); err != nil {
		return fail(errs.Internal("Error creating order", err))
	}

	co.notify(ctx, &customer.ID, models.NotificationOrderPlaced,
		"Order placed",
		fmt.Sprintf("Your order #%s has been placed", orderNumber),
		bson.M{"orderId": order.ID, "orderNumber": orderNumber})

	return &order, nil
}

// MarkPaid applies a successful payment confirmation: pending → confirmed,
// payment completed, paidAt set, exactly one history entry. Confirming an
// already-completed payment is a no-op and triggers no side effects. The
// returned bool reports whether the transition was applied.
func (co *Coordinator) MarkPaid(ctx context.Context, order *models.Order, method string, conf *payments.Confirmation, extra bson.M) (*models.Order, bool, error) {
	if order.Payment.Status == models.PaymentStatusCompleted {
		return order, false, nil
	}

	now := time.Now()
	set := bson.M{
		"status":                models.OrderStatusConfirmed,
		"payment.status":        models.PaymentStatusCompleted,
		"payment.method":        method,
		"payment.transactionId": conf.TransactionId,
		"payment.paidAt":        now,
		"updatedAt":             now,
	}
	for k, v := range extra {
		set[k] = v
	}

	entry := models.StatusEntry{Status: models.OrderStatusConfirmed, UpdatedAt: now, Note: conf.Note}

	// Guarding on the current status makes a racing double-confirm append
	// exactly one history entry.
	res, err := co.orders.UpdateOne(ctx,
		bson.M{
			"_id":            order.ID,
			"status":         models.OrderStatusPending,
			"payment.status": bson.M{"$ne": models.PaymentStatusCompleted},
		},
		bson.M{"$set": set, "$push": bson.M{"statusHistory": entry}},
	)
	if err != nil {
		return nil, false, errs.Internal("Error updating payment status", err)
	}

	if res.MatchedCount == 0 {
		current, err := co.GetOrder(ctx, order.ID)
		if err != nil {
			return nil, false, err
		}
		if current.Payment.Status == models.PaymentStatusCompleted {
			return current, false, nil
		}
		return nil, false, errs.InvalidTransition("Order cannot be confirmed from status " + current.Status)
	}

	updated, err := co.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, false, err
	}

	co.notify(ctx, &updated.Customer, models.NotificationOrderConfirmed,
		"Order confirmed",
		fmt.Sprintf("Your order #%s has been confirmed", updated.OrderNumber),
		bson.M{"orderId": updated.ID, "orderNumber": updated.OrderNumber})

	if conf.Manual {
		// Admin feed entry so someone reconciles the claimed UPI payment.
		co.notify(ctx, nil, models.NotificationUPIReconciliation,
			"UPI payment needs reconciliation",
			fmt.Sprintf("Order #%s was confirmed from a client-submitted UPI reference", updated.OrderNumber),
			bson.M{"orderId": updated.ID, "orderNumber": updated.OrderNumber, "transactionId": conf.TransactionId})
	}

	return updated, true, nil
}

// MarkPaymentFailed records a failed charge without moving the order state.
func (co *Coordinator) MarkPaymentFailed(ctx context.Context, orderId primitive.ObjectID) error {
	_, err := co.orders.UpdateOne(ctx,
		bson.M{"_id": orderId, "payment.status": bson.M{"$ne": models.PaymentStatusCompleted}},
		bson.M{"$set": bson.M{"payment.status": models.PaymentStatusFailed, "updatedAt": time.Now()}},
	)
	if err != nil {
		return errs.Internal("Error recording payment failure", err)
	}
	return nil
}

// Cancel is customer-initiated and only legal from pending or confirmed.
// Stock for every line item is restored through one bulk command.
func (co *Coordinator) Cancel(ctx context.Context, orderId, customerId primitive.ObjectID, reason string) (*models.Order, error) {
	order, err := co.GetOrder(ctx, orderId)
	if err != nil {
		return nil, err
	}

	if order.Customer != customerId {
		return nil, errs.Forbidden("Access denied")
	}

	if !Cancellable(order.Status) {
		return nil, errs.InvalidTransition("Order cannot be cancelled at this stage")
	}

	now := time.Now()
	note := "Cancelled by customer"
	if reason != "" {
		note += ": " + reason
	}
	entry := models.StatusEntry{Status: models.OrderStatusCancelled, UpdatedAt: now, Note: note}

	// The status guard makes cancellation single-shot; a concurrent second
	// cancel matches nothing and cannot double-restore stock.
	res, err := co.orders.UpdateOne(ctx,
		bson.M{"_id": orderId, "status": bson.M{"$in": bson.A{models.OrderStatusPending, models.OrderStatusConfirmed}}},
		bson.M{
			"$set":  bson.M{"status": models.OrderStatusCancelled, "updatedAt": now},
			"$push": bson.M{"statusHistory": entry},
		},
	)
	if err != nil {
		return nil, errs.Internal("Error cancelling order", err)
	}
	if res.MatchedCount == 0 {
		return nil, errs.InvalidTransition("Order cannot be cancelled at this stage")
	}

	co.releaseStock(ctx, order.Items)

	co.notify(ctx, &order.Customer, models.NotificationOrderCancelled,
		"Order cancelled",
		fmt.Sprintf("Your order #%s has been cancelled", order.OrderNumber),
		bson.M{"orderId": order.ID, "orderNumber": order.OrderNumber})

	return co.GetOrder(ctx, orderId)
}

// AdminSetStatus applies the admin-only forward transitions (including the
// pending → confirmed override). Admins do not cancel orders.
func (co *Coordinator) AdminSetStatus(ctx context.Context, orderId primitive.ObjectID, to, note string) (*models.Order, error) {
	if !ValidStatus(to) {
		return nil, errs.Validation("Unknown order status: " + to)
	}
	if to == models.OrderStatusCancelled {
		return nil, errs.InvalidTransition("Orders are cancelled by the customer, not by status update")
	}

	order, err := co.GetOrder(ctx, orderId)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, to) {
		return nil, errs.InvalidTransition(fmt.Sprintf("Cannot move order from %s to %s", order.Status, to))
	}

	now := time.Now()
	if note == "" {
		note = "Status updated by admin"
	}
	entry := models.StatusEntry{Status: to, UpdatedAt: now, Note: note}

	res, err := co.orders.UpdateOne(ctx,
		bson.M{"_id": orderId, "status": order.Status},
		bson.M{
			"$set":  bson.M{"status": to, "updatedAt": now},
			"$push": bson.M{"statusHistory": entry},
		},
	)
	if err != nil {
		return nil, errs.Internal("Error updating order status", err)
	}
	if res.MatchedCount == 0 {
		return nil, errs.InvalidTransition("Order status changed concurrently, try again")
	}

	updated, err := co.GetOrder(ctx, orderId)
	if err != nil {
		return nil, err
	}

	co.notify(ctx, &updated.Customer, models.NotificationOrderStatus,
		"Order "+to,
		fmt.Sprintf("Your order #%s is now %s", updated.OrderNumber, to),
		bson.M{"orderId": updated.ID, "orderNumber": updated.OrderNumber, "status": to})

	return updated, nil
}

// ConfirmFromWebhook resolves the order by the gateway's own correlation id,
// never by a client-supplied order id.
func (co *Coordinator) ConfirmFromWebhook(ctx context.Context, ev *payments.WebhookEvent) error {
	var filter bson.M
	switch {
	case ev.PaymentIntentId != "":
		filter = bson.M{"payment.stripePaymentIntentId": ev.PaymentIntentId}
	case ev.SessionId != "":
		filter = bson.M{"payment.stripeSessionId": ev.SessionId}
	default:
		return nil
	}

	var order models.Order
	if err := co.orders.FindOne(ctx, filter).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("No order matches the webhook payment reference")
		}
		return errs.Internal("Error resolving webhook order", err)
	}

	switch ev.Type {
	case payments.EventPaymentSucceeded, payments.EventCheckoutCompleted:
		conf := &payments.Confirmation{
			Succeeded:     true,
			TransactionId: ev.PaymentIntentId,
			Note:          "Payment completed (webhook)",
		}
		if conf.TransactionId == "" {
			conf.TransactionId = ev.SessionId
		}
		_, _, err := co.MarkPaid(ctx, &order, models.PaymentMethodStripe, conf, nil)
		return err
	case payments.EventPaymentFailed:
		return co.MarkPaymentFailed(ctx, order.ID)
	}
	return nil
}

func (co *Coordinator) GetOrder(ctx context.Context, orderId primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := co.orders.FindOne(ctx, bson.M{"_id": orderId}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("Order not found")
		}
		return nil, errs.Internal("Error fetching order", err)
	}
	return &order, nil
}

// releaseStock puts reserved quantities back, one bulk command for all
// lines. Used both for cancellation and for creation-saga compensation.
func (co *Coordinator) releaseStock(ctx context.Context, items []models.OrderItem) {
	if len(items) == 0 {
		return
	}

	writes := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": item.Product}).
			SetUpdate(bson.M{"$inc": bson.M{"stock": item.Quantity}}))
	}

	if _, err := co.products.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		// Stock is now understated; this needs manual reconciliation.
		co.log.Error().Err(err).Int("lines", len(items)).Msg("stock restore failed")
	}
}

func (co *Coordinator) nextOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Format("06")

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := co.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "orders-" + year},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return "", err
	}

	return FormatOrderNumber(year, counter.Seq), nil
}

func (co *Coordinator) notify(ctx context.Context, user *primitive.ObjectID, kind, title, message string, data bson.M) {
	notification := models.Notification{
		User:      user,
		Type:      kind,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}
	if _, err := co.notifications.InsertOne(ctx, notification); err != nil {
		co.log.Warn().Err(err).Str("type", kind).Msg("failed to store notification")
	}
}
