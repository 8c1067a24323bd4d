package controllers

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FaizwebWorks/ambika-backend/configs"
	"github.com/FaizwebWorks/ambika-backend/errs"
	"github.com/FaizwebWorks/ambika-backend/middlewares"
	"github.com/FaizwebWorks/ambika-backend/models"
	"github.com/FaizwebWorks/ambika-backend/responses"
	"github.com/FaizwebWorks/ambika-backend/services/lifecycle"
)

func orderCollection() *mongo.Collection {
	return configs.GetCollection("orders")
}

var (
	coordinatorOnce sync.Once
	coordinator     *lifecycle.Coordinator
)

// Coordinator is shared with the payment handlers so both paths apply the
// same transition rules.
func Coordinator() *lifecycle.Coordinator {
	coordinatorOnce.Do(func() {
		coordinator = lifecycle.NewCoordinator(
			configs.GetCollection("orders"),
			configs.GetCollection("products"),
			configs.GetCollection("counters"),
			configs.GetCollection("notifications"),
		)
	})
	return coordinator
}

// CreateOrder places an order from explicit line items. Stock is reserved
// per line; pricing is computed once here and never recomputed.
func CreateOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	user, err := authedUser(ctx, c)
	if err != nil {
		return err
	}

	var req lifecycle.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	order, err := Coordinator().CreateOrder(ctx, user, req)
	if err != nil {
		return err
	}

	// A fresh order empties the cart; failures here do not fail the order.
	_, _ = configs.GetCollection("users").UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"cart": []models.CartItem{}, "updatedAt": time.Now()}})

	return responses.Created(c, "Order placed successfully", &fiber.Map{"order": order})
}

// GetUserOrders lists the caller's orders, newest first.
func GetUserOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, ok := middlewares.UserId(c)
	if !ok {
		return errs.Unauthorized("User ID not found in token")
	}
	userObjectId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return errs.Unauthorized("Invalid user ID format")
	}

	filter := bson.M{"customer": userObjectId}
	if status := c.Query("status"); status != "" {
		if !lifecycle.ValidStatus(status) {
			return errs.Validation("Unknown order status: " + status)
		}
		filter["status"] = status
	}

	return listOrders(ctx, c, filter)
}

// GetOrderById returns one order. Customers can only read their own;
// admins can read any.
func GetOrderById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	orderId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid order ID format")
	}

	order, err := Coordinator().GetOrder(ctx, orderId)
	if err != nil {
		return err
	}

	if !middlewares.IsAdmin(c) {
		userId, _ := middlewares.UserId(c)
		if order.Customer.Hex() != userId {
			return errs.Forbidden("Access denied")
		}
	}

	return responses.OK(c, "Order fetched successfully", &fiber.Map{"order": order})
}

// TrackOrder looks an order up by its human-readable number and returns the
// tracking view: current status plus the history trail. The route carries no
// auth; knowing the order number is the access grant, and the response
// exposes no payment or customer details.
func TrackOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	orderNumber := c.Params("orderNumber")
	if orderNumber == "" {
		return errs.Validation("Order number is required")
	}

	var order models.Order
	if err := orderCollection().FindOne(ctx, bson.M{"orderNumber": orderNumber}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("Order not found")
		}
		return errs.Internal("Error fetching order", err)
	}

	return responses.OK(c, "Order tracking fetched", &fiber.Map{
		"orderNumber":   order.OrderNumber,
		"status":        order.Status,
		"statusHistory": order.StatusHistory,
		"shipping":      order.Shipping,
		"placedAt":      order.CreatedAt,
	})
}

// CancelOrder is the customer-facing cancellation. Ownership and the
// status rules live in the coordinator.
func CancelOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, ok := middlewares.UserId(c)
	if !ok {
		return errs.Unauthorized("User ID not found in token")
	}
	userObjectId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return errs.Unauthorized("Invalid user ID format")
	}

	orderId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid order ID format")
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	order, err := Coordinator().Cancel(ctx, orderId, userObjectId, req.Reason)
	if err != nil {
		return err
	}

	return responses.OK(c, "Order cancelled successfully", &fiber.Map{"order": order})
}

// GetMyOrderStats summarizes the caller's own order history: total orders,
// spend on completed payments and the pending/delivered counts the account
// page shows.
func GetMyOrderStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, ok := middlewares.UserId(c)
	if !ok {
		return errs.Unauthorized("User ID not found in token")
	}
	userObjectId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return errs.Unauthorized("Invalid user ID format")
	}

	cursor, err := orderCollection().Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "customer", Value: userObjectId}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return errs.Internal("Error aggregating order stats", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return errs.Internal("Error decoding order stats", err)
	}

	var totalOrders, pendingOrders, deliveredOrders int64
	for _, row := range rows {
		totalOrders += row.Count
		switch row.Status {
		case models.OrderStatusPending:
			pendingOrders = row.Count
		case models.OrderStatusDelivered:
			deliveredOrders = row.Count
		}
	}

	spentCursor, err := orderCollection().Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "customer", Value: userObjectId},
			{Key: "payment.status", Value: models.PaymentStatusCompleted},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalSpent", Value: bson.D{{Key: "$sum", Value: "$pricing.total"}}},
		}}},
	})
	if err != nil {
		return errs.Internal("Error aggregating spend", err)
	}
	defer spentCursor.Close(ctx)

	var spent []struct {
		TotalSpent float64 `bson:"totalSpent"`
	}
	if err := spentCursor.All(ctx, &spent); err != nil {
		return errs.Internal("Error decoding spend", err)
	}
	var totalSpent float64
	if len(spent) > 0 {
		totalSpent = spent[0].TotalSpent
	}

	return responses.OK(c, "Order stats fetched", &fiber.Map{
		"totalOrders":     totalOrders,
		"totalSpent":      totalSpent,
		"pendingOrders":   pendingOrders,
		"deliveredOrders": deliveredOrders,
	})
}

// GetAllOrders lists every order with optional filters. Admin only.
func GetAllOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		if !lifecycle.ValidStatus(status) {
			return errs.Validation("Unknown order status: " + status)
		}
		filter["status"] = status
	}
	if method := c.Query("paymentMethod"); method != "" {
		filter["payment.method"] = method
	}
	if search := c.Query("search"); search != "" {
		filter["$or"] = bson.A{
			bson.M{"orderNumber": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"customerInfo.email": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"customerInfo.name": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	return listOrders(ctx, c, filter)
}

// UpdateOrderStatus applies an admin transition (confirm, ship, deliver).
func UpdateOrderStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	orderId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid order ID format")
	}

	var req struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}
	if req.Status == "" {
		return errs.Validation("status is required")
	}

	order, err := Coordinator().AdminSetStatus(ctx, orderId, req.Status, req.Note)
	if err != nil {
		return err
	}

	return responses.OK(c, "Order status updated", &fiber.Map{"order": order})
}

// GetOrderStats aggregates counts and revenue per status. Admin only.
// Revenue counts only orders whose payment completed.
func GetOrderStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$pricing.total"}}},
		}}},
	}
	cursor, err := orderCollection().Aggregate(ctx, pipeline)
	if err != nil {
		return errs.Internal("Error aggregating order stats", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string  `bson:"_id"`
		Count  int64   `bson:"count"`
		Total  float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return errs.Internal("Error decoding order stats", err)
	}

	byStatus := fiber.Map{}
	var totalOrders int64
	for _, row := range rows {
		byStatus[row.Status] = fiber.Map{"count": row.Count, "total": row.Total}
		totalOrders += row.Count
	}

	revenueCursor, err := orderCollection().Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "payment.status", Value: models.PaymentStatusCompleted}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$pricing.total"}}},
		}}},
	})
	if err != nil {
		return errs.Internal("Error aggregating revenue", err)
	}
	defer revenueCursor.Close(ctx)

	var revenue []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := revenueCursor.All(ctx, &revenue); err != nil {
		return errs.Internal("Error decoding revenue", err)
	}
	var paidRevenue float64
	if len(revenue) > 0 {
		paidRevenue = revenue[0].Revenue
	}

	return responses.OK(c, "Order stats fetched", &fiber.Map{
		"totalOrders": totalOrders,
		"byStatus":    byStatus,
		"paidRevenue": paidRevenue,
	})
}

func listOrders(ctx context.Context, c *fiber.Ctx, filter bson.M) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	total, err := orderCollection().CountDocuments(ctx, filter)
	if err != nil {
		return errs.Internal("Error counting orders", err)
	}

	cursor, err := orderCollection().Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page-1)*limit).
		SetLimit(limit))
	if err != nil {
		return errs.Internal("Error fetching orders", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return errs.Internal("Error decoding orders", err)
	}

	return responses.OK(c, "Orders fetched successfully", &fiber.Map{
		"orders":      orders,
		"total":       total,
		"currentPage": page,
		"totalPages":  (total + limit - 1) / limit,
	})
}

func authedUser(ctx context.Context, c *fiber.Ctx) (*models.User, error) {
	userId, ok := middlewares.UserId(c)
	if !ok {
		return nil, errs.Unauthorized("User ID not found in token")
	}
	userObjectId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return nil, errs.Unauthorized("Invalid user ID format")
	}

	var user models.User
	if err := configs.GetCollection("users").FindOne(ctx, bson.M{"_id": userObjectId}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("User not found")
		}
		return nil, errs.Internal("Error fetching user details", err)
	}
	return &user, nil
}
