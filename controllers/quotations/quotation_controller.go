package controllers

import (
	"context"
	"errors"
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
)

func quotationCollection() *mongo.Collection {
	return configs.GetCollection("quotations")
}

// CreateQuotationRequest opens a bulk-pricing inquiry. B2B accounts only;
// the product must exist and the quantity clear its wholesale minimum.
func CreateQuotationRequest(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectId, customerType, err := caller(c)
	if err != nil {
		return err
	}
	if customerType != models.CustomerTypeB2B {
		return errs.Forbidden("Quotation requests are available to B2B accounts only")
	}

	var req struct {
		ProductId      string `json:"productId"`
		Quantity       int    `json:"quantity"`
		Specifications string `json:"specifications"`
		Notes          string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}
	if req.Quantity < 1 {
		return errs.Validation("Quantity must be at least 1")
	}

	productId, err := primitive.ObjectIDFromHex(req.ProductId)
	if err != nil {
		return errs.Validation("Invalid product ID format")
	}

	var product models.Product
	if err := configs.GetCollection("products").FindOne(ctx, bson.M{"_id": productId, "isActive": true}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("Product not found")
		}
		return errs.Internal("Error fetching product", err)
	}
	if product.MinOrderQuantity > 0 && req.Quantity < product.MinOrderQuantity {
		return errs.Validation("Quantity is below the minimum order quantity for this product")
	}

	now := time.Now()
	quotation := models.QuotationRequest{
		ID:             primitive.NewObjectID(),
		Customer:       userObjectId,
		Product:        productId,
		Quantity:       req.Quantity,
		Specifications: req.Specifications,
		Notes:          req.Notes,
		Status:         models.QuotationStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := quotationCollection().InsertOne(ctx, quotation); err != nil {
		return errs.Internal("Error creating quotation request", err)
	}

	// Admin feed entry so the sales side picks the inquiry up.
	notification := models.Notification{
		Type:      models.NotificationQuotation,
		Title:     "New quotation request",
		Message:   "A B2B customer requested a quote for " + product.Title,
		Data:      bson.M{"quotationId": quotation.ID, "productId": productId, "quantity": req.Quantity},
		CreatedAt: now,
	}
	_, _ = configs.GetCollection("notifications").InsertOne(ctx, notification)

	return responses.Created(c, "Quotation request submitted", &fiber.Map{"quotation": quotation})
}

// GetMyQuotations lists the caller's quotation requests, newest first.
func GetMyQuotations(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectId, _, err := caller(c)
	if err != nil {
		return err
	}

	cursor, err := quotationCollection().Find(ctx,
		bson.M{"customer": userObjectId},
		options.Find().SetSort(bson.M{"createdAt": -1}),
	)
	if err != nil {
		return errs.Internal("Error fetching quotations", err)
	}
	defer cursor.Close(ctx)

	quotations := []models.QuotationRequest{}
	if err := cursor.All(ctx, &quotations); err != nil {
		return errs.Internal("Error decoding quotations", err)
	}

	return responses.OK(c, "Quotations fetched successfully", &fiber.Map{
		"quotations": quotations,
		"count":      len(quotations),
	})
}

// GetAllQuotations lists every quotation request with an optional status
// filter. Admin only.
func GetAllQuotations(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := quotationCollection().Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}),
	)
	if err != nil {
		return errs.Internal("Error fetching quotations", err)
	}
	defer cursor.Close(ctx)

	quotations := []models.QuotationRequest{}
	if err := cursor.All(ctx, &quotations); err != nil {
		return errs.Internal("Error decoding quotations", err)
	}

	return responses.OK(c, "Quotations fetched successfully", &fiber.Map{
		"quotations": quotations,
		"count":      len(quotations),
	})
}

// RespondToQuotation attaches a quoted price or rejects the request. Admin
// only. Only pending requests can be answered.
func RespondToQuotation(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	quotationId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid quotation ID format")
	}

	var req struct {
		Action     string  `json:"action"` // quote or reject
		UnitPrice  float64 `json:"unitPrice"`
		ValidDays  int     `json:"validDays"`
		AdminNotes string  `json:"adminNotes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	var quotation models.QuotationRequest
	if err := quotationCollection().FindOne(ctx, bson.M{"_id": quotationId}).Decode(&quotation); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("Quotation not found")
		}
		return errs.Internal("Error fetching quotation", err)
	}
	if quotation.Status != models.QuotationStatusPending {
		return errs.Validation("Quotation has already been answered")
	}

	now := time.Now()
	set := bson.M{"adminNotes": req.AdminNotes, "updatedAt": now}
	var title, message string

	switch req.Action {
	case "quote":
		if req.UnitPrice <= 0 {
			return errs.Validation("unitPrice must be positive")
		}
		validDays := req.ValidDays
		if validDays <= 0 {
			validDays = 7
		}
		set["status"] = models.QuotationStatusQuoted
		set["quotedPrice"] = models.QuotedPrice{
			UnitPrice:  req.UnitPrice,
			TotalPrice: req.UnitPrice * float64(quotation.Quantity),
			ValidUntil: now.AddDate(0, 0, validDays),
		}
		title = "Quotation ready"
		message = "Your quotation request has been answered"
	case "reject":
		set["status"] = models.QuotationStatusRejected
		title = "Quotation declined"
		message = "Your quotation request was declined"
	default:
		return errs.Validation("action must be quote or reject")
	}

	res, err := quotationCollection().UpdateOne(ctx,
		bson.M{"_id": quotationId, "status": models.QuotationStatusPending},
		bson.M{"$set": set},
	)
	if err != nil {
		return errs.Internal("Error updating quotation", err)
	}
	if res.MatchedCount == 0 {
		return errs.Validation("Quotation has already been answered")
	}

	notification := models.Notification{
		User:      &quotation.Customer,
		Type:      models.NotificationQuotation,
		Title:     title,
		Message:   message,
		Data:      bson.M{"quotationId": quotation.ID},
		CreatedAt: now,
	}
	_, _ = configs.GetCollection("notifications").InsertOne(ctx, notification)

	return responses.OK(c, "Quotation updated", nil)
}

// CloseQuotation marks a quoted request as closed, e.g. after the deal went
// through or the quote lapsed. Admin only.
func CloseQuotation(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	quotationId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid quotation ID format")
	}

	res, err := quotationCollection().UpdateOne(ctx,
		bson.M{"_id": quotationId, "status": models.QuotationStatusQuoted},
		bson.M{"$set": bson.M{"status": models.QuotationStatusClosed, "updatedAt": time.Now()}},
	)
	if err != nil {
		return errs.Internal("Error closing quotation", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("No quoted quotation to close")
	}

	return responses.OK(c, "Quotation closed", nil)
}

func caller(c *fiber.Ctx) (primitive.ObjectID, string, error) {
	userId, ok := middlewares.UserId(c)
	if !ok {
		return primitive.NilObjectID, "", errs.Unauthorized("User ID not found in token")
	}
	userObjectId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return primitive.NilObjectID, "", errs.Unauthorized("Invalid user ID format")
	}
	customerType, _ := c.Locals("customerType").(string)
	return userObjectId, customerType, nil
}
