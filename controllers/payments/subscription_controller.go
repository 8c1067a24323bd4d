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
	"github.com/FaizwebWorks/ambika-backend/services/payments"
)

func subscriptionCollection() *mongo.Collection {
	return configs.GetCollection("subscriptions")
}

// subscriptionPlans is the fixed catalog of admin plans. Prices are in INR
// per 30 days.
var subscriptionPlans = map[string]models.PlanDetails{
	"basic": {
		Name:         "Basic",
		Price:        1999,
		Currency:     "INR",
		DurationDays: 30,
		Features:     []string{"Product management", "Order management", "Basic analytics"},
	},
	"professional": {
		Name:         "Professional",
		Price:        3999,
		Currency:     "INR",
		DurationDays: 30,
		Features:     []string{"Everything in Basic", "B2B account approvals", "Quotation management", "Priority support"},
	},
	"enterprise": {
		Name:         "Enterprise",
		Price:        7999,
		Currency:     "INR",
		DurationDays: 30,
		Features:     []string{"Everything in Professional", "Dedicated account manager", "Custom integrations"},
	},
}

// GetSubscriptionPlans lists the available plans.
func GetSubscriptionPlans(c *fiber.Ctx) error {
	return responses.OK(c, "Plans fetched successfully", &fiber.Map{"plans": subscriptionPlans})
}

// GetCurrentSubscription returns the caller's latest subscription with the
// derived access flags the dashboard renders.
func GetCurrentSubscription(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectId, err := callerObjectId(c)
	if err != nil {
		return err
	}

	var subscription models.Subscription
	err = subscriptionCollection().FindOne(ctx,
		bson.M{"user": userObjectId},
		options.FindOne().SetSort(bson.M{"createdAt": -1}),
	).Decode(&subscription)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return responses.OK(c, "No subscription found", &fiber.Map{"subscription": nil, "hasSubscription": false})
		}
		return errs.Internal("Error fetching subscription", err)
	}

	now := time.Now()
	return responses.OK(c, "Subscription fetched successfully", &fiber.Map{
		"subscription":    subscription,
		"hasSubscription": true,
		"isActive":        subscription.IsActive(now),
		"inGracePeriod":   subscription.InGracePeriod(now),
		"daysRemaining":   subscription.DaysRemaining(now),
		"isExpiringSoon":  subscription.IsExpiringSoon(now),
	})
}

// CreateSubscriptionOrder opens a pending subscription and the Razorpay
// order that pays for it. Activation happens only after verification.
func CreateSubscriptionOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	_, razorpay, _ := gateways()

	userObjectId, err := callerObjectId(c)
	if err != nil {
		return err
	}

	var req struct {
		Plan string `json:"plan"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}
	plan, ok := subscriptionPlans[req.Plan]
	if !ok {
		return errs.Validation("Unknown plan: " + req.Plan)
	}

	now := time.Now()
	subscription := models.Subscription{
		ID:          primitive.NewObjectID(),
		User:        userObjectId,
		Plan:        req.Plan,
		PlanDetails: plan,
		Amount:      plan.Price,
		Status:      models.SubscriptionStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	providerOrder, err := razorpay.InitiateAmount(ctx, payments.ToPaise(plan.Price), "sub_"+subscription.ID.Hex(), map[string]interface{}{
		"subscriptionId": subscription.ID.Hex(),
		"plan":           req.Plan,
	})
	if err != nil {
		return err
	}
	subscription.RazorpayOrderId = providerOrder.ProviderOrderId

	if _, err := subscriptionCollection().InsertOne(ctx, subscription); err != nil {
		return errs.Internal("Error creating subscription", err)
	}

	return responses.Created(c, "Subscription order created", &fiber.Map{
		"subscription": subscription,
		"payment":      providerOrder,
	})
}

// VerifySubscriptionPayment checks the checkout signature and activates the
// subscription, stamping the user document with the new access window.
func VerifySubscriptionPayment(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	_, razorpay, _ := gateways()

	userObjectId, err := callerObjectId(c)
	if err != nil {
		return err
	}

	var req struct {
		SubscriptionId    string `json:"subscriptionId"`
		RazorpayPaymentId string `json:"razorpayPaymentId"`
		RazorpaySignature string `json:"razorpaySignature"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	subscriptionId, err := primitive.ObjectIDFromHex(req.SubscriptionId)
	if err != nil {
		return errs.Validation("Invalid subscription ID format")
	}

	var subscription models.Subscription
	if err := subscriptionCollection().FindOne(ctx, bson.M{"_id": subscriptionId, "user": userObjectId}).Decode(&subscription); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("Subscription not found")
		}
		return errs.Internal("Error fetching subscription", err)
	}
	if subscription.Status == models.SubscriptionStatusActive {
		return responses.OK(c, "Subscription already active", &fiber.Map{"subscription": subscription})
	}

	if !razorpay.VerifySignature(subscription.RazorpayOrderId, req.RazorpayPaymentId, req.RazorpaySignature) {
		return errs.InvalidSignature("Invalid payment signature")
	}

	now := time.Now()
	endDate := now.AddDate(0, 0, subscription.PlanDetails.DurationDays)
	record := models.PaymentRecord{
		Amount:            subscription.Amount,
		Status:            "completed",
		RazorpayPaymentId: req.RazorpayPaymentId,
		Description:       subscription.PlanDetails.Name + " plan payment",
		Date:              now,
	}

	res, err := subscriptionCollection().UpdateOne(ctx,
		bson.M{"_id": subscriptionId, "status": bson.M{"$ne": models.SubscriptionStatusActive}},
		bson.M{
			"$set": bson.M{
				"status":            models.SubscriptionStatusActive,
				"paymentStatus":     "completed",
				"paymentDate":       now,
				"razorpayPaymentId": req.RazorpayPaymentId,
				"startDate":         now,
				"endDate":           endDate,
				"updatedAt":         now,
			},
			"$push": bson.M{"paymentHistory": record},
		},
	)
	if err != nil {
		return errs.Internal("Error activating subscription", err)
	}
	if res.MatchedCount == 0 {
		return responses.OK(c, "Subscription already active", &fiber.Map{"subscription": subscription})
	}

	if _, err := configs.GetCollection("users").UpdateOne(ctx,
		bson.M{"_id": userObjectId},
		bson.M{"$set": bson.M{
			"subscriptionStatus":  models.SubscriptionStatusActive,
			"subscriptionEndDate": endDate,
			"lastPaymentDate":     now,
			"updatedAt":           now,
		}},
	); err != nil {
		return errs.Internal("Error updating user subscription", err)
	}

	updated, err := loadSubscription(ctx, subscriptionId)
	if err != nil {
		return err
	}
	return responses.OK(c, "Subscription activated", &fiber.Map{"subscription": updated})
}

// CancelSubscription turns off auto-renew and marks the subscription
// cancelled. Access continues until the already-paid endDate.
func CancelSubscription(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectId, err := callerObjectId(c)
	if err != nil {
		return err
	}

	res, err := subscriptionCollection().UpdateOne(ctx,
		bson.M{"user": userObjectId, "status": models.SubscriptionStatusActive},
		bson.M{"$set": bson.M{
			"status":    models.SubscriptionStatusCancelled,
			"autoRenew": false,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return errs.Internal("Error cancelling subscription", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("No active subscription to cancel")
	}

	return responses.OK(c, "Subscription cancelled", nil)
}

// GetSubscriptionHistory lists all of the caller's subscriptions, newest
// first.
func GetSubscriptionHistory(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectId, err := callerObjectId(c)
	if err != nil {
		return err
	}

	cursor, err := subscriptionCollection().Find(ctx,
		bson.M{"user": userObjectId},
		options.Find().SetSort(bson.M{"createdAt": -1}),
	)
	if err != nil {
		return errs.Internal("Error fetching subscription history", err)
	}
	defer cursor.Close(ctx)

	subscriptions := []models.Subscription{}
	if err := cursor.All(ctx, &subscriptions); err != nil {
		return errs.Internal("Error decoding subscriptions", err)
	}

	return responses.OK(c, "Subscription history fetched", &fiber.Map{
		"subscriptions": subscriptions,
		"count":         len(subscriptions),
	})
}

func loadSubscription(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := subscriptionCollection().FindOne(ctx, bson.M{"_id": id}).Decode(&subscription); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("Subscription not found")
		}
		return nil, errs.Internal("Error fetching subscription", err)
	}
	return &subscription, nil
}

func callerObjectId(c *fiber.Ctx) (primitive.ObjectID, error) {
	userId, ok := middlewares.UserId(c)
	if !ok {
		return primitive.NilObjectID, errs.Unauthorized("User ID not found in token")
	}
	userObjectId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return primitive.NilObjectID, errs.Unauthorized("Invalid user ID format")
	}
	return userObjectId, nil
}
