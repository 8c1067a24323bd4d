package middlewares

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
	"github.com/FaizwebWorks/ambika-backend/models"
)

// CheckSubscriptionWithGrace gates admin features on an active subscription,
// allowing a grace window past expiry. Non-admin callers pass through; the
// current subscription is the latest one by creation time.
func CheckSubscriptionWithGrace(c *fiber.Ctx) error {
	if !IsAdmin(c) {
		return c.Next()
	}

	userId, ok := UserId(c)
	if !ok {
		return errs.Unauthorized("User ID not found in token")
	}
	userObjectId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return errs.Unauthorized("Invalid user ID format")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var subscription models.Subscription
	err = configs.GetCollection("subscriptions").FindOne(ctx,
		bson.M{"user": userObjectId},
		options.FindOne().SetSort(bson.M{"createdAt": -1}),
	).Decode(&subscription)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.Forbidden("Subscription required to access admin features")
		}
		return errs.Internal("Error checking subscription status", err)
	}

	now := time.Now()
	switch {
	case subscription.IsActive(now):
		c.Locals("subscription", &subscription)
		return c.Next()
	case subscription.InGracePeriod(now):
		c.Locals("subscription", &subscription)
		c.Locals("inGracePeriod", true)
		return c.Next()
	}

	return errs.Forbidden("Subscription has expired. Please renew to continue using admin features.")
}
