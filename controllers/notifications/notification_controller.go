package controllers

import (
	"context"
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

func notificationCollection() *mongo.Collection {
	return configs.GetCollection("notifications")
}

// GetNotifications lists the caller's notifications, newest first.
func GetNotifications(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectId, err := callerObjectId(c)
	if err != nil {
		return err
	}

	filter := bson.M{"user": userObjectId}
	if c.Query("unread") == "true" {
		filter["read"] = false
	}

	cursor, err := notificationCollection().Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(100),
	)
	if err != nil {
		return errs.Internal("Error fetching notifications", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return errs.Internal("Error decoding notifications", err)
	}

	unread, err := notificationCollection().CountDocuments(ctx, bson.M{"user": userObjectId, "read": false})
	if err != nil {
		return errs.Internal("Error counting notifications", err)
	}

	return responses.OK(c, "Notifications fetched", &fiber.Map{
		"notifications": notifications,
		"unreadCount":   unread,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectId, err := callerObjectId(c)
	if err != nil {
		return err
	}

	notificationId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid notification ID format")
	}

	res, err := notificationCollection().UpdateOne(ctx,
		bson.M{"_id": notificationId, "user": userObjectId},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return errs.Internal("Error updating notification", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("Notification not found")
	}

	return responses.OK(c, "Notification marked as read", nil)
}

// MarkAllNotificationsRead clears the caller's unread count.
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectId, err := callerObjectId(c)
	if err != nil {
		return err
	}

	if _, err := notificationCollection().UpdateMany(ctx,
		bson.M{"user": userObjectId, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	); err != nil {
		return errs.Internal("Error updating notifications", err)
	}

	return responses.OK(c, "All notifications marked as read", nil)
}

// GetAdminFeed lists the operational feed: notifications without a user,
// like UPI payments waiting on reconciliation. Admin only.
func GetAdminFeed(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"user": nil}
	if kind := c.Query("type"); kind != "" {
		filter["type"] = kind
	}

	cursor, err := notificationCollection().Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(200),
	)
	if err != nil {
		return errs.Internal("Error fetching admin feed", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return errs.Internal("Error decoding admin feed", err)
	}

	return responses.OK(c, "Admin feed fetched", &fiber.Map{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// ResolveAdminFeedEntry marks an admin feed entry handled, e.g. after a UPI
// payment was reconciled against the bank statement. Admin only.
func ResolveAdminFeedEntry(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	notificationId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid notification ID format")
	}

	res, err := notificationCollection().UpdateOne(ctx,
		bson.M{"_id": notificationId, "user": nil},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return errs.Internal("Error updating feed entry", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("Feed entry not found")
	}

	return responses.OK(c, "Feed entry resolved", nil)
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
