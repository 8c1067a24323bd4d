package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/FaizwebWorks/ambika-backend/configs"
	"github.com/FaizwebWorks/ambika-backend/errs"
	"github.com/FaizwebWorks/ambika-backend/models"
	"github.com/FaizwebWorks/ambika-backend/responses"
)

func categoryCollection() *mongo.Collection {
	return configs.GetCollection("categories")
}

func GetCategories(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	cursor, err := categoryCollection().Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return errs.Internal("Error fetching categories", err)
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return errs.Internal("Error decoding categories", err)
	}

	return responses.OK(c, "Categories fetched successfully", &fiber.Map{
		"categories": categories,
		"count":      len(categories),
	})
}

func GetCategoryById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	categoryId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid category ID format")
	}

	var category models.Category
	if err := categoryCollection().FindOne(ctx, bson.M{"_id": categoryId}).Decode(&category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("Category not found")
		}
		return errs.Internal("Error fetching category", err)
	}

	return responses.OK(c, "Category fetched successfully", &fiber.Map{"category": category})
}

// CreateCategory adds a category. Admin only.
func CreateCategory(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return errs.Validation("Invalid request format")
	}
	if category.Name == "" {
		return errs.Validation("Category name is required")
	}

	err := categoryCollection().FindOne(ctx, bson.M{"name": category.Name}).Err()
	if err == nil {
		return errs.Validation("Category already exists")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return errs.Internal("Error checking category", err)
	}

	now := time.Now()
	category.ID = primitive.NewObjectID()
	category.IsActive = true
	category.CreatedAt = now
	category.UpdatedAt = now

	if _, err := categoryCollection().InsertOne(ctx, category); err != nil {
		return errs.Internal("Error creating category", err)
	}

	return responses.Created(c, "Category created successfully", &fiber.Map{"category": category})
}

// UpdateCategory edits a category. Admin only.
func UpdateCategory(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	categoryId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid category ID format")
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.Image != "" {
		set["image"] = req.Image
	}

	res, err := categoryCollection().UpdateOne(ctx, bson.M{"_id": categoryId}, bson.M{"$set": set})
	if err != nil {
		return errs.Internal("Error updating category", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("Category not found")
	}

	return responses.OK(c, "Category updated successfully", nil)
}

// DeleteCategory soft-deletes a category. Admin only.
func DeleteCategory(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	categoryId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid category ID format")
	}

	res, err := categoryCollection().UpdateOne(ctx, bson.M{"_id": categoryId},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	if err != nil {
		return errs.Internal("Error deleting category", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("Category not found")
	}

	return responses.OK(c, "Category deleted successfully", nil)
}
