package controllers

import (
	"context"
	"errors"
	"fmt"
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
	"github.com/FaizwebWorks/ambika-backend/models"
	"github.com/FaizwebWorks/ambika-backend/responses"
	"github.com/FaizwebWorks/ambika-backend/utils"
)

func productCollection() *mongo.Collection {
	return configs.GetCollection("products")
}

var (
	cacheOnce    sync.Once
	productCache *utils.Cache
)

func listCache() *utils.Cache {
	cacheOnce.Do(func() {
		productCache = utils.NewCache(configs.Redis, 10*time.Minute)
	})
	return productCache
}

type productList struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int64            `json:"page"`
	Pages    int64            `json:"pages"`
}

// GetProducts lists active catalog products with filters and pagination.
func GetProducts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := bson.M{"isActive": true}
	if category := c.Query("category"); category != "" {
		categoryId, err := primitive.ObjectIDFromHex(category)
		if err != nil {
			return errs.Validation("Invalid category id")
		}
		filter["category"] = categoryId
	}
	if search := c.Query("search"); search != "" {
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}
	price := bson.M{}
	if minPrice := c.Query("minPrice"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			price["$gte"] = v
		}
	}
	if maxPrice := c.Query("maxPrice"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			price["$lte"] = v
		}
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if size := c.Query("size"); size != "" {
		filter["sizes"] = bson.M{"$in": bson.A{size}}
	}
	if quality := c.Query("quality"); quality != "" {
		filter["quality"] = quality
	}
	if c.Query("featured") == "true" {
		filter["featured"] = true
	}

	sortField := c.Query("sort", "createdAt")
	sortDir := -1
	if c.Query("order") == "asc" {
		sortDir = 1
	}

	cacheKey := fmt.Sprintf("products:%s", c.OriginalURL())
	var cached productList
	if listCache().GetJSON(ctx, cacheKey, &cached) {
		return respondProductList(c, &cached)
	}

	total, err := productCollection().CountDocuments(ctx, filter)
	if err != nil {
		return errs.Internal("Error counting products", err)
	}

	cursor, err := productCollection().Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortDir}}).
		SetSkip((page-1)*limit).
		SetLimit(limit))
	if err != nil {
		return errs.Internal("Error fetching products", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return errs.Internal("Error decoding products", err)
	}

	result := productList{
		Products: products,
		Total:    total,
		Page:     page,
		Pages:    (total + limit - 1) / limit,
	}
	listCache().SetJSON(ctx, cacheKey, &result, 0)

	return respondProductList(c, &result)
}

func respondProductList(c *fiber.Ctx, list *productList) error {
	return responses.OK(c, "Products fetched successfully", &fiber.Map{
		"products":    list.Products,
		"total":       list.Total,
		"currentPage": list.Page,
		"totalPages":  list.Pages,
	})
}

// GetProductById returns one product.
func GetProductById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	productId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid product ID format")
	}

	var product models.Product
	if err := productCollection().FindOne(ctx, bson.M{"_id": productId}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("Product not found")
		}
		return errs.Internal("Error fetching product", err)
	}

	return responses.OK(c, "Product fetched successfully", &fiber.Map{"product": product})
}

// CreateProduct adds a catalog product. Admin only.
func CreateProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return errs.Validation("Invalid request format")
	}

	if product.Title == "" || product.Description == "" {
		return errs.Validation("Title and description are required")
	}
	if product.Price < 0 {
		return errs.Validation("Price cannot be negative")
	}
	if product.Stock < 0 {
		return errs.Validation("Stock cannot be negative")
	}

	now := time.Now()
	product.ID = primitive.NewObjectID()
	product.IsActive = true
	if product.Status == "" {
		product.Status = "active"
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := productCollection().InsertOne(ctx, product); err != nil {
		return errs.Internal("Error creating product", err)
	}

	invalidateListCache(ctx)
	return responses.Created(c, "Product created successfully", &fiber.Map{"product": product})
}

// UpdateProduct edits catalog fields. Stock is deliberately excluded: it
// moves only through order creation and cancellation.
func UpdateProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	productId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid product ID format")
	}

	var req bson.M
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}
	delete(req, "_id")
	delete(req, "stock")
	req["updatedAt"] = time.Now()

	res, err := productCollection().UpdateOne(ctx, bson.M{"_id": productId}, bson.M{"$set": req})
	if err != nil {
		return errs.Internal("Error updating product", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("Product not found")
	}

	invalidateListCache(ctx)
	return responses.OK(c, "Product updated successfully", nil)
}

// RestockProduct adjusts stock by a delta through the same conditional
// update the order path uses, so stock can never go below zero.
func RestockProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	productId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid product ID format")
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil || req.Delta == 0 {
		return errs.Validation("delta must be a non-zero integer")
	}

	filter := bson.M{"_id": productId}
	if req.Delta < 0 {
		filter["stock"] = bson.M{"$gte": -req.Delta}
	}

	res, err := productCollection().UpdateOne(ctx, filter,
		bson.M{"$inc": bson.M{"stock": req.Delta}, "$set": bson.M{"updatedAt": time.Now()}})
	if err != nil {
		return errs.Internal("Error adjusting stock", err)
	}
	if res.MatchedCount == 0 {
		if req.Delta < 0 {
			return errs.InsufficientStock("Not enough stock to remove")
		}
		return errs.NotFound("Product not found")
	}

	invalidateListCache(ctx)
	return responses.OK(c, "Stock adjusted successfully", nil)
}

// DeleteProduct soft-deletes by flipping isActive.
func DeleteProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	productId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid product ID format")
	}

	res, err := productCollection().UpdateOne(ctx, bson.M{"_id": productId},
		bson.M{"$set": bson.M{"isActive": false, "status": "inactive", "updatedAt": time.Now()}})
	if err != nil {
		return errs.Internal("Error deleting product", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("Product not found")
	}

	invalidateListCache(ctx)
	return responses.OK(c, "Product deleted successfully", nil)
}

// invalidateListCache drops cached product listings after admin writes.
// Keys are per-URL, so this clears the common first-page entries only; the
// rest age out with the TTL.
func invalidateListCache(ctx context.Context) {
	listCache().Delete(ctx, "products:/api/products", "products:/api/products?page=1&limit=10")
}
