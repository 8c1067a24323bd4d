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
	"github.com/FaizwebWorks/ambika-backend/middlewares"
	"github.com/FaizwebWorks/ambika-backend/models"
	"github.com/FaizwebWorks/ambika-backend/responses"
)

func userCollection() *mongo.Collection {
	return configs.GetCollection("users")
}

func productCollection() *mongo.Collection {
	return configs.GetCollection("products")
}

type cartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

// AddToCart adds a product to the caller's cart or bumps its quantity.
func AddToCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user, err := loadUser(ctx, c)
	if err != nil {
		return err
	}

	var req cartRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	productId, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return errs.Validation("Invalid product ID format")
	}

	var product models.Product
	if err := productCollection().FindOne(ctx, bson.M{"_id": productId, "isActive": true}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.NotFound("Product not found")
		}
		return errs.Internal("Error fetching product details", err)
	}

	found := false
	for i, item := range user.Cart {
		if item.Product == productId && item.Size == req.Size {
			user.Cart[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		user.Cart = append(user.Cart, models.CartItem{
			Product:  productId,
			Quantity: req.Quantity,
			Size:     req.Size,
			AddedAt:  time.Now(),
		})
	}

	if err := saveCart(ctx, user); err != nil {
		return err
	}

	return responses.OK(c, "Successfully added to cart", &fiber.Map{"cartCount": len(user.Cart)})
}

// DecrementFromCart lowers an item's quantity, dropping it at zero.
func DecrementFromCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user, err := loadUser(ctx, c)
	if err != nil {
		return err
	}

	var req cartRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}
	productId, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return errs.Validation("Invalid product ID format")
	}

	for i, item := range user.Cart {
		if item.Product == productId && item.Size == req.Size {
			user.Cart[i].Quantity--
			if user.Cart[i].Quantity <= 0 {
				user.Cart = append(user.Cart[:i], user.Cart[i+1:]...)
			}
			if err := saveCart(ctx, user); err != nil {
				return err
			}
			return responses.OK(c, "Cart updated", &fiber.Map{"cartCount": len(user.Cart)})
		}
	}

	return errs.NotFound("Item not found in cart")
}

// RemoveFromCart deletes an item regardless of quantity.
func RemoveFromCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user, err := loadUser(ctx, c)
	if err != nil {
		return err
	}

	var req cartRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}
	productId, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return errs.Validation("Invalid product ID format")
	}

	for i, item := range user.Cart {
		if item.Product == productId && item.Size == req.Size {
			user.Cart = append(user.Cart[:i], user.Cart[i+1:]...)
			if err := saveCart(ctx, user); err != nil {
				return err
			}
			return responses.OK(c, "Removed from cart", &fiber.Map{"cartCount": len(user.Cart)})
		}
	}

	return errs.NotFound("Item not found in cart")
}

// GetCart resolves cart lines against the live catalog and totals them.
// Cart prices are always current; snapshots only happen at order time.
func GetCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user, err := loadUser(ctx, c)
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(user.Cart))
	var subtotal float64
	for _, cartItem := range user.Cart {
		var product models.Product
		if err := productCollection().FindOne(ctx, bson.M{"_id": cartItem.Product}).Decode(&product); err != nil {
			// Product removed from catalog since it was added; skip the line.
			continue
		}
		lineTotal := product.Price * float64(cartItem.Quantity)
		subtotal += lineTotal
		items = append(items, fiber.Map{
			"product":   product,
			"quantity":  cartItem.Quantity,
			"size":      cartItem.Size,
			"lineTotal": lineTotal,
			"inStock":   product.Stock >= cartItem.Quantity,
		})
	}

	return responses.OK(c, "Cart fetched successfully", &fiber.Map{
		"items":    items,
		"subtotal": subtotal,
		"count":    len(items),
	})
}

// ClearCart empties the cart, e.g. after a completed checkout.
func ClearCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user, err := loadUser(ctx, c)
	if err != nil {
		return err
	}

	user.Cart = []models.CartItem{}
	if err := saveCart(ctx, user); err != nil {
		return err
	}

	return responses.OK(c, "Cart cleared", nil)
}

// ToggleWishlist adds the product to the wishlist or removes it if present.
func ToggleWishlist(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user, err := loadUser(ctx, c)
	if err != nil {
		return err
	}

	productId, err := primitive.ObjectIDFromHex(c.Params("productId"))
	if err != nil {
		return errs.Validation("Invalid product ID format")
	}

	update := bson.M{"$addToSet": bson.M{"wishlist": productId}}
	added := true
	for _, id := range user.Wishlist {
		if id == productId {
			update = bson.M{"$pull": bson.M{"wishlist": productId}}
			added = false
			break
		}
	}

	if _, err := userCollection().UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		return errs.Internal("Error updating wishlist", err)
	}

	message := "Added to wishlist"
	if !added {
		message = "Removed from wishlist"
	}
	return responses.OK(c, message, &fiber.Map{"added": added})
}

// GetWishlist resolves wishlist ids against the catalog.
func GetWishlist(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user, err := loadUser(ctx, c)
	if err != nil {
		return err
	}

	if len(user.Wishlist) == 0 {
		return responses.OK(c, "Wishlist fetched successfully", &fiber.Map{"products": []models.Product{}})
	}

	cursor, err := productCollection().Find(ctx, bson.M{"_id": bson.M{"$in": user.Wishlist}, "isActive": true})
	if err != nil {
		return errs.Internal("Error fetching wishlist", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return errs.Internal("Error decoding wishlist", err)
	}

	return responses.OK(c, "Wishlist fetched successfully", &fiber.Map{"products": products})
}

func loadUser(ctx context.Context, c *fiber.Ctx) (*models.User, error) {
	userId, ok := middlewares.UserId(c)
	if !ok {
		return nil, errs.Unauthorized("User ID not found in token")
	}
	userObjectId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return nil, errs.Unauthorized("Invalid user ID format")
	}

	var user models.User
	if err := userCollection().FindOne(ctx, bson.M{"_id": userObjectId}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("User not found")
		}
		return nil, errs.Internal("Error fetching user details", err)
	}
	return &user, nil
}

func saveCart(ctx context.Context, user *models.User) error {
	_, err := userCollection().UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"cart": user.Cart, "updatedAt": time.Now()}},
	)
	if err != nil {
		return errs.Internal("Failed to update cart", err)
	}
	return nil
}
