package controllers

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/FaizwebWorks/ambika-backend/configs"
	"github.com/FaizwebWorks/ambika-backend/errs"
	"github.com/FaizwebWorks/ambika-backend/middlewares"
	"github.com/FaizwebWorks/ambika-backend/models"
	"github.com/FaizwebWorks/ambika-backend/responses"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

func userCollection() *mongo.Collection {
	return configs.GetCollection("users")
}

type SignUpRequest struct {
	Username        string                  `json:"username"`
	Email           string                  `json:"email"`
	Password        string                  `json:"password"`
	ConfirmPassword string                  `json:"confirmPassword"`
	Name            string                  `json:"name"`
	Phone           string                  `json:"phone"`
	CustomerType    string                  `json:"customerType"`
	BusinessDetails *models.BusinessDetails `json:"businessDetails"`
}

// UserSignUp registers a customer. B2C accounts are auto-approved; B2B
// registrations require business details and wait for admin approval.
func UserSignUp(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var req SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	if len(req.Password) < 8 {
		return errs.Validation("Password must be at least 8 characters long")
	}
	if req.ConfirmPassword != "" && req.Password != req.ConfirmPassword {
		return errs.Validation("Passwords do not match")
	}
	if !emailRegex.MatchString(req.Email) {
		return errs.Validation("Please enter a valid email address")
	}
	if req.Username == "" {
		return errs.Validation("Username is required")
	}

	customerType := req.CustomerType
	if customerType == "" {
		customerType = models.CustomerTypeB2C
	}
	if customerType != models.CustomerTypeB2C && customerType != models.CustomerTypeB2B {
		return errs.Validation("customerType must be B2C or B2B")
	}
	if customerType == models.CustomerTypeB2B {
		if req.BusinessDetails == nil || req.BusinessDetails.CompanyName == "" {
			return errs.Validation("Business details are required for B2B registration")
		}
	}

	err := userCollection().FindOne(ctx, bson.M{"email": req.Email}).Err()
	if err == nil {
		return errs.Validation("User with same email already exists")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return errs.Internal("Error checking user existence", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errs.Internal("Error hashing password", err)
	}

	approval := models.ApprovalApproved
	if customerType == models.CustomerTypeB2B {
		approval = models.ApprovalPending
	}

	now := time.Now()
	newUser := models.User{
		ID:              primitive.NewObjectID(),
		Username:        req.Username,
		Email:           req.Email,
		Password:        string(hashedPassword),
		Role:            models.RoleUser,
		CustomerType:    customerType,
		BusinessDetails: req.BusinessDetails,
		Name:            req.Name,
		Phone:           req.Phone,
		ApprovalStatus:  approval,
		Cart:            []models.CartItem{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := userCollection().InsertOne(ctx, newUser); err != nil {
		return errs.Internal("Error saving user, please try again later", err)
	}

	message := "User created successfully"
	if approval == models.ApprovalPending {
		message = "Registration received, awaiting B2B approval"
	}
	return responses.Created(c, message, &fiber.Map{"user": newUser})
}

// UserSignIn checks credentials and issues a bearer token.
func UserSignIn(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	var user models.User
	if err := userCollection().FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errs.Unauthorized("Invalid email or password")
		}
		return errs.Internal("Error fetching user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return errs.Unauthorized("Invalid email or password")
	}

	if user.CustomerType == models.CustomerTypeB2B && user.ApprovalStatus != models.ApprovalApproved {
		return errs.Forbidden("B2B account is awaiting approval")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":           user.ID.Hex(),
		"role":         user.Role,
		"customerType": user.CustomerType,
		"exp":          time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(configs.EnvJWTSecret()))
	if err != nil {
		return errs.Internal("Error signing token", err)
	}

	return responses.OK(c, "Signed in successfully", &fiber.Map{
		"token": signed,
		"user":  user,
	})
}

// GetUserProfile returns the caller's own profile.
func GetUserProfile(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user, err := currentUser(ctx, c)
	if err != nil {
		return err
	}

	return responses.OK(c, "Profile fetched successfully", &fiber.Map{"user": user})
}

// UpdateUserProfile updates the mutable profile fields.
func UpdateUserProfile(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user, err := currentUser(ctx, c)
	if err != nil {
		return err
	}

	var req struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := c.BodyParser(&req); err != nil {
		return errs.Validation("Invalid request format")
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.Address != "" {
		set["address"] = req.Address
	}

	if _, err := userCollection().UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": set}); err != nil {
		return errs.Internal("Error updating profile", err)
	}

	return responses.OK(c, "Profile updated successfully", nil)
}

// GetPendingB2BUsers lists B2B registrations awaiting approval. Admin only.
func GetPendingB2BUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	cursor, err := userCollection().Find(ctx, bson.M{
		"customerType":   models.CustomerTypeB2B,
		"approvalStatus": models.ApprovalPending,
	})
	if err != nil {
		return errs.Internal("Error fetching pending users", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return errs.Internal("Error decoding users", err)
	}

	return responses.OK(c, "Pending B2B users fetched", &fiber.Map{"users": users, "count": len(users)})
}

// ApproveB2BUser approves a pending B2B registration. Admin only.
func ApproveB2BUser(c *fiber.Ctx) error {
	return decideB2BUser(c, true)
}

// RejectB2BUser rejects a pending B2B registration. Admin only.
func RejectB2BUser(c *fiber.Ctx) error {
	return decideB2BUser(c, false)
}

func decideB2BUser(c *fiber.Ctx, approve bool) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	adminId, _ := middlewares.UserId(c)
	adminObjectId, err := primitive.ObjectIDFromHex(adminId)
	if err != nil {
		return errs.Unauthorized("Invalid user ID format")
	}

	targetId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return errs.Validation("Invalid user ID format")
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	now := time.Now()
	set := bson.M{"updatedAt": now}
	if approve {
		set["approvalStatus"] = models.ApprovalApproved
		set["approvedBy"] = adminObjectId
		set["approvedAt"] = now
		set["businessDetails.isVerified"] = true
	} else {
		set["approvalStatus"] = models.ApprovalRejected
		set["rejectionReason"] = req.Reason
	}

	res, err := userCollection().UpdateOne(ctx,
		bson.M{"_id": targetId, "customerType": models.CustomerTypeB2B},
		bson.M{"$set": set},
	)
	if err != nil {
		return errs.Internal("Error updating user", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("B2B user not found")
	}

	message := "B2B user approved"
	if !approve {
		message = "B2B user rejected"
	}
	return responses.OK(c, message, nil)
}

// currentUser loads the authenticated caller's document.
func currentUser(ctx context.Context, c *fiber.Ctx) (*models.User, error) {
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
