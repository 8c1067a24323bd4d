package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	CustomerTypeB2C = "B2C"
	CustomerTypeB2B = "B2B"

	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type BusinessDetails struct {
	CompanyName     string  `bson:"companyName,omitempty" json:"companyName,omitempty"`
	BusinessType    string  `bson:"businessType,omitempty" json:"businessType,omitempty"` // Hotel, Resort, Restaurant, Inn, Office, Other
	GSTNumber       string  `bson:"gstNumber,omitempty" json:"gstNumber,omitempty"`
	BusinessAddress string  `bson:"businessAddress,omitempty" json:"businessAddress,omitempty"`
	ContactPerson   string  `bson:"contactPerson,omitempty" json:"contactPerson,omitempty"`
	Designation     string  `bson:"designation,omitempty" json:"designation,omitempty"`
	BusinessPhone   string  `bson:"businessPhone,omitempty" json:"businessPhone,omitempty"`
	BusinessEmail   string  `bson:"businessEmail,omitempty" json:"businessEmail,omitempty"`
	IsVerified      bool    `bson:"isVerified" json:"isVerified"`
	CreditLimit     float64 `bson:"creditLimit,omitempty" json:"creditLimit,omitempty"`
}

type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Size     string             `bson:"size,omitempty" json:"size,omitempty"`
	AddedAt  time.Time          `bson:"addedAt" json:"addedAt"`
}

// User covers both B2C and B2B customers plus admin accounts. B2C signups
// are auto-approved; B2B registrations wait for admin approval.
type User struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Username            string              `bson:"username" json:"username" validate:"required"`
	Email               string              `bson:"email" json:"email" validate:"required,email"`
	Password            string              `bson:"password" json:"-"`
	Role                string              `bson:"role" json:"role"`
	CustomerType        string              `bson:"customerType" json:"customerType"`
	BusinessDetails     *BusinessDetails    `bson:"businessDetails,omitempty" json:"businessDetails,omitempty"`
	Name                string              `bson:"name,omitempty" json:"name,omitempty"`
	Phone               string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Address             string              `bson:"address,omitempty" json:"address,omitempty"`
	ApprovalStatus      string              `bson:"approvalStatus" json:"approvalStatus"`
	ApprovedBy          *primitive.ObjectID `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt          *time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	RejectionReason     string              `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Cart                []CartItem          `bson:"cart" json:"cart"`
	Wishlist            []primitive.ObjectID `bson:"wishlist,omitempty" json:"wishlist,omitempty"`
	SubscriptionStatus  string              `bson:"subscriptionStatus,omitempty" json:"subscriptionStatus,omitempty"`
	SubscriptionEndDate *time.Time          `bson:"subscriptionEndDate,omitempty" json:"subscriptionEndDate,omitempty"`
	LastPaymentDate     *time.Time          `bson:"lastPaymentDate,omitempty" json:"lastPaymentDate,omitempty"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName prefers the profile name over the login username.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
