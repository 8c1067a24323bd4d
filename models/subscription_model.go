package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

// GracePeriodDays is how long past endDate admin access is still permitted,
// flagged as in-grace.
const GracePeriodDays = 3

// ExpiryWarningDays controls the "expiring soon" flag.
const ExpiryWarningDays = 7

type PlanDetails struct {
	Name         string   `bson:"name" json:"name"`
	Price        float64  `bson:"price" json:"price"`
	Currency     string   `bson:"currency" json:"currency"`
	DurationDays int      `bson:"durationDays" json:"durationDays"`
	Features     []string `bson:"features" json:"features"`
}

type PaymentRecord struct {
	Amount            float64   `bson:"amount" json:"amount"`
	Status            string    `bson:"status" json:"status"`
	RazorpayPaymentId string    `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	Description       string    `bson:"description,omitempty" json:"description,omitempty"`
	Date              time.Time `bson:"date" json:"date"`
}

// Subscription is the SaaS access record for admin accounts. The latest
// subscription by creation time is the one that counts for a user.
type Subscription struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User              primitive.ObjectID `bson:"user" json:"user"`
	Plan              string             `bson:"plan" json:"plan"` // basic, professional, enterprise
	PlanDetails       PlanDetails        `bson:"planDetails" json:"planDetails"`
	Amount            float64            `bson:"amount" json:"amount"`
	StartDate         time.Time          `bson:"startDate" json:"startDate"`
	EndDate           time.Time          `bson:"endDate" json:"endDate"`
	Status            string             `bson:"status" json:"status"`
	PaymentStatus     string             `bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty"`
	PaymentDate       *time.Time         `bson:"paymentDate,omitempty" json:"paymentDate,omitempty"`
	RazorpayOrderId   string             `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentId string             `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	AutoRenew         bool               `bson:"autoRenew" json:"autoRenew"`
	PaymentHistory    []PaymentRecord    `bson:"paymentHistory,omitempty" json:"paymentHistory,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the subscription grants access at now: the
// status must be active and now must be before endDate.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && now.Before(s.EndDate)
}

// InGracePeriod reports whether the subscription has lapsed but is still
// within the grace window past endDate.
func (s *Subscription) InGracePeriod(now time.Time) bool {
	if s.Status != SubscriptionStatusActive || s.IsActive(now) {
		return false
	}
	graceEnd := s.EndDate.AddDate(0, 0, GracePeriodDays)
	return !now.After(graceEnd)
}

// DaysRemaining counts whole days until endDate, never negative.
func (s *Subscription) DaysRemaining(now time.Time) int {
	if !now.Before(s.EndDate) {
		return 0
	}
	return int(s.EndDate.Sub(now).Hours() / 24)
}

func (s *Subscription) IsExpiringSoon(now time.Time) bool {
	return s.IsActive(now) && s.DaysRemaining(now) <= ExpiryWarningDays
}
