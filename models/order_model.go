package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

const (
	PaymentMethodCOD      = "cod"
	PaymentMethodStripe   = "stripe"
	PaymentMethodRazorpay = "razorpay"
	PaymentMethodUPI      = "upi"
)

// ProductInfo is the denormalized catalog snapshot embedded in a line item.
// It is written once at order creation and never touched again, so later
// catalog edits cannot rewrite historical orders.
type ProductInfo struct {
	Title string  `bson:"title" json:"title"`
	Price float64 `bson:"price" json:"price"`
	Image string  `bson:"image,omitempty" json:"image,omitempty"`
}

type OrderItem struct {
	Product     primitive.ObjectID `bson:"product" json:"product"`
	ProductInfo ProductInfo        `bson:"productInfo" json:"productInfo"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Price       float64            `bson:"price" json:"price"`
	Size        string             `bson:"size,omitempty" json:"size,omitempty"`
	Variants    []string           `bson:"variants,omitempty" json:"variants,omitempty"`
}

type Pricing struct {
	Subtotal float64 `bson:"subtotal" json:"subtotal"`
	Tax      float64 `bson:"tax" json:"tax"`
	Shipping float64 `bson:"shipping" json:"shipping"`
	Total    float64 `bson:"total" json:"total"`
}

type PaymentInfo struct {
	Method                string     `bson:"method" json:"method"`
	Status                string     `bson:"status" json:"status"`
	TransactionId         string     `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	StripePaymentIntentId string     `bson:"stripePaymentIntentId,omitempty" json:"stripePaymentIntentId,omitempty"`
	StripeSessionId       string     `bson:"stripeSessionId,omitempty" json:"stripeSessionId,omitempty"`
	RazorpayOrderId       string     `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	UPITransactionId      string     `bson:"upiTransactionId,omitempty" json:"upiTransactionId,omitempty"`
	UPIId                 string     `bson:"upiId,omitempty" json:"upiId,omitempty"`
	PaidAt                *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}

// StatusEntry is one record of the append-only audit trail. Entries are only
// ever added with $push, never edited.
type StatusEntry struct {
	Status    string    `bson:"status" json:"status"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
}

type CustomerInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

type ShippingInfo struct {
	Method     string `bson:"method" json:"method"` // standard, express, overnight
	Address    string `bson:"address,omitempty" json:"address,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Order is the aggregate root: line items, pricing, payment and status
// history all live inside the one document. Orders are never deleted.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderNumber   string             `bson:"orderNumber" json:"orderNumber"`
	Customer      primitive.ObjectID `bson:"customer" json:"customer"`
	CustomerInfo  CustomerInfo       `bson:"customerInfo" json:"customerInfo"`
	Items         []OrderItem        `bson:"items" json:"items"`
	Pricing       Pricing            `bson:"pricing" json:"pricing"`
	Payment       PaymentInfo        `bson:"payment" json:"payment"`
	Shipping      ShippingInfo       `bson:"shipping" json:"shipping"`
	Status        string             `bson:"status" json:"status"`
	StatusHistory []StatusEntry      `bson:"statusHistory" json:"statusHistory"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TaxRate is GST applied on the subtotal.
const TaxRate = 0.18

var shippingRates = map[string]float64{
	"standard":  100,
	"express":   200,
	"overnight": 500,
}

func ShippingCost(method string) float64 {
	if cost, ok := shippingRates[method]; ok {
		return cost
	}
	return shippingRates["standard"]
}

// ComputePricing fixes the price breakdown at order creation. It is never
// recomputed afterwards.
func ComputePricing(subtotal float64, shippingMethod string) Pricing {
	tax := subtotal * TaxRate
	shipping := ShippingCost(shippingMethod)
	return Pricing{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}
