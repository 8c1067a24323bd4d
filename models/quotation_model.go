package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	QuotationStatusPending  = "pending"
	QuotationStatusQuoted   = "quoted"
	QuotationStatusRejected = "rejected"
	QuotationStatusClosed   = "closed"
)

type QuotedPrice struct {
	UnitPrice  float64   `bson:"unitPrice" json:"unitPrice"`
	TotalPrice float64   `bson:"totalPrice" json:"totalPrice"`
	ValidUntil time.Time `bson:"validUntil" json:"validUntil"`
}

// QuotationRequest is a B2B customer's request for bulk pricing on a
// product; admins answer with a quoted price and validity window.
type QuotationRequest struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Customer       primitive.ObjectID `bson:"customer" json:"customer"`
	Product        primitive.ObjectID `bson:"product" json:"product"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	Specifications string             `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status         string             `bson:"status" json:"status"`
	AdminNotes     string             `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	QuotedPrice    *QuotedPrice       `bson:"quotedPrice,omitempty" json:"quotedPrice,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
