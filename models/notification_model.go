package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationOrderPlaced       = "order_placed"
	NotificationOrderConfirmed    = "order_confirmed"
	NotificationOrderCancelled    = "order_cancelled"
	NotificationOrderStatus       = "order_status"
	NotificationUPIReconciliation = "upi_reconciliation"
	NotificationQuotation         = "quotation"
)

// Notification is a per-user in-app message. Documents without a user are
// the admin feed (e.g. UPI payments awaiting reconciliation).
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	User      *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Type      string              `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	Data      bson.M              `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool                `bson:"read" json:"read"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
