package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BulkPricingTier struct {
	MinQuantity  int     `bson:"minQuantity" json:"minQuantity"`
	MaxQuantity  int     `bson:"maxQuantity,omitempty" json:"maxQuantity,omitempty"`
	PricePerUnit float64 `bson:"pricePerUnit" json:"pricePerUnit"`
	Discount     float64 `bson:"discount,omitempty" json:"discount,omitempty"`
}

type B2BPricing struct {
	Enabled           bool              `bson:"enabled" json:"enabled"`
	ShowPriceToGuests bool              `bson:"showPriceToGuests" json:"showPriceToGuests"`
	PriceOnRequest    bool              `bson:"priceOnRequest" json:"priceOnRequest"`
	BulkPricing       []BulkPricingTier `bson:"bulkPricing,omitempty" json:"bulkPricing,omitempty"`
}

type Variant struct {
	Name  string `bson:"name" json:"name"`
	Value string `bson:"value" json:"value"`
}

type Specifications struct {
	Material       string   `bson:"material,omitempty" json:"material,omitempty"`
	Dimensions     string   `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Weight         string   `bson:"weight,omitempty" json:"weight,omitempty"`
	Warranty       string   `bson:"warranty,omitempty" json:"warranty,omitempty"`
	Certifications []string `bson:"certifications,omitempty" json:"certifications,omitempty"`
	Features       []string `bson:"features,omitempty" json:"features,omitempty"`
	Usage          string   `bson:"usage,omitempty" json:"usage,omitempty"`
	Packaging      string   `bson:"packaging,omitempty" json:"packaging,omitempty"`
}

// Product is the catalog entity. Stock is only ever mutated through
// conditional $inc updates so it can never go negative.
type Product struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title            string             `bson:"title" json:"title" validate:"required"`
	Description      string             `bson:"description" json:"description" validate:"required"`
	Price            float64            `bson:"price" json:"price" validate:"required,gte=0"`
	B2BPricing       B2BPricing         `bson:"b2bPricing" json:"b2bPricing"`
	Stock            int                `bson:"stock" json:"stock" validate:"gte=0"`
	MinOrderQuantity int                `bson:"minOrderQuantity,omitempty" json:"minOrderQuantity,omitempty"`
	MaxOrderQuantity int                `bson:"maxOrderQuantity,omitempty" json:"maxOrderQuantity,omitempty"`
	Images           []string           `bson:"images" json:"images"`
	Category         primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	Tags             []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Sizes            []string           `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Quality          string             `bson:"quality,omitempty" json:"quality,omitempty"`
	Variants         []Variant          `bson:"variants,omitempty" json:"variants,omitempty"`
	Specifications   Specifications     `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Featured         bool               `bson:"featured" json:"featured"`
	Discount         float64            `bson:"discount,omitempty" json:"discount,omitempty"`
	Status           string             `bson:"status" json:"status"` // active, inactive, draft
	IsActive         bool               `bson:"isActive" json:"isActive"`
	AvgRating        float64            `bson:"avgRating" json:"avgRating"`
	NumReviews       int                `bson:"numReviews" json:"numReviews"`
	TargetCustomers  []string           `bson:"targetCustomers,omitempty" json:"targetCustomers,omitempty"` // B2C, B2B
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FirstImage is the image snapshotted into order lines.
func (p *Product) FirstImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
