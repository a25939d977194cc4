package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name             string              `bson:"name" json:"name"`
	Slug             string              `bson:"slug" json:"slug"`
	Description      string              `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL         string              `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ParentCategoryID *primitive.ObjectID `bson:"parent_category_id,omitempty" json:"parent_category_id,omitempty"`
	Status           string              `bson:"status" json:"status"`
	CreatedAt        time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time           `bson:"updated_at" json:"updated_at"`
}

func (c Category) IsActive() bool {
	return c.Status == StatusActive
}

type Brand struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	LogoURL   string             `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	Website   string             `bson:"website,omitempty" json:"website,omitempty"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (b Brand) IsActive() bool {
	return b.Status == StatusActive
}

type Supplier struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	ContactEmail string             `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

func (s Supplier) IsActive() bool {
	return s.Status == StatusActive
}

// Platform est un canal de vente externe (marketplace, site partenaire).
type Platform struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	BaseURL   string             `bson:"base_url,omitempty" json:"base_url,omitempty"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (p Platform) IsActive() bool {
	return p.Status == StatusActive
}

// PlatformListing relie une variante à une plateforme avec un prix propre
// au canal de vente.
type PlatformListing struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlatformID    primitive.ObjectID `bson:"platform_id" json:"platform_id"`
	VariantID     primitive.ObjectID `bson:"variant_id" json:"variant_id"`
	PlatformSKU   string             `bson:"platform_sku,omitempty" json:"platform_sku,omitempty"`
	PlatformPrice float64            `bson:"platform_price" json:"platform_price"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
