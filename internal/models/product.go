package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts de cycle de vie communs à tout le catalogue.
// Remplace les anciens booléens is_active éparpillés par modèle.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	CategoryID  primitive.ObjectID `bson:"category_id" json:"category_id"`
	BrandID     primitive.ObjectID `bson:"brand_id,omitempty" json:"brand_id,omitempty"`
	SupplierID  primitive.ObjectID `bson:"supplier_id,omitempty" json:"supplier_id,omitempty"`
	ImageURLs   []string           `bson:"image_urls" json:"image_urls"`
	Tags        []string           `bson:"tags" json:"tags"`
	Status      string             `bson:"status" json:"status"`
	HasVariants bool               `bson:"has_variants" json:"has_variants"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

func (p Product) IsActive() bool {
	return p.Status == StatusActive
}

// OptionValue est une paire {type d'option, valeur} portée par une variante.
// Ex: {"color", "rouge"} ou {"pack", "12"}.
type OptionValue struct {
	OptionType  string `bson:"option_type" json:"option_type"`
	OptionValue string `bson:"option_value" json:"option_value"`
}

type ProductVariant struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID    primitive.ObjectID `bson:"product_id" json:"product_id"`
	SKUCode      string             `bson:"sku_code" json:"sku_code"`
	Price        float64            `bson:"price" json:"price"`
	OptionValues []OptionValue      `bson:"option_values" json:"option_values"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

func (v ProductVariant) IsActive() bool {
	return v.Status == StatusActive
}

// Option décrit un type d'option du catalogue ("color", "pack", "size")
// et ses valeurs admises.
type Option struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Values    []string           `bson:"values" json:"values"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
