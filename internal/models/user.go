package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Provider     string             `bson:"provider" json:"provider"` // "local", "google", "facebook"
	ProviderID   string             `bson:"provider_id,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"` // "customer", "admin"
	IsBanned     bool               `bson:"is_banned" json:"is_banned"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// PaymentMethod appartient à un utilisateur; référencé (jamais possédé)
// par les commandes non-COD.
type PaymentMethod struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                string             `bson:"user_id" json:"user_id"`
	Type                  string             `bson:"type" json:"type"` // "card", "sepa"
	Last4                 string             `bson:"last4,omitempty" json:"last4,omitempty"`
	Brand                 string             `bson:"brand,omitempty" json:"brand,omitempty"`
	StripePaymentMethodID string             `bson:"stripe_payment_method_id,omitempty" json:"-"`
	BillingAddress        *Address           `bson:"billing_address,omitempty" json:"billing_address,omitempty"`
	IsDefault             bool               `bson:"is_default" json:"is_default"`
	Status                string             `bson:"status" json:"status"`
	CreatedAt             time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time          `bson:"updated_at" json:"updated_at"`
}

func (pm PaymentMethod) IsActive() bool {
	return pm.Status == StatusActive
}

type Favorite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	VariantID primitive.ObjectID `bson:"variant_id" json:"variant_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Rating    int                `bson:"rating" json:"rating"` // 1..5
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
