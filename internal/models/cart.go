package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart: un seul panier actif par utilisateur, créé paresseusement au
// premier ajout, supprimé après un checkout réussi.
type Cart struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            string             `bson:"user_id" json:"user_id"`
	CartTotalAmount   float64            `bson:"cart_total_amount" json:"cart_total_amount"`
	AppliedCouponCode *string            `bson:"applied_coupon_code,omitempty" json:"applied_coupon_code,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CartID          primitive.ObjectID `bson:"cart_id" json:"cart_id"`
	VariantID       primitive.ObjectID `bson:"variant_id" json:"variant_id"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	PriceAtAddition float64            `bson:"price_at_addition" json:"price_at_addition"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// Subtotal d'une ligne de panier au prix figé à l'ajout.
func (ci CartItem) Subtotal() float64 {
	return ci.PriceAtAddition * float64(ci.Quantity)
}

// CartItemsTotal calcule le montant total d'une liste de lignes.
func CartItemsTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// MergeCartItem ajoute quantity à la ligne existante de la même variante,
// sinon retourne false pour signaler qu'une nouvelle ligne est nécessaire.
func MergeCartItem(items []CartItem, variantID primitive.ObjectID, quantity int) ([]CartItem, bool) {
	for i := range items {
		if items[i].VariantID == variantID {
			items[i].Quantity += quantity
			items[i].UpdatedAt = time.Now()
			return items, true
		}
	}
	return items, false
}
