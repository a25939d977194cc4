package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CouponTypePercentage   = "percentage"
	CouponTypeFixed        = "fixed"
	CouponTypeFreeShipping = "free_shipping"
)

type Coupon struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code           string             `bson:"code" json:"code"`
	Type           string             `bson:"type" json:"type"`
	Value          float64            `bson:"value" json:"value"`
	MinAmount      float64            `bson:"min_amount" json:"min_amount"`
	MaxAmount      *float64           `bson:"max_amount,omitempty" json:"max_amount,omitempty"` // plafond de réduction
	MaxUses        int                `bson:"max_uses" json:"max_uses"`
	UsedCount      int                `bson:"used_count" json:"used_count"`
	MaxUsesPerUser int                `bson:"max_uses_per_user" json:"max_uses_per_user"`
	StartsAt       time.Time          `bson:"starts_at" json:"starts_at"`
	ExpiresAt      time.Time          `bson:"expires_at" json:"expires_at"`
	Status         string             `bson:"status" json:"status"`
	CreatedBy      string             `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

func (cp Coupon) IsActive() bool {
	return cp.Status == StatusActive
}

type CouponUsage struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CouponID primitive.ObjectID `bson:"coupon_id" json:"coupon_id"`
	UserID   string             `bson:"user_id" json:"user_id"`
	OrderID  primitive.ObjectID `bson:"order_id" json:"order_id"`
	UsedAt   time.Time          `bson:"used_at" json:"used_at"`
}

type CouponValidation struct {
	IsValid      bool    `json:"is_valid"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Discount     float64 `json:"discount"`
	Type         string  `json:"type"`
	Code         string  `json:"code"`
}

// Validate vérifie l'éligibilité du coupon pour un montant de panier à un
// instant donné et calcule la réduction. userUses est le nombre
// d'utilisations déjà faites par cet utilisateur.
func (cp Coupon) Validate(cartTotal float64, userUses int, now time.Time) CouponValidation {
	invalid := func(msg string) CouponValidation {
		return CouponValidation{IsValid: false, ErrorMessage: msg, Code: cp.Code}
	}

	if !cp.IsActive() {
		return invalid("Ce coupon n'est plus actif")
	}
	if now.Before(cp.StartsAt) {
		return invalid("Ce coupon n'est pas encore valide")
	}
	if now.After(cp.ExpiresAt) {
		return invalid("Ce coupon a expiré")
	}
	if cp.MaxUses > 0 && cp.UsedCount >= cp.MaxUses {
		return invalid("Ce coupon a atteint son nombre maximum d'utilisations")
	}
	if cp.MaxUsesPerUser > 0 && userUses >= cp.MaxUsesPerUser {
		return invalid("Vous avez déjà utilisé ce coupon")
	}
	if cartTotal < cp.MinAmount {
		return invalid("Le montant minimum du panier n'est pas atteint")
	}

	var discount float64
	switch cp.Type {
	case CouponTypePercentage:
		discount = cartTotal * cp.Value / 100
	case CouponTypeFixed:
		discount = cp.Value
	case CouponTypeFreeShipping:
		discount = 0
	default:
		return invalid("Type de coupon invalide")
	}

	if cp.MaxAmount != nil && discount > *cp.MaxAmount {
		discount = *cp.MaxAmount
	}
	if discount > cartTotal {
		discount = cartTotal
	}

	return CouponValidation{
		IsValid:  true,
		Discount: discount,
		Type:     cp.Type,
		Code:     cp.Code,
	}
}
