package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validCoupon() Coupon {
	return Coupon{
		Code:      "BIENVENUE10",
		Type:      CouponTypePercentage,
		Value:     10,
		Status:    StatusActive,
		StartsAt:  time.Now().Add(-24 * time.Hour),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

func TestCouponValidate_Pourcentage(t *testing.T) {
	cp := validCoupon()

	res := cp.Validate(200, 0, time.Now())
	assert.True(t, res.IsValid)
	assert.InDelta(t, 20, res.Discount, 0.001)
	assert.Equal(t, CouponTypePercentage, res.Type)
	assert.Equal(t, "BIENVENUE10", res.Code)
}

func TestCouponValidate_MontantFixe(t *testing.T) {
	cp := validCoupon()
	cp.Type = CouponTypeFixed
	cp.Value = 15

	res := cp.Validate(100, 0, time.Now())
	assert.True(t, res.IsValid)
	assert.InDelta(t, 15, res.Discount, 0.001)
}

func TestCouponValidate_LivraisonGratuite(t *testing.T) {
	cp := validCoupon()
	cp.Type = CouponTypeFreeShipping
	cp.Value = 0

	res := cp.Validate(100, 0, time.Now())
	assert.True(t, res.IsValid)
	assert.Zero(t, res.Discount)
}

func TestCouponValidate_Inactif(t *testing.T) {
	cp := validCoupon()
	cp.Status = StatusArchived

	res := cp.Validate(100, 0, time.Now())
	assert.False(t, res.IsValid)
	assert.Equal(t, "Ce coupon n'est plus actif", res.ErrorMessage)
}

func TestCouponValidate_PasEncoreValide(t *testing.T) {
	cp := validCoupon()
	cp.StartsAt = time.Now().Add(1 * time.Hour)

	res := cp.Validate(100, 0, time.Now())
	assert.False(t, res.IsValid)
	assert.Equal(t, "Ce coupon n'est pas encore valide", res.ErrorMessage)
}

func TestCouponValidate_Expire(t *testing.T) {
	cp := validCoupon()
	cp.ExpiresAt = time.Now().Add(-1 * time.Hour)

	res := cp.Validate(100, 0, time.Now())
	assert.False(t, res.IsValid)
	assert.Equal(t, "Ce coupon a expiré", res.ErrorMessage)
}

func TestCouponValidate_MaxUtilisationsAtteint(t *testing.T) {
	cp := validCoupon()
	cp.MaxUses = 100
	cp.UsedCount = 100

	res := cp.Validate(100, 0, time.Now())
	assert.False(t, res.IsValid)
	assert.Equal(t, "Ce coupon a atteint son nombre maximum d'utilisations", res.ErrorMessage)
}

func TestCouponValidate_MaxParUtilisateur(t *testing.T) {
	cp := validCoupon()
	cp.MaxUsesPerUser = 1

	res := cp.Validate(100, 1, time.Now())
	assert.False(t, res.IsValid)
	assert.Equal(t, "Vous avez déjà utilisé ce coupon", res.ErrorMessage)

	// zéro = illimité
	cp.MaxUsesPerUser = 0
	res = cp.Validate(100, 42, time.Now())
	assert.True(t, res.IsValid)
}

func TestCouponValidate_MontantMinimum(t *testing.T) {
	cp := validCoupon()
	cp.MinAmount = 50

	res := cp.Validate(49.99, 0, time.Now())
	assert.False(t, res.IsValid)
	assert.Equal(t, "Le montant minimum du panier n'est pas atteint", res.ErrorMessage)

	res = cp.Validate(50, 0, time.Now())
	assert.True(t, res.IsValid)
}

func TestCouponValidate_PlafondReduction(t *testing.T) {
	cp := validCoupon()
	cp.Value = 50 // 50% de 1000 = 500
	max := 100.0
	cp.MaxAmount = &max

	res := cp.Validate(1000, 0, time.Now())
	assert.True(t, res.IsValid)
	assert.InDelta(t, 100, res.Discount, 0.001)
}

func TestCouponValidate_ReductionPlafonneeAuPanier(t *testing.T) {
	cp := validCoupon()
	cp.Type = CouponTypeFixed
	cp.Value = 30

	// jamais de réduction supérieure au montant du panier
	res := cp.Validate(20, 0, time.Now())
	assert.True(t, res.IsValid)
	assert.InDelta(t, 20, res.Discount, 0.001)
}

func TestCouponValidate_TypeInvalide(t *testing.T) {
	cp := validCoupon()
	cp.Type = "bogo"

	res := cp.Validate(100, 0, time.Now())
	assert.False(t, res.IsValid)
	assert.Equal(t, "Type de coupon invalide", res.ErrorMessage)
}
