package order

import (
	"context"
	"net/http"
	"strings"
	"time"

	"zyvo_back_end/internal/models"
	"zyvo_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateCoupon (admin) crée un code promo
func CreateCoupon(c *gin.Context) {
	var input struct {
		Code           string   `json:"code" binding:"required"`
		Type           string   `json:"type" binding:"required"`
		Value          float64  `json:"value"`
		MinAmount      float64  `json:"min_amount"`
		MaxAmount      *float64 `json:"max_amount"`
		MaxUses        int      `json:"max_uses"`
		MaxUsesPerUser int      `json:"max_uses_per_user"`
		StartsAt       string   `json:"starts_at"`
		ExpiresAt      string   `json:"expires_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Les champs 'code', 'type' et 'expires_at' sont obligatoires"})
		return
	}

	switch input.Type {
	case models.CouponTypePercentage, models.CouponTypeFixed, models.CouponTypeFreeShipping:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Type de coupon invalide (percentage, fixed ou free_shipping)"})
		return
	}
	if input.Type != models.CouponTypeFreeShipping && input.Value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "La valeur du coupon doit être positive"})
		return
	}
	if input.Type == models.CouponTypePercentage && input.Value > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Un pourcentage ne peut pas dépasser 100"})
		return
	}

	expiresAt, err := time.Parse(time.RFC3339, input.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Format de date invalide pour 'expires_at' (RFC3339)"})
		return
	}
	startsAt := time.Now()
	if input.StartsAt != "" {
		if startsAt, err = time.Parse(time.RFC3339, input.StartsAt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Format de date invalide pour 'starts_at' (RFC3339)"})
			return
		}
	}
	if !expiresAt.After(startsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "'expires_at' doit être après 'starts_at'"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := couponCollection().CountDocuments(ctx, bson.M{"code": code})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Un coupon avec ce code existe déjà", "field": "code"})
		return
	}

	coupon := models.Coupon{
		Code:           code,
		Type:           input.Type,
		Value:          input.Value,
		MinAmount:      input.MinAmount,
		MaxAmount:      input.MaxAmount,
		MaxUses:        input.MaxUses,
		MaxUsesPerUser: input.MaxUsesPerUser,
		StartsAt:       startsAt,
		ExpiresAt:      expiresAt,
		Status:         models.StatusActive,
		CreatedBy:      c.GetString("user_id"),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	res, err := couponCollection().InsertOne(ctx, coupon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur création coupon"})
		return
	}
	coupon.ID = res.InsertedID.(primitive.ObjectID)

	utils.LogAdminActivity(c, utils.ActionCouponCreate, utils.ResourceCoupon, coupon.ID.Hex(), nil, coupon)

	c.JSON(http.StatusCreated, gin.H{"success": true, "coupon": coupon})
}

// GetAllCoupons (admin) liste les coupons
func GetAllCoupons(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := couponCollection().Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage coupons"})
		return
	}

	c.JSON(http.StatusOK, coupons)
}

// UpdateCoupon (admin) ajuste les limites et dates d'un coupon
func UpdateCoupon(c *gin.Context) {
	couponID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID coupon invalide"})
		return
	}

	var input struct {
		MinAmount      *float64 `json:"min_amount"`
		MaxAmount      *float64 `json:"max_amount"`
		MaxUses        *int     `json:"max_uses"`
		MaxUsesPerUser *int     `json:"max_uses_per_user"`
		ExpiresAt      *string  `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if input.MinAmount != nil {
		update["min_amount"] = *input.MinAmount
	}
	if input.MaxAmount != nil {
		update["max_amount"] = *input.MaxAmount
	}
	if input.MaxUses != nil {
		update["max_uses"] = *input.MaxUses
	}
	if input.MaxUsesPerUser != nil {
		update["max_uses_per_user"] = *input.MaxUsesPerUser
	}
	if input.ExpiresAt != nil {
		expiresAt, err := time.Parse(time.RFC3339, *input.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Format de date invalide pour 'expires_at' (RFC3339)"})
			return
		}
		update["expires_at"] = expiresAt
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := couponCollection().UpdateOne(ctx, bson.M{"_id": couponID}, bson.M{"$set": update})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Coupon introuvable"})
		return
	}

	utils.LogAdminActivity(c, utils.ActionCouponUpdate, utils.ResourceCoupon, couponID.Hex(), nil, update)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Coupon mis à jour avec succès"})
}

// DeleteCoupon (admin) archive un coupon; l'historique d'usage est conservé
func DeleteCoupon(c *gin.Context) {
	couponID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID coupon invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := couponCollection().UpdateOne(ctx, bson.M{"_id": couponID},
		bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Coupon introuvable"})
		return
	}

	utils.LogAdminActivity(c, utils.ActionCouponDelete, utils.ResourceCoupon, couponID.Hex(), nil, nil)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Coupon supprimé avec succès"})
}

// ValidateCoupon vérifie un code pour un montant donné sans l'accrocher
// à un panier.
func ValidateCoupon(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Code      string  `json:"code" binding:"required"`
		CartTotal float64 `json:"cart_total" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Les champs 'code' et 'cart_total' sont obligatoires"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var coupon models.Coupon
	if err := couponCollection().FindOne(ctx, bson.M{"code": code}).Decode(&coupon); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Coupon introuvable"})
		return
	}

	userUses, err := couponUsageCollection().CountDocuments(ctx, bson.M{"coupon_id": coupon.ID, "user_id": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	validation := coupon.Validate(input.CartTotal, int(userUses), time.Now())
	if !validation.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validation.ErrorMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"code":     validation.Code,
		"type":     validation.Type,
		"discount": validation.Discount,
	})
}
