package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"zyvo_back_end/internal/database"
	"zyvo_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentmethod"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func paymentMethodCollection() *mongo.Collection {
	return database.MongoUsersDB.Collection("payment_methods")
}

// AddPaymentMethod enregistre un moyen de paiement Stripe pour
// l'utilisateur connecté. Les détails de carte (last4, marque) sont lus
// depuis Stripe, jamais depuis le client.
func AddPaymentMethod(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		StripePaymentMethodID string          `json:"stripe_payment_method_id" binding:"required"`
		BillingAddress        *models.Address `json:"billing_address"`
		IsDefault             bool            `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le champ 'stripe_payment_method_id' est obligatoire"})
		return
	}

	spm, err := paymentmethod.Get(input.StripePaymentMethodID, &stripe.PaymentMethodParams{})
	if err != nil {
		log.Println("❌ Erreur Stripe paymentmethod.Get:", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Moyen de paiement Stripe introuvable"})
		return
	}

	pm := models.PaymentMethod{
		UserID:                userID,
		Type:                  string(spm.Type),
		StripePaymentMethodID: spm.ID,
		BillingAddress:        input.BillingAddress,
		IsDefault:             input.IsDefault,
		Status:                models.StatusActive,
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
	}
	if spm.Card != nil {
		pm.Last4 = spm.Card.Last4
		pm.Brand = string(spm.Card.Brand)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Un seul moyen par défaut à la fois
	if pm.IsDefault {
		paymentMethodCollection().UpdateMany(ctx,
			bson.M{"user_id": userID, "is_default": true},
			bson.M{"$set": bson.M{"is_default": false, "updated_at": time.Now()}})
	}

	res, err := paymentMethodCollection().InsertOne(ctx, pm)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur enregistrement moyen de paiement"})
		return
	}
	pm.ID = res.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "payment_method": pm})
}

// GetPaymentMethods liste les moyens de paiement actifs de l'utilisateur
func GetPaymentMethods(c *gin.Context) {
	userID := c.GetString("user_id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := paymentMethodCollection().Find(ctx, bson.M{"user_id": userID, "status": models.StatusActive})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var methods []models.PaymentMethod
	if err := cursor.All(ctx, &methods); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage moyens de paiement"})
		return
	}

	c.JSON(http.StatusOK, methods)
}

// SetDefaultPaymentMethod marque un moyen de paiement comme défaut
func SetDefaultPaymentMethod(c *gin.Context) {
	userID := c.GetString("user_id")

	pmID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID moyen de paiement invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := paymentMethodCollection().UpdateOne(ctx,
		bson.M{"_id": pmID, "user_id": userID, "status": models.StatusActive},
		bson.M{"$set": bson.M{"is_default": true, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Moyen de paiement introuvable"})
		return
	}

	paymentMethodCollection().UpdateMany(ctx,
		bson.M{"user_id": userID, "_id": bson.M{"$ne": pmID}, "is_default": true},
		bson.M{"$set": bson.M{"is_default": false, "updated_at": time.Now()}})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Moyen de paiement par défaut mis à jour"})
}

// DeletePaymentMethod archive un moyen de paiement. Les commandes passées
// qui le référencent restent intactes.
func DeletePaymentMethod(c *gin.Context) {
	userID := c.GetString("user_id")

	pmID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID moyen de paiement invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var pm models.PaymentMethod
	err = paymentMethodCollection().FindOneAndUpdate(ctx,
		bson.M{"_id": pmID, "user_id": userID, "status": models.StatusActive},
		bson.M{"$set": bson.M{"status": models.StatusArchived, "is_default": false, "updated_at": time.Now()}}).Decode(&pm)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Moyen de paiement introuvable"})
		return
	}

	// Détache aussi côté Stripe
	if pm.StripePaymentMethodID != "" {
		if _, err := paymentmethod.Detach(pm.StripePaymentMethodID, &stripe.PaymentMethodDetachParams{}); err != nil {
			log.Println("⚠️ Erreur détachement Stripe:", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Moyen de paiement supprimé"})
}
