package order

import (
	"context"
	"log"
	"net/http"
	"time"

	"zyvo_back_end/internal/database"
	"zyvo_back_end/internal/models"
	"zyvo_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/refund"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func refundCollection() *mongo.Collection {
	return database.MongoOrdersDB.Collection("refunds")
}

// RequestRefund permet à un utilisateur de demander un remboursement
// sur une commande expédiée, livrée ou retournée.
func RequestRefund(c *gin.Context) {
	userID := c.GetString("user_id")

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID commande invalide"})
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required,min=10,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Motif obligatoire (10 à 500 caractères)"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var o models.Order
	if err := orderCollection().FindOne(ctx, bson.M{"_id": orderID}).Decode(&o); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": models.ErrOrderNotFound.Message})
		return
	}
	if o.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": models.ErrNotOrderOwner.Message})
		return
	}
	if !o.IsRefundable() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": models.ErrNotRefundable.Message})
		return
	}

	count, err := refundCollection().CountDocuments(ctx, bson.M{"order_id": orderID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Une demande de remboursement existe déjà pour cette commande"})
		return
	}

	r := models.Refund{
		OrderID:      orderID,
		UserID:       userID,
		Reason:       req.Reason,
		Status:       "pending",
		RefundAmount: o.TotalAmount,
		CreatedAt:    time.Now(),
	}
	res, err := refundCollection().InsertOne(ctx, r)
	if err != nil {
		log.Printf("❌ Erreur création demande remboursement: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur création demande"})
		return
	}
	r.ID = res.InsertedID.(primitive.ObjectID)

	log.Printf("💰 Demande de remboursement créée: %s pour commande %s", r.ID.Hex(), o.OrderNumber)

	c.JSON(http.StatusCreated, gin.H{"success": true, "refund": r})
}

// ProcessRefund (admin) approuve ou rejette une demande. L'approbation
// passe par Stripe pour les commandes payées en ligne; le montant peut
// être partiel mais jamais supérieur au total de la commande.
func ProcessRefund(c *gin.Context) {
	refundID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID remboursement invalide"})
		return
	}

	var req struct {
		Action       string   `json:"action" binding:"required"` // approve, reject
		RefundAmount *float64 `json:"refund_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le champ 'action' est obligatoire"})
		return
	}
	if req.Action != "approve" && req.Action != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Action invalide (approve ou reject)"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var r models.Refund
	if err := refundCollection().FindOne(ctx, bson.M{"_id": refundID}).Decode(&r); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Demande de remboursement introuvable"})
		return
	}
	if r.Status != "pending" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cette demande a déjà été traitée"})
		return
	}

	now := time.Now()

	if req.Action == "reject" {
		refundCollection().UpdateOne(ctx, bson.M{"_id": refundID},
			bson.M{"$set": bson.M{"status": "rejected", "updated_at": now}})
		log.Printf("❌ Remboursement rejeté: %s", refundID.Hex())
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "rejected"})
		return
	}

	var o models.Order
	if err := orderCollection().FindOne(ctx, bson.M{"_id": r.OrderID}).Decode(&o); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur récupération commande"})
		return
	}
	if !o.IsRefundable() && o.Status != models.OrderStatusReturned {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": models.ErrNotRefundable.Message})
		return
	}

	amount := r.RefundAmount
	if req.RefundAmount != nil {
		amount = *req.RefundAmount
	}
	if amount <= 0 || amount > o.TotalAmount {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": models.ErrRefundTooLarge.Message})
		return
	}

	var stripeRefundID string
	if o.PaymentIntentID != "" {
		params := &stripe.RefundParams{
			PaymentIntent: stripe.String(o.PaymentIntentID),
			Amount:        stripe.Int64(int64(amount * 100)),
			Reason:        stripe.String("requested_by_customer"),
		}
		stripeRefund, err := refund.New(params)
		if err != nil {
			log.Printf("❌ Erreur Stripe refund: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur traitement remboursement Stripe"})
			return
		}
		stripeRefundID = stripeRefund.ID
	}

	refundCollection().UpdateOne(ctx, bson.M{"_id": refundID}, bson.M{"$set": bson.M{
		"status":           "completed",
		"refund_amount":    amount,
		"stripe_refund_id": stripeRefundID,
		"updated_at":       now,
	}})

	// returned → refunded; les autres statuts remboursables gardent leur
	// position dans la machine à états
	if o.CanTransitionTo(models.OrderStatusRefunded) {
		applyStatus(ctx, &o, models.OrderStatusRefunded)
		PublishOrderEvent(o.UserID, o.OrderNumber, o.Status)
	}

	utils.LogAdminActivity(c, utils.ActionOrderRefund, utils.ResourceOrder, o.ID.Hex(),
		nil, gin.H{"refund_amount": amount, "stripe_refund_id": stripeRefundID})

	log.Printf("✅ Remboursement traité: %s (Stripe: %s)", refundID.Hex(), stripeRefundID)

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"status":           "completed",
		"stripe_refund_id": stripeRefundID,
		"amount":           amount,
	})
}

// GetMyRefunds liste les demandes de remboursement de l'utilisateur
func GetMyRefunds(c *gin.Context) {
	userID := c.GetString("user_id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := refundCollection().Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var refunds []models.Refund
	if err := cursor.All(ctx, &refunds); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage remboursements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "refunds": refunds, "count": len(refunds)})
}

// GetAllRefunds (admin) liste toutes les demandes
func GetAllRefunds(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := refundCollection().Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var refunds []models.Refund
	if err := cursor.All(ctx, &refunds); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage remboursements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "refunds": refunds, "count": len(refunds)})
}
