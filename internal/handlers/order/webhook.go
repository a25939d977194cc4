package order

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"zyvo_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
	"go.mongodb.org/mongo-driver/bson"
)

// StripeWebhook reçoit les événements Stripe. payment_intent.succeeded
// fait avancer la commande pending → processing.
func StripeWebhook(c *gin.Context) {
	const maxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Échec lecture body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	var event stripe.Event

	if secret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET — mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "JSON invalide"})
			return
		}
	} else {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Signature invalide"})
			return
		}
	}

	log.Printf("📥 Événement Stripe reçu: %s", event.Type)
	handleStripeEvent(event)

	c.Status(http.StatusOK)
}

func handleStripeEvent(event stripe.Event) {
	if event.Type != "payment_intent.succeeded" {
		log.Printf("ℹ️ Événement ignoré: %s", event.Type)
		return
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		log.Println("❌ Erreur décodage PaymentIntent:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var o models.Order
	if err := orderCollection().FindOne(ctx, bson.M{"payment_intent_id": pi.ID}).Decode(&o); err != nil {
		log.Printf("⚠️ Aucune commande pour le PaymentIntent %s", pi.ID)
		return
	}

	// Idempotent: un webhook rejoué sur une commande déjà avancée ne
	// fait rien
	if !o.CanTransitionTo(models.OrderStatusProcessing) {
		log.Printf("🔁 Commande %s déjà en %s, webhook ignoré", o.OrderNumber, o.Status)
		return
	}

	if err := applyStatus(ctx, &o, models.OrderStatusProcessing); err != nil {
		log.Printf("❌ Erreur avancement commande %s: %v", o.OrderNumber, err)
		return
	}

	log.Printf("✅ Paiement confirmé, commande %s → processing", o.OrderNumber)
	PublishOrderEvent(o.UserID, o.OrderNumber, o.Status)
}
