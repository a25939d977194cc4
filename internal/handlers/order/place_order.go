package order

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"zyvo_back_end/internal/database"
	"zyvo_back_end/internal/models"
	"zyvo_back_end/internal/packunit"
	"zyvo_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func orderCollection() *mongo.Collection {
	return database.MongoOrdersDB.Collection("orders")
}

func orderItemCollection() *mongo.Collection {
	return database.MongoOrdersDB.Collection("order_items")
}

func cartCollection() *mongo.Collection {
	return database.MongoOrdersDB.Collection("carts")
}

func cartItemCollection() *mongo.Collection {
	return database.MongoOrdersDB.Collection("cart_items")
}

func couponCollection() *mongo.Collection {
	return database.MongoOrdersDB.Collection("coupons")
}

func couponUsageCollection() *mongo.Collection {
	return database.MongoOrdersDB.Collection("coupon_usages")
}

func inventoryCollection() *mongo.Collection {
	return database.MongoCatalogDB.Collection("inventories")
}

func variantCollection() *mongo.Collection {
	return database.MongoCatalogDB.Collection("product_variants")
}

type placeOrderInput struct {
	ShippingAddress models.Address `json:"shipping_address"`
	BillingAddress  models.Address `json:"billing_address"`
	Payment         struct {
		Mode            string `json:"mode"`
		PaymentMethodID string `json:"payment_method_id"`
	} `json:"payment"`
}

// cartLine enrichit une ligne de panier de sa variante et du nombre
// d'unités de base à décrémenter (les multi-packs consomment
// quantité × multiplicateur).
type cartLine struct {
	Item        models.CartItem
	Variant     models.ProductVariant
	ProductName string
	BaseUnits   int
}

// 🧾 PlaceOrder transforme le panier en commande.
//
// Les préconditions sont vérifiées dans l'ordre: adresses, panier non
// vide, moyen de paiement, stock. Puis la décrémentation du stock, la
// création de la commande et la suppression du panier se font dans une
// seule transaction MongoDB: tout ou rien.
func PlaceOrder(c *gin.Context) {
	userID := c.GetString("user_id")

	var input placeOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	// 1. Adresses obligatoires
	if input.ShippingAddress.IsZero() || input.BillingAddress.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Adresses de livraison et de facturation obligatoires"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 2. Panier non vide
	var cart models.Cart
	err := cartCollection().FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": models.ErrCartEmpty.Message})
		return
	}
	cursor, err := cartItemCollection().Find(ctx, bson.M{"cart_id": cart.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lecture panier"})
		return
	}
	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lecture panier"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": models.ErrCartEmpty.Message})
		return
	}

	// 3. Moyen de paiement: COD accepté tel quel, sinon le moyen stocké
	// doit exister, appartenir à l'utilisateur et être actif
	var paymentMethod *models.PaymentMethod
	switch input.Payment.Mode {
	case models.PaymentModeCOD:
		// rien à vérifier
	case models.PaymentModeStored:
		pmID, err := primitive.ObjectIDFromHex(input.Payment.PaymentMethodID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": models.ErrInvalidPayment.Message})
			return
		}
		var pm models.PaymentMethod
		err = database.MongoUsersDB.Collection("payment_methods").
			FindOne(ctx, bson.M{"_id": pmID, "user_id": userID}).Decode(&pm)
		if err != nil || !pm.IsActive() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": models.ErrInvalidPayment.Message})
			return
		}
		paymentMethod = &pm
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": models.ErrInvalidPayment.Message})
		return
	}

	// 4. Stock: chaque ligne traduite en unités de base selon le pack
	lines := make([]cartLine, 0, len(items))
	for _, item := range items {
		var variant models.ProductVariant
		if err := variantCollection().FindOne(ctx, bson.M{"_id": item.VariantID}).Decode(&variant); err != nil || !variant.IsActive() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": fmt.Sprintf("La variante %s n'est plus disponible", item.VariantID.Hex())})
			return
		}

		pack := packunit.Analyze(variant.OptionValues)
		need := packunit.BaseUnitsNeeded(item.Quantity, pack)

		var inv models.Inventory
		err := inventoryCollection().FindOne(ctx, bson.M{"variant_id": item.VariantID, "status": models.StatusActive}).Decode(&inv)
		if err != nil || inv.StockQuantity < need {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": models.ErrInsufficientStock.Message, "variant_id": item.VariantID.Hex()})
			return
		}

		line := cartLine{Item: item, Variant: variant, ProductName: variant.SKUCode, BaseUnits: need}
		var p models.Product
		if err := database.MongoCatalogDB.Collection("products").
			FindOne(ctx, bson.M{"_id": variant.ProductID}).Decode(&p); err == nil {
			line.ProductName = p.Name
		}
		lines = append(lines, line)
	}

	// Totaux: sous-total au prix figé à l'ajout, réduction coupon éventuelle
	subtotal := models.CartItemsTotal(items)
	var discount float64
	var coupon *models.Coupon
	if cart.AppliedCouponCode != nil {
		var cp models.Coupon
		if err := couponCollection().FindOne(ctx, bson.M{"code": *cart.AppliedCouponCode}).Decode(&cp); err == nil {
			userUses, _ := couponUsageCollection().CountDocuments(ctx, bson.M{"coupon_id": cp.ID, "user_id": userID})
			if v := cp.Validate(subtotal, int(userUses), time.Now()); v.IsValid {
				discount = v.Discount
				coupon = &cp
			}
		}
	}
	total := subtotal - discount

	orderNumber, err := utils.GenerateOrderNumber(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to place order"})
		return
	}

	newOrder := models.Order{
		OrderNumber:     orderNumber,
		UserID:          userID,
		Status:          models.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		SubtotalAmount:  subtotal,
		DiscountAmount:  discount,
		TotalAmount:     total,
		CouponCode:      cart.AppliedCouponCode,
		PaymentMode:     input.Payment.Mode,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if paymentMethod != nil {
		newOrder.PaymentMethodID = &paymentMethod.ID

		// PaymentIntent créé AVANT la transaction: en cas d'échec de la
		// transaction l'intent restera simplement non confirmé
		params := &stripe.PaymentIntentParams{
			Amount:        stripe.Int64(int64(total * 100)),
			Currency:      stripe.String("eur"),
			PaymentMethod: stripe.String(paymentMethod.StripePaymentMethodID),
			Metadata: map[string]string{
				"user_id":      userID,
				"order_number": orderNumber,
			},
		}
		intent, err := paymentintent.New(params)
		if err != nil {
			log.Println("❌ Erreur Stripe PaymentIntent:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to place order"})
			return
		}
		newOrder.PaymentIntentID = intent.ID
		log.Printf("💳 PaymentIntent créé: %s (%.2f€) pour %s", intent.ID, total, userID)
	}

	// Transaction: décrément conditionnel du stock, commande, lignes,
	// usage coupon, suppression panier
	session, err := database.MongoClient.StartSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to place order"})
		return
	}
	defer session.EndSession(ctx)

	var orderItems []models.OrderItem

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()

		// Décrément conditionnel: le filtre stock_quantity >= need fait
		// échouer la transaction si un autre checkout est passé avant
		for _, line := range lines {
			res, err := inventoryCollection().UpdateOne(sc,
				bson.M{
					"variant_id":     line.Item.VariantID,
					"status":         models.StatusActive,
					"stock_quantity": bson.M{"$gte": line.BaseUnits},
				},
				bson.M{
					"$inc": bson.M{"stock_quantity": -line.BaseUnits},
					"$set": bson.M{"last_sold_date": now, "updated_at": now},
				})
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, models.ErrInsufficientStock
			}
		}

		res, err := orderCollection().InsertOne(sc, newOrder)
		if err != nil {
			return nil, err
		}
		newOrder.ID = res.InsertedID.(primitive.ObjectID)

		orderItems = make([]models.OrderItem, 0, len(lines))
		docs := make([]interface{}, 0, len(lines))
		for _, line := range lines {
			oi := models.OrderItem{
				OrderID:   newOrder.ID,
				VariantID: line.Item.VariantID,
				SKUCode:   line.Variant.SKUCode,
				Name:      line.ProductName,
				Quantity:  line.Item.Quantity,
				UnitPrice: line.Item.PriceAtAddition,
				Subtotal:  line.Item.Subtotal(),
				CreatedAt: now,
			}
			orderItems = append(orderItems, oi)
			docs = append(docs, oi)
		}
		if _, err := orderItemCollection().InsertMany(sc, docs); err != nil {
			return nil, err
		}

		if coupon != nil {
			usage := models.CouponUsage{
				CouponID: coupon.ID,
				UserID:   userID,
				OrderID:  newOrder.ID,
				UsedAt:   now,
			}
			if _, err := couponUsageCollection().InsertOne(sc, usage); err != nil {
				return nil, err
			}
			if _, err := couponCollection().UpdateOne(sc, bson.M{"_id": coupon.ID},
				bson.M{"$inc": bson.M{"used_count": 1}, "$set": bson.M{"updated_at": now}}); err != nil {
				return nil, err
			}
		}

		if _, err := cartItemCollection().DeleteMany(sc, bson.M{"cart_id": cart.ID}); err != nil {
			return nil, err
		}
		if _, err := cartCollection().DeleteOne(sc, bson.M{"_id": cart.ID}); err != nil {
			return nil, err
		}

		return nil, nil
	})
	if err != nil {
		log.Println("❌ Transaction commande échouée:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to place order"})
		return
	}

	log.Printf("✅ Commande %s créée pour %s (%.2f€)", newOrder.OrderNumber, userID, newOrder.TotalAmount)

	utils.LogUserActivity(c, utils.ActionOrderCreate, utils.ResourceOrder, newOrder.ID.Hex(), nil, newOrder)
	PublishOrderEvent(newOrder.UserID, newOrder.OrderNumber, newOrder.Status)

	// Confirmation e-mail + facture PDF en arrière-plan
	email := c.GetString("email")
	go sendOrderConfirmation(email, newOrder, orderItems)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"order":   newOrder,
		"items":   orderItems,
	})
}

// sendOrderConfirmation génère la facture (QR SEPA + PDF headless) et
// envoie l'e-mail de confirmation. Tout échec est loggé, jamais remonté
// au client.
func sendOrderConfirmation(email string, o models.Order, items []models.OrderItem) {
	if email == "" {
		return
	}

	var pdf []byte
	qr, err := utils.GenerateSepaQR("BE71096123456769", "GKCCBEBB", "Zyvo SRL", o.OrderNumber, o.TotalAmount)
	if err == nil {
		if buf, err := utils.RenderInvoicePDF(o.OrderNumber, qr); err == nil {
			pdf = buf
		} else {
			log.Println("❌ Erreur génération PDF:", err)
		}
	}

	html := utils.GenerateOrderConfirmationHTML(o, items)
	if err := utils.SendOrderConfirmationEmail(email, "Confirmation de votre commande Zyvo", html, pdf); err != nil {
		log.Println("❌ Erreur envoi e-mail confirmation:", err)
	} else {
		log.Println("📧 E-mail de confirmation envoyé à", email)
	}
}
