package user

import (
	"context"
	"net/http"
	"strings"
	"time"

	"zyvo_back_end/internal/database"
	"zyvo_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

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

// findCart retourne le panier actif de l'utilisateur, ou mongo.ErrNoDocuments.
func findCart(ctx context.Context, userID string) (models.Cart, error) {
	var cart models.Cart
	err := cartCollection().FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	return cart, err
}

func findCartItems(ctx context.Context, cartID primitive.ObjectID) ([]models.CartItem, error) {
	cursor, err := cartItemCollection().Find(ctx, bson.M{"cart_id": cartID})
	if err != nil {
		return nil, err
	}
	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// refreshCartTotal recalcule et persiste le total du panier.
func refreshCartTotal(ctx context.Context, cartID primitive.ObjectID) (float64, error) {
	items, err := findCartItems(ctx, cartID)
	if err != nil {
		return 0, err
	}
	total := models.CartItemsTotal(items)
	_, err = cartCollection().UpdateOne(ctx, bson.M{"_id": cartID},
		bson.M{"$set": bson.M{"cart_total_amount": total, "updated_at": time.Now()}})
	return total, err
}

// 🛒 Ajouter un article au panier (création paresseuse du panier, fusion
// des lignes de la même variante).
func AddItemToCart(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		VariantID string `json:"variant_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Les champs 'variant_id' et 'quantity' sont obligatoires"})
		return
	}
	if input.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": models.ErrInvalidQuantity.Message})
		return
	}

	variantID, err := primitive.ObjectIDFromHex(input.VariantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID variante invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// La variante doit exister et être active; son prix est figé à l'ajout
	var variant models.ProductVariant
	err = database.MongoCatalogDB.Collection("product_variants").
		FindOne(ctx, bson.M{"_id": variantID}).Decode(&variant)
	if err != nil || !variant.IsActive() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Variante introuvable ou inactive"})
		return
	}

	cart, err := findCart(ctx, userID)
	if err == mongo.ErrNoDocuments {
		cart = models.Cart{
			UserID:    userID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		res, err := cartCollection().InsertOne(ctx, cart)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur création panier"})
			return
		}
		cart.ID = res.InsertedID.(primitive.ObjectID)
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	// Fusionne avec la ligne existante de la même variante
	res, err := cartItemCollection().UpdateOne(ctx,
		bson.M{"cart_id": cart.ID, "variant_id": variantID},
		bson.M{"$inc": bson.M{"quantity": input.Quantity}, "$set": bson.M{"updated_at": time.Now()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur mise à jour panier"})
		return
	}
	if res.MatchedCount == 0 {
		item := models.CartItem{
			CartID:          cart.ID,
			VariantID:       variantID,
			Quantity:        input.Quantity,
			PriceAtAddition: variant.Price,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		}
		if _, err := cartItemCollection().InsertOne(ctx, item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur ajout article"})
			return
		}
	}

	total, err := refreshCartTotal(ctx, cart.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur calcul total"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "cart_id": cart.ID.Hex(), "cart_total_amount": total})
}

// GetCart renvoie le panier avec ses lignes et, le cas échéant, la
// réduction du coupon appliqué.
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := findCart(ctx, userID)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusOK, gin.H{"success": true, "items": []models.CartItem{}, "cart_total_amount": 0})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	items, err := findCartItems(ctx, cart.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lecture panier"})
		return
	}

	resp := gin.H{
		"success":           true,
		"cart_id":           cart.ID.Hex(),
		"items":             items,
		"cart_total_amount": cart.CartTotalAmount,
	}

	if cart.AppliedCouponCode != nil {
		var coupon models.Coupon
		if err := couponCollection().FindOne(ctx, bson.M{"code": *cart.AppliedCouponCode}).Decode(&coupon); err == nil {
			validation := coupon.Validate(cart.CartTotalAmount, 0, time.Now())
			if validation.IsValid {
				resp["applied_coupon_code"] = coupon.Code
				resp["discount_amount"] = validation.Discount
				resp["total_after_discount"] = cart.CartTotalAmount - validation.Discount
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateCartItem fixe la quantité d'une ligne (0 n'est pas admis).
func UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")

	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID article invalide"})
		return
	}

	var input struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": models.ErrInvalidQuantity.Message})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := findCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": models.ErrCartNotFound.Message})
		return
	}

	res, err := cartItemCollection().UpdateOne(ctx,
		bson.M{"_id": itemID, "cart_id": cart.ID},
		bson.M{"$set": bson.M{"quantity": input.Quantity, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Article introuvable dans le panier"})
		return
	}

	total, _ := refreshCartTotal(ctx, cart.ID)

	c.JSON(http.StatusOK, gin.H{"success": true, "cart_total_amount": total})
}

// RemoveItemFromCart supprime une ligne du panier
func RemoveItemFromCart(c *gin.Context) {
	userID := c.GetString("user_id")

	itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID article invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := findCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": models.ErrCartNotFound.Message})
		return
	}

	res, err := cartItemCollection().DeleteOne(ctx, bson.M{"_id": itemID, "cart_id": cart.ID})
	if err != nil || res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Article introuvable dans le panier"})
		return
	}

	total, _ := refreshCartTotal(ctx, cart.ID)

	c.JSON(http.StatusOK, gin.H{"success": true, "cart_total_amount": total})
}

// ClearCart vide le panier. 404 si l'utilisateur n'a pas de panier.
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := findCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": models.ErrCartNotFound.Message})
		return
	}

	if _, err := cartItemCollection().DeleteMany(ctx, bson.M{"cart_id": cart.ID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur vidage panier"})
		return
	}

	cartCollection().UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{
		"cart_total_amount":   0,
		"applied_coupon_code": nil,
		"updated_at":          time.Now(),
	}})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Panier vidé"})
}

// ApplyCoupon valide et accroche un coupon au panier.
func ApplyCoupon(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le champ 'code' est obligatoire"})
		return
	}
	code := strings.ToUpper(strings.TrimSpace(input.Code))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := findCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": models.ErrCartNotFound.Message})
		return
	}

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

	validation := coupon.Validate(cart.CartTotalAmount, int(userUses), time.Now())
	if !validation.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validation.ErrorMessage})
		return
	}

	cartCollection().UpdateOne(ctx, bson.M{"_id": cart.ID},
		bson.M{"$set": bson.M{"applied_coupon_code": code, "updated_at": time.Now()}})

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"code":                 validation.Code,
		"discount_amount":      validation.Discount,
		"total_after_discount": cart.CartTotalAmount - validation.Discount,
	})
}

// RemoveCoupon décroche le coupon du panier
func RemoveCoupon(c *gin.Context) {
	userID := c.GetString("user_id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := findCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": models.ErrCartNotFound.Message})
		return
	}

	cartCollection().UpdateOne(ctx, bson.M{"_id": cart.ID},
		bson.M{"$unset": bson.M{"applied_coupon_code": ""}, "$set": bson.M{"updated_at": time.Now()}})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Coupon retiré"})
}
