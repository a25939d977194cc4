package order

import (
	"context"
	"net/http"
	"time"

	"zyvo_back_end/internal/models"
	"zyvo_back_end/internal/packunit"
	"zyvo_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetMyOrders liste les commandes de l'utilisateur connecté, les plus
// récentes d'abord.
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := orderCollection().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders, "count": len(orders)})
}

// GetOrderByID renvoie une commande avec ses lignes. 403 si elle
// n'appartient pas à l'utilisateur (sauf admin).
func GetOrderByID(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID commande invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var o models.Order
	if err := orderCollection().FindOne(ctx, bson.M{"_id": orderID}).Decode(&o); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": models.ErrOrderNotFound.Message})
		return
	}

	if o.UserID != c.GetString("user_id") && c.GetString("role") != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": models.ErrNotOrderOwner.Message})
		return
	}

	cursor, err := orderItemCollection().Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage lignes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": o, "items": items})
}

// CancelOrder annule une commande tant qu'elle n'est pas expédiée.
// Le stock décrémenté au checkout est restitué, sans toucher à la date
// de réassort.
func CancelOrder(c *gin.Context) {
	userID := c.GetString("user_id")

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID commande invalide"})
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
	if !o.IsCancellable() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": models.ErrNotCancellable.Message})
		return
	}

	if err := applyStatus(ctx, &o, models.OrderStatusCancelled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur annulation commande"})
		return
	}

	restockOrderItems(ctx, orderID)

	utils.LogUserActivity(c, utils.ActionOrderCancel, utils.ResourceOrder, orderID.Hex(), nil, gin.H{"status": o.Status})
	PublishOrderEvent(o.UserID, o.OrderNumber, o.Status)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Commande annulée", "status": o.Status})
}

// UpdateOrderStatus (admin) fait avancer une commande dans la machine à
// états. Toute transition hors du graphe est refusée.
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID commande invalide"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le champ 'status' est obligatoire"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var o models.Order
	if err := orderCollection().FindOne(ctx, bson.M{"_id": orderID}).Decode(&o); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": models.ErrOrderNotFound.Message})
		return
	}

	if !o.CanTransitionTo(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Transition de statut invalide: " + o.Status + " → " + input.Status,
		})
		return
	}

	before := o.Status
	if err := applyStatus(ctx, &o, input.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur mise à jour statut"})
		return
	}

	// Une annulation par l'admin restitue aussi le stock
	if input.Status == models.OrderStatusCancelled {
		restockOrderItems(ctx, orderID)
	}

	utils.LogAdminActivity(c, utils.ActionOrderUpdate, utils.ResourceOrder, orderID.Hex(),
		gin.H{"status": before}, gin.H{"status": o.Status})
	PublishOrderEvent(o.UserID, o.OrderNumber, o.Status)

	c.JSON(http.StatusOK, gin.H{"success": true, "status": o.Status})
}

// GetAllOrders (admin) liste toutes les commandes, filtrables par statut
func GetAllOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(200)
	cursor, err := orderCollection().Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders, "count": len(orders)})
}

func applyStatus(ctx context.Context, o *models.Order, next string) error {
	_, err := orderCollection().UpdateOne(ctx, bson.M{"_id": o.ID},
		bson.M{"$set": bson.M{"status": next, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	o.Status = next
	return nil
}

// restockOrderItems restitue les unités de base décrémentées au checkout.
// Best-effort: une ligne au stock archivé est ignorée.
func restockOrderItems(ctx context.Context, orderID primitive.ObjectID) {
	cursor, err := orderItemCollection().Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return
	}
	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return
	}

	for _, item := range items {
		var variant models.ProductVariant
		multiplier := 1
		if err := variantCollection().FindOne(ctx, bson.M{"_id": item.VariantID}).Decode(&variant); err == nil {
			multiplier = packunit.Analyze(variant.OptionValues).Multiplier
		}
		inventoryCollection().UpdateOne(ctx,
			bson.M{"variant_id": item.VariantID},
			bson.M{"$inc": bson.M{"stock_quantity": item.Quantity * multiplier},
				"$set": bson.M{"updated_at": time.Now()}})
	}
}
