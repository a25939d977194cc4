package product

import (
	"context"
	"errors"
	"net/http"
	"time"

	"zyvo_back_end/internal/database"
	"zyvo_back_end/internal/models"
	"zyvo_back_end/internal/packunit"
	"zyvo_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func inventoryCollection() *mongo.Collection {
	return database.MongoCatalogDB.Collection("inventories")
}

// inventoryView enrichit une ligne de stock des champs dérivés que le
// front consomme tels quels.
type inventoryView struct {
	models.Inventory
	StockStatus      string `json:"stock_status"`
	IsLowStock       bool   `json:"is_low_stock"`
	IsOutOfStock     bool   `json:"is_out_of_stock"`
	DaysSinceRestock *int   `json:"days_since_restock"`
	DaysSinceSale    *int   `json:"days_since_sale"`
	ComputedStock    int    `json:"computed_stock"`
}

func buildInventoryView(inv models.Inventory, pack packunit.PackInfo) inventoryView {
	return inventoryView{
		Inventory:        inv,
		StockStatus:      inv.StockStatus(),
		IsLowStock:       inv.IsLowStock(),
		IsOutOfStock:     inv.IsOutOfStock(),
		DaysSinceRestock: inv.DaysSinceRestock(),
		DaysSinceSale:    inv.DaysSinceSale(),
		ComputedStock:    packunit.ComputedStock(inv.StockQuantity, pack.Multiplier),
	}
}

func findInventoryByVariant(ctx context.Context, variantID primitive.ObjectID) (models.Inventory, models.ProductVariant, error) {
	var inv models.Inventory
	if err := inventoryCollection().FindOne(ctx, bson.M{"variant_id": variantID}).Decode(&inv); err != nil {
		return inv, models.ProductVariant{}, err
	}
	var variant models.ProductVariant
	if err := variantCollection().FindOne(ctx, bson.M{"_id": variantID}).Decode(&variant); err != nil {
		return inv, variant, err
	}
	return inv, variant, nil
}

// GetInventoryByVariant retourne la ligne de stock d'une variante avec
// les champs dérivés (statut, stock en unités de base...).
func GetInventoryByVariant(c *gin.Context) {
	variantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID variante invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	inv, variant, err := findInventoryByVariant(ctx, variantID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Stock introuvable pour cette variante"})
		return
	}

	c.JSON(http.StatusOK, buildInventoryView(inv, packunit.Analyze(variant.OptionValues)))
}

// GetLowStockInventories liste les lignes actives en stock faible ou épuisé
func GetLowStockInventories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := inventoryCollection().Find(ctx, bson.M{
		"status": models.StatusActive,
		"$expr":  bson.M{"$lte": []interface{}{"$stock_quantity", "$min_stock_level"}},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var inventories []models.Inventory
	if err := cursor.All(ctx, &inventories); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage stock"})
		return
	}

	views := make([]inventoryView, 0, len(inventories))
	for _, inv := range inventories {
		var variant models.ProductVariant
		pack := packunit.PackInfo{IsBaseUnit: true, Multiplier: 1}
		if err := variantCollection().FindOne(ctx, bson.M{"_id": inv.VariantID}).Decode(&variant); err == nil {
			pack = packunit.Analyze(variant.OptionValues)
		}
		views = append(views, buildInventoryView(inv, pack))
	}

	c.JSON(http.StatusOK, views)
}

type stockInput struct {
	Quantity int   `json:"quantity" binding:"required"`
	Restock  *bool `json:"restock"`
}

// AddStock incrémente le stock d'une variante.
// Par défaut la date de réassort est mise à jour; restock=false pour les
// retours clients.
func AddStock(c *gin.Context) {
	mutateStock(c, utils.ActionStockAdd, func(inv *models.Inventory, input stockInput) error {
		updateRestock := input.Restock == nil || *input.Restock
		return inv.AddStock(input.Quantity, updateRestock)
	})
}

// RemoveStock décrémente le stock d'une variante
func RemoveStock(c *gin.Context) {
	mutateStock(c, utils.ActionStockRemove, func(inv *models.Inventory, input stockInput) error {
		return inv.RemoveStock(input.Quantity)
	})
}

// SetStock fixe le niveau absolu du stock
func SetStock(c *gin.Context) {
	mutateStock(c, utils.ActionStockSet, func(inv *models.Inventory, input stockInput) error {
		return inv.SetStock(input.Quantity)
	})
}

func mutateStock(c *gin.Context, action string, apply func(*models.Inventory, stockInput) error) {
	variantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID variante invalide"})
		return
	}

	var input stockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le champ 'quantity' est obligatoire"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	inv, variant, err := findInventoryByVariant(ctx, variantID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Stock introuvable pour cette variante"})
		return
	}

	before := inv.StockQuantity
	if err := apply(&inv, input); err != nil {
		var derr *models.DomainError
		msg := "Quantité invalide"
		if errors.As(err, &derr) {
			msg = derr.Message
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
		return
	}
	inv.UpdatedAt = time.Now()

	if _, err := inventoryCollection().UpdateOne(ctx, bson.M{"_id": inv.ID}, bson.M{"$set": bson.M{
		"stock_quantity":    inv.StockQuantity,
		"last_restock_date": inv.LastRestockDate,
		"last_sold_date":    inv.LastSoldDate,
		"updated_at":        inv.UpdatedAt,
	}}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de la mise à jour du stock"})
		return
	}

	utils.LogAdminActivity(c, action, utils.ResourceInventory, inv.ID.Hex(),
		gin.H{"stock_quantity": before}, gin.H{"stock_quantity": inv.StockQuantity})

	c.JSON(http.StatusOK, buildInventoryView(inv, packunit.Analyze(variant.OptionValues)))
}

// DeactivateInventory archive une ligne de stock sans la détruire
func DeactivateInventory(c *gin.Context) {
	setInventoryStatus(c, models.StatusArchived, "Stock désactivé avec succès")
}

// ActivateInventory réactive une ligne de stock archivée
func ActivateInventory(c *gin.Context) {
	setInventoryStatus(c, models.StatusActive, "Stock réactivé avec succès")
}

func setInventoryStatus(c *gin.Context, status, okMsg string) {
	variantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID variante invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := inventoryCollection().UpdateOne(ctx, bson.M{"variant_id": variantID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Stock introuvable pour cette variante"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": okMsg})
}
