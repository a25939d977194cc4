package product

import (
	"context"
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

func variantCollection() *mongo.Collection {
	return database.MongoCatalogDB.Collection("product_variants")
}

// variantView expose une variante avec son conditionnement dérivé.
type variantView struct {
	models.ProductVariant
	PackInfo packunit.PackInfo `json:"pack_info"`
}

func variantsWithPackInfo(variants []models.ProductVariant) []variantView {
	views := make([]variantView, 0, len(variants))
	for _, v := range variants {
		views = append(views, variantView{ProductVariant: v, PackInfo: packunit.Analyze(v.OptionValues)})
	}
	return views
}

// 🟢 Créer une variante
func CreateVariant(c *gin.Context) {
	var input struct {
		ProductID    string               `json:"product_id" binding:"required"`
		SKUCode      string               `json:"sku_code" binding:"required"`
		Price        float64              `json:"price" binding:"required"`
		OptionValues []models.OptionValue `json:"option_values"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Les champs 'product_id', 'sku_code' et 'price' sont obligatoires"})
		return
	}
	if input.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le prix doit être positif"})
		return
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Le produit parent doit exister et être actif
	var p models.Product
	if err := productCollection().FindOne(ctx, bson.M{"_id": productID}).Decode(&p); err != nil || !p.IsActive() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Produit introuvable ou inactif"})
		return
	}

	// SKU unique parmi les variantes actives
	count, err := variantCollection().CountDocuments(ctx, bson.M{"sku_code": input.SKUCode, "status": models.StatusActive})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Une variante avec ce SKU existe déjà", "field": "sku_code"})
		return
	}

	variant := models.ProductVariant{
		ProductID:    productID,
		SKUCode:      input.SKUCode,
		Price:        input.Price,
		OptionValues: input.OptionValues,
		Status:       models.StatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	res, err := variantCollection().InsertOne(ctx, variant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de la création de la variante"})
		return
	}
	variant.ID = res.InsertedID.(primitive.ObjectID)

	// Ligne de stock initiale à zéro
	inv := models.Inventory{
		VariantID:     variant.ID,
		StockQuantity: 0,
		MinStockLevel: 5,
		Status:        models.StatusActive,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if _, err := inventoryCollection().InsertOne(ctx, inv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de la création du stock initial"})
		return
	}

	// Le produit porte désormais des variantes
	productCollection().UpdateOne(ctx, bson.M{"_id": productID},
		bson.M{"$set": bson.M{"has_variants": true, "updated_at": time.Now()}})

	utils.LogAdminActivity(c, utils.ActionVariantCreate, utils.ResourceVariant, variant.ID.Hex(), nil, variant)

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"variant":   variant,
		"pack_info": packunit.Analyze(variant.OptionValues),
	})
}

// GetVariantsByProduct liste les variantes actives d'un produit
func GetVariantsByProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := variantCollection().Find(ctx, bson.M{"product_id": productID, "status": models.StatusActive})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var variants []models.ProductVariant
	if err := cursor.All(ctx, &variants); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage variantes"})
		return
	}

	c.JSON(http.StatusOK, variantsWithPackInfo(variants))
}

// GetVariantByID récupère une variante avec son conditionnement
func GetVariantByID(c *gin.Context) {
	variantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID variante invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var variant models.ProductVariant
	if err := variantCollection().FindOne(ctx, bson.M{"_id": variantID}).Decode(&variant); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Variante introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"variant":   variant,
		"pack_info": packunit.Analyze(variant.OptionValues),
	})
}

// UpdateVariant met à jour prix et option_values
func UpdateVariant(c *gin.Context) {
	variantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID variante invalide"})
		return
	}

	var input struct {
		Price        *float64              `json:"price"`
		OptionValues *[]models.OptionValue `json:"option_values"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if input.Price != nil {
		if *input.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le prix doit être positif"})
			return
		}
		update["price"] = *input.Price
	}
	if input.OptionValues != nil {
		update["option_values"] = *input.OptionValues
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var before models.ProductVariant
	if err := variantCollection().FindOneAndUpdate(ctx, bson.M{"_id": variantID}, bson.M{"$set": update}).Decode(&before); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Variante introuvable"})
		return
	}

	utils.LogAdminActivity(c, utils.ActionVariantUpdate, utils.ResourceVariant, variantID.Hex(), before, update)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Variante mise à jour avec succès"})
}

// DeleteVariant archive une variante et sa ligne de stock
func DeleteVariant(c *gin.Context) {
	variantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID variante invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := variantCollection().UpdateOne(ctx, bson.M{"_id": variantID},
		bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Variante introuvable"})
		return
	}

	inventoryCollection().UpdateOne(ctx, bson.M{"variant_id": variantID},
		bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}})

	utils.LogAdminActivity(c, utils.ActionVariantDelete, utils.ResourceVariant, variantID.Hex(), nil, nil)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Variante supprimée avec succès"})
}
