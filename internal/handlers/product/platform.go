package product

import (
	"context"
	"net/http"
	"time"

	"zyvo_back_end/internal/database"
	"zyvo_back_end/internal/models"
	"zyvo_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func platformCollection() *mongo.Collection {
	return database.MongoCatalogDB.Collection("platforms")
}

func listingCollection() *mongo.Collection {
	return database.MongoCatalogDB.Collection("platform_listings")
}

// CreatePlatform déclare un canal de vente externe
func CreatePlatform(c *gin.Context) {
	var input struct {
		Name    string `json:"name" binding:"required"`
		Slug    string `json:"slug" binding:"required"`
		BaseURL string `json:"base_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Les champs 'name' et 'slug' sont obligatoires"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := platformCollection().CountDocuments(ctx, bson.M{"slug": input.Slug})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Une plateforme avec ce slug existe déjà", "field": "slug"})
		return
	}

	platform := models.Platform{
		Name:      input.Name,
		Slug:      input.Slug,
		BaseURL:   input.BaseURL,
		Status:    models.StatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	res, err := platformCollection().InsertOne(ctx, platform)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de la création de la plateforme"})
		return
	}
	platform.ID = res.InsertedID.(primitive.ObjectID)

	utils.LogAdminActivity(c, utils.ActionPlatformCreate, utils.ResourcePlatform, platform.ID.Hex(), nil, platform)

	c.JSON(http.StatusCreated, gin.H{"success": true, "platform": platform})
}

// GetAllPlatforms liste les plateformes actives
func GetAllPlatforms(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := platformCollection().Find(ctx, bson.M{"status": models.StatusActive})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var platforms []models.Platform
	if err := cursor.All(ctx, &platforms); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage plateformes"})
		return
	}

	c.JSON(http.StatusOK, platforms)
}

// UpdatePlatform met à jour les champs fournis
func UpdatePlatform(c *gin.Context) {
	platformID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID plateforme invalide"})
		return
	}

	var input struct {
		Name    *string `json:"name"`
		BaseURL *string `json:"base_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.BaseURL != nil {
		update["base_url"] = *input.BaseURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := platformCollection().UpdateOne(ctx, bson.M{"_id": platformID}, bson.M{"$set": update})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Plateforme introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Plateforme mise à jour avec succès"})
}

// DeletePlatform archive une plateforme
func DeletePlatform(c *gin.Context) {
	platformID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID plateforme invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := platformCollection().UpdateOne(ctx, bson.M{"_id": platformID},
		bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Plateforme introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Plateforme supprimée avec succès"})
}

// CreateListing référence une variante sur une plateforme avec son prix canal
func CreateListing(c *gin.Context) {
	var input struct {
		PlatformID    string  `json:"platform_id" binding:"required"`
		VariantID     string  `json:"variant_id" binding:"required"`
		PlatformSKU   string  `json:"platform_sku"`
		PlatformPrice float64 `json:"platform_price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Champs 'platform_id', 'variant_id' et 'platform_price' obligatoires"})
		return
	}

	platformID, err := primitive.ObjectIDFromHex(input.PlatformID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID plateforme invalide"})
		return
	}
	variantID, err := primitive.ObjectIDFromHex(input.VariantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID variante invalide"})
		return
	}
	if input.PlatformPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le prix plateforme doit être positif"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// La plateforme et la variante doivent exister et être actives
	var platform models.Platform
	if err := platformCollection().FindOne(ctx, bson.M{"_id": platformID}).Decode(&platform); err != nil || !platform.IsActive() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Plateforme introuvable ou inactive"})
		return
	}
	var variant models.ProductVariant
	if err := variantCollection().FindOne(ctx, bson.M{"_id": variantID}).Decode(&variant); err != nil || !variant.IsActive() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Variante introuvable ou inactive"})
		return
	}

	// Une seule annonce active par couple (plateforme, variante)
	count, err := listingCollection().CountDocuments(ctx, bson.M{
		"platform_id": platformID,
		"variant_id":  variantID,
		"status":      models.StatusActive,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cette variante est déjà référencée sur cette plateforme"})
		return
	}

	listing := models.PlatformListing{
		PlatformID:    platformID,
		VariantID:     variantID,
		PlatformSKU:   input.PlatformSKU,
		PlatformPrice: input.PlatformPrice,
		Status:        models.StatusActive,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	res, err := listingCollection().InsertOne(ctx, listing)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de la création de l'annonce"})
		return
	}
	listing.ID = res.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "listing": listing})
}

// GetListingsByPlatform liste les annonces actives d'une plateforme
func GetListingsByPlatform(c *gin.Context) {
	platformID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID plateforme invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := listingCollection().Find(ctx, bson.M{"platform_id": platformID, "status": models.StatusActive})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var listings []models.PlatformListing
	if err := cursor.All(ctx, &listings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage annonces"})
		return
	}

	c.JSON(http.StatusOK, listings)
}

// UpdateListing ajuste le prix ou le SKU canal
func UpdateListing(c *gin.Context) {
	listingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID annonce invalide"})
		return
	}

	var input struct {
		PlatformSKU   *string  `json:"platform_sku"`
		PlatformPrice *float64 `json:"platform_price"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if input.PlatformSKU != nil {
		update["platform_sku"] = *input.PlatformSKU
	}
	if input.PlatformPrice != nil {
		if *input.PlatformPrice <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le prix plateforme doit être positif"})
			return
		}
		update["platform_price"] = *input.PlatformPrice
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := listingCollection().UpdateOne(ctx, bson.M{"_id": listingID}, bson.M{"$set": update})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Annonce introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Annonce mise à jour avec succès"})
}

// DeleteListing retire une variante d'une plateforme
func DeleteListing(c *gin.Context) {
	listingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID annonce invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := listingCollection().UpdateOne(ctx, bson.M{"_id": listingID},
		bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Annonce introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Annonce supprimée avec succès"})
}
