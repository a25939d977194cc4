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

func brandCollection() *mongo.Collection {
	return database.MongoCatalogDB.Collection("brands")
}

// CreateBrand crée une marque
func CreateBrand(c *gin.Context) {
	var input struct {
		Name    string `json:"name" binding:"required"`
		Slug    string `json:"slug" binding:"required"`
		LogoURL string `json:"logo_url"`
		Website string `json:"website"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Les champs 'name' et 'slug' sont obligatoires"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := brandCollection().CountDocuments(ctx, bson.M{"slug": input.Slug})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Une marque avec ce slug existe déjà", "field": "slug"})
		return
	}

	brand := models.Brand{
		Name:      input.Name,
		Slug:      input.Slug,
		LogoURL:   input.LogoURL,
		Website:   input.Website,
		Status:    models.StatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	res, err := brandCollection().InsertOne(ctx, brand)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de la création de la marque"})
		return
	}
	brand.ID = res.InsertedID.(primitive.ObjectID)

	utils.LogAdminActivity(c, utils.ActionBrandCreate, utils.ResourceBrand, brand.ID.Hex(), nil, brand)

	c.JSON(http.StatusCreated, gin.H{"success": true, "brand": brand})
}

// GetAllBrands liste les marques actives
func GetAllBrands(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := brandCollection().Find(ctx, bson.M{"status": models.StatusActive})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var brands []models.Brand
	if err := cursor.All(ctx, &brands); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage marques"})
		return
	}

	c.JSON(http.StatusOK, brands)
}

// UpdateBrand met à jour les champs fournis
func UpdateBrand(c *gin.Context) {
	brandID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID marque invalide"})
		return
	}

	var input struct {
		Name    *string `json:"name"`
		LogoURL *string `json:"logo_url"`
		Website *string `json:"website"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.LogoURL != nil {
		update["logo_url"] = *input.LogoURL
	}
	if input.Website != nil {
		update["website"] = *input.Website
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := brandCollection().UpdateOne(ctx, bson.M{"_id": brandID}, bson.M{"$set": update})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Marque introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Marque mise à jour avec succès"})
}

// DeleteBrand archive une marque (soft delete par défaut)
func DeleteBrand(c *gin.Context) {
	brandID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID marque invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if c.Query("hard") == "true" {
		res, err := brandCollection().DeleteOne(ctx, bson.M{"_id": brandID})
		if err != nil || res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Marque introuvable"})
			return
		}
	} else {
		res, err := brandCollection().UpdateOne(ctx, bson.M{"_id": brandID},
			bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}})
		if err != nil || res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Marque introuvable"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Marque supprimée avec succès"})
}
