package product

import (
	"context"
	"encoding/json"
	"log"
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

func categoryCollection() *mongo.Collection {
	return database.MongoCatalogDB.Collection("categories")
}

// 🟢 Créer une catégorie
func CreateCategory(c *gin.Context) {
	var input struct {
		Name             string  `json:"name" binding:"required"`
		Slug             string  `json:"slug" binding:"required"`
		Description      string  `json:"description"`
		ImageURL         string  `json:"image_url"`
		ParentCategoryID *string `json:"parent_category_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Les champs 'name' et 'slug' sont obligatoires"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Slug unique
	count, err := categoryCollection().CountDocuments(ctx, bson.M{"slug": input.Slug})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Une catégorie avec ce slug existe déjà", "field": "slug"})
		return
	}

	cat := models.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Status:      models.StatusActive,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	// La catégorie parente doit exister et être active
	if input.ParentCategoryID != nil && *input.ParentCategoryID != "" {
		parentID, err := primitive.ObjectIDFromHex(*input.ParentCategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID catégorie parente invalide"})
			return
		}

		var parent models.Category
		err = categoryCollection().FindOne(ctx, bson.M{"_id": parentID}).Decode(&parent)
		if err != nil || !parent.IsActive() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cannot create subcategory under inactive parent category"})
			return
		}
		cat.ParentCategoryID = &parentID
	}

	res, err := categoryCollection().InsertOne(ctx, cat)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Une catégorie avec ce slug existe déjà", "field": "slug"})
			return
		}
		log.Printf("❌ Erreur création catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de la création de la catégorie"})
		return
	}
	cat.ID = res.InsertedID.(primitive.ObjectID)

	invalidateCategoryCache()
	utils.LogAdminActivity(c, utils.ActionCategoryCreate, utils.ResourceCategory, cat.ID.Hex(), nil, cat)

	c.JSON(http.StatusCreated, gin.H{"success": true, "category": cat})
}

// 🔵 Lister les catégories actives
func GetAllCategories(c *gin.Context) {
	ctx := context.Background()
	cacheKey := "categories:all"

	// Cache Redis
	if val, err := database.RedisClient.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []models.Category
		if json.Unmarshal([]byte(val), &cached) == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	cursor, err := categoryCollection().Find(ctx, bson.M{"status": models.StatusActive})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var cats []models.Category
	if err := cursor.All(ctx, &cats); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage catégories"})
		return
	}

	if data, err := json.Marshal(cats); err == nil {
		database.RedisClient.Set(ctx, cacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, cats)
}

// GetCategoryByID récupère une catégorie
func GetCategoryByID(c *gin.Context) {
	catID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID catégorie invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var cat models.Category
	if err := categoryCollection().FindOne(ctx, bson.M{"_id": catID}).Decode(&cat); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Catégorie introuvable"})
		return
	}

	c.JSON(http.StatusOK, cat)
}

// UpdateCategory met à jour les champs fournis
func UpdateCategory(c *gin.Context) {
	catID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID catégorie invalide"})
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		ImageURL    *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.Description != nil {
		update["description"] = *input.Description
	}
	if input.ImageURL != nil {
		update["image_url"] = *input.ImageURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var before models.Category
	if err := categoryCollection().FindOneAndUpdate(ctx, bson.M{"_id": catID}, bson.M{"$set": update}).Decode(&before); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Catégorie introuvable"})
		return
	}

	invalidateCategoryCache()
	utils.LogAdminActivity(c, utils.ActionCategoryUpdate, utils.ResourceCategory, catID.Hex(), before, update)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Catégorie mise à jour avec succès"})
}

// DeleteCategory archive une catégorie (soft delete). ?hard=true pour une
// suppression définitive, réservée aux admins.
func DeleteCategory(c *gin.Context) {
	catID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID catégorie invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if c.Query("hard") == "true" {
		res, err := categoryCollection().DeleteOne(ctx, bson.M{"_id": catID})
		if err != nil || res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Catégorie introuvable"})
			return
		}
	} else {
		res, err := categoryCollection().UpdateOne(ctx, bson.M{"_id": catID},
			bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}})
		if err != nil || res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Catégorie introuvable"})
			return
		}
	}

	invalidateCategoryCache()
	utils.LogAdminActivity(c, utils.ActionCategoryDelete, utils.ResourceCategory, catID.Hex(), nil, nil)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Catégorie supprimée avec succès"})
}

func invalidateCategoryCache() {
	database.RedisClient.Del(context.Background(), "categories:all")
}
