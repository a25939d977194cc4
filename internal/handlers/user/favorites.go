package user

import (
	"context"
	"net/http"
	"time"

	"zyvo_back_end/internal/database"
	"zyvo_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func favoriteCollection() *mongo.Collection {
	return database.MongoUsersDB.Collection("favorites")
}

// AddFavorite ajoute une variante aux favoris (idempotent).
func AddFavorite(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		VariantID string `json:"variant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le champ 'variant_id' est obligatoire"})
		return
	}

	variantID, err := primitive.ObjectIDFromHex(input.VariantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID variante invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var variant models.ProductVariant
	err = database.MongoCatalogDB.Collection("product_variants").
		FindOne(ctx, bson.M{"_id": variantID}).Decode(&variant)
	if err != nil || !variant.IsActive() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Variante introuvable ou inactive"})
		return
	}

	count, err := favoriteCollection().CountDocuments(ctx, bson.M{"user_id": userID, "variant_id": variantID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Déjà dans les favoris"})
		return
	}

	fav := models.Favorite{
		UserID:    userID,
		VariantID: variantID,
		CreatedAt: time.Now(),
	}
	if _, err := favoriteCollection().InsertOne(ctx, fav); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur ajout favori"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Ajouté aux favoris"})
}

// GetFavorites liste les favoris de l'utilisateur
func GetFavorites(c *gin.Context) {
	userID := c.GetString("user_id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := favoriteCollection().Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var favorites []models.Favorite
	if err := cursor.All(ctx, &favorites); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage favoris"})
		return
	}

	c.JSON(http.StatusOK, favorites)
}

// RemoveFavorite retire une variante des favoris
func RemoveFavorite(c *gin.Context) {
	userID := c.GetString("user_id")

	variantID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID variante invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := favoriteCollection().DeleteOne(ctx, bson.M{"user_id": userID, "variant_id": variantID})
	if err != nil || res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Favori introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Retiré des favoris"})
}
