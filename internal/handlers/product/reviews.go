package product

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

func reviewCollection() *mongo.Collection {
	return database.MongoCatalogDB.Collection("reviews")
}

// CreateReview dépose un avis sur un produit (un seul avis actif par
// utilisateur et par produit).
func CreateReview(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProductID string `json:"product_id" binding:"required"`
		Rating    int    `json:"rating" binding:"required"`
		Title     string `json:"title"`
		Comment   string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Les champs 'product_id' et 'rating' sont obligatoires"})
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "La note doit être comprise entre 1 et 5"})
		return
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var p models.Product
	if err := productCollection().FindOne(ctx, bson.M{"_id": productID}).Decode(&p); err != nil || !p.IsActive() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Produit introuvable ou inactif"})
		return
	}

	count, err := reviewCollection().CountDocuments(ctx, bson.M{
		"product_id": productID,
		"user_id":    userID,
		"status":     models.StatusActive,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Vous avez déjà laissé un avis sur ce produit"})
		return
	}

	review := models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Title:     input.Title,
		Comment:   input.Comment,
		Status:    models.StatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	res, err := reviewCollection().InsertOne(ctx, review)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de la création de l'avis"})
		return
	}
	review.ID = res.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}

// GetReviewsByProduct liste les avis actifs d'un produit avec la note moyenne
func GetReviewsByProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := reviewCollection().Find(ctx, bson.M{"product_id": productID, "status": models.StatusActive})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage avis"})
		return
	}

	var avg float64
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		avg = float64(sum) / float64(len(reviews))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"reviews":        reviews,
		"average_rating": avg,
		"review_count":   len(reviews),
	})
}

// UpdateReview modifie l'avis de l'utilisateur connecté
func UpdateReview(c *gin.Context) {
	userID := c.GetString("user_id")

	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID avis invalide"})
		return
	}

	var input struct {
		Rating  *int    `json:"rating"`
		Title   *string `json:"title"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "La note doit être comprise entre 1 et 5"})
			return
		}
		update["rating"] = *input.Rating
	}
	if input.Title != nil {
		update["title"] = *input.Title
	}
	if input.Comment != nil {
		update["comment"] = *input.Comment
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := reviewCollection().UpdateOne(ctx, bson.M{"_id": reviewID, "user_id": userID}, bson.M{"$set": update})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Avis introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Avis mis à jour avec succès"})
}

// DeleteReview archive l'avis de l'utilisateur connecté (ou n'importe quel
// avis pour un admin).
func DeleteReview(c *gin.Context) {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID avis invalide"})
		return
	}

	filter := bson.M{"_id": reviewID}
	if c.GetString("role") != "admin" {
		filter["user_id"] = c.GetString("user_id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := reviewCollection().UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Avis introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Avis supprimé avec succès"})
}
