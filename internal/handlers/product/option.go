package product

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

func optionCollection() *mongo.Collection {
	return database.MongoCatalogDB.Collection("options")
}

// CreateOption déclare un type d'option du catalogue ("color", "pack"...)
func CreateOption(c *gin.Context) {
	var input struct {
		Name   string   `json:"name" binding:"required"`
		Values []string `json:"values"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le champ 'name' est obligatoire"})
		return
	}

	name := strings.ToLower(strings.TrimSpace(input.Name))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := optionCollection().CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Une option avec ce nom existe déjà", "field": "name"})
		return
	}

	opt := models.Option{
		Name:      name,
		Values:    input.Values,
		Status:    models.StatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	res, err := optionCollection().InsertOne(ctx, opt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de la création de l'option"})
		return
	}
	opt.ID = res.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "option": opt})
}

// GetAllOptions liste les options actives
func GetAllOptions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := optionCollection().Find(ctx, bson.M{"status": models.StatusActive})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var opts []models.Option
	if err := cursor.All(ctx, &opts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage options"})
		return
	}

	c.JSON(http.StatusOK, opts)
}

// UpdateOption remplace les valeurs admises d'une option
func UpdateOption(c *gin.Context) {
	optID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID option invalide"})
		return
	}

	var input struct {
		Values []string `json:"values" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le champ 'values' est obligatoire"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := optionCollection().UpdateOne(ctx, bson.M{"_id": optID},
		bson.M{"$set": bson.M{"values": input.Values, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Option introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Option mise à jour avec succès"})
}

// DeleteOption archive une option
func DeleteOption(c *gin.Context) {
	optID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID option invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := optionCollection().UpdateOne(ctx, bson.M{"_id": optID},
		bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Option introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Option supprimée avec succès"})
}
