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

func supplierCollection() *mongo.Collection {
	return database.MongoCatalogDB.Collection("suppliers")
}

// CreateSupplier crée un fournisseur
func CreateSupplier(c *gin.Context) {
	var input struct {
		Name         string `json:"name" binding:"required"`
		ContactEmail string `json:"contact_email"`
		Phone        string `json:"phone"`
		Address      string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le champ 'name' est obligatoire"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := supplierCollection().CountDocuments(ctx, bson.M{"name": input.Name, "status": models.StatusActive})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Un fournisseur avec ce nom existe déjà", "field": "name"})
		return
	}

	supplier := models.Supplier{
		Name:         input.Name,
		ContactEmail: input.ContactEmail,
		Phone:        input.Phone,
		Address:      input.Address,
		Status:       models.StatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	res, err := supplierCollection().InsertOne(ctx, supplier)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de la création du fournisseur"})
		return
	}
	supplier.ID = res.InsertedID.(primitive.ObjectID)

	utils.LogAdminActivity(c, utils.ActionSupplierCreate, utils.ResourceSupplier, supplier.ID.Hex(), nil, supplier)

	c.JSON(http.StatusCreated, gin.H{"success": true, "supplier": supplier})
}

// GetAllSuppliers liste les fournisseurs actifs
func GetAllSuppliers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := supplierCollection().Find(ctx, bson.M{"status": models.StatusActive})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var suppliers []models.Supplier
	if err := cursor.All(ctx, &suppliers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage fournisseurs"})
		return
	}

	c.JSON(http.StatusOK, suppliers)
}

// UpdateSupplier met à jour les champs fournis
func UpdateSupplier(c *gin.Context) {
	supplierID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID fournisseur invalide"})
		return
	}

	var input struct {
		Name         *string `json:"name"`
		ContactEmail *string `json:"contact_email"`
		Phone        *string `json:"phone"`
		Address      *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Données invalides"})
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.ContactEmail != nil {
		update["contact_email"] = *input.ContactEmail
	}
	if input.Phone != nil {
		update["phone"] = *input.Phone
	}
	if input.Address != nil {
		update["address"] = *input.Address
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := supplierCollection().UpdateOne(ctx, bson.M{"_id": supplierID}, bson.M{"$set": update})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Fournisseur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Fournisseur mis à jour avec succès"})
}

// DeleteSupplier archive un fournisseur
func DeleteSupplier(c *gin.Context) {
	supplierID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID fournisseur invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := supplierCollection().UpdateOne(ctx, bson.M{"_id": supplierID},
		bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Fournisseur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Fournisseur supprimé avec succès"})
}
