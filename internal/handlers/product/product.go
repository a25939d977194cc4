package product

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"zyvo_back_end/internal/database"
	"zyvo_back_end/internal/models"
	"zyvo_back_end/internal/services"
	"zyvo_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func productCollection() *mongo.Collection {
	return database.MongoCatalogDB.Collection("products")
}

// 🟢 Créer un produit
func CreateProduct(c *gin.Context) {
	var input struct {
		Name        string   `json:"name" binding:"required"`
		Slug        string   `json:"slug" binding:"required"`
		Description string   `json:"description"`
		CategoryID  string   `json:"category_id" binding:"required"`
		BrandID     string   `json:"brand_id"`
		SupplierID  string   `json:"supplier_id"`
		ImageURLs   []string `json:"image_urls"`
		Tags        []string `json:"tags"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Les champs 'name', 'slug' et 'category_id' sont obligatoires"})
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(input.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID catégorie invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// La catégorie doit exister et être active
	var cat models.Category
	if err := categoryCollection().FindOne(ctx, bson.M{"_id": categoryID}).Decode(&cat); err != nil || !cat.IsActive() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Catégorie introuvable ou inactive"})
		return
	}

	// Slug unique
	count, err := productCollection().CountDocuments(ctx, bson.M{"slug": input.Slug})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Un produit avec ce slug existe déjà", "field": "slug"})
		return
	}

	p := models.Product{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		CategoryID:  categoryID,
		ImageURLs:   input.ImageURLs,
		Tags:        input.Tags,
		Status:      models.StatusActive,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if input.BrandID != "" {
		brandID, err := primitive.ObjectIDFromHex(input.BrandID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID marque invalide"})
			return
		}
		p.BrandID = brandID
	}
	if input.SupplierID != "" {
		supplierID, err := primitive.ObjectIDFromHex(input.SupplierID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID fournisseur invalide"})
			return
		}
		p.SupplierID = supplierID
	}

	res, err := productCollection().InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Un produit avec ce slug existe déjà", "field": "slug"})
			return
		}
		log.Printf("❌ Erreur création produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de la création du produit"})
		return
	}
	p.ID = res.InsertedID.(primitive.ObjectID)

	// Indexation asynchrone
	go services.IndexProduct(p)

	invalidateProductCache()
	utils.LogAdminActivity(c, utils.ActionProductCreate, utils.ResourceProduct, p.ID.Hex(), nil, p)

	c.JSON(http.StatusCreated, gin.H{"success": true, "product": p})
}

// 🔵 Lister les produits actifs, filtrables par catégorie / marque
func GetAllProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"status": models.StatusActive}

	if cat := c.Query("category"); cat != "" {
		catID, err := primitive.ObjectIDFromHex(cat)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID catégorie invalide"})
			return
		}
		filter["category_id"] = catID
	}
	if brand := c.Query("brand"); brand != "" {
		brandID, err := primitive.ObjectIDFromHex(brand)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID marque invalide"})
			return
		}
		filter["brand_id"] = brandID
	}

	// Cache Redis uniquement pour la liste non filtrée
	cacheable := len(filter) == 1
	if cacheable {
		if val, err := database.RedisClient.Get(ctx, "products:all").Result(); err == nil && val != "" {
			var cached []models.Product
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
	}

	cursor, err := productCollection().Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage produits"})
		return
	}

	if cacheable {
		if data, err := json.Marshal(products); err == nil {
			database.RedisClient.Set(ctx, "products:all", data, 10*time.Minute)
		}
	}

	c.JSON(http.StatusOK, products)
}

// GetProductByID récupère un produit avec ses variantes actives et
// des URLs d'images signées.
func GetProductByID(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var p models.Product
	if err := productCollection().FindOne(ctx, bson.M{"_id": productID}).Decode(&p); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Produit introuvable"})
		return
	}

	// URLs signées MinIO (1h)
	signed := make([]string, 0, len(p.ImageURLs))
	for _, img := range p.ImageURLs {
		if u, err := services.GenerateSignedURL(ctx, img, time.Hour); err == nil {
			signed = append(signed, u)
		} else {
			signed = append(signed, img)
		}
	}
	p.ImageURLs = signed

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

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"product":  p,
		"variants": variantsWithPackInfo(variants),
	})
}

// UpdateProduct met à jour les champs fournis
func UpdateProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID produit invalide"})
		return
	}

	var input struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		CategoryID  *string   `json:"category_id"`
		ImageURLs   *[]string `json:"image_urls"`
		Tags        *[]string `json:"tags"`
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
	if input.ImageURLs != nil {
		update["image_urls"] = *input.ImageURLs
	}
	if input.Tags != nil {
		update["tags"] = *input.Tags
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if input.CategoryID != nil {
		catID, err := primitive.ObjectIDFromHex(*input.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID catégorie invalide"})
			return
		}
		var cat models.Category
		if err := categoryCollection().FindOne(ctx, bson.M{"_id": catID}).Decode(&cat); err != nil || !cat.IsActive() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Catégorie introuvable ou inactive"})
			return
		}
		update["category_id"] = catID
	}

	var before models.Product
	if err := productCollection().FindOneAndUpdate(ctx, bson.M{"_id": productID}, bson.M{"$set": update}).Decode(&before); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Produit introuvable"})
		return
	}

	// Réindexe le document à jour
	var after models.Product
	if err := productCollection().FindOne(ctx, bson.M{"_id": productID}).Decode(&after); err == nil {
		go services.IndexProduct(after)
	}

	invalidateProductCache()
	utils.LogAdminActivity(c, utils.ActionProductUpdate, utils.ResourceProduct, productID.Hex(), before, update)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Produit mis à jour avec succès"})
}

// DeleteProduct archive un produit et toutes ses variantes
func DeleteProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := productCollection().UpdateOne(ctx, bson.M{"_id": productID},
		bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Produit introuvable"})
		return
	}

	// Cascade sur les variantes
	if _, err := variantCollection().UpdateMany(ctx, bson.M{"product_id": productID},
		bson.M{"$set": bson.M{"status": models.StatusArchived, "updated_at": time.Now()}}); err != nil {
		log.Printf("⚠️ Erreur archivage variantes du produit %s: %v", productID.Hex(), err)
	}

	go services.RemoveProductFromIndex(productID.Hex())

	invalidateProductCache()
	utils.LogAdminActivity(c, utils.ActionProductDelete, utils.ResourceProduct, productID.Hex(), nil, nil)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Produit supprimé avec succès"})
}

// 🔍 Recherche produits (Elastic en premier, fallback Mongo regex)
func SearchProductsHandler(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Le paramètre 'q' est obligatoire"})
		return
	}

	if results, err := services.SearchProducts(query); err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
		return
	}

	// Fallback Mongo si Elastic indisponible
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := productCollection().Find(ctx, bson.M{
		"status": models.StatusActive,
		"$or": []bson.M{
			{"name": bson.M{"$regex": query, "$options": "i"}},
			{"description": bson.M{"$regex": query, "$options": "i"}},
			{"tags": bson.M{"$regex": query, "$options": "i"}},
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage produits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": products})
}

// 📤 Upload d'une image produit vers MinIO
func UploadProductImageHandler(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID produit invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Aucune image fournie"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	objectPath, err := services.UploadProductImage(ctx, file)
	if err != nil {
		log.Printf("❌ Erreur upload image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur lors de l'upload de l'image"})
		return
	}

	res, err := productCollection().UpdateOne(ctx, bson.M{"_id": productID},
		bson.M{"$push": bson.M{"image_urls": objectPath}, "$set": bson.M{"updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Produit introuvable"})
		return
	}

	invalidateProductCache()

	c.JSON(http.StatusOK, gin.H{"success": true, "image_url": objectPath})
}

func invalidateProductCache() {
	database.RedisClient.Del(context.Background(), "products:all")
}
