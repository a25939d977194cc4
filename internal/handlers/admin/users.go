package admin

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

func userCollection() *mongo.Collection {
	return database.MongoUsersDB.Collection("users")
}

// GetAllUsers liste les utilisateurs (admin)
func GetAllUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if banned := c.Query("banned"); banned == "true" {
		filter["is_banned"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(500)
	cursor, err := userCollection().Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur décodage utilisateurs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users, "count": len(users)})
}

// BanUser suspend un compte. Les tokens en cours restent valides
// jusqu'à expiration mais le login est refusé.
func BanUser(c *gin.Context) {
	setBanStatus(c, true, utils.ActionUserBan, "Utilisateur suspendu")
}

// UnbanUser lève la suspension
func UnbanUser(c *gin.Context) {
	setBanStatus(c, false, utils.ActionUserUnban, "Suspension levée")
}

func setBanStatus(c *gin.Context, banned bool, action, okMsg string) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID utilisateur invalide"})
		return
	}

	// Un admin ne peut pas se bannir lui-même
	if banned && userID.Hex() == c.GetString("user_id") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Impossible de suspendre son propre compte"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := userCollection().UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$set": bson.M{"is_banned": banned, "updated_at": time.Now()}})
	if err != nil || res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Utilisateur introuvable"})
		return
	}

	utils.LogAdminActivity(c, action, utils.ResourceUser, userID.Hex(), nil, gin.H{"is_banned": banned})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": okMsg})
}
