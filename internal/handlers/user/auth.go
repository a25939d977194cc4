package user

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"zyvo_back_end/internal/database"
	"zyvo_back_end/internal/models"
	"zyvo_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func userCollection() *mongo.Collection {
	return database.MongoUsersDB.Collection("users")
}

// ================== AUTH LOCALE ==================

// Register crée un compte local (argon2id).
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Nom, email et mot de passe (8 caractères min) obligatoires"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// email déjà pris pour un compte local ?
	count, err := userCollection().CountDocuments(ctx, bson.M{"email": email, "provider": "local"})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Un compte avec cet email existe déjà", "field": "email"})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	u := models.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Provider:     "local",
		Role:         "customer",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	res, err := userCollection().InsertOne(ctx, u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur création utilisateur"})
		return
	}
	u.ID = res.InsertedID.(primitive.ObjectID)

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur génération token"})
		return
	}

	utils.LogUserActivity(c, utils.ActionUserCreate, utils.ResourceUser, u.ID.Hex(), nil, gin.H{"email": u.Email})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user_id": u.ID.Hex(),
		"email":   u.Email,
		"name":    u.Name,
		"role":    u.Role,
	})
}

// Login authentifie un compte local et renvoie un JWT.
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email et mot de passe obligatoires"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var u models.User
	if err := userCollection().FindOne(ctx, bson.M{"email": email, "provider": "local"}).Decode(&u); err != nil {
		utils.LogFailedActivity(c, utils.ActionLoginFailed, utils.ResourceAuth, email, "utilisateur inconnu")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Identifiants invalides"})
		return
	}

	if u.IsBanned {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Ce compte est suspendu"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, u.PasswordHash)
	if err != nil || !ok {
		utils.LogFailedActivity(c, utils.ActionLoginFailed, utils.ResourceAuth, u.ID.Hex(), "mot de passe invalide")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Identifiants invalides"})
		return
	}

	// Migration transparente bcrypt → argon2id au premier login réussi
	if utils.IsBcryptHash(u.PasswordHash) {
		if newHash, err := utils.HashPassword(input.Password); err == nil {
			userCollection().UpdateOne(ctx, bson.M{"_id": u.ID},
				bson.M{"$set": bson.M{"password_hash": newHash, "updated_at": time.Now()}})
		}
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur génération token"})
		return
	}

	utils.LogUserActivity(c, utils.ActionLoginSuccess, utils.ResourceAuth, u.ID.Hex(), nil, nil)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user_id": u.ID.Hex(),
		"email":   u.Email,
		"name":    u.Name,
		"role":    u.Role,
	})
}

// Me renvoie le profil de l'utilisateur connecté.
func Me(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var u models.User
	if err := userCollection().FindOne(ctx, bson.M{"_id": userID}).Decode(&u); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

// ================== AUTH OAUTH (goth) ==================

type ctxKey string

// ProviderKey porte le provider OAuth dans le contexte de la requête,
// lu par gothic.GetProviderName.
const ProviderKey ctxKey = "provider"

// BeginAuth démarre le flow OAuth du provider demandé.
func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// CallbackAuth termine le flow OAuth, crée le compte au premier passage
// et redirige vers le front avec un JWT.
func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var u models.User
	err = userCollection().FindOne(ctx, bson.M{"provider": provider, "provider_id": gothUser.UserID}).Decode(&u)
	if err != nil {
		u = models.User{
			Name:       gothUser.Name,
			Email:      strings.ToLower(gothUser.Email),
			Provider:   provider,
			ProviderID: gothUser.UserID,
			Role:       "customer",
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		res, err := userCollection().InsertOne(ctx, u)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur création utilisateur"})
			return
		}
		u.ID = res.InsertedID.(primitive.ObjectID)
		log.Printf("✅ Nouveau compte %s: %s", provider, u.Email)
	}

	if u.IsBanned {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Ce compte est suspendu"})
		return
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur génération token"})
		return
	}

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3000"
	}

	c.Redirect(http.StatusTemporaryRedirect, frontend+"/auth/callback?token="+token)
}

// Logout invalide la session OAuth côté serveur.
func Logout(c *gin.Context) {
	gothic.Logout(c.Writer, c.Request)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Déconnecté"})
}
