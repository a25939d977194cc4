package utils

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"zyvo_back_end/internal/database"
	"zyvo_back_end/internal/models"
)

// LogUserActivity enregistre une action utilisateur dans le journal
// d'audit. Fire-and-forget: les échecs sont avalés.
func LogUserActivity(c *gin.Context, action, resource, resourceID string, oldValue, newValue interface{}) {
	go func() {
		if err := logActivity(c, action, resource, resourceID, oldValue, newValue, true, ""); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

// LogAdminActivity enregistre une action d'administration.
func LogAdminActivity(c *gin.Context, action, resource, resourceID string, oldValue, newValue interface{}) {
	LogUserActivity(c, action, resource, resourceID, oldValue, newValue)
}

// LogFailedActivity enregistre une action échouée.
func LogFailedActivity(c *gin.Context, action, resource, resourceID, errorMsg string) {
	go func() {
		if err := logActivity(c, action, resource, resourceID, nil, nil, false, errorMsg); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

func logActivity(c *gin.Context, action, resource, resourceID string, oldValue, newValue interface{}, success bool, errorMsg string) error {
	if database.AuditSession == nil {
		return nil // audit désactivé
	}

	var oldValueStr, newValueStr string
	if oldValue != nil {
		if b, err := json.Marshal(oldValue); err == nil {
			oldValueStr = string(b)
		}
	}
	if newValue != nil {
		if b, err := json.Marshal(newValue); err == nil {
			newValueStr = string(b)
		}
	}

	entry := models.AuditLog{
		ID:         gocql.TimeUUID(),
		UserID:     c.GetString("user_id"),
		UserEmail:  c.GetString("email"),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		OldValue:   oldValueStr,
		NewValue:   newValueStr,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		Success:    success,
		ErrorMsg:   errorMsg,
		Timestamp:  time.Now(),
	}

	query := `
		INSERT INTO audit_logs (
			id, user_id, user_email, action, resource, resource_id,
			old_value, new_value, ip_address, user_agent, success,
			error_msg, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return database.AuditSession.Query(query,
		entry.ID, entry.UserID, entry.UserEmail, entry.Action,
		entry.Resource, entry.ResourceID, entry.OldValue, entry.NewValue,
		entry.IPAddress, entry.UserAgent, entry.Success, entry.ErrorMsg,
		entry.Timestamp,
	).Exec()
}

// Actions d'audit prédéfinies
const (
	ActionProductCreate  = "product.create"
	ActionProductUpdate  = "product.update"
	ActionProductDelete  = "product.delete"
	ActionVariantCreate  = "variant.create"
	ActionVariantUpdate  = "variant.update"
	ActionVariantDelete  = "variant.delete"
	ActionCategoryCreate = "category.create"
	ActionCategoryUpdate = "category.update"
	ActionCategoryDelete = "category.delete"
	ActionBrandCreate    = "brand.create"
	ActionSupplierCreate = "supplier.create"
	ActionPlatformCreate = "platform.create"
	ActionListingCreate  = "listing.create"

	ActionOrderCreate = "order.create"
	ActionOrderUpdate = "order.update"
	ActionOrderCancel = "order.cancel"
	ActionOrderRefund = "order.refund"

	ActionStockAdd    = "stock.add"
	ActionStockRemove = "stock.remove"
	ActionStockSet    = "stock.set"

	ActionCouponCreate = "coupon.create"
	ActionCouponUpdate = "coupon.update"
	ActionCouponDelete = "coupon.delete"

	ActionUserCreate = "user.create"
	ActionUserBan    = "user.ban"
	ActionUserUnban  = "user.unban"

	ActionLoginSuccess = "auth.login_success"
	ActionLoginFailed  = "auth.login_failed"
)

// Resources d'audit
const (
	ResourceProduct   = "product"
	ResourceVariant   = "variant"
	ResourceCategory  = "category"
	ResourceBrand     = "brand"
	ResourceSupplier  = "supplier"
	ResourcePlatform  = "platform"
	ResourceListing   = "listing"
	ResourceOrder     = "order"
	ResourceInventory = "inventory"
	ResourceCoupon    = "coupon"
	ResourceUser      = "user"
	ResourceAuth      = "auth"
	ResourceReview    = "review"
)
