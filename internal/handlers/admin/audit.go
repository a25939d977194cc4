package admin

import (
	"log"
	"net/http"
	"strconv"

	"zyvo_back_end/internal/database"
	"zyvo_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GetAuditLogs récupère les logs d'audit avec filtres (admin)
func GetAuditLogs(c *gin.Context) {
	if database.AuditSession == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Journal d'audit indisponible"})
		return
	}

	userID := c.Query("user_id")
	action := c.Query("action")
	resource := c.Query("resource")
	success := c.Query("success")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	baseQuery := `SELECT id, user_id, user_email, action, resource, resource_id,
				  old_value, new_value, ip_address, user_agent, success,
				  error_msg, timestamp FROM audit_logs`

	var conditions []string
	var args []interface{}

	if userID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, userID)
	}
	if action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, action)
	}
	if resource != "" {
		conditions = append(conditions, "resource = ?")
		args = append(args, resource)
	}
	if success != "" {
		successBool, _ := strconv.ParseBool(success)
		conditions = append(conditions, "success = ?")
		args = append(args, successBool)
	}

	query := baseQuery
	if len(conditions) > 0 {
		query += " WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			query += " AND " + conditions[i]
		}
	}
	query += " LIMIT ?"
	args = append(args, limit)
	if len(conditions) > 0 {
		query += " ALLOW FILTERING"
	}

	iter := database.AuditSession.Query(query, args...).Iter()

	var logs []models.AuditLog
	var entry models.AuditLog

	for iter.Scan(&entry.ID, &entry.UserID, &entry.UserEmail,
		&entry.Action, &entry.Resource, &entry.ResourceID,
		&entry.OldValue, &entry.NewValue, &entry.IPAddress,
		&entry.UserAgent, &entry.Success, &entry.ErrorMsg,
		&entry.Timestamp) {
		logs = append(logs, entry)
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur récupération logs audit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"logs":    logs,
		"total":   len(logs),
	})
}
