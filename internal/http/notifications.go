package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	"github.com/Eric21111/expense-tracker-sub001/internal/finance"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

// GET /notifications
// Dismissed notifications are hidden unless include_dismissed=true.
func (s *Server) listNotifications(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	query := database.DB.Where("user_id = ?", userID).Order("created_at desc")
	if c.Query("include_dismissed") != "true" {
		query = query.Where("dismissed = ?", false)
	}
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		fail(c, 500, "could not load notifications", err)
		return
	}
	c.JSON(200, gin.H{"success": true, "notifications": notifications})
}

// POST /notifications
// Manual create used by the client for informational notices; budget alerts
// come from the generator.
func (s *Server) createNotification(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input struct {
		Category string `json:"category"`
		Message  string `json:"message" binding:"required"`
		Level    string `json:"level"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}
	if input.Level == "" {
		input.Level = "info"
	}

	n := models.Notification{
		UserID:   userID,
		Category: input.Category,
		Message:  input.Message,
		Level:    input.Level,
		MonthKey: finance.CurrentMonthKey(time.Now()),
	}
	if err := database.DB.Create(&n).Error; err != nil {
		fail(c, 500, "could not create notification", err)
		return
	}
	c.JSON(201, gin.H{"success": true, "notification": n})
}

// PUT /notifications/:id/read
func (s *Server) markNotificationRead(c *gin.Context) {
	s.setNotificationFlag(c, "read")
}

// PUT /notifications/:id/dismiss
// A dismissed budget alert also suppresses re-alerts for the same level and
// period; the generator counts dismissed rows in its dedup.
func (s *Server) dismissNotification(c *gin.Context) {
	s.setNotificationFlag(c, "dismissed")
}

func (s *Server) setNotificationFlag(c *gin.Context, column string) {
	userID := c.MustGet("userID").(uint)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid id"})
		return
	}

	var n models.Notification
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		c.JSON(404, gin.H{"success": false, "message": "notification not found"})
		return
	}

	if err := database.DB.Model(&n).Update(column, true).Error; err != nil {
		fail(c, 500, "could not update notification", err)
		return
	}
	c.JSON(200, gin.H{"success": true, "notification": n})
}
