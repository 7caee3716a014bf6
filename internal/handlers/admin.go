package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/notify"
)

type AdminHandler struct {
	db         *gorm.DB
	dispatcher *notify.Dispatcher
}

func NewAdminHandler(db *gorm.DB, dispatcher *notify.Dispatcher) *AdminHandler {
	return &AdminHandler{db: db, dispatcher: dispatcher}
}

// BanUser sets or toggles a user's banned flag. Admins cannot be banned.
func (h *AdminHandler) BanUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.Role == models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot ban admin users"})
		return
	}

	switch c.Query("banned") {
	case "true":
		user.Banned = true
	case "false":
		user.Banned = false
	default:
		user.Banned = !user.Banned
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	message := "User unbanned successfully"
	if user.Banned {
		message = "User banned successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "user": user})
}

// Broadcast sends a platform_message notification to every non-banned user.
func (h *AdminHandler) Broadcast(c *gin.Context) {
	var input struct {
		Message string `json:"message" binding:"required"`
		Link    string `json:"link"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	delivered, err := h.dispatcher.Broadcast(c.Request.Context(), input.Message, input.Link)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Notification sent to all users",
		"deliveredCount": delivered,
	})
}

// GetUsers lists all users (admin view).
func (h *AdminHandler) GetUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}
