package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/apperr"
	"github.com/stackit-dev/stackit/backend/internal/notify"
	"github.com/stackit-dev/stackit/backend/internal/qa"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Question     *QuestionHandler
	Answer       *AnswerHandler
	Notification *NotificationHandler
	Admin        *AdminHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	dispatcher := notify.NewDispatcher(db)
	core := qa.New(db, dispatcher)

	return &Handler{
		Auth:         NewAuthHandler(db),
		Question:     NewQuestionHandler(db, core),
		Answer:       NewAnswerHandler(db, core),
		Notification: NewNotificationHandler(dispatcher),
		Admin:        NewAdminHandler(db, dispatcher),
	}
}

// respondError maps domain errors to the HTTP status they carry; anything
// else is a 500.
func respondError(c *gin.Context, err error) {
	var derr *apperr.Error
	if errors.As(err, &derr) {
		c.JSON(derr.Status, gin.H{"error": derr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// pathID parses a numeric path parameter; responds 400 on garbage.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
