package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/qa"
)

type AnswerHandler struct {
	db   *gorm.DB
	core *qa.Service
}

func NewAnswerHandler(db *gorm.DB, core *qa.Service) *AnswerHandler {
	return &AnswerHandler{db: db, core: core}
}

// CreateAnswer posts an answer to a question (PROTECTED - requires authentication)
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Content string `json:"content" binding:"required,max=5000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	answer, err := h.core.SubmitAnswer(c.Request.Context(), questionID, authorID, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          answer.ID,
		"content":     answer.Content,
		"author_id":   answer.AuthorID,
		"user":        answer.User,
		"question_id": answer.QuestionID,
		"voteCount":   0,
		"created_at":  answer.CreatedAt,
	})
}

// VoteAnswer records, switches or toggles off the caller's vote on an answer.
func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	answerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result, err := h.core.CastVote(c.Request.Context(), qa.TargetAnswer, answerID, voterID, bindVote(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Vote recorded",
		"voteCount":  result.Score,
		"userVote":   result.VoterValue,
		"totalVotes": result.TotalVoters,
	})
}
