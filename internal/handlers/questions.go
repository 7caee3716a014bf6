package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/qa"
)

type QuestionHandler struct {
	db   *gorm.DB
	core *qa.Service
}

func NewQuestionHandler(db *gorm.DB, core *qa.Service) *QuestionHandler {
	return &QuestionHandler{db: db, core: core}
}

func joinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, ",")
}

func splitTags(tags string) []string {
	if tags == "" {
		return []string{}
	}
	return strings.Split(tags, ",")
}

// bindVote reads the vote value from the JSON body, falling back to the
// ?vote= query param. Validation happens in the ledger.
func bindVote(c *gin.Context) int {
	var input struct {
		Vote int `json:"vote"`
	}
	if err := c.ShouldBindJSON(&input); err == nil && input.Vote != 0 {
		return input.Vote
	}
	v, _ := strconv.Atoi(c.Query("vote"))
	return v
}

func (h *QuestionHandler) questionResponse(c *gin.Context, q models.Question) gin.H {
	score, _ := h.core.Score(c.Request.Context(), qa.TargetQuestion, q.ID)
	return gin.H{
		"id":                 q.ID,
		"title":              q.Title,
		"description":        q.Description,
		"tags":               splitTags(q.Tags),
		"author_id":          q.AuthorID,
		"user":               q.User,
		"accepted_answer_id": q.AcceptedAnswerID,
		"voteCount":          score,
		"created_at":         q.CreatedAt,
		"updated_at":         q.UpdatedAt,
	}
}

// GetQuestions returns a page of questions, optionally filtered by tags and
// a title/description search term.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := h.db.Model(&models.Question{})

	if tags := c.Query("tags"); tags != "" {
		var clauses []string
		var args []interface{}
		for _, t := range strings.Split(tags, ",") {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			clauses = append(clauses, "tags LIKE ?")
			args = append(args, "%"+t+"%")
		}
		if len(clauses) > 0 {
			query = query.Where(strings.Join(clauses, " OR "), args...)
		}
	}

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	// Reused for both the count and the page fetch.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	var questions []models.Question
	err := query.Preload("User").
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&questions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	var responses []gin.H
	for _, q := range questions {
		responses = append(responses, h.questionResponse(c, q))
	}
	if responses == nil {
		responses = []gin.H{}
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"questions":   responses,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// GetQuestion returns a single question with its answers in creation order.
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var question models.Question
	if err := h.db.Preload("User").First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	var answers []models.Answer
	if err := h.db.Where("question_id = ?", question.ID).Preload("User").Order("id asc").Find(&answers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answers"})
		return
	}

	answerResponses := make([]gin.H, 0, len(answers))
	for _, a := range answers {
		score, _ := h.core.Score(c.Request.Context(), qa.TargetAnswer, a.ID)
		answerResponses = append(answerResponses, gin.H{
			"id":          a.ID,
			"content":     a.Content,
			"author_id":   a.AuthorID,
			"user":        a.User,
			"question_id": a.QuestionID,
			"voteCount":   score,
			"created_at":  a.CreatedAt,
			"updated_at":  a.UpdatedAt,
		})
	}

	resp := h.questionResponse(c, question)
	resp["answers"] = answerResponses
	c.JSON(http.StatusOK, resp)
}

// CreateQuestion creates a new question (PROTECTED - requires authentication)
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var input struct {
		Title       string   `json:"title" binding:"required,max=200"`
		Description string   `json:"description" binding:"required,max=5000"`
		Tags        []string `json:"tags"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and description are required"})
		return
	}

	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	question := models.Question{
		Title:       input.Title,
		Description: input.Description,
		Tags:        joinTags(input.Tags),
		AuthorID:    authorID,
	}

	if err := h.db.Create(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	h.db.Preload("User").First(&question, question.ID)
	c.JSON(http.StatusCreated, h.questionResponse(c, question))
}

// VoteQuestion records, switches or toggles off the caller's vote on a question.
func (h *QuestionHandler) VoteQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result, err := h.core.CastVote(c.Request.Context(), qa.TargetQuestion, questionID, voterID, bindVote(c))
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

// AcceptAnswer marks an answer as the accepted one (question author only).
func (h *QuestionHandler) AcceptAnswer(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	answerID, ok := pathID(c, "answerId")
	if !ok {
		return
	}

	actorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.core.AcceptAnswer(c.Request.Context(), questionID, answerID, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer accepted successfully"})
}
