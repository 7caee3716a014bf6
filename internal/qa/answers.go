package qa

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/apperr"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

// SubmitAnswer creates an answer on a question. Creation order is preserved
// by the serial id. Answering someone else's question notifies the question
// author; the notification is best-effort and never fails the submission.
func (s *Service) SubmitAnswer(ctx context.Context, questionID, authorID int, content string) (*models.Answer, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.InvalidInput("Content is required")
	}

	db := s.db.WithContext(ctx)

	var question models.Question
	if err := db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Question not found")
		}
		return nil, err
	}

	answer := models.Answer{
		Content:    content,
		AuthorID:   authorID,
		QuestionID: question.ID,
	}
	if err := db.Create(&answer).Error; err != nil {
		return nil, err
	}

	db.Preload("User").First(&answer, answer.ID)

	if question.AuthorID != authorID {
		err := s.notifier.Notify(ctx, question.AuthorID, models.KindQuestionAnswered,
			fmt.Sprintf("Someone answered your question: %q", question.Title),
			fmt.Sprintf("/questions/%d", question.ID))
		if err != nil {
			log.Printf("question_answered notification for user %d failed: %v", question.AuthorID, err)
		}
	}

	return &answer, nil
}
