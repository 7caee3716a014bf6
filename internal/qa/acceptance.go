package qa

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/apperr"
	"github.com/stackit-dev/stackit/backend/internal/authz"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

// AcceptAnswer designates answerID as the accepted answer of questionID.
// The transition is one-shot: once a question has an accepted answer, every
// later attempt fails with AlreadyAccepted, including attempts to accept a
// different answer. Only the question author may accept, no matter what role
// the actor holds.
func (s *Service) AcceptAnswer(ctx context.Context, questionID, answerID, actorID int) error {
	db := s.db.WithContext(ctx)

	var question models.Question
	if err := db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Question not found")
		}
		return err
	}

	var answer models.Answer
	if err := db.First(&answer, answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Answer not found")
		}
		return err
	}

	if answer.QuestionID != question.ID {
		return apperr.ReferentialMismatch("Answer not found for this question")
	}

	actor := authz.Principal{UserID: actorID}
	if !actor.Owns(question) {
		return apperr.Forbidden("Only question author can accept answers")
	}

	if question.AcceptedAnswerID != nil {
		return apperr.AlreadyAccepted("An answer has already been accepted for this question")
	}

	// Compare-and-swap on the acceptance field: the IS NULL guard makes the
	// check-then-set atomic against concurrent accept attempts. Zero rows
	// affected means another writer won the race.
	res := db.Model(&models.Question{}).
		Where("id = ? AND accepted_answer_id IS NULL", question.ID).
		Update("accepted_answer_id", answer.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.AlreadyAccepted("An answer has already been accepted for this question")
	}

	// Accepting your own answer produces no notification. Delivery is
	// best-effort: the acceptance above is already durable.
	if answer.AuthorID != actorID {
		err := s.notifier.Notify(ctx, answer.AuthorID, models.KindAnswerAccepted,
			"Your answer was accepted!", fmt.Sprintf("/questions/%d", question.ID))
		if err != nil {
			log.Printf("answer_accepted notification for user %d failed: %v", answer.AuthorID, err)
		}
	}

	return nil
}
