package qa

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackit-dev/stackit/backend/internal/apperr"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

// TargetKind selects which votable table a cast applies to.
type TargetKind string

const (
	TargetQuestion TargetKind = "question"
	TargetAnswer   TargetKind = "answer"
)

// VoteResult reports the state of the target after a cast.
type VoteResult struct {
	Score       int  // signed sum of all current votes
	VoterValue  *int // the caller's vote after the cast; nil if it was toggled off
	TotalVoters int  // distinct voters with a live vote
}

// CastVote applies one voter's action to a target:
//   - no existing vote: insert
//   - existing vote with the same value: remove it (toggle-off)
//   - existing vote with the opposite value: switch in place
//
// The whole read-modify-write runs in one transaction holding a row lock on
// the target, so two concurrent "first votes" cannot both insert; the unique
// (voter, target) constraint backstops the lock and a duplicate key is
// reported as Conflict. Repeating a cast is always safe.
func (s *Service) CastVote(ctx context.Context, kind TargetKind, targetID, voterID, value int) (*VoteResult, error) {
	if value != 1 && value != -1 {
		return nil, apperr.InvalidInput("Vote must be 1 or -1")
	}

	var targetCol string
	switch kind {
	case TargetQuestion:
		targetCol = "question_id"
	case TargetAnswer:
		targetCol = "answer_id"
	default:
		return nil, apperr.InvalidInput("Unknown vote target")
	}

	var result VoteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTarget(tx, kind, targetID); err != nil {
			return err
		}

		var existing models.Vote
		err := tx.Where("user_id = ? AND "+targetCol+" = ?", voterID, targetID).First(&existing).Error
		switch {
		case err == nil:
			if existing.Value == value {
				// Same vote - remove it (toggle)
				if err := tx.Delete(&existing).Error; err != nil {
					return err
				}
				result.VoterValue = nil
			} else {
				// Different vote - update it
				existing.Value = value
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				v := value
				result.VoterValue = &v
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{UserID: voterID, Value: value}
			if kind == TargetQuestion {
				id := targetID
				vote.QuestionID = &id
			} else {
				id := targetID
				vote.AnswerID = &id
			}
			if err := tx.Create(&vote).Error; err != nil {
				if isUniqueViolation(err) {
					return apperr.Conflict("Concurrent vote detected, please retry")
				}
				return err
			}
			v := value
			result.VoterValue = &v
		default:
			return err
		}

		// Score is always recomputed from the live vote rows, never stored.
		var agg struct {
			Score int
			Total int
		}
		err = tx.Model(&models.Vote{}).
			Where(targetCol+" = ?", targetID).
			Select("COALESCE(SUM(value), 0) AS score, COUNT(*) AS total").
			Scan(&agg).Error
		if err != nil {
			return err
		}
		result.Score = agg.Score
		result.TotalVoters = agg.Total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// lockTarget takes a FOR UPDATE row lock on the votable target, serializing
// concurrent casts on the same question/answer.
func lockTarget(tx *gorm.DB, kind TargetKind, targetID int) error {
	locked := tx.Clauses(clause.Locking{Strength: "UPDATE"})
	var err error
	switch kind {
	case TargetQuestion:
		var q models.Question
		err = locked.First(&q, targetID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Question not found")
		}
	case TargetAnswer:
		var a models.Answer
		err = locked.First(&a, targetID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Answer not found")
		}
	}
	return err
}

// Score recomputes the signed vote sum for a target. Used by the listing
// handlers, which never trust a stored counter.
func (s *Service) Score(ctx context.Context, kind TargetKind, targetID int) (int, error) {
	targetCol := "question_id"
	if kind == TargetAnswer {
		targetCol = "answer_id"
	}
	var score int
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Where(targetCol+" = ?", targetID).
		Select("COALESCE(SUM(value), 0)").
		Scan(&score).Error
	return score, err
}

// VoterValue returns the caller's current vote on a target, nil if none.
func (s *Service) VoterValue(ctx context.Context, kind TargetKind, targetID, voterID int) (*int, error) {
	targetCol := "question_id"
	if kind == TargetAnswer {
		targetCol = "answer_id"
	}
	var vote models.Vote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND "+targetCol+" = ?", voterID, targetID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote.Value, nil
}
