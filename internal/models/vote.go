package models

import "time"

// Vote model - tracks individual user votes on questions and answers.
// At most one row per (user, question) and per (user, answer); the unique
// pair indexes back the atomic-update contract of the vote ledger.
type Vote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"not null;uniqueIndex:uq_votes_user_question;uniqueIndex:uq_votes_user_answer" json:"user_id"`
	QuestionID *int      `gorm:"uniqueIndex:uq_votes_user_question" json:"question_id,omitempty"` // set for question votes
	AnswerID   *int      `gorm:"uniqueIndex:uq_votes_user_answer" json:"answer_id,omitempty"`     // set for answer votes
	Value      int       `gorm:"not null" json:"value"`                                           // +1 or -1
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
