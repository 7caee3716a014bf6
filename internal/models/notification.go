package models

import "time"

const (
	KindQuestionAnswered = "question_answered"
	KindAnswerAccepted   = "answer_accepted"
	KindPlatformMessage  = "platform_message"
)

// Notification lives in its own table keyed by recipient rather than being
// embedded in the user record, so concurrent fanout to the same user is a
// plain insert instead of a whole-document rewrite.
type Notification struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	RecipientID int       `gorm:"index;not null" json:"recipient_id"`
	Kind        string    `gorm:"not null" json:"kind"`
	Message     string    `gorm:"not null" json:"message"`
	Link        string    `json:"link"`
	Read        bool      `gorm:"default:false" json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
