package models

import "time"

type Answer struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	Content    string `gorm:"not null" json:"content"`
	AuthorID   int    `json:"author_id"`
	User       User   `gorm:"foreignKey:AuthorID" json:"user"`
	QuestionID int    `gorm:"index" json:"question_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID satisfies authz.Owned.
func (a Answer) OwnerID() int { return a.AuthorID }

type CreateAnswerRequest struct {
	Content string `json:"content"`
}
