package models

import "time"

// Message is one entry in the mailbox between a user and the admin team.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	FromAdmin bool      `json:"from_admin" gorm:"not null;default:false"`
	Body      string    `json:"body" gorm:"not null"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

type AdminReplyRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Body   string `json:"body" validate:"required,min=1,max=2000"`
}
