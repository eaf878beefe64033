package models

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// DepositRequest is a user's claim of an M-PESA payment into one of the
// configured target accounts, awaiting manual admin confirmation.
type DepositRequest struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"not null;index"`
	User            User      `json:"user" gorm:"foreignKey:UserID"`
	Amount          int64     `json:"amount" gorm:"not null"`
	MobileNumber    string    `json:"mobile_number" gorm:"not null"`
	TransactionCode string    `json:"transaction_code" gorm:"not null"`
	TargetAccount   string    `json:"target_account" gorm:"not null"`
	Status          string    `json:"status" gorm:"not null;default:pending;index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DailyDepositLimit accumulates the deposit volume submitted against one
// target account on one date. Submissions that would push TotalAmount past
// the configured ceiling are rejected.
type DailyDepositLimit struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	Date          string `json:"date" gorm:"not null;uniqueIndex:idx_day_target"`
	TargetAccount string `json:"target_account" gorm:"not null;uniqueIndex:idx_day_target"`
	TotalAmount   int64  `json:"total_amount" gorm:"not null;default:0"`
}

type SubmitDepositRequest struct {
	Amount          int64  `json:"amount" validate:"required,min=1"`
	MobileNumber    string `json:"mobile_number" validate:"required,min=10,max=15"`
	TransactionCode string `json:"transaction_code" validate:"omitempty,min=6,max=20"`
}
