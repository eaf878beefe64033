package models

import "time"

// WithdrawalRequest holds a pending payout. The requested amount is debited
// from the user's balance at submission time and released back on decline.
type WithdrawalRequest struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	User         User      `json:"user" gorm:"foreignKey:UserID"`
	Amount       int64     `json:"amount" gorm:"not null"`
	MobileNumber string    `json:"mobile_number" gorm:"not null"`
	Status       string    `json:"status" gorm:"not null;default:pending;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SubmitWithdrawalRequest struct {
	Amount       int64  `json:"amount" validate:"required,min=1"`
	MobileNumber string `json:"mobile_number" validate:"required,min=10,max=15"`
}

// WithdrawalDecisionRequest carries the admin's secondary authorization: any
// currently unused redeem code.
type WithdrawalDecisionRequest struct {
	AuthCode string `json:"auth_code" validate:"required,len=10"`
}
