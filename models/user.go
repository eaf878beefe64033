package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	MobileNumber string         `json:"mobile_number" gorm:"uniqueIndex;not null"`
	Password     string         `json:"-" gorm:"not null"`
	DisplayName  string         `json:"display_name" gorm:"not null"`
	Balance      int64          `json:"balance" gorm:"default:0"` // KES minor units, mutated by relative deltas only
	ReferralCode string         `json:"referral_code" gorm:"uniqueIndex;not null"`
	InvitedBy    *uint          `json:"invited_by"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	IsAdmin      bool           `json:"is_admin" gorm:"default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	MobileNumber string `json:"mobile_number" validate:"required,min=10,max=15"`
	Password     string `json:"password" validate:"required,min=8"`
	DisplayName  string `json:"display_name" validate:"required,min=2"`
	ReferralCode string `json:"referral_code,omitempty"` // inviter's code, optional
	AdminCode    string `json:"admin_code,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
