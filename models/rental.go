package models

import "time"

const (
	RentalActive    = "active"
	RentalCompleted = "completed"
)

// Machine describes a hireable virtual mining machine from the static catalog.
type Machine struct {
	Name         string `json:"name"`
	HashRate     string `json:"hash_rate"`
	Cost         int64  `json:"cost"`          // minor units
	DailyEarning int64  `json:"daily_earning"` // minor units per day
	DurationDays int    `json:"duration_days"`
}

// Rental is one hired machine. Earnings accrue linearly from CreatedAt for
// DurationDays; Collected tracks what has already been credited.
type Rental struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	Machine      string    `json:"machine" gorm:"not null"`
	Cost         int64     `json:"cost" gorm:"not null"`
	DailyEarning int64     `json:"daily_earning" gorm:"not null"`
	DurationDays int       `json:"duration_days" gorm:"not null"`
	Collected    int64     `json:"collected" gorm:"not null;default:0"`
	Status       string    `json:"status" gorm:"not null;default:active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type HireRequest struct {
	Machine string `json:"machine" validate:"required"`
}
