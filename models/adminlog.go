package models

import "time"

// AdminLogEntry is the append-only audit trail of admin approvals and
// declines. It doubles as the admin notification feed via the Read flag.
type AdminLogEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Message   string    `json:"message" gorm:"not null"`
	AdminID   uint      `json:"admin_id" gorm:"not null;index"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}
