// Package ledger implements the balance store and the approval workflows for
// deposits, withdrawals and redeem codes. All balance mutations are signed
// deltas and every admin decision commits atomically with its audit entry.
package ledger

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"bithired/models"
)

type Ledger struct {
	db              *gorm.DB
	log             zerolog.Logger
	depositCeiling  int64
	depositAccounts []string
}

func New(db *gorm.DB, log zerolog.Logger, depositCeiling int64, depositAccounts []string) *Ledger {
	return &Ledger{
		db:              db,
		log:             log,
		depositCeiling:  depositCeiling,
		depositAccounts: depositAccounts,
	}
}

// AdjustBalance applies a signed delta to an account balance. Balances are
// never overwritten with absolute values, so concurrent adjustments commute.
// No floor check happens here; callers that debit must enforce their own.
func (l *Ledger) AdjustBalance(tx *gorm.DB, userID uint, delta int64) error {
	result := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to adjust balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Balance reads the current balance of an account.
func (l *Ledger) Balance(userID uint) (int64, error) {
	var user models.User
	if err := l.db.Select("id", "balance").First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrAccountNotFound
		}
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return user.Balance, nil
}

// recordAdminAction appends to the audit trail inside the caller's
// transaction so the decision and its log entry commit together.
func (l *Ledger) recordAdminAction(tx *gorm.DB, adminID uint, message string) error {
	entry := models.AdminLogEntry{
		Message: message,
		AdminID: adminID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record admin action: %w", err)
	}
	return nil
}

// RecordAdminAction appends a standalone audit entry outside any workflow.
func (l *Ledger) RecordAdminAction(adminID uint, message string) error {
	return l.recordAdminAction(l.db, adminID, message)
}

func today() string {
	return time.Now().Format("2006-01-02")
}
