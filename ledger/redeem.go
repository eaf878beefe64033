package ledger

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"bithired/models"
	"bithired/utils"
)

const redeemCodeLength = 10

// GenerateCodes creates a batch of unused redeem codes, all worth the same
// amount. Codes are independently random; the primary key constraint catches
// the (negligible) collision case by failing the insert.
func (l *Ledger) GenerateCodes(count int, amount int64) ([]models.RedeemCode, error) {
	codes := make([]models.RedeemCode, 0, count)
	for i := 0; i < count; i++ {
		code, err := utils.GenerateCode(redeemCodeLength)
		if err != nil {
			return nil, err
		}
		codes = append(codes, models.RedeemCode{Code: code, Amount: amount})
	}

	if err := l.db.Create(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to create redeem codes: %w", err)
	}
	return codes, nil
}

// ValidateCode checks a code without mutating it and returns its amount.
func (l *Ledger) ValidateCode(code string) (int64, error) {
	var rc models.RedeemCode
	if err := l.db.First(&rc, "code = ?", code).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrCodeNotFound
		}
		return 0, fmt.Errorf("failed to look up redeem code: %w", err)
	}
	if rc.Used {
		return 0, ErrCodeAlreadyUsed
	}
	return rc.Amount, nil
}

// Redeem consumes a code and credits its amount to the account in a single
// transaction. The used flag flips with a compare-and-swap on used = false,
// so two concurrent redemptions of the same code cannot both credit.
func (l *Ledger) Redeem(code string, userID uint) (int64, error) {
	var rc models.RedeemCode

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Error; err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := tx.First(&rc, "code = ?", code).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return 0, ErrCodeNotFound
		}
		return 0, fmt.Errorf("failed to look up redeem code: %w", err)
	}

	now := time.Now()
	result := tx.Model(&models.RedeemCode{}).
		Where("code = ? AND used = ?", code, false).
		Updates(map[string]interface{}{
			"used":    true,
			"used_by": userID,
			"used_at": &now,
		})
	if result.Error != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to consume redeem code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return 0, ErrCodeAlreadyUsed
	}

	if err := l.AdjustBalance(tx, userID, rc.Amount); err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("failed to commit redemption: %w", err)
	}

	l.log.Info().Str("code", code).Uint("user_id", userID).Int64("amount", rc.Amount).Msg("Redeem code consumed")
	return rc.Amount, nil
}

// ConsumeCode marks a code used without crediting anyone. This is the manual
// retirement step for codes spent as withdrawal authorization, which the
// approval gate itself deliberately does not consume.
func (l *Ledger) ConsumeCode(code string, adminID uint) error {
	now := time.Now()
	result := l.db.Model(&models.RedeemCode{}).
		Where("code = ? AND used = ?", code, false).
		Updates(map[string]interface{}{
			"used":    true,
			"used_by": adminID,
			"used_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to consume redeem code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// distinguish missing from already used
		var rc models.RedeemCode
		if err := l.db.First(&rc, "code = ?", code).Error; err != nil {
			return ErrCodeNotFound
		}
		return ErrCodeAlreadyUsed
	}

	return l.RecordAdminAction(adminID, fmt.Sprintf("Retired authorization code %s", code))
}

// ListCodes returns codes for the admin view, unused first.
func (l *Ledger) ListCodes(limit, offset int) ([]models.RedeemCode, error) {
	var codes []models.RedeemCode
	if err := l.db.Order("used ASC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to list redeem codes: %w", err)
	}
	return codes, nil
}
