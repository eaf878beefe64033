package ledger

import (
	"fmt"

	"gorm.io/gorm"

	"bithired/models"
)

// CurrentTarget returns the deposit target account currently accepting
// submissions: the first configured account whose accumulator for today is
// still below the ceiling. When every account is saturated deposits are
// disabled for the rest of the day.
func (l *Ledger) CurrentTarget() (string, error) {
	return l.currentTarget(l.db)
}

func (l *Ledger) currentTarget(tx *gorm.DB) (string, error) {
	date := today()
	for _, account := range l.depositAccounts {
		var lim models.DailyDepositLimit
		err := tx.Where("date = ? AND target_account = ?", date, account).First(&lim).Error
		if err == gorm.ErrRecordNotFound {
			return account, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to read daily limit: %w", err)
		}
		if lim.TotalAmount < l.depositCeiling {
			return account, nil
		}
	}
	return "", ErrDepositsDisabled
}

// SubmitDeposit records a user's claimed M-PESA payment as a pending request.
// The daily accumulator check, its increment and the request insert commit as
// one transaction: a rejected submission leaves neither a request row nor a
// counter change behind.
func (l *Ledger) SubmitDeposit(userID uint, amount int64, mobileNumber, transactionCode string) (*models.DepositRequest, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("deposit amount must be positive")
	}

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Error; err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	target, err := l.currentTarget(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	date := today()
	var lim models.DailyDepositLimit
	err = tx.Where("date = ? AND target_account = ?", date, target).First(&lim).Error
	if err == gorm.ErrRecordNotFound {
		lim = models.DailyDepositLimit{Date: date, TargetAccount: target}
		if err := tx.Create(&lim).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create daily limit row: %w", err)
		}
	} else if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read daily limit: %w", err)
	}

	if lim.TotalAmount+amount > l.depositCeiling {
		tx.Rollback()
		return nil, ErrDepositsDisabled
	}

	if err := tx.Model(&models.DailyDepositLimit{}).
		Where("id = ?", lim.ID).
		UpdateColumn("total_amount", gorm.Expr("total_amount + ?", amount)).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to increment daily limit: %w", err)
	}

	req := models.DepositRequest{
		UserID:          userID,
		Amount:          amount,
		MobileNumber:    mobileNumber,
		TransactionCode: transactionCode,
		TargetAccount:   target,
		Status:          models.StatusPending,
	}
	if err := tx.Create(&req).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create deposit request: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit deposit submission: %w", err)
	}

	l.log.Info().Uint("user_id", userID).Int64("amount", amount).Str("target", target).Msg("Deposit request submitted")
	return &req, nil
}

// ApproveDeposit moves a pending request to completed and credits the amount.
// The status flip is a compare-and-swap on status = pending, so a concurrent
// double approval credits exactly once and the loser gets ErrInvalidTransition.
func (l *Ledger) ApproveDeposit(requestID, adminID uint) (*models.DepositRequest, error) {
	var req models.DepositRequest

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Error; err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := tx.First(&req, requestID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load deposit request: %w", err)
	}

	result := tx.Model(&models.DepositRequest{}).
		Where("id = ? AND status = ?", requestID, models.StatusPending).
		Update("status", models.StatusCompleted)
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update deposit status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrInvalidTransition
	}

	if err := l.AdjustBalance(tx, req.UserID, req.Amount); err != nil {
		tx.Rollback()
		return nil, err
	}

	msg := fmt.Sprintf("Approved deposit #%d of %d for account %d", req.ID, req.Amount, req.UserID)
	if err := l.recordAdminAction(tx, adminID, msg); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit deposit approval: %w", err)
	}

	req.Status = models.StatusCompleted
	l.log.Info().Uint("request_id", req.ID).Uint("admin_id", adminID).Msg("Deposit approved")
	return &req, nil
}

// DeclineDeposit moves a pending request to cancelled. No balance effect:
// deposits only credit on approval.
func (l *Ledger) DeclineDeposit(requestID, adminID uint) (*models.DepositRequest, error) {
	var req models.DepositRequest

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Error; err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := tx.First(&req, requestID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load deposit request: %w", err)
	}

	result := tx.Model(&models.DepositRequest{}).
		Where("id = ? AND status = ?", requestID, models.StatusPending).
		Update("status", models.StatusCancelled)
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update deposit status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrInvalidTransition
	}

	msg := fmt.Sprintf("Declined deposit #%d of %d for account %d", req.ID, req.Amount, req.UserID)
	if err := l.recordAdminAction(tx, adminID, msg); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit deposit decline: %w", err)
	}

	req.Status = models.StatusCancelled
	l.log.Info().Uint("request_id", req.ID).Uint("admin_id", adminID).Msg("Deposit declined")
	return &req, nil
}

// UserDeposits lists a user's deposit requests, newest first.
func (l *Ledger) UserDeposits(userID uint, limit, offset int) ([]models.DepositRequest, error) {
	var reqs []models.DepositRequest
	if err := l.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	return reqs, nil
}

// PendingDeposits lists the admin approval queue, oldest first.
func (l *Ledger) PendingDeposits() ([]models.DepositRequest, error) {
	var reqs []models.DepositRequest
	if err := l.db.Where("status = ?", models.StatusPending).
		Preload("User").
		Order("created_at ASC").
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending deposits: %w", err)
	}
	return reqs, nil
}
