package ledger

import (
	"fmt"

	"gorm.io/gorm"

	"bithired/models"
)

// SubmitWithdrawal places an optimistic hold: the amount leaves the balance
// immediately and only returns if an admin declines. The floor check and the
// debit share one transaction so concurrent submissions cannot drive the
// balance negative.
func (l *Ledger) SubmitWithdrawal(userID uint, amount int64, mobileNumber string) (*models.WithdrawalRequest, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("withdrawal amount must be positive")
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

	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if user.Balance < amount {
		tx.Rollback()
		return nil, ErrInsufficientFunds
	}

	if err := l.AdjustBalance(tx, userID, -amount); err != nil {
		tx.Rollback()
		return nil, err
	}

	req := models.WithdrawalRequest{
		UserID:       userID,
		Amount:       amount,
		MobileNumber: mobileNumber,
		Status:       models.StatusPending,
	}
	if err := tx.Create(&req).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create withdrawal request: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit withdrawal submission: %w", err)
	}

	l.log.Info().Uint("user_id", userID).Int64("amount", amount).Msg("Withdrawal request submitted")
	return &req, nil
}

// authorizeDecision checks the shared-secret gate on withdrawal decisions: the
// presented code must be an unused redeem code. Any code from the pool works;
// it is not bound to the request and is not consumed here.
func (l *Ledger) authorizeDecision(authCode string) error {
	if _, err := l.ValidateCode(authCode); err != nil {
		if err == ErrCodeNotFound || err == ErrCodeAlreadyUsed {
			return ErrAuthorizationFailed
		}
		return err
	}
	return nil
}

// ApproveWithdrawal finalizes the hold. No balance effect; the debit already
// happened at submission.
func (l *Ledger) ApproveWithdrawal(requestID, adminID uint, authCode string) (*models.WithdrawalRequest, error) {
	if err := l.authorizeDecision(authCode); err != nil {
		return nil, err
	}

	var req models.WithdrawalRequest

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
		return nil, fmt.Errorf("failed to load withdrawal request: %w", err)
	}

	result := tx.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", requestID, models.StatusPending).
		Update("status", models.StatusCompleted)
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update withdrawal status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrInvalidTransition
	}

	msg := fmt.Sprintf("Approved withdrawal #%d of %d for account %d", req.ID, req.Amount, req.UserID)
	if err := l.recordAdminAction(tx, adminID, msg); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit withdrawal approval: %w", err)
	}

	req.Status = models.StatusCompleted
	l.log.Info().Uint("request_id", req.ID).Uint("admin_id", adminID).Msg("Withdrawal approved")
	return &req, nil
}

// DeclineWithdrawal cancels a pending request and releases the hold: the full
// amount goes back to the account in the same transaction as the status flip.
func (l *Ledger) DeclineWithdrawal(requestID, adminID uint, authCode string) (*models.WithdrawalRequest, error) {
	if err := l.authorizeDecision(authCode); err != nil {
		return nil, err
	}

	var req models.WithdrawalRequest

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
		return nil, fmt.Errorf("failed to load withdrawal request: %w", err)
	}

	result := tx.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", requestID, models.StatusPending).
		Update("status", models.StatusCancelled)
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update withdrawal status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrInvalidTransition
	}

	if err := l.AdjustBalance(tx, req.UserID, req.Amount); err != nil {
		tx.Rollback()
		return nil, err
	}

	msg := fmt.Sprintf("Declined withdrawal #%d of %d for account %d, hold released", req.ID, req.Amount, req.UserID)
	if err := l.recordAdminAction(tx, adminID, msg); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit withdrawal decline: %w", err)
	}

	req.Status = models.StatusCancelled
	l.log.Info().Uint("request_id", req.ID).Uint("admin_id", adminID).Msg("Withdrawal declined, funds refunded")
	return &req, nil
}

// UserWithdrawals lists a user's withdrawal requests, newest first.
func (l *Ledger) UserWithdrawals(userID uint, limit, offset int) ([]models.WithdrawalRequest, error) {
	var reqs []models.WithdrawalRequest
	if err := l.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return reqs, nil
}

// PendingWithdrawals lists the admin approval queue, oldest first.
func (l *Ledger) PendingWithdrawals() ([]models.WithdrawalRequest, error) {
	var reqs []models.WithdrawalRequest
	if err := l.db.Where("status = ?", models.StatusPending).
		Preload("User").
		Order("created_at ASC").
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending withdrawals: %w", err)
	}
	return reqs, nil
}
