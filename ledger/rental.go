package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bithired/models"
)

// Hire debits the machine cost and opens an active rental, atomically.
func (l *Ledger) Hire(userID uint, machine models.Machine) (*models.Rental, error) {
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

	if user.Balance < machine.Cost {
		tx.Rollback()
		return nil, ErrInsufficientFunds
	}

	if err := l.AdjustBalance(tx, userID, -machine.Cost); err != nil {
		tx.Rollback()
		return nil, err
	}

	rental := models.Rental{
		UserID:       userID,
		Machine:      machine.Name,
		Cost:         machine.Cost,
		DailyEarning: machine.DailyEarning,
		DurationDays: machine.DurationDays,
		Status:       models.RentalActive,
	}
	if err := tx.Create(&rental).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create rental: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit hire: %w", err)
	}

	l.log.Info().Uint("user_id", userID).Str("machine", machine.Name).Int64("cost", machine.Cost).Msg("Machine hired")
	return &rental, nil
}

// Accrued returns the simulated earnings of a rental at the given instant:
// the daily rate interpolated linearly over elapsed time, capped at the
// contract duration. Fractional days are paid pro rata, rounded down to
// minor units.
func Accrued(r *models.Rental, now time.Time) int64 {
	elapsed := now.Sub(r.CreatedAt)
	if elapsed <= 0 {
		return 0
	}

	days := decimal.NewFromFloat(elapsed.Hours()).Div(decimal.NewFromInt(24))
	maxDays := decimal.NewFromInt(int64(r.DurationDays))
	if days.GreaterThan(maxDays) {
		days = maxDays
	}

	return decimal.NewFromInt(r.DailyEarning).Mul(days).IntPart()
}

// Matured reports whether the rental's contract period has fully elapsed.
func Matured(r *models.Rental, now time.Time) bool {
	return now.Sub(r.CreatedAt) >= time.Duration(r.DurationDays)*24*time.Hour
}

// Collect credits the earnings accrued since the last collection and records
// the new collected total. A matured rental is closed in the same transaction.
func (l *Ledger) Collect(rentalID, userID uint, now time.Time) (int64, *models.Rental, error) {
	var rental models.Rental

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Error; err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := tx.Where("id = ? AND user_id = ?", rentalID, userID).First(&rental).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return 0, nil, ErrRentalNotFound
		}
		return 0, nil, fmt.Errorf("failed to load rental: %w", err)
	}

	accrued := Accrued(&rental, now)
	payout := accrued - rental.Collected
	if payout < 0 {
		payout = 0
	}

	updates := map[string]interface{}{"collected": rental.Collected + payout}
	if Matured(&rental, now) {
		updates["status"] = models.RentalCompleted
	}

	if err := tx.Model(&models.Rental{}).Where("id = ?", rental.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		return 0, nil, fmt.Errorf("failed to update rental: %w", err)
	}

	if payout > 0 {
		if err := l.AdjustBalance(tx, userID, payout); err != nil {
			tx.Rollback()
			return 0, nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, nil, fmt.Errorf("failed to commit collection: %w", err)
	}

	rental.Collected += payout
	if status, ok := updates["status"]; ok {
		rental.Status = status.(string)
	}

	if payout > 0 {
		l.log.Info().Uint("rental_id", rental.ID).Uint("user_id", userID).Int64("payout", payout).Msg("Earnings collected")
	}
	return payout, &rental, nil
}

// UserRentals lists a user's rentals, newest first.
func (l *Ledger) UserRentals(userID uint) ([]models.Rental, error) {
	var rentals []models.Rental
	if err := l.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rentals).Error; err != nil {
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}
	return rentals, nil
}
