package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bithired/ledger"
	"bithired/models"
)

var testMachine = models.Machine{
	Name:         "Antminer S19",
	HashRate:     "95 TH/s",
	Cost:         2000_00,
	DailyEarning: 100_00,
	DurationDays: 30,
}

func TestHireDebitsCost(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	user := newTestUser(t, db, 2500_00)

	rental, err := l.Hire(user, testMachine)
	require.NoError(t, err)
	assert.Equal(t, models.RentalActive, rental.Status)
	assert.Equal(t, int64(0), rental.Collected)

	balance, err := l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(500_00), balance)
}

func TestHireInsufficientFunds(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	user := newTestUser(t, db, 1999_99)

	_, err := l.Hire(user, testMachine)
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	balance, err := l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(1999_99), balance)

	var count int64
	require.NoError(t, db.Model(&models.Rental{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAccruedLinearAndCapped(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rental := &models.Rental{
		DailyEarning: 100_00,
		DurationDays: 30,
	}
	rental.CreatedAt = start

	assert.Equal(t, int64(0), ledger.Accrued(rental, start))
	assert.Equal(t, int64(0), ledger.Accrued(rental, start.Add(-time.Hour)))

	// half a day pays half the daily rate
	assert.Equal(t, int64(50_00), ledger.Accrued(rental, start.Add(12*time.Hour)))
	assert.Equal(t, int64(100_00), ledger.Accrued(rental, start.Add(24*time.Hour)))
	assert.Equal(t, int64(1000_00), ledger.Accrued(rental, start.Add(10*24*time.Hour)))

	// accrual stops at the contract duration
	assert.Equal(t, int64(3000_00), ledger.Accrued(rental, start.Add(30*24*time.Hour)))
	assert.Equal(t, int64(3000_00), ledger.Accrued(rental, start.Add(45*24*time.Hour)))

	assert.False(t, ledger.Matured(rental, start.Add(29*24*time.Hour)))
	assert.True(t, ledger.Matured(rental, start.Add(30*24*time.Hour)))
}

func TestCollectPaysDelta(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	user := newTestUser(t, db, 2000_00)

	rental, err := l.Hire(user, testMachine)
	require.NoError(t, err)

	// ten days in: full accrual is owed, nothing collected yet
	tenDays := rental.CreatedAt.Add(10 * 24 * time.Hour)
	payout, updated, err := l.Collect(rental.ID, user, tenDays)
	require.NoError(t, err)
	assert.Equal(t, int64(1000_00), payout)
	assert.Equal(t, int64(1000_00), updated.Collected)
	assert.Equal(t, models.RentalActive, updated.Status)

	balance, err := l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(1000_00), balance)

	// immediate re-collection pays only what accrued since
	payout, updated, err = l.Collect(rental.ID, user, tenDays)
	require.NoError(t, err)
	assert.Equal(t, int64(0), payout)
	assert.Equal(t, int64(1000_00), updated.Collected)

	// past maturity: remainder is paid and the rental closes
	afterEnd := rental.CreatedAt.Add(40 * 24 * time.Hour)
	payout, updated, err = l.Collect(rental.ID, user, afterEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(2000_00), payout)
	assert.Equal(t, int64(3000_00), updated.Collected)
	assert.Equal(t, models.RentalCompleted, updated.Status)

	balance, err = l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(3000_00), balance)
}

func TestCollectWrongUser(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	owner := newTestUser(t, db, 2000_00)
	other := newTestUser(t, db, 0)

	rental, err := l.Hire(owner, testMachine)
	require.NoError(t, err)

	_, _, err = l.Collect(rental.ID, other, time.Now())
	assert.ErrorIs(t, err, ledger.ErrRentalNotFound)
}
