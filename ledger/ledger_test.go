package ledger_test

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bithired/database"
	"bithired/ledger"
	"bithired/models"
	"bithired/utils"
)

func newTestLedger(t *testing.T, ceiling int64, accounts ...string) (*ledger.Ledger, *gorm.DB) {
	t.Helper()

	db, err := database.Initialize(":memory:")
	require.NoError(t, err)

	if len(accounts) == 0 {
		accounts = []string{"0700000000"}
	}
	return ledger.New(db, zerolog.Nop(), ceiling, accounts), db
}

var userSeq int

func newTestUser(t *testing.T, db *gorm.DB, balance int64) uint {
	t.Helper()

	userSeq++
	code, err := utils.GenerateCode(8)
	require.NoError(t, err)

	user := models.User{
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		MobileNumber: fmt.Sprintf("07%08d", userSeq),
		Password:     "x",
		DisplayName:  fmt.Sprintf("User %d", userSeq),
		Balance:      balance,
		ReferralCode: code,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func TestAdjustBalanceCommutes(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	deltas := []int64{500, -200, 1000, -750, 42}

	a := newTestUser(t, db, 10_000)
	for _, d := range deltas {
		require.NoError(t, l.AdjustBalance(db, a, d))
	}

	// same deltas, reversed order
	b := newTestUser(t, db, 10_000)
	for i := len(deltas) - 1; i >= 0; i-- {
		require.NoError(t, l.AdjustBalance(db, b, deltas[i]))
	}

	var sum int64
	for _, d := range deltas {
		sum += d
	}

	balA, err := l.Balance(a)
	require.NoError(t, err)
	balB, err := l.Balance(b)
	require.NoError(t, err)

	assert.Equal(t, int64(10_000)+sum, balA)
	assert.Equal(t, balA, balB)
}

func TestAdjustBalanceUnknownAccount(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	err := l.AdjustBalance(db, 9999, 100)
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestGenerateAndValidateCodes(t *testing.T) {
	l, _ := newTestLedger(t, 1_000_000)

	codes, err := l.GenerateCodes(5, 250_00)
	require.NoError(t, err)
	require.Len(t, codes, 5)

	for _, c := range codes {
		assert.Len(t, c.Code, 10)
		assert.False(t, c.Used)
		assert.Equal(t, int64(250_00), c.Amount)

		amount, err := l.ValidateCode(c.Code)
		require.NoError(t, err)
		assert.Equal(t, int64(250_00), amount)
	}

	// validation does not mutate
	amount, err := l.ValidateCode(codes[0].Code)
	require.NoError(t, err)
	assert.Equal(t, int64(250_00), amount)

	_, err = l.ValidateCode("NOSUCHCODE")
	assert.ErrorIs(t, err, ledger.ErrCodeNotFound)
}

func TestRedeemCreditsExactlyOnce(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	user := newTestUser(t, db, 0)

	codes, err := l.GenerateCodes(1, 500_00)
	require.NoError(t, err)
	code := codes[0].Code

	amount, err := l.Redeem(code, user)
	require.NoError(t, err)
	assert.Equal(t, int64(500_00), amount)

	balance, err := l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(500_00), balance)

	// second redemption fails and does not credit
	_, err = l.Redeem(code, user)
	assert.ErrorIs(t, err, ledger.ErrCodeAlreadyUsed)

	balance, err = l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(500_00), balance)

	// used flag is monotonic and attribution is set
	var rc models.RedeemCode
	require.NoError(t, db.First(&rc, "code = ?", code).Error)
	assert.True(t, rc.Used)
	require.NotNil(t, rc.UsedBy)
	assert.Equal(t, user, *rc.UsedBy)
	assert.NotNil(t, rc.UsedAt)
}

func TestConsumeCodeRetiresWithoutCredit(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	admin := newTestUser(t, db, 0)

	codes, err := l.GenerateCodes(1, 100_00)
	require.NoError(t, err)
	code := codes[0].Code

	require.NoError(t, l.ConsumeCode(code, admin))

	balance, err := l.Balance(admin)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	assert.ErrorIs(t, l.ConsumeCode(code, admin), ledger.ErrCodeAlreadyUsed)
	assert.ErrorIs(t, l.ConsumeCode("NOSUCHCODE", admin), ledger.ErrCodeNotFound)

	// retirement is audited
	var entries []models.AdminLogEntry
	require.NoError(t, db.Find(&entries).Error)
	assert.Len(t, entries, 1)
	assert.Equal(t, admin, entries[0].AdminID)
}

func TestSubmitDepositCeiling(t *testing.T) {
	l, db := newTestLedger(t, 5000_00, "0700000000")
	user := newTestUser(t, db, 0)

	_, err := l.SubmitDeposit(user, 3000_00, "0712345678", "QAB12CD34E")
	require.NoError(t, err)

	// second submission of the day would breach the ceiling
	_, err = l.SubmitDeposit(user, 3000_00, "0712345678", "QAB12CD34F")
	assert.ErrorIs(t, err, ledger.ErrDepositsDisabled)

	// counter unchanged and only one request exists
	var lim models.DailyDepositLimit
	require.NoError(t, db.First(&lim, "target_account = ?", "0700000000").Error)
	assert.Equal(t, int64(3000_00), lim.TotalAmount)

	var count int64
	require.NoError(t, db.Model(&models.DepositRequest{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitDepositRotatesTargets(t *testing.T) {
	l, db := newTestLedger(t, 5000_00, "0700000000", "0711111111")
	user := newTestUser(t, db, 0)

	first, err := l.SubmitDeposit(user, 5000_00, "0712345678", "QAB12CD34E")
	require.NoError(t, err)
	assert.Equal(t, "0700000000", first.TargetAccount)

	// first account saturated, submissions roll over to the next
	second, err := l.SubmitDeposit(user, 2000_00, "0712345678", "QAB12CD34F")
	require.NoError(t, err)
	assert.Equal(t, "0711111111", second.TargetAccount)
}

func TestApproveDepositCreditsOnce(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	user := newTestUser(t, db, 0)
	admin := newTestUser(t, db, 0)

	req, err := l.SubmitDeposit(user, 1500_00, "0712345678", "QAB12CD34E")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status)

	approved, err := l.ApproveDeposit(req.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, approved.Status)

	balance, err := l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(1500_00), balance)

	// approving again is an invalid transition and must not double-credit
	_, err = l.ApproveDeposit(req.ID, admin)
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)

	balance, err = l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(1500_00), balance)

	// declining a completed request is also invalid
	_, err = l.DeclineDeposit(req.ID, admin)
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)

	// the approval was audited
	var entries []models.AdminLogEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, admin, entries[0].AdminID)
}

func TestDeclineDepositNoBalanceEffect(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	user := newTestUser(t, db, 700_00)
	admin := newTestUser(t, db, 0)

	req, err := l.SubmitDeposit(user, 1500_00, "0712345678", "QAB12CD34E")
	require.NoError(t, err)

	declined, err := l.DeclineDeposit(req.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, declined.Status)

	balance, err := l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(700_00), balance)

	// cancelled never becomes completed
	_, err = l.ApproveDeposit(req.ID, admin)
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)
}

func TestApproveDepositUnknownRequest(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	admin := newTestUser(t, db, 0)

	_, err := l.ApproveDeposit(42, admin)
	assert.ErrorIs(t, err, ledger.ErrRequestNotFound)
}

func TestWithdrawalHoldAndRefund(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	user := newTestUser(t, db, 1000_00)
	admin := newTestUser(t, db, 0)

	codes, err := l.GenerateCodes(1, 100_00)
	require.NoError(t, err)
	authCode := codes[0].Code

	// submission places the hold immediately
	req, err := l.SubmitWithdrawal(user, 400_00, "0712345678")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status)

	balance, err := l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(600_00), balance)

	// decline releases exactly the held amount
	declined, err := l.DeclineWithdrawal(req.ID, admin, authCode)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, declined.Status)

	balance, err = l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(1000_00), balance)

	// the gate validates the code but does not consume it
	var rc models.RedeemCode
	require.NoError(t, db.First(&rc, "code = ?", authCode).Error)
	assert.False(t, rc.Used)
}

func TestApproveWithdrawalKeepsHold(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	user := newTestUser(t, db, 1000_00)
	admin := newTestUser(t, db, 0)

	codes, err := l.GenerateCodes(1, 100_00)
	require.NoError(t, err)

	req, err := l.SubmitWithdrawal(user, 400_00, "0712345678")
	require.NoError(t, err)

	approved, err := l.ApproveWithdrawal(req.ID, admin, codes[0].Code)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, approved.Status)

	// no balance movement on approval, the hold simply becomes final
	balance, err := l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(600_00), balance)

	// a second decision cannot re-enter the state machine or refund
	_, err = l.DeclineWithdrawal(req.ID, admin, codes[0].Code)
	assert.ErrorIs(t, err, ledger.ErrInvalidTransition)

	balance, err = l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(600_00), balance)
}

func TestWithdrawalAuthorizationGate(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	user := newTestUser(t, db, 1000_00)
	admin := newTestUser(t, db, 0)

	req, err := l.SubmitWithdrawal(user, 400_00, "0712345678")
	require.NoError(t, err)

	// nonexistent code
	_, err = l.ApproveWithdrawal(req.ID, admin, "NOSUCHCODE")
	assert.ErrorIs(t, err, ledger.ErrAuthorizationFailed)

	// used code
	codes, err := l.GenerateCodes(1, 100_00)
	require.NoError(t, err)
	require.NoError(t, l.ConsumeCode(codes[0].Code, admin))

	_, err = l.ApproveWithdrawal(req.ID, admin, codes[0].Code)
	assert.ErrorIs(t, err, ledger.ErrAuthorizationFailed)
	_, err = l.DeclineWithdrawal(req.ID, admin, codes[0].Code)
	assert.ErrorIs(t, err, ledger.ErrAuthorizationFailed)

	// the request stays pending and the hold stays in place
	var stored models.WithdrawalRequest
	require.NoError(t, db.First(&stored, req.ID).Error)
	assert.Equal(t, models.StatusPending, stored.Status)

	balance, err := l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(600_00), balance)
}

func TestSubmitWithdrawalInsufficientFunds(t *testing.T) {
	l, db := newTestLedger(t, 1_000_000)
	user := newTestUser(t, db, 300_00)

	_, err := l.SubmitWithdrawal(user, 400_00, "0712345678")
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	// nothing was held and no request was created
	balance, err := l.Balance(user)
	require.NoError(t, err)
	assert.Equal(t, int64(300_00), balance)

	var count int64
	require.NoError(t, db.Model(&models.WithdrawalRequest{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
