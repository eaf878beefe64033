package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bithired/middleware"
	"bithired/models"
	"bithired/utils"
)

// GetDepositTarget tells the client where to send the M-PESA payment today.
func (h *Handlers) GetDepositTarget(w http.ResponseWriter, r *http.Request) {
	target, err := h.ledger.CurrentTarget()
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"target_account": target,
	})
}

func (h *Handlers) SubmitDeposit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req models.SubmitDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	if !utils.ValidateMobileNumber(req.MobileNumber) {
		sendError(w, http.StatusBadRequest, "Invalid mobile number format", nil)
		return
	}

	transactionCode := utils.SanitizeString(req.TransactionCode)
	if transactionCode == "" {
		// manual confirmations sometimes arrive before the M-PESA SMS;
		// fall back to an internal reference
		transactionCode = h.generateReference()
	} else if !utils.ValidateTransactionCode(transactionCode) {
		sendError(w, http.StatusBadRequest, "Invalid M-PESA transaction code", nil)
		return
	}

	deposit, err := h.ledger.SubmitDeposit(claims.UserID, req.Amount, req.MobileNumber, transactionCode)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	h.notifier.NotifyAdmin(fmt.Sprintf("New deposit request #%d: %d from user %d (%s)",
		deposit.ID, deposit.Amount, claims.UserID, deposit.MobileNumber))

	sendJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Deposit request submitted, awaiting confirmation",
		"deposit": deposit,
	})
}

func (h *Handlers) GetDeposits(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	limit, offset := pagination(r, 20)
	deposits, err := h.ledger.UserDeposits(claims.UserID, limit, offset)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, deposits)
}
