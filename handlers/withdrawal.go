package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bithired/middleware"
	"bithired/models"
	"bithired/utils"
)

func (h *Handlers) SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req models.SubmitWithdrawalRequest
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

	withdrawal, err := h.ledger.SubmitWithdrawal(claims.UserID, req.Amount, req.MobileNumber)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	h.notifier.NotifyAdmin(fmt.Sprintf("New withdrawal request #%d: %d to %s from user %d",
		withdrawal.ID, withdrawal.Amount, withdrawal.MobileNumber, claims.UserID))

	sendJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Withdrawal request submitted, amount held pending review",
		"withdrawal": withdrawal,
	})
}

func (h *Handlers) GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	limit, offset := pagination(r, 20)
	withdrawals, err := h.ledger.UserWithdrawals(claims.UserID, limit, offset)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, withdrawals)
}
