package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"bithired/middleware"
	"bithired/models"
	"bithired/utils"
)

func (h *Handlers) Redeem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req models.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	req.Code = strings.ToUpper(utils.SanitizeString(req.Code))
	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	amount, err := h.ledger.Redeem(req.Code, claims.UserID)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	balance, err := h.ledger.Balance(claims.UserID)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Code redeemed successfully",
		"amount":      amount,
		"new_balance": balance,
	})
}
