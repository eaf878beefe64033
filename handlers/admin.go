package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"bithired/middleware"
	"bithired/models"
	"bithired/utils"
)

func requestID(r *http.Request) (uint, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid request id")
	}
	return uint(id), nil
}

func (h *Handlers) GetPendingDeposits(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.ledger.PendingDeposits()
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, deposits)
}

func (h *Handlers) ApproveDeposit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := requestID(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	deposit, err := h.ledger.ApproveDeposit(id, claims.UserID)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Deposit approved, balance credited",
		"deposit": deposit,
	})
}

func (h *Handlers) DeclineDeposit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := requestID(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	deposit, err := h.ledger.DeclineDeposit(id, claims.UserID)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Deposit declined",
		"deposit": deposit,
	})
}

func (h *Handlers) GetPendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.ledger.PendingWithdrawals()
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, withdrawals)
}

func (h *Handlers) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := requestID(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var req models.WithdrawalDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	req.AuthCode = strings.ToUpper(utils.SanitizeString(req.AuthCode))
	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	withdrawal, err := h.ledger.ApproveWithdrawal(id, claims.UserID, req.AuthCode)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Withdrawal approved, payout confirmed",
		"withdrawal": withdrawal,
	})
}

func (h *Handlers) DeclineWithdrawal(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := requestID(r)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var req models.WithdrawalDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	req.AuthCode = strings.ToUpper(utils.SanitizeString(req.AuthCode))
	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	withdrawal, err := h.ledger.DeclineWithdrawal(id, claims.UserID, req.AuthCode)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Withdrawal declined, hold released",
		"withdrawal": withdrawal,
	})
}

func (h *Handlers) GenerateCodes(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req models.GenerateCodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	codes, err := h.ledger.GenerateCodes(req.Count, req.Amount)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	if err := h.ledger.RecordAdminAction(claims.UserID,
		fmt.Sprintf("Generated %d redeem codes of %d each", len(codes), req.Amount)); err != nil {
		h.log.Error().Err(err).Msg("Failed to record code generation")
	}

	sendJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Codes generated",
		"codes":   codes,
	})
}

func (h *Handlers) GetCodes(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50)
	codes, err := h.ledger.ListCodes(limit, offset)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, codes)
}

// ConsumeCode retires an authorization code that was presented for a
// withdrawal decision. The decision gate itself never consumes codes.
func (h *Handlers) ConsumeCode(w http.ResponseWriter, r *http.Request) {
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

	if err := h.ledger.ConsumeCode(req.Code, claims.UserID); err != nil {
		h.sendLedgerError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]string{
		"message": "Code retired",
	})
}

func (h *Handlers) GetAdminLog(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50)

	var entries []models.AdminLogEntry
	if err := h.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch admin log", nil)
		return
	}

	sendJSON(w, http.StatusOK, entries)
}

// MarkLogRead marks admin log entries as read notifications. The entries
// themselves are append-only; only the read flag ever changes.
func (h *Handlers) MarkLogRead(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Model(&models.AdminLogEntry{}).
		Where("read = ?", false).
		Update("read", true).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to update admin log", nil)
		return
	}

	sendJSON(w, http.StatusOK, map[string]string{
		"message": "Notifications marked read",
	})
}

func (h *Handlers) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 20)

	var users []models.User
	if err := h.db.Select("id, email, mobile_number, display_name, balance, referral_code, invited_by, is_active, is_admin, created_at, updated_at").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch users", nil)
		return
	}

	sendJSON(w, http.StatusOK, users)
}
