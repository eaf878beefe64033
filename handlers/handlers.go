package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"bithired/config"
	"bithired/insight"
	"bithired/ledger"
	"bithired/notifier"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Status    int         `json:"status"`
	Error     string      `json:"error"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// sendError sends a standardized error response
func sendError(w http.ResponseWriter, status int, err string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:    status,
		Error:     err,
		Details:   details,
		Timestamp: time.Now(),
	})
}

func sendJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type Handlers struct {
	db       *gorm.DB
	config   *config.Config
	ledger   *ledger.Ledger
	insight  *insight.Client
	notifier *notifier.Notifier
	log      zerolog.Logger
}

func NewHandlers(db *gorm.DB, cfg *config.Config, l *ledger.Ledger, ai *insight.Client, n *notifier.Notifier, log zerolog.Logger) *Handlers {
	return &Handlers{
		db:       db,
		config:   cfg,
		ledger:   l,
		insight:  ai,
		notifier: n,
		log:      log,
	}
}

// generateReference generates a unique transaction reference
func (h *Handlers) generateReference() string {
	return uuid.New().String()
}

func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "BitHired",
		"version":   "1.0.0",
	})
}

// sendLedgerError maps workflow errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message.
func (h *Handlers) sendLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrDepositsDisabled):
		sendError(w, http.StatusForbidden, "Deposits are currently disabled for today", nil)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		sendError(w, http.StatusBadRequest, "Insufficient funds", nil)
	case errors.Is(err, ledger.ErrCodeNotFound), errors.Is(err, ledger.ErrCodeAlreadyUsed):
		sendError(w, http.StatusBadRequest, "Invalid redeem code", nil)
	case errors.Is(err, ledger.ErrAuthorizationFailed):
		sendError(w, http.StatusForbidden, "Authorization code rejected", nil)
	case errors.Is(err, ledger.ErrInvalidTransition):
		sendError(w, http.StatusConflict, "Request already processed", nil)
	case errors.Is(err, ledger.ErrRequestNotFound),
		errors.Is(err, ledger.ErrRentalNotFound),
		errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrUnknownMachine):
		sendError(w, http.StatusNotFound, err.Error(), nil)
	default:
		h.log.Error().Err(err).Msg("Unhandled ledger error")
		sendError(w, http.StatusInternalServerError, "Internal error", nil)
	}
}

// pagination reads page/limit query params with the usual clamps.
func pagination(r *http.Request, defaultLimit int) (limit, offset int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	return limit, (page - 1) * limit
}
