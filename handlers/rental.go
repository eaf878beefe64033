package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"bithired/config"
	"bithired/ledger"
	"bithired/middleware"
	"bithired/models"
	"bithired/utils"
)

// GetMachines lists the hireable catalog. Public route.
func (h *Handlers) GetMachines(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, config.Machines())
}

func findMachine(name string) (models.Machine, bool) {
	for _, m := range config.Machines() {
		if m.Name == name {
			return m, true
		}
	}
	return models.Machine{}, false
}

func (h *Handlers) HireMachine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req models.HireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	machine, ok := findMachine(req.Machine)
	if !ok {
		h.sendLedgerError(w, ledger.ErrUnknownMachine)
		return
	}

	rental, err := h.ledger.Hire(claims.UserID, machine)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Machine hired successfully",
		"rental":  rental,
	})
}

// rentalView decorates a rental with its live accrual figures.
type rentalView struct {
	models.Rental
	Accrued     int64 `json:"accrued"`
	Collectable int64 `json:"collectable"`
}

func (h *Handlers) GetRentals(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	rentals, err := h.ledger.UserRentals(claims.UserID)
	if err != nil {
		h.sendLedgerError(w, err)
		return
	}

	now := time.Now()
	views := make([]rentalView, 0, len(rentals))
	for i := range rentals {
		accrued := ledger.Accrued(&rentals[i], now)
		views = append(views, rentalView{
			Rental:      rentals[i],
			Accrued:     accrued,
			Collectable: accrued - rentals[i].Collected,
		})
	}

	sendJSON(w, http.StatusOK, views)
}

func (h *Handlers) CollectEarnings(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	rentalID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || rentalID <= 0 {
		sendError(w, http.StatusBadRequest, "Invalid rental id", nil)
		return
	}

	payout, rental, err := h.ledger.Collect(uint(rentalID), claims.UserID, time.Now())
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
		"message":     "Earnings collected",
		"payout":      payout,
		"rental":      rental,
		"new_balance": balance,
	})
}
