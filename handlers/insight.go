package handlers

import (
	"net/http"

	"bithired/ledger"
)

// GetProjection returns the profit projection for one catalog machine,
// enriched with the live market rate when the feed is reachable.
func (h *Handlers) GetProjection(w http.ResponseWriter, r *http.Request) {
	machineName := r.URL.Query().Get("machine")
	machine, ok := findMachine(machineName)
	if !ok {
		h.sendLedgerError(w, ledger.ErrUnknownMachine)
		return
	}

	ctx := r.Context()

	spot, err := h.insight.SpotRate(ctx)
	if err != nil {
		// the projection still works from machine parameters alone
		h.log.Warn().Err(err).Msg("Market rate unavailable")
		spot = 0
	}

	projection, err := h.insight.ProjectProfit(ctx, machine, spot, nil)
	if err != nil {
		h.log.Error().Err(err).Str("machine", machine.Name).Msg("Projection request failed")
		sendError(w, http.StatusBadGateway, "Projection service unavailable", nil)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"machine":    machine,
		"spot_rate":  spot,
		"projection": projection,
	})
}
