package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"bithired/middleware"
	"bithired/models"
	"bithired/utils"
)

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			sendError(w, http.StatusNotFound, "User not found", nil)
			return
		}
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	// Count direct referrals for the profile card
	var referrals int64
	h.db.Model(&models.User{}).Where("invited_by = ?", user.ID).Count(&referrals)

	user.Password = ""
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"user":      user,
		"referrals": referrals,
	})
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req struct {
		DisplayName  string `json:"display_name"`
		MobileNumber string `json:"mobile_number"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if req.MobileNumber != "" && !utils.ValidateMobileNumber(req.MobileNumber) {
		sendError(w, http.StatusBadRequest, "Invalid mobile number format", nil)
		return
	}

	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		sendError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	if req.DisplayName != "" {
		user.DisplayName = utils.SanitizeString(req.DisplayName)
	}
	if req.MobileNumber != "" {
		user.MobileNumber = req.MobileNumber
	}

	if err := h.db.Save(&user).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to update profile", nil)
		return
	}

	user.Password = ""
	sendJSON(w, http.StatusOK, user)
}
