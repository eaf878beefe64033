package handlers

import (
	"encoding/json"
	"net/http"

	"bithired/middleware"
	"bithired/models"
	"bithired/utils"
)

func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	message := models.Message{
		UserID:    claims.UserID,
		FromAdmin: false,
		Body:      utils.SanitizeString(req.Body),
	}
	if err := h.db.Create(&message).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to send message", nil)
		return
	}

	sendJSON(w, http.StatusCreated, message)
}

func (h *Handlers) GetMessages(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	limit, offset := pagination(r, 50)
	var messages []models.Message
	if err := h.db.Where("user_id = ?", claims.UserID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch messages", nil)
		return
	}

	// Admin replies are considered read once the user fetches their thread
	h.db.Model(&models.Message{}).
		Where("user_id = ? AND from_admin = ? AND read = ?", claims.UserID, true, false).
		Update("read", true)

	sendJSON(w, http.StatusOK, messages)
}

// AdminGetMessages lists recent messages across all users for the admin inbox.
func (h *Handlers) AdminGetMessages(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50)
	var messages []models.Message
	if err := h.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch messages", nil)
		return
	}

	sendJSON(w, http.StatusOK, messages)
}

func (h *Handlers) AdminReply(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req models.AdminReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		sendError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	message := models.Message{
		UserID:    req.UserID,
		FromAdmin: true,
		Body:      utils.SanitizeString(req.Body),
	}
	if err := h.db.Create(&message).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to send reply", nil)
		return
	}

	// Messages the admin has replied to count as handled
	h.db.Model(&models.Message{}).
		Where("user_id = ? AND from_admin = ? AND read = ?", req.UserID, false, false).
		Update("read", true)

	sendJSON(w, http.StatusCreated, message)
}
