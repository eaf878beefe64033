package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"bithired/models"
	"bithired/utils"
)

const referralCodeLength = 8

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
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

	// Check if user already exists
	var existingUser models.User
	if err := h.db.Where("email = ? OR mobile_number = ?", req.Email, req.MobileNumber).First(&existingUser).Error; err == nil {
		sendError(w, http.StatusConflict, "User already exists", nil)
		return
	}

	// Resolve inviter, if a referral code was supplied
	var invitedBy *uint
	if req.ReferralCode != "" {
		var inviter models.User
		if err := h.db.Where("referral_code = ?", req.ReferralCode).First(&inviter).Error; err != nil {
			sendError(w, http.StatusBadRequest, "Unknown referral code", nil)
			return
		}
		invitedBy = &inviter.ID
	}

	// Determine if user should be admin
	isAdmin := false
	if req.AdminCode != "" {
		if req.AdminCode != h.config.AdminCode {
			sendError(w, http.StatusBadRequest, "Invalid admin code", nil)
			return
		}
		isAdmin = true
		h.log.Info().Str("email", req.Email).Msg("Admin user registered with admin code")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to hash password", nil)
		return
	}

	referralCode, err := utils.GenerateCode(referralCodeLength)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate referral code", nil)
		return
	}

	user := models.User{
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Password:     hashedPassword,
		DisplayName:  req.DisplayName,
		Balance:      0,
		ReferralCode: referralCode,
		InvitedBy:    invitedBy,
		IsActive:     true,
		IsAdmin:      isAdmin,
	}

	if err := h.db.Create(&user).Error; err != nil {
		h.log.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
		sendError(w, http.StatusInternalServerError, "Failed to create user", nil)
		return
	}

	h.log.Info().Uint("user_id", user.ID).Str("email", user.Email).Bool("is_admin", user.IsAdmin).Msg("User registered")

	user.Password = ""
	sendJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			sendError(w, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		sendError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if !user.IsActive {
		sendError(w, http.StatusForbidden, "Account is deactivated", nil)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		h.log.Error().Err(err).Str("email", req.Email).Msg("Failed to generate token")
		sendError(w, http.StatusInternalServerError, "Failed to generate token", nil)
		return
	}

	h.log.Info().Uint("user_id", user.ID).Bool("is_admin", user.IsAdmin).Msg("User logged in")

	user.Password = ""
	sendJSON(w, http.StatusOK, models.LoginResponse{
		Token: token,
		User:  user,
	})
}
