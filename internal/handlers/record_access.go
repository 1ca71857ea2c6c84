package handlers

import (
	"time"

	"hospital-records-server/internal/config"
	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/services"
	"hospital-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecordTokenHeader carries the opaque access token on medical record reads.
const RecordTokenHeader = "X-Record-Token"

// Maximum wrong codes before the active OTP is discarded.
const maxOTPAttempts = 5

// RecordAccessHandler implements the OTP-gated medical record access flow:
// request a code, verify it once, then read the record summary with the
// minted access token.
type RecordAccessHandler struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *zap.Logger
	Mailer *services.Mailer
}

// NewRecordAccessHandler creates a new RecordAccessHandler.
func NewRecordAccessHandler(db *gorm.DB, cfg *config.Config, logger *zap.Logger, mailer *services.Mailer) *RecordAccessHandler {
	return &RecordAccessHandler{DB: db, Cfg: cfg, Logger: logger, Mailer: mailer}
}

func (h *RecordAccessHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &user, true
}

// RequestOTP issues a record access code and emails it to the account.
// Issuing a new code replaces any previous one, so at most one code is
// active per user.
func (h *RecordAccessHandler) RequestOTP(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		utils.InternalServerError(c, "Failed to generate access code: "+err.Error())
		return
	}

	now := time.Now()
	user.MedicalRecordOTP = otp
	user.MedicalRecordOTPCreatedAt = &now
	user.MedicalRecordOTPAttempts = 0
	if err := h.DB.Save(user).Error; err != nil {
		utils.InternalServerError(c, "Failed to store access code: "+err.Error())
		return
	}

	if err := h.Mailer.SendMedicalRecordOTP(user.Email, user.FirstName, otp); err != nil {
		utils.InternalServerError(c, "Failed to send access code email: "+err.Error())
		return
	}

	h.Logger.Info("medical record OTP issued", zap.String("userId", user.ID))
	utils.Success(c, "An access code has been emailed to you.", gin.H{
		"expiresInMinutes": h.Cfg.MedicalOTPExpiryMinutes,
	})
}

// VerifyOTPRequest represents the request body for verifying a record access code.
type VerifyOTPRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

// VerifyOTP validates the emailed code and mints the opaque record access
// token. The code is single use: success clears it, and too many wrong
// attempts discard it.
func (h *RecordAccessHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	window := time.Duration(h.Cfg.MedicalOTPExpiryMinutes) * time.Minute
	if !user.MedicalRecordOTPValid(req.Code, window) {
		user.MedicalRecordOTPAttempts++
		if user.MedicalRecordOTPAttempts >= maxOTPAttempts {
			user.ClearMedicalRecordOTP()
		}
		if err := h.DB.Save(user).Error; err != nil {
			utils.InternalServerError(c, "Database error: "+err.Error())
			return
		}
		utils.Unauthorized(c, "Invalid or expired access code")
		return
	}

	rawToken, err := utils.GenerateOpaqueToken()
	if err != nil {
		utils.InternalServerError(c, "Failed to generate access token: "+err.Error())
		return
	}

	// Consume the code and replace any previously issued token
	user.ClearMedicalRecordOTP()
	user.SetMedicalRecordToken(rawToken)
	if err := h.DB.Save(user).Error; err != nil {
		utils.InternalServerError(c, "Failed to store access token: "+err.Error())
		return
	}

	h.Logger.Info("medical record access token minted", zap.String("userId", user.ID))
	utils.Success(c, "Access code verified", gin.H{
		"recordToken":      rawToken,
		"expiresInMinutes": h.Cfg.RecordTokenExpiryMinutes,
	})
}

// RecordSummary is the medical record view returned to a verified patient.
type RecordSummary struct {
	Patient      models.UserSanitized   `json:"patient"`
	History      *models.MedicalHistory `json:"history,omitempty"`
	Medications  []models.Medication    `json:"medications"`
	Appointments []models.Appointment   `json:"appointments"`
}

// GetSummary returns the patient's medical record summary. The request must
// carry a record token that hashes to the stored value and is inside its
// lifetime; anything else is rejected.
func (h *RecordAccessHandler) GetSummary(c *gin.Context) {
	rawToken := c.GetHeader(RecordTokenHeader)
	if rawToken == "" {
		utils.Unauthorized(c, "Record access token required")
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	lifetime := time.Duration(h.Cfg.RecordTokenExpiryMinutes) * time.Minute
	if !user.MedicalRecordTokenValid(rawToken, lifetime) {
		utils.Unauthorized(c, "Record access token is invalid or has expired")
		return
	}

	var history models.MedicalHistory
	var historyPtr *models.MedicalHistory
	err := h.DB.Preload("Documents").Where("patient_id = ?", user.ID).First(&history).Error
	if err == nil {
		historyPtr = &history
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Failed to fetch medical history: "+err.Error())
		return
	}

	var medications []models.Medication
	if err := h.DB.Where("patient_id = ?", user.ID).Order("created_at desc").Find(&medications).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch medications: "+err.Error())
		return
	}

	var appointments []models.Appointment
	if err := h.DB.Where("patient_id = ?", user.ID).Order("start_time desc").Limit(20).Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Medical record summary fetched successfully", RecordSummary{
		Patient:      user.Sanitize(),
		History:      historyPtr,
		Medications:  medications,
		Appointments: appointments,
	})
}
