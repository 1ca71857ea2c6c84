package handlers

import (
	"io"

	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/services"
	"hospital-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminHandler handles signature management, account unlock and SMTP
// testing. All routes are admin-only.
type AdminHandler struct {
	DB      *gorm.DB
	Logger  *zap.Logger
	Mailer  *services.Mailer
	Lockout *services.LockoutService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *gorm.DB, logger *zap.Logger, mailer *services.Mailer, lockout *services.LockoutService) *AdminHandler {
	return &AdminHandler{DB: db, Logger: logger, Mailer: mailer, Lockout: lockout}
}

// UploadSignature stores a new signature image. The uploaded signature
// becomes active; the save hook deactivates every other one.
func (h *AdminHandler) UploadSignature(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "Signature image is required: "+err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.InternalServerError(c, "Failed to open uploaded image: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerError(c, "Failed to read uploaded image: "+err.Error())
		return
	}

	uploaderID, _ := middleware.GetUserIDFromContext(c)
	signature := models.AdminSignature{
		Label:      c.PostForm("label"),
		ImageData:  data,
		ImageType:  fileHeader.Header.Get("Content-Type"),
		IsActive:   true,
		UploadedBy: uploaderID,
	}

	if err := h.DB.Create(&signature).Error; err != nil {
		utils.InternalServerError(c, "Failed to store signature: "+err.Error())
		return
	}

	utils.Created(c, "Signature uploaded and activated", signature)
}

// GetSignatures lists all stored signatures.
func (h *AdminHandler) GetSignatures(c *gin.Context) {
	var signatures []models.AdminSignature
	if err := h.DB.Order("created_at desc").Find(&signatures).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch signatures: "+err.Error())
		return
	}
	utils.Success(c, "Signatures fetched successfully", signatures)
}

// ActivateSignature marks an existing signature as the active one.
func (h *AdminHandler) ActivateSignature(c *gin.Context) {
	signatureID := c.Param("id")

	var signature models.AdminSignature
	if err := h.DB.First(&signature, "id = ?", signatureID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Signature not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	signature.IsActive = true
	if err := h.DB.Save(&signature).Error; err != nil {
		utils.InternalServerError(c, "Failed to activate signature: "+err.Error())
		return
	}

	utils.Success(c, "Signature activated", signature)
}

// UnlockAccountRequest represents the request body for unlocking an account.
type UnlockAccountRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UnlockAccount clears the login lockout for an account.
func (h *AdminHandler) UnlockAccount(c *gin.Context) {
	var req UnlockAccountRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Lockout.Unlock(c.Request.Context(), req.Email); err != nil {
		utils.InternalServerError(c, "Failed to unlock account: "+err.Error())
		return
	}

	utils.Success(c, "Account unlocked successfully", nil)
}

// TestEmailRequest represents the request body for the SMTP test endpoint.
type TestEmailRequest struct {
	To string `json:"to" binding:"required,email"`
}

// SendTestEmail sends a test message to verify SMTP configuration.
func (h *AdminHandler) SendTestEmail(c *gin.Context) {
	var req TestEmailRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Mailer.SendTestEmail(req.To); err != nil {
		utils.InternalServerError(c, "Failed to send test email: "+err.Error())
		return
	}

	h.Logger.Info("test email sent", zap.String("to", req.To))
	utils.Success(c, "Test email sent successfully", nil)
}
