package handlers

import (
	"time"

	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InteractionHandler handles patient-doctor messaging requests.
type InteractionHandler struct {
	DB *gorm.DB
}

// NewInteractionHandler creates a new InteractionHandler.
func NewInteractionHandler(db *gorm.DB) *InteractionHandler {
	return &InteractionHandler{DB: db}
}

// SendInteractionRequest represents the request body for sending a message.
type SendInteractionRequest struct {
	ReceiverID string `json:"receiverId" binding:"required,uuid"`
	Subject    string `json:"subject" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// SendInteraction handles sending a message between a patient and a doctor.
func (h *InteractionHandler) SendInteraction(c *gin.Context) {
	var req SendInteractionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	senderID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	senderRole, _ := middleware.GetUserRoleFromContext(c)

	var receiver models.User
	if err := h.DB.First(&receiver, "id = ?", req.ReceiverID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Receiver not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	// Patients talk to doctors, doctors talk to patients; admins to anyone
	if senderRole == models.RolePatient && receiver.Role != models.RoleDoctor {
		utils.Forbidden(c, "Patients can only message doctors")
		return
	}
	if senderRole == models.RoleDoctor && receiver.Role != models.RolePatient {
		utils.Forbidden(c, "Doctors can only message patients")
		return
	}

	interaction := models.Interaction{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Subject:    req.Subject,
		Content:    req.Content,
	}

	if err := h.DB.Create(&interaction).Error; err != nil {
		utils.InternalServerError(c, "Failed to send message: "+err.Error())
		return
	}

	utils.Created(c, "Message sent successfully", interaction)
}

// GetInteractionsForUser handles fetching messages involving the logged-in
// user, optionally filtered to a single correspondent via ?with=<userId>.
func (h *InteractionHandler) GetInteractionsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	query := h.DB.Preload("Sender").Preload("Receiver").Order("created_at desc")

	withID := c.Query("with")
	if withID != "" {
		query = query.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, withID, withID, userID)
	} else {
		query = query.Where("sender_id = ? OR receiver_id = ?", userID, userID)
	}

	var interactions []models.Interaction
	if err := query.Find(&interactions).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch messages: "+err.Error())
		return
	}

	utils.Success(c, "Messages fetched successfully", interactions)
}

// MarkInteractionRead marks a received message as read.
func (h *InteractionHandler) MarkInteractionRead(c *gin.Context) {
	interactionID := c.Param("id")

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var interaction models.Interaction
	if err := h.DB.First(&interaction, "id = ?", interactionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Message not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if interaction.ReceiverID != userID {
		utils.Forbidden(c, "Only the receiver can mark a message as read")
		return
	}

	if !interaction.IsRead {
		now := time.Now()
		interaction.IsRead = true
		interaction.ReadAt = &now
		if err := h.DB.Save(&interaction).Error; err != nil {
			utils.InternalServerError(c, "Failed to update message: "+err.Error())
			return
		}
	}

	utils.Success(c, "Message marked as read", interaction)
}
