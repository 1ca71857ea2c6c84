package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MedicalHistoryHandler handles medical history related requests.
type MedicalHistoryHandler struct {
	DB *gorm.DB
}

// NewMedicalHistoryHandler creates a new MedicalHistoryHandler.
func NewMedicalHistoryHandler(db *gorm.DB) *MedicalHistoryHandler {
	return &MedicalHistoryHandler{DB: db}
}

// UpsertHistoryRequest represents the request body for creating or updating
// a patient's medical history. The list fields accept arbitrary JSON arrays.
type UpsertHistoryRequest struct {
	BloodType       string          `json:"bloodType"`
	Conditions      json.RawMessage `json:"conditions"`
	Medications     json.RawMessage `json:"medications"`
	Allergies       json.RawMessage `json:"allergies"`
	FamilyHistory   json.RawMessage `json:"familyHistory"`
	SurgicalHistory json.RawMessage `json:"surgicalHistory"`
	Notes           string          `json:"notes"`
}

// UpsertHistory creates or updates the medical history for a patient.
// Only doctors and admins.
func (h *MedicalHistoryHandler) UpsertHistory(c *gin.Context) {
	patientID := c.Param("patientId")

	var req UpsertHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	// Verify patient exists
	var patient models.User
	if err := h.DB.Where("id = ? AND role = ?", patientID, models.RolePatient).First(&patient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	var history models.MedicalHistory
	err := h.DB.Where("patient_id = ?", patientID).First(&history).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	created := err == gorm.ErrRecordNotFound
	if created {
		history = models.MedicalHistory{PatientID: patientID}
	}

	if req.BloodType != "" {
		history.BloodType = req.BloodType
	}
	if req.Conditions != nil {
		history.Conditions = datatypes.JSON(req.Conditions)
	}
	if req.Medications != nil {
		history.Medications = datatypes.JSON(req.Medications)
	}
	if req.Allergies != nil {
		history.Allergies = datatypes.JSON(req.Allergies)
	}
	if req.FamilyHistory != nil {
		history.FamilyHistory = datatypes.JSON(req.FamilyHistory)
	}
	if req.SurgicalHistory != nil {
		history.SurgicalHistory = datatypes.JSON(req.SurgicalHistory)
	}
	if req.Notes != "" {
		history.Notes = req.Notes
	}

	if err := h.DB.Save(&history).Error; err != nil {
		utils.InternalServerError(c, "Failed to save medical history: "+err.Error())
		return
	}

	if created {
		utils.Created(c, "Medical history created successfully", history)
	} else {
		utils.Success(c, "Medical history updated successfully", history)
	}
}

// GetHistory fetches a patient's medical history. Doctors and admins may
// fetch any patient; a patient reads their own record through the OTP-gated
// summary endpoint instead.
func (h *MedicalHistoryHandler) GetHistory(c *gin.Context) {
	patientID := c.Param("patientId")

	var history models.MedicalHistory
	if err := h.DB.Preload("Documents").Where("patient_id = ?", patientID).First(&history).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Medical history not found for this patient")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Medical history fetched successfully", history)
}

// UploadDocument attaches a file to a patient's medical history.
// Only doctors.
func (h *MedicalHistoryHandler) UploadDocument(c *gin.Context) {
	patientID := c.Param("patientId")

	var history models.MedicalHistory
	if err := h.DB.Where("patient_id = ?", patientID).First(&history).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Medical history not found for this patient")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "File is required: "+err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.InternalServerError(c, "Failed to open uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerError(c, "Failed to read uploaded file: "+err.Error())
		return
	}

	uploaderID, _ := middleware.GetUserIDFromContext(c)
	document := models.HistoryDocument{
		MedicalHistoryID: history.ID,
		FileName:         fileHeader.Filename,
		FileType:         fileHeader.Header.Get("Content-Type"),
		FileData:         data,
		UploadedBy:       uploaderID,
	}

	if err := h.DB.Create(&document).Error; err != nil {
		utils.InternalServerError(c, "Failed to store document: "+err.Error())
		return
	}

	utils.Created(c, "Document uploaded successfully", document)
}

// GetDocument streams a history document back to the caller. Accessible by
// the owning patient, doctors and admins.
func (h *MedicalHistoryHandler) GetDocument(c *gin.Context) {
	documentID := c.Param("documentId")

	var document models.HistoryDocument
	if err := h.DB.First(&document, "id = ?", documentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Document not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RolePatient {
		var history models.MedicalHistory
		if err := h.DB.First(&history, "id = ?", document.MedicalHistoryID).Error; err != nil {
			utils.InternalServerError(c, "Database error: "+err.Error())
			return
		}
		if history.PatientID != userID {
			utils.Forbidden(c, "You do not have access to this document")
			return
		}
	}

	c.Header("Content-Disposition", "attachment; filename=\""+document.FileName+"\"")
	c.Data(http.StatusOK, document.FileType, document.FileData)
}
