package handlers

import (
	"time"

	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MedicationHandler handles prescription related requests.
type MedicationHandler struct {
	DB *gorm.DB
}

// NewMedicationHandler creates a new MedicationHandler.
func NewMedicationHandler(db *gorm.DB) *MedicationHandler {
	return &MedicationHandler{DB: db}
}

// CreateMedicationRequest represents the request body for prescribing a medication.
type CreateMedicationRequest struct {
	PatientID     string     `json:"patientId" binding:"required,uuid"`
	AppointmentID string     `json:"appointmentId" binding:"omitempty,uuid"`
	Name          string     `json:"name" binding:"required"`
	Dosage        string     `json:"dosage" binding:"required"`
	Frequency     string     `json:"frequency" binding:"required"`
	Instructions  string     `json:"instructions"`
	StartDate     *time.Time `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
}

// CreateMedication handles prescribing a medication. Only doctors.
func (h *MedicationHandler) CreateMedication(c *gin.Context) {
	var req CreateMedicationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Doctor ID not found in token")
		return
	}

	// Verify patient exists
	var patient models.User
	if err := h.DB.Where("id = ? AND role = ?", req.PatientID, models.RolePatient).First(&patient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	var appointmentID *string
	if req.AppointmentID != "" {
		var appointment models.Appointment
		if err := h.DB.First(&appointment, "id = ?", req.AppointmentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFound(c, "Appointment not found")
			} else {
				utils.InternalServerError(c, "Database error verifying appointment: "+err.Error())
			}
			return
		}
		if appointment.PatientID != req.PatientID {
			utils.BadRequest(c, "Appointment does not belong to this patient")
			return
		}
		appointmentID = &req.AppointmentID
	}

	medication := models.Medication{
		PatientID:     req.PatientID,
		DoctorID:      doctorID,
		AppointmentID: appointmentID,
		Name:          req.Name,
		Dosage:        req.Dosage,
		Frequency:     req.Frequency,
		Instructions:  req.Instructions,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}

	if err := h.DB.Create(&medication).Error; err != nil {
		utils.InternalServerError(c, "Failed to create medication: "+err.Error())
		return
	}

	utils.Created(c, "Medication prescribed successfully", medication)
}

// GetMedicationsForUser handles fetching medications for the logged-in user.
// Patients see their own prescriptions, doctors the ones they issued.
func (h *MedicationHandler) GetMedicationsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var medications []models.Medication
	var err error

	query := h.DB.Order("created_at desc")
	switch userRole {
	case models.RolePatient:
		err = query.Where("patient_id = ?", userID).Find(&medications).Error
	case models.RoleDoctor:
		err = query.Where("doctor_id = ?", userID).Find(&medications).Error
	case models.RoleAdmin:
		err = query.Find(&medications).Error
	default:
		utils.Forbidden(c, "User role not permitted to view medications")
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch medications: "+err.Error())
		return
	}

	utils.Success(c, "Medications fetched successfully", medications)
}

// GetMedicationsForPatient handles a doctor or admin fetching a patient's medications.
func (h *MedicationHandler) GetMedicationsForPatient(c *gin.Context) {
	patientID := c.Param("patientId")

	var medications []models.Medication
	if err := h.DB.Where("patient_id = ?", patientID).Order("created_at desc").Find(&medications).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch medications: "+err.Error())
		return
	}

	utils.Success(c, "Medications fetched successfully", medications)
}
