package handlers

import (
	"errors"
	"time"

	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/services"
	"hospital-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Assigner *services.DoctorAssigner
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, logger *zap.Logger, assigner *services.DoctorAssigner) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Logger: logger, Assigner: assigner}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
// DoctorID is optional; when absent a doctor is assigned automatically.
type CreateAppointmentRequest struct {
	DoctorID  string    `json:"doctorId" binding:"omitempty,uuid"`
	Specialty string    `json:"specialty"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime"`
	Reason    string    `json:"reason" binding:"required"`
	Notes     string    `json:"notes"`
}

// CreateAppointment handles creating a new appointment.
// Typically initiated by a patient.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient ID not found in token")
		return
	}

	if req.StartTime.Before(time.Now()) {
		utils.BadRequest(c, "Appointment date must be in the future.")
		return
	}

	autoAssigned := false
	doctorID := req.DoctorID
	if doctorID == "" {
		doctor, err := h.Assigner.AssignDoctor(req.Specialty, req.StartTime)
		if err != nil {
			if errors.Is(err, services.ErrNoDoctorAvailable) {
				utils.BadRequest(c, "No suitable doctor available")
			} else {
				h.Logger.Error("doctor assignment failed", zap.Error(err))
				utils.ServiceUnavailable(c, "Doctor assignment service is currently unavailable")
			}
			return
		}
		doctorID = doctor.ID
		autoAssigned = true
	} else {
		// Verify the chosen doctor exists and is a doctor
		var doctor models.User
		if err := h.DB.Where("id = ? AND role = ?", doctorID, models.RoleDoctor).First(&doctor).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFound(c, "Doctor not found or user is not a doctor")
			} else {
				utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
			}
			return
		}
	}

	endTime := req.EndTime
	if endTime.IsZero() {
		endTime = req.StartTime.Add(30 * time.Minute)
	}

	appointment := models.Appointment{
		PatientID:    patientID,
		DoctorID:     doctorID,
		StartTime:    req.StartTime,
		EndTime:      endTime,
		Reason:       req.Reason,
		Notes:        req.Notes,
		Status:       models.StatusPending,
		AutoAssigned: autoAssigned,
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointmentsForUser handles fetching appointments for the logged-in user (patient or doctor).
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	userRole, _ := middleware.GetUserRoleFromContext(c)

	var appointments []models.Appointment
	var err error

	query := h.DB.Preload("Patient").Preload("Doctor").Order("start_time asc")

	switch userRole {
	case models.RolePatient:
		err = query.Where("patient_id = ?", userID).Find(&appointments).Error
	case models.RoleDoctor:
		err = query.Where("doctor_id = ?", userID).Find(&appointments).Error
	case models.RoleAdmin: // Admins can see all appointments
		err = query.Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments this way.")
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

func (h *AppointmentHandler) loadAppointmentForUser(c *gin.Context) (*models.Appointment, bool) {
	appointmentID := c.Param("id")

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var appointment models.Appointment
	if err := h.DB.Preload("Patient").Preload("Doctor").First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}

	// Only the involved patient, the involved doctor, or an admin may act
	if userRole != models.RoleAdmin && appointment.PatientID != userID && appointment.DoctorID != userID {
		utils.Forbidden(c, "You do not have access to this appointment")
		return nil, false
	}

	return &appointment, true
}

// GetAppointmentByID handles fetching a single appointment.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, ok := h.loadAppointmentForUser(c)
	if !ok {
		return
	}
	utils.Success(c, "Appointment fetched successfully", appointment)
}

// UpdateStatusRequest represents the request body for an appointment status change.
type UpdateStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed cancelled completed rescheduled"`
}

// UpdateAppointmentStatus handles status transitions. Patients may only
// cancel their own appointments.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, ok := h.loadAppointmentForUser(c)
	if !ok {
		return
	}

	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RolePatient && req.Status != models.StatusCancelled {
		utils.Forbidden(c, "Patients may only cancel appointments")
		return
	}

	appointment.Status = req.Status
	if err := h.DB.Save(appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment status updated successfully", appointment)
}

// RescheduleRequest represents the request body for rescheduling an appointment.
type RescheduleRequest struct {
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime"`
}

// RescheduleAppointment moves an appointment to a new time slot.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, ok := h.loadAppointmentForUser(c)
	if !ok {
		return
	}

	if req.StartTime.Before(time.Now()) {
		utils.BadRequest(c, "Appointment date must be in the future.")
		return
	}

	endTime := req.EndTime
	if endTime.IsZero() {
		endTime = req.StartTime.Add(appointment.EndTime.Sub(appointment.StartTime))
	}

	appointment.StartTime = req.StartTime
	appointment.EndTime = endTime
	appointment.Status = models.StatusRescheduled
	if err := h.DB.Save(appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to reschedule appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", appointment)
}

// DeleteAppointment removes an appointment. Linked medications are retained
// with the appointment link cleared.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	appointment, ok := h.loadAppointmentForUser(c)
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Medication{}).
			Where("appointment_id = ?", appointment.ID).
			Update("appointment_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(appointment).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment deleted successfully", nil)
}
