package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospital-records-server/internal/models"
	"hospital-records-server/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAppointmentRouter(db *gorm.DB, userID string, role models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAppointmentHandler(db, zap.NewNop(), services.NewDoctorAssigner(db, zap.NewNop()))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", role)
	})
	router.POST("/appointments", handler.CreateAppointment)
	router.DELETE("/appointments/:id", handler.DeleteAppointment)
	return router
}

func createTestDoctor(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	doctor := &models.User{
		Email:     email,
		FirstName: "Doc",
		LastName:  "Tor",
		Role:      models.RoleDoctor,
		Specialty: "general",
	}
	require.NoError(t, doctor.SetPassword("password123"))
	require.NoError(t, db.Create(doctor).Error)
	return doctor
}

func TestCreateAppointmentAutoAssignsDoctor(t *testing.T) {
	db := openTestDB(t)
	patient := createTestPatient(t, db, "patient@example.com")
	doctor := createTestDoctor(t, db, "doctor@example.com")
	router := newAppointmentRouter(db, patient.ID, models.RolePatient)

	w := postJSON(t, router, "/appointments", gin.H{
		"startTime": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"reason":    "annual checkup",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data models.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, doctor.ID, resp.Data.DoctorID)
	assert.True(t, resp.Data.AutoAssigned)
	assert.Equal(t, models.StatusPending, resp.Data.Status)
}

func TestCreateAppointmentNoDoctorAvailable(t *testing.T) {
	db := openTestDB(t)
	patient := createTestPatient(t, db, "patient@example.com")
	router := newAppointmentRouter(db, patient.ID, models.RolePatient)

	w := postJSON(t, router, "/appointments", gin.H{
		"startTime": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"reason":    "annual checkup",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No suitable doctor available")
}

func TestCreateAppointmentRejectsPastDate(t *testing.T) {
	db := openTestDB(t)
	patient := createTestPatient(t, db, "patient@example.com")
	createTestDoctor(t, db, "doctor@example.com")
	router := newAppointmentRouter(db, patient.ID, models.RolePatient)

	w := postJSON(t, router, "/appointments", gin.H{
		"startTime": time.Now().Add(-time.Hour).Format(time.RFC3339),
		"reason":    "annual checkup",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAppointmentRetainsMedications(t *testing.T) {
	db := openTestDB(t)
	patient := createTestPatient(t, db, "patient@example.com")
	doctor := createTestDoctor(t, db, "doctor@example.com")
	router := newAppointmentRouter(db, patient.ID, models.RolePatient)

	appointment := models.Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(24*time.Hour + 30*time.Minute),
		Reason:    "checkup",
	}
	require.NoError(t, db.Create(&appointment).Error)

	medication := models.Medication{
		PatientID:     patient.ID,
		DoctorID:      doctor.ID,
		AppointmentID: &appointment.ID,
		Name:          "Ibuprofen",
		Dosage:        "200mg",
		Frequency:     "as needed",
	}
	require.NoError(t, db.Create(&medication).Error)

	req := httptest.NewRequest(http.MethodDelete, "/appointments/"+appointment.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var deleted models.Appointment
	err := db.First(&deleted, "id = ?", appointment.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var reloaded models.Medication
	require.NoError(t, db.First(&reloaded, "id = ?", medication.ID).Error)
	assert.Nil(t, reloaded.AppointmentID, "medication link should be cleared, not the row deleted")
}
