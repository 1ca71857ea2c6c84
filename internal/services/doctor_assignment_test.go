package services

import (
	"testing"
	"time"

	"hospital-records-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))
	return db
}

func createDoctor(t *testing.T, db *gorm.DB, email, specialty string, available bool) *models.User {
	t.Helper()

	doctor := &models.User{
		Email:       email,
		FirstName:   "Doc",
		LastName:    "Tor",
		Role:        models.RoleDoctor,
		Specialty:   specialty,
		IsAvailable: available,
	}
	require.NoError(t, doctor.SetPassword("password123"))
	require.NoError(t, db.Create(doctor).Error)
	if !available {
		// The column default is true; force the value explicitly
		require.NoError(t, db.Model(doctor).Update("is_available", false).Error)
	}
	return doctor
}

func createOpenAppointments(t *testing.T, db *gorm.DB, doctorID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		appointment := models.Appointment{
			PatientID: "patient-id",
			DoctorID:  doctorID,
			StartTime: time.Now().Add(time.Duration(i+1) * time.Hour),
			EndTime:   time.Now().Add(time.Duration(i+1)*time.Hour + 30*time.Minute),
			Status:    models.StatusPending,
		}
		require.NoError(t, db.Create(&appointment).Error)
	}
}

func TestAssignDoctorPicksLeastLoaded(t *testing.T) {
	db := openTestDB(t)
	assigner := NewDoctorAssigner(db, zap.NewNop())

	busy := createDoctor(t, db, "busy@example.com", "cardiology", true)
	idle := createDoctor(t, db, "idle@example.com", "cardiology", true)
	createOpenAppointments(t, db, busy.ID, 3)
	createOpenAppointments(t, db, idle.ID, 1)

	assigned, err := assigner.AssignDoctor("cardiology", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, idle.ID, assigned.ID)
}

func TestAssignDoctorPrefersSpecialtyMatch(t *testing.T) {
	db := openTestDB(t)
	assigner := NewDoctorAssigner(db, zap.NewNop())

	cardiologist := createDoctor(t, db, "cardio@example.com", "cardiology", true)
	dermatologist := createDoctor(t, db, "derma@example.com", "dermatology", true)
	// The matching doctor is busier, but specialty match still wins
	createOpenAppointments(t, db, cardiologist.ID, 5)
	createOpenAppointments(t, db, dermatologist.ID, 0)

	assigned, err := assigner.AssignDoctor("cardiology", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, cardiologist.ID, assigned.ID)
}

func TestAssignDoctorFallsBackToAnySpecialty(t *testing.T) {
	db := openTestDB(t)
	assigner := NewDoctorAssigner(db, zap.NewNop())

	dermatologist := createDoctor(t, db, "derma@example.com", "dermatology", true)

	assigned, err := assigner.AssignDoctor("cardiology", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, dermatologist.ID, assigned.ID)
}

func TestAssignDoctorSkipsUnavailable(t *testing.T) {
	db := openTestDB(t)
	assigner := NewDoctorAssigner(db, zap.NewNop())

	createDoctor(t, db, "away@example.com", "cardiology", false)
	available := createDoctor(t, db, "here@example.com", "cardiology", true)

	assigned, err := assigner.AssignDoctor("cardiology", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, available.ID, assigned.ID)
}

func TestAssignDoctorNoCandidates(t *testing.T) {
	db := openTestDB(t)
	assigner := NewDoctorAssigner(db, zap.NewNop())

	_, err := assigner.AssignDoctor("cardiology", time.Now().Add(24*time.Hour))
	assert.ErrorIs(t, err, ErrNoDoctorAvailable)
}

func TestAssignDoctorIgnoresClosedAppointments(t *testing.T) {
	db := openTestDB(t)
	assigner := NewDoctorAssigner(db, zap.NewNop())

	first := createDoctor(t, db, "first@example.com", "cardiology", true)
	second := createDoctor(t, db, "second@example.com", "cardiology", true)
	createOpenAppointments(t, db, first.ID, 1)

	// Completed and cancelled appointments do not count toward load
	for _, status := range []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled} {
		appointment := models.Appointment{
			PatientID: "patient-id",
			DoctorID:  second.ID,
			StartTime: time.Now().Add(-time.Hour),
			EndTime:   time.Now().Add(-30 * time.Minute),
			Status:    status,
		}
		require.NoError(t, db.Create(&appointment).Error)
	}

	assigned, err := assigner.AssignDoctor("cardiology", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, second.ID, assigned.ID)
}
