package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicationSurvivesAppointmentDeletion(t *testing.T) {
	db := openTestDB(t)

	patient := createTestUser(t, db, "patient@example.com", RolePatient)
	doctor := createTestUser(t, db, "doctor@example.com", RoleDoctor)

	appointment := Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(24*time.Hour + 30*time.Minute),
		Reason:    "checkup",
	}
	require.NoError(t, db.Create(&appointment).Error)

	medication := Medication{
		PatientID:     patient.ID,
		DoctorID:      doctor.ID,
		AppointmentID: &appointment.ID,
		Name:          "Amoxicillin",
		Dosage:        "500mg",
		Frequency:     "3x daily",
	}
	require.NoError(t, db.Create(&medication).Error)

	// Clear the link and delete, as the appointment delete endpoint does
	require.NoError(t, db.Model(&Medication{}).
		Where("appointment_id = ?", appointment.ID).
		Update("appointment_id", nil).Error)
	require.NoError(t, db.Delete(&appointment).Error)

	var reloaded Medication
	require.NoError(t, db.First(&reloaded, "id = ?", medication.ID).Error)
	assert.Nil(t, reloaded.AppointmentID)
	assert.Equal(t, "Amoxicillin", reloaded.Name)
}
