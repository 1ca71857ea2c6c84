package services

import (
	"errors"
	"fmt"
	"time"

	"hospital-records-server/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDoctorAvailable is returned when no doctor can take the appointment.
var ErrNoDoctorAvailable = errors.New("no suitable doctor available")

// DoctorAssigner picks a doctor for appointments created without one.
// Candidates are available doctors, preferring an exact specialty match,
// ranked by the number of open appointments they already carry.
type DoctorAssigner struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewDoctorAssigner creates a new DoctorAssigner.
func NewDoctorAssigner(db *gorm.DB, logger *zap.Logger) *DoctorAssigner {
	return &DoctorAssigner{DB: db, Logger: logger}
}

// AssignDoctor returns the least-loaded available doctor for the requested
// specialty. When no doctor of that specialty exists, any available doctor
// is considered. Returns ErrNoDoctorAvailable when there is no candidate at
// all.
func (a *DoctorAssigner) AssignDoctor(specialty string, startTime time.Time) (*models.User, error) {
	candidates, err := a.candidates(specialty)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 && specialty != "" {
		// Fall back to doctors of any specialty
		candidates, err = a.candidates("")
		if err != nil {
			return nil, err
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoDoctorAvailable
	}

	var best *models.User
	bestLoad := int64(-1)
	for i := range candidates {
		doctor := &candidates[i]
		load, err := a.openLoad(doctor.ID)
		if err != nil {
			return nil, err
		}
		if bestLoad < 0 || load < bestLoad {
			best = doctor
			bestLoad = load
		}
	}

	a.Logger.Info("doctor auto-assigned",
		zap.String("doctorId", best.ID),
		zap.String("specialty", best.Specialty),
		zap.Int64("openAppointments", bestLoad),
		zap.Time("startTime", startTime))
	return best, nil
}

func (a *DoctorAssigner) candidates(specialty string) ([]models.User, error) {
	query := a.DB.Where("role = ? AND is_available = ?", models.RoleDoctor, true)
	if specialty != "" {
		query = query.Where("specialty = ?", specialty)
	}
	var doctors []models.User
	if err := query.Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("failed to load doctors: %w", err)
	}
	return doctors, nil
}

func (a *DoctorAssigner) openLoad(doctorID string) (int64, error) {
	var count int64
	err := a.DB.Model(&models.Appointment{}).
		Where("doctor_id = ? AND status IN ?", doctorID,
			[]models.AppointmentStatus{models.StatusPending, models.StatusConfirmed, models.StatusRescheduled}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}
