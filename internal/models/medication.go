package models

import (
	"time"
)

// Medication represents a prescribed medication. The appointment link is
// optional; when the appointment is deleted the medication row survives with
// the link cleared (SET NULL).
type Medication struct {
	BaseModel
	PatientID     string     `gorm:"size:36;index" json:"patientId"`
	DoctorID      string     `gorm:"size:36;index" json:"doctorId"`
	AppointmentID *string    `gorm:"size:36;index" json:"appointmentId,omitempty"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	Dosage        string     `gorm:"size:100" json:"dosage"`
	Frequency     string     `gorm:"size:100" json:"frequency"`
	Instructions  string     `gorm:"type:text" json:"instructions,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`

	// Relations
	Patient     User         `gorm:"foreignKey:PatientID" json:"-"`
	Doctor      User         `gorm:"foreignKey:DoctorID" json:"-"`
	Appointment *Appointment `gorm:"foreignKey:AppointmentID;constraint:OnDelete:SET NULL" json:"-"`
}
