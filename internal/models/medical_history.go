package models

import (
	"gorm.io/datatypes"
)

// MedicalHistory holds the per-patient health record. Exactly one row exists
// per patient; the list fields are stored as JSON columns.
type MedicalHistory struct {
	BaseModel
	PatientID       string         `gorm:"size:36;uniqueIndex;not null" json:"patientId"`
	BloodType       string         `gorm:"size:10" json:"bloodType,omitempty"`
	Conditions      datatypes.JSON `json:"conditions,omitempty"`
	Medications     datatypes.JSON `json:"medications,omitempty"`
	Allergies       datatypes.JSON `json:"allergies,omitempty"`
	FamilyHistory   datatypes.JSON `json:"familyHistory,omitempty"`
	SurgicalHistory datatypes.JSON `json:"surgicalHistory,omitempty"`
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Patient   User              `gorm:"foreignKey:PatientID" json:"-"`
	Documents []HistoryDocument `gorm:"foreignKey:MedicalHistoryID" json:"documents,omitempty"`
}

// HistoryDocument represents a file attached to a medical history (lab
// reports, discharge summaries and the like).
type HistoryDocument struct {
	BaseModel
	MedicalHistoryID string `gorm:"not null;type:varchar(36);index" json:"medicalHistoryId"`
	FileName         string `gorm:"not null" json:"fileName"`          // Original name of the file
	FileType         string `gorm:"not null" json:"fileType"`          // MIME type of the file
	FileData         []byte `gorm:"type:longblob;not null" json:"-"`   // File content as binary data (longblob for MySQL)
	UploadedBy       string `gorm:"size:36" json:"uploadedBy,omitempty"`
}
