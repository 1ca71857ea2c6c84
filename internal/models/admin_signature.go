package models

import (
	"gorm.io/gorm"
)

// AdminSignature holds a signature image stamped onto generated
// certificates. At most one row is active at a time; saving an active row
// deactivates every other row as part of the same persistence call.
type AdminSignature struct {
	BaseModel
	Label      string `gorm:"size:255" json:"label"`
	ImageData  []byte `gorm:"type:longblob;not null" json:"-"`
	ImageType  string `gorm:"size:100;not null" json:"imageType"` // MIME type of the image
	IsActive   bool   `gorm:"default:false;index" json:"isActive"`
	UploadedBy string `gorm:"size:36" json:"uploadedBy,omitempty"`
}

// BeforeSave deactivates all other signatures when this one is marked
// active, keeping the at-most-one-active invariant.
func (s *AdminSignature) BeforeSave(tx *gorm.DB) error {
	if !s.IsActive {
		return nil
	}
	return tx.Model(&AdminSignature{}).
		Where("id <> ?", s.ID).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

// ActiveSignature returns the currently active signature, if any.
func ActiveSignature(db *gorm.DB) (*AdminSignature, error) {
	var sig AdminSignature
	if err := db.Where("is_active = ?", true).First(&sig).Error; err != nil {
		return nil, err
	}
	return &sig, nil
}
