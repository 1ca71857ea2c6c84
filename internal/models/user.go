package models

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// User represents a user in the system
type User struct {
	BaseModel
	Email            string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password         string     `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName        string     `gorm:"size:100" json:"firstName"`
	LastName         string     `gorm:"size:100" json:"lastName"`
	Role             Role       `gorm:"size:20;default:'patient'" json:"role"`
	DateOfBirth      *time.Time `json:"dateOfBirth,omitempty"`
	PhoneNumber      string     `json:"phoneNumber,omitempty"`
	Address          string     `json:"address,omitempty"`
	IsVerified       bool       `gorm:"default:false" json:"isVerified"`
	ResetToken       string     `gorm:"size:255" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	// Doctor profile fields, used by the assignment service
	Specialty   string `gorm:"size:100" json:"specialty,omitempty"`
	IsAvailable bool   `gorm:"default:true" json:"isAvailable"`

	// Email verification OTP and its issue time
	VerificationOTP          string     `gorm:"size:10" json:"-"`
	VerificationOTPCreatedAt *time.Time `json:"-"`

	// Medical record access OTP. At most one is active per user; issuing a
	// new code overwrites the previous one.
	MedicalRecordOTP          string     `gorm:"size:10" json:"-"`
	MedicalRecordOTPCreatedAt *time.Time `json:"-"`
	MedicalRecordOTPAttempts  int        `gorm:"default:0" json:"-"`

	// Opaque record access token minted after OTP verification. Only the
	// SHA-256 of the token is stored.
	MedicalRecordTokenHash      string     `gorm:"size:64" json:"-"`
	MedicalRecordTokenCreatedAt *time.Time `json:"-"`

	// Relations (not always preloaded)
	RefreshTokens        []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	DoctorAppointments   []Appointment  `gorm:"foreignKey:DoctorID" json:"-"`
	PatientAppointments  []Appointment  `gorm:"foreignKey:PatientID" json:"-"`
	Medications          []Medication   `gorm:"foreignKey:PatientID" json:"-"`
	SentInteractions     []Interaction  `gorm:"foreignKey:SenderID" json:"-"`
	ReceivedInteractions []Interaction  `gorm:"foreignKey:ReceiverID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        Role       `json:"role"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Address     string     `json:"address,omitempty"`
	Specialty   string     `json:"specialty,omitempty"`
	IsVerified  bool       `json:"isVerified"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		DateOfBirth: u.DateOfBirth,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		Specialty:   u.Specialty,
		IsVerified:  u.IsVerified,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// HashRecordToken returns the hex SHA-256 of a raw record access token.
func HashRecordToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// VerificationOTPValid reports whether the given email verification code
// matches and is still inside the expiry window.
func (u *User) VerificationOTPValid(code string, window time.Duration) bool {
	if u.VerificationOTP == "" || u.VerificationOTPCreatedAt == nil {
		return false
	}
	if time.Since(*u.VerificationOTPCreatedAt) > window {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(u.VerificationOTP), []byte(code)) == 1
}

// MedicalRecordOTPValid reports whether the given record access code matches
// and is still inside the expiry window. A code older than the window is
// rejected regardless of whether it matches.
func (u *User) MedicalRecordOTPValid(code string, window time.Duration) bool {
	if u.MedicalRecordOTP == "" || u.MedicalRecordOTPCreatedAt == nil {
		return false
	}
	if time.Since(*u.MedicalRecordOTPCreatedAt) > window {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(u.MedicalRecordOTP), []byte(code)) == 1
}

// ClearMedicalRecordOTP invalidates the active record access code.
func (u *User) ClearMedicalRecordOTP() {
	u.MedicalRecordOTP = ""
	u.MedicalRecordOTPCreatedAt = nil
	u.MedicalRecordOTPAttempts = 0
}

// SetMedicalRecordToken stores the hash of a freshly minted access token,
// replacing any previous one.
func (u *User) SetMedicalRecordToken(raw string) {
	now := time.Now()
	u.MedicalRecordTokenHash = HashRecordToken(raw)
	u.MedicalRecordTokenCreatedAt = &now
}

// MedicalRecordTokenValid reports whether the presented raw token hashes to
// the stored value and is still inside its lifetime.
func (u *User) MedicalRecordTokenValid(raw string, lifetime time.Duration) bool {
	if u.MedicalRecordTokenHash == "" || u.MedicalRecordTokenCreatedAt == nil {
		return false
	}
	if time.Since(*u.MedicalRecordTokenCreatedAt) > lifetime {
		return false
	}
	hash := HashRecordToken(raw)
	return subtle.ConstantTimeCompare([]byte(u.MedicalRecordTokenHash), []byte(hash)) == 1
}
