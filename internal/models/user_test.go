package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndCheckPassword(t *testing.T) {
	user := User{}
	require.NoError(t, user.SetPassword("secret-password"))

	assert.NotEqual(t, "secret-password", user.Password)
	assert.True(t, user.CheckPassword("secret-password"))
	assert.False(t, user.CheckPassword("wrong-password"))
}

func TestSanitizeOmitsSecrets(t *testing.T) {
	now := time.Now()
	user := User{
		Email:            "patient@example.com",
		Password:         "hashed",
		MedicalRecordOTP: "123456",
		ResetToken:       "token",
		VerificationOTP:  "654321",
	}
	user.MedicalRecordOTPCreatedAt = &now

	sanitized := user.Sanitize()
	assert.Equal(t, "patient@example.com", sanitized.Email)
	// The sanitized struct has no secret-bearing fields at all; spot-check
	// the values that must survive
	assert.Equal(t, user.FirstName, sanitized.FirstName)
	assert.Equal(t, user.Role, sanitized.Role)
}

func TestMedicalRecordOTPValidity(t *testing.T) {
	window := 10 * time.Minute

	t.Run("no otp issued", func(t *testing.T) {
		user := User{}
		assert.False(t, user.MedicalRecordOTPValid("123456", window))
	})

	t.Run("matching code inside window", func(t *testing.T) {
		now := time.Now()
		user := User{MedicalRecordOTP: "123456", MedicalRecordOTPCreatedAt: &now}
		assert.True(t, user.MedicalRecordOTPValid("123456", window))
	})

	t.Run("wrong code inside window", func(t *testing.T) {
		now := time.Now()
		user := User{MedicalRecordOTP: "123456", MedicalRecordOTPCreatedAt: &now}
		assert.False(t, user.MedicalRecordOTPValid("654321", window))
	})

	t.Run("matching code outside window", func(t *testing.T) {
		issued := time.Now().Add(-window - time.Minute)
		user := User{MedicalRecordOTP: "123456", MedicalRecordOTPCreatedAt: &issued}
		assert.False(t, user.MedicalRecordOTPValid("123456", window))
	})
}

func TestClearMedicalRecordOTP(t *testing.T) {
	now := time.Now()
	user := User{
		MedicalRecordOTP:          "123456",
		MedicalRecordOTPCreatedAt: &now,
		MedicalRecordOTPAttempts:  3,
	}

	user.ClearMedicalRecordOTP()
	assert.Empty(t, user.MedicalRecordOTP)
	assert.Nil(t, user.MedicalRecordOTPCreatedAt)
	assert.Zero(t, user.MedicalRecordOTPAttempts)
}

func TestIssuingNewOTPReplacesPrevious(t *testing.T) {
	db := openTestDB(t)
	user := createTestUser(t, db, "patient@example.com", RolePatient)

	first := time.Now().Add(-time.Minute)
	user.MedicalRecordOTP = "111111"
	user.MedicalRecordOTPCreatedAt = &first
	require.NoError(t, db.Save(user).Error)

	second := time.Now()
	user.MedicalRecordOTP = "222222"
	user.MedicalRecordOTPCreatedAt = &second
	require.NoError(t, db.Save(user).Error)

	var reloaded User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, "222222", reloaded.MedicalRecordOTP)
	assert.False(t, reloaded.MedicalRecordOTPValid("111111", 10*time.Minute),
		"superseded code must no longer validate")
	assert.True(t, reloaded.MedicalRecordOTPValid("222222", 10*time.Minute))
}

func TestMedicalRecordTokenLifecycle(t *testing.T) {
	lifetime := 30 * time.Minute

	user := User{}
	assert.False(t, user.MedicalRecordTokenValid("anything", lifetime))

	user.SetMedicalRecordToken("raw-token-value")
	assert.NotEqual(t, "raw-token-value", user.MedicalRecordTokenHash, "only the hash may be stored")
	assert.Equal(t, HashRecordToken("raw-token-value"), user.MedicalRecordTokenHash)

	assert.True(t, user.MedicalRecordTokenValid("raw-token-value", lifetime))
	assert.False(t, user.MedicalRecordTokenValid("other-token", lifetime))

	expired := time.Now().Add(-lifetime - time.Second)
	user.MedicalRecordTokenCreatedAt = &expired
	assert.False(t, user.MedicalRecordTokenValid("raw-token-value", lifetime))
}

func TestVerificationOTPValidity(t *testing.T) {
	window := 30 * time.Minute
	issued := time.Now().Add(-5 * time.Minute)
	user := User{VerificationOTP: "987654", VerificationOTPCreatedAt: &issued}

	assert.True(t, user.VerificationOTPValid("987654", window))
	assert.False(t, user.VerificationOTPValid("000000", window))

	old := time.Now().Add(-window - time.Minute)
	user.VerificationOTPCreatedAt = &old
	assert.False(t, user.VerificationOTPValid("987654", window))
}
