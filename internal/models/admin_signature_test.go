package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func countActiveSignatures(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&AdminSignature{}).Where("is_active = ?", true).Count(&count).Error)
	return count
}

func TestAdminSignatureSingleActive(t *testing.T) {
	db := openTestDB(t)

	first := AdminSignature{Label: "first", ImageData: []byte{1}, ImageType: "image/png", IsActive: true}
	require.NoError(t, db.Create(&first).Error)
	assert.EqualValues(t, 1, countActiveSignatures(t, db))

	second := AdminSignature{Label: "second", ImageData: []byte{2}, ImageType: "image/png", IsActive: true}
	require.NoError(t, db.Create(&second).Error)

	assert.EqualValues(t, 1, countActiveSignatures(t, db))

	var reloaded AdminSignature
	require.NoError(t, db.First(&reloaded, "id = ?", first.ID).Error)
	assert.False(t, reloaded.IsActive, "previous signature should have been deactivated")

	active, err := ActiveSignature(db)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestAdminSignatureReactivateExisting(t *testing.T) {
	db := openTestDB(t)

	first := AdminSignature{Label: "first", ImageData: []byte{1}, ImageType: "image/png", IsActive: true}
	require.NoError(t, db.Create(&first).Error)
	second := AdminSignature{Label: "second", ImageData: []byte{2}, ImageType: "image/png", IsActive: true}
	require.NoError(t, db.Create(&second).Error)

	// Flip back to the first signature via a save, as the activate endpoint does
	var sig AdminSignature
	require.NoError(t, db.First(&sig, "id = ?", first.ID).Error)
	sig.IsActive = true
	require.NoError(t, db.Save(&sig).Error)

	assert.EqualValues(t, 1, countActiveSignatures(t, db))
	active, err := ActiveSignature(db)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)
}

func TestAdminSignatureInactiveSaveLeavesOthersAlone(t *testing.T) {
	db := openTestDB(t)

	active := AdminSignature{Label: "active", ImageData: []byte{1}, ImageType: "image/png", IsActive: true}
	require.NoError(t, db.Create(&active).Error)

	inactive := AdminSignature{Label: "inactive", ImageData: []byte{2}, ImageType: "image/png", IsActive: false}
	require.NoError(t, db.Create(&inactive).Error)

	assert.EqualValues(t, 1, countActiveSignatures(t, db))
	current, err := ActiveSignature(db)
	require.NoError(t, err)
	assert.Equal(t, active.ID, current.ID)
}

func TestActiveSignatureNotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := ActiveSignature(db)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
