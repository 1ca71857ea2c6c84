package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"hospital-records-server/internal/config"
	"hospital-records-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testCertificateConfig() *config.Config {
	return &config.Config{
		Hospital: config.HospitalConfig{
			Name:    "General Hospital",
			Address: "1 Hospital Road",
			Phone:   "+1 555 0100",
			Email:   "info@hospital.example",
		},
	}
}

func signaturePNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 16))
	for x := 0; x < 40; x++ {
		img.Set(x, 8, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func storeActiveSignature(t *testing.T, db *gorm.DB) {
	t.Helper()
	sig := models.AdminSignature{
		Label:     "chief physician",
		ImageData: signaturePNG(t),
		ImageType: "image/png",
		IsActive:  true,
	}
	require.NoError(t, db.Create(&sig).Error)
}

func TestGenerateCertificate(t *testing.T) {
	db := openTestDB(t)
	storeActiveSignature(t, db)
	svc := NewCertificateService(db, testCertificateConfig(), zap.NewNop())

	pdfBytes, err := svc.Generate(CertificateData{
		PatientName:   "Alice Example",
		DoctorName:    "Dr. Bob Example",
		Diagnosis:     "Acute bronchitis",
		RestDays:      3,
		IssuedAt:      time.Now(),
		CertificateNo: "MC-20260826-abcd1234",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")), "output should be a PDF document")
}

func TestGenerateCertificateWithoutSignature(t *testing.T) {
	db := openTestDB(t)
	svc := NewCertificateService(db, testCertificateConfig(), zap.NewNop())

	_, err := svc.Generate(CertificateData{
		PatientName:   "Alice Example",
		DoctorName:    "Dr. Bob Example",
		IssuedAt:      time.Now(),
		CertificateNo: "MC-20260826-abcd1234",
	})
	assert.ErrorIs(t, err, ErrNoActiveSignature)
}

func TestGenerateCertificateUnsupportedImageType(t *testing.T) {
	db := openTestDB(t)
	sig := models.AdminSignature{
		Label:     "bad type",
		ImageData: []byte{1, 2, 3},
		ImageType: "image/tiff",
		IsActive:  true,
	}
	require.NoError(t, db.Create(&sig).Error)
	svc := NewCertificateService(db, testCertificateConfig(), zap.NewNop())

	_, err := svc.Generate(CertificateData{
		PatientName:   "Alice Example",
		DoctorName:    "Dr. Bob Example",
		IssuedAt:      time.Now(),
		CertificateNo: "MC-20260826-abcd1234",
	})
	assert.Error(t, err)
}
