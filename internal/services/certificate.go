package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"hospital-records-server/internal/config"
	"hospital-records-server/internal/models"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoActiveSignature is returned when certificate generation is requested
// while no admin signature is active.
var ErrNoActiveSignature = errors.New("no active admin signature")

// CertificateData carries the fields printed on a medical certificate.
type CertificateData struct {
	PatientName   string
	DoctorName    string
	Diagnosis     string
	Remarks       string
	RestDays      int
	IssuedAt      time.Time
	CertificateNo string
}

// CertificateService renders PDF medical certificates on hospital
// letterhead, stamped with the active admin signature.
type CertificateService struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *zap.Logger
}

// NewCertificateService creates a new CertificateService.
func NewCertificateService(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *CertificateService {
	return &CertificateService{DB: db, Cfg: cfg, Logger: logger}
}

// Generate renders the certificate PDF and returns its bytes.
func (s *CertificateService) Generate(data CertificateData) ([]byte, error) {
	sig, err := models.ActiveSignature(s.DB)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSignature
		}
		return nil, fmt.Errorf("failed to load signature: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Letterhead
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, s.Cfg.Hospital.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if s.Cfg.Hospital.Address != "" {
		pdf.CellFormat(0, 5, s.Cfg.Hospital.Address, "", 1, "C", false, 0, "")
	}
	contact := strings.TrimSpace(strings.Join([]string{s.Cfg.Hospital.Phone, s.Cfg.Hospital.Email}, "  "))
	if contact != "" {
		pdf.CellFormat(0, 5, contact, "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)
	pdf.SetLineWidth(0.5)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "MEDICAL CERTIFICATE", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, "Certificate No: "+data.CertificateNo, "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	body := fmt.Sprintf(
		"This is to certify that %s was examined by %s on %s.",
		data.PatientName, data.DoctorName, data.IssuedAt.Format("January 2, 2006"))
	pdf.MultiCell(0, 6, body, "", "L", false)
	pdf.Ln(2)

	if data.Diagnosis != "" {
		pdf.MultiCell(0, 6, "Diagnosis: "+data.Diagnosis, "", "L", false)
		pdf.Ln(2)
	}
	if data.RestDays > 0 {
		pdf.MultiCell(0, 6, fmt.Sprintf(
			"The patient is advised to rest for %d day(s) from the date of issue.", data.RestDays),
			"", "L", false)
		pdf.Ln(2)
	}
	if data.Remarks != "" {
		pdf.MultiCell(0, 6, "Remarks: "+data.Remarks, "", "L", false)
		pdf.Ln(2)
	}

	// Signature block
	pdf.Ln(14)
	imageType, err := signatureImageType(sig.ImageType)
	if err != nil {
		return nil, err
	}
	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader("signature", opts, bytes.NewReader(sig.ImageData))
	x := 130.0
	pdf.ImageOptions("signature", x, pdf.GetY(), 50, 0, false, opts, 0, "")
	pdf.Ln(24)
	pdf.SetX(x)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(60, 5, data.DoctorName, "T", 1, "L", false, 0, "")
	pdf.SetX(x)
	pdf.CellFormat(60, 5, "Authorized Signatory", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}

	s.Logger.Info("certificate generated",
		zap.String("certificateNo", data.CertificateNo),
		zap.String("patient", data.PatientName))
	return buf.Bytes(), nil
}

func signatureImageType(mime string) (string, error) {
	switch mime {
	case "image/png":
		return "PNG", nil
	case "image/jpeg", "image/jpg":
		return "JPG", nil
	case "image/gif":
		return "GIF", nil
	default:
		return "", fmt.Errorf("unsupported signature image type: %s", mime)
	}
}
