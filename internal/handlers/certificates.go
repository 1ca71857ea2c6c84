package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/services"
	"hospital-records-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CertificateHandler handles PDF medical certificate generation.
type CertificateHandler struct {
	DB           *gorm.DB
	Certificates *services.CertificateService
}

// NewCertificateHandler creates a new CertificateHandler.
func NewCertificateHandler(db *gorm.DB, certificates *services.CertificateService) *CertificateHandler {
	return &CertificateHandler{DB: db, Certificates: certificates}
}

// GenerateCertificateRequest represents the request body for generating a certificate.
type GenerateCertificateRequest struct {
	PatientID string `json:"patientId" binding:"required,uuid"`
	Diagnosis string `json:"diagnosis"`
	Remarks   string `json:"remarks"`
	RestDays  int    `json:"restDays" binding:"omitempty,min=0,max=365"`
}

// GenerateCertificate renders a medical certificate PDF for a patient and
// streams it back. Only doctors and admins.
func (h *CertificateHandler) GenerateCertificate(c *gin.Context) {
	var req GenerateCertificateRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	issuerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var issuer models.User
	if err := h.DB.First(&issuer, "id = ?", issuerID).Error; err != nil {
		utils.InternalServerError(c, "Failed to load issuing user: "+err.Error())
		return
	}

	var patient models.User
	if err := h.DB.Where("id = ? AND role = ?", req.PatientID, models.RolePatient).First(&patient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	now := time.Now()
	data := services.CertificateData{
		PatientName:   patient.FirstName + " " + patient.LastName,
		DoctorName:    "Dr. " + issuer.FirstName + " " + issuer.LastName,
		Diagnosis:     req.Diagnosis,
		Remarks:       req.Remarks,
		RestDays:      req.RestDays,
		IssuedAt:      now,
		CertificateNo: fmt.Sprintf("MC-%s-%s", now.Format("20060102"), patient.ID[:8]),
	}

	pdfBytes, err := h.Certificates.Generate(data)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSignature) {
			utils.Conflict(c, "No active admin signature is configured; upload one before generating certificates")
		} else {
			utils.InternalServerError(c, "Failed to generate certificate: "+err.Error())
		}
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"certificate-%s.pdf\"", data.CertificateNo))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
