package services

import (
	"bytes"
	"fmt"
	"html/template"

	"hospital-records-server/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var otpEmailTemplate = template.Must(template.New("otp").Parse(`
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>{{.HospitalName}}</h2>
	<p>Hello {{.Name}},</p>
	<p>{{.Intro}}</p>
	<p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
	<p>This code expires in {{.ExpiryMinutes}} minutes. If you did not request it, you can ignore this email.</p>
</body>
</html>
`))

var passwordResetTemplate = template.Must(template.New("reset").Parse(`
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>{{.HospitalName}}</h2>
	<p>Hello {{.Name}},</p>
	<p>We received a request to reset your password. Click the link below to choose a new one:</p>
	<p><a href="{{.ResetURL}}">Reset your password</a></p>
	<p>The link expires in {{.ExpiryMinutes}} minutes. If you did not request a reset, no action is needed.</p>
</body>
</html>
`))

// Mailer sends templated HTML email over SMTP.
type Mailer struct {
	Cfg    *config.Config
	Logger *zap.Logger
	dialer *gomail.Dialer
}

// NewMailer creates a new Mailer.
func NewMailer(cfg *config.Config, logger *zap.Logger) *Mailer {
	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	return &Mailer{Cfg: cfg, Logger: logger, dialer: dialer}
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.Cfg.SMTP.DefaultFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.Logger.Error("failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerificationOTP emails the account verification code.
func (m *Mailer) SendVerificationOTP(to, name, code string) error {
	return m.sendOTP(to, "Verify your email address", name,
		"Use the code below to verify your email address:", code, m.Cfg.VerificationOTPExpiry)
}

// SendMedicalRecordOTP emails the medical record access code.
func (m *Mailer) SendMedicalRecordOTP(to, name, code string) error {
	return m.sendOTP(to, "Your medical record access code", name,
		"Use the code below to access your medical records:", code, m.Cfg.MedicalOTPExpiryMinutes)
}

func (m *Mailer) sendOTP(to, subject, name, intro, code string, expiryMinutes int) error {
	var body bytes.Buffer
	err := otpEmailTemplate.Execute(&body, map[string]interface{}{
		"HospitalName":  m.Cfg.Hospital.Name,
		"Name":          name,
		"Intro":         intro,
		"Code":          code,
		"ExpiryMinutes": expiryMinutes,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return m.send(to, subject, body.String())
}

// SendPasswordReset emails the password reset link.
func (m *Mailer) SendPasswordReset(to, name, resetToken string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", m.Cfg.AppURL, resetToken)
	var body bytes.Buffer
	err := passwordResetTemplate.Execute(&body, map[string]interface{}{
		"HospitalName":  m.Cfg.Hospital.Name,
		"Name":          name,
		"ResetURL":      resetURL,
		"ExpiryMinutes": m.Cfg.PasswordResetTokenExpiry,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return m.send(to, "Password reset request", body.String())
}

// SendTestEmail sends a plain test message, used by the admin test endpoint
// to verify SMTP configuration.
func (m *Mailer) SendTestEmail(to string) error {
	body := fmt.Sprintf("<p>This is a test email from %s. SMTP delivery is working.</p>", m.Cfg.Hospital.Name)
	return m.send(to, "Test email", body)
}
