package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	JWTPasswordReset          string
	Database                  DatabaseConfig
	Redis                     RedisConfig
	SMTP                      SMTPConfig
	Hospital                  HospitalConfig
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	PasswordResetTokenExpiry  int
	VerificationOTPExpiry     int
	MedicalOTPExpiryMinutes   int
	RecordTokenExpiryMinutes  int
	LockoutMaxAttempts        int
	LockoutDurationMinutes    int
	AppURL                    string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// RedisConfig holds the cache connection details used for login lockout
// and OTP request throttling.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SMTPConfig holds email delivery configuration
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	DefaultFrom string
}

// HospitalConfig holds the letterhead fields printed on generated certificates.
type HospitalConfig struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hospital"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	redisConfig := RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	smtpConfig := SMTPConfig{
		Host:        getEnv("SMTP_HOST", "localhost"),
		Port:        smtpPort,
		Username:    getEnv("SMTP_USERNAME", ""),
		Password:    getEnv("SMTP_PASSWORD", ""),
		DefaultFrom: getEnv("SMTP_DEFAULT_FROM", "no-reply@hospital.local"),
	}

	hospitalConfig := HospitalConfig{
		Name:    getEnv("HOSPITAL_NAME", "General Hospital"),
		Address: getEnv("HOSPITAL_ADDRESS", ""),
		Phone:   getEnv("HOSPITAL_PHONE", ""),
		Email:   getEnv("HOSPITAL_EMAIL", ""),
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	passwordResetTokenExpiry, err := strconv.Atoi(getEnv("PASSWORD_RESET_TOKEN_EXPIRY_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid PASSWORD_RESET_TOKEN_EXPIRY_MINUTES: %w", err)
	}

	verificationOTPExpiry, err := strconv.Atoi(getEnv("VERIFICATION_OTP_EXPIRY_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_OTP_EXPIRY_MINUTES: %w", err)
	}

	medicalOTPExpiry, err := strconv.Atoi(getEnv("MEDICAL_OTP_EXPIRY_MINUTES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEDICAL_OTP_EXPIRY_MINUTES: %w", err)
	}

	recordTokenExpiry, err := strconv.Atoi(getEnv("RECORD_TOKEN_EXPIRY_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECORD_TOKEN_EXPIRY_MINUTES: %w", err)
	}

	lockoutMaxAttempts, err := strconv.Atoi(getEnv("LOCKOUT_MAX_ATTEMPTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCKOUT_MAX_ATTEMPTS: %w", err)
	}

	lockoutDuration, err := strconv.Atoi(getEnv("LOCKOUT_DURATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCKOUT_DURATION_MINUTES: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:                      getEnv("PORT", "3001"),
		Origin:                    getEnv("ORIGIN", "http://localhost:4200"),
		Environment:               getEnv("APP_ENV", "development"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		JWTPasswordReset:          getEnv("JWT_PASSWORD_SECRET", "default_password_reset_secret"),
		Database:                  dbConfig,
		Redis:                     redisConfig,
		SMTP:                      smtpConfig,
		Hospital:                  hospitalConfig,
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		PasswordResetTokenExpiry:  passwordResetTokenExpiry,
		VerificationOTPExpiry:     verificationOTPExpiry,
		MedicalOTPExpiryMinutes:   medicalOTPExpiry,
		RecordTokenExpiryMinutes:  recordTokenExpiry,
		LockoutMaxAttempts:        lockoutMaxAttempts,
		LockoutDurationMinutes:    lockoutDuration,
		AppURL:                    getEnv("APP_URL", "http://localhost:3001"),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
