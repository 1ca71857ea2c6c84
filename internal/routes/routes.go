package routes

import (
	"time"

	"hospital-records-server/internal/config"
	"hospital-records-server/internal/handlers"
	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) {
	// Shared services
	mailer := services.NewMailer(cfg, logger)
	lockout := services.NewLockoutService(rdb, logger,
		cfg.LockoutMaxAttempts, time.Duration(cfg.LockoutDurationMinutes)*time.Minute)
	assigner := services.NewDoctorAssigner(db, logger)
	certificates := services.NewCertificateService(db, cfg, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg, logger, mailer, lockout)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, logger, assigner)
	medicationHandler := handlers.NewMedicationHandler(db)
	historyHandler := handlers.NewMedicalHistoryHandler(db)
	recordAccessHandler := handlers.NewRecordAccessHandler(db, cfg, logger, mailer)
	interactionHandler := handlers.NewInteractionHandler(db)
	certificateHandler := handlers.NewCertificateHandler(db, certificates)
	adminHandler := handlers.NewAdminHandler(db, logger, mailer, lockout)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/verify-email", authHandler.VerifyEmail)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
			authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
			authRoutes.POST("/reset-password", authHandler.ResetPassword)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Doctors listing is accessible by all authenticated users
			userRoutes.GET("/doctors", userHandler.GetDoctors)

			// Patients a doctor has seen
			userRoutes.GET("/doctor-patients",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				userHandler.GetDoctorPatients)

			// Admin-only routes
			adminUserRoutes := userRoutes.Group("")
			adminUserRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminUserRoutes.POST("", userHandler.CreateUser)
				adminUserRoutes.GET("", userHandler.GetUsers)
				adminUserRoutes.GET("/:id", userHandler.GetUserByID)
				adminUserRoutes.PUT("/:id", userHandler.UpdateUser)
				adminUserRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("",
				middleware.RoleAuthMiddleware(models.RolePatient, models.RoleDoctor, models.RoleAdmin),
				appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)            // Authorization inside handler
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus) // Authorization inside handler
			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment)
			appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
		}

		// Medication routes
		medicationRoutes := private.Group("/medications")
		{
			medicationRoutes.POST("",
				middleware.RoleAuthMiddleware(models.RoleDoctor),
				medicationHandler.CreateMedication)
			medicationRoutes.GET("", medicationHandler.GetMedicationsForUser)
			medicationRoutes.GET("/patient/:patientId",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				medicationHandler.GetMedicationsForPatient)
		}

		// Medical history routes (doctor/admin side)
		historyRoutes := private.Group("/history")
		{
			historyRoutes.PUT("/:patientId",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				historyHandler.UpsertHistory)
			historyRoutes.GET("/:patientId",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				historyHandler.GetHistory)
			historyRoutes.POST("/:patientId/documents",
				middleware.RoleAuthMiddleware(models.RoleDoctor),
				historyHandler.UploadDocument)
		}
		// Document download is accessible by the owning patient too (checked in handler)
		private.GET("/history/documents/:documentId", historyHandler.GetDocument)

		// OTP-gated medical record access (patient side)
		recordRoutes := private.Group("/medical-records")
		recordRoutes.Use(middleware.RoleAuthMiddleware(models.RolePatient))
		{
			recordRoutes.POST("/request-otp", recordAccessHandler.RequestOTP)
			recordRoutes.POST("/verify-otp", recordAccessHandler.VerifyOTP)
			recordRoutes.GET("/summary", recordAccessHandler.GetSummary)
		}

		// Doctor interaction routes
		interactionRoutes := private.Group("/interactions")
		{
			interactionRoutes.POST("/send", interactionHandler.SendInteraction)
			interactionRoutes.GET("", interactionHandler.GetInteractionsForUser)
			interactionRoutes.PATCH("/:id/read", interactionHandler.MarkInteractionRead)
		}

		// Certificate generation
		private.POST("/certificates",
			middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
			certificateHandler.GenerateCertificate)

		// Admin routes
		adminRoutes := private.Group("/admin")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.POST("/signatures", adminHandler.UploadSignature)
			adminRoutes.GET("/signatures", adminHandler.GetSignatures)
			adminRoutes.PATCH("/signatures/:id/activate", adminHandler.ActivateSignature)
			adminRoutes.POST("/unlock", adminHandler.UnlockAccount)
			adminRoutes.POST("/test-email", adminHandler.SendTestEmail)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
