package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-availability/internal/audit"
	"github.com/BruksfildServices01/barber-availability/internal/config"
	"github.com/BruksfildServices01/barber-availability/internal/domain/availability"
	"github.com/BruksfildServices01/barber-availability/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-availability/internal/infra/repository"
	"github.com/BruksfildServices01/barber-availability/internal/middleware"
	"github.com/BruksfildServices01/barber-availability/internal/slotcache"
	ucAppointment "github.com/BruksfildServices01/barber-availability/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/barber-availability/internal/usecase/availability"
)

// Deps são os singletons montados no main.
type Deps struct {
	DB          *gorm.DB
	Config      *config.Config
	Calendar    availability.Calendar
	Cache       *slotcache.Cache
	Invalidator slotcache.Invalidator
	Audit       *audit.Dispatcher
	Log         *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(d.Config.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	bookingSource := infraRepo.NewBookingSource(appointmentRepo, d.Calendar)

	invalidator := d.Invalidator
	if invalidator == nil {
		invalidator = d.Cache
	}

	// ======================================================
	// 🧠 USE CASES — AVAILABILITY
	// ======================================================
	checker := ucAvailability.NewChecker(
		d.Calendar,
		d.Cache,
		bookingSource,
		bookingSource,
		ucAvailability.Settings{
			Interval:           d.Config.Interval,
			Hours:              &d.Config.Hours,
			GranularityMinutes: d.Config.GranularityMinutes,
		},
		d.Log,
	)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	apDeps := ucAppointment.Deps{
		Calendar:    d.Calendar,
		Verifier:    checker,
		Invalidator: invalidator,
		Audit:       d.Audit,
	}

	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, apDeps, d.Config.MinAdvance)
	rescheduleAppointmentUC := ucAppointment.NewRescheduleAppointment(appointmentRepo, apDeps)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, apDeps)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, apDeps)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(checker, d.Log)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		rescheduleAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		d.Calendar,
		d.Log,
	)

	cacheHandler := handlers.NewCacheHandler(d.Cache, invalidator, d.Calendar, d.Log)
	barberHandler := handlers.NewBarberHandler(d.DB)
	barberProductHandler := handlers.NewBarberProductHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Calendar)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		api.GET("/availability", availabilityHandler.Check)
		api.GET("/availability/blocked", availabilityHandler.Blocked)
		api.GET("/barbers", barberHandler.List)
		api.GET("/products", barberProductHandler.List)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config.JWTSecret))
		{
			secured.GET("/availability/bookings", availabilityHandler.Bookings)

			secured.POST("/barbers", barberHandler.Create)
			secured.PATCH("/barbers/:id", barberHandler.Update)

			secured.POST("/products", barberProductHandler.Create)
			secured.PATCH("/products/:id", barberProductHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)

			// ------------------------------
			// CACHE
			// ------------------------------
			secured.GET("/admin/cache/stats", cacheHandler.Stats)
			secured.DELETE("/admin/cache", cacheHandler.Clear)
			secured.DELETE("/admin/cache/dates/:date", cacheHandler.InvalidateDate)
			secured.DELETE("/admin/cache/barbers/:id", cacheHandler.InvalidateResource)
			secured.DELETE("/admin/cache/keys", cacheHandler.InvalidateMatching)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
