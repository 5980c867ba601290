package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/auth"
	"github.com/BruksfildServices01/agenda-api/internal/config"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/draft"
	"github.com/BruksfildServices01/agenda-api/internal/handlers"
	infraRepo "github.com/BruksfildServices01/agenda-api/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-api/internal/metrics"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/agenda-api/internal/usecase/appointment"
	ucSchedule "github.com/BruksfildServices01/agenda-api/internal/usecase/schedule"
	"github.com/BruksfildServices01/agenda-api/internal/validators"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client // optional
	Config *config.Config
	Logger *zap.Logger

	Metrics  *metrics.BookingMetrics
	Gatherer prometheus.Gatherer
	Audit    *audit.Dispatcher
	Hook     domain.PostCommitHook

	// Optional; defaults to net.DefaultResolver.
	Resolver validators.Resolver
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	logger := d.Logger

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.CORSMiddleware(),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	loc := timezone.Location(cfg.Timezone)

	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	scheduleRepo := infraRepo.NewScheduleGormRepository(d.DB)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	drafts := draft.NewSigner(cfg.JWTSecret, cfg.DraftTTL)

	var replay draft.ReplayGuard
	if d.Redis != nil {
		replay = draft.NewRedisReplayGuard(d.Redis)
	}

	settings := ucAppointment.Settings{
		Location:      loc,
		TxTimeout:     cfg.BookingTxTimeout,
		NotifyTimeout: cfg.NotifyTimeout,
	}

	// ======================================================
	// USE CASES: BOOKING
	// ======================================================
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, d.Metrics, settings)
	staffSlotsUC := ucAppointment.NewListEligibleStaffWithSlots(appointmentRepo, d.Metrics, logger, settings)
	issueDraftUC := ucAppointment.NewIssueDraft(appointmentRepo, drafts, settings)
	confirmUC := ucAppointment.NewConfirmBooking(ucAppointment.ConfirmBookingDeps{
		Repo:     appointmentRepo,
		Tx:       appointmentRepo,
		Drafts:   drafts,
		Replay:   replay,
		Hook:     d.Hook,
		Audit:    d.Audit,
		Metrics:  d.Metrics,
		Logger:   logger,
		Settings: settings,
	})

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	listByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo, settings)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo, settings)
	cancelUC := ucAppointment.NewCancelAppointment(appointmentRepo, d.Audit, settings)
	completeUC := ucAppointment.NewCompleteAppointment(appointmentRepo, d.Audit, settings)
	rescheduleAvUC := ucAppointment.NewRescheduleAvailability(appointmentRepo, settings)
	rescheduleUC := ucAppointment.NewRescheduleAppointment(
		appointmentRepo,
		appointmentRepo,
		d.Audit,
		d.Metrics,
		logger,
		settings,
	)

	// ======================================================
	// USE CASES: SCHEDULE
	// ======================================================
	listScheduleUC := ucSchedule.NewListSchedule(scheduleRepo, loc)
	createHoursUC := ucSchedule.NewCreateWorkingHours(scheduleRepo, d.Audit, loc)
	updateHoursUC := ucSchedule.NewUpdateWorkingHours(scheduleRepo, d.Audit, loc)
	deleteHoursUC := ucSchedule.NewDeleteWorkingHours(scheduleRepo, d.Audit)
	createTimeOffUC := ucSchedule.NewCreateTimeOff(scheduleRepo, d.Audit, loc)
	deleteTimeOffUC := ucSchedule.NewDeleteTimeOff(scheduleRepo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, tokens, validators.NewEmailDomains(d.Resolver), logger)
	meHandler := handlers.NewMeHandler(d.DB, logger)
	businessHandler := handlers.NewBusinessHandler(d.DB, logger)
	serviceHandler := handlers.NewServiceHandler(d.DB, logger)
	staffHandler := handlers.NewStaffHandler(d.DB, logger)
	customerHandler := handlers.NewCustomerHandler(d.DB, logger)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, loc, logger)

	publicHandler := handlers.NewPublicHandler(
		appointmentRepo,
		availabilityUC,
		staffSlotsUC,
		issueDraftUC,
		confirmUC,
		logger,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		listByDateUC,
		listByMonthUC,
		cancelUC,
		completeUC,
		rescheduleAvUC,
		rescheduleUC,
		logger,
	)

	scheduleHandler := handlers.NewScheduleHandler(
		listScheduleUC,
		createHoursUC,
		updateHoursUC,
		deleteHoursUC,
		createTimeOffUC,
		deleteTimeOffUC,
		logger,
	)

	limiter := middleware.NewRateLimiter(d.Redis, cfg.PublicRateLimit, time.Minute, d.Metrics, logger)

	// ======================================================
	// OPERATIONS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public/:slug")
		publicAPI.Use(limiter.Middleware())
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/drafts", publicHandler.CreateDraft)
			publicAPI.POST("/bookings", publicHandler.ConfirmBooking)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		authAPI := api.Group("/auth")
		authAPI.Use(limiter.Middleware())
		{
			authAPI.POST("/register", authHandler.Register)
			authAPI.POST("/register/customer", authHandler.RegisterCustomer)
			authAPI.POST("/login", authHandler.Login)
		}

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(tokens))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/business", businessHandler.GetMine)
			secured.PATCH("/me/business", businessHandler.UpdateMine)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/staff", staffHandler.List)
			secured.POST("/me/staff", staffHandler.Create)
			secured.PATCH("/me/staff/:staffID", staffHandler.Update)
			secured.PUT("/me/staff/:staffID/services", staffHandler.SetServices)

			secured.GET("/me/customers", customerHandler.List)
			secured.GET("/me/customers/:id", customerHandler.Get)

			// ------------------------------
			// SCHEDULE
			// ------------------------------
			secured.GET("/me/staff/:staffID/schedule", scheduleHandler.Get)
			secured.POST("/me/staff/:staffID/working-hours", scheduleHandler.CreateWorkingHours)
			secured.PUT("/me/working-hours/:id", scheduleHandler.UpdateWorkingHours)
			secured.DELETE("/me/working-hours/:id", scheduleHandler.DeleteWorkingHours)
			secured.POST("/me/staff/:staffID/time-off", scheduleHandler.CreateTimeOff)
			secured.DELETE("/me/time-off/:id", scheduleHandler.DeleteTimeOff)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.GET("/me/appointments/:id/availability", appointmentHandler.RescheduleAvailability)
			secured.PATCH("/me/appointments/:id/reschedule", appointmentHandler.Reschedule)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
