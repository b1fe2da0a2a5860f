package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staysync-service/internal/domain/entity"
	"staysync-service/internal/domain/repository"
	"staysync-service/internal/usecase"
	"staysync-service/pkg/logger"
)

// Handler exposes the engine over HTTP. All collaborators are injected;
// the handler holds no state of its own.
type Handler struct {
	bookings  *usecase.BookingService
	resolver  *usecase.AvailabilityResolver
	bulk      *usecase.BulkApplier
	sync      *usecase.SyncOrchestrator
	scheduler *usecase.SyncScheduler
	feedRepo  repository.FeedRepository
	propRepo  repository.PropertyRepository
	runRepo   repository.SyncRunRepository
	horizon   int
	logger    logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	bookings *usecase.BookingService,
	resolver *usecase.AvailabilityResolver,
	bulk *usecase.BulkApplier,
	sync *usecase.SyncOrchestrator,
	scheduler *usecase.SyncScheduler,
	feedRepo repository.FeedRepository,
	propRepo repository.PropertyRepository,
	runRepo repository.SyncRunRepository,
	exportHorizonDays int,
	logger logger.Logger,
) *Handler {
	return &Handler{
		bookings:  bookings,
		resolver:  resolver,
		bulk:      bulk,
		sync:      sync,
		scheduler: scheduler,
		feedRepo:  feedRepo,
		propRepo:  propRepo,
		runRepo:   runRepo,
		horizon:   exportHorizonDays,
		logger:    logger,
	}
}

// Register mounts every route on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/properties", h.CreateProperty)
	r.GET("/properties/:id", h.GetProperty)

	r.POST("/bookings", h.CreateBooking)
	r.GET("/bookings/:id", h.GetBooking)
	r.POST("/bookings/:id/confirm", h.ConfirmBooking)
	r.POST("/bookings/:id/cancel", h.CancelBooking)

	props := r.Group("/properties/:id")
	props.GET("/bookings", h.ListBookings)
	props.GET("/availability", h.GetAvailabilityRange)
	props.GET("/availability/:date", h.GetAvailability)
	props.PUT("/settings", h.ApplyDefaultSettings)
	props.PUT("/calendar", h.ApplyRangeSettings)
	props.GET("/calendar.ics", h.ExportCalendar)
	props.POST("/feeds", h.CreateFeed)
	props.GET("/feeds", h.ListFeeds)
	props.GET("/sync-runs", h.ListSyncRuns)
	props.POST("/sync/start", h.StartSync)
	props.POST("/sync/stop", h.StopSync)

	r.DELETE("/feeds/:id", h.DeleteFeed)
	r.POST("/feeds/:id/sync", h.TriggerFeedSync)
}

// fail writes the error taxonomy onto HTTP statuses: invalid input
// → 400, conflicting dates → 409, unknown ids → 404, partial bulk
// writes → 500 with counts, anything else → 500.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, entity.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var due *entity.DatesUnavailableError
	if errors.As(err, &due) {
		c.JSON(http.StatusConflict, gin.H{
			"error":    "dates unavailable",
			"checkIn":  due.CheckIn.Format("2006-01-02"),
			"checkOut": due.CheckOut.Format("2006-01-02"),
		})
		return
	}

	var partial *entity.BulkApplyPartialError
	if errors.As(err, &partial) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "bulk apply incomplete",
			"applied":   partial.Applied,
			"requested": partial.Requested,
		})
		return
	}

	if errors.Is(err, entity.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
