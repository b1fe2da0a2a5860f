package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staysync-service/internal/domain/entity"
)

// CreateFeed configures a new external calendar subscription for a
// property and registers the property with the sync scheduler.
func (h *Handler) CreateFeed(c *gin.Context) {
	var input struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.Name == "" || input.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and url are required"})
		return
	}

	feed := &entity.ExternalCalendarFeed{
		ID:         uuid.New().String(),
		PropertyID: c.Param("id"),
		Name:       input.Name,
		URL:        input.URL,
		IsActive:   true,
		SyncStatus: entity.SyncPending,
	}
	if err := h.feedRepo.Create(c.Request.Context(), feed); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.scheduler.Start(feed.PropertyID); err != nil {
		h.logger.Error("Failed to start scheduler for new feed",
			"propertyId", feed.PropertyID, "error", err)
	}

	c.JSON(http.StatusCreated, feed)
}

// ListFeeds returns a property's feeds with their sync health.
func (h *Handler) ListFeeds(c *gin.Context) {
	feeds, err := h.feedRepo.ListByProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, feeds)
}

// DeleteFeed removes a feed subscription. When the property has no
// active feeds left its scheduler entry is deregistered.
func (h *Handler) DeleteFeed(c *gin.Context) {
	feed, err := h.feedRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.feedRepo.Delete(c.Request.Context(), feed.ID); err != nil {
		h.fail(c, err)
		return
	}

	remaining, err := h.feedRepo.ListActiveByProperty(c.Request.Context(), feed.PropertyID)
	if err == nil && len(remaining) == 0 {
		h.scheduler.Stop(feed.PropertyID)
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// TriggerFeedSync runs one sync attempt for one feed immediately,
// outside the schedule.
func (h *Handler) TriggerFeedSync(c *gin.Context) {
	feed, err := h.feedRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.sync.SyncFeed(c.Request.Context(), feed); err != nil {
		// The attempt's outcome is on the feed's status row; report it.
		updated, getErr := h.feedRepo.GetByID(c.Request.Context(), feed.ID)
		if getErr == nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "feed": updated})
			return
		}
		h.fail(c, err)
		return
	}

	updated, err := h.feedRepo.GetByID(c.Request.Context(), feed.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ListSyncRuns returns the most recent sync attempts for a property.
func (h *Handler) ListSyncRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.runRepo.ListRecent(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// StartSync registers the property's recurring sync timer.
func (h *Handler) StartSync(c *gin.Context) {
	if err := h.scheduler.Start(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "scheduled"})
}

// StopSync deregisters the property's sync timer; an in-flight attempt
// finishes on its own.
func (h *Handler) StopSync(c *gin.Context) {
	h.scheduler.Stop(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}
