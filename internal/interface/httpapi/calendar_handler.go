package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staysync-service/internal/interface/ical"
	"staysync-service/internal/usecase"
	"staysync-service/pkg/utils"
)

// GetAvailability resolves one (property, date) pair.
func (h *Handler) GetAvailability(c *gin.Context) {
	date, err := utils.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	day, err := h.resolver.Resolve(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// GetAvailabilityRange resolves every date in [from, to).
func (h *Handler) GetAvailabilityRange(c *gin.Context) {
	from, err := utils.ParseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	to, err := utils.ParseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}
	if !to.After(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be after from"})
		return
	}

	days, err := h.resolver.ResolveRange(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// ApplyDefaultSettings runs primary-mode bulk apply: wipe all per-date
// overrides and write the new property-wide policy.
func (h *Handler) ApplyDefaultSettings(c *gin.Context) {
	var settings usecase.DefaultSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.bulk.ApplyDefaults(c.Request.Context(), c.Param("id"), &settings); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "applied"})
}

// ApplyRangeSettings runs range-mode bulk apply over an inclusive date
// range.
func (h *Handler) ApplyRangeSettings(c *gin.Context) {
	var settings usecase.RangeSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	applied, err := h.bulk.ApplyRange(c.Request.Context(), c.Param("id"), &settings)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "applied", "dates": applied})
}

// ExportCalendar serves the property's blocked dates as an iCalendar
// document, derived from the same resolver that answers availability
// queries.
func (h *Handler) ExportCalendar(c *gin.Context) {
	propertyID := c.Param("id")

	blocked, err := h.resolver.BlockedDays(c.Request.Context(), propertyID, h.horizon)
	if err != nil {
		h.fail(c, err)
		return
	}

	ranges := ical.CoalesceBlockedDates(propertyID, blocked)
	body, err := ical.Encode(propertyID, propertyID, ranges)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}
