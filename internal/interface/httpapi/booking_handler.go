package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staysync-service/internal/usecase"
)

// CreateBooking submits a reservation through the conflict guard.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req usecase.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if req.PropertyID == "" || req.CheckIn == "" || req.CheckOut == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "propertyId, checkIn and checkOut are required"})
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBooking returns one booking.
func (h *Handler) GetBooking(c *gin.Context) {
	booking, err := h.bookings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ConfirmBooking settles a pending booking and blocks its nights.
func (h *Handler) ConfirmBooking(c *gin.Context) {
	booking, err := h.bookings.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBooking soft-cancels a booking and reopens its dates.
func (h *Handler) CancelBooking(c *gin.Context) {
	booking, err := h.bookings.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookings lists a property's bookings.
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.bookings.ListByProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
