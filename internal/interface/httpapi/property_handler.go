package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staysync-service/internal/domain/entity"
)

// CreateProperty registers a property's default-policy record. Listing
// metadata belongs to another system; only the fields the resolver
// falls back to live here.
func (h *Handler) CreateProperty(c *gin.Context) {
	var input struct {
		ID                string  `json:"id"`
		HostID            string  `json:"hostId"`
		Title             string  `json:"title"`
		DefaultPrice      float64 `json:"defaultPrice"`
		DefaultMinStay    int     `json:"defaultMinStay"`
		InstantBook       bool    `json:"instantBook"`
		AdvanceNoticeDays int     `json:"advanceNoticeDays"`
		Currency          string  `json:"currency"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.DefaultPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "defaultPrice must not be negative"})
		return
	}

	property := &entity.Property{
		ID:                input.ID,
		HostID:            input.HostID,
		Title:             input.Title,
		DefaultPrice:      input.DefaultPrice,
		DefaultMinStay:    input.DefaultMinStay,
		InstantBook:       input.InstantBook,
		AdvanceNoticeDays: input.AdvanceNoticeDays,
		Currency:          input.Currency,
		IsActive:          true,
	}
	if property.ID == "" {
		property.ID = uuid.New().String()
	}
	if property.Currency == "" {
		property.Currency = "USD"
	}
	if property.DefaultMinStay <= 0 {
		property.DefaultMinStay = 1
	}

	if err := h.propRepo.Save(c.Request.Context(), property); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

// GetProperty returns the property's default policy.
func (h *Handler) GetProperty(c *gin.Context) {
	property, err := h.propRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}
