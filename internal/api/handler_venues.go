package api

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"venue-pulse/internal/models"
)

// Venue IDs double as MQTT topic segments (venue/<id>/reading), so the
// charset is locked down at the door.
var venueIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ListVenues returns every registered venue
func (s *Server) ListVenues(c *gin.Context) {
	venues, err := s.store.ListVenues(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": venues,
		"meta": gin.H{
			"count": len(venues),
		},
	})
}

// CreateVenue registers a venue explicitly. Venues also self-register
// on their first MQTT reading; this endpoint exists for setting name,
// capacity and timezone up front.
func (s *Server) CreateVenue(c *gin.Context) {
	var input struct {
		ID       string `json:"id" binding:"required"`
		Name     string `json:"name" binding:"required"`
		City     string `json:"city"`
		Capacity int    `json:"capacity"`
		Timezone string `json:"timezone"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 1. Validate the ID and timezone before touching the database
	if !venueIDPattern.MatchString(input.ID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Venue ID must be lowercase letters, digits, '-' or '_'"})
		return
	}
	if input.Timezone != "" {
		if _, err := time.LoadLocation(input.Timezone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown timezone: " + input.Timezone})
			return
		}
	}

	// 2. Reject duplicates
	existing, err := s.store.GetVenue(c.Request.Context(), input.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check venue"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Venue already exists"})
		return
	}

	// 3. Create
	venue := models.Venue{
		ID:       input.ID,
		Name:     input.Name,
		City:     input.City,
		Capacity: input.Capacity,
		Timezone: input.Timezone,
	}
	if venue.Timezone == "" {
		venue.Timezone = "UTC"
	}

	if err := s.store.SaveVenue(c.Request.Context(), &venue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create venue"})
		return
	}

	c.JSON(http.StatusCreated, venue)
}

// GetVenue fetches one venue by ID
func (s *Server) GetVenue(c *gin.Context) {
	venue, err := s.store.GetVenue(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venue"})
		return
	}
	if venue == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}

	c.JSON(http.StatusOK, venue)
}
