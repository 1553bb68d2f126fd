package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"venue-pulse/internal/dwell"
)

// GetDwell estimates the current average visit length from the door
// counters.
// Query Params: hours (default 3, max 168) sets the lookback window.
func (s *Server) GetDwell(c *gin.Context) {
	venueID := c.Param("id")

	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "3"))
	if hours < 1 {
		hours = 1
	}
	if hours > 168 {
		hours = 168
	}

	// 1. The venue must exist; an empty reading set must not
	venue, err := s.store.GetVenue(c.Request.Context(), venueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venue"})
		return
	}
	if venue == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}

	// 2. Pull the raw readings for the window
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	readings, err := s.store.ReadingsSince(c.Request.Context(), venueID, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch readings"})
		return
	}

	// 3. Little's law over the actual sample window
	est := dwell.EstimateFromReadings(readings)

	c.JSON(http.StatusOK, gin.H{
		"venue_id":        venueID,
		"requested_hours": hours,
		"readings":        len(readings),
		"estimate":        est,
	})
}
