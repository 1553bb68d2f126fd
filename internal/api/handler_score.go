package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"venue-pulse/internal/models"
	"venue-pulse/internal/pulse"
)

// GetScore scores the venue's latest stored reading and records the
// result for the trend endpoints.
// Query Params: at (RFC3339, default now) resolves the time slot for a
// different moment.
func (s *Server) GetScore(c *gin.Context) {
	venueID := c.Param("id")

	// 1. Which moment are we scoring?
	var at time.Time
	if q := c.Query("at"); q != "" {
		parsed, err := time.Parse(time.RFC3339, q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'at' timestamp, expected RFC3339"})
			return
		}
		at = parsed
	}

	// 2. Latest telemetry. A venue with no readings yet scores as
	// no_data, which is an answer, not an error.
	reading, err := s.store.LatestReading(c.Request.Context(), venueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch latest reading"})
		return
	}

	// 3. Score it
	res, err := s.scorer.ScoreVenue(c.Request.Context(), venueID, reading, at)
	if err != nil {
		if errors.Is(err, pulse.ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute score"})
		return
	}

	// 4. Keep it for trends, unless there was nothing to score
	if res.Status != pulse.StatusNoData {
		s.scorer.RecordEvent(c.Request.Context(), res)
	}

	c.JSON(http.StatusOK, res)
}

// ScoreReading scores a reading supplied by the caller. Nothing is
// persisted; dashboards use this for what-if sliders.
func (s *Server) ScoreReading(c *gin.Context) {
	var reading models.SensorReading
	if err := c.ShouldBindJSON(&reading); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	venueID := c.Param("id")
	reading.VenueID = venueID // the path wins over the payload

	res, err := s.scorer.ScoreVenue(c.Request.Context(), venueID, &reading, reading.Timestamp)
	if err != nil {
		if errors.Is(err, pulse.ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute score"})
		return
	}

	c.JSON(http.StatusOK, res)
}
