package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"venue-pulse/internal/pulse"
)

// GetRanges shows which bands the engine is scoring against right now,
// with per-factor provenance, plus every best-night profile on record.
func (s *Server) GetRanges(c *gin.Context) {
	venueID := c.Param("id")

	active, err := s.scorer.ActiveRanges(c.Request.Context(), venueID, time.Time{})
	if err != nil {
		if errors.Is(err, pulse.ErrVenueNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve ranges"})
		return
	}

	nights, err := s.store.BestNights(c.Request.Context(), venueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch best nights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active":      active,
		"best_nights": nights,
	})
}
