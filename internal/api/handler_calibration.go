package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"venue-pulse/internal/models"
)

// GetCalibration reads the operator calibration for a venue. A venue
// that was never calibrated returns an empty record, not a 404.
func (s *Server) GetCalibration(c *gin.Context) {
	venueID := c.Param("id")

	venue, err := s.store.GetVenue(c.Request.Context(), venueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venue"})
		return
	}
	if venue == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}

	settings, err := s.store.GetSettings(c.Request.Context(), venueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch calibration"})
		return
	}
	if settings == nil {
		settings = &models.VenueSettings{VenueID: venueID}
	}

	c.JSON(http.StatusOK, settings)
}

// PutCalibration replaces the operator calibration wholesale. Null or
// omitted fields clear their setting, which is how a pair is retired
// once the learner has taken over.
func (s *Server) PutCalibration(c *gin.Context) {
	venueID := c.Param("id")

	var input struct {
		SoundMin           *float64 `json:"sound_min"`
		SoundMax           *float64 `json:"sound_max"`
		LightMin           *float64 `json:"light_min"`
		LightMax           *float64 `json:"light_max"`
		TargetOccupancyPct *float64 `json:"target_occupancy_pct"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 1. Validate the pairs. Half a range is worse than none.
	if (input.SoundMin == nil) != (input.SoundMax == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sound calibration needs both min and max"})
		return
	}
	if input.SoundMin != nil && *input.SoundMax <= *input.SoundMin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sound calibration requires min < max"})
		return
	}
	if (input.LightMin == nil) != (input.LightMax == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Light calibration needs both min and max"})
		return
	}
	if input.LightMin != nil && *input.LightMax <= *input.LightMin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Light calibration requires min < max"})
		return
	}
	if input.TargetOccupancyPct != nil && (*input.TargetOccupancyPct < 0 || *input.TargetOccupancyPct > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target occupancy must be a percentage (0-100)"})
		return
	}

	// 2. The venue must exist
	venue, err := s.store.GetVenue(c.Request.Context(), venueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venue"})
		return
	}
	if venue == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}

	// 3. Replace the row
	settings := models.VenueSettings{
		VenueID:            venueID,
		SoundMin:           input.SoundMin,
		SoundMax:           input.SoundMax,
		LightMin:           input.LightMin,
		LightMax:           input.LightMax,
		TargetOccupancyPct: input.TargetOccupancyPct,
	}

	if err := s.store.SaveSettings(c.Request.Context(), &settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save calibration"})
		return
	}

	c.JSON(http.StatusOK, settings)
}
