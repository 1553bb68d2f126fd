package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"venue-pulse/internal/dwell"
)

// GetStats aggregates venue data for the Dashboard
func (s *Server) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	venueID := c.Param("id")

	venue, err := s.store.GetVenue(ctx, venueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venue"})
		return
	}
	if venue == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}

	now := time.Now().UTC()

	// 1. Current score from the latest reading. Not recorded as an
	// event; the dashboard polls this endpoint too often for that.
	reading, err := s.store.LatestReading(ctx, venueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch latest reading"})
		return
	}
	current := s.scorer.ScoreReading(ctx, venue, reading, now)

	// 2. Last 24h of recorded scores
	var trend struct {
		Count    int     `json:"count"`
		Average  float64 `json:"average"`
		Statuses gin.H   `json:"statuses"`
	}
	events, err := s.store.ScoresSince(ctx, venueID, now.Add(-24*time.Hour))
	if err == nil && len(events) > 0 {
		statuses := map[string]int{}
		var sum float64
		for _, e := range events {
			sum += e.Score
			statuses[e.Status]++
		}
		trend.Count = len(events)
		trend.Average = sum / float64(len(events))
		trend.Statuses = gin.H{}
		for k, v := range statuses {
			trend.Statuses[k] = v
		}
	}

	// 3. Dwell over the default 3h window
	readings, _ := s.store.ReadingsSince(ctx, venueID, now.Add(-3*time.Hour))
	dwellEst := dwell.EstimateFromReadings(readings)

	// 4. Learning state
	learning := gin.H{"runs": 0}
	if runs, err := s.store.RunsForVenue(ctx, venueID, 1); err == nil && len(runs) > 0 {
		learning = gin.H{
			"last_run_at": runs[0].StartedAt,
			"last_status": runs[0].Status,
			"confidence":  runs[0].Confidence,
			"data_points": runs[0].DataPoints,
		}
	}
	if ranges, err := s.store.GetRanges(ctx, venueID); err == nil && ranges != nil {
		learning["trained_hours"] = ranges.DataPoints
	}
	if nights, err := s.store.BestNights(ctx, venueID); err == nil {
		learning["best_nights"] = len(nights)
	}

	c.JSON(http.StatusOK, gin.H{
		"venue":    venue,
		"score":    current,
		"trend":    trend,
		"dwell":    dwellEst,
		"learning": learning,
	})
}
