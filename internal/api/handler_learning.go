package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// TriggerLearning runs one learning cycle for the venue, synchronously.
// Query Params: dry_run (default false) computes without replacing the
// live ranges.
func (s *Server) TriggerLearning(c *gin.Context) {
	venueID := c.Param("id")
	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))

	venue, err := s.store.GetVenue(c.Request.Context(), venueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venue"})
		return
	}
	if venue == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}

	// A skipped or failed cycle is still a successful request; the
	// outcome lives in the run row.
	run, err := s.learner.RunCycle(c.Request.Context(), venueID, dryRun)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Learning cycle error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetLearningRuns lists the venue's recent learning cycles, newest
// first.
// Query Params: limit (default 20)
func (s *Server) GetLearningRuns(c *gin.Context) {
	venueID := c.Param("id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 200 {
		limit = 20
	}

	runs, err := s.store.RunsForVenue(c.Request.Context(), venueID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch learning runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": runs,
		"meta": gin.H{
			"count": len(runs),
		},
	})
}
