package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"venue-pulse/internal/config"
	"venue-pulse/internal/learning"
	"venue-pulse/internal/pulse"
	"venue-pulse/internal/store"
)

type Server struct {
	cfg     *config.Config
	store   store.Store
	scorer  *pulse.Scorer
	learner *learning.Learner
	router  *gin.Engine
}

func New(cfg *config.Config, st store.Store, scorer *pulse.Scorer, learner *learning.Learner) *Server {
	if cfg.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:     cfg,
		store:   st,
		scorer:  scorer,
		learner: learner,
		router:  gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(SilentLogger())
	s.router.Use(gin.Recovery())

	// CORS Configuration: the dashboard SPA is served from anywhere
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "venue-pulse"})
	})

	// API Group
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/venues", s.ListVenues)
		v1.POST("/venues", s.CreateVenue)
		v1.GET("/venues/:id", s.GetVenue)

		// Scoring
		v1.GET("/venues/:id/score", s.GetScore)
		v1.POST("/venues/:id/score", s.ScoreReading)

		// Analytics
		v1.GET("/venues/:id/dwell", s.GetDwell)
		v1.GET("/venues/:id/stats", s.GetStats)
		v1.GET("/venues/:id/ranges", s.GetRanges)

		// Calibration
		v1.GET("/venues/:id/calibration", s.GetCalibration)
		v1.PUT("/venues/:id/calibration", s.PutCalibration)

		// Learning
		v1.POST("/venues/:id/learning/run", s.TriggerLearning)
		v1.GET("/venues/:id/learning/runs", s.GetLearningRuns)
	}
}

// Start runs the server on the configured port
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
