package server

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/recommend"
)

type healthResponse struct {
	Status        string `json:"status"`
	RiskRecords   int    `json:"risk_records"`
	Policies      int    `json:"policies"`
	RealtimeTrips int    `json:"realtime_trips"`
}

func detail(msg string) gin.H { return gin.H{"detail": msg} }

func (s *Server) riskCount() int {
	if s.deps.Risks == nil {
		return 0
	}
	return s.deps.Risks.Len()
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Transport insurance advisor API is running",
		"routes":  s.riskCount(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := healthResponse{Status: "ok", RiskRecords: s.riskCount()}
	if s.deps.Catalog != nil {
		resp.Policies = s.deps.Catalog.Len()
	}
	resp.RealtimeTrips = s.deps.Delays.Len()
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRecommendation(c *gin.Context) {
	tripID := c.Param("trip_id")
	rec, err := s.deps.Recommender.Recommend(c.Request.Context(), tripID)
	switch {
	case errors.Is(err, recommend.ErrTripNotFound):
		c.JSON(http.StatusNotFound, detail("trip not found"))
	case err != nil:
		s.log.Error("recommendation failed", "trip_id", tripID, "error", err)
		c.JSON(http.StatusInternalServerError, detail(err.Error()))
	default:
		c.JSON(http.StatusOK, rec)
	}
}

func (s *Server) handleRouteProbs(c *gin.Context) {
	if s.deps.Risks == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, s.deps.Risks.ByTrip())
}

func (s *Server) handleLines(c *gin.Context) {
	data, err := os.ReadFile(s.deps.LinesPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.JSON(http.StatusNotFound, detail("lines.geojson not found"))
	case err != nil:
		s.log.Error("read lines", "path", s.deps.LinesPath, "error", err)
		c.JSON(http.StatusInternalServerError, detail("lines unavailable"))
	default:
		c.Data(http.StatusOK, "application/json", data)
	}
}
