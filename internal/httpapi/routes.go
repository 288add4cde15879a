package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerRoutes sets up the v1 API.
// Groups: rooms admin, measurement ingestion/listing, derived records,
// aggregate reports.
func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/api/v1")

	rooms := v1.Group("/rooms")
	{
		rooms.POST("", s.handleCreateRoom)
		rooms.GET("", s.handleListRooms)
		rooms.GET("/:id", s.handleGetRoom)
		rooms.PATCH("/:id", s.handleRenameRoom)
		rooms.DELETE("/:id", s.handleDeleteRoom)
	}

	v1.POST("/measurements", s.handleCollect)
	v1.GET("/measurements", s.handleListMeasurements)
	v1.GET("/indices", s.handleListIndices)
	v1.GET("/alerts", s.handleListAlerts)

	v1.GET("/statistics", s.handleStatistics)
	v1.GET("/evolution", s.handleEvolution)
}
