package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mvelasco/aura/internal/comfort"
	"github.com/mvelasco/aura/internal/repository"
	"github.com/mvelasco/aura/internal/service"
)

const queryTimeout = 15 * time.Second

// fail maps service errors onto HTTP statuses. Internal errors are logged
// with detail but returned opaque.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidReading), errors.Is(err, service.ErrInvalidWindow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed",
			zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// handleCollect ingests a reading and returns the created bundle.
// POST /api/v1/measurements
func (s *Server) handleCollect(c *gin.Context) {
	var req service.CollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	bundle, err := s.ingestor.Collect(ctx, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, bundle)
}

func parseWindow(c *gin.Context) (from, to *time.Time, ok bool) {
	if startStr := c.Query("start"); startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start timestamp"})
			return nil, nil, false
		}
		tt := t.UTC()
		from = &tt
	}
	if endStr := c.Query("end"); endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end timestamp"})
			return nil, nil, false
		}
		tt := t.UTC()
		to = &tt
	}
	return from, to, true
}

func parseLimit(c *gin.Context) (int, bool) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return 0, false
	}
	return limit, true
}

// handleListMeasurements lists raw readings.
// GET /api/v1/measurements?room_id=&start=&end=&limit=
func (s *Server) handleListMeasurements(c *gin.Context) {
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	measurements, err := s.readings.ListMeasurements(ctx, repository.MeasurementFilters{
		RoomID: c.Query("room_id"),
		From:   from,
		To:     to,
		Limit:  limit,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(measurements), "measurements": measurements})
}

// handleListIndices lists derived comfort indices.
// GET /api/v1/indices?room_id=&start=&end=&limit=
func (s *Server) handleListIndices(c *gin.Context) {
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	indices, err := s.readings.ListIndices(ctx, repository.IndexFilters{
		RoomID: c.Query("room_id"),
		From:   from,
		To:     to,
		Limit:  limit,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(indices), "indices": indices})
}

// handleListAlerts lists alerts.
// GET /api/v1/alerts?room_id=&parameter=&severity=&start=&end=&limit=
func (s *Server) handleListAlerts(c *gin.Context) {
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	alerts, err := s.readings.ListAlerts(ctx, repository.AlertFilters{
		RoomID:    c.Query("room_id"),
		Parameter: c.Query("parameter"),
		Severity:  c.Query("severity"),
		From:      from,
		To:        to,
		Limit:     limit,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(alerts), "alerts": alerts})
}

// handleStatistics returns the comfort summary for a trailing window.
// GET /api/v1/statistics?room_id=&days=
func (s *Server) handleStatistics(c *gin.Context) {
	roomID := c.Query("room_id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id is required"})
		return
	}

	days := s.cfg.DefaultDays
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	summary, err := s.reporter.Statistics(ctx, roomID, days)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// handleEvolution returns bucketed trend data for charts.
// GET /api/v1/evolution?room_id=&period=hour|day
func (s *Server) handleEvolution(c *gin.Context) {
	roomID := c.Query("room_id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id is required"})
		return
	}

	period := c.Query("period")
	if period == "" {
		period = s.cfg.DefaultPeriod
	}
	granularity, err := comfort.ParseGranularity(period)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	buckets, err := s.reporter.Evolution(ctx, roomID, granularity)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(buckets), "buckets": buckets})
}

type roomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handleCreateRoom registers a room.
// POST /api/v1/rooms
func (s *Server) handleCreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	room, err := s.rooms.Create(ctx, req.Name, req.Description)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// handleListRooms lists all rooms.
// GET /api/v1/rooms
func (s *Server) handleListRooms(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rooms), "rooms": rooms})
}

// handleGetRoom returns one room.
// GET /api/v1/rooms/:id
func (s *Server) handleGetRoom(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	room, err := s.rooms.Get(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// handleRenameRoom updates a room's name/description.
// PATCH /api/v1/rooms/:id
func (s *Server) handleRenameRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	room, err := s.rooms.Rename(ctx, c.Param("id"), req.Name, req.Description)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// handleDeleteRoom removes a room and its history.
// DELETE /api/v1/rooms/:id
func (s *Server) handleDeleteRoom(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
	defer cancel()

	if err := s.rooms.Delete(ctx, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
