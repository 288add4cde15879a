package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/mvelasco/aura/internal/comfort"
	"github.com/mvelasco/aura/internal/domain"
	"github.com/mvelasco/aura/internal/repository"
)

// Notifier fans an ingestion bundle out to room subscribers. Delivery is
// at-most-once; implementations must not block ingestion on slow consumers.
type Notifier interface {
	Publish(ctx context.Context, roomID string, bundle domain.Bundle) error
}

// CollectRequest is the transport-independent input shape of one reading.
// Field pointers distinguish missing values from zero values. Timestamp is
// RFC3339 and defaults to ingestion time.
type CollectRequest struct {
	RoomID      string   `json:"room_id"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Air         *float64 `json:"air"`
	Noise       *float64 `json:"noise"`
	Light       *float64 `json:"light"`
	Timestamp   string   `json:"timestamp,omitempty"`
}

// Ingestor runs the ingestion pipeline: validate, score, persist atomically,
// then notify subscribers best-effort.
type Ingestor struct {
	rooms    repository.RoomsRepository
	readings repository.ReadingsRepository
	engine   *comfort.Engine
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewIngestor wires the pipeline. notifier may be nil when no fan-out channel
// is configured.
func NewIngestor(
	rooms repository.RoomsRepository,
	readings repository.ReadingsRepository,
	engine *comfort.Engine,
	notifier Notifier,
	logger *zap.Logger,
) *Ingestor {
	return &Ingestor{
		rooms:    rooms,
		readings: readings,
		engine:   engine,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the pipeline clock. Tests only.
func (i *Ingestor) WithClock(now func() time.Time) *Ingestor {
	i.now = now
	return i
}

func requireField(name string, v *float64) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidReading, name)
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, fmt.Errorf("%w: %s is not a finite number", ErrInvalidReading, name)
	}
	return *v, nil
}

func (i *Ingestor) validate(ctx context.Context, req CollectRequest) (comfort.Reading, time.Time, error) {
	var reading comfort.Reading

	if req.RoomID == "" {
		return reading, time.Time{}, fmt.Errorf("%w: room_id is required", ErrInvalidReading)
	}
	if _, err := i.rooms.GetRoom(ctx, req.RoomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return reading, time.Time{}, fmt.Errorf("%w: %s", ErrRoomNotFound, req.RoomID)
		}
		return reading, time.Time{}, fmt.Errorf("look up room: %w", err)
	}

	var err error
	if reading.Temperature, err = requireField("temperature", req.Temperature); err != nil {
		return reading, time.Time{}, err
	}
	if reading.Humidity, err = requireField("humidity", req.Humidity); err != nil {
		return reading, time.Time{}, err
	}
	if reading.Air, err = requireField("air", req.Air); err != nil {
		return reading, time.Time{}, err
	}
	if reading.Noise, err = requireField("noise", req.Noise); err != nil {
		return reading, time.Time{}, err
	}
	if reading.Light, err = requireField("light", req.Light); err != nil {
		return reading, time.Time{}, err
	}

	ts := i.now().UTC()
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			return reading, time.Time{}, fmt.Errorf("%w: timestamp must be RFC3339", ErrInvalidReading)
		}
		ts = parsed.UTC()
	}
	return reading, ts, nil
}

// Collect ingests one reading. On success the returned bundle holds the
// persisted measurement, its comfort index and the alert set. Persistence is
// all-or-nothing; a storage failure leaves the reading un-ingested and safe
// to resubmit. Notification failures are logged and never surfaced.
func (i *Ingestor) Collect(ctx context.Context, req CollectRequest) (*domain.Bundle, error) {
	reading, ts, err := i.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	scored := i.engine.Score(reading)
	candidates := i.engine.DetectAlerts(reading)

	measurement := domain.Measurement{
		RoomID:      req.RoomID,
		Temperature: reading.Temperature,
		Humidity:    reading.Humidity,
		Air:         reading.Air,
		Noise:       reading.Noise,
		Light:       reading.Light,
		Timestamp:   ts,
	}
	index := domain.ComfortIndex{
		GlobalScore:      scored.Global,
		Status:           scored.Status,
		TemperatureScore: scored.Scores.Temperature,
		HumidityScore:    scored.Scores.Humidity,
		AirScore:         scored.Scores.Air,
		NoiseScore:       scored.Scores.Noise,
		LightScore:       scored.Scores.Light,
		Timestamp:        ts,
	}
	alerts := make([]*domain.Alert, 0, len(candidates))
	for _, c := range candidates {
		alerts = append(alerts, &domain.Alert{
			Parameter: c.Parameter,
			Value:     c.Value,
			Threshold: c.Threshold,
			Severity:  c.Severity,
			Message:   c.Message,
			Timestamp: ts,
		})
	}

	if err := i.readings.IngestReading(ctx, &measurement, &index, alerts); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, req.RoomID)
		}
		return nil, fmt.Errorf("persist reading: %w", err)
	}

	bundle := domain.Bundle{
		Measurement:  measurement,
		ComfortIndex: index,
		Alerts:       make([]domain.Alert, 0, len(alerts)),
	}
	for _, a := range alerts {
		bundle.Alerts = append(bundle.Alerts, *a)
	}

	if i.notifier != nil {
		if err := i.notifier.Publish(ctx, req.RoomID, bundle); err != nil {
			i.logger.Warn("notify subscribers failed",
				zap.String("room_id", req.RoomID),
				zap.Int64("measurement_id", measurement.ID),
				zap.Error(err))
		}
	}

	i.logger.Debug("reading ingested",
		zap.String("room_id", req.RoomID),
		zap.Int64("measurement_id", measurement.ID),
		zap.Float64("global_score", index.GlobalScore),
		zap.String("status", string(index.Status)),
		zap.Int("alerts", len(bundle.Alerts)))

	return &bundle, nil
}
