package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvelasco/aura/internal/domain"
)

// Store is the Postgres-backed repository. It implements RoomsRepository and
// ReadingsRepository over a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by a pgx pool.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const createRoomSQL = `
    INSERT INTO aura.rooms (id, name, description, created_at)
    VALUES ($1, $2, $3, $4)
`

func (s *Store) CreateRoom(ctx context.Context, room *domain.Room) error {
	_, err := s.pool.Exec(ctx, createRoomSQL, room.ID, room.Name, room.Description, room.CreatedAt)
	return err
}

const getRoomSQL = `
    SELECT id, name, description, created_at
    FROM aura.rooms
    WHERE id = $1
`

func (s *Store) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	var room domain.Room
	err := s.pool.QueryRow(ctx, getRoomSQL, id).
		Scan(&room.ID, &room.Name, &room.Description, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

const listRoomsSQL = `
    SELECT id, name, description, created_at
    FROM aura.rooms
    ORDER BY name
`

func (s *Store) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rows, err := s.pool.Query(ctx, listRoomsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0)
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Description, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

const updateRoomSQL = `
    UPDATE aura.rooms
    SET name = $2, description = $3
    WHERE id = $1
`

func (s *Store) UpdateRoom(ctx context.Context, room *domain.Room) error {
	tag, err := s.pool.Exec(ctx, updateRoomSQL, room.ID, room.Name, room.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const deleteRoomSQL = `DELETE FROM aura.rooms WHERE id = $1`

func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, deleteRoomSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const insertMeasurementSQL = `
    INSERT INTO aura.measurements (room_id, temperature, humidity, air, noise, light, ts)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING id
`

const insertIndexSQL = `
    INSERT INTO aura.comfort_indices
        (measurement_id, global_score, status, temperature_score, humidity_score,
         air_score, noise_score, light_score, ts)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    RETURNING id
`

const insertAlertSQL = `
    INSERT INTO aura.alerts (measurement_id, parameter, value, threshold, severity, message, ts)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING id
`

// IngestReading writes measurement, comfort index and alerts inside one
// transaction so readers only ever see the complete set.
func (s *Store) IngestReading(ctx context.Context, m *domain.Measurement, ix *domain.ComfortIndex, alerts []*domain.Alert) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, insertMeasurementSQL,
		m.RoomID, m.Temperature, m.Humidity, m.Air, m.Noise, m.Light, m.Timestamp,
	).Scan(&m.ID); err != nil {
		return err
	}

	ix.MeasurementID = m.ID
	if err := tx.QueryRow(ctx, insertIndexSQL,
		ix.MeasurementID, ix.GlobalScore, ix.Status, ix.TemperatureScore, ix.HumidityScore,
		ix.AirScore, ix.NoiseScore, ix.LightScore, ix.Timestamp,
	).Scan(&ix.ID); err != nil {
		return err
	}

	if len(alerts) > 0 {
		batch := &pgx.Batch{}
		for _, a := range alerts {
			a.MeasurementID = m.ID
			batch.Queue(insertAlertSQL, a.MeasurementID, a.Parameter, a.Value, a.Threshold, a.Severity, a.Message, a.Timestamp)
		}
		res := tx.SendBatch(ctx, batch)
		for _, a := range alerts {
			if err := res.QueryRow().Scan(&a.ID); err != nil {
				res.Close()
				return err
			}
		}
		if err := res.Close(); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const listMeasurementsBase = `
    SELECT id, room_id, temperature, humidity, air, noise, light, ts
    FROM aura.measurements
`

func (s *Store) ListMeasurements(ctx context.Context, f MeasurementFilters) ([]domain.Measurement, error) {
	sql, args := buildFilterQuery(listMeasurementsBase, "room_id", "ts", filterArgs{
		roomID: f.RoomID, from: f.From, to: f.To, limit: f.Limit,
	})

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Measurement, 0)
	for rows.Next() {
		var m domain.Measurement
		if err := rows.Scan(&m.ID, &m.RoomID, &m.Temperature, &m.Humidity, &m.Air, &m.Noise, &m.Light, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const listIndicesBase = `
    SELECT ci.id, ci.measurement_id, ci.global_score, ci.status, ci.temperature_score,
           ci.humidity_score, ci.air_score, ci.noise_score, ci.light_score, ci.ts
    FROM aura.comfort_indices ci
    JOIN aura.measurements m ON m.id = ci.measurement_id
`

func (s *Store) ListIndices(ctx context.Context, f IndexFilters) ([]domain.ComfortIndex, error) {
	sql, args := buildFilterQuery(listIndicesBase, "m.room_id", "ci.ts", filterArgs{
		roomID: f.RoomID, from: f.From, to: f.To, limit: f.Limit,
	})
	return s.queryIndices(ctx, sql, args...)
}

func (s *Store) queryIndices(ctx context.Context, sql string, args ...any) ([]domain.ComfortIndex, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ComfortIndex, 0)
	for rows.Next() {
		var ix domain.ComfortIndex
		if err := rows.Scan(&ix.ID, &ix.MeasurementID, &ix.GlobalScore, &ix.Status, &ix.TemperatureScore,
			&ix.HumidityScore, &ix.AirScore, &ix.NoiseScore, &ix.LightScore, &ix.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, ix)
	}
	return out, rows.Err()
}

const listAlertsBase = `
    SELECT a.id, a.measurement_id, a.parameter, a.value, a.threshold, a.severity, a.message, a.ts
    FROM aura.alerts a
    JOIN aura.measurements m ON m.id = a.measurement_id
`

func (s *Store) ListAlerts(ctx context.Context, f AlertFilters) ([]domain.Alert, error) {
	args := []any{}
	clause := ""
	argPos := 1
	and := func(cond string, v any) {
		if clause == "" {
			clause = " WHERE "
		} else {
			clause += " AND "
		}
		clause += cond + "$" + strconv.Itoa(argPos)
		args = append(args, v)
		argPos++
	}

	if f.RoomID != "" {
		and("m.room_id = ", f.RoomID)
	}
	if f.Parameter != "" {
		and("a.parameter = ", f.Parameter)
	}
	if f.Severity != "" {
		and("a.severity = ", f.Severity)
	}
	if f.From != nil {
		and("a.ts >= ", *f.From)
	}
	if f.To != nil {
		and("a.ts <= ", *f.To)
	}

	sql := listAlertsBase + clause + " ORDER BY a.ts DESC"
	if f.Limit > 0 {
		sql += " LIMIT $" + strconv.Itoa(argPos)
		args = append(args, f.Limit)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Alert, 0)
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.MeasurementID, &a.Parameter, &a.Value, &a.Threshold, &a.Severity, &a.Message, &a.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

const indicesInWindowSQL = listIndicesBase + `
    WHERE m.room_id = $1 AND ci.ts >= $2 AND ci.ts <= $3
    ORDER BY ci.ts ASC
`

func (s *Store) IndicesInWindow(ctx context.Context, roomID string, from, to time.Time) ([]domain.ComfortIndex, error) {
	return s.queryIndices(ctx, indicesInWindowSQL, roomID, from, to)
}

const earliestIndexSQL = `
    SELECT MIN(ci.ts)
    FROM aura.comfort_indices ci
    JOIN aura.measurements m ON m.id = ci.measurement_id
    WHERE m.room_id = $1
`

func (s *Store) EarliestIndexTimestamp(ctx context.Context, roomID string) (*time.Time, error) {
	var ts *time.Time
	if err := s.pool.QueryRow(ctx, earliestIndexSQL, roomID).Scan(&ts); err != nil {
		return nil, err
	}
	return ts, nil
}

const countAlertsSQL = `
    SELECT COUNT(*)
    FROM aura.alerts a
    JOIN aura.measurements m ON m.id = a.measurement_id
    WHERE m.room_id = $1 AND a.ts >= $2 AND a.ts <= $3
`

func (s *Store) CountAlerts(ctx context.Context, roomID string, from, to time.Time) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, countAlertsSQL, roomID, from, to).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type filterArgs struct {
	roomID string
	from   *time.Time
	to     *time.Time
	limit  int
}

// buildFilterQuery appends room/window clauses, descending order and an
// optional limit to a base SELECT.
func buildFilterQuery(base, roomCol, tsCol string, f filterArgs) (string, []any) {
	args := []any{}
	clause := ""
	argPos := 1
	and := func(cond string, v any) {
		if clause == "" {
			clause = " WHERE "
		} else {
			clause += " AND "
		}
		clause += cond + "$" + strconv.Itoa(argPos)
		args = append(args, v)
		argPos++
	}

	if f.roomID != "" {
		and(roomCol+" = ", f.roomID)
	}
	if f.from != nil {
		and(tsCol+" >= ", *f.from)
	}
	if f.to != nil {
		and(tsCol+" <= ", *f.to)
	}

	sql := base + clause + " ORDER BY " + tsCol + " DESC"
	if f.limit > 0 {
		sql += " LIMIT $" + strconv.Itoa(argPos)
		args = append(args, f.limit)
	}
	return sql, args
}
