package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"venue-pulse/internal/models"
)

// Raw readings are append-only time series, so the telemetry side can
// optionally run on ClickHouse while everything relational stays in the
// primary database.
const readingsTableDDL = `
CREATE TABLE IF NOT EXISTS venue_readings (
    timestamp DateTime,
    venue_id String,
    decibels Float64,
    lux Float64,
    temp_c Float64,
    humidity Float64,
    has_occupancy UInt8,
    occ_current Int32,
    occ_entries Int32,
    occ_exits Int32,
    song String,
    artist String
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(timestamp)
ORDER BY (venue_id, timestamp)
TTL timestamp + INTERVAL 90 DAY
`

// ClickHouseStore implements TelemetryStore on ClickHouse.
type ClickHouseStore struct {
	conn driver.Conn
}

func NewClickHouseStore(addr, database, username, password string) (*ClickHouseStore, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	s := &ClickHouseStore{conn: conn}
	if err := s.conn.Exec(context.Background(), readingsTableDDL); err != nil {
		return nil, fmt.Errorf("failed to create readings table: %w", err)
	}

	log.Printf("✅ ClickHouse telemetry connected at %s", addr)
	return s, nil
}

func (s *ClickHouseStore) SaveReading(ctx context.Context, r *models.SensorReading) error {
	rec := models.NewReadingRecord(r)

	query := `
		INSERT INTO venue_readings
			(timestamp, venue_id, decibels, lux, temp_c, humidity,
			 has_occupancy, occ_current, occ_entries, occ_exits, song, artist)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		rec.Timestamp,
		rec.VenueID,
		rec.Decibels,
		rec.Lux,
		rec.TempC,
		rec.Humidity,
		boolToUInt8(rec.HasOccupancy),
		int32(rec.OccCurrent),
		int32(rec.OccEntries),
		int32(rec.OccExits),
		rec.Song,
		rec.Artist,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

func (s *ClickHouseStore) LatestReading(ctx context.Context, venueID string) (*models.SensorReading, error) {
	query := `
		SELECT timestamp, venue_id, decibels, lux, temp_c, humidity,
		       has_occupancy, occ_current, occ_entries, occ_exits, song, artist
		FROM venue_readings
		WHERE venue_id = ?
		ORDER BY timestamp DESC
		LIMIT 1
	`

	rec, err := scanReading(s.conn.QueryRow(ctx, query, venueID))
	if err != nil {
		// No rows yet is a normal state for a fresh venue
		return nil, nil
	}
	return rec.Reading(), nil
}

func (s *ClickHouseStore) ReadingsSince(ctx context.Context, venueID string, since time.Time) ([]models.SensorReading, error) {
	query := `
		SELECT timestamp, venue_id, decibels, lux, temp_c, humidity,
		       has_occupancy, occ_current, occ_entries, occ_exits, song, artist
		FROM venue_readings
		WHERE venue_id = ? AND timestamp >= ?
		ORDER BY timestamp ASC
	`

	rows, err := s.conn.Query(ctx, query, venueID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var out []models.SensorReading
	for rows.Next() {
		rec, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		out = append(out, *rec.Reading())
	}
	return out, rows.Err()
}

func (s *ClickHouseStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner) (*models.ReadingRecord, error) {
	var (
		rec    models.ReadingRecord
		hasOcc uint8
		cur    int32
		ent    int32
		ext    int32
	)
	err := row.Scan(
		&rec.Timestamp,
		&rec.VenueID,
		&rec.Decibels,
		&rec.Lux,
		&rec.TempC,
		&rec.Humidity,
		&hasOcc,
		&cur,
		&ent,
		&ext,
		&rec.Song,
		&rec.Artist,
	)
	if err != nil {
		return nil, err
	}
	rec.HasOccupancy = hasOcc == 1
	rec.OccCurrent = int(cur)
	rec.OccEntries = int(ent)
	rec.OccExits = int(ext)
	return &rec, nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
