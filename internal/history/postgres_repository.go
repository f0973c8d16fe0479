package history

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aircast/aircast/pkg/geo"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL observation repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert stores a new observation record.
func (r *PostgresRepository) Insert(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO observations (
			id, latitude, longitude, station_id,
			pm25, pm10, temperature, relative_humidity, wind_speed,
			recorded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.Location.Lat,
		record.Location.Lon,
		record.StationID,
		record.PM25,
		record.PM10,
		record.Temperature,
		record.RelativeHumidity,
		record.WindSpeed,
		record.RecordedAt,
	)
	return err
}

// Latest returns the most recent record within radiusKM of center.
func (r *PostgresRepository) Latest(ctx context.Context, center geo.Coordinate, radiusKM float64) (*Record, error) {
	records, err := r.Recent(ctx, center, radiusKM, 1)
	if err != nil {
		return nil, err
	}
	return records[0], nil
}

// Recent returns up to limit records within radiusKM of center, newest
// first. Candidates are narrowed with a bounding box in SQL and the
// exact distance check happens in Go.
func (r *PostgresRepository) Recent(ctx context.Context, center geo.Coordinate, radiusKM float64, limit int) ([]*Record, error) {
	query := `
		SELECT id, latitude, longitude, station_id,
		       pm25, pm10, temperature, relative_humidity, wind_speed,
		       recorded_at
		FROM observations
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY recorded_at DESC
		LIMIT $5
	`

	latDelta, lonDelta := boundingBox(center, radiusKM)

	// Over-fetch so the exact filter can discard box corners.
	fetchLimit := 100
	if limit > fetchLimit {
		fetchLimit = limit
	}

	rows, err := r.pool.Query(ctx, query,
		center.Lat-latDelta, center.Lat+latDelta,
		center.Lon-lonDelta, center.Lon+lonDelta,
		fetchLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matched []*Record
	for rows.Next() {
		var rec Record
		err := rows.Scan(
			&rec.ID,
			&rec.Location.Lat,
			&rec.Location.Lon,
			&rec.StationID,
			&rec.PM25,
			&rec.PM10,
			&rec.Temperature,
			&rec.RelativeHumidity,
			&rec.WindSpeed,
			&rec.RecordedAt,
		)
		if err != nil {
			return nil, err
		}

		if geo.Distance(center, rec.Location) <= radiusKM {
			matched = append(matched, &rec)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(matched) == 0 {
		return nil, ErrNoRecords
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// boundingBox returns latitude and longitude half-widths in degrees
// that enclose a circle of radiusKM around center.
func boundingBox(center geo.Coordinate, radiusKM float64) (latDelta, lonDelta float64) {
	const kmPerDegreeLat = 111.2

	latDelta = radiusKM / kmPerDegreeLat
	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01 // near the poles every longitude qualifies
	}
	lonDelta = radiusKM / (kmPerDegreeLat * cosLat)
	return latDelta, lonDelta
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
