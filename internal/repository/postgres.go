package repository

import (
	"context"
	"fmt"

	"survey-app/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository publishes project partitions into a PostGIS table so
// they can be queried spatially. The CSV partition stays the source of truth.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostGIS publication repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the observations table and its indexes if missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	sql := `
	CREATE EXTENSION IF NOT EXISTS postgis;
	CREATE TABLE IF NOT EXISTS observations (
		id BIGSERIAL PRIMARY KEY,
		project VARCHAR(255) NOT NULL,
		seq INTEGER NOT NULL,
		observed_date VARCHAR(10) NOT NULL,
		observed_time VARCHAR(32) NOT NULL,
		species TEXT NOT NULL,
		method TEXT,
		collector TEXT,
		notes TEXT,
		geom GEOGRAPHY(POINT, 4326) NOT NULL
	);
	CREATE INDEX IF NOT EXISTS observations_project_idx ON observations (project, seq);
	CREATE INDEX IF NOT EXISTS observations_geom_idx ON observations USING GIST (geom);
	`
	if _, err := r.db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// PublishProject replaces the published rows of project with records.
// Records without a set coordinate are skipped. The number of rows written is returned.
func (r *PostgresRepository) PublishProject(ctx context.Context, project string, records []models.Record) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin publish: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM observations WHERE project = $1`, project); err != nil {
		return 0, fmt.Errorf("repository: failed to clear published rows: %w", err)
	}

	batch := &pgx.Batch{}
	for i, rec := range records {
		if !rec.Coordinate().IsSet() {
			continue
		}
		batch.Queue(`
			INSERT INTO observations
				(project, seq, observed_date, observed_time, species, method, collector, notes, geom)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, ST_SetSRID(ST_MakePoint($9, $10), 4326))`,
			project, i, rec.Date, rec.Time, rec.Species, string(rec.Method), rec.Collector, rec.Notes,
			rec.Lon, rec.Lat, // PostGIS order: lon lat
		)
	}

	written := batch.Len()
	if written > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, fmt.Errorf("repository: failed to insert observations: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit publish: %w", err)
	}
	return written, nil
}

// FindNearestRecords returns up to limit published records of project within
// radius meters of point, nearest first.
func (r *PostgresRepository) FindNearestRecords(ctx context.Context, project string, point models.Coordinate, radius float64, limit int) ([]models.NearbyRecord, error) {
	sql := `
		SELECT
			observed_date,
			observed_time,
			ST_Y(geom::geometry) as latitude,
			ST_X(geom::geometry) as longitude,
			species,
			COALESCE(method, ''),
			COALESCE(collector, ''),
			COALESCE(notes, ''),
			ST_Distance(geom, ST_SetSRID(ST_MakePoint($3, $2), 4326)::geography) as distance
		FROM observations
		WHERE project = $1
			AND ST_DWithin(geom, ST_SetSRID(ST_MakePoint($3, $2), 4326)::geography, $4)
		ORDER BY geom <-> ST_SetSRID(ST_MakePoint($3, $2), 4326)::geography, seq
		LIMIT $5
	`

	rows, err := r.db.Query(ctx, sql, project, point.Lat, point.Lon, radius, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}
	defer rows.Close()

	nearby := []models.NearbyRecord{}
	for rows.Next() {
		var n models.NearbyRecord
		var method string
		err := rows.Scan(
			&n.Record.Date,
			&n.Record.Time,
			&n.Record.Lat,
			&n.Record.Lon,
			&n.Record.Species,
			&method,
			&n.Record.Collector,
			&n.Record.Notes,
			&n.DistanceMeters,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan observation: %w", err)
		}
		n.Record.Method = models.Method(method)
		nearby = append(nearby, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return nearby, nil
}

// CountPublished returns the number of published rows for project.
func (r *PostgresRepository) CountPublished(ctx context.Context, project string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM observations WHERE project = $1`, project).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to count observations: %w", err)
	}
	return count, nil
}
