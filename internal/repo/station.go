package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/metro-router/internal/domain"
)

// StationRepo defines the persistence operations for Stations.
// Every read joins the owning line so LineName is always populated.
type StationRepo interface {
	// Create inserts a new station and returns the persisted record.
	// Returns domain.ErrNotFound if the line does not exist and
	// domain.ErrConflict if the name or number is already used on the line.
	Create(ctx context.Context, station domain.Station) (domain.Station, error)

	// GetByID retrieves a single station by its UUID.
	// Returns domain.ErrNotFound if no station with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Station, error)

	// FindOnLine returns a station on lineID whose name equals name or whose
	// number equals number, ignoring the station excludeID (pass uuid.Nil to
	// consider every station). Returns domain.ErrNotFound when none matches.
	FindOnLine(ctx context.Context, lineID, excludeID uuid.UUID, name string, number int) (domain.Station, error)

	// ListByLine returns the stations of a line ordered by station number.
	ListByLine(ctx context.Context, lineID uuid.UUID) ([]domain.Station, error)

	// List returns every station in insertion order. A non-empty name limits
	// the result to stations with exactly that name.
	List(ctx context.Context, name string) ([]domain.Station, error)

	// CountByLine returns the number of stations on a line.
	CountByLine(ctx context.Context, lineID uuid.UUID) (int64, error)

	// Update overwrites the mutable fields of a station.
	// Returns domain.ErrNotFound if the station does not exist.
	Update(ctx context.Context, station domain.Station) (domain.Station, error)

	// Delete removes a station by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgStationRepo is the Postgres implementation of StationRepo.
type pgStationRepo struct {
	db db
}

// NewStationRepo constructs a StationRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStationRepo(db db) StationRepo {
	return &pgStationRepo{db: db}
}

// stationSelect reads stations joined with their line. The alias s is used by
// every query that appends a WHERE clause.
const stationSelect = `
	SELECT s.id, s.name, s.line_id, l.name,
	       s.distance_from_previous_station::float8,
	       s.station_number_on_line, s.is_interchange,
	       s.created_at, s.updated_at
	FROM stations s
	JOIN lines l ON l.id = s.line_id`

// Create inserts a station and re-reads it through the join in one statement.
func (r *pgStationRepo) Create(ctx context.Context, station domain.Station) (domain.Station, error) {
	const q = `
		WITH s AS (
			INSERT INTO stations (name, line_id, distance_from_previous_station,
			                      station_number_on_line, is_interchange)
			VALUES (@name, @line_id, @distance, @number, @interchange)
			RETURNING *
		)
		SELECT s.id, s.name, s.line_id, l.name,
		       s.distance_from_previous_station::float8,
		       s.station_number_on_line, s.is_interchange,
		       s.created_at, s.updated_at
		FROM s
		JOIN lines l ON l.id = s.line_id`

	row := r.db.QueryRow(ctx, q, stationArgs(station))
	result, err := scanStation(row)
	if err != nil {
		if code, _ := pgCode(err); code == codeForeignKeyViolation {
			return domain.Station{}, fmt.Errorf("repo.StationRepo.Create: line %w", domain.ErrNotFound)
		}
		return domain.Station{}, fmt.Errorf("repo.StationRepo.Create: %w", conflictError(err))
	}
	return result, nil
}

// GetByID retrieves a station by primary key.
func (r *pgStationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Station, error) {
	const q = stationSelect + ` WHERE s.id = @id`

	result, err := scanStation(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Station{}, fmt.Errorf("repo.StationRepo.GetByID: %w", err)
	}
	return result, nil
}

// FindOnLine looks for a name or number clash on a line. Name clashes are
// returned ahead of number clashes.
func (r *pgStationRepo) FindOnLine(ctx context.Context, lineID, excludeID uuid.UUID, name string, number int) (domain.Station, error) {
	const q = stationSelect + `
		WHERE s.line_id = @line_id
		  AND s.id <> @exclude_id
		  AND (s.name = @name OR s.station_number_on_line = @number)
		ORDER BY (s.name = @name) DESC
		LIMIT 1`

	args := pgx.NamedArgs{
		"line_id":    lineID,
		"exclude_id": excludeID,
		"name":       name,
		"number":     number,
	}
	result, err := scanStation(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Station{}, fmt.Errorf("repo.StationRepo.FindOnLine: %w", err)
	}
	return result, nil
}

// ListByLine returns the stations of a line ordered by station number.
func (r *pgStationRepo) ListByLine(ctx context.Context, lineID uuid.UUID) ([]domain.Station, error) {
	const q = stationSelect + `
		WHERE s.line_id = @line_id
		ORDER BY s.station_number_on_line`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"line_id": lineID})
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.ListByLine: %w", err)
	}
	stations, err := collectStations(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.ListByLine: %w", err)
	}
	return stations, nil
}

// List returns all stations ordered by creation time, optionally filtered by name.
func (r *pgStationRepo) List(ctx context.Context, name string) ([]domain.Station, error) {
	const q = stationSelect + `
		WHERE (@name = '' OR s.name = @name)
		ORDER BY s.created_at, s.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"name": name})
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.List: %w", err)
	}
	stations, err := collectStations(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.List: %w", err)
	}
	return stations, nil
}

// CountByLine returns the number of stations referencing lineID.
func (r *pgStationRepo) CountByLine(ctx context.Context, lineID uuid.UUID) (int64, error) {
	const q = `SELECT COUNT(*) FROM stations WHERE line_id = @line_id`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"line_id": lineID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.StationRepo.CountByLine: %w", err)
	}
	return n, nil
}

// Update overwrites name, distance, number and interchange flag. The owning
// line is not changed.
func (r *pgStationRepo) Update(ctx context.Context, station domain.Station) (domain.Station, error) {
	const q = `
		WITH s AS (
			UPDATE stations
			SET name                           = @name,
			    distance_from_previous_station = @distance,
			    station_number_on_line         = @number,
			    is_interchange                 = @interchange,
			    updated_at                     = now()
			WHERE id = @id
			RETURNING *
		)
		SELECT s.id, s.name, s.line_id, l.name,
		       s.distance_from_previous_station::float8,
		       s.station_number_on_line, s.is_interchange,
		       s.created_at, s.updated_at
		FROM s
		JOIN lines l ON l.id = s.line_id`

	args := stationArgs(station)
	args["id"] = station.ID

	result, err := scanStation(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Station{}, fmt.Errorf("repo.StationRepo.Update: %w", conflictError(err))
	}
	return result, nil
}

// Delete removes a station by primary key.
func (r *pgStationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM stations WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.StationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StationRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func stationArgs(s domain.Station) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":        s.Name,
		"line_id":     s.LineID,
		"distance":    s.DistanceFromPrevious, // nil becomes NULL
		"number":      s.SequenceOnLine,
		"interchange": s.IsInterchange,
	}
}

func collectStations(rows pgx.Rows) ([]domain.Station, error) {
	defer rows.Close()

	stations := []domain.Station{}
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return stations, nil
}

// scanStation maps a single joined row into a domain.Station.
// It handles the UUID and nullable distance conversions.
func scanStation(s scanner) (domain.Station, error) {
	var (
		st       domain.Station
		id       pgtype.UUID
		lineID   pgtype.UUID
		distance pgtype.Float8
	)

	err := s.Scan(&id, &st.Name, &lineID, &st.LineName, &distance,
		&st.SequenceOnLine, &st.IsInterchange, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Station{}, domain.ErrNotFound
		}
		return domain.Station{}, err
	}

	st.ID = uuid.UUID(id.Bytes)
	st.LineID = uuid.UUID(lineID.Bytes)
	if distance.Valid {
		d := distance.Float64
		st.DistanceFromPrevious = &d
	}
	return st, nil
}
