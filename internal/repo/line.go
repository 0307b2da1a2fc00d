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

// LineRepo defines the persistence operations for Lines.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type LineRepo interface {
	// Create inserts a new line and returns the persisted record.
	// Returns domain.ErrConflict if the name is already taken.
	Create(ctx context.Context, line domain.Line) (domain.Line, error)

	// GetByID retrieves a single line by its UUID primary key.
	// Returns domain.ErrNotFound if no line with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Line, error)

	// GetByName retrieves a line by its unique name.
	// Returns domain.ErrNotFound if no line has that name.
	GetByName(ctx context.Context, name string) (domain.Line, error)

	// List returns every line in insertion order. Graph builds rely on this
	// order being stable.
	List(ctx context.Context) ([]domain.Line, error)

	// ListPaged returns one page of lines ordered by name, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Line, int64, error)

	// Update overwrites name and color. Returns domain.ErrNotFound if the line
	// does not exist and domain.ErrConflict if the new name is taken.
	Update(ctx context.Context, line domain.Line) (domain.Line, error)

	// Delete removes a line by ID. Returns domain.ErrNotFound if it does not
	// exist and domain.ErrLineInUse if stations still reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgLineRepo is the Postgres implementation of LineRepo.
type pgLineRepo struct {
	db db
}

// NewLineRepo constructs a LineRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewLineRepo(db db) LineRepo {
	return &pgLineRepo{db: db}
}

const lineColumns = `id, name, color, created_at, updated_at`

// Create inserts a new line row and returns the full persisted record.
func (r *pgLineRepo) Create(ctx context.Context, line domain.Line) (domain.Line, error) {
	const q = `
		INSERT INTO lines (name, color)
		VALUES (@name, @color)
		RETURNING ` + lineColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": line.Name, "color": line.Color})
	result, err := scanLine(row)
	if err != nil {
		return domain.Line{}, fmt.Errorf("repo.LineRepo.Create: %w", conflictError(err))
	}
	return result, nil
}

// GetByID retrieves a line by primary key.
func (r *pgLineRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Line, error) {
	const q = `SELECT ` + lineColumns + ` FROM lines WHERE id = @id`

	result, err := scanLine(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Line{}, fmt.Errorf("repo.LineRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByName retrieves a line by its unique name.
func (r *pgLineRepo) GetByName(ctx context.Context, name string) (domain.Line, error) {
	const q = `SELECT ` + lineColumns + ` FROM lines WHERE name = @name`

	result, err := scanLine(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name}))
	if err != nil {
		return domain.Line{}, fmt.Errorf("repo.LineRepo.GetByName: %w", err)
	}
	return result, nil
}

// List returns all lines ordered by creation time.
func (r *pgLineRepo) List(ctx context.Context) ([]domain.Line, error) {
	const q = `SELECT ` + lineColumns + ` FROM lines ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.LineRepo.List: %w", err)
	}
	lines, err := collectLines(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.LineRepo.List: %w", err)
	}
	return lines, nil
}

// ListPaged returns one page of lines ordered by name.
// COUNT(*) OVER () carries the unpaged total on every row.
func (r *pgLineRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Line, int64, error) {
	const q = `
		SELECT ` + lineColumns + `, COUNT(*) OVER ()
		FROM lines
		ORDER BY name
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.LineRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var (
		lines = []domain.Line{}
		total int64
	)
	for rows.Next() {
		var (
			l  domain.Line
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &l.Name, &l.Color, &l.CreatedAt, &l.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.LineRepo.ListPaged: scan: %w", err)
		}
		l.ID = uuid.UUID(id.Bytes)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.LineRepo.ListPaged: rows: %w", err)
	}
	return lines, total, nil
}

// Update overwrites the mutable fields of a line and returns the updated record.
func (r *pgLineRepo) Update(ctx context.Context, line domain.Line) (domain.Line, error) {
	const q = `
		UPDATE lines
		SET name       = @name,
		    color      = @color,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + lineColumns

	args := pgx.NamedArgs{
		"id":    line.ID,
		"name":  line.Name,
		"color": line.Color,
	}

	result, err := scanLine(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Line{}, fmt.Errorf("repo.LineRepo.Update: %w", conflictError(err))
	}
	return result, nil
}

// Delete removes a line by primary key. The stations foreign key is
// ON DELETE RESTRICT, so a line that still has stations is refused.
func (r *pgLineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM lines WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		if code, _ := pgCode(err); code == codeForeignKeyViolation {
			return fmt.Errorf("repo.LineRepo.Delete: %w", domain.ErrLineInUse)
		}
		return fmt.Errorf("repo.LineRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LineRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func collectLines(rows pgx.Rows) ([]domain.Line, error) {
	defer rows.Close()

	lines := []domain.Line{}
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return lines, nil
}

// scanLine maps a single database row into a domain.Line.
func scanLine(s scanner) (domain.Line, error) {
	var (
		l  domain.Line
		id pgtype.UUID
	)
	err := s.Scan(&id, &l.Name, &l.Color, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Line{}, domain.ErrNotFound
		}
		return domain.Line{}, err
	}
	l.ID = uuid.UUID(id.Bytes)
	return l, nil
}
