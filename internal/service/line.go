package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/metro-router/internal/domain"
	"github.com/pkordes/metro-router/internal/repo"
)

// LineService implements business logic for Line operations.
type LineService struct {
	lines    repo.LineRepo
	stations repo.StationRepo
	graph    Rebuilder
}

// NewLineService constructs a LineService. graph is rebuilt after every
// successful mutation.
func NewLineService(lines repo.LineRepo, stations repo.StationRepo, graph Rebuilder) *LineService {
	return &LineService{lines: lines, stations: stations, graph: graph}
}

// Create validates and persists a new line.
// Returns domain.ErrConflict if a line with the same name exists.
func (s *LineService) Create(ctx context.Context, line domain.Line) (domain.Line, error) {
	line = normalizeLine(line)
	if err := validateStruct(line); err != nil {
		return domain.Line{}, err
	}
	if err := s.checkNameFree(ctx, line.Name, uuid.Nil); err != nil {
		return domain.Line{}, fmt.Errorf("service.LineService.Create: %w", err)
	}

	created, err := s.lines.Create(ctx, line)
	if err != nil {
		return domain.Line{}, fmt.Errorf("service.LineService.Create: %w", err)
	}
	if _, err := s.graph.Rebuild(ctx); err != nil {
		return domain.Line{}, fmt.Errorf("service.LineService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single line by ID.
func (s *LineService) GetByID(ctx context.Context, id uuid.UUID) (domain.Line, error) {
	line, err := s.lines.GetByID(ctx, id)
	if err != nil {
		return domain.Line{}, fmt.Errorf("service.LineService.GetByID: %w", err)
	}
	return line, nil
}

// List returns one page of lines ordered by name, plus the total line count.
func (s *LineService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Line, int64, error) {
	lines, total, err := s.lines.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.LineService.List: %w", err)
	}
	return lines, total, nil
}

// Update validates and overwrites the name and color of an existing line.
func (s *LineService) Update(ctx context.Context, line domain.Line) (domain.Line, error) {
	line = normalizeLine(line)
	if err := validateStruct(line); err != nil {
		return domain.Line{}, err
	}
	if _, err := s.lines.GetByID(ctx, line.ID); err != nil {
		return domain.Line{}, fmt.Errorf("service.LineService.Update: %w", err)
	}
	if err := s.checkNameFree(ctx, line.Name, line.ID); err != nil {
		return domain.Line{}, fmt.Errorf("service.LineService.Update: %w", err)
	}

	updated, err := s.lines.Update(ctx, line)
	if err != nil {
		return domain.Line{}, fmt.Errorf("service.LineService.Update: %w", err)
	}
	if _, err := s.graph.Rebuild(ctx); err != nil {
		return domain.Line{}, fmt.Errorf("service.LineService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a line. A line that still has stations cannot be deleted.
func (s *LineService) Delete(ctx context.Context, id uuid.UUID) error {
	line, err := s.lines.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.LineService.Delete: %w", err)
	}

	n, err := s.stations.CountByLine(ctx, id)
	if err != nil {
		return fmt.Errorf("service.LineService.Delete: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("service.LineService.Delete: %w: line %q has %d station(s); delete them first",
			domain.ErrLineInUse, line.Name, n)
	}

	if err := s.lines.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.LineService.Delete: %w", err)
	}
	if _, err := s.graph.Rebuild(ctx); err != nil {
		return fmt.Errorf("service.LineService.Delete: %w", err)
	}
	return nil
}

// checkNameFree reports domain.ErrConflict when a line other than self
// already uses name. The unique constraint still backs this up under races.
func (s *LineService) checkNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.lines.GetByName(ctx, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return fmt.Errorf("%w: line with name %q already exists", domain.ErrConflict, name)
	default:
		return nil
	}
}

func normalizeLine(line domain.Line) domain.Line {
	line.Name = strings.TrimSpace(line.Name)
	line.Color = strings.TrimSpace(line.Color)
	return line
}
