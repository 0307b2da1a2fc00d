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

// StationService implements business logic for Station operations.
type StationService struct {
	lines    repo.LineRepo
	stations repo.StationRepo
	graph    Rebuilder
}

// NewStationService constructs a StationService. graph is rebuilt after
// every successful mutation.
func NewStationService(lines repo.LineRepo, stations repo.StationRepo, graph Rebuilder) *StationService {
	return &StationService{lines: lines, stations: stations, graph: graph}
}

// Create validates and persists a new station on station.LineID.
// Returns domain.ErrNotFound if the line does not exist and domain.ErrConflict
// if the name or station number is already taken on that line.
func (s *StationService) Create(ctx context.Context, station domain.Station) (domain.Station, error) {
	if _, err := s.lines.GetByID(ctx, station.LineID); err != nil {
		return domain.Station{}, fmt.Errorf("service.StationService.Create: line %w", err)
	}

	station.Name = strings.TrimSpace(station.Name)
	if err := validateStruct(station); err != nil {
		return domain.Station{}, err
	}
	if err := s.checkFree(ctx, station, uuid.Nil); err != nil {
		return domain.Station{}, fmt.Errorf("service.StationService.Create: %w", err)
	}

	created, err := s.stations.Create(ctx, station)
	if err != nil {
		return domain.Station{}, fmt.Errorf("service.StationService.Create: %w", err)
	}
	if _, err := s.graph.Rebuild(ctx); err != nil {
		return domain.Station{}, fmt.Errorf("service.StationService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single station by ID.
func (s *StationService) GetByID(ctx context.Context, id uuid.UUID) (domain.Station, error) {
	station, err := s.stations.GetByID(ctx, id)
	if err != nil {
		return domain.Station{}, fmt.Errorf("service.StationService.GetByID: %w", err)
	}
	return station, nil
}

// ListByLine returns the stations of a line ordered by station number.
func (s *StationService) ListByLine(ctx context.Context, lineID uuid.UUID) ([]domain.Station, error) {
	if _, err := s.lines.GetByID(ctx, lineID); err != nil {
		return nil, fmt.Errorf("service.StationService.ListByLine: line %w", err)
	}
	stations, err := s.stations.ListByLine(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("service.StationService.ListByLine: %w", err)
	}
	return stations, nil
}

// List returns every station, or only those named name when it is non-empty.
func (s *StationService) List(ctx context.Context, name string) ([]domain.Station, error) {
	stations, err := s.stations.List(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("service.StationService.List: %w", err)
	}
	return stations, nil
}

// Update validates and overwrites the mutable fields of a station.
// A station never moves between lines; station.LineID is ignored.
func (s *StationService) Update(ctx context.Context, station domain.Station) (domain.Station, error) {
	existing, err := s.stations.GetByID(ctx, station.ID)
	if err != nil {
		return domain.Station{}, fmt.Errorf("service.StationService.Update: %w", err)
	}
	station.LineID = existing.LineID

	station.Name = strings.TrimSpace(station.Name)
	if err := validateStruct(station); err != nil {
		return domain.Station{}, err
	}
	if err := s.checkFree(ctx, station, station.ID); err != nil {
		return domain.Station{}, fmt.Errorf("service.StationService.Update: %w", err)
	}

	updated, err := s.stations.Update(ctx, station)
	if err != nil {
		return domain.Station{}, fmt.Errorf("service.StationService.Update: %w", err)
	}
	if _, err := s.graph.Rebuild(ctx); err != nil {
		return domain.Station{}, fmt.Errorf("service.StationService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a station.
func (s *StationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.stations.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.StationService.Delete: %w", err)
	}
	if _, err := s.graph.Rebuild(ctx); err != nil {
		return fmt.Errorf("service.StationService.Delete: %w", err)
	}
	return nil
}

// checkFree reports domain.ErrConflict when another station on the same line
// already has the name or number of station.
func (s *StationService) checkFree(ctx context.Context, station domain.Station, self uuid.UUID) error {
	clash, err := s.stations.FindOnLine(ctx, station.LineID, self, station.Name, station.SequenceOnLine)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case clash.Name == station.Name:
		return fmt.Errorf("%w: station %q already exists on this line", domain.ErrConflict, station.Name)
	default:
		return fmt.Errorf("%w: station number %d is already taken on this line by %q",
			domain.ErrConflict, station.SequenceOnLine, clash.Name)
	}
}
