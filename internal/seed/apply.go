package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/metro-router/internal/domain"
)

// LineStore is the subset of repo.LineRepo the seeder writes through.
type LineStore interface {
	Create(ctx context.Context, line domain.Line) (domain.Line, error)
	GetByName(ctx context.Context, name string) (domain.Line, error)
	Update(ctx context.Context, line domain.Line) (domain.Line, error)
}

// StationStore is the subset of repo.StationRepo the seeder writes through.
type StationStore interface {
	Create(ctx context.Context, station domain.Station) (domain.Station, error)
	ListByLine(ctx context.Context, lineID uuid.UUID) ([]domain.Station, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Result counts what Apply did.
type Result struct {
	LinesCreated  int
	LinesReplaced int
	LinesSkipped  int
	Stations      int
}

// Seeder writes seed files into the line and station stores.
// Pass stores bound to one transaction to make Apply all-or-nothing.
type Seeder struct {
	lines    LineStore
	stations StationStore
	log      *slog.Logger
}

// NewSeeder constructs a Seeder.
func NewSeeder(lines LineStore, stations StationStore, log *slog.Logger) *Seeder {
	return &Seeder{lines: lines, stations: stations, log: log}
}

// Apply writes every line of f. A line whose name already exists is skipped,
// unless replace is set: then its stations are deleted, its color updated and
// the stations from f inserted in their place.
func (s *Seeder) Apply(ctx context.Context, f File, replace bool) (Result, error) {
	var res Result
	for _, ls := range f.Lines {
		line, err := s.lines.GetByName(ctx, ls.Name)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			line, err = s.lines.Create(ctx, domain.Line{Name: ls.Name, Color: ls.Color})
			if err != nil {
				return res, fmt.Errorf("seed.Seeder.Apply: line %q: %w", ls.Name, err)
			}
			res.LinesCreated++
		case err != nil:
			return res, fmt.Errorf("seed.Seeder.Apply: line %q: %w", ls.Name, err)
		case !replace:
			s.log.InfoContext(ctx, "line exists, skipping", "line", ls.Name)
			res.LinesSkipped++
			continue
		default:
			if err := s.clear(ctx, line); err != nil {
				return res, fmt.Errorf("seed.Seeder.Apply: line %q: %w", ls.Name, err)
			}
			line.Color = ls.Color
			if line, err = s.lines.Update(ctx, line); err != nil {
				return res, fmt.Errorf("seed.Seeder.Apply: line %q: %w", ls.Name, err)
			}
			res.LinesReplaced++
		}

		for i, ss := range ls.Stations {
			if _, err := s.stations.Create(ctx, stationRecord(line, i, ss)); err != nil {
				return res, fmt.Errorf("seed.Seeder.Apply: station %q on line %q: %w", ss.Name, ls.Name, err)
			}
			res.Stations++
		}
		s.log.InfoContext(ctx, "line seeded", "line", ls.Name, "stations", len(ls.Stations))
	}
	return res, nil
}

func (s *Seeder) clear(ctx context.Context, line domain.Line) error {
	existing, err := s.stations.ListByLine(ctx, line.ID)
	if err != nil {
		return err
	}
	for _, st := range existing {
		if err := s.stations.Delete(ctx, st.ID); err != nil {
			return err
		}
	}
	return nil
}
