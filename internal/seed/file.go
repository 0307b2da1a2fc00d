// Package seed loads a metro network description from YAML and writes it
// through the line and station repos.
package seed

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/metro-router/internal/domain"
	"github.com/pkordes/metro-router/internal/network"
)

// File is the top-level document of a seed file.
type File struct {
	Lines []LineSpec `yaml:"lines" validate:"required,min=1,dive"`
}

// LineSpec describes one line. Stations are listed in travel order; their
// position in the list becomes the station number.
type LineSpec struct {
	Name     string        `yaml:"name" validate:"required,max=100"`
	Color    string        `yaml:"color" validate:"required,max=32"`
	Stations []StationSpec `yaml:"stations" validate:"required,min=1,dive"`
}

// StationSpec describes one station on a line.
type StationSpec struct {
	Name        string   `yaml:"name" validate:"required,max=100"`
	Distance    *float64 `yaml:"distance" validate:"omitempty,min=0"`
	Interchange bool     `yaml:"interchange"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a seed file. Unknown keys are rejected so a
// misspelt "interchange" cannot silently drop a transfer.
func Parse(r io.Reader) (File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, fmt.Errorf("seed.Parse: empty document")
		}
		return File{}, fmt.Errorf("seed.Parse: %w", err)
	}

	for i := range f.Lines {
		l := &f.Lines[i]
		l.Name = strings.TrimSpace(l.Name)
		l.Color = strings.TrimSpace(l.Color)
		for j := range l.Stations {
			l.Stations[j].Name = strings.TrimSpace(l.Stations[j].Name)
		}
	}

	if err := validate.Struct(f); err != nil {
		return File{}, fmt.Errorf("seed.Parse: %w: %v", domain.ErrValidation, err)
	}
	if err := checkUnique(f); err != nil {
		return File{}, fmt.Errorf("seed.Parse: %w", err)
	}
	return f, nil
}

func checkUnique(f File) error {
	lines := make(map[string]bool, len(f.Lines))
	for _, l := range f.Lines {
		if lines[l.Name] {
			return fmt.Errorf("%w: line %q is listed twice", domain.ErrValidation, l.Name)
		}
		lines[l.Name] = true

		stations := make(map[string]bool, len(l.Stations))
		for _, s := range l.Stations {
			if stations[s.Name] {
				return fmt.Errorf("%w: station %q is listed twice on line %q", domain.ErrValidation, s.Name, l.Name)
			}
			stations[s.Name] = true
		}
	}
	return nil
}

// Records converts f into line and station records with fresh IDs, the shape
// network.Build and the repos consume.
func (f File) Records() ([]domain.Line, []domain.Station) {
	var (
		lines    = make([]domain.Line, 0, len(f.Lines))
		stations []domain.Station
	)
	for _, ls := range f.Lines {
		l := domain.Line{ID: uuid.New(), Name: ls.Name, Color: ls.Color}
		lines = append(lines, l)
		for i, ss := range ls.Stations {
			stations = append(stations, stationRecord(l, i, ss))
		}
	}
	return lines, stations
}

// Check builds the network graph the file describes without touching a
// database, returning its statistics or the *network.BuildError.
func (f File) Check() (domain.NetworkStats, error) {
	g, err := network.Build(f.Records())
	if err != nil {
		return domain.NetworkStats{}, fmt.Errorf("seed.File.Check: %w", err)
	}
	return g.Stats(), nil
}

func stationRecord(l domain.Line, i int, ss StationSpec) domain.Station {
	return domain.Station{
		ID:                   uuid.New(),
		Name:                 ss.Name,
		LineID:               l.ID,
		LineName:             l.Name,
		SequenceOnLine:       i + 1,
		IsInterchange:        ss.Interchange,
		DistanceFromPrevious: ss.Distance,
	}
}
