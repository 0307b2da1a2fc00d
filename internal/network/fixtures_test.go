package network_test

import (
	"github.com/google/uuid"

	"github.com/pkordes/metro-router/internal/domain"
)

// topology is a small builder for line and station records used across tests.
type topology struct {
	lines    []domain.Line
	stations []domain.Station
}

// line adds a line whose stations are named in sequence order. Names listed
// in interchanges are flagged as interchange stations.
func (tp *topology) line(name string, stations []string, interchanges ...string) domain.Line {
	l := domain.Line{ID: uuid.New(), Name: name, Color: name}
	tp.lines = append(tp.lines, l)

	flagged := make(map[string]bool, len(interchanges))
	for _, n := range interchanges {
		flagged[n] = true
	}
	for i, n := range stations {
		tp.stations = append(tp.stations, domain.Station{
			ID:             uuid.New(),
			Name:           n,
			LineID:         l.ID,
			LineName:       name,
			SequenceOnLine: i + 1,
			IsInterchange:  flagged[n],
		})
	}
	return l
}

// stationOn returns the record for name on the given line.
func (tp *topology) stationOn(l domain.Line, name string) domain.Station {
	for _, s := range tp.stations {
		if s.LineID == l.ID && s.Name == name {
			return s
		}
	}
	panic("no station " + name + " on line " + l.Name)
}
