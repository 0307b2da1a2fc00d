package domain

import (
	"time"

	"github.com/google/uuid"
)

// Station is one occurrence of a station on one line.
//
// An interchange such as Ameerpet is stored once per line it serves, each row
// sharing the same Name and flagged IsInterchange. The network graph links
// those rows with transfer edges; it never merges them.
type Station struct {
	ID     uuid.UUID
	Name   string `validate:"required,max=100"`
	LineID uuid.UUID
	// LineName is denormalised from the owning line for responses.
	LineName string
	// SequenceOnLine is the 1-based position of the station along its line.
	SequenceOnLine int `validate:"min=1"`
	IsInterchange  bool
	// DistanceFromPrevious is informational (km); nil when unknown.
	DistanceFromPrevious *float64 `validate:"omitempty,min=0"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
