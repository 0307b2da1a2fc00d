package network

import (
	"fmt"

	"github.com/pkordes/metro-router/internal/domain"
)

// BuildError reports station or line records that cannot form a graph.
// The records that produced it must not be published.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string {
	return "network: build: " + e.Reason
}

func buildErrorf(format string, args ...any) error {
	return &BuildError{Reason: fmt.Sprintf(format, args...)}
}

// UnknownStationError is returned by FindRoute when a queried name has no
// node in the graph. It matches domain.ErrUnknownStation under errors.Is.
type UnknownStationError struct {
	Name string
}

func (e *UnknownStationError) Error() string {
	return fmt.Sprintf("unknown station %q", e.Name)
}

func (e *UnknownStationError) Is(target error) bool {
	return target == domain.ErrUnknownStation
}
