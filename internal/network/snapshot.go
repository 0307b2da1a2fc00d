package network

import (
	"sync/atomic"
	"time"
)

// Published is a graph together with its publication metadata.
type Published struct {
	Graph   *Graph
	Version uint64
	BuiltAt time.Time
}

// Snapshot is the single current-graph slot shared by route queries.
// A new graph replaces the old one atomically; queries that already loaded
// the old graph finish against it.
type Snapshot struct {
	current atomic.Pointer[Published]
}

// Load returns the current publication, or nil before the first Publish.
func (s *Snapshot) Load() *Published {
	return s.current.Load()
}

// Publish swaps in g and returns the new publication. Versions start at 1 and
// increase by one per call.
func (s *Snapshot) Publish(g *Graph, builtAt time.Time) *Published {
	for {
		old := s.current.Load()
		next := &Published{Graph: g, Version: 1, BuiltAt: builtAt}
		if old != nil {
			next.Version = old.Version + 1
		}
		if s.current.CompareAndSwap(old, next) {
			return next
		}
	}
}
