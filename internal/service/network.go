// Package service contains the business logic for the metro router.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/metro-router/internal/domain"
	"github.com/pkordes/metro-router/internal/metrics"
	"github.com/pkordes/metro-router/internal/network"
	"github.com/pkordes/metro-router/internal/repo"
)

// Rebuilder rebuilds the network graph from persisted records.
// Line and station services call it after every successful mutation.
type Rebuilder interface {
	Rebuild(ctx context.Context) (domain.NetworkStats, error)
}

// routeQuery is validated before any lookup happens.
type routeQuery struct {
	Source      string `validate:"required"`
	Destination string `validate:"required"`
}

// NetworkService owns the current network graph: it rebuilds it from the
// repos and answers route queries against the published snapshot.
type NetworkService struct {
	lines    repo.LineRepo
	stations repo.StationRepo
	snapshot *network.Snapshot
	log      *slog.Logger
	metrics  *metrics.Collector

	// rebuildMu serialises rebuilds so graphs are published in the order
	// their records were read.
	rebuildMu sync.Mutex
	now       func() time.Time
}

// NewNetworkService constructs a NetworkService. The snapshot starts empty;
// call Rebuild before serving route queries. m may be nil.
func NewNetworkService(lines repo.LineRepo, stations repo.StationRepo, log *slog.Logger, m *metrics.Collector) *NetworkService {
	return &NetworkService{
		lines:    lines,
		stations: stations,
		snapshot: &network.Snapshot{},
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// Rebuild loads every line and station, builds a new graph and publishes it.
// On failure the previously published graph stays in effect; a
// *network.BuildError in the chain means the stored topology is malformed.
func (s *NetworkService) Rebuild(ctx context.Context) (domain.NetworkStats, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	start := s.now()

	lines, err := s.lines.List(ctx)
	if err != nil {
		s.metrics.ObserveRebuildFailure()
		return domain.NetworkStats{}, fmt.Errorf("service.NetworkService.Rebuild: %w", err)
	}
	stations, err := s.stations.List(ctx, "")
	if err != nil {
		s.metrics.ObserveRebuildFailure()
		return domain.NetworkStats{}, fmt.Errorf("service.NetworkService.Rebuild: %w", err)
	}

	g, err := network.Build(lines, stations)
	if err != nil {
		s.metrics.ObserveRebuildFailure()
		s.log.ErrorContext(ctx, "network graph rebuild rejected; keeping previous graph", "error", err)
		return domain.NetworkStats{}, fmt.Errorf("service.NetworkService.Rebuild: %w", err)
	}

	pub := s.snapshot.Publish(g, s.now())
	stats := statsOf(pub)
	s.metrics.ObserveRebuild(stats, pub.Version)
	s.log.InfoContext(ctx, "network graph rebuilt",
		"version", pub.Version,
		"lines", len(lines),
		"nodes", stats.Nodes,
		"ride_edge_pairs", stats.RideEdgePairs,
		"transfer_edge_pairs", stats.TransferEdgePairs,
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	return stats, nil
}

// FindRoute answers a route query against the current graph.
//
// Names unknown to the station store are rejected before the search runs.
// Returns domain.ErrValidation for empty names, domain.ErrGraphUnavailable
// before the first rebuild, domain.ErrUnknownStation and domain.ErrNoRoute
// as produced by the search.
func (s *NetworkService) FindRoute(ctx context.Context, source, destination string) (domain.Route, error) {
	if err := validateStruct(routeQuery{Source: source, Destination: destination}); err != nil {
		return domain.Route{}, err
	}

	pub := s.snapshot.Load()
	if pub == nil {
		s.metrics.ObserveRouteQuery(metrics.OutcomeUnavailable, 0)
		return domain.Route{}, fmt.Errorf("service.NetworkService.FindRoute: %w", domain.ErrGraphUnavailable)
	}

	for _, name := range []string{source, destination} {
		known, err := s.stations.List(ctx, name)
		if err != nil {
			s.metrics.ObserveRouteQuery(metrics.OutcomeError, 0)
			return domain.Route{}, fmt.Errorf("service.NetworkService.FindRoute: %w", err)
		}
		if len(known) == 0 {
			s.metrics.ObserveRouteQuery(metrics.OutcomeUnknownStation, 0)
			return domain.Route{}, fmt.Errorf("service.NetworkService.FindRoute: %w", &network.UnknownStationError{Name: name})
		}
	}

	start := s.now()
	route, err := network.FindRoute(pub.Graph, source, destination)
	elapsed := s.now().Sub(start)

	switch {
	case err == nil && source == destination:
		s.metrics.ObserveRouteQuery(metrics.OutcomeSameStation, elapsed)
	case err == nil:
		s.metrics.ObserveRouteQuery(metrics.OutcomeFound, elapsed)
	case errors.Is(err, domain.ErrUnknownStation):
		s.metrics.ObserveRouteQuery(metrics.OutcomeUnknownStation, elapsed)
	case errors.Is(err, domain.ErrNoRoute):
		s.metrics.ObserveRouteQuery(metrics.OutcomeNoRoute, elapsed)
	default:
		s.metrics.ObserveRouteQuery(metrics.OutcomeError, elapsed)
	}
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.NetworkService.FindRoute: %w", err)
	}

	s.log.DebugContext(ctx, "route found",
		"source", source,
		"destination", destination,
		"stations", route.TotalStations,
		"graph_version", pub.Version,
	)
	return route, nil
}

// Stats describes the currently published graph.
// Returns domain.ErrGraphUnavailable before the first rebuild.
func (s *NetworkService) Stats(_ context.Context) (domain.NetworkStats, error) {
	pub := s.snapshot.Load()
	if pub == nil {
		return domain.NetworkStats{}, fmt.Errorf("service.NetworkService.Stats: %w", domain.ErrGraphUnavailable)
	}
	return statsOf(pub), nil
}

func statsOf(pub *network.Published) domain.NetworkStats {
	stats := pub.Graph.Stats()
	stats.Version = pub.Version
	stats.BuiltAt = pub.BuiltAt
	return stats
}
