// Package handler implements the HTTP handlers for the metro router API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, line.go, station.go, route.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/metro-router/internal/domain"
)

// LineServicer defines the business operations the line handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type LineServicer interface {
	Create(ctx context.Context, line domain.Line) (domain.Line, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Line, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Line, int64, error)
	Update(ctx context.Context, line domain.Line) (domain.Line, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StationServicer defines the business operations the station handlers depend on.
type StationServicer interface {
	Create(ctx context.Context, station domain.Station) (domain.Station, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Station, error)
	ListByLine(ctx context.Context, lineID uuid.UUID) ([]domain.Station, error)
	List(ctx context.Context, name string) ([]domain.Station, error)
	Update(ctx context.Context, station domain.Station) (domain.Station, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NetworkServicer defines the route-finding and graph operations.
type NetworkServicer interface {
	FindRoute(ctx context.Context, source, destination string) (domain.Route, error)
	Stats(ctx context.Context) (domain.NetworkStats, error)
	Rebuild(ctx context.Context) (domain.NetworkStats, error)
}

// Server holds the dependencies of every API handler.
type Server struct {
	lines    LineServicer
	stations StationServicer
	network  NetworkServicer
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(lines LineServicer, stations StationServicer, network NetworkServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{lines: lines, stations: stations, network: network, log: log}
}

// Handler returns a chi router serving every API route.
func Handler(s *Server) http.Handler {
	return HandlerFromMux(s, chi.NewRouter())
}

// HandlerFromMux registers every API route on r and returns it.
// main.go passes its own router so global middleware wraps these routes.
func HandlerFromMux(s *Server, r chi.Router) http.Handler {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Route("/lines", func(r chi.Router) {
			r.Post("/", s.CreateLine)
			r.Get("/", s.ListLines)
			r.Route("/{lineId}", func(r chi.Router) {
				r.Get("/", s.GetLine)
				r.Put("/", s.UpdateLine)
				r.Delete("/", s.DeleteLine)
				r.Post("/stations", s.CreateStation)
				r.Get("/stations", s.ListLineStations)
			})
		})

		r.Get("/stations", s.ListStations)
		r.Route("/stations/{stationId}", func(r chi.Router) {
			r.Get("/", s.GetStation)
			r.Put("/", s.UpdateStation)
			r.Delete("/", s.DeleteStation)
		})

		r.Post("/route/find", s.FindRoute)
		r.Get("/network/stats", s.GetNetworkStats)
		r.Post("/network/rebuild", s.RebuildNetwork)
	})

	return r
}
