package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/metro-router/internal/domain"
)

// RouteRequest is the body of POST /api/route/find.
type RouteRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// LineChange is one transfer along a route.
type LineChange struct {
	From string `json:"from"`
	To   string `json:"to"`
	At   string `json:"at"`
}

// RouteResult is the body of a successful route query.
type RouteResult struct {
	Route         []string     `json:"route"`
	TotalStations int          `json:"totalStations"`
	TotalFare     float64      `json:"totalFare"`
	Interchanges  []string     `json:"interchanges"`
	EstimatedTime string       `json:"estimatedTime"`
	LineChanges   []LineChange `json:"lineChanges"`
}

// NetworkStats is the body of the network stats and rebuild endpoints.
type NetworkStats struct {
	Nodes             int       `json:"nodes"`
	RideEdgePairs     int       `json:"ride_edge_pairs"`
	TransferEdgePairs int       `json:"transfer_edge_pairs"`
	Interchanges      []string  `json:"interchanges"`
	Version           uint64    `json:"version"`
	BuiltAt           time.Time `json:"built_at"`
}

// FindRoute handles POST /api/route/find.
func (s *Server) FindRoute(w http.ResponseWriter, r *http.Request) {
	var body RouteRequest
	if !decodeBody(w, r, &body) {
		return
	}

	route, err := s.network.FindRoute(r.Context(), body.Source, body.Destination)
	if err != nil {
		s.serviceError(w, r, err, "station not found")
		return
	}
	writeJSON(w, http.StatusOK, routeToResponse(route))
}

// GetNetworkStats handles GET /api/network/stats.
func (s *Server) GetNetworkStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.network.Stats(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "network not found")
		return
	}
	writeJSON(w, http.StatusOK, statsToResponse(stats))
}

// RebuildNetwork handles POST /api/network/rebuild.
// On a build error the previous graph keeps serving queries.
func (s *Server) RebuildNetwork(w http.ResponseWriter, r *http.Request) {
	stats, err := s.network.Rebuild(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "network not found")
		return
	}
	writeJSON(w, http.StatusOK, statsToResponse(stats))
}

func routeToResponse(rt domain.Route) RouteResult {
	changes := make([]LineChange, len(rt.LineChanges))
	for i, c := range rt.LineChanges {
		changes[i] = LineChange{From: c.From, To: c.To, At: c.At}
	}
	interchanges := rt.Interchanges
	if interchanges == nil {
		interchanges = []string{}
	}
	return RouteResult{
		Route:         rt.Stations,
		TotalStations: rt.TotalStations,
		TotalFare:     rt.TotalFare,
		Interchanges:  interchanges,
		EstimatedTime: rt.EstimatedTime,
		LineChanges:   changes,
	}
}

func statsToResponse(st domain.NetworkStats) NetworkStats {
	interchanges := st.Interchanges
	if interchanges == nil {
		interchanges = []string{}
	}
	return NetworkStats{
		Nodes:             st.Nodes,
		RideEdgePairs:     st.RideEdgePairs,
		TransferEdgePairs: st.TransferEdgePairs,
		Interchanges:      interchanges,
		Version:           st.Version,
		BuiltAt:           st.BuiltAt,
	}
}
