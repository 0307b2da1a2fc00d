package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/metro-router/internal/domain"
)

// StationRequest is the body of station create and update requests.
// StationNumberOnLine is a pointer so a missing field can be told apart from 0.
type StationRequest struct {
	Name                        string   `json:"name"`
	DistanceFromPreviousStation *float64 `json:"distance_from_previous_station"`
	StationNumberOnLine         *int     `json:"station_number_on_line"`
	IsInterchange               bool     `json:"is_interchange"`
}

// Station is the JSON representation of a station.
type Station struct {
	ID                          string    `json:"id"`
	Name                        string    `json:"name"`
	LineID                      string    `json:"line_id"`
	LineName                    string    `json:"line_name"`
	DistanceFromPreviousStation *float64  `json:"distance_from_previous_station"`
	StationNumberOnLine         int       `json:"station_number_on_line"`
	IsInterchange               bool      `json:"is_interchange"`
	CreatedAt                   time.Time `json:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at"`
}

// CreateStation handles POST /api/lines/{lineId}/stations.
func (s *Server) CreateStation(w http.ResponseWriter, r *http.Request) {
	lineID, ok := pathUUID(w, r, "lineId")
	if !ok {
		return
	}
	var body StationRequest
	if !decodeBody(w, r, &body) {
		return
	}
	station, err := requestToStation(uuid.Nil, body)
	if err != nil {
		requestError(w, err.Error())
		return
	}
	station.LineID = lineID

	created, err := s.stations.Create(r.Context(), station)
	if err != nil {
		s.serviceError(w, r, err, "line not found")
		return
	}
	writeJSON(w, http.StatusCreated, stationToResponse(created))
}

// ListLineStations handles GET /api/lines/{lineId}/stations.
func (s *Server) ListLineStations(w http.ResponseWriter, r *http.Request) {
	lineID, ok := pathUUID(w, r, "lineId")
	if !ok {
		return
	}

	stations, err := s.stations.ListByLine(r.Context(), lineID)
	if err != nil {
		s.serviceError(w, r, err, "line not found")
		return
	}
	writeJSON(w, http.StatusOK, stationsToResponse(stations))
}

// ListStations handles GET /api/stations.
// ?name= narrows the result to stations with exactly that name.
func (s *Server) ListStations(w http.ResponseWriter, r *http.Request) {
	name, ok := queryString(w, r, "name")
	if !ok {
		return
	}

	stations, err := s.stations.List(r.Context(), name)
	if err != nil {
		s.serviceError(w, r, err, "station not found")
		return
	}
	writeJSON(w, http.StatusOK, stationsToResponse(stations))
}

// GetStation handles GET /api/stations/{stationId}.
func (s *Server) GetStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "stationId")
	if !ok {
		return
	}

	station, err := s.stations.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "station not found")
		return
	}
	writeJSON(w, http.StatusOK, stationToResponse(station))
}

// UpdateStation handles PUT /api/stations/{stationId}.
func (s *Server) UpdateStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "stationId")
	if !ok {
		return
	}
	var body StationRequest
	if !decodeBody(w, r, &body) {
		return
	}
	station, err := requestToStation(id, body)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	updated, err := s.stations.Update(r.Context(), station)
	if err != nil {
		s.serviceError(w, r, err, "station not found")
		return
	}
	writeJSON(w, http.StatusOK, stationToResponse(updated))
}

// DeleteStation handles DELETE /api/stations/{stationId}.
func (s *Server) DeleteStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "stationId")
	if !ok {
		return
	}

	if err := s.stations.Delete(r.Context(), id); err != nil {
		s.serviceError(w, r, err, "station not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToStation converts a StationRequest into a domain.Station.
// Returns an error if the station number is missing.
func requestToStation(id uuid.UUID, body StationRequest) (domain.Station, error) {
	if body.StationNumberOnLine == nil {
		return domain.Station{}, errors.New("station_number_on_line is required")
	}
	return domain.Station{
		ID:                   id,
		Name:                 body.Name,
		SequenceOnLine:       *body.StationNumberOnLine,
		IsInterchange:        body.IsInterchange,
		DistanceFromPrevious: body.DistanceFromPreviousStation,
	}, nil
}

func stationToResponse(st domain.Station) Station {
	return Station{
		ID:                          st.ID.String(),
		Name:                        st.Name,
		LineID:                      st.LineID.String(),
		LineName:                    st.LineName,
		DistanceFromPreviousStation: st.DistanceFromPrevious,
		StationNumberOnLine:         st.SequenceOnLine,
		IsInterchange:               st.IsInterchange,
		CreatedAt:                   st.CreatedAt,
		UpdatedAt:                   st.UpdatedAt,
	}
}

func stationsToResponse(stations []domain.Station) []Station {
	out := make([]Station, len(stations))
	for i, st := range stations {
		out[i] = stationToResponse(st)
	}
	return out
}
