package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/metro-router/internal/domain"
)

// LineRequest is the body of POST /api/lines and PUT /api/lines/{lineId}.
type LineRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Line is the JSON representation of a line.
type Line struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// LineList is the body of GET /api/lines.
type LineList struct {
	Data       []Line     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateLine handles POST /api/lines.
func (s *Server) CreateLine(w http.ResponseWriter, r *http.Request) {
	var body LineRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.lines.Create(r.Context(), domain.Line{Name: body.Name, Color: body.Color})
	if err != nil {
		s.serviceError(w, r, err, "line not found")
		return
	}
	writeJSON(w, http.StatusCreated, lineToResponse(created))
}

// ListLines handles GET /api/lines.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListLines(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	params := domain.NewPaginationParams(page, limit)
	lines, total, err := s.lines.List(r.Context(), params)
	if err != nil {
		s.serviceError(w, r, err, "line not found")
		return
	}

	data := make([]Line, len(lines))
	for i, l := range lines {
		data[i] = lineToResponse(l)
	}
	writeJSON(w, http.StatusOK, LineList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetLine handles GET /api/lines/{lineId}.
func (s *Server) GetLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "lineId")
	if !ok {
		return
	}

	line, err := s.lines.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "line not found")
		return
	}
	writeJSON(w, http.StatusOK, lineToResponse(line))
}

// UpdateLine handles PUT /api/lines/{lineId}.
func (s *Server) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "lineId")
	if !ok {
		return
	}
	var body LineRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.lines.Update(r.Context(), domain.Line{ID: id, Name: body.Name, Color: body.Color})
	if err != nil {
		s.serviceError(w, r, err, "line not found")
		return
	}
	writeJSON(w, http.StatusOK, lineToResponse(updated))
}

// DeleteLine handles DELETE /api/lines/{lineId}.
func (s *Server) DeleteLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "lineId")
	if !ok {
		return
	}

	if err := s.lines.Delete(r.Context(), id); err != nil {
		s.serviceError(w, r, err, "line not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func lineToResponse(l domain.Line) Line {
	return Line{
		ID:        l.ID.String(),
		Name:      l.Name,
		Color:     l.Color,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
