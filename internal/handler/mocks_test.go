package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/metro-router/internal/domain"
	"github.com/pkordes/metro-router/internal/handler"
)

// mockLineServicer is a test double for handler.LineServicer.
// Set only the method fields your test needs.
type mockLineServicer struct {
	create  func(ctx context.Context, line domain.Line) (domain.Line, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Line, error)
	list    func(ctx context.Context, p domain.PaginationParams) ([]domain.Line, int64, error)
	update  func(ctx context.Context, line domain.Line) (domain.Line, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockLineServicer) Create(ctx context.Context, l domain.Line) (domain.Line, error) {
	return m.create(ctx, l)
}
func (m *mockLineServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Line, error) {
	return m.getByID(ctx, id)
}
func (m *mockLineServicer) List(ctx context.Context, p domain.PaginationParams) ([]domain.Line, int64, error) {
	return m.list(ctx, p)
}
func (m *mockLineServicer) Update(ctx context.Context, l domain.Line) (domain.Line, error) {
	return m.update(ctx, l)
}
func (m *mockLineServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// mockStationServicer is a test double for handler.StationServicer.
type mockStationServicer struct {
	create     func(ctx context.Context, st domain.Station) (domain.Station, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Station, error)
	listByLine func(ctx context.Context, lineID uuid.UUID) ([]domain.Station, error)
	list       func(ctx context.Context, name string) ([]domain.Station, error)
	update     func(ctx context.Context, st domain.Station) (domain.Station, error)
	delete     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockStationServicer) Create(ctx context.Context, st domain.Station) (domain.Station, error) {
	return m.create(ctx, st)
}
func (m *mockStationServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Station, error) {
	return m.getByID(ctx, id)
}
func (m *mockStationServicer) ListByLine(ctx context.Context, lineID uuid.UUID) ([]domain.Station, error) {
	return m.listByLine(ctx, lineID)
}
func (m *mockStationServicer) List(ctx context.Context, name string) ([]domain.Station, error) {
	return m.list(ctx, name)
}
func (m *mockStationServicer) Update(ctx context.Context, st domain.Station) (domain.Station, error) {
	return m.update(ctx, st)
}
func (m *mockStationServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// mockNetworkServicer is a test double for handler.NetworkServicer.
type mockNetworkServicer struct {
	findRoute func(ctx context.Context, source, destination string) (domain.Route, error)
	stats     func(ctx context.Context) (domain.NetworkStats, error)
	rebuild   func(ctx context.Context) (domain.NetworkStats, error)
}

func (m *mockNetworkServicer) FindRoute(ctx context.Context, source, destination string) (domain.Route, error) {
	return m.findRoute(ctx, source, destination)
}
func (m *mockNetworkServicer) Stats(ctx context.Context) (domain.NetworkStats, error) {
	return m.stats(ctx)
}
func (m *mockNetworkServicer) Rebuild(ctx context.Context) (domain.NetworkStats, error) {
	return m.rebuild(ctx)
}

// compile-time checks: the mocks must satisfy the servicer interfaces.
var (
	_ handler.LineServicer    = (*mockLineServicer)(nil)
	_ handler.StationServicer = (*mockStationServicer)(nil)
	_ handler.NetworkServicer = (*mockNetworkServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

type mocks struct {
	lines    *mockLineServicer
	stations *mockStationServicer
	network  *mockNetworkServicer
}

// newHTTPHandler wires a Server with the given mocks into the chi router,
// the same way main.go does in production.
func newHTTPHandler(m mocks) http.Handler {
	if m.lines == nil {
		m.lines = &mockLineServicer{}
	}
	if m.stations == nil {
		m.stations = &mockStationServicer{}
	}
	if m.network == nil {
		m.network = &mockNetworkServicer{}
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.Handler(handler.NewServer(m.lines, m.stations, m.network, log))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func serve(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}
