package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/metro-router/internal/domain"
	"github.com/pkordes/metro-router/internal/handler"
)

func lineFixture() domain.Line {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return domain.Line{ID: uuid.New(), Name: "Red Line", Color: "red", CreatedAt: now, UpdatedAt: now}
}

// ---- POST /api/lines -------------------------------------------------------

func TestCreateLine_201(t *testing.T) {
	fixture := lineFixture()
	var got domain.Line
	svc := &mockLineServicer{
		create: func(_ context.Context, l domain.Line) (domain.Line, error) {
			got = l
			return fixture, nil
		},
	}

	rec := serve(newHTTPHandler(mocks{lines: svc}), http.MethodPost, "/api/lines",
		jsonBody(t, handler.LineRequest{Name: "Red Line", Color: "red"}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Red Line", got.Name)

	var body handler.Line
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, fixture.ID.String(), body.ID)
	assert.Equal(t, "red", body.Color)
}

func TestCreateLine_409(t *testing.T) {
	svc := &mockLineServicer{
		create: func(context.Context, domain.Line) (domain.Line, error) {
			return domain.Line{}, fmt.Errorf("service.LineService.Create: %w: line with name %q already exists", domain.ErrConflict, "Red Line")
		},
	}

	rec := serve(newHTTPHandler(mocks{lines: svc}), http.MethodPost, "/api/lines",
		jsonBody(t, handler.LineRequest{Name: "Red Line", Color: "red"}))

	require.Equal(t, http.StatusConflict, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "conflict", e.Code)
	assert.Equal(t, `line with name "Red Line" already exists`, e.Message)
}

func TestCreateLine_422_Validation(t *testing.T) {
	svc := &mockLineServicer{
		create: func(context.Context, domain.Line) (domain.Line, error) {
			return domain.Line{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
		},
	}

	rec := serve(newHTTPHandler(mocks{lines: svc}), http.MethodPost, "/api/lines",
		jsonBody(t, handler.LineRequest{Color: "red"}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "validation_error", e.Code)
	assert.Equal(t, "name is required", e.Message)
}

func TestCreateLine_422_MalformedBody(t *testing.T) {
	rec := serve(newHTTPHandler(mocks{}), http.MethodPost, "/api/lines", strings.NewReader("{not json"))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "invalid JSON body")
}

func TestCreateLine_422_EmptyBody(t *testing.T) {
	rec := serve(newHTTPHandler(mocks{}), http.MethodPost, "/api/lines", strings.NewReader(""))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "request body is required", decodeError(t, rec).Message)
}

// ---- GET /api/lines --------------------------------------------------------

func TestListLines_200_Pagination(t *testing.T) {
	var got domain.PaginationParams
	svc := &mockLineServicer{
		list: func(_ context.Context, p domain.PaginationParams) ([]domain.Line, int64, error) {
			got = p
			return []domain.Line{lineFixture()}, 41, nil
		},
	}

	rec := serve(newHTTPHandler(mocks{lines: svc}), http.MethodGet, "/api/lines?page=3&limit=500", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 3, Limit: 100}, got)

	var body handler.LineList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, handler.Pagination{Page: 3, Limit: 100, Total: 41}, body.Pagination)
}

func TestListLines_400_BadPage(t *testing.T) {
	rec := serve(newHTTPHandler(mocks{}), http.MethodGet, "/api/lines?page=abc", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_parameter", decodeError(t, rec).Code)
}

// ---- GET /api/lines/{lineId} -----------------------------------------------

func TestGetLine_404(t *testing.T) {
	svc := &mockLineServicer{
		getByID: func(context.Context, uuid.UUID) (domain.Line, error) {
			return domain.Line{}, fmt.Errorf("repo.LineRepo.GetByID: %w", domain.ErrNotFound)
		},
	}

	rec := serve(newHTTPHandler(mocks{lines: svc}), http.MethodGet, "/api/lines/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "not_found", e.Code)
	assert.Equal(t, "line not found", e.Message)
}

func TestGetLine_400_BadUUID(t *testing.T) {
	rec := serve(newHTTPHandler(mocks{}), http.MethodGet, "/api/lines/not-a-uuid", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "lineId")
}

// ---- PUT /api/lines/{lineId} -----------------------------------------------

func TestUpdateLine_200_UsesPathID(t *testing.T) {
	id := uuid.New()
	svc := &mockLineServicer{
		update: func(_ context.Context, l domain.Line) (domain.Line, error) { return l, nil },
	}

	rec := serve(newHTTPHandler(mocks{lines: svc}), http.MethodPut, "/api/lines/"+id.String(),
		jsonBody(t, handler.LineRequest{Name: "Blue Line", Color: "blue"}))

	require.Equal(t, http.StatusOK, rec.Code)
	var body handler.Line
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, id.String(), body.ID)
	assert.Equal(t, "Blue Line", body.Name)
}

// ---- DELETE /api/lines/{lineId} --------------------------------------------

func TestDeleteLine_204(t *testing.T) {
	svc := &mockLineServicer{delete: func(context.Context, uuid.UUID) error { return nil }}

	rec := serve(newHTTPHandler(mocks{lines: svc}), http.MethodDelete, "/api/lines/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteLine_400_InUse(t *testing.T) {
	svc := &mockLineServicer{
		delete: func(context.Context, uuid.UUID) error {
			return fmt.Errorf("service.LineService.Delete: %w: line %q has 3 station(s); delete them first", domain.ErrLineInUse, "Red Line")
		},
	}

	rec := serve(newHTTPHandler(mocks{lines: svc}), http.MethodDelete, "/api/lines/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "line_in_use", e.Code)
	assert.Equal(t, `line "Red Line" has 3 station(s); delete them first`, e.Message)
}

func TestDeleteLine_500_HidesInternalError(t *testing.T) {
	svc := &mockLineServicer{
		delete: func(context.Context, uuid.UUID) error { return fmt.Errorf("connection reset by peer") },
	}

	rec := serve(newHTTPHandler(mocks{lines: svc}), http.MethodDelete, "/api/lines/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "internal_error", e.Code)
	assert.NotContains(t, e.Message, "connection reset")
}
