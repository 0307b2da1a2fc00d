package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/metro-router/internal/domain"
	"github.com/pkordes/metro-router/internal/service"
)

func existingLine() *mockLineRepo {
	return &mockLineRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Line, error) {
			return domain.Line{ID: id, Name: "Red"}, nil
		},
	}
}

func echoStationRepo() *mockStationRepo {
	return &mockStationRepo{
		create: func(_ context.Context, s domain.Station) (domain.Station, error) {
			s.ID = uuid.New()
			return s, nil
		},
		update:     func(_ context.Context, s domain.Station) (domain.Station, error) { return s, nil },
		findOnLine: noClash,
	}
}

func validStation(lineID uuid.UUID) domain.Station {
	d := 1.2
	return domain.Station{Name: "Ameerpet", LineID: lineID, SequenceOnLine: 4, IsInterchange: true, DistanceFromPrevious: &d}
}

func TestStationService_Create_Valid(t *testing.T) {
	graph := &mockRebuilder{}
	svc := service.NewStationService(existingLine(), echoStationRepo(), graph)

	got, err := svc.Create(context.Background(), validStation(uuid.New()))

	require.NoError(t, err)
	assert.Equal(t, "Ameerpet", got.Name)
	assert.Equal(t, 1, graph.calls)
}

func TestStationService_Create_UnknownLine(t *testing.T) {
	lines := &mockLineRepo{
		getByID: func(context.Context, uuid.UUID) (domain.Line, error) {
			return domain.Line{}, domain.ErrNotFound
		},
	}
	svc := service.NewStationService(lines, echoStationRepo(), &mockRebuilder{})

	_, err := svc.Create(context.Background(), validStation(uuid.New()))

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "line not found")
}

func TestStationService_Create_Validation(t *testing.T) {
	negative := -0.5
	tests := []struct {
		name    string
		mutate  func(*domain.Station)
		wantMsg string
	}{
		{"blank name", func(s *domain.Station) { s.Name = " " }, "name is required"},
		{"number below one", func(s *domain.Station) { s.SequenceOnLine = 0 }, "station_number_on_line must be at least 1"},
		{"negative distance", func(s *domain.Station) { s.DistanceFromPrevious = &negative }, "distance_from_previous_station must be at least 0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			graph := &mockRebuilder{}
			svc := service.NewStationService(existingLine(), echoStationRepo(), graph)
			st := validStation(uuid.New())
			tc.mutate(&st)

			_, err := svc.Create(context.Background(), st)

			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tc.wantMsg)
			assert.Zero(t, graph.calls)
		})
	}
}

func TestStationService_Create_Conflicts(t *testing.T) {
	tests := []struct {
		name    string
		clash   domain.Station
		wantMsg string
	}{
		{"same name", domain.Station{Name: "Ameerpet", SequenceOnLine: 9}, `station "Ameerpet" already exists on this line`},
		{"same number", domain.Station{Name: "Begumpet", SequenceOnLine: 4}, `station number 4 is already taken on this line by "Begumpet"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stations := echoStationRepo()
			stations.findOnLine = func(context.Context, uuid.UUID, uuid.UUID, string, int) (domain.Station, error) {
				return tc.clash, nil
			}
			svc := service.NewStationService(existingLine(), stations, &mockRebuilder{})

			_, err := svc.Create(context.Background(), validStation(uuid.New()))

			require.ErrorIs(t, err, domain.ErrConflict)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestStationService_Update_KeepsLineAndExcludesSelf(t *testing.T) {
	lineID := uuid.New()
	id := uuid.New()
	var excluded uuid.UUID
	stations := echoStationRepo()
	stations.getByID = func(_ context.Context, got uuid.UUID) (domain.Station, error) {
		return domain.Station{ID: got, LineID: lineID, Name: "Ameerpet", SequenceOnLine: 4}, nil
	}
	stations.findOnLine = func(_ context.Context, _ uuid.UUID, excludeID uuid.UUID, _ string, _ int) (domain.Station, error) {
		excluded = excludeID
		return domain.Station{}, domain.ErrNotFound
	}
	svc := service.NewStationService(existingLine(), stations, &mockRebuilder{})

	upd := validStation(uuid.New())
	upd.ID = id
	upd.SequenceOnLine = 5
	got, err := svc.Update(context.Background(), upd)

	require.NoError(t, err)
	assert.Equal(t, lineID, got.LineID, "stations never move between lines")
	assert.Equal(t, 5, got.SequenceOnLine)
	assert.Equal(t, id, excluded)
}

func TestStationService_ListByLine_UnknownLine(t *testing.T) {
	lines := &mockLineRepo{
		getByID: func(context.Context, uuid.UUID) (domain.Line, error) {
			return domain.Line{}, domain.ErrNotFound
		},
	}
	svc := service.NewStationService(lines, &mockStationRepo{}, &mockRebuilder{})

	_, err := svc.ListByLine(context.Background(), uuid.New())

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStationService_List_TrimsName(t *testing.T) {
	var got string
	stations := &mockStationRepo{
		list: func(_ context.Context, name string) ([]domain.Station, error) {
			got = name
			return nil, nil
		},
	}
	svc := service.NewStationService(&mockLineRepo{}, stations, &mockRebuilder{})

	_, err := svc.List(context.Background(), "  MGBS ")

	require.NoError(t, err)
	assert.Equal(t, "MGBS", got)
}

func TestStationService_Delete_Rebuilds(t *testing.T) {
	graph := &mockRebuilder{}
	stations := &mockStationRepo{
		delete: func(context.Context, uuid.UUID) error { return nil },
	}
	svc := service.NewStationService(&mockLineRepo{}, stations, graph)

	require.NoError(t, svc.Delete(context.Background(), uuid.New()))
	assert.Equal(t, 1, graph.calls)
}

func TestStationService_Delete_NotFound(t *testing.T) {
	graph := &mockRebuilder{}
	stations := &mockStationRepo{
		delete: func(context.Context, uuid.UUID) error { return domain.ErrNotFound },
	}
	svc := service.NewStationService(&mockLineRepo{}, stations, graph)

	require.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), domain.ErrNotFound)
	assert.Zero(t, graph.calls)
}
