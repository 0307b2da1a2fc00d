package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/metro-router/internal/domain"
	"github.com/pkordes/metro-router/internal/repo"
	"github.com/pkordes/metro-router/internal/service"
)

// mockLineRepo is a hand-written test double for repo.LineRepo.
// Each method is a function field; set only the ones your test needs.
type mockLineRepo struct {
	create    func(ctx context.Context, line domain.Line) (domain.Line, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Line, error)
	getByName func(ctx context.Context, name string) (domain.Line, error)
	list      func(ctx context.Context) ([]domain.Line, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Line, int64, error)
	update    func(ctx context.Context, line domain.Line) (domain.Line, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockLineRepo) Create(ctx context.Context, line domain.Line) (domain.Line, error) {
	return m.create(ctx, line)
}
func (m *mockLineRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Line, error) {
	return m.getByID(ctx, id)
}
func (m *mockLineRepo) GetByName(ctx context.Context, name string) (domain.Line, error) {
	return m.getByName(ctx, name)
}
func (m *mockLineRepo) List(ctx context.Context) ([]domain.Line, error) {
	return m.list(ctx)
}
func (m *mockLineRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Line, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockLineRepo) Update(ctx context.Context, line domain.Line) (domain.Line, error) {
	return m.update(ctx, line)
}
func (m *mockLineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// mockStationRepo is a hand-written test double for repo.StationRepo.
type mockStationRepo struct {
	create      func(ctx context.Context, station domain.Station) (domain.Station, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Station, error)
	findOnLine  func(ctx context.Context, lineID, excludeID uuid.UUID, name string, number int) (domain.Station, error)
	listByLine  func(ctx context.Context, lineID uuid.UUID) ([]domain.Station, error)
	list        func(ctx context.Context, name string) ([]domain.Station, error)
	countByLine func(ctx context.Context, lineID uuid.UUID) (int64, error)
	update      func(ctx context.Context, station domain.Station) (domain.Station, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockStationRepo) Create(ctx context.Context, station domain.Station) (domain.Station, error) {
	return m.create(ctx, station)
}
func (m *mockStationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Station, error) {
	return m.getByID(ctx, id)
}
func (m *mockStationRepo) FindOnLine(ctx context.Context, lineID, excludeID uuid.UUID, name string, number int) (domain.Station, error) {
	return m.findOnLine(ctx, lineID, excludeID, name, number)
}
func (m *mockStationRepo) ListByLine(ctx context.Context, lineID uuid.UUID) ([]domain.Station, error) {
	return m.listByLine(ctx, lineID)
}
func (m *mockStationRepo) List(ctx context.Context, name string) ([]domain.Station, error) {
	return m.list(ctx, name)
}
func (m *mockStationRepo) CountByLine(ctx context.Context, lineID uuid.UUID) (int64, error) {
	return m.countByLine(ctx, lineID)
}
func (m *mockStationRepo) Update(ctx context.Context, station domain.Station) (domain.Station, error) {
	return m.update(ctx, station)
}
func (m *mockStationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// mockRebuilder counts rebuilds and returns err from each one.
type mockRebuilder struct {
	calls int
	err   error
}

func (m *mockRebuilder) Rebuild(_ context.Context) (domain.NetworkStats, error) {
	m.calls++
	return domain.NetworkStats{}, m.err
}

// compile-time checks: the mocks must satisfy the interfaces they stand in for.
var (
	_ repo.LineRepo     = (*mockLineRepo)(nil)
	_ repo.StationRepo  = (*mockStationRepo)(nil)
	_ service.Rebuilder = (*mockRebuilder)(nil)
)

func notFoundLine(context.Context, string) (domain.Line, error) {
	return domain.Line{}, domain.ErrNotFound
}

func noClash(context.Context, uuid.UUID, uuid.UUID, string, int) (domain.Station, error) {
	return domain.Station{}, domain.ErrNotFound
}
