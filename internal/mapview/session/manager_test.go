package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"permitmap/internal/business/models"
	"permitmap/internal/business/service"
	"permitmap/internal/business/store"
	"permitmap/internal/compliance"
	"permitmap/internal/mapview"
	"permitmap/internal/mapview/loader"
	"permitmap/internal/mapview/provider"
	dErrors "permitmap/pkg/domain-errors"
	"permitmap/pkg/requestcontext"
)

type ManagerSuite struct {
	suite.Suite
	ctx context.Context
	mgr *Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	mem := store.NewInMemory()
	s.Require().NoError(mem.Add(models.BusinessRecord{
		ID: "OK", Name: "Compliant Trading", RepName: "Rep OK", LongLat: "10.78,122.58",
		DTIExpiry: models.Date("2099-01-01"), SECExpiry: models.Date("2099-01-01"), CDAExpiry: models.Date("2099-01-01"),
	}, nil))
	s.Require().NoError(mem.Add(models.BusinessRecord{
		ID: "EXP", Name: "Expired Hardware", RepName: "Rep EXP", LongLat: "10.79,122.59",
		DTIExpiry: models.Date("2020-01-01"), SECExpiry: models.Date("2099-01-01"), CDAExpiry: models.Date("2099-01-01"),
	}, nil))

	svc := service.New(mem, nil, nil)
	headless := provider.NewHeadless(nil)
	ld := loader.New(loader.BootstrapperFunc(func(ctx context.Context, apiKey string) (provider.Provider, error) {
		return headless, nil
	}), "test-key")

	s.mgr = NewManager(func(filter compliance.Filter) *mapview.Controller {
		return mapview.NewController(svc, ld, mapview.WithInitialFilter(filter))
	}, nil)
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (s *ManagerSuite) TestMountAndGet() {
	id, ctrl, err := s.mgr.Mount(s.ctx, compliance.FilterAll)
	s.Require().NoError(err)
	s.NotEmpty(id)
	s.Equal(mapview.StateMarkersRendered, ctrl.ViewState().State)
	s.Len(ctrl.ViewState().Markers, 2)

	got, err := s.mgr.Get(id)
	s.Require().NoError(err)
	s.Same(ctrl, got)
	s.Equal(1, s.mgr.Count())
}

func (s *ManagerSuite) TestMountWithFilter() {
	_, ctrl, err := s.mgr.Mount(s.ctx, compliance.Filter(compliance.StatusNoncompliant))
	s.Require().NoError(err)
	s.Len(ctrl.ViewState().Markers, 1)
	s.Equal(string(compliance.StatusNoncompliant), ctrl.ViewState().Filter)
}

func (s *ManagerSuite) TestGetUnknownSession() {
	_, err := s.mgr.Get("nope")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ManagerSuite) TestDispose() {
	id, ctrl, err := s.mgr.Mount(s.ctx, compliance.FilterAll)
	s.Require().NoError(err)

	s.Require().NoError(s.mgr.Dispose(id))
	s.Equal(mapview.StateDisposed, ctrl.ViewState().State)
	s.Equal(0, s.mgr.Count())

	err = s.mgr.Dispose(id)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ManagerSuite) TestDisposeAll() {
	_, a, err := s.mgr.Mount(s.ctx, compliance.FilterAll)
	s.Require().NoError(err)
	_, b, err := s.mgr.Mount(s.ctx, compliance.FilterAll)
	s.Require().NoError(err)

	s.mgr.DisposeAll()
	s.Equal(0, s.mgr.Count())
	s.Equal(mapview.StateDisposed, a.ViewState().State)
	s.Equal(mapview.StateDisposed, b.ViewState().State)
}
