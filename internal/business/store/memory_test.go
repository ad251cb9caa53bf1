package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"permitmap/internal/business/models"
	"permitmap/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) newRecord(id string) models.BusinessRecord {
	return models.BusinessRecord{
		ID:      id,
		Name:    "Business " + id,
		RepName: "Rep " + id,
		LongLat: "10.78,122.58",
	}
}

func (s *InMemoryStoreSuite) TestAddAndList() {
	s.Run("preserves insertion order", func() {
		s.Require().NoError(s.store.Add(s.newRecord("B1"), nil))
		s.Require().NoError(s.store.Add(s.newRecord("B2"), nil))
		s.Require().NoError(s.store.Add(s.newRecord("B3"), nil))

		records, err := s.store.ListAll(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(records, 3)
		s.Equal("B1", records[0].ID)
		s.Equal("B2", records[1].ID)
		s.Equal("B3", records[2].ID)
	})

	s.Run("rejects duplicate id", func() {
		s.Require().NoError(s.store.Add(s.newRecord("DUP"), nil))
		s.Require().ErrorIs(s.store.Add(s.newRecord("DUP"), nil), sentinel.ErrInvalidState)
	})

	s.Run("rejects record without id", func() {
		s.Require().Error(s.store.Add(models.BusinessRecord{Name: "nameless"}, nil))
	})
}

func (s *InMemoryStoreSuite) TestFindDetails() {
	s.Run("returns details when present", func() {
		details := &models.BusinessDetails{
			BusinessInfo: &models.BusinessNameInfo{BusinessID: "B1", BusinessName: "Business B1"},
		}
		s.Require().NoError(s.store.Add(s.newRecord("B1"), details))

		got, err := s.store.FindDetails(s.ctx, "B1")
		s.Require().NoError(err)
		s.Equal("Business B1", got.BusinessInfo.BusinessName)
	})

	s.Run("returns ErrNotFound when record has no details", func() {
		s.Require().NoError(s.store.Add(s.newRecord("B2"), nil))
		_, err := s.store.FindDetails(s.ctx, "B2")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindDetails(s.ctx, "missing")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestLeganesFixture() {
	s.Require().NoError(SeedLeganesFixture(s.store))

	records, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(records, 8)

	details, err := s.store.FindDetails(s.ctx, "BIZ001")
	s.Require().NoError(err)
	s.Require().NotNil(details.Requirements)
	s.Equal("DTI123456", details.Requirements.DTINo)

	_, err = s.store.FindDetails(s.ctx, "BIZ002")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
