package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/aanand-mishra/alumni-api/internal/storage"
	"github.com/aanand-mishra/alumni-api/internal/types"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *InMemorySuite) alumni(name, email, dept, section string) types.Alumni {
	return types.Alumni{
		Name:                name,
		Email:               email,
		Phone:               "1234567890",
		RegisterNumber:      "R-" + name,
		Department:          dept,
		Section:             section,
		PassOutYear:         2024,
		CourseDurationYears: 4,
	}
}

func (s *InMemorySuite) TestCreateAndLookup() {
	s.Run("assigns id and timestamps", func() {
		created, err := s.store.CreateAlumni(s.ctx, s.alumni("Asha", "asha@x.com", "CSE", "A"))
		s.Require().NoError(err)
		s.NotZero(created.ID)
		s.False(created.CreatedAt.IsZero())

		found, err := s.store.GetAlumniByEmail(s.ctx, "asha@x.com")
		s.Require().NoError(err)
		s.Equal(created, found)
	})

	s.Run("returns ErrNotFound for unknown email", func() {
		_, err := s.store.GetAlumniByEmail(s.ctx, "nobody@x.com")
		s.ErrorIs(err, storage.ErrNotFound)
	})
}

func (s *InMemorySuite) TestEmailUniqueness() {
	_, err := s.store.CreateAlumni(s.ctx, s.alumni("Asha", "asha@x.com", "CSE", "A"))
	s.Require().NoError(err)

	_, err = s.store.CreateAlumni(s.ctx, s.alumni("Other", "asha@x.com", "ECE", "B"))
	s.ErrorIs(err, storage.ErrDuplicateEmail)
	s.Equal(1, s.store.Len())

	kept, err := s.store.GetAlumniByEmail(s.ctx, "asha@x.com")
	s.Require().NoError(err)
	s.Equal("Asha", kept.Name)
}

func (s *InMemorySuite) TestListAndStats() {
	for _, a := range []types.Alumni{
		s.alumni("Zed", "zed@x.com", "CSE", "B"),
		s.alumni("Bala", "bala@x.com", "CSE", "A"),
		s.alumni("Anu", "anu@x.com", "CSE", "A"),
		s.alumni("Kiran", "kiran@x.com", "ECE", "A"),
	} {
		_, err := s.store.CreateAlumni(s.ctx, a)
		s.Require().NoError(err)
	}

	s.Run("sorted by department, section, name", func() {
		list, err := s.store.ListAlumni(s.ctx, types.AlumniFilter{})
		s.Require().NoError(err)
		s.Require().Len(list, 4)
		s.Equal([]string{"Anu", "Bala", "Zed", "Kiran"},
			[]string{list[0].Name, list[1].Name, list[2].Name, list[3].Name})
	})

	s.Run("filters by department and section", func() {
		list, err := s.store.ListAlumni(s.ctx, types.AlumniFilter{Department: "CSE", Section: "A"})
		s.Require().NoError(err)
		s.Len(list, 2)
	})

	s.Run("empty result is a non-nil slice", func() {
		list, err := s.store.ListAlumni(s.ctx, types.AlumniFilter{Department: "MECH"})
		s.Require().NoError(err)
		s.NotNil(list)
		s.Empty(list)
	})

	s.Run("groups counts by department and section", func() {
		stats, err := s.store.GetSectionStats(s.ctx)
		s.Require().NoError(err)
		s.Equal([]types.SectionStat{
			{Department: "CSE", Section: "A", Count: 2},
			{Department: "CSE", Section: "B", Count: 1},
			{Department: "ECE", Section: "A", Count: 1},
		}, stats)
	})
}
