// Package memory is an in-process storage.Storage used by tests and by
// the "memory" storage driver in development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aanand-mishra/alumni-api/internal/storage"
	"github.com/aanand-mishra/alumni-api/internal/types"
)

// InMemory keeps alumni in a map keyed by email.
type InMemory struct {
	mu      sync.RWMutex
	byEmail map[string]types.Alumni
	nextID  int64
	now     func() time.Time
}

// New returns an empty store.
func New() *InMemory {
	return &InMemory{
		byEmail: make(map[string]types.Alumni),
		now:     time.Now,
	}
}

func (s *InMemory) CreateAlumni(_ context.Context, alumni types.Alumni) (types.Alumni, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[alumni.Email]; ok {
		return types.Alumni{}, storage.ErrDuplicateEmail
	}

	s.nextID++
	now := s.now().UTC()
	alumni.ID = s.nextID
	alumni.CreatedAt = now
	alumni.UpdatedAt = now
	s.byEmail[alumni.Email] = alumni

	return alumni, nil
}

func (s *InMemory) GetAlumniByEmail(_ context.Context, email string) (types.Alumni, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alumni, ok := s.byEmail[email]
	if !ok {
		return types.Alumni{}, storage.ErrNotFound
	}
	return alumni, nil
}

func (s *InMemory) ListAlumni(_ context.Context, filter types.AlumniFilter) ([]types.Alumni, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]types.Alumni, 0, len(s.byEmail))
	for _, a := range s.byEmail {
		if filter.Department != "" && a.Department != filter.Department {
			continue
		}
		if filter.Section != "" && a.Section != filter.Section {
			continue
		}
		list = append(list, a)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Department != list[j].Department {
			return list[i].Department < list[j].Department
		}
		if list[i].Section != list[j].Section {
			return list[i].Section < list[j].Section
		}
		return list[i].Name < list[j].Name
	})

	return list, nil
}

func (s *InMemory) GetSectionStats(_ context.Context) ([]types.SectionStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type key struct{ department, section string }
	counts := make(map[key]int64)
	for _, a := range s.byEmail {
		counts[key{a.Department, a.Section}]++
	}

	stats := make([]types.SectionStat, 0, len(counts))
	for k, n := range counts {
		stats = append(stats, types.SectionStat{Department: k.department, Section: k.section, Count: n})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Department != stats[j].Department {
			return stats[i].Department < stats[j].Department
		}
		return stats[i].Section < stats[j].Section
	})

	return stats, nil
}

// Len is the number of stored alumni.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}
