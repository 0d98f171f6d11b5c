package alumni

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/alumni-api/internal/graduation"
	"github.com/aanand-mishra/alumni-api/internal/metrics"
	"github.com/aanand-mishra/alumni-api/internal/storage"
	"github.com/aanand-mishra/alumni-api/internal/types"
)

// Service covers the single-record paths: add one alumnus, browse the
// directory and read the department/section stats.
type Service struct {
	store      storage.Storage
	policy     *graduation.Policy
	duplicates *DuplicateChecker
	notifier   Notifier
	validate   *validator.Validate
	metrics    *metrics.Metrics
	log        *slog.Logger
}

// NewService wires the service. notifier and m may be nil; a nil log
// falls back to slog.Default().
func NewService(store storage.Storage, policy *graduation.Policy, notifier Notifier, m *metrics.Metrics, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:      store,
		policy:     policy,
		duplicates: NewDuplicateChecker(store),
		notifier:   notifier,
		validate:   validator.New(),
		metrics:    m,
		log:        log,
	}
}

// Add validates req and stores it. Failures come back as:
//   - validator.ValidationErrors when a field constraint fails
//   - ErrNotGraduated when the pass-out year is in the future
//   - ErrAlreadyExists when the email is taken
//   - any other error from the store
func (s *Service) Add(ctx context.Context, req types.AlumniRequest) (types.Alumni, error) {
	req.NormalizePlacement()
	if err := s.validate.Struct(req); err != nil {
		return types.Alumni{}, err
	}

	if !s.policy.IsGraduated(req.PassOutYear, req.CourseDurationYears) {
		return types.Alumni{}, ErrNotGraduated
	}

	exists, err := s.duplicates.Exists(ctx, req.Email)
	if err != nil {
		return types.Alumni{}, err
	}
	if exists {
		return types.Alumni{}, ErrAlreadyExists
	}

	created, err := s.store.CreateAlumni(ctx, req.Alumni())
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return types.Alumni{}, ErrAlreadyExists
		}
		return types.Alumni{}, err
	}

	s.log.Info("alumni created", slog.Int64("id", created.ID), slog.String("email", created.Email))
	s.metrics.IncrementCreated()
	if s.notifier != nil {
		s.notifier.Enqueue(created.Email, created.Name)
	}

	return created, nil
}

// List returns the directory filtered by department and section.
func (s *Service) List(ctx context.Context, filter types.AlumniFilter) ([]types.Alumni, error) {
	return s.store.ListAlumni(ctx, filter)
}

// Stats returns alumni counts per department and section.
func (s *Service) Stats(ctx context.Context) ([]types.SectionStat, error) {
	return s.store.GetSectionStats(ctx)
}
