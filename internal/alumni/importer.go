package alumni

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aanand-mishra/alumni-api/internal/graduation"
	"github.com/aanand-mishra/alumni-api/internal/metrics"
	"github.com/aanand-mishra/alumni-api/internal/sheet"
	"github.com/aanand-mishra/alumni-api/internal/storage"
	"github.com/aanand-mishra/alumni-api/internal/types"
)

// firstDataRow numbers rows that carry no sheet line: the header
// occupies row 1 and spreadsheets count from 1.
const firstDataRow = 2

// Importer is the bulk import pipeline. Rows are processed strictly in
// order, one at a time, so a row always sees the records inserted by the
// rows before it.
type Importer struct {
	validator  *RowValidator
	duplicates *DuplicateChecker
	store      storage.Storage
	notifier   Notifier
	metrics    *metrics.Metrics
	log        *slog.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithImporterLogger sets the logger. Defaults to slog.Default().
func WithImporterLogger(log *slog.Logger) ImporterOption {
	return func(im *Importer) { im.log = log }
}

// WithImporterMetrics records row outcomes and run durations.
func WithImporterMetrics(m *metrics.Metrics) ImporterOption {
	return func(im *Importer) { im.metrics = m }
}

// NewImporter wires the pipeline. notifier may be nil to skip welcome mails.
func NewImporter(store storage.Storage, policy *graduation.Policy, notifier Notifier, opts ...ImporterOption) *Importer {
	im := &Importer{
		validator:  NewRowValidator(policy),
		duplicates: NewDuplicateChecker(store),
		store:      store,
		notifier:   notifier,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import parses an uploaded workbook and runs every data row through the
// pipeline. Only a missing or unreadable file fails the call; once the
// rows are parsed every problem is reported in the outcome.
func (im *Importer) Import(ctx context.Context, data []byte) (types.ImportOutcome, error) {
	if len(data) == 0 {
		return types.ImportOutcome{}, ErrFileRequired
	}

	rows, err := sheet.Parse(bytes.NewReader(data))
	if err != nil {
		return types.ImportOutcome{}, fmt.Errorf("parse upload: %w", err)
	}

	return im.Run(ctx, rows), nil
}

// Run processes rows in order and returns the accumulated outcome.
func (im *Importer) Run(ctx context.Context, rows []types.ImportRow) types.ImportOutcome {
	start := time.Now()
	runID := uuid.NewString()
	log := im.log.With(slog.String("import_id", runID))
	log.Info("import started", slog.Int("rows", len(rows)))

	outcome := types.NewImportOutcome()

	for i, row := range rows {
		rowNum := row.Line
		if rowNum == 0 {
			rowNum = i + firstDataRow
		}

		created, rej := im.processRow(ctx, row)
		if rej != nil {
			issue := types.RowIssue{Row: rowNum, Reason: rej.Reason}
			if rej.Kind.IsSkip() {
				outcome.Skipped = append(outcome.Skipped, issue)
				im.metrics.ObserveRow(metrics.OutcomeSkipped)
			} else {
				outcome.Errors = append(outcome.Errors, issue)
				im.metrics.ObserveRow(metrics.OutcomeError)
			}
			log.Debug("row not imported",
				slog.Int("row", rowNum),
				slog.String("kind", rej.Kind.String()),
				slog.String("reason", rej.Reason))
			continue
		}

		outcome.Created++
		im.metrics.ObserveRow(metrics.OutcomeCreated)
		im.metrics.IncrementCreated()
		im.notify(created)
	}

	im.metrics.ObserveImport(start)
	log.Info("import finished",
		slog.Int("created", outcome.Created),
		slog.Int("skipped", len(outcome.Skipped)),
		slog.Int("errors", len(outcome.Errors)),
		slog.Duration("took", time.Since(start)))

	return outcome
}

// processRow validates, de-duplicates and stores one row.
func (im *Importer) processRow(ctx context.Context, row types.ImportRow) (types.Alumni, *Rejection) {
	candidate, rej := im.validator.Validate(row)
	if rej != nil {
		return types.Alumni{}, rej
	}

	exists, err := im.duplicates.Exists(ctx, candidate.Email)
	if err != nil {
		return types.Alumni{}, &Rejection{Kind: KindPersistence, Reason: err.Error()}
	}
	if exists {
		return types.Alumni{}, &Rejection{Kind: KindConflict, Reason: ReasonDuplicateEmail}
	}

	created, err := im.store.CreateAlumni(ctx, candidate)
	if err != nil {
		// Another writer may have taken the email between lookup and insert.
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return types.Alumni{}, &Rejection{Kind: KindConflict, Reason: ReasonDuplicateEmail}
		}
		return types.Alumni{}, &Rejection{Kind: KindPersistence, Reason: err.Error()}
	}

	return created, nil
}

func (im *Importer) notify(a types.Alumni) {
	if im.notifier == nil {
		return
	}
	im.notifier.Enqueue(a.Email, a.Name)
}
