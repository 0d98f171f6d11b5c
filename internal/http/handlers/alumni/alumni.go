// Package alumni contains all HTTP handlers related to the Alumni resource.
//
// Every handler is built by a factory that receives its dependencies and
// returns the func(http.ResponseWriter, *http.Request) the router needs:
//
//	router.Handle("POST /api/alumni", alumni.New(service))
//	//                                 ^^^^^^^^^^^^^^^^^^
//	//           New(service) runs ONCE at startup; the returned
//	//           handler runs on EVERY incoming request.
package alumni

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	core "github.com/aanand-mishra/alumni-api/internal/alumni"
	"github.com/aanand-mishra/alumni-api/internal/types"
	"github.com/aanand-mishra/alumni-api/internal/utils/response"
)

// Service is the single-record surface the handlers need.
type Service interface {
	Add(ctx context.Context, req types.AlumniRequest) (types.Alumni, error)
	List(ctx context.Context, filter types.AlumniFilter) ([]types.Alumni, error)
	Stats(ctx context.Context) ([]types.SectionStat, error)
}

// Importer runs a bulk upload.
type Importer interface {
	Import(ctx context.Context, data []byte) (types.ImportOutcome, error)
}

// UploadField is the multipart form field holding the workbook.
const UploadField = "file"

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/alumni
// Adds one alumnus from the JSON request body.
//
// Success response (201 Created): the stored record.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, failed validation, not graduated
//	409 Conflict     — an alumnus with this email already exists
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("adding an alumnus")

		var req types.AlumniRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		created, err := svc.Add(r.Context(), req)
		if err != nil {
			var (
				validateErrs validator.ValidationErrors
				rej          *core.Rejection
			)
			switch {
			case errors.As(err, &validateErrs):
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(validateErrs))
			case errors.As(err, &rej) && rej.Kind == core.KindConflict:
				response.WriteJSON(w, http.StatusConflict, response.GeneralError(rej))
			case errors.As(err, &rej):
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(rej))
			default:
				slog.Error("error adding alumnus", slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			}
			return
		}

		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Upload handles POST /api/alumni/upload
// Bulk-imports alumni from an .xlsx workbook sent as multipart field "file".
//
// Success response (200 OK), even when no row was created:
//
//	{ "created": 1, "skipped": [{"row": 3, "reason": "Duplicate email"}], "errors": [] }
//
// Error responses:
//
//	400 Bad Request  — no file, empty file, unreadable workbook, body too large
//
// ─────────────────────────────────────────────────────────────────────────────
func Upload(importer Importer, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("bulk uploading alumni")

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		file, header, err := r.FormFile(UploadField)
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(core.ErrFileRequired))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// A client hanging up mid-import does not abort the rows already
		// under way; the run always finishes.
		outcome, err := importer.Import(context.WithoutCancel(r.Context()), data)
		if err != nil {
			slog.Warn("upload rejected",
				slog.String("filename", header.Filename),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, outcome)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/alumni?department=CSE&section=A
// Returns the directory sorted by department, section and name. Both
// query parameters are optional. Returns [] (not null) when empty.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := types.AlumniFilter{
			Department: r.URL.Query().Get("department"),
			Section:    r.URL.Query().Get("section"),
		}
		slog.Info("listing alumni",
			slog.String("department", filter.Department),
			slog.String("section", filter.Section))

		list, err := svc.List(r.Context(), filter)
		if err != nil {
			slog.Error("error listing alumni", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, list)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Stats handles GET /api/alumni/stats
// Returns alumni counts per department and section.
//
//	[ { "department": "CSE", "section": "A", "count": 42 } ]
//
// ─────────────────────────────────────────────────────────────────────────────
func Stats(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			slog.Error("error getting stats", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, stats)
	}
}
