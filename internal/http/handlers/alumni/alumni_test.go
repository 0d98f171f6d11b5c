package alumni

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	core "github.com/aanand-mishra/alumni-api/internal/alumni"
	"github.com/aanand-mishra/alumni-api/internal/graduation"
	"github.com/aanand-mishra/alumni-api/internal/storage/memory"
	"github.com/aanand-mishra/alumni-api/internal/types"
	"github.com/aanand-mishra/alumni-api/internal/utils/response"
)

type fixture struct {
	store    *memory.InMemory
	service  *core.Service
	importer *core.Importer
}

func newFixture() fixture {
	store := memory.New()
	policy := graduation.NewPolicy(graduation.FixedClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fixture{
		store:    store,
		service:  core.NewService(store, policy, nil, nil, log),
		importer: core.NewImporter(store, policy, nil, core.WithImporterLogger(log)),
	}
}

const validBody = `{
	"name": "Asha", "email": "asha@x.com", "phone": "1234567890",
	"registerNumber": "R1", "department": "CSE", "section": "A",
	"passOutYear": 2025, "courseDurationYears": 4,
	"placed": false, "company": "Acme"
}`

func TestNew(t *testing.T) {
	f := newFixture()
	handler := New(f.service)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/alumni", strings.NewReader(body)))
		return rec
	}

	t.Run("creates", func(t *testing.T) {
		rec := post(validBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		var got types.Alumni
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.NotZero(t, got.ID)
		assert.Equal(t, "asha@x.com", got.Email)
		assert.Empty(t, got.Company)
	})

	t.Run("duplicate is 409", func(t *testing.T) {
		rec := post(validBody)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "Alumni already exists")
	})

	t.Run("empty body is 400", func(t *testing.T) {
		rec := post("")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "request body is empty")
	})

	t.Run("malformed json is 400", func(t *testing.T) {
		rec := post("{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failure is 400", func(t *testing.T) {
		rec := post(strings.Replace(validBody, `"section": "A"`, `"section": "Z"`, 1))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var got response.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Contains(t, got.Error, "field Section must be one of")
	})

	t.Run("not graduated is 400", func(t *testing.T) {
		body := strings.Replace(validBody, `"passOutYear": 2025`, `"passOutYear": 2027`, 1)
		body = strings.Replace(body, "asha@x.com", "new@x.com", 1)
		rec := post(body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Not graduated yet")
	})
}

func multipartUpload(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, "alumni.xlsx")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/alumni/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func workbook(t *testing.T, grid [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i := range grid {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &grid[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestUpload(t *testing.T) {
	f := newFixture()
	handler := Upload(f.importer, 1<<20)

	t.Run("imports and reports", func(t *testing.T) {
		data := workbook(t, [][]any{
			{"name", "email", "phone", "registerNumber", "department", "section", "passOutYear", "courseDurationYears"},
			{"A", "a@x.com", "1234567890", "R1", "CSE", "A", 2025, 4},
			{"A", "a@x.com", "1234567890", "R1", "CSE", "A", 2025, 4},
			{"", "m@x.com", "1234567890", "R3", "CSE", "A", 2025, 4},
		})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, multipartUpload(t, UploadField, data))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"created": 1,
			"skipped": [{"row": 3, "reason": "Duplicate email"}],
			"errors":  [{"row": 4, "reason": "Missing fields"}]
		}`, rec.Body.String())
		assert.Equal(t, 1, f.store.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, multipartUpload(t, "", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "file is required")
	})

	t.Run("not multipart", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/alumni/upload", strings.NewReader("x")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "file is required")
	})

	t.Run("empty file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, multipartUpload(t, UploadField, []byte{}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "file is required")
	})

	t.Run("unreadable workbook", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, multipartUpload(t, UploadField, []byte("name,email\n")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetListAndStats(t *testing.T) {
	f := newFixture()
	add := New(f.service)
	for _, email := range []string{"a@x.com", "b@x.com"} {
		rec := httptest.NewRecorder()
		body := strings.Replace(validBody, "asha@x.com", email, 1)
		add.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/alumni", strings.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("list filters by query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		GetList(f.service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/alumni?department=CSE&section=A", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var got []types.Alumni
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("empty list encodes as array", func(t *testing.T) {
		rec := httptest.NewRecorder()
		GetList(f.service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/alumni?section=F", nil))
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("stats", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Stats(f.service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/alumni/stats", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"department":"CSE","section":"A","count":2}]`, rec.Body.String())
	})
}
