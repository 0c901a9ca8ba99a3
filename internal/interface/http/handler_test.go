package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"crewlog-service/internal/domain/entity"
	"crewlog-service/internal/usecase"
	"crewlog-service/pkg/logger"
	"crewlog-service/pkg/utils"
)

type fakeRosterService struct {
	lastReq    usecase.ProcessRequest
	processRes *usecase.ProcessResult
	processErr error
	upload     *entity.RosterUpload
	uploadErr  error
	entries    []*entity.LogbookEntry
	listErr    error
}

func (f *fakeRosterService) ProcessRoster(_ context.Context, req usecase.ProcessRequest) (*usecase.ProcessResult, error) {
	f.lastReq = req
	return f.processRes, f.processErr
}

func (f *fakeRosterService) GetUpload(_ context.Context, _, _ string) (*entity.RosterUpload, error) {
	return f.upload, f.uploadErr
}

func (f *fakeRosterService) ListLogbook(_ context.Context, _ string, _, _ int) ([]*entity.LogbookEntry, error) {
	return f.entries, f.listErr
}

func newTestRouter(svc *fakeRosterService, maxUploadBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(NewHandler(svc, logger.NewNop(), maxUploadBytes))
}

func rosterForm(t *testing.T, fileName, contentType string, payload []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUploadRosterRequiresAuth(t *testing.T) {
	r := newTestRouter(&fakeRosterService{}, 0)

	body, contentType := rosterForm(t, "may.png", "image/png", []byte("img"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rosters", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadRosterCreated(t *testing.T) {
	svc := &fakeRosterService{
		processRes: &usecase.ProcessResult{
			UploadID:   "up-1",
			Status:     entity.UploadStatusCompleted,
			Month:      5,
			Year:       2024,
			SavedCount: 12,
		},
	}
	r := newTestRouter(svc, 0)

	body, contentType := rosterForm(t, "may.png", "image/png", []byte("img"),
		map[string]string{"month": "5", "year": "2024"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rosters", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "user-1", svc.lastReq.UserID)
	assert.Equal(t, "may.png", svc.lastReq.FileName)
	assert.Equal(t, "image/png", svc.lastReq.MediaType)
	assert.Equal(t, []byte("img"), svc.lastReq.Document)
	assert.Equal(t, 5, svc.lastReq.Month)
	assert.Equal(t, 2024, svc.lastReq.Year)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "up-1", out["upload_id"])
	assert.Equal(t, entity.UploadStatusCompleted, out["status"])
	assert.Equal(t, float64(12), out["saved_count"])
}

func TestUploadRosterMediaTypeParamsStripped(t *testing.T) {
	svc := &fakeRosterService{processRes: &usecase.ProcessResult{UploadID: "up-1", Status: entity.UploadStatusCompleted}}
	r := newTestRouter(svc, 0)

	body, contentType := rosterForm(t, "may.jpg", "image/jpeg; charset=binary", []byte("img"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rosters", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "image/jpeg", svc.lastReq.MediaType)
}

func TestUploadRosterMissingFile(t *testing.T) {
	r := newTestRouter(&fakeRosterService{}, 0)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("month", "5"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rosters", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRosterTooLarge(t *testing.T) {
	r := newTestRouter(&fakeRosterService{}, 8)

	body, contentType := rosterForm(t, "may.png", "image/png", bytes.Repeat([]byte("x"), 64), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rosters", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUploadRosterUnsupportedMediaType(t *testing.T) {
	svc := &fakeRosterService{processErr: entity.ErrUnsupportedMediaType}
	r := newTestRouter(svc, 0)

	body, contentType := rosterForm(t, "notes.txt", "text/plain", []byte("hi"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rosters", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestUploadRosterNormalizationFailure(t *testing.T) {
	svc := &fakeRosterService{
		processRes: &usecase.ProcessResult{UploadID: "up-9", Status: entity.UploadStatusFailed},
		processErr: &entity.NormalizationError{RawText: "{not valid", Err: errors.New("unexpected end of JSON input")},
	}
	r := newTestRouter(svc, 0)

	body, contentType := rosterForm(t, "may.png", "image/png", []byte("img"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rosters", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "up-9", out["upload_id"])
	assert.Equal(t, entity.UploadStatusFailed, out["status"])
	assert.Equal(t, "{not valid", out["raw_text"])
}

func TestUploadRosterPersistenceFailure(t *testing.T) {
	svc := &fakeRosterService{
		processErr: &entity.PersistenceError{Op: "intake", Err: errors.New("connection refused")},
	}
	r := newTestRouter(svc, 0)

	body, contentType := rosterForm(t, "may.png", "image/png", []byte("img"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rosters", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Internal detail must not leak.
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestGetUpload(t *testing.T) {
	msg := "Could not read a roster from this document."
	svc := &fakeRosterService{upload: &entity.RosterUpload{
		ID:           "up-1",
		UserID:       "user-1",
		FileName:     "may.pdf",
		FileKind:     entity.FileKindPDF,
		Status:       entity.UploadStatusFailed,
		Month:        5,
		Year:         2024,
		ErrorMessage: &msg,
	}}
	r := newTestRouter(svc, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rosters/up-1", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "up-1", out.ID)
	assert.Equal(t, entity.UploadStatusFailed, out.Status)
	require.NotNil(t, out.ErrorMessage)
	assert.Equal(t, msg, *out.ErrorMessage)
}

func TestGetUploadNotFound(t *testing.T) {
	svc := &fakeRosterService{uploadErr: gorm.ErrRecordNotFound}
	r := newTestRouter(svc, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rosters/nope", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLogbook(t *testing.T) {
	day, err := time.Parse(utils.DateLayout, "2024-05-01")
	require.NoError(t, err)
	svc := &fakeRosterService{entries: []*entity.LogbookEntry{{
		ID:           "lb-1",
		UserID:       "user-1",
		EntryDate:    day,
		ActivityType: entity.ActivityFlight,
		CheckIn:      utils.StrPtr("05:45"),
		Flights: []entity.LogbookFlight{{
			Origin:      "AYT",
			Destination: "FRA",
			STD:         utils.StrPtr("06:45"),
			BlockHours:  utils.Float64Ptr(3.1),
			SortOrder:   0,
		}},
	}}}
	r := newTestRouter(svc, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logbook?month=5&year=2024", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Entries []logbookEntryResponse `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "2024-05-01", out.Entries[0].Date)
	assert.Equal(t, entity.ActivityFlight, out.Entries[0].ActivityType)
	require.Len(t, out.Entries[0].Flights, 1)
	assert.Equal(t, "AYT", out.Entries[0].Flights[0].Origin)
}

func TestListLogbookMissingMonth(t *testing.T) {
	r := newTestRouter(&fakeRosterService{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/logbook?year=2024", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&fakeRosterService{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}
