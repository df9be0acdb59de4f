package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgallery/internal/delivery/http/helpers"
	"eventgallery/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	event       *domain.Event
	events      []*domain.Event
	coverResult *domain.CoverUpload
	err         error
	lastInput   domain.EventInput
	lastPatch   domain.EventPatch
	lastFilter  domain.EventFilter
	lastCover   *domain.Upload
	lastID      int64
}

func (f *fakeEventService) Create(ctx context.Context, input domain.EventInput, cover *domain.Upload) (*domain.Event, error) {
	f.lastInput = input
	f.lastCover = cover
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEventService) Update(ctx context.Context, id int64, patch domain.EventPatch) (*domain.Event, error) {
	f.lastID = id
	f.lastPatch = patch
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) Delete(ctx context.Context, id int64) error {
	f.lastID = id
	return f.err
}

func (f *fakeEventService) UploadCover(upload domain.Upload) (*domain.CoverUpload, error) {
	f.lastCover = &upload
	if f.err != nil {
		return nil, f.err
	}
	return f.coverResult, nil
}

// multipartBody builds a multipart form with an optional event JSON field and
// an optional file part.
func multipartBody(t *testing.T, eventJSON string, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if eventJSON != "" {
		require.NoError(t, mw.WriteField("event", eventJSON))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	return envelope
}

func TestEventController_Create(t *testing.T) {
	cover := "http://api.example.com/static/images/party.jpg"
	fake := &fakeEventService{event: &domain.Event{ID: 1, Title: "Launch", CoverImageURL: &cover}}
	ctrl := NewEventController(testLogger, fake)

	body, contentType := multipartBody(t, `{"title":"Launch","location":"Berlin"}`, "party.jpg")
	req := httptest.NewRequest(http.MethodPost, "http://test/events/", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	ctrl.Create(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Launch", fake.lastInput.Title)
	require.NotNil(t, fake.lastInput.Location)
	assert.Equal(t, "Berlin", *fake.lastInput.Location)
	require.NotNil(t, fake.lastCover)
	assert.Equal(t, "party.jpg", fake.lastCover.Filename)

	envelope := decodeEnvelope(t, rr)
	assert.Nil(t, envelope.Error)
}

func TestEventController_Create_without_file(t *testing.T) {
	fake := &fakeEventService{event: &domain.Event{ID: 1, Title: "Launch"}}
	ctrl := NewEventController(testLogger, fake)

	body, contentType := multipartBody(t, `{"title":"Launch"}`, "")
	req := httptest.NewRequest(http.MethodPost, "http://test/events/", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	ctrl.Create(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Nil(t, fake.lastCover)
}

func TestEventController_Create_drops_server_controlled_fields(t *testing.T) {
	fake := &fakeEventService{event: &domain.Event{ID: 1, Title: "Launch"}}
	ctrl := NewEventController(testLogger, fake)

	payload := `{"title":"Launch","id":99,"cover_image_url":"http://evil/x.jpg","video_url":"http://evil/v.mp4","photos":[{"id":1}]}`
	body, contentType := multipartBody(t, payload, "")
	req := httptest.NewRequest(http.MethodPost, "http://test/events/", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	ctrl.Create(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Launch", fake.lastInput.Title)
}

func TestEventController_Create_bad_requests(t *testing.T) {
	tests := []struct {
		name      string
		eventJSON string
	}{
		{"missing event field", ""},
		{"malformed json", `{"title":`},
		{"missing title", `{"location":"Berlin"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testLogger, &fakeEventService{})
			body, contentType := multipartBody(t, tt.eventJSON, "")
			req := httptest.NewRequest(http.MethodPost, "http://test/events/", body)
			req.Header.Set("Content-Type", contentType)
			rr := httptest.NewRecorder()

			ctrl.Create(rr, req)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			envelope := decodeEnvelope(t, rr)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, helpers.ErrCodeBadRequest, envelope.Error.Code)
		})
	}
}

func TestEventController_List(t *testing.T) {
	fake := &fakeEventService{events: []*domain.Event{{ID: 1, Title: "Launch"}}}
	ctrl := NewEventController(testLogger, fake)

	req := httptest.NewRequest(http.MethodGet, "http://test/events/?title=launch&skip=5&limit=2", nil)
	rr := httptest.NewRecorder()

	ctrl.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "launch", fake.lastFilter.Title)
	assert.Equal(t, 5, fake.lastFilter.Skip)
	assert.Equal(t, 2, fake.lastFilter.Limit)
}

func TestEventController_List_empty_is_json_array(t *testing.T) {
	ctrl := NewEventController(testLogger, &fakeEventService{})

	req := httptest.NewRequest(http.MethodGet, "http://test/events/", nil)
	rr := httptest.NewRecorder()

	ctrl.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"data":[]`)
}

func TestEventController_List_bad_date(t *testing.T) {
	ctrl := NewEventController(testLogger, &fakeEventService{})

	req := httptest.NewRequest(http.MethodGet, "http://test/events/?from_date=yesterday", nil)
	rr := httptest.NewRecorder()

	ctrl.List(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEventController_Get(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		fakeErr    error
		wantStatus int
		wantCode   string
	}{
		{"success", "1", nil, http.StatusOK, ""},
		{"not found", "42", domain.ErrNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
		{"invalid id", "abc", nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"service error", "1", assert.AnError, http.StatusInternalServerError, helpers.ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{event: &domain.Event{ID: 1, Title: "Launch"}, err: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)

			req := httptest.NewRequest(http.MethodGet, "http://test/events/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rr := httptest.NewRecorder()

			ctrl.Get(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				envelope := decodeEnvelope(t, rr)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
			}
		})
	}
}

func TestEventController_Get_does_not_leak_internal_error(t *testing.T) {
	fake := &fakeEventService{err: assert.AnError}
	ctrl := NewEventController(testLogger, fake)

	req := httptest.NewRequest(http.MethodGet, "http://test/events/1", nil)
	req.SetPathValue("id", "1")
	rr := httptest.NewRecorder()

	ctrl.Get(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
}

func TestEventController_Update(t *testing.T) {
	fake := &fakeEventService{event: &domain.Event{ID: 1, Title: "Renamed"}}
	ctrl := NewEventController(testLogger, fake)

	body, contentType := multipartBody(t, `{"title":"Renamed"}`, "")
	req := httptest.NewRequest(http.MethodPut, "http://test/events/1", body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("id", "1")
	rr := httptest.NewRecorder()

	ctrl.Update(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1), fake.lastID)
	require.NotNil(t, fake.lastPatch.Title)
	assert.Equal(t, "Renamed", *fake.lastPatch.Title)
	assert.Nil(t, fake.lastPatch.Description)
}

func TestEventController_Update_not_found(t *testing.T) {
	fake := &fakeEventService{err: domain.ErrNotFound}
	ctrl := NewEventController(testLogger, fake)

	body, contentType := multipartBody(t, `{"title":"Renamed"}`, "")
	req := httptest.NewRequest(http.MethodPut, "http://test/events/42", body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("id", "42")
	rr := httptest.NewRecorder()

	ctrl.Update(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEventController_Delete(t *testing.T) {
	tests := []struct {
		name       string
		fakeErr    error
		wantStatus int
	}{
		{"success", nil, http.StatusNoContent},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"service error", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{err: tt.fakeErr}
			ctrl := NewEventController(testLogger, fake)

			req := httptest.NewRequest(http.MethodDelete, "http://test/events/1", nil)
			req.SetPathValue("id", "1")
			rr := httptest.NewRecorder()

			ctrl.Delete(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestEventController_UploadCover(t *testing.T) {
	fake := &fakeEventService{coverResult: &domain.CoverUpload{Filename: "banner.png", URL: "http://api.example.com/static/images/banner.png"}}
	ctrl := NewEventController(testLogger, fake)

	body, contentType := multipartBody(t, "", "banner.png")
	req := httptest.NewRequest(http.MethodPost, "http://test/events/upload-cover/", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	ctrl.UploadCover(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, fake.lastCover)
	assert.Equal(t, "banner.png", fake.lastCover.Filename)
	assert.Contains(t, rr.Body.String(), "banner.png")
}

func TestEventController_UploadCover_missing_file(t *testing.T) {
	ctrl := NewEventController(testLogger, &fakeEventService{})

	body, contentType := multipartBody(t, "", "")
	req := httptest.NewRequest(http.MethodPost, "http://test/events/upload-cover/", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	ctrl.UploadCover(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}
