package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"eventgallery/internal/delivery/http/helpers"
	"eventgallery/internal/domain"
)

// maxUploadBytes caps the in-memory portion of multipart parsing.
const maxUploadBytes = 32 << 20

// CreateEventRequest is the JSON carried in the "event" form field of
// POST /events/. Fields outside this struct are dropped.
type CreateEventRequest struct {
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Date        *domain.LocalTime `json:"date"`
	Location    *string           `json:"location"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PUT /events/{id}. All fields are
// optional; absent fields are left untouched. Fields outside this struct are
// dropped.
type UpdateEventRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Date        *domain.LocalTime `json:"date"`
	Location    *string           `json:"location"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	return errs
}

// EventSuccessResponse is the success response envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success response envelope for GET /events/ (200).
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CoverUploadSuccessResponse is the success response envelope for POST /events/upload-cover/ (201).
type CoverUploadSuccessResponse struct {
	Data  *domain.CoverUpload `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// EventController handles event CRUD and cover upload endpoints.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

// NewEventController creates an EventController with the given logger and service.
func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary Create an event
// @Description Create an event from a multipart form. The "event" field carries the event JSON (title required); an optional "file" field carries the cover image. Requires Bearer token.
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param event formData string true "Event JSON"
// @Param file formData file false "Cover image"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/ [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	raw := r.FormValue("event")
	if raw == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "event field is required")
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidateString(w, raw, &req) {
		return
	}

	cover, ok := c.formUpload(w, r, "file")
	if !ok {
		return
	}
	if cover != nil {
		defer cover.close()
	}

	input := domain.EventInput{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	}
	event, err := c.Service.Create(r.Context(), input, cover.upload())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// List godoc
// @Summary List events
// @Description List events ordered by id. Supports skip/limit paging and filtering by title substring and inclusive date bounds.
// @Tags events
// @Produce json
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Max rows to return" default(10)
// @Param title query string false "Case-insensitive title substring"
// @Param from query string false "Inclusive lower date bound"
// @Param to query string false "Inclusive upper date bound"
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/ [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	filter, err := helpers.ParseEventFilter(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	events, err := c.Service.List(r.Context(), filter)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// Get godoc
// @Summary Get an event
// @Description Returns a single event with its photo gallery.
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Update godoc
// @Summary Update an event
// @Description Partially update an event from a multipart form. The "event" field carries the fields to change; only title, description, date, and location are settable, and absent fields are left untouched. Requires Bearer token.
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param event formData string true "Event JSON with fields to update"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	raw := r.FormValue("event")
	if raw == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "event field is required")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidateString(w, raw, &req) {
		return
	}
	patch := domain.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	}
	event, err := c.Service.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Description Delete an event, its photo rows, and the backing files. Requires Bearer token.
// @Tags events
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204 "no content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadCover godoc
// @Summary Upload a standalone cover image
// @Description Store a cover image without attaching it to an event and return its public URL. Requires Bearer token.
// @Tags events
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Cover image"
// @Success 201 {object} controllers.CoverUploadSuccessResponse "data contains the stored filename and URL"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/upload-cover/ [post]
func (c *EventController) UploadCover(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	cover, ok := c.formUpload(w, r, "file")
	if !ok {
		return
	}
	if cover == nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "file field is required")
		return
	}
	defer cover.close()

	result, err := c.Service.UploadCover(*cover.upload())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// formFile is an open multipart file plus the upload built from it.
type formFile struct {
	file     io.ReadCloser
	filename string
}

func (f *formFile) upload() *domain.Upload {
	if f == nil {
		return nil
	}
	return &domain.Upload{Filename: f.filename, Content: f.file}
}

func (f *formFile) close() {
	_ = f.file.Close()
}

// formUpload fetches the named multipart file. A missing file is not an
// error: the first return is nil. Any other failure writes a 400 and returns
// ok=false.
func (c *EventController) formUpload(w http.ResponseWriter, r *http.Request, field string) (*formFile, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid file upload")
		return nil, false
	}
	return &formFile{file: file, filename: header.Filename}, true
}

// pathID parses the {id} path segment. On failure it writes a 400 and
// returns ok=false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	return pathInt64(w, r, "id")
}
