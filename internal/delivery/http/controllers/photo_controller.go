package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"eventgallery/internal/delivery/http/helpers"
	"eventgallery/internal/domain"
)

// PhotoSuccessResponse is the success response envelope for POST /photos/upload/{event_id} (201).
type PhotoSuccessResponse struct {
	Data  *domain.Photo     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PhotoListSuccessResponse is the success response envelope for GET /photos/events/{event_id}/photos (200).
type PhotoListSuccessResponse struct {
	Data  []*domain.Photo   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PhotoController handles photo gallery endpoints.
type PhotoController struct {
	Logger  *slog.Logger
	Service domain.PhotoService
}

// NewPhotoController creates a PhotoController with the given logger and service.
func NewPhotoController(logger *slog.Logger, svc domain.PhotoService) *PhotoController {
	return &PhotoController{
		Logger:  logger,
		Service: svc,
	}
}

// Upload godoc
// @Summary Upload a photo to an event's gallery
// @Description Store the image under the static root and attach it to the event. Requires Bearer token.
// @Tags photos
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param event_id path int true "Event ID"
// @Param file formData file true "Image"
// @Success 201 {object} controllers.PhotoSuccessResponse "data contains the created photo"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /photos/upload/{event_id} [post]
func (c *PhotoController) Upload(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathInt64(w, r, "event_id")
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "file field is required")
		return
	}
	defer file.Close()

	photo, err := c.Service.Upload(r.Context(), eventID, domain.Upload{Filename: header.Filename, Content: file})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, photo)
}

// ListForEvent godoc
// @Summary List an event's photos
// @Description Returns the event's gallery. An event with no photos is a 404.
// @Tags photos
// @Produce json
// @Param event_id path int true "Event ID"
// @Success 200 {object} controllers.PhotoListSuccessResponse "data contains the photos"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /photos/events/{event_id}/photos [get]
func (c *PhotoController) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathInt64(w, r, "event_id")
	if !ok {
		return
	}
	photos, err := c.Service.ListForEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no photos found for this event")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, photos)
}

// Delete godoc
// @Summary Delete a photo
// @Description Delete a photo row and its backing file. Requires Bearer token.
// @Tags photos
// @Security BearerAuth
// @Param photo_id path int true "Photo ID"
// @Success 204 "no content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /photos/{photo_id} [delete]
func (c *PhotoController) Delete(w http.ResponseWriter, r *http.Request) {
	photoID, ok := pathInt64(w, r, "photo_id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), photoID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "photo not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathInt64 parses a named integer path segment. On failure it writes a 400
// and returns ok=false.
func pathInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || v < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}
