package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"eventgallery/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	files          domain.FileStore
	baseURL        string
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService creates an EventService. baseURL is the external address of
// the service, used to rewrite storage-relative cover paths for clients.
func NewEventService(eventRepo domain.EventRepository, files domain.FileStore, baseURL string, logger *slog.Logger, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		files:          files,
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, input domain.EventInput, cover *domain.Upload) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event := &domain.Event{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Location:    input.Location,
	}
	if cover != nil {
		rel, err := s.files.Save(cover.Filename, cover.Content)
		if err != nil {
			return nil, fmt.Errorf("save cover image: %w", err)
		}
		event.CoverImageURL = &rel
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		// Don't leave an orphaned cover file when the row insert fails.
		if event.CoverImageURL != nil {
			removeBackingFile(s.files, s.logger, *event.CoverImageURL)
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	// Re-fetch so the response carries the photos collection like every
	// other read path.
	created, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("reload event: %w", err)
	}
	s.materializeCoverURL(created)
	return created, nil
}

func (s *eventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	s.materializeCoverURL(event)
	return event, nil
}

func (s *eventService) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	for _, e := range events {
		s.materializeCoverURL(e)
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, id int64, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	updated, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload event: %w", err)
	}
	s.materializeCoverURL(updated)
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Fetch first: the photo paths are needed for file cleanup and are gone
	// from the database once the cascade fires.
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	for _, p := range event.Photos {
		removeBackingFile(s.files, s.logger, p.FileURL)
	}
	return nil
}

func (s *eventService) UploadCover(upload domain.Upload) (*domain.CoverUpload, error) {
	rel, err := s.files.Save(upload.Filename, upload.Content)
	if err != nil {
		return nil, fmt.Errorf("save cover image: %w", err)
	}
	return &domain.CoverUpload{
		Filename: path.Base(rel),
		URL:      s.baseURL + rel,
	}, nil
}

// materializeCoverURL rewrites a storage-relative cover path to an absolute
// URL. Values already starting with "http" pass through untouched.
func (s *eventService) materializeCoverURL(e *domain.Event) {
	if e.CoverImageURL == nil || strings.HasPrefix(*e.CoverImageURL, "http") {
		return
	}
	full := s.baseURL + *e.CoverImageURL
	e.CoverImageURL = &full
}

// removeBackingFile deletes an uploaded file after its row is gone. The row is
// the source of truth: a file that is already absent gets a warning, any other
// removal failure an error, and neither aborts the caller.
func removeBackingFile(files domain.FileStore, logger *slog.Logger, relPath string) {
	if err := files.Remove(relPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("backing file already absent", "path", relPath)
			return
		}
		logger.Error("failed to remove backing file", "path", relPath, "err", err)
	}
}
