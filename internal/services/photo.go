package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventgallery/internal/domain"
)

type photoService struct {
	photoRepo      domain.PhotoRepository
	eventRepo      domain.EventRepository
	files          domain.FileStore
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewPhotoService creates a PhotoService. Photo files and rows are created
// and destroyed together.
func NewPhotoService(photoRepo domain.PhotoRepository, eventRepo domain.EventRepository, files domain.FileStore, logger *slog.Logger, timeout time.Duration) domain.PhotoService {
	return &photoService{
		photoRepo:      photoRepo,
		eventRepo:      eventRepo,
		files:          files,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *photoService) Upload(ctx context.Context, eventID int64, upload domain.Upload) (*domain.Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	rel, err := s.files.Save(upload.Filename, upload.Content)
	if err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}
	photo := &domain.Photo{EventID: eventID, FileURL: rel}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		// Don't leave an orphaned file when the row insert fails.
		removeBackingFile(s.files, s.logger, rel)
		return nil, fmt.Errorf("create photo: %w", err)
	}
	return photo, nil
}

func (s *photoService) ListForEvent(ctx context.Context, eventID int64) ([]*domain.Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	photos, err := s.photoRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	// An empty gallery reads as not-found, mirroring the API's 404 contract
	// for events without photos.
	if len(photos) == 0 {
		return nil, domain.ErrNotFound
	}
	return photos, nil
}

func (s *photoService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get photo: %w", err)
	}
	if err := s.photoRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete photo: %w", err)
	}
	removeBackingFile(s.files, s.logger, photo.FileURL)
	return nil
}
