package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventgallery/internal/domain"
)

type photoRepository struct {
	DB *sql.DB
}

func NewPhotoRepository(db *sql.DB) domain.PhotoRepository {
	return &photoRepository{DB: db}
}

func (r *photoRepository) Create(ctx context.Context, p *domain.Photo) error {
	query := `
		INSERT INTO photos (event_id, file_url)
		VALUES ($1, $2)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, p.EventID, p.FileURL).Scan(&p.ID)
}

func (r *photoRepository) GetByID(ctx context.Context, id int64) (*domain.Photo, error) {
	query := `SELECT id, event_id, file_url FROM photos WHERE id = $1`
	p := &domain.Photo{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.EventID, &p.FileURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *photoRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Photo, error) {
	query := `SELECT id, event_id, file_url FROM photos WHERE event_id = $1 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	photos := make([]*domain.Photo, 0)
	for rows.Next() {
		p := &domain.Photo{}
		if err := rows.Scan(&p.ID, &p.EventID, &p.FileURL); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (r *photoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
