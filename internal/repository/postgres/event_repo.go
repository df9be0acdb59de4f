package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventgallery/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = "id, title, description, date, location, cover_image_url, video_url"

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, location, cover_image_url, video_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, nullString(e.Description), nullLocalTime(e.Date),
		nullString(e.Location), nullString(e.CoverImageURL), nullString(e.VideoURL),
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	photosByEvent, err := r.loadPhotos(ctx, []int64{e.ID})
	if err != nil {
		return nil, err
	}
	e.Photos = photosByEvent[e.ID]
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, f domain.EventFilter) ([]*domain.Event, error) {
	where := []string{}
	args := []interface{}{}
	n := 1
	if f.Title != "" {
		where = append(where, fmt.Sprintf("title ILIKE $%d", n))
		args = append(args, "%"+f.Title+"%")
		n++
	}
	if f.From != nil {
		where = append(where, fmt.Sprintf("date >= $%d", n))
		args = append(args, f.From.Time)
		n++
	}
	if f.To != nil {
		where = append(where, fmt.Sprintf("date <= $%d", n))
		args = append(args, f.To.Time)
		n++
	}
	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY id OFFSET $%d LIMIT $%d", n, n+1)
	args = append(args, f.Skip, f.Limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// One batched query for every listed event's gallery, never one per event.
	photosByEvent, err := r.loadPhotos(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		e.Photos = photosByEvent[e.ID]
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, id int64, patch domain.EventPatch) (*domain.Event, error) {
	setClauses := []string{}
	args := []interface{}{}
	n := 1
	if patch.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *patch.Title)
		n++
	}
	if patch.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *patch.Description)
		n++
	}
	if patch.Date != nil {
		setClauses = append(setClauses, fmt.Sprintf("date = $%d", n))
		args = append(args, patch.Date.Time)
		n++
	}
	if patch.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", n))
		args = append(args, *patch.Location)
		n++
	}
	if len(setClauses) == 0 {
		// Nothing to update; just fetch the current row.
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING `+eventColumns,
		strings.Join(setClauses, ", "), n)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	// Photo rows go with the event via ON DELETE CASCADE.
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) loadPhotos(ctx context.Context, eventIDs []int64) (map[int64][]*domain.Photo, error) {
	byEvent := make(map[int64][]*domain.Photo, len(eventIDs))
	if len(eventIDs) == 0 {
		return byEvent, nil
	}
	query := `SELECT id, event_id, file_url FROM photos WHERE event_id = ANY($1) ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p := &domain.Photo{}
		if err := rows.Scan(&p.ID, &p.EventID, &p.FileURL); err != nil {
			return nil, err
		}
		byEvent[p.EventID] = append(byEvent[p.EventID], p)
	}
	return byEvent, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{Photos: []*domain.Photo{}}
	var descNull, locNull, coverNull, videoNull sql.NullString
	var dateNull sql.NullTime
	err := row.Scan(&e.ID, &e.Title, &descNull, &dateNull, &locNull, &coverNull, &videoNull)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	if dateNull.Valid {
		d := domain.NewLocalTime(dateNull.Time)
		e.Date = &d
	}
	if locNull.Valid {
		e.Location = &locNull.String
	}
	if coverNull.Valid {
		e.CoverImageURL = &coverNull.String
	}
	if videoNull.Valid {
		e.VideoURL = &videoNull.String
	}
	return e, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullLocalTime(t *domain.LocalTime) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.Time, Valid: true}
}
