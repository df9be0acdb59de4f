package domain

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// Event is the primary content entity: a titled happening with an optional
// date, location, media links, and an owned photo gallery.
// swagger:model Event
type Event struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	Date          *LocalTime `json:"date"`
	Location      *string    `json:"location"`
	CoverImageURL *string    `json:"cover_image_url"`
	VideoURL      *string    `json:"video_url"`
	Photos        []*Photo   `json:"photos"`
}

// Photo is an image attached to an Event's gallery. FileURL is a
// storage-relative path under the static root.
// swagger:model Photo
type Photo struct {
	ID      int64  `json:"id"`
	EventID int64  `json:"event_id"`
	FileURL string `json:"file_url"`
}

// EventInput holds the client-settable fields for event creation. Anything
// else in the payload (id, cover, video, photos) is server-controlled and
// dropped before this struct is built.
type EventInput struct {
	Title       string
	Description *string
	Date        *LocalTime
	Location    *string
}

// EventPatch holds the client-settable fields for a partial update. Nil means
// "leave untouched".
type EventPatch struct {
	Title       *string
	Description *string
	Date        *LocalTime
	Location    *string
}

// EventFilter narrows an event listing. Title is a case-insensitive substring
// match; From/To are inclusive bounds on Date. All set filters combine with AND.
type EventFilter struct {
	Skip  int
	Limit int
	Title string
	From  *LocalTime
	To    *LocalTime
}

// Upload is a file attached to a request: the client-supplied name plus its bytes.
type Upload struct {
	Filename string
	Content  io.Reader
}

// CoverUpload is the result of a standalone cover upload.
// swagger:model CoverUpload
type CoverUpload struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// EventRepository defines the interface for event storage. GetByID and List
// return events with their Photos collection loaded.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	Update(ctx context.Context, id int64, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id int64) error
}

// PhotoRepository defines the interface for photo storage.
type PhotoRepository interface {
	Create(ctx context.Context, photo *Photo) error
	GetByID(ctx context.Context, id int64) (*Photo, error)
	ListByEventID(ctx context.Context, eventID int64) ([]*Photo, error)
	Delete(ctx context.Context, id int64) error
}

// FileStore persists uploaded files under the static root and returns
// storage-relative paths.
type FileStore interface {
	Save(filename string, content io.Reader) (relPath string, err error)
	Remove(relPath string) error
}

// EventService defines the business logic for events, including cover-image
// ingestion and rewriting storage-relative cover URLs to absolute ones.
type EventService interface {
	Create(ctx context.Context, input EventInput, cover *Upload) (*Event, error)
	Get(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	Update(ctx context.Context, id int64, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id int64) error
	UploadCover(upload Upload) (*CoverUpload, error)
}

// PhotoService defines the business logic for an event's photo gallery. A
// photo's backing file and its row are created and destroyed together.
type PhotoService interface {
	Upload(ctx context.Context, eventID int64, upload Upload) (*Photo, error)
	ListForEvent(ctx context.Context, eventID int64) ([]*Photo, error)
	Delete(ctx context.Context, id int64) error
}
