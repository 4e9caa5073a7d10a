// Package notes manages the local, newest-first collection of Notes.
package notes

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mrsingh-rishi/voice-notes/logging"
	"github.com/mrsingh-rishi/voice-notes/model"
)

// CreatedAtLayout renders createdAt as an ISO-8601 UTC timestamp with
// millisecond precision.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("note not found")

// ConfirmFunc asks the user whether note may be deleted.
type ConfirmFunc func(note model.Note) (bool, error)

// Draft is everything a caller supplies for a new Note. Id and creation
// time are assigned by the Book.
type Draft struct {
	Title         string
	ClientName    string
	Transcript    string
	Summary       string
	FollowUpItems []string
	AudioURL      string
}

// Book is the in-memory view of the stored collection. It is loaded once
// and every mutation rewrites the whole slot.
type Book struct {
	mu       sync.RWMutex
	storage  Storage
	items    []model.Note
	now      func() time.Time
	validate *validator.Validate
	logger   zerolog.Logger
}

// Option configures a Book.
type Option func(*Book)

// WithClock replaces time.Now, for deterministic ids in tests.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// Open reads the collection from storage.
func Open(storage Storage, opts ...Option) (*Book, error) {
	if storage == nil {
		return nil, errors.New("storage is required")
	}
	b := &Book{
		storage:  storage,
		now:      time.Now,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logging.Component("notes"),
	}
	for _, opt := range opts {
		opt(b)
	}

	items, err := storage.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load notes")
	}
	b.items = items
	return b, nil
}

// List returns a copy of the collection, newest first.
func (b *Book) List() []model.Note {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Note, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of notes.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// Get returns the note with id.
func (b *Book) Get(id string) (model.Note, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i := b.indexOf(id); i >= 0 {
		return b.items[i], nil
	}
	return model.Note{}, ErrNotFound
}

// Create builds a Note from d, puts it at the front of the collection and
// saves. On any error the collection is left unchanged.
func (b *Book) Create(d Draft) (model.Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now().UTC()
	items := d.FollowUpItems
	if items == nil {
		items = []string{}
	}
	note := model.Note{
		ID:            b.nextID(now),
		Title:         DeriveTitle(d.Title, d.Summary),
		ClientName:    strings.TrimSpace(d.ClientName),
		Transcript:    d.Transcript,
		Summary:       d.Summary,
		FollowUpItems: append([]string(nil), items...),
		CreatedAt:     now.Format(CreatedAtLayout),
		AudioURL:      d.AudioURL,
	}
	if err := b.validate.Struct(note); err != nil {
		return model.Note{}, errors.Wrap(err, "invalid note")
	}

	updated := make([]model.Note, 0, len(b.items)+1)
	updated = append(updated, note)
	updated = append(updated, b.items...)
	if err := b.storage.Save(updated); err != nil {
		return model.Note{}, errors.Wrap(err, "save notes")
	}
	b.items = updated

	b.logger.Info().Str("id", note.ID).Str("title", note.Title).Msg("note created")
	return note, nil
}

// Delete removes the note with id after confirm agrees. It reports whether
// a note was removed. An absent id or a declined confirmation changes
// nothing and does not touch storage. A nil confirm deletes unconditionally.
func (b *Book) Delete(id string, confirm ConfirmFunc) (bool, error) {
	b.mu.RLock()
	i := b.indexOf(id)
	var target model.Note
	if i >= 0 {
		target = b.items[i]
	}
	b.mu.RUnlock()
	if i < 0 {
		return false, nil
	}

	if confirm != nil {
		ok, err := confirm(target)
		if err != nil {
			return false, errors.Wrap(err, "confirm delete")
		}
		if !ok {
			return false, nil
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i = b.indexOf(id)
	if i < 0 {
		return false, nil
	}
	updated := make([]model.Note, 0, len(b.items)-1)
	updated = append(updated, b.items[:i]...)
	updated = append(updated, b.items[i+1:]...)
	if err := b.storage.Save(updated); err != nil {
		return false, errors.Wrap(err, "save notes")
	}
	b.items = updated

	b.logger.Info().Str("id", id).Msg("note deleted")
	return true, nil
}

func (b *Book) indexOf(id string) int {
	for i, n := range b.items {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// nextID is the creation time in milliseconds, bumped past the largest
// existing id so ids stay unique and increasing within the collection.
func (b *Book) nextID(now time.Time) string {
	id := now.UnixMilli()
	for _, n := range b.items {
		if v, err := strconv.ParseInt(n.ID, 10, 64); err == nil && v >= id {
			id = v + 1
		}
	}
	return strconv.FormatInt(id, 10)
}
