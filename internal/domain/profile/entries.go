package profile

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Entry is an element of an ordered sub-collection with a generated identity.
type Entry[T any] interface {
	EntryID() uuid.UUID
	WithID(id uuid.UUID) T
}

// Entries is an ordered sub-collection, most recently added first.
type Entries[T Entry[T]] []T

// IndexOf returns the position of the entry with id, or -1.
func (es Entries[T]) IndexOf(id uuid.UUID) int {
	for i, e := range es {
		if e.EntryID() == id {
			return i
		}
	}
	return -1
}

// InsertFront assigns e an id not used in es and places it at position 0.
// The receiver is not modified.
func (es Entries[T]) InsertFront(e T, newID func() uuid.UUID) Entries[T] {
	id := newID()
	for id == uuid.Nil || es.IndexOf(id) >= 0 {
		id = newID()
	}
	out := make(Entries[T], 0, len(es)+1)
	out = append(out, e.WithID(id))
	return append(out, es...)
}

// RemoveByID drops the entry with id, keeping the order of the rest. When no
// entry matches, es is returned unchanged and removed is false.
func (es Entries[T]) RemoveByID(id uuid.UUID) (out Entries[T], removed bool) {
	i := es.IndexOf(id)
	if i < 0 {
		return es, false
	}
	out = make(Entries[T], 0, len(es)-1)
	out = append(out, es[:i]...)
	return append(out, es[i+1:]...), true
}

type Experience struct {
	ID          uuid.UUID  `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

func (e Experience) EntryID() uuid.UUID { return e.ID }

func (e Experience) WithID(id uuid.UUID) Experience {
	e.ID = id
	return e
}

func (e Experience) Validate() error {
	var errs []error
	if e.Title == "" {
		errs = append(errs, errors.New("Title is required"))
	}
	if e.Company == "" {
		errs = append(errs, errors.New("Company is required"))
	}
	if e.From.IsZero() {
		errs = append(errs, errors.New("From date is required"))
	}
	return errors.Join(errs...)
}

type Education struct {
	ID           uuid.UUID  `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

func (e Education) EntryID() uuid.UUID { return e.ID }

func (e Education) WithID(id uuid.UUID) Education {
	e.ID = id
	return e
}

func (e Education) Validate() error {
	var errs []error
	if e.School == "" {
		errs = append(errs, errors.New("School name is required"))
	}
	if e.Degree == "" {
		errs = append(errs, errors.New("Degree type is required"))
	}
	if e.FieldOfStudy == "" {
		errs = append(errs, errors.New("Field of study is required"))
	}
	if e.From.IsZero() {
		errs = append(errs, errors.New("From date is required"))
	}
	return errors.Join(errs...)
}
