// Package history remembers where the listener stopped in every book.
package history

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/keypoint-cli/keypoint/book"
	"github.com/keypoint-cli/keypoint/internal/cache"
	"github.com/keypoint-cli/keypoint/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Record is the last key point reached in a book.
type Record struct {
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Index     int       `json:"index"`
	Total     int       `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r Record) String() string {
	return fmt.Sprintf("%s : %d / %d", r.Title, r.Index+1, r.Total)
}

var cacher *cache.Keyed[string, Record]

func records() *cache.Keyed[string, Record] {
	if cacher == nil {
		cacher = cache.New[string, Record](where.History(), 0)
	}
	return cacher
}

func encode(b *book.Book, source string) string {
	if source != "" {
		return source
	}
	return b.Name()
}

// Save stores index as the last key point of b. source identifies the
// catalog the book was loaded from and may be empty for built-in books.
func Save(b *book.Book, source string, index int) error {
	if !b.Contains(index) {
		return fmt.Errorf("index %d out of range for %s", index, b)
	}

	return records().Set(encode(b, source), Record{
		Title:     b.Name(),
		Source:    source,
		Index:     index,
		Total:     b.Len(),
		UpdatedAt: time.Now(),
	})
}

// Last returns the remembered index for b when it is still valid.
func Last(b *book.Book, source string) mo.Option[int] {
	record, ok := records().Get(encode(b, source)).Get()
	if !ok || !b.Contains(record.Index) {
		return mo.None[int]()
	}
	return mo.Some(record.Index)
}

// Get returns every record, most recent first.
func Get() ([]Record, error) {
	all, err := records().All()
	if err != nil {
		return nil, err
	}

	list := lo.Values(all)
	sort.Slice(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list, nil
}

// Remove forgets b.
func Remove(b *book.Book, source string) error {
	return records().Delete(encode(b, source))
}

// Clear forgets every book.
func Clear() error {
	return records().Clear()
}

// ErrEmpty is returned by Resume when nothing was listened to yet.
var ErrEmpty = errors.New("history is empty")

// Resume loads the most recently listened book and its remembered index.
// Records without a source refer to the built-in sample.
func Resume() (*book.Entry, int, error) {
	list, err := Get()
	if err != nil {
		return nil, 0, err
	}
	if len(list) == 0 {
		return nil, 0, ErrEmpty
	}

	record := list[0]

	var b *book.Book
	if record.Source == "" {
		b = book.Sample()
		if b.Name() != record.Title {
			return nil, 0, fmt.Errorf("%s: %w", record.Title, book.ErrNotFound)
		}
	} else if b, err = book.Load(record.Source); err != nil {
		return nil, 0, err
	}

	return &book.Entry{Path: record.Source, Book: b}, Last(b, record.Source).OrElse(0), nil
}
