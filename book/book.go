// Package book models book summaries as ordered, narrated key points.
package book

import (
	"errors"
	"fmt"

	"github.com/keypoint-cli/keypoint/media"
	"github.com/samber/mo"
)

// ErrNoKeyPoints is returned for books without any key point.
var ErrNoKeyPoints = errors.New("book has no key points")

// KeyPoint is one narrated takeaway of a book.
type KeyPoint struct {
	Text  string `json:"text" toml:"text" jsonschema:"description=Short text shown while the key point plays"`
	Audio string `json:"audio" toml:"audio" jsonschema:"description=URL or local path of the narration"`
}

// Media resolves the key point's audio locator. Malformed locators yield None.
func (k KeyPoint) Media() mo.Option[media.Reference] {
	return media.Resolve(k.Audio)
}

// Book is an immutable book summary.
type Book struct {
	Title     string     `json:"title" toml:"title" jsonschema:"description=Book title"`
	Author    string     `json:"author,omitempty" toml:"author,omitempty"`
	Cover     string     `json:"cover,omitempty" toml:"cover,omitempty" jsonschema:"description=URL or path of the cover image"`
	KeyPoints []KeyPoint `json:"key_points" toml:"key_points" jsonschema:"minItems=1"`
}

// Validate checks the non-empty key point invariant.
func (b *Book) Validate() error {
	if len(b.KeyPoints) == 0 {
		if b.Title != "" {
			return fmt.Errorf("%s: %w", b.Title, ErrNoKeyPoints)
		}
		return ErrNoKeyPoints
	}
	return nil
}

// Len is the number of key points.
func (b *Book) Len() int {
	return len(b.KeyPoints)
}

// Contains reports whether i is a valid key point index.
func (b *Book) Contains(i int) bool {
	return i >= 0 && i < len(b.KeyPoints)
}

// At returns the key point at i. It panics when i is out of range.
func (b *Book) At(i int) KeyPoint {
	return b.KeyPoints[i]
}

// Name is the title, or a placeholder for untitled books.
func (b *Book) Name() string {
	if b.Title == "" {
		return "Untitled"
	}
	return b.Title
}

func (b *Book) String() string {
	return fmt.Sprintf("%s (%d key points)", b.Name(), b.Len())
}
