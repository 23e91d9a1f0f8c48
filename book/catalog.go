package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/util"
	"github.com/keypoint-cli/keypoint/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
)

// Format is a catalog encoding.
type Format string

const (
	TOML Format = "toml"
	JSON Format = "json"
)

// Formats lists the supported catalog encodings.
var Formats = []Format{TOML, JSON}

// ErrNotFound is returned when no catalog matches a query.
var ErrNotFound = errors.New("book not found")

// FormatOf infers the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q", filepath.Ext(path))
	}
}

// Decode parses and validates a catalog.
func Decode(data []byte, format Format) (*Book, error) {
	var b Book

	var err error
	switch format {
	case TOML:
		err = toml.Unmarshal(data, &b)
	case JSON:
		err = json.Unmarshal(data, &b)
	default:
		err = fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	return &b, nil
}

// Encode serializes b in the given format.
func Encode(b *Book, format Format) ([]byte, error) {
	switch format {
	case TOML:
		return toml.Marshal(b)
	case JSON:
		return json.MarshalIndent(b, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

// Load reads a catalog file through the application filesystem.
func Load(path string) (*Book, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, err
	}

	b, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Entry is a catalog found in the library.
type Entry struct {
	Path string
	Book *Book
}

// List returns every valid catalog in the library directory, sorted by title.
// Invalid catalogs are skipped.
func List() ([]*Entry, error) {
	dir := where.Library()
	library := filesystem.Within(dir)

	var entries []*Entry
	err := library.Walk("/", func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, err := FormatOf(path); err != nil {
			return nil
		}

		full := filepath.Join(dir, path)
		b, err := Load(full)
		if err != nil {
			log.Warnf("skipping catalog %s: %v", full, err)
			return nil
		}

		entries = append(entries, &Entry{Path: full, Book: b})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Book.Name()) < strings.ToLower(entries[j].Book.Name())
	})

	return entries, nil
}

// Find resolves query to a catalog: an existing file path is loaded as is,
// anything else is fuzzy matched against library titles and file names.
func Find(query string) (*Entry, error) {
	if exists, _ := filesystem.API().Exists(query); exists {
		b, err := Load(query)
		if err != nil {
			return nil, err
		}
		return &Entry{Path: query, Book: b}, nil
	}

	entries, err := List()
	if err != nil {
		return nil, err
	}

	targets := lo.Map(entries, func(e *Entry, _ int) string {
		return e.Book.Name() + " " + util.FileStem(e.Path)
	})

	ranks := fuzzy.RankFindFold(query, targets)
	if len(ranks) == 0 {
		return nil, fmt.Errorf("%q: %w", query, ErrNotFound)
	}

	sort.Sort(ranks)
	return entries[ranks[0].OriginalIndex], nil
}
