// Package media resolves key point audio locators into playable references.
package media

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/samber/mo"
)

// Reference is a resolved, playable media locator.
type Reference struct {
	url *url.URL
}

// URL returns a copy of the underlying URL.
func (r Reference) URL() *url.URL {
	u := *r.url
	return &u
}

// Remote reports whether the media is fetched over HTTP.
func (r Reference) Remote() bool {
	return r.url.Scheme == "http" || r.url.Scheme == "https"
}

// Path returns the local file path of a file reference.
func (r Reference) Path() string {
	return filepath.FromSlash(r.url.Path)
}

// Target is the argument handed to media players: the URL for remote media
// and the file path for local media.
func (r Reference) Target() string {
	if r.Remote() {
		return r.url.String()
	}
	return r.Path()
}

// Ext is the lowercase file extension of the media, e.g. ".mp3".
func (r Reference) Ext() string {
	return strings.ToLower(filepath.Ext(r.url.Path))
}

func (r Reference) String() string {
	return r.url.String()
}

// Equal compares references by their canonical URL.
func (r Reference) Equal(other Reference) bool {
	return r.url.String() == other.url.String()
}

var errEmpty = errors.New("empty locator")

// Parse resolves a locator. Accepted forms are http(s) URLs, file URLs and
// local paths (made absolute). Anything else is an error.
func Parse(locator string) (Reference, error) {
	l := strings.TrimSpace(locator)
	if l == "" {
		return Reference{}, errEmpty
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return Reference{}, fmt.Errorf("invalid control characters in %q", l)
	}

	// players take their input on the command line
	if strings.HasPrefix(l, "-") {
		return Reference{}, fmt.Errorf("locator must not start with '-': %q", l)
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return Reference{}, fmt.Errorf("invalid URL: %w", err)
		}

		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			if u.Host == "" {
				return Reference{}, fmt.Errorf("missing host in %q", l)
			}
		case "file":
			if u.Path == "" {
				return Reference{}, fmt.Errorf("missing path in %q", l)
			}
		default:
			return Reference{}, fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}

		u.Scheme = strings.ToLower(u.Scheme)
		return Reference{url: u}, nil
	}

	abs, err := filepath.Abs(l)
	if err != nil {
		return Reference{}, err
	}

	return Reference{url: &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}}, nil
}

// Resolve is Parse with failures folded into "no media".
func Resolve(locator string) mo.Option[Reference] {
	ref, err := Parse(locator)
	if err != nil {
		return mo.None[Reference]()
	}
	return mo.Some(ref)
}
