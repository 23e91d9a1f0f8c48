// Package util holds helpers shared by the CLI and the TUI.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/samber/lo"
	"golang.org/x/term"
)

var (
	unsafeChars = regexp.MustCompile(`[\\/<>:;"'|?!*{}#%&^+,~\s]+`)
	edgeChars   = regexp.MustCompile(`^[_\-.]+|[_\-.]+$`)
)

// SanitizeFilename turns a book title into a file name every platform accepts.
func SanitizeFilename(name string) string {
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Join(lo.Compact(strings.Split(name, "_")), "_")
	return edgeChars.ReplaceAllString(name, "")
}

// Quantify pairs count with the matching noun, e.g. "1 key point".
func Quantify(count int, singular, plural string) string {
	return fmt.Sprintf("%d %s", count, lo.Ternary(count == 1, singular, plural))
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FileStem is the base name of path without its extension.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FormatDuration renders d as m:ss, or h:mm:ss past the hour.
// Negative durations render as zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	h, m, sec := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// PrintErasable writes msg on the current line. The returned func blanks it.
func PrintErasable(msg string) (erase func()) {
	fmt.Print("\r" + msg)
	return func() {
		fmt.Print("\r" + strings.Repeat(" ", utf8.RuneCountInString(msg)) + "\r")
	}
}

// Ignore calls f and drops its error, for deferred Close calls.
func Ignore(f func() error) {
	_ = f()
}

// Delete removes path, recursively when it is a directory.
func Delete(path string) error {
	return filesystem.API().RemoveAll(path)
}
