// Package version checks for newer releases.
package version

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// parse splits "v1.2.3-rc1" into its numeric parts. Missing parts are zero,
// pre-release and build suffixes are ignored.
func parse(s string) ([3]int, error) {
	var parts [3]int

	core, _, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(s), "v"), "-")
	core, _, _ = strings.Cut(core, "+")

	fields := strings.Split(core, ".")
	if len(fields) > len(parts) {
		return parts, fmt.Errorf("malformed version %q", s)
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return parts, fmt.Errorf("malformed version %q", s)
		}
		parts[i] = n
	}
	return parts, nil
}

// Compare returns 1 when a is newer than b, -1 when older and 0 when equal.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}
	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := range av {
		if c := cmp.Compare(av[i], bv[i]); c != 0 {
			return c, nil
		}
	}
	return 0, nil
}
