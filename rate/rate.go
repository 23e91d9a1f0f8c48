// Package rate models the fixed, cyclic set of playback speed multipliers.
package rate

import (
	"fmt"
	"strconv"
	"strings"
)

// Rate is a playback speed multiplier. The zero value is Normal.
type Rate int

const (
	Half Rate = iota - 2
	ThreeQuarters
	Normal
	OneAndAQuarter
	OneAndAHalf
	OneAndThreeQuarters
	Double
)

var multipliers = [...]float64{0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}

// All returns every rate in cycle order.
func All() []Rate {
	return []Rate{Half, ThreeQuarters, Normal, OneAndAQuarter, OneAndAHalf, OneAndThreeQuarters, Double}
}

func (r Rate) index() int {
	return int(r - Half)
}

// Valid reports whether r is one of the supported rates.
func (r Rate) Valid() bool {
	return r >= Half && r <= Double
}

// Next returns the successor of r, wrapping from Double back to Half.
func (r Rate) Next() Rate {
	if !r.Valid() {
		return Normal
	}
	return Half + Rate((r.index()+1)%len(multipliers))
}

// Multiplier is the speed factor applied to the transport.
func (r Rate) Multiplier() float64 {
	if !r.Valid() {
		return 1
	}
	return multipliers[r.index()]
}

// String is the display form, e.g. "0.5", "1", "1.75".
func (r Rate) String() string {
	return strconv.FormatFloat(r.Multiplier(), 'f', -1, 64)
}

// Parse accepts display forms with an optional "x" prefix or suffix.
func Parse(s string) (Rate, error) {
	trimmed := strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "xX"))
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Normal, fmt.Errorf("invalid playback rate %q", s)
	}

	for _, r := range All() {
		if r.Multiplier() == f {
			return r, nil
		}
	}

	return Normal, fmt.Errorf("unsupported playback rate %q", s)
}
