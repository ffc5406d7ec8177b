// Package size parses human-friendly byte-size strings ("64m", "2g"), the
// format cmd/snaptool accepts for its snapshot size cap flags.
package size

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a size string of the form <digits><unit>, where unit is one
// of b, k, m, g (1, 1<<10, 1<<20, 1<<30 bytes respectively), case
// insensitive.
func Parse(s string) (int64, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("size: invalid format %q", s)
	}
	sep := len(s) - 1
	digits, unit := s[:sep], s[sep:]

	var exponent uint32
	switch strings.ToLower(unit) {
	case "b":
		exponent = 0
	case "k":
		exponent = 10
	case "m":
		exponent = 20
	case "g":
		exponent = 30
	default:
		return 0, fmt.Errorf("size: invalid unit %q, only b/k/m/g allowed", unit)
	}

	n, err := strconv.ParseInt(digits, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("size: %w", err)
	}
	return n << exponent, nil
}
