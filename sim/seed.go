package sim

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ParseSeed accepts a decimal seed or any phrase. Phrases hash to a stable
// seed; the empty string is 0.
func ParseSeed(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return int64(xxhash.Sum64String(s))
}
