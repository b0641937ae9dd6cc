package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Size multipliers for the units the deployer emits.
const (
	kib int64 = 1024
	mib int64 = 1024 * kib
	gib int64 = 1024 * mib
	tib int64 = 1024 * gib
)

// noSize is the placeholder the deployer prints where a size does not
// apply, typically for directories.
const noSize = "----"

// entrySizePattern matches raw byte counts ("1024") and human-readable
// sizes ("32M", "1.5G", "512K", optionally with a B suffix).
var entrySizePattern = regexp.MustCompile(`(?i)^([0-9]+(?:\.[0-9]+)?)([KMGT]?B?)$`)

// parseEntrySize normalizes a listing size field to raw bytes.
// It returns false for the no-size placeholder and for anything that
// does not look like a size, leaving the entry valid but sizeless.
func parseEntrySize(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == noSize {
		return 0, false
	}

	matches := entrySizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, false
	}

	suffix := strings.TrimSuffix(strings.ToUpper(matches[2]), "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = kib
	case "M":
		multiplier = mib
	case "G":
		multiplier = gib
	case "T":
		multiplier = tib
	default:
		return 0, false
	}

	return int64(value * float64(multiplier)), true
}
