// Package parser converts sc64deployer textual output into structured
// records. Parsing is line-oriented and deliberately tolerant: one
// unexpected line (a firmware banner, a locale oddity) must never abort
// an otherwise valid listing, so unrecognized lines are skipped and
// counted instead of failing the parse.
package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse indicates the stream as a whole matched none of the expected
// patterns, for example empty input where a listing was expected.
var ErrParse = errors.New("unrecognized deployer output")

// LineKind classifies one line of listing output.
type LineKind int

// Listing line variants.
const (
	LineUnrecognized LineKind = iota
	LineDirectory
	LineFile
)

// Entry is one parsed listing line: a file or directory with its
// indentation depth. Paths are reconstructed later by the tree builder.
type Entry struct {
	Kind    LineKind
	Name    string
	Size    int64
	HasSize bool
	Depth   int
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Kind == LineDirectory
}

// Listing is the result of parsing one `sd ls` output stream.
type Listing struct {
	Entries []Entry

	// Skipped counts lines that matched no expected pattern.
	Skipped int
}

// indentWidth is the number of spaces per nesting level in recursive
// listing output. Flat single-directory listings are all depth zero.
const indentWidth = 2

// ParseListing parses `sd ls` output. Listing lines have the shape
//
//	d ---- 2024-06-01 12:00:00 | menu
//	f  32M 2025-12-01 19:03:12 | game.z64
//
// with optional leading indentation marking nesting depth. Blank and
// unrecognized lines are skipped. ErrParse is returned only when no line
// in the stream parsed as a listing entry.
func ParseListing(stdout string) (Listing, error) {
	var listing Listing

	for _, raw := range strings.Split(stdout, "\n") {
		line := strings.TrimRight(raw, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, ok := parseLine(line)
		if !ok {
			listing.Skipped++
			continue
		}
		listing.Entries = append(listing.Entries, entry)
	}

	if len(listing.Entries) == 0 {
		return listing, fmt.Errorf("%w: no listing entries in %d line(s)", ErrParse, listing.Skipped)
	}
	return listing, nil
}

// parseLine classifies a single listing line into a tagged variant.
func parseLine(line string) (Entry, bool) {
	indent := len(line) - len(strings.TrimLeft(line, " "))
	trimmed := line[indent:]

	meta, name, found := strings.Cut(trimmed, "|")
	if !found {
		return Entry{}, false
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, false
	}
	// Root listings report directories as "/menu"; the tree builder owns
	// path reconstruction, so entries carry bare names.
	name = strings.TrimPrefix(name, "/")

	fields := strings.Fields(meta)
	if len(fields) == 0 {
		return Entry{}, false
	}

	var kind LineKind
	switch fields[0] {
	case "d":
		kind = LineDirectory
	case "f":
		kind = LineFile
	default:
		return Entry{}, false
	}

	entry := Entry{
		Kind:  kind,
		Name:  name,
		Depth: indent / indentWidth,
	}

	if kind == LineFile && len(fields) >= 2 {
		if size, ok := parseEntrySize(fields[1]); ok {
			entry.Size = size
			entry.HasSize = true
		}
	}

	return entry, true
}

// HasListing reports whether stdout looks like listing output at all.
// The status command uses it to probe SD card accessibility without
// caring about the actual entries.
func HasListing(stdout string) bool {
	return strings.Contains(stdout, "|")
}
