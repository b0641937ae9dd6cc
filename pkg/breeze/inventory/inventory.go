// Package inventory enumerates local candidate files for transfer:
// ROMs, menu images, and menu music. Listings are re-enumerated on
// every command and never cached.
package inventory

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/dustin/go-humanize"
)

// Format is the byte-order hint derived from a ROM file's extension.
// It is a hint only: the file's bytes are not validated against it.
type Format int

// Known formats.
const (
	FormatUnknown      Format = iota
	FormatBigEndian           // .z64
	FormatLittleEndian        // .n64
	FormatByteSwapped         // .v64
	FormatAudio               // .mp3
)

// String returns a short human-readable format name.
func (f Format) String() string {
	switch f {
	case FormatBigEndian:
		return "big-endian"
	case FormatLittleEndian:
		return "little-endian"
	case FormatByteSwapped:
		return "byte-swapped"
	case FormatAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// romFormats maps ROM extensions to their byte-order hint.
var romFormats = map[string]Format{
	".z64": FormatBigEndian,
	".n64": FormatLittleEndian,
	".v64": FormatByteSwapped,
}

// musicExtension is the only recognized menu music format.
const musicExtension = ".mp3"

// DetectFormat returns the format hint for a file name.
func DetectFormat(name string) Format {
	ext := strings.ToLower(filepath.Ext(name))
	if f, ok := romFormats[ext]; ok {
		return f
	}
	if ext == musicExtension {
		return FormatAudio
	}
	return FormatUnknown
}

// IsROM reports whether the file name has a recognized ROM extension.
func IsROM(name string) bool {
	_, ok := romFormats[strings.ToLower(filepath.Ext(name))]
	return ok
}

// LocalFile describes one local transfer candidate.
type LocalFile struct {
	// Name is the base file name.
	Name string

	// Path is the absolute local path.
	Path string

	// Size is the file size in bytes.
	Size int64

	// Format is the extension-derived format hint.
	Format Format
}

// HumanSize returns the size formatted with binary (IEC) units.
func (f LocalFile) HumanSize() string {
	return humanize.IBytes(uint64(f.Size))
}

// ListROMs walks the ROM directory recursively and returns all files
// with a recognized ROM extension, sorted case-insensitively by name.
// A missing directory yields an empty listing, not an error.
func ListROMs(dir string) ([]LocalFile, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var (
		mu    sync.Mutex
		files []LocalFile
	)

	conf := fastwalk.Config{
		Follow: false, // don't follow symlinks
	}

	err := fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, matching the tolerant
			// posture of the rest of the listing pipeline.
			return nil
		}
		if d.IsDir() || !IsROM(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}

		mu.Lock()
		files = append(files, LocalFile{
			Name:   d.Name(),
			Path:   abs,
			Size:   info.Size(),
			Format: DetectFormat(d.Name()),
		})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortByName(files)
	return files, nil
}

// ListMenuImages returns the menu image candidates in the menu versions
// directory. The listing is flat: menu builds don't nest.
func ListMenuImages(dir string) ([]LocalFile, error) {
	return listFlat(dir, IsROM)
}

// ListMusic returns the MP3 candidates in the menu music directory.
func ListMusic(dir string) ([]LocalFile, error) {
	return listFlat(dir, func(name string) bool {
		return strings.ToLower(filepath.Ext(name)) == musicExtension
	})
}

// listFlat enumerates a single directory non-recursively, keeping files
// that pass the extension filter.
func listFlat(dir string, keep func(name string) bool) ([]LocalFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []LocalFile
	for _, entry := range entries {
		if entry.IsDir() || !keep(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(dir, entry.Name()))
		if err != nil {
			abs = filepath.Join(dir, entry.Name())
		}
		files = append(files, LocalFile{
			Name:   entry.Name(),
			Path:   abs,
			Size:   info.Size(),
			Format: DetectFormat(entry.Name()),
		})
	}

	sortByName(files)
	return files, nil
}

// sortByName orders files case-insensitively by base name.
func sortByName(files []LocalFile) {
	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i].Name) < strings.ToLower(files[j].Name)
	})
}
