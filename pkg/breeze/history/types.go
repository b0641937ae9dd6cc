package history

import "time"

// OperationType identifies what kind of operation an entry records.
type OperationType string

// Recorded operation kinds.
const (
	OpUpload     OperationType = "upload"
	OpMenuUpdate OperationType = "menu-update"
	OpMusic      OperationType = "music"
	OpRTC        OperationType = "rtc"
)

// Record is one transferred (or attempted) file within an operation.
type Record struct {
	// Name is the file's base name.
	Name string `json:"name"`

	// Source is the local path the file came from, if any.
	Source string `json:"source,omitempty"`

	// Dest is the remote destination path, if any.
	Dest string `json:"dest,omitempty"`

	// Size is the file size in bytes.
	Size int64 `json:"size,omitempty"`

	// Error holds the failure message for items that did not succeed.
	Error string `json:"error,omitempty"`
}

// Summary aggregates an entry's records.
type Summary struct {
	// Total is the number of records in the entry.
	Total int `json:"total"`

	// Failed is the number of records that carry an error.
	Failed int `json:"failed"`

	// Bytes is the sum of all record sizes.
	Bytes int64 `json:"bytes"`
}

// Entry is one journaled operation.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`
	Records   []Record      `json:"records"`
	Summary   Summary       `json:"summary"`
}
