package output

import (
	"github.com/breeze64/breeze/pkg/breeze/carttree"
	"github.com/breeze64/breeze/pkg/breeze/inventory"
	"github.com/breeze64/breeze/pkg/breeze/parser"
	"github.com/breeze64/breeze/pkg/breeze/planner"
)

// StatusView is the JSON-serializable device status.
type StatusView struct {
	Connected       bool              `json:"connected"`
	SDCardReady     bool              `json:"sd_card_ready"`
	FirmwareVersion string            `json:"firmware_version,omitempty"`
	Details         map[string]string `json:"details,omitempty"`
}

// NewStatusView converts a parsed status.
func NewStatusView(s parser.Status) StatusView {
	return StatusView{
		Connected:       s.Connected,
		SDCardReady:     s.SDCardReady,
		FirmwareVersion: s.FirmwareVersion,
		Details:         s.Details,
	}
}

// FileView is the JSON-serializable local file.
type FileView struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Format string `json:"format"`
}

// NewFileViews converts local files.
func NewFileViews(files []inventory.LocalFile) []FileView {
	views := make([]FileView, 0, len(files))
	for _, f := range files {
		views = append(views, FileView{
			Name:   f.Name,
			Path:   f.Path,
			Size:   f.Size,
			Format: f.Format.String(),
		})
	}
	return views
}

// EntryView is the JSON-serializable remote entry.
type EntryView struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size,omitempty"`
}

// NewEntryViews converts remote entries.
func NewEntryViews(entries []*carttree.Entry) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, EntryView{
			Name:  e.Name,
			Path:  e.Path,
			IsDir: e.IsDir,
			Size:  e.Size,
		})
	}
	return views
}

// DiffView is the JSON-serializable compare result.
type DiffView struct {
	OnCart  []FileView `json:"on_cart"`
	Missing []FileView `json:"missing"`
}

// UploadItemView is the JSON-serializable outcome of one plan item.
type UploadItemView struct {
	Name  string `json:"name"`
	Dest  string `json:"dest"`
	Size  int64  `json:"size"`
	Error string `json:"error,omitempty"`
}

// UploadReportView is the JSON-serializable plan execution report.
type UploadReportView struct {
	Items     []UploadItemView `json:"items"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Summary   string           `json:"summary"`
}

// NewUploadReportView converts an execution result.
func NewUploadReportView(r planner.ExecResult) UploadReportView {
	view := UploadReportView{
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Summary:   r.Summary(),
	}
	for _, res := range r.Results {
		item := UploadItemView{
			Name: res.Item.Source.Name,
			Dest: res.Item.Dest,
			Size: res.Item.Size,
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		view.Items = append(view.Items, item)
	}
	return view
}
