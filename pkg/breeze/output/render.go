// Package output renders command results for the terminal. The core
// packages never print; the dispatcher hands their structured results
// here for pretty or JSON rendering.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// WriteJSON writes any view as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header renders a framed section title.
func Header(title string) string {
	return HeaderBox.Render(TitleStyle.Render(title))
}

// RenderStatus renders the device status block.
func RenderStatus(v StatusView) string {
	var sb strings.Builder

	if v.Connected {
		sb.WriteString(LabelStyle.Render("Device:") + " " + SuccessStyle.Render("connected") + "\n")
	} else {
		sb.WriteString(LabelStyle.Render("Device:") + " " + ErrorStyle.Render("not connected") + "\n")
		sb.WriteString(MutedStyle.Render("Make sure the SummerCart64 is plugged in via USB.") + "\n")
		return sb.String()
	}

	keys := make([]string, 0, len(v.Details))
	for key := range v.Details {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("  %s %s\n", LabelStyle.Render(key+":"), ValueStyle.Render(v.Details[key])))
	}

	if v.SDCardReady {
		sb.WriteString(LabelStyle.Render("SD card:") + " " + SuccessStyle.Render("accessible") + "\n")
	} else {
		sb.WriteString(LabelStyle.Render("SD card:") + " " + WarningStyle.Render("not accessible") + "\n")
		sb.WriteString(MutedStyle.Render("SD card access requires the N64 to be powered on.") + "\n")
	}

	return sb.String()
}

// RenderFiles renders a numbered local file listing.
func RenderFiles(files []FileView) string {
	if len(files) == 0 {
		return MutedStyle.Render("  no files found") + "\n"
	}

	var sb strings.Builder
	for i, f := range files {
		sb.WriteString(fmt.Sprintf("  [%2d] %s %s\n",
			i+1,
			ValueStyle.Render(f.Name),
			SizeStyle.Render("("+humanize.IBytes(uint64(f.Size))+")")))
	}
	sb.WriteString(MutedStyle.Render(fmt.Sprintf("  total: %d file(s)", len(files))) + "\n")
	return sb.String()
}

// RenderEntries renders a remote directory listing in deployer order.
func RenderEntries(entries []EntryView) string {
	if len(entries) == 0 {
		return MutedStyle.Render("  (empty directory)") + "\n"
	}

	var sb strings.Builder
	for _, e := range entries {
		if e.IsDir {
			sb.WriteString(fmt.Sprintf("  %s %s\n",
				LabelStyle.Render("[DIR]"),
				ValueStyle.Render(e.Name+"/")))
			continue
		}

		marker := "[   ]"
		if strings.HasSuffix(strings.ToLower(e.Name), ".z64") ||
			strings.HasSuffix(strings.ToLower(e.Name), ".n64") ||
			strings.HasSuffix(strings.ToLower(e.Name), ".v64") {
			marker = "[ROM]"
		}

		line := fmt.Sprintf("  %s %s", MutedStyle.Render(marker), ValueStyle.Render(e.Name))
		if e.Size > 0 {
			line += " " + SizeStyle.Render("("+humanize.IBytes(uint64(e.Size))+")")
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// RenderDiff renders the compare result: what's already on the cart and
// what's missing.
func RenderDiff(v DiffView) string {
	var sb strings.Builder

	if len(v.OnCart) > 0 {
		sb.WriteString(TitleStyle.Render(fmt.Sprintf("Already on cart (%d):", len(v.OnCart))) + "\n")
		for _, f := range v.OnCart {
			sb.WriteString("  " + SuccessStyle.Render("[OK]") + " " + ValueStyle.Render(f.Name) + "\n")
		}
		sb.WriteString("\n")
	}

	if len(v.Missing) == 0 {
		sb.WriteString(SuccessStyle.Render("All local ROMs are already on the cart.") + "\n")
		return sb.String()
	}

	sb.WriteString(TitleStyle.Render(fmt.Sprintf("Not on cart (%d):", len(v.Missing))) + "\n")
	sb.WriteString(RenderFiles(v.Missing))
	return sb.String()
}

// RenderUploadReport renders per-item outcomes and the summary line.
// Partial success is always shown item by item.
func RenderUploadReport(v UploadReportView) string {
	var sb strings.Builder

	for _, item := range v.Items {
		if item.Error == "" {
			sb.WriteString(fmt.Sprintf("  %s %s %s %s\n",
				SuccessStyle.Render("ok"),
				ValueStyle.Render(item.Name),
				MutedStyle.Render("->"),
				ValueStyle.Render(item.Dest)))
		} else {
			sb.WriteString(fmt.Sprintf("  %s %s: %s\n",
				ErrorStyle.Render("failed"),
				ValueStyle.Render(item.Name),
				MutedStyle.Render(item.Error)))
		}
	}

	summary := v.Summary
	if v.Failed > 0 {
		sb.WriteString(WarningStyle.Render(summary) + "\n")
	} else {
		sb.WriteString(SuccessStyle.Render(summary) + "\n")
	}
	return sb.String()
}
