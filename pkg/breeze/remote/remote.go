// Package remote assembles full views of the cart by driving the
// deployer client and feeding its output through the parser. Every
// fetch rebuilds from scratch; nothing is cached between commands.
package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/breeze64/breeze/pkg/breeze/carttree"
	"github.com/breeze64/breeze/pkg/breeze/deployer"
	"github.com/breeze64/breeze/pkg/breeze/logging"
	"github.com/breeze64/breeze/pkg/breeze/parser"
)

// FetchStatus queries the device and SD card and returns a fresh status.
// A failing or garbled listing probe means the SD card is not ready,
// which typically just means the console is powered off.
func FetchStatus(ctx context.Context, c *deployer.Client) (parser.Status, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return parser.Status{}, fmt.Errorf("querying devices: %w", err)
	}

	var infoOut string
	info, err := c.Info(ctx)
	if err == nil && info.OK() {
		infoOut = info.Stdout
	}

	status := parser.ParseStatus(devices.Stdout, infoOut)

	if status.Connected {
		ls, err := c.ListDir(ctx, "/")
		status.SDCardReady = err == nil && ls.OK() && parser.HasListing(ls.Stdout)
	}

	return status, nil
}

// FetchDir lists a single directory without descending, returning
// entries in the deployer's order.
func FetchDir(ctx context.Context, c *deployer.Client, path string) ([]parser.Entry, error) {
	res, err := c.ListDir(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}
	if !res.OK() {
		return nil, fmt.Errorf("listing %s: %w", path, parser.ErrParse)
	}

	// An empty directory legitimately produces no output.
	if strings.TrimSpace(res.Stdout) == "" {
		return nil, nil
	}

	listing, err := parser.ParseListing(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}
	if listing.Skipped > 0 {
		logging.Get("remote").Debug("skipped unrecognized listing lines",
			"path", path, "count", listing.Skipped)
	}
	return listing.Entries, nil
}

// FetchTree builds the full remote tree under base by listing each
// directory in turn. The recursive descent linearizes the card into the
// pre-order, depth-tagged stream the tree builder expects.
func FetchTree(ctx context.Context, c *deployer.Client, base string) (*carttree.Tree, error) {
	if base == "" {
		base = "/"
	}
	entries, err := fetchEntries(ctx, c, base, 0)
	if err != nil {
		return nil, err
	}
	return carttree.Build(base, entries)
}

// fetchEntries lists one directory and descends into its
// subdirectories, tagging entries with their nesting depth.
func fetchEntries(ctx context.Context, c *deployer.Client, path string, depth int) ([]parser.Entry, error) {
	dirEntries, err := FetchDir(ctx, c, path)
	if err != nil {
		return nil, err
	}

	var out []parser.Entry
	for _, e := range dirEntries {
		e.Depth = depth
		out = append(out, e)

		if e.IsDir() {
			children, err := fetchEntries(ctx, c, joinRemote(path, e.Name), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, children...)
		}
	}
	return out, nil
}

// joinRemote appends a name to a remote directory with exactly one
// separator.
func joinRemote(dir, name string) string {
	if dir == "/" || dir == "" {
		return "/" + name
	}
	return dir + "/" + name
}
