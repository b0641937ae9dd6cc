// Package planner computes which local files are absent from the cart
// and turns a selection into an ordered upload plan. Plans execute
// strictly sequentially: the transport is a single USB-connected device
// with no meaningful parallelism.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/breeze64/breeze/pkg/breeze/carttree"
	"github.com/breeze64/breeze/pkg/breeze/inventory"
	"github.com/breeze64/breeze/pkg/breeze/logging"
)

// ErrUploadFailed wraps the underlying cause when one plan item fails.
var ErrUploadFailed = errors.New("upload failed")

// ErrBadDestination indicates the destination is not an absolute SD
// card path.
var ErrBadDestination = errors.New("destination must start with /")

// Item is one file-to-destination transfer instruction. Items are
// independent: a failed item may be retried by building a new
// single-item plan.
type Item struct {
	// Source is the local file to transfer.
	Source inventory.LocalFile

	// Dest is the fully qualified remote destination path.
	Dest string

	// Size is the source size in bytes.
	Size int64
}

// Plan is an ordered sequence of upload items.
type Plan struct {
	Items   []Item
	DestDir string
}

// Missing returns the local files whose name has no exact, case-sensitive
// match anywhere in the remote tree, preserving the inventory's order.
//
// Matching is by filename only, a deliberate design limit: a same-named
// file with different content is considered already present and skipped.
// A nil tree (SD card unreachable) reports every local file as missing.
func Missing(local []inventory.LocalFile, tree *carttree.Tree) []inventory.LocalFile {
	if tree == nil {
		missing := make([]inventory.LocalFile, len(local))
		copy(missing, local)
		return missing
	}

	remote := tree.FileNames()
	var missing []inventory.LocalFile
	for _, f := range local {
		if _, ok := remote[f.Name]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// BuildPlan builds an upload plan for the selected files, preserving
// the caller's selection order exactly. The destination directory need
// not exist on the cart: the deployer creates it during upload.
func BuildPlan(selected []inventory.LocalFile, destDir string) (Plan, error) {
	if !strings.HasPrefix(destDir, "/") {
		return Plan{}, fmt.Errorf("%w: %q", ErrBadDestination, destDir)
	}
	if destDir != "/" {
		destDir = strings.TrimSuffix(destDir, "/")
	}

	plan := Plan{DestDir: destDir}
	for _, f := range selected {
		plan.Items = append(plan.Items, Item{
			Source: f,
			Dest:   joinRemote(destDir, f.Name),
			Size:   f.Size,
		})
	}
	return plan, nil
}

// Uploader transfers one local file to a remote path. The deployer
// client satisfies it.
type Uploader interface {
	Upload(ctx context.Context, localPath, remotePath string) error
}

// ItemResult records the outcome of one executed plan item.
type ItemResult struct {
	Item Item
	Err  error
}

// ExecResult summarizes an executed plan. Partial success is the normal
// case and is always reported per item, never collapsed into a single
// pass/fail.
type ExecResult struct {
	Results   []ItemResult
	Succeeded int
	Failed    int
}

// Summary renders the "3 of 5 uploaded" line.
func (r ExecResult) Summary() string {
	total := len(r.Results)
	if r.Failed == 0 {
		return fmt.Sprintf("%d of %d uploaded", r.Succeeded, total)
	}
	return fmt.Sprintf("%d of %d uploaded, %d failed", r.Succeeded, total, r.Failed)
}

// FailedItems returns the results that carry an error.
func (r ExecResult) FailedItems() []ItemResult {
	var failed []ItemResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Execute runs the plan one item at a time, one deployer call per item.
// A failed item does not abort the remaining ones, and nothing is
// retried automatically: retry decisions belong to the operator.
func Execute(ctx context.Context, up Uploader, plan Plan) ExecResult {
	logger := logging.Get("planner")

	var result ExecResult
	for _, item := range plan.Items {
		err := up.Upload(ctx, item.Source.Path, item.Dest)
		if err != nil {
			err = fmt.Errorf("%w: %s: %v", ErrUploadFailed, item.Source.Name, err)
			logger.Error("item failed", "file", item.Source.Name, "dest", item.Dest, "err", err)
			result.Failed++
		} else {
			logger.Info("item uploaded", "file", item.Source.Name, "dest", item.Dest)
			result.Succeeded++
		}
		result.Results = append(result.Results, ItemResult{Item: item, Err: err})
	}
	return result
}

// joinRemote appends a file name to a remote directory with exactly one
// separator.
func joinRemote(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
