package main

import (
	"context"
	"fmt"
	"os"

	"github.com/breeze64/breeze/pkg/breeze/config"
	"github.com/breeze64/breeze/pkg/breeze/deployer"
	"github.com/breeze64/breeze/pkg/breeze/inventory"
	"github.com/breeze64/breeze/pkg/breeze/output"
	"github.com/breeze64/breeze/pkg/breeze/planner"
	"github.com/breeze64/breeze/pkg/breeze/remote"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:     "compare",
	Aliases: []string{"diff", "d"},
	Short:   "Show local ROMs missing on the cart",
	Long: `Compare the local ROM library against the cart by filename.
Matching is by exact name only; a same-named file with different
content counts as already present. With the SD card unreachable,
every local ROM is reported as missing.`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

// diff holds the compare result shared by the compare and upload commands.
type diff struct {
	local   []inventory.LocalFile
	missing []inventory.LocalFile
	onCart  []inventory.LocalFile
	sdReady bool
}

// fetchDiff enumerates the local library, rebuilds the remote tree, and
// computes the missing set. An unreachable SD card degrades to "all
// local files missing" rather than failing.
func fetchDiff(ctx context.Context, client *deployer.Client, cfg *config.Config) (diff, error) {
	local, err := inventory.ListROMs(cfg.Dirs.ROMs)
	if err != nil {
		return diff{}, fmt.Errorf("listing local ROMs: %w", err)
	}

	d := diff{local: local}

	tree, err := remote.FetchTree(ctx, client, "/")
	if err != nil {
		d.missing = planner.Missing(local, nil)
		return d, nil
	}
	d.sdReady = true

	d.missing = planner.Missing(local, tree)
	missingNames := make(map[string]struct{}, len(d.missing))
	for _, f := range d.missing {
		missingNames[f.Name] = struct{}{}
	}
	for _, f := range local {
		if _, ok := missingNames[f.Name]; !ok {
			d.onCart = append(d.onCart, f)
		}
	}
	return d, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	d, err := fetchDiff(cmd.Context(), client, cfg)
	if err != nil {
		return err
	}

	view := output.DiffView{
		OnCart:  output.NewFileViews(d.onCart),
		Missing: output.NewFileViews(d.missing),
	}
	if jsonOutput() {
		return output.WriteJSON(os.Stdout, view)
	}

	fmt.Println(output.Header("Compare Local vs Cart"))
	if len(d.local) == 0 {
		printInfo("No local ROMs found.")
		return nil
	}
	if !d.sdReady {
		printInfo("SD card is not accessible - showing all local ROMs as missing.")
		printInfo("(Power on the N64 for an accurate comparison.)")
		fmt.Println()
	}
	fmt.Print(output.RenderDiff(view))
	return nil
}
