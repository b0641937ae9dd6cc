package main

import (
	"fmt"
	"os"

	"github.com/breeze64/breeze/pkg/breeze/inventory"
	"github.com/breeze64/breeze/pkg/breeze/output"
	"github.com/breeze64/breeze/pkg/breeze/planner"
	"github.com/spf13/cobra"
)

var (
	quickDest string

	quickCmd = &cobra.Command{
		Use:     "quick",
		Aliases: []string{"q"},
		Short:   "Upload the whole local library without comparing",
		Long: `Upload every local ROM to the cart without reading the cart
first. Faster than upload when the SD card is freshly formatted or
the library is known to be ahead; same-named files on the cart are
overwritten by the deployer.`,
		RunE: runQuick,
	}
)

func init() {
	quickCmd.Flags().StringVar(&quickDest, "dest", "/", "destination directory on the SD card")
	rootCmd.AddCommand(quickCmd)
}

func runQuick(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	local, err := inventory.ListROMs(cfg.Dirs.ROMs)
	if err != nil {
		return fmt.Errorf("listing local ROMs: %w", err)
	}
	if len(local) == 0 {
		printInfo("No local ROMs found in %s.", cfg.Dirs.ROMs)
		return nil
	}

	plan, err := planner.BuildPlan(local, quickDest)
	if err != nil {
		return err
	}

	printInfo("Uploading all %d file(s) to %s ...", len(plan.Items), plan.DestDir)
	result := planner.Execute(cmd.Context(), client, plan)
	journalUpload(cfg, result)

	view := output.NewUploadReportView(result)
	if jsonOutput() {
		return output.WriteJSON(os.Stdout, view)
	}
	fmt.Print(output.RenderUploadReport(view))
	if result.Failed > 0 {
		return fmt.Errorf("%d upload(s) failed", result.Failed)
	}
	return nil
}
