package main

import (
	"fmt"
	"os"

	"github.com/breeze64/breeze/pkg/breeze/config"
	"github.com/breeze64/breeze/pkg/breeze/history"
	"github.com/breeze64/breeze/pkg/breeze/inventory"
	"github.com/breeze64/breeze/pkg/breeze/logging"
	"github.com/breeze64/breeze/pkg/breeze/output"
	"github.com/breeze64/breeze/pkg/breeze/planner"
	"github.com/spf13/cobra"
)

var (
	uploadDest   string
	uploadSelect string
	uploadAll    bool

	uploadCmd = &cobra.Command{
		Use:     "upload",
		Aliases: []string{"u", "sync"},
		Short:   "Upload missing ROMs to the cart",
		Long: `Compare the local library against the cart and upload the ROMs
that are missing. With --all every missing ROM is uploaded; with
--select a comma-separated list picks from the missing set; with
neither, breeze shows the missing list and prompts.

Files are transferred one at a time. A failed file does not stop
the rest, and nothing is retried automatically.`,
		RunE: runUpload,
	}
)

func init() {
	uploadCmd.Flags().StringVar(&uploadDest, "dest", "/", "destination directory on the SD card")
	uploadCmd.Flags().StringVar(&uploadSelect, "select", "", `selection, e.g. "1,3,5" or "all"`)
	uploadCmd.Flags().BoolVar(&uploadAll, "all", false, "upload every missing ROM")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)
	ctx := cmd.Context()

	d, err := fetchDiff(ctx, client, cfg)
	if err != nil {
		return err
	}
	if len(d.local) == 0 {
		printInfo("No local ROMs found in %s.", cfg.Dirs.ROMs)
		return nil
	}
	if len(d.missing) == 0 {
		printInfo("All local ROMs are already on the cart.")
		return nil
	}

	selected, err := selectMissing(d.missing)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		printInfo("Nothing selected, nothing uploaded.")
		return nil
	}

	plan, err := planner.BuildPlan(selected, uploadDest)
	if err != nil {
		return err
	}

	printInfo("Uploading %d file(s) to %s ...", len(plan.Items), plan.DestDir)
	result := planner.Execute(ctx, client, plan)
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

// selectMissing resolves the --all/--select flags, falling back to an
// interactive prompt, into the subset of missing files to upload.
// Selection order is preserved in the resulting plan.
func selectMissing(missing []inventory.LocalFile) ([]inventory.LocalFile, error) {
	if uploadAll {
		return missing, nil
	}

	input := uploadSelect
	if input == "" {
		fmt.Println(output.Header("Missing on cart"))
		fmt.Print(output.RenderFiles(output.NewFileViews(missing)))
		var err error
		input, err = promptSelection(`Select files to upload (e.g. "1,3,5", "all", 0 to cancel): `)
		if err != nil {
			return nil, err
		}
	}

	indices, err := parseSelection(input, len(missing))
	if err != nil {
		return nil, err
	}

	selected := make([]inventory.LocalFile, 0, len(indices))
	for _, i := range indices {
		selected = append(selected, missing[i-1])
	}
	return selected, nil
}

// journalUpload records the execution result in the operation journal.
// Journal failures are logged, never fatal: the uploads already happened.
func journalUpload(cfg *config.Config, result planner.ExecResult) {
	journalRecords(cfg, history.OpUpload, uploadRecords(result))
}

// journalRecords writes one journal entry, respecting history.enabled.
func journalRecords(cfg *config.Config, op history.OperationType, records []history.Record) {
	if !cfg.History.Enabled || len(records) == 0 {
		return
	}
	logger := logging.Get("history")

	journal, err := history.New(cfg.History.Path)
	if err != nil {
		logger.Warn("journal unavailable", "err", err)
		return
	}
	if err := journal.EnsureDir(); err != nil {
		logger.Warn("journal dir", "err", err)
		return
	}
	if _, err := journal.Log(op, records); err != nil {
		logger.Warn("journal write", "err", err)
	}
}

func uploadRecords(result planner.ExecResult) []history.Record {
	records := make([]history.Record, 0, len(result.Results))
	for _, res := range result.Results {
		rec := history.Record{
			Name:   res.Item.Source.Name,
			Source: res.Item.Source.Path,
			Dest:   res.Item.Dest,
			Size:   res.Item.Size,
		}
		if res.Err != nil {
			rec.Error = res.Err.Error()
		}
		records = append(records, rec)
	}
	return records
}
