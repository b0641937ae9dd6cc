package main

import (
	"fmt"
	"os"

	"github.com/breeze64/breeze/pkg/breeze/inventory"
	"github.com/breeze64/breeze/pkg/breeze/output"
	"github.com/spf13/cobra"
)

var localCmd = &cobra.Command{
	Use:     "local",
	Aliases: []string{"l"},
	Short:   "List ROMs in the local library",
	Long:    `List the ROM files found in the local roms directory, recursively.`,
	RunE:    runLocal,
}

func init() {
	rootCmd.AddCommand(localCmd)
}

func runLocal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	roms, err := inventory.ListROMs(cfg.Dirs.ROMs)
	if err != nil {
		return fmt.Errorf("listing local ROMs: %w", err)
	}

	views := output.NewFileViews(roms)
	if jsonOutput() {
		return output.WriteJSON(os.Stdout, views)
	}

	fmt.Println(output.Header("Local ROMs"))
	printInfo("Directory: %s", cfg.Dirs.ROMs)
	if len(roms) == 0 {
		printInfo("No ROM files found.")
		printInfo("Add .z64, .n64, or .v64 files to: %s", cfg.Dirs.ROMs)
		return nil
	}
	fmt.Print(output.RenderFiles(views))
	return nil
}
