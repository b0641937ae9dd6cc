package main

import (
	"fmt"
	"os"

	"github.com/breeze64/breeze/pkg/breeze/output"
	"github.com/breeze64/breeze/pkg/breeze/remote"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"s"},
	Short:   "Show device and SD card status",
	Long: `Query the cart over USB and report whether it is connected,
its firmware details, and whether the SD card is accessible.
SD card access requires the N64 to be powered on.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	status, err := remote.FetchStatus(cmd.Context(), client)
	if err != nil {
		return fmt.Errorf("querying status: %w", err)
	}

	view := output.NewStatusView(status)
	if jsonOutput() {
		return output.WriteJSON(os.Stdout, view)
	}

	fmt.Println(output.Header("SC64 Status"))
	fmt.Print(output.RenderStatus(view))
	return nil
}
