package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/breeze64/breeze/cmd/breeze/tui"
	"github.com/breeze64/breeze/pkg/breeze/remote"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"b"},
	Short:   "Browse the SD card interactively",
	Long: `Open a terminal browser over the cart's SD card. Directories are
read from the card on entry, so the view always reflects the card's
current contents.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	// Probe before entering the TUI so a powered-off console fails with
	// a plain message instead of an error screen.
	status, err := remote.FetchStatus(cmd.Context(), client)
	if err != nil {
		return fmt.Errorf("querying status: %w", err)
	}
	if !status.Connected {
		printError("No SummerCart64 detected. Is it plugged in via USB?")
		return fmt.Errorf("device not connected")
	}
	if !status.SDCardReady {
		printError("SD card is not accessible. Power on the N64 and retry.")
		return fmt.Errorf("sd card not accessible")
	}

	program := tea.NewProgram(tui.NewModel(client), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
