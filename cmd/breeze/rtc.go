package main

import (
	"fmt"
	"time"

	"github.com/breeze64/breeze/pkg/breeze/history"
	"github.com/spf13/cobra"
)

var rtcCmd = &cobra.Command{
	Use:   "rtc",
	Short: "Set the cart's real-time clock to the system time",
	Long: `Write the current system time to the SC64's battery-backed clock.
The menu uses the clock for save timestamps.`,
	RunE: runRTC,
}

func init() {
	rootCmd.AddCommand(rtcCmd)
}

func runRTC(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	setErr := client.SetClock(cmd.Context())

	rec := history.Record{Name: "rtc sync", Source: time.Now().Format(time.RFC3339)}
	if setErr != nil {
		rec.Error = setErr.Error()
	}
	journalRecords(cfg, history.OpRTC, []history.Record{rec})

	if setErr != nil {
		return fmt.Errorf("setting clock: %w", setErr)
	}
	printInfo("Cart clock set to system time.")
	return nil
}
