package main

import (
	"fmt"
	"strings"

	"github.com/breeze64/breeze/pkg/breeze/config"
	"github.com/breeze64/breeze/pkg/breeze/history"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	Long: `View the journal of past uploads, menu updates, music changes,
and clock syncs. The journal is local; it never reflects changes
made to the cart by other tools.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific operation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getJournal returns a journal instance with the configured directory.
func getJournal() (*history.Journal, error) {
	cfg, err := loadConfig()
	if err != nil || cfg.History.Path == "" {
		historyDir, dirErr := config.HistoryDir()
		if dirErr != nil {
			return nil, fmt.Errorf("failed to get history directory: %w", dirErr)
		}
		return history.New(historyDir)
	}
	return history.New(cfg.History.Path)
}

// runHistory lists recent operations.
func runHistory(cmd *cobra.Command, args []string) error {
	journal, err := getJournal()
	if err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}

	entries, err := journal.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'breeze upload' to sync ROMs to the cart.")
		return nil
	}

	fmt.Printf("\n%-44s  %-12s  %-6s  %-12s\n", "ID", "OPERATION", "FILES", "SIZE")
	fmt.Println(strings.Repeat("-", 80))

	for _, entry := range entries {
		fmt.Printf("%-44s  %-12s  %-6d  %-12s\n",
			truncateString(entry.ID, 44),
			entry.Operation,
			entry.Summary.Total,
			humanize.IBytes(uint64(entry.Summary.Bytes)),
		)
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Println("Use 'breeze history show <id>' for details on a specific entry.")
	return nil
}

// runHistoryShow displays details of a specific operation.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	journal, err := getJournal()
	if err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}

	entry, err := journal.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	fmt.Println("\nOperation Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:         %s\n", entry.ID)
	fmt.Printf("Timestamp:  %s\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Operation:  %s\n", entry.Operation)
	fmt.Printf("Files:      %d\n", entry.Summary.Total)
	fmt.Printf("Failed:     %d\n", entry.Summary.Failed)
	fmt.Printf("Total Size: %s\n", humanize.IBytes(uint64(entry.Summary.Bytes)))

	if len(entry.Records) > 0 {
		fmt.Println("\nFiles:")
		fmt.Println(strings.Repeat("-", 60))
		for _, rec := range entry.Records {
			line := fmt.Sprintf("%-12s  %s", humanize.IBytes(uint64(rec.Size)), rec.Name)
			if rec.Dest != "" {
				line += " -> " + rec.Dest
			}
			if rec.Error != "" {
				line += "  [FAILED: " + rec.Error + "]"
			}
			fmt.Println(line)
		}
	}

	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	journal, err := getJournal()
	if err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}

	retentionDays := cfg.History.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultHistoryRetentionDays
	}

	printInfo("Cleaning history entries older than %d days...", retentionDays)

	if err := journal.Cleanup(retentionDays); err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("History cleanup complete.")
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
