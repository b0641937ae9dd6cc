package main

import (
	"fmt"

	"github.com/breeze64/breeze/pkg/breeze/history"
	"github.com/breeze64/breeze/pkg/breeze/inventory"
	"github.com/breeze64/breeze/pkg/breeze/output"
	"github.com/spf13/cobra"
)

var (
	musicFile string

	musicCmd = &cobra.Command{
		Use:   "music",
		Short: "Manage the menu background music",
		Long: `The SC64 menu plays an MP3 from a fixed path on the SD card.
"music set" uploads a track from the local menu_music directory to
that path, replacing whatever is there; "music remove" deletes it.`,
	}

	musicSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Upload a background music track",
		RunE:  runMusicSet,
	}

	musicRemoveCmd = &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm"},
		Short:   "Remove the background music from the cart",
		RunE:    runMusicRemove,
	}
)

func init() {
	musicSetCmd.Flags().StringVar(&musicFile, "file", "", "music file to upload (default: pick interactively)")
	musicCmd.AddCommand(musicSetCmd)
	musicCmd.AddCommand(musicRemoveCmd)
	rootCmd.AddCommand(musicCmd)
}

func runMusicSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	track, err := pickMusicTrack(cfg.Dirs.MenuMusic)
	if err != nil {
		return err
	}
	if track == nil {
		printInfo("No track selected, nothing changed.")
		return nil
	}

	printInfo("Uploading %s to %s ...", track.Name, cfg.Remote.MusicPath)
	uploadErr := client.Upload(cmd.Context(), track.Path, cfg.Remote.MusicPath)

	rec := history.Record{
		Name:   track.Name,
		Source: track.Path,
		Dest:   cfg.Remote.MusicPath,
		Size:   track.Size,
	}
	if uploadErr != nil {
		rec.Error = uploadErr.Error()
	}
	journalRecords(cfg, history.OpMusic, []history.Record{rec})

	if uploadErr != nil {
		return fmt.Errorf("uploading music: %w", uploadErr)
	}
	printInfo("Background music set: %s", track.Name)
	return nil
}

func runMusicRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)
	ctx := cmd.Context()

	exists, err := client.Stat(ctx, cfg.Remote.MusicPath)
	if err != nil {
		return fmt.Errorf("checking %s: %w", cfg.Remote.MusicPath, err)
	}
	if !exists {
		printInfo("No background music on the cart.")
		return nil
	}

	if err := client.Remove(ctx, cfg.Remote.MusicPath); err != nil {
		return fmt.Errorf("removing music: %w", err)
	}

	journalRecords(cfg, history.OpMusic, []history.Record{{
		Name: "remove",
		Dest: cfg.Remote.MusicPath,
	}})

	printInfo("Background music removed.")
	return nil
}

// pickMusicTrack resolves --file or prompts with the menu_music
// listing. A nil file with nil error means the operator cancelled.
func pickMusicTrack(dir string) (*inventory.LocalFile, error) {
	tracks, err := inventory.ListMusic(dir)
	if err != nil {
		return nil, fmt.Errorf("listing music: %w", err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no music files found in %s", dir)
	}

	if musicFile != "" {
		for i := range tracks {
			if tracks[i].Name == musicFile {
				return &tracks[i], nil
			}
		}
		return nil, fmt.Errorf("music file %q not found in %s", musicFile, dir)
	}

	fmt.Println(output.Header("Available music"))
	fmt.Print(output.RenderFiles(output.NewFileViews(tracks)))
	input, err := promptSelection("Select a track (number, 0 to cancel): ")
	if err != nil {
		return nil, err
	}
	indices, err := parseSelection(input, len(tracks))
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, nil
	}
	return &tracks[indices[0]-1], nil
}
