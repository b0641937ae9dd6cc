package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/breeze64/breeze/pkg/breeze/config"
	"github.com/breeze64/breeze/pkg/breeze/history"
	"github.com/breeze64/breeze/pkg/breeze/inventory"
	"github.com/breeze64/breeze/pkg/breeze/output"
	"github.com/breeze64/breeze/pkg/breeze/sequencer"
	"github.com/spf13/cobra"
)

var (
	menuImage string

	menuCmd = &cobra.Command{
		Use:     "menu",
		Aliases: []string{"m"},
		Short:   "Update the SC64 menu (backup, then replace)",
		Long: `Replace the menu image on the SD card with one from the local
menu_versions directory. If a menu is already on the cart it is
copied to a timestamped backup first; if that backup fails, the
current menu is left untouched and nothing is uploaded.`,
		RunE: runMenu,
	}
)

func init() {
	menuCmd.Flags().StringVar(&menuImage, "image", "", "menu image file to upload (default: pick interactively)")
	rootCmd.AddCommand(menuCmd)
}

// menuReport is the JSON shape of a menu update result.
type menuReport struct {
	Image  string `json:"image"`
	Dest   string `json:"dest"`
	Backup string `json:"backup,omitempty"`
	State  string `json:"state"`
	Error  string `json:"error,omitempty"`
}

func runMenu(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	image, err := pickMenuImage(cfg.Dirs.MenuVersions)
	if err != nil {
		return err
	}
	if image == nil {
		printInfo("No menu image selected, nothing changed.")
		return nil
	}

	printInfo("Updating menu at %s from %s ...", cfg.Remote.MenuPath, image.Name)
	seq := sequencer.New(client, sequencer.Options{MenuPath: cfg.Remote.MenuPath})
	runErr := seq.Run(cmd.Context(), *image)

	journalMenu(cfg, *image, seq, runErr)

	report := menuReport{
		Image:  image.Name,
		Dest:   cfg.Remote.MenuPath,
		Backup: seq.BackupTarget(),
		State:  seq.State().String(),
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}
	if jsonOutput() {
		if err := output.WriteJSON(os.Stdout, report); err != nil {
			return err
		}
		return runErr
	}

	if runErr != nil {
		if errors.Is(runErr, sequencer.ErrBackupFailed) {
			printError("backing up the current menu failed; the cart was not touched")
		}
		return runErr
	}

	if seq.BackupTarget() != "" {
		printInfo("Previous menu saved as %s", seq.BackupTarget())
	} else {
		printInfo("No menu was on the cart; nothing to back up.")
	}
	printInfo("Menu updated: %s -> %s", image.Name, cfg.Remote.MenuPath)
	return nil
}

// pickMenuImage resolves --image or prompts with the menu_versions
// listing. A nil file with nil error means the operator cancelled.
func pickMenuImage(dir string) (*inventory.LocalFile, error) {
	images, err := inventory.ListMenuImages(dir)
	if err != nil {
		return nil, fmt.Errorf("listing menu images: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no menu images found in %s", dir)
	}

	if menuImage != "" {
		for i := range images {
			if images[i].Name == menuImage {
				return &images[i], nil
			}
		}
		return nil, fmt.Errorf("menu image %q not found in %s", menuImage, dir)
	}

	fmt.Println(output.Header("Available menu versions"))
	fmt.Print(output.RenderFiles(output.NewFileViews(images)))
	input, err := promptSelection("Select a menu image (number, 0 to cancel): ")
	if err != nil {
		return nil, err
	}
	indices, err := parseSelection(input, len(images))
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, nil
	}
	return &images[indices[0]-1], nil
}

// journalMenu records the update, including the backup as its own
// record when one was made.
func journalMenu(cfg *config.Config, image inventory.LocalFile, seq *sequencer.Sequencer, runErr error) {
	var records []history.Record
	if seq.BackupTarget() != "" {
		records = append(records, history.Record{
			Name:   "menu backup",
			Source: cfg.Remote.MenuPath,
			Dest:   seq.BackupTarget(),
		})
	}
	rec := history.Record{
		Name:   image.Name,
		Source: image.Path,
		Dest:   cfg.Remote.MenuPath,
		Size:   image.Size,
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	records = append(records, rec)
	journalRecords(cfg, history.OpMenuUpdate, records)
}
