package main

import (
	"fmt"
	"os"

	"github.com/breeze64/breeze/pkg/breeze/carttree"
	"github.com/breeze64/breeze/pkg/breeze/inventory"
	"github.com/breeze64/breeze/pkg/breeze/output"
	"github.com/breeze64/breeze/pkg/breeze/remote"
	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:     "cart",
	Aliases: []string{"c"},
	Short:   "List the cart's SD card contents",
	Long: `Show the SD card's root directory and a census of every ROM
anywhere on the card. The card is re-read on every invocation.`,
	RunE: runCart,
}

func init() {
	rootCmd.AddCommand(cartCmd)
}

// cartView is the JSON shape of the cart listing.
type cartView struct {
	Root []output.EntryView `json:"root"`
	ROMs []output.EntryView `json:"roms"`
}

func runCart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)
	ctx := cmd.Context()

	tree, err := remote.FetchTree(ctx, client, "/")
	if err != nil {
		printError("SD card is not accessible.")
		printError("Make sure the N64 is powered on to access the SD card.")
		return err
	}

	roms := cartROMs(tree)
	view := cartView{
		Root: output.NewEntryViews(tree.Children("/")),
		ROMs: output.NewEntryViews(roms),
	}
	if jsonOutput() {
		return output.WriteJSON(os.Stdout, view)
	}

	fmt.Println(output.Header("Cart SD Card Contents"))
	printInfo("SD card root:")
	fmt.Print(output.RenderEntries(view.Root))

	printInfo("\nAll ROMs on cart:")
	if len(roms) == 0 {
		printInfo("  No ROM files found on SD card.")
		return nil
	}
	fmt.Print(output.RenderEntries(view.ROMs))
	printInfo("Total: %d ROM(s)", len(roms))
	return nil
}

// cartROMs returns every ROM file anywhere in the tree, in listing order.
func cartROMs(tree *carttree.Tree) []*carttree.Entry {
	var roms []*carttree.Entry
	for _, f := range tree.Files() {
		if inventory.IsROM(f.Name) {
			roms = append(roms, f)
		}
	}
	return roms
}
