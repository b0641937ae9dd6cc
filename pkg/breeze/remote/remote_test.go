package remote

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeze64/breeze/pkg/breeze/deployer"
	"github.com/breeze64/breeze/pkg/breeze/parser"
)

// fakeCart builds a deployer client over canned per-command output.
// Listings are keyed by path, with "" standing for the root.
func fakeCart(listings map[string]string, devicesOut, infoOut string) *deployer.Client {
	return deployer.NewClient(deployer.InvokerFunc(
		func(ctx context.Context, args ...string) (deployer.Result, error) {
			switch strings.Join(args, " ") {
			case "list":
				return deployer.Result{Stdout: devicesOut}, nil
			case "info":
				return deployer.Result{Stdout: infoOut}, nil
			}
			if len(args) >= 2 && args[0] == "sd" && args[1] == "ls" {
				path := ""
				if len(args) > 2 {
					path = args[2]
				}
				out, ok := listings[path]
				if !ok {
					return deployer.Result{ExitCode: 1, Stderr: "no such directory"}, nil
				}
				return deployer.Result{Stdout: out}, nil
			}
			return deployer.Result{ExitCode: 1}, nil
		}))
}

func TestFetchStatus(t *testing.T) {
	t.Run("connected with card", func(t *testing.T) {
		c := fakeCart(
			map[string]string{"": "f 1M 2024-01-01 00:00:00 | sc64menu.n64"},
			"Found devices:\n  1: SC64\n",
			"Firmware version: 2.20.0\n",
		)

		status, err := FetchStatus(context.Background(), c)
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.True(t, status.SDCardReady)
		assert.Equal(t, "2.20.0", status.FirmwareVersion)
	})

	t.Run("connected without card", func(t *testing.T) {
		c := fakeCart(nil, "Found devices:\n", "")

		status, err := FetchStatus(context.Background(), c)
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.False(t, status.SDCardReady)
	})

	t.Run("not connected skips card probe", func(t *testing.T) {
		c := fakeCart(nil, "No devices found\n", "")

		status, err := FetchStatus(context.Background(), c)
		require.NoError(t, err)
		assert.False(t, status.Connected)
		assert.False(t, status.SDCardReady)
	})
}

func TestFetchDir(t *testing.T) {
	t.Run("lists one directory", func(t *testing.T) {
		c := fakeCart(map[string]string{
			"/menu": "f 1.5M 2024-01-01 00:00:00 | bg.mp3\n",
		}, "", "")

		entries, err := FetchDir(context.Background(), c, "/menu")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "bg.mp3", entries[0].Name)
	})

	t.Run("empty directory yields no entries", func(t *testing.T) {
		c := fakeCart(map[string]string{"/empty": ""}, "", "")

		entries, err := FetchDir(context.Background(), c, "/empty")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("listing failure", func(t *testing.T) {
		c := fakeCart(map[string]string{}, "", "")

		_, err := FetchDir(context.Background(), c, "/missing")
		assert.ErrorIs(t, err, parser.ErrParse)
	})
}

func TestFetchTree(t *testing.T) {
	c := fakeCart(map[string]string{
		"": `d ---- 2024-01-01 00:00:00 | /menu
f  32M 2024-01-01 00:00:00 | /game.z64
`,
		"/menu": `f 1.5M 2024-01-01 00:00:00 | bg.mp3
d ---- 2024-01-01 00:00:00 | themes
`,
		"/menu/themes": "f  10K 2024-01-01 00:00:00 | dark.bin\n",
	}, "", "")

	tree, err := FetchTree(context.Background(), c, "/")
	require.NoError(t, err)

	// Each directory was listed separately and stitched into one tree.
	_, ok := tree.Find("/menu/bg.mp3")
	assert.True(t, ok)
	_, ok = tree.Find("/menu/themes/dark.bin")
	assert.True(t, ok)
	_, ok = tree.Find("/game.z64")
	assert.True(t, ok)

	children := tree.Children("/")
	require.Len(t, children, 2)
	assert.Equal(t, "menu", children[0].Name)
	assert.Equal(t, "game.z64", children[1].Name)
}

func TestFetchTree_SubdirListingFails(t *testing.T) {
	c := fakeCart(map[string]string{
		"": "d ---- 2024-01-01 00:00:00 | /menu\n",
	}, "", "")

	_, err := FetchTree(context.Background(), c, "/")
	assert.Error(t, err)
}
