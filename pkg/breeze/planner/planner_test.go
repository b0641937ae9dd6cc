package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeze64/breeze/pkg/breeze/carttree"
	"github.com/breeze64/breeze/pkg/breeze/inventory"
	"github.com/breeze64/breeze/pkg/breeze/parser"
)

func localFile(name string, size int64) inventory.LocalFile {
	return inventory.LocalFile{Name: name, Path: "/roms/" + name, Size: size}
}

func buildTree(t *testing.T, fileNames ...string) *carttree.Tree {
	t.Helper()
	entries := make([]parser.Entry, 0, len(fileNames))
	for _, name := range fileNames {
		entries = append(entries, parser.Entry{Kind: parser.LineFile, Name: name})
	}
	tree, err := carttree.Build("/", entries)
	require.NoError(t, err)
	return tree
}

func TestMissing(t *testing.T) {
	t.Run("exact name match", func(t *testing.T) {
		local := []inventory.LocalFile{
			localFile("A.z64", 10),
			localFile("B.n64", 20),
		}
		tree := buildTree(t, "A.z64")

		missing := Missing(local, tree)
		require.Len(t, missing, 1)
		assert.Equal(t, "B.n64", missing[0].Name)
	})

	t.Run("case sensitive", func(t *testing.T) {
		local := []inventory.LocalFile{localFile("Game.z64", 10)}
		tree := buildTree(t, "game.z64")

		missing := Missing(local, tree)
		require.Len(t, missing, 1)
		assert.Equal(t, "Game.z64", missing[0].Name)
	})

	t.Run("matches anywhere in tree", func(t *testing.T) {
		local := []inventory.LocalFile{localFile("nested.z64", 10)}

		entries := []parser.Entry{
			{Kind: parser.LineDirectory, Name: "roms", Depth: 0},
			{Kind: parser.LineFile, Name: "nested.z64", Depth: 1},
		}
		tree, err := carttree.Build("/", entries)
		require.NoError(t, err)

		assert.Empty(t, Missing(local, tree))
	})

	t.Run("nil tree reports everything missing", func(t *testing.T) {
		local := []inventory.LocalFile{
			localFile("A.z64", 10),
			localFile("B.n64", 20),
		}

		missing := Missing(local, nil)
		assert.Len(t, missing, 2)
	})

	t.Run("preserves inventory order", func(t *testing.T) {
		local := []inventory.LocalFile{
			localFile("c.z64", 1),
			localFile("a.z64", 1),
			localFile("b.z64", 1),
		}
		tree := buildTree(t, "other.z64")

		missing := Missing(local, tree)
		require.Len(t, missing, 3)
		assert.Equal(t, "c.z64", missing[0].Name)
		assert.Equal(t, "a.z64", missing[1].Name)
		assert.Equal(t, "b.z64", missing[2].Name)
	})

	t.Run("empty local library", func(t *testing.T) {
		assert.Empty(t, Missing(nil, buildTree(t, "a.z64")))
	})
}

func TestBuildPlan(t *testing.T) {
	t.Run("preserves selection order", func(t *testing.T) {
		selected := []inventory.LocalFile{
			localFile("z.z64", 3),
			localFile("a.z64", 1),
		}

		plan, err := BuildPlan(selected, "/")
		require.NoError(t, err)
		require.Len(t, plan.Items, 2)
		assert.Equal(t, "z.z64", plan.Items[0].Source.Name)
		assert.Equal(t, "/z.z64", plan.Items[0].Dest)
		assert.Equal(t, "a.z64", plan.Items[1].Source.Name)
	})

	t.Run("nested destination", func(t *testing.T) {
		plan, err := BuildPlan([]inventory.LocalFile{localFile("g.z64", 1)}, "/roms/")
		require.NoError(t, err)
		assert.Equal(t, "/roms", plan.DestDir)
		assert.Equal(t, "/roms/g.z64", plan.Items[0].Dest)
	})

	t.Run("rejects relative destination", func(t *testing.T) {
		_, err := BuildPlan(nil, "roms")
		assert.ErrorIs(t, err, ErrBadDestination)
	})
}

// fakeUploader records upload calls and fails the names in failOn.
type fakeUploader struct {
	calls  []string
	failOn map[string]bool
}

func (f *fakeUploader) Upload(ctx context.Context, localPath, remotePath string) error {
	f.calls = append(f.calls, remotePath)
	if f.failOn[remotePath] {
		return errors.New("device I/O error")
	}
	return nil
}

func TestExecute(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		plan, err := BuildPlan([]inventory.LocalFile{
			localFile("a.z64", 1),
			localFile("b.z64", 2),
		}, "/")
		require.NoError(t, err)

		up := &fakeUploader{}
		result := Execute(context.Background(), up, plan)

		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, []string{"/a.z64", "/b.z64"}, up.calls)
		assert.Equal(t, "2 of 2 uploaded", result.Summary())
	})

	t.Run("failure does not abort the rest", func(t *testing.T) {
		plan, err := BuildPlan([]inventory.LocalFile{
			localFile("a.z64", 1),
			localFile("b.z64", 2),
			localFile("c.z64", 3),
		}, "/")
		require.NoError(t, err)

		up := &fakeUploader{failOn: map[string]bool{"/b.z64": true}}
		result := Execute(context.Background(), up, plan)

		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		// Every item was attempted exactly once, in order.
		assert.Equal(t, []string{"/a.z64", "/b.z64", "/c.z64"}, up.calls)

		failed := result.FailedItems()
		require.Len(t, failed, 1)
		assert.Equal(t, "b.z64", failed[0].Item.Source.Name)
		assert.ErrorIs(t, failed[0].Err, ErrUploadFailed)

		assert.Equal(t, "2 of 3 uploaded, 1 failed", result.Summary())
	})

	t.Run("empty plan", func(t *testing.T) {
		up := &fakeUploader{}
		result := Execute(context.Background(), up, Plan{DestDir: "/"})

		assert.Empty(t, up.calls)
		assert.Equal(t, "0 of 0 uploaded", result.Summary())
	})
}
