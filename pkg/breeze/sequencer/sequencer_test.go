package sequencer

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeze64/breeze/pkg/breeze/inventory"
)

// fakeTransfer simulates the deployer's transfer surface. Uploads and
// downloads are recorded; configured operations fail.
type fakeTransfer struct {
	menuExists  bool
	statErr     error
	downloadErr error
	failUploads map[string]error
	uploads     []string
	downloads   []string
}

func (f *fakeTransfer) Stat(ctx context.Context, remotePath string) (bool, error) {
	return f.menuExists, f.statErr
}

func (f *fakeTransfer) Download(ctx context.Context, remotePath, localPath string) error {
	f.downloads = append(f.downloads, remotePath)
	if f.downloadErr != nil {
		return f.downloadErr
	}
	return os.WriteFile(localPath, []byte("menu image bytes"), 0o644)
}

func (f *fakeTransfer) Upload(ctx context.Context, localPath, remotePath string) error {
	f.uploads = append(f.uploads, remotePath)
	if err, ok := f.failUploads[remotePath]; ok {
		return err
	}
	return nil
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestImage(t *testing.T) inventory.LocalFile {
	t.Helper()
	path := t.TempDir() + "/sc64menu.n64"
	require.NoError(t, os.WriteFile(path, []byte("new menu"), 0o644))
	return inventory.LocalFile{Name: "sc64menu.n64", Path: path, Size: 8}
}

func newSequencer(t *testing.T, transfer Transfer) *Sequencer {
	t.Helper()
	return New(transfer, Options{
		MenuPath: "/sc64menu.n64",
		WorkDir:  t.TempDir(),
		Now:      fixedNow,
	})
}

func TestRun_BackupThenReplace(t *testing.T) {
	transfer := &fakeTransfer{menuExists: true}
	seq := newSequencer(t, transfer)

	err := seq.Run(context.Background(), newTestImage(t))
	require.NoError(t, err)

	assert.Equal(t, StateDone, seq.State())
	assert.Equal(t, "/sc64menu-20240601-120000.n64", seq.BackupTarget())
	assert.Equal(t, []string{"/sc64menu.n64"}, transfer.downloads)
	// Backup upload happens before the replacement upload.
	assert.Equal(t, []string{"/sc64menu-20240601-120000.n64", "/sc64menu.n64"}, transfer.uploads)
}

func TestRun_NoMenuSkipsBackup(t *testing.T) {
	transfer := &fakeTransfer{menuExists: false}
	seq := newSequencer(t, transfer)

	err := seq.Run(context.Background(), newTestImage(t))
	require.NoError(t, err)

	assert.Equal(t, StateDone, seq.State())
	assert.Empty(t, seq.BackupTarget())
	assert.Empty(t, transfer.downloads)
	assert.Equal(t, []string{"/sc64menu.n64"}, transfer.uploads)
}

func TestRun_BackupDownloadFailure(t *testing.T) {
	transfer := &fakeTransfer{
		menuExists:  true,
		downloadErr: errors.New("USB timeout"),
	}
	seq := newSequencer(t, transfer)

	err := seq.Run(context.Background(), newTestImage(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackupFailed)

	assert.Equal(t, StateFailed, seq.State())
	// The current menu must never be overwritten without a backup.
	assert.Equal(t, 0, seq.UploadAttempts())
	assert.NotContains(t, transfer.uploads, "/sc64menu.n64")
}

func TestRun_BackupUploadFailure(t *testing.T) {
	transfer := &fakeTransfer{
		menuExists: true,
		failUploads: map[string]error{
			"/sc64menu-20240601-120000.n64": errors.New("card full"),
		},
	}
	seq := newSequencer(t, transfer)

	err := seq.Run(context.Background(), newTestImage(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackupFailed)
	assert.Equal(t, StateFailed, seq.State())
	assert.Equal(t, 0, seq.UploadAttempts())
}

func TestRun_UploadFailureKeepsBackup(t *testing.T) {
	transfer := &fakeTransfer{
		menuExists: true,
		failUploads: map[string]error{
			"/sc64menu.n64": errors.New("write error"),
		},
	}
	seq := newSequencer(t, transfer)

	err := seq.Run(context.Background(), newTestImage(t))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBackupFailed)

	assert.Equal(t, StateFailed, seq.State())
	assert.Equal(t, 1, seq.UploadAttempts())
	// The backup survives an upload failure for manual recovery.
	assert.Equal(t, "/sc64menu-20240601-120000.n64", seq.BackupTarget())
}

func TestRun_StatFailure(t *testing.T) {
	transfer := &fakeTransfer{statErr: errors.New("no card")}
	seq := newSequencer(t, transfer)

	err := seq.Run(context.Background(), newTestImage(t))
	require.Error(t, err)
	assert.Equal(t, StateFailed, seq.State())
	assert.Empty(t, transfer.uploads)
}

func TestRun_SingleUse(t *testing.T) {
	transfer := &fakeTransfer{menuExists: false}
	seq := newSequencer(t, transfer)

	require.NoError(t, seq.Run(context.Background(), newTestImage(t)))

	err := seq.Run(context.Background(), newTestImage(t))
	assert.ErrorIs(t, err, ErrNotIdle)
}

func TestBackupPath(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "/sc64menu-20240601-120000.n64", BackupPath("/sc64menu.n64", at))
	assert.Equal(t, "/menu/build-20240601-120000.z64", BackupPath("/menu/build.z64", at))
	assert.Equal(t, "/noext-20240601-120000", BackupPath("/noext", at))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "backing-up", StateBackingUp.String())
	assert.Equal(t, "uploading", StateUploading.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "failed", StateFailed.String())
}
