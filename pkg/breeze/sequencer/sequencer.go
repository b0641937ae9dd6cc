// Package sequencer drives the menu update flow: back up the cart's
// current menu image to a timestamped path, then upload the replacement.
// The safety policy is absolute: a working menu is never overwritten
// without a successful backup.
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/breeze64/breeze/pkg/breeze/inventory"
	"github.com/breeze64/breeze/pkg/breeze/logging"
)

// ErrBackupFailed indicates the backup phase failed; the update is
// aborted before any destructive write.
var ErrBackupFailed = errors.New("menu backup failed")

// ErrNotIdle indicates Run was called on a finished sequencer. Terminal
// states are not re-entrant; a new update starts a fresh sequencer.
var ErrNotIdle = errors.New("menu update sequence already ran")

// State is the sequencer's position in the update flow.
type State int

// Sequence states. Transitions: Idle -> BackingUp -> Uploading -> Done,
// with an error exit from BackingUp or Uploading to Failed. BackingUp
// is skipped when no menu image exists on the cart.
const (
	StateIdle State = iota
	StateBackingUp
	StateUploading
	StateDone
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBackingUp:
		return "backing-up"
	case StateUploading:
		return "uploading"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Transfer is the slice of the deployer client the sequencer needs.
type Transfer interface {
	Upload(ctx context.Context, localPath, remotePath string) error
	Download(ctx context.Context, remotePath, localPath string) error
	Stat(ctx context.Context, remotePath string) (bool, error)
}

// Options configures a menu update sequence.
type Options struct {
	// MenuPath is the menu image's location on the SD card.
	MenuPath string

	// WorkDir receives the temporary download during backup.
	// Empty uses the OS temp directory.
	WorkDir string

	// Now supplies the backup timestamp. Nil uses time.Now.
	Now func() time.Time
}

// Sequencer executes one menu update. It is single-use: create a new
// one per update request.
type Sequencer struct {
	transfer Transfer
	opts     Options
	log      *logging.Logger

	state          State
	backupTarget   string
	uploadAttempts int
}

// New creates a sequencer in the Idle state.
func New(transfer Transfer, opts Options) *Sequencer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.WorkDir == "" {
		opts.WorkDir = os.TempDir()
	}
	return &Sequencer{
		transfer: transfer,
		opts:     opts,
		log:      logging.Get("sequencer"),
		state:    StateIdle,
	}
}

// State returns the current state.
func (s *Sequencer) State() State {
	return s.state
}

// BackupTarget returns the remote path of the timestamped backup, or ""
// when no backup was made.
func (s *Sequencer) BackupTarget() string {
	return s.backupTarget
}

// UploadAttempts returns how many times the new image upload was tried.
func (s *Sequencer) UploadAttempts() int {
	return s.uploadAttempts
}

// Run executes the sequence for the chosen replacement image.
//
// If the cart has a current menu image it is copied to a timestamped
// remote path first; any failure there returns ErrBackupFailed with the
// upload never attempted. If no menu is present the backup phase is
// skipped. An upload failure leaves the backup in place for manual
// recovery; there is no rollback.
func (s *Sequencer) Run(ctx context.Context, image inventory.LocalFile) error {
	if s.state != StateIdle {
		return fmt.Errorf("%w (state %s)", ErrNotIdle, s.state)
	}

	exists, err := s.transfer.Stat(ctx, s.opts.MenuPath)
	if err != nil {
		s.state = StateFailed
		return fmt.Errorf("checking current menu: %w", err)
	}

	if exists {
		s.state = StateBackingUp
		if err := s.backup(ctx); err != nil {
			s.state = StateFailed
			return fmt.Errorf("%w: %v", ErrBackupFailed, err)
		}
	} else {
		s.log.Info("no menu on cart, skipping backup", "path", s.opts.MenuPath)
	}

	s.state = StateUploading
	s.uploadAttempts++
	if err := s.transfer.Upload(ctx, image.Path, s.opts.MenuPath); err != nil {
		s.state = StateFailed
		if s.backupTarget != "" {
			s.log.Warn("menu upload failed, backup kept", "backup", s.backupTarget)
		}
		return fmt.Errorf("uploading new menu: %w", err)
	}

	s.state = StateDone
	s.log.Info("menu updated", "image", image.Name, "backup", s.backupTarget)
	return nil
}

// backup copies the current menu image to a timestamped remote path.
// The deployer has no server-side copy, so this is a download to a
// temporary file followed by an upload.
func (s *Sequencer) backup(ctx context.Context) error {
	target := BackupPath(s.opts.MenuPath, s.opts.Now())

	tmp, err := os.CreateTemp(s.opts.WorkDir, "menu-backup-*"+filepath.Ext(s.opts.MenuPath))
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if err := s.transfer.Download(ctx, s.opts.MenuPath, tmpPath); err != nil {
		return err
	}
	if err := s.transfer.Upload(ctx, tmpPath, target); err != nil {
		return err
	}

	s.backupTarget = target
	s.log.Info("menu backed up", "target", target)
	return nil
}

// backupTimeFormat is sortable: YYYYMMDD-HHMMSS.
const backupTimeFormat = "20060102-150405"

// BackupPath inserts a timestamp before the extension of a remote path:
// /sc64menu.n64 becomes /sc64menu-20240601-120000.n64.
func BackupPath(remotePath string, t time.Time) string {
	ext := filepath.Ext(remotePath)
	base := strings.TrimSuffix(remotePath, ext)
	return fmt.Sprintf("%s-%s%s", base, t.Format(backupTimeFormat), ext)
}
