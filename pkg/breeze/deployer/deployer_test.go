package deployer

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests use /bin/sh")
	}
}

func TestExecInvoker_Run(t *testing.T) {
	requireShell(t)

	t.Run("captures stdout and exit zero", func(t *testing.T) {
		inv := &ExecInvoker{Binary: "/bin/sh"}

		res, err := inv.Run(context.Background(), "-c", "echo hello")
		require.NoError(t, err)
		assert.True(t, res.OK())
		assert.Equal(t, "hello\n", res.Stdout)
	})

	t.Run("captures stderr", func(t *testing.T) {
		inv := &ExecInvoker{Binary: "/bin/sh"}

		res, err := inv.Run(context.Background(), "-c", "echo oops >&2")
		require.NoError(t, err)
		assert.Equal(t, "oops\n", res.Stderr)
	})

	t.Run("non-zero exit is a result, not an error", func(t *testing.T) {
		inv := &ExecInvoker{Binary: "/bin/sh"}

		res, err := inv.Run(context.Background(), "-c", "exit 3")
		require.NoError(t, err)
		assert.False(t, res.OK())
		assert.Equal(t, 3, res.ExitCode)
	})

	t.Run("missing binary", func(t *testing.T) {
		inv := &ExecInvoker{Binary: "/nonexistent/sc64deployer"}

		_, err := inv.Run(context.Background(), "list")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("timeout kills the process", func(t *testing.T) {
		inv := &ExecInvoker{Binary: "/bin/sh", Timeout: 50 * time.Millisecond}

		start := time.Now()
		_, err := inv.Run(context.Background(), "-c", "sleep 10")
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("arguments pass through as tokens", func(t *testing.T) {
		inv := &ExecInvoker{Binary: "/bin/sh"}

		res, err := inv.Run(context.Background(), "-c", `echo "$1"`, "sh", "name with spaces.z64")
		require.NoError(t, err)
		assert.Equal(t, "name with spaces.z64\n", res.Stdout)
	})
}

func TestClient_Subcommands(t *testing.T) {
	t.Run("ListDir omits path for root", func(t *testing.T) {
		var got []string
		c := NewClient(InvokerFunc(func(ctx context.Context, args ...string) (Result, error) {
			got = args
			return Result{Stdout: "f 1 2024-01-01 00:00:00 | a.z64"}, nil
		}))

		_, err := c.ListDir(context.Background(), "/")
		require.NoError(t, err)
		assert.Equal(t, []string{"sd", "ls"}, got)

		_, err = c.ListDir(context.Background(), "/menu")
		require.NoError(t, err)
		assert.Equal(t, []string{"sd", "ls", "/menu"}, got)
	})

	t.Run("Upload surfaces stderr on failure", func(t *testing.T) {
		c := NewClient(InvokerFunc(func(ctx context.Context, args ...string) (Result, error) {
			return Result{ExitCode: 1, Stderr: "SD card not ready\n"}, nil
		}))

		err := c.Upload(context.Background(), "/roms/a.z64", "/a.z64")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SD card not ready")
	})

	t.Run("Stat treats non-zero exit as not found", func(t *testing.T) {
		c := NewClient(InvokerFunc(func(ctx context.Context, args ...string) (Result, error) {
			return Result{ExitCode: 1}, nil
		}))

		exists, err := c.Stat(context.Background(), "/sc64menu.n64")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Stat reports existing file", func(t *testing.T) {
		c := NewClient(InvokerFunc(func(ctx context.Context, args ...string) (Result, error) {
			return Result{Stdout: "f 1M 2024-01-01 00:00:00 | /sc64menu.n64"}, nil
		}))

		exists, err := c.Stat(context.Background(), "/sc64menu.n64")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("SetClock issues set rtc", func(t *testing.T) {
		var got []string
		c := NewClient(InvokerFunc(func(ctx context.Context, args ...string) (Result, error) {
			got = args
			return Result{}, nil
		}))

		require.NoError(t, c.SetClock(context.Background()))
		assert.Equal(t, []string{"set", "rtc"}, got)
	})
}
