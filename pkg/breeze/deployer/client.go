package deployer

import (
	"context"
	"fmt"
	"strings"

	"github.com/breeze64/breeze/pkg/breeze/logging"
)

// Client wraps an Invoker with the sc64deployer subcommand vocabulary.
// It translates operations into argument lists and turns failed transfer
// invocations into errors carrying the deployer's stderr.
type Client struct {
	inv Invoker
	log *logging.Logger
}

// NewClient creates a client over the given invoker.
func NewClient(inv Invoker) *Client {
	return &Client{
		inv: inv,
		log: logging.Get("deployer"),
	}
}

// Devices runs `sc64deployer list` and returns the raw result.
// The stdout contains a "Found devices:" banner when a cart is attached.
func (c *Client) Devices(ctx context.Context) (Result, error) {
	return c.inv.Run(ctx, "list")
}

// Info runs `sc64deployer info` and returns the raw result. The stdout
// holds key/value diagnostic lines such as the firmware version.
func (c *Client) Info(ctx context.Context) (Result, error) {
	return c.inv.Run(ctx, "info")
}

// ListDir runs `sc64deployer sd ls` for the given SD card path.
// The root directory is listed by omitting the path argument.
func (c *Client) ListDir(ctx context.Context, path string) (Result, error) {
	if path == "" || path == "/" {
		return c.inv.Run(ctx, "sd", "ls")
	}
	return c.inv.Run(ctx, "sd", "ls", path)
}

// Upload transfers a local file to the given SD card path.
// A non-zero exit is returned as an error with the deployer's stderr.
func (c *Client) Upload(ctx context.Context, localPath, remotePath string) error {
	res, err := c.inv.Run(ctx, "sd", "upload", localPath, remotePath)
	if err != nil {
		return fmt.Errorf("upload %s: %w", remotePath, err)
	}
	if !res.OK() {
		return fmt.Errorf("upload %s: %s", remotePath, deployerMessage(res))
	}
	c.log.Info("uploaded", "local", localPath, "remote", remotePath)
	return nil
}

// Download transfers a file from the SD card to a local path.
func (c *Client) Download(ctx context.Context, remotePath, localPath string) error {
	res, err := c.inv.Run(ctx, "sd", "download", remotePath, localPath)
	if err != nil {
		return fmt.Errorf("download %s: %w", remotePath, err)
	}
	if !res.OK() {
		return fmt.Errorf("download %s: %s", remotePath, deployerMessage(res))
	}
	c.log.Info("downloaded", "remote", remotePath, "local", localPath)
	return nil
}

// Stat reports whether a file exists on the SD card. The deployer uses
// a non-zero exit for "not found", which is an answer, not a failure.
func (c *Client) Stat(ctx context.Context, remotePath string) (bool, error) {
	res, err := c.inv.Run(ctx, "sd", "stat", remotePath)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", remotePath, err)
	}
	return res.OK(), nil
}

// Remove deletes a file from the SD card.
func (c *Client) Remove(ctx context.Context, remotePath string) error {
	res, err := c.inv.Run(ctx, "sd", "rm", remotePath)
	if err != nil {
		return fmt.Errorf("remove %s: %w", remotePath, err)
	}
	if !res.OK() {
		return fmt.Errorf("remove %s: %s", remotePath, deployerMessage(res))
	}
	c.log.Info("removed", "remote", remotePath)
	return nil
}

// SetClock runs `sc64deployer set rtc`, writing the current system time
// to the cart's real-time clock.
func (c *Client) SetClock(ctx context.Context) error {
	res, err := c.inv.Run(ctx, "set", "rtc")
	if err != nil {
		return fmt.Errorf("set rtc: %w", err)
	}
	if !res.OK() {
		return fmt.Errorf("set rtc: %s", deployerMessage(res))
	}
	c.log.Info("rtc synchronized")
	return nil
}

// deployerMessage extracts a short diagnostic from a failed result,
// preferring stderr over stdout.
func deployerMessage(res Result) string {
	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(res.Stdout)
	}
	if msg == "" {
		return fmt.Sprintf("exit code %d", res.ExitCode)
	}
	return msg
}
