package parser

import "strings"

// Status is the structured result of a device status query. It is built
// fresh on every query and never persisted.
type Status struct {
	// Connected reports whether a cart was found on USB.
	Connected bool

	// SDCardReady reports whether the SD card answered a listing probe.
	// The card is only reachable while the console is powered on.
	SDCardReady bool

	// FirmwareVersion is taken from the info output when present.
	FirmwareVersion string

	// Details carries the raw key/value diagnostic lines from the info
	// output, passed through for display.
	Details map[string]string
}

// deviceBanner is printed by `sc64deployer list` when a cart is attached.
const deviceBanner = "Found devices:"

// firmwareKey is the info field holding the firmware version.
const firmwareKey = "Firmware version"

// ParseStatus builds a Status from the raw output of the `list` and
// `info` subcommands. Either input may be empty; missing fields are
// simply absent rather than errors, because a disconnected cart is an
// answer, not a parse failure.
func ParseStatus(devicesOut, infoOut string) Status {
	status := Status{
		Connected: strings.Contains(devicesOut, deviceBanner),
		Details:   make(map[string]string),
	}

	for _, raw := range strings.Split(infoOut, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		status.Details[key] = value
	}

	status.FirmwareVersion = status.Details[firmwareKey]
	return status
}
