package config

// Default values applied when no config file or environment override
// is present.
const (
	// DefaultDeployerBinary is looked up on PATH when no explicit path
	// is configured.
	DefaultDeployerBinary = "sc64deployer"

	// DefaultTimeoutSeconds bounds one deployer invocation.
	DefaultTimeoutSeconds = 120

	// DefaultROMsDir holds local ROM candidates, relative to the
	// working directory.
	DefaultROMsDir = "roms"

	// DefaultMenuVersionsDir holds local menu image builds.
	DefaultMenuVersionsDir = "menu_versions"

	// DefaultMenuMusicDir holds local menu music candidates.
	DefaultMenuMusicDir = "menu_music"

	// DefaultMenuPath is the menu image's location on the SD card.
	DefaultMenuPath = "/sc64menu.n64"

	// DefaultMusicPath is the menu background music location on the SD
	// card. Only honored by menu builds with music support.
	DefaultMusicPath = "/menu/bg.mp3"

	// DefaultHistoryRetentionDays controls history cleanup.
	DefaultHistoryRetentionDays = 90
)
