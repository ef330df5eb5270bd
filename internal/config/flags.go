package config

import "flag"

var (
	flagConfig        = flag.String("config", "", "Path to config file")
	flagDebug         = flag.Bool("debug", false, "Enable debug logging and frame stats")
	flagWindowed      = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen    = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth         = flag.Int("width", 0, "Window width")
	flagHeight        = flag.Int("height", 0, "Window height")
	flagStatsInterval = flag.Int("stats-interval", -1, "Log pass stats every N frames (0 = off)")
	flagNoDepthTest   = flag.Bool("no-depth-test", false, "Disable depth testing")
	flagIcon          = flag.String("icon", "", "Hotbar icon image (TGA, BMP or PNG)")
)

// debugStatsInterval is the stats interval turned on by --debug.
const debugStatsInterval = 300

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		if cfg.Render.StatsInterval == 0 {
			cfg.Render.StatsInterval = debugStatsInterval
		}
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagStatsInterval >= 0 {
		cfg.Render.StatsInterval = *flagStatsInterval
	}
	if *flagNoDepthTest {
		cfg.Render.DepthTest = false
	}
	if *flagIcon != "" {
		cfg.Demo.Icon = *flagIcon
	}
}
