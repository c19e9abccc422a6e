package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagInventory  = flag.String("inventory", "", "Path to inventory YAML file")
	flagModel      = flag.String("model", "", "Container model URI (empty uses the built-in cabinet)")
	flagFilter     = flag.String("filter", "", "Show only items whose name or category contains this text")
	flagCategory   = flag.String("category", "", "Show only items in this category")
)

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
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagInventory != "" {
		cfg.Scene.InventoryFile = *flagInventory
	}
	if *flagModel != "" {
		cfg.Assets.ContainerURI = *flagModel
	}
	if *flagFilter != "" {
		cfg.Scene.Filter.Query = *flagFilter
	}
	if *flagCategory != "" {
		cfg.Scene.Filter.Category = *flagCategory
	}
}
