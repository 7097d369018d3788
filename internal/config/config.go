package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Theme       ThemeConfig      `toml:"theme"`
	Display     DisplayConfig    `toml:"display"`
	Keybindings KeybindingConfig `toml:"keybindings"`
}

// ThemeConfig defines color choices. Color values are palette names
// (red, dark_cyan, ...) validated against the bounded highlight palette.
type ThemeConfig struct {
	SearchMatch string `toml:"search_match"`
	StatusBar   string `toml:"status_bar"`
	StatusText  string `toml:"status_text"`
}

// DisplayConfig holds display options.
// MaxRowsPerLine caps how many terminal rows one wrapped logical line may
// occupy; pagination and rendering both read this single value.
type DisplayConfig struct {
	MaxRowsPerLine  int  `toml:"max_rows_per_line"`
	SyntaxHighlight bool `toml:"syntax_highlight"`
}

// KeybindingConfig allows customizing keybindings
type KeybindingConfig struct {
	Quit        []string `toml:"quit"`
	CursorUp    []string `toml:"cursor_up"`
	CursorDown  []string `toml:"cursor_down"`
	CursorLeft  []string `toml:"cursor_left"`
	CursorRight []string `toml:"cursor_right"`
	PageUp      []string `toml:"page_up"`
	PageDown    []string `toml:"page_down"`
	Top         []string `toml:"top"`
	Bottom      []string `toml:"bottom"`
	HideLine    []string `toml:"hide_line"`
	Isolate     []string `toml:"isolate"`
	Unisolate   []string `toml:"unisolate"`
	Expand      []string `toml:"expand"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			SearchMatch: "red",
			StatusBar:   "dark_grey",
			StatusText:  "white",
		},
		Display: DisplayConfig{
			MaxRowsPerLine:  3,
			SyntaxHighlight: true,
		},
		Keybindings: KeybindingConfig{
			Quit:        []string{"q", "ctrl+c"},
			CursorUp:    []string{"k", "up"},
			CursorDown:  []string{"j", "down"},
			CursorLeft:  []string{"h", "left"},
			CursorRight: []string{"l", "right"},
			PageUp:      []string{"b", "pgup"},
			PageDown:    []string{"f", "pgdown", " "},
			Top:         []string{"g", "<"},
			Bottom:      []string{"G", ">"},
			HideLine:    []string{"x"},
			Isolate:     []string{"o"},
			Unisolate:   []string{"O"},
			Expand:      []string{"e"},
		},
	}
}

// Load loads config from file, falling back to defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.Display.MaxRowsPerLine < 1 {
		cfg.Display.MaxRowsPerLine = 1
	}

	return cfg, nil
}

// Save saves config to file
func Save(cfg *Config) error {
	configPath := getConfigPath()
	if configPath == "" {
		return nil
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "loglens", "config.toml")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "loglens", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
