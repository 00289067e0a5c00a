package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/gifr/internal/validation"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Giphy    GiphyConfig    `mapstructure:"giphy"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GiphyConfig configures access to the upstream media API.
type GiphyConfig struct {
	APIURL            string        `mapstructure:"api_url"`
	APIKey            string        `mapstructure:"api_key"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	UserAgent         string        `mapstructure:"user_agent"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
	// ScrollThreshold is the number of lines from the bottom of the
	// trending grid at which the next page is requested.
	ScrollThreshold int `mapstructure:"scroll_threshold"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type MediaConfig struct {
	Darwin        MediaViewers `mapstructure:"darwin"`
	Linux         MediaViewers `mapstructure:"linux"`
	Windows       MediaViewers `mapstructure:"windows"`
	DefaultOpener string       `mapstructure:"default_opener"`
}

type MediaViewers struct {
	Image []string `mapstructure:"image"`
	Video []string `mapstructure:"video"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit      string `mapstructure:"quit"`
	Search    string `mapstructure:"search"`
	Trending  string `mapstructure:"trending"`
	History   string `mapstructure:"history"`
	OpenMedia string `mapstructure:"open_media"`
	FindLocal string `mapstructure:"find_local"`
	Back      string `mapstructure:"back"`
	Help      string `mapstructure:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

const defaultAPIURL = "https://api.giphy.com/v1"

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Path:    filepath.Join(homeDir, ".gifr.db"),
			Timeout: 1 * time.Second,
		},
		Giphy: GiphyConfig{
			APIURL:            defaultAPIURL,
			HTTPTimeout:       15 * time.Second,
			RequestsPerSecond: 4,
			UserAgent:         "gifr/1.0 (https://github.com/pders01/gifr)",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			ScrollThreshold: 6,
		},
		Media: MediaConfig{
			Darwin: MediaViewers{
				Image: []string{"qlmanage", "open"},
				Video: []string{"iina", "mpv", "open"},
			},
			Linux: MediaViewers{
				Image: []string{"sxiv", "feh", "eog", "xdg-open"},
				Video: []string{"mpv", "vlc", "xdg-open"},
			},
			Windows: MediaViewers{
				Image: []string{"start"},
				Video: []string{"mpv", "start"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:      "q",
				Search:    "s",
				Trending:  "t",
				History:   "h",
				OpenMedia: "o",
				FindLocal: "f",
				Back:      "esc",
				Help:      "?",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".gifr", "gifr.log"),
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("database", cfg.Database)
	// Leaf defaults so a config file that only sets api_key keeps the rest.
	v.SetDefault("giphy.api_url", cfg.Giphy.APIURL)
	v.SetDefault("giphy.api_key", cfg.Giphy.APIKey)
	v.SetDefault("giphy.http_timeout", cfg.Giphy.HTTPTimeout)
	v.SetDefault("giphy.requests_per_second", cfg.Giphy.RequestsPerSecond)
	v.SetDefault("giphy.user_agent", cfg.Giphy.UserAgent)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("media", cfg.Media)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "gifr")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GIFR")
	v.AutomaticEnv()
	// Nested keys are not picked up by AutomaticEnv unless bound explicitly.
	_ = v.BindEnv("giphy.api_key", "GIFR_GIPHY_API_KEY", "GIPHY_API_KEY")
	_ = v.BindEnv("giphy.api_url", "GIFR_GIPHY_API_URL")
	_ = v.BindEnv("log.level", "GIFR_LOG_LEVEL")
	_ = v.BindEnv("log.file", "GIFR_LOG_FILE")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	apiURL, err := validation.NewAPIURLValidator().ValidateAndNormalize(config.Giphy.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid giphy.api_url: %w", err)
	}
	config.Giphy.APIURL = apiURL

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	// "-" means stderr.
	if cfg.Log.File != "-" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings so the TOML stays readable.
	dbCfg := map[string]interface{}{
		"path":    config.Database.Path,
		"timeout": config.Database.Timeout.String(),
	}

	giphyCfg := map[string]interface{}{
		"api_url":             config.Giphy.APIURL,
		"api_key":             config.Giphy.APIKey,
		"http_timeout":        config.Giphy.HTTPTimeout.String(),
		"requests_per_second": config.Giphy.RequestsPerSecond,
		"user_agent":          config.Giphy.UserAgent,
	}

	v.Set("database", dbCfg)
	v.Set("giphy", giphyCfg)
	v.Set("ui", config.UI)
	v.Set("media", config.Media)
	v.Set("keys", config.Keys)
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// DefaultPath is where Load looks for the config file first.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "gifr", "config.toml")
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
