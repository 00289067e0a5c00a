package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Giphy: GiphyConfig{
			APIURL:            "http://127.0.0.1:0/v1",
			APIKey:            "test-key",
			HTTPTimeout:       5 * time.Second,
			RequestsPerSecond: 0, // unlimited
			UserAgent:         "gifr-test/1.0",
		},
		UI:    defaultConfig().UI,
		Media: defaultConfig().Media,
		Keys:  defaultConfig().Keys,
		Log:   LogConfig{Level: "off"},
	}
}
