package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigError reports required configuration that is missing or unusable,
// e.g. no calendar URL or no weather API key.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&c)

	if err := validate(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

func applyDefaults(c *Config) {
	if c.News.RefreshInterval == 0 {
		c.News.RefreshInterval = 600
	}
	if c.Wallpaper.ImagePoolRefreshInterval == 0 {
		c.Wallpaper.ImagePoolRefreshInterval = 7200
	}
	if c.Wallpaper.SelectionType == "" {
		c.Wallpaper.SelectionType = "random"
	}
}

func validate(c *Config) error {
	nonNegativeFields := map[string]int{
		"news refresh interval":       c.News.RefreshInterval,
		"image pool refresh interval": c.Wallpaper.ImagePoolRefreshInterval,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	for i, feed := range c.News.RSSFeeds {
		if feed.URL == "" {
			return fmt.Errorf("rss feed at index %d has no URL", i)
		}
	}

	return nil
}

// Sanitized returns a copy safe to hand to the browser client: the weather
// API key and the private calendar URL are stripped.
func (c *Config) Sanitized() Config {
	out := *c
	out.Weather.APIKey = ""
	out.Calendar.ICSURL = ""
	return out
}
