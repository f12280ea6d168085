package config

// Config is the parsed dashboard configuration. It is loaded once at startup
// and treated as an immutable snapshot by every consumer.
type Config struct {
	Calendar  CalendarConfig  `yaml:"calendar"`
	Weather   WeatherConfig   `yaml:"weather"`
	News      NewsConfig      `yaml:"news"`
	Wallpaper WallpaperConfig `yaml:"wallpaper"`
}

type CalendarConfig struct {
	ICSURL string `yaml:"ics_url"`
}

type WeatherConfig struct {
	APIKey   string   `yaml:"api_key"`
	Location Location `yaml:"location"`
}

type Location struct {
	City    string `yaml:"city"`
	Country string `yaml:"country"`
}

type NewsConfig struct {
	RSSFeeds        []RSSFeed    `yaml:"rss_feeds"`
	Reddit          RedditConfig `yaml:"reddit"`
	RefreshInterval int          `yaml:"refresh_interval"` // seconds
}

type RSSFeed struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type RedditConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Subreddits []string `yaml:"subreddits"`
}

type WallpaperConfig struct {
	Subreddits               []string `yaml:"subreddits"`
	SelectionType            string   `yaml:"selection_type"` // "random", "highest" or "" (fetch order)
	ImagePoolRefreshInterval int      `yaml:"image_pool_refresh_interval"` // seconds
}
