package cfg

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version != "" {
		return Version
	}
	return "unknown"
}

type rawCfg struct {
	// Application configuration
	Port       string `long:"port" env:"PORT" default:"3000" description:"HTTP server port"`
	ConfigFile string `long:"config" env:"CONFIG_FILE" default:"./config.yml" description:"Path to the dashboard configuration file"`
	StaticDir  string `long:"static-dir" env:"STATIC_DIR" default:"./dist" description:"Directory with the built client bundle"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Wallboard/1.0" description:"User agent string for outbound HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"" description:"Timezone for day grouping and timestamps (e.g., UTC, America/Edmonton)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:       raw.Port,
		ConfigFile: raw.ConfigFile,
		StaticDir:  raw.StaticDir,
		UserAgent:  raw.UserAgent,
		Timezone:   raw.Timezone,
		Debug:      raw.Debug,
		Version:    GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
