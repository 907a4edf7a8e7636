// Package config loads tabdeck settings from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"tabdeck/internal/tabs"
)

// Config holds application configuration.
type Config struct {
	Classes   ClassesConfig
	Selectors SelectorsConfig
	Bookmarks BookmarksConfig
	Log       LogConfig
}

// ClassesConfig names the active marker classes.
type ClassesConfig struct {
	ActiveTitle string `mapstructure:"active_title"`
	ActiveBody  string `mapstructure:"active_body"`
}

// SelectorsConfig names the classes identifying each markup role.
type SelectorsConfig struct {
	Group   string
	Titles  string
	Title   string
	Control string
	Body    string
}

// BookmarksConfig holds the bookmark database location.
type BookmarksConfig struct {
	Path string
}

// LogConfig controls logging.
type LogConfig struct {
	Verbose bool
	// File receives logs while the terminal UI owns the screen.
	File string
}

// Load reads configuration from path (or the default location when empty)
// and the environment. Env var overrides use prefix TABDECK_, e.g.
// TABDECK_CLASSES_ACTIVE_TITLE. A missing default config file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()

	dataDir := defaultDataDir()
	v.SetDefault("classes.active_title", tabs.DefaultClasses.ActiveTitle)
	v.SetDefault("classes.active_body", tabs.DefaultClasses.ActiveBody)
	v.SetDefault("selectors.group", tabs.DefaultSelectors.Group)
	v.SetDefault("selectors.titles", tabs.DefaultSelectors.Titles)
	v.SetDefault("selectors.title", tabs.DefaultSelectors.Title)
	v.SetDefault("selectors.control", tabs.DefaultSelectors.Control)
	v.SetDefault("selectors.body", tabs.DefaultSelectors.Body)
	v.SetDefault("bookmarks.path", filepath.Join(dataDir, "bookmarks.db"))
	v.SetDefault("log.verbose", false)
	v.SetDefault("log.file", filepath.Join(dataDir, "tabdeck.log"))

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv("TABDECK_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "tabdeck"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TABDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// TabClasses converts the configured classes.
func (c Config) TabClasses() tabs.Classes {
	return tabs.Classes{ActiveTitle: c.Classes.ActiveTitle, ActiveBody: c.Classes.ActiveBody}
}

// TabSelectors converts the configured selectors.
func (c Config) TabSelectors() tabs.Selectors {
	return tabs.Selectors{
		Group:   c.Selectors.Group,
		Titles:  c.Selectors.Titles,
		Title:   c.Selectors.Title,
		Control: c.Selectors.Control,
		Body:    c.Selectors.Body,
	}
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "tabdeck")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "tabdeck")
}
