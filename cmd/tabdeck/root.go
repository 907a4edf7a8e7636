package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tabdeck/internal/anchor"
	"tabdeck/internal/bookmark"
	"tabdeck/internal/config"
	"tabdeck/internal/logs"
	"tabdeck/internal/markup"
	"tabdeck/internal/page"
	"tabdeck/internal/telemetry"
)

// app carries state shared by every subcommand once the root pre-run has
// loaded the configuration.
type app struct {
	verbose    bool
	configPath string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "tabdeck",
		Short: "Browse and bookmark tabbed HTML pages in the terminal",
		Long: `tabdeck binds the tab groups of an HTML page (.tabs / .tabs__title /
.tabs__body markup) and keeps the selected tabs in a shareable location
fragment such as #os=macos&shell=zsh. Fragments can be saved as named
bookmarks and reopened later.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = c
			logs.InitLogger(cmd.ErrOrStderr(), a.debug())
			return nil
		},
	}
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/tabdeck/config.toml)")
	cmd.AddCommand(newViewCmd(a), newFragmentCmd(a), newBookmarkCmd(a))
	return cmd
}

func (a *app) debug() bool { return a.verbose || a.cfg.Log.Verbose }

// loadPage parses the HTML file at path and binds its groups to reg.
func (a *app) loadPage(path string, reg *anchor.Registry, tp *telemetry.Provider) (*page.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := markup.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p, err := page.Load(doc, reg, page.Config{
		Selectors: a.cfg.TabSelectors(),
		Classes:   a.cfg.TabClasses(),
		Telemetry: tp,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (a *app) openStore(ctx context.Context) (*bookmark.Store, error) {
	return bookmark.Open(ctx, a.cfg.Bookmarks.Path)
}
