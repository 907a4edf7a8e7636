package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tabdeck/internal/anchor"
	"tabdeck/internal/bookmark"
	"tabdeck/internal/logs"
	"tabdeck/internal/telemetry"
	"tabdeck/internal/ui"
)

type viewOptions struct {
	fragment string
	bookmark string
}

func newViewCmd(a *app) *cobra.Command {
	var o viewOptions
	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Browse the tab groups of an HTML page",
		Long: `Opens FILE in an interactive view. Use ←/→ (h/l) to switch tabs, tab/j/k to
move between groups, 1-9 to pick a tab, and click titles with the mouse.

With --bookmark NAME the view starts from that bookmark (when it exists)
and "s" saves the current selection under NAME.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd.Context(), cmd.OutOrStdout(), args[0], o)
		},
	}
	cmd.Flags().StringVar(&o.fragment, "fragment", "", "Start from this location fragment, e.g. '#os=macos'")
	cmd.Flags().StringVar(&o.bookmark, "bookmark", "", "Start from and save to this bookmark")
	return cmd
}

func (a *app) runView(ctx context.Context, out io.Writer, path string, o viewOptions) error {
	logFile, err := a.logToFile()
	if err != nil {
		return err
	}
	defer logFile.Close()

	tp, err := telemetry.NewProvider(ctx)
	if err != nil {
		logs.Warn("tracing disabled", "err", err)
	}
	defer tp.Shutdown(context.Background())

	reg := anchor.New()
	var opts []ui.Option
	if o.bookmark != "" {
		store, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		b, err := store.Get(ctx, o.bookmark)
		switch {
		case err == nil:
			if err := reg.SetFragment(b.Fragment); err != nil {
				return err
			}
		case !errors.Is(err, bookmark.ErrNotFound):
			return err
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		opts = append(opts, ui.WithSaver(func(fragment string) error {
			_, err := store.Save(ctx, o.bookmark, abs, fragment)
			return err
		}))
	}
	if o.fragment != "" {
		if err := reg.SetFragment(o.fragment); err != nil {
			return err
		}
	}

	p, err := a.loadPage(path, reg, tp)
	if err != nil {
		return err
	}
	defer p.Close()

	model := ui.New(p, opts...)
	defer model.Close()
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("view: %w", err)
	}
	fmt.Fprintln(out, p.Fragment())
	return nil
}

// logToFile keeps log output off the alternate screen.
func (a *app) logToFile() (*os.File, error) {
	path := a.cfg.Log.File
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "")
	if err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}
	logs.InitLogger(f, a.debug())
	return f, nil
}
