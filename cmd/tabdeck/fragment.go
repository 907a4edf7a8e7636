package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tabdeck/internal/anchor"
	"tabdeck/internal/telemetry"
)

type fragmentOptions struct {
	from   string
	clicks []string
	html   bool
}

func newFragmentCmd(a *app) *cobra.Command {
	var o fragmentOptions
	cmd := &cobra.Command{
		Use:   "fragment FILE",
		Short: "Apply tab clicks to a page and print the resulting fragment",
		Long: `Loads FILE, applies --from (a starting fragment) and then each --click
GROUP=TAB in order, exactly as if the titles had been clicked, and prints
the location fragment. With --html the updated page is printed instead.`,
		Example: `  tabdeck fragment install.html --click os=macos --click shell=zsh
  tabdeck fragment install.html --from '#os=windows' --html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFragment(cmd.Context(), cmd.OutOrStdout(), args[0], o)
		},
	}
	cmd.Flags().StringVar(&o.from, "from", "", "Starting location fragment")
	cmd.Flags().StringArrayVar(&o.clicks, "click", nil, "GROUP=TAB to click (repeatable)")
	cmd.Flags().BoolVar(&o.html, "html", false, "Print the updated HTML instead of the fragment")
	return cmd
}

func (a *app) runFragment(ctx context.Context, out io.Writer, path string, o fragmentOptions) error {
	tp, err := telemetry.NewProvider(ctx)
	if err != nil {
		return err
	}
	defer tp.Shutdown(context.Background())

	reg := anchor.New()
	if err := reg.SetFragment(o.from); err != nil {
		return err
	}
	p, err := a.loadPage(path, reg, tp)
	if err != nil {
		return err
	}
	defer p.Close()

	for _, c := range o.clicks {
		group, tab, ok := strings.Cut(c, "=")
		if !ok {
			return fmt.Errorf("--click %q: want GROUP=TAB", c)
		}
		if err := p.Click(group, tab); err != nil {
			return err
		}
	}

	if o.html {
		return p.Document().Render(out)
	}
	fmt.Fprintln(out, p.Fragment())
	return nil
}
