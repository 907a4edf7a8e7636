package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tabdeck/internal/anchor"
)

func newBookmarkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Manage saved tab selections",
	}
	cmd.AddCommand(
		newBookmarkSaveCmd(a),
		newBookmarkListCmd(a),
		newBookmarkShowCmd(a),
		newBookmarkRmCmd(a),
	)
	return cmd
}

func newBookmarkSaveCmd(a *app) *cobra.Command {
	var fragment string
	cmd := &cobra.Command{
		Use:   "save NAME FILE",
		Short: "Save a fragment for FILE under NAME",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]

			// The fragment must restore cleanly on the page before it is stored.
			reg := anchor.New()
			if err := reg.SetFragment(fragment); err != nil {
				return err
			}
			p, err := a.loadPage(path, reg, nil)
			if err != nil {
				return err
			}
			p.Close()

			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := store.Save(cmd.Context(), name, abs, p.Fragment())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s → %s%s\n", b.Name, b.Document, b.Fragment)
			return nil
		},
	}
	cmd.Flags().StringVar(&fragment, "fragment", "", "Location fragment to save, e.g. '#os=macos'")
	return cmd
}

func newBookmarkListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no bookmarks")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFRAGMENT\tDOCUMENT\tUPDATED")
			for _, b := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Name, b.Fragment, b.Document, b.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newBookmarkShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print a bookmark as FILE#FRAGMENT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.Document+b.Fragment)
			return nil
		},
	}
}

func newBookmarkRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Delete(cmd.Context(), args[0])
		},
	}
}
