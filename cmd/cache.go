package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/scene2json/internal"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	formatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

func newCacheCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the export cache",
	}
	cmd.AddCommand(newCacheListCmd(opts))
	cmd.AddCommand(newCacheClearCmd(opts))
	return cmd
}

func newCacheListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := internal.OpenCache(opts.cacheDir)
			if err != nil {
				return err
			}
			defer cache.Close()

			entries, err := cache.Entries()
			if err != nil {
				return err
			}
			displayEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newCacheClearCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := internal.OpenCache(opts.cacheDir)
			if err != nil {
				return err
			}
			defer cache.Close()

			n, err := cache.Clear()
			if err != nil {
				return err
			}
			internal.PrintSuccess(fmt.Sprintf("Cleared %d cached export(s) from %s", n, cache.Dir()))
			return nil
		},
	}
}

func displayEntries(out io.Writer, entries []internal.CacheEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, internal.HeaderStyle.Render("No cached exports"))
		return
	}

	fmt.Fprintln(out, internal.HeaderStyle.Render(fmt.Sprintf("%d cached export(s)", len(entries))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("Input")+"\t"+titleStyle.Render("Format")+"\t"+titleStyle.Render("Size")+"\t"+titleStyle.Render("Cached")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			e.InputPath,
			formatStyle.Render(e.Format),
			humanize.Bytes(uint64(e.OutputSize)),
			dateStyle.Render(humanize.Time(e.CreatedAt)),
		)
	}
	_ = w.Flush()
}
