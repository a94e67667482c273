package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/scene2json/internal"
	"github.com/iksnae/scene2json/internal/export"
	"github.com/iksnae/scene2json/internal/scene"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

func newHealthcheckCmd(opts *options) *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check that scene2json can export and cache documents",
		Long: `Check the health of scene2json by verifying:
  • The built-in sample scene exports as valid JSON
  • Indented and compact output carry the same document
  • The export cache can be opened

This command is useful for debugging installation and cache issues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealthcheck(cmd, opts, detailed)
		},
	}
	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "Show detailed diagnostic information")
	return cmd
}

func runHealthcheck(cmd *cobra.Command, opts *options, detailed bool) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	fmt.Fprintln(out, internal.HeaderStyle.Render("scene2json health check"))
	fmt.Fprintln(out)

	fmt.Fprintln(out, infoStyle.Render("Step 1: Exporting sample scene..."))
	sample := scene.CreateFullTestScene()
	var indented, compact bytes.Buffer
	if err := (&export.JSONExporter{}).Export(ctx, sample, &indented); err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Indented export failed:"), err)
		return &exitError{code: ExitWriteFail, err: err}
	}
	if err := (&export.JSONExporter{Compact: true}).Export(ctx, sample, &compact); err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Compact export failed:"), err)
		return &exitError{code: ExitWriteFail, err: err}
	}
	fmt.Fprintln(out, successStyle.Render("✅ Sample scene exported"))
	if detailed {
		fmt.Fprintf(out, "   Indented: %s\n", humanize.Bytes(uint64(indented.Len())))
		fmt.Fprintf(out, "   Compact:  %s\n", humanize.Bytes(uint64(compact.Len())))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, infoStyle.Render("Step 2: Validating documents..."))
	if err := checkSameDocument(indented.Bytes(), compact.Bytes()); err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Validation failed:"), err)
		return &exitError{code: ExitWriteFail, err: err}
	}
	fmt.Fprintln(out, successStyle.Render("✅ Documents are valid and equivalent"))
	fmt.Fprintln(out)

	fmt.Fprintln(out, infoStyle.Render("Step 3: Checking export cache..."))
	cacheOK := checkCache(out, opts.cacheDir, detailed)
	fmt.Fprintln(out)

	if cacheOK {
		fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
	} else {
		fmt.Fprintln(out, warningStyle.Render("⚠️  Exports work, but the cache is unavailable"))
		fmt.Fprintln(out, "   Use --no-cache or --cache-dir to export without it")
	}
	return nil
}

// checkSameDocument parses both documents and compares their values
func checkSameDocument(indented, compact []byte) error {
	if !jsoniter.Valid(indented) {
		return fmt.Errorf("indented output is not valid JSON")
	}
	if !jsoniter.Valid(compact) {
		return fmt.Errorf("compact output is not valid JSON")
	}
	var a, b interface{}
	if err := jsoniter.Unmarshal(indented, &a); err != nil {
		return fmt.Errorf("failed to decode indented output: %w", err)
	}
	if err := jsoniter.Unmarshal(compact, &b); err != nil {
		return fmt.Errorf("failed to decode compact output: %w", err)
	}
	canonA, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(a)
	if err != nil {
		return err
	}
	canonB, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(b)
	if err != nil {
		return err
	}
	if !bytes.Equal(canonA, canonB) {
		return fmt.Errorf("indented and compact output differ")
	}
	return nil
}

func checkCache(out io.Writer, dir string, detailed bool) bool {
	cache, err := internal.OpenCache(dir)
	if err != nil {
		fmt.Fprintln(out, warningStyle.Render("⚠️  Failed to open cache:"), err)
		return false
	}
	defer cache.Close()

	entries, err := cache.Entries()
	if err != nil {
		fmt.Fprintln(out, warningStyle.Render("⚠️  Failed to read cache:"), err)
		return false
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Cache available (%d entries)", len(entries))))
	if detailed {
		fmt.Fprintf(out, "   Directory: %s\n", cache.Dir())
		fmt.Fprintf(out, "   Database: %s\n", cache.DatabasePath())
		if meta, err := cache.LoadMetadata(); err == nil {
			fmt.Fprintf(out, "   Version: %s\n", meta.CacheVersion)
		}
	}
	return true
}
