package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/scene2json/internal"
	"github.com/iksnae/scene2json/internal/export"
	"github.com/iksnae/scene2json/internal/scene"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Show statistics for a scene description",
		Long: `Import a scene description and print a summary of its contents:
node count and depth, meshes, vertices, faces, bones, materials,
textures, lights, cameras and animations.

Examples:
  scene2json inspect scene.yaml            # Table output
  scene2json inspect --json scene.yaml     # JSON output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := internal.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return &exitError{code: ExitReadFail, err: err}
			}
			st := scene.Collect(sc)

			if asJSON {
				if err := writeStatsJSON(cmd.OutOrStdout(), st); err != nil {
					return &exitError{code: ExitWriteFail, err: err}
				}
				return nil
			}
			printStats(cmd.OutOrStdout(), args[0], sc, st)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")
	return cmd
}

type statRow struct {
	label string
	key   string
	value int
}

func statRows(st scene.Stats) []statRow {
	return []statRow{
		{"Nodes", "nodes", st.Nodes},
		{"Max depth", "maxdepth", st.MaxDepth},
		{"Meshes", "meshes", st.Meshes},
		{"Vertices", "vertices", st.Vertices},
		{"Faces", "faces", st.Faces},
		{"Bones", "bones", st.Bones},
		{"Materials", "materials", st.Materials},
		{"Textures", "textures", st.Textures},
		{"Lights", "lights", st.Lights},
		{"Cameras", "cameras", st.Cameras},
		{"Animations", "animations", st.Animations},
		{"Channels", "channels", st.Channels},
	}
}

func printStats(out io.Writer, input string, sc *scene.Scene, st scene.Stats) {
	fmt.Fprintln(out, internal.HeaderStyle.Render(fmt.Sprintf("Scene %s", input)))
	if sc.RootNode != nil {
		fmt.Fprintf(out, "Root node: %q\n", sc.RootNode.Name)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	for _, row := range statRows(st) {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row.label, humanize.Comma(int64(row.value)))
	}
	_ = w.Flush()
}

// writeStatsJSON emits the statistics as one indented JSON object
func writeStatsJSON(out io.Writer, st scene.Stats) error {
	w := export.NewWriter(out)
	w.StartObject(false)
	for _, row := range statRows(st) {
		w.Key(row.key)
		w.SimpleInt(int64(row.value))
	}
	w.EndObject()
	if err := w.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}
