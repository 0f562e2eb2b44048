// Command drafter generates orthographic multi-view drawings of part
// models described in drafter's modeling script.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/drafter/pkg/config"
	"github.com/chazu/drafter/pkg/selection"
	"github.com/chazu/drafter/pkg/views"
)

var (
	// configFile is set by the --config flag.
	configFile string

	exportViewNames []string
	exportAll       bool
	exportOutput    string
	exportLog       string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "drafter",
	Short: "Drafter creates orthographic drawings of part models",
	Long: `Drafter evaluates a part model script and lays the selected standard
views (top, bottom, front, back, left, right) onto a drawing sheet, then
saves the drawing as DXF or SVG.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./drafter.yaml or <user config dir>/drafter/drafter.yaml)")

	exportCmd.Flags().StringSliceVar(&exportViewNames, "views", nil, "views to include, e.g. top,front")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "include all six views")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, .dxf or .svg (overrides output_path)")
	exportCmd.Flags().StringVar(&exportLog, "log", "", "diagnostic log file (overrides log_path)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(viewsCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <model.lisp>",
	Short: "Generate a drawing with the selected views",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if exportOutput != "" {
			cfg.OutputPath = exportOutput
		}
		if exportLog != "" {
			cfg.LogPath = exportLog
		}

		sel, err := selectionFromFlags(exportViewNames, exportAll)
		if err != nil {
			return err
		}

		app, err := NewApp(*cfg)
		if err != nil {
			return err
		}
		res := app.ExportViews(args[0], sel)
		if !res.Success {
			for _, e := range res.Errors {
				cmd.PrintErrf("%s:%d: %s\n", args[0], e.Line, e.Message)
			}
			return fmt.Errorf("export failed at %s: %s", res.Stage, res.Message)
		}
		cmd.Printf("Drawing with %d views saved to %s\n", res.Views, res.Path)
		return nil
	},
}

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List the standard views and their sheet positions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("%-8s %-10s %s\n", "VIEW", "POSITION", "STYLE")
		for _, p := range views.Catalog() {
			cmd.Printf("%-8s %-10s %s\n", p.Kind, fmt.Sprintf("(%g, %g)", p.Position.X, p.Position.Y), p.Style)
		}
		cmd.Printf("scale %g\n", views.DefaultScale)
	},
}

// selectionFromFlags builds the selection vector from --views and --all.
// An empty selection is allowed and produces a drawing with no views.
func selectionFromFlags(names []string, all bool) (selection.Vector, error) {
	if all {
		return selection.FromKinds(views.Kinds[:]...)
	}
	var cleaned []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	return selection.Parse(cleaned)
}
