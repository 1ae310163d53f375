package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/great-houk/FSM-Simulator/pkg/fsmfile"
)

func newPathCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Edit transition curves in a vector editor",
		Long: `Round-trip transition curves through an SVG editor.

"path generate" writes an SVG with one path per transition. Move the circles
and reshape the paths in any editor that keeps the data-* attributes, then
"path import" writes the new positions and curves back into the definition.`,
	}

	var genOut string
	generate := &cobra.Command{
		Use:   "generate <definition>",
		Short: "Write an editable SVG of states and transition paths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.loadDefinition(args[0])
			if err != nil {
				return err
			}
			svg, err := fsmfile.GeneratePathSVG(def)
			if err != nil {
				return err
			}
			if genOut == "" || genOut == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), svg)
				return err
			}
			if err := os.WriteFile(genOut, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", genOut)
			return nil
		},
	}
	generate.Flags().StringVarP(&genOut, "output", "o", "", "output SVG file (default stdout)")

	var impOut string
	imp := &cobra.Command{
		Use:   "import <svg> <definition>",
		Short: "Apply positions and paths from an edited SVG",
		Long: `Read circles with data-state-name and paths with data-from, data-to and
data-input from an edited SVG and store them in the definition. The definition
file is rewritten in place unless --output is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			pi, err := fsmfile.ImportPathSVG(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			def, err := a.loadDefinition(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, u := range pi.Apply(def) {
				fmt.Fprintf(out, "warning: no match for %s\n", u)
			}

			dest := impOut
			if dest == "" {
				dest = args[1]
			}
			if err := fsmfile.WriteFile(dest, def); err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d state(s) and %d path(s) into %s\n", len(pi.States), len(pi.Paths), dest)
			return nil
		},
	}
	imp.Flags().StringVarP(&impOut, "output", "o", "", "write the updated definition here instead")

	cmd.AddCommand(generate, imp)
	return cmd
}
