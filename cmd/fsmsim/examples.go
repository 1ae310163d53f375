package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/great-houk/FSM-Simulator/pkg/catalog"
	"github.com/great-houk/FSM-Simulator/pkg/fsmfile"
)

func newExamplesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "List the built-in example automata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTATES\tTRANSITIONS\tLAYOUT")
			for _, name := range catalog.Names() {
				m, err := catalog.Model(name)
				if err != nil {
					return err
				}
				layout := "radial"
				if m.HasPositions() {
					layout = "explicit"
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, len(m.States()), len(m.Transitions()), layout)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print the YAML source of an example",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := catalog.Source(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <name> <file>",
		Short: "Write an example to a JSON or YAML file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := catalog.Definition(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(args[1]); err == nil {
				return fmt.Errorf("%s already exists", args[1])
			}
			if err := fsmfile.WriteFile(args[1], def); err != nil {
				return err
			}
			a.log.Debug("exported example", "name", args[0], "path", args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
			return nil
		},
	})

	return cmd
}
