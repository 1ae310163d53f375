package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/great-houk/FSM-Simulator/pkg/fsmfile"
)

func newDotCmd(a *app) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "dot <definition>",
		Short: "Print a Graphviz DOT rendering of the automaton",
		Long: `Print the automaton in Graphviz DOT format. Definitions whose states all have
coordinates are pinned, so "neato -n" reproduces the explicit layout.`,
		Example: `  fsmsim dot traffic_light | dot -Tpng -o light.png
  fsmsim dot vending_machine | neato -n -Tsvg -o vm.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.loadDefinition(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), fsmfile.GenerateDOT(def, title))
			return err
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "graph title (default the automaton name)")
	return cmd
}
