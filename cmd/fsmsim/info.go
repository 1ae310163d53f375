package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/great-houk/FSM-Simulator/pkg/layout"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <definition>",
		Short: "Summarise a definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprint(out, m.String())
			if m.Description() != "" {
				fmt.Fprintf(out, "  Description: %s\n", m.Description())
			}
			if outs := m.OutputNames(); len(outs) > 0 {
				fmt.Fprintf(out, "  Outputs: %s\n", strings.Join(outs, ", "))
			}

			groups := make(map[int][]string)
			var order []int
			for _, in := range m.Inputs() {
				if g, ok := in.ExclusiveGroup(); ok {
					if _, seen := groups[g]; !seen {
						order = append(order, g)
					}
					groups[g] = append(groups[g], in.Name)
				}
			}
			for _, g := range order {
				fmt.Fprintf(out, "  Exclusive group %d: %s\n", g, strings.Join(groups[g], ", "))
			}

			eng := layout.NewEngine(m, float64(a.cfg.Width), float64(a.cfg.Height))
			fmt.Fprintf(out, "  Layout: %s\n", eng.Mode())

			loops, explicit := 0, 0
			for _, t := range m.Transitions() {
				if t.IsSelfLoop() {
					loops++
				}
				if t.HasPath() {
					explicit++
				}
			}
			fmt.Fprintf(out, "  Self-loops: %d, explicit paths: %d\n", loops, explicit)

			if warnings := m.Analyse(); len(warnings) > 0 {
				fmt.Fprintf(out, "  Warnings: %d (see fsmsim validate)\n", len(warnings))
			}
			return nil
		},
	}
}
