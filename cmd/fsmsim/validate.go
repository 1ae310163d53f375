package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
)

func newValidateCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <definition>...",
		Short: "Check definitions for errors and warnings",
		Long: `Check each definition against the schema and load it. Problems that do not
stop a simulation (dangling states, shadowed transitions, undeclared inputs or
outputs) are reported as warnings; --strict turns them into failures.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, arg := range args {
				def, err := a.loadDefinition(arg)
				if err == nil {
					var m *fsm.Model
					m, err = fsm.Load(def)
					if err == nil {
						warnings := m.Analyse()
						for _, w := range warnings {
							fmt.Fprintf(out, "%s: warning: %s\n", arg, w)
						}
						if strict && len(warnings) > 0 {
							err = fmt.Errorf("%d warning(s)", len(warnings))
						}
					}
				}
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", arg, err)
					failed++
					continue
				}
				fmt.Fprintf(out, "%s: ok\n", arg)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d definition(s) invalid", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}
