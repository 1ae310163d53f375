package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
	"github.com/great-houk/FSM-Simulator/pkg/fsmfile"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <definition> <output>",
		Short: "Rewrite a definition as JSON or YAML",
		Long: `Rewrite a definition in the format named by the output extension
(.json, .yaml or .yml). State, transition and input order are kept.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.loadDefinition(args[0])
			if err != nil {
				return err
			}
			if _, err := fsm.Load(def); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err := fsmfile.WriteFile(args[1], def); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
			return nil
		},
	}
}
