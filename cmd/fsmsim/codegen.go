package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/great-houk/FSM-Simulator/pkg/codegen"
)

func newCodegenCmd(a *app) *cobra.Command {
	var pkg, output string

	cmd := &cobra.Command{
		Use:   "codegen <definition>",
		Short: "Generate a Go implementation of the automaton",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			src := codegen.GenerateGo(m, pkg)
			if output == "" || output == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), src)
				return err
			}
			return os.WriteFile(output, []byte(src), 0644)
		},
	}

	cmd.Flags().StringVarP(&pkg, "package", "p", "fsm", "package name of the generated file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
