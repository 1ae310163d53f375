package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/great-houk/FSM-Simulator/internal/config"
	"github.com/great-houk/FSM-Simulator/internal/logging"
	"github.com/great-houk/FSM-Simulator/pkg/catalog"
	"github.com/great-houk/FSM-Simulator/pkg/fsm"
	"github.com/great-houk/FSM-Simulator/pkg/fsmfile"
)

// app is the state shared by all commands, filled in before any of them run.
type app struct {
	verbose    bool
	configPath string
	cfg        config.Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logging.NewNop()}

	root := &cobra.Command{
		Use:   "fsmsim",
		Short: "Finite state automaton simulator",
		Long: `fsmsim loads automaton definitions (JSON or YAML), steps them one input at a
time with back/branch history, and renders their graphs as SVG or PNG.

A definition argument is either a file path or the name of a built-in
example (see "fsmsim examples").`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = logging.New(logging.Level(a.verbose))
			cfg, err := config.Load(a.configPath)
			if err != nil {
				a.log.Warn("using default config", "error", err)
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log simulation steps to stderr")
	root.PersistentFlags().StringVar(&a.configPath, "config", config.Path(), "config file")

	root.AddCommand(
		newRunCmd(a),
		newPlayCmd(a),
		newRenderCmd(a),
		newValidateCmd(a),
		newInfoCmd(a),
		newExamplesCmd(a),
		newDotCmd(a),
		newConvertCmd(a),
		newPathCmd(a),
		newConfigCmd(a),
		newCodegenCmd(a),
	)
	return root
}

// loadDefinition reads a definition file, or a built-in example when no
// file of that name exists.
func (a *app) loadDefinition(arg string) (*fsm.Definition, error) {
	if _, err := os.Stat(arg); err == nil {
		return fsmfile.ReadFile(arg)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	def, err := catalog.Definition(arg)
	if err != nil {
		return nil, fmt.Errorf("%s: no such file or example", arg)
	}
	return def, nil
}

// loadModel is loadDefinition followed by fsm.Load. Definition warnings are
// logged, not fatal.
func (a *app) loadModel(arg string) (*fsm.Model, error) {
	def, err := a.loadDefinition(arg)
	if err != nil {
		return nil, err
	}
	m, err := fsm.Load(def)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", arg, err)
	}
	for _, w := range m.Analyse() {
		a.log.Warn("definition problem", "source", arg, "problem", w)
	}
	a.log.Debug("loaded automaton", "source", arg, "states", len(m.States()), "transitions", len(m.Transitions()))
	return m, nil
}

// rememberDir records the directory of a simulated definition file in the
// config. Only the simulating commands call it, and built-in examples are
// not files, so they leave the config alone. Failing to save is not worth
// interrupting a simulation for.
func (a *app) rememberDir(path string) {
	if fi, err := os.Stat(path); err != nil || fi.IsDir() {
		return
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil || dir == a.cfg.LastDir {
		return
	}
	a.cfg.LastDir = dir
	if err := config.Save(a.configPath, a.cfg); err != nil {
		a.log.Debug("could not save config", "error", err)
	}
}
