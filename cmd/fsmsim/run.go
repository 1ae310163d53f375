package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <definition>",
		Short: "Step an automaton from the command line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			a.rememberDir(args[0])
			s := fsm.NewSession(m, fsm.WithLogger(a.log))
			repl(cmd.InOrStdin(), cmd.OutOrStdout(), s)
			return nil
		},
	}
}

const replHelp = `Commands:
  select <input>  - Make <input> the pending input (again to clear a grouped input; "" is the empty input)
  clear           - Drop the pending input
  step            - Fire the pending input
  fire <input>    - select then step
  back            - Return to the previous state in history
  reset           - Return to the initial state, clearing history
  status          - Show the active state and pending input
  history         - Show visited states
  inputs          - Show declared inputs, marking those enabled here
  quit            - Exit`

// repl runs the line-oriented simulator until quit or end of input.
func repl(in io.Reader, out io.Writer, s *fsm.Session) {
	m := s.Model()
	name := m.Name()
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(out, "FSM: %s\n", name)
	fmt.Fprintln(out, "Commands: select, clear, step, fire, back, reset, status, history, inputs, quit")
	fmt.Fprintln(out)
	printStatus(out, s)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "quit", "exit", "q":
			return
		case "help", "?":
			fmt.Fprintln(out, replHelp)
		case "select":
			selectInput(out, s, arg)
		case "clear":
			s.ClearInput()
			printStatus(out, s)
		case "step":
			printStep(out, s, s.Step())
		case "fire":
			// Selecting the pending grouped input again would clear it.
			if pending, ok := s.PendingInput(); !ok || pending != inputName(arg) {
				if !selectInput(out, s, arg) {
					continue
				}
			}
			printStep(out, s, s.Step())
		case "back":
			if st := s.Back(); st != fsm.StatusOK {
				fmt.Fprintf(out, "Cannot go back: %v\n", st.Err())
				continue
			}
			printStatus(out, s)
		case "reset":
			s.Reset(m)
			fmt.Fprintln(out, "Reset to initial state")
			printStatus(out, s)
		case "status":
			printStatus(out, s)
		case "history":
			printHistory(out, s)
		case "inputs":
			printInputs(out, s)
		default:
			fmt.Fprintf(out, "Unknown command %q, try help\n", cmd)
		}
	}
}

func selectInput(out io.Writer, s *fsm.Session, arg string) bool {
	if arg == "" {
		fmt.Fprintln(out, "Usage: select <input>")
		return false
	}
	name := inputName(arg)
	if _, ok := s.SelectInput(name); !ok {
		fmt.Fprintf(out, "Unknown input %q\n", name)
		return false
	}
	if _, ok := s.PendingInput(); !ok {
		fmt.Fprintf(out, "Cleared %s\n", displayInput(name))
		return false
	}
	fmt.Fprintf(out, "Selected %s\n", displayInput(name))
	return true
}

// inputName maps the REPL spelling "" to the empty input name.
func inputName(arg string) string {
	if arg == `""` {
		return ""
	}
	return arg
}

// displayInput shows the empty input name as "".
func displayInput(name string) string {
	if name == "" {
		return `""`
	}
	return name
}

func printStep(out io.Writer, s *fsm.Session, r fsm.StepResult) {
	switch r.Status {
	case fsm.StatusOK:
		line := fmt.Sprintf("%s --%s--> %s", r.From, displayInput(r.Input), r.To)
		if len(r.Outputs) > 0 {
			line += fmt.Sprintf(" [%s]", strings.Join(r.Outputs, ", "))
		}
		fmt.Fprintln(out, line)
		printStatus(out, s)
	case fsm.StatusNoTransition:
		fmt.Fprintf(out, "No transition from %s on %s\n", r.From, displayInput(r.Input))
	default:
		fmt.Fprintf(out, "Cannot step: %v\n", r.Status.Err())
	}
}

func printStatus(out io.Writer, s *fsm.Session) {
	status := fmt.Sprintf("State: %s", s.ActiveState())
	if pending, ok := s.PendingInput(); ok {
		status += fmt.Sprintf("  (pending: %s)", displayInput(pending))
	}
	fmt.Fprintln(out, status)
}

func printHistory(out io.Writer, s *fsm.Session) {
	fmt.Fprintln(out, "History:")
	for i, st := range s.History() {
		marker := " "
		if i == s.Cursor() {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %d: %s\n", marker, i, st)
	}
}

func printInputs(out io.Writer, s *fsm.Session) {
	enabled := make(map[string]bool)
	for _, name := range s.EnabledInputs() {
		enabled[name] = true
	}
	inputs := s.Model().SelectableInputs()
	if len(inputs) == 0 {
		fmt.Fprintln(out, "No inputs")
		return
	}
	fmt.Fprintln(out, "Inputs:")
	for _, in := range inputs {
		mark := " "
		if enabled[in.Name] {
			mark = "+"
		}
		line := fmt.Sprintf(" %s %s", mark, displayInput(in.Name))
		if g, ok := in.ExclusiveGroup(); ok {
			line += fmt.Sprintf("  (group %d)", g)
		}
		fmt.Fprintln(out, line)
	}
}
