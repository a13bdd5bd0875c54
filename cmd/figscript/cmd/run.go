package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/cwbudde/figscript/internal/ferrors"
	"github.com/cwbudde/figscript/pkg/fig"
)

var trace bool

var runCmd = &cobra.Command{
	Use:   "run <file.yaml>",
	Short: "Run a Fig program described as a YAML AST fixture",
	Long: `Execute a Fig program loaded from a YAML AST fixture.

Examples:
  figscript run script.yaml
  figscript run --trace script.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&trace, "trace", false, "tag the run with a correlation id on stderr")
}

func runScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	runID := uuid.New()
	if trace {
		fmt.Fprintf(os.Stderr, "[run %s] loading %s\n", runID, filename)
	}

	program, err := fig.LoadProgramFile(filename)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", filename, err)
	}

	engine := fig.New(fig.WithStdin(os.Stdin), fig.WithStdout(os.Stdout))
	if err := engine.Run(program); err != nil {
		printDiagnostic(runID, err)
		return fmt.Errorf("execution failed")
	}
	return nil
}

// printDiagnostic renders a fatal evaluator error and its stack trace
// to stderr, colorizing the rendered "[Eve: KIND] ..." message only when
// stdout is a terminal and --no-color was not passed, using go-isatty for the TTY
// check rather than a hand-rolled one.
func printDiagnostic(runID uuid.UUID, err error) {
	color := !noColor && isatty.IsTerminal(os.Stdout.Fd())
	fe, ok := err.(*ferrors.Error)
	if !ok {
		fmt.Fprintf(os.Stderr, "[run %s] error: %v\n", runID, err)
		return
	}
	msg := fe.Error()
	if color {
		msg = "\x1b[31m" + msg + "\x1b[0m"
	}
	fmt.Fprintf(os.Stderr, "[run %s] %s\n", runID, msg)
	if len(fe.Stack) > 0 {
		fmt.Fprint(os.Stderr, ferrors.RenderStackTrace(fe.Stack))
	}
}
