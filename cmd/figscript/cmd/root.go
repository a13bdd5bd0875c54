package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is stamped by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "figscript",
	Short: "Fig evaluator CLI",
	Long: `figscript runs programs for Fig, a small dynamically-typed,
statically-checked-at-call-site scripting language.

The evaluator core accepts an AST; since this CLI has no lexer or
parser, programs are supplied as YAML fixture files describing the
AST directly (see "figscript run --help").`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
`, GitCommit))
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
}
