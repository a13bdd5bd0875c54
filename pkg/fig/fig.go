// Package fig is the embedding facade for the Fig evaluator: an Engine
// wraps global-context construction and built-in seeding behind a
// small New(opts...)/Run surface.
package fig

import (
	"io"
	"os"

	"github.com/cwbudde/figscript/internal/ast"
	"github.com/cwbudde/figscript/internal/builtins"
	"github.com/cwbudde/figscript/internal/evaluator"
)

// Options configures a new Engine.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
}

// Option mutates Options using the functional-options pattern.
type Option func(*Options)

// WithStdin overrides the stream __fstdin_read/__fstdin_readln consume.
func WithStdin(r io.Reader) Option {
	return func(o *Options) { o.Stdin = r }
}

// WithStdout overrides the stream __fstdout_print/__fstdout_println
// write to.
func WithStdout(w io.Writer) Option {
	return func(o *Options) { o.Stdout = w }
}

// Engine is one evaluator instance: a global context plus the built-in
// registry, ready to Run programs against.
type Engine struct {
	eval *evaluator.Evaluator
}

// New constructs an Engine, applying opts over stdin/stdout defaults.
func New(opts ...Option) *Engine {
	options := Options{Stdin: os.Stdin, Stdout: os.Stdout}
	for _, opt := range opts {
		opt(&options)
	}
	streams := builtins.NewIO(options.Stdin, options.Stdout)
	return &Engine{eval: evaluator.New(streams)}
}

// Run evaluates prog's top-level statements against the engine's
// global context. A non-nil error is always a *ferrors.Error: errors
// are fatal and abort the whole program.
func (e *Engine) Run(prog *ast.Program) error {
	return e.eval.Run(prog)
}
