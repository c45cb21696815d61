// Package pipeline runs sequences of passes over an IR tree.
//
// This package is the single place where passes meet the outside world:
// the CLI and tests hand it a root node and an ordered list of passes, and
// it threads the tree from one pass to the next, collects diagnostics and
// turns internal faults back into errors.
//
// # Architecture
//
// A [Pass] is a named function from a tree to a tree. Passes build and
// apply their own visitors with the options carried by [Env]. They report
// problems in the program to Env.Sink and abort on engine defects by
// panicking with an *errors.Error (see pkg/errors.Bug).
//
// The [Runner] executes passes in order and stops after the first pass
// that reported errors; all errors of that pass are returned together.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger, pipeline.Options{MaxErrors: 20})
//	res, err := runner.Run(ctx, root, passes...)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out := res.Root
package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/irwalk/pkg/diag"
	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/visit"
)

// DefaultMaxErrors is the number of error diagnostics after which a run
// aborts unless Options.MaxErrors says otherwise.
const DefaultMaxErrors = 50

// NoErrorLimit as Options.MaxErrors disables the error limit.
const NoErrorLimit = -1

// Pass is one step of a pipeline.
type Pass struct {
	Name        string
	Description string
	// Run transforms root and returns the new root. Inspecting passes
	// return root unchanged.
	Run func(env *Env, root ir.Node) ir.Node
}

// Validate checks that the pass can be run.
func (p Pass) Validate() error {
	if err := errors.ValidatePassName(p.Name); err != nil {
		return err
	}
	if p.Run == nil {
		return errors.New(errors.ErrCodeInvalidPass, "pass %q has no Run function", p.Name)
	}
	return nil
}

// Env is what a pass gets to work with.
type Env struct {
	Ctx    context.Context
	RunID  string
	Pass   string
	Sink   *diag.Sink
	Logger *log.Logger

	revisitShared bool
}

// VisitOptions returns the visitor options every visitor of the pass
// should be created with, followed by extra.
func (e *Env) VisitOptions(extra ...visit.Option) []visit.Option {
	opts := []visit.Option{
		visit.WithLogger(e.Logger),
		visit.WithContext(e.Ctx),
		visit.WithRevisitShared(e.revisitShared),
	}
	return append(opts, extra...)
}

// Options configures a Runner.
type Options struct {
	// FailFast aborts the run at the first error diagnostic.
	FailFast bool
	// MaxErrors aborts the run once that many error diagnostics were
	// reported. Zero selects DefaultMaxErrors and NoErrorLimit disables
	// the limit.
	MaxErrors int
	// RevisitShared makes every visitor revisit shared nodes once per
	// parent.
	RevisitShared bool
}

// ValidateAndSetDefaults checks the options and fills unset fields with
// their defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.MaxErrors < NoErrorLimit {
		return errors.New(errors.ErrCodeInvalidInput, "max errors must be %d or more, got %d", NoErrorLimit, o.MaxErrors)
	}
	if o.MaxErrors == 0 {
		o.MaxErrors = DefaultMaxErrors
	}
	return nil
}

func (o Options) sinkLimit() int {
	if o.MaxErrors < 0 {
		return 0
	}
	return o.MaxErrors
}

// ValidatePasses checks every pass. A pass may appear more than once.
func ValidatePasses(passes []Pass) error {
	if len(passes) == 0 {
		return errors.New(errors.ErrCodeInvalidPass, "no passes to run")
	}
	for _, p := range passes {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// PassError is returned when a pass reported error diagnostics or was
// aborted.
type PassError struct {
	Pass string
	Err  error
}

func (e *PassError) Error() string { return fmt.Sprintf("pass %s: %v", e.Pass, e.Err) }

func (e *PassError) Unwrap() error { return e.Err }
