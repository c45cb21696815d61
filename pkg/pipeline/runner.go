package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/irwalk/pkg/diag"
	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/observability"
)

// Runner executes passes over IR trees.
//
// The Runner keeps no state between runs except its diagnostic sink, which
// accumulates across runs until reset. It must not run several pipelines
// at the same time.
type Runner struct {
	Logger  *log.Logger
	Sink    *diag.Sink
	Options Options
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger, opts Options) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		logger.Warn("invalid runner options", "error", err)
	}
	return &Runner{
		Logger: logger,
		Sink: diag.NewSink(
			diag.WithLogger(logger),
			diag.WithFailFast(opts.FailFast),
			diag.WithMaxErrors(opts.sinkLimit()),
		),
		Options: opts,
	}
}

// PassStats describes one executed pass.
type PassStats struct {
	Name        string
	Duration    time.Duration
	Diagnostics int
	Changed     bool
}

// Result is the outcome of a run. On error it describes the passes that
// ran; Root is then the input of the failing pass.
type Result struct {
	RunID       string
	Root        ir.Node
	Passes      []PassStats
	Diagnostics []diag.Diagnostic
}

// Run applies passes to root in order.
//
// Run stops at the first pass that reports error diagnostics and returns
// all of them as a *PassError wrapping a *multierror.Error. Internal
// faults and aborts raised inside a pass are returned as a *PassError
// wrapping the *errors.Error. Cancelling ctx stops the run between passes.
func (r *Runner) Run(ctx context.Context, root ir.Node, passes ...Pass) (*Result, error) {
	if err := r.Options.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ValidatePasses(passes); err != nil {
		return nil, fmt.Errorf("invalid passes: %w", err)
	}
	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])
	res := &Result{RunID: runID, Root: root}
	firstDiag := r.Sink.Len()
	defer func() { res.Diagnostics = r.Sink.Diagnostics()[firstDiag:] }()

	hooks := observability.Pass()
	start := time.Now()
	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		env := &Env{
			Ctx:           ctx,
			RunID:         runID,
			Pass:          p.Name,
			Sink:          r.Sink,
			Logger:        logger.With("pass", p.Name),
			revisitShared: r.Options.RevisitShared,
		}

		hooks.OnPassStart(ctx, p.Name)
		before := r.Sink.Len()
		errsBefore := r.Sink.ErrorCount()
		passStart := time.Now()

		out, err := runPass(env, p, res.Root)

		st := PassStats{
			Name:        p.Name,
			Duration:    time.Since(passStart),
			Diagnostics: r.Sink.Len() - before,
			Changed:     err == nil && out != res.Root,
		}
		if err == nil && r.Sink.ErrorCount() > errsBefore {
			err = r.passErrors(before)
		}
		hooks.OnPassComplete(ctx, p.Name, st.Diagnostics, st.Duration, err)
		res.Passes = append(res.Passes, st)

		if err != nil {
			logger.Debug("pass failed", "pass", p.Name, "error", err)
			return res, &PassError{Pass: p.Name, Err: err}
		}
		logger.Debug("pass complete", "pass", p.Name, "changed", st.Changed,
			"diagnostics", st.Diagnostics, "duration", st.Duration)
		res.Root = out
	}

	logger.Info("pipeline complete", "passes", len(passes), "duration", time.Since(start))
	return res, nil
}

// runPass runs one pass and converts faults into errors.
func runPass(env *Env, p Pass, root ir.Node) (out ir.Node, err error) {
	defer errors.Recover(&err)
	return p.Run(env, root), nil
}

// passErrors collects the error diagnostics reported since index from.
func (r *Runner) passErrors(from int) error {
	var result *multierror.Error
	for _, d := range r.Sink.Diagnostics()[from:] {
		if d.Severity == diag.SeverityError {
			result = multierror.Append(result, d.Err())
		}
	}
	return result.ErrorOrNil()
}
