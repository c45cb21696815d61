// Package cli implements the irwalk command-line interface.
//
// irwalk loads IR documents, runs analysis and rewriting passes over them
// and draws them as node-link diagrams. The CLI is built using cobra and
// logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - dump: Print a document as an indented tree, or convert it
//   - run: Run a pass pipeline and report diagnostics
//   - dot: Render a document as DOT, SVG or PNG
//   - passes: List the registered passes
//
// # Configuration
//
// Defaults for the pipeline and the renderer can be set in a TOML file given
// with --config or IRWALK_CONFIG. Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the logger shared by all commands. Messages carry the
// "irwalk" prefix; timestamps are only reported at debug level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          appName,
		ReportTimestamp: level <= log.DebugLevel,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// progress times one step of a command, such as loading a document or
// running the pipeline.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) progress {
	return progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time, rounded
// to the millisecond, under the "elapsed" key.
func (p progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

// withLogger attaches l to ctx. RootCommand does this for every command.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger. Commands run
// outside RootCommand get a logger that discards everything.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.New(io.Discard)
}
