package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"

	irerrors "github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/lang"
	"github.com/matzehuels/irwalk/pkg/observability"
	"github.com/matzehuels/irwalk/pkg/pipeline"
	"github.com/matzehuels/irwalk/pkg/visit"
)

func quietRunner(opts pipeline.Options) *pipeline.Runner {
	return pipeline.NewRunner(log.New(&bytes.Buffer{}), opts)
}

// negate flips the sign of every constant.
var negate = pipeline.Pass{
	Name: "negate",
	Run: func(env *pipeline.Env, root ir.Node) ir.Node {
		return visit.ModifyAll(root, func(c *lang.Const) { c.Value = -c.Value }, env.VisitOptions()...)
	},
}

// complain reports one error per Ref.
var complain = pipeline.Pass{
	Name: "complain",
	Run: func(env *pipeline.Env, root ir.Node) ir.Node {
		visit.ForAll(root, func(r *lang.Ref) {
			env.Sink.Errorf(r, irerrors.ErrCodeUnresolved, "unknown name %q", r.Name)
		}, env.VisitOptions()...)
		return root
	},
}

// faulty raises an internal fault.
var faulty = pipeline.Pass{
	Name: "faulty",
	Run: func(*pipeline.Env, ir.Node) ir.Node {
		irerrors.Bug(irerrors.ErrCodeBadCast, "broken pass")
		return nil
	},
}

func sample() (*lang.Builder, *lang.Program) {
	b := lang.NewBuilder("test")
	return b, b.Program("main",
		b.Assign("x", b.Const(1)),
		b.Assign("y", b.Binary("+", b.Ref("a"), b.Ref("b"))),
	)
}

func TestPassValidate(t *testing.T) {
	tests := []struct {
		name    string
		pass    pipeline.Pass
		wantErr bool
	}{
		{"valid", negate, false},
		{"uppercase", pipeline.Pass{Name: "Negate", Run: negate.Run}, true},
		{"empty name", pipeline.Pass{Run: negate.Run}, true},
		{"no run", pipeline.Pass{Name: "x"}, true},
	}
	for _, tt := range tests {
		err := tt.pass.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
	if err := pipeline.ValidatePasses(nil); !irerrors.Is(err, irerrors.ErrCodeInvalidPass) {
		t.Errorf("ValidatePasses(nil) error = %v, want %s", err, irerrors.ErrCodeInvalidPass)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		want    int
		wantErr bool
	}{
		{"zero selects default", 0, pipeline.DefaultMaxErrors, false},
		{"explicit limit", 3, 3, false},
		{"no limit", pipeline.NoErrorLimit, pipeline.NoErrorLimit, false},
		{"below no limit", -2, -2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := pipeline.Options{MaxErrors: tt.max}
			err := opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && irerrors.GetCode(err) != irerrors.ErrCodeInvalidInput {
				t.Errorf("ValidateAndSetDefaults() code = %s, want %s", irerrors.GetCode(err), irerrors.ErrCodeInvalidInput)
			}
			if opts.MaxErrors != tt.want {
				t.Errorf("MaxErrors = %d, want %d", opts.MaxErrors, tt.want)
			}
		})
	}
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	var logs bytes.Buffer
	r := pipeline.NewRunner(log.New(&logs), pipeline.Options{MaxErrors: -5})
	if !bytes.Contains(logs.Bytes(), []byte("invalid runner options")) {
		t.Errorf("NewRunner() logged %q, want a warning", logs.String())
	}

	_, root := sample()
	res, err := r.Run(context.Background(), root, negate)
	if irerrors.GetCode(err) != irerrors.ErrCodeInvalidInput {
		t.Fatalf("Run() error = %v, want %s", err, irerrors.ErrCodeInvalidInput)
	}
	if res != nil {
		t.Errorf("Run() result = %+v, want nil", res)
	}
}

func TestRunThreadsRoot(t *testing.T) {
	_, root := sample()
	res, err := quietRunner(pipeline.Options{}).Run(context.Background(), root, negate, negate)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.RunID) != 36 {
		t.Errorf("RunID = %q, want a UUID", res.RunID)
	}
	if len(res.Passes) != 2 || !res.Passes[0].Changed || !res.Passes[1].Changed {
		t.Errorf("Passes = %+v, want two changing passes", res.Passes)
	}
	// Negating twice restores the values but not the identities.
	if res.Root == ir.Node(root) || !ir.Equiv(res.Root, root) {
		t.Errorf("Root =\n%s", ir.Format(res.Root))
	}
}

func TestRunStopsAtFirstFailingPass(t *testing.T) {
	_, root := sample()
	res, err := quietRunner(pipeline.Options{}).Run(context.Background(), root, complain, negate)

	var perr *pipeline.PassError
	if !errors.As(err, &perr) || perr.Pass != "complain" {
		t.Fatalf("Run() error = %v, want a *PassError for complain", err)
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) || len(merr.Errors) != 2 {
		t.Fatalf("Run() error = %v, want both diagnostics together", err)
	}
	if len(res.Passes) != 1 {
		t.Errorf("ran %d passes, want 1", len(res.Passes))
	}
	if res.Root != ir.Node(root) {
		t.Error("Root changed although no pass succeeded")
	}
	if len(res.Diagnostics) != 2 {
		t.Errorf("Diagnostics = %d, want 2", len(res.Diagnostics))
	}
}

func TestRunConvertsFaults(t *testing.T) {
	tests := []struct {
		name     string
		opts     pipeline.Options
		pass     pipeline.Pass
		wantCode irerrors.Code
	}{
		{"internal fault", pipeline.Options{}, faulty, irerrors.ErrCodeBadCast},
		{"fail fast", pipeline.Options{FailFast: true}, complain, irerrors.ErrCodeAborted},
		{"max errors", pipeline.Options{MaxErrors: 1}, complain, irerrors.ErrCodeAborted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, root := sample()
			res, err := quietRunner(tt.opts).Run(context.Background(), root, tt.pass)
			if irerrors.GetCode(err) != tt.wantCode {
				t.Fatalf("Run() error = %v, want %s", err, tt.wantCode)
			}
			if tt.wantCode == irerrors.ErrCodeAborted && len(res.Diagnostics) != 1 {
				t.Errorf("Diagnostics = %d, want 1 before the abort", len(res.Diagnostics))
			}
		})
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	_, root := sample()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := quietRunner(pipeline.Options{}).Run(ctx, root, negate)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(res.Passes) != 0 {
		t.Errorf("ran %d passes after cancellation", len(res.Passes))
	}
}

type passRecorder struct {
	observability.NoopPassHooks
	events []string
}

func (r *passRecorder) OnPassStart(_ context.Context, pass string) {
	r.events = append(r.events, "start "+pass)
}

func (r *passRecorder) OnPassComplete(_ context.Context, pass string, diagnostics int, _ time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	r.events = append(r.events, "done "+pass+" "+status)
	_ = diagnostics
}

func TestRunFiresPassHooks(t *testing.T) {
	rec := &passRecorder{}
	observability.SetPassHooks(rec)
	defer observability.Reset()

	_, root := sample()
	_, _ = quietRunner(pipeline.Options{}).Run(context.Background(), root, negate, complain, negate)

	want := []string{"start negate", "done negate ok", "start complain", "done complain failed"}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("hook events (-want +got):\n%s", diff)
	}
}
