package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/io"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/lang"
	"github.com/matzehuels/irwalk/pkg/lang/passes"
	"github.com/matzehuels/irwalk/pkg/pipeline"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv(configEnv, "")
	var logs bytes.Buffer
	return New(&logs, LogInfo), &logs
}

// writeProgram exports a small program to dir and returns its path.
//
//	x = 2 + 3; nop; y = <read>
func writeProgram(t *testing.T, dir, read string) string {
	t.Helper()
	b := lang.NewBuilder("prog.ir")
	root := b.Program("main",
		b.Assign("x", b.Binary("+", b.Const(2), b.Const(3))),
		b.Nop(),
		b.Assign("y", b.Ref(read)),
	)
	path := filepath.Join(dir, "prog.json")
	if err := io.ExportFile(root, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDump(t *testing.T) {
	c, _ := newTestCLI(t)
	path := writeProgram(t, t.TempDir(), "x")

	out, err := execute(t, c, "dump", path)
	if err != nil {
		t.Fatalf("dump error = %v", err)
	}
	for _, want := range []string{"Program#", "name=main", "Binary#", "op=+", "Nop#"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump output missing %q:\n%s", want, out)
		}
	}
}

func TestDumpConverts(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	path := writeProgram(t, dir, "x")
	yamlPath := filepath.Join(dir, "prog.yaml")

	if _, err := execute(t, c, "dump", path, "-o", yamlPath); err != nil {
		t.Fatalf("dump -o error = %v", err)
	}
	want, err := io.ImportFile(path, lang.Factory{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ImportFile(yamlPath, lang.Factory{})
	if err != nil {
		t.Fatalf("ImportFile(yaml) error = %v", err)
	}
	if !ir.Equiv(want, got) {
		t.Errorf("converted tree differs:\n%s\nwant:\n%s", ir.Format(got), ir.Format(want))
	}
}

func TestRun(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	path := writeProgram(t, dir, "x")
	outPath := filepath.Join(dir, "out.json")

	out, err := execute(t, c, "run", path, "-o", outPath)
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, out)
	}
	for _, want := range []string{"resolve", "constfold", "deadcode", "changed", outPath} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q:\n%s", want, out)
		}
	}

	got, err := io.ImportFile(outPath, lang.Factory{})
	if err != nil {
		t.Fatal(err)
	}
	prog := ir.MustAs[*lang.Program](got)
	if len(prog.Body) != 2 {
		t.Fatalf("body has %d statements, want 2:\n%s", len(prog.Body), ir.Format(got))
	}
	if c, ok := prog.Body[0].(*lang.Assign).Value.(*lang.Const); !ok || c.Value != 5 {
		t.Errorf("x = %s, want Const 5", ir.Format(prog.Body[0].(*lang.Assign).Value))
	}
}

func TestRunReportsDiagnostics(t *testing.T) {
	c, _ := newTestCLI(t)
	path := writeProgram(t, t.TempDir(), "z")

	out, err := execute(t, c, "run", path)
	var pe *pipeline.PassError
	if !stderrors.As(err, &pe) || pe.Pass != "resolve" {
		t.Fatalf("run error = %v, want a resolve PassError", err)
	}
	if !strings.Contains(out, `unresolved name "z"`) {
		t.Errorf("run output missing the diagnostic:\n%s", out)
	}
	if strings.Contains(out, "constfold") {
		t.Errorf("run continued after a failing pass:\n%s", out)
	}
}

func TestRunUnknownPass(t *testing.T) {
	c, _ := newTestCLI(t)
	path := writeProgram(t, t.TempDir(), "x")

	_, err := execute(t, c, "run", path, "--passes", "resolve,nope")
	if !errors.Is(err, errors.ErrCodeInvalidPass) {
		t.Errorf("run error = %v, want %s", err, errors.ErrCodeInvalidPass)
	}
}

func TestRunUsesConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeProgram(t, dir, "x")
	cfgPath := filepath.Join(dir, "irwalk.toml")
	writeFile(t, cfgPath, "passes = [\"count\"]\nlog_level = \"debug\"\n")

	c, _ := newTestCLI(t)
	out, err := execute(t, c, "run", path, "--config", cfgPath)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, "count") || strings.Contains(out, "constfold") {
		t.Errorf("run did not use the configured passes:\n%s", out)
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("log level = %v, want debug", c.Logger.GetLevel())
	}

	c, _ = newTestCLI(t)
	out, err = execute(t, c, "run", path, "--config", cfgPath, "--passes", "rename")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, "rename") || strings.Contains(out, "count") {
		t.Errorf("--passes did not override the config:\n%s", out)
	}
}

func TestPipelineOptions(t *testing.T) {
	c, _ := newTestCLI(t)
	c.Config = Config{Passes: []string{"count"}, FailFast: true, MaxErrors: 5}
	changed := func(name string) bool { return name == "max-errors" }

	opts, ps, err := c.pipelineOptions(runFlags{maxErrors: 7, failFast: false, passes: "rename"}, changed)
	if err != nil {
		t.Fatal(err)
	}
	want := pipeline.Options{FailFast: true, MaxErrors: 7}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("options (-want +got):\n%s", diff)
	}
	if len(ps) != 1 || ps[0].Name != "count" {
		t.Errorf("passes = %v, want [count]", ps)
	}

	c.Config = Config{}
	opts, ps, err = c.pipelineOptions(runFlags{}, func(string) bool { return false })
	if err != nil {
		t.Fatal(err)
	}
	if opts.MaxErrors != pipeline.DefaultMaxErrors || len(ps) != len(defaultPasses) {
		t.Errorf("defaults = %+v, %d passes", opts, len(ps))
	}
}

func TestParsePassList(t *testing.T) {
	got := parsePassList(" resolve, ,constfold ,")
	if diff := cmp.Diff([]string{"resolve", "constfold"}, got); diff != "" {
		t.Errorf("parsePassList() (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    Config
		wantErr string
	}{
		{
			name:    "full",
			content: "passes = [\"resolve\"]\nfail_fast = true\nmax_errors = 3\nrevisit_shared = true\nlog_level = \"warn\"\ndetailed = true\n",
			want:    Config{Passes: []string{"resolve"}, FailFast: true, MaxErrors: 3, RevisitShared: true, LogLevel: "warn", Detailed: true},
		},
		{name: "empty", content: ""},
		{name: "unknown key", content: "passes = []\nfast = true\n", wantErr: "unknown keys: fast"},
		{name: "bad level", content: "log_level = \"loud\"\n", wantErr: "log_level"},
		{name: "bad pass name", content: "passes = [\"a b\"]\n", wantErr: "a b"},
		{name: "bad syntax", content: "passes = [", wantErr: "irwalk.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "irwalk.toml")
			writeFile(t, path, tt.content)

			got, err := LoadConfig(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("LoadConfig() error = %v, want it to mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LoadConfig() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDot(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()
	path := writeProgram(t, dir, "x")

	out, err := execute(t, c, "dot", path)
	if err != nil {
		t.Fatalf("dot error = %v", err)
	}
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("dot output = %q", out)
	}

	dotPath := filepath.Join(dir, "prog.gv")
	if _, err := execute(t, c, "dot", path, "-o", dotPath, "--detailed"); err != nil {
		t.Fatalf("dot -o error = %v", err)
	}
	data, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `name: main`) {
		t.Errorf("detailed diagram lacks attributes:\n%s", data)
	}

	if _, err := execute(t, c, "dot", path, "--format", "pdf"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("dot --format pdf error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestPasses(t *testing.T) {
	c, _ := newTestCLI(t)
	out, err := execute(t, c, "passes")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range passes.Names() {
		if !strings.Contains(out, name) {
			t.Errorf("passes output missing %s:\n%s", name, out)
		}
	}
}

func TestMissingFile(t *testing.T) {
	c, _ := newTestCLI(t)
	_, err := execute(t, c, "dump", filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("dump error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}
