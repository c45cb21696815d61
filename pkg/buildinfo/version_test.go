package buildinfo

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKeyVals(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	tests := []struct {
		version, commit string
		want            []any
	}{
		{"dev", "none", []any{"version", "dev", "commit", "none"}},
		{"v1.2.3", "0123456789abcdef0123", []any{"version", "v1.2.3", "commit", "0123456789ab"}},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if diff := cmp.Diff(tt.want, KeyVals()); diff != "" {
			t.Errorf("KeyVals() (-want +got):\n%s", diff)
		}
	}
}

func TestTemplate(t *testing.T) {
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} "+Version) {
		t.Errorf("Template() = %q", got)
	}
	if got := String(); !strings.Contains(got, "commit: "+Commit) {
		t.Errorf("String() = %q", got)
	}
}
