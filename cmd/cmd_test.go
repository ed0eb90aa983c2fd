package cmd

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/atlas/internal/model"
)

func TestQueryPart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"https://atlas.example/map?lat=1.00&lng=2.00&zoom=1", "lat=1.00&lng=2.00&zoom=1"},
		{"?zoom=2&org=org-1", "zoom=2&org=org-1"},
		{"zoom=2", "zoom=2"},
		{"  lat=1.00&lng=2.00  ", "lat=1.00&lng=2.00"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := queryPart(tt.raw); got != tt.want {
			t.Errorf("queryPart(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseEntityTypes(t *testing.T) {
	t.Parallel()

	newCmd := func(args ...string) *cobra.Command {
		c := &cobra.Command{}
		c.Flags().StringSlice("type", nil, "")
		if err := c.Flags().Parse(args); err != nil {
			t.Fatal(err)
		}
		return c
	}

	got, err := parseEntityTypes(newCmd("--type", "landmark, organization"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]model.EntityType{model.EntityLandmark, model.EntityOrganization}, got); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseEntityTypes(newCmd("--type", "tour")); err == nil {
		t.Error("tour is not a selectable entity type")
	}
}

func TestTailDrain(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	tl := &tail{w: &out, r: bufio.NewReader(strings.NewReader(
		`{"ts":"2025-01-01T10:00:00Z","kind":"session_start","session":"s1"}` + "\n" +
			`{"ts":"2025-01-01T10:00:01Z","kind":"state.viewport","session":"s1","data":{"zoom":1}}` + "\n" +
			"not json\n" +
			`{"ts":"2025-01-01T10:00:02Z","kind":"sea`)), kind: "s"}

	tl.drain()
	want := "[10:00:00] session_start session=s1\n" +
		"[10:00:01] state.viewport session=s1 zoom=1\n" +
		"??? not json\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("drain output mismatch (-want +got):\n%s", diff)
	}
	if got := tl.partial.String(); !strings.HasSuffix(got, `"kind":"sea`) {
		t.Errorf("partial line should be held, got %q", got)
	}
}

func TestPrintEvent_KindFilter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printEvent(&out, `{"ts":"2025-01-01T10:00:00Z","kind":"search","data":{"query":"bert"}}`, "state.")
	if out.Len() != 0 {
		t.Errorf("filtered event printed: %q", out.String())
	}
	printEvent(&out, `{"ts":"2025-01-01T10:00:00Z","kind":"search","data":{"query":"bert"}}`, "")
	if got := out.String(); got != "[10:00:00] search query=bert\n" {
		t.Errorf("printEvent = %q", got)
	}
}
