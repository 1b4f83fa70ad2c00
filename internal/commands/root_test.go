package commands

import (
	"strings"
	"testing"

	apierrors "github.com/diogo/healthchat/internal/errors"
)

func TestRoot_Version(t *testing.T) {
	h := newHarness(t, nil, nil)
	if err := h.run("--version"); err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(h.stdout.String(), "healthchat "+Version) {
		t.Errorf("stdout = %q", h.stdout.String())
	}
	if h.ctrl != nil {
		t.Error("--version should not start the chat")
	}
}

func TestRoot_Subcommands(t *testing.T) {
	root := NewRootCmd(NewDependencies())
	for _, name := range []string{"chat", "ask", "config"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"model", "theme", "log-level", "env-file"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestRoot_RejectsArgs(t *testing.T) {
	h := newHarness(t, nil, nil)
	if err := h.run("what is fever"); err == nil {
		t.Error("a bare argument should be rejected; questions go through ask")
	}
}

func TestFormatErrorMessage(t *testing.T) {
	if got := formatErrorMessage(nil, "ctx"); got != "" {
		t.Fatalf("expected empty for nil error, got %s", got)
	}

	e := apierrors.NewAPIErrorWithBody(500, "/endpoint", "failure", "detailed body")
	out := formatErrorMessage(e, "Failed")
	if !strings.HasPrefix(out, "Failed: ") {
		t.Errorf("missing context: %s", out)
	}
	if !strings.Contains(out, "HTTP Status: 500") {
		t.Errorf("missing status: %s", out)
	}
}
