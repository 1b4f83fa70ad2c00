package commands

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/diogo/healthchat/internal/chat"
	"github.com/diogo/healthchat/internal/config"
	"github.com/diogo/healthchat/internal/tui"
)

type fakeStream struct {
	fragments []string
	err       error
	pos       int
}

func (s *fakeStream) Next() (string, error) {
	if s.pos < len(s.fragments) {
		s.pos++
		return s.fragments[s.pos-1], nil
	}
	if s.err != nil {
		return "", s.err
	}
	return "", io.EOF
}

func (s *fakeStream) Close() error { return nil }

type fakeSession struct {
	stream  *fakeStream
	prompts []string
}

func (s *fakeSession) SendMessageStream(_ context.Context, text string) (chat.Stream, error) {
	s.prompts = append(s.prompts, text)
	return s.stream, nil
}

type harness struct {
	deps    *Dependencies
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	copied  []string
	ctrl    *chat.Controller
	tuiOpts tui.Options
	cfg     config.Config
}

// newHarness isolates HOME and wires fakes for every external dependency.
// A nil session with connErr simulates a failed startup.
func newHarness(t *testing.T, session chat.Session, connErr error) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GLAMOUR_STYLE", "notty")

	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.deps = &Dependencies{
		Connect: func(_ context.Context, cfg config.Config) (chat.Session, func(), error) {
			h.cfg = cfg
			if connErr != nil {
				return nil, func() {}, connErr
			}
			return session, func() {}, nil
		},
		RunChat: func(_ context.Context, ctrl *chat.Controller, opts tui.Options) error {
			h.ctrl = ctrl
			h.tuiOpts = opts
			return nil
		},
		Copy: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
		Stdin:  strings.NewReader(""),
		Stdout: h.stdout,
		Stderr: h.stderr,
		IsTTY:  func() bool { return false },
		SetupLogging: func(config.Config) (io.Closer, error) {
			return nil, nil
		},
	}
	return h
}

func (h *harness) run(args ...string) error {
	root := NewRootCmd(h.deps)
	root.SetArgs(args)
	root.SetOut(h.stdout)
	root.SetErr(h.stderr)
	return root.ExecuteContext(context.Background())
}
