package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/healthchat/internal/chat"
	"github.com/diogo/healthchat/internal/config"
	"github.com/diogo/healthchat/internal/tui"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Connect opens a model session. The returned cleanup is never nil.
	Connect func(ctx context.Context, cfg config.Config) (chat.Session, func(), error)

	// RunChat runs the interactive screen until the user leaves.
	RunChat func(ctx context.Context, ctrl *chat.Controller, opts tui.Options) error

	// Copy writes text to the system clipboard.
	Copy func(string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTTY reports whether Stdout is a terminal.
	IsTTY func() bool

	// SetupLogging replaces the file logger, mainly for tests.
	SetupLogging func(cfg config.Config) (io.Closer, error)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		Connect: connect,
		RunChat: tui.RunChat,
		Copy:    clipboard.WriteAll,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		IsTTY: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
		SetupLogging: setupLogging,
	}
}

// terminalWidth returns the width of stdout or 80
func (d *Dependencies) terminalWidth() int {
	if f, ok := d.Stdout.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

// stdinPiped reports whether input is waiting on stdin. Readers other than
// a file, as used in tests, always count as piped.
func (d *Dependencies) stdinPiped() bool {
	if d.Stdin == nil {
		return false
	}
	f, ok := d.Stdin.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
