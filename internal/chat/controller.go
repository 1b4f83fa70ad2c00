package chat

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	apierrors "github.com/diogo/healthchat/internal/errors"
	"github.com/diogo/healthchat/internal/models"
)

// ErrTurnRejected is returned by Run when the input is blank or a turn is
// already in flight.
var ErrTurnRejected = errors.New("turn rejected: empty input or turn in flight")

// State is the lifecycle position of a turn
type State int

const (
	StateIdle State = iota
	StateUserSubmitted
	StateStreaming
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUserSubmitted:
		return "user_submitted"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stream yields reply fragments in order and io.EOF at the end
type Stream interface {
	Next() (string, error)
	Close() error
}

// Session opens one reply stream per user turn
type Session interface {
	SendMessageStream(ctx context.Context, text string) (Stream, error)
}

// SessionFunc adapts a function to Session
type SessionFunc func(ctx context.Context, text string) (Stream, error)

func (f SessionFunc) SendMessageStream(ctx context.Context, text string) (Stream, error) {
	return f(ctx, text)
}

// Turn is one user submission and its streamed reply
type Turn struct {
	UserID  string
	ReplyID string
	Text    string

	state     State
	reply     strings.Builder
	fragments int
	err       error
	session   Session
	stream    Stream
}

// State returns where the turn is in its lifecycle
func (t *Turn) State() State { return t.state }

// Err returns the failure that ended the turn, if any
func (t *Turn) Err() error { return t.err }

// Reply returns the concatenation of all applied fragments
func (t *Turn) Reply() string { return t.reply.String() }

// Fragments returns how many fragments were applied
func (t *Turn) Fragments() int { return t.fragments }

// Open asks the session for the reply stream. It touches no controller or
// store state and may run off the event loop.
func (t *Turn) Open(ctx context.Context) (Stream, error) {
	if t.session == nil {
		return nil, apierrors.NewConnectionError("no model session", apierrors.ErrNoSession)
	}
	stream, err := t.session.SendMessageStream(ctx, t.Text)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, apierrors.NewStreamError("session returned no stream", nil)
	}
	return stream, nil
}

// Controller drives one turn at a time through
// idle → user_submitted → streaming → completed|failed.
// All methods must be called from the same goroutine that owns the Store.
type Controller struct {
	store   *Store
	session Session
	newID   IDFunc

	active    *Turn
	errorText string
	connErr   error
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithIDFunc replaces the message id generator
func WithIDFunc(fn IDFunc) ControllerOption {
	return func(c *Controller) {
		c.newID = fn
	}
}

// NewController creates a controller over store. session may be nil when no
// model session could be established; every turn then fails fast.
func NewController(store *Store, session Session, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:   store,
		session: session,
		newID:   NewID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the conversation
func (c *Controller) Store() *Store { return c.store }

// Busy reports whether a turn is in flight
func (c *Controller) Busy() bool { return c.active != nil }

// Active returns the in-flight turn, or nil
func (c *Controller) Active() *Turn { return c.active }

// State returns the in-flight turn's state, or StateIdle
func (c *Controller) State() State {
	if c.active == nil {
		return StateIdle
	}
	return c.active.state
}

// ErrorText returns the banner text to display, or ""
func (c *Controller) ErrorText() string { return c.errorText }

// Connected reports whether a model session exists
func (c *Controller) Connected() bool { return c.session != nil }

// ConnectionErr returns the startup failure recorded by SetConnectionError
func (c *Controller) ConnectionErr() error { return c.connErr }

// SetConnectionError records a session creation failure and shows the
// connection banner.
func (c *Controller) SetConnectionError(err error) {
	c.connErr = err
	c.errorText = models.ConnectionErrorText
	log.Error().Err(err).Msg("model session unavailable, chat disabled")
}

// Submit starts a turn for input. It is a no-op returning false when the
// trimmed input is empty or another turn is in flight. Otherwise it appends
// the user message and an empty reply placeholder, clears the banner and
// marks the controller busy.
func (c *Controller) Submit(input string) (*Turn, bool) {
	if strings.TrimSpace(input) == "" || c.Busy() {
		return nil, false
	}

	t := &Turn{
		UserID:  c.newID(SenderUser),
		ReplyID: c.newID(SenderBot),
		Text:    input,
		state:   StateUserSubmitted,
		session: c.session,
	}
	if !c.idsAvailable(t) {
		log.Error().Str("user_id", t.UserID).Str("reply_id", t.ReplyID).Msg("generated message ids collide")
		return nil, false
	}

	_ = c.store.Append(Message{ID: t.UserID, Text: input, Sender: SenderUser})
	_ = c.store.Append(Message{ID: t.ReplyID, Text: "", Sender: SenderBot})

	c.active = t
	c.errorText = ""

	log.Info().Str("turn", t.ReplyID).Int("chars", len(input)).Msg("turn submitted")
	return t, true
}

func (c *Controller) idsAvailable(t *Turn) bool {
	if t.UserID == "" || t.ReplyID == "" || t.UserID == t.ReplyID {
		return false
	}
	if _, taken := c.store.Get(t.UserID); taken {
		return false
	}
	_, taken := c.store.Get(t.ReplyID)
	return !taken
}

// Begin checks that t can be streamed. Without a session the turn fails
// immediately with a connection error and the stream client is never used.
func (c *Controller) Begin(t *Turn) bool {
	if !c.owns(t) || t.state != StateUserSubmitted {
		return false
	}
	if c.session == nil {
		cause := c.connErr
		if cause == nil {
			cause = apierrors.ErrNoSession
		}
		c.Fail(t, apierrors.NewConnectionError("no model session", cause))
		return false
	}
	return true
}

// Attach binds the opened stream to t and moves it to streaming. A stream
// for a turn that is no longer active is closed and dropped.
func (c *Controller) Attach(t *Turn, stream Stream) bool {
	if !c.owns(t) || t.state != StateUserSubmitted {
		if stream != nil {
			_ = stream.Close()
		}
		return false
	}
	t.stream = stream
	t.state = StateStreaming
	return true
}

// Apply appends fragment to the turn's reply and overwrites the placeholder
// with the whole reply so far.
func (c *Controller) Apply(t *Turn, fragment string) bool {
	if !c.owns(t) || t.state != StateStreaming {
		return false
	}
	t.reply.WriteString(fragment)
	t.fragments++
	return c.store.UpdateText(t.ReplyID, t.reply.String())
}

// Complete ends a streaming turn normally
func (c *Controller) Complete(t *Turn) bool {
	if !c.owns(t) || t.state != StateStreaming {
		return false
	}
	t.state = StateCompleted
	c.finish(t)

	log.Info().Str("turn", t.ReplyID).Int("fragments", t.fragments).Int("chars", t.reply.Len()).Msg("turn completed")
	return true
}

// Fail ends the turn with err. The placeholder is replaced with a fixed
// user-facing string and the banner is set.
func (c *Controller) Fail(t *Turn, err error) bool {
	if !c.owns(t) {
		return false
	}
	if err == nil {
		err = apierrors.NewStreamError("", nil)
	}
	if !apierrors.IsConnectionError(err) && !apierrors.IsStreamError(err) {
		err = apierrors.NewStreamError("turn failed", err)
	}

	text := models.ApologyText
	if apierrors.IsConnectionError(err) {
		text = models.ConnectionErrorText
	}

	t.state = StateFailed
	t.err = err
	c.store.UpdateText(t.ReplyID, text)
	c.errorText = text
	c.finish(t)

	log.Warn().Err(err).Str("turn", t.ReplyID).Int("fragments", t.fragments).Msg("turn failed")
	return true
}

func (c *Controller) finish(t *Turn) {
	if t.stream != nil {
		_ = t.stream.Close()
	}
	c.active = nil
}

func (c *Controller) owns(t *Turn) bool {
	return t != nil && c.active == t
}

// Run drives a whole turn on the calling goroutine. onFragment, if set, is
// called after each fragment is applied. Every path ends in completed or
// failed; the returned error is the failure, or ErrTurnRejected.
func (c *Controller) Run(ctx context.Context, input string, onFragment func(string)) (*Turn, error) {
	t, ok := c.Submit(input)
	if !ok {
		return nil, ErrTurnRejected
	}
	if !c.Begin(t) {
		return t, t.err
	}

	stream, err := t.Open(ctx)
	if err != nil {
		c.Fail(t, err)
		return t, t.err
	}
	c.Attach(t, stream)

	for {
		fragment, err := stream.Next()
		if errors.Is(err, io.EOF) {
			c.Complete(t)
			return t, nil
		}
		if err != nil {
			c.Fail(t, err)
			return t, t.err
		}
		c.Apply(t, fragment)
		if onFragment != nil {
			onFragment(fragment)
		}
	}
}
