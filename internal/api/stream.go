package api

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/healthchat/internal/errors"
)

// maxEventSize bounds a single SSE line.
const maxEventSize = 1 << 20

// blockedFinishReasons end a candidate without a usable reply
var blockedFinishReasons = map[string]bool{
	"SAFETY":             true,
	"RECITATION":         true,
	"BLOCKLIST":          true,
	"PROHIBITED_CONTENT": true,
	"SPII":               true,
}

// Stream is a lazy, finite, non-restartable sequence of reply fragments
// decoded from a server-sent-events body.
type Stream struct {
	body      io.ReadCloser
	scanner   *bufio.Scanner
	endpoint  string
	onDone    func(reply string)
	reply     strings.Builder
	fragments int
	done      bool
	err       error
	closeOnce sync.Once
}

func newStream(body io.ReadCloser, endpoint string, onDone func(string)) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	return &Stream{
		body:     body,
		scanner:  scanner,
		endpoint: endpoint,
		onDone:   onDone,
	}
}

// Next returns the next non-empty fragment. It returns io.EOF once the
// reply is complete and a *errors.StreamError if the transport or the
// backend fails. Fragments already returned are never retracted.
func (s *Stream) Next() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.done {
		return "", io.EOF
	}

	for {
		payload, err := s.nextEvent()
		if err == io.EOF {
			s.finish()
			return "", io.EOF
		}
		if err != nil {
			return "", s.fail(apierrors.NewStreamError("read reply",
				apierrors.NewNetworkErrorWithEndpoint("read reply", s.endpoint, err)))
		}

		text, err := decodeChunk(payload, s.endpoint)
		if err != nil {
			return "", s.fail(err)
		}
		if text == "" {
			continue
		}

		s.reply.WriteString(text)
		s.fragments++
		return text, nil
	}
}

// Text returns everything received so far
func (s *Stream) Text() string {
	return s.reply.String()
}

// Fragments returns how many fragments have been delivered
func (s *Stream) Fragments() int {
	return s.fragments
}

// Close releases the response body. It is safe to call more than once.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.body.Close()
	})
	return err
}

func (s *Stream) finish() {
	s.done = true
	_ = s.Close()
	if s.onDone != nil {
		s.onDone(s.reply.String())
	}
}

func (s *Stream) fail(err error) error {
	s.err = err
	_ = s.Close()
	return err
}

// nextEvent returns the data of the next SSE event, joining multi-line data
// fields. Comments and non-data fields are skipped.
func (s *Stream) nextEvent() (string, error) {
	var data []string
	for s.scanner.Scan() {
		line := strings.TrimRight(s.scanner.Text(), "\r")
		if line == "" {
			if len(data) > 0 {
				return strings.Join(data, "\n"), nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		if value, ok := strings.CutPrefix(line, "data:"); ok {
			data = append(data, strings.TrimPrefix(value, " "))
		}
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	if len(data) > 0 {
		return strings.Join(data, "\n"), nil
	}
	return "", io.EOF
}

// decodeChunk extracts the reply text of one streamed GenerateContentResponse
func decodeChunk(payload, endpoint string) (string, error) {
	if !gjson.Valid(payload) {
		return "", apierrors.NewStreamError("decode chunk",
			apierrors.NewParseError("invalid JSON in stream chunk", "data"))
	}

	parsed := gjson.Parse(payload)

	if apiErr := parsed.Get("error"); apiErr.Exists() {
		return "", apierrors.NewStreamError("backend reported an error",
			apierrors.NewAPIErrorWithBody(int(apiErr.Get("code").Int()), endpoint, apiErr.Get("message").String(), payload))
	}

	if reason := parsed.Get("promptFeedback.blockReason"); reason.Exists() {
		return "", apierrors.NewStreamError("prompt blocked", apierrors.NewBlockedError(reason.String()))
	}

	var text strings.Builder
	parsed.Get("candidates.0.content.parts").ForEach(func(_, part gjson.Result) bool {
		if part.Get("thought").Bool() {
			return true
		}
		text.WriteString(part.Get("text").String())
		return true
	})

	if reason := parsed.Get("candidates.0.finishReason").String(); blockedFinishReasons[reason] {
		return "", apierrors.NewStreamError("reply blocked", apierrors.NewBlockedError(reason))
	}

	return text.String(), nil
}
