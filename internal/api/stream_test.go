package api

import (
	"io"
	"strings"
	"testing"

	apierrors "github.com/diogo/healthchat/internal/errors"
)

func TestStream_Next(t *testing.T) {
	var committed []string
	body := NewMockResponseBody(sseBody(textChunk("Hel"), textChunk("lo")))
	s := newStream(body, "test", func(reply string) { committed = append(committed, reply) })

	for _, want := range []string{"Hel", "lo"} {
		got, err := s.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if got != want {
			t.Errorf("Next() = %q, want %q", got, want)
		}
	}

	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("Next() at end = %v, want io.EOF", err)
	}
	if _, err := s.Next(); err != io.EOF {
		t.Errorf("Next() after end = %v, want io.EOF", err)
	}
	if len(committed) != 1 || committed[0] != "Hello" {
		t.Errorf("onDone calls = %v", committed)
	}
	if !body.Closed {
		t.Error("body should be closed at end of stream")
	}
	if s.Fragments() != 2 {
		t.Errorf("Fragments() = %d", s.Fragments())
	}
}

func TestStream_SSEFraming(t *testing.T) {
	raw := ": keep-alive\n\n" +
		"event: message\n" +
		"data: " + textChunk("a") + "\n\n" +
		"data: {\"candidates\":[{\"content\":\n" +
		"data: {\"parts\":[{\"text\":\"b\"}]}}]}\n\n" +
		"data: " + textChunk("c")

	s := newStream(NewMockResponseBody([]byte(raw)), "test", nil)
	var got []string
	for {
		frag, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		got = append(got, frag)
	}
	if strings.Join(got, "") != "abc" {
		t.Errorf("fragments = %v, want a b c", got)
	}
}

func TestStream_SkipsEmptyAndThoughtParts(t *testing.T) {
	chunks := []string{
		`{"candidates":[{"content":{"parts":[{"text":"thinking...","thought":true}]}}]}`,
		`{"candidates":[{"content":{"parts":[]}}],"usageMetadata":{"promptTokenCount":3}}`,
		`{"candidates":[{"content":{"parts":[{"text":"ans"},{"text":"wer"}]},"finishReason":"STOP"}]}`,
	}
	s := newStream(NewMockResponseBody(sseBody(chunks...)), "test", nil)

	got, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got != "answer" {
		t.Errorf("Next() = %q, want answer", got)
	}
	if _, err := s.Next(); err != io.EOF {
		t.Errorf("Next() = %v, want io.EOF", err)
	}
}

func TestStream_Failures(t *testing.T) {
	tests := []struct {
		name      string
		chunk     string
		check     func(error) bool
		checkName string
	}{
		{
			name:      "invalid json",
			chunk:     `{"candidates":`,
			check:     func(err error) bool { return strings.Contains(err.Error(), "parse error") },
			checkName: "parse error",
		},
		{
			name:      "backend error object",
			chunk:     `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`,
			check:     func(err error) bool { return apierrors.GetHTTPStatus(err) == 503 },
			checkName: "status 503",
		},
		{
			name:      "prompt blocked",
			chunk:     `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			check:     apierrors.IsBlockedError,
			checkName: "blocked",
		},
		{
			name:      "reply blocked",
			chunk:     `{"candidates":[{"finishReason":"PROHIBITED_CONTENT"}]}`,
			check:     apierrors.IsBlockedError,
			checkName: "blocked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			committed := false
			body := NewMockResponseBody(sseBody(textChunk("Par"), tt.chunk))
			s := newStream(body, "test", func(string) { committed = true })

			if frag, err := s.Next(); err != nil || frag != "Par" {
				t.Fatalf("first Next() = %q, %v", frag, err)
			}

			_, err := s.Next()
			if !apierrors.IsStreamError(err) {
				t.Fatalf("Next() error = %v, want StreamError", err)
			}
			if !tt.check(err) {
				t.Errorf("error %v is not %s", err, tt.checkName)
			}

			if _, again := s.Next(); again != err {
				t.Error("stream should keep returning the same error")
			}
			if committed {
				t.Error("failed stream must not commit")
			}
			if !body.Closed {
				t.Error("body should be closed after failure")
			}
			if s.Text() != "Par" {
				t.Errorf("Text() = %q, delivered fragments are kept", s.Text())
			}
		})
	}
}

func TestStream_Close(t *testing.T) {
	body := NewMockResponseBody(sseBody(textChunk("x")))
	s := newStream(body, "test", nil)

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if !body.Closed {
		t.Error("body should be closed")
	}
}
