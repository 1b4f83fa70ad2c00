package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	http "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog/log"

	apierrors "github.com/diogo/healthchat/internal/errors"
	"github.com/diogo/healthchat/internal/models"
)

// Roles used in the request history
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part is one text part of a content entry
type Part struct {
	Text string `json:"text"`
}

// Content is one turn of conversation history
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// generateRequest is the streamGenerateContent request body
type generateRequest struct {
	Contents          []Content `json:"contents"`
	SystemInstruction *Content  `json:"systemInstruction,omitempty"`
}

// ChatSession maintains conversation context across messages.
// History only grows when a stream completes cleanly.
type ChatSession struct {
	client  *GeminiClient
	mu      sync.Mutex
	model   models.Model
	history []Content
}

// SendMessageStream sends text as the next user turn and returns the reply
// as a lazy fragment stream.
func (s *ChatSession) SendMessageStream(ctx context.Context, text string) (*Stream, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apierrors.NewStreamError("message cannot be empty", nil)
	}
	if s.client.IsClosed() {
		return nil, apierrors.NewStreamError("client is closed", nil)
	}

	payload, err := s.buildPayload(text)
	if err != nil {
		return nil, apierrors.NewStreamError("failed to build payload", err)
	}

	endpoint := s.client.modelURLFor(s.GetModel(), ":streamGenerateContent?alt=sse")
	req, err := s.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apierrors.NewStreamError("failed to create request", err)
	}

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewStreamError("send message",
			apierrors.NewNetworkErrorWithEndpoint("send message", endpoint, err))
	}

	if resp.StatusCode != http.StatusOK {
		body := readLimited(resp.Body, maxErrorBody)
		closeBody(resp)
		return nil, apierrors.NewStreamError("send message",
			apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, "stream request rejected", body))
	}

	log.Debug().Str("model", s.GetModel().Name).Int("history", s.HistoryLen()).Msg("reply stream opened")
	return newStream(resp.Body, endpoint, func(reply string) {
		s.commit(text, reply)
	}), nil
}

// buildPayload serializes the history plus the pending user turn
func (s *ChatSession) buildPayload(text string) ([]byte, error) {
	s.mu.Lock()
	contents := make([]Content, 0, len(s.history)+1)
	contents = append(contents, s.history...)
	s.mu.Unlock()

	contents = append(contents, Content{Role: RoleUser, Parts: []Part{{Text: text}}})

	req := generateRequest{Contents: contents}
	if instruction := s.client.SystemInstruction(); instruction != "" {
		req.SystemInstruction = &Content{Parts: []Part{{Text: instruction}}}
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return data, nil
}

// commit records a completed exchange. Empty replies are not recorded since
// the backend rejects empty parts.
func (s *ChatSession) commit(userText, reply string) {
	if reply == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history,
		Content{Role: RoleUser, Parts: []Part{{Text: userText}}},
		Content{Role: RoleModel, Parts: []Part{{Text: reply}}},
	)
}

// History returns a copy of the recorded turns
func (s *ChatSession) History() []Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Content, len(s.history))
	copy(out, s.history)
	return out
}

// HistoryLen returns the number of recorded content entries
func (s *ChatSession) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// GetModel returns the session's model
func (s *ChatSession) GetModel() models.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// SetModel changes the session's model
func (s *ChatSession) SetModel(model models.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}
