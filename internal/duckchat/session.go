package duckchat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// chatPayload is the exchange request body.
type chatPayload struct {
	Model    string `json:"model"`
	Messages []Turn `json:"messages"`
}

// Session is one authenticated conversation with the chat endpoint. It
// owns the token pair and the message history; nothing else mutates them.
//
// A session runs one exchange at a time: callers must not overlap Send
// calls, nor call Undo while a fragment stream is still open. See the
// package documentation.
type Session struct {
	id        uuid.UUID
	model     Model
	transport *Transport
	logger    *slog.Logger

	tokens TokenPair
	conv   *Conversation
}

// Start opens a session for model: it performs the token handshake and
// returns a session with an empty history. Failures wrap [ErrSessionInit];
// after a failed Start no session state exists.
func Start(ctx context.Context, t *Transport, model Model, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.New()
	logger = logger.With("session", id.String(), "model", model.Alias)

	tokens, err := Handshake(ctx, t, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionInit, err)
	}

	logger.Info("session started")
	return &Session{
		id:        id,
		model:     model,
		transport: t,
		logger:    logger,
		tokens:    tokens,
		conv:      NewConversation(),
	}, nil
}

// Send posts text as the next user turn and returns the reply stream. The
// channel yields fragments in wire order and ends with exactly one
// terminal fragment, after which it closes. Send returns as soon as the
// response headers arrive; decoding proceeds concurrently and commits the
// exchange before the terminal fragment is delivered.
//
// On a synchronous failure (request build, network, non-success status)
// the pending user turn is discarded and the session is unchanged.
func (s *Session) Send(ctx context.Context, text string) (<-chan Fragment, error) {
	s.conv.AppendUser(text)

	payload, err := json.Marshal(chatPayload{
		Model:    s.model.ID,
		Messages: s.conv.Snapshot(),
	})
	if err != nil {
		s.conv.dropLast()
		return nil, fmt.Errorf("encode request: %w", err)
	}

	header := make(http.Header)
	header.Set(headerToken, s.tokens.Current)
	header.Set("Content-Type", "application/json")
	header.Set("Accept", "text/event-stream")

	resp, err := s.transport.Post(ctx, s.transport.ChatURL(), payload, header)
	if err != nil {
		s.conv.dropLast()
		return nil, err
	}

	raw := make(chan Fragment, streamChanBuffer)
	frags := relay(raw)
	go s.decode(resp, raw)
	return frags, nil
}

// Undo reverts the last completed exchange: the assistant+user turn pair
// is removed and the token pair rolls back to its pre-exchange value. With
// no completed exchange to revert it reports false and changes nothing.
func (s *Session) Undo() bool {
	if !s.conv.Rollback() {
		return false
	}
	s.tokens = s.tokens.Rollback()
	s.logger.Debug("exchange rolled back", "turns", s.conv.Len())
	return true
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID { return s.id }

// Model returns the model the session was started with. It does not change
// over the session's life.
func (s *Session) Model() Model { return s.model }

// Tokens returns the current token pair.
func (s *Session) Tokens() TokenPair { return s.tokens }

// History returns a copy of the conversation so far.
func (s *Session) History() []Turn { return s.conv.Snapshot() }
