package duckchat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// TokenPair holds the rotating session credential. Current is the token
// attached to the next exchange request; Previous is the value that was
// current before the last completed exchange, kept so exactly one exchange
// can be rolled back.
//
// TokenPair is a value: Rotate and Rollback return new pairs and perform
// no I/O.
type TokenPair struct {
	Previous string
	Current  string
}

// Rotate records a server-issued token, shifting the current value into
// Previous.
func (p TokenPair) Rotate(next string) TokenPair {
	return TokenPair{Previous: p.Current, Current: next}
}

// Rollback undoes exactly one rotation. Applying it twice without an
// intervening Rotate changes nothing: the server issues one token per
// exchange, so only one step of history exists.
func (p TokenPair) Rollback() TokenPair {
	return TokenPair{Previous: p.Previous, Current: p.Previous}
}

// Handshake obtains the initial session token from the status endpoint.
// The returned pair has Previous == Current. Failures wrap [ErrHandshake]:
// a request failure or non-success status carries the [*TransportError] in
// the chain, a success response without the token header carries
// [ErrMissingToken].
func Handshake(ctx context.Context, t *Transport, logger *slog.Logger) (TokenPair, error) {
	header := make(http.Header)
	header.Set(headerTokenAccept, "1")

	resp, err := t.Get(ctx, t.StatusURL(), header)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	defer resp.Body.Close()

	token := resp.Header.Get(headerToken)
	if token == "" {
		return TokenPair{}, fmt.Errorf("%w: %w", ErrHandshake, ErrMissingToken)
	}

	logger.Debug("handshake complete")
	return TokenPair{Previous: token, Current: token}, nil
}
