// Package testutil provides test doubles for the duck-chat test suites:
// a discard logger and a scripted stand-in for the remote chat service.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Endpoint paths served by ChatScript servers, mirroring the real service.
const (
	StatusPath = "/duckchat/v1/status"
	ChatPath   = "/duckchat/v1/chat"
)

// ChatScript configures a fake of the remote chat service: a status
// endpoint that issues a session token and a chat endpoint that streams a
// scripted reply. The zero value serves 200s with no token headers and an
// empty, immediately terminated stream.
type ChatScript struct {
	// HandshakeToken is set as the x-vqd-4 header of the status response.
	// Empty omits the header.
	HandshakeToken string

	// HandshakeStatus overrides the status endpoint's response code.
	// Zero means 200.
	HandshakeStatus int

	// ChatStatus overrides the chat endpoint's response code. Zero means
	// 200; non-2xx values serve ChatBody as the error body.
	ChatStatus int

	// ChatBody is the body sent with a non-2xx ChatStatus.
	ChatBody string

	// NextToken is set as the x-vqd-4 header of the chat response.
	// Empty omits the header.
	NextToken string

	// NextTokens, when set, issues the i-th value on the i-th chat call
	// and repeats the last one afterwards. Takes precedence over
	// NextToken.
	NextTokens []string

	// RequireTokens, when set, rejects the i-th chat call with 401
	// unless its x-vqd-4 request header equals the i-th value (the last
	// value repeats). This is how the real service treats stale tokens.
	RequireTokens []string

	// Messages are streamed one data line each, followed by the
	// terminal marker.
	Messages []string

	// Raw, when set, is streamed verbatim (one line per entry, blank
	// separator after each) instead of Messages. No terminal marker is
	// appended.
	Raw []string

	// Hangup aborts the connection after the scripted lines instead of
	// ending the response cleanly, so clients observe a read error.
	Hangup bool

	// OnChat observes every chat request after its body has been read.
	OnChat func(r *http.Request, body []byte)
}

// Server starts an httptest server scripted by s. It shuts down with tb.
func (s ChatScript) Server(tb testing.TB) *httptest.Server {
	tb.Helper()

	var (
		mu        sync.Mutex
		chatCalls int
	)

	mux := http.NewServeMux()
	mux.HandleFunc(StatusPath, func(w http.ResponseWriter, r *http.Request) {
		if s.HandshakeToken != "" {
			w.Header().Set("x-vqd-4", s.HandshakeToken)
		}
		status := s.HandshakeStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
	})

	mux.HandleFunc(ChatPath, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if s.OnChat != nil {
			s.OnChat(r, body)
		}

		if s.ChatStatus != 0 && (s.ChatStatus < 200 || s.ChatStatus > 299) {
			http.Error(w, s.ChatBody, s.ChatStatus)
			return
		}

		mu.Lock()
		call := chatCalls
		chatCalls++
		mu.Unlock()

		if want := nthOrLast(s.RequireTokens, call); want != "" && r.Header.Get("x-vqd-4") != want {
			http.Error(w, "stale session token", http.StatusUnauthorized)
			return
		}

		if token := s.tokenForCall(call); token != "" {
			w.Header().Set("x-vqd-4", token)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		flusher, canFlush := w.(http.Flusher)
		for _, line := range s.lines() {
			fmt.Fprintf(w, "%s\n\n", line)
			if canFlush {
				flusher.Flush()
			}
		}

		if s.Hangup {
			// Drop the connection without the terminating chunk so the
			// client's read fails instead of reaching a clean EOF.
			panic(http.ErrAbortHandler)
		}
	})

	srv := httptest.NewServer(mux)
	tb.Cleanup(srv.Close)
	return srv
}

func (s ChatScript) tokenForCall(call int) string {
	if len(s.NextTokens) == 0 {
		return s.NextToken
	}
	return nthOrLast(s.NextTokens, call)
}

func nthOrLast(values []string, i int) string {
	if len(values) == 0 {
		return ""
	}
	if i >= len(values) {
		i = len(values) - 1
	}
	return values[i]
}

func (s ChatScript) lines() []string {
	if s.Raw != nil {
		return s.Raw
	}
	lines := make([]string, 0, len(s.Messages)+1)
	for _, m := range s.Messages {
		payload, _ := json.Marshal(struct {
			Message string `json:"message"`
		}{m})
		lines = append(lines, "data: "+string(payload))
	}
	return append(lines, "data: [DONE]")
}
