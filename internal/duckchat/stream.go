package duckchat

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Fragment is one unit of streamed assistant output. Text fragments carry
// Last == false. The terminal fragment carries Last == true and, when the
// stream failed mid-reply, the failure in Err.
type Fragment struct {
	Text string
	Last bool
	Err  error
}

// Framing constants of the streamed reply.
const (
	dataPrefix = "data: "
	doneMarker = "[DONE]"

	// maxLineBytes bounds one stream line. Replies arrive in small
	// chunks; a whole reply in a single event still fits comfortably.
	maxLineBytes = 1 << 20

	// streamChanBuffer sizes the channels on both ends of the relay.
	// The relay queue grows past it; the buffer only keeps short
	// exchanges from bouncing between goroutines.
	streamChanBuffer = 16
)

// streamEvent is the JSON payload of one data line. Message is a pointer
// so an absent field is distinguishable from an empty string.
type streamEvent struct {
	Message *string `json:"message"`
}

// decode consumes one streaming response body and writes fragments to
// frags: zero or more text fragments in wire order, then exactly one
// terminal fragment. It closes frags and the body when done.
//
// Lines are handled as the protocol demands: blanks and lines without the
// data prefix are noise, unparsable payloads are skipped, the done marker
// or a clean end of body completes the reply, and only a read error makes
// the exchange fail. On completion the exchange commits into the session
// (token rotation + assistant turn) before the terminal fragment is sent,
// so a consumer that observed the terminal fragment observes the committed
// state too.
func (s *Session) decode(resp *http.Response, frags chan<- Fragment) {
	defer close(frags)
	defer resp.Body.Close()

	var (
		reply   strings.Builder
		sawDone bool
	)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		payload, ok := strings.CutPrefix(line, dataPrefix)
		if !ok {
			s.logger.Debug("skipping non-data line")
			continue
		}
		if payload == doneMarker {
			sawDone = true
			break
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			s.logger.Debug("skipping malformed event", "error", err)
			continue
		}
		if ev.Message == nil {
			continue
		}
		reply.WriteString(*ev.Message)
		if *ev.Message != "" {
			frags <- Fragment{Text: *ev.Message}
		}
	}

	if !sawDone {
		if err := scanner.Err(); err != nil {
			// The exchange never completed. Discard the pending user
			// turn so the history again matches the last state the
			// server acknowledged; the token pair was never rotated.
			s.conv.dropLast()
			frags <- Fragment{Last: true, Err: fmt.Errorf("%w: %w", ErrStreamInterrupted, err)}
			return
		}
		// The body ended without the explicit marker; the reply is
		// complete all the same.
	}

	s.commit(resp, reply.String())
	frags <- Fragment{Last: true}
}

// commit finalizes a completed exchange: rotate to the server-issued token
// and record the assistant turn. It runs on the decode goroutine, which
// owns the session state until the terminal fragment is delivered.
func (s *Session) commit(resp *http.Response, reply string) {
	if next := resp.Header.Get(headerToken); next != "" {
		s.tokens = s.tokens.Rotate(next)
	} else {
		// Keep the stale pair. The server will reject the next exchange,
		// surfacing the problem as a transport failure there.
		s.logger.Warn("completed stream carried no session token header")
	}
	s.conv.AppendAssistant(reply)
	s.logger.Debug("exchange committed", "reply_bytes", len(reply), "turns", s.conv.Len())
}

// relay forwards fragments from in to the returned channel through an
// in-memory FIFO, so a slow or absent consumer never blocks the producer
// and no fragment is dropped. The returned channel closes once in has
// closed and the queue has drained.
func relay(in <-chan Fragment) <-chan Fragment {
	out := make(chan Fragment, streamChanBuffer)
	go func() {
		defer close(out)
		var queue []Fragment
		for in != nil || len(queue) > 0 {
			var (
				send chan<- Fragment
				head Fragment
			)
			if len(queue) > 0 {
				send = out
				head = queue[0]
			}
			select {
			case f, ok := <-in:
				if !ok {
					in = nil
					continue
				}
				queue = append(queue, f)
			case send <- head:
				queue = queue[1:]
			}
		}
	}()
	return out
}
