// Package duckchat implements a client session for DuckDuckGo's duck.ai
// conversational endpoint.
//
// A [Session] owns the two pieces of state the protocol makes the client
// responsible for: the rotating x-vqd-4 credential ([TokenPair]) and the
// ordered message history ([Conversation]). [Start] performs the token
// handshake, [Session.Send] posts a user turn and decodes the streamed
// reply into [Fragment] values, and [Session.Undo] rolls both stores back
// by one exchange.
//
// # Concurrency
//
// Send decodes the response body on its own goroutine and delivers
// fragments through a channel that never blocks the decoder and never
// drops a fragment. The terminal fragment (Last == true) arrives exactly
// once, after which the channel closes. A session serves one exchange at a
// time: callers sequence Send and Undo themselves; there is no internal
// locking.
//
// # Token lifecycle
//
// The server issues a token on the handshake and a replacement on every
// completed exchange. The pair keeps exactly one step of history so a
// rejected exchange can be undone together with its conversation turns.
package duckchat
