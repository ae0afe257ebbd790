package duckchat

// Role identifies the author of a turn, using the wire values the chat
// endpoint expects.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the conversation. Immutable once appended.
type Turn struct {
	Content string `json:"content"`
	Role    Role   `json:"role"`
}

// Conversation is the ordered message history of one session. Serialized
// in order it is the exact dialogue the server has acknowledged up to the
// last committed assistant turn, plus at most one pending user turn for
// the exchange in flight.
//
// Conversation is not safe for concurrent use; a session runs one exchange
// at a time (see the package documentation).
type Conversation struct {
	turns []Turn
}

// NewConversation returns an empty history.
func NewConversation() *Conversation {
	return &Conversation{}
}

// AppendUser appends a user turn. Content policy (non-empty, sanitized) is
// the caller's responsibility.
func (c *Conversation) AppendUser(content string) {
	c.turns = append(c.turns, Turn{Content: content, Role: RoleUser})
}

// AppendAssistant appends an assistant turn.
func (c *Conversation) AppendAssistant(content string) {
	c.turns = append(c.turns, Turn{Content: content, Role: RoleAssistant})
}

// Rollback removes the last assistant+user pair. With fewer than two turns
// present it changes nothing and reports false. Token rollback must go
// with it; [Session.Undo] invokes both.
func (c *Conversation) Rollback() bool {
	if len(c.turns) < 2 {
		return false
	}
	c.turns = c.turns[:len(c.turns)-2]
	return true
}

// Snapshot returns a copy of the history in insertion order, safe for the
// caller to hold while the conversation advances.
func (c *Conversation) Snapshot() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len reports the number of turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// dropLast removes the most recent turn. Send uses it to revert an
// optimistic user append when the request never reached the server.
func (c *Conversation) dropLast() {
	if len(c.turns) > 0 {
		c.turns = c.turns[:len(c.turns)-1]
	}
}
