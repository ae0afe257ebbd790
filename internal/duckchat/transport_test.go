package duckchat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elmash/duck-chat/internal/testutil"
)

// newTestTransport builds a Transport against a scripted server, paced
// loosely enough that tests never wait on the limiter.
func newTestTransport(t *testing.T, baseURL string) *Transport {
	t.Helper()
	tr, err := NewTransport(TransportConfig{
		StatusURL:         baseURL + testutil.StatusPath,
		ChatURL:           baseURL + testutil.ChatPath,
		RequestsPerMinute: 60000,
	}, testutil.DiscardLogger())
	require.NoError(t, err)
	return tr
}

func TestNewTransport_Defaults(t *testing.T) {
	tr, err := NewTransport(TransportConfig{}, testutil.DiscardLogger())
	require.NoError(t, err)

	assert.Equal(t, "https://duckduckgo.com/duckchat/v1/status", tr.StatusURL())
	assert.Equal(t, "https://duckduckgo.com/duckchat/v1/chat", tr.ChatURL())
}

func TestNewTransport_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  TransportConfig
	}{
		{"bad scheme", TransportConfig{StatusURL: "ftp://example.com/status"}},
		{"no host", TransportConfig{ChatURL: "https:///chat"}},
		{"unparsable URL", TransportConfig{StatusURL: "http://bad url with spaces"}},
		{"negative timeout", TransportConfig{Timeout: -time.Second}},
		{"negative rate", TransportConfig{RequestsPerMinute: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransport(tt.cfg, testutil.DiscardLogger())
			assert.Error(t, err)
		})
	}
}

func TestTransport_AttachesHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)

	header := make(http.Header)
	header.Set("x-vqd-accept", "1")
	resp, err := tr.Get(context.Background(), srv.URL+"/probe", header)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, "1", got.Get("x-vqd-accept"))
	assert.Equal(t, "duck-chat", got.Get("User-Agent"))
}

func TestTransport_Non2xxStatus(t *testing.T) {
	srv := testutil.ChatScript{ChatStatus: 418, ChatBody: "short and stout"}.Server(t)
	tr := newTestTransport(t, srv.URL)

	_, err := tr.Post(context.Background(), tr.ChatURL(), []byte(`{}`), nil)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 418, terr.Status)
	assert.Equal(t, "I'm a teapot", terr.Reason)
	assert.Contains(t, terr.Body, "short and stout")
}

func TestTransport_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	tr := newTestTransport(t, srv.URL)

	_, err := tr.Get(context.Background(), srv.URL+"/status", nil)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 0, terr.Status)
	assert.NotEmpty(t, terr.Reason)
	assert.Error(t, terr.Unwrap())
}

func TestTransport_ContextCancelled(t *testing.T) {
	srv := testutil.ChatScript{HandshakeToken: "T0"}.Server(t)
	tr := newTestTransport(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Get(ctx, tr.StatusURL(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTransport_PacingAllowsBurst(t *testing.T) {
	srv := testutil.ChatScript{HandshakeToken: "T0"}.Server(t)

	// One request per second with the standard burst: the whole burst
	// must pass without waiting, the next request must not.
	tr, err := NewTransport(TransportConfig{
		StatusURL:         srv.URL + testutil.StatusPath,
		ChatURL:           srv.URL + testutil.ChatPath,
		RequestsPerMinute: 60,
	}, testutil.DiscardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	for i := 0; i < rateBurst; i++ {
		resp, err := tr.Get(ctx, tr.StatusURL(), nil)
		require.NoError(t, err, "request %d of the burst should not wait", i+1)
		require.NoError(t, resp.Body.Close())
	}

	// The burst is spent; the next request would wait ~1s, beyond the
	// context deadline.
	_, err = tr.Get(ctx, tr.StatusURL(), nil)
	require.Error(t, err)
}

func TestTransportError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *TransportError
		want string
	}{
		{
			name: "network failure",
			err:  &TransportError{Reason: "connection refused"},
			want: "transport: connection refused",
		},
		{
			name: "status with body",
			err:  &TransportError{Status: 401, Reason: "Unauthorized", Body: "stale session token"},
			want: "transport: 401 Unauthorized: stale session token",
		},
		{
			name: "status without body",
			err:  &TransportError{Status: 429, Reason: "Too Many Requests"},
			want: "transport: 429 Too Many Requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
