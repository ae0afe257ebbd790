package duckchat

import (
	"context"
	"errors"
	"testing"

	"github.com/Elmash/duck-chat/internal/testutil"
)

func TestTokenPair_Rotate(t *testing.T) {
	t.Parallel()

	pair := TokenPair{Previous: "T0", Current: "T0"}

	pair = pair.Rotate("T1")
	if pair != (TokenPair{Previous: "T0", Current: "T1"}) {
		t.Fatalf("after first rotation: %+v", pair)
	}

	pair = pair.Rotate("T2")
	if pair != (TokenPair{Previous: "T1", Current: "T2"}) {
		t.Fatalf("after second rotation: %+v", pair)
	}
}

func TestTokenPair_Rollback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pair TokenPair
		want TokenPair
	}{
		{
			name: "undoes one rotation",
			pair: TokenPair{Previous: "T0", Current: "T1"},
			want: TokenPair{Previous: "T0", Current: "T0"},
		},
		{
			name: "fresh pair unchanged",
			pair: TokenPair{Previous: "T0", Current: "T0"},
			want: TokenPair{Previous: "T0", Current: "T0"},
		},
		{
			name: "zero value unchanged",
			pair: TokenPair{},
			want: TokenPair{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.pair.Rollback(); got != tt.want {
				t.Errorf("Rollback() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTokenPair_RollbackIdempotent(t *testing.T) {
	t.Parallel()

	pair := TokenPair{Previous: "T0", Current: "T1"}
	once := pair.Rollback()
	twice := once.Rollback()
	if once != twice {
		t.Errorf("second rollback changed the pair: %+v vs %+v", once, twice)
	}
}

func TestHandshake(t *testing.T) {
	t.Run("returns initial pair", func(t *testing.T) {
		srv := testutil.ChatScript{HandshakeToken: "T0"}.Server(t)
		tr := newTestTransport(t, srv.URL)

		pair, err := Handshake(context.Background(), tr, testutil.DiscardLogger())
		if err != nil {
			t.Fatalf("Handshake() error = %v", err)
		}
		if pair.Previous != "T0" || pair.Current != "T0" {
			t.Errorf("initial pair = %+v, want previous == current == T0", pair)
		}
	})

	t.Run("non-success status", func(t *testing.T) {
		srv := testutil.ChatScript{HandshakeStatus: 500}.Server(t)
		tr := newTestTransport(t, srv.URL)

		_, err := Handshake(context.Background(), tr, testutil.DiscardLogger())
		if !errors.Is(err, ErrHandshake) {
			t.Fatalf("error = %v, want ErrHandshake in chain", err)
		}
		var terr *TransportError
		if !errors.As(err, &terr) || terr.Status != 500 {
			t.Errorf("error = %v, want wrapped TransportError with status 500", err)
		}
	})

	t.Run("missing token header", func(t *testing.T) {
		srv := testutil.ChatScript{}.Server(t)
		tr := newTestTransport(t, srv.URL)

		_, err := Handshake(context.Background(), tr, testutil.DiscardLogger())
		if !errors.Is(err, ErrHandshake) || !errors.Is(err, ErrMissingToken) {
			t.Errorf("error = %v, want ErrHandshake and ErrMissingToken in chain", err)
		}
	})
}
