package token_test

import (
	"testing"

	"github.com/teleivo/assertive/assert"

	"github.com/shamis/steamroller/token"
)

func TestPunctPanicsOnNonPunctKind(t *testing.T) {
	defer func() {
		r := recover()
		assert.True(t, r != nil, "expected Punct to panic for a non-punct kind")
	}()
	token.Punct(token.Atom, 1)
}

func TestIsTerminator(t *testing.T) {
	tests := map[string]struct {
		tok  token.Token
		want bool
	}{
		"Comma":     {tok: token.Punct(token.Comma, 1), want: true},
		"Semicolon": {tok: token.Punct(token.Semicolon, 1), want: true},
		"Dot":       {tok: token.Punct(token.Dot, 1), want: true},
		"Atom":      {tok: token.NewAtom(1, "foo"), want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.EqualValues(t, tc.tok.IsTerminator(), tc.want)
		})
	}
}

func TestOpenersAndClosersAreInverse(t *testing.T) {
	for open, close := range token.Openers {
		assert.EqualValues(t, token.Closers[close], open)
	}
}
