// Package equivalence checks that formatting did not change a source's
// meaning. "Parse to AST and compare" is treated as an external
// collaborator; this package supplies a concrete, injectable stand-in so
// the safety gate is exercisable end to end without a real parser: it
// re-tokenizes both byte strings and compares their token streams with
// source positions and comments stripped, since repositioning tokens and
// moving comments are exactly what formatting is allowed to do.
package equivalence

import (
	"bytes"

	"github.com/shamis/steamroller/lexer"
	"github.com/shamis/steamroller/token"
)

// Parser turns source bytes into a comparable representation of its
// meaning. The default, [TokenParser], re-lexes and strips positions and
// comments; a caller wired to a real parser can supply one that builds an
// actual AST instead.
type Parser func(src []byte) (any, error)

// Equaler reports whether two parsed representations are equivalent.
type Equaler func(a, b any) bool

// TokenParser is the default [Parser]: it lexes src and returns the token
// stream with line numbers and comments stripped, leaving only the
// sequence of (kind, literal) pairs that carry semantic meaning.
func TokenParser(src []byte) (any, error) {
	toks, err := lexer.All(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	return stripped(toks), nil
}

// TokenEqual is the default [Equaler] paired with [TokenParser]: plain
// slice equality over the stripped token sequence.
func TokenEqual(a, b any) bool {
	as, aok := a.([]strippedTok)
	bs, bok := b.([]strippedTok)
	if !aok || !bok {
		return false
	}
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

type strippedTok struct {
	kind    token.Kind
	literal string
}

func stripped(toks []token.Token) []strippedTok {
	out := make([]strippedTok, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.Comment || t.Kind == token.EOF {
			continue
		}
		out = append(out, strippedTok{kind: t.Kind, literal: t.Literal})
	}
	return out
}

// Check reports whether original and produced are semantically equivalent
// under parse and equal. A non-nil error means parsing failed, which the
// caller should treat the same as an equivalence failure: the safety gate
// can't vouch for output it couldn't even parse back.
func Check(parse Parser, equal Equaler, original, produced []byte) (bool, error) {
	origParsed, err := parse(original)
	if err != nil {
		return false, err
	}
	prodParsed, err := parse(produced)
	if err != nil {
		return false, err
	}
	return equal(origParsed, prodParsed), nil
}
