// Package printer compiles a token stream into a [layout.Doc] (rendering it
// is left to the layout package), implementing the language-specific
// formatting rules: attribute
// separation, function clause indentation, bracket nesting, operator
// alignment, inline-comment hoisting, bit-string and arity syntax, pipe
// alternatives, and macro invocations.
package printer

import "github.com/shamis/steamroller/token"

// EndTag identifies why [GetEndOfExpr] stopped scanning.
type EndTag int

const (
	// EndNone means the slice ran out, or a later-line comment terminated
	// the expression without being consumed.
	EndNone EndTag = iota
	EndDot
	EndSemicolon
	EndComma
	// EndComment means the returned expression tokens are a hoisted
	// comment — either a bare leading comment, or one that shared its
	// line with the preceding token.
	EndComment
)

// GetUntil scans toks, which must begin with an opener of kind start,
// tracking nesting so that inner openers of the same kind increment and
// inner closers decrement a balanced counter. It returns the tokens
// strictly between the matching open/close pair and everything after the
// matching closer.
func GetUntil(start token.Kind, toks []token.Token) (inside, after []token.Token) {
	if len(toks) == 0 || toks[0].Kind != start {
		return nil, toks
	}
	end := token.Openers[start]
	depth := 0
	for i := 1; i < len(toks); i++ {
		switch toks[i].Kind {
		case start:
			depth++
		case end:
			if depth == 0 {
				return toks[1:i], toks[i+1:]
			}
			depth--
		}
	}
	// unbalanced input: everything remaining belongs to "inside"
	return toks[1:], nil
}

// RemoveMatching removes the first balanced start...end pair from toks,
// dropping both delimiters but preserving their contents in place. It is
// used to strip the parentheses wrapping the whole expression of a spec
// attribute.
func RemoveMatching(start token.Kind, toks []token.Token) []token.Token {
	openIdx := -1
	for i, t := range toks {
		if t.Kind == start {
			openIdx = i
			break
		}
	}
	if openIdx == -1 {
		return toks
	}

	end := token.Openers[start]
	depth := 0
	closeIdx := -1
	for i := openIdx + 1; i < len(toks); i++ {
		switch toks[i].Kind {
		case start:
			depth++
		case end:
			if depth == 0 {
				closeIdx = i
				break
			}
			depth--
		}
		if closeIdx != -1 {
			break
		}
	}
	if closeIdx == -1 {
		return toks
	}

	out := make([]token.Token, 0, len(toks)-2)
	out = append(out, toks[:openIdx]...)
	out = append(out, toks[openIdx+1:closeIdx]...)
	out = append(out, toks[closeIdx+1:]...)
	return out
}

// GetEndOfExpr cuts toks at the first top-level ',', ';', or '.', skipping
// any bracketed span (of any bracket kind, arbitrarily nested) as an atomic
// block. Comments are hoisted per these rules:
//
//   - a bare leading comment (toks[0] is a comment) is returned alone;
//   - a comment sharing its line with the preceding token is an inline
//     comment: it is returned alone, and the expression accumulated so far
//     is pushed back onto the front of rest so the caller re-emits it
//     after the comment;
//   - a comment on a later line ends the expression without being
//     consumed — it remains the first token of rest;
//   - a terminator immediately followed, on the same line, by a comment
//     returns both as the expression's tail.
func GetEndOfExpr(toks []token.Token) (expr, rest []token.Token, tag EndTag) {
	var closers []token.Kind

	for i := 0; i < len(toks); i++ {
		t := toks[i]

		if len(closers) == 0 {
			if t.Kind == token.Comment {
				if len(expr) == 0 {
					return []token.Token{t}, toks[i+1:], EndComment
				}
				prev := expr[len(expr)-1]
				if t.Line == prev.Line {
					combined := make([]token.Token, 0, len(expr)+len(toks)-i-1)
					combined = append(combined, expr...)
					combined = append(combined, toks[i+1:]...)
					return []token.Token{t}, combined, EndComment
				}
				return expr, toks[i:], EndNone
			}
			if t.IsTerminator() {
				if i+1 < len(toks) && toks[i+1].Kind == token.Comment && toks[i+1].Line == t.Line {
					expr = append(expr, t, toks[i+1])
					return expr, toks[i+2:], terminatorTag(t.Kind)
				}
				expr = append(expr, t)
				return expr, toks[i+1:], terminatorTag(t.Kind)
			}
		}

		if token.IsOpener(t.Kind) {
			closers = append(closers, token.Openers[t.Kind])
			expr = append(expr, t)
			continue
		}
		if len(closers) > 0 && t.Kind == closers[len(closers)-1] {
			closers = closers[:len(closers)-1]
			expr = append(expr, t)
			continue
		}

		expr = append(expr, t)
	}

	return expr, nil, EndNone
}

func terminatorTag(kind token.Kind) EndTag {
	switch kind {
	case token.Dot:
		return EndDot
	case token.Semicolon:
		return EndSemicolon
	case token.Comma:
		return EndComma
	default:
		return EndNone
	}
}
