package printer

import (
	"github.com/shamis/steamroller/layout"
	"github.com/shamis/steamroller/token"
)

var bracketDelims = map[token.Kind][2]string{
	token.LParen:     {"(", ")"},
	token.LBrace:     {"{", "}"},
	token.LBracket:   {"[", "]"},
	token.DoubleOpen: {"<<", ">>"},
}

// compileBracketGroup compiles the contents of a balanced bracket pair
// (already stripped of its delimiters by [GetUntil]) into a group that lays
// its elements out one-per-line when it doesn't fit flat, and collapses to
// an empty pair with no interior whitespace when there are no elements.
// Whether it fits is a plain width decision, made fresh at this position —
// a short multi-element list still renders on one line.
func compileBracketGroup(open token.Kind, inside []token.Token, forceBreak bool) (layout.Doc, bool, error) {
	delims, ok := bracketDelims[open]
	if !ok {
		delims = [2]string{open.String(), token.Openers[open].String()}
	}

	if len(inside) == 0 {
		return layout.Concat(layout.Text(delims[0]), layout.Text(delims[1])), forceBreak, nil
	}

	elems, fb, err := compileExprList(inside, forceBreak)
	if err != nil {
		return nil, false, err
	}

	joined := joinCommaBreak(elems)
	doc := layout.Group(layout.ForceBreak(fb, layout.Concat(
		layout.Text(delims[0]),
		layout.Nest(4, layout.Concat(layout.Break(""), joined)),
		layout.Break(""),
		layout.Text(delims[1]),
	)))
	return doc, fb, nil
}

func joinCommaBreak(docs []layout.Doc) layout.Doc {
	out := layout.Nil
	for i := len(docs) - 1; i >= 0; i-- {
		if isNilLayout(out) {
			out = docs[i]
			continue
		}
		out = layout.Cons(docs[i], layout.Cons(layout.Text(","), layout.Cons(layout.Break(" "), out)))
	}
	return out
}
