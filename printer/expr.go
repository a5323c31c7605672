package printer

import (
	"errors"
	"strconv"

	"github.com/shamis/steamroller/layout"
	"github.com/shamis/steamroller/token"
)

// ErrUnsupportedBitType is returned when a bit-string segment's type tag
// commits to the "var/atom" or "var:integer/atom" shape — the token right
// after '/' is an atom, or the token right after ':' is an integer — but
// the overall tag doesn't match either recognized form, e.g. an extended
// type list like "V/A-unit:N-A2". A '/' or ':' that does not commit to
// that shape (an ordinary variable on the right) is ordinary division or
// an unrelated construct, not this error.
var ErrUnsupportedBitType = errors.New("printer: unsupported bit-string type list")

// compileExpr compiles the tokens of a single expression (already separated
// from any trailing terminator by [GetEndOfExpr]) into a Doc. It recognizes,
// in order: a bare comment, a macro invocation, an arrow ("head -> body"),
// a function call, a bracket delegate, an equation ("Var ="), an arity
// ("atom/integer"), a bit-string tag ("var/atom" or "var:integer/atom"),
// pipe alternatives, a binary operator expression, and a single terminal
// literal; anything else falls back to space-joined literals.
func compileExpr(toks []token.Token, forceBreak bool) (layout.Doc, bool, error) {
	if len(toks) == 0 {
		return layout.Nil, forceBreak, nil
	}

	if len(toks) == 1 && toks[0].Kind == token.Comment {
		return layout.Text(toks[0].Literal), forceBreak, nil
	}

	// macro: ? name
	if toks[0].Kind == token.Question && len(toks) > 1 {
		rest, fb, err := compileExpr(toks[1:], forceBreak)
		if err != nil {
			return nil, false, err
		}
		return layout.Concat(layout.Text("?"), rest), fb, nil
	}

	// arrow: Signature -> Result (a -spec's "(Args) -> Ret" shape, or any
	// clause-like "head -> body" appearing inside an expression). Checked
	// before call/bracket recognition because it is the outermost split:
	// the call or bracket on either side is still recognized recursively.
	if arrow := findTopLevelKind(toks, token.Arrow); arrow != -1 {
		lhsDoc, fb, err := compileExpr(toks[:arrow], forceBreak)
		if err != nil {
			return nil, false, err
		}
		rhsDoc, fb2, err := compileExpr(toks[arrow+1:], fb)
		if err != nil {
			return nil, false, err
		}
		doc := layout.Group(layout.Concat(lhsDoc, layout.Text(" ->"), layout.Nest(4, layout.Concat(layout.Break(" "), rhsDoc))))
		return doc, fb2, nil
	}

	// function call or bracket delegate: Name(...), (...)
	if isCallHead(toks) {
		return compileCall(toks, forceBreak)
	}
	if token.IsOpener(toks[0].Kind) {
		inside, after := GetUntil(toks[0].Kind, toks)
		if len(after) == 0 {
			return compileBrackets(toks[0].Kind, inside, forceBreak)
		}
	}

	// equation: Var = Expr
	if eq := findTopLevelEqual(toks); eq != -1 {
		lhs := toks[:eq]
		rhsToks := toks[eq+1:]
		lhsDoc, fb, err := compileExpr(lhs, forceBreak)
		if err != nil {
			return nil, false, err
		}
		rhsDoc, fb2, err := compileExpr(rhsToks, fb)
		if err != nil {
			return nil, false, err
		}
		doc := layout.Group(layout.Concat(
			lhsDoc,
			layout.Text(" ="),
			layout.Nest(4, layout.Concat(layout.Break(" "), rhsDoc)),
		))
		return doc, fb2, nil
	}

	// arity: atom / integer
	if len(toks) == 3 && toks[0].Kind == token.Atom && toks[1].Kind == token.Slash && toks[2].Kind == token.Integer {
		return layout.Text(toks[0].Literal + "/" + toks[2].Literal), forceBreak, nil
	}

	// bit-string tag: var/atom  or  var:integer/atom
	if doc, ok, err := compileBitStringTag(toks); ok {
		return doc, forceBreak, err
	}

	// pipe alternatives: A | B | C
	if parts, ok := splitTopLevel(toks, token.Pipe); ok && len(parts) > 1 {
		return compileAlternatives(parts, forceBreak)
	}

	// binary operator: Left Op Right (lowest-precedence catch-all)
	if op := findTopLevelBinaryOp(toks); op != -1 {
		lhsDoc, fb, err := compileExpr(toks[:op], forceBreak)
		if err != nil {
			return nil, false, err
		}
		rhsDoc, fb2, err := compileExpr(toks[op+1:], fb)
		if err != nil {
			return nil, false, err
		}
		return layout.Group(layout.Concat(lhsDoc, layout.Text(" "+toks[op].Literal), layout.Nest(4, layout.Concat(layout.Break(" "), rhsDoc)))), fb2, nil
	}

	if len(toks) == 1 {
		return terminalDoc(toks[0]), forceBreak, nil
	}

	// fallback: space-joined literals in a plain group, reporting
	// forceBreak so the enclosing bracket group or argument list breaks,
	// setting it apart from a single properly-recognized form.
	docs := make([]layout.Doc, 0, len(toks))
	for _, t := range toks {
		docs = append(docs, terminalDoc(t))
	}
	return layout.Group(joinSpace(docs)), true, nil
}

func terminalDoc(t token.Token) layout.Doc {
	switch t.Kind {
	case token.String:
		return layout.Text(strconv.Quote(t.Literal))
	case token.Comment:
		return layout.Text(t.Literal)
	default:
		return layout.Text(t.Literal)
	}
}

func joinSpace(docs []layout.Doc) layout.Doc {
	out := layout.Nil
	for i := len(docs) - 1; i >= 0; i-- {
		if isNilLayout(out) {
			out = docs[i]
			continue
		}
		out = layout.Space(docs[i], out)
	}
	return out
}

// isNilLayout reports whether d is the empty document. Doc's concrete
// variants are either pointers or comparable value types, so interface
// equality against the [layout.Nil] sentinel is a cheap, correct check —
// no need to stringify the (potentially large) accumulated Doc on every
// fold step.
func isNilLayout(d layout.Doc) bool {
	return d == layout.Nil
}

// isCallHead reports whether toks opens with Name( — a function call or
// macro/record-style invocation head.
func isCallHead(toks []token.Token) bool {
	if len(toks) < 2 {
		return false
	}
	if toks[0].Kind != token.Atom && toks[0].Kind != token.Var {
		return false
	}
	return toks[1].Kind == token.LParen
}

func compileCall(toks []token.Token, forceBreak bool) (layout.Doc, bool, error) {
	name := toks[0]
	inside, after := GetUntil(token.LParen, toks[1:])
	if len(after) != 0 {
		// unbalanced; fall back to terminal-by-terminal rendering
		docs := make([]layout.Doc, 0, len(toks))
		for _, t := range toks {
			docs = append(docs, terminalDoc(t))
		}
		return layout.Group(joinSpace(docs)), true, nil
	}
	argsDoc, fb, err := compileArgList(inside, forceBreak)
	if err != nil {
		return nil, false, err
	}
	doc := layout.Concat(layout.Text(name.Literal), layout.Text("("), argsDoc, layout.Text(")"))
	return doc, fb, nil
}

func compileBrackets(open token.Kind, inside []token.Token, forceBreak bool) (layout.Doc, bool, error) {
	return compileBracketGroup(open, inside, forceBreak)
}

// compileArgList compiles a comma-separated argument list (the contents of
// a call's parentheses) into a fit-or-break group. The group is forced
// broken only when forceBreak is set or an element reports it; the number
// of elements alone does not force a break.
func compileArgList(toks []token.Token, forceBreak bool) (layout.Doc, bool, error) {
	elems, fb, err := compileExprList(toks, forceBreak)
	if err != nil {
		return nil, false, err
	}
	if len(elems) == 0 {
		return layout.Nil, fb, nil
	}
	joined := joinCommaSpace(elems)
	return layout.Group(layout.ForceBreak(fb, joined)), fb, nil
}

func joinCommaSpace(docs []layout.Doc) layout.Doc {
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

// compileExprList splits toks on top-level commas (bracket spans treated
// atomically) and compiles each slice as an independent expression.
func compileExprList(toks []token.Token, forceBreak bool) ([]layout.Doc, bool, error) {
	var docs []layout.Doc
	rest := toks
	for len(rest) > 0 {
		expr, next, tag := GetEndOfExpr(rest)
		var body []token.Token
		if tag == EndComma {
			body = expr[:len(expr)-1]
		} else {
			body = expr
		}
		if len(body) > 0 {
			d, fb, err := compileExpr(body, forceBreak)
			if err != nil {
				return nil, false, err
			}
			forceBreak = fb
			docs = append(docs, d)
		}
		rest = next
		if tag == EndNone {
			break
		}
	}
	return docs, forceBreak, nil
}

func findTopLevelEqual(toks []token.Token) int {
	return findTopLevelKind(toks, token.Equal)
}

// findTopLevelKind returns the index of the first token of kind k that
// sits outside any bracketed span, or -1 if none does.
func findTopLevelKind(toks []token.Token, k token.Kind) int {
	depth := 0
	for i, t := range toks {
		if token.IsOpener(t.Kind) {
			depth++
		} else if token.IsCloser(t.Kind) {
			depth--
		} else if depth == 0 && t.Kind == k {
			return i
		}
	}
	return -1
}

var binaryOpKinds = map[token.Kind]bool{
	token.Plus: true, token.Minus: true, token.Star: true, token.Div: true,
	token.Slash: true, token.Arrow: true,
}

func findTopLevelBinaryOp(toks []token.Token) int {
	depth := 0
	for i, t := range toks {
		if token.IsOpener(t.Kind) {
			depth++
		} else if token.IsCloser(t.Kind) {
			depth--
		} else if depth == 0 && binaryOpKinds[t.Kind] && i > 0 && i < len(toks)-1 {
			return i
		}
	}
	return -1
}

func splitTopLevel(toks []token.Token, sep token.Kind) ([][]token.Token, bool) {
	depth := 0
	var parts [][]token.Token
	start := 0
	found := false
	for i, t := range toks {
		if token.IsOpener(t.Kind) {
			depth++
		} else if token.IsCloser(t.Kind) {
			depth--
		} else if depth == 0 && t.Kind == sep {
			parts = append(parts, toks[start:i])
			start = i + 1
			found = true
		}
	}
	parts = append(parts, toks[start:])
	return parts, found
}

func compileAlternatives(parts [][]token.Token, forceBreak bool) (layout.Doc, bool, error) {
	docs := make([]layout.Doc, 0, len(parts))
	for _, p := range parts {
		d, fb, err := compileExpr(p, forceBreak)
		if err != nil {
			return nil, false, err
		}
		forceBreak = fb
		docs = append(docs, d)
	}
	out := layout.Nil
	for i := len(docs) - 1; i >= 0; i-- {
		if isNilLayout(out) {
			out = docs[i]
			continue
		}
		out = layout.Cons(docs[i], layout.Cons(layout.Break(" "), layout.Cons(layout.Text("| "), out)))
	}
	return layout.Group(out), forceBreak, nil
}

// compileBitStringTag recognizes the two supported bit-string segment type
// forms: "var/atom" and "var:integer/atom". A var followed by '/' where the
// right-hand token is not an atom is ordinary division (rule 8), not a
// bit-string tag, and is left unrecognized here so the caller falls through
// to the binary-operator path; likewise a var followed by ':' where the
// right-hand token is not an integer is not this tag at all. Only once the
// right-hand token commits to looking like a type ('/atom' or ':integer')
// but the overall shape still doesn't match either recognized form — e.g. an
// extended type list like "V/A-unit:N-A2" — is it rejected with
// [ErrUnsupportedBitType], per the decision recorded in SPEC_FULL.md.
func compileBitStringTag(toks []token.Token) (layout.Doc, bool, error) {
	if len(toks) > 1 && toks[0].Kind == token.Var && toks[1].Kind == token.Slash {
		if len(toks) >= 3 && toks[2].Kind != token.Atom {
			return nil, false, nil
		}
		if len(toks) == 3 && toks[2].Kind == token.Atom {
			return layout.Text(toks[0].Literal + "/" + toks[2].Literal), true, nil
		}
		return nil, true, ErrUnsupportedBitType
	}
	if len(toks) > 1 && toks[0].Kind == token.Var && toks[1].Kind == token.Colon {
		if len(toks) < 3 || toks[2].Kind != token.Integer {
			return nil, false, nil
		}
		if len(toks) == 5 && toks[3].Kind == token.Slash && toks[4].Kind == token.Atom {
			return layout.Text(toks[0].Literal + ":" + toks[2].Literal + "/" + toks[4].Literal), true, nil
		}
		return nil, true, ErrUnsupportedBitType
	}
	return nil, false, nil
}

// compileExprs compiles a terminator-separated run of expressions (the body
// of a clause, or a module-attribute expression) into a Doc list joined by
// the terminator's own tag, continuing while the tag is ',' or a hoisted
// comment and stopping on ';', '.', or end of input. It returns the
// compiled Doc, whether it force-breaks, the terminator tag it stopped on,
// and the remaining tokens.
func compileExprs(toks []token.Token, forceBreak bool) (layout.Doc, bool, EndTag, []token.Token, error) {
	var parts []layout.Doc
	var tag EndTag
	rest := toks

	for {
		expr, next, t := GetEndOfExpr(rest)
		tag = t

		switch t {
		case EndComment:
			parts = append(parts, layout.Text(expr[0].Literal))
			rest = next
			continue
		case EndComma:
			body := expr[:len(expr)-1]
			d, fb, err := compileExpr(body, forceBreak)
			if err != nil {
				return nil, false, tag, nil, err
			}
			forceBreak = fb
			parts = append(parts, layout.Concat(d, layout.Text(",")))
			rest = next
			continue
		case EndSemicolon:
			body := expr[:len(expr)-1]
			d, fb, err := compileExpr(body, forceBreak)
			if err != nil {
				return nil, false, tag, nil, err
			}
			forceBreak = fb
			parts = append(parts, d)
			rest = next
			return joinLines(parts), forceBreak, tag, rest, nil
		case EndDot:
			body := expr[:len(expr)-1]
			d, fb, err := compileExpr(body, forceBreak)
			if err != nil {
				return nil, false, tag, nil, err
			}
			forceBreak = fb
			parts = append(parts, d)
			rest = next
			return joinLines(parts), forceBreak, tag, rest, nil
		default: // EndNone
			if len(expr) > 0 {
				d, fb, err := compileExpr(expr, forceBreak)
				if err != nil {
					return nil, false, tag, nil, err
				}
				forceBreak = fb
				parts = append(parts, d)
			}
			return joinLines(parts), forceBreak, tag, next, nil
		}
	}
}

func joinLines(docs []layout.Doc) layout.Doc {
	out := layout.Nil
	for i := len(docs) - 1; i >= 0; i-- {
		if isNilLayout(out) {
			out = docs[i]
			continue
		}
		out = layout.Line(docs[i], out)
	}
	return out
}
