package printer

import (
	"fmt"

	"github.com/shamis/steamroller/layout"
	"github.com/shamis/steamroller/token"
)

// termTag is the "previous term" state the top-level driver threads between
// iterations to decide how much vertical space separates the next term from
// the one before it.
type termTag int

const (
	tagNewFile termTag = iota
	tagAttribute
	tagSpec
	tagList
	tagFunction
	tagComment
)

// Compile compiles a full token stream (ending in an EOF token, or simply
// running out) into a single [layout.Doc] representing the whole file: a
// sequence of top-level terms — module attributes, -spec annotations,
// function clause groups, bracketed config terms, and standalone comments —
// each separated according to the term immediately preceding it.
func Compile(toks []token.Token) (layout.Doc, error) {
	var parts []layout.Doc
	prev := tagNewFile
	rest := trimEOF(toks)

	for len(rest) > 0 {
		t := rest[0]
		var (
			doc  layout.Doc
			next []token.Token
			tag  termTag
			err  error
		)

		switch {
		case t.Kind == token.Comment:
			doc, next = layout.Text(t.Literal), rest[1:]
			tag = tagComment
		case t.Kind == token.Minus && isSpecAttribute(rest):
			doc, next, err = compileSpecAttribute(rest)
			tag = tagSpec
		case t.Kind == token.Minus:
			doc, next, err = compileAttribute(rest)
			tag = tagAttribute
		case t.Kind == token.Atom && isCallHead(rest):
			doc, next, err = compileFunction(rest)
			tag = tagFunction
		case token.IsOpener(t.Kind):
			inside, after := GetUntil(t.Kind, rest)
			doc, _, err = compileBracketGroup(t.Kind, inside, false)
			doc, next = terminateTopTerm(doc, after)
			tag = tagList
		default:
			doc, next, err = compileGenericTerm(rest)
			tag = tagList
		}
		if err != nil {
			return nil, err
		}

		parts = append(parts, separator(prev, tag), doc)
		prev = tag
		rest = next
	}

	return layout.Concat(parts...), nil
}

func trimEOF(toks []token.Token) []token.Token {
	for len(toks) > 0 && toks[len(toks)-1].Kind == token.EOF {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// separator decides the vertical space between the term tagged prev and the
// term tagged next: none after the start of file, a single newline between
// two consecutive comments or between a -spec/comment and the function it
// documents, and a blank line otherwise. This is a previous-term-tag state
// machine over a small, fixed set of states (new_file, attribute, spec,
// list, function, comment) in which only those two cases and "first term"
// depart from the default blank-line rule.
func separator(prev, next termTag) layout.Doc {
	if prev == tagNewFile {
		return layout.Nil
	}
	if next == tagComment && prev == tagComment {
		return layout.Break("\n")
	}
	if next == tagFunction && (prev == tagSpec || prev == tagComment) {
		return layout.Break("\n")
	}
	return layout.Break("\n\n")
}

// isSpecAttribute reports whether rest opens a "-spec" attribute, which gets
// its own handling because its parenthesized type signature is unwrapped
// rather than rendered as a normal attribute argument list.
func isSpecAttribute(rest []token.Token) bool {
	return len(rest) > 1 && rest[1].Kind == token.Atom && rest[1].Literal == "spec"
}

// compileSpecAttribute renders "-spec Name(Args) -> Ret." by stripping the
// parentheses that wrap the whole signature and prefixing "-spec ".
func compileSpecAttribute(rest []token.Token) (layout.Doc, []token.Token, error) {
	exprToks, next, _, err := sliceAttributeBody(rest[2:])
	if err != nil {
		return nil, nil, err
	}
	unwrapped := RemoveMatching(token.LParen, exprToks)
	body, _, _, _, err := compileExprs(unwrapped, false)
	if err != nil {
		return nil, nil, err
	}
	doc := layout.Concat(layout.Text("-spec "), body, layout.Text("."))
	return doc, next, nil
}

// compileAttribute renders a general module attribute: "-Name(Args)." as a
// bracket group, e.g. "-module(x)." or "-export([f/1])."
func compileAttribute(rest []token.Token) (layout.Doc, []token.Token, error) {
	exprToks, next, _, err := sliceAttributeBody(rest[1:])
	if err != nil {
		return nil, nil, err
	}
	body, _, _, _, err := compileExprs(exprToks, false)
	if err != nil {
		return nil, nil, err
	}
	doc := layout.Concat(layout.Text("-"), body, layout.Text("."))
	return doc, next, nil
}

// sliceAttributeBody cuts the tokens between the attribute name (or, for
// -spec, the signature start) and the dot that ends the attribute.
func sliceAttributeBody(toks []token.Token) (expr, rest []token.Token, tag EndTag, err error) {
	expr, rest, tag = GetEndOfExpr(toks)
	if tag != EndDot && tag != EndNone {
		return nil, nil, tag, fmt.Errorf("printer: module attribute not terminated by '.'")
	}
	if tag == EndDot {
		expr = expr[:len(expr)-1]
	}
	return expr, rest, tag, nil
}

// compileFunction compiles a run of clauses sharing the leading function
// name, joined by ';' and terminated by '.'. Clauses are separated by a
// single newline, never a blank line — that distinction is what separates
// a multi-clause function from two unrelated top-level terms.
func compileFunction(rest []token.Token) (layout.Doc, []token.Token, error) {
	name := rest[0].Literal
	var clauses []layout.Doc
	cur := rest

	for {
		if len(cur) < 2 || cur[0].Kind != token.Atom || cur[1].Kind != token.LParen {
			return nil, nil, fmt.Errorf("printer: malformed function clause near line %d", cur[0].Line)
		}
		inside, after := GetUntil(token.LParen, cur[1:])
		argsDoc, fb, err := compileArgList(inside, false)
		if err != nil {
			return nil, nil, err
		}
		if len(after) == 0 || after[0].Kind != token.Arrow {
			return nil, nil, fmt.Errorf("printer: function clause %q missing '->' near line %d", name, cur[0].Line)
		}

		bodyDoc, _, tag, next, err := compileExprs(after[1:], fb)
		if err != nil {
			return nil, nil, err
		}

		head := layout.Group(layout.Concat(layout.Text(name), layout.Text("("), argsDoc, layout.Text(") ->")))
		// the body always starts on its own indented line: function clauses
		// never collapse to a single line regardless of whether they'd fit,
		// matching the target formatter's house style.
		clause := layout.ForceBreak(true, layout.Concat(head, layout.Nest(4, layout.Concat(layout.Break(" "), bodyDoc))))

		switch tag {
		case EndSemicolon:
			clauses = append(clauses, layout.Concat(clause, layout.Text(";")))
			cur = next
			continue
		case EndDot:
			clauses = append(clauses, layout.Concat(clause, layout.Text(".")))
			return joinClauses(clauses), next, nil
		default:
			clauses = append(clauses, clause)
			return joinClauses(clauses), next, nil
		}
	}
}

func joinClauses(clauses []layout.Doc) layout.Doc {
	out := clauses[len(clauses)-1]
	for i := len(clauses) - 2; i >= 0; i-- {
		out = layout.Line(clauses[i], out)
	}
	return out
}

// terminateTopTerm appends the top-level term's own terminating '.' when
// the bracket group is followed directly by one, consuming it from the
// remaining stream.
func terminateTopTerm(doc layout.Doc, after []token.Token) (layout.Doc, []token.Token) {
	if len(after) > 0 && after[0].Kind == token.Dot {
		return layout.Concat(doc, layout.Text(".")), after[1:]
	}
	return doc, after
}

// compileGenericTerm handles a top-level term that is neither a comment, an
// attribute, nor a function clause head — a bare expression statement
// (config file value, directive without the leading '-', etc.), terminated
// by the next top-level '.'.
func compileGenericTerm(rest []token.Token) (layout.Doc, []token.Token, error) {
	expr, next, tag := GetEndOfExpr(rest)
	body := expr
	if tag == EndDot {
		body = expr[:len(expr)-1]
	}
	doc, _, err := compileExpr(body, false)
	if err != nil {
		return nil, nil, err
	}
	if tag == EndDot {
		doc = layout.Concat(doc, layout.Text("."))
	}
	return doc, next, nil
}
