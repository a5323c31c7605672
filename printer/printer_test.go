package printer_test

import (
	"errors"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/shamis/steamroller/layout"
	"github.com/shamis/steamroller/printer"
	"github.com/shamis/steamroller/token"
)

func compileAndRender(t *testing.T, toks []token.Token, width int) string {
	t.Helper()
	doc, err := printer.Compile(toks)
	require.NoError(t, err)
	return string(layout.Pretty(doc, width))
}

// TestModuleAttributeThenFunctionBlankLineSeparated checks that a module
// attribute followed by a function clause is separated by a blank line.
func TestModuleAttributeThenFunctionBlankLineSeparated(t *testing.T) {
	toks := []token.Token{
		token.Punct(token.Minus, 1),
		token.NewAtom(1, "module"),
		token.Punct(token.LParen, 1),
		token.NewAtom(1, "foo"),
		token.Punct(token.RParen, 1),
		token.Punct(token.Dot, 1),

		token.NewAtom(3, "bar"),
		token.Punct(token.LParen, 3),
		token.Punct(token.RParen, 3),
		token.Punct(token.Arrow, 3),
		token.NewAtom(3, "ok"),
		token.Punct(token.Dot, 3),
	}

	got := compileAndRender(t, toks, 100)
	want := "-module(foo).\n\nbar() ->\n    ok.\n"
	assert.EqualValues(t, got, want)
}

// TestTwoClauseFunctionSingleNewlineSeparated checks that clauses of the
// same function, joined by ';', are separated by a single newline rather
// than a blank line.
func TestTwoClauseFunctionSingleNewlineSeparated(t *testing.T) {
	toks := []token.Token{
		token.NewAtom(1, "fact"),
		token.Punct(token.LParen, 1),
		token.NewInteger(1, "0", 0),
		token.Punct(token.RParen, 1),
		token.Punct(token.Arrow, 1),
		token.NewInteger(1, "1", 1),
		token.Punct(token.Semicolon, 1),

		token.NewAtom(2, "fact"),
		token.Punct(token.LParen, 2),
		token.NewVar(2, "N"),
		token.Punct(token.RParen, 2),
		token.Punct(token.Arrow, 2),
		token.NewVar(2, "N"),
		token.Punct(token.Dot, 2),
	}

	got := compileAndRender(t, toks, 100)
	want := "fact(0) ->\n    1;\nfact(N) ->\n    N.\n"
	assert.EqualValues(t, got, want)
}

// TestTopLevelListFitsFlatAtWideWidth and TestTopLevelListBreaksAtNarrowWidth
// check that the same list literal renders flat at a generous width and
// one-element-per-line once it no longer fits.
func TestTopLevelListFitsFlatAtWideWidth(t *testing.T) {
	toks := []token.Token{
		token.Punct(token.LBracket, 1),
		token.NewAtom(1, "a"),
		token.Punct(token.Comma, 1),
		token.NewAtom(1, "b"),
		token.Punct(token.Comma, 1),
		token.NewAtom(1, "c"),
		token.Punct(token.RBracket, 1),
		token.Punct(token.Dot, 1),
	}

	got := compileAndRender(t, toks, 100)
	assert.EqualValues(t, got, "[a, b, c].\n")
}

func TestTopLevelListBreaksAtNarrowWidth(t *testing.T) {
	toks := []token.Token{
		token.Punct(token.LBracket, 1),
		token.NewAtom(1, "a"),
		token.Punct(token.Comma, 1),
		token.NewAtom(1, "b"),
		token.Punct(token.Comma, 1),
		token.NewAtom(1, "c"),
		token.Punct(token.RBracket, 1),
		token.Punct(token.Dot, 1),
	}

	got := compileAndRender(t, toks, 5)
	want := "[\n    a,\n    b,\n    c\n].\n"
	assert.EqualValues(t, got, want)
}

func TestSpecAttributeUnwrapsSignatureParens(t *testing.T) {
	// -spec foo(integer()) -> ok.
	toks := []token.Token{
		token.Punct(token.Minus, 1),
		token.NewAtom(1, "spec"),
		token.Punct(token.LParen, 1),
		token.NewAtom(1, "foo"),
		token.Punct(token.LParen, 1),
		token.NewAtom(1, "integer"),
		token.Punct(token.LParen, 1),
		token.Punct(token.RParen, 1),
		token.Punct(token.RParen, 1),
		token.Punct(token.Arrow, 1),
		token.NewAtom(1, "ok"),
		token.Punct(token.RParen, 1),
		token.Punct(token.Dot, 1),
	}

	got := compileAndRender(t, toks, 100)
	want := "-spec foo(integer()) -> ok.\n"
	assert.EqualValues(t, got, want)
}

// TestCommentBeforeFunctionSingleNewline checks that a function preceded by
// a comment (documenting it) is separated by a single newline rather than
// the usual blank line between top-level forms.
func TestCommentBeforeFunctionSingleNewline(t *testing.T) {
	toks := []token.Token{
		token.NewComment(1, "% doc"),
		token.NewAtom(2, "bar"),
		token.Punct(token.LParen, 2),
		token.Punct(token.RParen, 2),
		token.Punct(token.Arrow, 2),
		token.NewAtom(2, "ok"),
		token.Punct(token.Dot, 2),
	}

	got := compileAndRender(t, toks, 100)
	want := "% doc\nbar() ->\n    ok.\n"
	assert.EqualValues(t, got, want)
}

// TestSpecBeforeFunctionSingleNewline checks that a function preceded by
// its -spec annotation is separated by a single newline rather than a
// blank line.
func TestSpecBeforeFunctionSingleNewline(t *testing.T) {
	toks := []token.Token{
		token.Punct(token.Minus, 1),
		token.NewAtom(1, "spec"),
		token.Punct(token.LParen, 1),
		token.NewAtom(1, "bar"),
		token.Punct(token.LParen, 1),
		token.Punct(token.RParen, 1),
		token.Punct(token.Arrow, 1),
		token.NewAtom(1, "ok"),
		token.Punct(token.RParen, 1),
		token.Punct(token.Dot, 1),

		token.NewAtom(2, "bar"),
		token.Punct(token.LParen, 2),
		token.Punct(token.RParen, 2),
		token.Punct(token.Arrow, 2),
		token.NewAtom(2, "ok"),
		token.Punct(token.Dot, 2),
	}

	got := compileAndRender(t, toks, 100)
	want := "-spec bar() -> ok.\nbar() ->\n    ok.\n"
	assert.EqualValues(t, got, want)
}

// TestVariableDivisionFormatsAsBinaryOperator checks that "X / Y" — a var
// on both sides of '/' — is recognized as ordinary division (rule 8), not
// misdiagnosed as a malformed bit-string tag: only a var followed by '/'
// and then an atom commits to the bit-string-tag shape.
func TestVariableDivisionFormatsAsBinaryOperator(t *testing.T) {
	toks := []token.Token{
		token.NewVar(1, "X"),
		token.Punct(token.Slash, 1),
		token.NewVar(1, "Y"),
		token.Punct(token.Dot, 1),
	}

	got := compileAndRender(t, toks, 100)
	assert.EqualValues(t, got, "X / Y.\n")
}

// TestIntegerDivisionFormatsAsBinaryOperator checks that "3 / 4" renders as
// a binary operator expression rather than falling through to the
// force-broken multi-token fallback.
func TestIntegerDivisionFormatsAsBinaryOperator(t *testing.T) {
	toks := []token.Token{
		token.NewInteger(1, "3", 3),
		token.Punct(token.Slash, 1),
		token.NewInteger(1, "4", 4),
		token.Punct(token.Dot, 1),
	}

	got := compileAndRender(t, toks, 100)
	assert.EqualValues(t, got, "3 / 4.\n")
}

// TestVariableDivisionByIntegerFormatsAsBinaryOperator checks that a var
// divided by an integer (rather than an atom) is division, not a bit-string
// tag — the "var/atom" shape requires an atom after the '/'.
func TestVariableDivisionByIntegerFormatsAsBinaryOperator(t *testing.T) {
	toks := []token.Token{
		token.NewVar(1, "X"),
		token.Punct(token.Slash, 1),
		token.NewInteger(1, "2", 2),
		token.Punct(token.Dot, 1),
	}

	got := compileAndRender(t, toks, 100)
	assert.EqualValues(t, got, "X / 2.\n")
}

// TestBitStringTagStillRecognized pins down that the "var/atom" bit-string
// tag still renders correctly now that '/' also participates in the
// binary-operator path: the bit-string-tag check runs first and wins
// whenever the shape actually matches.
func TestBitStringTagStillRecognized(t *testing.T) {
	toks := []token.Token{
		token.NewVar(1, "X"),
		token.Punct(token.Slash, 1),
		token.NewAtom(1, "binary"),
		token.Punct(token.Dot, 1),
	}

	got := compileAndRender(t, toks, 100)
	assert.EqualValues(t, got, "X/binary.\n")
}

// TestSizedBitStringTagStillRecognized pins down the "var:integer/atom"
// bit-string tag.
func TestSizedBitStringTagStillRecognized(t *testing.T) {
	toks := []token.Token{
		token.NewVar(1, "X"),
		token.Punct(token.Colon, 1),
		token.NewInteger(1, "8", 8),
		token.Punct(token.Slash, 1),
		token.NewAtom(1, "integer"),
		token.Punct(token.Dot, 1),
	}

	got := compileAndRender(t, toks, 100)
	assert.EqualValues(t, got, "X:8/integer.\n")
}

// TestExtendedBitStringTypeListErrors checks that a type tag which commits
// to the bit-string shape (var then '/' then an atom) but doesn't match the
// single recognized "var/atom" form still reports
// [printer.ErrUnsupportedBitType], per the decision recorded in
// SPEC_FULL.md — this is distinct from ordinary division, which never
// commits to that shape in the first place.
func TestExtendedBitStringTypeListErrors(t *testing.T) {
	toks := []token.Token{
		token.NewVar(1, "X"),
		token.Punct(token.Slash, 1),
		token.NewAtom(1, "binary"),
		token.Punct(token.Minus, 1),
		token.NewAtom(1, "unit"),
		token.Punct(token.Dot, 1),
	}

	_, err := printer.Compile(toks)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, printer.ErrUnsupportedBitType), "expected ErrUnsupportedBitType, got %v", err)
}
