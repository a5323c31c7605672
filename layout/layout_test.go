package layout_test

import (
	"testing"

	"github.com/teleivo/assertive/assert"

	"github.com/shamis/steamroller/layout"
)

// ifThenElse builds Lindig's if/then/else example document:
// group("if " <+> group("a == b") <line> "then " <+> group("a << 2")
//
//	<line> "else " <+> group("a + b"))
func ifThenElse() layout.Doc {
	clause := func(kw, body string) layout.Doc {
		return layout.Group(layout.Concat(
			layout.Text(kw),
			layout.Nest(4, layout.Concat(
				layout.Break(" "),
				layout.Group(layout.Text(body)),
			)),
		))
	}

	return layout.Group(layout.Concat(
		clause("if", "a == b"),
		layout.Break(" "),
		clause("then", "a << 2"),
		layout.Break(" "),
		clause("else", "a + b"),
	))
}

func TestWidthDependentLayout(t *testing.T) {
	tests := map[string]struct {
		width int
		want  string
	}{
		"fitsFlat": {
			width: 32,
			want:  "if a == b then a << 2 else a + b\n",
		},
		"breaksTopLevelClausesStayFlat": {
			width: 15,
			want:  "if a == b\nthen a << 2\nelse a + b\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := layout.Pretty(ifThenElse(), tc.width)
			assert.EqualValues(t, string(got), tc.want)
		})
	}
}

// TestNarrowerWidthBreaksEachClauseInTurn demonstrates that shrinking the
// width further recursively breaks each clause's own group once it no
// longer fits on its line, the same cascading rule that broke the top-level
// if/then/else grouping in TestWidthDependentLayout.
func TestNarrowerWidthBreaksEachClauseInTurn(t *testing.T) {
	got := layout.Pretty(ifThenElse(), 6)
	want := "if\n    a == b\nthen\n    a << 2\nelse\n    a + b\n"
	assert.EqualValues(t, string(got), want)
}

func TestEmptyBracketRendersWithNoInteriorWhitespace(t *testing.T) {
	doc := layout.Group(layout.Concat(
		layout.Text("["),
		layout.Nest(4, layout.Concat(
			layout.Break(""),
		)),
		layout.Break(""),
		layout.Text("]"),
	))

	got := layout.Pretty(doc, 100)
	assert.EqualValues(t, string(got), "[]\n")
}

func TestListFitsFlat(t *testing.T) {
	elems := layout.Group(layout.Concat(
		layout.Text("["),
		layout.Nest(4, layout.Concat(
			layout.Break(""),
			layout.Text("a"),
			layout.Break(" "),
			layout.Text("b"),
			layout.Break(" "),
			layout.Text("c"),
		)),
		layout.Break(""),
		layout.Text("]"),
	))

	got := layout.Pretty(elems, 100)
	assert.EqualValues(t, string(got), "[a b c]\n")
}

func TestListBreaksOnePerLine(t *testing.T) {
	elems := layout.Group(layout.Concat(
		layout.Text("["),
		layout.Nest(4, layout.Concat(
			layout.Break(""),
			layout.Text("a"),
			layout.Break(" "),
			layout.Text("b"),
			layout.Break(" "),
			layout.Text("c"),
		)),
		layout.Break(""),
		layout.Text("]"),
	))

	got := layout.Pretty(elems, 5)
	assert.EqualValues(t, string(got), "[\n    a\n    b\n    c\n]\n")
}

func TestForceBreakBreaksOnlyItsOwnContent(t *testing.T) {
	inner := layout.ForceBreak(true, layout.Concat(layout.Text("a"), layout.Break(""), layout.Text("b")))
	doc := layout.Group(layout.Concat(layout.Text("x"), layout.Break(" "), inner))

	got := layout.Pretty(doc, 100)
	assert.EqualValues(t, string(got), "x a\nb\n")
}

func TestForceBreakFalseCollapses(t *testing.T) {
	d := layout.ForceBreak(false, layout.Text("a"))
	assert.EqualValues(t, layout.String(d), layout.String(layout.Text("a")))
}

func TestConsNilCollapses(t *testing.T) {
	assert.EqualValues(t, layout.String(layout.Cons(layout.Nil, layout.Text("a"))), layout.String(layout.Text("a")))
	assert.EqualValues(t, layout.String(layout.Cons(layout.Text("a"), layout.Nil)), layout.String(layout.Text("a")))
}

func TestGroupInheritAdoptsEnclosingMode(t *testing.T) {
	inherited := layout.GroupInherit(layout.Concat(layout.Text("a"), layout.Break(" "), layout.Text("b")))
	doc := layout.ForceBreak(true, layout.Concat(layout.Text("x"), layout.Break(""), inherited))

	got := layout.Pretty(layout.Group(doc), 100)
	// the inherited group adopts the broken mode of its forced enclosing
	// frame, even though "a b" alone would fit flat.
	assert.EqualValues(t, string(got), "x\na\nb\n")
}

func TestDeterminism(t *testing.T) {
	doc := ifThenElse()
	first := layout.Pretty(doc, 20)
	second := layout.Pretty(ifThenElse(), 20)
	assert.EqualValues(t, string(first), string(second))
}
