// Package layout implements the layout-primitive algebra and width-aware
// layout engine described by Lindig, "Strictly Pretty" (2000): a tree of
// layout primitives ([Doc]) reduced to a string-event sequence ([Pretty])
// by an engine that commits each [Group] to flat or broken rendering based
// on a lookahead fit check ([fits]).
//
// A [Doc] is built from a handful of primitives — [Nil], [Cons], [Text],
// [Nest], [Break], [Group] — plus derived separators ([Space], [Line],
// [Lines], [Stick]) built from [Break]. [Group] is the only decision point:
// it renders its content either entirely flat or entirely broken, and
// [ForceBreak] can compel that decision regardless of width.
package layout

import "fmt"

// Doc is the layout-primitive tree. It is a closed sum type; the only
// implementations are the unexported variants constructed by this package's
// functions. Equality of Docs is structural (Go struct/interface equality),
// which the smart constructors rely on to collapse identities.
type Doc interface {
	isDoc()
}

// Nil is the empty document. cons(Nil, x) and cons(x, Nil) both collapse to
// x; constructors throughout this package rely on that to keep trees in
// canonical shape.
var Nil Doc = nilDoc{}

type nilDoc struct{}

func (nilDoc) isDoc() {}

func isNil(d Doc) bool {
	if d == nil {
		return true
	}
	_, ok := d.(nilDoc)
	return ok
}

type concatDoc struct{ a, b Doc }

func (*concatDoc) isDoc() {}

// Cons concatenates a and b. cons(Nil, x) = cons(x, Nil) = x.
func Cons(a, b Doc) Doc {
	if isNil(a) {
		return b
	}
	if isNil(b) {
		return a
	}
	return &concatDoc{a: a, b: b}
}

// Concat folds docs right-to-left with [Cons]. An empty argument list
// returns [Nil].
func Concat(docs ...Doc) Doc {
	out := Nil
	for i := len(docs) - 1; i >= 0; i-- {
		out = Cons(docs[i], out)
	}
	return out
}

type textDoc string

func (textDoc) isDoc() {}

// Text is a literal string that consumes byte_size(s) columns when printed.
// An empty string collapses to [Nil].
func Text(s string) Doc {
	if s == "" {
		return Nil
	}
	return textDoc(s)
}

type nestDoc struct {
	n int
	d Doc
}

func (*nestDoc) isDoc() {}

// Nest increases the indentation level by n columns inside d. nest(0, d) = d
// and nest(n, Nil) = Nil.
func Nest(n int, d Doc) Doc {
	if isNil(d) {
		return Nil
	}
	if n == 0 {
		return d
	}
	return &nestDoc{n: n, d: d}
}

// breakSentinel is the break string that renders, in break mode, as a blank
// line followed by the indented next line rather than a single newline.
const breakSentinel = "\n\n"

type breakDoc string

func (breakDoc) isDoc() {}

// Break is a conditional separator: in flat mode it emits the literal s; in
// break mode it emits a newline followed by the current indentation. If s
// is the two-newline sentinel (see [Lines]) break mode emits a blank line
// then the indented next line.
func Break(s string) Doc {
	return breakDoc(s)
}

type groupDoc struct {
	d       Doc
	inherit bool
}

func (*groupDoc) isDoc() {}

// Group is a choice point: it renders d entirely flat if d's flat rendering
// fits the remaining width, entirely broken otherwise. An empty body
// collapses to [Nil] — an empty group has no decision to make.
func Group(d Doc) Doc {
	if isNil(d) {
		return Nil
	}
	return &groupDoc{d: d}
}

// GroupInherit is a degenerate group that adopts the enclosing mode
// unconditionally instead of deciding for itself. It exists so a
// sub-document can be forced to share its parent's flat/broken choice
// without introducing a second fit decision.
func GroupInherit(d Doc) Doc {
	if isNil(d) {
		return Nil
	}
	return &groupDoc{d: d, inherit: true}
}

type forceBreakDoc struct{ d Doc }

func (*forceBreakDoc) isDoc() {}

// ForceBreak renders d in break mode, regardless of whether it would
// otherwise fit. It does not break the groups around it: their fit probe
// stops at a force_break and counts what came before it as fitting, so
// breaks outside d still follow their own group's decision.
// force_break(false, d) = d — the flag, not the wrapper, carries the
// meaning, so an unset flag collapses away entirely. Wrapping an
// already-forced Doc again is a no-op.
func ForceBreak(flag bool, d Doc) Doc {
	if !flag || isNil(d) {
		return d
	}
	if _, ok := d.(*forceBreakDoc); ok {
		return d
	}
	return &forceBreakDoc{d: d}
}

// Space joins x and y with a break that renders as a single space when flat.
func Space(x, y Doc) Doc {
	return Cons(x, Cons(Break(" "), y))
}

// Line joins x and y with a break that renders as a literal newline when
// flat and a single newline when broken — unlike [Stick], flat mode still
// separates x and y onto their own line.
func Line(x, y Doc) Doc {
	return Cons(x, Cons(Break("\n"), y))
}

// Lines joins x and y with a break that renders as its literal two-newline
// text when flat and a blank line (two newlines) followed by the indented
// next line when broken.
func Lines(x, y Doc) Doc {
	return Cons(x, Cons(Break(breakSentinel), y))
}

// Stick joins x and y with a break that renders as nothing when flat and as
// a newline plus the current indentation when broken — concatenation
// through a break node, so a force_break or a broken group can split the
// join without otherwise affecting flat layout.
func Stick(x, y Doc) Doc {
	return Cons(x, Cons(Break(""), y))
}

// String renders a debug form of the tree shape, for use in test failure
// messages; it does not run the layout engine.
func String(d Doc) string {
	return stringify(d)
}

func stringify(d Doc) string {
	switch t := d.(type) {
	case nilDoc:
		return "nil"
	case *concatDoc:
		return fmt.Sprintf("cons(%s, %s)", stringify(t.a), stringify(t.b))
	case textDoc:
		return fmt.Sprintf("text(%q)", string(t))
	case *nestDoc:
		return fmt.Sprintf("nest(%d, %s)", t.n, stringify(t.d))
	case breakDoc:
		return fmt.Sprintf("break(%q)", string(t))
	case *groupDoc:
		if t.inherit {
			return fmt.Sprintf("group_inherit(%s)", stringify(t.d))
		}
		return fmt.Sprintf("group(%s)", stringify(t.d))
	case *forceBreakDoc:
		return fmt.Sprintf("force_break(%s)", stringify(t.d))
	default:
		return "?"
	}
}
