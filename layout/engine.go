package layout

import "strings"

// eventKind distinguishes the two string-event shapes of an SDoc: literal
// text, or a newline followed by indent spaces.
type eventKind int

const (
	sText eventKind = iota
	sLine
)

// event is one element of the string-event sequence (SDoc) the layout
// engine produces: s_text(s) or s_line(indent). The sequence is implicitly
// terminated by the end of the slice (s_nil).
type event struct {
	kind   eventKind
	text   string
	indent int
}

// format reduces doc to an SDoc under a width target w, using an explicit
// mode stack rather than host recursion so stack depth tracks the nesting
// depth of the input rather than the Go call stack. The outermost call
// begins with a single frame (0, flat, group(doc)), so the root document is
// itself a decision point the way any nested group is.
func format(w int, doc Doc) []event {
	stack := []frame{{indent: 0, mode: flat, doc: Group(doc)}}
	k := 0
	var out []event

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch d := top.doc.(type) {
		case nilDoc:
			// discard
		case *concatDoc:
			stack = append(stack, frame{top.indent, top.mode, d.b}, frame{top.indent, top.mode, d.a})
		case *nestDoc:
			stack = append(stack, frame{top.indent + d.n, top.mode, d.d})
		case textDoc:
			out = append(out, event{kind: sText, text: string(d)})
			k += len(string(d))
		case breakDoc:
			s := string(d)
			if top.mode == flat {
				out = append(out, event{kind: sText, text: s})
				k += len(s)
				continue
			}
			if s == breakSentinel {
				out = append(out, event{kind: sLine, indent: 0}, event{kind: sLine, indent: top.indent})
			} else {
				out = append(out, event{kind: sLine, indent: top.indent})
			}
			k = top.indent
		case *forceBreakDoc:
			stack = append(stack, frame{top.indent, broken, d.d})
		case *groupDoc:
			m := top.mode
			if !d.inherit {
				m = flat
				if !fits(w-k, []frame{{top.indent, flat, d.d}}) {
					m = broken
				}
			}
			stack = append(stack, frame{top.indent, m, d.d})
		}
	}

	return out
}

// emit serialises an SDoc to bytes: s_text(s) emits s verbatim, s_line(i)
// emits a newline followed by i spaces. A terminating newline is appended to
// the final output.
func emit(events []event) []byte {
	var b strings.Builder
	for _, e := range events {
		switch e.kind {
		case sText:
			b.WriteString(e.text)
		case sLine:
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", e.indent))
		}
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// Pretty lays out doc under the given column width and serialises the
// result to bytes. It is the layout engine's public entry point (used
// directly by tests and by [format_tokens]-style callers that want to
// bypass the safety gate).
func Pretty(doc Doc, width int) []byte {
	return emit(format(width, doc))
}
