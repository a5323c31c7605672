// Package steamroller formats source code by compiling its token stream
// into a layout document and rendering it, then verifying that the
// rendered output still means the same thing as the input before handing
// it back — the "safety gate" that lets a formatter run unattended over a
// whole tree.
package steamroller

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"

	"github.com/shamis/steamroller/equivalence"
	"github.com/shamis/steamroller/layout"
	"github.com/shamis/steamroller/lexer"
	"github.com/shamis/steamroller/printer"
	"github.com/shamis/steamroller/token"
)

// MaxWidth is the default column width the layout engine lays out against.
const MaxWidth = 100

// Indent is the default nesting indent, in columns, used throughout the
// printer package.
const Indent = 4

// Options configures a formatting run. The zero value selects [MaxWidth].
type Options struct {
	Width int

	// Parser and Equal override the equivalence check's collaborators.
	// Both nil selects [equivalence.TokenParser] and [equivalence.TokenEqual].
	Parser equivalence.Parser
	Equal  equivalence.Equaler

	// Log receives debug-level tracing of the compile pipeline. A nil Log
	// discards it.
	Log *slog.Logger
}

func (o Options) width() int {
	if o.Width <= 0 {
		return MaxWidth
	}
	return o.Width
}

func (o Options) parser() equivalence.Parser {
	if o.Parser != nil {
		return o.Parser
	}
	return equivalence.TokenParser
}

func (o Options) equal() equivalence.Equaler {
	if o.Equal != nil {
		return o.Equal
	}
	return equivalence.TokenEqual
}

func (o Options) log() *slog.Logger {
	if o.Log != nil {
		return o.Log
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// BrokeCodeError is returned by [FormatCode] when the safety gate rejects
// its own output: the re-parsed, re-tokenized form of the formatted bytes
// no longer matches the original. PathTag identifies which input this was,
// for callers formatting many files at once.
type BrokeCodeError struct {
	PathTag        string
	Original       []byte
	Produced       []byte
	EquivalenceErr error
}

func (e *BrokeCodeError) Error() string {
	if e.PathTag == "" {
		e.PathTag = "<input>"
	}
	if e.EquivalenceErr != nil {
		return fmt.Sprintf("steamroller: %s: formatter broke the code: %v", e.PathTag, e.EquivalenceErr)
	}
	return fmt.Sprintf("steamroller: %s: formatter broke the code", e.PathTag)
}

func (e *BrokeCodeError) Unwrap() error {
	return e.EquivalenceErr
}

// Diff returns a human-readable structural diff between the original
// tokens and the produced tokens, for diagnosing a [BrokeCodeError].
func (e *BrokeCodeError) Diff() string {
	origToks, origErr := lexer.All(bytes.NewReader(e.Original))
	prodToks, prodErr := lexer.All(bytes.NewReader(e.Produced))
	if origErr != nil || prodErr != nil {
		return fmt.Sprintf("<could not re-tokenize for diff: original=%v produced=%v>", origErr, prodErr)
	}
	return cmp.Diff(origToks, prodToks)
}

// FormatCode formats src and verifies the result is semantically
// equivalent to src before returning it. When the safety gate finds the
// output not equivalent, or cannot parse one of the two, it returns a
// *[BrokeCodeError].
func FormatCode(src []byte) ([]byte, error) {
	return FormatCodeOpts(src, "", Options{})
}

// FormatCodeOpts is [FormatCode] with an explicit path tag (used only to
// label errors) and [Options].
func FormatCodeOpts(src []byte, pathTag string, opts Options) ([]byte, error) {
	log := opts.log()
	log.Debug("lexing", "path", pathTag, "bytes", len(src))

	toks, err := lexer.All(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("steamroller: %s: lex error: %w", pathTag, err)
	}

	produced, err := FormatTokens(toks, opts.width())
	if err != nil {
		return nil, fmt.Errorf("steamroller: %s: compile error: %w", pathTag, err)
	}

	log.Debug("checking equivalence", "path", pathTag)
	ok, eqErr := equivalence.Check(opts.parser(), opts.equal(), src, produced)
	if !ok {
		return nil, &BrokeCodeError{PathTag: pathTag, Original: src, Produced: produced, EquivalenceErr: eqErr}
	}

	return produced, nil
}

// FormatTokens compiles an already-tokenized stream directly to formatted
// bytes, bypassing lexing and the safety gate. It is the bridge between the
// structural compiler ([printer.Compile]) and the layout engine
// ([layout.Pretty]).
func FormatTokens(toks []token.Token, width int) ([]byte, error) {
	if width <= 0 {
		width = MaxWidth
	}
	doc, err := printer.Compile(toks)
	if err != nil {
		return nil, err
	}
	return layout.Pretty(doc, width), nil
}

// Pretty renders doc under width, re-exporting the layout engine's entry
// point so callers that already have a Doc (tests, tools built on
// [printer.Compile] directly) don't need to import the layout package too.
func Pretty(doc layout.Doc, width int) []byte {
	return layout.Pretty(doc, width)
}

// File formats a single file in place, using the atomic
// write-to-temp-then-rename pattern so a crash mid-write never leaves a
// truncated file behind.
func File(path string, opts Options) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("steamroller: failed to stat %s: %w", path, err)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("steamroller: failed to read %s: %w", path, err)
	}

	produced, err := FormatCodeOpts(src, path, opts)
	if err != nil {
		return err
	}
	if bytes.Equal(src, produced) {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"*")
	if err != nil {
		return fmt.Errorf("steamroller: failed to create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if perm := fi.Mode().Perm(); perm != 0o600 {
		if err := tmp.Chmod(perm); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("steamroller: failed to set file mode on %s: %w", tmpPath, err)
		}
	}
	if _, err := tmp.Write(produced); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("steamroller: failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("steamroller: failed to close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("steamroller: failed to rename %s over %s: %w", tmpPath, path, err)
	}

	success = true
	return nil
}

// Dir formats every file matching one of exts (e.g. ".erl", ".hrl") under
// root, aggregating per-file failures into a single error rather than
// stopping at the first one.
func Dir(root string, exts []string, opts Options) error {
	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[e] = true
	}

	var result *multierror.Error
	err := fs.WalkDir(os.DirFS(root), ".", func(path string, d fs.DirEntry, fsErr error) error {
		if fsErr != nil {
			return fsErr
		}
		if d.IsDir() {
			return nil
		}
		if !extSet[filepath.Ext(d.Name())] {
			return nil
		}
		if err := File(filepath.Join(root, path), opts); err != nil {
			result = multierror.Append(result, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return result.ErrorOrNil()
}
