package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/shamis/steamroller"
	"github.com/shamis/steamroller/internal/version"
	"github.com/shamis/steamroller/lexer"
	"github.com/shamis/steamroller/token"
)

// errFlagParse is a sentinel indicating flag parsing already printed its
// own error, so main should not print a second one.
var errFlagParse = errors.New("flag parse error")

func main() {
	code, err := run(os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil && err != errFlagParse {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(code)
}

func run(args []string, r io.Reader, w, wErr io.Writer) (int, error) {
	if len(args) < 2 {
		usage(wErr)
		return 2, nil
	}

	switch args[1] {
	case "fmt":
		return runFmt(args[2:], r, w, wErr)
	case "tokens":
		return runTokens(args[2:], r, w, wErr)
	case "version":
		_, _ = fmt.Fprintln(w, version.Version())
		return 0, nil
	case "-h", "--help", "help":
		usage(wErr)
		return 0, nil
	default:
		return 2, fmt.Errorf("unknown command: %s", args[1])
	}
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "steamroller formats source code using a width-aware pretty-printer")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "usage: steamroller <command> [args]")
	_, _ = fmt.Fprintln(w, "commands: fmt, tokens, version")
}

func runFmt(args []string, r io.Reader, w, wErr io.Writer) (int, error) {
	flags := flag.NewFlagSet("fmt", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		_, _ = fmt.Fprintln(wErr, "usage: steamroller fmt [flags] [path]")
		flags.PrintDefaults()
	}
	width := flags.Int("width", 0, "maximum column width; 0 auto-detects the terminal width, falling back to the default")
	write := flags.Bool("w", false, "write result to the source file instead of stdout")

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, nil
		}
		return 2, errFlagParse
	}

	opts := steamroller.Options{Width: resolveWidth(*width)}

	if flags.NArg() == 0 {
		src, err := io.ReadAll(r)
		if err != nil {
			return 1, fmt.Errorf("failed to read stdin: %w", err)
		}
		out, err := steamroller.FormatCodeOpts(src, "<stdin>", opts)
		if err != nil {
			return 1, reportBrokeCode(wErr, err)
		}
		_, _ = w.Write(out)
		return 0, nil
	}

	path := flags.Arg(0)
	root, err := filepath.Abs(path)
	if err != nil {
		return 1, fmt.Errorf("failed to resolve path: %w", err)
	}
	fi, err := os.Stat(root)
	if err != nil {
		return 1, fmt.Errorf("failed to stat path: %w", err)
	}

	if !*write {
		src, err := os.ReadFile(root)
		if err != nil {
			return 1, fmt.Errorf("failed to read file: %w", err)
		}
		out, err := steamroller.FormatCodeOpts(src, path, opts)
		if err != nil {
			return 1, reportBrokeCode(wErr, err)
		}
		_, _ = w.Write(out)
		return 0, nil
	}

	if fi.IsDir() {
		if err := steamroller.Dir(root, []string{".erl", ".hrl"}, opts); err != nil {
			return 1, reportBrokeCode(wErr, err)
		}
		return 0, nil
	}
	if err := steamroller.File(root, opts); err != nil {
		return 1, reportBrokeCode(wErr, err)
	}
	return 0, nil
}

// runTokens dumps the raw token stream, mirroring dotx's "inspect tokens"
// subcommand — a debugging aid, not part of the formatter's public
// contract.
func runTokens(args []string, r io.Reader, w, wErr io.Writer) (int, error) {
	flags := flag.NewFlagSet("tokens", flag.ContinueOnError)
	flags.SetOutput(wErr)
	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, nil
		}
		return 2, errFlagParse
	}

	var src []byte
	var err error
	if flags.NArg() == 0 {
		src, err = io.ReadAll(r)
	} else {
		src, err = os.ReadFile(flags.Arg(0))
	}
	if err != nil {
		return 1, fmt.Errorf("failed to read input: %w", err)
	}

	toks, err := lexer.All(bytes.NewReader(src))
	if err != nil {
		return 1, fmt.Errorf("lex error: %w", err)
	}
	for _, t := range toks {
		if t.Kind == token.EOF {
			break
		}
		_, _ = fmt.Fprintln(w, t.String())
	}
	return 0, nil
}

// reportBrokeCode prints a colorized diagnostic for a *steamroller.BrokeCodeError,
// falling back to the plain error message for anything else.
func reportBrokeCode(w io.Writer, err error) error {
	var broke *steamroller.BrokeCodeError
	if errors.As(err, &broke) {
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		_, _ = fmt.Fprintf(w, "%s %s\n", red("formatter broke the code:"), broke.PathTag)
		_, _ = fmt.Fprintln(w, broke.Diff())
	}
	return err
}

func resolveWidth(flagWidth int) int {
	if flagWidth > 0 {
		return flagWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return steamroller.MaxWidth
}
