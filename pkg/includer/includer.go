// Package includer flattens a SmallO source file and everything it includes
// into one sequence of logical lines.
//
// Includes are expanded depth-first at the position of the directive. Every
// file is expanded at most once per Load, which also terminates include
// cycles. Relative include paths are resolved against the directory of the
// file containing the directive.
package includer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/golang/glog"

	"github.com/smallo-lang/morty/pkg/parser"
	"github.com/smallo-lang/morty/pkg/source"
)

// CommentMark starts a comment that runs to the end of the line
const CommentMark = "@"

var (
	ErrNotExist       = errors.New("path does not exist")
	ErrNotFile        = errors.New("path is not a file")
	ErrInvalidInclude = errors.New("invalid include")
	ErrIncludeDepth   = errors.New("include depth exceeded")
	ErrEncoding       = errors.New("invalid UTF-8")
)

// frame is an open file: its absolute path, its raw lines and the index of
// the next line to read
type frame struct {
	path  string
	lines []string
	next  int
}

// Includer holds the state of one Load call
type Includer struct {
	// MaxDepth caps the number of simultaneously open files (0 = unlimited)
	MaxDepth int

	visited map[string]bool
	stack   []*frame
	code    []source.Line
}

// Option configures an Includer
type Option func(*Includer)

// WithMaxDepth limits how deeply includes may nest
func WithMaxDepth(n int) Option {
	return func(in *Includer) {
		in.MaxDepth = n
	}
}

// New creates an Includer
func New(opts ...Option) *Includer {
	in := &Includer{}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Load flattens path and its transitive includes. On error the returned
// lines are nil.
func Load(path string, opts ...Option) ([]source.Line, error) {
	return New(opts...).Load(path)
}

// Load flattens path and its transitive includes. The root path is resolved
// against the process working directory. On error the returned lines are nil.
func (in *Includer) Load(path string) ([]source.Line, error) {
	in.visited = make(map[string]bool)
	in.stack = in.stack[:0]
	in.code = nil

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	if err := in.walk(abs); err != nil {
		in.code = nil
		return nil, err
	}
	return in.code, nil
}

func (in *Includer) walk(root string) error {
	if err := in.open(root); err != nil {
		return err
	}

	for len(in.stack) > 0 {
		top := in.stack[len(in.stack)-1]
		if top.next >= len(top.lines) {
			in.stack = in.stack[:len(in.stack)-1]
			continue
		}

		lineNo := top.next + 1
		raw := top.lines[top.next]
		top.next++

		if !utf8.ValidString(raw) {
			return fmt.Errorf("%w in %s:%d", ErrEncoding, top.path, lineNo)
		}
		line := clean(raw)

		switch {
		case line == "":
			continue

		case parser.IsInclude(line):
			target, err := parser.ParseInclude(line)
			if err != nil {
				return fmt.Errorf("%w %s in %s:%d", ErrInvalidInclude, line, top.path, lineNo)
			}
			if err := in.open(in.resolve(target)); err != nil {
				return err
			}

		default:
			in.code = append(in.code, source.Line{Text: line, File: top.path, Number: lineNo})
		}
	}

	return nil
}

// open pushes a frame for path unless it was already visited
func (in *Includer) open(path string) error {
	if in.visited[path] {
		glog.V(2).Infof("skipping %s: already included", path)
		return nil
	}
	in.visited[path] = true

	if in.MaxDepth > 0 && len(in.stack) >= in.MaxDepth {
		return fmt.Errorf("%w: %s (limit %d)", ErrIncludeDepth, in.chain(path), in.MaxDepth)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	glog.V(1).Infof("including %s (depth %d)", path, len(in.stack))
	in.stack = append(in.stack, &frame{
		path:  path,
		lines: strings.Split(string(data), "\n"),
	})
	return nil
}

// resolve makes an include target absolute relative to the current file
func (in *Includer) resolve(target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	dir := filepath.Dir(in.stack[len(in.stack)-1].path)
	return filepath.Join(dir, target)
}

// chain renders the open files followed by path
func (in *Includer) chain(path string) string {
	parts := make([]string, 0, len(in.stack)+1)
	for _, f := range in.stack {
		parts = append(parts, f.path)
	}
	return strings.Join(append(parts, path), " -> ")
}

// clean strips the comment and surrounding whitespace from a raw line
func clean(raw string) string {
	if idx := strings.Index(raw, CommentMark); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}
