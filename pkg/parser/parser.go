// Package parser provides SmallO directive parsing using Participle v2.
// Grammar is defined as Go structs with tags.
//
// Only the two line forms that are not instructions live here: include
// directives (>"path") and label declarations (name:). Instruction lines are
// tokenized by package lexer.
package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Include: > "path"
type Include struct {
	Path string `parser:"'>' @String"`
}

// Label: name :
type Label struct {
	Name string `parser:"@Ident ':'"`
}

// Directive lexer. There is no whitespace rule on purpose: `> "a"` and
// `name :` are not valid directives.
var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[^"]+"`},
	{Name: "Ident", Pattern: `[_a-zA-Z][_a-zA-Z0-9]*`},
	{Name: "Punct", Pattern: `[>:]`},
})

var (
	includeParser = participle.MustBuild[Include](participle.Lexer(directiveLexer))
	labelParser   = participle.MustBuild[Label](participle.Lexer(directiveLexer))
)

// IsInclude reports whether a cleaned line is an include directive
func IsInclude(line string) bool {
	return strings.HasPrefix(line, ">")
}

// IsLabel reports whether a cleaned line declares a label
func IsLabel(line string) bool {
	return strings.HasSuffix(line, ":")
}

// ParseInclude returns the path named by an include directive
func ParseInclude(line string) (string, error) {
	inc, err := includeParser.ParseString("", line)
	if err != nil {
		return "", err
	}
	// Remove quotes from parsed string
	s := inc.Path
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s, nil
}

// ParseLabel returns the name declared by a label line. The name must match
// ^[_a-zA-Z][_a-zA-Z0-9]*$.
func ParseLabel(line string) (string, error) {
	lbl, err := labelParser.ParseString("", line)
	if err != nil {
		return "", err
	}
	return lbl.Name, nil
}
