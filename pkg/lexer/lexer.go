// Package lexer parses a single SmallO instruction line into an opcode and
// its kind-tagged operands.
//
// The parser is an explicit state machine. Every state has one handler in a
// fixed table, and the end of the line is a synthetic terminator so that
// "end of instruction" and "end of operand" are the same test.
package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smallo-lang/morty/pkg/types"
)

// ErrSyntax is wrapped by every error returned from Parse
var ErrSyntax = errors.New("syntax error")

// Operand is a parsed operand value and the kind of token it came from
type Operand struct {
	Kind  types.Kind
	Value types.Value
}

func (o Operand) String() string {
	return o.Value.String()
}

// Instruction is the parse result for one line
type Instruction struct {
	Opcode   string
	Operands []Operand
}

func (in *Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(in.Opcode)
	for _, op := range in.Operands {
		sb.WriteByte(' ')
		sb.WriteString(op.String())
	}
	return sb.String()
}

// Kinds returns the kind of each operand, in order
func (in *Instruction) Kinds() []types.Kind {
	kinds := make([]types.Kind, len(in.Operands))
	for i, op := range in.Operands {
		kinds[i] = op.Kind
	}
	return kinds
}

// SyntaxError describes where and why a line failed to parse
type SyntaxError struct {
	Line   string
	Column int // 1-based rune column, len+1 for the end of the line
	State  string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at column %d (%s): %s", e.Reason, e.Column, e.State, e.Line)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

type state int

const (
	stateStart state = iota
	stateOpcode
	stateDump
	stateIdentifier
	stateInteger
	stateString
	stateFinish
	stateError
)

var stateNames = [...]string{
	stateStart:      "start",
	stateOpcode:     "opcode",
	stateDump:       "dump",
	stateIdentifier: "identifier",
	stateInteger:    "integer",
	stateString:     "string",
	stateFinish:     "finish",
	stateError:      "error",
}

func (s state) String() string { return stateNames[s] }

// terminator is appended after the last rune of every line
const terminator rune = -1

type machine struct {
	input []rune
	pos   int
	cur   rune
	state state
	buf   []rune

	opcode   string
	operands []Operand

	failedIn state
	reason   string
}

// handlers is indexed by every non-terminal state
var handlers = [...]func(m *machine){
	stateStart:      (*machine).start,
	stateOpcode:     (*machine).opcodeChar,
	stateDump:       (*machine).dump,
	stateIdentifier: (*machine).identifier,
	stateInteger:    (*machine).integer,
	stateString:     (*machine).str,
}

var escapes = strings.NewReplacer(
	`\n`, "\n",
	`\t`, "\t",
	`\r`, "\r",
	`\"`, `"`,
)

// Parse runs the state machine over one line
func Parse(line string) (*Instruction, error) {
	if col := invalidRune(line); col >= 0 {
		return nil, &SyntaxError{
			Line:   line,
			Column: col + 1,
			State:  stateStart.String(),
			Reason: "invalid UTF-8",
		}
	}

	m := &machine{input: []rune(line), state: stateStart}

	for m.state != stateFinish && m.state != stateError {
		m.cur = m.peek()
		handlers[m.state](m)
	}

	if m.state == stateError {
		return nil, &SyntaxError{
			Line:   line,
			Column: m.pos + 1,
			State:  m.failedIn.String(),
			Reason: m.reason,
		}
	}

	return &Instruction{Opcode: m.opcode, Operands: m.operands}, nil
}

// invalidRune returns the rune column of the first byte that is not valid
// UTF-8, or -1 if the whole line decodes
func invalidRune(s string) int {
	col := 0
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return col
			}
		}
		col++
	}
	return -1
}

func (m *machine) peek() rune {
	if m.pos >= len(m.input) {
		return terminator
	}
	return m.input[m.pos]
}

func (m *machine) shift() {
	m.pos++
}

func (m *machine) bufCur() {
	m.buf = append(m.buf, m.cur)
	m.shift()
}

func (m *machine) fail(reason string) {
	m.failedIn = m.state
	m.reason = reason
	m.state = stateError
}

func (m *machine) commitOpcode() {
	m.opcode = string(m.buf)
}

// commitOperand converts the buffer according to the current state and
// appends it. It does not consume the current character.
func (m *machine) commitOperand() bool {
	raw := string(m.buf)

	var op Operand
	switch m.state {
	case stateIdentifier:
		op = Operand{Kind: types.KindIdentifier, Value: types.Symbol(raw)}
	case stateInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			m.fail(fmt.Sprintf("invalid integer %q", raw))
			return false
		}
		op = Operand{Kind: types.KindInteger, Value: types.Integer(n)}
	case stateString:
		op = Operand{Kind: types.KindString, Value: types.String(escapes.Replace(raw))}
	}

	m.operands = append(m.operands, op)
	return true
}

func (m *machine) start() {
	if isLower(m.cur) {
		m.bufCur()
		m.state = stateOpcode
		return
	}
	m.fail("opcode must start with a lowercase letter")
}

func (m *machine) opcodeChar() {
	switch {
	case m.cur == terminator:
		m.commitOpcode()
		m.state = stateFinish
	case isLower(m.cur):
		m.bufCur()
	case isSpace(m.cur):
		m.commitOpcode()
		m.shift()
		m.state = stateDump
	default:
		m.fail("opcode may only contain lowercase letters")
	}
}

func (m *machine) dump() {
	m.buf = m.buf[:0]

	switch {
	case m.cur == terminator:
		m.state = stateFinish
	case isSpace(m.cur):
		m.shift()
	case isIdentStart(m.cur):
		m.bufCur()
		m.state = stateIdentifier
	case m.cur == '-' || isDigit(m.cur):
		m.bufCur()
		m.state = stateInteger
	case m.cur == '"':
		m.shift()
		m.state = stateString
	default:
		m.fail(fmt.Sprintf("unexpected character %q", m.cur))
	}
}

func (m *machine) identifier() {
	switch {
	case m.cur == terminator:
		if m.commitOperand() {
			m.state = stateFinish
		}
	case isSpace(m.cur):
		if m.commitOperand() {
			m.shift()
			m.state = stateDump
		}
	case isIdentifier(append(m.buf, m.cur)):
		m.bufCur()
	default:
		m.fail(fmt.Sprintf("invalid identifier character %q", m.cur))
	}
}

func (m *machine) integer() {
	switch {
	case m.cur == terminator:
		if m.commitOperand() {
			m.state = stateFinish
		}
	case isSpace(m.cur):
		if m.commitOperand() {
			m.shift()
			m.state = stateDump
		}
	case isDigit(m.cur):
		m.bufCur()
	default:
		m.fail(fmt.Sprintf("invalid digit %q", m.cur))
	}
}

func (m *machine) str() {
	switch {
	case m.cur == terminator:
		m.fail("unterminated string")
	case m.cur == '"' && !m.escaped():
		if m.commitOperand() {
			m.shift()
			m.state = stateDump
		}
	default:
		m.bufCur()
	}
}

// escaped reports whether the quote under the cursor follows a backslash
func (m *machine) escaped() bool {
	return len(m.buf) > 0 && m.buf[len(m.buf)-1] == '\\'
}

func isLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSpace(r rune) bool {
	return r != terminator && unicode.IsSpace(r)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isIdentifier(rs []rune) bool {
	if len(rs) == 0 || !isIdentStart(rs[0]) {
		return false
	}
	for _, r := range rs[1:] {
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}
