// Package assembler turns flattened SmallO lines into a Rick literal pool and
// instruction stream.
//
// Operands are never emitted inline. Every operand is interned into the pool
// and the instruction stream refers to it by slot index. A label is just an
// identifier whose slot is set to the stream length at the point the label
// is declared, so forward references need no second pass: the jump stores
// the slot, and the slot is filled in before the pool is ever read.
package assembler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/smallo-lang/morty/pkg/lexer"
	"github.com/smallo-lang/morty/pkg/parser"
	"github.com/smallo-lang/morty/pkg/source"
	"github.com/smallo-lang/morty/pkg/types"
)

var (
	ErrParse          = errors.New("failed to parse instruction")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrOperandCount   = errors.New("invalid operand length")
	ErrOperandKind    = errors.New("invalid operand type")
	ErrInvalidLabel   = errors.New("invalid label")
	ErrDuplicateLabel = errors.New("duplicate label")
)

// KindError reports an operand whose kind does not fit the opcode signature
type KindError struct {
	Instruction string
	Index       int
	Value       types.Value
	Got         types.Kind
	Want        types.Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%v %v in instruction %s: expected %s, got %s",
		ErrOperandKind, e.Value, e.Instruction, e.Want, e.Got)
}

func (e *KindError) Unwrap() error { return ErrOperandKind }

// Program is the output of a successful run
type Program struct {
	Memory []types.Value
	Code   []byte
	// Labels maps each declared label to its byte offset
	Labels map[string]int
}

// Assembler holds the state of one run. Process resets it, so an Assembler
// can be reused sequentially but not shared between goroutines.
type Assembler struct {
	pool   *Pool
	code   []byte
	labels map[string]int
	err    error
}

// New creates an Assembler
func New() *Assembler {
	a := &Assembler{}
	a.reset()
	return a
}

// Assemble runs a fresh Assembler over lines
func Assemble(lines []source.Line) (*Program, error) {
	return New().Process(lines)
}

func (a *Assembler) reset() {
	a.pool = NewPool()
	a.code = make([]byte, 0, 256)
	a.labels = make(map[string]int)
	a.err = nil
}

// Err returns the error that stopped the last run, if any
func (a *Assembler) Err() error {
	return a.err
}

// Process assembles the flattened program. An "end" line is appended unless
// the program already ends with one. Processing stops at the first error,
// and no partial output is returned.
func (a *Assembler) Process(lines []source.Line) (*Program, error) {
	a.reset()

	if len(lines) == 0 || lines[len(lines)-1].Text != "end" {
		lines = append(lines[:len(lines):len(lines)], source.Line{Text: "end"})
	}

	for _, line := range lines {
		if a.err != nil {
			break
		}

		var err error
		if parser.IsLabel(line.Text) {
			err = a.addLabel(line.Text)
		} else {
			err = a.addInstruction(line.Text)
		}
		if err != nil {
			a.fail(line, err)
		}
	}

	if a.err != nil {
		return nil, a.err
	}

	glog.V(1).Infof("assembled %d lines: %d memory slots, %d code bytes, %d labels",
		len(lines), a.pool.Len(), len(a.code), len(a.labels))

	labels := make(map[string]int, len(a.labels))
	for name, addr := range a.labels {
		labels[name] = addr
	}
	return &Program{
		Memory: a.pool.Values(),
		Code:   append([]byte(nil), a.code...),
		Labels: labels,
	}, nil
}

// fail records the first error, prefixed with the line's origin when known
func (a *Assembler) fail(line source.Line, err error) {
	if a.err != nil {
		return
	}
	if pos := line.Pos(); pos != "" {
		err = fmt.Errorf("%s: %w", pos, err)
	}
	a.err = err
}

func (a *Assembler) addLabel(text string) error {
	name := strings.TrimSuffix(text, ":")

	if _, err := parser.ParseLabel(text); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidLabel, name)
	}
	if _, exists := a.labels[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, text)
	}

	addr := len(a.code)
	a.labels[name] = addr
	slot := a.pool.Intern(types.Symbol(name))
	a.pool.Set(slot, types.Integer(addr))

	glog.V(2).Infof("label %s -> %d (slot %d)", name, addr, slot)
	return nil
}

func (a *Assembler) addInstruction(text string) error {
	in, err := lexer.Parse(text)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrParse, text, err)
	}

	info, ok := opcodes[in.Opcode]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOpcode, in.Opcode)
	}

	if len(in.Operands) != len(info.signature) {
		return fmt.Errorf("%w: %s (%s expects %d, got %d)",
			ErrOperandCount, text, in.Opcode, len(info.signature), len(in.Operands))
	}

	kinds := in.Kinds()
	for i, want := range info.signature {
		if !want.Accepts(kinds[i]) {
			return &KindError{
				Instruction: text,
				Index:       i,
				Value:       in.Operands[i].Value,
				Got:         kinds[i],
				Want:        want,
			}
		}
	}

	slots := make([]int32, len(in.Operands))
	for i, op := range in.Operands {
		slots[i] = a.pool.Intern(op.Value)
	}

	a.code = emit(a.code, info, slots)
	return nil
}
