// Package types defines the values that live in a SmallO literal pool and
// the operand kinds the assembler checks instructions against.
// All pool values implement the Value interface and are comparable, so they
// can be used directly as map keys when interning.
package types

import (
	"fmt"
	"strconv"
)

// Value is the interface all pool values implement.
type Value interface {
	// String returns a human-readable representation
	String() string
	// Type returns the type name for error messages
	Type() string
	// Equal checks equality with another value
	Equal(other Value) bool
}

// Null is the placeholder held by an identifier slot until a label binds it
type Null struct{}

func (Null) String() string { return "null" }
func (Null) Type() string   { return "null" }

func (Null) Equal(other Value) bool {
	_, ok := other.(Null)
	return ok
}

// Integer is a signed integer literal, or the byte offset of a resolved label
type Integer int64

func (n Integer) String() string { return strconv.FormatInt(int64(n), 10) }
func (n Integer) Type() string   { return "integer" }

func (n Integer) Equal(other Value) bool {
	if o, ok := other.(Integer); ok {
		return n == o
	}
	return false
}

// String is an escape-decoded string literal
type String string

func (s String) String() string { return strconv.Quote(string(s)) }
func (s String) Type() string   { return "string" }

func (s String) Equal(other Value) bool {
	if o, ok := other.(String); ok {
		return s == o
	}
	return false
}

// Symbol is an identifier operand: a variable name or a label reference.
// Symbols never appear in an assembled pool; their slot holds Null or the
// label's Integer offset instead.
type Symbol string

func (s Symbol) String() string { return string(s) }
func (s Symbol) Type() string   { return "identifier" }

func (s Symbol) Equal(other Value) bool {
	if o, ok := other.(Symbol); ok {
		return s == o
	}
	return false
}

// Kind is the semantic category of an operand. KindIdentifier, KindInteger
// and KindString are produced by the lexer; the other kinds only appear in
// opcode signatures.
type Kind int

const (
	KindIdentifier Kind = iota
	KindInteger
	KindString
	KindValue
	KindNotInteger
	KindNotString
)

var kindNames = [...]string{
	KindIdentifier: "identifier",
	KindInteger:    "integer",
	KindString:     "string",
	KindValue:      "value",
	KindNotInteger: "not integer",
	KindNotString:  "not string",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Accepts reports whether an operand of kind got satisfies the expected kind k
func (k Kind) Accepts(got Kind) bool {
	switch k {
	case KindValue:
		return got == KindIdentifier || got == KindInteger || got == KindString
	case KindNotInteger:
		return got != KindInteger
	case KindNotString:
		return got != KindString
	default:
		return got == k
	}
}
