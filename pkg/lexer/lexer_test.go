package lexer

import (
	"errors"
	"testing"

	"github.com/smallo-lang/morty/pkg/types"
)

func ident(s string) Operand { return Operand{Kind: types.KindIdentifier, Value: types.Symbol(s)} }
func num(n int64) Operand    { return Operand{Kind: types.KindInteger, Value: types.Integer(n)} }
func str(s string) Operand   { return Operand{Kind: types.KindString, Value: types.String(s)} }

func assertInstruction(t *testing.T, line, opcode string, operands ...Operand) {
	t.Helper()
	in, err := Parse(line)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", line, err)
	}
	if in.Opcode != opcode {
		t.Errorf("Expected opcode %q, got %q", opcode, in.Opcode)
	}
	if len(in.Operands) != len(operands) {
		t.Fatalf("Expected %d operands, got %d: %v", len(operands), len(in.Operands), in.Operands)
	}
	for i, want := range operands {
		got := in.Operands[i]
		if got.Kind != want.Kind || !got.Value.Equal(want.Value) {
			t.Errorf("Operand %d: expected %s %v, got %s %v", i, want.Kind, want.Value, got.Kind, got.Value)
		}
	}
}

// === Valid lines ===

func TestOpcodeOnly(t *testing.T) {
	assertInstruction(t, "nl", "nl")
	assertInstruction(t, "end", "end")
	assertInstruction(t, "back   ", "back")
}

func TestIdentifierOperands(t *testing.T) {
	assertInstruction(t, "ini n", "ini", ident("n"))
	assertInstruction(t, "jmpt ok _exit2", "jmpt", ident("ok"), ident("_exit2"))
	assertInstruction(t, "out    spaced\tout", "out", ident("spaced"), ident("out"))
}

func TestIntegerOperands(t *testing.T) {
	assertInstruction(t, "add 1 -20 s", "add", num(1), num(-20), ident("s"))
	assertInstruction(t, "put 0 zero", "put", num(0), ident("zero"))
	assertInstruction(t, "put 9223372036854775807 max", "put", num(9223372036854775807), ident("max"))
}

func TestStringOperands(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{`out "hello world"`, "hello world"},
		{`out ""`, ""},
		{`out "tab\there"`, "tab\there"},
		{`out "line\n"`, "line\n"},
		{`out "cr\r"`, "cr\r"},
		{`out "say \"hi\""`, `say "hi"`},
		{`out "a\qb"`, `a\qb`},
		{`out "  padded  "`, "  padded  "},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assertInstruction(t, tt.line, "out", str(tt.want))
		})
	}
}

func TestStringFollowedByOperand(t *testing.T) {
	assertInstruction(t, `con "a" "b" c`, "con", str("a"), str("b"), ident("c"))
	// A closing quote returns to the separator state, so no space is required.
	assertInstruction(t, `con "a"b c`, "con", str("a"), ident("b"), ident("c"))
}

func TestMixedOperands(t *testing.T) {
	assertInstruction(t, `err "bad input" 2`, "err", str("bad input"), num(2))
}

// === Invalid lines ===

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"uppercase opcode", "Out x"},
		{"digit opcode", "1out x"},
		{"opcode with digit", "out2 x"},
		{"bad operand start", "out $x"},
		{"bad identifier char", "out x-y"},
		{"non-digit in integer", "put 12a b"},
		{"lone minus", "put - b"},
		{"double minus", "put --1 b"},
		{"integer overflow", "put 99999999999999999999 b"},
		{"unterminated string", `out "hello`},
		{"escaped closing quote", `out "hello\"`},
		{"in-band semicolon", "out a;b"},
		{"invalid utf-8 in string", "out \"caf\xe9\""},
		{"invalid utf-8 in opcode", "o\xffut x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Parse(tt.line)
			if err == nil {
				t.Fatalf("Expected error for %q, got %v", tt.line, in)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Expected ErrSyntax, got %v", err)
			}
		})
	}
}

func TestSyntaxErrorDetails(t *testing.T) {
	_, err := Parse(`out "open`)
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *SyntaxError, got %T", err)
	}
	if se.State != "string" {
		t.Errorf("Expected failure in string state, got %s", se.State)
	}
	if se.Column != 10 {
		t.Errorf("Expected column 10, got %d", se.Column)
	}
	if se.Reason != "unterminated string" {
		t.Errorf("Expected unterminated string, got %q", se.Reason)
	}
}

func TestInvalidUTF8Column(t *testing.T) {
	_, err := Parse("out \"caf\xe9\"")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *SyntaxError, got %T", err)
	}
	if se.Column != 9 || se.Reason != "invalid UTF-8" {
		t.Errorf("Expected invalid UTF-8 at column 9, got %q at %d", se.Reason, se.Column)
	}

	in, err := Parse("out \"caf\u00e9 \ufffd\"")
	if err != nil {
		t.Fatalf("Encoded U+FFFD is valid input: %v", err)
	}
	if got := in.Operands[0].Value; !got.Equal(types.String("caf\u00e9 \ufffd")) {
		t.Errorf("Expected string to pass through unchanged, got %v", got)
	}
}

func TestInstructionString(t *testing.T) {
	in, err := Parse(`put "hi" greeting`)
	if err != nil {
		t.Fatal(err)
	}
	if got := in.String(); got != `put "hi" greeting` {
		t.Errorf("Expected round-trip text, got %q", got)
	}
	kinds := in.Kinds()
	if len(kinds) != 2 || kinds[0] != types.KindString || kinds[1] != types.KindIdentifier {
		t.Errorf("Unexpected kinds %v", kinds)
	}
}
