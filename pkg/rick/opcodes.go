// Package rick describes the bytecode understood by the Rick virtual machine
// and the artifact container morty writes it in.
package rick

// Bytecode encoding:
//
//   [op]           1 byte, most opcodes
//   [op][i32]      5 bytes, PUSH and POP: big-endian index of a memory slot
//
// Operands are never inline literals or absolute addresses. Jumps pop their
// target address from the stack, where it was pushed from a memory slot.

// Opcodes
const (
	OpEnd  = 0x00 // stop execution
	OpPush = 0x01 // [slot] push memory[slot]
	OpPop  = 0x02 // [slot] pop into memory[slot]
	OpDrop = 0x03 // discard top
	OpIni  = 0x04 // read an integer from input
	OpIns  = 0x05 // read a string from input
	OpOut  = 0x06 // print top
	OpNl   = 0x07 // print newline
	OpSti  = 0x08 // string -- integer
	OpBool = 0x09 // a -- bool(a)
	OpAdd  = 0x0A // a b -- (a+b)
	OpSub  = 0x0B // a b -- (a-b)
	OpMul  = 0x0C // a b -- (a*b)
	OpDiv  = 0x0D // a b -- (a/b)
	OpMod  = 0x0E // a b -- (a%b)
	OpGth  = 0x0F // a b -- (a>b)
	OpLth  = 0x10 // a b -- (a<b)
	OpGeq  = 0x11 // a b -- (a>=b)
	OpLeq  = 0x12 // a b -- (a<=b)
	OpNot  = 0x13 // a -- (!a)
	OpAnd  = 0x14 // a b -- (a&&b)
	OpOr   = 0x15 // a b -- (a||b)
	OpEq   = 0x16 // a b -- (a==b)
	OpNeq  = 0x17 // a b -- (a!=b)
	OpCon  = 0x18 // a b -- concat(a, b)
	OpJump = 0x19 // addr -- jump to addr
	OpJmpt = 0x1A // addr cond -- jump if cond
	OpJmpf = 0x1B // addr cond -- jump unless cond
	OpBr   = 0x1C // addr -- call addr
	OpBrt  = 0x1D // addr cond -- call if cond
	OpBrf  = 0x1E // addr cond -- call unless cond
	OpBack = 0x1F // return from call
	OpErr  = 0x20 // code -- exit with code
)

// SlotSize is the width of a PUSH/POP operand in bytes
const SlotSize = 4

var opNames = [...]string{
	OpEnd: "end", OpPush: "push", OpPop: "pop", OpDrop: "drop",
	OpIni: "ini", OpIns: "ins", OpOut: "out", OpNl: "nl",
	OpSti: "sti", OpBool: "bool", OpAdd: "add", OpSub: "sub",
	OpMul: "mul", OpDiv: "div", OpMod: "mod", OpGth: "gth",
	OpLth: "lth", OpGeq: "geq", OpLeq: "leq", OpNot: "not",
	OpAnd: "and", OpOr: "or", OpEq: "eq", OpNeq: "neq",
	OpCon: "con", OpJump: "jump", OpJmpt: "jmpt", OpJmpf: "jmpf",
	OpBr: "br", OpBrt: "brt", OpBrf: "brf", OpBack: "back",
	OpErr: "err",
}

// IsValid returns true if op is a Rick opcode
func IsValid(op byte) bool {
	return int(op) < len(opNames)
}

// OpName returns the name of an opcode for debugging
func OpName(op byte) string {
	if !IsValid(op) {
		return "?"
	}
	return opNames[op]
}

// HasSlot returns true if the opcode is followed by a memory slot index
func HasSlot(op byte) bool {
	return op == OpPush || op == OpPop
}

// Width returns the encoded length of an instruction starting with op
func Width(op byte) int {
	if HasSlot(op) {
		return 1 + SlotSize
	}
	return 1
}
