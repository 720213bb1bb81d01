package rick

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/smallo-lang/morty/pkg/types"
)

// Slot decodes the big-endian slot index stored at code[pc:pc+4]
func Slot(code []byte, pc int) int32 {
	return int32(binary.BigEndian.Uint32(code[pc : pc+SlotSize]))
}

// AppendSlot appends a big-endian slot index to code
func AppendSlot(code []byte, slot int32) []byte {
	return binary.BigEndian.AppendUint32(code, uint32(slot))
}

// Disassemble converts an artifact's code back to text, annotating every
// slot operand with the memory value it refers to. labels maps label names
// to byte offsets and may be nil; each name is printed as "name:" on its own
// line before the instruction at its offset.
func Disassemble(a *Artifact, labels map[string]int) string {
	var sb strings.Builder
	code := a.Code
	pc := 0
	at := labelsByOffset(labels)

	for pc < len(code) {
		for _, name := range at[pc] {
			sb.WriteString(name + ":\n")
		}

		op := code[pc]
		sb.WriteString(fmt.Sprintf("%04X: ", pc))

		switch {
		case !IsValid(op):
			sb.WriteString(fmt.Sprintf("?%02X", op))
			pc++

		case HasSlot(op):
			if pc+Width(op) > len(code) {
				sb.WriteString("?? (truncated)")
				pc = len(code)
				break
			}
			slot := Slot(code, pc+1)
			sb.WriteString(fmt.Sprintf("%-5s %d", OpName(op), slot))
			sb.WriteString(fmt.Sprintf("\t; %s", describeSlot(a.Memory, slot)))
			pc += Width(op)

		default:
			sb.WriteString(OpName(op))
			pc++
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func describeSlot(memory []types.Value, slot int32) string {
	if slot < 0 || int(slot) >= len(memory) {
		return "<out of range>"
	}
	return memory[slot].String()
}

// labelsByOffset inverts a label map, sorting names that share an offset
func labelsByOffset(labels map[string]int) map[int][]string {
	at := make(map[int][]string, len(labels))
	for name, addr := range labels {
		at[addr] = append(at[addr], name)
	}
	for _, names := range at {
		sort.Strings(names)
	}
	return at
}
