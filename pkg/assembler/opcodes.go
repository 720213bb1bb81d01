package assembler

import (
	"github.com/smallo-lang/morty/pkg/rick"
	"github.com/smallo-lang/morty/pkg/types"
)

// template selects how an instruction's operand slots are laid out around
// its opcode byte. Operands are numbered in source order.
type template int

const (
	templatePut      template = iota // PUSH 0, POP 1
	templateBinary                   // PUSH 0, PUSH 1, OP, POP 2
	templateUnary                    // PUSH 0, OP, POP 1
	templateInput                    // OP, POP 0
	templateOut                      // PUSH 0, OUT
	templateOutLine                  // PUSH 0, OUT, NL
	templateNullary                  // OP
	templateJump                     // PUSH 0, OP
	templateCondJump                 // PUSH 1, PUSH 0, OP
	templateErr                      // PUSH 0, OUT, PUSH 1, ERR
)

type opcodeInfo struct {
	op        byte
	signature []types.Kind
	template  template
}

var (
	sigNone     = []types.Kind{}
	sigName     = []types.Kind{types.KindIdentifier}
	sigValue    = []types.Kind{types.KindValue}
	sigPut      = []types.Kind{types.KindValue, types.KindIdentifier}
	sigArith    = []types.Kind{types.KindNotString, types.KindNotString, types.KindIdentifier}
	sigAny2     = []types.Kind{types.KindValue, types.KindValue, types.KindIdentifier}
	sigSti      = []types.Kind{types.KindNotInteger, types.KindIdentifier}
	sigCondJump = []types.Kind{types.KindIdentifier, types.KindIdentifier}
	sigErr      = []types.Kind{types.KindNotInteger, types.KindNotString}
)

// opcodes maps every SmallO mnemonic to its signature and emission template
var opcodes = map[string]opcodeInfo{
	"put": {signature: sigPut, template: templatePut},

	"add": {rick.OpAdd, sigArith, templateBinary},
	"sub": {rick.OpSub, sigArith, templateBinary},
	"mul": {rick.OpMul, sigArith, templateBinary},
	"div": {rick.OpDiv, sigArith, templateBinary},
	"mod": {rick.OpMod, sigArith, templateBinary},
	"gth": {rick.OpGth, sigArith, templateBinary},
	"lth": {rick.OpLth, sigArith, templateBinary},
	"geq": {rick.OpGeq, sigArith, templateBinary},
	"leq": {rick.OpLeq, sigArith, templateBinary},
	"eq":  {rick.OpEq, sigArith, templateBinary},
	"neq": {rick.OpNeq, sigArith, templateBinary},
	"con": {rick.OpCon, sigAny2, templateBinary},
	"and": {rick.OpAnd, sigAny2, templateBinary},
	"or":  {rick.OpOr, sigAny2, templateBinary},

	"sti": {rick.OpSti, sigSti, templateUnary},
	"not": {rick.OpNot, sigPut, templateUnary},

	"ini": {rick.OpIni, sigName, templateInput},
	"ins": {rick.OpIns, sigName, templateInput},

	"out":  {rick.OpOut, sigValue, templateOut},
	"outl": {rick.OpOut, sigValue, templateOutLine},

	"nl":   {rick.OpNl, sigNone, templateNullary},
	"back": {rick.OpBack, sigNone, templateNullary},
	"end":  {rick.OpEnd, sigNone, templateNullary},

	"jump": {rick.OpJump, sigName, templateJump},
	"br":   {rick.OpBr, sigName, templateJump},

	"jmpt": {rick.OpJmpt, sigCondJump, templateCondJump},
	"jmpf": {rick.OpJmpf, sigCondJump, templateCondJump},
	"brt":  {rick.OpBrt, sigCondJump, templateCondJump},
	"brf":  {rick.OpBrf, sigCondJump, templateCondJump},

	"err": {rick.OpErr, sigErr, templateErr},
}

// emit appends the encoding of one instruction to code
func emit(code []byte, info opcodeInfo, slots []int32) []byte {
	push := func(code []byte, slot int32) []byte {
		return rick.AppendSlot(append(code, rick.OpPush), slot)
	}
	pop := func(code []byte, slot int32) []byte {
		return rick.AppendSlot(append(code, rick.OpPop), slot)
	}

	switch info.template {
	case templatePut:
		code = push(code, slots[0])
		code = pop(code, slots[1])
	case templateBinary:
		code = push(code, slots[0])
		code = push(code, slots[1])
		code = append(code, info.op)
		code = pop(code, slots[2])
	case templateUnary:
		code = push(code, slots[0])
		code = append(code, info.op)
		code = pop(code, slots[1])
	case templateInput:
		code = append(code, info.op)
		code = pop(code, slots[0])
	case templateOut:
		code = push(code, slots[0])
		code = append(code, rick.OpOut)
	case templateOutLine:
		code = push(code, slots[0])
		code = append(code, rick.OpOut, rick.OpNl)
	case templateNullary:
		code = append(code, info.op)
	case templateJump:
		code = push(code, slots[0])
		code = append(code, info.op)
	case templateCondJump:
		code = push(code, slots[1])
		code = push(code, slots[0])
		code = append(code, info.op)
	case templateErr:
		code = push(code, slots[0])
		code = append(code, rick.OpOut)
		code = push(code, slots[1])
		code = append(code, rick.OpErr)
	}
	return code
}
