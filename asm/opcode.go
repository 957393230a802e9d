package asm

import (
	"fmt"
	"strings"
)

// Op is the 6-bit operation selector occupying the top bits of an
// instruction word.
type Op uint16

const (
	OpLdi Op = 0x00

	OpMv   Op = 0x20
	OpAdd  Op = 0x21
	OpSub  Op = 0x22
	OpNot  Op = 0x23
	OpAnd  Op = 0x24
	OpOr   Op = 0x25
	OpXor  Op = 0x26
	OpShl  Op = 0x27
	OpShr  Op = 0x28
	OpJmp  Op = 0x29
	OpJz   Op = 0x2a
	OpJnz  Op = 0x2b
	OpJn   Op = 0x2c
	OpJp   Op = 0x2d
	OpLd   Op = 0x2e
	OpSt   Op = 0x2f
	OpPush Op = 0x30
	OpPop  Op = 0x31
	OpAddi Op = 0x32
	OpSubi Op = 0x33
	OpShli Op = 0x34
	OpShri Op = 0x35

	OpFlag Op = 0x3f
)

// opMap maps lower-cased mnemonics to operations.
var opMap = map[string]Op{
	"ldi":  OpLdi,
	"mv":   OpMv,
	"add":  OpAdd,
	"sub":  OpSub,
	"not":  OpNot,
	"and":  OpAnd,
	"or":   OpOr,
	"xor":  OpXor,
	"shl":  OpShl,
	"shr":  OpShr,
	"jmp":  OpJmp,
	"jz":   OpJz,
	"jnz":  OpJnz,
	"jn":   OpJn,
	"jp":   OpJp,
	"ld":   OpLd,
	"st":   OpSt,
	"push": OpPush,
	"pop":  OpPop,
	"addi": OpAddi,
	"subi": OpSubi,
	"shli": OpShli,
	"shri": OpShri,
	"flag": OpFlag,
}

// opNames is the reverse of opMap.
var opNames = func() map[Op]string {
	names := make(map[Op]string, len(opMap))
	for name, op := range opMap {
		names[op] = name
	}
	return names
}()

// LookupOp resolves a mnemonic, case-insensitively.
func LookupOp(mnemonic string) (Op, bool) {
	op, ok := opMap[strings.ToLower(mnemonic)]
	return op, ok
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op%#02x", uint16(op))
}

// Arity returns the number of operands the operation accepts.
func (op Op) Arity() int {
	switch op {
	case OpFlag:
		return 0
	case OpLdi, OpNot, OpJmp, OpPush, OpPop:
		return 1
	default:
		return 2
	}
}

// Immediate reports whether the second operand is a 6-bit immediate
// rather than a register.
func (op Op) Immediate() bool {
	switch op {
	case OpAddi, OpSubi, OpShli, OpShri:
		return true
	default:
		return false
	}
}

// Code is a single encoded 16-bit instruction word. Bits 15-10 hold the
// operation; the low 10 bits hold the operand payload. The payload of
// OpLdi is special: its operation code is zero, so the immediate spans
// the whole word.
type Code uint16

// CodeFlag is the filler word used to pad skipped instruction slots:
// a FLAG operation with all operand bits clear.
const CodeFlag Code = 0b1111_1100_0000_0000

// MakeCode returns the instruction word for an operation with an empty
// operand payload.
func MakeCode(op Op) Code {
	return Code(op&0x3f) << 10
}

// Op returns the operation selector from the instruction word.
func (code Code) Op() Op {
	return Op(code>>10) & 0x3f
}

// RegA returns the first register operand (bits 9-5).
func (code Code) RegA() uint16 {
	return uint16(code>>5) & 0x1f
}

// RegB returns the second register operand (bits 4-0).
func (code Code) RegB() uint16 {
	return uint16(code) & 0x1f
}

// Imm6 returns the 6-bit immediate of the *-I operations.
func (code Code) Imm6() uint16 {
	return uint16(code) & 0x3f
}

// Imm16 returns the immediate of an OpLdi word. OpLdi encodes as zero,
// so the value is the word itself.
func (code Code) Imm16() uint16 {
	return uint16(code)
}

// String returns an assembly-like rendition of the instruction word.
func (code Code) String() string {
	op := code.Op()
	switch {
	case op == OpLdi:
		return fmt.Sprintf("%v %v", op, code.Imm16())
	case op.Arity() == 0:
		return op.String()
	case op.Arity() == 1:
		return fmt.Sprintf("%v r%v", op, code.RegA())
	case op.Immediate():
		return fmt.Sprintf("%v r%v, %v", op, code.RegA(), code.Imm6())
	default:
		return fmt.Sprintf("%v r%v, r%v", op, code.RegA(), code.RegB())
	}
}
