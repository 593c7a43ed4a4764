package asm

import (
	"tlog.app/go/tlog/tlwire"

	"github.com/slowlang/minic/compiler/defect"
)

type (
	Program struct {
		Func Func
	}

	Func struct {
		Name string
		Code []Instr
	}

	Instr   any
	Operand any

	Imm    uint64
	Reg    int
	Pseudo string
	Stack  int64

	UnaryOp  string
	BinaryOp string

	Mov struct {
		Src Operand
		Dst Operand
	}

	Unary struct {
		Op  UnaryOp
		Dst Operand
	}

	// Binary is Dst = Dst Op Src.
	Binary struct {
		Op  BinaryOp
		Src Operand
		Dst Operand
	}

	// Idiv divides DX:AX by Src. Quotient goes to AX, remainder to DX.
	Idiv struct {
		Src Operand
	}

	// Cdq sign-extends AX into DX:AX.
	Cdq struct{}

	AllocateStack struct {
		Size int64
	}

	Ret struct{}
)

const (
	AX Reg = iota
	DX
	R10
	R11
)

const (
	Neg UnaryOp = "neg"
	Not UnaryOp = "not"
)

const (
	Add BinaryOp = "add"
	Sub BinaryOp = "sub"
	Mul BinaryOp = "mul"
)

// WordSize is the size of the single machine word type in bytes.
const WordSize = 4

var regNames = [...]string{
	AX:  "AX",
	DX:  "DX",
	R10: "R10",
	R11: "R11",
}

// Operands returns instruction operands in source-then-destination order.
func Operands(x Instr) []Operand {
	switch x := x.(type) {
	case Mov:
		return []Operand{x.Src, x.Dst}
	case Unary:
		return []Operand{x.Dst}
	case Binary:
		return []Operand{x.Src, x.Dst}
	case Idiv:
		return []Operand{x.Src}
	case Cdq, AllocateStack, Ret:
		return nil
	default:
		defect.Panic("unsupported instruction: %T", x)
		return nil
	}
}

// MapOperands returns a copy of x with every operand replaced by f(operand).
// Operands are visited in the same order as Operands returns them.
func MapOperands(x Instr, f func(Operand) Operand) Instr {
	switch x := x.(type) {
	case Mov:
		x.Src = f(x.Src)
		x.Dst = f(x.Dst)

		return x
	case Unary:
		x.Dst = f(x.Dst)

		return x
	case Binary:
		x.Src = f(x.Src)
		x.Dst = f(x.Dst)

		return x
	case Idiv:
		x.Src = f(x.Src)

		return x
	case Cdq, AllocateStack, Ret:
		return x
	default:
		defect.Panic("unsupported instruction: %T", x)
		return nil
	}
}

func (r Reg) String() string {
	if r < 0 || int(r) >= len(regNames) {
		defect.Panic("bad register: %d", int(r))
	}

	return regNames[r]
}

func (r Reg) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendFormat(b, "%v", r.String())
}

func (s Stack) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendFormat(b, "stack%+d", int64(s))
}

func (p Pseudo) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendFormat(b, "pseudo(%s)", string(p))
}
