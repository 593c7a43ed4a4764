package back

import (
	"context"

	"github.com/slowlang/minic/compiler/asm"
)

// LegalizeMov splits memory-to-memory moves through R10.
func LegalizeMov(ctx context.Context, p asm.Program) asm.Program {
	return rewrite(p, func(code []asm.Instr, x asm.Instr) []asm.Instr {
		mov, ok := x.(asm.Mov)
		if !ok || !isStack(mov.Src) || !isStack(mov.Dst) {
			return append(code, x)
		}

		return append(code,
			asm.Mov{Src: mov.Src, Dst: asm.R10},
			asm.Mov{Src: asm.R10, Dst: mov.Dst},
		)
	})
}

// LegalizeIdiv loads an immediate divisor into R10.
func LegalizeIdiv(ctx context.Context, p asm.Program) asm.Program {
	return rewrite(p, func(code []asm.Instr, x asm.Instr) []asm.Instr {
		div, ok := x.(asm.Idiv)
		if !ok {
			return append(code, x)
		}

		imm, ok := div.Src.(asm.Imm)
		if !ok {
			return append(code, x)
		}

		return append(code,
			asm.Mov{Src: imm, Dst: asm.R10},
			asm.Idiv{Src: asm.R10},
		)
	})
}

// LegalizeArith fixes memory-to-memory add and sub using R10
// and multiplication into memory using R11.
func LegalizeArith(ctx context.Context, p asm.Program) asm.Program {
	return rewrite(p, func(code []asm.Instr, x asm.Instr) []asm.Instr {
		bin, ok := x.(asm.Binary)
		if !ok {
			return append(code, x)
		}

		switch {
		case (bin.Op == asm.Add || bin.Op == asm.Sub) && isStack(bin.Src) && isStack(bin.Dst):
			return append(code,
				asm.Mov{Src: bin.Src, Dst: asm.R10},
				asm.Binary{Op: bin.Op, Src: asm.R10, Dst: bin.Dst},
			)
		case bin.Op == asm.Mul && isStack(bin.Dst):
			return append(code,
				asm.Mov{Src: bin.Dst, Dst: asm.R11},
				asm.Binary{Op: bin.Op, Src: bin.Src, Dst: asm.R11},
				asm.Mov{Src: asm.R11, Dst: bin.Dst},
			)
		default:
			return append(code, x)
		}
	})
}

// rewrite builds a new program, f appends replacement for x to code.
func rewrite(p asm.Program, f func(code []asm.Instr, x asm.Instr) []asm.Instr) asm.Program {
	code := make([]asm.Instr, 0, len(p.Func.Code))

	for _, x := range p.Func.Code {
		code = f(code, x)
	}

	return asm.Program{
		Func: asm.Func{
			Name: p.Func.Name,
			Code: code,
		},
	}
}

func isStack(o asm.Operand) bool {
	_, ok := o.(asm.Stack)
	return ok
}
