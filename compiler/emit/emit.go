// Package emit renders legalized assembly as AT&T syntax text.
package emit

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/tlog"

	"github.com/slowlang/minic/compiler/asm"
	"github.com/slowlang/minic/compiler/defect"
	"github.com/slowlang/minic/compiler/target"
)

var regs = [...]string{
	asm.AX:  "%eax",
	asm.DX:  "%edx",
	asm.R10: "%r10d",
	asm.R11: "%r11d",
}

// Program appends p text to b.
// p must be fully legalized, the emitter makes no decisions of its own.
func Program(ctx context.Context, b []byte, t target.Target, p asm.Program) []byte {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "emit: program", "target", t.Name, "func", p.Func.Name)
	defer tr.Finish()

	st := len(b)

	b = function(b, t, p.Func)

	if t.NoteGNUStack {
		b = append(b, "\n\t.section\t.note.GNU-stack,\"\",@progbits\n"...)
	}

	tr.Printw("emitted", "size", len(b)-st)

	return b
}

func function(b []byte, t target.Target, f asm.Func) []byte {
	sym := t.Symbol(f.Name)

	b = hfmt.Appendf(b, "\t.globl\t%s\n%s:\n", sym, sym)
	b = append(b, "\tpushq\t%rbp\n\tmovq\t%rsp, %rbp\n"...)

	for _, x := range f.Code {
		b = instr(b, x)
	}

	return b
}

func instr(b []byte, x asm.Instr) []byte {
	switch x := x.(type) {
	case asm.Mov:
		return hfmt.Appendf(b, "\tmovl\t%s, %s\n", operand(x.Src), operand(x.Dst))
	case asm.Unary:
		return hfmt.Appendf(b, "\t%s\t%s\n", unaryOp(x.Op), operand(x.Dst))
	case asm.Binary:
		return hfmt.Appendf(b, "\t%s\t%s, %s\n", binaryOp(x.Op), operand(x.Src), operand(x.Dst))
	case asm.Idiv:
		return hfmt.Appendf(b, "\tidivl\t%s\n", operand(x.Src))
	case asm.Cdq:
		return append(b, "\tcdq\n"...)
	case asm.AllocateStack:
		return hfmt.Appendf(b, "\tsubq\t$%d, %%rsp\n", x.Size)
	case asm.Ret:
		return append(b, "\tmovq\t%rbp, %rsp\n\tpopq\t%rbp\n\tret\n"...)
	default:
		defect.Panic("unsupported instruction: %T", x)
		return nil
	}
}

func operand(o asm.Operand) string {
	switch o := o.(type) {
	case asm.Reg:
		if o < 0 || int(o) >= len(regs) {
			defect.Panic("bad register: %d", int(o))
		}

		return regs[o]
	case asm.Imm:
		return string(hfmt.Appendf(nil, "$%d", uint64(o)))
	case asm.Stack:
		return string(hfmt.Appendf(nil, "%d(%%rbp)", int64(o)))
	default:
		defect.Panic("operand can't be emitted: %T %[1]v", o)
		return ""
	}
}

func unaryOp(op asm.UnaryOp) string {
	switch op {
	case asm.Neg:
		return "negl"
	case asm.Not:
		return "notl"
	default:
		defect.Panic("unsupported unary op: %q", op)
		return ""
	}
}

func binaryOp(op asm.BinaryOp) string {
	switch op {
	case asm.Add:
		return "addl"
	case asm.Sub:
		return "subl"
	case asm.Mul:
		return "imull"
	default:
		defect.Panic("unsupported binary op: %q", op)
		return ""
	}
}
