package back

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/minic/compiler/asm"
	"github.com/slowlang/minic/compiler/defect"
	"github.com/slowlang/minic/compiler/ir"
)

// Select lowers IR into assembly operating on pseudo registers.
// Instructions are translated one by one in order.
func Select(ctx context.Context, p ir.Program) asm.Program {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "back: select", "func", p.Func.Name, "ir", len(p.Func.Code))
	defer tr.Finish()

	var code []asm.Instr

	for _, x := range p.Func.Code {
		code = selectInstr(code, x)
	}

	res := asm.Program{
		Func: asm.Func{
			Name: p.Func.Name,
			Code: code,
		},
	}

	dump(tr, "dump_select", res)

	return res
}

func selectInstr(code []asm.Instr, x ir.Instr) []asm.Instr {
	switch x := x.(type) {
	case ir.Return:
		return append(code,
			asm.Mov{Src: operand(x.Value), Dst: asm.AX},
			asm.Ret{},
		)
	case ir.Unary:
		dst := operand(x.Dst)

		// unary instructions work in place
		return append(code,
			asm.Mov{Src: operand(x.Src), Dst: dst},
			asm.Unary{Op: unaryOp(x.Op), Dst: dst},
		)
	case ir.Binary:
		dst := operand(x.Dst)

		switch x.Op {
		case ir.Add, ir.Sub, ir.Mul:
			return append(code,
				asm.Mov{Src: operand(x.L), Dst: dst},
				asm.Binary{Op: binaryOp(x.Op), Src: operand(x.R), Dst: dst},
			)
		case ir.Div, ir.Rem:
			res := asm.AX
			if x.Op == ir.Rem {
				res = asm.DX
			}

			return append(code,
				asm.Mov{Src: operand(x.L), Dst: asm.AX},
				asm.Cdq{},
				asm.Idiv{Src: operand(x.R)},
				asm.Mov{Src: res, Dst: dst},
			)
		default:
			defect.Panic("unsupported binary op: %q", x.Op)
		}
	default:
		defect.Panic("unsupported ir instruction: %T", x)
	}

	return nil
}

func operand(v ir.Value) asm.Operand {
	switch v := v.(type) {
	case ir.Const:
		return asm.Imm(v)
	case ir.Var:
		return asm.Pseudo(v)
	default:
		defect.Panic("unsupported ir value: %T", v)
		return nil
	}
}

func unaryOp(op ir.UnaryOp) asm.UnaryOp {
	switch op {
	case ir.Negate:
		return asm.Neg
	case ir.Complement:
		return asm.Not
	default:
		defect.Panic("unsupported unary op: %q", op)
		return ""
	}
}

func binaryOp(op ir.BinaryOp) asm.BinaryOp {
	switch op {
	case ir.Add:
		return asm.Add
	case ir.Sub:
		return asm.Sub
	case ir.Mul:
		return asm.Mul
	default:
		// Div and Rem are lowered to Idiv by selectInstr
		defect.Panic("unsupported binary op: %q", op)
		return ""
	}
}

func dump(tr tlog.Span, topic string, p asm.Program) {
	if !tr.If(topic) {
		return
	}

	for i, x := range p.Func.Code {
		tr.Printw("asm", "i", i, "typ", tlog.NextAsType, x, "val", x)
	}
}
