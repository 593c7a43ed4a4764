// Package format makes human-readable listings of every pipeline stage.
package format

import (
	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/minic/compiler/asm"
	"github.com/slowlang/minic/compiler/ast"
	"github.com/slowlang/minic/compiler/ir"
)

// AST prints p as C source.
func AST(b []byte, p *ast.Program) (_ []byte, err error) {
	b = app(b, 0, "int %v(void) {\n", p.Func.Name)

	switch s := p.Func.Body.(type) {
	case ast.Return:
		b = app(b, 1, "return ")

		b, err = formatExpr(b, s.Value, false)
		if err != nil {
			return nil, errors.Wrap(err, "return")
		}

		b = append(b, ";\n"...)
	default:
		return nil, errors.New("unsupported stmt: %T", s)
	}

	b = app(b, 0, "}\n")

	return b, nil
}

func formatExpr(b []byte, x ast.Expr, paren bool) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Const:
		b = hfmt.Appendf(b, "%d", uint64(x))
	case ast.Unary:
		b = append(b, string(x.Op)...)

		// --x would be a decrement
		_, nested := x.X.(ast.Unary)
		if nested {
			b = append(b, '(')
		}

		b, err = formatExpr(b, x.X, true)
		if err != nil {
			return nil, errors.Wrap(err, "%v x", x.Op)
		}

		if nested {
			b = append(b, ')')
		}
	case ast.Binary:
		if paren {
			b = append(b, '(')
		}

		b, err = formatExpr(b, x.L, true)
		if err != nil {
			return nil, errors.Wrap(err, "%v l", x.Op)
		}

		b = hfmt.Appendf(b, " %v ", x.Op)

		b, err = formatExpr(b, x.R, true)
		if err != nil {
			return nil, errors.Wrap(err, "%v r", x.Op)
		}

		if paren {
			b = append(b, ')')
		}
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return b, nil
}

// IR prints three-address code, one instruction per line.
func IR(b []byte, p ir.Program) (_ []byte, err error) {
	b = app(b, 0, "func %v:\n", p.Func.Name)

	for i, x := range p.Func.Code {
		switch x := x.(type) {
		case ir.Return:
			b = app(b, 1, "return %v\n", irValue(x.Value))
		case ir.Unary:
			b = app(b, 1, "%v = %v %v\n", x.Dst, x.Op, irValue(x.Src))
		case ir.Binary:
			b = app(b, 1, "%v = %v %v, %v\n", x.Dst, x.Op, irValue(x.L), irValue(x.R))
		default:
			return nil, errors.New("instr %d: unsupported: %T", i, x)
		}
	}

	return b, nil
}

func irValue(v ir.Value) any {
	switch v := v.(type) {
	case ir.Const:
		return uint64(v)
	case ir.Var:
		return string(v)
	default:
		return sprintf("?%T", v)
	}
}

// Asm prints instructions in an Intel-like operand order: destination first.
// Unlike the emitter it accepts pseudo registers.
func Asm(b []byte, p asm.Program) (_ []byte, err error) {
	b = app(b, 0, "%v:\n", p.Func.Name)

	for i, x := range p.Func.Code {
		switch x := x.(type) {
		case asm.Mov:
			b = app(b, 1, "mov %v, %v\n", asmOperand(x.Dst), asmOperand(x.Src))
		case asm.Unary:
			b = app(b, 1, "%v %v\n", x.Op, asmOperand(x.Dst))
		case asm.Binary:
			b = app(b, 1, "%v %v, %v\n", x.Op, asmOperand(x.Dst), asmOperand(x.Src))
		case asm.Idiv:
			b = app(b, 1, "idiv %v\n", asmOperand(x.Src))
		case asm.Cdq:
			b = app(b, 1, "cdq\n")
		case asm.AllocateStack:
			b = app(b, 1, "alloc %d\n", x.Size)
		case asm.Ret:
			b = app(b, 1, "ret\n")
		default:
			return nil, errors.New("instr %d: unsupported: %T", i, x)
		}
	}

	return b, nil
}

func asmOperand(o asm.Operand) string {
	switch o := o.(type) {
	case asm.Imm:
		return sprintf("%d", uint64(o))
	case asm.Reg:
		return o.String()
	case asm.Pseudo:
		return sprintf("%%%s", string(o))
	case asm.Stack:
		return sprintf("[fp%+d]", int64(o))
	default:
		return sprintf("?%T", o)
	}
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"
	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)
	return b
}

func sprintf(f string, args ...any) string {
	return string(hfmt.Appendf(nil, f, args...))
}
