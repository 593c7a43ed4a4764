package front

import (
	"context"
	"fmt"

	"tlog.app/go/tlog"

	"github.com/slowlang/minic/compiler/ast"
	"github.com/slowlang/minic/compiler/defect"
	"github.com/slowlang/minic/compiler/ir"
)

type (
	// Builder lowers AST into three-address code.
	// Temporaries it makes are unique for the Builder lifetime,
	// so use a new one for each compilation.
	Builder struct {
		next int
	}

	funContext struct {
		*Builder

		code []ir.Instr
	}
)

func New() *Builder {
	return &Builder{}
}

func (b *Builder) Build(ctx context.Context, p *ast.Program) (res ir.Program) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "front: build ir", "func", p.Func.Name)
	defer tr.Finish()

	f := &funContext{Builder: b}

	f.stmt(p.Func.Body)

	res = ir.Program{
		Func: ir.Func{
			Name: p.Func.Name,
			Code: f.code,
		},
	}

	tr.Printw("built", "instrs", len(res.Func.Code), "temporaries", b.next)

	if tr.If("dump_ir") {
		for i, x := range res.Func.Code {
			tr.Printw("ir", "i", i, "typ", tlog.NextAsType, x, "val", x)
		}
	}

	return res
}

func (f *funContext) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case ast.Return:
		v := f.expr(s.Value)

		f.add(ir.Return{Value: v})
	default:
		defect.Panic("unsupported stmt: %T", s)
	}
}

// expr evaluates operands left to right before the operator itself.
// Temporary numbering depends on that order.
func (f *funContext) expr(e ast.Expr) ir.Value {
	switch e := e.(type) {
	case ast.Const:
		return ir.Const(e)
	case ast.Unary:
		src := f.expr(e.X)
		dst := f.tmp()

		f.add(ir.Unary{
			Op:  unaryOp(e.Op),
			Src: src,
			Dst: dst,
		})

		return dst
	case ast.Binary:
		l := f.expr(e.L)
		r := f.expr(e.R)
		dst := f.tmp()

		f.add(ir.Binary{
			Op:  binaryOp(e.Op),
			L:   l,
			R:   r,
			Dst: dst,
		})

		return dst
	default:
		defect.Panic("unsupported expr: %T", e)
		return nil
	}
}

func (f *funContext) add(x ir.Instr) {
	f.code = append(f.code, x)
}

// tmp names can't collide with user identifiers, those can't contain a dot.
func (b *Builder) tmp() ir.Var {
	v := ir.Var(fmt.Sprintf("tmp.%d", b.next))
	b.next++

	return v
}

func unaryOp(op ast.UnaryOp) ir.UnaryOp {
	switch op {
	case ast.Negate:
		return ir.Negate
	case ast.Complement:
		return ir.Complement
	default:
		defect.Panic("unsupported unary op: %q", op)
		return ""
	}
}

func binaryOp(op ast.BinaryOp) ir.BinaryOp {
	switch op {
	case ast.Add:
		return ir.Add
	case ast.Sub:
		return ir.Sub
	case ast.Mul:
		return ir.Mul
	case ast.Div:
		return ir.Div
	case ast.Rem:
		return ir.Rem
	default:
		defect.Panic("unsupported binary op: %q", op)
		return ""
	}
}
