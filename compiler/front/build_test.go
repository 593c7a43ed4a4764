package front

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/minic/compiler/ast"
	"github.com/slowlang/minic/compiler/defect"
	"github.com/slowlang/minic/compiler/ir"
)

func prog(x ast.Expr) *ast.Program {
	return &ast.Program{
		Func: &ast.Func{
			Name: "main",
			Body: ast.Return{Value: x},
		},
	}
}

func TestBuildConst(t *testing.T) {
	p := New().Build(context.Background(), prog(ast.Const(2)))

	assert.Equal(t, ir.Program{
		Func: ir.Func{
			Name: "main",
			Code: []ir.Instr{
				ir.Return{Value: ir.Const(2)},
			},
		},
	}, p)
}

func TestBuildNegate(t *testing.T) {
	p := New().Build(context.Background(), prog(ast.Unary{Op: ast.Negate, X: ast.Const(5)}))

	assert.Equal(t, []ir.Instr{
		ir.Unary{Op: ir.Negate, Src: ir.Const(5), Dst: "tmp.0"},
		ir.Return{Value: ir.Var("tmp.0")},
	}, p.Func.Code)
}

func TestBuildNestedUnary(t *testing.T) {
	p := New().Build(context.Background(), prog(
		ast.Unary{Op: ast.Complement, X: ast.Unary{Op: ast.Negate, X: ast.Const(2)}},
	))

	assert.Equal(t, []ir.Instr{
		ir.Unary{Op: ir.Negate, Src: ir.Const(2), Dst: "tmp.0"},
		ir.Unary{Op: ir.Complement, Src: ir.Var("tmp.0"), Dst: "tmp.1"},
		ir.Return{Value: ir.Var("tmp.1")},
	}, p.Func.Code)
}

func TestBuildLeftToRight(t *testing.T) {
	// (-1 / -2) % (~3 * 4)
	x := ast.Binary{
		Op: ast.Rem,
		L: ast.Binary{
			Op: ast.Div,
			L:  ast.Unary{Op: ast.Negate, X: ast.Const(1)},
			R:  ast.Unary{Op: ast.Negate, X: ast.Const(2)},
		},
		R: ast.Binary{
			Op: ast.Mul,
			L:  ast.Unary{Op: ast.Complement, X: ast.Const(3)},
			R:  ast.Const(4),
		},
	}

	p := New().Build(context.Background(), prog(x))

	assert.Equal(t, []ir.Instr{
		ir.Unary{Op: ir.Negate, Src: ir.Const(1), Dst: "tmp.0"},
		ir.Unary{Op: ir.Negate, Src: ir.Const(2), Dst: "tmp.1"},
		ir.Binary{Op: ir.Div, L: ir.Var("tmp.0"), R: ir.Var("tmp.1"), Dst: "tmp.2"},
		ir.Unary{Op: ir.Complement, Src: ir.Const(3), Dst: "tmp.3"},
		ir.Binary{Op: ir.Mul, L: ir.Var("tmp.3"), R: ir.Const(4), Dst: "tmp.4"},
		ir.Binary{Op: ir.Rem, L: ir.Var("tmp.2"), R: ir.Var("tmp.4"), Dst: "tmp.5"},
		ir.Return{Value: ir.Var("tmp.5")},
	}, p.Func.Code)
}

func TestBuildOps(t *testing.T) {
	for _, tc := range []struct {
		op  ast.BinaryOp
		exp ir.BinaryOp
	}{
		{ast.Add, ir.Add},
		{ast.Sub, ir.Sub},
		{ast.Mul, ir.Mul},
		{ast.Div, ir.Div},
		{ast.Rem, ir.Rem},
	} {
		p := New().Build(context.Background(), prog(ast.Binary{Op: tc.op, L: ast.Const(7), R: ast.Const(2)}))

		require.Len(t, p.Func.Code, 2)
		assert.Equal(t, ir.Binary{Op: tc.exp, L: ir.Const(7), R: ir.Const(2), Dst: "tmp.0"}, p.Func.Code[0], "op %v", tc.op)
	}
}

func TestBuilderNeverReusesNames(t *testing.T) {
	b := New()
	ctx := context.Background()

	x := ast.Unary{Op: ast.Negate, X: ast.Const(1)}

	p0 := b.Build(ctx, prog(x))
	p1 := b.Build(ctx, prog(x))

	assert.Equal(t, ir.Var("tmp.0"), p0.Func.Code[0].(ir.Unary).Dst)
	assert.Equal(t, ir.Var("tmp.1"), p1.Func.Code[0].(ir.Unary).Dst)
}

func TestBuildUnknownNode(t *testing.T) {
	run := func() (err error) {
		defer defect.Catch(&err)

		New().Build(context.Background(), prog("not an expr"))

		return nil
	}

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported expr: string")
}
