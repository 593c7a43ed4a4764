package back

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/minic/compiler/asm"
	"github.com/slowlang/minic/compiler/ast"
	"github.com/slowlang/minic/compiler/front"
)

func TestSmoke(t *testing.T) {
	ctx := context.Background()

	// return 3 + 4 * 2
	p := &ast.Program{
		Func: &ast.Func{
			Name: "main",
			Body: ast.Return{Value: ast.Binary{
				Op: ast.Add,
				L:  ast.Const(3),
				R:  ast.Binary{Op: ast.Mul, L: ast.Const(4), R: ast.Const(2)},
			}},
		},
	}

	x := Run(ctx, Select(ctx, front.New().Build(ctx, p)), Passes...)

	assert.Equal(t, []asm.Instr{
		asm.AllocateStack{Size: 8},
		asm.Mov{Src: asm.Imm(4), Dst: asm.Stack(-4)},
		asm.Mov{Src: asm.Stack(-4), Dst: asm.R11},
		asm.Binary{Op: asm.Mul, Src: asm.Imm(2), Dst: asm.R11},
		asm.Mov{Src: asm.R11, Dst: asm.Stack(-4)},
		asm.Mov{Src: asm.Imm(3), Dst: asm.Stack(-8)},
		asm.Mov{Src: asm.Stack(-4), Dst: asm.R10},
		asm.Binary{Op: asm.Add, Src: asm.R10, Dst: asm.Stack(-8)},
		asm.Mov{Src: asm.Stack(-8), Dst: asm.AX},
		asm.Ret{},
	}, x.Func.Code)

	t.Logf("result: %v", x.Func.Code)
}

func TestPassesProperties(t *testing.T) {
	ctx := context.Background()
	rnd := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		p := &ast.Program{
			Func: &ast.Func{
				Name: "main",
				Body: ast.Return{Value: randExpr(rnd, 5)},
			},
		}

		sel := Select(ctx, front.New().Build(ctx, p))
		pseudos := map[asm.Pseudo]struct{}{}

		for _, x := range sel.Func.Code {
			for _, o := range asm.Operands(x) {
				if ps, ok := o.(asm.Pseudo); ok {
					pseudos[ps] = struct{}{}
				}
			}
		}

		x := Run(ctx, sel, Passes...)
		again := Run(ctx, Select(ctx, front.New().Build(ctx, p)), Passes...)

		require.Equal(t, x, again, "deterministic")

		require.NotEmpty(t, x.Func.Code)
		alloc, ok := x.Func.Code[0].(asm.AllocateStack)
		require.True(t, ok, "first instruction: %T", x.Func.Code[0])
		assert.GreaterOrEqual(t, alloc.Size, int64(asm.WordSize*len(pseudos)))

		for j, in := range x.Func.Code[1:] {
			ops := asm.Operands(in)

			for _, o := range ops {
				_, pseudo := o.(asm.Pseudo)
				assert.False(t, pseudo, "instr %d: %#v", j, in)

				if s, ok := o.(asm.Stack); ok {
					assert.True(t, int64(s) <= -asm.WordSize && int64(s) >= -alloc.Size, "instr %d: offset %d", j, s)
				}
			}

			switch in := in.(type) {
			case asm.Mov:
				assert.False(t, isStack(in.Src) && isStack(in.Dst), "mov mem, mem: %#v", in)
			case asm.Binary:
				if in.Op == asm.Mul {
					assert.False(t, isStack(in.Dst), "mul into mem: %#v", in)
				} else {
					assert.False(t, isStack(in.Src) && isStack(in.Dst), "%v mem, mem: %#v", in.Op, in)
				}
			case asm.Idiv:
				_, imm := in.Src.(asm.Imm)
				assert.False(t, imm, "idiv imm")
			case asm.AllocateStack:
				t.Errorf("second AllocateStack at %d", j+1)
			}
		}
	}
}

func TestDistinctSlots(t *testing.T) {
	ctx := context.Background()

	// -(~(-(1)))
	x := Run(ctx, asmProg(
		asm.Mov{Src: asm.Imm(1), Dst: asm.Pseudo("tmp.0")},
		asm.Unary{Op: asm.Neg, Dst: asm.Pseudo("tmp.0")},
		asm.Mov{Src: asm.Pseudo("tmp.0"), Dst: asm.Pseudo("tmp.1")},
		asm.Unary{Op: asm.Not, Dst: asm.Pseudo("tmp.1")},
		asm.Mov{Src: asm.Pseudo("tmp.1"), Dst: asm.Pseudo("tmp.2")},
		asm.Unary{Op: asm.Neg, Dst: asm.Pseudo("tmp.2")},
		asm.Mov{Src: asm.Pseudo("tmp.2"), Dst: asm.AX},
		asm.Ret{},
	), Passes...)

	assert.Equal(t, []asm.Instr{
		asm.AllocateStack{Size: 12},
		asm.Mov{Src: asm.Imm(1), Dst: asm.Stack(-4)},
		asm.Unary{Op: asm.Neg, Dst: asm.Stack(-4)},
		asm.Mov{Src: asm.Stack(-4), Dst: asm.R10},
		asm.Mov{Src: asm.R10, Dst: asm.Stack(-8)},
		asm.Unary{Op: asm.Not, Dst: asm.Stack(-8)},
		asm.Mov{Src: asm.Stack(-8), Dst: asm.R10},
		asm.Mov{Src: asm.R10, Dst: asm.Stack(-12)},
		asm.Unary{Op: asm.Neg, Dst: asm.Stack(-12)},
		asm.Mov{Src: asm.Stack(-12), Dst: asm.AX},
		asm.Ret{},
	}, x.Func.Code)
}

func randExpr(rnd *rand.Rand, depth int) ast.Expr {
	if depth == 0 || rnd.Intn(4) == 0 {
		return ast.Const(rnd.Intn(100) + 1)
	}

	switch rnd.Intn(3) {
	case 0:
		ops := []ast.UnaryOp{ast.Negate, ast.Complement}

		return ast.Unary{Op: ops[rnd.Intn(len(ops))], X: randExpr(rnd, depth-1)}
	default:
		ops := []ast.BinaryOp{ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Rem}

		return ast.Binary{
			Op: ops[rnd.Intn(len(ops))],
			L:  randExpr(rnd, depth-1),
			R:  randExpr(rnd, depth-1),
		}
	}
}
