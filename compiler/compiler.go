package compiler

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/minic/compiler/asm"
	"github.com/slowlang/minic/compiler/ast"
	"github.com/slowlang/minic/compiler/back"
	"github.com/slowlang/minic/compiler/defect"
	"github.com/slowlang/minic/compiler/emit"
	"github.com/slowlang/minic/compiler/front"
	"github.com/slowlang/minic/compiler/ir"
	"github.com/slowlang/minic/compiler/target"
	"github.com/slowlang/minic/compiler/verify"
)

type (
	Options struct {
		Target target.Target

		// Check verifies legalized code before emitting it.
		Check bool
	}

	// Stages keeps intermediate results of Lower.
	Stages struct {
		IR        ir.Program
		Selected  asm.Program
		Legalized asm.Program
	}
)

func CompileFile(ctx context.Context, name string, opts Options) (obj []byte, err error) {
	p, err := ast.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read ast")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "name", name, "func", p.Func.Name)

	return Compile(ctx, p, opts)
}

func Compile(ctx context.Context, p *ast.Program, opts Options) (obj []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "target", opts.Target.Name, "check", opts.Check)
	defer tr.Finish("err", &err)

	s, err := Lower(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "lower")
	}

	if opts.Check {
		err = verify.Program(s.Legalized)
		if err != nil {
			return nil, errors.Wrap(err, "legalized code")
		}
	}

	defer defect.Catch(&err)

	obj = emit.Program(ctx, nil, opts.Target, s.Legalized)

	return obj, nil
}

// Lower runs every stage before emission.
// A fresh IR builder is used so temporary names start from tmp.0.
func Lower(ctx context.Context, p *ast.Program) (s Stages, err error) {
	if p == nil || p.Func == nil {
		return s, errors.New("no function")
	}

	defer defect.Catch(&err)

	s.IR = front.New().Build(ctx, p)
	s.Selected = back.Select(ctx, s.IR)
	s.Legalized = back.Run(ctx, s.Selected, back.Passes...)

	return s, nil
}
