package back

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/minic/compiler/asm"
)

type (
	Pass struct {
		Name string
		Run  func(context.Context, asm.Program) asm.Program
	}
)

// Passes turn selected code into code the ISA can encode.
// Order matters: later passes expect earlier ones' patterns to be gone.
var Passes = []Pass{
	{Name: "stack", Run: AllocateStack},
	{Name: "mov", Run: LegalizeMov},
	{Name: "idiv", Run: LegalizeIdiv},
	{Name: "arith", Run: LegalizeArith},
}

// Run applies passes to p left to right.
func Run(ctx context.Context, p asm.Program, passes ...Pass) asm.Program {
	for _, ps := range passes {
		p = runPass(ctx, p, ps)
	}

	return p
}

func runPass(ctx context.Context, p asm.Program, ps Pass) (res asm.Program) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "back: pass", "pass", ps.Name, "func", p.Func.Name, "in", len(p.Func.Code))
	defer tr.Finish()

	res = ps.Run(ctx, p)

	dump(tr, "dump_"+ps.Name, res)

	return res
}
