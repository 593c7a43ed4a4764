package back

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/minic/compiler/asm"
)

type (
	// stackAlloc assigns pseudo registers to stack slots in first-use order.
	stackAlloc struct {
		slots map[asm.Pseudo]asm.Stack
		top   asm.Stack
	}
)

// AllocateStack replaces every Pseudo operand with a Stack slot
// and prepends the frame reservation.
func AllocateStack(ctx context.Context, p asm.Program) asm.Program {
	tr := tlog.SpanFromContext(ctx)

	a := &stackAlloc{
		slots: make(map[asm.Pseudo]asm.Stack),
	}

	code := make([]asm.Instr, 1, len(p.Func.Code)+1)

	for _, x := range p.Func.Code {
		code = append(code, asm.MapOperands(x, a.operand))
	}

	// frame size is known only after all the code is visited
	code[0] = asm.AllocateStack{Size: a.size()}

	tr.Printw("stack allocated", "func", p.Func.Name, "slots", len(a.slots), "size", a.size())

	return asm.Program{
		Func: asm.Func{
			Name: p.Func.Name,
			Code: code,
		},
	}
}

func (a *stackAlloc) operand(o asm.Operand) asm.Operand {
	p, ok := o.(asm.Pseudo)
	if !ok {
		return o
	}

	return a.slot(p)
}

func (a *stackAlloc) slot(p asm.Pseudo) asm.Stack {
	if s, ok := a.slots[p]; ok {
		return s
	}

	a.top -= asm.WordSize
	a.slots[p] = a.top

	return a.top
}

func (a *stackAlloc) size() int64 {
	return -int64(a.top)
}
