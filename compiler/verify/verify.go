// Package verify checks a legalized program against the operand rules
// the emitter relies on.
package verify

import (
	"fmt"
	"math"
	"strings"

	"tlog.app/go/errors"

	"github.com/slowlang/minic/compiler/asm"
)

type (
	// Violation is a single broken rule.
	Violation struct {
		Index int
		Instr asm.Instr
		Msg   string
	}

	// Error lists all the violations found in a function.
	Error struct {
		Func       string
		Violations []Violation
	}

	checker struct {
		frame int64
		vs    []Violation
	}
)

// Program returns *Error if p breaks any rule.
func Program(p asm.Program) error {
	c := &checker{}

	c.function(p.Func)

	if len(c.vs) == 0 {
		return nil
	}

	return errors.Wrap(&Error{Func: p.Func.Name, Violations: c.vs}, "verify")
}

func (c *checker) function(f asm.Func) {
	if len(f.Code) == 0 {
		c.add(-1, nil, "empty function")
		return
	}

	if a, ok := f.Code[0].(asm.AllocateStack); ok {
		c.frame = a.Size

		if a.Size < 0 || a.Size%asm.WordSize != 0 {
			c.add(0, a, "bad frame size")
		}
	} else {
		c.add(0, f.Code[0], "first instruction is not AllocateStack")
	}

	for i, x := range f.Code {
		c.instr(i, x)
	}
}

func (c *checker) instr(i int, x asm.Instr) {
	switch x.(type) {
	case asm.Mov, asm.Unary, asm.Binary, asm.Idiv, asm.Cdq, asm.AllocateStack, asm.Ret:
	default:
		c.add(i, x, "unsupported instruction %T", x)
		return
	}

	for _, o := range asm.Operands(x) {
		c.operand(i, x, o)
	}

	switch x := x.(type) {
	case asm.Mov:
		c.dst(i, x, x.Dst)

		if isStack(x.Src) && isStack(x.Dst) {
			c.add(i, x, "mov memory to memory")
		}
	case asm.Unary:
		c.dst(i, x, x.Dst)
	case asm.Binary:
		c.dst(i, x, x.Dst)

		switch {
		case x.Op == asm.Mul && isStack(x.Dst):
			c.add(i, x, "mul into memory")
		case x.Op != asm.Mul && isStack(x.Src) && isStack(x.Dst):
			c.add(i, x, "%v memory to memory", x.Op)
		}
	case asm.Idiv:
		if _, ok := x.Src.(asm.Imm); ok {
			c.add(i, x, "idiv by immediate")
		}
	case asm.AllocateStack:
		if i != 0 {
			c.add(i, x, "AllocateStack not at function start")
		}
	}
}

func (c *checker) operand(i int, x asm.Instr, o asm.Operand) {
	switch o := o.(type) {
	case asm.Pseudo:
		c.add(i, x, "pseudo register %q left", string(o))
	case asm.Stack:
		if o > -asm.WordSize || int64(o) < -c.frame || o%asm.WordSize != 0 {
			c.add(i, x, "stack offset %d out of frame %d", int64(o), c.frame)
		}
	case asm.Reg:
		if o < asm.AX || o > asm.R11 {
			c.add(i, x, "bad register %d", int(o))
		}
	case asm.Imm:
		if o > math.MaxUint32 {
			c.add(i, x, "immediate %d doesn't fit 32 bits", uint64(o))
		}
	default:
		c.add(i, x, "unsupported operand %T", o)
	}
}

func (c *checker) dst(i int, x asm.Instr, o asm.Operand) {
	if _, ok := o.(asm.Imm); ok {
		c.add(i, x, "immediate destination")
	}
}

func (c *checker) add(i int, x asm.Instr, format string, args ...any) {
	c.vs = append(c.vs, Violation{
		Index: i,
		Instr: x,
		Msg:   fmt.Sprintf(format, args...),
	})
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("func ")
	b.WriteString(e.Func)
	b.WriteString(":")

	for i, v := range e.Violations {
		if i != 0 {
			b.WriteString(";")
		}

		b.WriteString(" ")
		fmt.Fprintf(&b, "instr %d: %s", v.Index, v.Msg)
	}

	return b.String()
}

func isStack(o asm.Operand) bool {
	_, ok := o.(asm.Stack)
	return ok
}
