// Package defect reports broken internal invariants.
//
// A defect is never a user error: it means one compiler stage handed the next one
// something its contract rules out. Stages panic with *Error; the compiler entry point
// turns it into a returned error and aborts the compilation.
package defect

import (
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
)

type (
	Error struct {
		Msg string
		PC  loc.PC
	}
)

func Panic(format string, args ...any) {
	panic(&Error{
		Msg: fmt.Sprintf(format, args...),
		PC:  loc.Caller(1),
	})
}

// Catch is deferred by the caller. It converts *Error panics into *errp
// and lets everything else through.
func Catch(errp *error) {
	p := recover()
	if p == nil {
		return
	}

	e, ok := p.(*Error)
	if !ok {
		panic(p)
	}

	*errp = errors.Wrap(e, "internal defect")
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.PC, e.Msg)
}
