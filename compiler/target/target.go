// Package target describes platform assembler conventions.
package target

import (
	"strings"

	"github.com/xyproto/env/v2"
	"tlog.app/go/errors"
)

type (
	Target struct {
		Name string

		// SymbolPrefix is prepended to C symbol names.
		SymbolPrefix string

		// NoteGNUStack marks the stack non-executable on ELF.
		NoteGNUStack bool
	}
)

// EnvVar overrides the host target.
const EnvVar = "MINIC_TARGET"

var (
	Linux = Target{
		Name:         "linux",
		NoteGNUStack: true,
	}

	Darwin = Target{
		Name:         "darwin",
		SymbolPrefix: "_",
	}
)

var targets = []Target{Linux, Darwin}

func ByName(name string) (Target, error) {
	name = strings.ToLower(name)

	switch name {
	case "macos", "macosx":
		name = Darwin.Name
	}

	for _, t := range targets {
		if t.Name == name {
			return t, nil
		}
	}

	return Target{}, errors.New("unsupported target: %q", name)
}

// FromEnv returns the target named by EnvVar or the host one.
func FromEnv() (Target, error) {
	t, err := Lookup(env.Str(EnvVar))
	if err != nil {
		return Target{}, errors.Wrap(err, "%v", EnvVar)
	}

	return t, nil
}

// Lookup is ByName except an empty name means Host.
func Lookup(name string) (Target, error) {
	if name == "" {
		return Host(), nil
	}

	return ByName(name)
}

// Host returns the target matching the running kernel.
// Anything but darwin gets Linux conventions.
func Host() Target {
	if strings.EqualFold(hostOS(), "darwin") {
		return Darwin
	}

	return Linux
}

func (t Target) Symbol(name string) string {
	return t.SymbolPrefix + name
}
