package main

import (
	"context"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/minic/compiler"
	"github.com/slowlang/minic/compiler/ast"
	"github.com/slowlang/minic/compiler/format"
	"github.com/slowlang/minic/compiler/target"
)

func main() {
	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile ast files to assembly",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "", "output file (stdout if empty)"),
		},
	}

	irCmd := &cli.Command{
		Name:        "ir",
		Description: "print three-address code",
		Action:      irAct,
		Args:        cli.Args{},
	}

	asmCmd := &cli.Command{
		Name:        "asm",
		Description: "print backend code before emission",
		Action:      asmAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("raw", false, "print selected code before legalization passes"),
		},
	}

	fmtCmd := &cli.Command{
		Name:        "fmt",
		Description: "print ast files as C source",
		Action:      fmtAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "minic",
		Description: "minic is a backend turning minimal C ast into x86-64 assembly",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("target", "", "target platform: linux or darwin (default $"+target.EnvVar+" or host)"),
			cli.NewFlag("check", false, "verify legalized code before emitting"),
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			compileCmd,
			irCmd,
			asmCmd,
			fmtCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func options(c *cli.Command) (opts compiler.Options, err error) {
	opts.Check = c.Bool("check")

	if name := c.String("target"); name != "" {
		opts.Target, err = target.ByName(name)
	} else {
		opts.Target, err = target.FromEnv()
	}
	if err != nil {
		return opts, errors.Wrap(err, "target")
	}

	return opts, nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts, err := options(c)
	if err != nil {
		return err
	}

	var out []byte

	for _, a := range c.Args {
		obj, err := compiler.CompileFile(ctx, a, opts)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		out = append(out, obj...)
	}

	return write(c.String("output"), out)
}

func irAct(c *cli.Command) (err error) {
	return eachStage(c, func(b []byte, s compiler.Stages) ([]byte, error) {
		return format.IR(b, s.IR)
	})
}

func asmAct(c *cli.Command) (err error) {
	raw := c.Bool("raw")

	return eachStage(c, func(b []byte, s compiler.Stages) ([]byte, error) {
		if raw {
			return format.Asm(b, s.Selected)
		}

		return format.Asm(b, s.Legalized)
	})
}

func fmtAct(c *cli.Command) (err error) {
	var out []byte

	for _, a := range c.Args {
		p, err := ast.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		out, err = format.AST(out, p)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}
	}

	return write("", out)
}

func eachStage(c *cli.Command, f func([]byte, compiler.Stages) ([]byte, error)) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	var out []byte

	for _, a := range c.Args {
		p, err := ast.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		s, err := compiler.Lower(ctx, p)
		if err != nil {
			return errors.Wrap(err, "lower %v", a)
		}

		out, err = f(out, s)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}
	}

	return write("", out)
}

func write(name string, data []byte) error {
	if name == "" || name == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	err := os.WriteFile(name, data, 0o644)
	if err != nil {
		return errors.Wrap(err, "write output")
	}

	return nil
}
