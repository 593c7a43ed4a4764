package ast

import (
	"bytes"
	"math"
	"os"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
)

type (
	yamlProgram struct {
		Func *yamlFunc `yaml:"func"`
	}

	yamlFunc struct {
		Name string   `yaml:"name"`
		Body yamlStmt `yaml:"body"`
	}

	yamlStmt struct {
		Return *yamlExpr `yaml:"return"`
	}

	yamlExpr struct {
		Const  *uint64     `yaml:"const"`
		Unary  *yamlUnary  `yaml:"unary"`
		Binary *yamlBinary `yaml:"binary"`
	}

	yamlUnary struct {
		Op string    `yaml:"op"`
		X  *yamlExpr `yaml:"x"`
	}

	yamlBinary struct {
		Op string    `yaml:"op"`
		L  *yamlExpr `yaml:"l"`
		R  *yamlExpr `yaml:"r"`
	}
)

var (
	unaryOps = map[string]UnaryOp{
		"negate":     Negate,
		"complement": Complement,
		"-":          Negate,
		"~":          Complement,
	}

	binaryOps = map[string]BinaryOp{
		"add": Add,
		"sub": Sub,
		"mul": Mul,
		"div": Div,
		"rem": Rem,
		"+":   Add,
		"-":   Sub,
		"*":   Mul,
		"/":   Div,
		"%":   Rem,
	}
)

func ReadFile(name string) (*Program, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Decode(data)
}

// Decode reads a program from its YAML form.
func Decode(data []byte) (_ *Program, err error) {
	var y yamlProgram

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err = dec.Decode(&y)
	if err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}

	if y.Func == nil {
		return nil, errors.New("no func")
	}

	err = checkName(y.Func.Name)
	if err != nil {
		return nil, errors.Wrap(err, "func name")
	}

	if y.Func.Body.Return == nil {
		return nil, errors.New("func %v: body: no return statement", y.Func.Name)
	}

	x, err := y.Func.Body.Return.expr()
	if err != nil {
		return nil, errors.Wrap(err, "func %v: return", y.Func.Name)
	}

	return &Program{
		Func: &Func{
			Name: y.Func.Name,
			Body: Return{Value: x},
		},
	}, nil
}

// UnmarshalYAML accepts a bare integer as a shorthand for {const: N}.
func (x *yamlExpr) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var c uint64

		err := n.Decode(&c)
		if err != nil {
			return err
		}

		*x = yamlExpr{Const: &c}

		return nil
	}

	type plain yamlExpr

	return n.Decode((*plain)(x))
}

func (x *yamlExpr) expr() (Expr, error) {
	if x == nil {
		return nil, errors.New("missing expression")
	}

	kinds := 0

	for _, set := range []bool{x.Const != nil, x.Unary != nil, x.Binary != nil} {
		if set {
			kinds++
		}
	}

	if kinds != 1 {
		return nil, errors.New("expression must have exactly one of const, unary, binary; got %d", kinds)
	}

	switch {
	case x.Const != nil:
		if *x.Const > math.MaxUint32 {
			return nil, errors.New("constant %d doesn't fit 32 bits", *x.Const)
		}

		return Const(*x.Const), nil
	case x.Unary != nil:
		op, ok := unaryOps[x.Unary.Op]
		if !ok {
			return nil, errors.New("unknown unary op: %q", x.Unary.Op)
		}

		sub, err := x.Unary.X.expr()
		if err != nil {
			return nil, errors.Wrap(err, "%v x", op)
		}

		return Unary{Op: op, X: sub}, nil
	default:
		op, ok := binaryOps[x.Binary.Op]
		if !ok {
			return nil, errors.New("unknown binary op: %q", x.Binary.Op)
		}

		l, err := x.Binary.L.expr()
		if err != nil {
			return nil, errors.Wrap(err, "%v l", op)
		}

		r, err := x.Binary.R.expr()
		if err != nil {
			return nil, errors.Wrap(err, "%v r", op)
		}

		return Binary{Op: op, L: l, R: r}, nil
	}
}

// checkName allows C identifiers only. In particular a dot is rejected,
// since the backend uses dotted names for its temporaries.
func checkName(name string) error {
	if name == "" {
		return errors.New("empty")
	}

	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i != 0:
		default:
			return errors.New("invalid identifier %q: char %q at %d", name, c, i)
		}
	}

	return nil
}
