package ast

type (
	Program struct {
		Func *Func
	}

	Func struct {
		Name string
		Body Stmt
	}

	Stmt interface{}
	Expr interface{}

	Return struct {
		Value Expr
	}

	Const uint64

	Unary struct {
		Op UnaryOp
		X  Expr
	}

	Binary struct {
		Op BinaryOp
		L  Expr
		R  Expr
	}

	UnaryOp  string
	BinaryOp string
)

const (
	Negate     UnaryOp = "-"
	Complement UnaryOp = "~"
)

const (
	Add BinaryOp = "+"
	Sub BinaryOp = "-"
	Mul BinaryOp = "*"
	Div BinaryOp = "/"
	Rem BinaryOp = "%"
)
