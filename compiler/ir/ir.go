package ir

type (
	Program struct {
		Func Func
	}

	Func struct {
		Name string
		Code []Instr
	}

	Instr any
	Value any

	Const uint64
	Var   string

	UnaryOp  string
	BinaryOp string

	Return struct {
		Value Value
	}

	Unary struct {
		Op  UnaryOp
		Src Value
		Dst Var
	}

	Binary struct {
		Op  BinaryOp
		L   Value
		R   Value
		Dst Var
	}
)

const (
	Negate     UnaryOp = "neg"
	Complement UnaryOp = "not"
)

const (
	Add BinaryOp = "add"
	Sub BinaryOp = "sub"
	Mul BinaryOp = "mul"
	Div BinaryOp = "div"
	Rem BinaryOp = "rem"
)
