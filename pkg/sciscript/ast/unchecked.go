package ast

// BinOp identifies an infix operator recognized by the parser. The checker
// resolves its meaning (and, for Sequencial nodes, whether one even applies)
// during type checking.
type BinOp int

// The operator set the parser can produce, in precedence order low to high:
// Range; Equals/NotEquals; Add/Subtract; Multiply/Divide/Modulo; Power.
const (
	OpRange BinOp = iota
	OpEquals
	OpNotEquals
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpPower
)

func (op BinOp) String() string {
	switch op {
	case OpRange:
		return ".."
	case OpEquals:
		return "=="
	case OpNotEquals:
		return "!="
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulo:
		return "%"
	case OpPower:
		return "**"
	}
	return "?"
}

// AssignModifier distinguishes `let` from `const` in a new-assignment line.
type AssignModifier int

// The two new-assignment modifiers.
const (
	ModLet AssignModifier = iota
	ModConst
)

// StructFieldKind distinguishes a struct property from a struct method.
type StructFieldKind int

// The two struct field kinds.
const (
	FieldProperty StructFieldKind = iota
	FieldMethod
)

// TypeAnnotationUnchecked is a name optionally followed by generic-expression
// arguments, e.g. `num`, `list[num]`, `mat[3,3,m]`.
type TypeAnnotationUnchecked struct {
	Name     string
	Generics []ExprUnchecked
}

// ReAssignmentExtensionUnchecked is one `.field` or `[expr]` suffix on the
// left-hand side of a reassignment.
type ReAssignmentExtensionUnchecked interface {
	isReAssignmentExtensionUnchecked()
}

// PropGetUnchecked is the `.field` reassignment extension.
type PropGetUnchecked struct{ Name string }

func (PropGetUnchecked) isReAssignmentExtensionUnchecked() {}

// IndexUnchecked is the `[expr]` reassignment extension.
type IndexUnchecked struct{ Index ExprUnchecked }

func (IndexUnchecked) isReAssignmentExtensionUnchecked() {}

// LineUnchecked is one statement produced by the parser, before name
// resolution or type checking.
type LineUnchecked interface {
	isLineUnchecked()
}

// ExprLineUnchecked is a bare expression statement.
type ExprLineUnchecked struct{ Expr ExprUnchecked }

func (ExprLineUnchecked) isLineUnchecked() {}

// NewAssignmentLineUnchecked is `let`/`const` NAME (`:` TYPE)? `=` EXPR.
type NewAssignmentLineUnchecked struct {
	Name       string
	Annotation *TypeAnnotationUnchecked
	Value      ExprUnchecked
	Modifier   AssignModifier
}

func (NewAssignmentLineUnchecked) isLineUnchecked() {}

// ReAssignmentLineUnchecked is NAME (`.`FIELD | `[`EXPR`]`)* `=` EXPR.
type ReAssignmentLineUnchecked struct {
	Name       string
	Extensions []ReAssignmentExtensionUnchecked
	Value      ExprUnchecked
}

func (ReAssignmentLineUnchecked) isLineUnchecked() {}

// UnitDefLineUnchecked is `unitdef NAME`.
type UnitDefLineUnchecked struct{ Name string }

func (UnitDefLineUnchecked) isLineUnchecked() {}

// SymsDefLineUnchecked is `syms NAME`.
type SymsDefLineUnchecked struct{ Name string }

func (SymsDefLineUnchecked) isLineUnchecked() {}

// ExprUnchecked is an expression node produced by the parser, before type
// checking.
type ExprUnchecked interface {
	isExprUnchecked()
}

// NumberUnchecked is a numeric literal.
type NumberUnchecked struct{ Value NumberConstant }

func (NumberUnchecked) isExprUnchecked() {}

// BooleanUnchecked is `true`/`false`.
type BooleanUnchecked struct{ Value bool }

func (BooleanUnchecked) isExprUnchecked() {}

// NullUnchecked is `null`.
type NullUnchecked struct{}

func (NullUnchecked) isExprUnchecked() {}

// VariableUnchecked is a bare identifier reference.
type VariableUnchecked struct{ Name string }

func (VariableUnchecked) isExprUnchecked() {}

// UnaryMinusUnchecked is prefix `-`.
type UnaryMinusUnchecked struct{ Operand ExprUnchecked }

func (UnaryMinusUnchecked) isExprUnchecked() {}

// BinOpUnchecked is an infix operator application.
type BinOpUnchecked struct {
	Lhs ExprUnchecked
	Op  BinOp
	Rhs ExprUnchecked
}

func (BinOpUnchecked) isExprUnchecked() {}

// SequencialUnchecked is the parser-level neutral node for two juxtaposed
// primaries with no infix operator between them; the checker disambiguates
// it into multiplication or function application.
type SequencialUnchecked struct{ Lhs, Rhs ExprUnchecked }

func (SequencialUnchecked) isExprUnchecked() {}

// BlockUnchecked is `{ lines }`.
type BlockUnchecked struct{ Lines []LineUnchecked }

func (BlockUnchecked) isExprUnchecked() {}

// IfUnchecked is `if (c1) b1 else if (c2) b2 ... else bn`. Conditions and
// Blocks are parallel slices; Else is nil when no trailing `else` exists.
type IfUnchecked struct {
	Conditions []ExprUnchecked
	Blocks     [][]LineUnchecked
	Else       []LineUnchecked
}

func (IfUnchecked) isExprUnchecked() {}

// ForUnchecked is `for (name in range) body`.
type ForUnchecked struct {
	Name  string
	Range ExprUnchecked
	Body  []LineUnchecked
}

func (ForUnchecked) isExprUnchecked() {}

// LambdaParamUnchecked is one parameter of a lambda literal.
type LambdaParamUnchecked struct {
	Name       string
	Annotation TypeAnnotationUnchecked
	Default    ExprUnchecked // nil when absent
}

// LambdaUnchecked is `(params) -> TYPE? expr`.
type LambdaUnchecked struct {
	Params     []LambdaParamUnchecked
	Body       ExprUnchecked
	ReturnType *TypeAnnotationUnchecked
}

func (LambdaUnchecked) isExprUnchecked() {}

// ListUnchecked is `[e, ...]`.
type ListUnchecked struct{ Items []ExprUnchecked }

func (ListUnchecked) isExprUnchecked() {}

// MapEntryUnchecked is one `k: v` pair of a map literal.
type MapEntryUnchecked struct{ Key, Value ExprUnchecked }

// MapUnchecked is `{k: v, ...}`.
type MapUnchecked struct{ Entries []MapEntryUnchecked }

func (MapUnchecked) isExprUnchecked() {}

// MatrixUnchecked is `[[...]; [...]]`.
type MatrixUnchecked struct{ Rows [][]ExprUnchecked }

func (MatrixUnchecked) isExprUnchecked() {}

// IndexExprUnchecked is `e[i]`. (named with an "Expr" infix to avoid
// colliding with the reassignment-extension IndexUnchecked above)
type IndexExprUnchecked struct{ Target, Index ExprUnchecked }

func (IndexExprUnchecked) isExprUnchecked() {}

// GetPropertyUnchecked is `e.field`.
type GetPropertyUnchecked struct {
	Target ExprUnchecked
	Field  string
}

func (GetPropertyUnchecked) isExprUnchecked() {}

// CallArgUnchecked is one argument of a function call: either positional
// (Name == "") or named.
type CallArgUnchecked struct {
	Name  string
	Value ExprUnchecked
}

// FunctionCallUnchecked is `e(args)`.
type FunctionCallUnchecked struct {
	Callee ExprUnchecked
	Args   []CallArgUnchecked
}

func (FunctionCallUnchecked) isExprUnchecked() {}

// StructFieldUnchecked is one property or method of a struct literal.
type StructFieldUnchecked struct {
	Name       string
	Annotation *TypeAnnotationUnchecked
	Default    ExprUnchecked // nil when absent; required for methods
	Kind       StructFieldKind
}

// StructUnchecked is `struct { p: T = expr; f(a: T) -> T { ... } }`.
type StructUnchecked struct{ Fields []StructFieldUnchecked }

func (StructUnchecked) isExprUnchecked() {}
