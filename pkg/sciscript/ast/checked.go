package ast

// Line is one statement of the checked AST, produced by the checker and
// consumed once by codegen.
type Line interface {
	isLine()
}

// ExprLine is a bare expression statement.
type ExprLine struct{ Expr Expr }

func (ExprLine) isLine() {}

// NewAssignmentLine binds stable_id to the value of Expr.
type NewAssignmentLine struct {
	ID       string
	Expr     Expr
	Modifier AssignModifier
}

func (NewAssignmentLine) isLine() {}

// ReAssignmentExtension is one `.field` or `[expr]` suffix of a checked
// reassignment's left-hand side.
type ReAssignmentExtension interface {
	isReAssignmentExtension()
}

// PropertyExtension is the `.field` reassignment extension.
type PropertyExtension struct{ Name string }

func (PropertyExtension) isReAssignmentExtension() {}

// IndexExtension is the `[expr]` reassignment extension.
type IndexExtension struct{ Index Expr }

func (IndexExtension) isReAssignmentExtension() {}

// ReAssignmentLine rebinds a chain of `.field`/`[index]` extensions off an
// already-declared stable_id.
type ReAssignmentLine struct {
	ID         string
	Extensions []ReAssignmentExtension
	Expr       Expr
}

func (ReAssignmentLine) isLine() {}

// Expr is an expression node of the checked AST: fully resolved, typed, and
// annotated with the information codegen needs (capture sets, resolved
// function-call argument order, etc).
type Expr interface {
	isExpr()
}

// Number is a numeric literal.
type Number struct{ Value NumberConstant }

func (Number) isExpr() {}

// Boolean is `true`/`false`.
type Boolean struct{ Value bool }

func (Boolean) isExpr() {}

// Null is `null`.
type Null struct{}

func (Null) isExpr() {}

// NewSymbol is the checked form of a `syms` declaration's initializer: it
// constructs a fresh symbolic value tagged with its source name.
type NewSymbol struct{ Name string }

func (NewSymbol) isExpr() {}

// Variable is a resolved reference to a stable_id.
type Variable struct{ ID string }

func (Variable) isExpr() {}

// UnaryMinus is prefix `-`.
type UnaryMinus struct{ Operand Expr }

func (UnaryMinus) isExpr() {}

// BinOpExpr is a resolved infix operator application.
type BinOpExpr struct {
	Lhs Expr
	Op  BinOp
	Rhs Expr
}

func (BinOpExpr) isExpr() {}

// Block is `{ lines }`; its type and value are those of the last line.
type Block struct{ Lines []Line }

func (Block) isExpr() {}

// If is the checked form of an if/elif/else chain.
type If struct {
	Conditions []Expr
	Blocks     [][]Line
	Else       []Line // nil when no trailing `else` exists
}

func (If) isExpr() {}

// For is the checked form of a `for (name in range) body` loop.
type For struct {
	ID    string // stable_id of the loop variable
	Range Expr
	Body  []Line
}

func (For) isExpr() {}

// LambdaParam is one checked lambda parameter.
type LambdaParam struct {
	ID      string // stable_id
	Default Expr   // nil when absent
}

// Lambda is the checked form of a lambda literal, carrying its computed
// capture set (the stable_ids its body and parameter defaults reference but
// do not declare, excluding its own parameters). Dotted ids such as
// "self.<field>" or "math.pi" stay in the set; codegen skips them when it
// emits `global` statements.
type Lambda struct {
	Params   []LambdaParam
	Body     Expr
	Captures *IDSet
}

func (Lambda) isExpr() {}

// List is `[e, ...]`.
type List struct{ Items []Expr }

func (List) isExpr() {}

// MapEntry is one `k: v` pair of a checked map literal.
type MapEntry struct{ Key, Value Expr }

// Map is `{k: v, ...}`.
type Map struct{ Entries []MapEntry }

func (Map) isExpr() {}

// Matrix is `[[...]; [...]]`.
type Matrix struct{ Rows [][]Expr }

func (Matrix) isExpr() {}

// Index is `e[i]`.
type Index struct{ Target, Index Expr }

func (Index) isExpr() {}

// GetProperty is `e.field`.
type GetProperty struct {
	Target Expr
	Field  string
}

func (GetProperty) isExpr() {}

// CallArg is one resolved (param_name, expr) pair of a function call; codegen
// always emits these with keyword syntax regardless of how the source wrote
// the call.
type CallArg struct {
	Name string
	Expr Expr
}

// FunctionCall is a resolved function (or constructor) invocation.
type FunctionCall struct {
	Callee Expr
	Args   []CallArg
}

func (FunctionCall) isExpr() {}

// StructEntry is one checked property or method of a struct literal.
type StructEntry struct {
	Name    string
	Default Expr // nil for a required property
	Kind    StructFieldKind
}

// Struct is the checked form of a struct literal.
type Struct struct{ Fields []StructEntry }

func (Struct) isExpr() {}
