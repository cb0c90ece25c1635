// Package check implements SciScript's name resolution, unit algebra, and
// structural type checking: the single pass that turns an unchecked AST into
// a checked one ready for codegen. Dispatch is a plain tree walk
// (switch v := x.(type)) rather than a visitor interface.
package check

import (
	log "github.com/sirupsen/logrus"

	"github.com/joranmulderij/sciscript/pkg/sciscript/ast"
)

// Config tunes a single checker run.
type Config struct {
	// Strict rejects list/map literals whose elements disagree instead of
	// widening their type to any.
	Strict bool
	// NoStdlib skips seeding the standard-library table, leaving the top
	// scope empty.
	NoStdlib bool
}

// Checker threads a Scope stack through a single type-checking pass. A fresh
// Checker must be used per compilation: scope state (and its stable_id
// counter) is not meant to be reused across programs.
type Checker struct {
	scope *Scope
	cfg   Config
}

// NewChecker constructs a Checker whose top-level scope is pre-populated
// with the language's built-in bindings (check/stdlib.go).
func NewChecker() *Checker {
	return NewCheckerWithConfig(Config{})
}

// NewCheckerWithConfig constructs a Checker with explicit configuration.
func NewCheckerWithConfig(cfg Config) *Checker {
	c := &Checker{scope: NewScope(), cfg: cfg}
	if !cfg.NoStdlib {
		entries := stdlib()
		for _, entry := range entries {
			c.scope.DeclareWithID(entry.name, entry.host, entry.typ, true)
		}
		log.WithField("builtins", len(entries)).Debug("seeded standard library scope")
	}
	return c
}

// Check type-checks a complete program and returns its checked statement
// list, ready for codegen.
func Check(lines []ast.LineUnchecked) ([]ast.Line, error) {
	return CheckWithConfig(lines, Config{})
}

// CheckWithConfig is Check with an explicit checker configuration.
func CheckWithConfig(lines []ast.LineUnchecked, cfg Config) ([]ast.Line, error) {
	c := NewCheckerWithConfig(cfg)
	log.WithField("lines", len(lines)).Debug("type checking program")
	checked, _, _, err := c.checkLines(lines)
	return checked, err
}

// exprResult bundles a checked expression with its static type and the set
// of outer stable_ids it references (used to compute lambda capture sets).
type exprResult struct {
	Expr ast.Expr
	Type ast.Type
	Deps *ast.IDSet
}

func (c *Checker) checkLines(lines []ast.LineUnchecked) ([]ast.Line, ast.Type, *ast.IDSet, error) {
	var checked []ast.Line
	var returnType ast.Type = ast.Void
	deps := ast.NewIDSet()

	for _, line := range lines {
		switch l := line.(type) {
		case ast.ExprLineUnchecked:
			r, err := c.checkExpr(l.Expr)
			if err != nil {
				return nil, nil, nil, err
			}
			checked = append(checked, ast.ExprLine{Expr: r.Expr})
			deps.Union(r.Deps)
			returnType = r.Type

		case ast.ReAssignmentLineUnchecked:
			valueR, err := c.checkExpr(l.Value)
			if err != nil {
				return nil, nil, nil, err
			}
			deps.Union(valueR.Deps)

			b, ok := c.scope.Lookup(l.Name)
			if !ok {
				return nil, nil, nil, nameErr("variable %q not found in scope", l.Name)
			}
			curType := b.typ
			var newExts []ast.ReAssignmentExtension
			for _, ext := range l.Extensions {
				switch e := ext.(type) {
				case ast.PropGetUnchecked:
					curType, err = getPropertyCheckTypes(curType, e.Name)
					if err != nil {
						return nil, nil, nil, err
					}
					newExts = append(newExts, ast.PropertyExtension{Name: e.Name})
				case ast.IndexUnchecked:
					idxR, err := c.checkExpr(e.Index)
					if err != nil {
						return nil, nil, nil, err
					}
					deps.Union(idxR.Deps)
					curType, err = indexCheckTypes(curType, idxR.Type)
					if err != nil {
						return nil, nil, nil, err
					}
					newExts = append(newExts, ast.IndexExtension{Index: idxR.Expr})
				}
			}
			if !valueR.Type.CanBeAssignedTo(curType) {
				return nil, nil, nil, typeErr("type mismatch in assignment to %q", l.Name)
			}
			if b.constant {
				return nil, nil, nil, mutErr("cannot reassign const variable %q", l.Name)
			}
			checked = append(checked, ast.ReAssignmentLine{ID: b.id, Extensions: newExts, Expr: valueR.Expr})
			returnType = valueR.Type

		case ast.NewAssignmentLineUnchecked:
			valueR, err := c.checkExpr(l.Value)
			if err != nil {
				return nil, nil, nil, err
			}
			deps.Union(valueR.Deps)
			constant := l.Modifier == ast.ModConst

			bindType := valueR.Type
			if l.Annotation != nil {
				annType, err := c.checkTypeAnnotation(*l.Annotation)
				if err != nil {
					return nil, nil, nil, err
				}
				if !valueR.Type.CanBeAssignedTo(annType) {
					return nil, nil, nil, typeErr("type mismatch in assignment to %q", l.Name)
				}
				bindType = annType
			}
			id := c.scope.Declare(l.Name, bindType, constant)
			checked = append(checked, ast.NewAssignmentLine{ID: id, Expr: valueR.Expr, Modifier: l.Modifier})
			returnType = valueR.Type

		case ast.UnitDefLineUnchecked:
			unitType := ast.NewNumberConst(ast.SingleUnit(l.Name), ast.NewIntConstant(1))
			c.scope.Declare(l.Name, unitType, true)
			returnType = unitType

		case ast.SymsDefLineUnchecked:
			symType := ast.SymType{Unit: ast.EmptyUnitSet()}
			id := c.scope.Declare(l.Name, symType, true)
			checked = append(checked, ast.NewAssignmentLine{ID: id, Expr: ast.NewSymbol{Name: l.Name}, Modifier: ast.ModConst})
			returnType = symType
		}
	}
	return checked, returnType, deps, nil
}

func (c *Checker) checkExpr(expr ast.ExprUnchecked) (exprResult, error) {
	switch e := expr.(type) {
	case ast.NumberUnchecked:
		return exprResult{ast.Number{Value: e.Value}, ast.NewNumberConst(ast.EmptyUnitSet(), e.Value), ast.NewIDSet()}, nil

	case ast.BooleanUnchecked:
		return exprResult{ast.Boolean{Value: e.Value}, ast.Bool, ast.NewIDSet()}, nil

	case ast.NullUnchecked:
		return exprResult{ast.Null{}, ast.Void, ast.NewIDSet()}, nil

	case ast.VariableUnchecked:
		b, ok := c.scope.Lookup(e.Name)
		if !ok {
			return exprResult{}, nameErr("variable %q not found in scope", e.Name)
		}
		deps := ast.NewIDSet()
		if _, isFunc := b.typ.(ast.FunctionType); !isFunc {
			deps.Add(b.id)
		}
		return exprResult{ast.Variable{ID: b.id}, b.typ, deps}, nil

	case ast.UnaryMinusUnchecked:
		inner, err := c.checkExpr(e.Operand)
		if err != nil {
			return exprResult{}, err
		}
		n, ok := inner.Type.(ast.NumberType)
		if !ok {
			return exprResult{}, typeErr("type mismatch in unary minus")
		}
		// only an Integer constant folds its sign; a Float constant is cleared
		var cst *ast.NumberConstant
		if n.Const != nil && !n.Const.IsFloat() {
			negated := n.Const.Negate()
			cst = &negated
		}
		return exprResult{ast.UnaryMinus{Operand: inner.Expr}, ast.NumberType{Unit: n.Unit, Const: cst}, inner.Deps}, nil

	case ast.SequencialUnchecked:
		return c.checkSequencial(e)

	case ast.BinOpUnchecked:
		lhs, err := c.checkExpr(e.Lhs)
		if err != nil {
			return exprResult{}, err
		}
		rhs, err := c.checkExpr(e.Rhs)
		if err != nil {
			return exprResult{}, err
		}
		return handleBinOp(lhs, e.Op, rhs)

	case ast.BlockUnchecked:
		c.scope.Push()
		checked, type_, deps, err := c.checkLines(e.Lines)
		declared := c.scope.Pop()
		if err != nil {
			return exprResult{}, err
		}
		deps.SubtractInPlace(declared)
		return exprResult{ast.Block{Lines: checked}, type_, deps}, nil

	case ast.IfUnchecked:
		return c.checkIf(e)

	case ast.ForUnchecked:
		return c.checkFor(e)

	case ast.LambdaUnchecked:
		return c.checkLambda(e)

	case ast.GetPropertyUnchecked:
		target, err := c.checkExpr(e.Target)
		if err != nil {
			return exprResult{}, err
		}
		type_, err := getPropertyCheckTypes(target.Type, e.Field)
		if err != nil {
			return exprResult{}, err
		}
		return exprResult{ast.GetProperty{Target: target.Expr, Field: e.Field}, type_, target.Deps}, nil

	case ast.ListUnchecked:
		return c.checkList(e)

	case ast.MapUnchecked:
		return c.checkMap(e)

	case ast.MatrixUnchecked:
		return c.checkMatrix(e)

	case ast.IndexExprUnchecked:
		target, err := c.checkExpr(e.Target)
		if err != nil {
			return exprResult{}, err
		}
		index, err := c.checkExpr(e.Index)
		if err != nil {
			return exprResult{}, err
		}
		type_, err := indexCheckTypes(target.Type, index.Type)
		if err != nil {
			return exprResult{}, err
		}
		deps := target.Deps
		deps.Union(index.Deps)
		return exprResult{ast.Index{Target: target.Expr, Index: index.Expr}, type_, deps}, nil

	case ast.FunctionCallUnchecked:
		return c.checkFunctionCall(e)

	case ast.StructUnchecked:
		return c.checkStruct(e)
	}
	return exprResult{}, typeErr("unsupported expression form")
}

func (c *Checker) checkSequencial(e ast.SequencialUnchecked) (exprResult, error) {
	lhs, err := c.checkExpr(e.Lhs)
	if err != nil {
		return exprResult{}, err
	}
	rhs, err := c.checkExpr(e.Rhs)
	if err != nil {
		return exprResult{}, err
	}
	_, lhsNum := lhs.Type.(ast.NumberType)
	_, rhsNum := rhs.Type.(ast.NumberType)
	if lhsNum && rhsNum {
		return handleBinOp(lhs, ast.OpMultiply, rhs)
	}
	if ft, ok := lhs.Type.(ast.FunctionType); ok {
		mapping, err := argumentsMatchParameters(
			[]argPair{{Type: rhs.Type, Expr: rhs.Expr}}, map[string]argPair{}, ft.Parameters)
		if err != nil {
			return exprResult{}, err
		}
		deps := lhs.Deps
		deps.Union(rhs.Deps)
		return exprResult{ast.FunctionCall{Callee: lhs.Expr, Args: mapping}, ft.Return, deps}, nil
	}
	return exprResult{}, typeErr("type mismatch in sequencial expression")
}

func (c *Checker) checkIf(e ast.IfUnchecked) (exprResult, error) {
	deps := ast.NewIDSet()
	var conditions []ast.Expr
	for _, cond := range e.Conditions {
		r, err := c.checkExpr(cond)
		if err != nil {
			return exprResult{}, err
		}
		deps.Union(r.Deps)
		if !r.Type.CanBeAssignedTo(ast.Bool) {
			return exprResult{}, typeErr("type mismatch in if condition")
		}
		conditions = append(conditions, r.Expr)
	}

	var blocks [][]ast.Line
	var returnType ast.Type
	for _, block := range e.Blocks {
		c.scope.Push()
		checked, type_, d, err := c.checkLines(block)
		declared := c.scope.Pop()
		if err != nil {
			return exprResult{}, err
		}
		d.SubtractInPlace(declared)
		deps.Union(d)
		returnType = mergeBranchType(returnType, type_)
		blocks = append(blocks, checked)
	}

	var elseLines []ast.Line
	if e.Else != nil {
		c.scope.Push()
		checked, type_, d, err := c.checkLines(e.Else)
		declared := c.scope.Pop()
		if err != nil {
			return exprResult{}, err
		}
		d.SubtractInPlace(declared)
		deps.Union(d)
		returnType = mergeBranchType(returnType, type_)
		elseLines = checked
	}

	if returnType == nil {
		returnType = ast.Void
	}
	return exprResult{ast.If{Conditions: conditions, Blocks: blocks, Else: elseLines}, returnType, deps}, nil
}

// mergeBranchType folds branch result types together: the common type when
// every branch agrees so far, Void on the first disagreement.
func mergeBranchType(acc, t ast.Type) ast.Type {
	if acc == nil {
		return t
	}
	if t.CanBeAssignedTo(acc) {
		return acc
	}
	return ast.Void
}

func (c *Checker) checkFor(e ast.ForUnchecked) (exprResult, error) {
	rangeR, err := c.checkExpr(e.Range)
	if err != nil {
		return exprResult{}, err
	}
	if _, ok := rangeR.Type.(ast.RangeType); !ok {
		return exprResult{}, typeErr("type mismatch in for loop")
	}
	c.scope.Push()
	id := c.scope.Declare(e.Name, ast.NewNumberType(ast.EmptyUnitSet()), true)
	body, _, deps, err := c.checkLines(e.Body)
	declared := c.scope.Pop()
	if err != nil {
		return exprResult{}, err
	}
	deps.Union(rangeR.Deps)
	deps.SubtractInPlace(declared)
	// a loop runs for its per-iteration side effects; it produces no value
	return exprResult{ast.For{ID: id, Range: rangeR.Expr, Body: body}, ast.Void, deps}, nil
}

func (c *Checker) checkLambda(e ast.LambdaUnchecked) (exprResult, error) {
	var declaredReturn ast.Type
	if e.ReturnType != nil {
		t, err := c.checkTypeAnnotation(*e.ReturnType)
		if err != nil {
			return exprResult{}, err
		}
		declaredReturn = t
	}

	c.scope.Push()
	deps := ast.NewIDSet()
	paramIDs := ast.NewIDSet()
	var checkedParams []ast.LambdaParam
	var paramTypes []ast.Parameter

	for _, p := range e.Params {
		ptype := ast.Type(ast.Any)
		if p.Annotation.Name != "" {
			t, err := c.checkTypeAnnotation(p.Annotation)
			if err != nil {
				c.scope.Pop()
				return exprResult{}, err
			}
			ptype = t
		}
		// A parameter's stable_id is its source name: codegen emits it as the
		// Python parameter name, which call sites address by keyword.
		id := p.Name
		c.scope.DeclareWithID(p.Name, id, ptype, false)
		paramIDs.Add(id)

		var defaultExpr ast.Expr
		if p.Default != nil {
			defR, err := c.checkExpr(p.Default)
			if err != nil {
				c.scope.Pop()
				return exprResult{}, err
			}
			if !defR.Type.CanBeAssignedTo(ptype) {
				c.scope.Pop()
				return exprResult{}, typeErr("type mismatch in default value of parameter %q", p.Name)
			}
			deps.Union(defR.Deps)
			defaultExpr = defR.Expr
		}
		checkedParams = append(checkedParams, ast.LambdaParam{ID: id, Default: defaultExpr})
		paramTypes = append(paramTypes, ast.Parameter{Name: p.Name, Type: ptype, Required: p.Default == nil})
	}

	bodyR, err := c.checkExpr(e.Body)
	c.scope.Pop()
	if err != nil {
		return exprResult{}, err
	}
	deps.Union(bodyR.Deps)
	deps.SubtractInPlace(paramIDs)

	returnType := bodyR.Type
	if declaredReturn != nil {
		if !bodyR.Type.CanBeAssignedTo(declaredReturn) {
			return exprResult{}, typeErr("type mismatch in lambda return type")
		}
		returnType = declaredReturn
	}

	ft := ast.FunctionType{Parameters: paramTypes, Return: returnType}
	return exprResult{
		ast.Lambda{Params: checkedParams, Body: bodyR.Expr, Captures: deps},
		ft,
		deps,
	}, nil
}

func (c *Checker) checkList(e ast.ListUnchecked) (exprResult, error) {
	deps := ast.NewIDSet()
	var items []ast.Expr
	var itemType ast.Type
	for _, item := range e.Items {
		r, err := c.checkExpr(item)
		if err != nil {
			return exprResult{}, err
		}
		deps.Union(r.Deps)
		switch {
		case itemType == nil:
			itemType = r.Type
		case !r.Type.CanBeAssignedTo(itemType):
			if c.cfg.Strict {
				return exprResult{}, typeErr("heterogeneous list literal")
			}
			itemType = ast.Any
		}
		items = append(items, r.Expr)
	}
	if itemType == nil {
		itemType = ast.Void
	}
	return exprResult{ast.List{Items: items}, ast.ListType{Elem: itemType}, deps}, nil
}

func (c *Checker) checkMap(e ast.MapUnchecked) (exprResult, error) {
	deps := ast.NewIDSet()
	var entries []ast.MapEntry
	var keyType, valueType ast.Type
	for _, entry := range e.Entries {
		keyR, err := c.checkExpr(entry.Key)
		if err != nil {
			return exprResult{}, err
		}
		valR, err := c.checkExpr(entry.Value)
		if err != nil {
			return exprResult{}, err
		}
		deps.Union(keyR.Deps)
		deps.Union(valR.Deps)
		switch {
		case keyType == nil:
			keyType = keyR.Type
		case !keyR.Type.CanBeAssignedTo(keyType):
			if c.cfg.Strict {
				return exprResult{}, typeErr("heterogeneous map literal keys")
			}
			keyType = ast.Any
		}
		switch {
		case valueType == nil:
			valueType = valR.Type
		case !valR.Type.CanBeAssignedTo(valueType):
			if c.cfg.Strict {
				return exprResult{}, typeErr("heterogeneous map literal values")
			}
			valueType = ast.Any
		}
		entries = append(entries, ast.MapEntry{Key: keyR.Expr, Value: valR.Expr})
	}
	if keyType == nil {
		keyType = ast.Void
	}
	if valueType == nil {
		valueType = ast.Void
	}
	return exprResult{ast.Map{Entries: entries}, ast.MapType{Key: keyType, Value: valueType}, deps}, nil
}

func (c *Checker) checkMatrix(e ast.MatrixUnchecked) (exprResult, error) {
	deps := ast.NewIDSet()
	var rows [][]ast.Expr
	var unit *ast.UnitSet
	rowLength := -1
	for _, row := range e.Rows {
		var checkedRow []ast.Expr
		for _, item := range row {
			r, err := c.checkExpr(item)
			if err != nil {
				return exprResult{}, err
			}
			deps.Union(r.Deps)
			n, ok := r.Type.(ast.NumberType)
			if !ok {
				return exprResult{}, typeErr("type mismatch in matrix")
			}
			if unit == nil {
				unit = &n.Unit
			} else if !unit.Equal(n.Unit) {
				return exprResult{}, unitErr("unit mismatch in matrix")
			}
			checkedRow = append(checkedRow, r.Expr)
		}
		if rowLength == -1 {
			rowLength = len(checkedRow)
		} else if rowLength != len(checkedRow) {
			return exprResult{}, shapeErr("row length mismatch in matrix")
		}
		rows = append(rows, checkedRow)
	}
	if rowLength == -1 {
		rowLength = 0
	}
	if unit == nil {
		empty := ast.EmptyUnitSet()
		unit = &empty
	}
	mt := ast.MatrixType{Rows: uint(len(rows)), Cols: uint(rowLength), Unit: unit}
	return exprResult{ast.Matrix{Rows: rows}, mt, deps}, nil
}

func (c *Checker) checkFunctionCall(e ast.FunctionCallUnchecked) (exprResult, error) {
	callee, err := c.checkExpr(e.Callee)
	if err != nil {
		return exprResult{}, err
	}
	deps := callee.Deps

	var positional []argPair
	named := map[string]argPair{}
	for _, a := range e.Args {
		r, err := c.checkExpr(a.Value)
		if err != nil {
			return exprResult{}, err
		}
		deps.Union(r.Deps)
		if a.Name == "" {
			positional = append(positional, argPair{Type: r.Type, Expr: r.Expr})
		} else {
			named[a.Name] = argPair{Type: r.Type, Expr: r.Expr}
		}
	}

	var params []ast.Parameter
	var ret ast.Type
	switch t := callee.Type.(type) {
	case ast.FunctionType:
		params, ret = t.Parameters, t.Return
	case ast.TypeValueType:
		if t.Signature == nil {
			return exprResult{}, typeErr("type mismatch in function call")
		}
		params, ret = t.Signature.Parameters, t.Signature.Return
	default:
		return exprResult{}, typeErr("type mismatch in function call")
	}

	mapping, err := argumentsMatchParameters(positional, named, params)
	if err != nil {
		return exprResult{}, err
	}
	return exprResult{ast.FunctionCall{Callee: callee.Expr, Args: mapping}, ret, deps}, nil
}

func (c *Checker) checkStruct(e ast.StructUnchecked) (exprResult, error) {
	deps := ast.NewIDSet()
	var fields []ast.StructField
	var checkedFields []ast.StructEntry

	for _, f := range e.Fields {
		var fieldType ast.Type
		if f.Annotation != nil {
			t, err := c.checkTypeAnnotation(*f.Annotation)
			if err != nil {
				return exprResult{}, err
			}
			fieldType = t
		}

		var defaultExpr ast.Expr
		if f.Default != nil {
			c.scope.Push()
			for _, prior := range fields {
				c.scope.DeclareWithID(prior.Name, "self."+prior.Name, prior.Type, false)
			}
			r, err := c.checkExpr(f.Default)
			declared := c.scope.Pop()
			if err != nil {
				return exprResult{}, err
			}
			r.Deps.SubtractInPlace(declared)
			deps.Union(r.Deps)
			if fieldType != nil {
				if !r.Type.CanBeAssignedTo(fieldType) {
					return exprResult{}, typeErr("type mismatch in struct field %q", f.Name)
				}
			} else {
				fieldType = r.Type
			}
			defaultExpr = r.Expr
		} else if fieldType == nil {
			fieldType = ast.Any
		}

		fields = append(fields, ast.StructField{Name: f.Name, Type: fieldType, Required: f.Default == nil})
		checkedFields = append(checkedFields, ast.StructEntry{Name: f.Name, Default: defaultExpr, Kind: f.Kind})
	}

	structType := ast.StructType{Fields: fields}
	params := make([]ast.Parameter, len(fields))
	for i, f := range fields {
		params[i] = ast.Parameter{Name: f.Name, Type: f.Type, Required: f.Required}
	}
	typeValue := ast.TypeValueType{
		Concrete:  structType,
		Signature: &ast.FunctionType{Parameters: params, Return: structType},
	}
	return exprResult{ast.Struct{Fields: checkedFields}, typeValue, deps}, nil
}

// checkTypeAnnotation resolves NAME (`[` generics `]`)? to a concrete Type,
// invoking the constructor of the type-value NAME resolves to when generics
// are present.
func (c *Checker) checkTypeAnnotation(ann ast.TypeAnnotationUnchecked) (ast.Type, error) {
	b, ok := c.scope.Lookup(ann.Name)
	if !ok {
		return nil, nameErr("type %q not found in scope", ann.Name)
	}
	tv, ok := b.typ.(ast.TypeValueType)
	if !ok {
		return nil, typeErr("%q is not a type", ann.Name)
	}
	args := make([]ast.Type, 0, len(ann.Generics))
	for _, g := range ann.Generics {
		r, err := c.checkExpr(g)
		if err != nil {
			return nil, err
		}
		args = append(args, r.Type)
	}
	if tv.Ctor != nil {
		return tv.Ctor(args)
	}
	if len(args) != 0 {
		return nil, typeErr("type %q takes no arguments", ann.Name)
	}
	return tv.Concrete, nil
}

// argPair is a type-checked argument value awaiting parameter-name binding.
type argPair struct {
	Type ast.Type
	Expr ast.Expr
}

// argumentsMatchParameters binds positional arguments left to right, then
// fills any remaining parameters from named arguments, erroring on a missing
// required parameter or on arguments left over after every parameter is
// satisfied.
func argumentsMatchParameters(positional []argPair, named map[string]argPair, params []ast.Parameter) ([]ast.CallArg, error) {
	var mapping []ast.CallArg
	posIdx := 0
	remaining := make(map[string]argPair, len(named))
	for k, v := range named {
		remaining[k] = v
	}
	for _, param := range params {
		switch {
		case posIdx < len(positional):
			arg := positional[posIdx]
			posIdx++
			if !arg.Type.CanBeAssignedTo(param.Type) {
				return nil, typeErr("type mismatch in function call argument %q", param.Name)
			}
			mapping = append(mapping, ast.CallArg{Name: param.Name, Expr: arg.Expr})
		default:
			if arg, ok := remaining[param.Name]; ok {
				delete(remaining, param.Name)
				if !arg.Type.CanBeAssignedTo(param.Type) {
					return nil, typeErr("type mismatch in function call argument %q", param.Name)
				}
				mapping = append(mapping, ast.CallArg{Name: param.Name, Expr: arg.Expr})
			} else if param.Required {
				return nil, typeErr("missing required argument %q", param.Name)
			}
		}
	}
	if posIdx < len(positional) || len(remaining) > 0 {
		return nil, typeErr("extra arguments in function call")
	}
	return mapping, nil
}

func indexCheckTypes(typeExpr, typeIndex ast.Type) (ast.Type, error) {
	num := ast.NewNumberType(ast.EmptyUnitSet())
	switch t := typeExpr.(type) {
	case ast.ListType:
		if !typeIndex.CanBeAssignedTo(num) {
			return nil, typeErr("type mismatch in index")
		}
		return t.Elem, nil
	case ast.MapType:
		if !typeIndex.CanBeAssignedTo(t.Key) {
			return nil, typeErr("type mismatch in index")
		}
		return t.Value, nil
	case ast.TypeValueType:
		if t.Ctor == nil {
			return nil, typeErr("type mismatch in index")
		}
		newT, err := t.Ctor([]ast.Type{typeIndex})
		if err != nil {
			return nil, err
		}
		return ast.TypeValueType{Concrete: newT, Signature: t.Signature}, nil
	default:
		return nil, typeErr("type mismatch in index")
	}
}

func getPropertyCheckTypes(typeExpr ast.Type, property string) (ast.Type, error) {
	st, ok := typeExpr.(ast.StructType)
	if !ok {
		return nil, typeErr("type mismatch in get property")
	}
	for _, f := range st.Fields {
		if f.Name == property {
			return f.Type, nil
		}
	}
	return nil, nameErr("property %q not found in struct", property)
}

func handleBinOp(lhs exprResult, op ast.BinOp, rhs exprResult) (exprResult, error) {
	deps := lhs.Deps
	deps.Union(rhs.Deps)

	if op == ast.OpRange {
		ln, lok := lhs.Type.(ast.NumberType)
		rn, rok := rhs.Type.(ast.NumberType)
		if !lok || !rok {
			return exprResult{}, typeErr("type mismatch in range operation")
		}
		if !ln.Unit.IsEmpty() || !rn.Unit.IsEmpty() {
			return exprResult{}, unitErr("unit mismatch in range operation")
		}
		return exprResult{ast.BinOpExpr{Lhs: lhs.Expr, Op: op, Rhs: rhs.Expr}, ast.RangeT, deps}, nil
	}

	if op == ast.OpEquals || op == ast.OpNotEquals {
		if !ast.TypesEqual(lhs.Type, rhs.Type) {
			return exprResult{}, typeErr("type mismatch in comparison operation")
		}
		return exprResult{ast.BinOpExpr{Lhs: lhs.Expr, Op: op, Rhs: rhs.Expr}, ast.Bool, deps}, nil
	}

	if ln, lok := lhs.Type.(ast.NumberType); lok {
		if rn, rok := rhs.Type.(ast.NumberType); rok {
			var cst *ast.NumberConstant
			if ln.Const != nil && rn.Const != nil {
				v := applyConstOp(op, *ln.Const, *rn.Const)
				cst = &v
			}
			unit, err := getBinOpUnit(ln.Unit, op, rn.Unit, rn.Const)
			if err != nil {
				return exprResult{}, err
			}
			var e ast.Expr
			if cst != nil {
				e = ast.Number{Value: *cst}
			} else {
				e = ast.BinOpExpr{Lhs: lhs.Expr, Op: op, Rhs: rhs.Expr}
			}
			return exprResult{e, ast.NumberType{Unit: unit, Const: cst}, deps}, nil
		}
	}

	if u1, ok1 := unitOfNumberOrSym(lhs.Type); ok1 {
		if u2, ok2 := unitOfNumberOrSym(rhs.Type); ok2 {
			unit, err := getBinOpUnit(u1, op, u2, nil)
			if err != nil {
				return exprResult{}, err
			}
			e := ast.BinOpExpr{Lhs: lhs.Expr, Op: op, Rhs: rhs.Expr}
			return exprResult{e, ast.SymType{Unit: unit}, deps}, nil
		}
	}

	if op == ast.OpMultiply {
		if lm, lok := lhs.Type.(ast.MatrixType); lok {
			if rm, rok := rhs.Type.(ast.MatrixType); rok {
				if lm.Cols == 1 && rm.Cols == 1 {
					if lm.Rows != rm.Rows {
						return exprResult{}, shapeErr("matrix dimensions mismatch in multiplication")
					}
					unit := ast.EmptyUnitSet()
					if lm.Unit != nil && rm.Unit != nil {
						unit = lm.Unit.Add(*rm.Unit)
					}
					e := ast.BinOpExpr{Lhs: lhs.Expr, Op: op, Rhs: rhs.Expr}
					return exprResult{e, ast.NewNumberType(unit), deps}, nil
				}
				return exprResult{}, typeErr("type mismatch in binary operation")
			}
		}
	}

	return exprResult{}, typeErr("type mismatch in binary operation")
}

func unitOfNumberOrSym(t ast.Type) (ast.UnitSet, bool) {
	switch v := t.(type) {
	case ast.NumberType:
		return v.Unit, true
	case ast.SymType:
		return v.Unit, true
	}
	return ast.UnitSet{}, false
}

func applyConstOp(op ast.BinOp, a, b ast.NumberConstant) ast.NumberConstant {
	switch op {
	case ast.OpAdd:
		return a.Add(b)
	case ast.OpSubtract:
		return a.Sub(b)
	case ast.OpMultiply:
		return a.Mul(b)
	case ast.OpDivide:
		return a.Div(b)
	case ast.OpModulo:
		return a.Mod(b)
	case ast.OpPower:
		return a.Pow(b)
	}
	return a
}

func getBinOpUnit(unit1 ast.UnitSet, op ast.BinOp, unit2 ast.UnitSet, c2 *ast.NumberConstant) (ast.UnitSet, error) {
	switch op {
	case ast.OpMultiply:
		return unit1.Add(unit2), nil
	case ast.OpDivide:
		return unit1.Sub(unit2), nil
	case ast.OpAdd, ast.OpSubtract, ast.OpModulo:
		if !unit1.Equal(unit2) {
			return ast.UnitSet{}, unitErr("unit mismatch in binary operation")
		}
		return unit1, nil
	case ast.OpPower:
		if !unit2.IsEmpty() {
			return ast.UnitSet{}, unitErr("unit mismatch in power operation")
		}
		if unit1.IsEmpty() {
			return ast.EmptyUnitSet(), nil
		}
		if c2 != nil {
			if i, ok := c2.AsInt64(); ok {
				return unit1.Scale(i), nil
			}
		}
		return ast.UnitSet{}, unitErr("unit mismatch in power operation")
	}
	return ast.UnitSet{}, typeErr("unsupported binary operator")
}
