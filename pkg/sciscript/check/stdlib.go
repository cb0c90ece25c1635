package check

import "github.com/joranmulderij/sciscript/pkg/sciscript/ast"

// HostImports are the Python import lines codegen must emit at the top of
// every generated module, exactly matching the host-name bindings the
// stdlib table below refers to.
const HostImports = "import math\nimport std_lib as std\nimport numpy as np\nimport sympy as sp\n"

// stdlibEntry binds one global SciScript name to its Python host expression
// and static type.
type stdlibEntry struct {
	name string
	host string
	typ  ast.Type
}

func numberFn(paramName string) ast.Type {
	return ast.FunctionType{
		Parameters: []ast.Parameter{{Name: paramName, Type: ast.NewNumberType(ast.EmptyUnitSet()), Required: true}},
		Return:     ast.NewNumberType(ast.EmptyUnitSet()),
	}
}

// stdlib returns the fixed table of global bindings every SciScript program
// starts with: every built-in function, constant, and type constructor the
// language provides.
func stdlib() []stdlibEntry {
	num := ast.NewNumberType(ast.EmptyUnitSet())
	vec3 := ast.MatrixType{Rows: 3, Cols: 1}

	return []stdlibEntry{
		{"sin", "math.sin", numberFn("value")},
		{"cos", "math.cos", numberFn("value")},
		{"tan", "math.tan", numberFn("value")},
		{"pow", "math.pow", ast.FunctionType{
			Parameters: []ast.Parameter{
				{Name: "base", Type: num, Required: true},
				{Name: "exp", Type: num, Required: true},
			},
			Return: num,
		}},
		{"atan2", "math.atan2", ast.FunctionType{
			Parameters: []ast.Parameter{
				{Name: "a", Type: num, Required: true},
				{Name: "b", Type: num, Required: true},
			},
			Return: num,
		}},
		{"cross", "np.cross", ast.FunctionType{
			Parameters: []ast.Parameter{
				{Name: "a", Type: vec3, Required: true},
				{Name: "b", Type: vec3, Required: true},
			},
			Return: vec3,
		}},
		{"abs", "abs", numberFn("value")},
		{"log", "math.log", numberFn("value")},
		{"exp", "math.exp", numberFn("value")},
		{"pi", "math.pi", num},
		{"e", "math.e", num},
		{"sqrt", "math.sqrt", numberFn("value")},
		{"print", "std.my_print", ast.FunctionType{
			Parameters: []ast.Parameter{{Name: "value", Type: ast.Any, Required: true}},
			Return:     ast.Any,
		}},
		{"num", "std.num", ast.TypeValueType{
			Concrete: num,
			Ctor:     numCtor,
			Signature: &ast.FunctionType{
				Parameters: []ast.Parameter{{Name: "value", Type: ast.Any, Required: true}},
				Return:     num,
			},
		}},
		{"any", "std.any", ast.TypeValueType{Concrete: ast.Any}},
		{"bool", "std.bool", ast.TypeValueType{Concrete: ast.Bool}},
		{"list", "std.list", ast.TypeValueType{Ctor: listCtor}},
		{"map", "std.map", ast.TypeValueType{Ctor: mapCtor}},
		{"mat", "std.mat", ast.TypeValueType{Ctor: matCtor}},
		{"linspace", "std.linspace", ast.FunctionType{
			Parameters: []ast.Parameter{
				{Name: "start", Type: num, Required: true},
				{Name: "stop", Type: num, Required: true},
				{Name: "n", Type: num, Required: true},
			},
			Return: ast.ListType{Elem: num},
		}},
	}
}

// numCtor implements `num[expr]`: the sole argument must be a Number type
// carrying the compile-time constant 1 (of either variant), and its result
// is that type stripped of the carried constant.
func numCtor(args []ast.Type) (ast.Type, error) {
	if len(args) == 0 {
		return ast.NewNumberType(ast.EmptyUnitSet()), nil
	}
	if len(args) != 1 {
		return nil, typeErr("num[] takes exactly one argument")
	}
	n, ok := args[0].(ast.NumberType)
	if !ok || n.Const == nil || !isOne(*n.Const) {
		return nil, typeErr("num[] takes a number as argument")
	}
	return ast.NewNumberType(n.Unit), nil
}

func isOne(c ast.NumberConstant) bool {
	if c.IsFloat() {
		return c.Float() == 1.0
	}
	i, _ := c.AsInt64()
	return i == 1
}

// listCtor implements `list[T]`.
func listCtor(args []ast.Type) (ast.Type, error) {
	if len(args) == 0 {
		return ast.ListType{Elem: ast.Any}, nil
	}
	if len(args) != 1 {
		return nil, typeErr("list[] takes exactly one argument")
	}
	elem, err := typeValueToType(args[0])
	if err != nil {
		return nil, typeErr("list[] takes a type as argument")
	}
	return ast.ListType{Elem: elem}, nil
}

// mapCtor implements `map[K,V]`.
func mapCtor(args []ast.Type) (ast.Type, error) {
	if len(args) == 0 {
		return ast.MapType{Key: ast.Any, Value: ast.Any}, nil
	}
	if len(args) != 2 {
		return nil, typeErr("map[] takes exactly two arguments")
	}
	key, err := typeValueToType(args[0])
	if err != nil {
		return nil, typeErr("map[] takes a type as key argument")
	}
	value, err := typeValueToType(args[1])
	if err != nil {
		return nil, typeErr("map[] takes a type as value argument")
	}
	return ast.MapType{Key: key, Value: value}, nil
}

// matCtor implements `mat[rows,cols]` and `mat[rows,cols,unit]`.
func matCtor(args []ast.Type) (ast.Type, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, typeErr("mat[] takes either two or three arguments")
	}
	rows, ok := asIntConst(args[0])
	if !ok {
		return nil, typeErr("mat[] takes a number as first argument")
	}
	cols, ok := asIntConst(args[1])
	if !ok {
		return nil, typeErr("mat[] takes a number as second argument")
	}
	var unit *ast.UnitSet
	if len(args) == 3 {
		u, err := typeToUnitSet(args[2])
		if err != nil {
			return nil, err
		}
		unit = &u
	}
	return ast.MatrixType{Rows: uint(rows), Cols: uint(cols), Unit: unit}, nil
}

func asIntConst(t ast.Type) (int64, bool) {
	n, ok := t.(ast.NumberType)
	if !ok || n.Const == nil {
		return 0, false
	}
	return n.Const.AsInt64()
}

func typeToUnitSet(t ast.Type) (ast.UnitSet, error) {
	n, ok := t.(ast.NumberType)
	if !ok || n.Const == nil || !isOne(*n.Const) {
		return ast.UnitSet{}, typeErr("expected a unit")
	}
	return n.Unit, nil
}

// typeValueToType resolves a type-value argument (as passed to list[]/map[])
// to the concrete type it denotes, invoking a nested constructor with no
// arguments when the type-value wraps one (e.g. passing `list` itself
// without generics, which defaults its own element type to `any`).
func typeValueToType(t ast.Type) (ast.Type, error) {
	tv, ok := t.(ast.TypeValueType)
	if !ok {
		return nil, typeErr("expected a type")
	}
	if tv.Concrete != nil {
		return tv.Concrete, nil
	}
	if tv.Ctor != nil {
		return tv.Ctor(nil)
	}
	return nil, typeErr("expected a type")
}
