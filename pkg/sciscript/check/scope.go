package check

import (
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/joranmulderij/sciscript/pkg/sciscript/ast"
)

// binding records everything the checker needs about one declared name:
// its resolved stable_id, its static type, and whether it was declared
// `const` (an immutable binding may carry a compile-time constant and may
// never be the target of a reassignment).
type binding struct {
	id       string
	typ      ast.Type
	constant bool
}

// localScope is one lexical scope frame. Scopes nest; name lookup walks
// outward from the innermost frame.
type localScope struct {
	parent   *localScope
	bindings map[string]binding
	declared *ast.IDSet // stable_ids introduced directly in this frame
}

// Scope is the checker's scope stack: a chain of localScope frames plus a
// monotonic counter used to mint a fresh stable_id ("var_<n>") as each new
// binding is declared.
type Scope struct {
	top     *localScope
	depth   int
	nextVar int
}

// NewScope constructs a scope stack with a single empty top-level frame.
func NewScope() *Scope {
	return &Scope{top: &localScope{bindings: map[string]binding{}, declared: ast.NewIDSet()}}
}

// Push enters a new nested scope.
func (s *Scope) Push() {
	s.top = &localScope{parent: s.top, bindings: map[string]binding{}, declared: ast.NewIDSet()}
	s.depth++
	log.WithField("depth", s.depth).Debug("pushed scope")
}

// Pop leaves the current scope and returns the set of stable_ids it declared
// directly (used by the caller to subtract from a lambda's raw free-id
// computation).
func (s *Scope) Pop() *ast.IDSet {
	declared := s.top.declared
	s.top = s.top.parent
	log.WithFields(log.Fields{"depth": s.depth, "declared": declared.Len()}).Debug("popped scope")
	s.depth--
	return declared
}

// freshID mints the next stable_id in sequence.
func (s *Scope) freshID() string {
	id := "var_" + strconv.Itoa(s.nextVar)
	s.nextVar++
	return id
}

// Declare introduces name in the current scope, shadowing any outer binding
// of the same name, and returns the freshly minted stable_id. A mutable
// Number binding has its carried compile-time constant stripped here:
// constant-folded values live only through immutable bindings.
func (s *Scope) Declare(name string, typ ast.Type, constant bool) string {
	if n, ok := typ.(ast.NumberType); ok && !constant && n.Const != nil {
		typ = ast.NewNumberType(n.Unit)
	}
	id := s.freshID()
	s.top.bindings[name] = binding{id: id, typ: typ, constant: constant}
	s.top.declared.Add(id)
	return id
}

// DeclareWithID introduces name bound to an explicit, caller-chosen id
// rather than a freshly minted "var_<n>" one. Standard-library seeding uses
// it so that a builtin's stable_id is its host-side name (codegen then emits
// the host symbol directly), and struct field defaults use it to rebind
// prior properties as "self.<name>" dotted paths so codegen emits an
// attribute access instead of threading them through as parameters. Lambda
// parameters use it to take their source name as their id, so the emitted
// `def` accepts the keyword arguments call sites pass.
func (s *Scope) DeclareWithID(name, id string, typ ast.Type, constant bool) {
	s.top.bindings[name] = binding{id: id, typ: typ, constant: constant}
	s.top.declared.Add(id)
}

// Lookup resolves name by walking outward from the innermost frame.
func (s *Scope) Lookup(name string) (binding, bool) {
	for frame := s.top; frame != nil; frame = frame.parent {
		if b, ok := frame.bindings[name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

