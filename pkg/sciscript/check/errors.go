package check

import "fmt"

// Diagnostic is the single textual error type the checker ever produces: one
// message, with no structured source-location payload beyond what the
// message itself states. Parse errors are plain errors, which the top-level
// Compile entry point returns unchanged.
type Diagnostic struct {
	Category string // "name", "type", "unit", "shape", "mutability"
	Message  string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s error: %s", d.Category, d.Message)
}

func newDiag(category, format string, args ...any) *Diagnostic {
	return &Diagnostic{Category: category, Message: fmt.Sprintf(format, args...)}
}

func nameErr(format string, args ...any) *Diagnostic   { return newDiag("name", format, args...) }
func typeErr(format string, args ...any) *Diagnostic    { return newDiag("type", format, args...) }
func unitErr(format string, args ...any) *Diagnostic    { return newDiag("unit", format, args...) }
func shapeErr(format string, args ...any) *Diagnostic   { return newDiag("shape", format, args...) }
func mutErr(format string, args ...any) *Diagnostic     { return newDiag("mutability", format, args...) }
