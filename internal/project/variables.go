package project

import (
	"regexp"
	"sort"
)

// Variable is a named numeric value usable in expressions. LinkedFrom names
// the project it was imported from; a linked variable is read-only until
// unlinked, though it evaluates like any other.
type Variable struct {
	Name       string
	Value      float64
	LinkedFrom string
}

// Linked reports whether the variable is sourced from another project.
func (v *Variable) Linked() bool {
	return v.LinkedFrom != ""
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedNames are identifiers the expression language may claim later.
// Defining a variable with one of these would shadow it silently, so they
// are rejected at creation time.
var reservedNames = map[string]struct{}{
	"e": {}, "E": {}, "pi": {}, "PI": {},
	"inf": {}, "Infinity": {}, "NaN": {},
}

// ValidateVariableName checks the identifier pattern and the reserved set.
func ValidateVariableName(name string) error {
	if !identPattern.MatchString(name) {
		return modelErr(ErrCodeInvalidName, "variable name %q must match [A-Za-z_][A-Za-z0-9_]*", name)
	}
	if _, reserved := reservedNames[name]; reserved {
		return modelErr(ErrCodeInvalidName, "variable name %q is reserved", name)
	}
	return nil
}

// DefineVariable creates a local variable with the given initial value.
func (p *Project) DefineVariable(name string, initial float64) error {
	if err := ValidateVariableName(name); err != nil {
		return err
	}
	if _, exists := p.variables[name]; exists {
		return modelErr(ErrCodeDuplicateName, "variable %q already exists", name)
	}
	p.variables[name] = &Variable{Name: name, Value: initial}
	return nil
}

// SetVariableValue updates a local variable. Linked variables are read-only;
// their values change only by re-importing from the source project.
func (p *Project) SetVariableValue(name string, value float64) error {
	v, ok := p.variables[name]
	if !ok {
		return modelErr(ErrCodeNotFound, "variable %q not found", name)
	}
	if v.Linked() {
		return modelErr(ErrCodeLinkedReadOnly, "variable %q is linked from %q and read-only", name, v.LinkedFrom)
	}
	v.Value = value
	return nil
}

// DeleteVariable removes a local variable. The caller is responsible for
// first removing (or getting the user to confirm removal of) every binding
// that references it; see the binding registry's FindUsages.
func (p *Project) DeleteVariable(name string) error {
	v, ok := p.variables[name]
	if !ok {
		return modelErr(ErrCodeNotFound, "variable %q not found", name)
	}
	if v.Linked() {
		return modelErr(ErrCodeLinkedReadOnly, "variable %q is linked from %q and cannot be deleted", name, v.LinkedFrom)
	}
	delete(p.variables, name)
	return nil
}

// VariableValue implements the expression engine's VariableSource.
func (p *Project) VariableValue(name string) (float64, bool) {
	v, ok := p.variables[name]
	if !ok {
		return 0, false
	}
	return v.Value, true
}

// Variable returns a copy of the named variable.
func (p *Project) Variable(name string) (Variable, bool) {
	v, ok := p.variables[name]
	if !ok {
		return Variable{}, false
	}
	return *v, true
}

// Variables returns copies of all variables sorted by name.
func (p *Project) Variables() []Variable {
	out := make([]Variable, 0, len(p.variables))
	for _, v := range p.variables {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LinkVariables bulk-imports variables from another project, marking each as
// linked. A same-named local variable is overwritten; the returned slice
// reports which names that happened to, sorted, for display. Conflicts are
// informational, never errors.
func (p *Project) LinkVariables(fromRef string, values map[string]float64) []string {
	var overwritten []string
	for name, value := range values {
		if _, exists := p.variables[name]; exists {
			overwritten = append(overwritten, name)
		}
		p.variables[name] = &Variable{Name: name, Value: value, LinkedFrom: fromRef}
	}
	p.LinkedFrom = fromRef
	sort.Strings(overwritten)
	return overwritten
}

// UnlinkVariables clears the link marker on the project and on every
// variable. Values are untouched; formerly linked variables become ordinary
// local ones.
func (p *Project) UnlinkVariables() {
	p.LinkedFrom = ""
	for _, v := range p.variables {
		v.LinkedFrom = ""
	}
}

// RestoreVariable installs a variable verbatim, bypassing name validation.
// Used by the persistence loader, which must accept documents written before
// the current reserved set existed.
func (p *Project) RestoreVariable(v Variable) {
	p.variables[v.Name] = &Variable{Name: v.Name, Value: v.Value, LinkedFrom: v.LinkedFrom}
}
