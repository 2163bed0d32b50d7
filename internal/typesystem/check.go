package typesystem

import (
	"strings"

	"github.com/funvibe/jmm/internal/diagnostics"
)

// MustMatchExpected reports a type mismatch at line unless t equals
// expected. Error types match silently.
func (t Type) MustMatchExpected(r diagnostics.Reporter, line int, expected Type) bool {
	if t.Tag == Error || expected.Tag == Error || t.Equals(expected) {
		return true
	}
	r.Report(diagnostics.ErrA002, line, "Type %s doesn't match type %s", t, expected)
	return false
}

// MustMatchOneOf reports a type mismatch at line unless t equals one of
// the candidates. Error types match silently.
func (t Type) MustMatchOneOf(r diagnostics.Reporter, line int, candidates ...Type) bool {
	if t.Tag == Error {
		return true
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		if t.Equals(c) {
			return true
		}
		names[i] = c.String()
	}
	r.Report(diagnostics.ErrA002, line, "Type %s doesn't match any of the expected types {%s}", t, strings.Join(names, ", "))
	return false
}

// MustBeAssignableTo reports a mismatch unless a t value can be stored
// where target is expected.
func (t Type) MustBeAssignableTo(r diagnostics.Reporter, line int, target Type) bool {
	if t.IsAssignableTo(target) {
		return true
	}
	r.Report(diagnostics.ErrA002, line, "Type %s is not assignable to type %s", t, target)
	return false
}
