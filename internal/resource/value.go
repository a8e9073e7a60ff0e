package resource

// State describes how much is known about a template property value during a
// static scan. Properties fed by deploy-time references (Ref, Fn::GetAtt, ...)
// exist in the template but have no concrete value yet; they are Unresolved,
// which rules must treat distinctly from both Absent and any Known value.
type State uint8

const (
	// StateAbsent means the property was not declared at all.
	StateAbsent State = iota

	// StateUnresolved means the property is declared but its value depends on
	// a deploy-time computation and is unknown to the scanner.
	StateUnresolved

	// StateKnown means the property has a concrete value.
	StateKnown
)

// Value is a three-state container for a resolvable template property.
// The zero Value is Absent.
type Value[T any] struct {
	state State
	v     T
}

// Known returns a Value holding the concrete value v.
func Known[T any](v T) Value[T] {
	return Value[T]{state: StateKnown, v: v}
}

// Unresolved returns a Value marking a declared but deploy-time-resolved property.
func Unresolved[T any]() Value[T] {
	return Value[T]{state: StateUnresolved}
}

// Absent returns the explicit absent Value. Equivalent to the zero Value.
func Absent[T any]() Value[T] {
	return Value[T]{}
}

// State returns the resolution state.
func (val Value[T]) State() State { return val.state }

// IsKnown reports whether the property has a concrete value.
func (val Value[T]) IsKnown() bool { return val.state == StateKnown }

// IsUnresolved reports whether the property is declared but deploy-time-resolved.
func (val Value[T]) IsUnresolved() bool { return val.state == StateUnresolved }

// IsAbsent reports whether the property was not declared.
func (val Value[T]) IsAbsent() bool { return val.state == StateAbsent }

// Get returns the concrete value and whether one is present.
func (val Value[T]) Get() (T, bool) {
	return val.v, val.state == StateKnown
}

// Or returns the concrete value, or def when the property is Absent or Unresolved.
func (val Value[T]) Or(def T) T {
	if val.state == StateKnown {
		return val.v
	}
	return def
}

// IsTrue reports whether a boolean property is known and true.
// Unresolved and Absent are both "not proven true"; most rules raise on
// !IsTrue, while the public-access check raises on IsTrue.
func IsTrue(val Value[bool]) bool {
	return val.state == StateKnown && val.v
}

// IsFalse reports whether a boolean property is known and explicitly false.
func IsFalse(val Value[bool]) bool {
	return val.state == StateKnown && !val.v
}
