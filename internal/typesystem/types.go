package typesystem

import (
	"strings"

	"github.com/funvibe/jmm/internal/config"
)

// Tag is the closed set of j-- type categories.
type Tag int

const (
	// Unset marks an expression that has not been analyzed yet.
	Unset Tag = iota
	Int
	Long
	Double
	Boolean
	Char
	String
	Void
	Null
	Reference
	// Error is assigned to expressions that failed analysis. It matches
	// everything, so one mistake yields one diagnostic.
	Error
)

// Type is a type tag plus, for reference types, the internal class name
// (java/lang/Exception). Types are values; compare them with Equals.
type Type struct {
	Tag   Tag
	Class string
}

var (
	INT     = Type{Tag: Int}
	LONG    = Type{Tag: Long}
	DOUBLE  = Type{Tag: Double}
	BOOLEAN = Type{Tag: Boolean}
	CHAR    = Type{Tag: Char}
	STRING  = Type{Tag: String, Class: config.StringClass}
	VOID    = Type{Tag: Void}
	NULL    = Type{Tag: Null}
	ERROR   = Type{Tag: Error}
)

// Ref returns the reference type for an internal class name. The string
// class always maps to STRING.
func Ref(class string) Type {
	if class == config.StringClass {
		return STRING
	}
	return Type{Tag: Reference, Class: class}
}

// Primitive maps a type keyword to its type.
func Primitive(keyword string) (Type, bool) {
	switch keyword {
	case "int":
		return INT, true
	case "long":
		return LONG, true
	case "double":
		return DOUBLE, true
	case "boolean":
		return BOOLEAN, true
	case "char":
		return CHAR, true
	case "void":
		return VOID, true
	}
	return Type{}, false
}

func (t Type) String() string {
	switch t.Tag {
	case Unset:
		return ""
	case Int:
		return "int"
	case Long:
		return "long"
	case Double:
		return "double"
	case Boolean:
		return "boolean"
	case Char:
		return "char"
	case String:
		return "String"
	case Void:
		return "void"
	case Null:
		return "null"
	case Error:
		return "<error>"
	}
	return t.Class[strings.LastIndex(t.Class, "/")+1:]
}

func (t Type) Equals(other Type) bool {
	if t.Tag != other.Tag {
		return false
	}
	return t.Tag != Reference || t.Class == other.Class
}

func (t Type) IsUnset() bool { return t.Tag == Unset }
func (t Type) IsError() bool { return t.Tag == Error }

func (t Type) IsNumeric() bool {
	return t.Tag == Int || t.Tag == Long || t.Tag == Double
}

// IsReference reports whether values of t live in reference slots.
func (t Type) IsReference() bool {
	return t.Tag == String || t.Tag == Reference || t.Tag == Null
}

// Width is the number of local-variable slots (and operand stack words)
// a value of t occupies.
func (t Type) Width() int {
	switch t.Tag {
	case Long, Double:
		return 2
	case Void, Unset:
		return 0
	}
	return 1
}

// InternalName is the class name for reference types, "" otherwise.
func (t Type) InternalName() string {
	if t.Tag == String || t.Tag == Reference {
		return t.Class
	}
	return ""
}

// Descriptor is the JVM field descriptor of t.
func (t Type) Descriptor() string {
	switch t.Tag {
	case Int:
		return "I"
	case Long:
		return "J"
	case Double:
		return "D"
	case Boolean:
		return "Z"
	case Char:
		return "C"
	case Void:
		return "V"
	case String, Reference:
		return "L" + t.Class + ";"
	}
	return "Ljava/lang/Object;"
}

// IsAssignableTo reports whether a value of t may be stored where target
// is expected. Primitives only match themselves; references follow the
// known class hierarchy.
func (t Type) IsAssignableTo(target Type) bool {
	if t.Tag == Error || target.Tag == Error {
		return true
	}
	if t.Equals(target) {
		return true
	}
	if !target.IsReference() || target.Tag == Null {
		return false
	}
	switch t.Tag {
	case Null:
		return true
	case String, Reference:
		return IsSubclass(t.Class, target.Class)
	}
	return false
}
