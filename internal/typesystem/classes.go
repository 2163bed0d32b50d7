package typesystem

import (
	"strings"

	"github.com/funvibe/jmm/internal/config"
)

// superclasses is the slice of the runtime class hierarchy j-- programs
// can name: the object root, strings, and the common throwables.
var superclasses = map[string]string{
	config.ObjectClass:                        "",
	config.StringClass:                        config.ObjectClass,
	config.ThrowableClass:                     config.ObjectClass,
	"java/lang/Exception":                     config.ThrowableClass,
	"java/lang/Error":                         config.ThrowableClass,
	"java/lang/RuntimeException":              "java/lang/Exception",
	"java/lang/ArithmeticException":           "java/lang/RuntimeException",
	"java/lang/IllegalArgumentException":      "java/lang/RuntimeException",
	"java/lang/IllegalStateException":         "java/lang/RuntimeException",
	"java/lang/NullPointerException":          "java/lang/RuntimeException",
	"java/lang/UnsupportedOperationException": "java/lang/RuntimeException",
	"java/lang/IndexOutOfBoundsException":     "java/lang/RuntimeException",
}

// LookupClass resolves a simple (Exception), dotted (java.lang.Exception)
// or internal (java/lang/Exception) class name.
func LookupClass(name string) (Type, bool) {
	internal := strings.ReplaceAll(name, ".", "/")
	if !strings.Contains(internal, "/") {
		internal = "java/lang/" + internal
	}
	if _, ok := superclasses[internal]; !ok {
		return Type{}, false
	}
	return Ref(internal), true
}

// Superclass returns the internal name of class's superclass, or "" for
// the root and unknown classes.
func Superclass(class string) string {
	return superclasses[class]
}

// IsSubclass reports whether class is sub or a subclass of it.
func IsSubclass(sub, class string) bool {
	for c := sub; c != ""; c = Superclass(c) {
		if c == class {
			return true
		}
	}
	return false
}

// IsThrowable reports whether t can be thrown or caught.
func (t Type) IsThrowable() bool {
	return t.Tag == Reference && IsSubclass(t.Class, config.ThrowableClass)
}
