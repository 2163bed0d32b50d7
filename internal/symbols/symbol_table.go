// Package symbols tracks the local variables of the method being compiled.
//
// Scopes are chained tables (NewEnclosedSymbolTable); all tables of one
// method share a slot allocator, so a variable's slot stays valid for the
// code generator and the method's max_locals is known after analysis.
package symbols

import (
	"github.com/funvibe/jmm/internal/typesystem"
)

type ScopeType int

const (
	ScopeFunction ScopeType = iota // the method body; holds parameters
	ScopeBlock
)

type Symbol struct {
	Name string
	Type typesystem.Type
	Slot int
	Line int // declaration line
}

type slotAllocator struct {
	next int
	max  int
}

func (a *slotAllocator) allocate(width int) int {
	slot := a.next
	a.next += width
	if a.next > a.max {
		a.max = a.next
	}
	return slot
}

type SymbolTable struct {
	store     map[string]*Symbol
	outer     *SymbolTable
	scopeType ScopeType
	slots     *slotAllocator
	// first slot of this scope; slots above it are released on exit
	base int
}

// NewSymbolTable creates the method-level table. Slots below firstSlot are
// reserved for parameters the caller defines itself.
func NewSymbolTable(firstSlot int) *SymbolTable {
	return &SymbolTable{
		store:     make(map[string]*Symbol),
		scopeType: ScopeFunction,
		slots:     &slotAllocator{next: firstSlot, max: firstSlot},
		base:      firstSlot,
	}
}

func NewEnclosedSymbolTable(outer *SymbolTable, scopeType ScopeType) *SymbolTable {
	return &SymbolTable{
		store:     make(map[string]*Symbol),
		outer:     outer,
		scopeType: scopeType,
		slots:     outer.slots,
		base:      outer.slots.next,
	}
}

// Close releases the slots of this scope for reuse by later siblings and
// returns the enclosing table.
func (s *SymbolTable) Close() *SymbolTable {
	s.slots.next = s.base
	return s.outer
}

func (s *SymbolTable) Outer() *SymbolTable { return s.outer }

func (s *SymbolTable) ScopeType() ScopeType { return s.scopeType }

// Define declares name in this scope. Locals may not shadow other locals
// of the same method, so when name is visible already the existing symbol
// is returned with ok=false.
func (s *SymbolTable) Define(name string, typ typesystem.Type, line int) (sym *Symbol, ok bool) {
	if existing, found := s.Find(name); found {
		return existing, false
	}
	sym = &Symbol{Name: name, Type: typ, Line: line, Slot: s.slots.allocate(slotWidth(typ))}
	s.store[name] = sym
	return sym, true
}

// DefineAt declares a parameter at a fixed slot, below the first slot
// handed out by Define.
func (s *SymbolTable) DefineAt(name string, typ typesystem.Type, slot int) *Symbol {
	sym := &Symbol{Name: name, Type: typ, Slot: slot}
	s.store[name] = sym
	return sym
}

// AllocateTemp reserves an unnamed slot in this scope.
func (s *SymbolTable) AllocateTemp(width int) int {
	return s.slots.allocate(width)
}

func (s *SymbolTable) Find(name string) (*Symbol, bool) {
	for t := s; t != nil; t = t.outer {
		if sym, ok := t.store[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// MaxLocals is the highest slot count any point of the method needed.
func (s *SymbolTable) MaxLocals() int {
	return s.slots.max
}

func slotWidth(t typesystem.Type) int {
	if w := t.Width(); w > 0 {
		return w
	}
	// error-typed declarations still occupy a slot
	return 1
}
