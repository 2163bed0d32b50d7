package bytecode

// Label is a symbolic code position. It is created before it is placed;
// branches may refer to it in either order.
type Label int

// Emitter is the contract code generation writes against. Instructions
// are appended in call order; labels are resolved by the implementation.
type Emitter interface {
	// Emit appends an instruction without operands.
	Emit(op Opcode)
	// EmitInt appends BIPUSH or SIPUSH with its immediate.
	EmitInt(op Opcode, value int)
	// EmitLocal appends a load or store of slot.
	EmitLocal(op Opcode, slot int)
	EmitIinc(slot, delta int)
	// EmitLDC loads an int32, int64, float64 or string constant.
	EmitLDC(value any)
	// EmitType appends NEW or CHECKCAST of an internal class name.
	EmitType(op Opcode, class string)
	// EmitMember appends a field access or method invocation.
	EmitMember(op Opcode, owner, name, descriptor string)

	CreateLabel() Label
	PlaceLabel(l Label)
	EmitBranch(op Opcode, l Label)

	// AddHandler protects [start, end) with handler. An empty catchType
	// catches everything.
	AddHandler(start, end, handler Label, catchType string)
	// MarkLine attributes the following instructions to a source line.
	MarkLine(line int)
}
