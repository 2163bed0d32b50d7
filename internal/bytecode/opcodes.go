// Package bytecode holds the JVM instruction set subset the compiler
// emits, the Emitter contract code generation is written against, and
// CodeBuffer, its label-resolving implementation.
package bytecode

// Opcode is a JVM instruction opcode.
type Opcode byte

const (
	NOP         Opcode = 0x00
	ACONST_NULL Opcode = 0x01
	ICONST_M1   Opcode = 0x02
	ICONST_0    Opcode = 0x03
	ICONST_1    Opcode = 0x04
	ICONST_2    Opcode = 0x05
	ICONST_3    Opcode = 0x06
	ICONST_4    Opcode = 0x07
	ICONST_5    Opcode = 0x08
	LCONST_0    Opcode = 0x09
	LCONST_1    Opcode = 0x0a
	DCONST_0    Opcode = 0x0e
	DCONST_1    Opcode = 0x0f
	BIPUSH      Opcode = 0x10
	SIPUSH      Opcode = 0x11
	LDC         Opcode = 0x12
	LDC_W       Opcode = 0x13
	LDC2_W      Opcode = 0x14

	// Locals
	ILOAD  Opcode = 0x15
	LLOAD  Opcode = 0x16
	DLOAD  Opcode = 0x18
	ALOAD  Opcode = 0x19
	ISTORE Opcode = 0x36
	LSTORE Opcode = 0x37
	DSTORE Opcode = 0x39
	ASTORE Opcode = 0x3a
	IINC   Opcode = 0x84
	WIDE   Opcode = 0xc4

	// Stack
	POP  Opcode = 0x57
	POP2 Opcode = 0x58
	DUP  Opcode = 0x59
	DUP2 Opcode = 0x5c

	// Arithmetic
	IADD  Opcode = 0x60
	LADD  Opcode = 0x61
	DADD  Opcode = 0x63
	ISUB  Opcode = 0x64
	LSUB  Opcode = 0x65
	DSUB  Opcode = 0x67
	IMUL  Opcode = 0x68
	LMUL  Opcode = 0x69
	DMUL  Opcode = 0x6b
	IDIV  Opcode = 0x6c
	LDIV  Opcode = 0x6d
	DDIV  Opcode = 0x6f
	IREM  Opcode = 0x70
	LREM  Opcode = 0x71
	DREM  Opcode = 0x73
	INEG  Opcode = 0x74
	LNEG  Opcode = 0x75
	DNEG  Opcode = 0x77
	ISHL  Opcode = 0x78
	ISHR  Opcode = 0x7a
	IUSHR Opcode = 0x7c
	IAND  Opcode = 0x7e
	IOR   Opcode = 0x80
	IXOR  Opcode = 0x82

	// Conversions
	L2I Opcode = 0x88
	D2I Opcode = 0x8e

	// Comparison
	LCMP  Opcode = 0x94
	DCMPL Opcode = 0x97
	DCMPG Opcode = 0x98

	// Branches
	IFEQ      Opcode = 0x99
	IFNE      Opcode = 0x9a
	IFLT      Opcode = 0x9b
	IFGE      Opcode = 0x9c
	IFGT      Opcode = 0x9d
	IFLE      Opcode = 0x9e
	IF_ICMPEQ Opcode = 0x9f
	IF_ICMPNE Opcode = 0xa0
	IF_ICMPLT Opcode = 0xa1
	IF_ICMPGE Opcode = 0xa2
	IF_ICMPGT Opcode = 0xa3
	IF_ICMPLE Opcode = 0xa4
	IF_ACMPEQ Opcode = 0xa5
	IF_ACMPNE Opcode = 0xa6
	GOTO      Opcode = 0xa7
	IFNULL    Opcode = 0xc6
	IFNONNULL Opcode = 0xc7

	RETURN Opcode = 0xb1
	ATHROW Opcode = 0xbf

	// Members and objects
	GETSTATIC     Opcode = 0xb2
	INVOKEVIRTUAL Opcode = 0xb6
	INVOKESPECIAL Opcode = 0xb7
	INVOKESTATIC  Opcode = 0xb8
	NEW           Opcode = 0xbb
	CHECKCAST     Opcode = 0xc0
)

var OpcodeNames = map[Opcode]string{
	NOP: "NOP", ACONST_NULL: "ACONST_NULL",
	ICONST_M1: "ICONST_M1", ICONST_0: "ICONST_0", ICONST_1: "ICONST_1", ICONST_2: "ICONST_2",
	ICONST_3: "ICONST_3", ICONST_4: "ICONST_4", ICONST_5: "ICONST_5",
	LCONST_0: "LCONST_0", LCONST_1: "LCONST_1", DCONST_0: "DCONST_0", DCONST_1: "DCONST_1",
	BIPUSH: "BIPUSH", SIPUSH: "SIPUSH", LDC: "LDC", LDC_W: "LDC_W", LDC2_W: "LDC2_W",
	ILOAD: "ILOAD", LLOAD: "LLOAD", DLOAD: "DLOAD", ALOAD: "ALOAD",
	ISTORE: "ISTORE", LSTORE: "LSTORE", DSTORE: "DSTORE", ASTORE: "ASTORE",
	IINC: "IINC", WIDE: "WIDE",
	POP: "POP", POP2: "POP2", DUP: "DUP", DUP2: "DUP2",
	IADD: "IADD", LADD: "LADD", DADD: "DADD", ISUB: "ISUB", LSUB: "LSUB", DSUB: "DSUB",
	IMUL: "IMUL", LMUL: "LMUL", DMUL: "DMUL", IDIV: "IDIV", LDIV: "LDIV", DDIV: "DDIV",
	IREM: "IREM", LREM: "LREM", DREM: "DREM", INEG: "INEG", LNEG: "LNEG", DNEG: "DNEG",
	ISHL: "ISHL", ISHR: "ISHR", IUSHR: "IUSHR", IAND: "IAND", IOR: "IOR", IXOR: "IXOR",
	L2I: "L2I", D2I: "D2I",
	LCMP: "LCMP", DCMPL: "DCMPL", DCMPG: "DCMPG",
	IFEQ: "IFEQ", IFNE: "IFNE", IFLT: "IFLT", IFGE: "IFGE", IFGT: "IFGT", IFLE: "IFLE",
	IF_ICMPEQ: "IF_ICMPEQ", IF_ICMPNE: "IF_ICMPNE", IF_ICMPLT: "IF_ICMPLT",
	IF_ICMPGE: "IF_ICMPGE", IF_ICMPGT: "IF_ICMPGT", IF_ICMPLE: "IF_ICMPLE",
	IF_ACMPEQ: "IF_ACMPEQ", IF_ACMPNE: "IF_ACMPNE", GOTO: "GOTO",
	IFNULL: "IFNULL", IFNONNULL: "IFNONNULL",
	RETURN: "RETURN", ATHROW: "ATHROW",
	GETSTATIC: "GETSTATIC", INVOKEVIRTUAL: "INVOKEVIRTUAL", INVOKESPECIAL: "INVOKESPECIAL",
	INVOKESTATIC: "INVOKESTATIC", NEW: "NEW", CHECKCAST: "CHECKCAST",
}

func (op Opcode) String() string {
	if name, ok := OpcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsBranch reports whether op takes a 16-bit branch offset.
func (op Opcode) IsBranch() bool {
	return (op >= IFEQ && op <= GOTO) || op == IFNULL || op == IFNONNULL
}

// Negate returns the conditional branch with the opposite condition.
// GOTO and non-branches are returned unchanged.
func (op Opcode) Negate() Opcode {
	switch op {
	case IFEQ:
		return IFNE
	case IFNE:
		return IFEQ
	case IFLT:
		return IFGE
	case IFGE:
		return IFLT
	case IFGT:
		return IFLE
	case IFLE:
		return IFGT
	case IF_ICMPEQ:
		return IF_ICMPNE
	case IF_ICMPNE:
		return IF_ICMPEQ
	case IF_ICMPLT:
		return IF_ICMPGE
	case IF_ICMPGE:
		return IF_ICMPLT
	case IF_ICMPGT:
		return IF_ICMPLE
	case IF_ICMPLE:
		return IF_ICMPGT
	case IF_ACMPEQ:
		return IF_ACMPNE
	case IF_ACMPNE:
		return IF_ACMPEQ
	case IFNULL:
		return IFNONNULL
	case IFNONNULL:
		return IFNULL
	}
	return op
}

// endsBlock reports whether control never falls through op.
func (op Opcode) endsBlock() bool {
	return op == GOTO || op == RETURN || op == ATHROW
}

// stackEffects is the operand-stack delta, in words, of every opcode
// whose effect does not depend on an operand.
var stackEffects = map[Opcode]int{
	NOP: 0, ACONST_NULL: 1,
	ICONST_M1: 1, ICONST_0: 1, ICONST_1: 1, ICONST_2: 1, ICONST_3: 1, ICONST_4: 1, ICONST_5: 1,
	LCONST_0: 2, LCONST_1: 2, DCONST_0: 2, DCONST_1: 2,
	BIPUSH: 1, SIPUSH: 1,
	ILOAD: 1, LLOAD: 2, DLOAD: 2, ALOAD: 1,
	ISTORE: -1, LSTORE: -2, DSTORE: -2, ASTORE: -1,
	IINC: 0,
	POP: -1, POP2: -2, DUP: 1, DUP2: 2,
	IADD: -1, ISUB: -1, IMUL: -1, IDIV: -1, IREM: -1,
	LADD: -2, LSUB: -2, LMUL: -2, LDIV: -2, LREM: -2,
	DADD: -2, DSUB: -2, DMUL: -2, DDIV: -2, DREM: -2,
	INEG: 0, LNEG: 0, DNEG: 0,
	ISHL: -1, ISHR: -1, IUSHR: -1, IAND: -1, IOR: -1, IXOR: -1,
	L2I: -1, D2I: -1,
	LCMP: -3, DCMPL: -3, DCMPG: -3,
	IFEQ: -1, IFNE: -1, IFLT: -1, IFGE: -1, IFGT: -1, IFLE: -1,
	IF_ICMPEQ: -2, IF_ICMPNE: -2, IF_ICMPLT: -2, IF_ICMPGE: -2, IF_ICMPGT: -2, IF_ICMPLE: -2,
	IF_ACMPEQ: -2, IF_ACMPNE: -2, IFNULL: -1, IFNONNULL: -1,
	GOTO: 0, RETURN: 0, ATHROW: -1,
	NEW: 1, CHECKCAST: 0,
}
