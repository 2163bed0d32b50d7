package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of a finished buffer:
// offset, source line (| when unchanged), mnemonic and operand, followed
// by the exception table.
func Disassemble(code *CodeBuffer, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	lines := code.Lines()
	line, next := 0, 0
	offset := 0
	for offset < len(code.Code) {
		prev := line
		for next < len(lines) && lines[next].PC <= offset {
			line = lines[next].Line
			next++
		}
		if offset > 0 && line == prev {
			sb.WriteString(fmt.Sprintf("%04d    | ", offset))
		} else {
			sb.WriteString(fmt.Sprintf("%04d %4d ", offset, line))
		}
		offset = disassembleInstruction(&sb, code, offset)
	}

	table := code.ExceptionTable()
	if len(table) > 0 {
		sb.WriteString("exception table:\n")
		for _, e := range table {
			catchType := "any"
			if e.CatchType != 0 {
				catchType = strings.TrimPrefix(code.Pool.Describe(e.CatchType), "class ")
			}
			sb.WriteString(fmt.Sprintf("  %04d %04d %04d %s\n", e.StartPC, e.EndPC, e.HandlerPC, catchType))
		}
	}

	return sb.String()
}

func u16(code []byte, at int) int {
	if at+1 >= len(code) {
		return 0
	}
	return int(code[at])<<8 | int(code[at+1])
}

func disassembleInstruction(sb *strings.Builder, code *CodeBuffer, offset int) int {
	bytes := code.Code
	op := Opcode(bytes[offset])

	switch {
	case op == BIPUSH && offset+1 < len(bytes):
		sb.WriteString(fmt.Sprintf("%-14s %d\n", op, int8(bytes[offset+1])))
		return offset + 2
	case op == SIPUSH:
		sb.WriteString(fmt.Sprintf("%-14s %d\n", op, int16(u16(bytes, offset+1))))
		return offset + 3
	case op == LDC && offset+1 < len(bytes):
		sb.WriteString(fmt.Sprintf("%-14s #%d // %s\n", op, bytes[offset+1], code.Pool.Describe(uint16(bytes[offset+1]))))
		return offset + 2
	case op == LDC_W || op == LDC2_W || op == GETSTATIC || op == NEW || op == CHECKCAST ||
		op == INVOKEVIRTUAL || op == INVOKESPECIAL || op == INVOKESTATIC:
		idx := uint16(u16(bytes, offset+1))
		sb.WriteString(fmt.Sprintf("%-14s #%d // %s\n", op, idx, code.Pool.Describe(idx)))
		return offset + 3
	case isLocalOp(op) && offset+1 < len(bytes):
		sb.WriteString(fmt.Sprintf("%-14s %d\n", op, bytes[offset+1]))
		return offset + 2
	case op == IINC && offset+2 < len(bytes):
		sb.WriteString(fmt.Sprintf("%-14s %d %d\n", op, bytes[offset+1], int8(bytes[offset+2])))
		return offset + 3
	case op == WIDE && offset+1 < len(bytes):
		inner := Opcode(bytes[offset+1])
		if inner == IINC {
			sb.WriteString(fmt.Sprintf("%-14s %d %d\n", "WIDE IINC", u16(bytes, offset+2), int16(u16(bytes, offset+4))))
			return offset + 6
		}
		sb.WriteString(fmt.Sprintf("%-14s %d\n", "WIDE "+inner.String(), u16(bytes, offset+2)))
		return offset + 4
	case op.IsBranch():
		jump := int16(u16(bytes, offset+1))
		sb.WriteString(fmt.Sprintf("%-14s %04d\n", op, offset+int(jump)))
		return offset + 3
	}

	sb.WriteString(op.String() + "\n")
	return offset + 1
}
