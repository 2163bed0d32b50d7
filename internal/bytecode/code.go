package bytecode

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/funvibe/jmm/internal/config"
)

type labelInfo struct {
	offset int // -1 until placed
	depth  int // stack depth on entry, -1 until known
}

type fixup struct {
	insn  int // offset of the branch instruction
	at    int // offset of its 2-byte operand
	label Label
}

type handler struct {
	start, end, handler Label
	catchType           string
}

// ExceptionEntry is a resolved exception table row.
type ExceptionEntry struct {
	StartPC   int
	EndPC     int
	HandlerPC int
	CatchType uint16 // 0 catches everything
}

type LineEntry struct {
	PC   int
	Line int
}

// CodeBuffer accumulates one method's bytecode. Branches are written with
// a placeholder offset and patched by Finish once every label is placed.
type CodeBuffer struct {
	Code []byte
	Pool *ConstantPool

	labels   []labelInfo
	fixups   []fixup
	handlers []handler
	lines    []LineEntry

	depth     int
	maxDepth  int
	reachable bool
	finished  bool
	errs      []error
}

func NewCodeBuffer(pool *ConstantPool) *CodeBuffer {
	if pool == nil {
		pool = NewConstantPool()
	}
	return &CodeBuffer{
		Code:      make([]byte, 0, 256),
		Pool:      pool,
		reachable: true,
	}
}

// Len returns the number of bytes written so far.
func (c *CodeBuffer) Len() int {
	return len(c.Code)
}

func (c *CodeBuffer) MaxStack() int {
	return c.maxDepth
}

func (c *CodeBuffer) Lines() []LineEntry {
	return c.lines
}

func (c *CodeBuffer) errorf(format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf(format, args...))
}

func (c *CodeBuffer) write(b ...byte) {
	c.Code = append(c.Code, b...)
}

func (c *CodeBuffer) writeU16(v int) {
	c.write(byte(v>>8), byte(v))
}

func (c *CodeBuffer) adjust(delta int) {
	c.depth += delta
	if c.depth < 0 {
		c.errorf("operand stack underflow at offset %d", len(c.Code))
		c.depth = 0
	}
	if c.depth > c.maxDepth {
		c.maxDepth = c.depth
	}
}

func (c *CodeBuffer) after(op Opcode) {
	if op.endsBlock() {
		c.reachable = false
		c.depth = 0
	}
}

func (c *CodeBuffer) Emit(op Opcode) {
	effect, ok := stackEffects[op]
	if !ok || op == BIPUSH || op == SIPUSH || op.IsBranch() || op == NEW || op == CHECKCAST ||
		isLocalOp(op) || op == IINC {
		c.errorf("%s needs an operand", op)
		return
	}
	c.write(byte(op))
	c.adjust(effect)
	c.after(op)
}

func (c *CodeBuffer) EmitInt(op Opcode, value int) {
	switch op {
	case BIPUSH:
		if value < math.MinInt8 || value > math.MaxInt8 {
			c.errorf("BIPUSH operand %d out of range", value)
			return
		}
		c.write(byte(op), byte(int8(value)))
	case SIPUSH:
		if value < math.MinInt16 || value > math.MaxInt16 {
			c.errorf("SIPUSH operand %d out of range", value)
			return
		}
		c.write(byte(op))
		c.writeU16(int(uint16(int16(value))))
	default:
		c.errorf("%s does not take an immediate", op)
		return
	}
	c.adjust(1)
}

func isLocalOp(op Opcode) bool {
	switch op {
	case ILOAD, LLOAD, DLOAD, ALOAD, ISTORE, LSTORE, DSTORE, ASTORE:
		return true
	}
	return false
}

func (c *CodeBuffer) EmitLocal(op Opcode, slot int) {
	if !isLocalOp(op) {
		c.errorf("%s is not a local variable instruction", op)
		return
	}
	switch {
	case slot < 0 || slot > math.MaxUint16:
		c.errorf("local slot %d out of range", slot)
		return
	case slot > math.MaxUint8:
		c.write(byte(WIDE), byte(op))
		c.writeU16(slot)
	default:
		c.write(byte(op), byte(slot))
	}
	c.adjust(stackEffects[op])
}

func (c *CodeBuffer) EmitIinc(slot, delta int) {
	if slot <= math.MaxUint8 && delta >= math.MinInt8 && delta <= math.MaxInt8 {
		c.write(byte(IINC), byte(slot), byte(int8(delta)))
		return
	}
	if slot > math.MaxUint16 || delta < math.MinInt16 || delta > math.MaxInt16 {
		c.errorf("IINC %d %d out of range", slot, delta)
		return
	}
	c.write(byte(WIDE), byte(IINC))
	c.writeU16(slot)
	c.writeU16(int(uint16(int16(delta))))
}

func (c *CodeBuffer) EmitLDC(value any) {
	var idx uint16
	wide := false
	switch v := value.(type) {
	case int32:
		idx = c.Pool.Integer(v)
	case string:
		idx = c.Pool.StringConst(v)
	case int64:
		idx, wide = c.Pool.Long(v), true
	case float64:
		idx, wide = c.Pool.Double(v), true
	default:
		c.errorf("cannot load constant of type %T", value)
		return
	}
	switch {
	case wide:
		c.write(byte(LDC2_W))
		c.writeU16(int(idx))
		c.adjust(2)
	case idx <= math.MaxUint8:
		c.write(byte(LDC), byte(idx))
		c.adjust(1)
	default:
		c.write(byte(LDC_W))
		c.writeU16(int(idx))
		c.adjust(1)
	}
}

func (c *CodeBuffer) EmitType(op Opcode, class string) {
	if op != NEW && op != CHECKCAST {
		c.errorf("%s does not take a class operand", op)
		return
	}
	c.write(byte(op))
	c.writeU16(int(c.Pool.Class(class)))
	c.adjust(stackEffects[op])
}

func (c *CodeBuffer) EmitMember(op Opcode, owner, name, descriptor string) {
	var effect int
	switch op {
	case GETSTATIC:
		c.write(byte(op))
		c.writeU16(int(c.Pool.Fieldref(owner, name, descriptor)))
		effect = DescriptorWords(descriptor)
	case INVOKEVIRTUAL, INVOKESPECIAL, INVOKESTATIC:
		args, ret, err := MethodWords(descriptor)
		if err != nil {
			c.errorf("%s %s.%s: %v", op, owner, name, err)
			return
		}
		c.write(byte(op))
		c.writeU16(int(c.Pool.Methodref(owner, name, descriptor)))
		effect = ret - args
		if op != INVOKESTATIC {
			effect--
		}
	default:
		c.errorf("%s does not take a member operand", op)
		return
	}
	c.adjust(effect)
}

func (c *CodeBuffer) CreateLabel() Label {
	c.labels = append(c.labels, labelInfo{offset: -1, depth: -1})
	return Label(len(c.labels) - 1)
}

func (c *CodeBuffer) validLabel(l Label) bool {
	if int(l) < 0 || int(l) >= len(c.labels) {
		c.errorf("unknown label L%d", l)
		return false
	}
	return true
}

func (c *CodeBuffer) PlaceLabel(l Label) {
	if !c.validLabel(l) {
		return
	}
	info := &c.labels[l]
	if info.offset >= 0 {
		c.errorf("label L%d placed twice", l)
		return
	}
	info.offset = len(c.Code)
	switch {
	case !c.reachable && info.depth >= 0:
		c.depth = info.depth
	case !c.reachable:
		// only reached by a backward branch, which starts from a
		// statement boundary
		c.depth = 0
		info.depth = 0
	case info.depth < 0:
		info.depth = c.depth
	}
	c.reachable = true
}

func (c *CodeBuffer) EmitBranch(op Opcode, l Label) {
	if !op.IsBranch() {
		c.errorf("%s is not a branch", op)
		return
	}
	if !c.validLabel(l) {
		return
	}
	insn := len(c.Code)
	c.write(byte(op), 0xff, 0xff)
	c.fixups = append(c.fixups, fixup{insn: insn, at: insn + 1, label: l})
	c.adjust(stackEffects[op])
	if info := &c.labels[l]; info.depth < 0 {
		info.depth = c.depth
	}
	c.after(op)
}

func (c *CodeBuffer) AddHandler(start, end, handlerLabel Label, catchType string) {
	if !c.validLabel(start) || !c.validLabel(end) || !c.validLabel(handlerLabel) {
		return
	}
	// the handler is entered with the exception on the stack
	if info := &c.labels[handlerLabel]; info.depth < 0 {
		info.depth = 1
	}
	c.handlers = append(c.handlers, handler{start: start, end: end, handler: handlerLabel, catchType: catchType})
}

func (c *CodeBuffer) MarkLine(line int) {
	if line <= 0 {
		return
	}
	pc := len(c.Code)
	if n := len(c.lines); n > 0 {
		last := &c.lines[n-1]
		if last.Line == line {
			return
		}
		if last.PC == pc {
			last.Line = line
			return
		}
	}
	c.lines = append(c.lines, LineEntry{PC: pc, Line: line})
}

// Finish patches every branch offset. It reports contract violations
// collected while emitting, labels that were branched to but never
// placed, and offsets or code sizes the format cannot express.
func (c *CodeBuffer) Finish() error {
	if c.finished {
		return errors.Join(c.errs...)
	}
	c.finished = true
	for _, f := range c.fixups {
		target := c.labels[f.label].offset
		if target < 0 {
			c.errorf("label L%d is never placed", f.label)
			continue
		}
		jump := target - f.insn
		if jump < math.MinInt16 || jump > math.MaxInt16 {
			c.errorf("jump too far: %d bytes", jump)
			continue
		}
		c.Code[f.at] = byte(uint16(int16(jump)) >> 8)
		c.Code[f.at+1] = byte(uint16(int16(jump)))
	}
	for _, h := range c.handlers {
		for _, l := range []Label{h.start, h.end, h.handler} {
			if c.labels[l].offset < 0 {
				c.errorf("handler label L%d is never placed", l)
			}
		}
	}
	if len(c.Code) > config.MaxCodeLength {
		c.errorf("code too large: %d bytes", len(c.Code))
	}
	return errors.Join(c.errs...)
}

// ExceptionTable resolves the handlers in the order they were added.
// Empty ranges are dropped.
func (c *CodeBuffer) ExceptionTable() []ExceptionEntry {
	var out []ExceptionEntry
	for _, h := range c.handlers {
		start, end, at := c.labels[h.start].offset, c.labels[h.end].offset, c.labels[h.handler].offset
		if start < 0 || end < 0 || at < 0 || start >= end {
			continue
		}
		var catchType uint16
		if h.catchType != "" {
			catchType = c.Pool.Class(h.catchType)
		}
		out = append(out, ExceptionEntry{StartPC: start, EndPC: end, HandlerPC: at, CatchType: catchType})
	}
	return out
}

// labelOffset returns where l was placed, or -1.
func (c *CodeBuffer) labelOffset(l Label) int {
	if int(l) < 0 || int(l) >= len(c.labels) {
		return -1
	}
	return c.labels[l].offset
}

// DescriptorWords is the stack size of a field descriptor.
func DescriptorWords(desc string) int {
	switch desc {
	case "J", "D":
		return 2
	case "V":
		return 0
	}
	return 1
}

// MethodWords returns the argument and return stack sizes of a method
// descriptor such as (ILjava/lang/String;)V.
func MethodWords(desc string) (args, ret int, err error) {
	if !strings.HasPrefix(desc, "(") {
		return 0, 0, fmt.Errorf("bad method descriptor %q", desc)
	}
	closing := strings.IndexByte(desc, ')')
	if closing < 0 {
		return 0, 0, fmt.Errorf("bad method descriptor %q", desc)
	}
	params := desc[1:closing]
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case 'J', 'D':
			args += 2
		case 'L':
			end := strings.IndexByte(params[i:], ';')
			if end < 0 {
				return 0, 0, fmt.Errorf("bad method descriptor %q", desc)
			}
			i += end
			args++
		case '[':
			for i < len(params) && params[i] == '[' {
				i++
			}
			if i < len(params) && params[i] == 'L' {
				end := strings.IndexByte(params[i:], ';')
				if end < 0 {
					return 0, 0, fmt.Errorf("bad method descriptor %q", desc)
				}
				i += end
			}
			args++
		default:
			args++
		}
	}
	return args, DescriptorWords(desc[closing+1:]), nil
}
