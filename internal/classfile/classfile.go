// Package classfile serializes a compiled class: one public class with
// a default constructor and static methods whose code comes from
// bytecode.CodeBuffer.
package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/funvibe/jmm/internal/bytecode"
	"github.com/funvibe/jmm/internal/config"
)

const Magic = 0xCAFEBABE

// Access flags
const (
	AccPublic uint16 = 0x0001
	AccStatic uint16 = 0x0008
	AccSuper  uint16 = 0x0020
)

type Method struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Code        *bytecode.CodeBuffer
	MaxLocals   int
}

type Class struct {
	Name        string // internal name
	SuperName   string
	AccessFlags uint16
	Version     int // major version
	SourceFile  string
	Pool        *bytecode.ConstantPool
	Methods     []*Method
}

// New creates a public class extending java/lang/Object. Method code must
// be emitted against the same pool.
func New(name string, version int, pool *bytecode.ConstantPool) *Class {
	if pool == nil {
		pool = bytecode.NewConstantPool()
	}
	if version == 0 {
		version = config.DefaultClassVersion
	}
	return &Class{
		Name:        name,
		SuperName:   config.ObjectClass,
		AccessFlags: AccPublic | AccSuper,
		Version:     version,
		Pool:        pool,
	}
}

func (c *Class) AddMethod(m *Method) {
	c.Methods = append(c.Methods, m)
}

// AddDefaultConstructor adds public <init>()V calling the superclass's.
func (c *Class) AddDefaultConstructor() error {
	code := bytecode.NewCodeBuffer(c.Pool)
	code.EmitLocal(bytecode.ALOAD, 0)
	code.EmitMember(bytecode.INVOKESPECIAL, c.SuperName, config.InitMethodName, "()V")
	code.Emit(bytecode.RETURN)
	if err := code.Finish(); err != nil {
		return err
	}
	c.AddMethod(&Method{AccessFlags: AccPublic, Name: config.InitMethodName, Descriptor: "()V", Code: code, MaxLocals: 1})
	return nil
}

// Bytes serializes the class.
func (c *Class) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the class file. Everything after the constant pool is
// built first, since building it adds pool entries.
func (c *Class) WriteTo(w io.Writer) (int64, error) {
	body, err := c.body()
	if err != nil {
		return 0, err
	}

	var head []byte
	head = binary.BigEndian.AppendUint32(head, Magic)
	head = binary.BigEndian.AppendUint16(head, 0)
	head = binary.BigEndian.AppendUint16(head, uint16(c.Version))

	var total int64
	n, err := w.Write(head)
	total += int64(n)
	if err != nil {
		return total, err
	}
	m, err := c.Pool.WriteTo(w)
	total += m
	if err != nil {
		return total, err
	}
	n, err = w.Write(body)
	total += int64(n)
	return total, err
}

func (c *Class) body() ([]byte, error) {
	var b []byte
	b = binary.BigEndian.AppendUint16(b, c.AccessFlags)
	b = binary.BigEndian.AppendUint16(b, c.Pool.Class(c.Name))
	b = binary.BigEndian.AppendUint16(b, c.Pool.Class(c.SuperName))
	b = binary.BigEndian.AppendUint16(b, 0) // interfaces
	b = binary.BigEndian.AppendUint16(b, 0) // fields

	b = binary.BigEndian.AppendUint16(b, uint16(len(c.Methods)))
	for _, m := range c.Methods {
		mb, err := c.method(m)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", m.Name, err)
		}
		b = append(b, mb...)
	}

	if c.SourceFile != "" {
		b = binary.BigEndian.AppendUint16(b, 1)
		b = binary.BigEndian.AppendUint16(b, c.Pool.Utf8("SourceFile"))
		b = binary.BigEndian.AppendUint32(b, 2)
		b = binary.BigEndian.AppendUint16(b, c.Pool.Utf8(c.SourceFile))
	} else {
		b = binary.BigEndian.AppendUint16(b, 0)
	}
	return b, nil
}

func (c *Class) method(m *Method) ([]byte, error) {
	var b []byte
	b = binary.BigEndian.AppendUint16(b, m.AccessFlags)
	b = binary.BigEndian.AppendUint16(b, c.Pool.Utf8(m.Name))
	b = binary.BigEndian.AppendUint16(b, c.Pool.Utf8(m.Descriptor))
	if m.Code == nil {
		return binary.BigEndian.AppendUint16(b, 0), nil
	}
	if m.Code.Pool != c.Pool {
		return nil, fmt.Errorf("code was emitted against a different constant pool")
	}
	if err := m.Code.Finish(); err != nil {
		return nil, err
	}
	code, err := c.codeAttribute(m)
	if err != nil {
		return nil, err
	}
	b = binary.BigEndian.AppendUint16(b, 1)
	return append(b, code...), nil
}

func (c *Class) codeAttribute(m *Method) ([]byte, error) {
	cb := m.Code
	if len(cb.Code) == 0 {
		return nil, fmt.Errorf("empty code")
	}
	table := cb.ExceptionTable()

	var inner []byte
	inner = binary.BigEndian.AppendUint16(inner, uint16(cb.MaxStack()))
	inner = binary.BigEndian.AppendUint16(inner, uint16(m.MaxLocals))
	inner = binary.BigEndian.AppendUint32(inner, uint32(len(cb.Code)))
	inner = append(inner, cb.Code...)
	inner = binary.BigEndian.AppendUint16(inner, uint16(len(table)))
	for _, e := range table {
		inner = binary.BigEndian.AppendUint16(inner, uint16(e.StartPC))
		inner = binary.BigEndian.AppendUint16(inner, uint16(e.EndPC))
		inner = binary.BigEndian.AppendUint16(inner, uint16(e.HandlerPC))
		inner = binary.BigEndian.AppendUint16(inner, e.CatchType)
	}

	lines := cb.Lines()
	if len(lines) == 0 {
		inner = binary.BigEndian.AppendUint16(inner, 0)
	} else {
		inner = binary.BigEndian.AppendUint16(inner, 1)
		inner = binary.BigEndian.AppendUint16(inner, c.Pool.Utf8("LineNumberTable"))
		inner = binary.BigEndian.AppendUint32(inner, uint32(2+4*len(lines)))
		inner = binary.BigEndian.AppendUint16(inner, uint16(len(lines)))
		for _, l := range lines {
			inner = binary.BigEndian.AppendUint16(inner, uint16(l.PC))
			inner = binary.BigEndian.AppendUint16(inner, uint16(l.Line))
		}
	}

	var b []byte
	b = binary.BigEndian.AppendUint16(b, c.Pool.Utf8("Code"))
	b = binary.BigEndian.AppendUint32(b, uint32(len(inner)))
	return append(b, inner...), nil
}
