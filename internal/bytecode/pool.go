package bytecode

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf16"
)

type ConstantTag byte

const (
	TagUtf8        ConstantTag = 1
	TagInteger     ConstantTag = 3
	TagLong        ConstantTag = 5
	TagDouble      ConstantTag = 6
	TagClass       ConstantTag = 7
	TagString      ConstantTag = 8
	TagFieldref    ConstantTag = 9
	TagMethodref   ConstantTag = 10
	TagNameAndType ConstantTag = 12
)

// Constant is one constant pool entry. Which fields are meaningful
// depends on Tag; Ref1/Ref2 are indices of other entries.
type Constant struct {
	Tag    ConstantTag
	Int    int32
	Long   int64
	Double float64
	Text   string
	Ref1   uint16
	Ref2   uint16
}

// ConstantPool is a deduplicating class file constant pool. Index 0 is
// unused, and long/double entries take two indices, as the format wants.
type ConstantPool struct {
	entries []Constant
	index   map[string]uint16
}

func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		entries: make([]Constant, 1, 64),
		index:   make(map[string]uint16),
	}
}

// Count is the constant_pool_count of the class file.
func (p *ConstantPool) Count() int {
	return len(p.entries)
}

func (p *ConstantPool) Get(i uint16) Constant {
	return p.entries[i]
}

func (p *ConstantPool) add(key string, c Constant) uint16 {
	if i, ok := p.index[key]; ok {
		return i
	}
	i := uint16(len(p.entries))
	p.entries = append(p.entries, c)
	if c.Tag == TagLong || c.Tag == TagDouble {
		p.entries = append(p.entries, Constant{})
	}
	p.index[key] = i
	return i
}

func (p *ConstantPool) Utf8(s string) uint16 {
	return p.add("u:"+s, Constant{Tag: TagUtf8, Text: s})
}

func (p *ConstantPool) Integer(v int32) uint16 {
	return p.add(fmt.Sprintf("i:%d", v), Constant{Tag: TagInteger, Int: v})
}

func (p *ConstantPool) Long(v int64) uint16 {
	return p.add(fmt.Sprintf("j:%d", v), Constant{Tag: TagLong, Long: v})
}

func (p *ConstantPool) Double(v float64) uint16 {
	// keyed by bits so 0.0 and -0.0 stay apart
	return p.add(fmt.Sprintf("d:%x", math.Float64bits(v)), Constant{Tag: TagDouble, Double: v})
}

func (p *ConstantPool) StringConst(s string) uint16 {
	ref := p.Utf8(s)
	return p.add("s:"+s, Constant{Tag: TagString, Ref1: ref})
}

func (p *ConstantPool) Class(internalName string) uint16 {
	ref := p.Utf8(internalName)
	return p.add("c:"+internalName, Constant{Tag: TagClass, Ref1: ref})
}

func (p *ConstantPool) NameAndType(name, descriptor string) uint16 {
	n, d := p.Utf8(name), p.Utf8(descriptor)
	return p.add("nt:"+name+":"+descriptor, Constant{Tag: TagNameAndType, Ref1: n, Ref2: d})
}

func (p *ConstantPool) Fieldref(owner, name, descriptor string) uint16 {
	c, nt := p.Class(owner), p.NameAndType(name, descriptor)
	return p.add("f:"+owner+"."+name+":"+descriptor, Constant{Tag: TagFieldref, Ref1: c, Ref2: nt})
}

func (p *ConstantPool) Methodref(owner, name, descriptor string) uint16 {
	c, nt := p.Class(owner), p.NameAndType(name, descriptor)
	return p.add("m:"+owner+"."+name+":"+descriptor, Constant{Tag: TagMethodref, Ref1: c, Ref2: nt})
}

// Describe renders entry i the way javap does, for listings.
func (p *ConstantPool) Describe(i uint16) string {
	if int(i) >= len(p.entries) || i == 0 {
		return fmt.Sprintf("#%d?", i)
	}
	c := p.entries[i]
	switch c.Tag {
	case TagUtf8:
		return c.Text
	case TagInteger:
		return fmt.Sprintf("int %d", c.Int)
	case TagLong:
		return fmt.Sprintf("long %dl", c.Long)
	case TagDouble:
		return fmt.Sprintf("double %gd", c.Double)
	case TagString:
		return fmt.Sprintf("String %q", p.entries[c.Ref1].Text)
	case TagClass:
		return "class " + p.entries[c.Ref1].Text
	case TagNameAndType:
		return p.entries[c.Ref1].Text + ":" + p.entries[c.Ref2].Text
	case TagFieldref, TagMethodref:
		owner := p.entries[p.entries[c.Ref1].Ref1].Text
		return owner + "." + p.Describe(c.Ref2)
	}
	return fmt.Sprintf("#%d", i)
}

// WriteTo writes constant_pool_count followed by the entries.
func (p *ConstantPool) WriteTo(w io.Writer) (int64, error) {
	if len(p.entries) > math.MaxUint16 {
		return 0, fmt.Errorf("constant pool too large: %d entries", len(p.entries))
	}
	var buf []byte
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(p.entries)))
	for i := 1; i < len(p.entries); i++ {
		c := p.entries[i]
		buf = append(buf, byte(c.Tag))
		switch c.Tag {
		case TagUtf8:
			text := modifiedUTF8(c.Text)
			if len(text) > math.MaxUint16 {
				return 0, fmt.Errorf("constant string too long: %d bytes", len(text))
			}
			buf = binary.BigEndian.AppendUint16(buf, uint16(len(text)))
			buf = append(buf, text...)
		case TagInteger:
			buf = binary.BigEndian.AppendUint32(buf, uint32(c.Int))
		case TagLong:
			buf = binary.BigEndian.AppendUint64(buf, uint64(c.Long))
			i++
		case TagDouble:
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(c.Double))
			i++
		case TagClass, TagString:
			buf = binary.BigEndian.AppendUint16(buf, c.Ref1)
		case TagFieldref, TagMethodref, TagNameAndType:
			buf = binary.BigEndian.AppendUint16(buf, c.Ref1)
			buf = binary.BigEndian.AppendUint16(buf, c.Ref2)
		}
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// modifiedUTF8 encodes s the way class files store strings: NUL as two
// bytes and supplementary characters as surrogate pairs.
func modifiedUTF8(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r != 0 && r < 0x80:
			out = append(out, byte(r))
		case r < 0x800:
			out = append(out, byte(0xc0|r>>6), byte(0x80|r&0x3f))
		case r < 0x10000:
			out = append(out, byte(0xe0|r>>12), byte(0x80|(r>>6)&0x3f), byte(0x80|r&0x3f))
		default:
			hi, lo := utf16.EncodeRune(r)
			for _, u := range []rune{hi, lo} {
				out = append(out, byte(0xe0|u>>12), byte(0x80|(u>>6)&0x3f), byte(0x80|u&0x3f))
			}
		}
	}
	return out
}
