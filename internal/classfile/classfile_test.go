package classfile

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/jmm/internal/bytecode"
)

// parsed is what the tests read back from a class file.
type parsed struct {
	major     int
	thisClass string
	super     string
	methods   []string
	source    string
}

func readClass(t *testing.T, data []byte) parsed {
	t.Helper()
	pos := 0
	u2 := func() int { v := int(binary.BigEndian.Uint16(data[pos:])); pos += 2; return v }
	u4 := func() int { v := int(binary.BigEndian.Uint32(data[pos:])); pos += 4; return v }

	require.Equal(t, uint32(Magic), binary.BigEndian.Uint32(data))
	pos = 4
	u2()
	var p parsed
	p.major = u2()

	count := u2()
	utf8 := map[int]string{}
	classRef := map[int]int{}
	for i := 1; i < count; i++ {
		tag := data[pos]
		pos++
		switch tag {
		case 1:
			n := u2()
			utf8[i] = string(data[pos : pos+n])
			pos += n
		case 3, 4:
			pos += 4
		case 5, 6:
			pos += 8
			i++
		case 7:
			classRef[i] = u2()
		case 8:
			pos += 2
		case 9, 10, 11, 12:
			pos += 4
		default:
			t.Fatalf("unexpected tag %d at entry %d", tag, i)
		}
	}

	u2() // access
	p.thisClass = utf8[classRef[u2()]]
	p.super = utf8[classRef[u2()]]
	u2()
	u2()
	methods := u2()
	for i := 0; i < methods; i++ {
		u2()
		name := utf8[u2()]
		desc := utf8[u2()]
		p.methods = append(p.methods, name+desc)
		attrs := u2()
		for j := 0; j < attrs; j++ {
			u2()
			pos += u4()
		}
	}
	if u2() == 1 {
		require.Equal(t, "SourceFile", utf8[u2()])
		u4()
		p.source = utf8[u2()]
	}
	require.Equal(t, len(data), pos, "trailing bytes")
	return p
}

func TestWriteHelloClass(t *testing.T) {
	pool := bytecode.NewConstantPool()
	class := New("Hello", 49, pool)
	class.SourceFile = "Hello.java"
	require.NoError(t, class.AddDefaultConstructor())

	code := bytecode.NewCodeBuffer(pool)
	code.MarkLine(1)
	code.EmitMember(bytecode.GETSTATIC, "java/lang/System", "out", "Ljava/io/PrintStream;")
	code.EmitLDC("hello")
	code.EmitMember(bytecode.INVOKEVIRTUAL, "java/io/PrintStream", "println", "(Ljava/lang/String;)V")
	code.Emit(bytecode.RETURN)
	class.AddMethod(&Method{
		AccessFlags: AccPublic | AccStatic,
		Name:        "main",
		Descriptor:  "([Ljava/lang/String;)V",
		Code:        code,
		MaxLocals:   1,
	})

	data, err := class.Bytes()
	require.NoError(t, err)

	p := readClass(t, data)
	assert.Equal(t, 49, p.major)
	assert.Equal(t, "Hello", p.thisClass)
	assert.Equal(t, "java/lang/Object", p.super)
	assert.Equal(t, []string{"<init>()V", "main([Ljava/lang/String;)V"}, p.methods)
	assert.Equal(t, "Hello.java", p.source)
}

func TestWriteRejectsBrokenCode(t *testing.T) {
	pool := bytecode.NewConstantPool()
	class := New("Broken", 0, pool)
	assert.Equal(t, 49, class.Version)

	code := bytecode.NewCodeBuffer(pool)
	code.EmitBranch(bytecode.GOTO, code.CreateLabel())
	class.AddMethod(&Method{AccessFlags: AccPublic | AccStatic, Name: "main", Descriptor: "([Ljava/lang/String;)V", Code: code})

	_, err := class.Bytes()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method main")
	assert.Contains(t, err.Error(), "never placed")
}

func TestWriteRejectsForeignPool(t *testing.T) {
	class := New("Foreign", 49, nil)
	code := bytecode.NewCodeBuffer(nil)
	code.Emit(bytecode.RETURN)
	class.AddMethod(&Method{Name: "main", Descriptor: "()V", Code: code})

	_, err := class.Bytes()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different constant pool")
}
