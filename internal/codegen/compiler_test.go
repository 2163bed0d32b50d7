package codegen

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/jmm/internal/analyzer"
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/bytecode"
	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/lexer"
	"github.com/funvibe/jmm/internal/parser"
	"github.com/funvibe/jmm/internal/symbols"
)

// recorder is an Emitter that keeps a readable trace of every call.
type recorder struct {
	ops      []string
	handlers []string
	labels   int
}

func (r *recorder) add(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recorder) Emit(op bytecode.Opcode)                { r.add("%s", op) }
func (r *recorder) EmitInt(op bytecode.Opcode, value int)  { r.add("%s %d", op, value) }
func (r *recorder) EmitLocal(op bytecode.Opcode, slot int) { r.add("%s %d", op, slot) }
func (r *recorder) EmitIinc(slot, delta int)               { r.add("IINC %d %d", slot, delta) }
func (r *recorder) EmitLDC(value any)                      { r.add("LDC %T %v", value, value) }
func (r *recorder) EmitType(op bytecode.Opcode, class string) {
	r.add("%s %s", op, class)
}
func (r *recorder) EmitMember(op bytecode.Opcode, owner, name, descriptor string) {
	r.add("%s %s.%s %s", op, owner, name, descriptor)
}
func (r *recorder) CreateLabel() bytecode.Label {
	r.labels++
	return bytecode.Label(r.labels - 1)
}
func (r *recorder) PlaceLabel(l bytecode.Label) { r.add("L%d:", l) }
func (r *recorder) EmitBranch(op bytecode.Opcode, l bytecode.Label) {
	r.add("%s L%d", op, l)
}
func (r *recorder) AddHandler(start, end, handler bytecode.Label, catchType string) {
	if catchType == "" {
		catchType = "any"
	}
	r.handlers = append(r.handlers, fmt.Sprintf("L%d L%d L%d %s", start, end, handler, catchType))
}
func (r *recorder) MarkLine(int) {}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, op := range r.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}

const (
	getOut     = "GETSTATIC java/lang/System.out Ljava/io/PrintStream;"
	printlnInt = "INVOKEVIRTUAL java/io/PrintStream.println (I)V"
	sbAppend   = "INVOKEVIRTUAL java/lang/StringBuilder.append "
)

func analyzed(t *testing.T, input string) *ast.Program {
	t.Helper()
	sink := diagnostics.NewSink("Main.java")
	prog := parser.New(lexer.New("Main.java", input, sink), sink).ParseProgram("Main")
	require.False(t, sink.HasErrors(), "syntax errors: %v", sink.Messages())
	analyzer.New(symbols.NewSymbolTable(1), sink).Analyze(prog)
	require.False(t, sink.HasErrors(), "semantic errors: %v", sink.Messages())
	return prog
}

func compile(t *testing.T, input string) *recorder {
	t.Helper()
	r := &recorder{}
	require.NoError(t, NewCompiler(r).Compile(analyzed(t, input)))
	return r
}

func TestConstantSelection(t *testing.T) {
	tests := []struct {
		decl     string
		expected []string
	}{
		{"int x = -1;", []string{"ICONST_M1", "ISTORE 1"}},
		{"int x = 0;", []string{"ICONST_0", "ISTORE 1"}},
		{"int x = 5;", []string{"ICONST_5", "ISTORE 1"}},
		{"int x = 6;", []string{"BIPUSH 6", "ISTORE 1"}},
		{"int x = -128;", []string{"BIPUSH -128", "ISTORE 1"}},
		{"int x = 127;", []string{"BIPUSH 127", "ISTORE 1"}},
		{"int x = 128;", []string{"SIPUSH 128", "ISTORE 1"}},
		{"int x = -32768;", []string{"SIPUSH -32768", "ISTORE 1"}},
		{"int x = 32768;", []string{"LDC int32 32768", "ISTORE 1"}},
		{"int x = -2147483648;", []string{"LDC int32 -2147483648", "ISTORE 1"}},
		{"char x = 'a';", []string{"BIPUSH 97", "ISTORE 1"}},
		{"char x = '\\n';", []string{"BIPUSH 10", "ISTORE 1"}},
		{"long x = 0L;", []string{"LCONST_0", "LSTORE 1"}},
		{"long x = 1L;", []string{"LCONST_1", "LSTORE 1"}},
		{"long x = 2L;", []string{"LDC int64 2", "LSTORE 1"}},
		{"double x = 0.0;", []string{"DCONST_0", "DSTORE 1"}},
		{"double x = -0.0;", []string{"LDC float64 -0", "DSTORE 1"}},
		{"double x = 1.0;", []string{"DCONST_1", "DSTORE 1"}},
		{"double x = 2.5;", []string{"LDC float64 2.5", "DSTORE 1"}},
		{"boolean x = true;", []string{"ICONST_1", "ISTORE 1"}},
		{"String x = \"hi\";", []string{"LDC string hi", "ASTORE 1"}},
		{"String x = null;", []string{"ACONST_NULL", "ASTORE 1"}},
		{"int x;", []string{"ICONST_0", "ISTORE 1"}},
		{"long x;", []string{"LCONST_0", "LSTORE 1"}},
		{"double x;", []string{"DCONST_0", "DSTORE 1"}},
		{"String x;", []string{"ACONST_NULL", "ASTORE 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			r := compile(t, tt.decl)
			assert.Equal(t, append(tt.expected, "RETURN"), r.ops)
		})
	}
}

func TestLiteralOutOfRange(t *testing.T) {
	err := NewCompiler(&recorder{}).Compile(analyzed(t, "\nint x = 2147483648;"))
	require.Error(t, err)

	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 2, cerr.Line)
	assert.Contains(t, cerr.Msg, "integer number too large")
}

func TestArithmetic(t *testing.T) {
	r := compile(t, "long l = 2L; double d = 1.0; int x = l * d; d = d * d; l = l + l; x = ~x; x = -x >>> 2;")
	assert.Equal(t, []string{
		"LDC int64 2", "LSTORE 1",
		"DCONST_1", "DSTORE 3",
		"LLOAD 1", "L2I", "DLOAD 3", "D2I", "IMUL", "ISTORE 5",
		"DLOAD 3", "DLOAD 3", "DMUL", "DSTORE 3",
		"LLOAD 1", "LLOAD 1", "LADD", "LSTORE 1",
		"ILOAD 5", "ICONST_M1", "IXOR", "ISTORE 5",
		"ILOAD 5", "INEG", "ICONST_2", "IUSHR", "ISTORE 5",
		"RETURN",
	}, r.ops)
}

func TestAssignmentAndIncrement(t *testing.T) {
	r := compile(t, "int a; int b; a = b = 3; int j = a++; int k = ++a; a--; a += 2;")
	assert.Equal(t, []string{
		"ICONST_0", "ISTORE 1",
		"ICONST_0", "ISTORE 2",
		"ICONST_3", "DUP", "ISTORE 2", "ISTORE 1",
		"ILOAD 1", "IINC 1 1", "ISTORE 3",
		"IINC 1 1", "ILOAD 1", "ISTORE 4",
		"IINC 1 -1",
		"ILOAD 1", "ICONST_2", "IADD", "ISTORE 1",
		"RETURN",
	}, r.ops)
}

func TestStringConcatenationUsesOneBuilder(t *testing.T) {
	r := compile(t, `int i = 1; String s = "a" + i + 'c';`)
	assert.Equal(t, []string{
		"ICONST_1", "ISTORE 1",
		"NEW java/lang/StringBuilder",
		"DUP",
		"INVOKESPECIAL java/lang/StringBuilder.<init> ()V",
		"LDC string a", sbAppend + "(Ljava/lang/String;)Ljava/lang/StringBuilder;",
		"ILOAD 1", sbAppend + "(I)Ljava/lang/StringBuilder;",
		"BIPUSH 99", sbAppend + "(C)Ljava/lang/StringBuilder;",
		"INVOKEVIRTUAL java/lang/StringBuilder.toString ()Ljava/lang/String;",
		"ASTORE 2",
		"RETURN",
	}, r.ops)
	assert.Equal(t, 1, r.count("NEW "))
}

func TestConditionalExpression(t *testing.T) {
	r := compile(t, "int i = 1; int x = i > 0 ? 1 : 2;")
	assert.Equal(t, []string{
		"ICONST_1", "ISTORE 1",
		"ILOAD 1", "ICONST_0", "IF_ICMPLE L0",
		"ICONST_1", "GOTO L1",
		"L0:", "ICONST_2",
		"L1:", "ISTORE 2",
		"RETURN",
	}, r.ops)
}

func TestConditionalWithConstantConditionStillBranches(t *testing.T) {
	r := compile(t, "int x = true ? 1 : 2;")
	placements := 0
	for _, op := range r.ops {
		if strings.HasSuffix(op, ":") {
			placements++
		}
	}
	assert.Equal(t, 2, placements)
	assert.Equal(t, 1, r.count("IFEQ"))
	assert.Equal(t, 1, r.count("GOTO"))
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			"int",
			"int i = 1; boolean b = i == 1;",
			[]string{"ICONST_1", "ISTORE 1", "ILOAD 1", "ICONST_1", "IF_ICMPNE L0",
				"ICONST_1", "GOTO L1", "L0:", "ICONST_0", "L1:", "ISTORE 2", "RETURN"},
		},
		{
			"long",
			"long l = 2L; boolean b = l < 3L;",
			[]string{"LDC int64 2", "LSTORE 1", "LLOAD 1", "LDC int64 3", "LCMP", "IFGE L0",
				"ICONST_1", "GOTO L1", "L0:", "ICONST_0", "L1:", "ISTORE 3", "RETURN"},
		},
		{
			"double less uses DCMPG",
			"double d = 2.5; boolean b = d < 1.0;",
			[]string{"LDC float64 2.5", "DSTORE 1", "DLOAD 1", "DCONST_1", "DCMPG", "IFGE L0",
				"ICONST_1", "GOTO L1", "L0:", "ICONST_0", "L1:", "ISTORE 3", "RETURN"},
		},
		{
			"double greater uses DCMPL",
			"double d = 2.5; boolean b = d > 1.0;",
			[]string{"LDC float64 2.5", "DSTORE 1", "DLOAD 1", "DCONST_1", "DCMPL", "IFLE L0",
				"ICONST_1", "GOTO L1", "L0:", "ICONST_0", "L1:", "ISTORE 3", "RETURN"},
		},
		{
			"reference",
			"String s = null; boolean b = s != null;",
			[]string{"ACONST_NULL", "ASTORE 1", "ALOAD 1", "ACONST_NULL", "IF_ACMPEQ L0",
				"ICONST_1", "GOTO L1", "L0:", "ICONST_0", "L1:", "ISTORE 2", "RETURN"},
		},
		{
			"not",
			"boolean a = true; boolean b = !a;",
			[]string{"ICONST_1", "ISTORE 1", "ILOAD 1", "IFNE L0",
				"ICONST_1", "GOTO L1", "L0:", "ICONST_0", "L1:", "ISTORE 2", "RETURN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, compile(t, tt.input).ops)
		})
	}
}

func TestShortCircuit(t *testing.T) {
	and := compile(t, "boolean a = true; boolean b = false; if (a && b) System.out.println(1);")
	assert.Equal(t, []string{
		"ICONST_1", "ISTORE 1", "ICONST_0", "ISTORE 2",
		"ILOAD 1", "IFEQ L0",
		"ILOAD 2", "IFEQ L0",
		getOut, "ICONST_1", printlnInt,
		"L0:",
		"RETURN",
	}, and.ops)

	or := compile(t, "boolean a = true; boolean b = false; if (a || b) System.out.println(1);")
	assert.Equal(t, []string{
		"ICONST_1", "ISTORE 1", "ICONST_0", "ISTORE 2",
		"ILOAD 1", "IFNE L1",
		"ILOAD 2", "IFEQ L0",
		"L1:",
		getOut, "ICONST_1", printlnInt,
		"L0:",
		"RETURN",
	}, or.ops)
}

func TestIfElse(t *testing.T) {
	r := compile(t, "int i = 0; if (i < 1) i = 1; else i = 2;")
	assert.Equal(t, []string{
		"ICONST_0", "ISTORE 1",
		"ILOAD 1", "ICONST_1", "IF_ICMPGE L0",
		"ICONST_1", "ISTORE 1",
		"GOTO L1",
		"L0:", "ICONST_2", "ISTORE 1",
		"L1:",
		"RETURN",
	}, r.ops)
}

func TestWhileLoop(t *testing.T) {
	r := compile(t, "int i = 0; while (i < 3) i++;")
	assert.Equal(t, []string{
		"ICONST_0", "ISTORE 1",
		"L0:", "ILOAD 1", "ICONST_3", "IF_ICMPGE L1",
		"IINC 1 1",
		"GOTO L0",
		"L1:",
		"RETURN",
	}, r.ops)
}

func TestForLoopTestsAtTheBottom(t *testing.T) {
	r := compile(t, "for (int i = 0; i < 3; i++) System.out.println(i);")
	assert.Equal(t, []string{
		"ICONST_0", "ISTORE 1",
		"GOTO L2",
		"L0:", getOut, "ILOAD 1", printlnInt,
		"L1:", "IINC 1 1",
		"L2:", "ILOAD 1", "ICONST_3", "IF_ICMPLT L0",
		"L3:",
		"RETURN",
	}, r.ops)
}

func TestForeverLoop(t *testing.T) {
	r := compile(t, "for (;;) break;")
	assert.Equal(t, []string{
		"GOTO L2",
		"L0:", "GOTO L3",
		"L1:",
		"L2:", "GOTO L0",
		"L3:",
		"RETURN",
	}, r.ops)
}

func TestLabeledJumps(t *testing.T) {
	r := compile(t, `outer: for (int i = 0; i < 2; i++) {
		for (int j = 0; j < 2; j++) {
			if (j == 1) continue outer;
			if (i == 1) break outer;
		}
	}`)
	assert.Contains(t, r.ops, "GOTO L1")
	assert.Contains(t, r.ops, "GOTO L3")

	block := compile(t, "done: { if (true) break done; System.out.println(1); }")
	assert.Contains(t, block.ops, "GOTO L0")
	assert.Equal(t, "L0:", block.ops[len(block.ops)-2])
}

func TestSwitch(t *testing.T) {
	r := compile(t, `int i = 2;
	switch (i) {
	case 1:
	case 2:
		System.out.println(1);
		break;
	default:
		System.out.println(2);
	}`)
	assert.Equal(t, []string{
		"ICONST_2", "ISTORE 1",
		"ILOAD 1", "ISTORE 2",
		"ILOAD 2", "ICONST_1", "IF_ICMPEQ L1",
		"ILOAD 2", "ICONST_2", "IF_ICMPEQ L1",
		"GOTO L2",
		"L1:", getOut, "ICONST_1", printlnInt, "GOTO L0",
		"L2:", getOut, "ICONST_2", printlnInt,
		"L0:",
		"RETURN",
	}, r.ops)
}

func TestSwitchWithoutDefaultFallsToExit(t *testing.T) {
	r := compile(t, "char c = 'x'; switch (c) { case 'b': break; }")
	assert.Equal(t, []string{
		"BIPUSH 120", "ISTORE 1",
		"ILOAD 1", "ISTORE 2",
		"ILOAD 2", "BIPUSH 98", "IF_ICMPEQ L1",
		"GOTO L0",
		"L1:", "GOTO L0",
		"L0:",
		"RETURN",
	}, r.ops)
}

func TestTryCatch(t *testing.T) {
	r := compile(t, "try { System.out.println(1); } catch (Exception e) { System.out.println(2); }")
	assert.Equal(t, []string{
		"L1:", getOut, "ICONST_1", printlnInt,
		"L2:", "GOTO L0",
		"L3:", "ASTORE 1", getOut, "ICONST_2", printlnInt, "GOTO L0",
		"L0:",
		"RETURN",
	}, r.ops)
	assert.Equal(t, []string{"L1 L2 L3 java/lang/Exception"}, r.handlers)
}

func TestTryFinallyOnBreak(t *testing.T) {
	r := compile(t, "while (true) { try { break; } finally { System.out.println(1); } }")
	assert.Equal(t, []string{
		"L0:", "ICONST_1", "IFEQ L1",
		"L3:",
		// break: the finally copy sits outside the protected range
		"L4:", getOut, "ICONST_1", printlnInt, "GOTO L1",
		"L5:",
		"L6:", getOut, "ICONST_1", printlnInt, "GOTO L2",
		"L7:", "ASTORE 1", getOut, "ICONST_1", printlnInt, "ALOAD 1", "ATHROW",
		"L2:",
		"GOTO L0",
		"L1:",
		"RETURN",
	}, r.ops)
	assert.Equal(t, []string{"L3 L4 L7 any", "L5 L6 L7 any"}, r.handlers)
}

func TestCatchHandlersPrecedeFinallyHandler(t *testing.T) {
	r := compile(t, `try { throw new RuntimeException(); }
	catch (ArithmeticException e) { }
	catch (RuntimeException e) { }
	finally { }`)
	// one any entry for the try block and one per catch body
	require.Len(t, r.handlers, 5)
	assert.True(t, strings.HasSuffix(r.handlers[0], "java/lang/ArithmeticException"))
	assert.True(t, strings.HasSuffix(r.handlers[1], "java/lang/RuntimeException"))
	for _, h := range r.handlers[2:] {
		assert.True(t, strings.HasSuffix(h, "any"), h)
	}
	assert.Contains(t, r.ops, "NEW java/lang/RuntimeException")
	assert.Contains(t, r.ops, "INVOKESPECIAL java/lang/RuntimeException.<init> ()V")
	assert.Equal(t, 2, r.count("ATHROW"))
}

func TestReturnRunsFinally(t *testing.T) {
	r := compile(t, "try { return; } finally { System.out.println(7); }")
	idx := -1
	for i, op := range r.ops {
		if op == "RETURN" {
			idx = i
			break
		}
	}
	require.Greater(t, idx, 0)
	assert.Equal(t, "INVOKEVIRTUAL java/io/PrintStream.println (I)V", r.ops[idx-1])
	assert.Equal(t, "BIPUSH 7", r.ops[idx-2])
}

func TestPrintDescriptors(t *testing.T) {
	tests := []struct {
		stmt     string
		expected string
	}{
		{"System.out.println();", "INVOKEVIRTUAL java/io/PrintStream.println ()V"},
		{"System.out.print(1L);", "INVOKEVIRTUAL java/io/PrintStream.print (J)V"},
		{"System.out.println(1.5);", "INVOKEVIRTUAL java/io/PrintStream.println (D)V"},
		{"System.out.println(true);", "INVOKEVIRTUAL java/io/PrintStream.println (Z)V"},
		{"System.out.println('c');", "INVOKEVIRTUAL java/io/PrintStream.println (C)V"},
		{"System.out.println(\"s\");", "INVOKEVIRTUAL java/io/PrintStream.println (Ljava/lang/String;)V"},
		{"System.out.println(new Exception());", "INVOKEVIRTUAL java/io/PrintStream.println (Ljava/lang/Object;)V"},
	}

	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			r := compile(t, tt.stmt)
			assert.Equal(t, getOut, r.ops[0])
			assert.Equal(t, tt.expected, r.ops[len(r.ops)-2])
		})
	}
}

func TestNewWithMessageAndDiscardedValue(t *testing.T) {
	r := compile(t, `new IllegalStateException("bad");`)
	assert.Equal(t, []string{
		"NEW java/lang/IllegalStateException",
		"DUP",
		"LDC string bad",
		"INVOKESPECIAL java/lang/IllegalStateException.<init> (Ljava/lang/String;)V",
		"POP",
		"RETURN",
	}, r.ops)
}

func TestCompileIntoCodeBuffer(t *testing.T) {
	prog := analyzed(t, `int x = 0;
	try {
		x = 1 / x;
	} catch (ArithmeticException e) {
		x = 2;
	} finally {
		x = 3;
	}
	for (int i = 0; i < 10; i++) {
		if (i % 2 == 0) continue;
		System.out.println("odd " + i);
	}`)

	code := bytecode.NewCodeBuffer(nil)
	require.NoError(t, NewCompiler(code).Compile(prog))
	require.NoError(t, code.Finish())

	table := code.ExceptionTable()
	require.Len(t, table, 3)
	assert.NotZero(t, table[0].CatchType)
	assert.Zero(t, table[1].CatchType)
	assert.Zero(t, table[2].CatchType)
	assert.Equal(t, table[1].HandlerPC, table[2].HandlerPC)
	assert.GreaterOrEqual(t, code.MaxStack(), 3)

	listing := bytecode.Disassemble(code, "main")
	assert.Contains(t, listing, "ATHROW")
	assert.Contains(t, listing, "exception table:")
}
