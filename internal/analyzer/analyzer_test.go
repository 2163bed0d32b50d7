package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/lexer"
	"github.com/funvibe/jmm/internal/parser"
	"github.com/funvibe/jmm/internal/symbols"
	"github.com/funvibe/jmm/internal/typesystem"
)

const prelude = `int i = 1; int j = 2; long l = 3L; double d = 4.0; boolean b = true; char c = 'c'; String s = "s";
`

func analyze(t *testing.T, input string) (*ast.Program, *diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.NewSink("Main.java")
	prog := parser.New(lexer.New("Main.java", input, sink), sink).ParseProgram("Main")
	require.False(t, sink.HasErrors(), "syntax errors: %v", sink.Messages())
	New(symbols.NewSymbolTable(1), sink).Analyze(prog)
	return prog, sink
}

// printed returns the value of the last statement, a println.
func printed(t *testing.T, prog *ast.Program) ast.Expression {
	t.Helper()
	ps, ok := prog.Statements[len(prog.Statements)-1].(*ast.PrintStatement)
	require.True(t, ok, "last statement is %T", prog.Statements[len(prog.Statements)-1])
	return ps.Value
}

func TestExpressionTyping(t *testing.T) {
	tests := []struct {
		expr     string
		expected typesystem.Type
		errors   int
	}{
		{"i + j", typesystem.INT, 0},
		{"l + l", typesystem.LONG, 0},
		{"d + d", typesystem.DOUBLE, 0},
		{"i + l", typesystem.ERROR, 1},
		{"b + i", typesystem.ERROR, 1},
		{"d - i", typesystem.ERROR, 1},
		{"i - j", typesystem.INT, 0},
		{"l - l", typesystem.ERROR, 2},
		{"i << 2", typesystem.INT, 0},
		{"i >>> j", typesystem.INT, 0},
		{"i & j | 1 ^ 2", typesystem.INT, 0},
		{"i % j / 3", typesystem.INT, 0},
		{"i * j", typesystem.INT, 0},
		{"l * l", typesystem.LONG, 0},
		{"d * d", typesystem.DOUBLE, 0},
		{"l * d", typesystem.INT, 0},
		{"i * d", typesystem.INT, 0},
		{"b * i", typesystem.ERROR, 1},
		{"s * s", typesystem.ERROR, 2},
		{"i < j", typesystem.BOOLEAN, 0},
		{"d >= d", typesystem.BOOLEAN, 0},
		{"i < l", typesystem.ERROR, 1},
		{"b < b", typesystem.ERROR, 1},
		{"i == j", typesystem.BOOLEAN, 0},
		{"b != b", typesystem.BOOLEAN, 0},
		{"s == null", typesystem.BOOLEAN, 0},
		{"i == l", typesystem.ERROR, 1},
		{"b && i < j", typesystem.BOOLEAN, 0},
		{"b || i", typesystem.ERROR, 1},
		{"!b", typesystem.BOOLEAN, 0},
		{"!i", typesystem.ERROR, 1},
		{"-d", typesystem.DOUBLE, 0},
		{"+l", typesystem.LONG, 0},
		{"-b", typesystem.ERROR, 1},
		{"~i", typesystem.INT, 0},
		{"~l", typesystem.ERROR, 1},
		{"(true) ? 1 : 2", typesystem.INT, 0},
		{"b ? s : \"t\"", typesystem.STRING, 0},
		{"(1) ? 1 : 2", typesystem.INT, 1},
		{"b ? 1 : 2L", typesystem.INT, 1},
		{"i++", typesystem.INT, 0},
		{"--l", typesystem.ERROR, 1},
		{"i = j", typesystem.INT, 0},
		{"i = l", typesystem.INT, 1},
		{"s = null", typesystem.STRING, 0},
		{"c", typesystem.CHAR, 0},
		{"undefined", typesystem.ERROR, 1},
		{"undefined + 1", typesystem.ERROR, 1},
		{"undefined * 2", typesystem.ERROR, 1},
		{"undefined - 2", typesystem.ERROR, 1},
		{"new RuntimeException(\"x\")", typesystem.Ref("java/lang/RuntimeException"), 0},
		{"new Exception()", typesystem.Ref("java/lang/Exception"), 0},
		{"new Object(\"x\")", typesystem.ERROR, 1},
		{"new Exception(1)", typesystem.ERROR, 1},
		{"new Nope()", typesystem.ERROR, 1},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prog, sink := analyze(t, prelude+"System.out.println("+tt.expr+");")
			assert.Equal(t, tt.errors, sink.Len(), "diagnostics: %v", sink.Messages())
			assert.Equal(t, tt.expected, printed(t, prog).GetType())
		})
	}
}

func TestPlusWithStringRewritesToConcatenation(t *testing.T) {
	prog, sink := analyze(t, prelude+`System.out.println(s + i + d);`)
	require.False(t, sink.HasErrors())

	outer, ok := printed(t, prog).(*ast.StringConcatenation)
	require.True(t, ok, "got %T", printed(t, prog))
	assert.Equal(t, typesystem.STRING, outer.GetType())
	inner, ok := outer.Left.(*ast.StringConcatenation)
	require.True(t, ok, "got %T", outer.Left)
	assert.Equal(t, typesystem.DOUBLE, outer.Right.GetType())
	assert.Equal(t, typesystem.INT, inner.Right.GetType())

	// int + int stays numeric before meeting the string
	prog, sink = analyze(t, prelude+`System.out.println(i + j + s);`)
	require.False(t, sink.HasErrors())
	outer = printed(t, prog).(*ast.StringConcatenation)
	assert.IsType(t, &ast.BinaryExpression{}, outer.Left)
}

func TestTypeMismatchMessage(t *testing.T) {
	_, sink := analyze(t, prelude+`System.out.println(d - i);`)
	require.Equal(t, 1, sink.Len())
	err := sink.Errors()[0]
	assert.Equal(t, diagnostics.ErrA002, err.Code)
	assert.Equal(t, "Type double doesn't match type int", err.Message)
	assert.Equal(t, 2, err.Line())

	_, sink = analyze(t, prelude+`System.out.println(i + l);`)
	require.Equal(t, 1, sink.Len())
	assert.Equal(t, diagnostics.ErrA003, sink.Errors()[0].Code)
	assert.Equal(t, "Invalid operand types for +", sink.Errors()[0].Message)
}

func TestSlotAllocation(t *testing.T) {
	prog, sink := analyze(t, `int a = 1; long b = 2L; int c = 3;
{ double x = 1.0; }
{ int y = 2; }`)
	require.False(t, sink.HasErrors())

	decl := func(i int) *ast.Identifier {
		return prog.Statements[i].(*ast.VariableDeclaration).Declarators[0].Name
	}
	assert.Equal(t, 1, decl(0).Slot)
	assert.Equal(t, 2, decl(1).Slot)
	assert.Equal(t, 4, decl(2).Slot)

	inner := func(i int) *ast.Identifier {
		block := prog.Statements[i].(*ast.BlockStatement)
		return block.Statements[0].(*ast.VariableDeclaration).Declarators[0].Name
	}
	assert.Equal(t, 5, inner(3).Slot)
	assert.Equal(t, 5, inner(4).Slot, "sibling blocks reuse slots")
	assert.Equal(t, 7, prog.MaxLocals)
}

func TestIdentifierUsesResolveSlots(t *testing.T) {
	prog, sink := analyze(t, `int a = 1; int b = a;`)
	require.False(t, sink.HasErrors())
	use := prog.Statements[1].(*ast.VariableDeclaration).Declarators[0].Value.(*ast.Identifier)
	assert.Equal(t, 1, use.Slot)
	assert.Equal(t, typesystem.INT, use.GetType())
}

func TestDeclarationErrors(t *testing.T) {
	tests := []struct {
		input   string
		code    diagnostics.ErrorCode
		message string
	}{
		{"int a; int a;", diagnostics.ErrA005, "Variable a is already defined at line 1"},
		{"int a; { int a; }", diagnostics.ErrA005, "Variable a is already defined at line 1"},
		{"int x = x;", diagnostics.ErrA001, "Cannot find symbol: x"},
		{"Widget w;", diagnostics.ErrA001, "Cannot find class: Widget"},
		{"int a = true;", diagnostics.ErrA002, "Type boolean is not assignable to type int"},
		{"String s = 1;", diagnostics.ErrA002, "Type int is not assignable to type String"},
		{"{ int a; } a = 1;", diagnostics.ErrA001, "Cannot find symbol: a"},
		{"for (int k = 0; k < 1; k++) ; k = 2;", diagnostics.ErrA001, "Cannot find symbol: k"},
		{"if (1) ;", diagnostics.ErrA002, "Type int doesn't match type boolean"},
		{"while (1) ;", diagnostics.ErrA002, "Type int doesn't match type boolean"},
		{"return 1;", diagnostics.ErrA002, "Cannot return a value from a method whose result type is void"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, sink := analyze(t, tt.input)
			require.Equal(t, 1, sink.Len(), "diagnostics: %v", sink.Messages())
			assert.Equal(t, tt.code, sink.Errors()[0].Code)
			assert.Equal(t, tt.message, sink.Errors()[0].Message)
		})
	}
}

func TestReferenceAssignment(t *testing.T) {
	_, sink := analyze(t, `Exception e = new RuntimeException("x"); Throwable t = e; Object o = "s"; e = null;`)
	assert.False(t, sink.HasErrors(), "diagnostics: %v", sink.Messages())

	_, sink = analyze(t, `RuntimeException r = new Exception();`)
	assert.Equal(t, 1, sink.Len())
}

func TestJumpTargets(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"break;", "Break outside switch or loop"},
		{"continue;", "Continue outside of loop"},
		{"while (true) { break nowhere; }", "Undefined label: nowhere"},
		{"while (true) { continue nowhere; }", "Undefined label: nowhere"},
		{"block: { continue block; }", "Not a loop label: block"},
		{"s: switch (1) { default: continue s; }", "Not a loop label: s"},
		{"switch (1) { default: continue; }", "Continue outside of loop"},
		{"block: { break; }", "Break outside switch or loop"},
		{"a: while (true) { a: for (;;) { } }", "Label a is already in use"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, sink := analyze(t, tt.input)
			require.Equal(t, 1, sink.Len(), "diagnostics: %v", sink.Messages())
			assert.Equal(t, tt.message, sink.Errors()[0].Message)
		})
	}
}

func TestValidJumps(t *testing.T) {
	_, sink := analyze(t, `
outer: for (int i = 0; i < 3; i++) {
    inner: while (true) {
        if (i == 1) continue outer;
        if (i == 2) break outer;
        break inner;
    }
}
block: { break block; }
switch (2) { case 1: break; default: while (true) { break; } }
`)
	assert.False(t, sink.HasErrors(), "diagnostics: %v", sink.Messages())
}

func TestSwitchChecks(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"switch (1) { case 1: case 1: }", "Duplicate case label: 1"},
		{"switch (1) { default: default: }", "Duplicate default label"},
		{"switch (1) { case 'a': }", "Type char doesn't match type int"},
		{"switch ('a') { case 1: }", "Type int doesn't match type char"},
		{"switch (1L) { }", "Type long doesn't match any of the expected types {int, char}"},
		{"int k = 1; switch (1) { case k: }", "Constant expression required"},
		{"switch (1) { case 1: int q = 1; case 2: int q = 2; }", "Variable q is already defined at line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, sink := analyze(t, tt.input)
			require.Equal(t, 1, sink.Len(), "diagnostics: %v", sink.Messages())
			assert.Equal(t, tt.message, sink.Errors()[0].Message)
		})
	}
}

func TestSwitchReservesDiscriminantSlot(t *testing.T) {
	prog, sink := analyze(t, `int a = 1; switch (a) { case -1: int x = 0; break; case 1 + 1: }`)
	require.Equal(t, 1, sink.Len(), "1 + 1 is not a literal")

	sw := prog.Statements[1].(*ast.SwitchStatement)
	assert.Equal(t, 2, sw.Slot)
	x := sw.Groups[0].Statements[0].(*ast.VariableDeclaration).Declarators[0].Name
	assert.Equal(t, 3, x.Slot)
}

func TestTryCatchChecks(t *testing.T) {
	prog, sink := analyze(t, `
try {
    throw new ArithmeticException("x");
} catch (ArithmeticException e) {
    System.out.println(e);
} catch (java.lang.RuntimeException e) {
} finally {
    int f = 1;
}`)
	require.False(t, sink.HasErrors(), "diagnostics: %v", sink.Messages())

	ts := prog.Statements[0].(*ast.TryStatement)
	assert.Equal(t, 1, ts.Slot)
	assert.Equal(t, "java/lang/ArithmeticException", ts.Catches[0].TypeName)
	assert.Equal(t, "java/lang/RuntimeException", ts.Catches[1].TypeName)
	assert.Equal(t, 2, ts.Catches[0].Param.Slot)

	tests := []struct {
		input   string
		message string
	}{
		{"throw 1;", "Type int is not assignable to type Throwable"},
		{`throw "boom";`, "Type String is not assignable to type Throwable"},
		{"try { } catch (String e) { }", "Type String is not assignable to type Throwable"},
		{"try { } catch (Nope e) { }", "Cannot find class: Nope"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, sink := analyze(t, tt.input)
			require.Equal(t, 1, sink.Len(), "diagnostics: %v", sink.Messages())
			assert.Equal(t, tt.message, sink.Errors()[0].Message)
		})
	}
}

func TestEveryExpressionIsTyped(t *testing.T) {
	prog, _ := analyze(t, prelude+`
for (int k = 0; k < 10; k++) {
    System.out.println(k > 2 ? s + k : "none");
    i += k * 2;
}
switch (c) { case 'a': j = -i; }
try { throw new IllegalStateException(); } finally { b = !b && undefined; }
`)

	var walk func(n *ast.DumpNode)
	walk = func(n *ast.DumpNode) {
		if isExpressionKind(n.Kind) {
			assert.NotEmpty(t, n.Type, "%s at line %d has no type", n.Kind, n.Line)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(ast.Dump(prog))
}

func isExpressionKind(kind string) bool {
	for _, suffix := range []string{"Expression", "Literal", "Identifier", "Concatenation"} {
		if strings.HasSuffix(kind, suffix) {
			return true
		}
	}
	return false
}

func TestDumpIsStableAfterAnalysis(t *testing.T) {
	prog, _ := analyze(t, prelude+`System.out.println(s + (i * 2) + (b ? 1 : 2));`)
	first := ast.Dump(prog)
	second := ast.Dump(prog)
	assert.Equal(t, first, second)
}
