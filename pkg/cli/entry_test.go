package cli

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloSource = `public class Hello {
	public static void main(String[] args) {
		String who = "world";
		System.out.println("hello, " + who);
	}
}
`

func writeSource(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	status := Run(args, &stdout, &stderr)
	return status, stdout.String(), stderr.String()
}

func TestCompileWritesClassFile(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Hello.java", helloSource)
	out := filepath.Join(dir, "classes")

	status, _, stderr := run("-o", out, "-target", "50", src)
	require.Equal(t, ExitOK, status, stderr)

	data, err := os.ReadFile(filepath.Join(out, "Hello.class"))
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEBABE), binary.BigEndian.Uint32(data))
	assert.Equal(t, uint16(50), binary.BigEndian.Uint16(data[6:]))
}

func TestCompileUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Hello.java", helloSource)
	writeSource(t, dir, "jmm.yaml", "output_dir: build\nclass_version: 45\n")

	status, _, stderr := run(src)
	require.Equal(t, ExitOK, status, stderr)

	data, err := os.ReadFile(filepath.Join(dir, "build", "Hello.class"))
	require.NoError(t, err)
	assert.Equal(t, uint16(45), binary.BigEndian.Uint16(data[6:]))
}

func TestCompileReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "Bad.java", "int x = y;\nboolean b = 1;\n")

	status, _, stderr := run("-o", dir, "-color", "never", src)
	assert.Equal(t, ExitErrors, status)

	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, src+":1: Cannot find symbol: y", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], src+":2: "), lines[1])

	_, err := os.Stat(filepath.Join(dir, "Bad.class"))
	assert.True(t, os.IsNotExist(err))
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no file", nil},
		{"two files", []string{"a.java", "b.java"}},
		{"unknown flag", []string{"-x", "a.java"}},
		{"bad color", []string{"-color", "purple", "a.java"}},
		{"target out of range", []string{"-target", "99", "a.java"}},
		{"target needs stack maps", []string{"-target", "51", "a.java"}},
		{"ast without file", []string{"ast"}},
		{"bad format", []string{"ast", "-format", "xml", "a.java"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, _ := run(tt.args...)
			assert.Equal(t, ExitUsage, status)
		})
	}
}

func TestMissingSourceIsAnError(t *testing.T) {
	status, _, stderr := run("-color", "never", filepath.Join(t.TempDir(), "Nope.java"))
	assert.Equal(t, ExitErrors, status)
	assert.Contains(t, stderr, "cannot read source")
}

func TestHelp(t *testing.T) {
	status, stdout, _ := run("help")
	assert.Equal(t, ExitOK, status)
	assert.Contains(t, stdout, "jmmc tokens")
}

func TestTokensCommand(t *testing.T) {
	src := writeSource(t, t.TempDir(), "T.java", "int x = +1;\nx++;")

	status, stdout, stderr := run("tokens", src)
	require.Equal(t, ExitOK, status, stderr)
	assert.Equal(t, `1 int
1 <IDENTIFIER> x
1 =
1 +(unary)
1 <INT_LITERAL> 1
1 ;
2 <IDENTIFIER> x
2 ++
2 ;
`, stdout)
}

func TestASTCommand(t *testing.T) {
	src := writeSource(t, t.TempDir(), "A.java", "int x = 1;")

	status, stdout, stderr := run("ast", src)
	require.Equal(t, ExitOK, status, stderr)
	assert.Equal(t, `Program A
  VariableDeclaration int : int @1
    name: Identifier x : int @1
    initializer: IntegerLiteral 1 : int @1
`, stdout)

	status, stdout, stderr = run("ast", "-format", "json", src)
	require.Equal(t, ExitOK, status, stderr)
	var root map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &root))
	assert.Equal(t, "Program", root["kind"])
}

func TestDisasmCommand(t *testing.T) {
	src := writeSource(t, t.TempDir(), "Hello.java", helloSource)

	status, stdout, stderr := run("disasm", src)
	require.Equal(t, ExitOK, status, stderr)
	assert.Contains(t, stdout, "== Hello.main ==")
	assert.Contains(t, stdout, "java/lang/StringBuilder")
	assert.Contains(t, stdout, "RETURN")
}
