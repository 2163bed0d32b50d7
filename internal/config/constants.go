package config

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".java", ".jmm"}

// ConfigFileNames are looked up, in order, next to the source file.
var ConfigFileNames = []string{"jmm.yaml", "jmm.yml"}

const ClassFileExt = ".class"

// Class file format versions (major). No StackMapTable is written, so
// 50 is the newest version a JVM will verify without one.
const (
	MinClassVersion     = 45
	MaxClassVersion     = 50
	DefaultClassVersion = 49
)

// Method code is limited to 64K by the class file format.
const MaxCodeLength = 65535

// Well-known runtime classes
const (
	ObjectClass        = "java/lang/Object"
	StringClass        = "java/lang/String"
	ThrowableClass     = "java/lang/Throwable"
	StringBuilderClass = "java/lang/StringBuilder"
	SystemClass        = "java/lang/System"
	PrintStreamClass   = "java/io/PrintStream"
)

// Entry point
const (
	MainMethodName       = "main"
	MainMethodDescriptor = "([Ljava/lang/String;)V"
	InitMethodName       = "<init>"
)

// Color modes for diagnostic output
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Dump formats for the ast command
const (
	DumpText = "text"
	DumpJSON = "json"
)
