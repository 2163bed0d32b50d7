package analyzer

import (
	"github.com/funvibe/jmm/internal/ast"
	"github.com/funvibe/jmm/internal/diagnostics"
	"github.com/funvibe/jmm/internal/typesystem"
)

func (a *Analyzer) analyzeStatement(s ast.Statement) ast.Statement {
	switch n := s.(type) {
	case *ast.BlockStatement:
		a.analyzeBlock(n)
	case *ast.VariableDeclaration:
		a.analyzeDeclaration(n)
	case *ast.ExpressionStatement:
		n.Expression = a.AnalyzeExpression(n.Expression)
	case *ast.IfStatement:
		n.Condition = a.analyzeCondition(n.Condition)
		n.Consequence = a.analyzeScoped(n.Consequence)
		if n.Alternative != nil {
			n.Alternative = a.analyzeScoped(n.Alternative)
		}
	case *ast.WhileStatement:
		a.analyzeWhile(n, "")
	case *ast.ForStatement:
		a.analyzeFor(n, "")
	case *ast.SwitchStatement:
		a.analyzeSwitch(n, "")
	case *ast.LabeledStatement:
		a.analyzeLabeled(n)
	case *ast.BreakStatement:
		a.analyzeBreak(n)
	case *ast.ContinueStatement:
		a.analyzeContinue(n)
	case *ast.TryStatement:
		a.analyzeTry(n)
	case *ast.ThrowStatement:
		n.Value = a.AnalyzeExpression(n.Value)
		n.Value.GetType().MustBeAssignableTo(a.sink, ast.Line(n), throwableType)
	case *ast.ReturnStatement:
		if n.Value != nil {
			n.Value = a.AnalyzeExpression(n.Value)
			a.report(diagnostics.ErrA002, n, "Cannot return a value from a method whose result type is void")
		}
	case *ast.PrintStatement:
		if n.Value != nil {
			n.Value = a.AnalyzeExpression(n.Value)
		}
	case *ast.EmptyStatement:
	}
	return s
}

func (a *Analyzer) analyzeBlock(b *ast.BlockStatement) {
	a.openScope()
	defer a.closeScope()
	for i, stmt := range b.Statements {
		b.Statements[i] = a.analyzeStatement(stmt)
	}
}

// analyzeScoped analyzes the body of an if or a loop; a declaration there
// is not visible after it.
func (a *Analyzer) analyzeScoped(s ast.Statement) ast.Statement {
	a.openScope()
	defer a.closeScope()
	return a.analyzeStatement(s)
}

func (a *Analyzer) analyzeCondition(e ast.Expression) ast.Expression {
	e = a.AnalyzeExpression(e)
	e.GetType().MustMatchExpected(a.sink, ast.Line(e), typesystem.BOOLEAN)
	return e
}

// analyzeDeclaration checks each initializer before its variable comes
// into scope, so int x = x; is an error.
func (a *Analyzer) analyzeDeclaration(d *ast.VariableDeclaration) {
	d.Type = a.resolveType(d, d.TypeName)
	for _, decl := range d.Declarators {
		if decl.Value != nil {
			decl.Value = a.AnalyzeExpression(decl.Value)
			decl.Value.GetType().MustBeAssignableTo(a.sink, ast.Line(decl.Name), d.Type)
		}
		a.declare(decl.Name, d.Type)
	}
}

func (a *Analyzer) declare(name *ast.Identifier, t typesystem.Type) {
	sym, ok := a.symbolTable.Define(name.Value, t, ast.Line(name))
	if !ok {
		a.report(diagnostics.ErrA005, name, "Variable %s is already defined at line %d", name.Value, sym.Line)
		// keep going with a fresh slot so later uses still resolve
		sym = a.symbolTable.DefineAt(name.Value, t, a.symbolTable.AllocateTemp(max(t.Width(), 1)))
	}
	name.Slot = sym.Slot
	name.SetType(t)
}

func (a *Analyzer) analyzeWhile(n *ast.WhileStatement, label string) {
	n.Condition = a.analyzeCondition(n.Condition)
	a.pushTarget(label, loopTarget)
	n.Body = a.analyzeScoped(n.Body)
	a.popTarget()
}

// analyzeFor scopes the init declarations to the loop.
func (a *Analyzer) analyzeFor(n *ast.ForStatement, label string) {
	a.openScope()
	defer a.closeScope()

	for i, stmt := range n.Init {
		n.Init[i] = a.analyzeStatement(stmt)
	}
	if n.Condition != nil {
		n.Condition = a.analyzeCondition(n.Condition)
	}
	a.pushTarget(label, loopTarget)
	n.Body = a.analyzeScoped(n.Body)
	a.popTarget()
	for i, stmt := range n.Update {
		n.Update[i] = a.analyzeStatement(stmt)
	}
}

func (a *Analyzer) analyzeLabeled(n *ast.LabeledStatement) {
	if _, found := a.findTarget(func(t jumpTarget) bool { return t.label == n.Label }); found {
		a.report(diagnostics.ErrA005, n, "Label %s is already in use", n.Label)
	}

	switch body := n.Body.(type) {
	case *ast.WhileStatement:
		a.analyzeWhile(body, n.Label)
	case *ast.ForStatement:
		a.analyzeFor(body, n.Label)
	case *ast.SwitchStatement:
		a.analyzeSwitch(body, n.Label)
	default:
		a.pushTarget(n.Label, blockTarget)
		n.Body = a.analyzeScoped(n.Body)
		a.popTarget()
	}
}

func (a *Analyzer) analyzeBreak(n *ast.BreakStatement) {
	if n.Label != "" {
		if _, ok := a.findTarget(func(t jumpTarget) bool { return t.label == n.Label }); !ok {
			a.report(diagnostics.ErrA004, n, "Undefined label: %s", n.Label)
		}
		return
	}
	if _, ok := a.findTarget(func(t jumpTarget) bool { return t.kind != blockTarget }); !ok {
		a.report(diagnostics.ErrA004, n, "Break outside switch or loop")
	}
}

func (a *Analyzer) analyzeContinue(n *ast.ContinueStatement) {
	if n.Label == "" {
		if _, ok := a.findTarget(func(t jumpTarget) bool { return t.kind == loopTarget }); !ok {
			a.report(diagnostics.ErrA004, n, "Continue outside of loop")
		}
		return
	}
	t, ok := a.findTarget(func(t jumpTarget) bool { return t.label == n.Label })
	switch {
	case !ok:
		a.report(diagnostics.ErrA004, n, "Undefined label: %s", n.Label)
	case t.kind != loopTarget:
		a.report(diagnostics.ErrA004, n, "Not a loop label: %s", n.Label)
	}
}

// analyzeSwitch checks the discriminant and the case constants and
// reserves the slot that holds the evaluated discriminant. The groups
// share one scope.
func (a *Analyzer) analyzeSwitch(n *ast.SwitchStatement, label string) {
	n.Discriminant = a.AnalyzeExpression(n.Discriminant)
	dt := n.Discriminant.GetType()
	if !dt.MustMatchOneOf(a.sink, ast.Line(n.Discriminant), typesystem.INT, typesystem.CHAR) {
		dt = typesystem.ERROR
	}

	a.openScope()
	defer a.closeScope()
	n.Slot = a.symbolTable.AllocateTemp(1)

	seen := make(map[int64]bool)
	hasDefault := false
	a.pushTarget(label, switchTarget)
	for _, group := range n.Groups {
		for _, l := range group.Labels {
			if l.IsDefault() {
				if hasDefault {
					a.report(diagnostics.ErrA005, l, "Duplicate default label")
				}
				hasDefault = true
				continue
			}
			a.analyzeCaseLabel(l, dt, seen)
		}
		for i, stmt := range group.Statements {
			group.Statements[i] = a.analyzeStatement(stmt)
		}
	}
	a.popTarget()
}

func (a *Analyzer) analyzeCaseLabel(l *ast.SwitchLabel, dt typesystem.Type, seen map[int64]bool) {
	l.Value = a.AnalyzeExpression(l.Value)
	value, ok := a.caseConstant(l.Value)
	if !ok {
		return
	}
	if !l.Value.GetType().MustMatchExpected(a.sink, ast.Line(l), dt) {
		return
	}
	if seen[value] {
		a.report(diagnostics.ErrA005, l, "Duplicate case label: %s", l.Value.TokenLiteral())
		return
	}
	seen[value] = true
}

// caseConstant evaluates a case label, which must be an int or char
// literal.
func (a *Analyzer) caseConstant(e ast.Expression) (int64, bool) {
	switch lit := e.(type) {
	case *ast.IntegerLiteral:
		v, err := lit.Int32()
		if err != nil {
			a.report(diagnostics.ErrA003, lit, "%v", err)
			return 0, false
		}
		return int64(v), true
	case *ast.CharLiteral:
		r, err := lit.Rune()
		if err != nil {
			a.report(diagnostics.ErrA003, lit, "%v", err)
			return 0, false
		}
		return int64(r), true
	}
	a.report(diagnostics.ErrA003, e, "Constant expression required")
	return 0, false
}

// analyzeTry reserves, when there is a finally block, the slot that keeps
// an in-flight exception while the finally code runs.
func (a *Analyzer) analyzeTry(n *ast.TryStatement) {
	a.openScope()
	defer a.closeScope()
	if n.Finally != nil {
		n.Slot = a.symbolTable.AllocateTemp(1)
	}

	a.analyzeBlock(n.Block)
	for _, c := range n.Catches {
		a.analyzeCatch(c)
	}
	if n.Finally != nil {
		a.analyzeBlock(n.Finally)
	}
}

func (a *Analyzer) analyzeCatch(c *ast.CatchClause) {
	c.Type = a.resolveType(c, c.TypeName)
	if !c.Type.IsError() && !c.Type.IsThrowable() {
		a.report(diagnostics.ErrA002, c, "Type %s is not assignable to type Throwable", c.Type)
		c.Type = typesystem.ERROR
	}
	if !c.Type.IsError() {
		c.TypeName = c.Type.InternalName()
	}

	a.openScope()
	defer a.closeScope()
	a.declare(c.Param, c.Type)
	for i, stmt := range c.Body.Statements {
		c.Body.Statements[i] = a.analyzeStatement(stmt)
	}
}
