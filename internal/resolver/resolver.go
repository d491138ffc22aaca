// Package resolver performs a static analysis pass: it walks the AST
// once before execution to bind every variable reference to a scope
// distance, so the interpreter never needs to search an environment
// chain at runtime.
package resolver

import (
	"lox/internal/ast"
	"lox/internal/report"
	"lox/internal/token"
)

type functionType int

const (
	functionNone functionType = iota
	functionFunc
)

// Resolver walks a program and produces Locals: for every variable
// reference expression, how many enclosing scopes out its binding
// lives. Globals are absent from the map (the interpreter falls back
// to the global environment for those).
type Resolver struct {
	scopes      []map[string]bool
	reporter    *report.Reporter
	currentFunc functionType

	Locals map[ast.Expr]int
}

// New returns a Resolver reporting errors to r.
func New(r *report.Reporter) *Resolver {
	return &Resolver{reporter: r, Locals: make(map[ast.Expr]int)}
}

// Resolve walks an entire program.
func (res *Resolver) Resolve(program []ast.Stmt) {
	res.resolveStmts(program)
}

func (res *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		res.resolveStmt(s)
	}
}

func (res *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		res.resolveExpr(s.Expression)
	case *ast.PrintStmt:
		res.resolveExpr(s.Expression)
	case *ast.VarStmt:
		res.declare(s.Name)
		if s.Initializer != nil {
			res.resolveExpr(s.Initializer)
		}
		res.define(s.Name)
	case *ast.BlockStmt:
		res.beginScope()
		res.resolveStmts(s.Statements)
		res.endScope()
	case *ast.IfStmt:
		res.resolveExpr(s.Condition)
		res.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			res.resolveStmt(s.ElseBranch)
		}
	case *ast.WhileStmt:
		res.resolveExpr(s.Condition)
		res.resolveStmt(s.Body)
	case *ast.FunctionStmt:
		res.declare(s.Name)
		res.define(s.Name)
		res.resolveFunction(s, functionFunc)
	case *ast.ReturnStmt:
		if res.currentFunc == functionNone {
			res.reporter.ErrorAtToken(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			res.resolveExpr(s.Value)
		}
	}
}

func (res *Resolver) resolveFunction(fn *ast.FunctionStmt, ft functionType) {
	enclosingFunc := res.currentFunc
	res.currentFunc = ft

	res.beginScope()
	for _, param := range fn.Params {
		res.declare(param)
		res.define(param)
	}
	res.resolveStmts(fn.Body)
	res.endScope()

	res.currentFunc = enclosingFunc
}

func (res *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.VariableExpr:
		if len(res.scopes) > 0 {
			if ready, ok := res.scopes[len(res.scopes)-1][e.Name.Lexeme]; ok && !ready {
				res.reporter.ErrorAtToken(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		res.resolveLocal(e, e.Name)
	case *ast.AssignExpr:
		res.resolveExpr(e.Value)
		res.resolveLocal(e, e.Name)
	case *ast.BinaryExpr:
		res.resolveExpr(e.Left)
		res.resolveExpr(e.Right)
	case *ast.LogicalExpr:
		res.resolveExpr(e.Left)
		res.resolveExpr(e.Right)
	case *ast.UnaryExpr:
		res.resolveExpr(e.Right)
	case *ast.GroupingExpr:
		res.resolveExpr(e.Expression)
	case *ast.CallExpr:
		res.resolveExpr(e.Callee)
		for _, a := range e.Args {
			res.resolveExpr(a)
		}
	case *ast.LiteralExpr:
		// no sub-expressions, no variables to bind
	}
}

func (res *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(res.scopes) - 1; i >= 0; i-- {
		if _, ok := res.scopes[i][name.Lexeme]; ok {
			res.Locals[expr] = len(res.scopes) - 1 - i
			return
		}
	}
	// Not found in any local scope: treat as global.
}

func (res *Resolver) beginScope() {
	res.scopes = append(res.scopes, make(map[string]bool))
}

func (res *Resolver) endScope() {
	res.scopes = res.scopes[:len(res.scopes)-1]
}

func (res *Resolver) declare(name token.Token) {
	if len(res.scopes) == 0 {
		return
	}
	scope := res.scopes[len(res.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		res.reporter.ErrorAtToken(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (res *Resolver) define(name token.Token) {
	if len(res.scopes) == 0 {
		return
	}
	res.scopes[len(res.scopes)-1][name.Lexeme] = true
}
