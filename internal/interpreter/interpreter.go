// Package interpreter implements the tree-walking evaluator: it
// executes a resolved program directly against a chain of
// object.Environment values.
package interpreter

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"lox/internal/ast"
	"lox/internal/object"
	"lox/internal/report"
	"lox/internal/token"
)

// Interpreter walks a resolved program, evaluating expressions and
// executing statements against a live environment chain.
type Interpreter struct {
	globals  *object.Environment
	env      *object.Environment
	locals   map[ast.Expr]int
	reporter *report.Reporter
}

// New returns an Interpreter with clock() registered as a global, and
// reports runtime errors to r.
func New(r *report.Reporter) *Interpreter {
	globals := object.NewEnvironment(nil)
	globals.Define("clock", object.NewNativeFunction("clock", 0, func([]object.Value) object.Value {
		return object.Number(float64(time.Now().UnixNano()) / 1e9)
	}))

	return &Interpreter{
		globals:  globals,
		env:      globals,
		locals:   make(map[ast.Expr]int),
		reporter: r,
	}
}

// Interpret runs program to completion, or until a runtime error
// occurs. It assumes program has already been resolved via UseLocals.
func (it *Interpreter) Interpret(program []ast.Stmt) {
	for _, stmt := range program {
		if err := it.execStmt(stmt); err != nil {
			if rerr, ok := err.(*report.RuntimeError); ok {
				it.reporter.RuntimeErr(rerr)
			} else {
				// A *returnSignal escaping every function frame would be
				// a resolver bug (top-level return is rejected there);
				// surface it rather than hide it.
				it.reporter.RuntimeErr(report.NewRuntimeError(0, err.Error()))
			}
			return
		}
	}
}

// UseLocals adopts the scope-depth table a resolver.Resolver produced
// for the same program.
func (it *Interpreter) UseLocals(locals map[ast.Expr]int) {
	it.locals = locals
}

// returnSignal unwinds the Go call stack back to the nearest function
// call boundary, carrying the returned value. It is control flow, not
// an error, and is never shown to a caller as one.
type returnSignal struct{ value object.Value }

func (*returnSignal) Error() string { return "return" }

// ExecuteBlock satisfies object.Caller: it runs a function body in a
// fresh call environment and reports whether a return fired.
func (it *Interpreter) ExecuteBlock(body []ast.Stmt, env *object.Environment) (object.Value, bool, error) {
	err := it.runBlock(body, env)
	if err == nil {
		return object.Nil{}, false, nil
	}
	if rs, ok := err.(*returnSignal); ok {
		return rs.value, true, nil
	}
	return nil, false, err
}

func (it *Interpreter) runBlock(stmts []ast.Stmt, env *object.Environment) error {
	previous := it.env
	it.env = env
	defer func() { it.env = previous }()

	for _, s := range stmts {
		if err := it.execStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) execStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := it.eval(s.Expression)
		return err

	case *ast.PrintStmt:
		v, err := it.eval(s.Expression)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, v.String())
		return nil

	case *ast.VarStmt:
		var v object.Value = object.Nil{}
		if s.Initializer != nil {
			var err error
			v, err = it.eval(s.Initializer)
			if err != nil {
				return err
			}
		}
		it.env.Define(s.Name.Lexeme, v)
		return nil

	case *ast.BlockStmt:
		return it.runBlock(s.Statements, object.NewEnvironment(it.env))

	case *ast.IfStmt:
		cond, err := it.eval(s.Condition)
		if err != nil {
			return err
		}
		if object.Truthy(cond) {
			return it.execStmt(s.ThenBranch)
		}
		if s.ElseBranch != nil {
			return it.execStmt(s.ElseBranch)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := it.eval(s.Condition)
			if err != nil {
				return err
			}
			if !object.Truthy(cond) {
				return nil
			}
			if err := it.execStmt(s.Body); err != nil {
				return err
			}
		}

	case *ast.FunctionStmt:
		fn := &object.Function{Decl: s, Closure: it.env}
		it.env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.ReturnStmt:
		v := object.Value(object.Nil{})
		if s.Value != nil {
			var err error
			v, err = it.eval(s.Value)
			if err != nil {
				return err
			}
		}
		return &returnSignal{value: v}

	default:
		panic(fmt.Sprintf("interpreter: unhandled statement type %T", stmt))
	}
}

func (it *Interpreter) eval(expr ast.Expr) (object.Value, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return it.evalLiteral(e)

	case *ast.GroupingExpr:
		return it.eval(e.Expression)

	case *ast.VariableExpr:
		return it.lookUpVariable(e.Name.Lexeme, e, e.Name.Line)

	case *ast.AssignExpr:
		v, err := it.eval(e.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := it.locals[e]; ok {
			it.env.AssignAt(distance, e.Name.Lexeme, v)
			return v, nil
		}
		if !it.globals.Assign(e.Name.Lexeme, v) {
			return nil, it.undefinedVariable(e.Name.Lexeme, e.Name.Line)
		}
		return v, nil

	case *ast.LogicalExpr:
		left, err := it.eval(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Operator.Lexeme == "or" {
			if object.Truthy(left) {
				return left, nil
			}
		} else {
			if !object.Truthy(left) {
				return left, nil
			}
		}
		return it.eval(e.Right)

	case *ast.UnaryExpr:
		return it.evalUnary(e)

	case *ast.BinaryExpr:
		return it.evalBinary(e)

	case *ast.CallExpr:
		return it.evalCall(e)

	default:
		panic(fmt.Sprintf("interpreter: unhandled expression type %T", expr))
	}
}

func (it *Interpreter) evalLiteral(e *ast.LiteralExpr) (object.Value, error) {
	switch e.Token.Type {
	case token.True:
		return object.Bool(true), nil
	case token.False:
		return object.Bool(false), nil
	case token.Nil:
		return object.Nil{}, nil
	case token.Number:
		f, err := strconv.ParseFloat(e.Token.Lexeme, 64)
		if err != nil {
			panic(fmt.Sprintf("interpreter: malformed number literal %q", e.Token.Lexeme))
		}
		return object.Number(f), nil
	case token.String:
		return object.String(e.Token.Literal), nil
	default:
		panic(fmt.Sprintf("interpreter: unhandled literal token %s", e.Token.Type))
	}
}

func (it *Interpreter) evalUnary(e *ast.UnaryExpr) (object.Value, error) {
	right, err := it.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Lexeme {
	case "-":
		n, ok := right.(object.Number)
		if !ok {
			return nil, report.NewRuntimeError(e.Operator.Line, "Operand must be a number.")
		}
		return -n, nil
	case "!":
		return object.Bool(!object.Truthy(right)), nil
	default:
		panic("interpreter: unhandled unary operator " + e.Operator.Lexeme)
	}
}

func (it *Interpreter) evalBinary(e *ast.BinaryExpr) (object.Value, error) {
	left, err := it.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := it.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Lexeme {
	case "+":
		if ln, lok := left.(object.Number); lok {
			if rn, rok := right.(object.Number); rok {
				return ln + rn, nil
			}
		}
		if ls, lok := left.(object.String); lok {
			if rs, rok := right.(object.String); rok {
				return ls + rs, nil
			}
		}
		return nil, report.NewRuntimeError(e.Operator.Line, "Operands must be two numbers or two strings.")
	case "-":
		ln, rn, err := it.bothNumbers(left, right, e.Operator.Line)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil
	case "*":
		ln, rn, err := it.bothNumbers(left, right, e.Operator.Line)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil
	case "/":
		ln, rn, err := it.bothNumbers(left, right, e.Operator.Line)
		if err != nil {
			return nil, err
		}
		return ln / rn, nil
	case ">":
		ln, rn, err := it.bothNumbers(left, right, e.Operator.Line)
		if err != nil {
			return nil, err
		}
		return object.Bool(ln > rn), nil
	case ">=":
		ln, rn, err := it.bothNumbers(left, right, e.Operator.Line)
		if err != nil {
			return nil, err
		}
		return object.Bool(ln >= rn), nil
	case "<":
		ln, rn, err := it.bothNumbers(left, right, e.Operator.Line)
		if err != nil {
			return nil, err
		}
		return object.Bool(ln < rn), nil
	case "<=":
		ln, rn, err := it.bothNumbers(left, right, e.Operator.Line)
		if err != nil {
			return nil, err
		}
		return object.Bool(ln <= rn), nil
	case "==":
		return object.Bool(object.Equal(left, right)), nil
	case "!=":
		return object.Bool(!object.Equal(left, right)), nil
	default:
		panic("interpreter: unhandled binary operator " + e.Operator.Lexeme)
	}
}

func (it *Interpreter) bothNumbers(left, right object.Value, line int) (object.Number, object.Number, error) {
	ln, lok := left.(object.Number)
	rn, rok := right.(object.Number)
	if !lok || !rok {
		return 0, 0, report.NewRuntimeError(line, "Operands must be numbers.")
	}
	return ln, rn, nil
}

func (it *Interpreter) evalCall(e *ast.CallExpr) (object.Value, error) {
	callee, err := it.eval(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]object.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := it.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	callable, ok := callee.(object.Callable)
	if !ok {
		return nil, report.NewRuntimeError(e.Paren.Line, "Can only call functions and classes.")
	}
	if len(args) != callable.Arity() {
		return nil, report.NewRuntimeError(e.Paren.Line,
			fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}
	return callable.Call(it, args)
}

func (it *Interpreter) lookUpVariable(name string, expr ast.Expr, line int) (object.Value, error) {
	if distance, ok := it.locals[expr]; ok {
		if v, ok := it.env.GetAt(distance, name); ok {
			return v, nil
		}
	} else if v, ok := it.globals.Get(name); ok {
		return v, nil
	}
	return nil, it.undefinedVariable(name, line)
}

func (it *Interpreter) undefinedVariable(name string, line int) error {
	msg := fmt.Sprintf("Undefined variable '%s'.", name)
	if suggestion := closestName(name, it.globals.Names()); suggestion != "" {
		msg += fmt.Sprintf(" Did you mean '%s'?", suggestion)
	}
	return report.NewRuntimeError(line, msg)
}

// closestName finds the best fuzzy match for name among candidates,
// used only to enrich the mandated "Undefined variable" message with a
// suggestion — never to replace it.
func closestName(name string, candidates []string) string {
	ranked := fuzzy.RankFindFold(name, candidates)
	if len(ranked) == 0 {
		return ""
	}
	best := ranked[0]
	for _, r := range ranked[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	if best.Distance > len(name) {
		return ""
	}
	return best.Target
}
