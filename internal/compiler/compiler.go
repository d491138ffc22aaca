// Package compiler implements a single-pass Pratt compiler: it drives
// the scanner directly and emits bytecode into a chunk.Chunk without
// building an intermediate AST.
package compiler

import (
	"strconv"

	"lox/internal/chunk"
	"lox/internal/object"
	"lox/internal/report"
	"lox/internal/scanner"
	"lox/internal/token"
)

// Precedence orders binding strength, lowest to highest.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseRule struct {
	prefix     func(c *Compiler, canAssign bool)
	infix      func(c *Compiler, canAssign bool)
	precedence Precedence
}

var rules map[token.Type]parseRule

func init() {
	rules = map[token.Type]parseRule{
		token.LeftParen:    {prefix: (*Compiler).grouping},
		token.Minus:        {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		token.Plus:         {infix: (*Compiler).binary, precedence: PrecTerm},
		token.Slash:        {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Star:         {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Bang:         {prefix: (*Compiler).unary},
		token.BangEqual:    {infix: (*Compiler).binary, precedence: PrecEquality},
		token.EqualEqual:   {infix: (*Compiler).binary, precedence: PrecEquality},
		token.Greater:      {infix: (*Compiler).binary, precedence: PrecComparison},
		token.GreaterEqual: {infix: (*Compiler).binary, precedence: PrecComparison},
		token.Less:         {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LessEqual:    {infix: (*Compiler).binary, precedence: PrecComparison},
		token.Identifier:   {prefix: (*Compiler).variable},
		token.String:       {prefix: (*Compiler).stringLiteral},
		token.Number:       {prefix: (*Compiler).number},
		token.False:        {prefix: (*Compiler).literal},
		token.Nil:          {prefix: (*Compiler).literal},
		token.True:         {prefix: (*Compiler).literal},
	}
}

// Compiler is a single-pass recursive-descent-over-a-Pratt-table
// compiler: there is no separate AST, every rule emits bytes directly
// into the target chunk.
type Compiler struct {
	scanner   *scanner.Scanner
	reporter  *report.Reporter
	chunk     *chunk.Chunk
	previous  token.Token
	current   token.Token
	hadError  bool
	panicMode bool
}

// Compile compiles src's statement subset (var/print/expression
// declarations) into a chunk.Chunk. ok is false if any compile error
// occurred; no chunk should be run in that case.
func Compile(src []byte, r *report.Reporter) (c *chunk.Chunk, ok bool) {
	comp := &Compiler{
		scanner:  scanner.New(src, r),
		reporter: r,
		chunk:    chunk.New(),
	}
	comp.advance()
	for !comp.match(token.EOF) {
		comp.declaration()
	}
	comp.emitOp(chunk.OpReturn)
	return comp.chunk, !comp.hadError
}

func (c *Compiler) advance() {
	c.previous = c.current
	c.current = c.scanner.Next()
}

func (c *Compiler) check(t token.Type) bool {
	return c.current.Type == t
}

func (c *Compiler) match(t token.Type) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t token.Type, message string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) error(message string) {
	c.errorAt(c.previous, message)
}

func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	c.reporter.ErrorAtToken(tok, message)
}

func (c *Compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *Compiler) emitOp(op chunk.OpCode) {
	c.chunk.WriteOp(op, c.previous.Line)
}

func (c *Compiler) emitConstant(v object.Value) {
	idx, ok := c.chunk.AddConstant(v)
	if !ok {
		c.error("Too many constants in one chunk.")
		return
	}
	c.emitOp(chunk.OpConstant)
	c.emitByte(idx)
}

// ---- declarations & statements (statement subset: var, print, expr) ----

func (c *Compiler) declaration() {
	if c.match(token.Var) {
		c.varDecl()
	} else {
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) varDecl() {
	global := c.parseVariable("Expect variable name.")

	if c.match(token.Equal) {
		c.expression()
	} else {
		c.emitOp(chunk.OpNil)
	}
	c.consume(token.Semicolon, "Expect ';' after variable declaration.")

	c.emitOp(chunk.OpDefineGlobal)
	c.emitByte(global)
}

func (c *Compiler) parseVariable(message string) byte {
	c.consume(token.Identifier, message)
	idx, ok := c.chunk.AddConstant(object.String(c.previous.Lexeme))
	if !ok {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return idx
}

func (c *Compiler) statement() {
	if c.match(token.Print) {
		c.printStmt()
		return
	}
	c.exprStmt()
}

func (c *Compiler) printStmt() {
	c.expression()
	c.consume(token.Semicolon, "Expect ';' after value.")
	c.emitOp(chunk.OpPrint)
}

func (c *Compiler) exprStmt() {
	c.expression()
	c.consume(token.Semicolon, "Expect ';' after expression.")
	c.emitOp(chunk.OpPop)
}

// synchronize discards tokens to the next statement boundary, mirroring
// the tree-walker parser's recovery.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Type != token.EOF {
		if c.previous.Type == token.Semicolon {
			return
		}
		switch c.current.Type {
		case token.Class, token.Fun, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}
		c.advance()
	}
}

// ---- expressions (Pratt parser) ----

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *Compiler) parsePrecedence(prec Precedence) {
	c.advance()
	rule := rules[c.previous.Type]
	if rule.prefix == nil {
		c.error("Expect expression.")
		return
	}
	canAssign := prec <= PrecAssignment
	rule.prefix(c, canAssign)

	for prec <= rules[c.current.Type].precedence {
		c.advance()
		infix := rules[c.previous.Type].infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.Equal) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) grouping(bool) {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) unary(bool) {
	opType := c.previous.Type
	line := c.previous.Line
	c.parsePrecedence(PrecUnary)

	switch opType {
	case token.Minus:
		c.chunk.WriteOp(chunk.OpNegate, line)
	case token.Bang:
		c.chunk.WriteOp(chunk.OpNot, line)
	}
}

func (c *Compiler) binary(bool) {
	opType := c.previous.Type
	rule := rules[opType]
	c.parsePrecedence(rule.precedence + 1)

	switch opType {
	case token.Plus:
		c.emitOp(chunk.OpAdd)
	case token.Minus:
		c.emitOp(chunk.OpSub)
	case token.Star:
		c.emitOp(chunk.OpMul)
	case token.Slash:
		c.emitOp(chunk.OpDiv)
	case token.EqualEqual:
		c.emitOp(chunk.OpEqual)
	case token.BangEqual:
		c.emitOp(chunk.OpEqual)
		c.emitOp(chunk.OpNot)
	case token.Greater:
		c.emitOp(chunk.OpGreater)
	case token.GreaterEqual:
		c.emitOp(chunk.OpLess)
		c.emitOp(chunk.OpNot)
	case token.Less:
		c.emitOp(chunk.OpLess)
	case token.LessEqual:
		c.emitOp(chunk.OpGreater)
		c.emitOp(chunk.OpNot)
	}
}

func (c *Compiler) literal(bool) {
	switch c.previous.Type {
	case token.False:
		c.emitOp(chunk.OpFalse)
	case token.True:
		c.emitOp(chunk.OpTrue)
	case token.Nil:
		c.emitOp(chunk.OpNil)
	}
}

func (c *Compiler) number(bool) {
	f, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(object.Number(f))
}

func (c *Compiler) stringLiteral(bool) {
	c.emitConstant(object.String(c.previous.Literal))
}

func (c *Compiler) variable(canAssign bool) {
	name := c.previous.Lexeme
	idx, ok := c.chunk.AddConstant(object.String(name))
	if !ok {
		c.error("Too many constants in one chunk.")
		return
	}

	if canAssign && c.match(token.Equal) {
		c.expression()
		c.emitOp(chunk.OpSetGlobal)
		c.emitByte(idx)
		return
	}
	c.emitOp(chunk.OpGetGlobal)
	c.emitByte(idx)
}
