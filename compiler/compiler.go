// Package compiler implements the single-pass Pratt compiler: it pulls
// tokens from a scanner one at a time and emits bytecode directly into a
// Chunk, with no intermediate AST.
package compiler

import (
	"fmt"
	"os"
	"strconv"

	"clox/scanner"
	"clox/token"
	"clox/value"
	"clox/vm"
)

// local is a declared-but-maybe-not-yet-initialized local variable,
// resolved at compile time to a VM stack slot by its position in
// locals. depth == -1 marks "declared, initializer not yet compiled" so
// a variable's own initializer can't refer to itself (`var a = a;`).
type local struct {
	name  string
	depth int
}

// Compiler holds all state for one compile call: the token-stream
// lookahead pair, the sticky error-recovery flags, the output chunk, and
// the local-variable scope stack. Bundling these into an explicit struct
// (rather than package-level globals) is the lift of the single-compile
// restriction the design notes call out.
type Compiler struct {
	scanner *scanner.Scanner
	heap    *vm.State
	chunk   *value.Chunk

	previous token.Token
	current  token.Token

	hadError  bool
	panicMode bool

	locals     []local
	scopeDepth int
}

// statementStartKeywords are the tokens the synchronizer treats as a safe
// place to resume parsing after an error.
var statementStartKeywords = map[token.Kind]bool{
	token.CLASS:  true,
	token.FUN:    true,
	token.VAR:    true,
	token.FOR:    true,
	token.IF:     true,
	token.WHILE:  true,
	token.PRINT:  true,
	token.RETURN: true,
}

// Compile compiles source into chunk, interning identifier names and
// string literals through heap. It reports whether
// compilation succeeded; on false, chunk may hold partial output and the
// caller must not execute it.
func Compile(source []byte, chunk *value.Chunk, heap *vm.State) bool {
	c := &Compiler{
		scanner: scanner.New(source),
		heap:    heap,
		chunk:   chunk,
	}

	c.advance()
	for !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.EOF, "Expected end of expression.")
	c.emitReturn()

	return !c.hadError
}

// --- token stream -----------------------------------------------------

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.Scan()
		if c.current.Kind != token.ERROR {
			return
		}
		c.errorAtCurrent(c.current.Message)
	}
}

func (c *Compiler) check(kind token.Kind) bool {
	return c.current.Kind == kind
}

func (c *Compiler) match(kind token.Kind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(kind token.Kind, message string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// --- error reporting (§4.3.5) ------------------------------------------

func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	var where string
	switch tok.Kind {
	case token.EOF:
		where = "at end"
	case token.ERROR:
		where = ""
	default:
		where = fmt.Sprintf(" at '%s'", tok.Lexeme())
	}

	fmt.Fprintln(os.Stderr, CompileError{Line: tok.Line, Where: where, Message: message})
}

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) error(message string) {
	c.errorAt(c.previous, message)
}

// --- emission -----------------------------------------------------------

func (c *Compiler) emitByte(b byte) {
	c.chunk.WriteByte(b, c.previous.Line)
}

func (c *Compiler) emitOpcode(op value.Opcode) {
	c.chunk.WriteOpcode(op, c.previous.Line)
}

func (c *Compiler) emitOpcodeByte(op value.Opcode, operand byte) {
	c.emitOpcode(op)
	c.emitByte(operand)
}

func (c *Compiler) emitReturn() {
	c.emitOpcode(value.OpReturn)
}

// makeConstant adds v to the chunk's constant pool, enforcing the
// 8-bit-index bound the whole instruction set depends on.
func (c *Compiler) makeConstant(v value.Value) byte {
	idx := c.chunk.AddConstant(v)
	if idx >= value.MaxConstants {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitOpcodeByte(value.OpConstant, c.makeConstant(v))
}

// identifierConstant interns name and adds it to the constant pool as a
// fresh entry every time it's called — clox's identifierConstant does not
// deduplicate repeated identifier constants within one compile, and this
// follows that exactly rather than adding a cache.
func (c *Compiler) identifierConstant(name string) byte {
	str := c.heap.InternString([]byte(name))
	return c.makeConstant(value.ObjectValue(str))
}

// --- Pratt driver (§4.3.3) ----------------------------------------------

func (c *Compiler) parsePrecedence(minPrec Precedence) {
	c.advance()
	prefixRule := ruleFor(c.previous.Kind).prefix
	if prefixRule == nil {
		c.error("Expected expression.")
		return
	}

	canAssign := minPrec <= PrecAssignment
	prefixRule(c, canAssign)

	for minPrec <= ruleFor(c.current.Kind).precedence {
		c.advance()
		infixRule := ruleFor(c.previous.Kind).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(token.EQUAL) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// --- declarations & statements (§4.3.1) ---------------------------------

func (c *Compiler) declaration() {
	if c.match(token.VAR) {
		c.varDeclaration()
	} else {
		c.statement()
	}

	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) synchronize() {
	c.panicMode = false

	for c.current.Kind != token.EOF {
		if c.previous.Kind == token.SEMICOLON {
			return
		}
		if statementStartKeywords[c.current.Kind] {
			return
		}
		c.advance()
	}
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expected variable name.")

	if c.match(token.EQUAL) {
		c.expression()
	} else {
		c.emitOpcode(value.OpNil)
	}
	c.consume(token.SEMICOLON, "Expected ';' after variable declaration.")

	c.defineVariable(global)
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expected ';' after value.")
	c.emitOpcode(value.OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expected ';' after expression.")
	c.emitOpcode(value.OpPop)
}

// --- expression handlers (§4.3.4) ---------------------------------------

func number(c *Compiler, _ bool) {
	n, err := strconv.ParseFloat(c.previous.Lexeme(), 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(value.NumberValue(n))
}

// stringLiteral interns the bytes between the opening and closing quote,
// verbatim: no escape processing, matching the reference scanner/compiler
// exactly.
func stringLiteral(c *Compiler, _ bool) {
	lexeme := c.previous.Lexeme()
	chars := []byte(lexeme[1 : len(lexeme)-1])
	str := c.heap.InternString(chars)
	c.emitConstant(value.ObjectValue(str))
}

func literal(c *Compiler, _ bool) {
	switch c.previous.Kind {
	case token.FALSE:
		c.emitOpcode(value.OpFalse)
	case token.NIL:
		c.emitOpcode(value.OpNil)
	case token.TRUE:
		c.emitOpcode(value.OpTrue)
	}
}

func grouping(c *Compiler, _ bool) {
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expected ')' after expression.")
}

func unary(c *Compiler, _ bool) {
	operator := c.previous.Kind
	c.parsePrecedence(PrecUnary)

	switch operator {
	case token.MINUS:
		c.emitOpcode(value.OpNegate)
	case token.BANG:
		c.emitOpcode(value.OpNot)
	}
}

func binary(c *Compiler, _ bool) {
	operator := c.previous.Kind
	rule := ruleFor(operator)
	c.parsePrecedence(rule.precedence + 1)

	switch operator {
	case token.PLUS:
		c.emitOpcode(value.OpAdd)
	case token.MINUS:
		c.emitOpcode(value.OpSubtract)
	case token.STAR:
		c.emitOpcode(value.OpMultiply)
	case token.SLASH:
		c.emitOpcode(value.OpDivide)
	case token.EQUAL_EQUAL:
		c.emitOpcode(value.OpEqual)
	case token.BANG_EQUAL:
		c.emitOpcode(value.OpEqual)
		c.emitOpcode(value.OpNot)
	case token.GREATER:
		c.emitOpcode(value.OpGreater)
	case token.GREATER_EQUAL:
		c.emitOpcode(value.OpLess)
		c.emitOpcode(value.OpNot)
	case token.LESS:
		c.emitOpcode(value.OpLess)
	case token.LESS_EQUAL:
		c.emitOpcode(value.OpGreater)
		c.emitOpcode(value.OpNot)
	}
}

func variable(c *Compiler, canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *Compiler) namedVariable(tok token.Token, canAssign bool) {
	name := tok.Lexeme()

	var getOp, setOp value.Opcode
	var slot int
	if local := c.resolveLocal(name); local >= 0 {
		slot = local
		getOp, setOp = value.OpGetLocal, value.OpSetLocal
	} else {
		slot = int(c.identifierConstant(name))
		getOp, setOp = value.OpGetGlobal, value.OpSetGlobal
	}

	if canAssign && c.match(token.EQUAL) {
		c.expression()
		c.emitOpcodeByte(setOp, byte(slot))
	} else {
		c.emitOpcodeByte(getOp, byte(slot))
	}
}
