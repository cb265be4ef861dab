// Package compiler turns source text straight into bytecode with a single
// pass Pratt parser; there is no syntax tree.
package compiler

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/xirelogy/go-lox/internal/bytecode"
	"github.com/xirelogy/go-lox/internal/lexer"
	"github.com/xirelogy/go-lox/internal/token"
	"github.com/xirelogy/go-lox/internal/value"
)

// StringAllocator creates the string objects referenced by constants.
type StringAllocator interface {
	CopyString(chars string) *value.String
}

// Option configures a compilation.
type Option func(*parser)

// WithLogger sets the logger used for the debug disassembly dump.
func WithLogger(log zerolog.Logger) Option {
	return func(p *parser) { p.log = log }
}

// WithName sets the chunk name used in the debug dump.
func WithName(name string) Option {
	return func(p *parser) { p.name = name }
}

// Compile appends the bytecode for source to chunk. If any error is
// reported the returned error is an ErrorList and chunk must not be run.
func Compile(source string, chunk *bytecode.Chunk, strs StringAllocator, opts ...Option) error {
	p := &parser{
		lex:   lexer.New(source),
		chunk: chunk,
		strs:  strs,
		log:   zerolog.Nop(),
		name:  "script",
	}
	for _, opt := range opts {
		opt(p)
	}

	p.advance()
	for !p.match(token.EOF) {
		p.declaration()
	}
	p.endCompiler()

	if p.hadError {
		return p.errors
	}
	return nil
}

type parser struct {
	lex      *lexer.Lexer
	current  token.Token
	previous token.Token

	hadError  bool
	panicMode bool
	errors    ErrorList

	chunk *bytecode.Chunk
	strs  StringAllocator
	log   zerolog.Logger
	name  string
}

func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lex.NextToken()
		if p.current.Type != token.Error {
			break
		}
		p.errorAtCurrent(p.current.Message)
	}
}

func (p *parser) consume(t token.Type, msg string) {
	if p.current.Type == t {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *parser) check(t token.Type) bool {
	return p.current.Type == t
}

func (p *parser) match(t token.Type) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) declaration() {
	if p.match(token.Var) {
		p.varDeclaration()
	} else {
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *parser) varDeclaration() {
	global := p.parseVariable("Expected variable name.")
	if p.match(token.Assign) {
		p.expression()
	} else {
		p.emitOp(bytecode.OP_NIL)
	}
	p.consume(token.Semicolon, "Expected ';' after variable declaration.")
	p.emitOpArg(bytecode.OP_DEFINE_GLOBAL, global)
}

func (p *parser) parseVariable(msg string) byte {
	p.consume(token.Ident, msg)
	return p.identifierConstant(p.previous)
}

func (p *parser) identifierConstant(name token.Token) byte {
	return p.makeConstant(value.Object(p.strs.CopyString(name.Literal)))
}

func (p *parser) statement() {
	if p.match(token.Print) {
		p.printStatement()
		return
	}
	p.expressionStatement()
}

func (p *parser) printStatement() {
	p.expression()
	p.consume(token.Semicolon, "Expected ';' after value.")
	p.emitOp(bytecode.OP_PRINT)
}

func (p *parser) expressionStatement() {
	p.expression()
	p.consume(token.Semicolon, "Expected ';' after expression.")
	p.emitOp(bytecode.OP_POP)
}

// synchronize skips to the next statement boundary after an error.
func (p *parser) synchronize() {
	p.panicMode = false
	for p.current.Type != token.EOF {
		if p.previous.Type == token.Semicolon {
			return
		}
		if token.IsStatementStart(p.current.Type) {
			return
		}
		p.advance()
	}
}

func (p *parser) expression() {
	p.parsePrecedence(precAssignment)
}

func (p *parser) parsePrecedence(prec precedence) {
	p.advance()
	prefix := getRule(p.previous.Type).prefix
	if prefix == nil {
		p.error("Expected expression.")
		return
	}
	prefix(p)

	for prec <= getRule(p.current.Type).precedence {
		p.advance()
		getRule(p.previous.Type).infix(p)
	}
}

func (p *parser) grouping() {
	p.expression()
	p.consume(token.RParen, "Expected ')' after expression.")
}

func (p *parser) number() {
	n, err := strconv.ParseFloat(p.previous.Literal, 64)
	if err != nil {
		p.error(fmt.Sprintf("Invalid number literal %q.", p.previous.Literal))
		return
	}
	p.emitConstant(value.Number(n))
}

func (p *parser) string() {
	lit := p.previous.Literal
	p.emitConstant(value.Object(p.strs.CopyString(lit[1 : len(lit)-1])))
}

func (p *parser) variable() {
	arg := p.identifierConstant(p.previous)
	p.emitOpArg(bytecode.OP_GET_GLOBAL, arg)
}

func (p *parser) literal() {
	switch p.previous.Type {
	case token.False:
		p.emitOp(bytecode.OP_FALSE)
	case token.True:
		p.emitOp(bytecode.OP_TRUE)
	case token.Nil:
		p.emitOp(bytecode.OP_NIL)
	}
}

func (p *parser) unary() {
	op := p.previous.Type
	p.parsePrecedence(precUnary)
	switch op {
	case token.Bang:
		p.emitOp(bytecode.OP_NOT)
	case token.Minus:
		p.emitOp(bytecode.OP_NEGATE)
	}
}

// binary compiles the right operand one level tighter than the operator,
// which makes every binary operator left-associative.
// !=, <= and >= have no opcode of their own.
func (p *parser) binary() {
	op := p.previous.Type
	p.parsePrecedence(getRule(op).precedence + 1)
	switch op {
	case token.NotEqual:
		p.emitOps(bytecode.OP_EQUAL, bytecode.OP_NOT)
	case token.Equal:
		p.emitOp(bytecode.OP_EQUAL)
	case token.Greater:
		p.emitOp(bytecode.OP_GREATER)
	case token.GreaterEqual:
		p.emitOps(bytecode.OP_LESS, bytecode.OP_NOT)
	case token.Less:
		p.emitOp(bytecode.OP_LESS)
	case token.LessEqual:
		p.emitOps(bytecode.OP_GREATER, bytecode.OP_NOT)
	case token.Plus:
		p.emitOp(bytecode.OP_ADD)
	case token.Minus:
		p.emitOp(bytecode.OP_SUBTRACT)
	case token.Star:
		p.emitOp(bytecode.OP_MULTIPLY)
	case token.Slash:
		p.emitOp(bytecode.OP_DIVIDE)
	}
}

func (p *parser) emitByte(b byte) {
	p.chunk.Write(b, p.previous.Pos.Line)
}

func (p *parser) emitOp(op bytecode.OpCode) {
	p.emitByte(byte(op))
}

func (p *parser) emitOps(ops ...bytecode.OpCode) {
	for _, op := range ops {
		p.emitOp(op)
	}
}

func (p *parser) emitOpArg(op bytecode.OpCode, arg byte) {
	p.emitOp(op)
	p.emitByte(arg)
}

func (p *parser) emitConstant(v value.Value) {
	p.emitOpArg(bytecode.OP_CONSTANT, p.makeConstant(v))
}

func (p *parser) makeConstant(v value.Value) byte {
	idx := p.chunk.AddConstant(v)
	if idx >= bytecode.MaxConstants {
		p.error("Too many constants in a single chunk.")
		return 0
	}
	return byte(idx)
}

func (p *parser) endCompiler() {
	p.emitOp(bytecode.OP_RETURN)
	if p.hadError {
		return
	}
	if e := p.log.Debug(); e.Enabled() {
		var buf bytes.Buffer
		if err := bytecode.NewDisassembler(&buf).DisassembleChunk(p.name, p.chunk); err != nil {
			e.Err(err)
		}
		e.Str("chunk", p.name).Msg("compiled\n" + buf.String())
	}
}

func (p *parser) error(msg string) {
	p.errorAt(p.previous, msg)
}

func (p *parser) errorAtCurrent(msg string) {
	p.errorAt(p.current, msg)
}

func (p *parser) errorAt(tok token.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true

	where := ""
	switch tok.Type {
	case token.EOF:
		where = "at end"
	case token.Error:
		// the scanner message already says what went wrong
	default:
		where = fmt.Sprintf("at '%s'", tok.Literal)
	}
	p.errors = append(p.errors, &Error{Line: tok.Pos.Line, Where: where, Message: msg})
}
