package compiler

import "clox/token"

// Precedence is a Pratt binding power, lowest to highest. Binary handlers
// parse their right operand one level above their own precedence, which
// is what makes left-associative chains like `1 - 2 - 3` group left.
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

// parseFn is a prefix or infix handler. canAssign is threaded through
// from parsePrecedence so a handler three levels down the call stack
// (e.g. variable) can tell whether `=` is legal here.
type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules is the Pratt table, one row per token kind that participates in
// expression grammar. Absent kinds get the zero parseRule (no prefix, no
// infix, PrecNone), which is exactly right for punctuation that never
// starts or continues an expression.
var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LEFT_PAREN: {grouping, nil, PrecNone},

		token.MINUS: {unary, binary, PrecTerm},
		token.PLUS:  {nil, binary, PrecTerm},
		token.SLASH: {nil, binary, PrecFactor},
		token.STAR:  {nil, binary, PrecFactor},

		token.BANG:       {unary, nil, PrecNone},
		token.BANG_EQUAL: {nil, binary, PrecEquality},

		// EQUAL's infix cell is unreachable: the Pratt loop only ever
		// invokes an infix handler when minPrec <= rule.precedence, and
		// nothing calls parsePrecedence with PrecNone. Bare `=` is instead
		// rejected by parsePrecedence's trailing canAssign check, or
		// consumed directly by variable/varDecl. Kept in the table rather
		// than omitted to document that the cell exists and is dead.
		token.EQUAL: {nil, binary, PrecNone},

		token.EQUAL_EQUAL:   {nil, binary, PrecEquality},
		token.GREATER:       {nil, binary, PrecComparison},
		token.GREATER_EQUAL: {nil, binary, PrecComparison},
		token.LESS:          {nil, binary, PrecComparison},
		token.LESS_EQUAL:    {nil, binary, PrecComparison},

		token.IDENTIFIER: {variable, nil, PrecNone},
		token.STRING:     {stringLiteral, nil, PrecNone},
		token.NUMBER:     {number, nil, PrecNone},

		token.FALSE: {literal, nil, PrecNone},
		token.NIL:   {literal, nil, PrecNone},
		token.TRUE:  {literal, nil, PrecNone},

		token.AND: {nil, and_, PrecAnd},
		token.OR:  {nil, or_, PrecOr},
	}
}

func ruleFor(kind token.Kind) parseRule {
	return rules[kind]
}
