package compiler

import "github.com/xirelogy/go-lox/internal/token"

type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type parseFn func(*parser)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

// rules is filled in init because the handlers themselves consult it.
var rules map[token.Type]parseRule

func init() {
	rules = map[token.Type]parseRule{
		token.LParen:       {(*parser).grouping, nil, precNone},
		token.Minus:        {(*parser).unary, (*parser).binary, precTerm},
		token.Plus:         {nil, (*parser).binary, precTerm},
		token.Slash:        {nil, (*parser).binary, precFactor},
		token.Star:         {nil, (*parser).binary, precFactor},
		token.Bang:         {(*parser).unary, nil, precNone},
		token.NotEqual:     {nil, (*parser).binary, precEquality},
		token.Equal:        {nil, (*parser).binary, precEquality},
		token.Greater:      {nil, (*parser).binary, precComparison},
		token.GreaterEqual: {nil, (*parser).binary, precComparison},
		token.Less:         {nil, (*parser).binary, precComparison},
		token.LessEqual:    {nil, (*parser).binary, precComparison},
		token.Ident:        {(*parser).variable, nil, precNone},
		token.String:       {(*parser).string, nil, precNone},
		token.Number:       {(*parser).number, nil, precNone},
		token.False:        {(*parser).literal, nil, precNone},
		token.True:         {(*parser).literal, nil, precNone},
		token.Nil:          {(*parser).literal, nil, precNone},
	}
}

// getRule returns the zero rule (no handlers, precNone) for tokens that
// take no part in expressions.
func getRule(t token.Type) parseRule {
	return rules[t]
}
