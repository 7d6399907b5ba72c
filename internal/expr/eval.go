package expr

import (
	"math"
	"strconv"
)

// VariableSource resolves variable names to their current numeric values.
// Implemented by the project's variable store; kept as an interface so this
// package has no dependency on the entity model.
type VariableSource interface {
	// VariableValue returns the current value and whether the name exists.
	VariableValue(name string) (float64, bool)
}

// MapSource is a VariableSource backed by a plain map, mainly for tests and
// one-off evaluation from the CLI.
type MapSource map[string]float64

// VariableValue implements VariableSource.
func (m MapSource) VariableValue(name string) (float64, bool) {
	v, ok := m[name]
	return v, ok
}

// Evaluate parses and evaluates an expression against the given variable
// source. It returns a finite value or an *EvalError; it never panics.
func Evaluate(input string, vars VariableSource) (float64, *EvalError) {
	tokens, err := tokenize(input)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, errAt(ErrCodeEmptyExpression, -1, "expression is empty")
	}

	p := &parser{tokens: tokens, vars: vars}
	value, err := p.expression()
	if err != nil {
		return 0, err
	}
	if tok, ok := p.peek(); ok {
		return 0, errAt(ErrCodeUnexpectedToken, tok.pos, "unexpected %q after expression", tok.text)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errAt(ErrCodeNonFiniteResult, -1, "result is not finite")
	}
	return value, nil
}

// parser is a recursive-descent evaluator over the token stream. Parsing and
// evaluation are fused: the grammar is small enough that an AST would only
// add allocation without adding capability.
type parser struct {
	tokens []token
	next   int
	vars   VariableSource
}

func (p *parser) peek() (token, bool) {
	if p.next >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.next], true
}

func (p *parser) advance() token {
	tok := p.tokens[p.next]
	p.next++
	return tok
}

// expression := term (('+' | '-') term)*
func (p *parser) expression() (float64, *EvalError) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokenOperator || (tok.text != "+" && tok.text != "-") {
			return left, nil
		}
		p.advance()
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if tok.text == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

// term := factor (('*' | '/') factor)*
func (p *parser) term() (float64, *EvalError) {
	left, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokenOperator || (tok.text != "*" && tok.text != "/") {
			return left, nil
		}
		op := p.advance()
		right, err := p.factor()
		if err != nil {
			return 0, err
		}
		if op.text == "*" {
			left *= right
		} else {
			if right == 0 {
				return 0, errAt(ErrCodeDivisionByZero, op.pos, "division by zero")
			}
			left /= right
		}
	}
}

// factor := NUMBER | VARIABLE | '(' expression ')' | ('+' | '-') factor
func (p *parser) factor() (float64, *EvalError) {
	tok, ok := p.peek()
	if !ok {
		return 0, errAt(ErrCodeUnexpectedToken, len(p.tokens[len(p.tokens)-1].text)+p.tokens[len(p.tokens)-1].pos, "expression ends where a value was expected")
	}

	switch tok.kind {
	case tokenNumber:
		p.advance()
		value, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return 0, errAt(ErrCodeInvalidNumber, tok.pos, "invalid number %q", tok.text)
		}
		return value, nil

	case tokenVariable:
		p.advance()
		value, found := p.vars.VariableValue(tok.text)
		if !found {
			e := errAt(ErrCodeUnknownVariable, tok.pos, "unknown variable %q", tok.text)
			e.Variable = tok.text
			return 0, e
		}
		return value, nil

	default: // tokenOperator
		switch tok.text {
		case "(":
			p.advance()
			value, err := p.expression()
			if err != nil {
				return 0, err
			}
			closing, ok := p.peek()
			if !ok || closing.kind != tokenOperator || closing.text != ")" {
				return 0, errAt(ErrCodeMissingClosingParen, tok.pos, "missing closing parenthesis")
			}
			p.advance()
			return value, nil
		case "+":
			p.advance()
			return p.factor()
		case "-":
			p.advance()
			value, err := p.factor()
			if err != nil {
				return 0, err
			}
			return -value, nil
		default:
			return 0, errAt(ErrCodeUnexpectedToken, tok.pos, "unexpected %q", tok.text)
		}
	}
}
