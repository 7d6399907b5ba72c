package expr

import (
	"strings"
	"unicode"
)

// tokenKind discriminates scanner output.
type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenVariable
	tokenOperator // one of + - * / ( )
)

type token struct {
	kind tokenKind
	text string
	pos  int // rune offset of the first character
}

// tokenize scans an expression left to right. Whitespace is skipped; any
// character that is not part of a number, an identifier, or a single-character
// operator is a hard error.
func tokenize(input string) ([]token, *EvalError) {
	runes := []rune(input)
	var tokens []token

	i := 0
	for i < len(runes) {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case r == '+' || r == '-' || r == '*' || r == '/' || r == '(' || r == ')':
			tokens = append(tokens, token{kind: tokenOperator, text: string(r), pos: i})
			i++

		case unicode.IsDigit(r) || r == '.':
			start := i
			dots := 0
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				if runes[i] == '.' {
					dots++
				}
				i++
			}
			text := string(runes[start:i])
			if dots > 1 || text == "." {
				return nil, errAt(ErrCodeInvalidNumber, start, "invalid number %q", text)
			}
			tokens = append(tokens, token{kind: tokenNumber, text: text, pos: start})

		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenVariable, text: string(runes[start:i]), pos: start})

		default:
			return nil, errAt(ErrCodeUnexpectedCharacter, i, "unexpected character %q", string(r))
		}
	}

	return tokens, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ExtractVariables returns the distinct variable names referenced by an
// expression, in first-appearance order. It tokenizes only (no parse, no
// evaluation) and is total: a malformed expression yields an empty slice,
// never an error. Callers use it to warn before variable deletion, so it
// must work on whatever string happens to be in a binding.
func ExtractVariables(input string) []string {
	tokens, err := tokenize(input)
	if err != nil {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	for _, tok := range tokens {
		if tok.kind != tokenVariable || seen[tok.text] {
			continue
		}
		seen[tok.text] = true
		names = append(names, tok.text)
	}
	return names
}

// References reports whether the expression mentions the given variable.
func References(input, name string) bool {
	for _, v := range ExtractVariables(input) {
		if v == name {
			return true
		}
	}
	return false
}

// IsBlank reports whether an expression is empty after trimming whitespace.
// A blank expression is how a binding is cleared.
func IsBlank(input string) bool {
	return strings.TrimSpace(input) == ""
}
