// Package expr implements the arithmetic expression language used to drive
// numeric entity fields from named variables.
//
// The grammar is deliberately tiny (standard precedence, left-associative):
//
//	expression := term (('+' | '-') term)*
//	term       := factor (('*' | '/') factor)*
//	factor     := NUMBER | VARIABLE | '(' expression ')' | ('+' | '-') factor
//
// Evaluation is never memoized: variable lookup reads the current value from
// the supplied VariableSource at evaluation time, so re-evaluating after a
// variable edit always reflects the new value.
//
// Every failure mode is a typed *EvalError with a stable code. There is no
// panic path; malformed input is an ordinary error to be surfaced per
// binding, never a reason to abort a batch.
package expr
