// Package eval implements the restricted expression language used by
// folded expressions, comprehensions and interpolated strings.
//
// Expressions are parsed from scanner tokens into a closed set of
// [Expr] types. [Eval] computes a value, [Fold] evaluates as much as
// possible and leaves sub expressions referring to unavailable scoped
// variables in place, and [Format] prints an expression back to source.
//
// Only the operators of the language and the registered functions are
// available; unknown names fail with [ErrUnsupportedExpression].
package eval
