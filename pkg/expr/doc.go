// Package expr is the sandboxed expression language used by visibility
// rules, name-encoded mask rules and derived material values.
//
// Expressions are tokenized and parsed into a small AST and evaluated against
// an Env. Names are resolved by lookup, never by rewriting the source text, so
// a property called Top can not leak into Top_Layer. The supported operators
// are
//
//	or  and  not  == != < > <= >=  + - * /  unary -
//
// with Python-like truthiness: and/or return one of their operands, booleans
// count as 0 or 1 in arithmetic and comparisons are chainable. The identifier
// # is an ordinary name bound by templated requirements such as "#>=2".
//
// Any failure yields Unknown. Evaluate reports the coded error, Eval logs it.
package expr
