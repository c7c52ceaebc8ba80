// Package scicalc implements the expression engine of a scientific
// calculator using arbitrary-precision decimal arithmetic.
//
// Raw display text, as typed on a calculator keypad, goes through Normalize
// to become a canonical expression. Normalize removes grouping separators,
// replaces glyphs like × and ÷ with ASCII operators, substitutes literals for
// π and e, makes implicit multiplication explicit, and closes any parentheses
// left open. Evaluate parses the canonical form and computes its value under
// a Context giving the angle mode and precision. Calculate does both.
//
// Precedence follows ordinary math notation. "2+3*4" is 14, "2^3^2" is
// "2^(3^2)", and "-2^2" is "-(2^2)". Postfix ! and % bind tightest, so "3!^2"
// is 36. # is the remainder after truncated division.
//
// Every expression either has a value or fails with an *Error whose Kind is
// one of Syntax, Domain, DivisionByZero, Infinity, or RequireRealNumber.
// Intermediate results carry Context.Precision plus GuardDigits significant
// digits; the final Value is rounded half to even.
package scicalc
