package main

import "fmt"

// LexError reports a malformed byte sequence: an unclosed literal, a
// newline inside a character or string literal, or a byte the lexer has no
// rule for. Start/End are byte offsets into the source buffer.
type LexError struct {
	Start, End int
	Message    string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Start, e.End, e.Message)
}

// ParserError reports a malformed declaration: an unclosed bracket, a
// missing arrow, a missing type after ':' or '...', or an unrecognized
// top-level form.
type ParserError struct {
	Start, End int
	Message    string
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Start, e.End, e.Message)
}

// TraverserError reports malformed branch geometry: a '?' with zero or two
// valid perpendicular arrows. X/Y are grid coordinates, not byte offsets.
type TraverserError struct {
	X, Y    int
	Message string
}

func (e *TraverserError) Error() string {
	return fmt.Sprintf("traverser error at (%d,%d): %s", e.X, e.Y, e.Message)
}

// CheckError reports a stack-effect violation: an undeclared call target, an
// argument type mismatch, a return mismatch, a JumpTrue without a bool on
// top, a Goto to an absent label, or an unknown surface type name.
type CheckError struct {
	Function string
	Message  string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("check error in %s: %s", e.Function, e.Message)
}
