package main

import (
	"strings"
	"testing"
)

// buildProgram runs every stage short of driving the external compiler:
// lex, parse, traverse, check, emit. It is the shape compileFile follows
// in main.go, without touching the filesystem or spawning a process.
func buildProgram(t *testing.T, src string) (string, error) {
	t.Helper()
	toks, err := NewLexer(src).Lex()
	if err != nil {
		return "", err
	}
	decls, err := NewParser(toks).ParseProgram()
	if err != nil {
		return "", err
	}
	fns, err := BuildFunctions(decls)
	if err != nil {
		return "", err
	}
	if err := CheckProgram(fns); err != nil {
		return "", err
	}
	return EmitC(fns), nil
}

func TestCompileEmptyMain(t *testing.T) {
	out, err := buildProgram(t, "fn main () -> () {}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "__smain") {
		t.Errorf("expected emitted source to define the mangled main, got:\n%s", out)
	}
}

func TestCompileLiteralPush(t *testing.T) {
	out, err := buildProgram(t, "fn main () -> () {\n42 print\n}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "cr_valof_int(42)") {
		t.Errorf("expected a PushInt 42 lowering, got:\n%s", out)
	}
	if !strings.Contains(out, "cr_print(&__stk)") {
		t.Errorf("expected a call to print, got:\n%s", out)
	}
}

func TestCompileGenericChain(t *testing.T) {
	out, err := buildProgram(t, "fn main () -> (bool) {\n1 dup swp =\n}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "cr_dup(&__stk)") || !strings.Contains(out, "cr_swp(&__stk)") || !strings.Contains(out, "cr_equ(&__stk)") {
		t.Errorf("expected dup/swp/= to all lower to runtime calls, got:\n%s", out)
	}
}

func TestCompileRejectsTypeMismatch(t *testing.T) {
	_, err := buildProgram(t, `fn main () -> (int) {
1 "a" +
}`)
	if err == nil {
		t.Fatal("expected a CheckError for int + string")
	}
	if _, ok := err.(*CheckError); !ok {
		t.Fatalf("expected *CheckError, got %T: %v", err, err)
	}
}

func TestCompileRejectsUnclosedBody(t *testing.T) {
	_, err := buildProgram(t, "fn main () -> () {\n42 print\n")
	if err == nil {
		t.Fatal("expected a ParserError for an unclosed function body")
	}
	if _, ok := err.(*ParserError); !ok {
		t.Fatalf("expected *ParserError, got %T: %v", err, err)
	}
}

func TestCompileMultipleFunctions(t *testing.T) {
	src := `fn double (n : int) -> () {
dup + print
}

fn main () -> () {
21 double
}`
	out, err := buildProgram(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "double(cr_stack_node **__full)") {
		t.Errorf("expected a definition for double, got:\n%s", out)
	}
}
