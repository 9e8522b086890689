package main

import "testing"

func parseSrc(t *testing.T, src string) []FnDecl {
	t.Helper()
	toks, err := NewLexer(src).Lex()
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	decls, err := NewParser(toks).ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram(%q): %v", src, err)
	}
	return decls
}

func TestParseEmptyMain(t *testing.T) {
	decls := parseSrc(t, "fn main () -> () {}")
	if len(decls) != 1 {
		t.Fatalf("got %d decls, want 1", len(decls))
	}
	fn := decls[0]
	if fn.Name != "main" {
		t.Errorf("got name %q, want main", fn.Name)
	}
	if len(fn.Args.Args) != 0 || fn.Args.Kind != ArgLimited {
		t.Errorf("expected no args, got %+v", fn.Args)
	}
	if len(fn.Rets.Args) != 0 || fn.Rets.Rest != nil {
		t.Errorf("expected no returns, got %+v", fn.Rets)
	}
}

func TestParseArgsAndReturns(t *testing.T) {
	decls := parseSrc(t, "fn add (a : int b : int) -> (int) {\n+\n}")
	fn := decls[0]
	if len(fn.Args.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(fn.Args.Args))
	}
	if fn.Args.Args[0].Name != "a" || fn.Args.Args[0].Type.Name != "int" {
		t.Errorf("unexpected first arg: %+v", fn.Args.Args[0])
	}
	if len(fn.Rets.Args) != 1 || fn.Rets.Args[0].Name != "int" {
		t.Errorf("unexpected returns: %+v", fn.Rets)
	}
}

func TestParseEllipsesArgs(t *testing.T) {
	decls := parseSrc(t, "fn f (... x : int) -> () {}")
	fn := decls[0]
	if fn.Args.Kind != ArgEllipses {
		t.Fatalf("expected ellipses arg list, got %+v", fn.Args)
	}
	if len(fn.Args.Args) != 1 || fn.Args.Args[0].Name != "x" {
		t.Errorf("unexpected args after ellipses: %+v", fn.Args.Args)
	}
}

func TestParseRestReturn(t *testing.T) {
	decls := parseSrc(t, "fn f () -> (int ... float) {}")
	fn := decls[0]
	if len(fn.Rets.Args) != 1 {
		t.Fatalf("got %d fixed returns, want 1", len(fn.Rets.Args))
	}
	if fn.Rets.Rest == nil || fn.Rets.Rest.Name != "float" {
		t.Fatalf("expected a rest return of float, got %+v", fn.Rets.Rest)
	}
}

func TestParseStackTypeSig(t *testing.T) {
	decls := parseSrc(t, "fn f (s : [int]) -> () {}")
	fn := decls[0]
	typ := fn.Args.Args[0].Type
	if !typ.IsStack || typ.Name != "int" {
		t.Fatalf("expected stack type [int], got %+v", typ)
	}
}

func TestParseBodyGridPreservesRows(t *testing.T) {
	decls := parseSrc(t, "fn main () -> () {\n1 2 +\n3 4 +\n}")
	fn := decls[0]
	if len(fn.Body) != 2 {
		t.Fatalf("got %d rows, want 2: %v", len(fn.Body), fn.Body)
	}
}

func TestParseMissingArrowIsError(t *testing.T) {
	_, err := NewParser(mustLex(t, "fn main () () {}")).ParseProgram()
	if err == nil {
		t.Fatal("expected a ParserError for a missing '->'")
	}
	if _, ok := err.(*ParserError); !ok {
		t.Fatalf("expected *ParserError, got %T: %v", err, err)
	}
}

func mustLex(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := NewLexer(src).Lex()
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	return toks
}
