package main

import (
	"strings"
	"testing"
)

func TestEmitCIncludesRuntimeHeader(t *testing.T) {
	src := EmitC(nil)
	if !strings.Contains(src, `#include "charta_rt.h"`) {
		t.Fatalf("expected generated source to include the runtime header, got:\n%s", src)
	}
}

func TestEmitCMainCallsMangledEntryPoint(t *testing.T) {
	src := EmitC(nil)
	if !strings.Contains(src, "__smain(&__stk)") {
		t.Fatalf("expected main() to call the mangled entry point, got:\n%s", src)
	}
}

func TestEmitFunctionPrologueAndExit(t *testing.T) {
	fn := Function{
		Name: "double",
		Args: ArgList{Args: []Arg{{Name: "n", Type: TypeSig{Name: "int"}}}},
		Rets: ReturnSig{Args: []TypeSig{{Name: "int"}}},
		Body: []Instruction{
			{Op: OpPushInt, IntVal: 2},
			{Op: OpCall, Name: "+"},
			{Op: OpExit},
		},
	}
	src := EmitC([]Function{fn})

	if !strings.Contains(src, "cr_stack_node *double(cr_stack_node **__full)") {
		t.Errorf("expected a prologue for double(), got:\n%s", src)
	}
	if !strings.Contains(src, "cr_stk_args(__full, 1, false)") {
		t.Errorf("expected prologue to capture arity 1, got:\n%s", src)
	}
	if !strings.Contains(src, "cr_add(&__stk)") {
		t.Errorf("expected + to lower to cr_add, got:\n%s", src)
	}
	if !strings.Contains(src, "cr_stk_take(&__stk, 1)") {
		t.Errorf("expected exit to take exactly 1 return value, got:\n%s", src)
	}
}

func TestEmitCallResolvesSymbolicAliases(t *testing.T) {
	fn := Function{
		Name: "f",
		Body: []Instruction{
			{Op: OpCall, Name: "⇈"},
			{Op: OpExit},
		},
	}
	src := EmitC([]Function{fn})
	if !strings.Contains(src, "cr_dup(&__stk)") {
		t.Errorf("expected ⇈ to resolve to cr_dup, got:\n%s", src)
	}
}

func TestQuoteCStringEscapesQuotesAndBackslashes(t *testing.T) {
	got := quoteCString(`a"b\c`)
	want := `"a\"b\\c"`
	if got != want {
		t.Errorf("quoteCString = %q, want %q", got, want)
	}
}
