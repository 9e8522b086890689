package main

import "testing"

func row(nodes ...Node) Row { return Row(nodes) }

func TestTraverseLinear(t *testing.T) {
	grid := Grid{
		row(
			Node{Kind: NodeIntLit, Length: 1, Value: int32(1)},
			Node{Kind: NodeSpace, Length: 1},
			Node{Kind: NodeIntLit, Length: 1, Value: int32(2)},
			Node{Kind: NodeSpace, Length: 1},
			Node{Kind: NodeCall, Length: 1, Value: "+"},
			Node{Kind: NodeSpace, Length: 1},
			Node{Kind: NodeCall, Length: 5, Value: "print"},
		),
	}

	instrs, err := Traverse(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Op{OpPushInt, OpPushInt, OpCall, OpCall, OpExit}
	if len(instrs) != len(want) {
		t.Fatalf("got %d instructions, want %d: %v", len(instrs), len(want), instrs)
	}
	for i, op := range want {
		if instrs[i].Op != op {
			t.Errorf("instr %d: got %v, want %v", i, instrs[i].Op, op)
		}
	}
	if instrs[0].IntVal != 1 || instrs[1].IntVal != 2 {
		t.Errorf("unexpected push values: %v, %v", instrs[0], instrs[1])
	}
	if instrs[2].Name != "+" || instrs[3].Name != "print" {
		t.Errorf("unexpected call targets: %v, %v", instrs[2], instrs[3])
	}
}

func TestTraverseDirectionTurn(t *testing.T) {
	// "1 |v" on row 0, then "print" directly below the arrow on row 1.
	grid := Grid{
		row(
			Node{Kind: NodeIntLit, Length: 1, Value: int32(1)},
			Node{Kind: NodeSpace, Length: 1},
			Node{Kind: NodeDirDown, Length: 1},
		),
		row(
			Node{Kind: NodeSpace, Length: 2},
			Node{Kind: NodeCall, Length: 5, Value: "print"},
		),
	}

	instrs, err := Traverse(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Op{OpPushInt, OpCall, OpExit}
	if len(instrs) != len(want) {
		t.Fatalf("got %d instructions, want %d: %v", len(instrs), len(want), instrs)
	}
	if instrs[1].Name != "print" {
		t.Errorf("expected call to print after turning down, got %v", instrs[1])
	}
}

func TestTraverseBranchRequiresExactlyOnePerp(t *testing.T) {
	grid := Grid{
		row(
			Node{Kind: NodeBranch, Length: 1},
		),
	}

	if _, err := Traverse(grid); err == nil {
		t.Fatal("expected TraverserError for a branch with no perpendicular arrow")
	} else if _, ok := err.(*TraverserError); !ok {
		t.Fatalf("expected *TraverserError, got %T: %v", err, err)
	}
}

func TestTraverseLoop(t *testing.T) {
	// "dup" then left-turn back onto itself, closing a loop via Goto/Label.
	grid := Grid{
		row(
			Node{Kind: NodeCall, Length: 3, Value: "dup"},
			Node{Kind: NodeSpace, Length: 1},
			Node{Kind: NodeDirLeft, Length: 1},
		),
	}

	instrs, err := Traverse(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawLabel, sawGoto bool
	for _, instr := range instrs {
		if instr.Op == OpLabel {
			sawLabel = true
		}
		if instr.Op == OpGoto {
			sawGoto = true
		}
	}
	if !sawLabel || !sawGoto {
		t.Fatalf("expected a Label/Goto pair closing the loop, got %v", instrs)
	}
}
