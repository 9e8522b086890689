package main

import "fmt"

// Signature is a function's checker-level type: the stack it expects on
// entry (leftmost declared argument deepest, rightmost on top) and the
// stack it leaves behind (same left-to-right/bottom-to-top convention).
type Signature struct {
	Args []Type
	Rets []Type
}

func cloneTypes(ts []Type) []Type {
	out := make([]Type, len(ts))
	copy(out, ts)
	return out
}

// builtinSignatures is the fixed table the checker pre-populates before
// looking at any user declaration. ⇈, ↕ and □ are the runtime's symbolic
// aliases for dup, swp and box.
func builtinSignatures() map[string]Signature {
	dup := Signature{Args: []Type{Generic("#a")}, Rets: []Type{Generic("#a"), Generic("#a")}}
	swp := Signature{Args: []Type{Generic("#a"), Generic("#b")}, Rets: []Type{Generic("#b"), Generic("#a")}}
	eq := Signature{Args: []Type{Generic("#a"), Generic("#b")}, Rets: []Type{Bool()}}
	numOp := Signature{
		Args: []Type{Union(Int(), Float()), Union(Int(), Float())},
		Rets: []Type{Union(Int(), Float())},
	}
	print := Signature{Args: []Type{Generic("#a")}}
	dbg := Signature{}
	box := Signature{Args: []Type{StackOf(UnknownStack())}, Rets: []Type{StackOf(UnknownStack())}}

	return map[string]Signature{
		"dup":   dup,
		"swp":   swp,
		"=":     eq,
		"+":     numOp,
		"-":     numOp,
		"print": print,
		"dbg":   dbg,
		"box":   box,
		"⇈":     dup,
		"↕":     swp,
		"□":     box,
	}
}

// signatureFrom builds the checker Signature for a declared function: an
// ellipses parameter list pushes an opaque stack prefix ahead of the
// declared arguments, and a rest return appends a trailing homogeneous
// stack on top of the declared returns.
func signatureFrom(name string, argList ArgList, retSig ReturnSig) (Signature, error) {
	var sig Signature
	if argList.Kind == ArgEllipses {
		sig.Args = append(sig.Args, StackOf(UnknownStack()))
	}
	for _, a := range argList.Args {
		t, ok := surfaceToType(a.Type)
		if !ok {
			return Signature{}, &CheckError{Function: name, Message: fmt.Sprintf("unknown type name %q", a.Type.Name)}
		}
		sig.Args = append(sig.Args, t)
	}
	for _, r := range retSig.Args {
		t, ok := surfaceToType(r)
		if !ok {
			return Signature{}, &CheckError{Function: name, Message: fmt.Sprintf("unknown type name %q", r.Name)}
		}
		sig.Rets = append(sig.Rets, t)
	}
	if retSig.Rest != nil {
		elem, ok := surfaceToType(*retSig.Rest)
		if !ok {
			return Signature{}, &CheckError{Function: name, Message: fmt.Sprintf("unknown type name %q", retSig.Rest.Name)}
		}
		sig.Rets = append(sig.Rets, StackOf(ManyStack(elem)))
	}
	return sig, nil
}

// collectSignatures pre-populates the built-in table, then lets every
// user declaration add or override an entry by name.
func collectSignatures(fns []Function) (map[string]Signature, error) {
	sigs := builtinSignatures()
	for _, fn := range fns {
		sig, err := signatureFrom(fn.Name, fn.Args, fn.Rets)
		if err != nil {
			return nil, err
		}
		sigs[fn.Name] = sig
	}
	return sigs, nil
}

// apply pops sig's declared arguments off stack from the top down,
// matching or unifying each against the actual type found there, then
// pushes the (possibly now-specialized) declared returns. fname is the
// enclosing function, used only for diagnostics.
func apply(stack []Type, sig Signature, fname, callee string) ([]Type, error) {
	args := cloneTypes(sig.Args)
	rets := cloneTypes(sig.Rets)

	for i := len(args) - 1; i >= 0; i-- {
		expect := args[i]
		if len(stack) == 0 {
			return nil, &CheckError{Function: fname,
				Message: fmt.Sprintf("call to %q: empty stack where %s was required", callee, expect)}
		}
		got := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case got.Kind == KindGeneric:
			stack = substituteGeneric(stack, got.Generic, expect)
		case expect.Kind == KindGeneric:
			args = substituteGeneric(args[:i], expect.Generic, got)
			rets = substituteGeneric(rets, expect.Generic, got)
		default:
			if !isMatching(got, expect) {
				return nil, &CheckError{Function: fname,
					Message: fmt.Sprintf("call to %q: expected %s, got %s", callee, expect, got)}
			}
		}
	}

	return append(stack, rets...), nil
}

// collectLabels gathers every Label target in a function body so Goto can
// be validated against it in one pass.
func collectLabels(body []Instruction) map[string]bool {
	labels := make(map[string]bool)
	for _, instr := range body {
		if instr.Op == OpLabel {
			labels[instr.Label] = true
		}
	}
	return labels
}

// checkFunction walks one function's IR against its own declared
// signature, applying every Call through the built-in/user signature
// table and validating Goto/JumpTrue/Exit as it goes.
//
// A grid with a branch produces more than one terminal path through the
// IR: the straight-through arm and the perpendicular arm each end in their
// own Exit (or, if either arm loops back into already-walked cells, a
// Goto), and because Traverse's walk is a balanced recursion, the textual
// instruction right after one arm's terminator is always the Label that
// starts the next arm. pending tracks this as a LIFO stack of stack
// snapshots: JumpTrue pushes the stack as it stood once the condition was
// popped (the state both arms fork from), and each terminator pops the
// most recently pushed snapshot to seed the next arm — so nested branches
// resolve in the same order they were entered.
func checkFunction(fn Function, sigs map[string]Signature) error {
	own := sigs[fn.Name]
	stack := cloneTypes(own.Args)
	labels := collectLabels(fn.Body)
	var pending [][]Type

	for _, instr := range fn.Body {
		switch instr.Op {
		case OpPushInt:
			stack = append(stack, Int())
		case OpPushFloat:
			stack = append(stack, Float())
		case OpPushChar:
			stack = append(stack, Char())
		case OpPushStr:
			stack = append(stack, String())
		case OpCall:
			sig, ok := sigs[instr.Name]
			if !ok {
				return &CheckError{Function: fn.Name, Message: fmt.Sprintf("call to undeclared function %q", instr.Name)}
			}
			var err error
			stack, err = apply(stack, sig, fn.Name, instr.Name)
			if err != nil {
				return err
			}
		case OpJumpTrue:
			if len(stack) == 0 {
				return &CheckError{Function: fn.Name, Message: "JumpTrue with empty stack"}
			}
			top := stack[len(stack)-1]
			if top.Kind != KindBool {
				return &CheckError{Function: fn.Name, Message: fmt.Sprintf("JumpTrue expected bool on top, got %s", top)}
			}
			stack = stack[:len(stack)-1]
			pending = append(pending, cloneTypes(stack))
		case OpGoto:
			if !labels[instr.Label] {
				return &CheckError{Function: fn.Name, Message: fmt.Sprintf("goto to absent label %q", instr.Label)}
			}
			if n := len(pending); n > 0 {
				stack = pending[n-1]
				pending = pending[:n-1]
			}
		case OpLabel:
			// no-op for types
		case OpExit:
			if err := checkReturns(fn.Name, stack, own.Rets); err != nil {
				return err
			}
			if n := len(pending); n > 0 {
				stack = pending[n-1]
				pending = pending[:n-1]
			}
		}
	}
	return checkReturns(fn.Name, stack, own.Rets)
}

// checkReturns compares the final abstract stack against the declared
// returns from the top down: the last n stack entries must match the n
// declared returns, pointwise, in order.
func checkReturns(fname string, stack []Type, rets []Type) error {
	n := len(rets)
	if len(stack) < n {
		return &CheckError{Function: fname,
			Message: fmt.Sprintf("missing return value: declared %d, final stack has %d", n, len(stack))}
	}
	tail := stack[len(stack)-n:]
	for i := 0; i < n; i++ {
		if !isMatching(tail[i], rets[i]) {
			return &CheckError{Function: fname,
				Message: fmt.Sprintf("return mismatch at position %d: declared %s, got %s", i, rets[i], tail[i])}
		}
	}
	return nil
}

// CheckProgram runs signature collection and per-function body checking
// for a whole traversed program. It stops at the first error: the checker,
// like every other stage, has no partial-success mode.
func CheckProgram(fns []Function) error {
	sigs, err := collectSignatures(fns)
	if err != nil {
		return err
	}
	for _, fn := range fns {
		if err := checkFunction(fn, sigs); err != nil {
			return err
		}
	}
	return nil
}
