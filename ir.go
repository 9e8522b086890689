package main

import "fmt"

// Op tags one IR instruction. GotoPos/LabelPos are transient: the
// traverser emits them during the walk and the label-rewrite pass
// (resolveLabels, in traverse.go) replaces every one of them before the IR
// is handed to the checker or the emitter — neither ever sees a *Pos op.
type Op int

const (
	OpPushInt Op = iota
	OpPushFloat
	OpPushChar
	OpPushStr
	OpCall
	OpJumpTrue
	OpGoto
	OpLabel
	OpExit
	OpGotoPos
	OpLabelPos
)

// Instruction is one IR opcode plus whichever payload field its Op uses.
// A flat struct (rather than one type per op) keeps the traverser and
// label-rewrite pass free of type assertions when they only need to read
// Op and one field.
type Instruction struct {
	Op Op

	IntVal   int32
	FloatVal float32
	CharVal  rune
	StrVal   string
	Name     string // Call target
	Label    string // JumpTrue/Goto/Label target

	X, Y      int // GotoPos/LabelPos grid position
	PosLength int // LabelPos: display width of the labeled node
}

func (i Instruction) String() string {
	switch i.Op {
	case OpPushInt:
		return fmt.Sprintf("PushInt %d", i.IntVal)
	case OpPushFloat:
		return fmt.Sprintf("PushFloat %g", i.FloatVal)
	case OpPushChar:
		return fmt.Sprintf("PushChar %q", i.CharVal)
	case OpPushStr:
		return fmt.Sprintf("PushStr %q", i.StrVal)
	case OpCall:
		return fmt.Sprintf("Call %s", i.Name)
	case OpJumpTrue:
		return fmt.Sprintf("JumpTrue %s", i.Label)
	case OpGoto:
		return fmt.Sprintf("Goto %s", i.Label)
	case OpLabel:
		return fmt.Sprintf("Label %s", i.Label)
	case OpExit:
		return "Exit"
	case OpGotoPos:
		return fmt.Sprintf("GotoPos(%d,%d)", i.X, i.Y)
	case OpLabelPos:
		return fmt.Sprintf("LabelPos(%d,%d)/%d", i.X, i.Y, i.PosLength)
	default:
		return "?"
	}
}

// Function pairs a declaration's signature with the linear IR the
// traverser produced from its body grid — the unit the checker validates
// and the emitter lowers to C.
type Function struct {
	Name string
	Args ArgList
	Rets ReturnSig
	Body []Instruction
}
