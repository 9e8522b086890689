package main

import "fmt"

// BuildFunctions traverses every declaration's body grid into linear IR,
// producing the Function list the checker and emitter both operate on.
func BuildFunctions(decls []FnDecl) ([]Function, error) {
	fns := make([]Function, 0, len(decls))
	for _, decl := range decls {
		body, err := Traverse(decl.Body)
		if err != nil {
			return nil, err
		}
		fns = append(fns, Function{Name: decl.Name, Args: decl.Args, Rets: decl.Rets, Body: body})
	}
	return fns, nil
}

// Pos is a grid coordinate. X is a column in the cumulative-display-length
// sense used throughout the grid (see Node.Length), not a byte offset; Y is
// a row index.
type Pos struct {
	X, Y int
}

func (p Pos) add(o Pos) Pos   { return Pos{p.X + o.X, p.Y + o.Y} }
func (p Pos) scale(n int) Pos { return Pos{p.X * n, p.Y * n} }

var (
	dirLeft  = Pos{-1, 0}
	dirRight = Pos{1, 0}
	dirUp    = Pos{0, -1}
	dirDown  = Pos{0, 1}
)

func isVert(dir Pos) bool { return dir.Y != 0 }

// gridAt finds the node occupying column pos.X in row pos.Y, accounting for
// multi-cell nodes: a row is a run of nodes each claiming [x0, x0+Length) of
// the column axis, not one node per column.
func gridAt(grid Grid, pos Pos) (Node, bool) {
	if pos.Y < 0 || pos.Y >= len(grid) || pos.X < 0 {
		return Node{}, false
	}
	x := 0
	for _, n := range grid[pos.Y] {
		if x <= pos.X && pos.X < x+n.Length {
			return n, true
		}
		x += n.Length
	}
	return Node{}, false
}

type perp struct {
	dir Pos
	pos Pos
}

// getPerps looks up the arrow nodes perpendicular to the current direction
// of travel at pos: when moving vertically it checks left/right for
// DirLeft/DirRight, and vice versa. A branch must have exactly one of these
// to know which way to turn.
func getPerps(grid Grid, pos, dir Pos) []perp {
	var out []perp
	if isVert(dir) {
		if n, ok := gridAt(grid, pos.add(dirLeft)); ok && n.Kind == NodeDirLeft {
			out = append(out, perp{dirLeft, pos.add(dirLeft)})
		}
		if n, ok := gridAt(grid, pos.add(dirRight)); ok && n.Kind == NodeDirRight {
			out = append(out, perp{dirRight, pos.add(dirRight)})
		}
	} else {
		if n, ok := gridAt(grid, pos.add(dirUp)); ok && n.Kind == NodeDirUp {
			out = append(out, perp{dirUp, pos.add(dirUp)})
		}
		if n, ok := gridAt(grid, pos.add(dirDown)); ok && n.Kind == NodeDirDown {
			out = append(out, perp{dirDown, pos.add(dirDown)})
		}
	}
	return out
}

// Traverse walks a function body grid along the 2D control flow it
// describes and linearizes it into IR: literals and calls append straight
// through, direction arrows change the walk's heading, a branch forks into
// a JumpTrue/fallthrough/Label triangle around whichever single
// perpendicular arrow is present, and revisiting an already-walked cell
// closes a loop with a Goto/Label pair instead of re-emitting it. The walk
// starts at (0,0) heading right and ends in Exit once it falls off every
// edge of the grid.
func Traverse(grid Grid) ([]Instruction, error) {
	var instrs []Instruction
	visited := make(map[Pos]bool)

	var runEmit func(dir, pos Pos) error
	runEmit = func(dir, pos Pos) error {
		n, ok := gridAt(grid, pos)
		if !ok {
			if isVert(dir) && pos.Y >= 0 && pos.Y < len(grid) {
				return runEmit(dir, pos.add(dir))
			}
			instrs = append(instrs, Instruction{Op: OpExit})
			return nil
		}

		if visited[pos] {
			instrs = append(instrs, Instruction{Op: OpGotoPos, X: pos.X, Y: pos.Y})
			return nil
		}
		instrs = append(instrs, Instruction{Op: OpLabelPos, X: pos.X, Y: pos.Y, PosLength: n.Length})
		for i := 0; i < n.Length; i++ {
			visited[pos.add(Pos{1, 0}.scale(i))] = true
		}

		var nextPos Pos
		if isVert(dir) {
			nextPos = pos.add(dir)
		} else {
			nextPos = dir.scale(n.Length).add(pos)
		}

		switch n.Kind {
		case NodeIntLit:
			instrs = append(instrs, Instruction{Op: OpPushInt, IntVal: n.Value.(int32)})
			return runEmit(dir, nextPos)
		case NodeFloatLit:
			instrs = append(instrs, Instruction{Op: OpPushFloat, FloatVal: n.Value.(float32)})
			return runEmit(dir, nextPos)
		case NodeCharLit:
			instrs = append(instrs, Instruction{Op: OpPushChar, CharVal: n.Value.(rune)})
			return runEmit(dir, nextPos)
		case NodeStrLit:
			instrs = append(instrs, Instruction{Op: OpPushStr, StrVal: n.Value.(string)})
			return runEmit(dir, nextPos)
		case NodeCall:
			instrs = append(instrs, Instruction{Op: OpCall, Name: n.Value.(string)})
			return runEmit(dir, nextPos)
		case NodeBranch:
			perps := getPerps(grid, pos, dir)
			if len(perps) != 1 {
				return &TraverserError{X: pos.X, Y: pos.Y,
					Message: fmt.Sprintf("branch expected 1 direction, got %d", len(perps))}
			}
			label := fmt.Sprintf("B_%d_%d", pos.X, pos.Y)
			instrs = append(instrs, Instruction{Op: OpJumpTrue, Label: label})
			if err := runEmit(dir, nextPos); err != nil {
				return err
			}
			instrs = append(instrs, Instruction{Op: OpLabel, Label: label})
			return runEmit(perps[0].dir, perps[0].pos)
		case NodeDirLeft:
			return runEmit(dirLeft, pos.add(turnStep(dir, dirLeft, n.Length)))
		case NodeDirUp:
			return runEmit(dirUp, pos.add(turnStep(dir, dirUp, n.Length)))
		case NodeDirRight:
			return runEmit(dirRight, pos.add(turnStep(dir, dirRight, n.Length)))
		case NodeDirDown:
			return runEmit(dirDown, pos.add(turnStep(dir, dirDown, n.Length)))
		case NodeSpace:
			return runEmit(dir, nextPos)
		}
		return nil
	}

	if err := runEmit(dirRight, Pos{0, 0}); err != nil {
		return nil, err
	}
	return resolveLabels(instrs), nil
}

// turnStep is the step taken when pivoting onto newDir from the cell the
// arrow occupies: one cell of newDir if the walk was already vertical, or
// newDir scaled by the arrow node's own width if it was horizontal.
func turnStep(prevDir, newDir Pos, length int) Pos {
	if isVert(prevDir) {
		return newDir
	}
	return newDir.scale(length)
}

// resolveLabels rewrites the transient GotoPos/LabelPos markers Traverse
// emits into named Goto/Label pairs: a GotoPos always becomes a Goto to
// "P_x_y", and a LabelPos becomes a Label for every GotoPos whose column
// falls within the labeled node's span on the same row — a single wide node
// can be the target of a jump landing anywhere across its width.
func resolveLabels(instrs []Instruction) []Instruction {
	var out []Instruction
	for _, instr := range instrs {
		switch instr.Op {
		case OpGotoPos:
			out = append(out, Instruction{Op: OpGoto, Label: fmt.Sprintf("P_%d_%d", instr.X, instr.Y)})
		case OpLabelPos:
			for _, other := range instrs {
				if other.Op != OpGotoPos {
					continue
				}
				if instr.X <= other.X && other.X < instr.X+instr.PosLength && other.Y == instr.Y {
					out = append(out, Instruction{Op: OpLabel, Label: fmt.Sprintf("P_%d_%d", other.X, other.Y)})
				}
			}
		default:
			out = append(out, instr)
		}
	}
	return out
}
