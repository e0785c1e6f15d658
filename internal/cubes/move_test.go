package cubes

import (
	"testing"

	"github.com/vovakirdan/cubes/internal/core"
)

func TestOPieceToBottomLeft(t *testing.T) {
	b := NewBoard(0)
	f := &Falling{Piece: Piece{Kind: KindO, X: SpawnX, Y: SpawnY}}

	for i := 0; i < 4; i++ {
		res := f.Apply(b, core.ActionLeft, 0)
		if res.Blocked != CollisionNone {
			t.Fatalf("left #%d blocked by %v", i+1, res.Blocked)
		}
	}
	if f.Piece.X != -1 {
		t.Fatalf("X = %d after four lefts, want -1", f.Piece.X)
	}

	res := f.Apply(b, core.ActionLeft, 0)
	if res.Blocked != CollisionSide || f.Piece.X != -1 {
		t.Errorf("fifth left: blocked=%v X=%d, want side/-1", res.Blocked, f.Piece.X)
	}

	res = f.Apply(b, core.ActionHardDrop, 0)
	if res.Outcome != OutcomeLocked {
		t.Fatalf("hard drop outcome = %v, want locked", res.Outcome)
	}
	if res.Piece.Y != 20 {
		t.Errorf("locked at Y=%d, want 20", res.Piece.Y)
	}
	for _, c := range [][2]int{{0, 22}, {1, 22}, {0, 23}, {1, 23}} {
		if !b.Cell(c[0], c[1]) {
			t.Errorf("cell (%d,%d) not occupied", c[0], c[1])
		}
	}
	if countCells(b) != 4 {
		t.Errorf("occupied cells = %d, want 4", countCells(b))
	}

	sr := b.Settle()
	if sr.Verdict != VerdictContinue || b.Score() != 0 || b.Level() != 1 {
		t.Errorf("settle: verdict=%v score=%d level=%d, want continue/0/1", sr.Verdict, b.Score(), b.Level())
	}
}

func TestCollide(t *testing.T) {
	tests := []struct {
		name  string
		piece Piece
		to    Pose
		stack [][2]int
		want  Collision
	}{
		{"free", Piece{Kind: KindT}, Pose{X: 3, Y: 5}, nil, CollisionNone},
		{"left wall", Piece{Kind: KindI}, Pose{X: -1, Y: 0}, nil, CollisionSide},
		{"right wall", Piece{Kind: KindI}, Pose{X: 7, Y: 0}, nil, CollisionSide},
		{"empty column past wall", Piece{Kind: KindO}, Pose{X: -1, Y: 0}, nil, CollisionNone},
		{"floor", Piece{Kind: KindO}, Pose{X: 3, Y: 21}, nil, CollisionStack},
		{"stack", Piece{Kind: KindO}, Pose{X: 3, Y: 10}, [][2]int{{4, 13}}, CollisionStack},
		{"side wins over stack", Piece{Kind: KindI}, Pose{X: 7, Y: 0}, [][2]int{{7, 2}}, CollisionSide},
		{"uses pose rotation", Piece{Kind: KindI}, Pose{X: -1, Y: 0, Rotation: 1}, nil, CollisionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(0)
			for _, c := range tt.stack {
				b.cells[c[1]][c[0]] = true
			}
			if got := b.Collide(tt.piece, tt.to); got != tt.want {
				t.Errorf("Collide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShiftChecksBothRowsWhileFalling(t *testing.T) {
	tests := []struct {
		name    string
		fall    int
		wantX   int
		blocked Collision
	}{
		{"aligned", 0, 4, CollisionNone},
		{"between rows", 10, 3, CollisionStack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(0)
			b.cells[4][6] = true
			f := &Falling{Piece: Piece{Kind: KindO, X: 3, Y: 0}, Fall: tt.fall}

			res := f.Apply(b, core.ActionRight, 0)

			if f.Piece.X != tt.wantX || res.Blocked != tt.blocked {
				t.Errorf("X=%d blocked=%v, want %d/%v", f.Piece.X, res.Blocked, tt.wantX, tt.blocked)
			}
		})
	}
}

func TestRotation(t *testing.T) {
	tests := []struct {
		name        string
		piece       Piece
		action      core.Action
		stack       [][2]int
		wantRot     int
		wantBlocked Collision
		wantResting bool
	}{
		{"clockwise", Piece{Kind: KindT, X: 3, Y: 0}, core.ActionRotateCW, nil, 1, CollisionNone, false},
		{"counter-clockwise", Piece{Kind: KindT, X: 3, Y: 0}, core.ActionRotateCCW, nil, 3, CollisionNone, false},
		{"wraps clockwise", Piece{Kind: KindT, Rotation: 3, X: 3, Y: 0}, core.ActionRotateCW, nil, 0, CollisionNone, false},
		{"wall", Piece{Kind: KindI, Rotation: 1, X: -1, Y: 5}, core.ActionRotateCW, nil, 1, CollisionSide, false},
		{"floor", Piece{Kind: KindI, X: 3, Y: 21}, core.ActionRotateCW, nil, 0, CollisionStack, true},
		{"stack above", Piece{Kind: KindI, X: 3, Y: 10}, core.ActionRotateCW, [][2]int{{4, 10}}, 0, CollisionStack, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(0)
			for _, c := range tt.stack {
				b.cells[c[1]][c[0]] = true
			}
			f := &Falling{Piece: tt.piece}

			res := f.Apply(b, tt.action, 0)

			if res.Outcome != OutcomeMoved {
				t.Errorf("rotation locked the piece")
			}
			if f.Piece.Rotation != tt.wantRot {
				t.Errorf("rotation = %d, want %d", f.Piece.Rotation, tt.wantRot)
			}
			if res.Blocked != tt.wantBlocked {
				t.Errorf("blocked = %v, want %v", res.Blocked, tt.wantBlocked)
			}
			if res.Resting != tt.wantResting {
				t.Errorf("resting = %v, want %v", res.Resting, tt.wantResting)
			}
		})
	}
}

func TestDescent(t *testing.T) {
	tests := []struct {
		name     string
		action   core.Action
		gravity  int
		wantY    int
		wantFall int
	}{
		{"idle", core.ActionNone, 0, 5, 0},
		{"one step", core.ActionNone, 1, 5, 1},
		{"one row", core.ActionNone, StepsPerCell, 6, 0},
		{"row and a bit", core.ActionNone, StepsPerCell + 5, 6, 5},
		{"soft drop", core.ActionSoftDrop, 1, 5, SoftDropSteps},
		{"soft drop keeps faster gravity", core.ActionSoftDrop, 20, 5, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(0)
			f := &Falling{Piece: Piece{Kind: KindT, X: 3, Y: 5}}

			res := f.Apply(b, tt.action, tt.gravity)

			if res.Outcome != OutcomeMoved {
				t.Fatalf("outcome = %v, want moved", res.Outcome)
			}
			if f.Piece.Y != tt.wantY || f.Fall != tt.wantFall {
				t.Errorf("Y=%d fall=%d, want %d/%d", f.Piece.Y, f.Fall, tt.wantY, tt.wantFall)
			}
		})
	}
}

func TestLockWhenAlignedAndBlocked(t *testing.T) {
	b := NewBoard(0)
	f := &Falling{Piece: Piece{Kind: KindO, X: 3, Y: 19}, Fall: 20}

	res := f.Apply(b, core.ActionNone, 10)

	if res.Outcome != OutcomeLocked {
		t.Fatalf("outcome = %v, want locked", res.Outcome)
	}
	if res.Piece.Y != 20 {
		t.Errorf("locked at Y=%d, want 20", res.Piece.Y)
	}
	if !b.Cell(4, 23) || !b.Cell(5, 22) {
		t.Error("locked piece not placed on the board")
	}
}

func TestLockOnStack(t *testing.T) {
	b := NewBoard(0)
	fillRow(b, 23, 0)
	f := &Falling{Piece: Piece{Kind: KindO, X: 3, Y: 0}}

	res := f.Apply(b, core.ActionHardDrop, 0)

	if res.Outcome != OutcomeLocked || res.Piece.Y != 19 {
		t.Errorf("outcome=%v Y=%d, want locked/19", res.Outcome, res.Piece.Y)
	}
}

func TestFallingSnapshot(t *testing.T) {
	f := &Falling{Piece: Piece{Kind: KindS, Rotation: 2, X: 1, Y: 7}, Fall: 3}
	snap := f.Snapshot()
	if snap.Kind != KindS || snap.Rotation != 2 || snap.X != 1 || snap.Y != 7 || snap.Fall != 3 {
		t.Errorf("Snapshot() = %+v", snap)
	}
	if snap.Shape != Rotation(KindS, 2) {
		t.Error("snapshot shape does not match rotation")
	}
	if snap.Color != ColorOf(KindS) {
		t.Errorf("snapshot color = %v, want %v", snap.Color, ColorOf(KindS))
	}
}
