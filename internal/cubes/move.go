package cubes

import "github.com/vovakirdan/cubes/internal/core"

// Descent granularity: a piece falls StepsPerCell steps per board row.
// Gravity adds one step per tick interval; soft and hard drops add more.
const (
	StepsPerCell  = 25
	SoftDropSteps = 15
	HardDropSteps = BoardHeight * StepsPerCell
)

// Outcome is the result of applying one tick's movement to the falling piece.
type Outcome int

const (
	OutcomeMoved Outcome = iota
	OutcomeLocked
)

func (o Outcome) String() string {
	if o == OutcomeLocked {
		return "locked"
	}
	return "moved"
}

// MoveResult reports what Apply did.
type MoveResult struct {
	Outcome Outcome
	Piece   Piece
	// Blocked is the collision that rejected a lateral or rotation
	// request, CollisionNone when the request went through.
	Blocked Collision
	// Resting is set when a rotation was rejected by the stack while the
	// unrotated piece is sitting on it.
	Resting bool
}

// Falling is the active piece plus its progress between two rows.
type Falling struct {
	Piece Piece
	// Fall counts descent steps taken since the piece was aligned to Piece.Y.
	// While Fall > 0 the piece overlaps rows Y and Y+1.
	Fall int
}

// Apply performs one tick of movement on the board: the requested shift or
// rotation first, then gravitySteps of descent, raised to the soft or hard
// drop amount when requested. When the piece comes to rest it is placed on
// the board and OutcomeLocked is returned.
func (f *Falling) Apply(b *Board, action core.Action, gravitySteps int) MoveResult {
	res := MoveResult{Outcome: OutcomeMoved}

	switch action {
	case core.ActionRotateCW:
		res.Blocked, res.Resting = f.rotate(b, 1)
	case core.ActionRotateCCW:
		res.Blocked, res.Resting = f.rotate(b, 3)
	case core.ActionLeft:
		res.Blocked = f.shift(b, -1)
	case core.ActionRight:
		res.Blocked = f.shift(b, 1)
	}

	steps := gravitySteps
	switch action {
	case core.ActionSoftDrop:
		steps = max(steps, SoftDropSteps)
	case core.ActionHardDrop:
		steps = HardDropSteps
	}

	if f.descend(b, steps) {
		b.Place(f.Piece)
		res.Outcome = OutcomeLocked
	}
	res.Piece = f.Piece
	return res
}

// probe checks pose to against every row the piece currently spans.
func (f *Falling) probe(b *Board, to Pose) Collision {
	c := b.Collide(f.Piece, to)
	if c == CollisionNone && f.Fall > 0 {
		c = b.Collide(f.Piece, Pose{X: to.X, Y: to.Y + 1, Rotation: to.Rotation})
	}
	return c
}

// shift moves the piece dx columns. A wall hit pushes it back to where it
// was; a stack hit leaves it in place too.
func (f *Falling) shift(b *Board, dx int) Collision {
	to := f.Piece.Pose()
	to.X += dx
	c := f.probe(b, to)
	if c == CollisionNone {
		f.Piece = f.Piece.At(to)
	}
	return c
}

// rotate turns the piece by quarter turns (1 clockwise, 3 counter-clockwise).
// Rotations never lock. On a stack hit the unrotated shape is checked one row
// lower to tell a piece sitting on the stack from one merely blocked.
func (f *Falling) rotate(b *Board, quarter int) (Collision, bool) {
	to := f.Piece.Pose()
	to.Rotation = (to.Rotation + quarter) % 4
	c := f.probe(b, to)
	switch c {
	case CollisionNone:
		f.Piece = f.Piece.At(to)
		return c, false
	case CollisionStack:
		below := f.Piece.Pose()
		below.Y++
		return c, !b.Fits(f.Piece, below)
	default:
		return c, false
	}
}

// descend advances the piece by up to steps. It returns true once the piece
// is aligned to a row and the row below is blocked.
func (f *Falling) descend(b *Board, steps int) bool {
	for i := 0; i < steps; i++ {
		if f.Fall == 0 {
			below := f.Piece.Pose()
			below.Y++
			if !b.Fits(f.Piece, below) {
				return true
			}
		}
		f.Fall++
		if f.Fall == StepsPerCell {
			f.Fall = 0
			f.Piece.Y++
		}
	}
	return false
}

// Snapshot copies the falling piece for rendering.
func (f *Falling) Snapshot() PieceSnapshot {
	return PieceSnapshot{
		Kind:     f.Piece.Kind,
		Rotation: f.Piece.Rotation,
		X:        f.Piece.X,
		Y:        f.Piece.Y,
		Fall:     f.Fall,
		Shape:    f.Piece.Shape(),
		Color:    ColorOf(f.Piece.Kind),
	}
}
