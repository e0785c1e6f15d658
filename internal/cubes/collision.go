package cubes

// Collision classifies what a candidate pose runs into.
type Collision int

const (
	CollisionNone  Collision = iota
	CollisionStack           // settled block or the floor
	CollisionSide            // left or right wall
)

func (c Collision) String() string {
	switch c {
	case CollisionNone:
		return "none"
	case CollisionStack:
		return "stack"
	case CollisionSide:
		return "side"
	default:
		return "unknown"
	}
}

// Collide tests the piece's shape for pose to against the walls, the floor
// and the settled blocks. A wall hit by any cell wins over a stack hit by
// another cell.
func (b *Board) Collide(p Piece, to Pose) Collision {
	shape := Rotation(p.Kind, to.Rotation)
	result := CollisionNone
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if !shape[i][j] {
				continue
			}
			x, y := to.X+j, to.Y+i
			if x < 0 || x >= BoardWidth {
				return CollisionSide
			}
			if y >= BoardHeight || (y >= 0 && b.cells[y][x]) {
				result = CollisionStack
			}
		}
	}
	return result
}

// Fits reports whether the piece can occupy pose to.
func (b *Board) Fits(p Piece, to Pose) bool {
	return b.Collide(p, to) == CollisionNone
}
