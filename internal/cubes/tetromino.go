package cubes

import (
	"fmt"

	"github.com/vovakirdan/cubes/internal/bbs"
	"github.com/vovakirdan/cubes/internal/core"
)

// Kind identifies one of the seven tetrominoes.
type Kind int

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL

	KindCount = 7
)

var kindNames = [KindCount]string{"I", "O", "T", "S", "Z", "J", "L"}

func (k Kind) String() string {
	if k < 0 || k >= KindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Shape is one rotation of a tetromino as a 4x4 occupancy grid, indexed
// [row][column] relative to the piece's bounding box.
type Shape [4][4]bool

// ShapeFromMask decodes a 16-bit rotation mask: bit row*4+col is set when
// that cell is occupied.
func ShapeFromMask(mask uint16) Shape {
	var s Shape
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			s[i][j] = mask&(1<<(i*4+j)) != 0
		}
	}
	return s
}

// Mask encodes the shape back into its 16-bit form.
func (s Shape) Mask() uint16 {
	var m uint16
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if s[i][j] {
				m |= 1 << (i*4 + j)
			}
		}
	}
	return m
}

type catalogEntry struct {
	masks     [4]uint16
	rotations [4]Shape
	color     core.Color
}

// catalog is built once; Spawn only indexes into it.
var catalog = buildCatalog()

func buildCatalog() [KindCount]catalogEntry {
	entries := [KindCount]catalogEntry{
		KindI: {masks: [4]uint16{0x0F00, 0x2222, 0x00F0, 0x4444}, color: core.ColorCyan},
		KindO: {masks: [4]uint16{0x6600, 0x6600, 0x6600, 0x6600}, color: core.ColorYellow},
		KindT: {masks: [4]uint16{0x4e00, 0x2320, 0x7200, 0x04c4}, color: core.ColorPurple},
		KindS: {masks: [4]uint16{0x3600, 0x0231, 0x006c, 0x8c40}, color: core.ColorGreen},
		KindZ: {masks: [4]uint16{0xc600, 0x1320, 0x0063, 0x04c8}, color: core.ColorRed},
		KindJ: {masks: [4]uint16{0x8e00, 0x3220, 0x0071, 0x044c}, color: core.ColorBlue},
		KindL: {masks: [4]uint16{0x2e00, 0x2230, 0x0074, 0x0c44}, color: core.ColorOrange},
	}
	for k := range entries {
		for r, m := range entries[k].masks {
			entries[k].rotations[r] = ShapeFromMask(m)
		}
	}
	return entries
}

func entry(k Kind) *catalogEntry {
	if k < 0 || k >= KindCount {
		panic(fmt.Sprintf("cubes: tetromino kind %d out of range [0,%d)", int(k), KindCount))
	}
	return &catalog[k]
}

// Rotation returns the shape of kind k in rotation r.
// It panics if either index is out of range.
func Rotation(k Kind, r int) Shape {
	if r < 0 || r >= 4 {
		panic(fmt.Sprintf("cubes: rotation index %d out of range [0,4)", r))
	}
	return entry(k).rotations[r]
}

// ColorOf returns the display color of kind k.
func ColorOf(k Kind) core.Color {
	return entry(k).color
}

// Pose is the position of a piece's bounding box in board cells plus its
// rotation index.
type Pose struct {
	X, Y     int
	Rotation int
}

// Piece is a falling tetromino.
type Piece struct {
	Kind     Kind
	Rotation int
	X, Y     int
}

// Shape returns the occupancy grid of the active rotation.
func (p Piece) Shape() Shape {
	return Rotation(p.Kind, p.Rotation)
}

// Pose returns the piece's current pose.
func (p Piece) Pose() Pose {
	return Pose{X: p.X, Y: p.Y, Rotation: p.Rotation}
}

// At returns a copy of the piece moved to the given pose.
func (p Piece) At(to Pose) Piece {
	p.X, p.Y, p.Rotation = to.X, to.Y, to.Rotation
	return p
}

// Spawn position: the 4-wide bounding box centered on the 10-wide board,
// at the topmost row.
const (
	SpawnX = (BoardWidth - 4) / 2
	SpawnY = 0
)

// Spawn draws the next tetromino from gen. No occupancy check happens here:
// a spawn onto settled blocks is caught by the next tick's collision check.
func Spawn(gen *bbs.Generator) Piece {
	k := Kind(gen.Intn(KindCount))
	return Piece{
		Kind:     k,
		Rotation: 0,
		X:        SpawnX,
		Y:        SpawnY,
	}
}
