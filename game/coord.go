// Package game defines the value types shared by the rules engine and the
// search: grid coordinates, directions, compressed snake bodies and snakes.
//
// Coordinates follow Battlesnake conventions: (0,0) is bottom-left and Up
// increases Y.
package game

import (
	"fmt"

	"github.com/pkg/errors"
)

// Coord is a board cell. Boards are small, so 8 bits per axis is plenty.
type Coord struct {
	X int8
	Y int8
}

// Offset is a displacement between two cells.
type Offset struct {
	DX int8
	DY int8
}

// ZeroOffset is the empty displacement.
var ZeroOffset = Offset{}

func (c Coord) Add(o Offset) Coord {
	return Coord{X: c.X + o.DX, Y: c.Y + o.DY}
}

func (c Coord) Sub(o Offset) Coord {
	return Coord{X: c.X - o.DX, Y: c.Y - o.DY}
}

// OffsetTo returns the displacement that takes c to other.
func (c Coord) OffsetTo(other Coord) Offset {
	return Offset{DX: other.X - c.X, DY: other.Y - c.Y}
}

// Manhattan returns the grid distance between two cells.
func (c Coord) Manhattan(other Coord) int {
	return abs(int(c.X)-int(other.X)) + abs(int(c.Y)-int(other.Y))
}

// BoundedBy reports whether c lies inside the inclusive box spanned by a and b.
func (c Coord) BoundedBy(a, b Coord) bool {
	return between(c.X, a.X, b.X) && between(c.Y, a.Y, b.Y)
}

// MoveToward moves c toward dest by at most dist cells, X axis first.
func (c Coord) MoveToward(dest Coord, dist int) Coord {
	d := c.OffsetTo(dest)
	dx := clampAbs(int(d.DX), dist)
	dy := clampAbs(int(d.DY), dist-abs(dx))
	return Coord{X: c.X + int8(dx), Y: c.Y + int8(dy)}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func (o Offset) Add(other Offset) Offset {
	return Offset{DX: o.DX + other.DX, DY: o.DY + other.DY}
}

func (o Offset) Sub(other Offset) Offset {
	return Offset{DX: o.DX - other.DX, DY: o.DY - other.DY}
}

// Linear reports whether exactly one axis is non-zero.
func (o Offset) Linear() bool {
	return (o.DX == 0) != (o.DY == 0)
}

func (o Offset) Manhattan() int {
	return abs(int(o.DX)) + abs(int(o.DY))
}

func (o Offset) Abs() Offset {
	return Offset{DX: int8(abs(int(o.DX))), DY: int8(abs(int(o.DY)))}
}

// Unit returns the per-axis sign of o.
func (o Offset) Unit() Offset {
	return Offset{DX: sign(o.DX), DY: sign(o.DY)}
}

func (o Offset) IsZero() bool {
	return o == ZeroOffset
}

// Direction is one of the four moves. The numbering matches the move
// encoding used across the engine: Up=0, Down=1, Left=2, Right=3.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// NumDirections sizes direction-indexed tables.
const NumDirections = 4

// AllDirections lists the moves in enumeration order.
var AllDirections = [NumDirections]Direction{Up, Down, Left, Right}

var directionOffsets = [NumDirections]Offset{
	Up:    {DX: 0, DY: 1},
	Down:  {DX: 0, DY: -1},
	Left:  {DX: -1, DY: 0},
	Right: {DX: 1, DY: 0},
}

var directionNames = [NumDirections]string{"up", "down", "left", "right"}

// Offset returns the unit displacement of d.
func (d Direction) Offset() Offset {
	return directionOffsets[d]
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) String() string {
	if int(d) >= NumDirections {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// ParseDirection accepts the lower-case protocol names.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return Up, errors.Errorf("unknown direction %q", s)
}

// DirectionFromOffset maps a unit offset back to its direction.
func DirectionFromOffset(o Offset) (Direction, error) {
	for i, d := range directionOffsets {
		if d == o {
			return Direction(i), nil
		}
	}
	return Up, errors.Errorf("offset %+v is not a unit direction", o)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int8) int8 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func between(v, a, b int8) bool {
	if a > b {
		a, b = b, a
	}
	return v >= a && v <= b
}

func clampAbs(v, limit int) int {
	if limit < 0 {
		limit = 0
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
