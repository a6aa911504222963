package game

import (
	"slices"

	"github.com/pkg/errors"
)

// ErrEmptyBody is returned when a body has no coordinates.
var ErrEmptyBody = errors.New("body has no coordinates")

// Path is a snake body stored as waypoints from head to tail. Each straight
// run is kept as its two endpoints. Stacked cells (a snake that has just
// spawned or eaten) are kept as repeated nodes, each repeat counting as one
// segment.
type Path struct {
	nodes []Coord
}

// NewPath compresses a head-first list of body cells.
func NewPath(cells []Coord) (Path, error) {
	if len(cells) == 0 {
		return Path{}, ErrEmptyBody
	}
	p := Path{nodes: make([]Coord, 1, len(cells))}
	p.nodes[0] = cells[0]
	for i := 1; i < len(cells); i++ {
		step := cells[i-1].OffsetTo(cells[i])
		if step.Manhattan() > 1 {
			return Path{}, errors.Errorf("cells %v and %v are not adjacent", cells[i-1], cells[i])
		}
		p.appendNode(cells[i])
	}
	return p, nil
}

// MustPath is NewPath for literals known to be valid.
func MustPath(cells ...Coord) Path {
	p, err := NewPath(cells)
	if err != nil {
		panic(err)
	}
	return p
}

// appendNode adds c after the current tail, merging it into the last run
// when it continues that run in the same direction.
func (p *Path) appendNode(c Coord) {
	n := len(p.nodes)
	last := p.nodes[n-1]
	step := last.OffsetTo(c)
	if n >= 2 && !step.IsZero() {
		prev := p.nodes[n-2]
		run := prev.OffsetTo(last)
		if !run.IsZero() && run.Unit() == step.Unit() {
			p.nodes[n-1] = c
			return
		}
	}
	p.nodes = append(p.nodes, c)
}

// SlideStart moves the head one step by offset and pulls the tail in by one
// cell, so the size is unchanged.
func (p *Path) SlideStart(offset Offset) {
	head := p.nodes[0]
	newHead := head.Add(offset)
	if len(p.nodes) >= 2 {
		run := p.nodes[1].OffsetTo(head)
		if !run.IsZero() && run.Unit() == offset.Unit() {
			p.nodes[0] = newHead
			p.retract()
			return
		}
	}
	p.nodes = slices.Insert(p.nodes, 0, newHead)
	p.retract()
}

// retract removes one segment from the tail end.
func (p *Path) retract() {
	n := len(p.nodes)
	if n < 2 {
		return
	}
	prev, tail := p.nodes[n-2], p.nodes[n-1]
	if prev.Manhattan(tail) <= 1 {
		p.nodes = p.nodes[:n-1]
		return
	}
	p.nodes[n-1] = tail.MoveToward(prev, 1)
}

// ExtendEnd grows the tail by one segment at tail+offset. A zero offset
// stacks a duplicate of the tail, which is how eating is modelled.
func (p *Path) ExtendEnd(offset Offset) {
	p.appendNode(p.Tail().Add(offset))
}

// Head is the first node.
func (p Path) Head() Coord {
	return p.nodes[0]
}

// Tail is the last node.
func (p Path) Tail() Coord {
	return p.nodes[len(p.nodes)-1]
}

// Node returns the i-th compressed waypoint.
func (p Path) Node(i int) Coord {
	return p.nodes[i]
}

// NumNodes counts compressed waypoints.
func (p Path) NumNodes() int {
	return len(p.nodes)
}

// Dist is the walked length of the path: stacked segments add nothing.
func (p Path) Dist() int {
	d := 0
	for i := 1; i < len(p.nodes); i++ {
		d += p.nodes[i-1].Manhattan(p.nodes[i])
	}
	return d
}

// Size counts body segments, stacked ones included.
func (p Path) Size() int {
	size := 1
	for i := 1; i < len(p.nodes); i++ {
		size += segmentLen(p.nodes[i-1], p.nodes[i])
	}
	return size
}

func segmentLen(a, b Coord) int {
	return max(a.Manhattan(b), 1)
}

// Cells expands the path into one coordinate per segment, head first.
func (p Path) Cells() []Coord {
	out := make([]Coord, 0, p.Size())
	out = append(out, p.nodes[0])
	for i := 1; i < len(p.nodes); i++ {
		a, b := p.nodes[i-1], p.nodes[i]
		if a == b {
			out = append(out, b)
			continue
		}
		step := a.OffsetTo(b).Unit()
		for c := a.Add(step); ; c = c.Add(step) {
			out = append(out, c)
			if c == b {
				break
			}
		}
	}
	return out
}

// FindFirstNode returns the lowest segment index >= minIndex whose cell is
// c. Index 0 is the head.
func (p Path) FindFirstNode(c Coord, minIndex int) (int, bool) {
	if minIndex <= 0 && p.nodes[0] == c {
		return 0, true
	}
	idx := 0
	for i := 1; i < len(p.nodes); i++ {
		a, b := p.nodes[i-1], p.nodes[i]
		l := segmentLen(a, b)
		if idx+l >= minIndex {
			if a == b {
				if c == b {
					return idx + 1, true
				}
			} else if c != a && c.BoundedBy(a, b) {
				if at := idx + a.Manhattan(c); at >= minIndex {
					return at, true
				}
			}
		}
		idx += l
	}
	return 0, false
}

// Intersects reports whether any segment occupies c.
func (p Path) Intersects(c Coord) bool {
	_, ok := p.FindFirstNode(c, 0)
	return ok
}

// StartSelfIntersects reports whether the head lies on a later part of the
// body.
func (p Path) StartSelfIntersects() bool {
	head := p.nodes[0]
	for i := 2; i < len(p.nodes); i++ {
		if head.BoundedBy(p.nodes[i-1], p.nodes[i]) {
			return true
		}
	}
	return false
}

func (p Path) Clone() Path {
	return Path{nodes: slices.Clone(p.nodes)}
}

func (p Path) Equal(other Path) bool {
	return slices.Equal(p.nodes, other.nodes)
}
