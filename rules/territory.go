package rules

import (
	"golang.org/x/sync/errgroup"

	"github.com/brensch/snekfront/game"
)

const (
	// Unclaimed marks a cell no snake reached.
	Unclaimed = -1
	// Contested marks a cell two or more snakes reached in the same ring.
	Contested = -2

	// parallelRingSize is the total frontier size above which each snake's
	// ring is expanded on its own goroutine.
	parallelRingSize = 32
)

// Territory summarises the cells one snake reaches strictly first.
type Territory struct {
	// Area counts claimed cells, the head included.
	Area int
	// NumFood counts food inside the claimed cells.
	NumFood int
	// NearestFood is the distance at which the closest claimed food was
	// reached, or -1 when there is none.
	NearestFood int
}

// TerritoryMap is the per-cell result behind Territories.
type TerritoryMap struct {
	// Owners holds a snake index, Unclaimed or Contested per cell, row by row.
	Owners      []int
	Territories []Territory
	width       int
}

// Owner returns the owner of c.
func (m *TerritoryMap) Owner(c game.Coord) int {
	return m.Owners[int(c.Y)*m.width+int(c.X)]
}

// Territories partitions the board between the snakes.
func (b *Board) Territories() []Territory {
	return b.TerritoryMap().Territories
}

// TerritoryMap grows every snake outward from its head one ring at a time.
// A cell at ring t only needs to be clear of bodies after t turns. Cells that
// several snakes reach in the same ring are contested: nobody claims them and
// nobody expands through them.
func (b *Board) TerritoryMap() *TerritoryMap {
	w := b.Width()
	area := b.Area()
	index := func(c game.Coord) int { return int(c.Y)*w + int(c.X) }

	m := &TerritoryMap{
		Owners:      make([]int, area),
		Territories: make([]Territory, len(b.Snakes)),
		width:       w,
	}
	for i := range m.Owners {
		m.Owners[i] = Unclaimed
	}
	for i := range m.Territories {
		m.Territories[i].NearestFood = -1
	}

	frontiers := make([][]game.Coord, len(b.Snakes))
	claim := func(i int, c game.Coord, dist int) {
		m.Owners[index(c)] = i
		t := &m.Territories[i]
		t.Area++
		if b.FindFood(c) >= 0 {
			t.NumFood++
			if t.NearestFood < 0 {
				t.NearestFood = dist
			}
		}
		frontiers[i] = append(frontiers[i], c)
	}

	for i := range b.Snakes {
		head := b.Snakes[i].Head()
		if !b.InBounds(head) {
			continue
		}
		switch owner := m.Owners[index(head)]; owner {
		case Unclaimed:
			claim(i, head, 0)
		case Contested:
		default:
			m.Owners[index(head)] = Contested
			m.Territories[owner] = Territory{NearestFood: -1}
			frontiers[owner] = nil
		}
	}

	proposals := make([][]game.Coord, len(b.Snakes))
	stamps := make([][]int, len(b.Snakes))
	for i := range stamps {
		stamps[i] = make([]int, area)
	}
	ringOf := make([]int, area)
	firstOf := make([]int, area)

	for t := 1; ; t++ {
		total := 0
		for _, f := range frontiers {
			total += len(f)
		}
		if total == 0 {
			break
		}

		expand := func(i int) {
			proposals[i] = proposals[i][:0]
			for _, c := range frontiers[i] {
				for _, d := range b.FreeMoves(c, t) {
					next := c.Add(d.Offset())
					ni := index(next)
					if m.Owners[ni] != Unclaimed || stamps[i][ni] == t {
						continue
					}
					stamps[i][ni] = t
					proposals[i] = append(proposals[i], next)
				}
			}
		}
		if total >= parallelRingSize {
			var g errgroup.Group
			for i := range frontiers {
				if len(frontiers[i]) == 0 {
					continue
				}
				g.Go(func() error {
					expand(i)
					return nil
				})
			}
			g.Wait()
		} else {
			for i := range frontiers {
				expand(i)
			}
		}

		// Two passes: find every proposer per cell, then claim the singles.
		for i := range proposals {
			for _, c := range proposals[i] {
				ci := index(c)
				if ringOf[ci] != t {
					ringOf[ci] = t
					firstOf[ci] = i
				} else if firstOf[ci] != i {
					firstOf[ci] = Contested
				}
			}
		}
		for i := range frontiers {
			frontiers[i] = frontiers[i][:0]
		}
		for i := range proposals {
			for _, c := range proposals[i] {
				ci := index(c)
				switch firstOf[ci] {
				case i:
					claim(i, c, t)
				case Contested:
					m.Owners[ci] = Contested
				}
			}
		}
	}
	return m
}
