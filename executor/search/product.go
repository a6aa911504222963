package search

import (
	"github.com/brensch/snekfront/game"
)

// product enumerates the Cartesian product of per-snake move lists. Combo k
// is read as a mixed-radix number whose lowest digit belongs to snake 0.
type product struct {
	options [][]game.Direction
	size    int
}

func newProduct(options [][]game.Direction) product {
	size := 1
	for _, o := range options {
		size *= len(o)
	}
	return product{options: options, size: size}
}

// at writes combo k into out, which must have one slot per snake.
func (p product) at(k int, out []game.Direction) {
	for i, o := range p.options {
		out[i] = o[k%len(o)]
		k /= len(o)
	}
}
