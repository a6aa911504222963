package rules_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"

	"github.com/brensch/snekfront/game"
	"github.com/brensch/snekfront/rules"
)

func init() {
	klog.InitFlags(nil)
}

func c(x, y int8) game.Coord { return game.Coord{X: x, Y: y} }

func snake(t *testing.T, id string, health int32, body ...game.Coord) game.Snake {
	t.Helper()
	s, err := game.NewSnake(id, health, body)
	require.NoError(t, err)
	return s
}

func board(t *testing.T, w, h int, food []game.Coord, snakes ...game.Snake) *rules.Board {
	t.Helper()
	b, err := rules.NewBoard(w, h, food, snakes)
	require.NoError(t, err)
	return b
}

func logAdvance(t *testing.T, name string, before *rules.Board, moves []game.Direction, after *rules.Board, deaths []rules.Death) {
	t.Helper()
	var mv strings.Builder
	mv.WriteString("Moves:")
	for i, m := range moves {
		fmt.Fprintf(&mv, " %d=%s", i, m)
	}
	t.Logf("=== %s ===\nBefore:\n%s%s\nAfter:\n%sDeaths: %+v", name, before, mv.String(), after, deaths)
}

// advance clones b, plays one tick without food spawning and logs it.
func advance(t *testing.T, name string, b *rules.Board, moves ...game.Direction) (*rules.Board, []rules.Death) {
	t.Helper()
	after := b.Clone()
	deaths := after.Advance(moves, nil, rules.NoFood)
	logAdvance(t, name, b, moves, after, deaths)
	return after, deaths
}
