// Package rulestest builds boards from ASCII pictures for tests.
//
// A picture lists rows top first. Each cell is two characters between '|'
// separators: "  " is empty, "()" is food, and a letter followed by a digit
// is a body segment, the digit being the segment index (0 is the head).
// 'Y' is the deciding snake; any other upper-case letter is an opponent.
//
//	|  |()|  |
//	|Y0|  |A0|
//	|Y1|  |A1|
package rulestest

import (
	"slices"
	"strconv"
	"strings"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"

	"github.com/brensch/snekfront/game"
	"github.com/brensch/snekfront/rules"
)

// Parse builds a board from a picture. Every snake gets full health; use
// SetHealth to change it.
func Parse(picture string) (*rules.Board, error) {
	var rows [][]string
	for _, line := range strings.Split(picture, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
		rows = append(rows, strings.Split(line, "|"))
	}
	if len(rows) == 0 {
		return nil, errors.New("empty picture")
	}
	width, height := len(rows[0]), len(rows)

	var food []game.Coord
	segments := map[byte]map[int]game.Coord{}
	for r, row := range rows {
		if len(row) != width {
			return nil, errors.Errorf("row %d has %d cells, want %d", r, len(row), width)
		}
		at := game.Coord{Y: int8(height - 1 - r)}
		for x, cell := range row {
			at.X = int8(x)
			switch {
			case cell == "  ":
			case cell == "()":
				food = append(food, at)
			case len(cell) == 2 && cell[0] >= 'A' && cell[0] <= 'Z':
				idx, err := strconv.ParseInt(cell[1:], 36, 0)
				if err != nil {
					return nil, errors.Wrapf(err, "cell %q at %v", cell, at)
				}
				if segments[cell[0]] == nil {
					segments[cell[0]] = map[int]game.Coord{}
				}
				segments[cell[0]][int(idx)] = at
			default:
				return nil, errors.Errorf("unknown cell %q at %v", cell, at)
			}
		}
	}

	letters := make([]byte, 0, len(segments))
	for l := range segments {
		letters = append(letters, l)
	}
	slices.SortFunc(letters, func(a, b byte) int {
		switch {
		case a == b:
			return 0
		case a == 'Y':
			return -1
		case b == 'Y':
			return 1
		}
		return int(a) - int(b)
	})

	var snakes []game.Snake
	for _, l := range letters {
		cells := make([]game.Coord, len(segments[l]))
		for idx, c := range segments[l] {
			if idx >= len(cells) {
				return nil, errors.Errorf("snake %c is missing segments below %d", l, idx)
			}
			cells[idx] = c
		}
		s, err := game.NewSnake(SnakeID(l), game.MaxHealth, cells)
		if err != nil {
			return nil, errors.Wrapf(err, "snake %c", l)
		}
		snakes = append(snakes, s)
	}
	return rules.NewBoard(width, height, food, snakes)
}

// MustParse is Parse for fixtures.
func MustParse(picture string) *rules.Board {
	return must.M1(Parse(picture))
}

// SnakeID is the id Parse gives the snake drawn with letter l.
func SnakeID(l byte) string {
	if l == 'Y' {
		return "you"
	}
	return strings.ToLower(string(l))
}

// SetHealth sets the health of the snake with the given id.
func SetHealth(b *rules.Board, id string, health int32) *rules.Board {
	b.Snakes[b.SnakeIndex(id)].Health = health
	return b
}
