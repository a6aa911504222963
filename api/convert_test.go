package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/snekfront/game"
)

const moveRequest = `{
  "game": {"id": "g1", "timeout": 500, "ruleset": {"name": "standard", "settings": {"foodSpawnChance": 15, "minimumFood": 1}}},
  "turn": 3,
  "board": {
    "height": 11, "width": 11,
    "food": [{"x": 5, "y": 5}],
    "snakes": [
      {"id": "them", "health": 90, "body": [{"x": 8, "y": 8}, {"x": 8, "y": 7}, {"x": 8, "y": 6}]},
      {"id": "me", "health": 97, "body": [{"x": 1, "y": 3}, {"x": 1, "y": 2}, {"x": 1, "y": 1}, {"x": 1, "y": 1}]}
    ]
  },
  "you": {"id": "me", "health": 97, "body": [{"x": 1, "y": 3}, {"x": 1, "y": 2}, {"x": 1, "y": 1}, {"x": 1, "y": 1}]}
}`

func TestToBoard_PutsYouFirst(t *testing.T) {
	var req GameRequest
	require.NoError(t, json.Unmarshal([]byte(moveRequest), &req))

	b, err := ToBoard(&req)
	require.NoError(t, err)
	require.Len(t, b.Snakes, 2)
	assert.Equal(t, "me", b.Snakes[0].ID)
	assert.Equal(t, int32(97), b.Snakes[0].Health)
	assert.Equal(t, 4, b.Snakes[0].Size(), "stacked tail counts")
	assert.Equal(t, game.Coord{X: 1, Y: 3}, b.Snakes[0].Head())
	assert.Equal(t, "them", b.Snakes[1].ID)
	assert.Equal(t, []game.Coord{{X: 5, Y: 5}}, b.Food)
	assert.Equal(t, 11, b.Width())
}

func TestToBoard_Rejects(t *testing.T) {
	tests := []struct {
		name string
		req  GameRequest
	}{
		{"empty body", GameRequest{
			Board: Board{Width: 5, Height: 5, Snakes: []Battlesnake{{ID: "me", Health: 100}}},
			You:   Battlesnake{ID: "me"},
		}},
		{"missing you", GameRequest{
			Board: Board{Width: 5, Height: 5, Snakes: []Battlesnake{{ID: "a", Health: 100, Body: []Coord{{1, 1}}}}},
			You:   Battlesnake{ID: "me"},
		}},
		{"bad size", GameRequest{
			Board: Board{Width: 0, Height: 5},
		}},
		{"off board", GameRequest{
			Board: Board{Width: 5, Height: 5, Snakes: []Battlesnake{{ID: "me", Health: 100, Body: []Coord{{5, 1}}}}},
			You:   Battlesnake{ID: "me"},
		}},
		{"negative", GameRequest{
			Board: Board{Width: 5, Height: 5, Food: []Coord{{-1, 0}}, Snakes: []Battlesnake{{ID: "me", Health: 100, Body: []Coord{{1, 1}}}}},
			You:   Battlesnake{ID: "me"},
		}},
		{"gap in body", GameRequest{
			Board: Board{Width: 5, Height: 5, Snakes: []Battlesnake{{ID: "me", Health: 100, Body: []Coord{{1, 1}, {3, 1}}}}},
			You:   Battlesnake{ID: "me"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToBoard(&tt.req)
			assert.Error(t, err)
		})
	}
}

func TestInferMove(t *testing.T) {
	prev := &Board{Snakes: []Battlesnake{{ID: "me", Body: []Coord{{2, 2}, {2, 1}}}}}
	next := &Board{Snakes: []Battlesnake{{ID: "me", Body: []Coord{{1, 2}, {2, 2}}}}}
	d, ok := InferMove(prev, next, "me")
	require.True(t, ok)
	assert.Equal(t, game.Left, d)

	_, ok = InferMove(prev, &Board{}, "me")
	assert.False(t, ok)
	_, ok = InferMove(prev, prev, "me")
	assert.False(t, ok)
}

func TestMoveResponse_JSON(t *testing.T) {
	out, err := json.Marshal(MoveResponse{Move: MoveToString(game.Right)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"move":"right"}`, string(out))
}
