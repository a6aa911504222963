package rules

import (
	"math/rand"
	"slices"

	"github.com/brensch/snekfront/game"
)

// DeathCause uses the elimination strings of the official engine.
type DeathCause string

const (
	CauseStarvation    DeathCause = "out-of-health"
	CauseWall          DeathCause = "wall-collision"
	CauseSelfCollision DeathCause = "snake-self-collision"
	CauseCollision     DeathCause = "snake-collision"
	CauseHeadToHead    DeathCause = "head-collision"
)

// Death records a snake eliminated by Advance. Index is its position before
// the tick.
type Death struct {
	Index int
	ID    string
	Cause DeathCause
}

// Advance plays one tick. moves[i] is snake i's move; snakes past the end of
// moves play their default move. Every snake that lands on food eats it and
// the food is removed once. Food spawns afterwards when rng is non-nil.
func (b *Board) Advance(moves []game.Direction, rng *rand.Rand, food FoodSettings) []Death {
	// 1. Move, then feed every snake whose new head is on food
	for i := range b.Snakes {
		s := &b.Snakes[i]
		d := s.DefaultMove()
		if i < len(moves) {
			d = moves[i]
		}
		s.Slither(d)
	}
	eaten := make([]bool, len(b.Food))
	for i := range b.Snakes {
		s := &b.Snakes[i]
		if f := b.FindFood(s.Head()); f >= 0 {
			eaten[f] = true
			s.Feed(game.MaxHealth)
		}
	}

	// 2. Eliminations
	deaths := b.eliminations()

	// 3. Remove eaten food and dead snakes
	if slices.Contains(eaten, true) {
		kept := b.Food[:0]
		for i, f := range b.Food {
			if !eaten[i] {
				kept = append(kept, f)
			}
		}
		b.Food = kept
	}
	if len(deaths) > 0 {
		alive := b.Snakes[:0]
		next := 0
		for i := range b.Snakes {
			if next < len(deaths) && deaths[next].Index == i {
				next++
				continue
			}
			alive = append(alive, b.Snakes[i])
		}
		clear(b.Snakes[len(alive):])
		b.Snakes = alive
	}

	// 4. Spawn
	b.SpawnFood(rng, food)
	return deaths
}

// eliminations returns deaths in index order. Starvation and walls are
// decided first; collisions only count against snakes that survived those.
func (b *Board) eliminations() []Death {
	causes := make([]DeathCause, len(b.Snakes))
	for i := range b.Snakes {
		s := &b.Snakes[i]
		switch {
		case s.Starved():
			causes[i] = CauseStarvation
		case !b.InBounds(s.Head()):
			causes[i] = CauseWall
		}
	}

	collided := make([]DeathCause, len(b.Snakes))
	for i := range b.Snakes {
		if causes[i] != "" {
			continue
		}
		s := &b.Snakes[i]
		if s.Body.StartSelfIntersects() {
			collided[i] = CauseSelfCollision
			continue
		}
		for j := range b.Snakes {
			if j == i || causes[j] != "" {
				continue
			}
			if s.HitBodyOf(&b.Snakes[j]) {
				collided[i] = CauseCollision
				break
			}
		}
		if collided[i] != "" {
			continue
		}
		for j := range b.Snakes {
			if j == i || causes[j] != "" {
				continue
			}
			if s.LosesHeadToHead(&b.Snakes[j]) {
				collided[i] = CauseHeadToHead
				break
			}
		}
	}

	var deaths []Death
	for i := range b.Snakes {
		cause := causes[i]
		if cause == "" {
			cause = collided[i]
		}
		if cause != "" {
			deaths = append(deaths, Death{Index: i, ID: b.Snakes[i].ID, Cause: cause})
		}
	}
	return deaths
}

// GameOver reports whether at most one snake is left.
func (b *Board) GameOver() bool {
	return len(b.Snakes) <= 1
}
