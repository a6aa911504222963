package game

const (
	// MaxHealth is the health a snake spawns with and returns to after eating.
	MaxHealth = 100
	// StartSize is the number of stacked segments a new snake spawns with.
	StartSize = 3
	// FoodSpawnChance is the default percent chance of extra food per turn.
	FoodSpawnChance = 15
)

// Snake is one player: an identity, a health counter and a body.
type Snake struct {
	ID     string
	Health int32
	Body   Path
}

// NewSnake builds a snake from a head-first list of body cells.
func NewSnake(id string, health int32, body []Coord) (Snake, error) {
	p, err := NewPath(body)
	if err != nil {
		return Snake{}, err
	}
	return Snake{ID: id, Health: health, Body: p}, nil
}

func (s *Snake) Head() Coord { return s.Body.Head() }
func (s *Snake) Tail() Coord { return s.Body.Tail() }
func (s *Snake) Size() int   { return s.Body.Size() }

// Neck returns the segment right behind the head when it is a different
// cell from the head.
func (s *Snake) Neck() (Coord, bool) {
	if s.Body.NumNodes() < 2 {
		return Coord{}, false
	}
	head, next := s.Body.Node(0), s.Body.Node(1)
	if head == next {
		return Coord{}, false
	}
	return head.Add(head.OffsetTo(next).Unit()), true
}

// Starved reports whether the snake has run out of health.
func (s *Snake) Starved() bool {
	return s.Health <= 0
}

// Slither moves the snake one step and burns one point of health.
func (s *Snake) Slither(d Direction) {
	if s.Health > 0 {
		s.Health--
	}
	s.Body.SlideStart(d.Offset())
}

// Feed restores health and keeps the tail in place for one extra turn.
func (s *Snake) Feed(maxHealth int32) {
	s.Health = maxHealth
	s.Body.ExtendEnd(ZeroOffset)
}

// DefaultMove continues in the direction from neck to head, or Up when the
// snake has no distinct neck yet.
func (s *Snake) DefaultMove() Direction {
	neck, ok := s.Neck()
	if !ok {
		return Up
	}
	d, err := DirectionFromOffset(neck.OffsetTo(s.Head()))
	if err != nil {
		return Up
	}
	return d
}

// HitBodyOf reports whether s's head sits on any segment of other past its
// head. Passing s itself checks for self collision.
func (s *Snake) HitBodyOf(other *Snake) bool {
	_, hit := other.Body.FindFirstNode(s.Head(), 1)
	return hit
}

// LosesHeadToHead reports whether s shares a head cell with other and is not
// strictly longer.
func (s *Snake) LosesHeadToHead(other *Snake) bool {
	return s.Head() == other.Head() && s.Size() <= other.Size()
}

func (s *Snake) Clone() Snake {
	return Snake{ID: s.ID, Health: s.Health, Body: s.Body.Clone()}
}
