// Package selection tracks which hand positions are marked for replacement.
package selection

// Set is a bitmask of hand positions; bit n set means position n is
// selected. The zero value is an empty set.
type Set uint8

const (
	Pos0 Set = 1 << iota
	Pos1
	Pos2
	Pos3
	Pos4
)

// MaxPositions is the number of positions a Set can address.
const MaxPositions = 5

func bit(pos int) Set {
	if pos < 0 || pos >= MaxPositions {
		return 0
	}

	return 1 << uint(pos)
}

// Of builds a set from positions, ignoring any out of range.
func Of(positions ...int) Set {
	var s Set
	for _, pos := range positions {
		s |= bit(pos)
	}

	return s
}

func (s Set) Has(pos int) bool {
	b := bit(pos)
	return b != 0 && s&b != 0
}

func (s *Set) Add(pos int) {
	*s |= bit(pos)
}

func (s *Set) Remove(pos int) {
	*s &^= bit(pos)
}

func (s *Set) Clear() {
	*s = 0
}

func (s Set) Len() int {
	n := 0
	for v := s; v != 0; v &= v - 1 {
		n++
	}

	return n
}

// Positions returns the selected positions in ascending order.
func (s Set) Positions() []int {
	positions := make([]int, 0, MaxPositions)
	for pos := 0; pos < MaxPositions; pos++ {
		if s.Has(pos) {
			positions = append(positions, pos)
		}
	}

	return positions
}
