package hint

import "fmt"

// Difficulty selects a word-length bucket. Its value is also the number of
// points a solved round is worth.
type Difficulty int

const (
	Easy   Difficulty = 1 // ≤5 characters
	Medium Difficulty = 2 // 6–8 characters
	Hard   Difficulty = 3 // ≥9 characters
)

// ParseDifficulty converts a point value into a Difficulty.
func ParseDifficulty(n int) (Difficulty, error) {
	d := Difficulty(n)
	if !d.Valid() {
		return 0, fmt.Errorf("difficulty must be 1, 2 or 3 (got %d)", n)
	}
	return d, nil
}

// Valid reports whether d is a known bucket.
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

// Contains reports whether an answer-text of length n (spaces included)
// belongs to the bucket.
func (d Difficulty) Contains(n int) bool {
	switch d {
	case Easy:
		return n <= 5
	case Medium:
		return n >= 6 && n <= 8
	case Hard:
		return n >= 9
	}
	return false
}

// Points returns the score awarded for solving a round.
func (d Difficulty) Points() int {
	if !d.Valid() {
		return 0
	}
	return int(d)
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy (≤5 letters)"
	case Medium:
		return "medium (6-8 letters)"
	case Hard:
		return "hard (≥9 letters)"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}
