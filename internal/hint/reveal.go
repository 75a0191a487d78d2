package hint

import (
	"strconv"
	"strings"
)

// RevealMore uncovers one more random hidden rune of mask using answer.
//
// The mask is returned unchanged when its length differs from answer's or
// when one hidden rune or fewer is left, so callers may ask speculatively.
func (e *Engine) RevealMore(answer, mask string) string {
	a := []rune(answer)
	m := []rune(mask)
	if len(a) != len(m) {
		return mask
	}

	var hidden []int
	for i, r := range m {
		if r == Hidden {
			hidden = append(hidden, i)
		}
	}
	if len(hidden) <= 1 {
		return mask
	}

	pos := hidden[e.rng.IntN(len(hidden))]
	m[pos] = a[pos]
	return string(m)
}

// HiddenCount returns the number of masked runes.
func HiddenCount(mask string) int {
	return strings.Count(mask, string(Hidden))
}

// Structure describes the word lengths of mask, e.g. "3-4" for "___ ____".
func Structure(mask string) string {
	if mask == "" {
		return ""
	}
	words := strings.Split(mask, " ")
	lengths := make([]string, len(words))
	for i, w := range words {
		lengths[i] = strconv.Itoa(len([]rune(w)))
	}
	return strings.Join(lengths, "-")
}
