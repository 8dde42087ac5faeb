// Package scramble generates random-move scrambles for NxN cube events.
package scramble

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// ErrUnsupported is wrapped by Scramble for puzzles it cannot scramble.
var ErrUnsupported = errors.New("scramble: unsupported puzzle")

// lengths are the scramble lengths per cube size, as used in competition
// random-move scrambles.
var lengths = map[int]int{
	2: 11,
	3: 20,
	4: 40,
	5: 60,
	6: 80,
	7: 100,
}

var (
	faces     = []string{"U", "D", "L", "R", "F", "B"}
	smallFace = []string{"U", "R", "F"}
	suffixes  = []string{"", "'", "2"}
)

// axis groups opposite faces: U/D, L/R, F/B.
func axis(face string) int {
	switch face {
	case "U", "D":
		return 0
	case "L", "R":
		return 1
	default:
		return 2
	}
}

// Generator produces scrambles from its random source. It is not safe for
// concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded from the runtime's random source.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Size returns the cube size for an event id such as "333", "444bf" or
// "333oh".
func Size(puzzle string) (int, error) {
	if len(puzzle) < 3 {
		return 0, fmt.Errorf("%w: %q", ErrUnsupported, puzzle)
	}
	n := int(puzzle[0] - '0')
	if puzzle[1] != puzzle[0] || puzzle[2] != puzzle[0] {
		return 0, fmt.Errorf("%w: %q", ErrUnsupported, puzzle)
	}
	if _, ok := lengths[n]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupported, puzzle)
	}
	return n, nil
}

// Scramble returns a scramble for puzzle.
func (g *Generator) Scramble(puzzle string) (string, error) {
	n, err := Size(puzzle)
	if err != nil {
		return "", err
	}
	return strings.Join(g.moves(n, lengths[n]), " "), nil
}

// moves never turns the same face twice in a row and never turns a third
// face on an axis whose two faces were just turned, so no move cancels or
// commutes into a neighbour.
func (g *Generator) moves(n, count int) []string {
	pool := faces
	if n == 2 {
		pool = smallFace
	}
	out := make([]string, 0, count)
	last, prev := -1, -1
	lastFace := ""
	for len(out) < count {
		face := pool[g.rnd.IntN(len(pool))]
		ax := axis(face)
		if face == lastFace {
			continue
		}
		if ax == last && ax == prev {
			continue
		}
		prev, last, lastFace = last, ax, face
		out = append(out, g.layer(n)+face+g.wide(n)+suffixes[g.rnd.IntN(len(suffixes))])
	}
	return out
}

// layer returns the depth prefix for deep wide turns on 6x6 and up.
func (g *Generator) layer(n int) string {
	if n < 6 {
		return ""
	}
	if g.rnd.IntN(3) == 0 {
		return "3"
	}
	return ""
}

func (g *Generator) wide(n int) string {
	if n < 4 {
		return ""
	}
	if g.rnd.IntN(2) == 0 {
		return "w"
	}
	return ""
}
