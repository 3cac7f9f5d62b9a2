package puzzle

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-day key format used across the whole
// system: puzzle ids, store keys and sync payloads.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when the requested date is not a valid
// calendar date in DateLayout form. Generation never runs on a bad date.
var ErrInvalidDate = errors.New("puzzle: invalid date")

const (
	sudokuSize   = 6
	nonogramSize = 8

	// typeSelectorKey seeds the secondary draw that picks the daily
	// variant when the caller does not force one.
	typeSelectorKey = "type-selector"
)

// clueCounts maps difficulty to the number of pre-revealed clue cells in
// a sudoku grid. Fewer clues, harder puzzle.
var clueCounts = map[Difficulty]int{
	Easy:   20,
	Medium: 16,
	Hard:   12,
}

// Generator derives daily puzzles from (date, secret key). For a fixed
// pair it is a pure function: identical solution, difficulty and seed on
// every call.
type Generator struct {
	secret string
}

// NewGenerator creates a generator keyed by the shared secret.
func NewGenerator(secret string) *Generator {
	return &Generator{secret: secret}
}

// Generate builds the puzzle for date. An empty typ lets the seeded
// type selector choose between the variants.
func (g *Generator) Generate(date string, typ Type) (*Puzzle, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	if typ == "" {
		typ = PickType(date)
	}

	switch typ {
	case TypeSudoku:
		return g.generateSudoku(date), nil
	case TypeNonogram:
		return g.generateNonogram(date), nil
	default:
		return nil, fmt.Errorf("puzzle: unknown type %q", typ)
	}
}

// PickType selects the daily variant from a secondary seed so the choice
// cannot be predicted without the date, yet is identical on every
// device.
func PickType(date string) Type {
	rng := NewRand(Seed(date, typeSelectorKey))
	if rng.Bool() {
		return TypeSudoku
	}
	return TypeNonogram
}

func (g *Generator) generateSudoku(date string) *Puzzle {
	seed := Seed(date, g.secret)
	rng := NewRand(seed)

	// Base Latin-square-like solution from an arithmetic formula. The
	// row-block offset (i/2) keeps the 2x3 boxes valid.
	solution := make([][]int, sudokuSize)
	for i := 0; i < sudokuSize; i++ {
		solution[i] = make([]int, sudokuSize)
		for j := 0; j < sudokuSize; j++ {
			solution[i][j] = ((i*3+i/2+j)%sudokuSize + 1)
		}
	}

	// Permute rows pairwise within each of the three 2-row blocks.
	// Swapping inside a block preserves the box constraint.
	for b := 0; b < 3; b++ {
		if rng.Bool() {
			solution[b*2], solution[b*2+1] = solution[b*2+1], solution[b*2]
		}
	}

	// One uniform draw partitioned into three difficulty bands.
	difficulty := Hard
	switch d := rng.Next(); {
	case d < 0.33:
		difficulty = Easy
	case d < 0.66:
		difficulty = Medium
	}
	clues := clueCounts[difficulty]

	grid := make([][]Cell, sudokuSize)
	for i := range grid {
		grid[i] = make([]Cell, sudokuSize)
	}

	// Clue positions are a seeded-shuffle prefix over all coordinates.
	positions := make([][2]int, 0, sudokuSize*sudokuSize)
	for i := 0; i < sudokuSize; i++ {
		for j := 0; j < sudokuSize; j++ {
			positions = append(positions, [2]int{i, j})
		}
	}
	for _, pos := range Shuffle(rng, positions)[:clues] {
		row, col := pos[0], pos[1]
		grid[row][col] = Cell{
			Value:    solution[row][col],
			Revealed: true,
			IsClue:   true,
		}
	}

	return &Puzzle{
		ID:         fmt.Sprintf("sudoku-%s", date),
		Date:       date,
		Type:       TypeSudoku,
		Grid:       grid,
		Solution:   solution,
		Difficulty: difficulty,
		Seed:       seed,
	}
}

func (g *Generator) generateNonogram(date string) *Puzzle {
	seed := Seed(date, g.secret)
	rng := NewRand(seed)

	pattern := nonogramPatterns[rng.IntN(0, len(nonogramPatterns)-1)]

	solution := make([][]int, nonogramSize)
	grid := make([][]Cell, nonogramSize)
	for i := 0; i < nonogramSize; i++ {
		solution[i] = make([]int, nonogramSize)
		copy(solution[i], pattern[i])
		grid[i] = make([]Cell, nonogramSize)
	}

	return &Puzzle{
		ID:         fmt.Sprintf("nonogram-%s", date),
		Date:       date,
		Type:       TypeNonogram,
		Grid:       grid,
		Solution:   solution,
		Difficulty: Medium,
		Seed:       seed,
	}
}
