package puzzle

// Type discriminates the two daily puzzle variants. Generator and
// validator logic branch exhaustively on this tag; payloads never share
// a loosely-typed representation.
type Type string

const (
	// TypeSudoku is a 6x6 grid-fill puzzle with row/column/box constraints.
	TypeSudoku Type = "sudoku"

	// TypeNonogram is an 8x8 pattern-fill puzzle validated cell-by-cell.
	TypeNonogram Type = "nonogram"
)

// Difficulty bands a puzzle into one of three tiers. For sudoku the band
// is drawn from the seeded generator; nonograms are always medium.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Cell is one player-visible grid cell. Clue cells are pre-filled with
// the solution value at generation time and are never player-editable.
type Cell struct {
	Value    int  `json:"value"`
	Revealed bool `json:"revealed"`
	IsClue   bool `json:"isClue"`
}

// Puzzle is the generated daily puzzle. Solution, Difficulty and Seed are
// a pure function of (date, secret key); Grid is mutable player state
// derived from Solution.
type Puzzle struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"`
	Type       Type       `json:"type"`
	Grid       [][]Cell   `json:"grid"`
	Solution   [][]int    `json:"solution"`
	Difficulty Difficulty `json:"difficulty"`
	Seed       string     `json:"seed"`
}

// Size returns the grid dimension (rows == cols for both variants).
func (p *Puzzle) Size() int {
	return len(p.Solution)
}

// CloneGrid returns a deep copy of a cell grid. Used when handing player
// state to callers that must not alias stored progress.
func CloneGrid(grid [][]Cell) [][]Cell {
	out := make([][]Cell, len(grid))
	for i, row := range grid {
		out[i] = make([]Cell, len(row))
		copy(out[i], row)
	}
	return out
}
