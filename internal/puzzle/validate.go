package puzzle

import "fmt"

// CellError reports a single violating coordinate with a human-readable
// reason.
type CellError struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Result is the outcome of validating a player grid against a puzzle.
// IsComplete is false whenever any cell is unrevealed; correctness is
// only judged on complete grids.
type Result struct {
	IsValid    bool        `json:"isValid"`
	IsComplete bool        `json:"isComplete"`
	Errors     []CellError `json:"errors"`
}

// Validate checks grid against the puzzle's solution and structural
// constraints. It is a pure function of (grid, solution) and never
// mutates puzzle state.
func Validate(p *Puzzle, grid [][]Cell) Result {
	switch p.Type {
	case TypeSudoku:
		return validateSudoku(grid, p.Solution)
	case TypeNonogram:
		return validateNonogram(grid, p.Solution)
	default:
		return Result{
			Errors: []CellError{{Message: fmt.Sprintf("unknown puzzle type %q", p.Type)}},
		}
	}
}

func validateSudoku(grid [][]Cell, solution [][]int) Result {
	size := len(grid)

	if !gridComplete(grid) {
		return Result{Errors: []CellError{}}
	}

	var errs []CellError

	// Solution equality first: one error per mismatching cell.
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if grid[i][j].Value != solution[i][j] {
				errs = append(errs, CellError{
					Row:     i,
					Col:     j,
					Message: fmt.Sprintf("expected %d, got %d", solution[i][j], grid[i][j].Value),
				})
			}
		}
	}

	// Row uniqueness and value range.
	for i := 0; i < size; i++ {
		seen := make(map[int]bool, size)
		for j := 0; j < size; j++ {
			v := grid[i][j].Value
			if v < 1 || v > size {
				errs = append(errs, CellError{Row: i, Col: j, Message: "invalid number"})
			}
			if seen[v] {
				errs = append(errs, CellError{Row: i, Col: j, Message: "duplicate in row"})
			}
			seen[v] = true
		}
	}

	// Column uniqueness.
	for j := 0; j < size; j++ {
		seen := make(map[int]bool, size)
		for i := 0; i < size; i++ {
			v := grid[i][j].Value
			if seen[v] {
				errs = append(errs, CellError{Row: i, Col: j, Message: "duplicate in column"})
			}
			seen[v] = true
		}
	}

	// Box uniqueness. Box dimensions must partition the grid exactly;
	// a 6x6 grid uses 2x3 boxes, a 9x9 grid would use 3x3.
	boxH, boxW := boxDims(size)
	for boxRow := 0; boxRow < size/boxH; boxRow++ {
		for boxCol := 0; boxCol < size/boxW; boxCol++ {
			seen := make(map[int]bool, size)
			for i := 0; i < boxH; i++ {
				for j := 0; j < boxW; j++ {
					row, col := boxRow*boxH+i, boxCol*boxW+j
					v := grid[row][col].Value
					if seen[v] {
						errs = append(errs, CellError{Row: row, Col: col, Message: "duplicate in box"})
					}
					seen[v] = true
				}
			}
		}
	}

	if errs == nil {
		errs = []CellError{}
	}
	return Result{IsValid: len(errs) == 0, IsComplete: true, Errors: errs}
}

func validateNonogram(grid [][]Cell, solution [][]int) Result {
	if !gridComplete(grid) {
		return Result{Errors: []CellError{}}
	}

	// Row/column clues are informational for the player; only the cell
	// pattern itself is checked.
	var errs []CellError
	for i := range grid {
		for j := range grid[i] {
			if grid[i][j].Value != solution[i][j] {
				errs = append(errs, CellError{Row: i, Col: j, Message: "incorrect cell"})
			}
		}
	}

	if errs == nil {
		errs = []CellError{}
	}
	return Result{IsValid: len(errs) == 0, IsComplete: true, Errors: errs}
}

func gridComplete(grid [][]Cell) bool {
	for i := range grid {
		for j := range grid[i] {
			if !grid[i][j].Revealed {
				return false
			}
		}
	}
	return true
}

// boxDims returns the tallest box height not exceeding sqrt(size) that
// divides size, paired with the matching width. The pair always
// partitions the grid exactly.
func boxDims(size int) (h, w int) {
	for h = 2; h*h <= size; h++ {
	}
	for h--; h > 1; h-- {
		if size%h == 0 {
			return h, size / h
		}
	}
	return 1, size
}
