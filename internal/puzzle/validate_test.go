package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solvedGrid fills a player grid with the puzzle's solution, all cells
// revealed.
func solvedGrid(p *Puzzle) [][]Cell {
	grid := make([][]Cell, p.Size())
	for i := range grid {
		grid[i] = make([]Cell, p.Size())
		for j := range grid[i] {
			grid[i][j] = Cell{
				Value:    p.Solution[i][j],
				Revealed: true,
				IsClue:   p.Grid[i][j].IsClue,
			}
		}
	}
	return grid
}

func TestValidate_SolvedSudoku(t *testing.T) {
	gen := NewGenerator(testSecret)
	p, err := gen.Generate("2024-01-15", TypeSudoku)
	require.NoError(t, err)

	res := Validate(p, solvedGrid(p))

	assert.True(t, res.IsValid)
	assert.True(t, res.IsComplete)
	assert.Empty(t, res.Errors)
}

func TestValidate_IncompleteShortCircuits(t *testing.T) {
	gen := NewGenerator(testSecret)
	p, err := gen.Generate("2024-01-15", TypeSudoku)
	require.NoError(t, err)

	grid := solvedGrid(p)
	// One unrevealed cell, even with a wrong value elsewhere, reports
	// incomplete and nothing else.
	grid[5][5].Revealed = false
	grid[0][1].Value = 9

	res := Validate(p, grid)

	assert.False(t, res.IsComplete)
	assert.False(t, res.IsValid)
	assert.Empty(t, res.Errors)
}

func TestValidate_WrongCellReported(t *testing.T) {
	gen := NewGenerator(testSecret)
	p, err := gen.Generate("2024-01-15", TypeSudoku)
	require.NoError(t, err)

	grid := solvedGrid(p)
	// Swap two distinct values in row 0; both mismatch the solution and
	// both duplicate within their columns.
	grid[0][0].Value, grid[0][1].Value = grid[0][1].Value, grid[0][0].Value

	res := Validate(p, grid)

	assert.True(t, res.IsComplete)
	assert.False(t, res.IsValid)
	assert.NotEmpty(t, res.Errors)

	var mismatches, colDups int
	for _, e := range res.Errors {
		switch e.Message {
		case "duplicate in column":
			colDups++
		}
		if e.Row == 0 && (e.Col == 0 || e.Col == 1) {
			mismatches++
		}
	}
	assert.GreaterOrEqual(t, mismatches, 2, "both swapped cells must be flagged")
	assert.GreaterOrEqual(t, colDups, 2)
}

func TestValidate_OutOfRangeValue(t *testing.T) {
	gen := NewGenerator(testSecret)
	p, err := gen.Generate("2024-01-15", TypeSudoku)
	require.NoError(t, err)

	grid := solvedGrid(p)
	grid[2][2].Value = 7

	res := Validate(p, grid)

	assert.False(t, res.IsValid)
	found := false
	for _, e := range res.Errors {
		if e.Row == 2 && e.Col == 2 && e.Message == "invalid number" {
			found = true
		}
	}
	assert.True(t, found, "out-of-range value must be flagged: %v", res.Errors)
}

func TestValidate_BoxDuplicate(t *testing.T) {
	solution := [][]int{
		{1, 2, 3, 4, 5, 6},
		{4, 5, 6, 1, 2, 3},
		{2, 3, 4, 5, 6, 1},
		{5, 6, 1, 2, 3, 4},
		{3, 4, 5, 6, 1, 2},
		{6, 1, 2, 3, 4, 5},
	}
	p := &Puzzle{Type: TypeSudoku, Solution: solution}

	grid := make([][]Cell, 6)
	for i := range grid {
		grid[i] = make([]Cell, 6)
		for j := range grid[i] {
			grid[i][j] = Cell{Value: solution[i][j], Revealed: true}
		}
	}
	// Swap two row-0 values across the box boundary: the row stays
	// unique but the top-left 2x3 box now holds 4 twice.
	grid[0][2].Value, grid[0][3].Value = grid[0][3].Value, grid[0][2].Value

	res := Validate(p, grid)

	assert.False(t, res.IsValid)
	boxDup := false
	for _, e := range res.Errors {
		if e.Message == "duplicate in box" {
			boxDup = true
		}
	}
	assert.True(t, boxDup, "expected a box violation: %v", res.Errors)
}

func TestValidate_Nonogram(t *testing.T) {
	gen := NewGenerator(testSecret)
	p, err := gen.Generate("2024-01-15", TypeNonogram)
	require.NoError(t, err)

	grid := solvedGrid(p)
	res := Validate(p, grid)
	assert.True(t, res.IsValid)
	assert.True(t, res.IsComplete)
	assert.Empty(t, res.Errors)

	grid[3][4].Value = 1 - grid[3][4].Value
	res = Validate(p, grid)
	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, CellError{Row: 3, Col: 4, Message: "incorrect cell"}, res.Errors[0])
}

func TestValidate_DoesNotMutate(t *testing.T) {
	gen := NewGenerator(testSecret)
	p, err := gen.Generate("2024-01-15", TypeSudoku)
	require.NoError(t, err)

	grid := solvedGrid(p)
	before := CloneGrid(grid)
	solBefore := make([][]int, len(p.Solution))
	for i, row := range p.Solution {
		solBefore[i] = append([]int(nil), row...)
	}

	_ = Validate(p, grid)

	assert.Equal(t, before, grid)
	assert.Equal(t, solBefore, p.Solution)
}

func TestBoxDims(t *testing.T) {
	cases := []struct {
		size, h, w int
	}{
		{6, 2, 3},
		{9, 3, 3},
		{4, 2, 2},
		{8, 2, 4},
		{5, 1, 5},
	}
	for _, c := range cases {
		h, w := boxDims(c.size)
		assert.Equal(t, c.h, h, "size %d", c.size)
		assert.Equal(t, c.w, w, "size %d", c.size)
	}
}
