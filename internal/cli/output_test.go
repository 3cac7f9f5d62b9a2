package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcward/gridstreak/internal/puzzle"
	"github.com/marcward/gridstreak/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success("solved!", map[string]int{"score": 320})
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.NotContains(t, buf.String(), "solved!", "text rendering stays out of JSON mode")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("PUZZLE_INVALID", "completed grid violates puzzle constraints", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PUZZLE_INVALID", resp.Error.Code)
	assert.Equal(t, "completed grid violates puzzle constraints", resp.Error.Message)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("streak 3 (best 5)", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "streak 3 (best 5)")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Error("ALREADY_COMPLETED", "puzzle already completed", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [ALREADY_COMPLETED]: puzzle already completed")
}

func TestExitError_Codes(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, ExitFailure, GetExitCode(plain))

	cmdErr := NewExitError(ExitCommandError, "bad flags")
	assert.Equal(t, ExitCommandError, GetExitCode(cmdErr))

	wrapped := WrapExitError(ExitFailure, "sync failed", plain)
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.ErrorIs(t, wrapped, plain)
	assert.Contains(t, wrapped.Error(), "sync failed: boom")
}

func TestRenderGrid(t *testing.T) {
	sudoku := &store.ProgressRecord{
		Puzzle: &puzzle.Puzzle{Type: puzzle.TypeSudoku},
		Progress: [][]puzzle.Cell{
			{{Value: 4, Revealed: true, IsClue: true}, {}},
			{{}, {Value: 2, Revealed: true}},
		},
	}
	sudoku.Puzzle.Solution = [][]int{{4, 1}, {1, 2}}
	assert.Equal(t, "4 .\n. 2", RenderGrid(sudoku))

	nonogram := &store.ProgressRecord{
		Puzzle: &puzzle.Puzzle{Type: puzzle.TypeNonogram},
		Progress: [][]puzzle.Cell{
			{{Value: 1, Revealed: true}, {Value: 0, Revealed: true}, {}},
		},
	}
	assert.Equal(t, "# _ .", RenderGrid(nonogram))
}
