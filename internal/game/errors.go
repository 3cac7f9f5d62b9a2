package game

import (
	"errors"
	"fmt"

	"github.com/marcward/gridstreak/internal/puzzle"
)

// PlayError represents a rule violation during play.
//
// Play errors include:
//   - Already completed: the date's puzzle is in its terminal state
//   - Clue cell: the player tried to edit a pre-revealed cell
//   - Out of bounds: a coordinate falls outside the grid
//   - Incomplete: completion was requested with unrevealed cells
//   - Invalid: the finished grid violates the puzzle's constraints
//
// PlayError includes structured fields so callers can render the
// violating cells instead of parsing messages.
type PlayError struct {
	// Code identifies the error category.
	Code PlayErrorCode

	// Message is a human-readable description.
	Message string

	// Date identifies the affected day.
	Date string

	// Cells lists the violating coordinates (for invalid completions).
	Cells []puzzle.CellError
}

// PlayErrorCode categorizes play errors.
type PlayErrorCode string

const (
	// ErrCodeAlreadyCompleted indicates the puzzle is terminal.
	ErrCodeAlreadyCompleted PlayErrorCode = "ALREADY_COMPLETED"

	// ErrCodeClueCell indicates an edit aimed at a clue cell.
	ErrCodeClueCell PlayErrorCode = "CLUE_CELL"

	// ErrCodeOutOfBounds indicates a coordinate outside the grid.
	ErrCodeOutOfBounds PlayErrorCode = "OUT_OF_BOUNDS"

	// ErrCodeIncomplete indicates unrevealed cells at completion time.
	ErrCodeIncomplete PlayErrorCode = "PUZZLE_INCOMPLETE"

	// ErrCodeInvalid indicates a complete grid that breaks a constraint.
	ErrCodeInvalid PlayErrorCode = "PUZZLE_INVALID"
)

// Error implements the error interface.
func (e *PlayError) Error() string {
	if len(e.Cells) > 0 {
		return fmt.Sprintf("%s: %s (date=%s, cells=%d)", e.Code, e.Message, e.Date, len(e.Cells))
	}
	if e.Date != "" {
		return fmt.Sprintf("%s: %s (date=%s)", e.Code, e.Message, e.Date)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsAlreadyCompleted returns true if the error reports a terminal
// puzzle. Uses errors.As to handle wrapped errors.
func IsAlreadyCompleted(err error) bool {
	var pe *PlayError
	return errors.As(err, &pe) && pe.Code == ErrCodeAlreadyCompleted
}

// IsIncomplete returns true if the error reports unrevealed cells.
func IsIncomplete(err error) bool {
	var pe *PlayError
	return errors.As(err, &pe) && pe.Code == ErrCodeIncomplete
}

// IsInvalid returns true if the error reports constraint violations.
func IsInvalid(err error) bool {
	var pe *PlayError
	return errors.As(err, &pe) && pe.Code == ErrCodeInvalid
}

func newAlreadyCompleted(date string) *PlayError {
	return &PlayError{
		Code:    ErrCodeAlreadyCompleted,
		Message: "puzzle already completed",
		Date:    date,
	}
}

func newClueCell(date string, row, col int) *PlayError {
	return &PlayError{
		Code:    ErrCodeClueCell,
		Message: fmt.Sprintf("cell (%d,%d) is a clue and cannot be edited", row, col),
		Date:    date,
	}
}

func newOutOfBounds(date string, row, col, size int) *PlayError {
	return &PlayError{
		Code:    ErrCodeOutOfBounds,
		Message: fmt.Sprintf("cell (%d,%d) outside %dx%d grid", row, col, size, size),
		Date:    date,
	}
}

func newIncomplete(date string) *PlayError {
	return &PlayError{
		Code:    ErrCodeIncomplete,
		Message: "puzzle has unrevealed cells",
		Date:    date,
	}
}

func newInvalid(date string, cells []puzzle.CellError) *PlayError {
	return &PlayError{
		Code:    ErrCodeInvalid,
		Message: "completed grid violates puzzle constraints",
		Date:    date,
		Cells:   cells,
	}
}
