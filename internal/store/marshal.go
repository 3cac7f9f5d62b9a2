package store

import (
	"encoding/json"
	"fmt"

	"github.com/marcward/gridstreak/internal/puzzle"
)

// Stored payloads carry an explicit schema version so a future layout
// change can migrate old rows instead of failing to decode them.
const payloadSchemaVersion = 1

type puzzleEnvelope struct {
	SchemaVersion int            `json:"schemaVersion"`
	Puzzle        *puzzle.Puzzle `json:"puzzle"`
}

type gridEnvelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Cells         [][]puzzle.Cell `json:"cells"`
}

func marshalPuzzle(p *puzzle.Puzzle) (string, error) {
	data, err := json.Marshal(puzzleEnvelope{SchemaVersion: payloadSchemaVersion, Puzzle: p})
	if err != nil {
		return "", fmt.Errorf("marshal puzzle: %w", err)
	}
	return string(data), nil
}

func unmarshalPuzzle(data string) (*puzzle.Puzzle, error) {
	var env puzzleEnvelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return nil, fmt.Errorf("unmarshal puzzle: %w", err)
	}
	if env.SchemaVersion > payloadSchemaVersion {
		return nil, fmt.Errorf("unmarshal puzzle: unsupported schema version %d", env.SchemaVersion)
	}
	return env.Puzzle, nil
}

func marshalGrid(cells [][]puzzle.Cell) (string, error) {
	data, err := json.Marshal(gridEnvelope{SchemaVersion: payloadSchemaVersion, Cells: cells})
	if err != nil {
		return "", fmt.Errorf("marshal grid: %w", err)
	}
	return string(data), nil
}

func unmarshalGrid(data string) ([][]puzzle.Cell, error) {
	var env gridEnvelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return nil, fmt.Errorf("unmarshal grid: %w", err)
	}
	if env.SchemaVersion > payloadSchemaVersion {
		return nil, fmt.Errorf("unmarshal grid: unsupported schema version %d", env.SchemaVersion)
	}
	return env.Cells, nil
}

func marshalMetadata(meta map[string]any) (string, error) {
	if meta == nil {
		return "", nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return string(data), nil
}

func unmarshalMetadata(data string) (map[string]any, error) {
	if data == "" {
		return nil, nil
	}
	var meta map[string]any
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return meta, nil
}
