package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marcward/gridstreak/internal/puzzle"
)

// Day outcome constants.
const (
	ResultSolved     = "solved"
	ResultInvalid    = "invalid"
	ResultIncomplete = "incomplete"
)

// Scenario defines one multi-day play sequence.
type Scenario struct {
	// Name uniquely identifies this scenario; it doubles as the golden
	// fixture name.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Secret keys puzzle generation for every day of the scenario.
	Secret string `yaml:"secret"`

	// Days are executed in order. The same date may appear more than
	// once (a failed attempt followed by the real solve).
	Days []DayStep `yaml:"days"`
}

// DayStep is one attempt at one date's puzzle.
type DayStep struct {
	// Date selects the puzzle (YYYY-MM-DD).
	Date string `yaml:"date"`

	// Time is the reported solve time in seconds.
	Time int `yaml:"time"`

	// Hints is how many hints to take before filling.
	Hints int `yaml:"hints,omitempty"`

	// Result is the expected outcome: solved (default), invalid or
	// incomplete.
	Result string `yaml:"result,omitempty"`

	// Mistakes is how many cells to fill wrongly (invalid attempts).
	Mistakes int `yaml:"mistakes,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly instead of silently skipping steps.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Secret == "" {
		return fmt.Errorf("secret is required")
	}
	if len(s.Days) == 0 {
		return fmt.Errorf("days list is required and must be non-empty")
	}

	for i, day := range s.Days {
		if _, err := time.Parse(puzzle.DateLayout, day.Date); err != nil {
			return fmt.Errorf("days[%d]: invalid date %q", i, day.Date)
		}
		switch day.Result {
		case "", ResultSolved, ResultInvalid, ResultIncomplete:
		default:
			return fmt.Errorf("days[%d]: unknown result %q", i, day.Result)
		}
		if day.Result == ResultInvalid && day.Mistakes < 1 {
			return fmt.Errorf("days[%d]: invalid attempts need mistakes >= 1", i)
		}
		if (day.Result == "" || day.Result == ResultSolved) && day.Time <= 0 {
			return fmt.Errorf("days[%d]: solved attempts need a positive time", i)
		}
	}
	return nil
}
