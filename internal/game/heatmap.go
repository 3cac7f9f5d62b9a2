package game

import (
	"context"
	"fmt"
	"time"

	"github.com/marcward/gridstreak/internal/puzzle"
)

// heatmapDays is the history window the heatmap renders.
const heatmapDays = 365

// Heatmap intensity thresholds: level 1 is any completion, higher
// levels reward score.
const (
	heatLevel2Min = 150
	heatLevel3Min = 250
	heatLevel4Min = 400
)

// HeatmapDay is one rendered day of the activity history.
type HeatmapDay struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Score     int    `json:"score"`
	Level     int    `json:"level"`
}

// Heatmap returns one entry per day for the year ending endDate, oldest
// first. Days without activity appear at level 0.
func (s *Session) Heatmap(ctx context.Context, endDate string) ([]HeatmapDay, error) {
	end, err := time.ParseInLocation(puzzle.DateLayout, endDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", puzzle.ErrInvalidDate, endDate)
	}
	start := end.AddDate(0, 0, -(heatmapDays - 1))

	records, err := s.store.ActivityRange(ctx, start.Format(puzzle.DateLayout), endDate)
	if err != nil {
		return nil, fmt.Errorf("heatmap: %w", err)
	}

	byDate := make(map[string]int, len(records))
	for i, rec := range records {
		byDate[rec.Date] = i
	}

	days := make([]HeatmapDay, 0, heatmapDays)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(puzzle.DateLayout)
		day := HeatmapDay{Date: date}
		if i, ok := byDate[date]; ok && records[i].Completed {
			day.Completed = true
			day.Score = records[i].Score
			day.Level = heatLevel(records[i].Score)
		}
		days = append(days, day)
	}
	return days, nil
}

func heatLevel(score int) int {
	switch {
	case score >= heatLevel4Min:
		return 4
	case score >= heatLevel3Min:
		return 3
	case score >= heatLevel2Min:
		return 2
	default:
		return 1
	}
}
