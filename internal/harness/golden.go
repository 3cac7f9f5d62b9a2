package harness

import (
	"fmt"
	"strings"
)

// Summary renders the report as the stable text the golden fixtures
// hold. One line per day step, then final state.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Scenario)
	for _, line := range r.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "streak current=%d longest=%d last=%s\n",
		r.Streak.CurrentStreak, r.Streak.LongestStreak, r.Streak.LastPlayedDate)
	fmt.Fprintf(&b, "completed %d puzzles, %d points\n", r.Completed, r.TotalScore)
	if len(r.Achievements) > 0 {
		fmt.Fprintf(&b, "achievements: %s\n", strings.Join(r.Achievements, ", "))
	}
	return b.String()
}
