package store

import (
	"fmt"
	"sort"
	"time"
)

// TimestampLayout is the creation time format (DD/MM/YY HH:MM:SS).
const TimestampLayout = "02/01/06 15:04:05"

// Task is a single record in the task file.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// String returns a one-line summary of the task.
func (t Task) String() string {
	if t.Description == "" {
		return fmt.Sprintf("#%d %s (%s)", t.ID, t.Title, t.Timestamp)
	}
	return fmt.Sprintf("#%d %s: %s (%s)", t.ID, t.Title, t.Description, t.Timestamp)
}

// FormatTimestamp renders a time in the task timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// MaxID is the largest id the store assigns. JSON readers commonly decode
// numbers as float64, so ids stay within the exactly representable range.
const MaxID = 1<<53 - 1

// NextID returns max(ids)+1, or 1 when tasks is empty. It fails with
// ErrIDsExhausted once the highest id reaches MaxID.
func NextID(tasks []Task) (int, error) {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	if int64(maxID) >= MaxID {
		return 0, fmt.Errorf("%w: highest id is %d", ErrIDsExhausted, maxID)
	}
	return maxID + 1, nil
}

// SortNewestFirst returns a copy of tasks ordered by descending id.
func SortNewestFirst(tasks []Task) []Task {
	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}
