package analytics

import (
	"math"
	"time"

	"taskflow/models"
)

const dayLayout = "2006-01-02"

// Summary is the derived view of one user's task set. All fields are
// computed from a single snapshot; Tasks is the input passed through so
// clients can slice it further without a second fetch.
type Summary struct {
	Summary               Counts         `json:"summary"`
	StatusDistribution    map[string]int `json:"statusDistribution"`
	CategoryDistribution  map[string]int `json:"categoryDistribution"`
	PriorityDistribution  map[string]int `json:"priorityDistribution"`
	AverageCompletionTime int            `json:"averageCompletionTime"`
	Streak                int            `json:"streak"`
	WeeklyTrend           map[string]int `json:"weeklyTrend"`
	MonthlyTrend          map[string]int `json:"monthlyTrend"`
	Tasks                 []models.Task  `json:"tasks"`
}

type Counts struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Overdue        int `json:"overdue"`
	InProgress     int `json:"inProgress"`
	Active         int `json:"active"`
	CompletionRate int `json:"completionRate"`
}

// Aggregate derives the summary for a snapshot of tasks. Day bucketing for
// the streak and trends uses calendar days in loc; now anchors "today".
// Pure function, cannot fail on sanitized input.
func Aggregate(tasks []models.Task, now time.Time, loc *time.Location) Summary {
	s := Summary{
		StatusDistribution:   distribution(tasks, func(t models.Task) string { return statusOrDefault(t.Status) }),
		CategoryDistribution: distribution(tasks, func(t models.Task) string { return categoryOrDefault(t.Category) }),
		PriorityDistribution: distribution(tasks, func(t models.Task) string { return priorityOrDefault(t.Priority) }),
		Tasks:                tasks,
	}

	s.Summary = countSummary(tasks)
	s.AverageCompletionTime = averageCompletionDays(tasks)
	s.Streak = completionStreak(tasks, now, loc)
	s.WeeklyTrend = trend(tasks, now, loc, 7)
	s.MonthlyTrend = trend(tasks, now, loc, 30)
	return s
}

func countSummary(tasks []models.Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		}
		switch t.Status {
		case models.StatusOverdue:
			c.Overdue++
		case models.StatusInProgress:
			c.InProgress++
		case models.StatusActive:
			c.Active++
		}
	}
	if c.Total > 0 {
		c.CompletionRate = int(math.Round(float64(c.Completed) / float64(c.Total) * 100))
	}
	return c
}

func distribution(tasks []models.Task, key func(models.Task) string) map[string]int {
	dist := make(map[string]int)
	for _, t := range tasks {
		dist[key(t)]++
	}
	return dist
}

// averageCompletionDays is the mean time from start to completion, in whole
// days, over tasks that were completed and carry usable timestamps. The
// start point is in_progress_at when present, created_at otherwise.
func averageCompletionDays(tasks []models.Task) int {
	var total time.Duration
	var n int
	for _, t := range tasks {
		if !t.Completed || t.CompletedAt == nil {
			continue
		}
		start := t.CreatedAt
		if t.InProgressAt != nil {
			start = *t.InProgressAt
		}
		if start.IsZero() {
			continue
		}
		total += t.CompletedAt.Sub(start)
		n++
	}
	if n == 0 {
		return 0
	}
	mean := float64(total.Milliseconds()) / float64(n)
	return int(math.Round(mean / float64(24*time.Hour.Milliseconds())))
}

// completionStreak counts consecutive calendar days ending today on which at
// least one task was completed. A day without a completion breaks the run;
// in particular the streak is 0 whenever today has no completion, no matter
// how long the earlier run was.
func completionStreak(tasks []models.Task, now time.Time, loc *time.Location) int {
	days := make(map[string]bool)
	for _, t := range tasks {
		if t.CompletedAt != nil {
			days[t.CompletedAt.In(loc).Format(dayLayout)] = true
		}
	}

	streak := 0
	day := now.In(loc)
	for days[day.Format(dayLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// trend buckets completions onto the last n calendar days, today inclusive.
// Every day key is present in the result, zero-filled, seeded oldest first.
func trend(tasks []models.Task, now time.Time, loc *time.Location, n int) map[string]int {
	buckets := make(map[string]int, n)
	today := now.In(loc)
	for i := n - 1; i >= 0; i-- {
		buckets[today.AddDate(0, 0, -i).Format(dayLayout)] = 0
	}
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		day := t.CompletedAt.In(loc).Format(dayLayout)
		if _, ok := buckets[day]; ok {
			buckets[day]++
		}
	}
	return buckets
}

func statusOrDefault(status string) string {
	if status == "" {
		return models.StatusActive
	}
	return status
}

func categoryOrDefault(category string) string {
	if category == "" {
		return models.DefaultCategory
	}
	return category
}

func priorityOrDefault(priority string) string {
	if priority == "" {
		return models.PriorityMedium
	}
	return priority
}
