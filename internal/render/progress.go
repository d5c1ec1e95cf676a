package render

import (
	"math"

	"github.com/h0rv/prep/internal/domain"
)

// Segment is one slice of a progress breakdown.
type Segment struct {
	Label   string
	Class   string // done, wip or pending
	Count   int
	Percent int
}

// Breakdown splits a total into completed, in progress and not started.
type Breakdown struct {
	Total    int
	Segments []Segment
}

// Progress builds the breakdown. Not started is whatever remains of total;
// percentages are rounded and 0 when total is 0.
func Progress(completed, inProgress, total int) Breakdown {
	completed = max(completed, 0)
	inProgress = max(inProgress, 0)
	total = max(total, 0)
	pending := max(total-completed-inProgress, 0)

	pct := func(n int) int {
		if total == 0 {
			return 0
		}
		return int(math.Round(float64(n) * 100 / float64(total)))
	}
	return Breakdown{
		Total: total,
		Segments: []Segment{
			{Label: domain.StatusDone, Class: domain.StatusClass(domain.StatusDone), Count: completed, Percent: pct(completed)},
			{Label: domain.StatusInProgress, Class: domain.StatusClass(domain.StatusInProgress), Count: inProgress, Percent: pct(inProgress)},
			{Label: domain.StatusNotStarted, Class: domain.StatusClass(domain.StatusNotStarted), Count: pending, Percent: pct(pending)},
		},
	}
}

// ProgressFromStats reads total_problems, completed_problems and
// in_progress_problems from problem-stats metrics. Absent values count as 0.
func ProgressFromStats(metrics []domain.Item) Breakdown {
	var completed, inProgress, total int
	for _, it := range metrics {
		m, ok := it.(*domain.Metric)
		if !ok {
			continue
		}
		switch m.Label {
		case "total_problems":
			total = int(m.Value)
		case "completed_problems":
			completed = int(m.Value)
		case "in_progress_problems":
			inProgress = int(m.Value)
		}
	}
	return Progress(completed, inProgress, total)
}

// ProgressFromProblems counts statuses across a problem collection.
func ProgressFromProblems(items []domain.Item) Breakdown {
	var completed, inProgress, total int
	for _, it := range items {
		p, ok := it.(*domain.Problem)
		if !ok {
			continue
		}
		total++
		switch p.StatusText() {
		case domain.StatusDone:
			completed++
		case domain.StatusInProgress:
			inProgress++
		}
	}
	return Progress(completed, inProgress, total)
}
