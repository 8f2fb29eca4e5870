package graph

import (
	"time"

	"github.com/riggerhq/rigger/internal/domain"
)

// TaskComplexity is one task's scoring detail inside a ComplexityReport.
type TaskComplexity struct {
	TaskID string
	Title  string
	Score  int
	Route  Route
	Reason string
}

// ComplexityStats buckets a batch run's scores into low/medium/high.
type ComplexityStats struct {
	Total  int
	Low    int // score 1-3
	Medium int // score 4-7
	High   int // score 8-10
}

// ComplexityReport summarizes a batch run's triage outcomes for operator
// visibility, grounded on the teacher's ComplexityStats bucketing.
type ComplexityReport struct {
	GeneratedAt time.Time
	Tasks       []TaskComplexity
	Stats       ComplexityStats
}

// BuildComplexityReport scores every task (computing a score when absent)
// and aggregates the batch into a report.
func BuildComplexityReport(tasks []*domain.Task, generatedAt time.Time) *ComplexityReport {
	report := &ComplexityReport{GeneratedAt: generatedAt}

	for _, t := range tasks {
		score := t.ComplexityScore
		if score == nil {
			s := ScoreTask(t)
			score = &s
		}

		report.Tasks = append(report.Tasks, TaskComplexity{
			TaskID: t.ID,
			Title:  t.Title,
			Score:  *score,
			Route:  Classify(*score),
			Reason: t.Reasoning,
		})

		report.Stats.Total++
		switch {
		case *score <= 3:
			report.Stats.Low++
		case *score <= 7:
			report.Stats.Medium++
		default:
			report.Stats.High++
		}
	}

	return report
}
