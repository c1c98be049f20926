package domain

import "time"

// TargetResult records one target's backup outcome within a run.
type TargetResult struct {
	Target   DatabaseTarget
	Object   string
	Duration time.Duration
	Err      error
}

func (r TargetResult) Failed() bool { return r.Err != nil }

// RunReport collects per-target results for one orchestrator run.
type RunReport []TargetResult

func (r RunReport) Failed() int {
	n := 0
	for _, res := range r {
		if res.Err != nil {
			n++
		}
	}
	return n
}

func (r RunReport) Succeeded() int { return len(r) - r.Failed() }
