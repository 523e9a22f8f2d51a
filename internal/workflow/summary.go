package workflow

import "fmt"

// Summary counts what happened to each folder of a run.
type Summary struct {
	RunID     string
	Processed int
	Matched   int
	Unmatched int
	Skipped   int
	Failed    int
}

// Total returns the number of folders the run looked at.
func (s Summary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

func (s Summary) String() string {
	return fmt.Sprintf("%d processed (%d matched, %d unmatched), %d skipped, %d failed",
		s.Processed, s.Matched, s.Unmatched, s.Skipped, s.Failed)
}

type outcome int

const (
	outcomeMatched outcome = iota
	outcomeUnmatched
	outcomeSkipped
	outcomeFailed
)

func (s *Summary) add(o outcome) {
	switch o {
	case outcomeMatched:
		s.Processed++
		s.Matched++
	case outcomeUnmatched:
		s.Processed++
		s.Unmatched++
	case outcomeSkipped:
		s.Skipped++
	case outcomeFailed:
		s.Failed++
	}
}
