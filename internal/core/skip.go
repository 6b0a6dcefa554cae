package core

import "fmt"

// Stage names the aggregation step that dropped a record.
type Stage string

const (
	StageSummary   Stage = "summary"
	StageBreakdown Stage = "breakdown"
)

// Skip describes a record left out of one aggregation step.
type Skip struct {
	Position int // index in distance order
	Stage    Stage
	Record   Record
	Err      error
}

func (s Skip) Reason() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

func (s Skip) String() string {
	return fmt.Sprintf("%s: record %d %s skipped: %s", s.Stage, s.Position, s.Record, s.Reason())
}
