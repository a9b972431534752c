package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Summary holds the backend's headline aggregates.
type Summary struct {
	TotalToolCalls int64 `json:"totalToolCalls"`
	// OverallSuccessRate and ErrorRate are fractions in [0,1].
	OverallSuccessRate float64 `json:"overallSuccessRate"`
	// AverageExecutionTime is in milliseconds.
	AverageExecutionTime float64 `json:"averageExecutionTime"`
	ErrorRate            float64 `json:"errorRate"`

	MostUsedTool      string `json:"mostUsedTool,omitempty"`
	MostActiveBranch  string `json:"mostActiveBranch,omitempty"`
	DominantPrinciple string `json:"dominantPrinciple,omitempty"`
	// RecentActivity is "high", "medium", or "low".
	RecentActivity string `json:"recentActivity,omitempty"`
}

// UnmarshalJSON accepts averageExecutionTimeMs as an alias for
// averageExecutionTime.
func (s *Summary) UnmarshalJSON(data []byte) error {
	type plain Summary
	var aux struct {
		plain
		AverageExecutionTimeMs *float64 `json:"averageExecutionTimeMs"`
		AverageExecutionTime   *float64 `json:"averageExecutionTime"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = Summary(aux.plain)
	switch {
	case aux.AverageExecutionTime != nil:
		s.AverageExecutionTime = *aux.AverageExecutionTime
	case aux.AverageExecutionTimeMs != nil:
		s.AverageExecutionTime = *aux.AverageExecutionTimeMs
	}
	return nil
}

// TimelinePoint is one bucket of the activity timeline.
type TimelinePoint struct {
	Time        time.Time `json:"time"`
	ToolCalls   float64   `json:"toolCalls"`
	Errors      float64   `json:"errors"`
	AvgExecTime float64   `json:"avgExecTime,omitempty"`
}

// Snapshot is the full aggregate document returned by the pull endpoint.
// Missing fields decode as empty.
type Snapshot struct {
	Summary          Summary         `json:"summary"`
	ToolCalls        Counts          `json:"toolCalls"`
	ActivityTimeline []TimelinePoint `json:"activityTimeline"`
	BranchActivity   Counts          `json:"branchActivity"`
	ErrorCounts      Counts          `json:"errorCounts"`
	PrincipleUsage   Counts          `json:"principleUsage"`
}

// DecodeSnapshot parses a pull response body. The body must be a JSON object.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("snapshot: expected JSON object")
	}
	var s Snapshot
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
