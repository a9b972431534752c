package charts

import (
	"fmt"

	"github.com/atxtechbro/mcpdash/internal/telemetry"
)

// Figures are the summary display strings.
type Figures struct {
	TotalCalls     string `json:"totalCalls"`
	SuccessRate    string `json:"successRate"`
	AvgExecution   string `json:"avgExecution"`
	ErrorRate      string `json:"errorRate"`
	MostUsedTool   string `json:"mostUsedTool,omitempty"`
	ActiveBranch   string `json:"mostActiveBranch,omitempty"`
	Principle      string `json:"dominantPrinciple,omitempty"`
	RecentActivity string `json:"recentActivity,omitempty"`
}

// FiguresFor formats the summary of snap. A nil snapshot yields zeros.
func FiguresFor(snap *telemetry.Snapshot) Figures {
	var s telemetry.Summary
	if snap != nil {
		s = snap.Summary
	}
	return Figures{
		TotalCalls:     fmt.Sprintf("%d", s.TotalToolCalls),
		SuccessRate:    percent(s.OverallSuccessRate),
		AvgExecution:   fmt.Sprintf("%.0fms", s.AverageExecutionTime),
		ErrorRate:      percent(s.ErrorRate),
		MostUsedTool:   s.MostUsedTool,
		ActiveBranch:   s.MostActiveBranch,
		Principle:      s.DominantPrinciple,
		RecentActivity: s.RecentActivity,
	}
}

func percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}
