package charts

import (
	"fmt"
	"strings"

	"github.com/atxtechbro/mcpdash/internal/errors"
)

// ChartID names one chart on the dashboard.
type ChartID string

const (
	ToolUsage        ChartID = "tool-usage"
	ActivityTimeline ChartID = "activity-timeline"
	BranchActivity   ChartID = "branch-activity"
)

// IDs lists every chart in display order.
var IDs = []ChartID{ToolUsage, ActivityTimeline, BranchActivity}

// Title returns the panel heading for the chart.
func (id ChartID) Title() string {
	switch id {
	case ToolUsage:
		return "Tool Usage"
	case ActivityTimeline:
		return "Activity Timeline"
	case BranchActivity:
		return "Branch Activity"
	}
	return string(id)
}

// Valid reports whether id is a known chart.
func (id ChartID) Valid() bool {
	for _, known := range IDs {
		if id == known {
			return true
		}
	}
	return false
}

// ParseChartID accepts either the dashed id or the config key form
// ("tool_usage").
func ParseChartID(s string) (ChartID, error) {
	id := ChartID(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if !id.Valid() {
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown chart '%s'", s),
			"Charts are tool-usage, activity-timeline, and branch-activity")
	}
	return id, nil
}

// Kind is the visual encoding a chart uses.
type Kind string

const (
	KindBar      Kind = "bar"
	KindLine     Kind = "line"
	KindDoughnut Kind = "doughnut"
	KindPie      Kind = "pie"
)

// Kinds lists every supported kind in cycle order.
var Kinds = []Kind{KindBar, KindLine, KindDoughnut, KindPie}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Next returns the kind after k in cycle order, wrapping around.
func (k Kind) Next() Kind {
	for i, known := range Kinds {
		if k == known {
			return Kinds[(i+1)%len(Kinds)]
		}
	}
	return Kinds[0]
}

// Proportional reports whether the kind shows shares of a whole.
func (k Kind) Proportional() bool {
	return k == KindDoughnut || k == KindPie
}

// ParseKind converts a config or user string to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown chart kind '%s'", s),
			"Use bar, line, doughnut, or pie")
	}
	return k, nil
}

// DefaultKind returns the kind a chart starts with.
func DefaultKind(id ChartID) Kind {
	switch id {
	case ActivityTimeline:
		return KindLine
	case BranchActivity:
		return KindDoughnut
	default:
		return KindBar
	}
}
