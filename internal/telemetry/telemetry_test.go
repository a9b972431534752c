package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountsPreservesEncounterOrder(t *testing.T) {
	var c Counts
	require.NoError(t, json.Unmarshal([]byte(`{"zeta":1,"alpha":5,"mid":3}`), &c))

	assert.Equal(t, []Entry{{"zeta", 1}, {"alpha", 5}, {"mid", 3}}, c.Entries())
	assert.Equal(t, 3, c.Len())

	v, ok := c.Get("alpha")
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCountsRepeatedKey(t *testing.T) {
	var c Counts
	require.NoError(t, json.Unmarshal([]byte(`{"a":1,"b":2,"a":9}`), &c))
	assert.Equal(t, []Entry{{"a", 9}, {"b", 2}}, c.Entries())
}

func TestCountsNullAndEmpty(t *testing.T) {
	var c Counts
	require.NoError(t, json.Unmarshal([]byte(`null`), &c))
	assert.Zero(t, c.Len())
	assert.Nil(t, c.Entries())

	require.NoError(t, json.Unmarshal([]byte(`{}`), &c))
	assert.Zero(t, c.Len())
}

func TestCountsRejectsNonObject(t *testing.T) {
	tests := []string{`[1,2]`, `"x"`, `{"a":"nope"}`, `{"a":{"b":1}}`}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			var c Counts
			assert.Error(t, json.Unmarshal([]byte(in), &c))
		})
	}
}

func TestCountsHead(t *testing.T) {
	c := NewCounts(Entry{"a", 1}, Entry{"b", 2}, Entry{"c", 3})

	assert.Equal(t, []Entry{{"a", 1}, {"b", 2}}, c.Head(2))
	assert.Len(t, c.Head(10), 3)
	assert.Nil(t, c.Head(0))

	// Head returns a copy.
	h := c.Head(1)
	h[0].Value = 100
	v, _ := c.Get("a")
	assert.Equal(t, 1.0, v)
}

func TestCountsMarshalKeepsOrder(t *testing.T) {
	c := NewCounts(Entry{"z", 1}, Entry{"a", 2.5})
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2.5}`, string(data))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"SUCCESS", StatusSuccess},
		{"success", StatusSuccess},
		{" Success ", StatusSuccess},
		{"ERROR", StatusError},
		{"failed", StatusError},
		{"", StatusError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseStatus(tt.in), tt.in)
	}
	assert.Equal(t, "SUCCESS", StatusSuccess.String())
	assert.Equal(t, "ERROR", StatusError.String())
}

func TestParseEvent(t *testing.T) {
	payload := `{"timestamp":"2025-06-01T10:00:00Z","server":"git","tool":"git_status","status":"SUCCESS","branch":"main","details":"clean","duration":12.5,"type":"tool_call","parameters":{"repo":"."}}`

	ev, err := ParseEvent([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), ev.Timestamp.UTC())
	assert.Equal(t, "git", ev.Server)
	assert.Equal(t, "git_status", ev.Tool)
	assert.Equal(t, StatusSuccess, ev.Status)
	assert.Equal(t, "main", ev.Branch)
	assert.Equal(t, "clean", ev.Details)
	assert.Equal(t, "tool_call", ev.Type)
	require.True(t, ev.HasDuration())
	assert.Equal(t, 12.5, *ev.Duration)
}

func TestParseEventOptionalFields(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"tool":"search","status":"ERROR"}`))
	require.NoError(t, err)
	assert.Equal(t, StatusError, ev.Status)
	assert.False(t, ev.HasDuration())
	assert.True(t, ev.Timestamp.IsZero())
}

func TestParseEventMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"not json", "hello"},
		{"array", `[{"tool":"x"}]`},
		{"truncated", `{"tool":"x"`},
		{"no tool or server", `{"status":"SUCCESS"}`},
		{"bad timestamp", `{"tool":"x","timestamp":"yesterday"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.payload))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrMalformed))
		})
	}
}

func TestDecodeSnapshot(t *testing.T) {
	body := `{
		"summary": {"totalToolCalls": 42, "overallSuccessRate": 0.95, "averageExecutionTime": 120, "errorRate": 0.05, "mostUsedTool": "git"},
		"toolCalls": {"git": 10, "github": 8},
		"activityTimeline": [{"time": "2025-06-01T10:00:00Z", "toolCalls": 3, "errors": 0}],
		"branchActivity": {"main": 30, "dev": 12}
	}`

	s, err := DecodeSnapshot([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, int64(42), s.Summary.TotalToolCalls)
	assert.Equal(t, 0.95, s.Summary.OverallSuccessRate)
	assert.Equal(t, 120.0, s.Summary.AverageExecutionTime)
	assert.Equal(t, 0.05, s.Summary.ErrorRate)
	assert.Equal(t, "git", s.Summary.MostUsedTool)
	assert.Equal(t, []Entry{{"git", 10}, {"github", 8}}, s.ToolCalls.Entries())
	assert.Equal(t, []Entry{{"main", 30}, {"dev", 12}}, s.BranchActivity.Entries())
	require.Len(t, s.ActivityTimeline, 1)
	assert.Equal(t, 3.0, s.ActivityTimeline[0].ToolCalls)
	assert.Zero(t, s.ErrorCounts.Len())
}

func TestDecodeSnapshotAverageAlias(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"summary":{"averageExecutionTimeMs":88}}`))
	require.NoError(t, err)
	assert.Equal(t, 88.0, s.Summary.AverageExecutionTime)

	s, err = DecodeSnapshot([]byte(`{"summary":{"averageExecutionTimeMs":88,"averageExecutionTime":90}}`))
	require.NoError(t, err)
	assert.Equal(t, 90.0, s.Summary.AverageExecutionTime)
}

func TestDecodeSnapshotErrors(t *testing.T) {
	for _, body := range []string{"", "null", "[]", "<html>", `{"toolCalls":[1]}`} {
		_, err := DecodeSnapshot([]byte(body))
		assert.Error(t, err, body)
	}
}
