package feed

import (
	"fmt"
	"testing"

	"github.com/atxtechbro/mcpdash/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(i int) telemetry.Event {
	return telemetry.Event{Tool: fmt.Sprintf("tool-%d", i), Server: "srv"}
}

func tools(items []telemetry.Event) []string {
	out := make([]string, len(items))
	for i, ev := range items {
		out[i] = ev.Tool
	}
	return out
}

func TestNewDefaults(t *testing.T) {
	f := New(0)
	assert.Equal(t, DefaultCapacity, f.Cap())
	assert.Zero(t, f.Len())
	assert.Nil(t, f.Items())
	assert.Equal(t, StateWaiting, f.State())

	assert.Equal(t, 5, New(5).Cap())
	assert.Equal(t, DefaultCapacity, New(-3).Cap())
}

func TestAppendNewestFirst(t *testing.T) {
	f := New(5)
	for i := 1; i <= 3; i++ {
		assert.True(t, f.Append(event(i)))
	}

	assert.Equal(t, []string{"tool-3", "tool-2", "tool-1"}, tools(f.Items()))
	assert.Equal(t, StateActive, f.State())
}

func TestAppendEvictsOldest(t *testing.T) {
	tests := []struct {
		capacity int
		appends  int
	}{
		{1, 1},
		{1, 5},
		{3, 4},
		{20, 21},
		{20, 57},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("cap%d_n%d", tt.capacity, tt.appends), func(t *testing.T) {
			f := New(tt.capacity)
			for i := 1; i <= tt.appends; i++ {
				f.Append(event(i))
				require.LessOrEqual(t, f.Len(), tt.capacity)
			}

			want := []string{}
			for i := tt.appends; i > tt.appends-tt.capacity && i > 0; i-- {
				want = append(want, fmt.Sprintf("tool-%d", i))
			}
			assert.Equal(t, want, tools(f.Items()))
		})
	}
}

func TestDuplicatesKept(t *testing.T) {
	f := New(5)
	ev := event(1)
	f.Append(ev)
	f.Append(ev)
	assert.Equal(t, 2, f.Len())
}

func TestPauseDropsEvents(t *testing.T) {
	f := New(5)
	f.Append(event(1))

	f.Pause()
	assert.True(t, f.Paused())
	for i := 2; i < 10; i++ {
		assert.False(t, f.Append(event(i)))
	}
	assert.Equal(t, []string{"tool-1"}, tools(f.Items()))

	f.Resume()
	assert.False(t, f.Paused())
	f.Append(event(10))
	assert.Equal(t, []string{"tool-10", "tool-1"}, tools(f.Items()), "no replay on resume")
}

func TestClear(t *testing.T) {
	f := New(3)
	f.Append(event(1))
	f.Append(event(2))

	f.Clear()
	assert.Zero(t, f.Len())
	assert.Nil(t, f.Items())
	assert.Equal(t, StateCleared, f.State())

	f.Append(event(3))
	assert.Equal(t, []string{"tool-3"}, tools(f.Items()))
	assert.Equal(t, StateActive, f.State())
}

func TestClearWhilePaused(t *testing.T) {
	f := New(3)
	f.Append(event(1))
	f.Pause()
	f.Clear()

	assert.Zero(t, f.Len())
	assert.True(t, f.Paused(), "clear does not change pause state")
}

func TestItemsIsCopy(t *testing.T) {
	f := New(3)
	f.Append(event(1))
	items := f.Items()
	items[0].Tool = "changed"
	assert.Equal(t, "tool-1", f.Items()[0].Tool)
}

func TestSubscribe(t *testing.T) {
	f := New(3)
	calls := 0
	unsubscribe := f.Subscribe(func() { calls++ })

	f.Append(event(1))
	f.Pause()
	f.Pause()
	f.Append(event(2))
	f.Resume()
	f.Clear()
	assert.Equal(t, 4, calls, "append, pause, resume, clear")

	unsubscribe()
	f.Append(event(3))
	assert.Equal(t, 4, calls)
}
