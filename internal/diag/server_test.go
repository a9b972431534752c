package diag

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atxtechbro/mcpdash/internal/channel"
	"github.com/atxtechbro/mcpdash/internal/charts"
	"github.com/atxtechbro/mcpdash/internal/dashboard"
	"github.com/atxtechbro/mcpdash/internal/logger"
	"github.com/atxtechbro/mcpdash/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct{ v dashboard.View }

func (s staticSource) View() dashboard.View { return s.v }

func testView() dashboard.View {
	c := charts.NewController(charts.WithLocation(time.UTC))
	c.ApplySnapshot(&telemetry.Snapshot{
		Summary:   telemetry.Summary{TotalToolCalls: 42, OverallSuccessRate: 0.95},
		ToolCalls: telemetry.NewCounts(telemetry.Entry{Key: "git", Value: 10}, telemetry.Entry{Key: "github", Value: 8}),
	})
	return dashboard.View{
		ID:         "abc",
		Connection: channel.Open,
		IsOpen:     true,
		Feed:       []telemetry.Event{{Tool: "git_status", Server: "git", Status: telemetry.StatusSuccess}},
		Charts:     c.Descriptors(),
		Figures:    c.Figures(),
		Palette:    charts.Dark,
	}
}

func newTestServer(t *testing.T, reg *prometheus.Registry) (*httptest.Server, *logger.BufferLogger) {
	t.Helper()
	log := logger.NewBufferLogger()
	s := NewServer(staticSource{testView()}, reg, log)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, log
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	ts, log := newTestServer(t, prometheus.NewRegistry())
	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
	assert.Eventually(t, func() bool { return log.Contains("debug", "GET /healthz -> 200") }, time.Second, 5*time.Millisecond)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := dashboard.NewMetrics(reg)
	m.ReconnectsTotal.Inc()

	ts, _ := newTestServer(t, reg)
	resp, body := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "mcpdash_reconnects_total 1")
}

func TestState(t *testing.T) {
	ts, _ := newTestServer(t, prometheus.NewRegistry())
	resp, body := get(t, ts.URL+"/api/state")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got struct {
		ID         string `json:"id"`
		Connection string `json:"connection"`
		IsOpen     bool   `json:"isOpen"`
		Palette    string `json:"palette"`
		Feed       []struct {
			Tool   string `json:"tool"`
			Status string `json:"status"`
		} `json:"feed"`
		Charts []struct {
			ID     string    `json:"id"`
			Kind   string    `json:"kind"`
			Labels []string  `json:"labels"`
			Series []float64 `json:"series"`
		} `json:"charts"`
		Figures struct {
			TotalCalls  string `json:"totalCalls"`
			SuccessRate string `json:"successRate"`
		} `json:"figures"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &got))

	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, "open", got.Connection)
	assert.True(t, got.IsOpen)
	assert.Equal(t, "dark", got.Palette)
	require.Len(t, got.Feed, 1)
	assert.Equal(t, "SUCCESS", got.Feed[0].Status)
	require.Len(t, got.Charts, 3)
	assert.Equal(t, "tool-usage", got.Charts[0].ID)
	assert.Equal(t, "bar", got.Charts[0].Kind)
	assert.Equal(t, []string{"git", "github"}, got.Charts[0].Labels)
	assert.Equal(t, []float64{10, 8}, got.Charts[0].Series)
	assert.Equal(t, "42", got.Figures.TotalCalls)
	assert.Equal(t, "95.0%", got.Figures.SuccessRate)
}

func TestChartEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, prometheus.NewRegistry())

	resp, body := get(t, ts.URL+"/api/state/charts/tool-usage")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"kind":"bar","labels":["git","github"],"series":[10,8]}`, body)

	resp, body = get(t, ts.URL+"/api/state/charts/branch_activity")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"kind":"doughnut","labels":[],"series":[]}`, body)

	resp, _ = get(t, ts.URL+"/api/state/charts/cpu")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := NewServer(staticSource{testView()}, nil, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeBadAddress(t *testing.T) {
	s := NewServer(staticSource{}, nil, nil)
	err := s.Serve(context.Background(), "not-an-address")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "diagnostics"))
}
