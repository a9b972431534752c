package monitor

import (
	"fmt"
	"strings"

	"github.com/atxtechbro/mcpdash/internal/charts"
	"github.com/charmbracelet/lipgloss"
)

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Glyphs marking proportional segments.
const (
	pieGlyph      = "●"
	doughnutGlyph = "◍"
)

// RenderChart renders a chart descriptor into lines no wider than width.
func RenderChart(d charts.Descriptor, width int, st Styles) []string {
	if d.Empty() {
		return []string{st.MutedText.Render("no data")}
	}
	switch d.Kind {
	case charts.KindLine:
		return renderLines(d, width, st)
	case charts.KindDoughnut, charts.KindPie:
		return renderShares(d, width, st)
	default:
		return renderBars(d, width, st)
	}
}

// renderBars draws one horizontal bar per label for the first dataset.
// Extra datasets are appended as labeled values.
func renderBars(d charts.Descriptor, width int, st Styles) []string {
	if len(d.Datasets) == 0 {
		return nil
	}
	primary := d.Datasets[0]

	labelWidth := maxLabelWidth(d.Labels, width/3)
	valueWidth := 0
	for _, v := range primary.Data {
		if w := len(formatValue(v)); w > valueWidth {
			valueWidth = w
		}
	}
	barWidth := width - labelWidth - valueWidth - 2
	if len(d.Datasets) > 1 {
		barWidth -= 8
	}
	if barWidth < 1 {
		barWidth = 1
	}

	maxVal := maxOf(primary.Data)

	lines := make([]string, 0, len(d.Labels))
	for i, label := range d.Labels {
		v := valueAt(primary.Data, i)
		filled := 0
		if maxVal > 0 {
			filled = clampInt(int(v/maxVal*float64(barWidth)+0.5), barWidth)
		}
		if v > 0 && filled == 0 {
			filled = 1
		}
		color := lipgloss.Color(colorAt(primary.Colors, i, st))
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
			strings.Repeat(" ", barWidth-filled)

		line := st.Label.Render(padRight(truncate(label, labelWidth), labelWidth)) + " " +
			bar + " " + st.Value.Render(fmt.Sprintf("%*s", valueWidth, formatValue(v)))
		for _, extra := range d.Datasets[1:] {
			color := lipgloss.Color(colorAt(extra.Colors, i, st))
			line += " " + lipgloss.NewStyle().Foreground(color).Render("▌"+formatValue(valueAt(extra.Data, i)))
		}
		lines = append(lines, line)
	}
	return lines
}

// renderLines draws a block sparkline per dataset with first and last labels.
func renderLines(d charts.Descriptor, width int, st Styles) []string {
	labelWidth := 0
	for _, ds := range d.Datasets {
		if w := lipgloss.Width(ds.Label); w > labelWidth {
			labelWidth = w
		}
	}
	sparkWidth := width - labelWidth - 10
	if sparkWidth < 4 {
		sparkWidth = 4
	}

	var lines []string
	for i, ds := range d.Datasets {
		color := lipgloss.Color(colorAt(ds.Colors, 0, st))
		if len(ds.Colors) == 0 {
			color = lipgloss.Color(st.lineColor(i))
		}
		spark := lipgloss.NewStyle().Foreground(color).Render(RenderSparkline(ds.Data, sparkWidth))
		last := valueAt(ds.Data, len(ds.Data)-1)
		lines = append(lines, st.Label.Render(padRight(ds.Label, labelWidth))+" "+spark+" "+
			st.Value.Render(formatValue(last)))
	}

	first, last := d.Labels[0], d.Labels[len(d.Labels)-1]
	gap := labelWidth + 1 + sparkWidth - lipgloss.Width(first) - lipgloss.Width(last)
	axis := strings.Repeat(" ", labelWidth+1) + first
	if gap > labelWidth+1 && len(d.Labels) > 1 {
		axis += strings.Repeat(" ", gap-labelWidth-1) + last
	}
	lines = append(lines, st.Label.Render(axis))
	return lines
}

// renderShares draws a stacked proportion bar followed by a share list.
func renderShares(d charts.Descriptor, width int, st Styles) []string {
	if len(d.Datasets) == 0 {
		return nil
	}
	ds := d.Datasets[0]

	total := 0.0
	for _, v := range ds.Data {
		if v > 0 {
			total += v
		}
	}

	glyph := pieGlyph
	if d.Kind == charts.KindDoughnut {
		glyph = doughnutGlyph
	}

	barWidth := width
	if barWidth < 1 {
		barWidth = 1
	}
	var stacked strings.Builder
	used := 0
	for i := range d.Labels {
		v := valueAt(ds.Data, i)
		if total <= 0 || v <= 0 {
			continue
		}
		n := int(v / total * float64(barWidth))
		if i == len(d.Labels)-1 {
			n = barWidth - used
		}
		if used+n > barWidth {
			n = barWidth - used
		}
		used += n
		stacked.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorAt(ds.Colors, i, st))).
			Render(strings.Repeat("█", n)))
	}

	lines := []string{stacked.String()}
	labelWidth := maxLabelWidth(d.Labels, width/2)
	for i, label := range d.Labels {
		v := valueAt(ds.Data, i)
		share := 0.0
		if total > 0 && v > 0 {
			share = v / total * 100
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAt(ds.Colors, i, st))).Render(glyph)
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			swatch,
			st.Label.Render(padRight(truncate(label, labelWidth), labelWidth)),
			st.Value.Render(fmt.Sprintf("%5.1f%%", share)),
			st.MutedText.Render("("+formatValue(v)+")"),
		))
	}
	return lines
}

// RenderSparkline renders a single-row sparkline using block characters.
// Data is scaled from zero to its maximum and resampled to width.
func RenderSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	maxVal := maxOf(data)
	resampled := resampleData(data, width)

	var result strings.Builder
	for _, val := range resampled {
		normalized := 0.0
		if maxVal > 0 {
			normalized = val / maxVal
		}
		idx := clampInt(int(normalized*float64(len(sparklineBlocks)-1)+0.5), len(sparklineBlocks)-1)
		result.WriteRune(sparklineBlocks[idx])
	}
	return result.String()
}

// resampleData resamples data to the target size.
// When downsampling, uses max-based sampling to preserve peaks.
// When upsampling, repeats the nearest point.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}
	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	for i := range result {
		result[i] = data[i*len(data)/targetSize]
	}
	return result
}

func (s Styles) lineColor(i int) string {
	if i == 0 {
		return string(s.Success)
	}
	return string(s.Failure)
}

func colorAt(colors []string, i int, st Styles) string {
	if len(colors) == 0 {
		return string(st.Text)
	}
	return colors[i%len(colors)]
}

func valueAt(data []float64, i int) float64 {
	if i < 0 || i >= len(data) {
		return 0
	}
	return data[i]
}

func maxOf(data []float64) float64 {
	m := 0.0
	for _, v := range data {
		if v > m {
			m = v
		}
	}
	return m
}

// formatValue prints integers without decimals and everything else with one.
func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func maxLabelWidth(labels []string, limit int) int {
	w := 0
	for _, l := range labels {
		if lw := lipgloss.Width(l); lw > w {
			w = lw
		}
	}
	if limit > 0 && w > limit {
		w = limit
	}
	return w
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width == 1 || len(r) <= 1 {
		return string(r[:1])
	}
	if len(r) > width-1 {
		r = r[:width-1]
	}
	return string(r) + "…"
}
