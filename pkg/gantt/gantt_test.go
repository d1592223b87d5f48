package gantt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_LanesInFirstSeenOrder(t *testing.T) {
	chart := Layout([]Bar{
		{Lane: "Alice", Start: 7 * 60, End: 15 * 60, Color: "#ff0000"},
		{Lane: "Bob", Start: 7 * 60, End: 17 * 60, Color: "#00ff00"},
		{Lane: "Alice", Start: 17 * 60, End: 18 * 60, Color: "#0000ff"},
	}, DefaultOptions())

	require.Len(t, chart.Lanes, 2)
	assert.Equal(t, "Alice", chart.Lanes[0].Name)
	assert.Equal(t, "Bob", chart.Lanes[1].Name)
	require.Len(t, chart.Bars, 3)
	assert.Equal(t, chart.Bars[0].Y, chart.Bars[2].Y, "same lane, same row")
	assert.Less(t, chart.Bars[0].Y, chart.Bars[1].Y)
}

func TestLayout_Geometry(t *testing.T) {
	opts := Options{From: 0, To: 100, Width: 200, LabelWidth: 100, LaneHeight: 20, BarPadding: 2, HeaderSpace: 10}
	chart := Layout([]Bar{{Lane: "x", Start: 25, End: 75}}, opts)

	require.Len(t, chart.Bars, 1)
	b := chart.Bars[0]
	assert.InDelta(t, 125, b.X, 1e-9)
	assert.InDelta(t, 50, b.W, 1e-9)
	assert.InDelta(t, 12, b.Y, 1e-9)
	assert.InDelta(t, 16, b.H, 1e-9)
	assert.InDelta(t, 40, chart.Height, 1e-9)
}

func TestLayout_ClipsToWindow(t *testing.T) {
	chart := Layout([]Bar{
		{Lane: "a", Start: 6 * 60, End: 8 * 60},
		{Lane: "b", Start: 1 * 60, End: 2 * 60},
	}, DefaultOptions())

	require.Len(t, chart.Bars, 1, "bar fully outside the window is dropped")
	b := chart.Bars[0]
	assert.InDelta(t, chart.PlotX, b.X, 1e-9, "start clipped to 07:00")
	assert.InDelta(t, chart.PlotW/15, b.W, 1e-9, "one visible hour")
	assert.Equal(t, 6*60, b.Start, "the original interval is kept for tooltips")
}

func TestLayout_TicksAndMarkers(t *testing.T) {
	chart := Layout(nil, DefaultOptions())

	assert.True(t, chart.Empty())
	require.Len(t, chart.Ticks, 16)
	assert.Equal(t, "07:00", chart.Ticks[0].Label)
	assert.Equal(t, "22:00", chart.Ticks[15].Label)

	require.Len(t, chart.Markers, 5)
	var labels []string
	for _, m := range chart.Markers {
		labels = append(labels, m.Label)
	}
	assert.Equal(t, []string{"07:00", "14:00", "", "", "22:00"}, labels)
}

func TestClockLabel(t *testing.T) {
	assert.Equal(t, "07:05", ClockLabel(7*60+5))
	assert.Equal(t, "00:00", ClockLabel(0))
}
