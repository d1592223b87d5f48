// Package gantt lays out a one-day timeline: one lane per label, one
// horizontal bar per (start, end) interval. Times are minutes since midnight.
// The result is plain geometry ready to be drawn as SVG.
package gantt

import "fmt"

// Bar is one interval to draw.
type Bar struct {
	Lane    string
	Label   string
	Tooltip string
	Start   int
	End     int
	Color   string
	// Hatched bars are drawn with a diagonal pattern over the colour.
	Hatched bool
}

// Options control the drawing area.
type Options struct {
	From, To    int // visible window, minutes since midnight
	Width       int // total width in px, lane labels included
	LabelWidth  int
	LaneHeight  int
	BarPadding  int
	HeaderSpace int
	Markers     []int // dashed vertical guides
	// MarkerLabels selects which markers get a text label.
	MarkerLabels []int
}

// DefaultOptions shows 07:00 to 22:00 with guides at every shift boundary.
func DefaultOptions() Options {
	return Options{
		From:         7 * 60,
		To:           22 * 60,
		Width:        960,
		LabelWidth:   150,
		LaneHeight:   44,
		BarPadding:   6,
		HeaderSpace:  28,
		Markers:      []int{7 * 60, 14 * 60, 15 * 60, 17 * 60, 22 * 60},
		MarkerLabels: []int{7 * 60, 14 * 60, 22 * 60},
	}
}

type Lane struct {
	Name  string
	Y     float64
	TextY float64
}

type PlacedBar struct {
	Bar
	X, Y, W, H float64
	TextX      float64
	TextY      float64
}

type Tick struct {
	X     float64
	Label string
}

type Marker struct {
	X     float64
	Label string
}

// Chart is the laid-out timeline.
type Chart struct {
	Width, Height float64
	PlotX, PlotW  float64
	Lanes         []Lane
	Bars          []PlacedBar
	Ticks         []Tick
	Markers       []Marker
}

// Empty reports whether there is nothing to draw.
func (c Chart) Empty() bool {
	return len(c.Bars) == 0
}

// Layout places bars in lanes in first-seen lane order. Bars are clipped to
// the visible window; bars entirely outside it are dropped.
func Layout(bars []Bar, opts Options) Chart {
	if opts.To <= opts.From {
		opts.From, opts.To = DefaultOptions().From, DefaultOptions().To
	}

	plotX := float64(opts.LabelWidth)
	plotW := float64(opts.Width - opts.LabelWidth)
	if plotW <= 0 {
		plotW = float64(opts.Width)
		plotX = 0
	}
	scale := plotW / float64(opts.To-opts.From)
	xOf := func(minute int) float64 {
		return plotX + float64(minute-opts.From)*scale
	}

	laneIndex := map[string]int{}
	var lanes []Lane
	laneOf := func(name string) int {
		if i, ok := laneIndex[name]; ok {
			return i
		}
		i := len(lanes)
		laneIndex[name] = i
		y := float64(opts.HeaderSpace + i*opts.LaneHeight)
		lanes = append(lanes, Lane{Name: name, Y: y, TextY: y + float64(opts.LaneHeight)/2})
		return i
	}

	var placed []PlacedBar
	for _, b := range bars {
		start, end := max(b.Start, opts.From), min(b.End, opts.To)
		if end <= start {
			continue
		}
		lane := lanes[laneOf(b.Lane)]
		x := xOf(start)
		w := xOf(end) - x
		h := float64(opts.LaneHeight - 2*opts.BarPadding)
		y := lane.Y + float64(opts.BarPadding)
		placed = append(placed, PlacedBar{
			Bar:   b,
			X:     x,
			Y:     y,
			W:     w,
			H:     h,
			TextX: x + w/2,
			TextY: y + h/2,
		})
	}

	var ticks []Tick
	for m := opts.From - opts.From%60; m <= opts.To; m += 60 {
		if m < opts.From {
			continue
		}
		ticks = append(ticks, Tick{X: xOf(m), Label: ClockLabel(m)})
	}

	labelled := map[int]bool{}
	for _, m := range opts.MarkerLabels {
		labelled[m] = true
	}
	var markers []Marker
	for _, m := range opts.Markers {
		if m < opts.From || m > opts.To {
			continue
		}
		mk := Marker{X: xOf(m)}
		if labelled[m] {
			mk.Label = ClockLabel(m)
		}
		markers = append(markers, mk)
	}

	return Chart{
		Width:   float64(opts.Width),
		Height:  float64(opts.HeaderSpace + len(lanes)*opts.LaneHeight + opts.HeaderSpace),
		PlotX:   plotX,
		PlotW:   plotW,
		Lanes:   lanes,
		Bars:    placed,
		Ticks:   ticks,
		Markers: markers,
	}
}

// ClockLabel formats minutes since midnight as HH:MM.
func ClockLabel(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
