package tui

import (
	"strings"
	"time"

	"github.com/mqttui/mqttui/internal/historystore"
	"github.com/mqttui/mqttui/internal/payload"
)

// graphHeight is the fixed number of rows the numeric graph occupies at
// the bottom of the payload pane (spec §4.2 "Graphing").
const graphHeight = 6

// graphPoint is one (time, value) sample extracted from a numeric
// payload for the time-series graph.
type graphPoint struct {
	at    time.Time
	value float64
}

// extractGraphPoints extracts the numeric series from entries, oldest
// first, dropping entries whose payload has no finite numeric value
// (spec §4.2 "non-finite values dropped").
func extractGraphPoints(entries []historystore.Entry) []graphPoint {
	points := make([]graphPoint, 0, len(entries))
	for _, e := range entries {
		if v, ok := payload.Number(e.Payload); ok {
			points = append(points, graphPoint{at: e.Received, value: v})
		}
	}
	return points
}

// renderGraph draws points into a width x height character grid: x-axis
// is receipt time, y-axis is the extracted number, both auto-scaled to
// the data's range, consecutive points joined by a straight line (spec
// §4.2: "x-axis is real time..., points connected with straight
// segments; auto-scaling on both axes"). Returns "" when fewer than two
// points are given, matching the payload pane's own "at least two
// numeric entries" trigger for showing a graph at all.
func renderGraph(points []graphPoint, width, height int) string {
	if len(points) < 2 || width <= 1 || height <= 0 {
		return ""
	}

	minT, maxT := points[0].at, points[0].at
	minV, maxV := points[0].value, points[0].value
	for _, p := range points {
		if p.at.Before(minT) {
			minT = p.at
		}
		if p.at.After(maxT) {
			maxT = p.at
		}
		if p.value < minV {
			minV = p.value
		}
		if p.value > maxV {
			maxV = p.value
		}
	}

	tSpan := maxT.Sub(minT).Seconds()
	vSpan := maxV - minV

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	toCol := func(p graphPoint) int {
		if tSpan == 0 {
			return 0
		}
		return int(p.at.Sub(minT).Seconds() / tSpan * float64(width-1))
	}
	toRow := func(v float64) int {
		if vSpan == 0 {
			return height / 2
		}
		return height - 1 - int((v-minV)/vSpan*float64(height-1))
	}

	for i := 0; i < len(points)-1; i++ {
		x0, y0 := toCol(points[i]), toRow(points[i].value)
		x1, y1 := toCol(points[i+1]), toRow(points[i+1].value)
		drawLine(grid, x0, y0, x1, y1)
	}

	var b strings.Builder
	for i, line := range grid {
		b.WriteString(string(line))
		if i < len(grid)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// drawLine plots the straight segment between (x0,y0) and (x1,y1) onto
// grid using Bresenham's algorithm, clipping silently at the grid edges.
func drawLine(grid [][]rune, x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
			grid[y][x] = '•'
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
