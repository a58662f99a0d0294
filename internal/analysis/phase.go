package analysis

import (
	"strings"

	"github.com/san-kum/teatro/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D is a body's trajectory in (position, velocity) space along
// one axis.
type PhasePortrait2D struct {
	Body   string
	Axis   int
	Points []Point
}

// PhasePortrait collects position/velocity pairs for body along axis
// (0=x, 1=y, 2=z) from recorded frames.
func PhasePortrait(frames []dynamo.Frame, body string, axis int) *PhasePortrait2D {
	if axis < 0 || axis > 2 {
		return nil
	}

	portrait := &PhasePortrait2D{
		Body:   body,
		Axis:   axis,
		Points: make([]Point, 0, len(frames)),
	}
	for _, f := range frames {
		s, ok := f.Body(body)
		if !ok {
			continue
		}
		portrait.Points = append(portrait.Points, Point{X: s.Position[axis], Y: s.Velocity[axis]})
	}
	return portrait
}

// PhasePortraitToASCII plots a portrait on a width x height character grid.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	// 10% padding
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	toCol := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	toRow := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	if minX <= 0 && maxX >= 0 {
		col := toCol(0)
		for row := range grid {
			grid[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := toRow(0)
		for col := range grid[row] {
			if grid[row][col] == '│' {
				grid[row][col] = '┼'
			} else {
				grid[row][col] = '─'
			}
		}
	}

	for _, p := range portrait.Points {
		row, col := toRow(p.Y), toCol(p.X)
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
