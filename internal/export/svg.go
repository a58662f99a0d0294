package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/teatro/internal/dynamo"
)

// TrajectoryToSVG draws the x/y path of one body as a polyline.
func TrajectoryToSVG(frames []dynamo.Frame, body string, width, height int, strokeColor string) string {
	points := make([]dynamo.Vec3, 0, len(frames))
	for _, f := range frames {
		if s, ok := f.Body(body); ok {
			points = append(points, s.Position)
		}
	}
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X(), points[0].X()
	minY, maxY := points[0].Y(), points[0].Y()
	for _, p := range points {
		minX, maxX = min(minX, p.X()), max(maxX, p.X())
		minY, maxY = min(minY, p.Y()), max(maxY, p.Y())
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
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

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X() - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y()-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
