// Package export renders recorded runs to standalone image formats.
package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/rigidlog/internal/storage"
)

// palette cycles through body stroke colors.
var palette = []string{
	"#00ffff", "#ff00ff", "#ffff00", "#00ff88",
	"#ff8800", "#8888ff", "#ff4444", "#88ff88",
}

type point struct{ X, Y float64 }

// paths extracts the x-y track of every body that moves.
func paths(log *storage.RowLog) ([]string, [][]point) {
	var (
		names  []string
		tracks [][]point
	)
	for b, name := range log.Bodies {
		track := make([]point, len(log.Samples))
		moved := false
		for i, tick := range log.Samples {
			track[i] = point{tick[b][0], tick[b][1]}
			if i > 0 && track[i] != track[0] {
				moved = true
			}
		}
		if !moved {
			continue
		}
		names = append(names, name)
		tracks = append(tracks, track)
	}
	return names, tracks
}

// TrajectoriesToSVG draws the path of every moving body in the x-y plane,
// seen from above, one colored polyline per body.
func TrajectoriesToSVG(log *storage.RowLog, width, height int) string {
	names, tracks := paths(log)
	if len(tracks) == 0 {
		return ""
	}

	// Find bounds
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, track := range tracks {
		for _, p := range track {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}

	// Add padding, equal scale on both axes
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	pad := span * 0.1
	minX -= pad
	minY -= pad
	span += 2 * pad
	scale := math.Min(float64(width), float64(height)) / span

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, track := range tracks {
		color := palette[i%len(palette)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" data-body="%s" d="M`,
			color, html.EscapeString(names[i])))

		for j, p := range track {
			x := (p.X - minX) * scale
			y := float64(height) - (p.Y-minY)*scale

			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
