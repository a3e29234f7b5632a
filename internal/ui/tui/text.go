package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncateText cuts text to width display columns, ending with "..." when cut.
func truncateText(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= 3 {
		return runewidth.Truncate(text, width, "")
	}
	return runewidth.Truncate(text, width, "...")
}

// wrapText word-wraps text to width display columns and keeps at most
// maxLines lines; zero means no limit. Cut lines and words end with "...".
func wrapText(text string, width, maxLines int) []string {
	if width <= 0 {
		return []string{""}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range words {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	for i := range lines {
		lines[i] = truncateText(lines[i], width)
	}

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = truncateText(lines[maxLines-1]+" ...", width)
	}
	return lines
}

// padLines appends empty lines until there are n.
func padLines(lines []string, n int) []string {
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}
