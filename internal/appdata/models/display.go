package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

const (
	// MaxCompactTags is how many tags a goal row shows.
	MaxCompactTags = 3
	// TagDisplayLength is the longest tag name, in user-perceived
	// characters, shown untruncated.
	TagDisplayLength = 8
	// DueDateLayout formats goal due dates on the board.
	DueDateLayout = "2006-01-02 15:04"
)

var statusPalette = []Color{
	{R: 0.98, G: 0.85, B: 0.85},
	{R: 0.99, G: 0.93, B: 0.80},
	{R: 0.87, G: 0.96, B: 0.85},
	{R: 0.83, G: 0.92, B: 0.98},
	{R: 0.90, G: 0.86, B: 0.98},
}

// BackgroundColorFor maps a status position to its row color. The result
// depends only on index and count; count bounds out-of-range indexes and is
// ignored when not positive.
func BackgroundColorFor(index, count int) Color {
	if count > 0 {
		index = ((index % count) + count) % count
	} else if index < 0 {
		index = -index
	}
	return statusPalette[index%len(statusPalette)]
}

// CompactTags resolves the first MaxCompactTags tags of goal, in stored order.
func (d *AppData) CompactTags(goal Goal) []Tag {
	out := make([]Tag, 0, MaxCompactTags)
	for _, tagID := range goal.TagIDs {
		if len(out) == MaxCompactTags {
			break
		}
		if tag, ok := d.Tag(tagID); ok {
			out = append(out, tag)
		}
	}
	return out
}

// TagDisplayName shortens names longer than TagDisplayLength grapheme
// clusters to their first TagDisplayLength clusters followed by "...".
// Combining marks and emoji sequences are never split.
func TagDisplayName(name string) string {
	if uniseg.GraphemeClusterCount(name) <= TagDisplayLength {
		return name
	}
	rest, state := name, -1
	for range TagDisplayLength {
		_, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
	}
	return name[:len(name)-len(rest)] + "..."
}

func FormatDueDate(t time.Time) string {
	return t.Format(DueDateLayout)
}

// Hex renders the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

// ParseHexColor accepts #rrggbb or rrggbb.
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	if len(s) != 6 {
		return Color{}, fmt.Errorf("color %q must have six hex digits", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, nil
}

func channel(v float64) uint8 {
	return uint8(math.Round(clampUnit(v) * 255))
}
