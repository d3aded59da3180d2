package interval

import (
	"fmt"
	"strconv"
	"strings"
)

// Span is a half-open [Start, End) range of minutes from midnight.
type Span struct {
	Start int
	End   int
}

// Duration returns the span length in minutes.
func (s Span) Duration() int {
	return s.End - s.Start
}

// Gap is the free time between two adjacent spans of one entity on one day.
type Gap struct {
	Start   int
	End     int
	Minutes int
}

// Overlaps reports whether two half-open ranges share any minute. Touching
// ranges (one ends exactly where the other starts) do not overlap.
func Overlaps(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}

// OverlapMinutes returns the shared minutes of two half-open ranges, 0 when
// they are disjoint or touching.
func OverlapMinutes(start1, end1, start2, end2 int) int {
	overlap := min(end1, end2) - max(start1, start2)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// ContinuousBlocks partitions spans, already sorted by start, into maximal
// back-to-back runs: a span extends the current block only when it starts at
// the exact minute the block ends. A lone span is its own block.
func ContinuousBlocks(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}

	blocks := []Span{}
	current := Span{Start: spans[0].Start, End: spans[0].End}

	for _, span := range spans[1:] {
		if span.Start == current.End {
			current.End = span.End
		} else {
			blocks = append(blocks, current)
			current = Span{Start: span.Start, End: span.End}
		}
	}

	return append(blocks, current)
}

// Gaps returns the strictly positive idle stretches between adjacent spans,
// already sorted by start. Touching or overlapping spans produce no gap; the
// overlap case is surfaced by the conflict checks instead.
func Gaps(spans []Span) []Gap {
	gaps := []Gap{}
	for i := 0; i+1 < len(spans); i++ {
		idle := spans[i+1].Start - spans[i].End
		if idle > 0 {
			gaps = append(gaps, Gap{
				Start:   spans[i].End,
				End:     spans[i+1].Start,
				Minutes: idle,
			})
		}
	}
	return gaps
}

// ParseClock converts an "HH:MM" string to minutes from midnight. Anything
// unparsable yields 0 rather than an error, matching the tolerant row intake.
func ParseClock(clock string) int {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0
	}

	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hours < 0 || hours > 23 {
		return 0
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minutes < 0 || minutes > 59 {
		return 0
	}

	return hours*60 + minutes
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatDuration renders minutes as a readable duration, e.g. "2 hrs 30 mins".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0 mins"
	}

	hours, mins := minutes/60, minutes%60
	parts := []string{}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", hours, plural(hours, "hr")))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", mins, plural(mins, "min")))
	}
	return strings.Join(parts, " ")
}

func plural(count int, unit string) string {
	if count == 1 {
		return unit
	}
	return unit + "s"
}
