// Package schedule turns raw timetable rows into canonical meetings,
// groups them into teaching sections and pairs lectures with their labs.
package schedule

import (
	"fmt"
	"strconv"
)

// RawRow is one line of the proposed schedule CSV, entities still given as
// free-text names. Consumed entirely by unification.
type RawRow struct {
	Index       int
	MeetingID   string
	SubjectName string
	FacultyName string
	RoomName    string
	// BatchField may list several batches, semicolon-separated, each
	// optionally suffixed with a parenthesized head count.
	BatchField string
	Day        string
	StartText  string
	EndText    string
}

// Meeting is one canonical scheduled class occurrence after duplicate-row
// merging. The id slices keep input order, so index 0 is the canonical
// first-seen choice; sizes above one mean conflicting source rows.
type Meeting struct {
	RowIndex   int
	ID         string
	SourceRows []string

	// SubjectID is 0 when the subject name did not resolve against the
	// catalog; SubjectName then carries the raw trimmed name.
	SubjectID    int64
	SubjectName  string
	OriginalName string

	FacultyIDs   []int64
	FacultyNames []string

	RoomIDs   []int64
	RoomNames []string

	BatchIDs        []int64
	BatchNames      []string
	BatchPopulation int

	Day       string
	StartText string
	EndText   string
	Start     int
	End       int
}

// Duration is the meeting length in minutes.
func (m *Meeting) Duration() int {
	return m.End - m.Start
}

// FacultyID returns the canonical faculty, false when none resolved.
func (m *Meeting) FacultyID() (int64, bool) {
	if len(m.FacultyIDs) == 0 {
		return 0, false
	}
	return m.FacultyIDs[0], true
}

// RoomID returns the canonical room, false when none resolved.
func (m *Meeting) RoomID() (int64, bool) {
	if len(m.RoomIDs) == 0 {
		return 0, false
	}
	return m.RoomIDs[0], true
}

// FacultyName returns the canonical faculty name, empty when none resolved.
func (m *Meeting) FacultyName() string {
	if len(m.FacultyNames) == 0 {
		return ""
	}
	return m.FacultyNames[0]
}

// RoomName returns the canonical room name, empty when none resolved.
func (m *Meeting) RoomName() string {
	if len(m.RoomNames) == 0 {
		return ""
	}
	return m.RoomNames[0]
}

// Merged reports whether the meeting was collapsed from several rows.
func (m *Meeting) Merged() bool {
	return len(m.SourceRows) > 1
}

// TimeLabel renders the meeting's time span as written in the input.
func (m *Meeting) TimeLabel() string {
	return m.StartText + "-" + m.EndText
}

// Label identifies the meeting in conflict and violation details.
func (m *Meeting) Label() string {
	return fmt.Sprintf("%s on %s %s", m.SubjectName, m.Day, m.TimeLabel())
}

// Conflict records a meeting whose merged source rows disagree on a
// single-valued field (faculty or room).
type Conflict struct {
	Kind    string
	Meeting string
	RowIDs  []string
	Values  []string
	Details string
}

const (
	ConflictMultipleFaculty    = "Multiple Faculty Conflict"
	ConflictMultipleRooms      = "Multiple Room Conflict"
	ConflictLectureLabMismatch = "Lecture-Lab Faculty Mismatch"
)

// compareRowIDs orders source row ids numerically when both parse, falling
// back to a string comparison for free-form ids.
func compareRowIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na - nb
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
