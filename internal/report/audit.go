package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/schedeval/schedeval/internal/catalog"
	"github.com/schedeval/schedeval/internal/evaluate"
	"github.com/schedeval/schedeval/internal/schedule"
	"github.com/schedeval/schedeval/pkg/export"
)

func unmappedText(subjects []string) string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "UNMAPPED SUBJECTS REPORT")
	fmt.Fprintln(b, strings.Repeat("=", 60))
	fmt.Fprintln(b)
	fmt.Fprintln(b, "The following subjects in the schedule could not be mapped to reference data.")
	fmt.Fprintln(b, "These rows were processed but may be missing subject-specific information.")
	fmt.Fprintln(b)
	fmt.Fprintln(b, strings.Repeat("-", 60))
	for _, subject := range subjects {
		fmt.Fprintf(b, "  - %s\n", subject)
	}
	fmt.Fprintln(b)
	fmt.Fprintf(b, "Total unmapped: %d\n", len(subjects))
	fmt.Fprintln(b)
	fmt.Fprintln(b, "Possible causes:")
	fmt.Fprintln(b, "  1. Typo in schedule subject name")
	fmt.Fprintln(b, "  2. Subject missing from reference subjects.csv")
	fmt.Fprintln(b, "  3. Different naming convention (spaces, case)")
	return b.String()
}

// allConflicts merges the unifier's disagreements with the lecture-lab
// faculty mismatches into one data-quality list.
func allConflicts(result *evaluate.Result) []schedule.Conflict {
	conflicts := slices.Clone(result.Conflicts)
	for _, pair := range result.InvalidPairs {
		conflicts = append(conflicts, schedule.Conflict{
			Kind:    schedule.ConflictLectureLabMismatch,
			Meeting: pair.Label(),
			RowIDs:  []string{pair.Lecture.ID, pair.Lab.ID},
			Details: pair.Reason,
		})
	}
	return conflicts
}

func conflictsText(conflicts []schedule.Conflict) string {
	b := &strings.Builder{}
	rule := strings.Repeat("-", 80)

	fmt.Fprintln(b, "DATA CONFLICTS REPORT")
	fmt.Fprintln(b, strings.Repeat("=", 80))
	fmt.Fprintln(b)
	fmt.Fprintln(b, "These conflicts were detected during data processing.")
	fmt.Fprintln(b)
	fmt.Fprintln(b, rule)

	for _, conflict := range conflicts {
		fmt.Fprintln(b)
		fmt.Fprintf(b, "TYPE: %s\n", conflict.Kind)
		fmt.Fprintf(b, "MEETING: %s\n", conflict.Meeting)
		fmt.Fprintf(b, "ROW IDs: %s\n", strings.Join(conflict.RowIDs, ", "))
		switch conflict.Kind {
		case schedule.ConflictMultipleFaculty:
			fmt.Fprintf(b, "FACULTY ASSIGNED: %s\n", strings.Join(conflict.Values, ", "))
		case schedule.ConflictMultipleRooms:
			fmt.Fprintf(b, "ROOMS ASSIGNED: %s\n", strings.Join(conflict.Values, ", "))
		}
		fmt.Fprintf(b, "DETAILS: %s\n", conflict.Details)
		fmt.Fprintln(b, rule)
	}

	fmt.Fprintln(b)
	fmt.Fprintf(b, "Total conflicts: %d\n", len(conflicts))
	fmt.Fprintln(b)
	fmt.Fprintln(b, "ACTION REQUIRED:")
	fmt.Fprintln(b, "  - Review the INPUT schedule CSV file")
	fmt.Fprintln(b, "  - For meeting conflicts: ensure only ONE row per meeting has faculty/room data")
	fmt.Fprintln(b, "  - For lecture-lab conflicts: ensure lecture and lab have SAME faculty assigned")
	return b.String()
}

var structuralColumns = []string{
	"Type", "ID", "Subject", "Day", "Time", "Faculty", "Batches", "Room", "Issues",
}

// structuralDataset lists meetings and sections missing faculty, batches or
// a room. Structural issues are reported, never scored.
func structuralDataset(result *evaluate.Result) export.Dataset {
	rows := []map[string]string{}

	for _, meeting := range result.Meetings {
		issues := []string{}
		if len(meeting.FacultyIDs) == 0 {
			issues = append(issues, "Missing Faculty")
		}
		if len(meeting.BatchIDs) == 0 {
			issues = append(issues, "Missing Batches")
		}
		if len(meeting.RoomIDs) == 0 {
			issues = append(issues, "Missing Room")
		}
		if len(issues) == 0 {
			continue
		}
		rows = append(rows, map[string]string{
			"Type":    "Meeting",
			"ID":      meeting.ID,
			"Subject": meeting.SubjectName,
			"Day":     meeting.Day,
			"Time":    meeting.TimeLabel(),
			"Faculty": joinOrMissing(meeting.FacultyNames),
			"Batches": joinOrMissing(meeting.BatchNames),
			"Room":    joinOrMissing(meeting.RoomNames),
			"Issues":  strings.Join(issues, "; "),
		})
	}

	for _, section := range result.Sections {
		issues := []string{}
		if !section.HasFaculty {
			issues = append(issues, "Missing Faculty")
		}
		if len(section.BatchIDs) == 0 {
			issues = append(issues, "Missing Batches")
		}
		if len(section.RoomIDs) == 0 {
			issues = append(issues, "Missing Rooms")
		}
		if len(issues) == 0 {
			continue
		}
		faculty := section.FacultyName
		if faculty == "" {
			faculty = "MISSING"
		}
		rows = append(rows, map[string]string{
			"Type":    "Section",
			"ID":      section.ID,
			"Subject": section.SubjectName,
			"Day":     "N/A",
			"Time":    "N/A",
			"Faculty": faculty,
			"Batches": joinOrMissing(section.BatchNames),
			"Room":    joinOrMissing(section.RoomNames),
			"Issues":  strings.Join(issues, "; "),
		})
	}

	return export.Dataset{Headers: structuralColumns, Rows: rows}
}

func (r *reporter) unificationText(result *evaluate.Result) string {
	b := &strings.Builder{}
	rule := strings.Repeat("=", 100)

	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "MEETING UNIFICATION SUMMARY")
	fmt.Fprintf(b, "Generated: %s\n", r.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b)
	fmt.Fprintf(b, "Original CSV rows: %d\n", len(result.Rows))
	fmt.Fprintf(b, "Unified meetings: %d\n", len(result.Meetings))
	fmt.Fprintf(b, "Rows merged: %d\n", len(result.Rows)-len(result.Meetings))
	fmt.Fprintln(b)
	fmt.Fprintln(b, "Format: [Subject] | [Day Time] | [Faculty [row]] | [Batch [row]] | [Room [row]]")
	fmt.Fprintln(b)

	rowByID := lo.KeyBy(result.Rows, func(m *schedule.Meeting) string { return m.ID })
	merged := 0
	for _, meeting := range result.Meetings {
		if meeting.Merged() {
			merged++
		}

		faculty := "NO_FACULTY"
		room := "NO_ROOM"
		batches := []string{}
		for _, rowID := range meeting.SourceRows {
			row, ok := rowByID[rowID]
			if !ok {
				continue
			}
			if faculty == "NO_FACULTY" && row.FacultyName() != "" {
				faculty = fmt.Sprintf("%s [%s]", row.FacultyName(), rowID)
			}
			if room == "NO_ROOM" && row.RoomName() != "" {
				room = fmt.Sprintf("%s [%s]", row.RoomName(), rowID)
			}
			for _, batch := range row.BatchNames {
				batches = append(batches, fmt.Sprintf("%s [%s]", batch, rowID))
			}
		}

		batchDisplay := "NO_BATCH"
		if len(batches) > 0 {
			slices.Sort(batches)
			batchDisplay = strings.Join(lo.Uniq(batches), ", ")
		}

		fmt.Fprintln(b, meeting.SubjectName)
		fmt.Fprintf(b, "  %s %s\n", meeting.Day, meeting.TimeLabel())
		fmt.Fprintf(b, "  %s\n", faculty)
		fmt.Fprintf(b, "  %s\n", batchDisplay)
		fmt.Fprintf(b, "  %s\n", room)
		if meeting.Merged() {
			fmt.Fprintf(b, "  MERGED from rows: %s\n", strings.Join(meeting.SourceRows, ", "))
		} else {
			fmt.Fprintf(b, "  SINGULAR (row %s)\n", meeting.ID)
		}
		fmt.Fprintln(b)
	}

	fmt.Fprintf(b, "Total merged meetings: %d\n", merged)
	fmt.Fprintf(b, "Total singular meetings: %d\n", len(result.Meetings)-merged)
	return b.String()
}

func (r *reporter) sectionsText(result *evaluate.Result) string {
	b := &strings.Builder{}
	rule := strings.Repeat("=", 100)

	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "SECTIONS SUMMARY")
	fmt.Fprintf(b, "Generated: %s\n", r.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b)

	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "IDENTIFIED SECTIONS")
	fmt.Fprintln(b, rule)
	fmt.Fprintf(b, "Total: %d\n", len(result.Sections))
	fmt.Fprintln(b, "Format: [Subject-Section] | [Faculty] | [Students] | [Room(s)] | [Meetings]")
	fmt.Fprintln(b)

	sections := slices.Clone(result.Sections)
	slices.SortFunc(sections, func(a, b *schedule.Section) int {
		return strings.Compare(a.ID, b.ID)
	})
	for _, section := range sections {
		fmt.Fprintln(b, section.ID)
		fmt.Fprintf(b, "  %s\n", orDefault(section.FacultyName, "NO_FACULTY"))
		fmt.Fprintf(b, "  %d Students (%s)\n", section.TotalStudents, orDefault(strings.Join(section.BatchNames, ", "), "NO_BATCHES"))
		fmt.Fprintf(b, "  %s\n", orDefault(strings.Join(section.RoomNames, ", "), "NO_ROOM"))
		fmt.Fprintf(b, "  %d Meetings:\n", len(section.Meetings))
		for _, meeting := range sortedByDay(section.Meetings) {
			fmt.Fprintf(b, "    %-10s %s @ %s\n", meeting.Day, meeting.TimeLabel(), orDefault(meeting.RoomName(), "NO_ROOM"))
		}
		fmt.Fprintln(b)
	}

	fmt.Fprintln(b)
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "LECTURE-LAB PAIRS")
	fmt.Fprintln(b, rule)
	fmt.Fprintf(b, "Valid pairs: %d (will be checked)\n", len(result.Pairs))
	fmt.Fprintf(b, "Error pairs: %d (excluded - different faculty)\n", len(result.InvalidPairs))
	fmt.Fprintln(b)

	if len(result.Pairs) > 0 {
		fmt.Fprintln(b, "VALID PAIRS:")
		fmt.Fprintln(b)
		for _, pair := range result.Pairs {
			fmt.Fprintf(b, "%s | %s | %s\n", pair.Label(),
				orDefault(pair.Lecture.FacultyName, "NO_FACULTY"),
				orDefault(strings.Join(pair.Lecture.BatchNames, ", "), "NO_BATCHES"))
			for _, meeting := range sortedByDay(pair.Lecture.Meetings) {
				fmt.Fprintf(b, "  LEC: %-10s %s @ %s\n", meeting.Day, meeting.TimeLabel(), orDefault(meeting.RoomName(), "NO_ROOM"))
			}
			for _, meeting := range sortedByDay(pair.Lab.Meetings) {
				fmt.Fprintf(b, "  LAB: %-10s %s @ %s\n", meeting.Day, meeting.TimeLabel(), orDefault(meeting.RoomName(), "NO_ROOM"))
			}
			fmt.Fprintln(b)
		}
	}

	if len(result.InvalidPairs) > 0 {
		fmt.Fprintln(b)
		fmt.Fprintln(b, "ERROR PAIRS (excluded from constraint checking):")
		fmt.Fprintln(b)
		for _, pair := range result.InvalidPairs {
			fmt.Fprintln(b, pair.Label())
			fmt.Fprintf(b, "  ERROR: %s\n", pair.Reason)
			fmt.Fprintln(b)
		}
	}

	return b.String()
}

// groupingsText renders the schedule from the faculty, batch and room
// perspectives, then the subject-count breakdown behind the excess-subjects
// check.
func (r *reporter) groupingsText(result *evaluate.Result) string {
	b := &strings.Builder{}
	rule := strings.Repeat("=", 100)

	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "SCHEDULE GROUPINGS - ANALYTICAL VIEWS")
	fmt.Fprintf(b, "Generated: %s\n", r.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b)
	fmt.Fprintln(b, "This file shows the schedule organized by different entities:")
	fmt.Fprintln(b, "  - Group by Faculty - Review individual faculty schedules")
	fmt.Fprintln(b, "  - Group by Batch - Review individual student batch schedules")
	fmt.Fprintln(b, "  - Group by Room - Review room utilization")
	fmt.Fprintln(b, "  - Summary Statistics - Faculty subject counts and overall metrics")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "For other information, see:")
	fmt.Fprintln(b, "  - structural_violations.csv - Missing data issues")
	fmt.Fprintln(b, "  - meeting_unification.txt - How CSV rows were merged")
	fmt.Fprintln(b, "  - sections_summary.txt - Section identification and lecture-lab pairs")
	fmt.Fprintln(b)

	facultyGroups := r.writeGrouping(b, result, "FACULTY",
		func(m *schedule.Meeting) []int64 { return m.FacultyIDs },
		r.catalog.FacultyName,
		func(m *schedule.Meeting) string {
			return fmt.Sprintf("Room: %-10s | Batch: %s",
				orDefault(m.RoomName(), "N/A"), orDefault(strings.Join(m.BatchNames, ", "), "N/A"))
		})
	batchGroups := r.writeGrouping(b, result, "BATCH",
		func(m *schedule.Meeting) []int64 { return m.BatchIDs },
		r.catalog.BatchName,
		func(m *schedule.Meeting) string {
			return fmt.Sprintf("Room: %-10s | Faculty: %s",
				orDefault(m.RoomName(), "N/A"), orDefault(m.FacultyName(), "N/A"))
		})
	roomGroups := r.writeGrouping(b, result, "ROOM",
		func(m *schedule.Meeting) []int64 { return m.RoomIDs },
		r.catalog.RoomName,
		func(m *schedule.Meeting) string {
			return fmt.Sprintf("Faculty: %-15s | Batch: %s",
				orDefault(m.FacultyName(), "N/A"), orDefault(strings.Join(m.BatchNames, ", "), "N/A"))
		})

	fmt.Fprintln(b)
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "SUMMARY STATISTICS")
	fmt.Fprintln(b, rule)
	fmt.Fprintf(b, "Total meetings loaded: %d\n", len(result.Meetings))
	fmt.Fprintf(b, "Unique faculty with meetings: %d\n", facultyGroups)
	fmt.Fprintf(b, "Unique batches with meetings: %d\n", batchGroups)
	fmt.Fprintf(b, "Unique rooms with meetings: %d\n", roomGroups)
	fmt.Fprintln(b)

	r.writeSubjectCounts(b, result)
	return b.String()
}

// writeGrouping renders one entity view and returns the group count.
func (r *reporter) writeGrouping(b *strings.Builder, result *evaluate.Result, label string,
	ids func(*schedule.Meeting) []int64, name func(int64) string, trailer func(*schedule.Meeting) string) int {

	fmt.Fprintln(b, strings.Repeat("=", 100))
	fmt.Fprintf(b, "GROUPING BY %s\n", label)
	fmt.Fprintln(b, strings.Repeat("=", 100))

	groups := map[int64][]*schedule.Meeting{}
	for _, meeting := range result.Meetings {
		for _, id := range ids(meeting) {
			groups[id] = append(groups[id], meeting)
		}
	}

	keys := lo.Keys(groups)
	slices.Sort(keys)
	for _, id := range keys {
		fmt.Fprintln(b)
		fmt.Fprintf(b, "%s: %s (ID: %d)\n", label, name(id), id)
		fmt.Fprintln(b, strings.Repeat("-", 80))

		byDay := lo.GroupBy(groups[id], func(m *schedule.Meeting) string { return m.Day })
		for _, day := range catalog.WeekDays {
			meetings, ok := byDay[day]
			if !ok {
				continue
			}
			fmt.Fprintf(b, "  %s:\n", day)
			for _, m := range sortedByDay(meetings) {
				fmt.Fprintf(b, "    Row %-4s | %s | %-20s | %s\n", m.ID, m.TimeLabel(), m.SubjectName, trailer(m))
			}
		}
	}

	fmt.Fprintln(b)
	return len(keys)
}

func (r *reporter) writeSubjectCounts(b *strings.Builder, result *evaluate.Result) {
	fmt.Fprintln(b, strings.Repeat("-", 50))
	fmt.Fprintln(b, "FACULTY SUBJECT COUNTS (for excess subjects check):")
	fmt.Fprintln(b, strings.Repeat("-", 50))

	groups := map[int64][]*schedule.Meeting{}
	for _, meeting := range result.Meetings {
		for _, id := range meeting.FacultyIDs {
			groups[id] = append(groups[id], meeting)
		}
	}

	keys := lo.Keys(groups)
	slices.Sort(keys)
	for _, id := range keys {
		subjects := map[string]bool{}
		baseSubjects := map[string]bool{}
		for _, meeting := range groups[id] {
			subjects[meeting.SubjectName] = true
			baseSubjects[r.baseSubject(meeting)] = true
		}

		fmt.Fprintf(b, "  %s: %d unique subjects (counting lec+lab as 1)\n", r.catalog.FacultyName(id), len(baseSubjects))
		fmt.Fprintf(b, "    Raw subjects: %s\n", strings.Join(sortedSet(subjects), ", "))
		fmt.Fprintf(b, "    Base subjects: %s\n", strings.Join(sortedSet(baseSubjects), ", "))
	}
}

func (r *reporter) baseSubject(meeting *schedule.Meeting) string {
	subject, ok := r.catalog.SubjectsByID[meeting.SubjectID]
	if !ok {
		return meeting.SubjectName
	}
	if lecture, ok := r.catalog.SubjectsByID[subject.LinkedSubjectID]; ok {
		return lecture.Name
	}
	return subject.Name
}

func sortedSet(set map[string]bool) []string {
	values := lo.Keys(set)
	slices.Sort(values)
	return values
}

func sortedByDay(meetings []*schedule.Meeting) []*schedule.Meeting {
	sorted := slices.Clone(meetings)
	slices.SortStableFunc(sorted, func(a, b *schedule.Meeting) int {
		if rank := catalog.DayRank(a.Day) - catalog.DayRank(b.Day); rank != 0 {
			return rank
		}
		return a.Start - b.Start
	})
	return sorted
}

func joinOrMissing(values []string) string {
	if len(values) == 0 {
		return "MISSING"
	}
	return strings.Join(values, ", ")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
