package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedeval/schedeval/internal/catalog"
	"github.com/schedeval/schedeval/internal/config"
	"github.com/schedeval/schedeval/internal/constraint"
	"github.com/schedeval/schedeval/internal/evaluate"
	"github.com/schedeval/schedeval/internal/schedule"
)

func testReporter() *reporter {
	cat := catalog.New(
		[]*catalog.Faculty{{ID: 1, Name: "Dr. Reyes"}},
		[]*catalog.Subject{
			{ID: 1, Name: "ICS 103"},
			{ID: 2, Name: "ICS 103 Lab", LinkedSubjectID: 1},
		},
		[]*catalog.Room{{ID: 1, Name: "Room A", Capacity: 40}},
		[]*catalog.Batch{{ID: 1, Name: "BSCS-1A", Population: 30}},
	)
	r := NewReporter(cat, config.Default(), nil).(*reporter)
	r.now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	}
	return r
}

func testResult() *evaluate.Result {
	meeting := &schedule.Meeting{
		ID: "1", SourceRows: []string{"1"},
		SubjectID: 1, SubjectName: "ICS 103",
		FacultyIDs: []int64{1}, FacultyNames: []string{"Dr. Reyes"},
		BatchIDs: []int64{1}, BatchNames: []string{"BSCS-1A"},
		Day: "MONDAY", StartText: "08:00", EndText: "09:00", Start: 480, End: 540,
	}
	return &evaluate.Result{
		Meetings:         []*schedule.Meeting{meeting},
		Rows:             []*schedule.Meeting{meeting},
		UnmappedSubjects: []string{"GE 999"},
		Sections: []*schedule.Section{{
			ID: "ICS 103-0", SubjectID: 1, SubjectName: "ICS 103",
			FacultyID: 1, HasFaculty: true, FacultyName: "Dr. Reyes",
			BatchIDs: []int64{1}, BatchNames: []string{"BSCS-1A"}, TotalStudents: 30,
			Meetings: []*schedule.Meeting{meeting},
		}},
		HardViolations: []constraint.Violation{{
			Type: constraint.TypeFacultyTimeConflict, EntityType: "Faculty",
			EntityName: "Dr. Reyes", Day: "MONDAY", Magnitude: 30,
			Details: "Dr. Reyes on MONDAY: Row 1 (08:00-09:00) overlaps Row 2 (08:30-09:30) - 30min overlap",
		}},
		SoftViolations: []constraint.Violation{{
			Type: constraint.TypeFridayLateClass, EntityType: "Meeting",
			EntityName: "ICS 103", Day: "FRIDAY", Magnitude: 15, Penalty: 15,
			Details: "ICS 103 on FRIDAY ends at 12:45, 15min past 12:30",
		}},
	}
}

func TestWriteAll(t *testing.T) {
	//**Arrange
	dir := t.TempDir()
	result := testResult()

	//**Act
	err := testReporter().WriteAll(dir, result)

	//**Assert
	require.NoError(t, err)
	for _, name := range []string{
		ViolationsCSVFile, SummaryFile, SummaryPDFFile,
		UnmappedFile, StructuralFile, UnificationFile, SectionsFile, EntityGroupingsFile,
	} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, statErr, name)
	}
	// No merge conflicts or invalid pairs, so no conflicts report
	_, statErr := os.Stat(filepath.Join(dir, ConflictsFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestViolationsDataset(t *testing.T) {
	dataset := violationsDataset(testResult())

	//**Assert: hard first with an empty penalty cell, then soft with its score
	assert.Equal(t, violationColumns, dataset.Headers)
	assert.Len(t, dataset.Rows, 2)
	assert.Equal(t, "HARD", dataset.Rows[0]["constraint_category"])
	assert.Equal(t, "", dataset.Rows[0]["penalty"])
	assert.Equal(t, "SOFT", dataset.Rows[1]["constraint_category"])
	assert.Equal(t, "15", dataset.Rows[1]["penalty"])
	assert.Equal(t, "15", dataset.Rows[1]["magnitude"])
}

func TestSummaryText(t *testing.T) {
	text := testReporter().summaryText(testResult())

	assert.Contains(t, text, "SCHEDULE IS INFEASIBLE")
	assert.Contains(t, text, "Total Hard Violations: 1")
	assert.Contains(t, text, "Total Penalty Score: 15.00")
	assert.Contains(t, text, "Faculty Time Conflict: 1 violations")
	assert.Contains(t, text, "Friday Late Class: 1 violations (penalty: 15.00)")
	assert.Contains(t, text, "Formula: (magnitude ^ 1) x weight")
	assert.Contains(t, text, "Generated: 2026-03-14 09:30:00")
	// Every known type is listed, even the clean ones
	assert.Contains(t, text, "Banned Time Violation: 0 violations")
	assert.Contains(t, text, "(none)")
}

func TestConflictsText(t *testing.T) {
	//**Arrange: one merge conflict plus one lecture-lab mismatch
	result := testResult()
	result.Conflicts = []schedule.Conflict{{
		Kind:    schedule.ConflictMultipleFaculty,
		Meeting: "ICS 103 on MONDAY 08:00-09:00",
		RowIDs:  []string{"1", "2"},
		Values:  []string{"Dr. Reyes", "Dr. Cruz"},
		Details: "Same meeting assigned to 2 different faculty: Dr. Reyes, Dr. Cruz",
	}}
	result.InvalidPairs = []*schedule.LectureLabPair{{
		Lecture: &schedule.Section{ID: "ICS 103-0"},
		Lab:     &schedule.Section{ID: "ICS 103 Lab-0"},
		Reason:  "Different faculty: Lecture=Dr. Reyes, Lab=Dr. Cruz",
	}}

	//**Act
	text := conflictsText(allConflicts(result))

	//**Assert
	assert.Contains(t, text, "TYPE: "+schedule.ConflictMultipleFaculty)
	assert.Contains(t, text, "FACULTY ASSIGNED: Dr. Reyes, Dr. Cruz")
	assert.Contains(t, text, "TYPE: "+schedule.ConflictLectureLabMismatch)
	assert.Contains(t, text, "Different faculty: Lecture=Dr. Reyes, Lab=Dr. Cruz")
	assert.Contains(t, text, "Total conflicts: 2")
}

func TestStructuralDataset(t *testing.T) {
	//**Arrange: the meeting lacks a room; the section lacks a room too
	dataset := structuralDataset(testResult())

	//**Assert: one row for the meeting, one for its section
	assert.Len(t, dataset.Rows, 2)
	assert.Equal(t, "Meeting", dataset.Rows[0]["Type"])
	assert.Equal(t, "Missing Room", dataset.Rows[0]["Issues"])
	assert.Equal(t, "MISSING", dataset.Rows[0]["Room"])
	assert.Equal(t, "Section", dataset.Rows[1]["Type"])
	assert.Equal(t, "Missing Rooms", dataset.Rows[1]["Issues"])
}

func TestUnificationText(t *testing.T) {
	text := testReporter().unificationText(testResult())

	assert.Contains(t, text, "Original CSV rows: 1")
	assert.Contains(t, text, "Unified meetings: 1")
	assert.Contains(t, text, "Rows merged: 0")
	assert.Contains(t, text, "SINGULAR (row 1)")
	assert.Contains(t, text, "Dr. Reyes [1]")
}

func TestGroupingsText(t *testing.T) {
	text := testReporter().groupingsText(testResult())

	assert.Contains(t, text, "FACULTY: Dr. Reyes (ID: 1)")
	assert.Contains(t, text, "BATCH: BSCS-1A (ID: 1)")
	assert.Contains(t, text, "Unique faculty with meetings: 1")
	assert.Contains(t, text, "Unique rooms with meetings: 0")
	assert.Contains(t, text, "Dr. Reyes: 1 unique subjects (counting lec+lab as 1)")
}
