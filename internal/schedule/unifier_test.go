package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schedeval/schedeval/internal/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]*catalog.Faculty{
			{ID: 1, Name: "Dr. Reyes", MinLoad: 2, MaxLoad: 4, MaxSubjects: 5, PreferredSubjects: []int64{7}},
			{ID: 2, Name: "Dr. Cruz", MaxLoad: 99, MaxSubjects: 99},
		},
		[]*catalog.Subject{
			{ID: 1, Name: "ICS 103", MaxEnrollment: 60},
			{ID: 2, Name: "ICS 103 Lab", LinkedSubjectID: 1, MaxEnrollment: 60},
			{ID: 7, Name: "PHYS 101", MaxEnrollment: 60},
			{ID: 9, Name: "MATH 201", MaxEnrollment: 60},
		},
		[]*catalog.Room{
			{ID: 1, Name: "Room A", Capacity: 40, OptimalCapacity: 35, MinCapacity: 10},
			{ID: 2, Name: "Room B", Capacity: 25},
		},
		[]*catalog.Batch{
			{ID: 1, Name: "BSCS-1A", Population: 30},
			{ID: 2, Name: "BSCS-1B", Population: 15},
		},
	)
}

func TestUnifyMapsRows(t *testing.T) {
	unifier := NewUnifier(testCatalog(), nil)

	t.Run("names resolve against the catalog", func(t *testing.T) {
		//**Arrange
		rows := []RawRow{{
			Index:       0,
			MeetingID:   "1",
			SubjectName: "ics103",
			FacultyName: "Dr. Reyes",
			RoomName:    "Room A",
			BatchField:  "BSCS-1A (30); BSCS-1B (15)",
			Day:         "monday",
			StartText:   "08:00",
			EndText:     "09:30",
		}}

		//**Act
		result := unifier.Unify(rows)

		//**Assert
		assert.Len(t, result.Meetings, 1)
		meeting := result.Meetings[0]
		assert.Equal(t, int64(1), meeting.SubjectID)
		assert.Equal(t, "ICS 103", meeting.SubjectName)
		assert.Equal(t, []int64{1}, meeting.FacultyIDs)
		assert.Equal(t, []int64{1}, meeting.RoomIDs)
		assert.Equal(t, []int64{1, 2}, meeting.BatchIDs)
		assert.Equal(t, 45, meeting.BatchPopulation)
		assert.Equal(t, "MONDAY", meeting.Day)
		assert.Equal(t, 480, meeting.Start)
		assert.Equal(t, 570, meeting.End)
		assert.Empty(t, result.UnmappedSubjects)
		assert.Empty(t, result.Conflicts)
	})

	t.Run("unknown subject keeps the raw name and is recorded", func(t *testing.T) {
		//**Arrange
		rows := []RawRow{{
			Index: 0, MeetingID: "1", SubjectName: " CHEM 999 ",
			Day: "TUESDAY", StartText: "10:00", EndText: "11:00",
		}}

		//**Act
		result := unifier.Unify(rows)

		//**Assert
		meeting := result.Meetings[0]
		assert.Zero(t, meeting.SubjectID)
		assert.Equal(t, "CHEM 999", meeting.SubjectName)
		assert.Equal(t, []string{"CHEM 999"}, result.UnmappedSubjects)
	})

	t.Run("unknown faculty and room leave the fields empty", func(t *testing.T) {
		//**Arrange
		rows := []RawRow{{
			Index: 0, MeetingID: "1", SubjectName: "ICS 103",
			FacultyName: "Nobody", RoomName: "Atlantis",
			Day: "MONDAY", StartText: "08:00", EndText: "09:00",
		}}

		//**Act
		result := unifier.Unify(rows)

		//**Assert
		meeting := result.Meetings[0]
		assert.Empty(t, meeting.FacultyIDs)
		assert.Empty(t, meeting.RoomIDs)
		_, hasFaculty := meeting.FacultyID()
		assert.False(t, hasFaculty)
	})

	t.Run("unparsable times read as zero", func(t *testing.T) {
		rows := []RawRow{{
			Index: 0, MeetingID: "1", SubjectName: "ICS 103",
			Day: "MONDAY", StartText: "soon", EndText: "later",
		}}
		meeting := unifier.Unify(rows).Meetings[0]
		assert.Zero(t, meeting.Start)
		assert.Zero(t, meeting.End)
	})
}

func TestUnifyMergesDuplicateRows(t *testing.T) {
	unifier := NewUnifier(testCatalog(), nil)

	t.Run("conflicting faculty collapse into one meeting with a conflict", func(t *testing.T) {
		//**Arrange: two rows, same meeting key, different faculty and room
		rows := []RawRow{
			{Index: 0, MeetingID: "1", SubjectName: "ICS 103", FacultyName: "Dr. Reyes",
				RoomName: "Room A", BatchField: "BSCS-1A", Day: "MONDAY", StartText: "08:00", EndText: "09:00"},
			{Index: 1, MeetingID: "2", SubjectName: "ICS103", FacultyName: "Dr. Cruz",
				RoomName: "Room B", BatchField: "BSCS-1B", Day: "MONDAY", StartText: "08:00", EndText: "09:00"},
		}

		//**Act
		result := unifier.Unify(rows)

		//**Assert
		assert.Len(t, result.Meetings, 1)
		meeting := result.Meetings[0]
		assert.Equal(t, "1/2", meeting.ID)
		assert.True(t, meeting.Merged())
		// Canonical choice is first seen, full sets retained
		assert.Equal(t, []int64{1, 2}, meeting.FacultyIDs)
		canonical, _ := meeting.FacultyID()
		assert.Equal(t, int64(1), canonical)
		assert.Equal(t, []int64{1, 2}, meeting.RoomIDs)
		// Batch union is normal, population summed once per batch
		assert.Equal(t, []int64{1, 2}, meeting.BatchIDs)
		assert.Equal(t, 45, meeting.BatchPopulation)

		assert.Len(t, result.Conflicts, 2)
		kinds := []string{result.Conflicts[0].Kind, result.Conflicts[1].Kind}
		assert.Contains(t, kinds, ConflictMultipleFaculty)
		assert.Contains(t, kinds, ConflictMultipleRooms)
	})

	t.Run("agreeing duplicate rows merge without conflicts", func(t *testing.T) {
		//**Arrange: same faculty and room on both rows, batches differ
		rows := []RawRow{
			{Index: 0, MeetingID: "3", SubjectName: "ICS 103", FacultyName: "Dr. Reyes",
				RoomName: "Room A", BatchField: "BSCS-1A", Day: "MONDAY", StartText: "08:00", EndText: "09:00"},
			{Index: 1, MeetingID: "4", SubjectName: "ICS 103", FacultyName: "Dr. Reyes",
				RoomName: "Room A", BatchField: "BSCS-1B", Day: "MONDAY", StartText: "08:00", EndText: "09:00"},
		}

		//**Act
		result := unifier.Unify(rows)

		//**Assert
		assert.Len(t, result.Meetings, 1)
		assert.Empty(t, result.Conflicts)
		assert.Equal(t, []int64{1, 2}, result.Meetings[0].BatchIDs)
	})

	t.Run("unification is idempotent on distinct meetings", func(t *testing.T) {
		//**Arrange: every row already a distinct meeting
		rows := []RawRow{
			{Index: 0, MeetingID: "1", SubjectName: "ICS 103", Day: "MONDAY", StartText: "08:00", EndText: "09:00", FacultyName: "Dr. Reyes"},
			{Index: 1, MeetingID: "2", SubjectName: "ICS 103", Day: "TUESDAY", StartText: "08:00", EndText: "09:00", FacultyName: "Dr. Reyes"},
			{Index: 2, MeetingID: "3", SubjectName: "MATH 201", Day: "MONDAY", StartText: "08:00", EndText: "09:00", FacultyName: "Dr. Cruz"},
		}

		//**Act
		result := unifier.Unify(rows)

		//**Assert: the meeting list is the row list, untouched
		assert.Equal(t, result.Rows, result.Meetings)
		assert.Empty(t, result.Conflicts)
	})
}

func TestSplitBatchField(t *testing.T) {
	assert.Equal(t, []string{"BSCS-1A", "BSIT 4-B"}, SplitBatchField("BSCS-1A (35); BSIT 4-B (11)"))
	assert.Equal(t, []string{"BSCS-1A"}, SplitBatchField("BSCS-1A"))
	assert.Empty(t, SplitBatchField("  ;  "))
	assert.Empty(t, SplitBatchField(""))
}
