package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schedeval/schedeval/internal/interval"
)

func meeting(id string, subjectID int64, subject string, faculty int64, batches []int64, rooms []int64, day string, start, end int) *Meeting {
	m := &Meeting{
		ID:          id,
		SourceRows:  []string{id},
		SubjectID:   subjectID,
		SubjectName: subject,
		Day:         day,
		Start:       start,
		End:         end,
		StartText:   clock(start),
		EndText:     clock(end),
		BatchIDs:    batches,
	}
	if faculty != 0 {
		m.FacultyIDs = []int64{faculty}
	}
	for _, room := range rooms {
		m.RoomIDs = append(m.RoomIDs, room)
		m.RoomNames = append(m.RoomNames, roomName(room))
	}
	return m
}

func clock(minutes int) string {
	return interval.FormatClock(minutes)
}

func roomName(id int64) string {
	return map[int64]string{1: "Room A", 2: "Room B"}[id]
}

func TestBuildSections(t *testing.T) {
	cat := testCatalog()

	t.Run("groups by subject faculty and batch set", func(t *testing.T) {
		//**Arrange: two meetings of one section, one of a second section
		meetings := []*Meeting{
			meeting("1", 1, "ICS 103", 1, []int64{1}, []int64{1}, "MONDAY", 480, 540),
			meeting("2", 1, "ICS 103", 1, []int64{1}, []int64{2}, "WEDNESDAY", 480, 540),
			meeting("3", 1, "ICS 103", 2, []int64{2}, []int64{2}, "MONDAY", 600, 660),
		}

		//**Act
		sections := BuildSections(meetings, cat, nil)

		//**Assert
		assert.Len(t, sections, 2)
		assert.Equal(t, "ICS 103-0", sections[0].ID)
		assert.Equal(t, "ICS 103-1", sections[1].ID)
		assert.Len(t, sections[0].Meetings, 2)
		assert.Equal(t, "Dr. Reyes", sections[0].FacultyName)
		// Rooms union across meetings, first seen is primary
		assert.Equal(t, []int64{1, 2}, sections[0].RoomIDs)
		primary, ok := sections[0].PrimaryRoom()
		assert.True(t, ok)
		assert.Equal(t, int64(1), primary)
	})

	t.Run("population counted once per batch across meetings", func(t *testing.T) {
		//**Arrange: same batch appears in both meetings
		meetings := []*Meeting{
			meeting("1", 1, "ICS 103", 1, []int64{1, 2}, nil, "MONDAY", 480, 540),
			meeting("2", 1, "ICS 103", 1, []int64{1, 2}, nil, "THURSDAY", 480, 540),
		}

		//**Act
		sections := BuildSections(meetings, cat, nil)

		//**Assert
		assert.Len(t, sections, 1)
		assert.Equal(t, 45, sections[0].TotalStudents)
	})

	t.Run("unclassifiable meetings are skipped", func(t *testing.T) {
		//**Arrange
		meetings := []*Meeting{
			// No faculty and no batches
			meeting("1", 1, "ICS 103", 0, nil, []int64{1}, "MONDAY", 480, 540),
			// Unmapped subject
			meeting("2", 0, "CHEM 999", 1, []int64{1}, nil, "MONDAY", 600, 660),
			// Batch-only meeting still forms a section
			meeting("3", 9, "MATH 201", 0, []int64{1}, nil, "MONDAY", 720, 780),
		}

		//**Act
		sections := BuildSections(meetings, cat, nil)

		//**Assert
		assert.Len(t, sections, 1)
		assert.Equal(t, "MATH 201-0", sections[0].ID)
		assert.False(t, sections[0].HasFaculty)
	})

	t.Run("different batch sets split sections of one subject", func(t *testing.T) {
		//**Arrange
		meetings := []*Meeting{
			meeting("1", 9, "MATH 201", 2, []int64{1}, nil, "MONDAY", 480, 540),
			meeting("2", 9, "MATH 201", 2, []int64{2}, nil, "MONDAY", 600, 660),
		}

		//**Act
		sections := BuildSections(meetings, cat, nil)

		//**Assert
		assert.Len(t, sections, 2)
		assert.NotEqual(t, sections[0].BatchKey(), sections[1].BatchKey())
	})
}
