package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLectureLabPairs(t *testing.T) {
	cat := testCatalog()

	build := func(meetings ...*Meeting) []*Section {
		return BuildSections(meetings, cat, nil)
	}

	t.Run("matching faculty and batches pair up", func(t *testing.T) {
		//**Arrange: ICS 103 Lab (subject 2) links to ICS 103 (subject 1)
		sections := build(
			meeting("1", 1, "ICS 103", 1, []int64{1}, []int64{1}, "MONDAY", 480, 540),
			meeting("2", 2, "ICS 103 Lab", 1, []int64{1}, []int64{1}, "MONDAY", 540, 660),
		)

		//**Act
		valid, invalid := MatchLectureLabPairs(sections, cat, nil)

		//**Assert
		assert.Len(t, valid, 1)
		assert.Empty(t, invalid)
		assert.Equal(t, "ICS 103-0", valid[0].Lecture.ID)
		assert.Equal(t, "ICS 103 Lab-0", valid[0].Lab.ID)
		assert.True(t, valid[0].Valid)
	})

	t.Run("different faculty becomes an error pair", func(t *testing.T) {
		//**Arrange
		sections := build(
			meeting("1", 1, "ICS 103", 1, []int64{1}, nil, "MONDAY", 480, 540),
			meeting("2", 2, "ICS 103 Lab", 2, []int64{1}, nil, "MONDAY", 540, 660),
		)

		//**Act
		valid, invalid := MatchLectureLabPairs(sections, cat, nil)

		//**Assert
		assert.Empty(t, valid)
		assert.Len(t, invalid, 1)
		assert.False(t, invalid[0].Valid)
		assert.Contains(t, invalid[0].Reason, "Different faculty")
	})

	t.Run("different batch sets never pair", func(t *testing.T) {
		//**Arrange
		sections := build(
			meeting("1", 1, "ICS 103", 1, []int64{1}, nil, "MONDAY", 480, 540),
			meeting("2", 2, "ICS 103 Lab", 1, []int64{2}, nil, "MONDAY", 540, 660),
		)

		//**Act
		valid, invalid := MatchLectureLabPairs(sections, cat, nil)

		//**Assert
		assert.Empty(t, valid)
		assert.Empty(t, invalid)
	})

	t.Run("one lecture pairs with several split lab groups", func(t *testing.T) {
		//**Arrange: lab split into two sections over the same batch set is
		// one thing; here both lab sections carry the lecture's batch set
		sections := build(
			meeting("1", 1, "ICS 103", 1, []int64{1}, nil, "MONDAY", 480, 540),
			meeting("2", 2, "ICS 103 Lab", 1, []int64{1}, nil, "TUESDAY", 540, 660),
			meeting("3", 2, "ICS 103 Lab", 1, []int64{1}, nil, "THURSDAY", 540, 660),
		)

		//**Act
		valid, _ := MatchLectureLabPairs(sections, cat, nil)

		//**Assert: both lab meetings share one section, so one pair; a lab
		// taught by another faculty over the same batches would add more
		assert.Len(t, valid, 1)
	})

	t.Run("subjects without linkage never participate", func(t *testing.T) {
		sections := build(
			meeting("1", 9, "MATH 201", 1, []int64{1}, nil, "MONDAY", 480, 540),
			meeting("2", 7, "PHYS 101", 1, []int64{1}, nil, "MONDAY", 600, 660),
		)
		valid, invalid := MatchLectureLabPairs(sections, cat, nil)
		assert.Empty(t, valid)
		assert.Empty(t, invalid)
	})
}
