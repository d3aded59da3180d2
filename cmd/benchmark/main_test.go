package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeetingSlot(t *testing.T) {
	start, end := meetingSlot(0, 0)
	assert.Equal(t, "07:00", start)
	assert.Equal(t, "08:00", end)

	start, end = meetingSlot(5, 2)
	assert.Equal(t, "12:00", start)
	assert.Equal(t, "15:00", end)
}

func TestBuildRowsIsDeterministic(t *testing.T) {
	c := benchmarkCase{Meetings: 50, Faculty: 5, Subjects: 10, Rooms: 4, Batches: 3}

	first := buildRows(c, 1)
	second := buildRows(c, 1)

	assert.Equal(t, first, second)
	assert.Len(t, first, 50)
	// Every generated name must resolve against the synthetic catalog
	cat := buildCatalog(c)
	for _, row := range first {
		assert.Contains(t, cat.FacultyByName, row.FacultyName)
		assert.Contains(t, cat.RoomsByName, row.RoomName)
	}
}
