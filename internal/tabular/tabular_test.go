package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRead(t *testing.T) {
	t.Run("rows keyed by header", func(t *testing.T) {
		//**Arrange
		content := "name,capacity\nRoom A,40\nRoom B,25\n"

		//**Act
		rows, err := Read(strings.NewReader(content))

		//**Assert
		assert.NoError(t, err)
		assert.Len(t, rows, 2)
		assert.Equal(t, "Room A", rows[0].Get("name"))
		assert.Equal(t, "25", rows[1].Get("capacity"))
	})

	t.Run("short records read as empty columns", func(t *testing.T) {
		//**Arrange
		content := "a,b,c\n1,2\n"

		//**Act
		rows, err := Read(strings.NewReader(content))

		//**Assert
		assert.NoError(t, err)
		assert.Equal(t, "", rows[0].Get("c"))
	})

	t.Run("BOM stripped from first header", func(t *testing.T) {
		//**Arrange
		content := "\uFEFFid,name\n7,X\n"

		//**Act
		rows, err := Read(strings.NewReader(content))

		//**Assert
		assert.NoError(t, err)
		assert.Equal(t, "7", rows[0].Get("id"))
	})

	t.Run("empty input yields no rows", func(t *testing.T) {
		rows, err := Read(strings.NewReader(""))
		assert.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestGetAliases(t *testing.T) {
	//**Arrange
	row := Row{"day_of_week": "MONDAY", "day": "ignored", "blank": "  "}

	//**Act and assert
	assert.Equal(t, "MONDAY", row.Get("day_of_week", "day"))
	assert.Equal(t, "ignored", row.Get("missing", "day"))
	assert.Equal(t, "", row.Get("blank"))
	assert.Equal(t, "", row.Get("missing"))
}
