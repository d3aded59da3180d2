package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	//**Arrange: a reference folder with two files and a schedule file
	base := t.TempDir()
	refDir := filepath.Join(base, "REFERENCE")
	require.NoError(t, os.Mkdir(refDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(refDir, "faculty.csv"), []byte("faculty_id,faculty_name\n1,Dr. Reyes\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(refDir, "config.json"), []byte("{}"), 0o644))
	schedule := filepath.Join(base, "schedule.csv")
	require.NoError(t, os.WriteFile(schedule, []byte("subject_name\nICS 103\n"), 0o644))

	//**Act
	run, err := Create(filepath.Join(base, "RUNS"), refDir, schedule, nil)

	//**Assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(run.Dir), "RUN_"))

	copied, err := os.ReadFile(filepath.Join(run.ReferenceDir, "faculty.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(copied), "Dr. Reyes")

	archived, err := os.ReadFile(run.SchedulePath(schedule))
	require.NoError(t, err)
	assert.Contains(t, string(archived), "ICS 103")

	info, err := os.Stat(run.OutputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateDistinctRunFolders(t *testing.T) {
	base := t.TempDir()
	refDir := filepath.Join(base, "REFERENCE")
	require.NoError(t, os.Mkdir(refDir, 0o755))
	schedule := filepath.Join(base, "schedule.csv")
	require.NoError(t, os.WriteFile(schedule, []byte("subject_name\n"), 0o644))

	first, err := Create(filepath.Join(base, "RUNS"), refDir, schedule, nil)
	require.NoError(t, err)
	second, err := Create(filepath.Join(base, "RUNS"), refDir, schedule, nil)
	require.NoError(t, err)

	// The uuid suffix separates runs created in the same second
	assert.NotEqual(t, first.Dir, second.Dir)
}
