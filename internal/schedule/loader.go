package schedule

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/schedeval/schedeval/internal/tabular"
)

// ErrEmptySchedule is returned when the schedule file holds no data rows;
// evaluating nothing is the one unrecoverable input condition.
var ErrEmptySchedule = errors.New("schedule contains no rows")

// ReadRows loads the proposed timetable CSV into raw rows. Rows with an
// empty subject cell are dropped; a missing meeting_id defaults to the
// 1-based row number.
func ReadRows(path string, logger *zap.Logger) ([]RawRow, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	records, err := tabular.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rows := []RawRow{}
	for i, record := range records {
		subject := record.Get("subject_name")
		if subject == "" {
			logger.Warn("skipping schedule row without a subject", zap.Int("row", i+1))
			continue
		}

		meetingID := record.Get("meeting_id")
		if meetingID == "" {
			meetingID = strconv.Itoa(i + 1)
		}

		rows = append(rows, RawRow{
			Index:       i,
			MeetingID:   meetingID,
			SubjectName: subject,
			FacultyName: record.Get("faculty_name"),
			RoomName:    record.Get("room_name"),
			BatchField:  record.Get("batch_names", "batch_name"),
			Day:         record.Get("day_of_week", "day"),
			StartText:   record.Get("start_time"),
			EndText:     record.Get("end_time"),
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptySchedule)
	}

	logger.Info("schedule rows loaded", zap.String("path", path), zap.Int("rows", len(rows)))
	return rows, nil
}
