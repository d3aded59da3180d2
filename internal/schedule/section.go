package schedule

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/schedeval/schedeval/internal/catalog"
)

// Section is one teaching group: the meetings sharing a subject, a faculty
// and a batch set. Room slices keep first-seen order, so index 0 is the
// primary room used by the capacity checks.
type Section struct {
	ID          string
	Index       int
	SubjectID   int64
	SubjectName string

	FacultyID   int64
	HasFaculty  bool
	FacultyName string

	BatchIDs      []int64
	BatchNames    []string
	TotalStudents int

	RoomIDs   []int64
	RoomNames []string

	Meetings []*Meeting
}

// PrimaryRoom returns the first room seen across the section's meetings.
func (s *Section) PrimaryRoom() (int64, bool) {
	if len(s.RoomIDs) == 0 {
		return 0, false
	}
	return s.RoomIDs[0], true
}

// PrimaryRoomName returns the primary room's display name, empty when the
// section never met in a known room.
func (s *Section) PrimaryRoomName() string {
	if len(s.RoomNames) == 0 {
		return ""
	}
	return s.RoomNames[0]
}

// BatchKey renders the section's batch-id set in canonical order, used to
// group sections and to match lecture sections with lab sections.
func (s *Section) BatchKey() string {
	return batchKey(s.BatchIDs)
}

func batchKey(ids []int64) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return strings.Join(lo.Map(sorted, func(id int64, _ int) string {
		return fmt.Sprint(id)
	}), ",")
}

// BuildSections groups unified meetings into sections keyed by
// (subject, faculty, batch set). Meetings with an unmapped subject, or with
// neither faculty nor batches, cannot be classified and are skipped.
// Sections are numbered per subject from 0 in order of first appearance.
func BuildSections(meetings []*Meeting, cat *catalog.Catalog, logger *zap.Logger) []*Section {
	if logger == nil {
		logger = zap.NewNop()
	}

	type sectionKey struct {
		subjectID int64
		facultyID int64
		batches   string
	}
	keys := []sectionKey{}
	groups := map[sectionKey][]*Meeting{}

	for _, meeting := range meetings {
		if meeting.SubjectID == 0 {
			continue
		}
		facultyID, hasFaculty := meeting.FacultyID()
		if !hasFaculty && len(meeting.BatchIDs) == 0 {
			continue
		}

		key := sectionKey{meeting.SubjectID, facultyID, batchKey(meeting.BatchIDs)}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], meeting)
	}

	sections := []*Section{}
	indexBySubject := map[int64]int{}
	for _, key := range keys {
		group := groups[key]
		index := indexBySubject[key.subjectID]
		indexBySubject[key.subjectID]++

		section := &Section{
			Index:       index,
			SubjectID:   key.subjectID,
			SubjectName: cat.SubjectName(key.subjectID),
			Meetings:    group,
		}
		section.ID = fmt.Sprintf("%s-%d", section.SubjectName, index)

		if key.facultyID != 0 {
			section.FacultyID = key.facultyID
			section.HasFaculty = true
			section.FacultyName = cat.FacultyName(key.facultyID)
		}

		for _, meeting := range group {
			// Batches come from the key, so every meeting carries the same
			// set; population is summed once per unique batch id.
			for _, batchID := range meeting.BatchIDs {
				if lo.Contains(section.BatchIDs, batchID) {
					continue
				}
				section.BatchIDs = append(section.BatchIDs, batchID)
				section.BatchNames = append(section.BatchNames, cat.BatchName(batchID))
				if batch, ok := cat.BatchesByID[batchID]; ok {
					section.TotalStudents += batch.Population
				}
			}
			for i, roomID := range meeting.RoomIDs {
				if !lo.Contains(section.RoomIDs, roomID) {
					section.RoomIDs = append(section.RoomIDs, roomID)
					section.RoomNames = append(section.RoomNames, meeting.RoomNames[i])
				}
			}
		}

		sections = append(sections, section)
	}

	logger.Info("sections identified",
		zap.Int("sections", len(sections)),
		zap.Int("subjects", len(indexBySubject)),
	)
	return sections
}
