package schedule

import (
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/schedeval/schedeval/internal/catalog"
)

// LectureLabPair links a lecture section with a lab section of the same
// logical course and batch set.
type LectureLabPair struct {
	Lecture *Section
	Lab     *Section
	Valid   bool
	Reason  string
}

// Label identifies the pair in reports.
func (p *LectureLabPair) Label() string {
	return p.Lecture.ID + " + " + p.Lab.ID
}

// MatchLectureLabPairs pairs every lab section with the lecture sections of
// its linked subject that teach an identical batch set. Pairs whose faculty
// differ are routed to the error list; they are excluded from the
// separation check but still reported as data-quality issues.
func MatchLectureLabPairs(sections []*Section, cat *catalog.Catalog, logger *zap.Logger) (valid, invalid []*LectureLabPair) {
	if logger == nil {
		logger = zap.NewNop()
	}

	labToLecture := cat.LabToLecture()
	bySubject := lo.GroupBy(sections, func(section *Section) int64 {
		return section.SubjectID
	})

	for _, lab := range sections {
		lectureSubjectID, isLab := labToLecture[lab.SubjectID]
		if !isLab {
			continue
		}

		for _, lecture := range bySubject[lectureSubjectID] {
			if lecture.BatchKey() != lab.BatchKey() {
				continue
			}

			pair := &LectureLabPair{Lecture: lecture, Lab: lab, Valid: true}
			if lecture.FacultyID != lab.FacultyID {
				pair.Valid = false
				pair.Reason = fmt.Sprintf("Different faculty: Lecture=%s, Lab=%s",
					orPlaceholder(lecture.FacultyName), orPlaceholder(lab.FacultyName))
				invalid = append(invalid, pair)
			} else {
				valid = append(valid, pair)
			}
		}
	}

	logger.Info("lecture-lab pairs matched",
		zap.Int("valid", len(valid)),
		zap.Int("faculty_mismatches", len(invalid)),
	)
	return valid, invalid
}

func orPlaceholder(name string) string {
	if name == "" {
		return "NO_FACULTY"
	}
	return name
}
