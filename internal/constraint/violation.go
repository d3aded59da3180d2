// Package constraint applies the hard and soft rulebook over unified
// meetings, sections and lecture-lab pairs.
package constraint

// Violation is one rule breach. Hard violations carry a magnitude only;
// soft violations additionally carry a weighted penalty. Magnitude units
// depend on the type: minutes, students or occurrence counts.
type Violation struct {
	Type       string
	EntityType string
	EntityName string
	Day        string
	Magnitude  int
	Penalty    float64
	Details    string
}

// Hard violation types, in report order.
const (
	TypeFacultyTimeConflict  = "Faculty Time Conflict"
	TypeBatchTimeConflict    = "Batch Time Conflict"
	TypeRoomTimeConflict     = "Room Time Conflict"
	TypeRoomCapacityExceeded = "Room Capacity Exceeded"
	TypeMaxContinuousClass   = "Max Continuous Class Exceeded"
	TypeMinGap               = "Min Gap Violation"
	TypeBannedTime           = "Banned Time Violation"
	TypeLectureLabSeparation = "Lecture-Lab Separation"
)

// Soft violation types, in report order.
const (
	TypeFacultyOverload     = "Faculty Overload"
	TypeFacultyUnderfill    = "Faculty Underfill"
	TypeSectionOverfill     = "Section Overfill"
	TypeSectionUnderfill    = "Section Underfill"
	TypeMinContinuousClass  = "Min Continuous Class"
	TypeExcessGap           = "Excess Gap"
	TypeNonPreferredSubject = "Non-Preferred Subject"
	TypeFridayLateClass     = "Friday Late Class"
	TypeExcessSubjects      = "Excess Subjects"
	TypeExternalConflict    = "External Meeting Conflict"
)

// HardTypes lists every hard type in the order reports render them.
var HardTypes = []string{
	TypeFacultyTimeConflict,
	TypeBatchTimeConflict,
	TypeRoomTimeConflict,
	TypeRoomCapacityExceeded,
	TypeMaxContinuousClass,
	TypeMinGap,
	TypeBannedTime,
	TypeLectureLabSeparation,
}

// SoftTypes lists every soft type in the order reports render them.
var SoftTypes = []string{
	TypeFacultyOverload,
	TypeFacultyUnderfill,
	TypeSectionOverfill,
	TypeSectionUnderfill,
	TypeMinContinuousClass,
	TypeExcessGap,
	TypeNonPreferredSubject,
	TypeFridayLateClass,
	TypeExcessSubjects,
	TypeExternalConflict,
}
