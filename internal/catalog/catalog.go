// Package catalog holds the reference entities a timetable is validated
// against, with lookups by surrogate id and by natural name.
package catalog

import "strconv"

type Faculty struct {
	ID                int64
	Name              string
	MinLoad           float64
	MaxLoad           float64
	MaxSubjects       int
	PreferredSubjects []int64
	QualifiedSubjects []int64
}

type Subject struct {
	ID             int64
	Name           string
	NormalizedName string
	LectureUnits   float64
	LabUnits       float64
	// LinkedSubjectID points a lab subject at its lecture subject; 0 means
	// the subject is not a lab.
	LinkedSubjectID int64
	MaxEnrollment   int
}

type Room struct {
	ID       int64
	Name     string
	Capacity int
	// OptimalCapacity and MinCapacity feed the soft fill checks; 0 means the
	// column was absent (optimal falls back to Capacity, min disables the check).
	OptimalCapacity int
	MinCapacity     int
}

type Batch struct {
	ID         int64
	Name       string
	Population int
}

// BannedTimeSlot blocks a time window, for one faculty when FacultyName is
// set or for everyone when it is empty.
type BannedTimeSlot struct {
	FacultyName string
	Day         string
	StartText   string
	EndText     string
	Start       int
	End         int
}

// ExternalMeeting is a commitment outside the timetable that a faculty must
// still attend.
type ExternalMeeting struct {
	FacultyName string
	Day         string
	StartText   string
	EndText     string
	Start       int
	End         int
	Description string
}

// Catalog indexes the reference entities both ways: by id for reverse lookup
// from violations, by name for mapping raw schedule rows.
type Catalog struct {
	FacultyByID   map[int64]*Faculty
	FacultyByName map[string]*Faculty

	SubjectsByID map[int64]*Subject
	// SubjectsByName is keyed by the normalized subject name.
	SubjectsByName map[string]*Subject

	RoomsByID   map[int64]*Room
	RoomsByName map[string]*Room

	BatchesByID   map[int64]*Batch
	BatchesByName map[string]*Batch

	BannedTimes      []BannedTimeSlot
	ExternalMeetings []ExternalMeeting
}

func New(faculty []*Faculty, subjects []*Subject, rooms []*Room, batches []*Batch) *Catalog {
	c := &Catalog{
		FacultyByID:    map[int64]*Faculty{},
		FacultyByName:  map[string]*Faculty{},
		SubjectsByID:   map[int64]*Subject{},
		SubjectsByName: map[string]*Subject{},
		RoomsByID:      map[int64]*Room{},
		RoomsByName:    map[string]*Room{},
		BatchesByID:    map[int64]*Batch{},
		BatchesByName:  map[string]*Batch{},
	}

	for _, f := range faculty {
		c.FacultyByID[f.ID] = f
		c.FacultyByName[f.Name] = f
	}
	for _, s := range subjects {
		if s.NormalizedName == "" {
			s.NormalizedName = NormalizeSubjectName(s.Name)
		}
		c.SubjectsByID[s.ID] = s
		c.SubjectsByName[s.NormalizedName] = s
	}
	for _, r := range rooms {
		c.RoomsByID[r.ID] = r
		c.RoomsByName[r.Name] = r
	}
	for _, b := range batches {
		c.BatchesByID[b.ID] = b
		c.BatchesByName[b.Name] = b
	}

	return c
}

// FacultyName resolves an id to a display name, falling back to the id itself.
func (c *Catalog) FacultyName(id int64) string {
	if f, ok := c.FacultyByID[id]; ok {
		return f.Name
	}
	return strconv.FormatInt(id, 10)
}

func (c *Catalog) SubjectName(id int64) string {
	if s, ok := c.SubjectsByID[id]; ok {
		return s.Name
	}
	return strconv.FormatInt(id, 10)
}

func (c *Catalog) RoomName(id int64) string {
	if r, ok := c.RoomsByID[id]; ok {
		return r.Name
	}
	return strconv.FormatInt(id, 10)
}

func (c *Catalog) BatchName(id int64) string {
	if b, ok := c.BatchesByID[id]; ok {
		return b.Name
	}
	return strconv.FormatInt(id, 10)
}

// LabToLecture maps every lab subject id to its lecture subject id.
func (c *Catalog) LabToLecture() map[int64]int64 {
	links := map[int64]int64{}
	for id, subject := range c.SubjectsByID {
		if subject.LinkedSubjectID != 0 {
			links[id] = subject.LinkedSubjectID
		}
	}
	return links
}
