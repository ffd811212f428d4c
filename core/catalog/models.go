package catalog

import (
	"time"

	"github.com/eduplaybd/eduplay/core"
)

type Grade struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"` // display name, e.g. "Grade 1", "Nursery"
	CreatedAt time.Time `json:"created_at"` // UTC
}

type Subject struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	GradeID     int    `json:"grade_id"`
}

type Chapter struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	GradeID   int    `json:"grade_id"`
	SubjectID int    `json:"subject_id"`
}

// NewGrade contains information needed to create a new Grade.
type NewGrade struct {
	Name string `json:"name" validate:"required"`
}

func (ng *NewGrade) Validate(svc *Service) error {
	ng.Name = core.CleanString(ng.Name)
	if err := core.Validate.Struct(ng); err != nil {
		return err
	}
	return svc.checkGradeUniqueness(ng.Name)
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	GradeID     int    `json:"grade_id" validate:"required"`
}

func (ns *NewSubject) Validate(svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Description = core.CleanString(ns.Description)
	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkSubjectUniqueness(ns.Name, ns.GradeID)
}

// NewChapter contains information needed to create a new Chapter.
// GradeID and SubjectID must be mutually consistent; Validate checks that the
// subject actually belongs to the grade.
type NewChapter struct {
	Name      string `json:"name" validate:"required"`
	GradeID   int    `json:"grade_id" validate:"required"`
	SubjectID int    `json:"subject_id" validate:"required"`
}

func (nc *NewChapter) Validate(svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	if err := svc.checkSubjectInGrade(nc.SubjectID, nc.GradeID); err != nil {
		return err
	}
	return svc.checkChapterUniqueness(nc.Name, nc.GradeID, nc.SubjectID)
}

// CascadeResult reports every row ID targeted by a cascading deletion, at
// every level, regardless of whether the remote delete succeeded for that
// specific id. Callers reconcile local state optimistically from it.
type CascadeResult struct {
	GradeID         int   `json:"grade_id,omitempty"`
	SubjectIDs      []int `json:"subject_ids,omitempty"`
	ChapterIDs      []int `json:"chapter_ids,omitempty"`
	ContentsDeleted bool  `json:"contents_deleted"`
}
