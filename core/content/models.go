package content

import (
	"time"

	"github.com/eduplaybd/eduplay/core"
)

// Content types. The type determines which of YoutubeLink/FileURL is
// authoritative.
const (
	TypeYoutube = "youtube"
	TypeImage   = "image"
	TypeVideo   = "video"
)

type Page struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type"`
	YoutubeLink string `json:"youtube_link,omitempty"`
	FileURL     string `json:"file_url,omitempty"`
}

type Content struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ContentType string    `json:"content_type"`
	YoutubeLink string    `json:"youtube_link,omitempty"`
	FileURL     string    `json:"file_url,omitempty"`
	Class       string    `json:"class"`   // normalized grade key, e.g. "1st"
	Subject     string    `json:"subject"` // normalized subject key, e.g. "math"
	ChapterID   int       `json:"chapter_id,omitempty"`
	Pages       []Page    `json:"pages"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewContent contains the admin form fields needed to create a Content row.
// The denormalized class/subject keys are derived from the selected grade
// and subject, never supplied directly.
type NewContent struct {
	GradeID     int    `json:"grade_id" validate:"required"`
	SubjectID   int    `json:"subject_id" validate:"required"`
	ChapterID   int    `json:"chapter_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	ContentType string `json:"content_type" validate:"required,oneof=youtube image video"`
	YoutubeLink string `json:"youtube_link" validate:"omitempty,youtube"`
	FileURL     string `json:"file_url"`
}

func (nc *NewContent) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.YoutubeLink = core.CleanString(nc.YoutubeLink)
	nc.FileURL = core.CleanString(nc.FileURL)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return validateSource(nc.ContentType, nc.YoutubeLink, nc.FileURL)
}

// UpdateContent carries the same shape as NewContent and targets an existing
// row by ID.
type UpdateContent struct {
	NewContent
}

// validateSource enforces the field the selected content type makes
// authoritative.
func validateSource(contentType, youtubeLink, fileURL string) error {
	switch contentType {
	case TypeYoutube:
		if youtubeLink == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "youtube_link", Error: "a YouTube link is required for youtube content"})
		}
	case TypeImage, TypeVideo:
		if fileURL == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "file_url", Error: "a file is required for " + contentType + " content"})
		}
	}
	return nil
}

// ResolveFilter carries the raw, caller-supplied class/subject values of a
// content listing request.
type ResolveFilter struct {
	RawClass   string `query:"class"`
	RawSubject string `query:"subject"`
}

func (f *ResolveFilter) IsEmpty() bool {
	return f.RawClass == "" && f.RawSubject == ""
}

func (f *ResolveFilter) Clean() {
	f.RawClass = core.CleanString(f.RawClass)
	f.RawSubject = core.CleanString(f.RawSubject)
}

// QueryFilter is the store-side equality filter derived from a
// ResolveFilter; empty fields mean "no constraint".
type QueryFilter struct {
	Class   string
	Subject string
}
