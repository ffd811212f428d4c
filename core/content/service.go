package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/taxonomy"
)

var (
	// errors
	ErrNotFound = errors.New("content not found")
)

type (
	Repository interface {
		CreateContent(ctx context.Context, cnt Content, exec ...core.DBExecutor) (Content, error)
		QueryContents(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Content, error)
		QueryAllContents(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Content, error)
		GetContentByID(ctx context.Context, id string, exec ...core.DBExecutor) (Content, error)
		UpdateContent(ctx context.Context, cnt Content, exec ...core.DBExecutor) (Content, error)
		DeleteContent(ctx context.Context, id string, exec ...core.DBExecutor) error
		DeleteContentsByChapterIDs(ctx context.Context, chapterIDs []int, exec ...core.DBExecutor) error
	}

	// NameLookup resolves grade/subject IDs to their display names; backed
	// by the catalog service.
	NameLookup interface {
		GradeName(ctx context.Context, id int) (string, error)
		SubjectName(ctx context.Context, id int) (string, error)
	}

	Service struct {
		repo   Repository
		names  NameLookup
		logger core.Logger
	}
)

func NewService(repo Repository, names NameLookup, logger core.Logger) *Service {
	return &Service{repo: repo, names: names, logger: logger}
}

// Resolve returns the content rows matching the raw class/subject values.
//
// The store query filters on the normalized keys; the returned set is then
// post-filtered against the raw caller values when they already are
// canonical keys. The double filter is deliberately redundant: it masks any
// inconsistency between normalized store values and raw comparison values,
// so the rendered set never mixes in content from another (class, subject)
// combination. An unknown subject token drops the subject constraint rather
// than emptying the result.
func (svc *Service) Resolve(ctx context.Context, filter ResolveFilter) ([]Content, error) {
	filter.Clean()

	var qf QueryFilter
	if key, ok := taxonomy.NormalizeClassKey(filter.RawClass); ok {
		qf.Class = key
	}
	if key, ok := taxonomy.NormalizeSubjectKey(filter.RawSubject); ok {
		qf.Subject = key
	} else if filter.RawSubject != "" {
		svc.logger.Debug(fmt.Sprintf("content: unrecognized subject %q, dropping subject filter", filter.RawSubject))
	}

	contents, err := svc.repo.QueryContents(ctx, qf, nil)
	if err != nil {
		return nil, err
	}

	// Post-filter on the raw caller values when they already are canonical
	// keys; raw route tokens have been collapsed into the store filter and
	// cannot be compared against stored keys directly.
	filtered := make([]Content, 0, len(contents))
	for _, cnt := range contents {
		if filter.RawClass == qf.Class && qf.Class != "" && cnt.Class != filter.RawClass {
			continue
		}
		if filter.RawSubject == qf.Subject && qf.Subject != "" && cnt.Subject != filter.RawSubject {
			continue
		}
		filtered = append(filtered, cnt)
	}
	return filtered, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Content, error) {
	return svc.repo.GetContentByID(ctx, id)
}

// QueryAll returns every content row, newest first (the admin listing).
func (svc *Service) QueryAll(ctx context.Context) ([]Content, error) {
	return svc.repo.QueryAllContents(ctx, []core.DBOrdering{{Field: "created_at", Ascending: false}})
}

func (svc *Service) Create(ctx context.Context, nc NewContent) (Content, error) {
	cnt, err := svc.build(ctx, nc)
	if err != nil {
		return Content{}, err
	}
	cnt.ID = uuid.New().String()
	now := time.Now().UTC()
	cnt.CreatedAt = now
	cnt.UpdatedAt = now
	return svc.repo.CreateContent(ctx, cnt)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateContent) (Content, error) {
	orig, err := svc.repo.GetContentByID(ctx, id)
	if err != nil {
		return Content{}, err
	}

	cnt, err := svc.build(ctx, uc.NewContent)
	if err != nil {
		return Content{}, err
	}
	cnt.ID = orig.ID
	cnt.CreatedAt = orig.CreatedAt
	cnt.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateContent(ctx, cnt)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteContent(ctx, id)
}

// DeleteByChapterIDs removes every content row attached to the given
// chapters; used by the admin cascade.
func (svc *Service) DeleteByChapterIDs(ctx context.Context, chapterIDs ...int) error {
	if len(chapterIDs) == 0 {
		return nil
	}
	return svc.repo.DeleteContentsByChapterIDs(ctx, chapterIDs)
}

// build derives the denormalized class/subject keys from the selected grade
// and subject and mirrors the top-level fields into a single page record.
func (svc *Service) build(ctx context.Context, nc NewContent) (Content, error) {
	gradeName, err := svc.names.GradeName(ctx, nc.GradeID)
	if err != nil {
		return Content{}, err
	}
	subjectName, err := svc.names.SubjectName(ctx, nc.SubjectID)
	if err != nil {
		return Content{}, err
	}

	return Content{
		Title:       nc.Title,
		Description: nc.Description,
		ContentType: nc.ContentType,
		YoutubeLink: nc.YoutubeLink,
		FileURL:     nc.FileURL,
		Class:       taxonomy.ClassKeyForGrade(gradeName),
		Subject:     strings.ToLower(subjectName),
		ChapterID:   nc.ChapterID,
		Pages: []Page{{
			Title:       nc.Title,
			Description: nc.Description,
			ContentType: nc.ContentType,
			YoutubeLink: nc.YoutubeLink,
			FileURL:     nc.FileURL,
		}},
	}, nil
}
