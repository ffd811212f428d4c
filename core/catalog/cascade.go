package catalog

import (
	"context"

	"github.com/pkg/errors"
)

// Cascading deletion coordinator.
//
// The store enforces no ON DELETE CASCADE for these tables, so dependent
// rows are removed bottom-up: contents before their chapters, chapters
// before their subjects, subjects before their grade. Each step is an
// independent remote call; nothing is retried, no transaction wraps the
// sequence and prior steps are never rolled back. A failing step aborts the
// remainder and the returned CascadeResult still lists every id targeted so
// far, so callers can reconcile their state optimistically.

// DeleteChapter removes a chapter and its contents.
func (svc *Service) DeleteChapter(ctx context.Context, id int) (CascadeResult, error) {
	res := CascadeResult{ChapterIDs: []int{id}}

	if err := svc.contents.DeleteContentsByChapterIDs(ctx, []int{id}); err != nil {
		return res, errors.Wrap(err, "deleting chapter contents")
	}
	res.ContentsDeleted = true

	if err := svc.repo.DeleteChapter(ctx, id); err != nil {
		return res, errors.Wrap(err, "deleting chapter")
	}
	return res, nil
}

// DeleteSubject removes a subject, its chapters and their contents.
func (svc *Service) DeleteSubject(ctx context.Context, id int) (CascadeResult, error) {
	res := CascadeResult{SubjectIDs: []int{id}}

	chapterIDs, err := svc.repo.QueryChapterIDsBySubject(ctx, id)
	if err != nil {
		return res, errors.Wrap(err, "querying dependent chapters")
	}
	res.ChapterIDs = chapterIDs

	if len(chapterIDs) > 0 {
		if err = svc.contents.DeleteContentsByChapterIDs(ctx, chapterIDs); err != nil {
			return res, errors.Wrap(err, "deleting subject contents")
		}
		res.ContentsDeleted = true
	}

	if err = svc.repo.DeleteChaptersBySubject(ctx, id); err != nil {
		return res, errors.Wrap(err, "deleting subject chapters")
	}
	if err = svc.repo.DeleteSubject(ctx, id); err != nil {
		return res, errors.Wrap(err, "deleting subject")
	}
	return res, nil
}

// DeleteGrade removes a grade with all its subjects, chapters and contents.
func (svc *Service) DeleteGrade(ctx context.Context, id int) (CascadeResult, error) {
	res := CascadeResult{GradeID: id}

	subjectIDs, err := svc.repo.QuerySubjectIDsByGrade(ctx, id)
	if err != nil {
		return res, errors.Wrap(err, "querying dependent subjects")
	}
	res.SubjectIDs = subjectIDs

	chapterIDs, err := svc.repo.QueryChapterIDsByGrade(ctx, id)
	if err != nil {
		return res, errors.Wrap(err, "querying dependent chapters")
	}
	res.ChapterIDs = chapterIDs

	if len(chapterIDs) > 0 {
		if err = svc.contents.DeleteContentsByChapterIDs(ctx, chapterIDs); err != nil {
			return res, errors.Wrap(err, "deleting grade contents")
		}
		res.ContentsDeleted = true
	}

	if err = svc.repo.DeleteChaptersByGrade(ctx, id); err != nil {
		return res, errors.Wrap(err, "deleting grade chapters")
	}
	if err = svc.repo.DeleteSubjectsByGrade(ctx, id); err != nil {
		return res, errors.Wrap(err, "deleting grade subjects")
	}
	if err = svc.repo.DeleteGrade(ctx, id); err != nil {
		return res, errors.Wrap(err, "deleting grade")
	}
	return res, nil
}
