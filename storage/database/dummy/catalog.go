package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/catalog"
)

type catalogRepository struct {
	db *catalogTables
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db.catalog}
}

// grades

func (repo *catalogRepository) CheckGradeUniqueness(ctx context.Context, name string, exec ...core.DBExecutor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, g := range repo.db.grades {
		if strings.EqualFold(g.Name, name) {
			return catalog.ErrGradeExists
		}
	}
	return nil
}

func (repo *catalogRepository) CreateGrade(ctx context.Context, grade catalog.Grade, exec ...core.DBExecutor) (catalog.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.gradePK++
	grade.ID = repo.db.gradePK
	grade.CreatedAt = time.Now().UTC()
	repo.db.grades[grade.ID] = &grade
	return grade, nil
}

func (repo *catalogRepository) QueryGrades(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]catalog.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	grades := make([]catalog.Grade, 0, len(repo.db.grades))
	for _, g := range repo.db.grades {
		grades = append(grades, *g)
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].ID < grades[j].ID })
	return grades, nil
}

func (repo *catalogRepository) GetGradeByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if g, ok := repo.db.grades[id]; ok {
		return *g, nil
	}
	return catalog.Grade{}, catalog.ErrNotFound
}

func (repo *catalogRepository) GetGradeByName(ctx context.Context, name string, exec ...core.DBExecutor) (catalog.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, g := range repo.db.grades {
		if strings.EqualFold(g.Name, name) {
			return *g, nil
		}
	}
	return catalog.Grade{}, catalog.ErrNotFound
}

func (repo *catalogRepository) DeleteGrade(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.grades, id)
	return nil
}

// subjects

func (repo *catalogRepository) CheckSubjectUniqueness(ctx context.Context, name string, gradeID int, exec ...core.DBExecutor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.subjects {
		if s.GradeID == gradeID && strings.EqualFold(s.Name, name) {
			return catalog.ErrSubjectExists
		}
	}
	return nil
}

func (repo *catalogRepository) CreateSubject(ctx context.Context, subject catalog.Subject, exec ...core.DBExecutor) (catalog.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.subjectPK++
	subject.ID = repo.db.subjectPK
	repo.db.subjects[subject.ID] = &subject
	return subject, nil
}

func (repo *catalogRepository) QuerySubjects(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.querySubjects(func(catalog.Subject) bool { return true }), nil
}

func (repo *catalogRepository) QuerySubjectsByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) ([]catalog.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.querySubjects(func(s catalog.Subject) bool { return s.GradeID == gradeID }), nil
}

func (repo *catalogRepository) querySubjects(match func(catalog.Subject) bool) []catalog.Subject {
	subjects := make([]catalog.Subject, 0, len(repo.db.subjects))
	for _, s := range repo.db.subjects {
		if match(*s) {
			subjects = append(subjects, *s)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
	return subjects
}

func (repo *catalogRepository) QuerySubjectIDsByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) ([]int, error) {
	subjects, _ := repo.QuerySubjectsByGrade(ctx, gradeID)
	ids := make([]int, 0, len(subjects))
	for _, s := range subjects {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (repo *catalogRepository) GetSubjectByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.subjects[id]; ok {
		return *s, nil
	}
	return catalog.Subject{}, catalog.ErrNotFound
}

func (repo *catalogRepository) DeleteSubject(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.subjects, id)
	return nil
}

func (repo *catalogRepository) DeleteSubjectsByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for id, s := range repo.db.subjects {
		if s.GradeID == gradeID {
			delete(repo.db.subjects, id)
		}
	}
	return nil
}

// chapters

func (repo *catalogRepository) CheckChapterUniqueness(ctx context.Context, name string, gradeID, subjectID int, exec ...core.DBExecutor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.chapters {
		if c.GradeID == gradeID && c.SubjectID == subjectID && strings.EqualFold(c.Name, name) {
			return catalog.ErrChapterExists
		}
	}
	return nil
}

func (repo *catalogRepository) CreateChapter(ctx context.Context, chapter catalog.Chapter, exec ...core.DBExecutor) (catalog.Chapter, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.chapterPK++
	chapter.ID = repo.db.chapterPK
	repo.db.chapters[chapter.ID] = &chapter
	return chapter, nil
}

func (repo *catalogRepository) QueryChapters(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Chapter, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.queryChapters(func(catalog.Chapter) bool { return true }), nil
}

func (repo *catalogRepository) QueryChaptersBySubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) ([]catalog.Chapter, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.queryChapters(func(c catalog.Chapter) bool { return c.SubjectID == subjectID }), nil
}

func (repo *catalogRepository) queryChapters(match func(catalog.Chapter) bool) []catalog.Chapter {
	chapters := make([]catalog.Chapter, 0, len(repo.db.chapters))
	for _, c := range repo.db.chapters {
		if match(*c) {
			chapters = append(chapters, *c)
		}
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].ID < chapters[j].ID })
	return chapters
}

func (repo *catalogRepository) QueryChapterIDsByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) ([]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return chapterIDs(repo.queryChapters(func(c catalog.Chapter) bool { return c.GradeID == gradeID })), nil
}

func (repo *catalogRepository) QueryChapterIDsBySubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) ([]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return chapterIDs(repo.queryChapters(func(c catalog.Chapter) bool { return c.SubjectID == subjectID })), nil
}

func (repo *catalogRepository) DeleteChapter(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.chapters, id)
	return nil
}

func (repo *catalogRepository) DeleteChaptersByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for id, c := range repo.db.chapters {
		if c.GradeID == gradeID {
			delete(repo.db.chapters, id)
		}
	}
	return nil
}

func (repo *catalogRepository) DeleteChaptersBySubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for id, c := range repo.db.chapters {
		if c.SubjectID == subjectID {
			delete(repo.db.chapters, id)
		}
	}
	return nil
}

func chapterIDs(chapters []catalog.Chapter) []int {
	ids := make([]int, 0, len(chapters))
	for _, c := range chapters {
		ids = append(ids, c.ID)
	}
	return ids
}
