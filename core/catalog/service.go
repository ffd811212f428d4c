package catalog

import (
	"context"
	"errors"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/taxonomy"
)

var (
	// errors
	ErrNotFound      = errors.New("not found")
	ErrGradeExists   = errors.New("a grade with this name already exists")
	ErrSubjectExists = errors.New("a subject with this name already exists for this grade")
	ErrChapterExists = errors.New("a chapter with this name already exists for this subject")
	ErrGradeMismatch = errors.New("subject does not belong to this grade")
)

// defaultGradeName is rendered when a class route carries no usable grade
// token at all.
const defaultGradeName = "Grade 5"

type (
	Repository interface {
		// grades
		CheckGradeUniqueness(ctx context.Context, name string, exec ...core.DBExecutor) error
		CreateGrade(ctx context.Context, grade Grade, exec ...core.DBExecutor) (Grade, error)
		QueryGrades(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Grade, error)
		GetGradeByID(ctx context.Context, id int, exec ...core.DBExecutor) (Grade, error)
		GetGradeByName(ctx context.Context, name string, exec ...core.DBExecutor) (Grade, error)
		DeleteGrade(ctx context.Context, id int, exec ...core.DBExecutor) error

		// subjects
		CheckSubjectUniqueness(ctx context.Context, name string, gradeID int, exec ...core.DBExecutor) error
		CreateSubject(ctx context.Context, subject Subject, exec ...core.DBExecutor) (Subject, error)
		QuerySubjects(ctx context.Context, exec ...core.DBExecutor) ([]Subject, error)
		QuerySubjectsByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) ([]Subject, error)
		QuerySubjectIDsByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) ([]int, error)
		GetSubjectByID(ctx context.Context, id int, exec ...core.DBExecutor) (Subject, error)
		DeleteSubject(ctx context.Context, id int, exec ...core.DBExecutor) error
		DeleteSubjectsByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) error

		// chapters
		CheckChapterUniqueness(ctx context.Context, name string, gradeID, subjectID int, exec ...core.DBExecutor) error
		CreateChapter(ctx context.Context, chapter Chapter, exec ...core.DBExecutor) (Chapter, error)
		QueryChapters(ctx context.Context, exec ...core.DBExecutor) ([]Chapter, error)
		QueryChaptersBySubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) ([]Chapter, error)
		QueryChapterIDsByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) ([]int, error)
		QueryChapterIDsBySubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) ([]int, error)
		DeleteChapter(ctx context.Context, id int, exec ...core.DBExecutor) error
		DeleteChaptersByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) error
		DeleteChaptersBySubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) error
	}

	// ContentDeleter is the slice of the content store the cascade
	// coordinator needs: bulk removal of the rows belonging to a chapter set.
	ContentDeleter interface {
		DeleteContentsByChapterIDs(ctx context.Context, chapterIDs []int, exec ...core.DBExecutor) error
	}

	Service struct {
		repo     Repository
		contents ContentDeleter
	}
)

func NewService(repo Repository, contents ContentDeleter) *Service {
	return &Service{repo: repo, contents: contents}
}

func (svc *Service) checkGradeUniqueness(name string) error {
	if err := svc.repo.CheckGradeUniqueness(context.Background(), name); err != nil {
		if err == ErrGradeExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) checkSubjectUniqueness(name string, gradeID int) error {
	if err := svc.repo.CheckSubjectUniqueness(context.Background(), name, gradeID); err != nil {
		if err == ErrSubjectExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) checkChapterUniqueness(name string, gradeID, subjectID int) error {
	if err := svc.repo.CheckChapterUniqueness(context.Background(), name, gradeID, subjectID); err != nil {
		if err == ErrChapterExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) checkSubjectInGrade(subjectID, gradeID int) error {
	subj, err := svc.repo.GetSubjectByID(context.Background(), subjectID)
	if err != nil {
		if err == ErrNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "subject_id", Error: "subject not found"})
		}
		return err
	}
	if subj.GradeID != gradeID {
		return core.NewValidationError(ErrGradeMismatch, core.FieldError{Field: "subject_id", Error: ErrGradeMismatch.Error()})
	}
	return nil
}

func (svc *Service) CreateGrade(ctx context.Context, ng NewGrade) (Grade, error) {
	return svc.repo.CreateGrade(ctx, Grade{Name: ng.Name})
}

func (svc *Service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	if _, err := svc.repo.GetGradeByID(ctx, ns.GradeID); err != nil {
		if err == ErrNotFound {
			return Subject{}, core.NewValidationError(err, core.FieldError{Field: "grade_id", Error: "grade not found"})
		}
		return Subject{}, err
	}
	return svc.repo.CreateSubject(ctx, Subject{Name: ns.Name, Description: ns.Description, GradeID: ns.GradeID})
}

func (svc *Service) CreateChapter(ctx context.Context, nc NewChapter) (Chapter, error) {
	return svc.repo.CreateChapter(ctx, Chapter{Name: nc.Name, GradeID: nc.GradeID, SubjectID: nc.SubjectID})
}

func (svc *Service) QueryGrades(ctx context.Context) ([]Grade, error) {
	return svc.repo.QueryGrades(ctx, []core.DBOrdering{{Field: "name", Ascending: true}})
}

func (svc *Service) QuerySubjects(ctx context.Context) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx)
}

func (svc *Service) QuerySubjectsByGrade(ctx context.Context, gradeID int) ([]Subject, error) {
	return svc.repo.QuerySubjectsByGrade(ctx, gradeID)
}

func (svc *Service) QueryChapters(ctx context.Context) ([]Chapter, error) {
	return svc.repo.QueryChapters(ctx)
}

func (svc *Service) QueryChaptersBySubject(ctx context.Context, subjectID int) ([]Chapter, error) {
	return svc.repo.QueryChaptersBySubject(ctx, subjectID)
}

func (svc *Service) GetGrade(ctx context.Context, id int) (Grade, error) {
	return svc.repo.GetGradeByID(ctx, id)
}

// GradeName and SubjectName satisfy the content service's name lookup.

func (svc *Service) GradeName(ctx context.Context, id int) (string, error) {
	grade, err := svc.repo.GetGradeByID(ctx, id)
	return grade.Name, err
}

func (svc *Service) SubjectName(ctx context.Context, id int) (string, error) {
	subject, err := svc.repo.GetSubjectByID(ctx, id)
	return subject.Name, err
}

// ResolveGrade maps a raw route parameter ("grade-1:1", "nursery", ...) to
// its Grade row. A display-name miss is retried once with the delimiter-
// stripped fallback name; a second miss is ErrNotFound, which callers render
// as an empty result, not a failure.
func (svc *Service) ResolveGrade(ctx context.Context, rawParam string) (Grade, error) {
	norm, ok := taxonomy.NormalizeGradeParam(rawParam)
	name := defaultGradeName
	if ok {
		name = taxonomy.DisplayGradeName(norm)
	}

	grade, err := svc.repo.GetGradeByName(ctx, name)
	if err == ErrNotFound && ok {
		grade, err = svc.repo.GetGradeByName(ctx, taxonomy.FallbackGradeName(name))
	}
	return grade, err
}

// SubjectsForClass resolves the grade behind a raw class route parameter and
// returns its subjects.
func (svc *Service) SubjectsForClass(ctx context.Context, rawParam string) ([]Subject, error) {
	grade, err := svc.ResolveGrade(ctx, rawParam)
	if err != nil {
		return nil, err
	}
	return svc.repo.QuerySubjectsByGrade(ctx, grade.ID)
}
