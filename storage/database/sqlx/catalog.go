package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/catalog"
)

type (
	gradeRow struct {
		ID        int       `db:"id"`
		Name      string    `db:"name"`
		CreatedAt time.Time `db:"created_at"`
	}

	subjectRow struct {
		ID          int            `db:"id"`
		Name        string         `db:"name"`
		Description sql.NullString `db:"description"`
		GradeID     int            `db:"grade_id"`
	}

	chapterRow struct {
		ID        int    `db:"id"`
		Name      string `db:"name"`
		GradeID   int    `db:"grade_id"`
		SubjectID int    `db:"subject_id"`
	}
)

func (r gradeRow) grade() catalog.Grade {
	return catalog.Grade{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}

func (r subjectRow) subject() catalog.Subject {
	return catalog.Subject{ID: r.ID, Name: r.Name, Description: r.Description.String, GradeID: r.GradeID}
}

func (r chapterRow) chapter() catalog.Chapter {
	return catalog.Chapter{ID: r.ID, Name: r.Name, GradeID: r.GradeID, SubjectID: r.SubjectID}
}

type catalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *sqlx.DB) *catalogRepository {
	return &catalogRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to catalog.ErrNotFound
func (repo catalogRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return catalog.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// grades

func (repo catalogRepository) CheckGradeUniqueness(ctx context.Context, name string, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	var exists bool
	q := exe.Rebind(`SELECT EXISTS (SELECT 1 FROM grade WHERE lower(name) = lower(?))`)
	if err := sqlx.GetContext(ctx, exe, &exists, q, name); err != nil {
		return errors.Wrap(err, "checking grade uniqueness")
	}
	if exists {
		return catalog.ErrGradeExists
	}
	return nil
}

func (repo catalogRepository) CreateGrade(ctx context.Context, grade catalog.Grade, exec ...core.DBExecutor) (catalog.Grade, error) {
	exe := getExec(repo.db, exec)

	q := exe.Rebind(`INSERT INTO grade (name, created_at) VALUES (?, ?) RETURNING id, created_at`)
	row := exe.QueryRowxContext(ctx, q, grade.Name, time.Now().UTC())
	if err := row.Scan(&grade.ID, &grade.CreatedAt); err != nil {
		return catalog.Grade{}, errors.Wrap(err, "inserting grade")
	}
	return grade, nil
}

func (repo catalogRepository) QueryGrades(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]catalog.Grade, error) {
	exe := getExec(repo.db, exec)

	var rows []gradeRow
	q := `SELECT * FROM grade` + orderClause(ordering)
	if err := sqlx.SelectContext(ctx, exe, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	grades := make([]catalog.Grade, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, r.grade())
	}
	return grades, nil
}

func (repo catalogRepository) GetGradeByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Grade, error) {
	exe := getExec(repo.db, exec)

	var r gradeRow
	if err := sqlx.GetContext(ctx, exe, &r, exe.Rebind(`SELECT * FROM grade WHERE id = ?`), id); err != nil {
		return catalog.Grade{}, repo.trapNoRowsErr(err, "finding grade by ID")
	}
	return r.grade(), nil
}

func (repo catalogRepository) GetGradeByName(ctx context.Context, name string, exec ...core.DBExecutor) (catalog.Grade, error) {
	exe := getExec(repo.db, exec)

	var r gradeRow
	q := exe.Rebind(`SELECT * FROM grade WHERE lower(name) = lower(?)`)
	if err := sqlx.GetContext(ctx, exe, &r, q, name); err != nil {
		return catalog.Grade{}, repo.trapNoRowsErr(err, "finding grade by name")
	}
	return r.grade(), nil
}

func (repo catalogRepository) DeleteGrade(ctx context.Context, id int, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	if _, err := exe.ExecContext(ctx, exe.Rebind(`DELETE FROM grade WHERE id = ?`), id); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return nil
}

// subjects

func (repo catalogRepository) CheckSubjectUniqueness(ctx context.Context, name string, gradeID int, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	var exists bool
	q := exe.Rebind(`SELECT EXISTS (SELECT 1 FROM subject WHERE lower(name) = lower(?) AND grade_id = ?)`)
	if err := sqlx.GetContext(ctx, exe, &exists, q, name, gradeID); err != nil {
		return errors.Wrap(err, "checking subject uniqueness")
	}
	if exists {
		return catalog.ErrSubjectExists
	}
	return nil
}

func (repo catalogRepository) CreateSubject(ctx context.Context, subject catalog.Subject, exec ...core.DBExecutor) (catalog.Subject, error) {
	exe := getExec(repo.db, exec)

	q := exe.Rebind(`INSERT INTO subject (name, description, grade_id) VALUES (?, ?, ?) RETURNING id`)
	row := exe.QueryRowxContext(ctx, q, subject.Name, subject.Description, subject.GradeID)
	if err := row.Scan(&subject.ID); err != nil {
		return catalog.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return subject, nil
}

func (repo catalogRepository) QuerySubjects(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Subject, error) {
	return repo.querySubjects(ctx, getExec(repo.db, exec), `SELECT * FROM subject ORDER BY grade_id, name`)
}

func (repo catalogRepository) QuerySubjectsByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) ([]catalog.Subject, error) {
	exe := getExec(repo.db, exec)
	return repo.querySubjects(ctx, exe, exe.Rebind(`SELECT * FROM subject WHERE grade_id = ? ORDER BY name`), gradeID)
}

func (repo catalogRepository) querySubjects(ctx context.Context, exe sqlx.ExtContext, q string, args ...interface{}) ([]catalog.Subject, error) {
	var rows []subjectRow
	if err := sqlx.SelectContext(ctx, exe, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]catalog.Subject, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, r.subject())
	}
	return subjects, nil
}

func (repo catalogRepository) QuerySubjectIDsByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) ([]int, error) {
	exe := getExec(repo.db, exec)
	return repo.queryIDs(ctx, exe, exe.Rebind(`SELECT id FROM subject WHERE grade_id = ?`), "querying subject IDs", gradeID)
}

func (repo catalogRepository) GetSubjectByID(ctx context.Context, id int, exec ...core.DBExecutor) (catalog.Subject, error) {
	exe := getExec(repo.db, exec)

	var r subjectRow
	if err := sqlx.GetContext(ctx, exe, &r, exe.Rebind(`SELECT * FROM subject WHERE id = ?`), id); err != nil {
		return catalog.Subject{}, repo.trapNoRowsErr(err, "finding subject by ID")
	}
	return r.subject(), nil
}

func (repo catalogRepository) DeleteSubject(ctx context.Context, id int, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	if _, err := exe.ExecContext(ctx, exe.Rebind(`DELETE FROM subject WHERE id = ?`), id); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return nil
}

func (repo catalogRepository) DeleteSubjectsByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	if _, err := exe.ExecContext(ctx, exe.Rebind(`DELETE FROM subject WHERE grade_id = ?`), gradeID); err != nil {
		return errors.Wrap(err, "deleting grade subjects")
	}
	return nil
}

// chapters

func (repo catalogRepository) CheckChapterUniqueness(ctx context.Context, name string, gradeID, subjectID int, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	var exists bool
	q := exe.Rebind(`SELECT EXISTS (SELECT 1 FROM chapter WHERE lower(name) = lower(?) AND grade_id = ? AND subject_id = ?)`)
	if err := sqlx.GetContext(ctx, exe, &exists, q, name, gradeID, subjectID); err != nil {
		return errors.Wrap(err, "checking chapter uniqueness")
	}
	if exists {
		return catalog.ErrChapterExists
	}
	return nil
}

func (repo catalogRepository) CreateChapter(ctx context.Context, chapter catalog.Chapter, exec ...core.DBExecutor) (catalog.Chapter, error) {
	exe := getExec(repo.db, exec)

	q := exe.Rebind(`INSERT INTO chapter (name, grade_id, subject_id) VALUES (?, ?, ?) RETURNING id`)
	row := exe.QueryRowxContext(ctx, q, chapter.Name, chapter.GradeID, chapter.SubjectID)
	if err := row.Scan(&chapter.ID); err != nil {
		return catalog.Chapter{}, errors.Wrap(err, "inserting chapter")
	}
	return chapter, nil
}

func (repo catalogRepository) QueryChapters(ctx context.Context, exec ...core.DBExecutor) ([]catalog.Chapter, error) {
	return repo.queryChapters(ctx, getExec(repo.db, exec), `SELECT * FROM chapter ORDER BY grade_id, subject_id, name`)
}

func (repo catalogRepository) QueryChaptersBySubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) ([]catalog.Chapter, error) {
	exe := getExec(repo.db, exec)
	return repo.queryChapters(ctx, exe, exe.Rebind(`SELECT * FROM chapter WHERE subject_id = ? ORDER BY name`), subjectID)
}

func (repo catalogRepository) queryChapters(ctx context.Context, exe sqlx.ExtContext, q string, args ...interface{}) ([]catalog.Chapter, error) {
	var rows []chapterRow
	if err := sqlx.SelectContext(ctx, exe, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying chapters")
	}
	chapters := make([]catalog.Chapter, 0, len(rows))
	for _, r := range rows {
		chapters = append(chapters, r.chapter())
	}
	return chapters, nil
}

func (repo catalogRepository) QueryChapterIDsByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) ([]int, error) {
	exe := getExec(repo.db, exec)
	return repo.queryIDs(ctx, exe, exe.Rebind(`SELECT id FROM chapter WHERE grade_id = ?`), "querying chapter IDs", gradeID)
}

func (repo catalogRepository) QueryChapterIDsBySubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) ([]int, error) {
	exe := getExec(repo.db, exec)
	return repo.queryIDs(ctx, exe, exe.Rebind(`SELECT id FROM chapter WHERE subject_id = ?`), "querying chapter IDs", subjectID)
}

func (repo catalogRepository) DeleteChapter(ctx context.Context, id int, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	if _, err := exe.ExecContext(ctx, exe.Rebind(`DELETE FROM chapter WHERE id = ?`), id); err != nil {
		return errors.Wrap(err, "deleting chapter")
	}
	return nil
}

func (repo catalogRepository) DeleteChaptersByGrade(ctx context.Context, gradeID int, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	if _, err := exe.ExecContext(ctx, exe.Rebind(`DELETE FROM chapter WHERE grade_id = ?`), gradeID); err != nil {
		return errors.Wrap(err, "deleting grade chapters")
	}
	return nil
}

func (repo catalogRepository) DeleteChaptersBySubject(ctx context.Context, subjectID int, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	if _, err := exe.ExecContext(ctx, exe.Rebind(`DELETE FROM chapter WHERE subject_id = ?`), subjectID); err != nil {
		return errors.Wrap(err, "deleting subject chapters")
	}
	return nil
}

func (repo catalogRepository) queryIDs(ctx context.Context, exe sqlx.ExtContext, q, msg string, args ...interface{}) ([]int, error) {
	var ids []int
	if err := sqlx.SelectContext(ctx, exe, &ids, q, args...); err != nil {
		return nil, errors.Wrap(err, msg)
	}
	return ids, nil
}
