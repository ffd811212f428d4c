package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/catalog"
	"github.com/eduplaybd/eduplay/core/content"
)

type contentRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	ContentType string         `db:"content_type"`
	YoutubeLink sql.NullString `db:"youtube_link"`
	FileURL     sql.NullString `db:"file_url"`
	Class       sql.NullString `db:"class"`
	Subject     sql.NullString `db:"subject"`
	ChapterID   sql.NullInt64  `db:"chapter_id"`
	Pages       types.JSONText `db:"pages"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r contentRow) content() (content.Content, error) {
	cnt := content.Content{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description.String,
		ContentType: r.ContentType,
		YoutubeLink: r.YoutubeLink.String,
		FileURL:     r.FileURL.String,
		Class:       r.Class.String,
		Subject:     r.Subject.String,
		ChapterID:   int(r.ChapterID.Int64),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if len(r.Pages) > 0 {
		if err := json.Unmarshal(r.Pages, &cnt.Pages); err != nil {
			return content.Content{}, errors.Wrap(err, "decoding content pages")
		}
	}
	return cnt, nil
}

type contentRepository struct {
	db *sqlx.DB
}

// interface compliance checks
var (
	_ content.Repository     = (*contentRepository)(nil)
	_ catalog.ContentDeleter = (*contentRepository)(nil)
)

func NewContentRepository(db *sqlx.DB) *contentRepository {
	return &contentRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to content.ErrNotFound
func (repo contentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return content.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo contentRepository) CreateContent(ctx context.Context, cnt content.Content, exec ...core.DBExecutor) (content.Content, error) {
	exe := getExec(repo.db, exec)

	pages, err := json.Marshal(cnt.Pages)
	if err != nil {
		return content.Content{}, errors.Wrap(err, "encoding content pages")
	}
	q := exe.Rebind(`
		INSERT INTO content (id, title, description, content_type, youtube_link, file_url, class, subject, chapter_id, pages, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = exe.ExecContext(ctx, q,
		cnt.ID, cnt.Title, cnt.Description, cnt.ContentType, cnt.YoutubeLink, cnt.FileURL,
		cnt.Class, cnt.Subject, cnt.ChapterID, types.JSONText(pages), cnt.CreatedAt.UTC(), cnt.UpdatedAt.UTC())
	if err != nil {
		return content.Content{}, errors.Wrap(err, "inserting content")
	}
	return cnt, nil
}

func (repo contentRepository) QueryContents(ctx context.Context, filter content.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]content.Content, error) {
	exe := getExec(repo.db, exec)

	var conds []string
	var args []interface{}
	if filter.Class != "" {
		conds = append(conds, "class = ?")
		args = append(args, filter.Class)
	}
	if filter.Subject != "" {
		conds = append(conds, "subject = ?")
		args = append(args, filter.Subject)
	}
	q := `SELECT * FROM content` + whereClause(conds) + orderClause(ordering)
	return repo.queryContents(ctx, exe, exe.Rebind(q), args...)
}

func (repo contentRepository) QueryAllContents(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]content.Content, error) {
	exe := getExec(repo.db, exec)
	return repo.queryContents(ctx, exe, `SELECT * FROM content`+orderClause(ordering))
}

func (repo contentRepository) queryContents(ctx context.Context, exe sqlx.ExtContext, q string, args ...interface{}) ([]content.Content, error) {
	var rows []contentRow
	if err := sqlx.SelectContext(ctx, exe, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying contents")
	}
	contents := make([]content.Content, 0, len(rows))
	for _, r := range rows {
		cnt, err := r.content()
		if err != nil {
			return nil, err
		}
		contents = append(contents, cnt)
	}
	return contents, nil
}

func (repo contentRepository) GetContentByID(ctx context.Context, id string, exec ...core.DBExecutor) (content.Content, error) {
	exe := getExec(repo.db, exec)

	if _, err := uuid.Parse(id); err != nil {
		return content.Content{}, content.ErrNotFound
	}
	var r contentRow
	if err := sqlx.GetContext(ctx, exe, &r, exe.Rebind(`SELECT * FROM content WHERE id = ?`), id); err != nil {
		return content.Content{}, repo.trapNoRowsErr(err, "finding content by ID")
	}
	return r.content()
}

func (repo contentRepository) UpdateContent(ctx context.Context, cnt content.Content, exec ...core.DBExecutor) (content.Content, error) {
	exe := getExec(repo.db, exec)

	pages, err := json.Marshal(cnt.Pages)
	if err != nil {
		return content.Content{}, errors.Wrap(err, "encoding content pages")
	}
	q := exe.Rebind(`
		UPDATE content
		SET title = ?, description = ?, content_type = ?, youtube_link = ?, file_url = ?,
		    class = ?, subject = ?, chapter_id = ?, pages = ?, updated_at = ?
		WHERE id = ?`)
	res, err := exe.ExecContext(ctx, q,
		cnt.Title, cnt.Description, cnt.ContentType, cnt.YoutubeLink, cnt.FileURL,
		cnt.Class, cnt.Subject, cnt.ChapterID, types.JSONText(pages), cnt.UpdatedAt.UTC(), cnt.ID)
	if err != nil {
		return content.Content{}, errors.Wrap(err, "updating content")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return content.Content{}, content.ErrNotFound
	}
	return cnt, nil
}

func (repo contentRepository) DeleteContent(ctx context.Context, id string, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	if _, err := exe.ExecContext(ctx, exe.Rebind(`DELETE FROM content WHERE id = ?`), id); err != nil {
		return errors.Wrap(err, "deleting content")
	}
	return nil
}

func (repo contentRepository) DeleteContentsByChapterIDs(ctx context.Context, chapterIDs []int, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	if len(chapterIDs) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM content WHERE chapter_id IN (?)`, chapterIDs)
	if err != nil {
		return errors.Wrap(err, "deleting chapter contents")
	}
	if _, err = exe.ExecContext(ctx, exe.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting chapter contents")
	}
	return nil
}
