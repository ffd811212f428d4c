package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/content"
	dummydb "github.com/eduplaybd/eduplay/storage/database/dummy"
)

// sloppyRepo ignores the store-side filter and returns every row, standing in
// for a store whose filtering cannot be trusted.
type sloppyRepo struct {
	rows      []content.Content
	gotFilter content.QueryFilter
}

var _ content.Repository = (*sloppyRepo)(nil)

func (r *sloppyRepo) CreateContent(ctx context.Context, cnt content.Content, exec ...core.DBExecutor) (content.Content, error) {
	r.rows = append(r.rows, cnt)
	return cnt, nil
}

func (r *sloppyRepo) QueryContents(ctx context.Context, filter content.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]content.Content, error) {
	r.gotFilter = filter
	return r.rows, nil
}

func (r *sloppyRepo) QueryAllContents(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]content.Content, error) {
	return r.rows, nil
}

func (r *sloppyRepo) GetContentByID(ctx context.Context, id string, exec ...core.DBExecutor) (content.Content, error) {
	for _, cnt := range r.rows {
		if cnt.ID == id {
			return cnt, nil
		}
	}
	return content.Content{}, content.ErrNotFound
}

func (r *sloppyRepo) UpdateContent(ctx context.Context, cnt content.Content, exec ...core.DBExecutor) (content.Content, error) {
	return cnt, nil
}

func (r *sloppyRepo) DeleteContent(ctx context.Context, id string, exec ...core.DBExecutor) error {
	return nil
}

func (r *sloppyRepo) DeleteContentsByChapterIDs(ctx context.Context, chapterIDs []int, exec ...core.DBExecutor) error {
	return nil
}

// nameLookupStub resolves every grade to Grade 1 / Math.
type nameLookupStub struct{}

func (nameLookupStub) GradeName(ctx context.Context, id int) (string, error)   { return "Grade 1", nil }
func (nameLookupStub) SubjectName(ctx context.Context, id int) (string, error) { return "Math", nil }

// testLogger records debug lines and discards the rest.
type testLogger struct{ debugs []string }

func (l *testLogger) Enable(bool)                        {}
func (l *testLogger) Debug(msg string, _ ...interface{}) { l.debugs = append(l.debugs, msg) }
func (l *testLogger) Info(string, ...interface{})        {}
func (l *testLogger) Warn(string, ...interface{})        {}
func (l *testLogger) Error(string, ...interface{})       {}
func (l *testLogger) Fatal(string, ...interface{})       {}

var _ core.Logger = (*testLogger)(nil)

func sloppyRows() []content.Content {
	return []content.Content{
		{ID: "a", Title: "Counting", Class: "1st", Subject: "math"},
		{ID: "b", Title: "Alphabet", Class: "1st", Subject: "english"},
		{ID: "c", Title: "Numbers", Class: "2nd", Subject: "math"},
	}
}

func TestResolveDoubleFilter(t *testing.T) {
	repo := &sloppyRepo{rows: sloppyRows()}
	svc := content.NewService(repo, nameLookupStub{}, &testLogger{})

	// the store leaks other classes' rows; the post-filter must drop them
	contents, err := svc.Resolve(context.Background(), content.ResolveFilter{RawClass: "1st", RawSubject: "math"})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "a", contents[0].ID)
	assert.Equal(t, content.QueryFilter{Class: "1st", Subject: "math"}, repo.gotFilter)
}

func TestResolveUnknownSubjectDropsConstraint(t *testing.T) {
	repo := &sloppyRepo{rows: sloppyRows()}
	logger := &testLogger{}
	svc := content.NewService(repo, nameLookupStub{}, logger)

	contents, err := svc.Resolve(context.Background(), content.ResolveFilter{RawClass: "1st", RawSubject: "xyz"})
	require.NoError(t, err)

	// the store query carries no subject constraint, not an impossible one
	assert.Equal(t, content.QueryFilter{Class: "1st"}, repo.gotFilter)
	require.Len(t, contents, 2)
	for _, cnt := range contents {
		assert.Equal(t, "1st", cnt.Class)
	}
	assert.NotEmpty(t, logger.debugs)
}

func TestResolveRouteTokenTrustsStoreFilter(t *testing.T) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewContentRepository(db)
	svc := content.NewService(repo, nameLookupStub{}, &testLogger{})
	ctx := context.Background()

	for _, cnt := range sloppyRows() {
		_, err = repo.CreateContent(ctx, cnt)
		require.NoError(t, err)
	}

	// a raw route token normalizes into the store filter and is not compared
	// against stored keys afterwards
	contents, err := svc.Resolve(ctx, content.ResolveFilter{RawClass: "Grade-1:1", RawSubject: "Mathematics101"})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "a", contents[0].ID)
}

func TestResolveEmptyFilterReturnsAll(t *testing.T) {
	repo := &sloppyRepo{rows: sloppyRows()}
	svc := content.NewService(repo, nameLookupStub{}, &testLogger{})

	contents, err := svc.Resolve(context.Background(), content.ResolveFilter{})
	require.NoError(t, err)
	assert.Len(t, contents, 3)
}

func TestCreateDerivesDenormalizedKeys(t *testing.T) {
	repo := &sloppyRepo{}
	svc := content.NewService(repo, nameLookupStub{}, &testLogger{})

	cnt, err := svc.Create(context.Background(), content.NewContent{
		GradeID:     1,
		SubjectID:   2,
		ChapterID:   3,
		Title:       "Counting to ten",
		Description: "Numbers 1-10",
		ContentType: content.TypeYoutube,
		YoutubeLink: "https://youtube.com/watch?v=abc",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, cnt.ID)
	assert.Equal(t, "1st", cnt.Class)
	assert.Equal(t, "math", cnt.Subject)
	assert.Equal(t, 3, cnt.ChapterID)
	assert.False(t, cnt.CreatedAt.IsZero())

	// the top-level fields are mirrored into a single page
	require.Len(t, cnt.Pages, 1)
	assert.Equal(t, cnt.Title, cnt.Pages[0].Title)
	assert.Equal(t, cnt.YoutubeLink, cnt.Pages[0].YoutubeLink)
}
