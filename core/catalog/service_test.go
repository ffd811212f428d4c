package catalog_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/catalog"
	dummydb "github.com/eduplaybd/eduplay/storage/database/dummy"
)

func TestMain(m *testing.M) {
	core.InitValidators()
	os.Exit(m.Run())
}

func newTestService(t *testing.T) (*catalog.Service, *dummydb.DB) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)
	return catalog.NewService(dummydb.NewCatalogRepository(db), dummydb.NewContentRepository(db)), db
}

func seedGrades(t *testing.T, svc *catalog.Service, names ...string) map[string]catalog.Grade {
	t.Helper()
	ctx := context.Background()
	grades := make(map[string]catalog.Grade, len(names))
	for _, name := range names {
		g, err := svc.CreateGrade(ctx, catalog.NewGrade{Name: name})
		require.NoError(t, err)
		grades[name] = g
	}
	return grades
}

func TestResolveGrade(t *testing.T) {
	svc, _ := newTestService(t)
	seedGrades(t, svc, "Nursery", "Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5")
	ctx := context.Background()

	tests := []struct {
		name     string
		rawParam string
		want     string
		wantErr  error
	}{
		{name: "short key", rawParam: "nursery", want: "Nursery"},
		{name: "ordinal key", rawParam: "1st", want: "Grade 1"},
		{name: "grade with dash", rawParam: "grade-2", want: "Grade 2"},
		{name: "grade with underscore", rawParam: "grade_3", want: "Grade 3"},
		{name: "percent encoded", rawParam: "grade%204", want: "Grade 4"},
		{name: "empty falls back to default", rawParam: "", want: "Grade 5"},
		{name: "qualifier resolved on second lookup", rawParam: "Grade-1:1", want: "Grade 1"},
		{name: "unknown grade", rawParam: "kindergarten", wantErr: catalog.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grade, err := svc.ResolveGrade(ctx, tt.rawParam)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, grade.Name)
		})
	}
}

func TestSubjectsForClass(t *testing.T) {
	svc, _ := newTestService(t)
	grades := seedGrades(t, svc, "Grade 1", "Grade 2")
	ctx := context.Background()

	_, err := svc.CreateSubject(ctx, catalog.NewSubject{Name: "Math", GradeID: grades["Grade 1"].ID})
	require.NoError(t, err)
	_, err = svc.CreateSubject(ctx, catalog.NewSubject{Name: "English", GradeID: grades["Grade 1"].ID})
	require.NoError(t, err)
	_, err = svc.CreateSubject(ctx, catalog.NewSubject{Name: "Science", GradeID: grades["Grade 2"].ID})
	require.NoError(t, err)

	subjects, err := svc.SubjectsForClass(ctx, "1st")
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	for _, s := range subjects {
		assert.Equal(t, grades["Grade 1"].ID, s.GradeID)
	}
}

func TestNewGradeValidate(t *testing.T) {
	svc, _ := newTestService(t)
	seedGrades(t, svc, "Grade 1")

	ng := catalog.NewGrade{Name: "Grade 1"}
	err := ng.Validate(svc)
	require.Error(t, err)
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))

	ng = catalog.NewGrade{Name: " Grade 2 "}
	require.NoError(t, ng.Validate(svc))
	assert.Equal(t, "Grade 2", ng.Name)
}

func TestNewChapterValidateGradeMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	grades := seedGrades(t, svc, "Grade 1", "Grade 2")
	ctx := context.Background()

	subj, err := svc.CreateSubject(ctx, catalog.NewSubject{Name: "Math", GradeID: grades["Grade 1"].ID})
	require.NoError(t, err)

	nc := catalog.NewChapter{Name: "Numbers", GradeID: grades["Grade 2"].ID, SubjectID: subj.ID}
	err = nc.Validate(svc)
	require.Error(t, err)
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))

	nc = catalog.NewChapter{Name: "Numbers", GradeID: grades["Grade 1"].ID, SubjectID: subj.ID}
	require.NoError(t, nc.Validate(svc))
}
