package dummydb

import (
	"context"
	"sort"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/catalog"
	"github.com/eduplaybd/eduplay/core/content"
)

type contentRepository struct {
	db *contentTable
}

// interface compliance checks
var (
	_ content.Repository     = (*contentRepository)(nil)
	_ catalog.ContentDeleter = (*contentRepository)(nil)
)

func NewContentRepository(db *DB) *contentRepository {
	return &contentRepository{db: db.content}
}

func (repo *contentRepository) query(match func(content.Content) bool, ordering []core.DBOrdering) []content.Content {
	contents := make([]content.Content, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		if match(*c) {
			contents = append(contents, *c)
		}
	}

	sort.Slice(contents, func(i, j int) bool { return contents[i].CreatedAt.Before(contents[j].CreatedAt) })
	for _, ord := range ordering {
		if ord.Field == "created_at" && !ord.Ascending {
			sort.Slice(contents, func(i, j int) bool { return contents[i].CreatedAt.After(contents[j].CreatedAt) })
		}
	}
	return contents
}

func (repo *contentRepository) CreateContent(ctx context.Context, cnt content.Content, exec ...core.DBExecutor) (content.Content, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[cnt.ID] = &cnt
	return cnt, nil
}

func (repo *contentRepository) QueryContents(ctx context.Context, filter content.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]content.Content, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return repo.query(func(c content.Content) bool {
		if filter.Class != "" && c.Class != filter.Class {
			return false
		}
		if filter.Subject != "" && c.Subject != filter.Subject {
			return false
		}
		return true
	}, ordering), nil
}

func (repo *contentRepository) QueryAllContents(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]content.Content, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(content.Content) bool { return true }, ordering), nil
}

func (repo *contentRepository) GetContentByID(ctx context.Context, id string, exec ...core.DBExecutor) (content.Content, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return content.Content{}, content.ErrNotFound
}

func (repo *contentRepository) UpdateContent(ctx context.Context, cnt content.Content, exec ...core.DBExecutor) (content.Content, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[cnt.ID]; !ok {
		return content.Content{}, content.ErrNotFound
	}
	repo.db.table[cnt.ID] = &cnt
	return cnt, nil
}

func (repo *contentRepository) DeleteContent(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
	return nil
}

func (repo *contentRepository) DeleteContentsByChapterIDs(ctx context.Context, chapterIDs []int, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, c := range repo.db.table {
		for _, chID := range chapterIDs {
			if c.ChapterID == chID {
				delete(repo.db.table, id)
				break
			}
		}
	}
	return nil
}
