package dummydb

import (
	"context"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/student"
)

type studentRepository struct {
	db *profileTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) GetProfileByID(ctx context.Context, id string, exec ...core.DBExecutor) (student.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[id]; ok {
		return *p, nil
	}
	return student.Profile{}, student.ErrNotFound
}

func (repo *studentRepository) UpsertProfile(ctx context.Context, profile student.Profile, exec ...core.DBExecutor) (student.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[profile.ID] = &profile
	return profile, nil
}
