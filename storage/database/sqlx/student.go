package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/student"
)

type profileRow struct {
	ID        string         `db:"id"`
	Name      sql.NullString `db:"name"`
	Age       sql.NullInt64  `db:"age"`
	Grade     sql.NullString `db:"grade"`
	AvatarURL sql.NullString `db:"avatar_url"`
	Address   sql.NullString `db:"address"`
	Gender    sql.NullString `db:"gender"`
	Bio       sql.NullString `db:"bio"`
}

func (r profileRow) profile() student.Profile {
	return student.Profile{
		ID:        r.ID,
		Name:      r.Name.String,
		Age:       int(r.Age.Int64),
		Grade:     r.Grade.String,
		AvatarURL: r.AvatarURL.String,
		Address:   r.Address.String,
		Gender:    r.Gender.String,
		Bio:       r.Bio.String,
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) GetProfileByID(ctx context.Context, id string, exec ...core.DBExecutor) (student.Profile, error) {
	exe := getExec(repo.db, exec)

	if _, err := uuid.Parse(id); err != nil {
		return student.Profile{}, student.ErrNotFound
	}
	var r profileRow
	if err := sqlx.GetContext(ctx, exe, &r, exe.Rebind(`SELECT * FROM profile WHERE id = ?`), id); err != nil {
		if err == sql.ErrNoRows {
			return student.Profile{}, student.ErrNotFound
		}
		return student.Profile{}, errors.Wrap(err, "finding profile by ID")
	}
	return r.profile(), nil
}

func (repo studentRepository) UpsertProfile(ctx context.Context, profile student.Profile, exec ...core.DBExecutor) (student.Profile, error) {
	exe := getExec(repo.db, exec)

	q := exe.Rebind(`
		INSERT INTO profile (id, name, age, grade, avatar_url, address, gender, bio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, age = EXCLUDED.age, grade = EXCLUDED.grade,
		    avatar_url = EXCLUDED.avatar_url, address = EXCLUDED.address,
		    gender = EXCLUDED.gender, bio = EXCLUDED.bio`)
	_, err := exe.ExecContext(ctx, q,
		profile.ID, profile.Name, profile.Age, profile.Grade, profile.AvatarURL,
		profile.Address, profile.Gender, profile.Bio)
	if err != nil {
		return student.Profile{}, errors.Wrap(err, "upserting profile")
	}
	return profile, nil
}
