package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/user"
)

type userRow struct {
	ID           string         `db:"id"`
	Name         sql.NullString `db:"name"`
	Email        string         `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

func (r userRow) user() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name.String,
		Email:        r.Email,
		IsActive:     r.IsActive,
		Roles:        r.Roles,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []user.User, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	q := `SELECT EXISTS (SELECT 1 FROM "user" WHERE email = ?)`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		var err error
		q, args, err = sqlx.In(`SELECT EXISTS (SELECT 1 FROM "user" WHERE email = ? AND id NOT IN (?))`, email, ids)
		if err != nil {
			return errors.Wrap(err, "checking email uniqueness")
		}
	}

	var exists bool
	if err := sqlx.GetContext(ctx, exe, &exists, exe.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	exe := getExec(repo.db, exec)

	usr.ID = uuid.New().String()
	q := exe.Rebind(`
		INSERT INTO "user" (id, name, email, is_active, roles, password_hash, created_at, updated_at, last_login)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := exe.ExecContext(ctx, q,
		usr.ID, usr.Name, usr.Email, usr.IsActive, pq.Array(usr.Roles), usr.PasswordHash,
		usr.CreatedAt.UTC(), usr.UpdatedAt.UTC(), nullTime(usr.LastLogin))
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]user.User, error) {
	exe := getExec(repo.db, exec)

	q := `SELECT * FROM "user"`
	var conds []string
	var args []interface{}

	if filter != nil {
		if filter.Search != "" {
			conds = append(conds, "(name ILIKE ? OR email ILIKE ?)")
			val := "%" + filter.Search + "%"
			args = append(args, val, val)
		}
		// users with any role that starts with any of the provided roles
		for _, role := range filter.Roles {
			conds = append(conds, "id IN (SELECT id FROM \"user\", UNNEST(roles) user_role WHERE user_role ILIKE ?)")
			args = append(args, role+"%")
		}
		if filter.IsActive != nil {
			conds = append(conds, "is_active = ?")
			args = append(args, *filter.IsActive)
		}
		if !filter.CreatedFrom.IsZero() {
			conds = append(conds, "created_at >= ?")
			args = append(args, filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			conds = append(conds, "created_at <= ?")
			args = append(args, filter.CreatedTo.UTC())
		}
	}
	q += whereClause(conds) + orderClause(ordering)

	var rows []userRow
	if err := sqlx.SelectContext(ctx, exe, &rows, exe.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.user())
	}
	return users, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string, exec ...core.DBExecutor) (user.User, error) {
	exe := getExec(repo.db, exec)

	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrNotFound
	}
	var r userRow
	if err := sqlx.GetContext(ctx, exe, &r, exe.Rebind(`SELECT * FROM "user" WHERE id = ?`), id); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by ID")
	}
	return r.user(), nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (user.User, error) {
	exe := getExec(repo.db, exec)

	var r userRow
	if err := sqlx.GetContext(ctx, exe, &r, exe.Rebind(`SELECT * FROM "user" WHERE email = ?`), email); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by email")
	}
	return r.user(), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool, exec ...core.DBExecutor) (user.User, error) {
	exe := getExec(repo.db, exec)

	orig, err := repo.GetUserByID(ctx, usr.ID, exec...)
	if err != nil {
		return user.User{}, err
	}

	// only save set fields
	if usr.Roles != nil {
		orig.Roles = usr.Roles
	}
	if usr.PasswordHash != nil {
		orig.PasswordHash = usr.PasswordHash
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	if usr.Name != "" {
		orig.Name = usr.Name
	}
	if usr.Email != "" {
		orig.Email = usr.Email
	}
	if !usr.LastLogin.IsZero() {
		orig.LastLogin = usr.LastLogin
	}
	orig.UpdatedAt = usr.UpdatedAt

	q := exe.Rebind(`
		UPDATE "user"
		SET name = ?, email = ?, is_active = ?, roles = ?, password_hash = ?, updated_at = ?, last_login = ?
		WHERE id = ?`)
	_, err = exe.ExecContext(ctx, q,
		orig.Name, orig.Email, orig.IsActive, pq.Array(orig.Roles), orig.PasswordHash,
		orig.UpdatedAt.UTC(), nullTime(orig.LastLogin), orig.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return orig, nil
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting users")
	}
	if _, err = exe.ExecContext(ctx, exe.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}
