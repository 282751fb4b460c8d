package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
)

var userColumns = []string{"id", "name", "email", "avatar", "password_hash", "created_at"}

type postgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(db *pgxpool.Pool) user.Repository {
	return &postgresUserRepo{db: db}
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Avatar, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperror.NewInternal("failed to query user", err)
	}
	return u, nil
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(sq.Eq{"email": email}).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build user query", err)
	}
	return scanUser(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build user query", err)
	}
	return scanUser(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*user.User, error) {
	out := make(map[uuid.UUID]*user.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	// uuid.UUID is an array, which squirrel would expand into an IN list.
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	query, args, err := psql.Select(userColumns...).From("users").Where(sq.Eq{"id": keys}).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build user query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query users", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating user rows", err)
	}
	return out, nil
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, email, avatar, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, u.ID, u.Name, u.Email, u.Avatar, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return user.ErrEmailTaken
		}
		return apperror.NewInternal("failed to insert user", err)
	}
	return nil
}

func (r *postgresUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperror.NewInternal("failed to delete user", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
