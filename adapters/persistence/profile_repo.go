package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

var profileColumns = []string{
	"user_id", "company", "website", "location", "bio", "status", "githubusername",
	"skills", "social", "experience", "education", "created_at", "updated_at",
}

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresProfileRepo stores each profile as one row; skills, social links
// and both sub-collections live in JSONB columns.
func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

func (r *postgresProfileRepo) scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	var company, website, location, bio, status, github sql.NullString
	var skillsBytes, socialBytes, experienceBytes, educationBytes []byte

	err := row.Scan(
		&p.UserID,
		&company,
		&website,
		&location,
		&bio,
		&status,
		&github,
		&skillsBytes,
		&socialBytes,
		&experienceBytes,
		&educationBytes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}

	p.Company = company.String
	p.Website = website.String
	p.Location = location.String
	p.Bio = bio.String
	p.Status = status.String
	p.GitHubUsername = github.String

	// Unmarshal JSONB
	if err := json.Unmarshal(skillsBytes, &p.Skills); err != nil || p.Skills == nil {
		p.Skills = []string{}
	}
	if err := json.Unmarshal(socialBytes, &p.Social); err != nil {
		r.logger.Warn("Failed to unmarshal social", zap.String("user_id", p.UserID.String()), zap.Error(err))
	}
	if err := json.Unmarshal(experienceBytes, &p.Experience); err != nil || p.Experience == nil {
		if err != nil {
			r.logger.Warn("Failed to unmarshal experience", zap.String("user_id", p.UserID.String()), zap.Error(err))
		}
		p.Experience = profile.Entries[profile.Experience]{}
	}
	if err := json.Unmarshal(educationBytes, &p.Education); err != nil || p.Education == nil {
		if err != nil {
			r.logger.Warn("Failed to unmarshal education", zap.String("user_id", p.UserID.String()), zap.Error(err))
		}
		p.Education = profile.Entries[profile.Education]{}
	}
	return p, nil
}

func (r *postgresProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	query, args, err := psql.Select(profileColumns...).From("profiles").
		Where(sq.Eq{"user_id": userID.String()}).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile query", err)
	}
	return r.scanProfile(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	query, args, err := psql.Select(profileColumns...).From("profiles").OrderBy("created_at ASC").ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to list profiles", err)
	}
	defer rows.Close()

	profiles := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating profile rows", err)
	}
	return profiles, nil
}

func (r *postgresProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	skillsBytes, err := json.Marshal(p.Skills)
	if err != nil {
		return apperror.NewInternal("failed to marshal skills", err)
	}
	socialBytes, err := json.Marshal(p.Social)
	if err != nil {
		return apperror.NewInternal("failed to marshal social", err)
	}
	experienceBytes, err := json.Marshal(p.Experience)
	if err != nil {
		return apperror.NewInternal("failed to marshal experience", err)
	}
	educationBytes, err := json.Marshal(p.Education)
	if err != nil {
		return apperror.NewInternal("failed to marshal education", err)
	}

	query, args, err := psql.Insert("profiles").Columns(profileColumns...).
		Values(
			p.UserID, nullable(p.Company), nullable(p.Website), nullable(p.Location),
			nullable(p.Bio), nullable(p.Status), nullable(p.GitHubUsername),
			skillsBytes, socialBytes, experienceBytes, educationBytes,
			p.CreatedAt, p.UpdatedAt,
		).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build profile insert", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return profile.ErrOwnerNotFound
		}
		return apperror.NewInternal("failed to insert profile", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return profile.ErrProfileExists
	}
	return nil
}

// UpdateFields writes only the provided columns. Social links are merged key by
// key with the JSONB concatenation operator.
func (r *postgresProfileRepo) UpdateFields(ctx context.Context, userID uuid.UUID, f profile.Fields, now time.Time) (*profile.Profile, error) {
	b := psql.Update("profiles").
		Set("updated_at", now).
		Where(sq.Eq{"user_id": userID.String()}).
		Suffix("RETURNING " + strings.Join(profileColumns, ", "))

	scalars := f.Scalars()
	for _, name := range slices.Sorted(maps.Keys(scalars)) {
		b = b.Set(name, scalars[name])
	}
	if skills, ok := f.Skills.Get(); ok {
		skillsBytes, err := json.Marshal(skills)
		if err != nil {
			return nil, apperror.NewInternal("failed to marshal skills", err)
		}
		b = b.Set("skills", skillsBytes)
	}
	if social := f.Social.Values(); len(social) > 0 {
		socialBytes, err := json.Marshal(social)
		if err != nil {
			return nil, apperror.NewInternal("failed to marshal social", err)
		}
		b = b.Set("social", sq.Expr("social || ?::jsonb", socialBytes))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile update", err)
	}
	return r.scanProfile(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresProfileRepo) ReplaceExperience(ctx context.Context, userID uuid.UUID, entries profile.Entries[profile.Experience], now time.Time) (*profile.Profile, error) {
	return r.replaceJSON(ctx, userID, "experience", entries, now)
}

func (r *postgresProfileRepo) ReplaceEducation(ctx context.Context, userID uuid.UUID, entries profile.Entries[profile.Education], now time.Time) (*profile.Profile, error) {
	return r.replaceJSON(ctx, userID, "education", entries, now)
}

func (r *postgresProfileRepo) replaceJSON(ctx context.Context, userID uuid.UUID, column string, value any, now time.Time) (*profile.Profile, error) {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		return nil, apperror.NewInternal("failed to marshal "+column, err)
	}

	query, args, err := psql.Update("profiles").
		Set(column, valueBytes).
		Set("updated_at", now).
		Where(sq.Eq{"user_id": userID.String()}).
		Suffix("RETURNING " + strings.Join(profileColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile update", err)
	}
	return r.scanProfile(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresProfileRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return apperror.NewInternal("failed to delete profile", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
