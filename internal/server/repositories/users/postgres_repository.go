package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the user and lets the unique index decide on duplicates;
// there is no prior existence check to race against.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	profile, err := encodeProfile(user.Profile)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO users (email, password_hash, profile)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, profile).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isPgCode(err, pgerrcode.UniqueViolation) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, profile, created_at FROM users
		 WHERE lower(email) = lower($1)
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, profile, created_at FROM users
		 WHERE id = $1
		 `
	user, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil && isPgCode(err, pgerrcode.InvalidTextRepresentation) {
		// not a UUID, so it cannot name a user
		return nil, common.ErrorNotFound
	}
	return user, err
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, email, password_hash, profile, created_at FROM users
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		user, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// UpdatePasswordHash replaces the hash only while it still equals oldHash.
// It reports false when the user is gone or the hash was already replaced.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, oldHash, newHash string) (bool, error) {
	query :=
		`UPDATE users SET password_hash = $2
		 WHERE id = $1 AND password_hash = $3
		 `

	res, err := r.db.ExecContext(ctx, query, id, newHash, oldHash)
	if err != nil {
		if isPgCode(err, pgerrcode.InvalidTextRepresentation) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user, err := r.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *PostgresRepository) scan(s scanner) (*models.User, error) {
	user := &models.User{}
	var profile []byte

	if err := s.Scan(&user.ID, &user.Email, &user.PasswordHash, &profile, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p, err := decodeProfile(profile)
	if err != nil {
		return nil, err
	}
	user.Profile = p

	return user, nil
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
