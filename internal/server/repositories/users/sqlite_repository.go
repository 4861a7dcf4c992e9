package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository is the embedded single-node store. IDs are generated
// here since SQLite has no UUID default.
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	profile, err := encodeProfile(user.Profile)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	created := r.now().UTC().Truncate(time.Microsecond)

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, profile, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, user.Email, user.PasswordHash, string(profile), created.UnixMicro())
	if err != nil {
		if isSQLiteUnique(err) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ID = id
	user.CreatedAt = created
	return user, nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, profile, created_at FROM users WHERE email = ?`, email)
	return r.scanOne(row)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, profile, created_at FROM users WHERE id = ?`, id)
	return r.scanOne(row)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, password_hash, profile, created_at FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) UpdatePasswordHash(ctx context.Context, id, oldHash, newHash string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND password_hash = ?`, newHash, id, oldHash)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *SQLiteRepository) scanOne(row *sql.Row) (*models.User, error) {
	u, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	return u, err
}

func (r *SQLiteRepository) scan(s scanner) (*models.User, error) {
	u := &models.User{}
	var (
		profile string
		created int64
	)
	if err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &profile, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p, err := decodeProfile([]byte(profile))
	if err != nil {
		return nil, err
	}
	u.Profile = p
	u.CreatedAt = time.UnixMicro(created).UTC()
	return u, nil
}

func isSQLiteUnique(err error) bool {
	var sqErr *sqlite.Error
	if !errors.As(err, &sqErr) {
		return false
	}
	return sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
