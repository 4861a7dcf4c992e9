package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository persists user records. Implementations must enforce email
// uniqueness atomically and report a violation as common.ErrDuplicateEmail;
// lookups that find nothing return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	// UpdatePasswordHash swaps oldHash for newHash atomically and reports
	// whether a row changed.
	UpdatePasswordHash(ctx context.Context, id, oldHash, newHash string) (bool, error)
}
