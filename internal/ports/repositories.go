package ports

import (
	"context"
	"time"

	"github.com/seu-repo/voxwallet/internal/domain"
)

type ContactRepository interface {
	Save(ctx context.Context, contact *domain.Contact) error
	FindByID(ctx context.Context, id string) (*domain.Contact, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Contact, error)
	FindByAddress(ctx context.Context, userID, address string) (*domain.Contact, error)
	Update(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, id string) error
}

type TransferRepository interface {
	Save(ctx context.Context, transfer *domain.Transfer) error
	FindByID(ctx context.Context, id string) (*domain.Transfer, error)
	FindByTxHash(ctx context.Context, hash string) (*domain.Transfer, error)
	FindLatestByUserID(ctx context.Context, userID string) (*domain.Transfer, error)
	FindHistoryByUserID(ctx context.Context, userID string, limit, offset int) ([]domain.Transfer, error)
	Update(ctx context.Context, transfer *domain.Transfer) error
}

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// Cache is the generic key/value cache used for sessions and hot lookups.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
