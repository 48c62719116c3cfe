package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/ports"
)

// ContactRepository persists the per-user address book the voice
// intents resolve recipient names against.
type ContactRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewContactRepository(db *gorm.DB, log *zap.Logger) ports.ContactRepository {
	return &ContactRepository{
		db:  db,
		log: log,
	}
}

func (r *ContactRepository) Save(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error
	return oneOrNil(&contact, err)
}

// FindByUserID returns the whole address book sorted by name, the
// order the list endpoint and the matcher both want.
func (r *ContactRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name asc").
		Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) FindByAddress(ctx context.Context, userID, address string) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND address = ?", userID, address).
		First(&contact).Error
	return oneOrNil(&contact, err)
}

func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Contact{}, "id = ?", id).Error
}
