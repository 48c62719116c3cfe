package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/ports"
)

// TransferRepository persists transfer rows through their whole
// lifecycle. The rows are the source of truth; queue events and
// engine callbacks only update them.
type TransferRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewTransferRepository(db *gorm.DB, log *zap.Logger) ports.TransferRepository {
	return &TransferRepository{
		db:  db,
		log: log,
	}
}

func (r *TransferRepository) Save(ctx context.Context, transfer *domain.Transfer) error {
	return r.db.WithContext(ctx).Save(transfer).Error
}

func (r *TransferRepository) FindByID(ctx context.Context, id string) (*domain.Transfer, error) {
	var transfer domain.Transfer
	err := r.db.WithContext(ctx).First(&transfer, "id = ?", id).Error
	return oneOrNil(&transfer, err)
}

func (r *TransferRepository) FindByTxHash(ctx context.Context, hash string) (*domain.Transfer, error) {
	var transfer domain.Transfer
	err := r.db.WithContext(ctx).First(&transfer, "tx_hash = ?", hash).Error
	return oneOrNil(&transfer, err)
}

// FindLatestByUserID backs the "repeat that" and status intents: the
// most recently created transfer wins, whatever state it is in.
func (r *TransferRepository) FindLatestByUserID(ctx context.Context, userID string) (*domain.Transfer, error) {
	var transfer domain.Transfer
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		First(&transfer).Error
	return oneOrNil(&transfer, err)
}

func (r *TransferRepository) FindHistoryByUserID(ctx context.Context, userID string, limit, offset int) ([]domain.Transfer, error) {
	var transfers []domain.Transfer
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&transfers).Error
	return transfers, err
}

func (r *TransferRepository) Update(ctx context.Context, transfer *domain.Transfer) error {
	return r.db.WithContext(ctx).Save(transfer).Error
}
