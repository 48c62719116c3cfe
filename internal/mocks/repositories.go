package mocks

import (
	"context"

	"github.com/seu-repo/voxwallet/internal/domain"
)

// MockContactRepository is a mock implementation of ContactRepository
type MockContactRepository struct {
	SaveFunc          func(ctx context.Context, contact *domain.Contact) error
	FindByIDFunc      func(ctx context.Context, id string) (*domain.Contact, error)
	FindByUserIDFunc  func(ctx context.Context, userID string) ([]domain.Contact, error)
	FindByAddressFunc func(ctx context.Context, userID, address string) (*domain.Contact, error)
	UpdateFunc        func(ctx context.Context, contact *domain.Contact) error
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *MockContactRepository) Save(ctx context.Context, contact *domain.Contact) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, contact)
	}
	return nil
}

func (m *MockContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockContactRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Contact, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return []domain.Contact{}, nil
}

func (m *MockContactRepository) FindByAddress(ctx context.Context, userID, address string) (*domain.Contact, error) {
	if m.FindByAddressFunc != nil {
		return m.FindByAddressFunc(ctx, userID, address)
	}
	return nil, nil
}

func (m *MockContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, contact)
	}
	return nil
}

func (m *MockContactRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockTransferRepository is a mock implementation of TransferRepository
type MockTransferRepository struct {
	SaveFunc                func(ctx context.Context, transfer *domain.Transfer) error
	FindByIDFunc            func(ctx context.Context, id string) (*domain.Transfer, error)
	FindByTxHashFunc        func(ctx context.Context, hash string) (*domain.Transfer, error)
	FindLatestByUserIDFunc  func(ctx context.Context, userID string) (*domain.Transfer, error)
	FindHistoryByUserIDFunc func(ctx context.Context, userID string, limit, offset int) ([]domain.Transfer, error)
	UpdateFunc              func(ctx context.Context, transfer *domain.Transfer) error
}

func (m *MockTransferRepository) Save(ctx context.Context, transfer *domain.Transfer) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, transfer)
	}
	return nil
}

func (m *MockTransferRepository) FindByID(ctx context.Context, id string) (*domain.Transfer, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTransferRepository) FindByTxHash(ctx context.Context, hash string) (*domain.Transfer, error) {
	if m.FindByTxHashFunc != nil {
		return m.FindByTxHashFunc(ctx, hash)
	}
	return nil, nil
}

func (m *MockTransferRepository) FindLatestByUserID(ctx context.Context, userID string) (*domain.Transfer, error) {
	if m.FindLatestByUserIDFunc != nil {
		return m.FindLatestByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockTransferRepository) FindHistoryByUserID(ctx context.Context, userID string, limit, offset int) ([]domain.Transfer, error) {
	if m.FindHistoryByUserIDFunc != nil {
		return m.FindHistoryByUserIDFunc(ctx, userID, limit, offset)
	}
	return []domain.Transfer{}, nil
}

func (m *MockTransferRepository) Update(ctx context.Context, transfer *domain.Transfer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, transfer)
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	UpdateFunc      func(ctx context.Context, user *domain.User) error
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}
