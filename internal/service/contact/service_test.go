package contact

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func repoWith(contacts ...domain.Contact) *mocks.MockContactRepository {
	return &mocks.MockContactRepository{
		FindByUserIDFunc: func(ctx context.Context, userID string) ([]domain.Contact, error) {
			return contacts, nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Contact, error) {
			for _, c := range contacts {
				if c.ID == id {
					out := c
					return &out, nil
				}
			}
			return nil, nil
		},
		FindByAddressFunc: func(ctx context.Context, userID, address string) (*domain.Contact, error) {
			for _, c := range contacts {
				if c.UserID == userID && c.Address == address {
					out := c
					return &out, nil
				}
			}
			return nil, nil
		},
	}
}

func newTestService(repo *mocks.MockContactRepository) *Service {
	return NewService(repo, mocks.NewMockCache(), Config{}, newTestLogger()).(*Service)
}

func TestFindByName_ExactBeatsFuzzy(t *testing.T) {
	// Arrange: "marc" is an exact match and must win over "mark" even
	// though "mark" is close and used more often.
	ctx := context.Background()
	repo := repoWith(
		domain.Contact{ID: "c1", UserID: "u1", Name: "mark", Address: "0x" + strings.Repeat("11", 20), UseCount: 50},
		domain.Contact{ID: "c2", UserID: "u1", Name: "marc", Address: "0x" + strings.Repeat("22", 20), UseCount: 1},
	)
	svc := newTestService(repo)

	// Act
	got, err := svc.FindByName(ctx, "u1", "Marc")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == nil || got.ID != "c2" {
		t.Errorf("expected exact match c2, got %+v", got)
	}
}

func TestFindByName_PrefixMatch(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repoWith(
		domain.Contact{ID: "c1", UserID: "u1", Name: "alexandra", Address: "0x" + strings.Repeat("11", 20)},
		domain.Contact{ID: "c2", UserID: "u1", Name: "bob", Address: "0x" + strings.Repeat("22", 20)},
	)
	svc := newTestService(repo)

	// Act
	got, err := svc.FindByName(ctx, "u1", "alex")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == nil || got.ID != "c1" {
		t.Errorf("expected prefix match c1, got %+v", got)
	}
}

func TestFindByName_ShortPrefixDoesNotMatch(t *testing.T) {
	// Arrange: one or two letters are too little signal to pick a payee.
	ctx := context.Background()
	repo := repoWith(
		domain.Contact{ID: "c1", UserID: "u1", Name: "alexandra", Address: "0x" + strings.Repeat("11", 20)},
	)
	svc := newTestService(repo)

	// Act
	got, err := svc.FindByName(ctx, "u1", "al")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no match for a two-letter query, got %+v", got)
	}
}

func TestFindByName_FuzzyMatch(t *testing.T) {
	// Arrange: "alise" is a typical recognizer slip for "alice".
	ctx := context.Background()
	repo := repoWith(
		domain.Contact{ID: "c1", UserID: "u1", Name: "alice", Address: "0x" + strings.Repeat("11", 20)},
		domain.Contact{ID: "c2", UserID: "u1", Name: "bob", Address: "0x" + strings.Repeat("22", 20)},
	)
	svc := newTestService(repo)

	// Act
	got, err := svc.FindByName(ctx, "u1", "alise")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == nil || got.ID != "c1" {
		t.Errorf("expected fuzzy match c1, got %+v", got)
	}
}

func TestFindByName_BelowThresholdIsUnknown(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repoWith(
		domain.Contact{ID: "c1", UserID: "u1", Name: "alice", Address: "0x" + strings.Repeat("11", 20)},
	)
	svc := newTestService(repo)

	// Act
	got, err := svc.FindByName(ctx, "u1", "ellis")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no match below threshold, got %+v", got)
	}
}

func TestFindByName_TieGoesToMostUsed(t *testing.T) {
	// Arrange: "mara" scores identically against "mark" and "marv".
	ctx := context.Background()
	repo := repoWith(
		domain.Contact{ID: "c1", UserID: "u1", Name: "mark", Address: "0x" + strings.Repeat("11", 20), UseCount: 1},
		domain.Contact{ID: "c2", UserID: "u1", Name: "marv", Address: "0x" + strings.Repeat("22", 20), UseCount: 8},
	)
	svc := newTestService(repo)

	// Act
	got, err := svc.FindByName(ctx, "u1", "mara")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == nil || got.ID != "c2" {
		t.Errorf("expected most-used contact c2, got %+v", got)
	}
}

func TestFindByName_EmptyName(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc := newTestService(repoWith())

	// Act
	got, err := svc.FindByName(ctx, "u1", "   ")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for blank name, got %+v", got)
	}
}

func TestList_ServesFromCacheOnSecondCall(t *testing.T) {
	// Arrange
	ctx := context.Background()
	calls := 0
	repo := &mocks.MockContactRepository{
		FindByUserIDFunc: func(ctx context.Context, userID string) ([]domain.Contact, error) {
			calls++
			return []domain.Contact{
				{ID: "c1", UserID: userID, Name: "alice", Address: "0x" + strings.Repeat("11", 20)},
			}, nil
		},
	}
	svc := newTestService(repo)

	// Act
	first, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Assert
	if calls != 1 {
		t.Errorf("expected a single repository call, got %d", calls)
	}
	if len(first) != 1 || len(second) != 1 || second[0].Name != "alice" {
		t.Errorf("expected identical lists, got %v and %v", first, second)
	}
}

func TestAdd_ValidatesAndInvalidatesCache(t *testing.T) {
	// Arrange
	ctx := context.Background()
	var saved *domain.Contact
	repo := &mocks.MockContactRepository{
		SaveFunc: func(ctx context.Context, contact *domain.Contact) error {
			saved = contact
			return nil
		},
	}
	cache := mocks.NewMockCache()
	svc := NewService(repo, cache, Config{}, newTestLogger())

	// Warm the cache so the invalidation is observable.
	if _, err := svc.List(ctx, "u1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Act
	err := svc.Add(ctx, &domain.Contact{
		UserID:  "u1",
		Name:    "  Alice  ",
		Address: "0x" + strings.Repeat("AB", 20),
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved == nil {
		t.Fatal("expected contact to be saved")
	}
	if saved.ID == "" {
		t.Error("expected a generated ID")
	}
	if saved.Name != "Alice" {
		t.Errorf("expected trimmed name, got '%s'", saved.Name)
	}
	if saved.Address != "0x"+strings.Repeat("ab", 20) {
		t.Errorf("expected lowercased address, got '%s'", saved.Address)
	}
	if cached, _ := cache.Get(ctx, "contacts:u1"); cached != "" {
		t.Error("expected contact cache to be invalidated")
	}
}

func TestAdd_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(repoWith())

	cases := []struct {
		name    string
		contact domain.Contact
	}{
		{"missing user", domain.Contact{Name: "alice", Address: "0x" + strings.Repeat("11", 20)}},
		{"missing name", domain.Contact{UserID: "u1", Address: "0x" + strings.Repeat("11", 20)}},
		{"bad address", domain.Contact{UserID: "u1", Name: "alice", Address: "0x123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.contact
			if err := svc.Add(ctx, &c); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestAdd_RejectsDuplicateAddress(t *testing.T) {
	// Arrange
	ctx := context.Background()
	addr := "0x" + strings.Repeat("11", 20)
	repo := repoWith(domain.Contact{ID: "c1", UserID: "u1", Name: "alice", Address: addr})
	svc := newTestService(repo)

	// Act
	err := svc.Add(ctx, &domain.Contact{UserID: "u1", Name: "twin", Address: addr})

	// Assert
	if err == nil {
		t.Fatal("expected duplicate error, got nil")
	}
}

func TestMarkUsed_BumpsCount(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := repoWith(domain.Contact{ID: "c1", UserID: "u1", Name: "alice", Address: "0x" + strings.Repeat("11", 20), UseCount: 2})
	var updated *domain.Contact
	repo.UpdateFunc = func(ctx context.Context, contact *domain.Contact) error {
		updated = contact
		return nil
	}
	svc := newTestService(repo)

	// Act
	err := svc.MarkUsed(ctx, "c1")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated == nil {
		t.Fatal("expected contact update")
	}
	if updated.UseCount != 3 {
		t.Errorf("expected use count 3, got %d", updated.UseCount)
	}
	if updated.LastUsedAt == nil {
		t.Error("expected last used timestamp")
	}
}

func TestMarkUsed_UnknownContact(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc := newTestService(repoWith())

	// Act + Assert
	if err := svc.MarkUsed(ctx, "nope"); err == nil {
		t.Error("expected error for unknown contact")
	}
}

func TestRemove_ChecksOwnership(t *testing.T) {
	// Arrange
	ctx := context.Background()
	deleted := false
	repo := repoWith(domain.Contact{ID: "c1", UserID: "u1", Name: "alice", Address: "0x" + strings.Repeat("11", 20)})
	repo.DeleteFunc = func(ctx context.Context, id string) error {
		deleted = true
		return nil
	}
	svc := newTestService(repo)

	// Act: someone else's contact must not be deletable.
	if err := svc.Remove(ctx, "intruder", "c1"); err == nil {
		t.Error("expected error for foreign contact")
	}
	if deleted {
		t.Fatal("expected no deletion for foreign user")
	}

	// The owner can remove it.
	if err := svc.Remove(ctx, "u1", "c1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !deleted {
		t.Error("expected deletion for owner")
	}
}
