package contact

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/google/uuid"
	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/ports"
)

var addressRE = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Config tunes the matcher and the contact list cache.
type Config struct {
	// SimilarityThreshold is the minimum Jaro-Winkler score a fuzzy match
	// must reach. Below it the name is treated as unknown rather than
	// guessed, since a wrong guess sends money to the wrong person.
	SimilarityThreshold float64
	CacheTTL            time.Duration
}

type Service struct {
	repo      ports.ContactRepository
	cache     ports.Cache
	log       *zap.Logger
	threshold float64
	cacheTTL  time.Duration
}

func NewService(repo ports.ContactRepository, cache ports.Cache, cfg Config, log *zap.Logger) ports.ContactService {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 0.82
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &Service{
		repo:      repo,
		cache:     cache,
		log:       log,
		threshold: cfg.SimilarityThreshold,
		cacheTTL:  cfg.CacheTTL,
	}
}

// FindByName resolves a spoken name in three stages: exact, prefix, then
// fuzzy. Each stage only runs when the previous one found nothing, so an
// exact "mark" can never lose to a fuzzier "marv". Ties inside a stage go
// to the contact used most often.
func (s *Service) FindByName(ctx context.Context, userID, name string) (*domain.Contact, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}

	contacts, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, nil
	}

	if c := pickBest(contacts, func(c *domain.Contact) bool {
		return strings.ToLower(c.Name) == name
	}); c != nil {
		return c, nil
	}

	if c := pickBest(contacts, func(c *domain.Contact) bool {
		return len(name) >= 3 && strings.HasPrefix(strings.ToLower(c.Name), name)
	}); c != nil {
		return c, nil
	}

	best := s.bestFuzzy(contacts, name)
	if best == nil {
		s.log.Debug("no contact match", zap.String("user_id", userID), zap.String("name", name))
	}
	return best, nil
}

// pickBest returns the highest-UseCount contact satisfying ok, or nil.
func pickBest(contacts []domain.Contact, ok func(*domain.Contact) bool) *domain.Contact {
	var best *domain.Contact
	for i := range contacts {
		c := &contacts[i]
		if !ok(c) {
			continue
		}
		if best == nil || c.UseCount > best.UseCount {
			best = c
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

func (s *Service) bestFuzzy(contacts []domain.Contact, name string) *domain.Contact {
	var best *domain.Contact
	bestScore := 0.0
	for i := range contacts {
		c := &contacts[i]
		score := jaroWinkler(name, strings.ToLower(c.Name))
		if score < s.threshold {
			continue
		}
		if best == nil || score > bestScore || (score == bestScore && c.UseCount > best.UseCount) {
			best = c
			bestScore = score
		}
	}
	if best == nil {
		return nil
	}
	s.log.Debug("fuzzy contact match",
		zap.String("spoken", name),
		zap.String("matched", best.Name),
		zap.Float64("score", bestScore),
	)
	out := *best
	return &out
}

func (s *Service) FindByAddress(ctx context.Context, userID, address string) (*domain.Contact, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	if address == "" {
		return nil, nil
	}
	return s.repo.FindByAddress(ctx, userID, address)
}

// List returns the user's contacts, served from cache when warm.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Contact, error) {
	key := cacheKey(userID)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var contacts []domain.Contact
		if err := json.Unmarshal([]byte(cached), &contacts); err == nil {
			return contacts, nil
		}
		s.log.Warn("corrupt contact cache entry, dropping", zap.String("key", key))
		_ = s.cache.Delete(ctx, key)
	}

	contacts, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(contacts); err == nil {
		if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
			s.log.Warn("contact cache set failed", zap.Error(err))
		}
	}
	return contacts, nil
}

func (s *Service) Add(ctx context.Context, contact *domain.Contact) error {
	if contact.UserID == "" {
		return errors.New("contact user id is required")
	}
	contact.Name = strings.TrimSpace(contact.Name)
	if contact.Name == "" {
		return errors.New("contact name is required")
	}
	contact.Address = strings.ToLower(strings.TrimSpace(contact.Address))
	if !addressRE.MatchString(contact.Address) {
		return errors.New("contact address is not a valid 0x address")
	}

	if existing, err := s.FindByAddress(ctx, contact.UserID, contact.Address); err != nil {
		return err
	} else if existing != nil {
		return errors.New("a contact with this address already exists")
	}

	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	if err := s.repo.Save(ctx, contact); err != nil {
		return err
	}
	s.invalidate(ctx, contact.UserID)
	return nil
}

func (s *Service) Remove(ctx context.Context, userID, contactID string) error {
	contact, err := s.repo.FindByID(ctx, contactID)
	if err != nil {
		return err
	}
	if contact == nil || contact.UserID != userID {
		return errors.New("contact not found")
	}

	if err := s.repo.Delete(ctx, contactID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// MarkUsed bumps the contact's use count so frequent recipients win
// matcher ties.
func (s *Service) MarkUsed(ctx context.Context, contactID string) error {
	contact, err := s.repo.FindByID(ctx, contactID)
	if err != nil {
		return err
	}
	if contact == nil {
		return errors.New("contact not found")
	}

	now := time.Now()
	contact.UseCount++
	contact.LastUsedAt = &now
	contact.UpdatedAt = now

	if err := s.repo.Update(ctx, contact); err != nil {
		return err
	}
	s.invalidate(ctx, contact.UserID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, cacheKey(userID)); err != nil {
		s.log.Warn("contact cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func cacheKey(userID string) string {
	return "contacts:" + userID
}
