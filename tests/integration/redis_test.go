package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/seu-repo/voxwallet/internal/adapter/cache"
	"github.com/seu-repo/voxwallet/internal/adapter/storage/postgres"
	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/service/contact"
)

// TestRedis_CacheAdapter tests the cache adapter against a real Redis.
func TestRedis_CacheAdapter(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Redis == nil {
		t.Skip("Redis not available")
	}

	FlushRedis(t, env.Redis)
	ctx := context.Background()

	c, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer c.Close()

	t.Run("SetGet", func(t *testing.T) {
		if err := c.Set(ctx, "test:key", "test-value", time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}

		val, err := c.Get(ctx, "test:key")
		if err != nil {
			t.Fatalf("Failed to get key: %v", err)
		}

		if val != "test-value" {
			t.Errorf("Expected 'test-value', got '%s'", val)
		}
	})

	t.Run("MissReturnsNil", func(t *testing.T) {
		_, err := c.Get(ctx, "test:missing")
		if err != goredis.Nil {
			t.Errorf("Expected redis.Nil for missing key, got %v", err)
		}
	})

	t.Run("SetWithExpiration", func(t *testing.T) {
		if err := c.Set(ctx, "test:expiring", "value", 100*time.Millisecond); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}

		// Verify it exists
		if _, err := c.Get(ctx, "test:expiring"); err != nil {
			t.Fatalf("Key should exist: %v", err)
		}

		// Wait for expiration
		time.Sleep(150 * time.Millisecond)

		// Verify it's gone
		if _, err := c.Get(ctx, "test:expiring"); err != goredis.Nil {
			t.Error("Key should have expired")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := c.Set(ctx, "test:delete", "value", time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}

		if err := c.Delete(ctx, "test:delete"); err != nil {
			t.Fatalf("Failed to delete key: %v", err)
		}

		if _, err := c.Get(ctx, "test:delete"); err != goredis.Nil {
			t.Error("Key should have been deleted")
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := c.Ping(); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})
}

// TestRedis_JSONRoundTrip tests storing serialized domain objects, the way
// the contact service caches its lists.
func TestRedis_JSONRoundTrip(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Redis == nil {
		t.Skip("Redis not available")
	}

	FlushRedis(t, env.Redis)
	ctx := context.Background()

	c, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer c.Close()

	contacts := []domain.Contact{
		{ID: "c1", UserID: "u1", Name: "alice", Address: "0x4444444444444444444444444444444444444444"},
		{ID: "c2", UserID: "u1", Name: "bob", Address: "0x2222222222222222222222222222222222222222"},
	}

	data, err := json.Marshal(contacts)
	if err != nil {
		t.Fatalf("Failed to marshal contacts: %v", err)
	}

	if err := c.Set(ctx, "contacts:u1", string(data), time.Minute); err != nil {
		t.Fatalf("Failed to store contacts: %v", err)
	}

	stored, err := c.Get(ctx, "contacts:u1")
	if err != nil {
		t.Fatalf("Failed to read contacts back: %v", err)
	}

	var decoded []domain.Contact
	if err := json.Unmarshal([]byte(stored), &decoded); err != nil {
		t.Fatalf("Failed to unmarshal contacts: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("Expected 2 contacts, got %d", len(decoded))
	}
	if decoded[0].Name != "alice" || decoded[1].Name != "bob" {
		t.Errorf("Contacts corrupted in round trip: %+v", decoded)
	}
}

// TestRedis_ContactListCache tests the contact service's list cache: a warm
// cache serves reads without touching postgres, and writes invalidate it.
func TestRedis_ContactListCache(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Redis == nil || env.DB == nil {
		t.Skip("Redis or database not available")
	}

	SetupSchema(t, env.DB)
	CleanDatabase(t, env.DB)
	FlushRedis(t, env.Redis)
	ctx := context.Background()

	c, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer c.Close()

	repo := postgres.NewContactRepository(env.Gorm, env.Logger)
	svc := contact.NewService(repo, c, contact.Config{CacheTTL: time.Minute}, env.Logger)

	userID := "11111111-1111-1111-1111-111111111111"
	seedUser(t, env, userID, "cache@example.com")

	alice := &domain.Contact{
		UserID:  userID,
		Name:    "alice",
		Address: "0x4444444444444444444444444444444444444444",
	}
	if err := svc.Add(ctx, alice); err != nil {
		t.Fatalf("Failed to add contact: %v", err)
	}

	// First list warms the cache
	contacts, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to list contacts: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(contacts))
	}

	// Delete the row underneath the service. A warm cache still serves it.
	if _, err := env.DB.Exec("DELETE FROM contacts WHERE user_id = $1", userID); err != nil {
		t.Fatalf("Failed to delete contacts: %v", err)
	}

	cached, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to list contacts: %v", err)
	}
	if len(cached) != 1 {
		t.Errorf("Expected cached list with 1 contact, got %d", len(cached))
	}

	// A write invalidates, so the next list sees the real table again
	bob := &domain.Contact{
		UserID:  userID,
		Name:    "bob",
		Address: "0x2222222222222222222222222222222222222222",
	}
	if err := svc.Add(ctx, bob); err != nil {
		t.Fatalf("Failed to add contact: %v", err)
	}

	fresh, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("Failed to list contacts: %v", err)
	}
	if len(fresh) != 1 || fresh[0].Name != "bob" {
		t.Errorf("Expected fresh list with only bob, got %+v", fresh)
	}
}
