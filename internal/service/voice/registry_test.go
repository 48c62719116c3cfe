package voice

import (
	"sync"
	"testing"

	"github.com/seu-repo/voxwallet/internal/mocks"
	"github.com/seu-repo/voxwallet/internal/ports"
)

func TestRegistry_SameUserGetsSameAssistant(t *testing.T) {
	// Arrange
	created := 0
	registry := NewRegistry(func(userID string) ports.Assistant {
		created++
		return &mocks.MockAssistant{}
	})

	// Act
	first := registry.Get("user-1")
	second := registry.Get("user-1")
	other := registry.Get("user-2")

	// Assert
	if first != second {
		t.Error("expected both lookups to return the same assistant")
	}
	if first == other {
		t.Error("expected different users to get different assistants")
	}
	if created != 2 {
		t.Errorf("expected two assistants created, got %d", created)
	}
}

func TestRegistry_RemoveDropsTheSession(t *testing.T) {
	// Arrange
	registry := NewRegistry(func(userID string) ports.Assistant {
		return &mocks.MockAssistant{}
	})
	before := registry.Get("user-1")

	// Act
	registry.Remove("user-1")
	after := registry.Get("user-1")

	// Assert
	if before == after {
		t.Error("expected a fresh assistant after removal")
	}
	if registry.Count() != 1 {
		t.Errorf("expected one live session, got %d", registry.Count())
	}
}

func TestRegistry_ConcurrentGetCreatesOnce(t *testing.T) {
	// Arrange
	var mu sync.Mutex
	created := 0
	registry := NewRegistry(func(userID string) ports.Assistant {
		mu.Lock()
		created++
		mu.Unlock()
		return &mocks.MockAssistant{}
	})

	// Act
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			registry.Get("user-1")
		}()
	}
	wg.Wait()

	// Assert
	if created != 1 {
		t.Errorf("expected a single assistant, got %d", created)
	}
}
