package websocket

import (
	"context"

	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/ports"
)

// HubSpeaker delivers one user's prompts to every session they have
// open. Supersession is client-side: each frame carries a per-session
// sequence number and the client cancels anything lower-numbered still
// playing. A user with no open session hears nothing; REST callers read
// the same text from the turn result instead.
type HubSpeaker struct {
	hub    *Hub
	userID string
}

func NewHubSpeaker(hub *Hub, userID string) ports.Speaker {
	return &HubSpeaker{
		hub:    hub,
		userID: userID,
	}
}

func (s *HubSpeaker) Speak(ctx context.Context, text string, opts domain.SpeechOptions) error {
	s.hub.SpeakToUser(s.userID, text, opts)
	return nil
}
