package websocket

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/domain"
)

// Hub tracks live voice sessions per user so transfer updates arriving
// from the queue can be pushed to whoever is connected. A user may hold
// several sessions at once (phone and desktop); every one gets the push.
type Hub struct {
	// Registered sessions, keyed by user.
	sessions map[string]map[*VoiceSession]bool

	// Register requests from new connections.
	register chan *VoiceSession

	// Unregister requests from closing connections.
	unregister chan *VoiceSession

	stop chan struct{}
	log  *zap.Logger
	mu   sync.RWMutex
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*VoiceSession]bool),
		register:   make(chan *VoiceSession),
		unregister: make(chan *VoiceSession),
		stop:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case session := <-h.register:
			h.mu.Lock()
			if h.sessions[session.userID] == nil {
				h.sessions[session.userID] = make(map[*VoiceSession]bool)
			}
			h.sessions[session.userID][session] = true
			h.mu.Unlock()

		case session := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.sessions[session.userID]; ok && set[session] {
				delete(set, session)
				close(session.send)
				if len(set) == 0 {
					delete(h.sessions, session.userID)
				}
			}
			h.mu.Unlock()

		case <-h.stop:
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.stop)
}

// CountForUser reports the number of live sessions for one user.
func (h *Hub) CountForUser(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID])
}

// SendToUser pushes one frame to every live session of the given user.
// Frames for sessions with a full send buffer are dropped, not queued.
func (h *Hub) SendToUser(userID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for session := range h.sessions[userID] {
		select {
		case session.send <- payload:
		default:
			h.log.Warn("Dropping frame for slow voice session",
				zap.String("user_id", userID),
			)
		}
	}
}

// SpeakToUser queues one utterance on every live session of the given
// user. Each session numbers it in its own sequence so the client-side
// supersede rule keeps working.
func (h *Hub) SpeakToUser(userID, text string, opts domain.SpeechOptions) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for session := range h.sessions[userID] {
		payload, _ := json.Marshal(speakFrame{
			Type:   frameSpeak,
			Seq:    session.seq.Add(1),
			Text:   text,
			Rate:   opts.Rate,
			Pitch:  opts.Pitch,
			Volume: opts.Volume,
		})
		select {
		case session.send <- payload:
		default:
			h.log.Warn("Dropping announcement for slow voice session",
				zap.String("user_id", userID),
			)
		}
	}
}

// Broadcast pushes one frame to every connected session.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, set := range h.sessions {
		for session := range set {
			select {
			case session.send <- payload:
			default:
			}
		}
	}
}
