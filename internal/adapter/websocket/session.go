package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/ports"
)

// Frame types spoken over /ws/voice. The client sends finalized
// transcripts and control frames; the server answers with synthesis
// requests and dialogue updates. Audio never crosses this boundary.
const (
	frameTranscript = "transcript"
	frameNoSpeech   = "no_speech"
	frameError      = "error"
	frameCancel     = "cancel"

	frameSpeak  = "speak"
	frameState  = "state"
	frameResult = "result"
)

type inboundFrame struct {
	Type       string  `json:"type"`
	Text       string  `json:"text,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Code       string  `json:"code,omitempty"`
}

// speakFrame asks the client to synthesize one utterance. Seq increases
// per session; the client cancels any lower-numbered utterance still
// playing before starting this one.
type speakFrame struct {
	Type   string  `json:"type"`
	Seq    uint64  `json:"seq"`
	Text   string  `json:"text"`
	Rate   float64 `json:"rate,omitempty"`
	Pitch  float64 `json:"pitch,omitempty"`
	Volume float64 `json:"volume,omitempty"`
}

type stateFrame struct {
	Type string `json:"type"`
	domain.DialogueSnapshot
}

type resultFrame struct {
	Type string `json:"type"`
	domain.TurnResult
}

// transferUpdateFrame reports a queue-driven transfer status change.
type transferUpdateFrame struct {
	Type       string `json:"type"`
	TransferID string `json:"transfer_id"`
	Status     string `json:"status"`
	TxHash     string `json:"tx_hash,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

const sendBufferSize = 256

// VoiceSession is one live /ws/voice connection. It feeds inbound frames
// to the user's assistant; spoken prompts come back through the hub,
// which numbers them against this session's sequence.
type VoiceSession struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string

	assistant     ports.Assistant
	minConfidence float64
	seq           atomic.Uint64
	log           *zap.Logger
}

func newVoiceSession(hub *Hub, conn *websocket.Conn, userID string, minConfidence float64, log *zap.Logger) *VoiceSession {
	return &VoiceSession{
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, sendBufferSize),
		userID:        userID,
		minConfidence: minConfidence,
		log:           log,
	}
}

func (s *VoiceSession) enqueue(frame interface{}) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	select {
	case s.send <- data:
		return nil
	default:
		return errors.New("session send buffer is full")
	}
}

func (s *VoiceSession) sendState() {
	if err := s.enqueue(stateFrame{Type: frameState, DialogueSnapshot: s.assistant.Snapshot()}); err != nil {
		s.log.Warn("Dropping state frame", zap.String("user_id", s.userID), zap.Error(err))
	}
}

func (s *VoiceSession) sendResult(result *domain.TurnResult) {
	if err := s.enqueue(resultFrame{Type: frameResult, TurnResult: *result}); err != nil {
		s.log.Warn("Dropping result frame", zap.String("user_id", s.userID), zap.Error(err))
	}
}

func (s *VoiceSession) readPump() {
	defer func() {
		s.hub.unregister <- s
		s.conn.Close()
	}()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			break
		}
		s.dispatch(data)
	}
}

func (s *VoiceSession) dispatch(data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		s.log.Warn("Discarding malformed voice frame",
			zap.String("user_id", s.userID),
			zap.Error(err),
		)
		return
	}

	ctx := context.Background()
	switch frame.Type {
	case frameTranscript:
		// Low-confidence recognition is treated like silence: nothing is
		// spoken and the client keeps listening.
		if frame.Confidence > 0 && frame.Confidence < s.minConfidence {
			s.assistant.HandleNoSpeech(ctx)
			return
		}
		result, err := s.assistant.HandleUtterance(ctx, frame.Text)
		if err != nil {
			s.log.Error("Utterance handling failed",
				zap.String("user_id", s.userID),
				zap.Error(err),
			)
			return
		}
		s.sendResult(result)
		s.sendState()

	case frameNoSpeech:
		s.assistant.HandleNoSpeech(ctx)

	case frameError:
		s.assistant.HandleSpeechError(ctx, frame.Code)

	case frameCancel:
		if err := s.assistant.Cancel(ctx); err != nil {
			s.log.Warn("Cancel failed", zap.String("user_id", s.userID), zap.Error(err))
		}
		s.sendState()

	default:
		s.log.Warn("Unknown voice frame type",
			zap.String("user_id", s.userID),
			zap.String("frame_type", frame.Type),
		)
	}
}

func (s *VoiceSession) writePump() {
	defer s.conn.Close()

	for message := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	// The hub closed the channel.
	s.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
