package websocket

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/adapter/queue"
	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/service/transfer"
)

// Announcer turns final transfer events from the queue into spoken
// updates on the user's live voice sessions. Submission acknowledgements
// are not announced; the dialogue already spoke those.
type Announcer struct {
	hub *Hub
	mq  queue.MessageQueue
	log *zap.Logger
}

func NewAnnouncer(hub *Hub, mq queue.MessageQueue, log *zap.Logger) *Announcer {
	return &Announcer{
		hub: hub,
		mq:  mq,
		log: log,
	}
}

func (a *Announcer) Start() error {
	if err := a.mq.Subscribe(transfer.SubjectConfirmed, a.handleConfirmed); err != nil {
		return fmt.Errorf("subscribe %s: %w", transfer.SubjectConfirmed, err)
	}
	if err := a.mq.Subscribe(transfer.SubjectFailed, a.handleFailed); err != nil {
		return fmt.Errorf("subscribe %s: %w", transfer.SubjectFailed, err)
	}

	a.log.Info("Transfer announcer started")
	return nil
}

func (a *Announcer) handleConfirmed(data []byte) error {
	var event transfer.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("unmarshal transfer event: %w", err)
	}

	a.push(event)
	a.hub.SpeakToUser(event.UserID, fmt.Sprintf(
		"your transfer of %s %s to %s has been confirmed.",
		event.Amount, event.Asset, recipientName(event),
	), domain.DefaultSpeechOptions())
	return nil
}

func (a *Announcer) handleFailed(data []byte) error {
	var event transfer.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("unmarshal transfer event: %w", err)
	}

	a.push(event)
	a.hub.SpeakToUser(event.UserID, fmt.Sprintf(
		"your transfer of %s %s to %s didn't go through. nothing has left your wallet.",
		event.Amount, event.Asset, recipientName(event),
	), domain.DefaultSpeechOptions())
	return nil
}

// push sends the raw status frame for clients that render transfer state.
func (a *Announcer) push(event transfer.Event) {
	payload, _ := json.Marshal(transferUpdateFrame{
		Type:       frameResult,
		TransferID: event.TransferID,
		Status:     event.Status,
		TxHash:     event.TxHash,
		Reason:     event.Reason,
	})
	a.hub.SendToUser(event.UserID, payload)
}

func recipientName(event transfer.Event) string {
	if event.ToName != "" {
		return event.ToName
	}
	return "the saved address"
}
