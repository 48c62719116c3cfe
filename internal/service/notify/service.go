package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/adapter/queue"
	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/observability/telemetry"
	"github.com/seu-repo/voxwallet/internal/ports"
	"github.com/seu-repo/voxwallet/internal/service/transfer"
)

// Per-delivery budget for loading the user and talking to the mail provider.
const sendTimeout = 10 * time.Second

// Service listens for transfer lifecycle events on the message queue and
// mails the user about final outcomes. Submitted events carry no mail:
// the voice session already told the user the transfer is on its way.
type Service struct {
	mq        queue.MessageQueue
	users     ports.UserRepository
	transfers ports.TransferRepository
	email     ports.EmailService
	log       *zap.Logger
}

// NewService creates the notification worker. Call Start to register its
// queue subscriptions.
func NewService(
	mq queue.MessageQueue,
	users ports.UserRepository,
	transfers ports.TransferRepository,
	email ports.EmailService,
	log *zap.Logger,
) *Service {
	return &Service{
		mq:        mq,
		users:     users,
		transfers: transfers,
		email:     email,
		log:       log,
	}
}

// Start subscribes to the final transfer subjects. Handlers run on the
// queue's delivery goroutine.
func (s *Service) Start() error {
	if err := s.mq.Subscribe(transfer.SubjectConfirmed, s.handleConfirmed); err != nil {
		return fmt.Errorf("subscribe %s: %w", transfer.SubjectConfirmed, err)
	}
	if err := s.mq.Subscribe(transfer.SubjectFailed, s.handleFailed); err != nil {
		return fmt.Errorf("subscribe %s: %w", transfer.SubjectFailed, err)
	}

	s.log.Info("Notification worker started",
		zap.Strings("subjects", []string{transfer.SubjectConfirmed, transfer.SubjectFailed}),
	)
	return nil
}

func (s *Service) handleConfirmed(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	user, row, err := s.load(ctx, data)
	if err != nil || user == nil {
		return err
	}

	if err := s.email.SendTransferReceipt(ctx, user, row); err != nil {
		telemetry.EmailsSentTotal.WithLabelValues("transfer_receipt", "error").Inc()
		return fmt.Errorf("send transfer receipt: %w", err)
	}
	telemetry.EmailsSentTotal.WithLabelValues("transfer_receipt", "sent").Inc()

	s.log.Info("Transfer receipt sent",
		zap.String("transfer_id", row.ID),
		zap.String("to", user.Email),
	)
	return nil
}

func (s *Service) handleFailed(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	user, row, err := s.load(ctx, data)
	if err != nil || user == nil {
		return err
	}

	if err := s.email.SendTransferFailed(ctx, user, row); err != nil {
		telemetry.EmailsSentTotal.WithLabelValues("transfer_failed", "error").Inc()
		return fmt.Errorf("send transfer failure notice: %w", err)
	}
	telemetry.EmailsSentTotal.WithLabelValues("transfer_failed", "sent").Inc()

	s.log.Info("Transfer failure notice sent",
		zap.String("transfer_id", row.ID),
		zap.String("to", user.Email),
	)
	return nil
}

// load parses the event and resolves the user and the transfer row. A nil
// user with a nil error means the delivery should be silently skipped:
// the user opted out, or the referenced rows are gone.
func (s *Service) load(ctx context.Context, data []byte) (*domain.User, *domain.Transfer, error) {
	var event transfer.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, nil, fmt.Errorf("unmarshal transfer event: %w", err)
	}

	user, err := s.users.FindByID(ctx, event.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("load user %s: %w", event.UserID, err)
	}
	if user == nil {
		s.log.Warn("Transfer event references unknown user",
			zap.String("transfer_id", event.TransferID),
			zap.String("user_id", event.UserID),
		)
		return nil, nil, nil
	}
	if !user.NotifyByEmail || user.Email == "" {
		s.log.Debug("User opted out of email notifications",
			zap.String("user_id", user.ID),
		)
		return nil, nil, nil
	}

	// The row is the source of truth for timestamps and final status;
	// the event alone may be a replay of something since reconciled.
	row, err := s.transfers.FindByID(ctx, event.TransferID)
	if err != nil {
		return nil, nil, fmt.Errorf("load transfer %s: %w", event.TransferID, err)
	}
	if row == nil {
		s.log.Warn("Transfer event references unknown transfer",
			zap.String("transfer_id", event.TransferID),
		)
		return nil, nil, nil
	}

	return user, row, nil
}
