package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/google/uuid"
	"github.com/seu-repo/voxwallet/internal/adapter/queue"
	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/voxwallet/internal/observability/telemetry"
	"github.com/seu-repo/voxwallet/internal/ports"
)

var addressRE = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Queue subjects for transfer lifecycle events.
const (
	SubjectSubmitted = "transfer.submitted"
	SubjectConfirmed = "transfer.confirmed"
	SubjectFailed    = "transfer.failed"
)

// Event is the payload published on transfer subjects.
type Event struct {
	TransferID string    `json:"transfer_id"`
	UserID     string    `json:"user_id"`
	ToAddress  string    `json:"to_address"`
	ToName     string    `json:"to_name,omitempty"`
	Amount     string    `json:"amount"`
	Asset      string    `json:"asset"`
	Network    string    `json:"network"`
	TxHash     string    `json:"tx_hash,omitempty"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Config carries transfer defaults.
type Config struct {
	Asset          string
	DefaultNetwork string
}

// Service executes confirmed transfers through the wallet engine. The
// engine sits behind a circuit breaker so a struggling chain backend
// degrades into fast failures instead of hanging every dialogue.
type Service struct {
	repo    ports.TransferRepository
	users   ports.UserRepository
	engine  ports.WalletEngine
	breaker *circuitbreaker.CircuitBreaker
	mq      queue.MessageQueue
	log     *zap.Logger
	asset   string
	network string
}

func NewService(
	repo ports.TransferRepository,
	users ports.UserRepository,
	engine ports.WalletEngine,
	breaker *circuitbreaker.CircuitBreaker,
	mq queue.MessageQueue,
	cfg Config,
	log *zap.Logger,
) *Service {
	if cfg.Asset == "" {
		cfg.Asset = "eth"
	}
	if cfg.DefaultNetwork == "" {
		cfg.DefaultNetwork = "mainnet"
	}
	return &Service{
		repo:    repo,
		users:   users,
		engine:  engine,
		breaker: breaker,
		mq:      mq,
		log:     log,
		asset:   cfg.Asset,
		network: cfg.DefaultNetwork,
	}
}

// Execute submits one transfer. A row is written as pending before the
// engine is called, so a crash mid-submit leaves an auditable record, then
// moves to submitted or failed with the outcome.
func (s *Service) Execute(ctx context.Context, userID string, recipient domain.ResolvedRecipient, amount string) (*domain.Transfer, error) {
	if recipient.Address == "" {
		return nil, errors.New("recipient address is required")
	}
	if amount == "" {
		return nil, errors.New("amount is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if user.WalletAddress == "" {
		return nil, errors.New("user has no wallet")
	}

	network := user.Network
	if network == "" {
		network = s.network
	}

	now := time.Now()
	transfer := &domain.Transfer{
		ID:        uuid.New().String(),
		UserID:    userID,
		ToAddress: recipient.Address,
		ToName:    recipient.DisplayName,
		Amount:    amount,
		Asset:     s.asset,
		Network:   network,
		Status:    domain.TransferStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, transfer); err != nil {
		return nil, err
	}

	txHash, err := circuitbreaker.ExecuteWithResult(s.breaker, func() (string, error) {
		return s.engine.SubmitTransfer(ctx, user.WalletAddress, recipient.Address, amount, s.asset, network)
	})
	if err != nil {
		s.markFailed(ctx, transfer, err)
		return nil, err
	}

	transfer.TxHash = txHash
	transfer.Status = domain.TransferStatusSubmitted
	transfer.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, transfer); err != nil {
		// The chain accepted the transfer; losing the row update must not
		// report failure to the user.
		s.log.Error("persist submitted transfer failed",
			zap.String("transfer_id", transfer.ID),
			zap.String("tx_hash", txHash),
			zap.Error(err),
		)
	}

	telemetry.TransfersTotal.WithLabelValues(string(domain.TransferStatusSubmitted)).Inc()
	s.publish(SubjectSubmitted, transfer, "")

	s.log.Info("transfer submitted",
		zap.String("transfer_id", transfer.ID),
		zap.String("user_id", userID),
		zap.String("to", recipient.Address),
		zap.String("amount", amount),
		zap.String("network", network),
		zap.String("tx_hash", txHash),
	)
	return transfer, nil
}

func (s *Service) markFailed(ctx context.Context, transfer *domain.Transfer, cause error) {
	transfer.Status = domain.TransferStatusFailed
	transfer.FailureReason = cause.Error()
	transfer.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, transfer); err != nil {
		s.log.Error("persist failed transfer failed", zap.String("transfer_id", transfer.ID), zap.Error(err))
	}

	telemetry.TransfersTotal.WithLabelValues(string(domain.TransferStatusFailed)).Inc()
	s.publish(SubjectFailed, transfer, cause.Error())

	s.log.Warn("transfer submission failed",
		zap.String("transfer_id", transfer.ID),
		zap.String("user_id", transfer.UserID),
		zap.Error(cause),
	)
}

// HandleTxEvent applies a chain status event to the matching transfer row.
// Events for unknown hashes or already-settled rows are dropped, so
// replays from the event stream are harmless.
func (s *Service) HandleTxEvent(ctx context.Context, event ports.TxEvent) error {
	if event.Hash == "" {
		return nil
	}
	transfer, err := s.repo.FindByTxHash(ctx, event.Hash)
	if err != nil {
		return err
	}
	if transfer == nil {
		s.log.Debug("tx event for unknown transfer", zap.String("tx_hash", event.Hash))
		return nil
	}
	if transfer.Status == domain.TransferStatusConfirmed || transfer.Status == domain.TransferStatusFailed {
		return nil
	}

	now := time.Now()
	switch event.Status {
	case "confirmed":
		transfer.Status = domain.TransferStatusConfirmed
		transfer.ConfirmedAt = &now
	case "failed":
		transfer.Status = domain.TransferStatusFailed
		transfer.FailureReason = event.Reason
	default:
		return nil
	}
	transfer.UpdatedAt = now

	if err := s.repo.Update(ctx, transfer); err != nil {
		return err
	}

	telemetry.TransfersTotal.WithLabelValues(string(transfer.Status)).Inc()
	if transfer.Status == domain.TransferStatusConfirmed {
		s.publish(SubjectConfirmed, transfer, "")
	} else {
		s.publish(SubjectFailed, transfer, event.Reason)
	}

	s.log.Info("transfer settled",
		zap.String("transfer_id", transfer.ID),
		zap.String("tx_hash", transfer.TxHash),
		zap.String("status", string(transfer.Status)),
	)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetByTxHash(ctx context.Context, hash string) (*domain.Transfer, error) {
	return s.repo.FindByTxHash(ctx, hash)
}

func (s *Service) GetLatest(ctx context.Context, userID string) (*domain.Transfer, error) {
	return s.repo.FindLatestByUserID(ctx, userID)
}

func (s *Service) GetHistory(ctx context.Context, userID string, limit, offset int) ([]domain.Transfer, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.FindHistoryByUserID(ctx, userID, limit, offset)
}

// Balance reads the user's balance from the chain, through the same
// breaker as submissions.
func (s *Service) Balance(ctx context.Context, userID string) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.New("user not found")
	}
	if user.WalletAddress == "" {
		return "", errors.New("user has no wallet")
	}

	network := user.Network
	if network == "" {
		network = s.network
	}
	return circuitbreaker.ExecuteWithResult(s.breaker, func() (string, error) {
		return s.engine.Balance(ctx, user.WalletAddress, network)
	})
}

// SetupWallet has the engine create a wallet and stores its address on the
// user. It refuses when a wallet already exists: replacing an address that
// may hold funds is an import, not a setup.
func (s *Service) SetupWallet(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if user.WalletAddress != "" {
		return nil, errors.New("user already has a wallet")
	}

	address, err := circuitbreaker.ExecuteWithResult(s.breaker, func() (string, error) {
		return s.engine.CreateWallet(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	user.WalletAddress = strings.ToLower(address)
	if user.Network == "" {
		user.Network = s.network
	}
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("wallet created",
		zap.String("user_id", userID),
		zap.String("wallet_address", user.WalletAddress),
		zap.String("network", user.Network),
	)
	return user, nil
}

// ImportWallet stores an address the user already controls. Unlike
// SetupWallet it overwrites: the row only points at the wallet, the keys
// stay wherever the user keeps them.
func (s *Service) ImportWallet(ctx context.Context, userID, address string) (*domain.User, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	if !addressRE.MatchString(address) {
		return nil, errors.New("address is not a valid 0x address")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	user.WalletAddress = address
	if user.Network == "" {
		user.Network = s.network
	}
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("wallet imported",
		zap.String("user_id", userID),
		zap.String("wallet_address", address),
	)
	return user, nil
}

func (s *Service) publish(subject string, transfer *domain.Transfer, reason string) {
	event := Event{
		TransferID: transfer.ID,
		UserID:     transfer.UserID,
		ToAddress:  transfer.ToAddress,
		ToName:     transfer.ToName,
		Amount:     transfer.Amount,
		Asset:      transfer.Asset,
		Network:    transfer.Network,
		TxHash:     transfer.TxHash,
		Status:     string(transfer.Status),
		Reason:     reason,
		OccurredAt: time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error("marshal transfer event failed", zap.Error(err))
		return
	}
	if err := s.mq.Publish(subject, data); err != nil {
		s.log.Warn("publish transfer event failed", zap.String("subject", subject), zap.Error(err))
	}
}
