package ports

import (
	"context"

	"github.com/seu-repo/voxwallet/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, error) // token, refresh, err
	Register(ctx context.Context, user *domain.User) error
	RefreshToken(ctx context.Context, token string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}

// ContactService resolves spoken recipient names to saved addresses.
type ContactService interface {
	// FindByName returns the best fuzzy match at or above the configured
	// similarity threshold, or nil when nothing is close enough.
	FindByName(ctx context.Context, userID, name string) (*domain.Contact, error)
	FindByAddress(ctx context.Context, userID, address string) (*domain.Contact, error)
	List(ctx context.Context, userID string) ([]domain.Contact, error)
	Add(ctx context.Context, contact *domain.Contact) error
	Remove(ctx context.Context, userID, contactID string) error
	// MarkUsed records that a contact received a transfer, bumping its
	// use count for ranking.
	MarkUsed(ctx context.Context, contactID string) error
}

// TransferService executes confirmed transfers against the wallet engine
// and keeps their records.
type TransferService interface {
	Execute(ctx context.Context, userID string, recipient domain.ResolvedRecipient, amount string) (*domain.Transfer, error)
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	GetByTxHash(ctx context.Context, hash string) (*domain.Transfer, error)
	GetLatest(ctx context.Context, userID string) (*domain.Transfer, error)
	GetHistory(ctx context.Context, userID string, limit, offset int) ([]domain.Transfer, error)
	Balance(ctx context.Context, userID string) (string, error)
	// SetupWallet asks the engine to create a wallet for the user and
	// stores the address; ImportWallet stores an address the user already
	// controls elsewhere, replacing any current one.
	SetupWallet(ctx context.Context, userID string) (*domain.User, error)
	ImportWallet(ctx context.Context, userID, address string) (*domain.User, error)
}

// Assistant is one voice session: a dialogue state plus the services it
// drives. All methods are safe for concurrent use; utterances for one
// session are processed one at a time.
type Assistant interface {
	HandleUtterance(ctx context.Context, raw string) (*domain.TurnResult, error)
	HandleNoSpeech(ctx context.Context)
	HandleSpeechError(ctx context.Context, code string)
	Snapshot() domain.DialogueSnapshot
	Cancel(ctx context.Context) error
}

// Speaker delivers a spoken reply to the user. Implementations must
// supersede any utterance still in flight before starting the new one.
type Speaker interface {
	Speak(ctx context.Context, text string, opts domain.SpeechOptions) error
}

// EmailService sends transactional mail.
type EmailService interface {
	Send(ctx context.Context, to, subject, body string) error
	SendHTML(ctx context.Context, to, subject, htmlBody string) error
	SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error
	SendWelcome(ctx context.Context, user *domain.User) error
	SendTransferReceipt(ctx context.Context, user *domain.User, transfer *domain.Transfer) error
	SendTransferFailed(ctx context.Context, user *domain.User, transfer *domain.Transfer) error
}
