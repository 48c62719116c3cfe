package mocks

import (
	"context"

	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/ports"
)

// MockContactService is a mock implementation of ContactService interface
type MockContactService struct {
	FindByNameFunc    func(ctx context.Context, userID, name string) (*domain.Contact, error)
	FindByAddressFunc func(ctx context.Context, userID, address string) (*domain.Contact, error)
	ListFunc          func(ctx context.Context, userID string) ([]domain.Contact, error)
	AddFunc           func(ctx context.Context, contact *domain.Contact) error
	RemoveFunc        func(ctx context.Context, userID, contactID string) error
	MarkUsedFunc      func(ctx context.Context, contactID string) error

	// Track used contact IDs for assertions
	UsedContactIDs []string
}

func (m *MockContactService) FindByName(ctx context.Context, userID, name string) (*domain.Contact, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, userID, name)
	}
	return nil, nil
}

func (m *MockContactService) FindByAddress(ctx context.Context, userID, address string) (*domain.Contact, error) {
	if m.FindByAddressFunc != nil {
		return m.FindByAddressFunc(ctx, userID, address)
	}
	return nil, nil
}

func (m *MockContactService) List(ctx context.Context, userID string) ([]domain.Contact, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []domain.Contact{}, nil
}

func (m *MockContactService) Add(ctx context.Context, contact *domain.Contact) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, contact)
	}
	return nil
}

func (m *MockContactService) Remove(ctx context.Context, userID, contactID string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, contactID)
	}
	return nil
}

func (m *MockContactService) MarkUsed(ctx context.Context, contactID string) error {
	m.UsedContactIDs = append(m.UsedContactIDs, contactID)
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, contactID)
	}
	return nil
}

// MockTransferService is a mock implementation of TransferService interface
type MockTransferService struct {
	ExecuteFunc      func(ctx context.Context, userID string, recipient domain.ResolvedRecipient, amount string) (*domain.Transfer, error)
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Transfer, error)
	GetByTxHashFunc  func(ctx context.Context, hash string) (*domain.Transfer, error)
	GetLatestFunc    func(ctx context.Context, userID string) (*domain.Transfer, error)
	GetHistoryFunc   func(ctx context.Context, userID string, limit, offset int) ([]domain.Transfer, error)
	BalanceFunc      func(ctx context.Context, userID string) (string, error)
	SetupWalletFunc  func(ctx context.Context, userID string) (*domain.User, error)
	ImportWalletFunc func(ctx context.Context, userID, address string) (*domain.User, error)

	// Track executed transfers for assertions
	ExecutedTransfers []ExecutedTransfer
}

// ExecutedTransfer captures one Execute call for testing
type ExecutedTransfer struct {
	UserID    string
	Recipient domain.ResolvedRecipient
	Amount    string
}

func (m *MockTransferService) Execute(ctx context.Context, userID string, recipient domain.ResolvedRecipient, amount string) (*domain.Transfer, error) {
	m.ExecutedTransfers = append(m.ExecutedTransfers, ExecutedTransfer{UserID: userID, Recipient: recipient, Amount: amount})
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, userID, recipient, amount)
	}
	return &domain.Transfer{ID: "transfer-1", UserID: userID, ToAddress: recipient.Address, Amount: amount, Status: domain.TransferStatusSubmitted}, nil
}

func (m *MockTransferService) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTransferService) GetByTxHash(ctx context.Context, hash string) (*domain.Transfer, error) {
	if m.GetByTxHashFunc != nil {
		return m.GetByTxHashFunc(ctx, hash)
	}
	return nil, nil
}

func (m *MockTransferService) GetLatest(ctx context.Context, userID string) (*domain.Transfer, error) {
	if m.GetLatestFunc != nil {
		return m.GetLatestFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockTransferService) GetHistory(ctx context.Context, userID string, limit, offset int) ([]domain.Transfer, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, userID, limit, offset)
	}
	return []domain.Transfer{}, nil
}

func (m *MockTransferService) Balance(ctx context.Context, userID string) (string, error) {
	if m.BalanceFunc != nil {
		return m.BalanceFunc(ctx, userID)
	}
	return "0", nil
}

func (m *MockTransferService) SetupWallet(ctx context.Context, userID string) (*domain.User, error) {
	if m.SetupWalletFunc != nil {
		return m.SetupWalletFunc(ctx, userID)
	}
	return &domain.User{ID: userID, WalletAddress: "0x0000000000000000000000000000000000000000", Network: "mainnet"}, nil
}

func (m *MockTransferService) ImportWallet(ctx context.Context, userID, address string) (*domain.User, error) {
	if m.ImportWalletFunc != nil {
		return m.ImportWalletFunc(ctx, userID, address)
	}
	return &domain.User{ID: userID, WalletAddress: address, Network: "mainnet"}, nil
}

// MockSpeaker is a mock implementation of Speaker interface
type MockSpeaker struct {
	SpeakFunc func(ctx context.Context, text string, opts domain.SpeechOptions) error

	// Track spoken texts for assertions
	Spoken []string
}

func (m *MockSpeaker) Speak(ctx context.Context, text string, opts domain.SpeechOptions) error {
	m.Spoken = append(m.Spoken, text)
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text, opts)
	}
	return nil
}

// LastSpoken returns the most recent spoken text, or "" when nothing was spoken
func (m *MockSpeaker) LastSpoken() string {
	if len(m.Spoken) == 0 {
		return ""
	}
	return m.Spoken[len(m.Spoken)-1]
}

// MockWalletEngine is a mock implementation of WalletEngine interface
type MockWalletEngine struct {
	SubmitTransferFunc    func(ctx context.Context, from, to, amount, asset, network string) (string, error)
	BalanceFunc           func(ctx context.Context, address, network string) (string, error)
	TransactionStatusFunc func(ctx context.Context, txHash, network string) (*ports.TxStatus, error)
	CreateWalletFunc      func(ctx context.Context, userID string) (string, error)

	// Track submitted transfers for assertions
	Submitted []SubmittedTransfer
}

// SubmittedTransfer captures one SubmitTransfer call for testing
type SubmittedTransfer struct {
	From    string
	To      string
	Amount  string
	Asset   string
	Network string
}

func (m *MockWalletEngine) SubmitTransfer(ctx context.Context, from, to, amount, asset, network string) (string, error) {
	m.Submitted = append(m.Submitted, SubmittedTransfer{From: from, To: to, Amount: amount, Asset: asset, Network: network})
	if m.SubmitTransferFunc != nil {
		return m.SubmitTransferFunc(ctx, from, to, amount, asset, network)
	}
	return "0xmockhash", nil
}

func (m *MockWalletEngine) Balance(ctx context.Context, address, network string) (string, error) {
	if m.BalanceFunc != nil {
		return m.BalanceFunc(ctx, address, network)
	}
	return "0", nil
}

func (m *MockWalletEngine) TransactionStatus(ctx context.Context, txHash, network string) (*ports.TxStatus, error) {
	if m.TransactionStatusFunc != nil {
		return m.TransactionStatusFunc(ctx, txHash, network)
	}
	return &ports.TxStatus{Hash: txHash, Status: "pending"}, nil
}

func (m *MockWalletEngine) CreateWallet(ctx context.Context, userID string) (string, error) {
	if m.CreateWalletFunc != nil {
		return m.CreateWalletFunc(ctx, userID)
	}
	return "0x0000000000000000000000000000000000000000", nil
}

// MockEmailService is a mock implementation of EmailService interface
type MockEmailService struct {
	SendFunc               func(ctx context.Context, to, subject, body string) error
	SendHTMLFunc           func(ctx context.Context, to, subject, htmlBody string) error
	SendTemplateFunc       func(ctx context.Context, to, templateName string, data map[string]interface{}) error
	SendWelcomeFunc        func(ctx context.Context, user *domain.User) error
	SendTransferReceiptFunc func(ctx context.Context, user *domain.User, transfer *domain.Transfer) error
	SendTransferFailedFunc  func(ctx context.Context, user *domain.User, transfer *domain.Transfer) error

	// Track sent emails for assertions
	SentEmails []SentEmail
}

// SentEmail represents a sent email for testing
type SentEmail struct {
	To       string
	Subject  string
	Body     string
	Template string
	Data     map[string]interface{}
}

func (m *MockEmailService) Send(ctx context.Context, to, subject, body string) error {
	m.SentEmails = append(m.SentEmails, SentEmail{To: to, Subject: subject, Body: body})
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, body)
	}
	return nil
}

func (m *MockEmailService) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	m.SentEmails = append(m.SentEmails, SentEmail{To: to, Subject: subject, Body: htmlBody})
	if m.SendHTMLFunc != nil {
		return m.SendHTMLFunc(ctx, to, subject, htmlBody)
	}
	return nil
}

func (m *MockEmailService) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	m.SentEmails = append(m.SentEmails, SentEmail{To: to, Template: templateName, Data: data})
	if m.SendTemplateFunc != nil {
		return m.SendTemplateFunc(ctx, to, templateName, data)
	}
	return nil
}

func (m *MockEmailService) SendWelcome(ctx context.Context, user *domain.User) error {
	m.SentEmails = append(m.SentEmails, SentEmail{To: user.Email, Template: "welcome"})
	if m.SendWelcomeFunc != nil {
		return m.SendWelcomeFunc(ctx, user)
	}
	return nil
}

func (m *MockEmailService) SendTransferReceipt(ctx context.Context, user *domain.User, transfer *domain.Transfer) error {
	m.SentEmails = append(m.SentEmails, SentEmail{To: user.Email, Template: "transfer_receipt"})
	if m.SendTransferReceiptFunc != nil {
		return m.SendTransferReceiptFunc(ctx, user, transfer)
	}
	return nil
}

func (m *MockEmailService) SendTransferFailed(ctx context.Context, user *domain.User, transfer *domain.Transfer) error {
	m.SentEmails = append(m.SentEmails, SentEmail{To: user.Email, Template: "transfer_failed"})
	if m.SendTransferFailedFunc != nil {
		return m.SendTransferFailedFunc(ctx, user, transfer)
	}
	return nil
}

// GetSentEmails returns all sent emails for assertions
func (m *MockEmailService) GetSentEmails() []SentEmail {
	return m.SentEmails
}

// ClearSentEmails clears the sent emails list
func (m *MockEmailService) ClearSentEmails() {
	m.SentEmails = nil
}

// MockAssistant is a mock implementation of Assistant interface
type MockAssistant struct {
	HandleUtteranceFunc   func(ctx context.Context, raw string) (*domain.TurnResult, error)
	HandleNoSpeechFunc    func(ctx context.Context)
	HandleSpeechErrorFunc func(ctx context.Context, code string)
	SnapshotFunc          func() domain.DialogueSnapshot
	CancelFunc            func(ctx context.Context) error

	// Track calls for assertions
	Utterances    []string
	NoSpeechCount int
	SpeechErrors  []string
	CancelCount   int
}

func (m *MockAssistant) HandleUtterance(ctx context.Context, raw string) (*domain.TurnResult, error) {
	m.Utterances = append(m.Utterances, raw)
	if m.HandleUtteranceFunc != nil {
		return m.HandleUtteranceFunc(ctx, raw)
	}
	return &domain.TurnResult{Intent: domain.IntentFreeText, Step: domain.StepIdle}, nil
}

func (m *MockAssistant) HandleNoSpeech(ctx context.Context) {
	m.NoSpeechCount++
	if m.HandleNoSpeechFunc != nil {
		m.HandleNoSpeechFunc(ctx)
	}
}

func (m *MockAssistant) HandleSpeechError(ctx context.Context, code string) {
	m.SpeechErrors = append(m.SpeechErrors, code)
	if m.HandleSpeechErrorFunc != nil {
		m.HandleSpeechErrorFunc(ctx, code)
	}
}

func (m *MockAssistant) Snapshot() domain.DialogueSnapshot {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return domain.DialogueSnapshot{Step: domain.StepIdle}
}

func (m *MockAssistant) Cancel(ctx context.Context) error {
	m.CancelCount++
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx)
	}
	return nil
}
