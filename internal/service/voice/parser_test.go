package voice

import (
	"testing"

	"github.com/seu-repo/voxwallet/internal/domain"
)

func TestParseIntent_Classification(t *testing.T) {
	tests := []struct {
		in   string
		want domain.IntentKind
	}{
		{"create a wallet for me", domain.IntentCreateWallet},
		{"set up a wallet", domain.IntentCreateWallet},
		{"import my wallet", domain.IntentImportWallet},
		{"restore wallet from backup", domain.IntentImportWallet},
		{"what's my balance", domain.IntentBalance},
		{"how much do i have", domain.IntentBalance},
		{"show my contacts", domain.IntentContacts},
		{"read my address book", domain.IntentContacts},
		{"transfer 1 eth to alice", domain.IntentTransfer},
		{"send something to bob", domain.IntentTransfer},
		{"what's the transaction status", domain.IntentTxStatus},
		{"switch network to sepolia", domain.IntentSwitchNetwork},
		{"tell me a joke", domain.IntentFreeText},
		{"", domain.IntentFreeText},
	}

	for _, tt := range tests {
		got := ParseIntent(tt.in)
		if got.Kind != tt.want {
			t.Errorf("ParseIntent(%q).Kind = %s, want %s", tt.in, got.Kind, tt.want)
		}
	}
}

func TestParseIntent_PriorityOrder(t *testing.T) {
	// Wallet lifecycle outranks transfer even when both keyword sets hit.
	got := ParseIntent("create a wallet so i can send eth")
	if got.Kind != domain.IntentCreateWallet {
		t.Errorf("expected create_wallet to win, got %s", got.Kind)
	}

	// Balance outranks transfer.
	got = ParseIntent("send me my balance")
	if got.Kind != domain.IntentBalance {
		t.Errorf("expected balance to win, got %s", got.Kind)
	}

	// Contacts outrank transfer.
	got = ParseIntent("send my contacts")
	if got.Kind != domain.IntentContacts {
		t.Errorf("expected contacts to win, got %s", got.Kind)
	}
}

func TestParseIntent_OneShotTransfer(t *testing.T) {
	got := ParseIntent("transfer 0.1 eth to alice")
	if got.Kind != domain.IntentTransfer {
		t.Fatalf("expected transfer intent, got %s", got.Kind)
	}
	if !got.Complete {
		t.Error("expected complete one-shot parse")
	}
	if got.Amount != "0.1" {
		t.Errorf("expected amount '0.1', got %q", got.Amount)
	}
	if got.Recipient == nil || got.Recipient.Value != "alice" {
		t.Errorf("expected recipient 'alice', got %+v", got.Recipient)
	}
	if got.Recipient.Kind != domain.RecipientContact {
		t.Errorf("expected contact recipient, got %s", got.Recipient.Kind)
	}
}

func TestParseIntent_ReversedOrdering(t *testing.T) {
	got := ParseIntent("to bob send 2.5")
	if !got.Complete {
		t.Fatalf("expected complete parse, got %+v", got)
	}
	if got.Amount != "2.5" {
		t.Errorf("expected amount '2.5', got %q", got.Amount)
	}
	if got.Recipient == nil || got.Recipient.Value != "bob" {
		t.Errorf("expected recipient 'bob', got %+v", got.Recipient)
	}
}

func TestParseIntent_AddressRecipient(t *testing.T) {
	addr := "0x52908400098527886e0f7030069857d2e4169ee7"
	got := ParseIntent("send 1 to " + addr)
	if !got.Complete {
		t.Fatalf("expected complete parse, got %+v", got)
	}
	if got.Recipient.Kind != domain.RecipientAddress {
		t.Errorf("expected address recipient, got %s", got.Recipient.Kind)
	}
	if got.Recipient.Value != addr {
		t.Errorf("expected %q, got %q", addr, got.Recipient.Value)
	}
}

func TestParseIntent_PartialTransfers(t *testing.T) {
	// Bare verb: nothing extracted.
	got := ParseIntent("transfer")
	if got.Kind != domain.IntentTransfer || got.Complete {
		t.Fatalf("expected incomplete transfer, got %+v", got)
	}
	if got.Amount != "" || got.Recipient != nil {
		t.Errorf("expected no fields, got amount %q recipient %+v", got.Amount, got.Recipient)
	}

	// Amount only.
	got = ParseIntent("send 0.5 eth")
	if got.Complete {
		t.Error("expected incomplete parse")
	}
	if got.Amount != "0.5" {
		t.Errorf("expected amount '0.5', got %q", got.Amount)
	}
	if got.Recipient != nil {
		t.Errorf("expected no recipient, got %+v", got.Recipient)
	}

	// Recipient only.
	got = ParseIntent("send eth to carol")
	if got.Complete {
		t.Error("expected incomplete parse")
	}
	if got.Recipient == nil || got.Recipient.Value != "carol" {
		t.Errorf("expected recipient 'carol', got %+v", got.Recipient)
	}
	if got.Amount != "" {
		t.Errorf("expected no amount, got %q", got.Amount)
	}
}

func TestParseIntent_RecipientTrailingNoise(t *testing.T) {
	got := ParseIntent("transfer 1 to alice please")
	if got.Recipient == nil || got.Recipient.Value != "alice" {
		t.Errorf("expected 'alice' after noise strip, got %+v", got.Recipient)
	}

	got = ParseIntent("send 2 to bob now thanks")
	if got.Recipient == nil || got.Recipient.Value != "bob" {
		t.Errorf("expected 'bob' after noise strip, got %+v", got.Recipient)
	}
}

func TestParseIntent_MultiWordRecipient(t *testing.T) {
	got := ParseIntent("transfer 1 to alice smith")
	if got.Recipient == nil || got.Recipient.Value != "alice smith" {
		t.Errorf("expected 'alice smith', got %+v", got.Recipient)
	}
}

func TestParseIntent_TxStatusHash(t *testing.T) {
	hash := "0x" + strings64("ab")
	got := ParseIntent("what's the status of transaction " + hash)
	if got.Kind != domain.IntentTxStatus {
		t.Fatalf("expected tx_status, got %s", got.Kind)
	}
	if got.TxHash != hash {
		t.Errorf("expected hash extracted, got %q", got.TxHash)
	}

	got = ParseIntent("transaction status")
	if got.Kind != domain.IntentTxStatus || got.TxHash != "" {
		t.Errorf("expected hashless tx_status, got %+v", got)
	}
}

func TestParseIntent_NetworkTarget(t *testing.T) {
	got := ParseIntent("switch network to sepolia")
	if got.Kind != domain.IntentSwitchNetwork || got.Network != "sepolia" {
		t.Errorf("expected sepolia target, got %+v", got)
	}

	got = ParseIntent("change to mainnet")
	if got.Kind != domain.IntentSwitchNetwork || got.Network != "mainnet" {
		t.Errorf("expected mainnet target, got %+v", got)
	}
}

func TestParseIntent_Deterministic(t *testing.T) {
	in := "transfer 0.1 eth to alice"
	first := ParseIntent(in)
	for i := 0; i < 50; i++ {
		got := ParseIntent(in)
		if got.Kind != first.Kind || got.Amount != first.Amount || got.Complete != first.Complete {
			t.Fatalf("ParseIntent not deterministic: %+v vs %+v", first, got)
		}
	}
}

// strings64 builds a 64-char hex body for transaction hashes.
func strings64(pair string) string {
	s := ""
	for i := 0; i < 32; i++ {
		s += pair
	}
	return s
}
