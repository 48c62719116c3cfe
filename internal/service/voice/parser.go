package voice

import (
	"regexp"
	"strings"

	"github.com/seu-repo/voxwallet/internal/domain"
)

// Intent classification is an ordered table evaluated top to bottom with
// plain keyword containment. The order is part of the contract: wallet
// lifecycle outranks balance, balance outranks contacts, contacts outrank
// transfer, and status/network queries come last. New phrasings are added
// to the table, never to control flow.

type intentRule struct {
	kind    domain.IntentKind
	phrases []string
}

var intentRules = []intentRule{
	{domain.IntentCreateWallet, []string{
		"create wallet", "create a wallet", "create a new wallet", "new wallet",
		"make a wallet", "make me a wallet", "open a wallet", "set up a wallet",
		"setup a wallet", "setup wallet",
	}},
	{domain.IntentImportWallet, []string{
		"import wallet", "import a wallet", "import my wallet",
		"restore wallet", "restore my wallet", "recover wallet", "recover my wallet",
	}},
	{domain.IntentBalance, []string{
		"balance", "how much do i have", "how much eth do i have", "how much is in my wallet",
	}},
	{domain.IntentContacts, []string{
		"contacts", "contact list", "address book", "my contacts",
		"list contacts", "who can i pay",
	}},
	{domain.IntentTransfer, []string{
		"transfer", "send", "pay",
	}},
	{domain.IntentTxStatus, []string{
		"transaction status", "transaction", "tx status", "status",
	}},
	{domain.IntentSwitchNetwork, []string{
		"switch network", "change network", "switch to", "change to",
	}},
}

var (
	addressRE = regexp.MustCompile(`^0x[0-9a-f]{40}$`)
	txHashRE  = regexp.MustCompile(`0x[0-9a-f]{64}`)
	networkRE = regexp.MustCompile(`(?:switch|change)(?:\s+(?:the\s+)?network)?\s+to\s+(?:the\s+)?([a-z][a-z0-9]*)`)
)

// transferPatterns extract (amount, recipient) from a transfer utterance.
// Evaluated in order, first match wins; both spoken orderings are covered.
// Amounts are already digits here because the parser runs on normalized
// text.
var transferPatterns = []struct {
	re      *regexp.Regexp
	extract func(m []string) (amount, recipient string)
}{
	// "transfer 0.1 eth to alice", "send 5 to 0x..."
	{
		re: regexp.MustCompile(`(?:transfer|send|pay)\s+([0-9][0-9.]*)\s*(?:eth\s+)?to\s+(.+)`),
		extract: func(m []string) (string, string) {
			return m[1], m[2]
		},
	},
	// "to alice transfer 0.1 eth"
	{
		re: regexp.MustCompile(`to\s+(.+?)\s+(?:transfer|send|pay)\s+([0-9][0-9.]*)`),
		extract: func(m []string) (string, string) {
			return m[2], m[1]
		},
	},
	// amount only: "transfer 0.1 eth"
	{
		re: regexp.MustCompile(`(?:transfer|send|pay)\s+([0-9][0-9.]*)`),
		extract: func(m []string) (string, string) {
			return m[1], ""
		},
	},
	// recipient only: "send to alice", "transfer eth to bob"
	{
		re: regexp.MustCompile(`(?:transfer|send|pay)\s+(?:eth\s+)?to\s+(.+)`),
		extract: func(m []string) (string, string) {
			return "", m[1]
		},
	},
}

// trailingNoise words are stripped from the end of an extracted recipient.
var trailingNoise = map[string]bool{
	"please": true, "now": true, "thanks": true, "thank": true, "you": true,
}

// ParseIntent classifies one normalized utterance. For transfer intents it
// also attempts one-shot extraction of amount and recipient; Complete is
// true only when both came out of the same utterance. No recipient
// resolution happens here, only the literal reference.
func ParseIntent(normalized string) domain.ParsedIntent {
	intent := domain.ParsedIntent{Kind: domain.IntentFreeText, Raw: normalized}
	if normalized == "" {
		return intent
	}

	for _, rule := range intentRules {
		if !containsAny(normalized, rule.phrases) {
			continue
		}
		intent.Kind = rule.kind

		switch rule.kind {
		case domain.IntentTransfer:
			amount, recipient := extractTransfer(normalized)
			intent.Amount = amount
			if recipient != "" {
				intent.Recipient = NewRecipientRef(recipient)
			}
			intent.Complete = amount != "" && recipient != ""
		case domain.IntentTxStatus:
			intent.TxHash = txHashRE.FindString(normalized)
		case domain.IntentSwitchNetwork:
			if m := networkRE.FindStringSubmatch(normalized); m != nil {
				intent.Network = m[1]
			}
		}
		return intent
	}

	return intent
}

// NewRecipientRef wraps a literal recipient mention, detecting whether it
// is a hex address or a contact name.
func NewRecipientRef(value string) *domain.RecipientRef {
	value = strings.TrimSpace(value)
	if addressRE.MatchString(value) {
		return &domain.RecipientRef{Kind: domain.RecipientAddress, Value: value}
	}
	return &domain.RecipientRef{Kind: domain.RecipientContact, Value: value}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func extractTransfer(text string) (amount, recipient string) {
	for _, p := range transferPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount, recipient = p.extract(m)
		return amount, cleanRecipient(recipient)
	}
	return "", ""
}

// cleanRecipient trims politeness and dangling particles off an extracted
// recipient so "alice please" resolves the same as "alice".
func cleanRecipient(recipient string) string {
	words := strings.Fields(strings.TrimSpace(recipient))
	for len(words) > 0 && trailingNoise[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
