package domain

type IntentKind string

const (
	IntentCreateWallet  IntentKind = "create_wallet"
	IntentImportWallet  IntentKind = "import_wallet"
	IntentBalance       IntentKind = "balance"
	IntentTransfer      IntentKind = "transfer"
	IntentContacts      IntentKind = "contacts"
	IntentTxStatus      IntentKind = "tx_status"
	IntentSwitchNetwork IntentKind = "switch_network"
	IntentFreeText      IntentKind = "free_text"
)

type RecipientKind string

const (
	RecipientContact RecipientKind = "contact"
	RecipientAddress RecipientKind = "address"
)

// RecipientRef is an unresolved recipient mention as it appeared in the
// utterance: either a raw hex address or a contact name to look up later.
type RecipientRef struct {
	Kind  RecipientKind `json:"kind"`
	Value string        `json:"value"`
}

// ParsedIntent is the outcome of classifying one normalized utterance.
// For transfers, Amount and Recipient hold whatever the utterance carried;
// Complete is true only when both were present.
type ParsedIntent struct {
	Kind      IntentKind    `json:"kind"`
	Amount    string        `json:"amount,omitempty"`
	Recipient *RecipientRef `json:"recipient,omitempty"`
	Complete  bool          `json:"complete"`
	TxHash    string        `json:"tx_hash,omitempty"`
	Network   string        `json:"network,omitempty"`
	Raw       string        `json:"raw"`
}

// ResolvedRecipient is a recipient after contact lookup or address
// validation, ready for execution.
type ResolvedRecipient struct {
	Kind        RecipientKind `json:"kind"`
	Address     string        `json:"address"`
	DisplayName string        `json:"display_name"`
}
