package domain

type DialogueStep string

const (
	StepIdle                 DialogueStep = "idle"
	StepAwaitingRecipient    DialogueStep = "awaiting_recipient"
	StepAwaitingAmount       DialogueStep = "awaiting_amount"
	StepAwaitingConfirmation DialogueStep = "awaiting_confirmation"
)

// DialogueState is the mutable state of one transfer conversation. It is
// owned by a single assistant session; Epoch increments on every reset so
// delayed reprompts can detect they are stale.
type DialogueState struct {
	Step         DialogueStep       `json:"step"`
	Active       bool               `json:"active"`
	Recipient    *ResolvedRecipient `json:"recipient,omitempty"`
	Amount       string             `json:"amount"`
	AttemptCount int                `json:"attempt_count"`
	Epoch        uint64             `json:"epoch"`
}

// DialogueSnapshot is a read-only copy handed to UIs. PendingSummary is a
// short human sentence describing what is awaiting confirmation, empty
// outside the confirmation step.
type DialogueSnapshot struct {
	Step           DialogueStep `json:"step"`
	Active         bool         `json:"active"`
	RecipientName  string       `json:"recipient_name,omitempty"`
	RecipientAddr  string       `json:"recipient_address,omitempty"`
	Amount         string       `json:"amount,omitempty"`
	AttemptCount   int          `json:"attempt_count"`
	PendingSummary string       `json:"pending_summary,omitempty"`
}

// Reset returns the state to idle and clears every collected field.
// The epoch moves forward so any timer armed against the old state is void.
func (s *DialogueState) Reset() {
	s.Step = StepIdle
	s.Active = false
	s.Recipient = nil
	s.Amount = ""
	s.AttemptCount = 0
	s.Epoch++
}

// Snapshot copies the state into its read-only form.
func (s *DialogueState) Snapshot() DialogueSnapshot {
	snap := DialogueSnapshot{
		Step:         s.Step,
		Active:       s.Active,
		Amount:       s.Amount,
		AttemptCount: s.AttemptCount,
	}
	if s.Recipient != nil {
		snap.RecipientName = s.Recipient.DisplayName
		snap.RecipientAddr = s.Recipient.Address
	}
	if s.Step == StepAwaitingConfirmation && s.Recipient != nil && s.Amount != "" {
		snap.PendingSummary = "transfer " + s.Amount + " eth to " + s.Recipient.DisplayName
	}
	return snap
}
