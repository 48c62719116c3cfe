package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/seu-repo/voxwallet/internal/domain"
)

// The dialogue machine owns every transition of one transfer conversation.
// It is deliberately free of I/O: resolution and execution are injected,
// and each call returns a Transition telling the caller what to speak and
// whether the executor must run. That keeps the machine testable without a
// microphone or a chain.

// Dialogue outcomes, recorded per turn.
const (
	OutcomeStarted   = "started"
	OutcomeFilled    = "filled"
	OutcomeReprompt  = "reprompt"
	OutcomeCancelled = "cancelled"
	OutcomeAborted   = "aborted"
	OutcomeConfirmed = "confirmed"
	OutcomeDeclined  = "declined"
)

// cancelWords escape the dialogue from any step, checked before any
// step-specific parsing.
var cancelWords = []string{"cancel", "exit"}

// affirmativeWords and negativeWords decide the confirmation step. Matched
// phrase-wise and case-insensitively; an utterance matching neither, or
// both, reprompts. A transfer never executes on ambiguous input.
var affirmativeWords = []string{
	"yes", "yeah", "yep", "yup", "confirm", "correct", "right", "sure",
	"ok", "okay", "go ahead", "do it", "proceed", "absolutely",
}

var negativeWords = []string{
	"no", "nope", "don't", "do not", "stop", "wrong", "negative", "never mind",
}

// resolveFunc maps recipient text to a concrete address, or nil when
// nothing matches.
type resolveFunc func(ctx context.Context, text string) (*domain.ResolvedRecipient, error)

// Transition is the outcome of feeding one utterance to the machine.
type Transition struct {
	Prompt  string
	Outcome string
	// Execute is set exactly when the user confirmed: the caller must
	// invoke the transfer executor once with Recipient and Amount, which
	// are copied out before the state resets.
	Execute   bool
	Recipient domain.ResolvedRecipient
	Amount    string
}

// Machine evaluates dialogue transitions against configured vocabularies
// and limits. It holds no per-conversation state; that lives in
// domain.DialogueState owned by the session.
type Machine struct {
	maxAttempts int
	limits      AmountLimits
	affirmative []string
	negative    []string
	cancels     []string
}

// MachineConfig extends the built-in vocabularies and overrides limits.
type MachineConfig struct {
	MaxAttempts      int
	Limits           AmountLimits
	ExtraAffirmative []string
	ExtraNegative    []string
}

func NewMachine(cfg MachineConfig) *Machine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Limits == (AmountLimits{}) {
		cfg.Limits = DefaultAmountLimits()
	}
	return &Machine{
		maxAttempts: cfg.MaxAttempts,
		limits:      cfg.Limits,
		affirmative: append(append([]string{}, affirmativeWords...), cfg.ExtraAffirmative...),
		negative:    append(append([]string{}, negativeWords...), cfg.ExtraNegative...),
		cancels:     cancelWords,
	}
}

func (m *Machine) Limits() AmountLimits {
	return m.limits
}

// Begin starts a dialogue from Idle with whatever the one-shot parse
// extracted. Pre-filled fields skip their collection step; a complete
// intent with a resolvable recipient lands directly on confirmation.
func (m *Machine) Begin(ctx context.Context, state *domain.DialogueState, intent domain.ParsedIntent, resolve resolveFunc) Transition {
	state.Active = true
	state.Step = domain.StepAwaitingRecipient
	state.AttemptCount = 0

	var amountErr error
	if intent.Amount != "" {
		canonical, err := ValidateAmount(intent.Amount, m.limits)
		if err == nil {
			state.Amount = canonical
		} else {
			// Rejected one-shot amounts are dropped; the amount step
			// reopens with the reason once a recipient is in hand.
			amountErr = err
		}
	}

	if intent.Recipient == nil {
		return Transition{Prompt: "sure. who would you like to send eth to?", Outcome: OutcomeStarted}
	}

	resolved, err := resolve(ctx, intent.Recipient.Value)
	if err != nil || resolved == nil {
		state.AttemptCount = 1
		return Transition{
			Prompt:  fmt.Sprintf("i couldn't find %s in your contacts. who should receive it?", intent.Recipient.Value),
			Outcome: OutcomeReprompt,
		}
	}

	state.Recipient = resolved
	if state.Amount == "" {
		state.Step = domain.StepAwaitingAmount
		prompt := fmt.Sprintf("how much eth would you like to send to %s?", resolved.DisplayName)
		if amountErr != nil {
			prompt = amountReason(amountErr, m.limits)
		}
		return Transition{Prompt: prompt, Outcome: OutcomeFilled}
	}

	state.Step = domain.StepAwaitingConfirmation
	return Transition{Prompt: m.confirmPrompt(state), Outcome: OutcomeFilled}
}

// Advance feeds one utterance into a non-Idle dialogue. Cancel words win
// over everything else regardless of the current step.
func (m *Machine) Advance(ctx context.Context, state *domain.DialogueState, text string, resolve resolveFunc) Transition {
	if containsPhrase(text, m.cancels) {
		state.Reset()
		return Transition{Prompt: "okay, i've cancelled the transfer.", Outcome: OutcomeCancelled}
	}

	switch state.Step {
	case domain.StepAwaitingRecipient:
		return m.advanceRecipient(ctx, state, text, resolve)
	case domain.StepAwaitingAmount:
		return m.advanceAmount(state, text)
	case domain.StepAwaitingConfirmation:
		return m.advanceConfirmation(state, text)
	default:
		state.Reset()
		return Transition{Prompt: "sorry, something went wrong. let's start over.", Outcome: OutcomeAborted}
	}
}

func (m *Machine) advanceRecipient(ctx context.Context, state *domain.DialogueState, text string, resolve resolveFunc) Transition {
	resolved, err := resolve(ctx, text)
	if err != nil || resolved == nil {
		return m.failStep(state, fmt.Sprintf("i couldn't find %s in your contacts. please say a saved name or a full address.", strings.TrimSpace(text)))
	}

	state.Recipient = resolved
	state.AttemptCount = 0

	if state.Amount != "" {
		state.Step = domain.StepAwaitingConfirmation
		return Transition{Prompt: m.confirmPrompt(state), Outcome: OutcomeFilled}
	}

	state.Step = domain.StepAwaitingAmount
	return Transition{
		Prompt:  fmt.Sprintf("how much eth would you like to send to %s?", resolved.DisplayName),
		Outcome: OutcomeFilled,
	}
}

func (m *Machine) advanceAmount(state *domain.DialogueState, text string) Transition {
	canonical, err := ValidateAmount(text, m.limits)
	if err != nil {
		return m.failStep(state, amountReason(err, m.limits))
	}

	state.Amount = canonical
	state.AttemptCount = 0
	state.Step = domain.StepAwaitingConfirmation
	return Transition{Prompt: m.confirmPrompt(state), Outcome: OutcomeFilled}
}

func (m *Machine) advanceConfirmation(state *domain.DialogueState, text string) Transition {
	affirmed := containsPhrase(text, m.affirmative)
	declined := containsPhrase(text, m.negative)

	switch {
	case affirmed && !declined:
		t := Transition{
			Prompt:    "",
			Outcome:   OutcomeConfirmed,
			Execute:   true,
			Recipient: *state.Recipient,
			Amount:    state.Amount,
		}
		state.Reset()
		return t
	case declined && !affirmed:
		state.Reset()
		return Transition{Prompt: "okay, i won't send it.", Outcome: OutcomeDeclined}
	default:
		return m.failStep(state, "sorry, was that a yes or a no? "+m.confirmPrompt(state))
	}
}

// failStep counts one failed attempt in the current step and either
// reprompts or aborts the dialogue once the budget is spent. The budget is
// per step: filling a field resets the counter for the next step.
func (m *Machine) failStep(state *domain.DialogueState, reprompt string) Transition {
	state.AttemptCount++
	if state.AttemptCount >= m.maxAttempts {
		state.Reset()
		return Transition{
			Prompt:  "i'm having trouble understanding. i've cancelled the transfer, let's try again later.",
			Outcome: OutcomeAborted,
		}
	}
	return Transition{Prompt: reprompt, Outcome: OutcomeReprompt}
}

func (m *Machine) confirmPrompt(state *domain.DialogueState) string {
	return fmt.Sprintf("you're sending %s eth to %s. should i go ahead?", state.Amount, state.Recipient.DisplayName)
}

// amountReason turns a validation error into the spoken reason. Raw error
// text is never read aloud.
func amountReason(err error, limits AmountLimits) string {
	switch {
	case errors.Is(err, ErrAmountAboveMaximum):
		return fmt.Sprintf("that's more than the %s eth limit per transfer. please say a smaller amount.", limits.Max)
	case errors.Is(err, ErrAmountBelowMinimum):
		return fmt.Sprintf("that's below the minimum of %s eth. please say a larger amount.", limits.Min)
	case errors.Is(err, ErrAmountNotPositive):
		return "the amount has to be more than zero. how much would you like to send?"
	default:
		return "that didn't sound like a number to me. how much eth would you like to send?"
	}
}

// containsPhrase reports whether any vocabulary phrase occurs in the text
// as a whole-word sequence. Plain substring matching would let "now" match
// "no", so matching happens at word granularity.
func containsPhrase(text string, phrases []string) bool {
	words := strings.Fields(strings.ToLower(text))
	for _, phrase := range phrases {
		parts := strings.Fields(phrase)
		if len(parts) == 0 || len(parts) > len(words) {
			continue
		}
		for i := 0; i+len(parts) <= len(words); i++ {
			match := true
			for j := range parts {
				if trimPunct(words[i+j]) != parts[j] {
					match = false
					break
				}
			}
			if match {
				return true
			}
		}
	}
	return false
}

func trimPunct(w string) string {
	return strings.Trim(w, ",.!?;:'\"")
}
