package voice

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/observability/telemetry"
	"github.com/seu-repo/voxwallet/internal/ports"
)

// Assistant is one user's voice session. It owns the dialogue state as a
// single writer: every utterance is processed to completion under the
// session lock before the next one is looked at. Speech recognition and
// synthesis stay on the other side of the ports.Speaker boundary, so the
// whole session is testable synchronously.
type Assistant struct {
	mu    sync.Mutex
	state domain.DialogueState

	userID    string
	machine   *Machine
	contacts  ports.ContactService
	transfers ports.TransferService
	users     ports.UserRepository
	speaker   ports.Speaker
	log       *zap.Logger

	nudgeDelay time.Duration
	speechOpts domain.SpeechOptions
}

// AssistantConfig carries session tuning; zero values fall back to
// defaults.
type AssistantConfig struct {
	Machine    MachineConfig
	NudgeDelay time.Duration
	Speech     domain.SpeechOptions
}

func NewAssistant(
	userID string,
	cfg AssistantConfig,
	contacts ports.ContactService,
	transfers ports.TransferService,
	users ports.UserRepository,
	speaker ports.Speaker,
	log *zap.Logger,
) *Assistant {
	if cfg.Speech == (domain.SpeechOptions{}) {
		cfg.Speech = domain.DefaultSpeechOptions()
	}
	return &Assistant{
		userID:     userID,
		machine:    NewMachine(cfg.Machine),
		contacts:   contacts,
		transfers:  transfers,
		users:      users,
		speaker:    speaker,
		log:        log,
		nudgeDelay: cfg.NudgeDelay,
		speechOpts: cfg.Speech,
	}
}

// HandleUtterance is the single entry point for finalized transcripts.
// While a dialogue is active the utterance is routed into the current
// step, so a second "transfer" command cannot start a parallel dialogue.
func (a *Assistant) HandleUtterance(ctx context.Context, raw string) (*domain.TurnResult, error) {
	start := time.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	normalized := Normalize(raw)
	if normalized == "" {
		telemetry.NoSpeechTotal.Inc()
		return &domain.TurnResult{Intent: domain.IntentFreeText, Step: a.state.Step}, nil
	}

	a.log.Debug("utterance received",
		zap.String("user_id", a.userID),
		zap.String("normalized", normalized),
		zap.String("step", string(a.state.Step)),
	)

	wasActive := a.state.Active
	var result *domain.TurnResult
	if wasActive {
		result = a.handleDialogueTurn(ctx, normalized)
	} else {
		result = a.handleIntent(ctx, normalized)
	}
	a.trackDialogueGauge(wasActive)

	telemetry.VoiceCommandsTotal.WithLabelValues(string(result.Intent), "ok").Inc()
	telemetry.VoiceLatency.Observe(time.Since(start).Seconds())

	return result, nil
}

// handleDialogueTurn advances the active dialogue with one utterance.
func (a *Assistant) handleDialogueTurn(ctx context.Context, normalized string) *domain.TurnResult {
	step := a.state.Step
	tr := a.machine.Advance(ctx, &a.state, normalized, a.resolveRecipient)
	telemetry.DialogueTurnsTotal.WithLabelValues(string(step), tr.Outcome).Inc()

	result := &domain.TurnResult{Intent: domain.IntentTransfer, Step: a.state.Step}
	if tr.Execute {
		result.Executed, result.TransferID = a.execute(ctx, tr)
		result.Spoken = a.executionPrompt(result.Executed, tr)
	} else {
		result.Spoken = tr.Prompt
	}

	if result.Spoken != "" {
		a.speak(ctx, result.Spoken)
	}
	if tr.Outcome == OutcomeReprompt {
		a.scheduleNudge()
	}
	return result
}

// handleIntent answers a fresh utterance when no dialogue is active.
func (a *Assistant) handleIntent(ctx context.Context, normalized string) *domain.TurnResult {
	intent := ParseIntent(normalized)
	result := &domain.TurnResult{Intent: intent.Kind, Step: a.state.Step}

	switch intent.Kind {
	case domain.IntentTransfer:
		tr := a.machine.Begin(ctx, &a.state, intent, a.resolveRecipient)
		telemetry.DialogueTurnsTotal.WithLabelValues(string(domain.StepIdle), tr.Outcome).Inc()
		result.Step = a.state.Step
		result.Spoken = tr.Prompt
		if tr.Outcome == OutcomeReprompt {
			a.scheduleNudge()
		}

	case domain.IntentBalance:
		balance, err := a.transfers.Balance(ctx, a.userID)
		if err != nil {
			a.log.Warn("balance lookup failed", zap.Error(err))
			result.Spoken = "sorry, i couldn't check your balance right now."
		} else {
			result.Spoken = fmt.Sprintf("your balance is %s eth.", balance)
		}

	case domain.IntentContacts:
		result.Spoken = a.contactsPrompt(ctx)

	case domain.IntentTxStatus:
		result.Spoken = a.txStatusPrompt(ctx, intent.TxHash)

	case domain.IntentSwitchNetwork:
		result.Spoken = a.switchNetwork(ctx, intent.Network)

	case domain.IntentCreateWallet:
		result.Spoken = a.createWallet(ctx)

	case domain.IntentImportWallet:
		result.Spoken = "to import a wallet, use the import screen in the app. i can't take a recovery phrase by voice."

	default:
		result.Spoken = "sorry, i didn't catch that. you can say transfer, balance, or contacts."
	}

	if result.Spoken != "" {
		a.speak(ctx, result.Spoken)
	}
	return result
}

// execute hands the confirmed transfer to the executor, exactly once per
// confirmation. The dialogue has already reset; a downstream failure is
// spoken but does not reopen it.
func (a *Assistant) execute(ctx context.Context, tr Transition) (bool, string) {
	transfer, err := a.transfers.Execute(ctx, a.userID, tr.Recipient, tr.Amount)
	if err != nil {
		a.log.Error("transfer execution failed",
			zap.String("user_id", a.userID),
			zap.String("to", tr.Recipient.Address),
			zap.String("amount", tr.Amount),
			zap.Error(err),
		)
		return false, ""
	}

	if tr.Recipient.Kind == domain.RecipientContact {
		if contact, err := a.contacts.FindByAddress(ctx, a.userID, tr.Recipient.Address); err == nil && contact != nil {
			if err := a.contacts.MarkUsed(ctx, contact.ID); err != nil {
				a.log.Warn("mark contact used failed", zap.String("contact_id", contact.ID), zap.Error(err))
			}
		}
	}

	return true, transfer.ID
}

func (a *Assistant) executionPrompt(executed bool, tr Transition) string {
	if !executed {
		return "sorry, the transfer couldn't be sent. nothing has left your wallet."
	}
	return fmt.Sprintf("done. %s eth is on its way to %s.", tr.Amount, tr.Recipient.DisplayName)
}

// HandleNoSpeech re-arms listening after an empty recognition result.
// It is transient noise, not an error: nothing is spoken and nothing is
// counted against the dialogue budget.
func (a *Assistant) HandleNoSpeech(ctx context.Context) {
	telemetry.NoSpeechTotal.Inc()
	a.log.Debug("no speech detected", zap.String("user_id", a.userID))
}

// HandleSpeechError speaks a short failure notice for hard engine errors.
func (a *Assistant) HandleSpeechError(ctx context.Context, code string) {
	telemetry.SpeechErrorsTotal.WithLabelValues(code).Inc()
	a.log.Warn("speech engine error", zap.String("user_id", a.userID), zap.String("code", code))

	msg := "sorry, something went wrong with speech recognition."
	switch code {
	case "not-allowed", "permission-denied":
		msg = "i don't have microphone permission. please enable it and try again."
	case "network":
		msg = "i'm having network trouble hearing you. please try again in a moment."
	}
	a.speak(ctx, msg)
}

// Snapshot returns a read-only copy of the dialogue state for UIs.
func (a *Assistant) Snapshot() domain.DialogueSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Snapshot()
}

// Cancel forces the dialogue back to idle from any step.
func (a *Assistant) Cancel(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.state.Active {
		return nil
	}
	step := a.state.Step
	a.state.Reset()
	telemetry.DialogueTurnsTotal.WithLabelValues(string(step), OutcomeCancelled).Inc()
	telemetry.ActiveDialogues.Dec()
	a.speak(ctx, "okay, i've cancelled the transfer.")
	return nil
}

// resolveRecipient tries the literal address pattern before any fuzzy
// contact lookup: a full address is unambiguous and must not be shadowed
// by an accidental name match.
func (a *Assistant) resolveRecipient(ctx context.Context, text string) (*domain.ResolvedRecipient, error) {
	candidate := strings.TrimSpace(strings.ToLower(text))
	candidate = strings.ReplaceAll(candidate, " ", "")

	if addressRE.MatchString(candidate) {
		resolved := &domain.ResolvedRecipient{
			Kind:        domain.RecipientAddress,
			Address:     candidate,
			DisplayName: shortAddress(candidate),
		}
		if contact, err := a.contacts.FindByAddress(ctx, a.userID, candidate); err == nil && contact != nil {
			resolved.DisplayName = contact.Name
		}
		return resolved, nil
	}

	contact, err := a.contacts.FindByName(ctx, a.userID, strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, nil
	}
	return &domain.ResolvedRecipient{
		Kind:        domain.RecipientContact,
		Address:     contact.Address,
		DisplayName: contact.Name,
	}, nil
}

func (a *Assistant) contactsPrompt(ctx context.Context) string {
	contacts, err := a.contacts.List(ctx, a.userID)
	if err != nil {
		a.log.Warn("contact list failed", zap.Error(err))
		return "sorry, i couldn't read your contacts right now."
	}
	if len(contacts) == 0 {
		return "you don't have any saved contacts yet."
	}

	names := make([]string, 0, len(contacts))
	for i, c := range contacts {
		if i == 5 {
			names = append(names, fmt.Sprintf("and %d more", len(contacts)-5))
			break
		}
		names = append(names, c.Name)
	}
	return fmt.Sprintf("you have %d saved contacts: %s.", len(contacts), strings.Join(names, ", "))
}

func (a *Assistant) txStatusPrompt(ctx context.Context, hash string) string {
	var transfer *domain.Transfer
	var err error
	if hash != "" {
		transfer, err = a.transfers.GetByTxHash(ctx, hash)
	} else {
		transfer, err = a.transfers.GetLatest(ctx, a.userID)
	}
	if err != nil {
		a.log.Warn("transfer status lookup failed", zap.Error(err))
		return "sorry, i couldn't look that up right now."
	}
	if transfer == nil {
		return "i couldn't find that transaction."
	}

	to := transfer.ToName
	if to == "" {
		to = shortAddress(transfer.ToAddress)
	}
	switch transfer.Status {
	case domain.TransferStatusConfirmed:
		return fmt.Sprintf("your transfer of %s eth to %s is confirmed.", transfer.Amount, to)
	case domain.TransferStatusFailed:
		return fmt.Sprintf("your transfer of %s eth to %s failed.", transfer.Amount, to)
	default:
		return fmt.Sprintf("your transfer of %s eth to %s is still pending.", transfer.Amount, to)
	}
}

func (a *Assistant) switchNetwork(ctx context.Context, network string) string {
	if network == "" {
		return "which network would you like? you can say mainnet or sepolia."
	}
	if a.users != nil {
		user, err := a.users.FindByID(ctx, a.userID)
		if err == nil && user != nil {
			user.Network = network
			if err := a.users.Update(ctx, user); err != nil {
				a.log.Warn("persist network switch failed", zap.Error(err))
			}
		}
	}
	return fmt.Sprintf("okay, you're on %s now.", network)
}

func (a *Assistant) createWallet(ctx context.Context) string {
	if a.users != nil {
		user, err := a.users.FindByID(ctx, a.userID)
		if err == nil && user != nil && user.WalletAddress != "" {
			return fmt.Sprintf("you already have a wallet ending in %s.", lastChars(user.WalletAddress, 4))
		}
	}
	return "to create a wallet, use the setup screen in the app. once it's ready i can send transfers for you."
}

// speak delivers one reply through the injected speaker. Failures are
// logged, never surfaced to the user as text.
func (a *Assistant) speak(ctx context.Context, text string) {
	if err := a.speaker.Speak(ctx, text, a.speechOpts); err != nil {
		a.log.Warn("speak failed", zap.String("user_id", a.userID), zap.Error(err))
	}
}

// scheduleNudge arms a delayed follow-up for an unanswered reprompt. The
// callback re-checks epoch and step under the lock so a dialogue that was
// reset or advanced in the meantime is never spoken over.
func (a *Assistant) scheduleNudge() {
	if a.nudgeDelay <= 0 {
		return
	}
	epoch := a.state.Epoch
	step := a.state.Step
	time.AfterFunc(a.nudgeDelay, func() {
		a.nudge(epoch, step)
	})
}

func (a *Assistant) nudge(epoch uint64, step domain.DialogueStep) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.state.Active || a.state.Epoch != epoch || a.state.Step != step {
		return
	}

	var msg string
	switch step {
	case domain.StepAwaitingRecipient:
		msg = "just say a contact name or a full address, or say cancel."
	case domain.StepAwaitingAmount:
		msg = "you can say an amount like zero point five, or say cancel."
	case domain.StepAwaitingConfirmation:
		msg = "should i send it? yes or no."
	default:
		return
	}
	a.speak(context.Background(), msg)
}

// trackDialogueGauge moves the active-dialogue gauge on activity edges
// only, so concurrent sessions don't clobber each other's contribution.
func (a *Assistant) trackDialogueGauge(wasActive bool) {
	switch {
	case !wasActive && a.state.Active:
		telemetry.ActiveDialogues.Inc()
	case wasActive && !a.state.Active:
		telemetry.ActiveDialogues.Dec()
	}
}

func shortAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

func lastChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
