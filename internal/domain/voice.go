package domain

// SpeechOptions tunes client-side synthesis of a spoken reply.
type SpeechOptions struct {
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

func DefaultSpeechOptions() SpeechOptions {
	return SpeechOptions{Rate: 1.0, Pitch: 1.0, Volume: 1.0}
}

// TurnResult summarizes one processed utterance for API callers: what was
// understood, what was spoken back, and where the dialogue stands now.
type TurnResult struct {
	Intent     IntentKind   `json:"intent"`
	Spoken     string       `json:"spoken"`
	Step       DialogueStep `json:"step"`
	Executed   bool         `json:"executed"`
	TransferID string       `json:"transfer_id,omitempty"`
}
