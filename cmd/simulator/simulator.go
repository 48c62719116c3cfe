package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SimulatorConfig holds the simulator configuration
type SimulatorConfig struct {
	ServerURL  string // ws://host:port/ws/voice
	Token      string
	Confidence float64
}

// outFrame is what a real voice client sends after speech recognition.
type outFrame struct {
	Type       string  `json:"type"`
	Text       string  `json:"text,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Code       string  `json:"code,omitempty"`
}

// inFrame is the union of everything the server pushes: spoken prompts,
// dialogue state and turn results. Decoding into one flat struct keeps
// the printing code simple.
type inFrame struct {
	Type string `json:"type"`

	// speak
	Seq  uint64 `json:"seq,omitempty"`
	Text string `json:"text,omitempty"`

	// state
	Step           string `json:"step,omitempty"`
	Active         bool   `json:"active,omitempty"`
	Amount         string `json:"amount,omitempty"`
	RecipientName  string `json:"recipient_name,omitempty"`
	PendingSummary string `json:"pending_summary,omitempty"`

	// result / transfer update
	Intent     string `json:"intent,omitempty"`
	Spoken     string `json:"spoken,omitempty"`
	Executed   bool   `json:"executed,omitempty"`
	TransferID string `json:"transfer_id,omitempty"`
	Status     string `json:"status,omitempty"`
	TxHash     string `json:"tx_hash,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Simulator pretends to be a voice client: it sends recognized transcripts
// the way a phone app would and prints what the assistant speaks back.
type Simulator struct {
	config *SimulatorConfig
	conn   *websocket.Conn
	log    *zap.Logger

	mu       sync.Mutex // guards writes to conn
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewSimulator creates a new voice client simulator
func NewSimulator(config *SimulatorConfig, log *zap.Logger) *Simulator {
	return &Simulator{
		config:   config,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// Connect connects to the voice WebSocket endpoint
func (s *Simulator) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.config.Token)

	conn, _, err := dialer.Dial(s.config.ServerURL, header)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	s.conn = conn
	s.log.Info("Connected to voice endpoint", zap.String("url", s.config.ServerURL))

	s.wg.Add(1)
	go s.readMessages()

	return nil
}

// Stop closes the connection and waits for the reader to finish
func (s *Simulator) Stop() {
	close(s.stopChan)
	if s.conn != nil {
		s.conn.Close()
	}
	s.wg.Wait()
}

// readMessages reads and prints incoming frames
func (s *Simulator) readMessages() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopChan:
			return
		default:
			_, message, err := s.conn.ReadMessage()
			if err != nil {
				s.log.Error("Read error", zap.Error(err))
				return
			}
			s.handleMessage(message)
		}
	}
}

func (s *Simulator) handleMessage(data []byte) {
	var frame inFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		s.log.Warn("Malformed frame from server", zap.ByteString("data", data))
		return
	}

	switch frame.Type {
	case "speak":
		fmt.Printf("\n🔊 assistant: %s\n> ", frame.Text)

	case "state":
		if frame.Active {
			fmt.Printf("\n-- dialogue: step=%s", frame.Step)
			if frame.PendingSummary != "" {
				fmt.Printf(" pending=%q", frame.PendingSummary)
			}
			fmt.Print("\n> ")
		}

	case "result":
		if frame.Status != "" {
			// Asynchronous transfer update pushed by the announcer.
			fmt.Printf("\n-- transfer %s: %s", frame.TransferID, frame.Status)
			if frame.TxHash != "" {
				fmt.Printf(" tx=%s", frame.TxHash)
			}
			if frame.Reason != "" {
				fmt.Printf(" reason=%q", frame.Reason)
			}
			fmt.Print("\n> ")
			return
		}
		if frame.Executed {
			fmt.Printf("\n-- turn: intent=%s executed transfer_id=%s\n> ", frame.Intent, frame.TransferID)
		} else {
			s.log.Debug("Turn result",
				zap.String("intent", frame.Intent),
				zap.String("step", frame.Step),
			)
		}

	default:
		s.log.Warn("Unknown frame type", zap.String("type", frame.Type))
	}
}

// Say sends a recognized transcript with the configured confidence.
func (s *Simulator) Say(text string) {
	s.sendFrame(outFrame{Type: "transcript", Text: text, Confidence: s.config.Confidence})
}

// Mumble sends a transcript with a confidence low enough for the server
// to treat it as silence.
func (s *Simulator) Mumble(text string) {
	s.sendFrame(outFrame{Type: "transcript", Text: text, Confidence: 0.2})
}

// Silence reports that the recognizer heard nothing.
func (s *Simulator) Silence() {
	s.sendFrame(outFrame{Type: "no_speech"})
}

// SpeechError reports a hard recognizer failure.
func (s *Simulator) SpeechError(code string) {
	s.sendFrame(outFrame{Type: "error", Code: code})
}

// Cancel abandons the current dialogue.
func (s *Simulator) Cancel() {
	s.sendFrame(outFrame{Type: "cancel"})
}

func (s *Simulator) sendFrame(frame outFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		s.log.Error("Failed to marshal frame", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Error("Write error", zap.Error(err))
	}
}

// RunInteractive runs the simulator in interactive mode. Anything that is
// not a command is sent as a spoken utterance.
func (s *Simulator) RunInteractive() {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		parts := strings.Fields(line)

		if len(parts) == 0 {
			fmt.Print("> ")
			continue
		}

		cmd := parts[0]
		args := strings.TrimSpace(strings.TrimPrefix(line, cmd))

		switch cmd {
		case "say":
			if args == "" {
				fmt.Println("Usage: say <text>")
			} else {
				s.Say(args)
			}

		case "mumble":
			if args == "" {
				fmt.Println("Usage: mumble <text>")
			} else {
				s.Mumble(args)
				fmt.Println("Sent low-confidence transcript")
			}

		case "silence":
			s.Silence()
			fmt.Println("Sent no-speech")

		case "error":
			code := "network"
			if args != "" {
				code = args
			}
			s.SpeechError(code)
			fmt.Printf("Sent speech error %q\n", code)

		case "cancel":
			s.Cancel()
			fmt.Println("Sent cancel")

		case "quit", "exit":
			fmt.Println("Goodbye!")
			return

		default:
			s.Say(line)
		}

		fmt.Print("> ")
	}
}
