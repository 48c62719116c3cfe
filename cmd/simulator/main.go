package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

var (
	serverURL  = flag.String("server", "ws://localhost:8080/ws/voice", "Voice WebSocket URL")
	apiURL     = flag.String("api", "http://localhost:8080", "REST API base URL (used for login)")
	token      = flag.String("token", "", "Access token (skips login)")
	email      = flag.String("email", "", "Account email for login")
	password   = flag.String("password", "", "Account password for login")
	confidence = flag.Float64("confidence", 0.92, "Recognition confidence to report")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	// Setup logger
	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	accessToken := *token
	if accessToken == "" {
		if *email == "" || *password == "" {
			fmt.Fprintln(os.Stderr, "Either -token or -email and -password are required")
			os.Exit(1)
		}
		accessToken, err = login(*apiURL, *email, *password)
		if err != nil {
			logger.Fatal("Login failed", zap.Error(err))
		}
		logger.Info("Logged in", zap.String("email", *email))
	}

	config := &SimulatorConfig{
		ServerURL:  *serverURL,
		Token:      accessToken,
		Confidence: *confidence,
	}

	simulator := NewSimulator(config, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down simulator...")
		simulator.Stop()
		os.Exit(0)
	}()

	if err := simulator.Connect(); err != nil {
		logger.Fatal("Failed to connect to server", zap.Error(err))
	}

	fmt.Println("\nVoxWallet Voice Client Simulator")
	fmt.Println("================================")
	fmt.Println("Commands:")
	fmt.Println("  say <text>      - Send a recognized transcript")
	fmt.Println("  mumble <text>   - Send a low-confidence transcript")
	fmt.Println("  silence         - Report that nothing was heard")
	fmt.Println("  error [code]    - Report a recognizer failure")
	fmt.Println("  cancel          - Abandon the current dialogue")
	fmt.Println("  quit            - Exit simulator")
	fmt.Println("")
	fmt.Println("Anything else is sent as speech.")
	fmt.Println("")

	simulator.RunInteractive()
}

// login obtains an access token through the REST API.
func login(apiURL, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(apiURL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned status %d", resp.StatusCode)
	}

	var decoded struct {
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Tokens.AccessToken == "" {
		return "", fmt.Errorf("login response had no access token")
	}

	return decoded.Tokens.AccessToken, nil
}
