package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	ActiveDialogues = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voxwallet_active_dialogues",
		Help: "Number of transfer dialogues currently in progress",
	})

	VoiceCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxwallet_voice_commands_total",
		Help: "Voice commands processed, by intent and status",
	}, []string{"intent", "status"})

	VoiceLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxwallet_voice_latency_seconds",
		Help:    "Utterance processing latency",
		Buckets: prometheus.DefBuckets,
	})

	DialogueTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxwallet_dialogue_turns_total",
		Help: "Dialogue turns, by step and outcome",
	}, []string{"step", "outcome"})

	NoSpeechTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voxwallet_no_speech_total",
		Help: "Recognition turns that produced no speech",
	})

	SpeechErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxwallet_speech_errors_total",
		Help: "Hard speech engine failures, by code",
	}, []string{"code"})

	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxwallet_transfers_total",
		Help: "Transfers executed, by final status",
	}, []string{"status"})

	EmailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxwallet_emails_sent_total",
		Help: "Notification emails, by template and outcome",
	}, []string{"template", "status"})

	// Infrastructure metrics
	ChainLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxwallet_chain_latency_seconds",
		Help:    "Wallet engine call latency",
		Buckets: prometheus.DefBuckets,
	})

	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxwallet_database_latency_seconds",
		Help:    "Database query latency",
		Buckets: prometheus.DefBuckets,
	})
)
