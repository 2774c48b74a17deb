package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     int
	Password string

	InferenceURL      string // base URL of the classification service
	RequestTimeoutSec int    // per-request timeout for /analyze calls
	HealthIntervalSec int    // 0 = probe once at startup only

	CameraID          int // device index handed to OpenCV
	CaptureIntervalMs int

	SimulatedAlerts         bool // demo alert generator while recording
	SimulatedAlertIntervalMs int
	SimulatedAlertChance    float64

	SnapshotDirectory     string
	SnapshotLimit         int
	SnapshotFlushInterval int // seconds

	JournalPath  string // empty disables the SQLite journal
	LogDirectory string

	MQTTBroker   string // empty disables the MQTT alert publisher
	MQTTClientID string
	MQTTTopic    string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:     getEnvAsInt("PORT", 8080),
		Password: getEnv("PASSWORD", "dashcam"),

		InferenceURL:      getEnv("INFERENCE_URL", "http://localhost:5000"),
		RequestTimeoutSec: getEnvAsInt("REQUEST_TIMEOUT", 30),
		HealthIntervalSec: getEnvAsInt("HEALTH_INTERVAL", 0),

		CameraID:          getEnvAsInt("CAMERA_ID", 0),
		CaptureIntervalMs: getEnvAsInt("CAPTURE_INTERVAL", 1000),

		SimulatedAlerts:          getEnvAsBool("SIMULATED_ALERTS", true),
		SimulatedAlertIntervalMs: getEnvAsInt("SIMULATED_ALERT_INTERVAL", 3000),
		SimulatedAlertChance:     getEnvAsFloat("SIMULATED_ALERT_CHANCE", 0.3),

		SnapshotDirectory:     getEnv("SNAPSHOT_DIR", filepath.Join(".", "snapshots")),
		SnapshotLimit:         getEnvAsInt("SNAPSHOT_LIMIT", 7),
		SnapshotFlushInterval: getEnvAsInt("SNAPSHOT_FLUSH_INTERVAL", 30),

		JournalPath:  getEnv("JOURNAL_PATH", filepath.Join("data", "journal.db")),
		LogDirectory: getEnv("LOG_DIR", filepath.Join(".", "logs")),

		MQTTBroker:   getEnv("MQTT_BROKER", ""),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "dashcam-server"),
		MQTTTopic:    getEnv("MQTT_TOPIC", "dashcam/alerts"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
