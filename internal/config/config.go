// Package config reads the client's settings from the environment.
package config

import (
	"encoding/hex"
	"os"
	"strconv"
	"time"
)

const (
	baseURLVar    = "FLEET_API_BASE_URL"
	appNameVar    = "FLEET_APP_NAME"
	timeoutVar    = "FLEET_REQUEST_TIMEOUT_SECONDS"
	storePathVar  = "FLEET_STORE_PATH"
	storeKeyVar   = "FLEET_STORE_KEY"
	logLevelVar   = "FLEET_LOG_LEVEL"
	rateLimitVar  = "FLEET_RATE_LIMIT_RPS"
	defaultAppURL = "http://localhost:3000"
)

type Config interface {
	GetBaseURL() string
	GetAppName() string
	GetRequestTimeout() time.Duration
	GetStorePath() string
	GetStoreKey() []byte
	GetLogLevel() string
	GetRateLimitRPS() float64
}

type EnvVars struct{}

var _ Config = EnvVars{}

func New() Config {
	return EnvVars{}
}

func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, defaultAppURL)
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Fleet Admin")
}

func (EnvVars) GetRequestTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv(timeoutVar, "30"))
	if err != nil || seconds <= 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

func (EnvVars) GetStorePath() string {
	if path := GetEnv(storePathVar, ""); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fleetctl/session.json"
	}
	return home + "/.fleetctl/session.json"
}

// GetStoreKey returns the 32 byte hex-decoded sealing key, or nil when the
// store should stay plaintext.
func (EnvVars) GetStoreKey() []byte {
	raw := GetEnv(storeKeyVar, "")
	if raw == "" {
		return nil
	}
	key, err := hex.DecodeString(raw)
	if err != nil || len(key) != 32 {
		return nil
	}
	return key
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

// GetRateLimitRPS returns the client-side request rate limit; zero disables
// throttling.
func (EnvVars) GetRateLimitRPS() float64 {
	raw := GetEnv(rateLimitVar, "")
	if raw == "" {
		return 0
	}
	rps, err := strconv.ParseFloat(raw, 64)
	if err != nil || rps < 0 {
		return 0
	}
	return rps
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
