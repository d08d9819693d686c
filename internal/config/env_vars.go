package config

import (
	"os"
)

const (
	apiBaseURLVar  = "API_BASE_URL"
	appNameVar     = "APP_NAME"
	httpTimeoutVar = "HTTP_TIMEOUT"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

// GetAPIBaseURL returns the base URL of the CMS REST API
// (e.g., "https://api.hospital.example.com/api/v1"). All resource and auth
// endpoints are resolved relative to it.
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:3000/api/v1")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Hospital CMS Admin")
}

// GetHTTPTimeout returns the outbound request timeout as a duration string
// (e.g., "30s"). Parsed by the caller; an empty value means no timeout.
func (EnvVars) GetHTTPTimeout() string {
	return GetEnv(httpTimeoutVar, "30s")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
