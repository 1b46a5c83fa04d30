// Package config loads sample settings from a .env file layered under the
// process environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Environment keys read by the samples.
const (
	EnvAPIKey     = "AZURE_API_KEY"
	EnvEndpoint   = "AZURE_ENDPOINT"
	EnvAPIVersion = "AZURE_API_VERSION"
	EnvProjectID  = "PROJECT_ID"
	EnvLogLevel   = "SAMPLES_LOG"

	// DefaultEnvFile is the .env file read when no other path is given.
	DefaultEnvFile = ".env"
	// DefaultLogLevel applies when SAMPLES_LOG is unset.
	DefaultLogLevel = "warn"
)

// ConfigurationError signals missing or unreadable setup. It is never retried.
type ConfigurationError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	var msg string
	if e.Key != "" {
		msg = fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
	} else {
		msg = "configuration error: " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Loader resolves settings. Process environment wins over the .env file.
type Loader struct {
	v *viper.Viper
}

// Load reads envFile if it exists. A missing file is not an error; the
// environment alone is used in that case.
func Load(envFile string) (*Loader, error) {
	v := viper.New()
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !os.IsNotExist(err) && !errors.As(err, &notFound) {
				return nil, &ConfigurationError{
					Reason: fmt.Sprintf("cannot read env file %s", envFile),
					Err:    err,
				}
			}
		}
	}

	return &Loader{v: v}, nil
}

// APIKey returns the secret used to authenticate against the service.
func (l *Loader) APIKey() (string, error) {
	return l.required(EnvAPIKey)
}

// Endpoint returns the service endpoint URI.
func (l *Loader) Endpoint() (string, error) {
	return l.required(EnvEndpoint)
}

// ProjectID returns the project created by an earlier create-project run.
func (l *Loader) ProjectID() (string, error) {
	return l.required(EnvProjectID)
}

// APIVersion returns the configured API version, or "" for the client default.
func (l *Loader) APIVersion() string {
	return strings.TrimSpace(l.v.GetString(EnvAPIVersion))
}

// LogLevel returns the configured log level name.
func (l *Loader) LogLevel() string {
	if level := strings.TrimSpace(l.v.GetString(EnvLogLevel)); level != "" {
		return level
	}
	return DefaultLogLevel
}

func (l *Loader) required(key string) (string, error) {
	value := strings.TrimSpace(l.v.GetString(key))
	if value == "" {
		return "", &ConfigurationError{Key: key, Reason: "is not set"}
	}
	return value, nil
}
