package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable before any network call
func ValidateConfig(cfg *Config) error {
	var errors []string

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{Field: "APIBaseURL", Message: fmt.Sprintf("must be an absolute URL, got %q", cfg.APIBaseURL)}.Error())
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, ValidationError{Field: "APIBaseURL", Message: fmt.Sprintf("unsupported scheme %q", u.Scheme)}.Error())
	}

	if cfg.HTTPTimeout <= 0 {
		errors = append(errors, ValidationError{Field: "HTTPTimeout", Message: "must be positive"}.Error())
	}

	if cfg.StatePath == "" {
		errors = append(errors, ValidationError{Field: "StatePath", Message: "must not be empty"}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
