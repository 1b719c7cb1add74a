package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values, so secrets can stay out
// of the profile file.
const (
	envSubscriptionID = "AZFLEET_SUBSCRIPTION_ID"
	envTenantID       = "AZFLEET_TENANT_ID"
	envClientID       = "AZFLEET_CLIENT_ID"
	envClientSecret   = "AZFLEET_CLIENT_SECRET"
)

// LoadFile reads and parses the profile from a YAML file, applies
// environment overrides, and validates the result.
func LoadFile(path string) (*Profile, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var profile Profile
	if err := mapstructure.Decode(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	applyEnvOverrides(&profile)

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	return &profile, nil
}

func applyEnvOverrides(profile *Profile) {
	if v := os.Getenv(envSubscriptionID); v != "" {
		profile.SubscriptionID = v
	}
	if v := os.Getenv(envTenantID); v != "" {
		profile.TenantID = v
	}
	if v := os.Getenv(envClientID); v != "" {
		profile.ClientID = v
	}
	if v := os.Getenv(envClientSecret); v != "" {
		profile.ClientSecret = v
	}
}
