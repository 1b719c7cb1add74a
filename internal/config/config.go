// Package config loads and validates the subscription profile the tool
// operates under.
package config

import (
	"fmt"
	"strings"
)

// Profile identifies one subscription plus the service principal used to
// manage it. All management calls run under a single profile.
type Profile struct {
	SubscriptionID string `mapstructure:"subscription_id"`
	TenantID       string `mapstructure:"tenant_id"`
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`

	// ManagementURL selects the cloud environment. Empty means the public
	// cloud; sovereign clouds carry their own endpoint.
	ManagementURL string `mapstructure:"management_url"`

	// ResourceGroup is where workers and their deployments live.
	ResourceGroup string `mapstructure:"resource_group"`
}

// Validate checks the fields every management call needs.
func (p *Profile) Validate() error {
	var missing []string
	if p.SubscriptionID == "" {
		missing = append(missing, "subscription_id")
	}
	if p.TenantID == "" {
		missing = append(missing, "tenant_id")
	}
	if p.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if p.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if p.ResourceGroup == "" {
		missing = append(missing, "resource_group")
	}
	if len(missing) > 0 {
		return fmt.Errorf("profile is missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
