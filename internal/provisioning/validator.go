package provisioning

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/azfleet/azfleet/internal/catalog"
	"github.com/azfleet/azfleet/internal/platform/azure"
	"github.com/azfleet/azfleet/internal/util/async"
)

const (
	providerCheckTimeout = 60 * time.Second

	minPasswordLength = 8
	maxPasswordLength = 123
)

// latestVersion is the catalog alias normalized to "unspecified" before
// resolution.
const latestVersion = "latest"

// Validator checks a worker template first field by field, then against the
// provider.
type Validator struct {
	client       azure.Client
	locations    *catalog.Catalog
	checkTimeout time.Duration
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithCheckTimeout overrides the per-provider-check deadline.
func WithCheckTimeout(d time.Duration) ValidatorOption {
	return func(v *Validator) { v.checkTimeout = d }
}

// NewValidator builds a validator.
func NewValidator(client azure.Client, locations *catalog.Catalog, opts ...ValidatorOption) *Validator {
	v := &Validator{
		client:       client,
		locations:    locations,
		checkTimeout: providerCheckTimeout,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns all findings for the template: synchronous field checks
// in fixed order, then the concurrent provider checks (network, then
// image). An empty result means the template is valid. With failFast set,
// the first failing field check short-circuits everything after it,
// including the provider checks.
func (v *Validator) Validate(ctx context.Context, template *WorkerTemplate, failFast bool) []string {
	var findings []string

	fieldChecks := []func(*WorkerTemplate) string{
		checkExecutors,
		checkRetention,
		checkPassword,
		checkRuntimeOptions,
		checkImageParameters,
		v.checkLocation,
	}
	for _, check := range fieldChecks {
		if finding := check(template); finding != "" {
			findings = append(findings, finding)
			if failFast {
				return findings
			}
		}
	}

	providerChecks := []async.Check{
		{Name: "virtual network", Func: v.networkCheck(template)},
		{Name: "image", Func: v.imageCheck(template)},
	}
	return append(findings, async.RunChecks(ctx, v.checkTimeout, providerChecks)...)
}

func checkExecutors(t *WorkerTemplate) string {
	if t.Executors <= 0 {
		return fmt.Sprintf("executor count must be a positive integer, got %d", t.Executors)
	}
	return ""
}

func checkRetention(t *WorkerTemplate) string {
	if t.RetentionMinutes < 0 {
		return fmt.Sprintf("retention minutes must not be negative, got %d", t.RetentionMinutes)
	}
	return ""
}

// checkPassword enforces the provider's password policy: length bounds plus
// at least three of the four character classes.
func checkPassword(t *WorkerTemplate) string {
	p := t.AdminPassword
	if len(p) < minPasswordLength || len(p) > maxPasswordLength {
		return fmt.Sprintf("admin password must be between %d and %d characters", minPasswordLength, maxPasswordLength)
	}
	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	classes := 0
	for _, ok := range []bool{lower, upper, digit, special} {
		if ok {
			classes++
		}
	}
	if classes < 3 {
		return "admin password needs at least three of: lowercase, uppercase, digit, special character"
	}
	return ""
}

// checkRuntimeOptions accepts a blank string or whitespace-separated flags,
// each starting with a dash.
func checkRuntimeOptions(t *WorkerTemplate) string {
	for _, token := range strings.Fields(t.RuntimeOptions) {
		if !strings.HasPrefix(token, "-") {
			return fmt.Sprintf("runtime option %q does not start with a dash", token)
		}
	}
	return ""
}

// checkImageParameters requires exactly one image mode: a well-formed
// custom URI together with an OS type, or a complete catalog tuple.
func checkImageParameters(t *WorkerTemplate) string {
	hasCustom := t.ImageURI != "" || t.OSType != ""
	hasCatalog := t.ImagePublisher != "" || t.ImageOffer != "" || t.ImageSKU != "" || t.ImageVersion != ""

	switch {
	case hasCustom && hasCatalog:
		return "specify either a custom image URI or a publisher/offer/sku/version tuple, not both"
	case hasCustom:
		if t.ImageURI == "" {
			return "custom image OS type given without an image URI"
		}
		if t.OSType == "" {
			return "custom image URI requires an OS type"
		}
		if _, err := url.ParseRequestURI(t.ImageURI); err != nil {
			return fmt.Sprintf("custom image URI %q is not a valid URL", t.ImageURI)
		}
		return ""
	case hasCatalog:
		if t.ImagePublisher == "" || t.ImageOffer == "" || t.ImageSKU == "" || t.ImageVersion == "" {
			return "catalog image reference needs all of publisher, offer, sku, and version"
		}
		return ""
	default:
		return "no image configured: set an image URI with OS type, or a publisher/offer/sku/version tuple"
	}
}

func (v *Validator) checkLocation(t *WorkerTemplate) string {
	if _, ok := v.locations.LocationCode(t.Location); !ok {
		return fmt.Sprintf("location %q is not a known region", t.Location)
	}
	return ""
}

// networkCheck verifies the configured virtual network exists and, when a
// subnet is named, that the network contains it.
func (v *Validator) networkCheck(t *WorkerTemplate) func(context.Context) string {
	return func(ctx context.Context) string {
		if t.VirtualNetwork == "" {
			if t.Subnet != "" {
				return fmt.Sprintf("subnet %q given without a virtual network", t.Subnet)
			}
			return ""
		}
		vnets, err := v.client.ListVirtualNetworks(ctx, t.ResourceGroup)
		if err != nil {
			return fmt.Sprintf("listing virtual networks failed: %v", err)
		}
		for _, vnet := range vnets {
			if vnet.Name != t.VirtualNetwork {
				continue
			}
			if t.Subnet == "" {
				return ""
			}
			for _, subnet := range vnet.Subnets {
				if subnet == t.Subnet {
					return ""
				}
			}
			return fmt.Sprintf("virtual network %q has no subnet %q", t.VirtualNetwork, t.Subnet)
		}
		return fmt.Sprintf("virtual network %q not found", t.VirtualNetwork)
	}
}

// imageCheck verifies the image is usable: a custom VHD must live in the
// configured storage account, a catalog tuple must resolve against the
// provider.
func (v *Validator) imageCheck(t *WorkerTemplate) func(context.Context) string {
	return func(ctx context.Context) string {
		if t.UsesCustomImage() {
			u, err := url.Parse(t.ImageURI)
			if err != nil {
				return fmt.Sprintf("custom image URI %q is not parseable: %v", t.ImageURI, err)
			}
			account, _, _ := strings.Cut(u.Host, ".")
			if account != t.StorageAccount {
				return fmt.Sprintf("custom image lives in storage account %q, expected %q", account, t.StorageAccount)
			}
			return ""
		}

		locationCode, ok := v.locations.LocationCode(t.Location)
		if !ok {
			return fmt.Sprintf("location %q is not a known region", t.Location)
		}
		version := t.ImageVersion
		if strings.EqualFold(version, latestVersion) {
			version = ""
		}
		if err := v.client.ResolveImage(ctx, locationCode, t.ImagePublisher, t.ImageOffer, t.ImageSKU, version); err != nil {
			return fmt.Sprintf("image %s:%s:%s:%s did not resolve: %v",
				t.ImagePublisher, t.ImageOffer, t.ImageSKU, t.ImageVersion, err)
		}
		return ""
	}
}
