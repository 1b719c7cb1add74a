// Package catalog holds the static location and machine-size catalogs keyed
// by display name. The provider's catalog APIs are not usable with the
// credential flow this tool supports, so the tables are compiled in. A
// Catalog is immutable after construction and injected into the components
// that need it.
package catalog

import (
	"sort"
	"strings"
)

// Catalog maps human-readable location names to provider location codes and
// to the machine sizes offered there.
type Catalog struct {
	locations map[string]string
	sizes     map[string][]string
}

// New returns the catalog for the standard public cloud.
func New() *Catalog {
	return &Catalog{locations: standardLocations, sizes: roleSizes}
}

// ForManagementURL selects the sovereign-cloud catalog when the management
// endpoint indicates one, otherwise the standard catalog.
func ForManagementURL(managementURL string) *Catalog {
	if isChinaEndpoint(managementURL) {
		return &Catalog{locations: chinaLocations, sizes: roleSizes}
	}
	return New()
}

func isChinaEndpoint(url string) bool {
	return strings.Contains(strings.ToLower(url), "china")
}

// LocationCode resolves a display name ("East US") to the code used in
// deployment descriptors ("eastus"). The second return is false when the
// display name is unknown.
func (c *Catalog) LocationCode(displayName string) (string, bool) {
	code, ok := c.locations[displayName]
	return code, ok
}

// Locations returns the known display names in sorted order.
func (c *Catalog) Locations() []string {
	names := make([]string, 0, len(c.locations))
	for name := range c.locations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sizes returns the machine sizes available in the given display location,
// or nil when the location is unknown.
func (c *Catalog) Sizes(displayName string) []string {
	sizes, ok := c.sizes[displayName]
	if !ok {
		return nil
	}
	return append([]string(nil), sizes...)
}

var standardLocations = map[string]string{
	"East US":             "eastus",
	"East US 2":           "eastus2",
	"West US":             "westus",
	"South Central US":    "southcentralus",
	"Central US":          "centralus",
	"North Central US":    "northcentralus",
	"North Europe":        "northeurope",
	"West Europe":         "westeurope",
	"Southeast Asia":      "southeastasia",
	"East Asia":           "eastasia",
	"Japan West":          "japanwest",
	"Japan East":          "japaneast",
	"Brazil South":        "brazilsouth",
	"Australia Southeast": "australiasoutheast",
	"Australia East":      "australiaeast",
	"Central India":       "centralindia",
	"South India":         "southindia",
	"West India":          "westindia",
}

var chinaLocations = map[string]string{
	"China North": "chinanorth",
	"China East":  "chinaeast",
}

// Size tiers shared by most regions. The per-location table below composes
// these; newer regions lack the older basic tiers.
var (
	basicSizes    = []string{"Basic_A0", "Basic_A1", "Basic_A2", "Basic_A3", "Basic_A4"}
	standardASize = []string{"A5", "A6", "A7", "ExtraSmall", "Small", "Medium", "Large", "ExtraLarge"}
	dSeriesSizes  = []string{
		"Standard_D1", "Standard_D2", "Standard_D3", "Standard_D4",
		"Standard_D11", "Standard_D12", "Standard_D13", "Standard_D14",
	}
	dv2SeriesSizes = []string{
		"Standard_D1_v2", "Standard_D2_v2", "Standard_D3_v2", "Standard_D4_v2", "Standard_D5_v2",
		"Standard_D11_v2", "Standard_D12_v2", "Standard_D13_v2", "Standard_D14_v2",
	}
	dsSeriesSizes = []string{
		"Standard_DS1", "Standard_DS2", "Standard_DS3", "Standard_DS4",
		"Standard_DS11", "Standard_DS12", "Standard_DS13", "Standard_DS14",
	}
	fSeriesSizes = []string{
		"Standard_F1", "Standard_F2", "Standard_F4", "Standard_F8", "Standard_F16",
		"Standard_F1s", "Standard_F2s", "Standard_F4s", "Standard_F8s", "Standard_F16s",
	}
	gSeriesSizes = []string{
		"Standard_G1", "Standard_G2", "Standard_G3", "Standard_G4", "Standard_G5",
		"Standard_GS1", "Standard_GS2", "Standard_GS3", "Standard_GS4", "Standard_GS5",
	}
)

func concat(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var roleSizes = map[string][]string{
	"East US":             concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes),
	"East US 2":           concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes, gSeriesSizes),
	"West US":             concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes, gSeriesSizes),
	"South Central US":    concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes),
	"Central US":          concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes),
	"North Central US":    concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, fSeriesSizes),
	"North Europe":        concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes),
	"West Europe":         concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes, gSeriesSizes),
	"Southeast Asia":      concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes, gSeriesSizes),
	"East Asia":           concat(basicSizes, standardASize, dSeriesSizes, dsSeriesSizes, fSeriesSizes),
	"Japan West":          concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes),
	"Japan East":          concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes),
	"Brazil South":        concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, fSeriesSizes),
	"Australia Southeast": concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes),
	"Australia East":      concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes, gSeriesSizes),
	"Central India":       concat(basicSizes, standardASize, dv2SeriesSizes, fSeriesSizes),
	"South India":         concat(basicSizes, standardASize, dv2SeriesSizes, fSeriesSizes),
	"West India":          concat(basicSizes, standardASize, dv2SeriesSizes),
	"China North":         concat(basicSizes, standardASize, dSeriesSizes, dv2SeriesSizes, dsSeriesSizes, fSeriesSizes, gSeriesSizes),
	"China East":          concat(basicSizes, standardASize, dSeriesSizes, dsSeriesSizes, fSeriesSizes),
}
