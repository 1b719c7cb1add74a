package provisioning

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/azfleet/azfleet/internal/catalog"
	"github.com/azfleet/azfleet/internal/util/naming"
)

//go:embed templates/deploy_catalog.json
var catalogDescriptor []byte

//go:embed templates/deploy_custom_image.json
var customImageDescriptor []byte

var (
	// ErrRenderDescriptor indicates the embedded base descriptor could not
	// be parsed or overlaid.
	ErrRenderDescriptor = errors.New("render deployment descriptor")

	// ErrUnknownLocation indicates the template's display location has no
	// provider code.
	ErrUnknownLocation = errors.New("unknown location")
)

// DeploymentRequest is one rendered provisioning call. Immutable once
// submitted; afterwards the provider is the source of truth.
type DeploymentRequest struct {
	DeploymentName string
	VMBaseName     string
	Count          int
	Descriptor     map[string]any
}

// descriptor navigates the parsed base document. The base documents are
// fixed top-level shape, so overlay failures mean a corrupted embed.
type descriptor struct {
	root map[string]any
}

func parseDescriptor(raw []byte) (*descriptor, error) {
	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderDescriptor, err)
	}
	return &descriptor{root: root}, nil
}

func (d *descriptor) section(name string) (map[string]any, error) {
	section, ok := d.root[name].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q object", ErrRenderDescriptor, name)
	}
	return section, nil
}

// setParameterDefault replaces the defaultValue of a declared parameter.
func (d *descriptor) setParameterDefault(name string, value any) error {
	params, err := d.section("parameters")
	if err != nil {
		return err
	}
	param, ok := params[name].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: no parameter %q", ErrRenderDescriptor, name)
	}
	param["defaultValue"] = value
	return nil
}

// setVariable replaces or adds a whole-value variable entry.
func (d *descriptor) setVariable(name string, value any) error {
	vars, err := d.section("variables")
	if err != nil {
		return err
	}
	vars[name] = value
	return nil
}

// BuildDeployment renders a deployment request for count workers of the
// template's class. Pure transform; nothing is submitted here.
func BuildDeployment(template *WorkerTemplate, count int, locations *catalog.Catalog) (*DeploymentRequest, error) {
	locationCode, ok := locations.LocationCode(template.Location)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, template.Location)
	}

	raw := catalogDescriptor
	if template.UsesCustomImage() {
		raw = customImageDescriptor
	}
	d, err := parseDescriptor(raw)
	if err != nil {
		return nil, err
	}

	vmBase := naming.VMBase(template.Name, count)

	if err := d.setParameterDefault("count", count); err != nil {
		return nil, err
	}
	if err := d.setParameterDefault("adminUsername", template.AdminUser); err != nil {
		return nil, err
	}
	if err := d.setParameterDefault("adminPassword", template.AdminPassword); err != nil {
		return nil, err
	}

	overlay := map[string]any{
		"vmName":   vmBase,
		"location": locationCode,
	}
	if template.UsesCustomImage() {
		overlay["image"] = template.ImageURI
		if template.OSType != "" {
			overlay["osType"] = template.OSType
		}
	} else {
		setNonBlank(overlay, "imagePublisher", template.ImagePublisher)
		setNonBlank(overlay, "imageOffer", template.ImageOffer)
		setNonBlank(overlay, "imageSku", template.ImageSKU)
	}
	setNonBlank(overlay, "vmSize", template.VMSize)
	setNonBlank(overlay, "storageAccountName", template.StorageAccount)
	setNonBlank(overlay, "virtualNetworkName", template.VirtualNetwork)
	setNonBlank(overlay, "subnetName", template.Subnet)

	for name, value := range overlay {
		if err := d.setVariable(name, value); err != nil {
			return nil, err
		}
	}

	return &DeploymentRequest{
		DeploymentName: naming.Deployment(template.Name),
		VMBaseName:     vmBase,
		Count:          count,
		Descriptor:     d.root,
	}, nil
}

func setNonBlank(overlay map[string]any, name, value string) {
	if value != "" {
		overlay[name] = value
	}
}
