package config

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Credential builds the service principal credential for this profile.
func (p *Profile) Credential() (azcore.TokenCredential, error) {
	opts := &azidentity.ClientSecretCredentialOptions{
		ClientOptions: azcore.ClientOptions{Cloud: p.cloudConfig()},
	}
	cred, err := azidentity.NewClientSecretCredential(p.TenantID, p.ClientID, p.ClientSecret, opts)
	if err != nil {
		return nil, fmt.Errorf("build credential: %w", err)
	}
	return cred, nil
}

// ARMOptions returns the resource manager client options for this profile's
// cloud environment.
func (p *Profile) ARMOptions() *arm.ClientOptions {
	return &arm.ClientOptions{
		ClientOptions: azcore.ClientOptions{Cloud: p.cloudConfig()},
	}
}

// BlobEndpointSuffix returns the storage blob endpoint suffix for this
// profile's cloud environment.
func (p *Profile) BlobEndpointSuffix() string {
	if p.isChinaCloud() {
		return "blob.core.chinacloudapi.cn"
	}
	return "blob.core.windows.net"
}

func (p *Profile) cloudConfig() cloud.Configuration {
	if p.isChinaCloud() {
		return cloud.AzureChina
	}
	return cloud.AzurePublic
}

func (p *Profile) isChinaCloud() bool {
	return strings.Contains(strings.ToLower(p.ManagementURL), "china")
}
