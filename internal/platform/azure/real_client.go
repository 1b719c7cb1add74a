package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v6"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// RealClient implements Client using the Azure Resource Manager SDK.
type RealClient struct {
	subscriptionID string
	blobEndpoint   string

	groups      *armresources.ResourceGroupsClient
	deployments *armresources.DeploymentsClient
	vms         *armcompute.VirtualMachinesClient
	images      *armcompute.VirtualMachineImagesClient
	nics        *armnetwork.InterfacesClient
	publicIPs   *armnetwork.PublicIPAddressesClient
	vnets       *armnetwork.VirtualNetworksClient
	accounts    *armstorage.AccountsClient
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithBlobEndpointSuffix overrides the blob endpoint suffix, needed for
// sovereign clouds ("blob.core.chinacloudapi.cn").
func WithBlobEndpointSuffix(suffix string) ClientOption {
	return func(c *RealClient) {
		c.blobEndpoint = suffix
	}
}

// NewRealClient builds the SDK clients for one subscription.
func NewRealClient(subscriptionID string, cred azcore.TokenCredential, armOpts *arm.ClientOptions, opts ...ClientOption) (*RealClient, error) {
	c := &RealClient{
		subscriptionID: subscriptionID,
		blobEndpoint:   "blob.core.windows.net",
	}
	for _, opt := range opts {
		opt(c)
	}

	var err error
	if c.groups, err = armresources.NewResourceGroupsClient(subscriptionID, cred, armOpts); err != nil {
		return nil, fmt.Errorf("resource groups client: %w", err)
	}
	if c.deployments, err = armresources.NewDeploymentsClient(subscriptionID, cred, armOpts); err != nil {
		return nil, fmt.Errorf("deployments client: %w", err)
	}
	if c.vms, err = armcompute.NewVirtualMachinesClient(subscriptionID, cred, armOpts); err != nil {
		return nil, fmt.Errorf("virtual machines client: %w", err)
	}
	if c.images, err = armcompute.NewVirtualMachineImagesClient(subscriptionID, cred, armOpts); err != nil {
		return nil, fmt.Errorf("images client: %w", err)
	}
	if c.nics, err = armnetwork.NewInterfacesClient(subscriptionID, cred, armOpts); err != nil {
		return nil, fmt.Errorf("network interfaces client: %w", err)
	}
	if c.publicIPs, err = armnetwork.NewPublicIPAddressesClient(subscriptionID, cred, armOpts); err != nil {
		return nil, fmt.Errorf("public IP client: %w", err)
	}
	if c.vnets, err = armnetwork.NewVirtualNetworksClient(subscriptionID, cred, armOpts); err != nil {
		return nil, fmt.Errorf("virtual networks client: %w", err)
	}
	if c.accounts, err = armstorage.NewAccountsClient(subscriptionID, cred, armOpts); err != nil {
		return nil, fmt.Errorf("storage accounts client: %w", err)
	}
	return c, nil
}

var _ Client = (*RealClient)(nil)

// EnsureResourceGroup creates or updates the resource group.
func (c *RealClient) EnsureResourceGroup(ctx context.Context, name, location string) error {
	_, err := c.groups.CreateOrUpdate(ctx, name, armresources.ResourceGroup{
		Location: to.Ptr(location),
	}, nil)
	if err != nil {
		return fmt.Errorf("create or update resource group %s: %w", name, err)
	}
	return nil
}

// CreateDeployment submits an incremental deployment and waits for the
// submission to be accepted.
func (c *RealClient) CreateDeployment(ctx context.Context, resourceGroup, name string, descriptor map[string]any) error {
	poller, err := c.deployments.BeginCreateOrUpdate(ctx, resourceGroup, name, armresources.Deployment{
		Properties: &armresources.DeploymentProperties{
			Mode:     to.Ptr(armresources.DeploymentModeIncremental),
			Template: descriptor,
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("submit deployment %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("deployment %s: %w", name, err)
	}
	return nil
}

// GetVM fetches the VM model fields the orchestrator needs.
func (c *RealClient) GetVM(ctx context.Context, resourceGroup, name string) (*VirtualMachine, error) {
	resp, err := c.vms.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, fmt.Errorf("get vm %s: %w", name, err)
	}
	return decodeVM(resourceGroup, &resp.VirtualMachine), nil
}

func decodeVM(resourceGroup string, vm *armcompute.VirtualMachine) *VirtualMachine {
	out := &VirtualMachine{ResourceGroup: resourceGroup}
	if vm.Name != nil {
		out.Name = *vm.Name
	}
	if p := vm.Properties; p != nil {
		if sp := p.StorageProfile; sp != nil && sp.OSDisk != nil && sp.OSDisk.Vhd != nil && sp.OSDisk.Vhd.URI != nil {
			out.OSDiskURI = *sp.OSDisk.Vhd.URI
		}
		if np := p.NetworkProfile; np != nil && len(np.NetworkInterfaces) > 0 && np.NetworkInterfaces[0].ID != nil {
			out.PrimaryNICID = *np.NetworkInterfaces[0].ID
		}
	}
	return out
}

// GetInstanceViewCodes returns the raw instance view status codes.
func (c *RealClient) GetInstanceViewCodes(ctx context.Context, resourceGroup, name string) ([]string, error) {
	resp, err := c.vms.InstanceView(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, fmt.Errorf("instance view of %s: %w", name, err)
	}
	var codes []string
	for _, status := range resp.Statuses {
		if status != nil && status.Code != nil {
			codes = append(codes, *status.Code)
		}
	}
	return codes, nil
}

// ListVMs lists every VM visible to the credentials.
func (c *RealClient) ListVMs(ctx context.Context) ([]VirtualMachine, error) {
	var out []VirtualMachine
	pager := c.vms.NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list vms: %w", err)
		}
		for _, vm := range page.Value {
			if vm != nil {
				out = append(out, *decodeVM("", vm))
			}
		}
	}
	return out, nil
}

// StartVM powers on the VM and waits for the operation to finish.
func (c *RealClient) StartVM(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.vms.BeginStart(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("start vm %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("start vm %s: %w", name, err)
	}
	return nil
}

// PowerOffVM stops the VM without releasing its allocation.
func (c *RealClient) PowerOffVM(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.vms.BeginPowerOff(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("power off vm %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("power off vm %s: %w", name, err)
	}
	return nil
}

// RestartVM restarts the VM.
func (c *RealClient) RestartVM(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.vms.BeginRestart(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("restart vm %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("restart vm %s: %w", name, err)
	}
	return nil
}

// DeleteVM deletes the VM and waits for completion.
func (c *RealClient) DeleteVM(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.vms.BeginDelete(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("delete vm %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("delete vm %s: %w", name, err)
	}
	return nil
}

// ResolveImage looks the tuple up in the image catalog.
func (c *RealClient) ResolveImage(ctx context.Context, location, publisher, offer, sku, version string) error {
	_, err := c.images.Get(ctx, location, publisher, offer, sku, version, nil)
	if err != nil {
		return fmt.Errorf("resolve image %s:%s:%s:%s: %w", publisher, offer, sku, version, err)
	}
	return nil
}

// GetNetworkInterface fetches a NIC by name.
func (c *RealClient) GetNetworkInterface(ctx context.Context, resourceGroup, name string) (*NetworkInterface, error) {
	resp, err := c.nics.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, fmt.Errorf("get network interface %s: %w", name, err)
	}
	out := &NetworkInterface{Name: name}
	if p := resp.Properties; p != nil && len(p.IPConfigurations) > 0 {
		ipConf := p.IPConfigurations[0]
		if ipConf.Properties != nil && ipConf.Properties.PublicIPAddress != nil && ipConf.Properties.PublicIPAddress.ID != nil {
			out.PublicIPID = *ipConf.Properties.PublicIPAddress.ID
		}
	}
	return out, nil
}

// DeleteNetworkInterface removes a NIC.
func (c *RealClient) DeleteNetworkInterface(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.nics.BeginDelete(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("delete network interface %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("delete network interface %s: %w", name, err)
	}
	return nil
}

// GetPublicIP fetches a public IP resource by name.
func (c *RealClient) GetPublicIP(ctx context.Context, resourceGroup, name string) (*PublicIPAddress, error) {
	resp, err := c.publicIPs.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, fmt.Errorf("get public IP %s: %w", name, err)
	}
	out := &PublicIPAddress{Name: name}
	if p := resp.Properties; p != nil {
		if p.DNSSettings != nil && p.DNSSettings.Fqdn != nil {
			out.FQDN = *p.DNSSettings.Fqdn
		}
		if p.IPAddress != nil {
			out.Address = *p.IPAddress
		}
	}
	return out, nil
}

// DeletePublicIP removes a public IP resource.
func (c *RealClient) DeletePublicIP(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.publicIPs.BeginDelete(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("delete public IP %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("delete public IP %s: %w", name, err)
	}
	return nil
}

// ListVirtualNetworks lists the vnets of a resource group with their subnets.
func (c *RealClient) ListVirtualNetworks(ctx context.Context, resourceGroup string) ([]VirtualNetwork, error) {
	var out []VirtualNetwork
	pager := c.vnets.NewListPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list virtual networks: %w", err)
		}
		for _, vnet := range page.Value {
			if vnet == nil || vnet.Name == nil {
				continue
			}
			entry := VirtualNetwork{Name: *vnet.Name}
			if vnet.Properties != nil {
				for _, subnet := range vnet.Properties.Subnets {
					if subnet != nil && subnet.Name != nil {
						entry.Subnets = append(entry.Subnets, *subnet.Name)
					}
				}
			}
			out = append(out, entry)
		}
	}
	return out, nil
}

// ListStorageAccounts lists the storage accounts of the subscription.
func (c *RealClient) ListStorageAccounts(ctx context.Context) ([]StorageAccount, error) {
	var out []StorageAccount
	pager := c.accounts.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list storage accounts: %w", err)
		}
		for _, account := range page.Value {
			if account == nil || account.Name == nil {
				continue
			}
			entry := StorageAccount{Name: *account.Name}
			if account.Location != nil {
				entry.Location = *account.Location
			}
			out = append(out, entry)
		}
	}
	return out, nil
}

// GetStorageAccountKey returns the first access key of the account.
func (c *RealClient) GetStorageAccountKey(ctx context.Context, resourceGroup, account string) (string, error) {
	resp, err := c.accounts.ListKeys(ctx, resourceGroup, account, nil)
	if err != nil {
		return "", fmt.Errorf("list keys of %s: %w", account, err)
	}
	for _, key := range resp.Keys {
		if key != nil && key.Value != nil {
			return *key.Value, nil
		}
	}
	return "", fmt.Errorf("storage account %s has no keys", account)
}

// DeleteBlobIfExists removes the blob, treating a missing blob or container
// as success.
func (c *RealClient) DeleteBlobIfExists(ctx context.Context, account, key, container, blob string) error {
	cred, err := azblob.NewSharedKeyCredential(account, key)
	if err != nil {
		return fmt.Errorf("blob credential for %s: %w", account, err)
	}
	serviceURL := fmt.Sprintf("https://%s.%s/", account, c.blobEndpoint)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return fmt.Errorf("blob client for %s: %w", account, err)
	}
	if _, err := client.DeleteBlob(ctx, container, blob, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil
		}
		return fmt.Errorf("delete blob %s/%s: %w", container, blob, err)
	}
	return nil
}

// CheckStorageAccountName performs a cheap authenticated request.
func (c *RealClient) CheckStorageAccountName(ctx context.Context, name string) error {
	_, err := c.accounts.CheckNameAvailability(ctx, armstorage.AccountCheckNameAvailabilityParameters{
		Name: to.Ptr(name),
		Type: to.Ptr("Microsoft.Storage/storageAccounts"),
	}, nil)
	if err != nil {
		return fmt.Errorf("check storage account name: %w", err)
	}
	return nil
}
