package azure

import "context"

// VirtualMachine is the subset of a VM the orchestrator acts on.
type VirtualMachine struct {
	Name          string
	ResourceGroup string

	// OSDiskURI is the blob URI backing the OS disk, empty for managed disks.
	OSDiskURI string

	// PrimaryNICID is the ARM resource ID of the first network interface.
	PrimaryNICID string
}

// NetworkInterface describes a NIC as far as address resolution needs it.
type NetworkInterface struct {
	Name       string
	PublicIPID string
}

// PublicIPAddress carries the externally reachable identity of a machine.
type PublicIPAddress struct {
	Name    string
	FQDN    string
	Address string
}

// VirtualNetwork lists a vnet and its subnet names.
type VirtualNetwork struct {
	Name    string
	Subnets []string
}

// StorageAccount identifies a storage account visible to the credentials.
type StorageAccount struct {
	Name     string
	Location string
}

// DeploymentManager covers resource group and deployment submission.
type DeploymentManager interface {
	// EnsureResourceGroup creates the resource group or updates its
	// location tag. Safe to call repeatedly.
	EnsureResourceGroup(ctx context.Context, name, location string) error

	// CreateDeployment submits the descriptor as an incremental deployment:
	// resources already in the group are left untouched.
	CreateDeployment(ctx context.Context, resourceGroup, name string, descriptor map[string]any) error
}

// ComputeManager covers VM CRUD, power operations, and the image catalog.
type ComputeManager interface {
	GetVM(ctx context.Context, resourceGroup, name string) (*VirtualMachine, error)

	// GetInstanceViewCodes returns the raw status codes of the VM's
	// instance view, e.g. "ProvisioningState/succeeded". The list is
	// unordered and either kind of code may be absent.
	GetInstanceViewCodes(ctx context.Context, resourceGroup, name string) ([]string, error)

	ListVMs(ctx context.Context) ([]VirtualMachine, error)
	StartVM(ctx context.Context, resourceGroup, name string) error
	PowerOffVM(ctx context.Context, resourceGroup, name string) error
	RestartVM(ctx context.Context, resourceGroup, name string) error
	DeleteVM(ctx context.Context, resourceGroup, name string) error

	// ResolveImage checks that a catalog image tuple exists. An empty
	// version asks for the latest published one.
	ResolveImage(ctx context.Context, location, publisher, offer, sku, version string) error
}

// NetworkManager covers the per-VM network identity resources.
type NetworkManager interface {
	GetNetworkInterface(ctx context.Context, resourceGroup, name string) (*NetworkInterface, error)
	DeleteNetworkInterface(ctx context.Context, resourceGroup, name string) error
	GetPublicIP(ctx context.Context, resourceGroup, name string) (*PublicIPAddress, error)
	DeletePublicIP(ctx context.Context, resourceGroup, name string) error
	ListVirtualNetworks(ctx context.Context, resourceGroup string) ([]VirtualNetwork, error)
}

// StorageManager covers storage accounts and OS disk blob removal.
type StorageManager interface {
	ListStorageAccounts(ctx context.Context) ([]StorageAccount, error)
	GetStorageAccountKey(ctx context.Context, resourceGroup, account string) (string, error)

	// DeleteBlobIfExists removes the blob; a missing blob or container is
	// success, not an error.
	DeleteBlobIfExists(ctx context.Context, account, key, container, blob string) error

	// CheckStorageAccountName performs a cheap authenticated call, used to
	// verify that the subscription profile works at all.
	CheckStorageAccountName(ctx context.Context, name string) error
}

// Client combines every provider capability the system consumes.
type Client interface {
	DeploymentManager
	ComputeManager
	NetworkManager
	StorageManager
}
