package azure

import "context"

// MockClient implements Client with per-call override hooks. Tests set only
// the funcs they care about; everything else returns a benign default.
type MockClient struct {
	EnsureResourceGroupFunc     func(ctx context.Context, name, location string) error
	CreateDeploymentFunc        func(ctx context.Context, resourceGroup, name string, descriptor map[string]any) error
	GetVMFunc                   func(ctx context.Context, resourceGroup, name string) (*VirtualMachine, error)
	GetInstanceViewCodesFunc    func(ctx context.Context, resourceGroup, name string) ([]string, error)
	ListVMsFunc                 func(ctx context.Context) ([]VirtualMachine, error)
	StartVMFunc                 func(ctx context.Context, resourceGroup, name string) error
	PowerOffVMFunc              func(ctx context.Context, resourceGroup, name string) error
	RestartVMFunc               func(ctx context.Context, resourceGroup, name string) error
	DeleteVMFunc                func(ctx context.Context, resourceGroup, name string) error
	ResolveImageFunc            func(ctx context.Context, location, publisher, offer, sku, version string) error
	GetNetworkInterfaceFunc     func(ctx context.Context, resourceGroup, name string) (*NetworkInterface, error)
	DeleteNetworkInterfaceFunc  func(ctx context.Context, resourceGroup, name string) error
	GetPublicIPFunc             func(ctx context.Context, resourceGroup, name string) (*PublicIPAddress, error)
	DeletePublicIPFunc          func(ctx context.Context, resourceGroup, name string) error
	ListVirtualNetworksFunc     func(ctx context.Context, resourceGroup string) ([]VirtualNetwork, error)
	ListStorageAccountsFunc     func(ctx context.Context) ([]StorageAccount, error)
	GetStorageAccountKeyFunc    func(ctx context.Context, resourceGroup, account string) (string, error)
	DeleteBlobIfExistsFunc      func(ctx context.Context, account, key, container, blob string) error
	CheckStorageAccountNameFunc func(ctx context.Context, name string) error
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) EnsureResourceGroup(ctx context.Context, name, location string) error {
	if m.EnsureResourceGroupFunc != nil {
		return m.EnsureResourceGroupFunc(ctx, name, location)
	}
	return nil
}

func (m *MockClient) CreateDeployment(ctx context.Context, resourceGroup, name string, descriptor map[string]any) error {
	if m.CreateDeploymentFunc != nil {
		return m.CreateDeploymentFunc(ctx, resourceGroup, name, descriptor)
	}
	return nil
}

func (m *MockClient) GetVM(ctx context.Context, resourceGroup, name string) (*VirtualMachine, error) {
	if m.GetVMFunc != nil {
		return m.GetVMFunc(ctx, resourceGroup, name)
	}
	return &VirtualMachine{Name: name, ResourceGroup: resourceGroup}, nil
}

func (m *MockClient) GetInstanceViewCodes(ctx context.Context, resourceGroup, name string) ([]string, error) {
	if m.GetInstanceViewCodesFunc != nil {
		return m.GetInstanceViewCodesFunc(ctx, resourceGroup, name)
	}
	return []string{"ProvisioningState/succeeded", "PowerState/running"}, nil
}

func (m *MockClient) ListVMs(ctx context.Context) ([]VirtualMachine, error) {
	if m.ListVMsFunc != nil {
		return m.ListVMsFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) StartVM(ctx context.Context, resourceGroup, name string) error {
	if m.StartVMFunc != nil {
		return m.StartVMFunc(ctx, resourceGroup, name)
	}
	return nil
}

func (m *MockClient) PowerOffVM(ctx context.Context, resourceGroup, name string) error {
	if m.PowerOffVMFunc != nil {
		return m.PowerOffVMFunc(ctx, resourceGroup, name)
	}
	return nil
}

func (m *MockClient) RestartVM(ctx context.Context, resourceGroup, name string) error {
	if m.RestartVMFunc != nil {
		return m.RestartVMFunc(ctx, resourceGroup, name)
	}
	return nil
}

func (m *MockClient) DeleteVM(ctx context.Context, resourceGroup, name string) error {
	if m.DeleteVMFunc != nil {
		return m.DeleteVMFunc(ctx, resourceGroup, name)
	}
	return nil
}

func (m *MockClient) ResolveImage(ctx context.Context, location, publisher, offer, sku, version string) error {
	if m.ResolveImageFunc != nil {
		return m.ResolveImageFunc(ctx, location, publisher, offer, sku, version)
	}
	return nil
}

func (m *MockClient) GetNetworkInterface(ctx context.Context, resourceGroup, name string) (*NetworkInterface, error) {
	if m.GetNetworkInterfaceFunc != nil {
		return m.GetNetworkInterfaceFunc(ctx, resourceGroup, name)
	}
	return &NetworkInterface{Name: name}, nil
}

func (m *MockClient) DeleteNetworkInterface(ctx context.Context, resourceGroup, name string) error {
	if m.DeleteNetworkInterfaceFunc != nil {
		return m.DeleteNetworkInterfaceFunc(ctx, resourceGroup, name)
	}
	return nil
}

func (m *MockClient) GetPublicIP(ctx context.Context, resourceGroup, name string) (*PublicIPAddress, error) {
	if m.GetPublicIPFunc != nil {
		return m.GetPublicIPFunc(ctx, resourceGroup, name)
	}
	return &PublicIPAddress{Name: name}, nil
}

func (m *MockClient) DeletePublicIP(ctx context.Context, resourceGroup, name string) error {
	if m.DeletePublicIPFunc != nil {
		return m.DeletePublicIPFunc(ctx, resourceGroup, name)
	}
	return nil
}

func (m *MockClient) ListVirtualNetworks(ctx context.Context, resourceGroup string) ([]VirtualNetwork, error) {
	if m.ListVirtualNetworksFunc != nil {
		return m.ListVirtualNetworksFunc(ctx, resourceGroup)
	}
	return nil, nil
}

func (m *MockClient) ListStorageAccounts(ctx context.Context) ([]StorageAccount, error) {
	if m.ListStorageAccountsFunc != nil {
		return m.ListStorageAccountsFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) GetStorageAccountKey(ctx context.Context, resourceGroup, account string) (string, error) {
	if m.GetStorageAccountKeyFunc != nil {
		return m.GetStorageAccountKeyFunc(ctx, resourceGroup, account)
	}
	return "mock-key", nil
}

func (m *MockClient) DeleteBlobIfExists(ctx context.Context, account, key, container, blob string) error {
	if m.DeleteBlobIfExistsFunc != nil {
		return m.DeleteBlobIfExistsFunc(ctx, account, key, container, blob)
	}
	return nil
}

func (m *MockClient) CheckStorageAccountName(ctx context.Context, name string) error {
	if m.CheckStorageAccountNameFunc != nil {
		return m.CheckStorageAccountNameFunc(ctx, name)
	}
	return nil
}
