package provisioning

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/azfleet/azfleet/internal/catalog"
	"github.com/azfleet/azfleet/internal/platform/azure"
	"github.com/azfleet/azfleet/internal/util/async"
	"github.com/azfleet/azfleet/internal/util/naming"
	"github.com/azfleet/azfleet/internal/util/retry"
)

const (
	startAttempts   = 5
	startDelay      = 30 * time.Second
	profileAttempts = 3
	profileDelay    = 2 * time.Second

	// profileProbeName is an arbitrary valid storage account name used for
	// the cheap authenticated call that verifies credentials work.
	profileProbeName = "azfleetprofilecheck"

	sshPort = 22
)

// DeploymentError marks a failure on the provider side of a submission,
// as opposed to a local rendering problem such as [ErrUnknownLocation] or
// [ErrRenderDescriptor]. Callers branch on it with errors.As.
type DeploymentError struct {
	Deployment string
	Err        error
}

func (e *DeploymentError) Error() string {
	if e.Deployment == "" {
		return "deployment submission: " + e.Err.Error()
	}
	return fmt.Sprintf("deployment %s: %v", e.Deployment, e.Err)
}

func (e *DeploymentError) Unwrap() error { return e.Err }

// DeploymentInfo is the result of a successful submission. It lives until
// every named VM has been resolved into a worker record or failed.
type DeploymentInfo struct {
	DeploymentName string
	VMBaseName     string
	Count          int
}

// Orchestrator drives the VM lifecycle against the provider.
type Orchestrator struct {
	client       azure.Client
	locations    *catalog.Catalog
	queue        *async.Queue
	startRetry   retry.Strategy
	profileRetry retry.Strategy
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStartRetry overrides the power-on retry policy.
func WithStartRetry(s retry.Strategy) Option {
	return func(o *Orchestrator) { o.startRetry = s }
}

// WithProfileRetry overrides the profile verification retry policy.
func WithProfileRetry(s retry.Strategy) Option {
	return func(o *Orchestrator) { o.profileRetry = s }
}

// NewOrchestrator builds an orchestrator. The queue receives the
// fire-and-forget network cleanup tasks of Terminate.
func NewOrchestrator(client azure.Client, locations *catalog.Catalog, queue *async.Queue, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:       client,
		locations:    locations,
		queue:        queue,
		startRetry:   retry.Fixed(startAttempts, startDelay),
		profileRetry: retry.Exponential(profileAttempts, profileDelay, time.Minute),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CreateDeployment ensures the resource group exists, renders the
// descriptor, and submits it as an incremental deployment. Any failure is
// forwarded to the template's failure hook before being returned.
func (o *Orchestrator) CreateDeployment(ctx context.Context, template *WorkerTemplate, count int) (*DeploymentInfo, error) {
	request, err := o.submitDeployment(ctx, template, count)
	if err != nil {
		template.ReportFailure(err.Error(), StageProvisioning)
		return nil, err
	}
	return &DeploymentInfo{
		DeploymentName: request.DeploymentName,
		VMBaseName:     request.VMBaseName,
		Count:          request.Count,
	}, nil
}

func (o *Orchestrator) submitDeployment(ctx context.Context, template *WorkerTemplate, count int) (*DeploymentRequest, error) {
	locationCode, ok := o.locations.LocationCode(template.Location)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, template.Location)
	}
	if err := o.client.EnsureResourceGroup(ctx, template.ResourceGroup, locationCode); err != nil {
		return nil, &DeploymentError{Err: fmt.Errorf("ensure resource group: %w", err)}
	}

	request, err := BuildDeployment(template, count, o.locations)
	if err != nil {
		return nil, err
	}
	log.Printf("[provision] submitting deployment %s (%d workers, base %s)",
		request.DeploymentName, request.Count, request.VMBaseName)

	if err := o.client.CreateDeployment(ctx, template.ResourceGroup, request.DeploymentName, request.Descriptor); err != nil {
		return nil, &DeploymentError{Deployment: request.DeploymentName, Err: err}
	}
	return request, nil
}

// GetStatus fetches and decodes the VM's instance view.
func (o *Orchestrator) GetStatus(ctx context.Context, resourceGroup, vmName string) (VMStatus, error) {
	codes, err := o.client.GetInstanceViewCodes(ctx, resourceGroup, vmName)
	if err != nil {
		return VMStatus{}, fmt.Errorf("status of %s: %w", vmName, err)
	}
	return DecodeInstanceView(codes), nil
}

// Start powers the worker on, retrying on failure up to the configured
// ceiling with a fixed delay.
func (o *Orchestrator) Start(ctx context.Context, record *VMRecord) error {
	err := retry.Do(ctx, o.startRetry, func() error {
		return o.client.StartVM(ctx, record.ResourceGroup, record.Name)
	})
	if err != nil {
		return fmt.Errorf("start %s: %w", record.Name, err)
	}
	return nil
}

// Stop powers the worker off. Best effort: the caller cannot act on a
// failed stop, so errors are logged and swallowed.
func (o *Orchestrator) Stop(ctx context.Context, record *VMRecord) {
	if err := o.client.PowerOffVM(ctx, record.ResourceGroup, record.Name); err != nil {
		log.Printf("[provision] stop %s failed: %v", record.Name, err)
	}
}

// Restart restarts the worker. Single attempt; failure propagates.
func (o *Orchestrator) Restart(ctx context.Context, record *VMRecord) error {
	if err := o.client.RestartVM(ctx, record.ResourceGroup, record.Name); err != nil {
		return fmt.Errorf("restart %s: %w", record.Name, err)
	}
	return nil
}

// Terminate tears the worker down: VM first, then its OS disk blob, with
// the network interface and public IP removal queued as best-effort
// background tasks. A VM that is already gone is not an error, and the
// associated-resource cleanup still runs.
func (o *Orchestrator) Terminate(ctx context.Context, resourceGroup, vmName string) error {
	defer o.queueNetworkCleanup(resourceGroup, vmName)

	var osDiskURI string
	vm, err := o.client.GetVM(ctx, resourceGroup, vmName)
	switch {
	case azure.IsNotFound(err):
		log.Printf("[provision] terminate %s: VM already gone", vmName)
		return nil
	case err != nil:
		return fmt.Errorf("terminate %s: %w", vmName, err)
	default:
		osDiskURI = vm.OSDiskURI
	}

	if err := o.client.DeleteVM(ctx, resourceGroup, vmName); err != nil && !azure.IsNotFound(err) {
		return fmt.Errorf("terminate %s: %w", vmName, err)
	}

	if osDiskURI != "" {
		if err := o.deleteOSDiskBlob(ctx, resourceGroup, osDiskURI); err != nil {
			return fmt.Errorf("terminate %s: %w", vmName, err)
		}
	}
	return nil
}

// queueNetworkCleanup schedules removal of the VM's network identity. The
// resources are named deterministically from the VM name, so this works
// even when the VM itself was never found.
func (o *Orchestrator) queueNetworkCleanup(resourceGroup, vmName string) {
	nicName := naming.NetworkInterface(vmName)
	ipName := naming.PublicIP(vmName)
	o.queue.Submit(async.Task{
		Name: "delete-nic-" + nicName,
		Func: func(ctx context.Context) error {
			if err := o.client.DeleteNetworkInterface(ctx, resourceGroup, nicName); err != nil && !azure.IsNotFound(err) {
				return err
			}
			return nil
		},
	})
	o.queue.Submit(async.Task{
		Name: "delete-ip-" + ipName,
		Func: func(ctx context.Context) error {
			if err := o.client.DeletePublicIP(ctx, resourceGroup, ipName); err != nil && !azure.IsNotFound(err) {
				return err
			}
			return nil
		},
	})
}

// deleteOSDiskBlob resolves the blob's owning storage account from its URI
// host, fetches a key, and removes the blob. Missing blob or container is
// success.
func (o *Orchestrator) deleteOSDiskBlob(ctx context.Context, resourceGroup, diskURI string) error {
	account, container, blob, err := splitBlobURI(diskURI)
	if err != nil {
		return err
	}
	key, err := o.client.GetStorageAccountKey(ctx, resourceGroup, account)
	if err != nil {
		return fmt.Errorf("storage key for %s: %w", account, err)
	}
	if err := o.client.DeleteBlobIfExists(ctx, account, key, container, blob); err != nil {
		return fmt.Errorf("delete OS disk blob %s: %w", diskURI, err)
	}
	return nil
}

// splitBlobURI breaks https://account.blob.../container/path/blob.vhd into
// its addressable parts.
func splitBlobURI(raw string) (account, container, blob string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", "", fmt.Errorf("parse blob URI %q: %w", raw, err)
	}
	account, _, found := strings.Cut(u.Host, ".")
	if !found || account == "" {
		return "", "", "", fmt.Errorf("blob URI %q has no account host segment", raw)
	}
	path := strings.TrimPrefix(u.Path, "/")
	container, blob, found = strings.Cut(path, "/")
	if !found || container == "" || blob == "" {
		return "", "", "", fmt.Errorf("blob URI %q has no container/blob path", raw)
	}
	return account, container, blob, nil
}

// ExistsVM reports whether the VM still exists. A provider not-found is
// false; any other error is conservatively treated as "still exists" so an
// ambiguous failure never causes double-provisioning or skipped cleanup.
func (o *Orchestrator) ExistsVM(ctx context.Context, resourceGroup, vmName string) bool {
	_, err := o.client.GetVM(ctx, resourceGroup, vmName)
	switch {
	case err == nil:
		return true
	case azure.IsNotFound(err):
		return false
	default:
		log.Printf("[provision] existence check for %s ambiguous, assuming it exists: %v", vmName, err)
		return true
	}
}

// CountVMs returns the number of VMs visible to the credentials. On error
// it returns 0: absence of information is treated as "no machines", which
// under-counts rather than blocking new provisioning.
func (o *Orchestrator) CountVMs(ctx context.Context) int {
	vms, err := o.client.ListVMs(ctx)
	if err != nil {
		log.Printf("[provision] list VMs failed, counting 0: %v", err)
		return 0
	}
	return len(vms)
}

// SetWorkerAddress resolves the VM's public address through its network
// interface and public IP, preferring the DNS name over the raw address,
// and records it on the worker.
func (o *Orchestrator) SetWorkerAddress(ctx context.Context, record *VMRecord) error {
	vm, err := o.client.GetVM(ctx, record.ResourceGroup, record.Name)
	if err != nil {
		return fmt.Errorf("resolve address of %s: %w", record.Name, err)
	}

	nicName := lastIDSegment(vm.PrimaryNICID)
	if nicName == "" {
		nicName = naming.NetworkInterface(record.Name)
	}
	nic, err := o.client.GetNetworkInterface(ctx, record.ResourceGroup, nicName)
	if err != nil {
		return fmt.Errorf("resolve address of %s: %w", record.Name, err)
	}

	ipName := lastIDSegment(nic.PublicIPID)
	if ipName == "" {
		ipName = naming.PublicIP(record.Name)
	}
	ip, err := o.client.GetPublicIP(ctx, record.ResourceGroup, ipName)
	if err != nil {
		return fmt.Errorf("resolve address of %s: %w", record.Name, err)
	}

	address := ip.FQDN
	if address == "" {
		address = ip.Address
	}
	if address == "" {
		return fmt.Errorf("worker %s has no public address yet", record.Name)
	}
	record.Address = address
	record.Port = sshPort
	return nil
}

func lastIDSegment(id string) string {
	if id == "" {
		return ""
	}
	return id[strings.LastIndex(id, "/")+1:]
}

// VerifyProfile checks that the subscription credentials work at all, with
// a short exponential retry to ride out transient faults. Rejected
// credentials fail immediately; only throttling and server faults retry.
func (o *Orchestrator) VerifyProfile(ctx context.Context) error {
	err := retry.Do(ctx, o.profileRetry, func() error {
		checkErr := o.client.CheckStorageAccountName(ctx, profileProbeName)
		if checkErr != nil && !azure.IsTransient(checkErr) {
			return retry.Fatal(checkErr)
		}
		return checkErr
	})
	if err != nil {
		return fmt.Errorf("verify subscription profile: %w", err)
	}
	return nil
}
