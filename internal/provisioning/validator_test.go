package provisioning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azfleet/azfleet/internal/catalog"
	"github.com/azfleet/azfleet/internal/platform/azure"
)

func TestValidate_ValidTemplate(t *testing.T) {
	t.Parallel()
	v := NewValidator(&azure.MockClient{}, catalog.New())
	findings := v.Validate(context.Background(), testTemplate(), false)
	assert.Empty(t, findings)
}

func TestValidate_FieldChecks(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		mutate func(*WorkerTemplate)
		want   string
	}{
		{"zero executors", func(tpl *WorkerTemplate) { tpl.Executors = 0 }, "executor count"},
		{"negative retention", func(tpl *WorkerTemplate) { tpl.RetentionMinutes = -5 }, "retention minutes"},
		{"short password", func(tpl *WorkerTemplate) { tpl.AdminPassword = "a1!" }, "between"},
		{"weak password", func(tpl *WorkerTemplate) { tpl.AdminPassword = "lowercaseonly" }, "three of"},
		{"bad runtime option", func(tpl *WorkerTemplate) { tpl.RuntimeOptions = "-Xmx2g badflag" }, "dash"},
		{"unknown location", func(tpl *WorkerTemplate) { tpl.Location = "Atlantis" }, "not a known region"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			template := testTemplate()
			tc.mutate(template)
			v := NewValidator(&azure.MockClient{}, catalog.New())
			findings := v.Validate(context.Background(), template, false)
			require.NotEmpty(t, findings)
			assert.Contains(t, findings[0], tc.want)
		})
	}
}

func TestValidate_ImageParameters(t *testing.T) {
	t.Parallel()

	catalogOnly := testTemplate()
	assert.Empty(t, checkImageParameters(catalogOnly))

	customOnly := testTemplate()
	customOnly.ImagePublisher = ""
	customOnly.ImageOffer = ""
	customOnly.ImageSKU = ""
	customOnly.ImageVersion = ""
	customOnly.ImageURI = "https://fleetdisks.blob.core.windows.net/images/base.vhd"
	customOnly.OSType = "Linux"
	assert.Empty(t, checkImageParameters(customOnly))

	neither := testTemplate()
	neither.ImagePublisher = ""
	neither.ImageOffer = ""
	neither.ImageSKU = ""
	neither.ImageVersion = ""
	assert.NotEmpty(t, checkImageParameters(neither))

	both := testTemplate()
	both.ImageURI = "https://fleetdisks.blob.core.windows.net/images/base.vhd"
	both.OSType = "Linux"
	assert.Contains(t, checkImageParameters(both), "not both")

	incomplete := testTemplate()
	incomplete.ImageVersion = ""
	assert.Contains(t, checkImageParameters(incomplete), "all of")
}

func TestValidate_FailFastShortCircuits(t *testing.T) {
	t.Parallel()
	providerCalled := false
	mock := &azure.MockClient{
		ListVirtualNetworksFunc: func(context.Context, string) ([]azure.VirtualNetwork, error) {
			providerCalled = true
			return nil, nil
		},
	}
	template := testTemplate()
	template.Executors = 0
	template.Location = "Atlantis"
	template.VirtualNetwork = "vnet"

	v := NewValidator(mock, catalog.New())
	findings := v.Validate(context.Background(), template, true)
	assert.Len(t, findings, 1)
	assert.False(t, providerCalled)
}

func TestValidate_NetworkCheck(t *testing.T) {
	t.Parallel()
	mock := &azure.MockClient{
		ListVirtualNetworksFunc: func(context.Context, string) ([]azure.VirtualNetwork, error) {
			return []azure.VirtualNetwork{{Name: "fleet-vnet", Subnets: []string{"workers"}}}, nil
		},
	}
	v := NewValidator(mock, catalog.New())

	template := testTemplate()
	template.VirtualNetwork = "fleet-vnet"
	template.Subnet = "workers"
	assert.Empty(t, v.Validate(context.Background(), template, false))

	template.Subnet = "missing"
	findings := v.Validate(context.Background(), template, false)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0], "no subnet")

	template.VirtualNetwork = "other"
	template.Subnet = ""
	findings = v.Validate(context.Background(), template, false)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0], "not found")
}

func TestValidate_SubnetWithoutNetwork(t *testing.T) {
	t.Parallel()
	template := testTemplate()
	template.Subnet = "workers"
	v := NewValidator(&azure.MockClient{}, catalog.New())
	findings := v.Validate(context.Background(), template, false)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0], "without a virtual network")
}

func TestValidate_ImageResolution(t *testing.T) {
	t.Parallel()
	var gotVersion string
	mock := &azure.MockClient{
		ResolveImageFunc: func(_ context.Context, _, _, _, _, version string) error {
			gotVersion = version
			return nil
		},
	}
	v := NewValidator(mock, catalog.New())
	assert.Empty(t, v.Validate(context.Background(), testTemplate(), false))
	// "latest" is normalized to an unspecified version before resolution.
	assert.Equal(t, "", gotVersion)

	failing := NewValidator(&azure.MockClient{
		ResolveImageFunc: func(context.Context, string, string, string, string, string) error {
			return errors.New("no such image")
		},
	}, catalog.New())
	findings := failing.Validate(context.Background(), testTemplate(), false)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0], "did not resolve")
}

func TestValidate_CrossAccountCustomImage(t *testing.T) {
	t.Parallel()
	template := testTemplate()
	template.ImagePublisher = ""
	template.ImageOffer = ""
	template.ImageSKU = ""
	template.ImageVersion = ""
	template.ImageURI = "https://otheraccount.blob.core.windows.net/images/base.vhd"
	template.OSType = "Linux"

	v := NewValidator(&azure.MockClient{}, catalog.New())
	findings := v.Validate(context.Background(), template, false)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0], "otheraccount")
}

func TestValidate_TimeoutYieldsSingleFinding(t *testing.T) {
	t.Parallel()
	mock := &azure.MockClient{
		ListVirtualNetworksFunc: func(ctx context.Context, _ string) ([]azure.VirtualNetwork, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	template := testTemplate()
	template.VirtualNetwork = "fleet-vnet"

	v := NewValidator(mock, catalog.New(), WithCheckTimeout(50*time.Millisecond))
	findings := v.Validate(context.Background(), template, false)

	// The hung network check contributes exactly one finding; the image
	// check succeeded and contributes none.
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0], "did not complete")
}
