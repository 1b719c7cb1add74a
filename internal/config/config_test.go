package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeProfile(t, `
subscription_id: sub-1
tenant_id: tenant-1
client_id: client-1
client_secret: secret-1
resource_group: workers
management_url: https://management.azure.com/
`)
	profile, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", profile.SubscriptionID)
	assert.Equal(t, "workers", profile.ResourceGroup)
	assert.Equal(t, "blob.core.windows.net", profile.BlobEndpointSuffix())
}

func TestLoadFile_MissingFields(t *testing.T) {
	path := writeProfile(t, `
subscription_id: sub-1
tenant_id: tenant-1
`)
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id")
	assert.Contains(t, err.Error(), "resource_group")
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := writeProfile(t, `
subscription_id: sub-1
tenant_id: tenant-1
client_id: client-1
client_secret: from-file
resource_group: workers
`)
	t.Setenv(envClientSecret, "from-env")
	profile, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", profile.ClientSecret)
}

func TestProfile_ChinaCloud(t *testing.T) {
	t.Parallel()
	profile := &Profile{ManagementURL: "https://management.chinacloudapi.cn/"}
	assert.Equal(t, "blob.core.chinacloudapi.cn", profile.BlobEndpointSuffix())
}
