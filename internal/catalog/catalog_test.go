package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationCode(t *testing.T) {
	t.Parallel()
	c := New()

	code, ok := c.LocationCode("East US")
	require.True(t, ok)
	assert.Equal(t, "eastus", code)

	_, ok = c.LocationCode("Atlantis")
	assert.False(t, ok)
}

func TestForManagementURL_SelectsSovereignCloud(t *testing.T) {
	t.Parallel()

	std := ForManagementURL("https://management.azure.com/")
	_, ok := std.LocationCode("China North")
	assert.False(t, ok, "standard catalog must not contain sovereign locations")

	cn := ForManagementURL("https://management.chinacloudapi.cn/")
	code, ok := cn.LocationCode("China North")
	require.True(t, ok)
	assert.Equal(t, "chinanorth", code)
	_, ok = cn.LocationCode("East US")
	assert.False(t, ok)
}

func TestSizes(t *testing.T) {
	t.Parallel()
	c := New()

	sizes := c.Sizes("West Europe")
	require.NotEmpty(t, sizes)
	assert.Contains(t, sizes, "Standard_D2_v2")
	assert.Contains(t, sizes, "Standard_G5")

	assert.Nil(t, c.Sizes("Atlantis"))
}

func TestSizes_ReturnsCopy(t *testing.T) {
	t.Parallel()
	c := New()

	sizes := c.Sizes("East US")
	require.NotEmpty(t, sizes)
	sizes[0] = "mutated"

	again := c.Sizes("East US")
	assert.NotEqual(t, "mutated", again[0], "catalog must be immutable")
}

func TestLocations_Sorted(t *testing.T) {
	t.Parallel()
	names := New().Locations()
	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)
}
