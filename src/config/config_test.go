package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalConfig(t *testing.T) {
	content := `
[api]
port = ":9000"

[log]
level = "debug"
format = "console"
service = "nftnav-backend"

[indexer]
endpoint = "https://indexer.example.com/v1"

[name_svc]
nfd_endpoint = "https://nfd.example.com"
envoi_endpoint = "https://envoi.example.com"
naming_contract_id = 777

[ranking]
endpoint = "https://ranking.example.com"

[cache]
freshness_seconds = 300
max_collections = 128
api_cache_seconds = 60
`
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := UnmarshalConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Api.Port)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "https://indexer.example.com/v1", c.Indexer.Endpoint)
	assert.Equal(t, uint64(777), c.NameSvc.NamingContractID)
	assert.Equal(t, 300, c.Cache.FreshnessSeconds)
	assert.Equal(t, 128, c.Cache.MaxCollections)
}

func TestUnmarshalConfigMissingFile(t *testing.T) {
	_, err := UnmarshalConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
