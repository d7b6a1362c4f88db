package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, yml string) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	conf := &Config{}
	require.NoError(t, cleanenv.ReadConfig(path, conf))
	return conf
}

func TestConfig_Defaults(t *testing.T) {
	conf := load(t, "env: local\n")
	assert.Equal(t, RunModeWebhook, conf.RunMode)
	assert.Equal(t, StoreMemory, conf.Store)
	assert.Equal(t, "8080", conf.Listen.Port)
	assert.Equal(t, 10, conf.Broadcast.SessionTTLMin)
	assert.NoError(t, conf.Validate())
}

func TestConfig_Bots(t *testing.T) {
	conf := load(t, `
env: prod
bots:
  general:
    enabled: true
    token: "123:abc"
    admin_id: 5
    channel_id: -1001234567890
    channel_username: "@ideal_study"
  study_center:
    enabled: false
`)
	require.NoError(t, conf.Validate())
	assert.Equal(t, int64(-1001234567890), conf.Bots.General.ChannelId)
	assert.Equal(t, int64(5), conf.Bots.General.AdminId)
	assert.False(t, conf.Bots.StudyCenter.Enabled)
}

func TestConfig_ValidateRejects(t *testing.T) {
	conf := load(t, "env: staging\n")
	assert.Error(t, conf.Validate())

	conf = load(t, "store: mongo\n")
	assert.Error(t, conf.Validate())

	conf = load(t, "bots:\n  general:\n    enabled: true\n")
	assert.Error(t, conf.Validate())
}
