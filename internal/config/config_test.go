package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv は作業ディレクトリの .env を読まないようにする
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolateEnv(t)

	cfg, err := Load(filepath.Join(dir, "none.yml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 4500*time.Millisecond, cfg.FetchTimeout())
	assert.Equal(t, "MY", cfg.Sources.Country)
	assert.Equal(t, "Malaysia", cfg.Sources.HomeRegion)
	assert.Equal(t, "radar:", cfg.Redis.KeyPrefix)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
log:
  level: debug
fetch:
  timeout_ms: 3000
sources:
  eventbrite_token: from-yaml
redis:
  address: localhost:6379
`), 0o600))

	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("FACEBOOK_TOKEN", "fb")
	t.Setenv("FACEBOOK_PAGE_IDS", "111, 222,,")
	t.Setenv("LOG_DEVELOPMENT", "yes")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "env wins over YAML")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout())
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, []string{"111", "222"}, cfg.Sources.FacebookPageIDs)

	sc := cfg.SourceConfig()
	assert.Equal(t, 3*time.Second, sc.Fetch.Timeout)
	assert.Equal(t, "from-yaml", sc.Credentials.EventbriteToken)
	assert.Equal(t, "fb", sc.Credentials.FacebookToken)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("LINKEDIN_TOKEN=li-from-file\n"), 0o600))
	t.Setenv("ENV_FILE", envPath)
	// godotenv は既存の変数を上書きしないため、一旦消しておく（復元は t.Setenv が行う）
	t.Setenv("LINKEDIN_TOKEN", "")
	require.NoError(t, os.Unsetenv("LINKEDIN_TOKEN"))

	cfg, err := Load(filepath.Join(dir, "none.yml"))
	require.NoError(t, err)
	assert.Equal(t, "li-from-file", cfg.Sources.LinkedInToken)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	cfg.Fetch.TimeoutMS = 0
	cfg.Log.Level = "loud"
	cfg.Redis.DB = -1

	err := cfg.Validate()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	for _, field := range []string{"server.port", "fetch.timeout_ms", "log.level", "redis.db"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	assert.Equal(t, DefaultPath, GetConfigPath())

	t.Setenv("CONFIG_FILE", "/etc/radar.yml")
	assert.Equal(t, "/etc/radar.yml", GetConfigPath())
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "1", "YES", " True "} {
		assert.True(t, parseBool(s), s)
	}
	for _, s := range []string{"", "0", "no", "off"} {
		assert.False(t, parseBool(s), s)
	}
}
