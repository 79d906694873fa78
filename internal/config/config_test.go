package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"scenario": { "playerId": "felix" },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "felix", viper.GetString("scenario.playerId"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, 30*time.Second, GetOTelConfig().MetricInterval)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	// defaults are still registered
	assert.Equal(t, 2*time.Second, GetScenarioConfig().CommandInterval)
}

func TestGetScenarioConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	sc := GetScenarioConfig()
	assert.Equal(t, 2*time.Second, sc.CommandInterval)
	assert.Equal(t, 250*time.Millisecond, sc.OutcomeInterval)
	assert.Equal(t, "player", sc.PlayerID)
	assert.Equal(t, "practice", sc.Title)
	assert.Equal(t, "Maps/Practice.png", sc.Map)
	assert.Equal(t, "", sc.RosterFile)
}

func TestGetScenarioConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"scenario": { "commandInterval": "500ms", "outcomeInterval": "1s" },
		"roster": { "file": "rosters.yaml" }
	}`)))

	sc := GetScenarioConfig()
	assert.Equal(t, 500*time.Millisecond, sc.CommandInterval)
	assert.Equal(t, time.Second, sc.OutcomeInterval)
	assert.Equal(t, "rosters.yaml", sc.RosterFile)
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetStorageConfig()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, 5*time.Second, cfg.FlushInterval)
	assert.Equal(t, "", cfg.SQLite.Path)
	assert.Equal(t, "", cfg.SQLite.DumpPath)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "samurai", cfg.Postgres.Database)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"storage": { "type": "sqlite", "flushInterval": "10s", "sqlite": { "dumpPath": "/tmp/aar.db" } }
	}`)))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, 10*time.Second, sc.FlushInterval)
	assert.Equal(t, "", sc.SQLite.Path)
	assert.Equal(t, "/tmp/aar.db", sc.SQLite.DumpPath)
}

func TestPostgresConfig_DSN(t *testing.T) {
	c := PostgresConfig{Host: "db", Port: "5432", Username: "u", Password: "p", Database: "samurai"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=samurai sslmode=disable", c.DSN())
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s",
			"metricInterval": "1m",
			"endpoint": "localhost:4317",
			"insecure": false
		}
	}`)))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, time.Minute, oc.MetricInterval)
	assert.Equal(t, "localhost:4317", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}

func TestGetInfluxConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	ic := GetInfluxConfig()
	assert.Equal(t, false, ic.Enabled)
	assert.Equal(t, "http://localhost:8086", ic.URL)
	assert.Equal(t, "samurai-metrics", ic.Org)
	assert.Equal(t, "tactics", ic.Bucket)
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	viper.Set("testBool", true)

	assert.Equal(t, "testValue", GetString("testKey"))
	assert.Equal(t, true, GetBool("testBool"))
}
