package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "samurai_practice.cfg.json"

// ScenarioConfig holds tick intervals and lobby parameters.
type ScenarioConfig struct {
	CommandInterval time.Duration
	OutcomeInterval time.Duration
	PlayerID        string
	Title           string
	Map             string
	RosterFile      string
}

// SQLiteConfig holds settings for the sqlite recording backend.
type SQLiteConfig struct {
	// Path is the database file. Empty means in-memory.
	Path string `json:"path" mapstructure:"path"`
	// DumpPath, when set, receives a copy of the database on close.
	DumpPath string `json:"dumpPath" mapstructure:"dumpPath"`
}

// PostgresConfig holds connection settings for the postgres recording backend.
type PostgresConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// DSN renders the connection string for gorm's postgres driver.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		c.Host, c.Port, c.Username, c.Password, c.Database)
}

// StorageConfig selects and configures the recording backend.
type StorageConfig struct {
	Type          string
	FlushInterval time.Duration
	SQLite        SQLiteConfig
	Postgres      PostgresConfig
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled        bool
	ServiceName    string
	BatchTimeout   time.Duration
	MetricInterval time.Duration
	Endpoint       string
	Insecure       bool
}

// InfluxConfig holds InfluxDB settings for tactical metrics.
type InfluxConfig struct {
	Enabled    bool
	URL        string
	Token      string
	Org        string
	Bucket     string
	BackupPath string
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("scenario.commandInterval", "2s")
	viper.SetDefault("scenario.outcomeInterval", "250ms")
	viper.SetDefault("scenario.playerId", "player")
	viper.SetDefault("scenario.title", "practice")
	viper.SetDefault("scenario.map", "Maps/Practice.png")

	viper.SetDefault("roster.file", "")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.flushInterval", "5s")
	viper.SetDefault("storage.sqlite.path", "")
	viper.SetDefault("storage.sqlite.dumpPath", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "samurai")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "samurai-metrics")
	viper.SetDefault("influx.bucket", "tactics")
	viper.SetDefault("influx.backupPath", "./logs/influx_backup.lp.gz")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "samurai-practice")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.metricInterval", "30s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// GetScenarioConfig returns the scenario settings.
func GetScenarioConfig() ScenarioConfig {
	return ScenarioConfig{
		CommandInterval: viper.GetDuration("scenario.commandInterval"),
		OutcomeInterval: viper.GetDuration("scenario.outcomeInterval"),
		PlayerID:        viper.GetString("scenario.playerId"),
		Title:           viper.GetString("scenario.title"),
		Map:             viper.GetString("scenario.map"),
		RosterFile:      viper.GetString("roster.file"),
	}
}

// GetStorageConfig returns the recording backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:          viper.GetString("storage.type"),
		FlushInterval: viper.GetDuration("storage.flushInterval"),
		SQLite: SQLiteConfig{
			Path:     viper.GetString("storage.sqlite.path"),
			DumpPath: viper.GetString("storage.sqlite.dumpPath"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		BatchTimeout:   viper.GetDuration("otel.batchTimeout"),
		MetricInterval: viper.GetDuration("otel.metricInterval"),
		Endpoint:       viper.GetString("otel.endpoint"),
		Insecure:       viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled: viper.GetBool("influx.enabled"),
		URL: fmt.Sprintf("%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
