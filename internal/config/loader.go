package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/taskpulse/backend/pkg/utils/crypto"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Mail     MailConfig     `mapstructure:"mail"`
	Features FeaturesConfig `mapstructure:"features"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	Path            string        `mapstructure:"path"` // sqlite file, ":memory:" allowed
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type LoggerConfig struct {
	Level            string        `mapstructure:"level"`
	Encoding         string        `mapstructure:"encoding"`
	OutputPaths      []string      `mapstructure:"output_paths"`
	ErrorOutputPaths []string      `mapstructure:"error_output_paths"`
	File             LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables a rotating JSON log file next to the console output.
// An empty Filename disables it.
type LogFileConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type ReminderConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Interval      time.Duration `mapstructure:"interval"`
	Window        time.Duration `mapstructure:"window"`
	RunOnStart    bool          `mapstructure:"run_on_start"`
	SubjectPrefix string        `mapstructure:"subject_prefix"`
	Signature     string        `mapstructure:"signature"`
}

type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	// TLSPolicy is "opportunistic" (default), "mandatory" or "none".
	TLSPolicy string        `mapstructure:"tls_policy"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func (m *MailConfig) Address() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

type FeaturesConfig struct {
	RequestIDHeader      string `mapstructure:"request_id_header"`
	EnableRequestLogging bool   `mapstructure:"enable_request_logging"`
	EnableTimeline       bool   `mapstructure:"enable_timeline"`
}

type AuthConfig struct {
	AdminAPIKey    string   `mapstructure:"admin_api_key"`
	OwnerHeader    string   `mapstructure:"owner_header"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SecurityConfig holds the key that opens "enc:" values elsewhere in the file.
type SecurityConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "taskpulse.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.output_paths", []string{"stdout"})
	v.SetDefault("logger.error_output_paths", []string{"stderr"})
	v.SetDefault("logger.file.max_size_mb", 50)
	v.SetDefault("logger.file.max_backups", 5)
	v.SetDefault("logger.file.max_age_days", 14)

	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.interval", time.Hour)
	v.SetDefault("reminder.window", 24*time.Hour)
	v.SetDefault("reminder.subject_prefix", "TaskPulse")
	v.SetDefault("reminder.signature", "TaskPulse Team")

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "noreply@taskpulse.local")
	v.SetDefault("mail.tls_policy", "opportunistic")
	v.SetDefault("mail.timeout", "30s")

	v.SetDefault("features.request_id_header", "X-Request-ID")
	v.SetDefault("features.enable_timeline", true)

	v.SetDefault("auth.owner_header", "X-User-ID")
}

func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("TASKPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.openSecrets(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Reminder.Enabled && c.Reminder.Interval <= 0 {
		return fmt.Errorf("config: reminder.interval must be positive")
	}
	if c.Reminder.Window <= 0 {
		return fmt.Errorf("config: reminder.window must be positive")
	}
	if c.Mail.Enabled && c.Mail.Host == "" {
		return fmt.Errorf("config: mail.host is required when mail is enabled")
	}
	switch c.Mail.TLSPolicy {
	case "", "opportunistic", "mandatory", "none":
	default:
		return fmt.Errorf("config: unsupported mail.tls_policy %q", c.Mail.TLSPolicy)
	}
	return nil
}

func (c *Config) openSecrets() error {
	secrets := map[string]*string{
		"database.password":  &c.Database.Password,
		"mail.password":      &c.Mail.Password,
		"auth.admin_api_key": &c.Auth.AdminAPIKey,
	}
	for name, field := range secrets {
		plain, err := crypto.Open(*field, c.Security.EncryptionKey)
		if err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
		*field = plain
	}
	return nil
}
